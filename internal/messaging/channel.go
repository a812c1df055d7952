// Package messaging carries analyst replies back to the originating
// connection: a delivery channel abstraction, a time-bounded task
// runner and an in-process queue for fire-and-forget work.
package messaging

import "context"

type DeliveryStatus int

const (
	Delivered DeliveryStatus = iota
	// RecipientGone means the connection disappeared before delivery.
	// Policy lives with the caller, not the channel.
	RecipientGone
	Failed
)

type DeliveryResult struct {
	Status DeliveryStatus
	Err    error
}

type Channel interface {
	Send(ctx context.Context, connectionID string, payload []byte) DeliveryResult
}
