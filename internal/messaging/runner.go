package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/willahq/datalake-admin/internal/observability"
)

// TimeoutFallback is the fixed user-facing message when a task exceeds
// its deadline.
const TimeoutFallback = "The analyst is still working on your question. Please try again in a moment."

// Task is a query-bearing unit of work producing a user-facing message.
type Task func(ctx context.Context) (string, error)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeTimedOut
	OutcomeFailed
)

// Outcome always carries a deliverable message; raw task errors never
// reach the delivery channel.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

type Runner struct {
	Logger *slog.Logger
}

// Run executes the task on a worker goroutine and waits up to timeout.
// On timeout the worker is abandoned, not killed; an in-flight engine
// call may still complete server-side.
func (r *Runner) Run(ctx context.Context, task Task, timeout time.Duration) Outcome {
	type result struct {
		message string
		err     error
	}
	done := make(chan result, 1)

	go func() {
		message, err := task(ctx)
		done <- result{message: message, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			r.log().WarnContext(ctx, "chat task failed", slog.Any("error", res.err))
			return Outcome{Kind: OutcomeFailed, Message: fmt.Sprintf("Error: %s", res.err)}
		}
		return Outcome{Kind: OutcomeSuccess, Message: res.message}
	case <-timer.C:
		r.log().WarnContext(ctx, "chat task timed out", slog.String("timeout", timeout.String()))
		return Outcome{Kind: OutcomeTimedOut, Message: TimeoutFallback}
	case <-ctx.Done():
		r.log().WarnContext(ctx, "chat task canceled", slog.Any("error", ctx.Err()))
		return Outcome{Kind: OutcomeTimedOut, Message: TimeoutFallback}
	}
}

type chatResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Deliver posts exactly one chat_response payload to the connection.
// A gone recipient is benign; any other delivery failure propagates.
func (r *Runner) Deliver(ctx context.Context, channel Channel, connectionID string, outcome Outcome) error {
	payload, err := json.Marshal(chatResponse{Type: "chat_response", Message: outcome.Message})
	if err != nil {
		return fmt.Errorf("encode chat response: %w", err)
	}

	result := channel.Send(ctx, connectionID, payload)
	switch result.Status {
	case Delivered:
		observability.IncrementChatDelivery("delivered")
		return nil
	case RecipientGone:
		observability.IncrementChatDelivery("recipient_gone")
		r.log().InfoContext(ctx, "chat recipient gone", slog.String("connection_id", connectionID))
		return nil
	default:
		observability.IncrementChatDelivery("failed")
		return fmt.Errorf("deliver chat response to %s: %w", connectionID, result.Err)
	}
}

func (r *Runner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
