package messaging

import (
	"context"
	"fmt"
	"sync"
)

// Queue decouples the messaging surface from how background work is
// re-invoked; the surface only submits, the environment owns execution.
type Queue interface {
	Submit(task func(ctx context.Context)) error
}

// InProcessQueue runs submitted tasks on goroutines tied to a base
// context, so an in-flight chat task survives the originating request
// but not a service shutdown.
type InProcessQueue struct {
	ctx context.Context
	wg  sync.WaitGroup
}

func NewInProcessQueue(ctx context.Context) *InProcessQueue {
	return &InProcessQueue{ctx: ctx}
}

func (q *InProcessQueue) Submit(task func(ctx context.Context)) error {
	if err := q.ctx.Err(); err != nil {
		return fmt.Errorf("queue is shut down: %w", err)
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		task(q.ctx)
	}()
	return nil
}

// Wait blocks until all submitted tasks return.
func (q *InProcessQueue) Wait() {
	q.wg.Wait()
}
