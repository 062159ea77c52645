// Package task provides the shared pool that runs the persistent
// subscription and child-block tasks spawned during materialization.
//
// Tasks are ordinary goroutines tracked by the pool so a host world can
// drain them on shutdown. Each task receives a context derived from the
// pool caller's; cancelling the returned Handle (or the parent context)
// stops the task at its next suspension point.
package task

import (
	"context"
	"sync"
)

// Pool tracks a set of concurrently running tasks.
type Pool struct {
	wg sync.WaitGroup
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Handle controls one running task.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Spawn starts f on the pool with a context derived from ctx. The task's
// context is cancelled when ctx is cancelled or the handle is.
func (p *Pool) Spawn(ctx context.Context, f func(context.Context)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{})}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(h.done)
		defer cancel()
		f(ctx)
	}()
	return h
}

// Wait blocks until every task spawned so far has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Cancel requests the task stop. It does not wait.
func (h *Handle) Cancel() {
	h.cancel()
}

// Done is closed when the task has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task has finished.
func (h *Handle) Wait() {
	<-h.done
}
