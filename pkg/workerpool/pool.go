// Package workerpool provides a bounded goroutine pool.
//
// The presentation layer uses it to look up product images on a remote disk
// concurrently, so one S3 HEAD per product does not run serially:
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//
//	pool.Each(ctx, len(items), func(i int) {
//	    urls[i], found[i] = lookup(items[i])
//	})
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/shashiranjanraj/catalog/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	// mu guards closed; senders hold it for reading so Shutdown never
	// closes tasks under an in-flight send.
	mu     sync.RWMutex
	closed bool
}

// New creates a Pool with the given number of workers. A size below one
// is raised to one.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		// Buffer equal to 2× the worker count so bursts can be absorbed.
		tasks: make(chan func(), size*2),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
//   - Returns ErrPoolFull if the task queue is at capacity.
//   - Returns ErrPoolClosed if Shutdown has been called.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait is like Submit but blocks until a slot is available or ctx
// is done.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Each runs fn(0) … fn(n-1) on the pool and waits for all of them. Indexes
// that could not be scheduled (pool closed, ctx done) run on the caller's
// goroutine, so fn always runs exactly n times.
func (p *Pool) Each(ctx context.Context, n int, fn func(i int)) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(i)
		}
		if err := p.SubmitWait(ctx, task); err != nil {
			safeRun(task)
		}
	}
	wg.Wait()
}

// Shutdown stops accepting new tasks, waits for queued tasks to finish and
// releases the workers. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// worker drains the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun executes task, recovering from panics so a bad task doesn't kill
// the worker goroutine.
func safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("workerpool: task panicked", "panic", r)
		}
	}()
	task()
}
