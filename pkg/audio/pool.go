package audio

import (
	"context"
	"sync"
)

// Job is a unit of synthesis work submitted to the pool.
// It returns an error to indicate failure; callers collect results
// through their own channels or shared state.
type Job func(ctx context.Context) error

// Pool runs synthesis jobs on a fixed number of goroutines. Speech
// APIs are slow and rate-limited, so a small pool keeps throughput up
// without hammering the service.
type Pool struct {
	jobs    chan Job
	workers int
	wg      sync.WaitGroup

	mu     sync.Mutex
	ctx    context.Context
	closed bool
}

// NewPool creates a pool with the given number of workers and job
// queue capacity.
func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start begins the worker goroutines and listens for jobs until ctx is
// done or Close is called. Once ctx is cancelled, workers stop and a
// blocked or subsequent Submit returns the context error instead of
// waiting on queue space nobody will free.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job. Returns ErrPoolClosed after Close, or the
// context error once the Start context is cancelled.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	// Before Start the done channel is nil and never fires, so jobs
	// buffer up to the queue capacity.
	var done <-chan struct{}
	if p.ctx != nil {
		done = p.ctx.Done()
	}
	select {
	case <-done:
		return p.ctx.Err()
	default:
	}
	select {
	case p.jobs <- job:
		return nil
	case <-done:
		return p.ctx.Err()
	}
}

// Close stops accepting new jobs and waits for workers to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"audio pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
