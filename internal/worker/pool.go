package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing a result of type R
type Job[R any] interface {
	Execute(ctx context.Context) R
}

// JobFunc adapts a plain function to Job
type JobFunc[R any] func(ctx context.Context) R

// Execute calls f
func (f JobFunc[R]) Execute(ctx context.Context) R {
	return f(ctx)
}

// Pool runs jobs on a fixed number of workers. Results are drained as they
// arrive, so Submit never waits on a slow Wait.
type Pool[R any] struct {
	workers int
	jobs    chan Job[R]
	results chan R
	out     *Collector[R]
	drained chan struct{}

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool bound to ctx. workers below 1 means one worker.
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers: workers,
		jobs:    make(chan Job[R], workers*2),
		results: make(chan R, workers*2),
		out:     NewCollector[R](),
		drained: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers and the result drain
func (p *Pool[R]) Start() {
	for range p.workers {
		p.wg.Add(1)
		go p.run()
	}

	go func() {
		defer close(p.drained)
		for r := range p.results {
			p.out.Add(r)
		}
	}()
}

func (p *Pool[R]) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.results <- job.Execute(p.ctx)
		}
	}
}

// Submit queues a job. It reports false when the pool's context is done and
// the job was discarded.
func (p *Pool[R]) Submit(job Job[R]) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns every result in
// completion order
func (p *Pool[R]) Wait() []R {
	close(p.jobs)
	p.wg.Wait()
	p.closeResults()
	<-p.drained
	p.cancel()
	return p.out.Results()
}

// Shutdown stops the workers without running queued jobs
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.drained
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() { close(p.results) })
}

// Collector accumulates results from concurrent producers
type Collector[R any] struct {
	mu      sync.Mutex
	results []R
}

// NewCollector creates an empty collector
func NewCollector[R any]() *Collector[R] {
	return &Collector[R]{results: make([]R, 0)}
}

// Add appends a result
func (c *Collector[R]) Add(r R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Results returns a copy of the collected results
func (c *Collector[R]) Results() []R {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]R, len(c.results))
	copy(out, c.results)
	return out
}
