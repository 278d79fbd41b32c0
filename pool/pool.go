package pool

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/subpix/renderpool/render"
)

const (
	// MaxWorkers bounds the worker count; Start clamps larger requests
	// silently rather than rejecting them.
	MaxWorkers = 256

	// MaxAsyncJobs bounds the number of outstanding keyed jobs
	// (pending, rendering, or completed but not yet retrieved).
	// SubmitAsync rejects, not clamps, beyond this.
	MaxAsyncJobs = 1024
)

// Pool is a fixed-size worker pool over a host-supplied rasterizer.
// Producers and pollers may call its methods from any number of
// goroutines concurrently.
//
// A Pool is created by New, armed by Start, and torn down by Shutdown.
// Start after Shutdown re-arms the same Pool.
type Pool struct {
	render render.Func
	conf   *config

	// accepting is the fast-path admission flag, published only after
	// every worker is running and cleared first thing on Shutdown.
	accepting atomic.Bool

	// mu guards state and everything inside it: the dispatch queue,
	// the keyed index, and the running flag. Renders never run under
	// it.
	mu    sync.Mutex
	state *poolState
}

// poolState is the runtime state of one Start/Shutdown cycle. Its
// channels never change once created, so workers hold a reference to the
// state they were spawned with and never race a restart.
type poolState struct {
	running bool
	workers int

	queue []*job       // FIFO dispatch queue, shared by all workers
	index map[Key]*job // keyed jobs not yet retrieved

	quit    chan struct{} // closed by Shutdown; wakes idle workers
	wake    chan struct{} // 1-slot notify token; a wake drains the queue
	done    chan struct{} // closed once every worker has exited
	stopped chan struct{} // closed once Shutdown has reclaimed the queue
}

// New creates an unstarted pool around the given rasterizer.
// It panics if fn is nil: the pool is meaningless without one.
func New(fn render.Func, opts ...Option) *Pool {
	if fn == nil {
		panic("pool.New: nil render function")
	}
	return &Pool{
		render: fn,
		conf:   newConfig(opts...),
	}
}

// Start launches the worker set.
//
// workers <= 0 leaves the pool disabled: Start reports success, but every
// RenderSync call executes the rasterizer directly on the caller's
// goroutine and SubmitAsync fails with ErrNotAccepting. Requests above
// MaxWorkers are clamped. Starting a running pool fails with
// ErrAlreadyStarted; starting again after Shutdown is allowed.
//
// The pool is published as accepting only after every worker is running.
func (p *Pool) Start(workers int) error {
	if workers <= 0 {
		return nil
	}
	workers = min(workers, MaxWorkers)

	p.mu.Lock()
	if p.state != nil && p.state.running {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	st := &poolState{
		running: true,
		workers: workers,
		index:   make(map[Key]*job, workers),
		quit:    make(chan struct{}),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	p.state = st
	p.mu.Unlock()

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			return p.work(st)
		})
	}
	go func() {
		_ = g.Wait()
		close(st.done)
	}()

	if m := p.conf.metrics; m != nil {
		m.ActiveWorkers.Set(float64(workers))
	}
	p.accepting.Store(true)
	return nil
}

// Shutdown stops the pool. It is idempotent and safe to call before
// Start.
//
// New submissions are refused immediately; workers finish the render they
// hold, publish its result, and exit; then every job still queued is
// completed with the empty Artifact so callers blocked in RenderSync wake
// with a valid result, and the keyed index is dropped.
func (p *Pool) Shutdown() {
	p.accepting.Store(false)

	p.mu.Lock()
	st := p.state
	if st == nil {
		p.mu.Unlock()
		return
	}
	if !st.running {
		// Another Shutdown won the race; wait until it has joined the
		// workers and reclaimed the queue before returning.
		p.mu.Unlock()
		<-st.stopped
		return
	}
	st.running = false
	close(st.quit)
	p.mu.Unlock()

	<-st.done

	// Workers are gone; nothing else dequeues. Detach the remaining
	// jobs under the lock, release them outside it.
	p.mu.Lock()
	pending := st.queue
	st.queue = nil
	st.index = make(map[Key]*job)
	p.mu.Unlock()

	for _, j := range pending {
		j.complete(render.Artifact{})
	}

	if m := p.conf.metrics; m != nil {
		m.ActiveWorkers.Set(0)
		m.QueueDepth.Set(0)
	}
	close(st.stopped)
}

// Workers returns the number of running workers, zero when the pool is
// stopped or disabled.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil || !p.state.running {
		return 0
	}
	return p.state.workers
}

// QueueDepth returns the number of jobs waiting for a worker.
func (p *Pool) QueueDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return 0
	}
	return len(p.state.queue)
}
