// Package pool provides a bounded, keyed worker pool that offloads
// CPU-bound subtitle rasterization onto a fixed set of background workers.
//
// The pool wraps a host-supplied render.Func and exposes two submission
// paths:
//
//   - RenderSync builds a transient job, queues it, and blocks the caller
//     until a worker has produced the bitmap.
//   - SubmitAsync queues a job under a (track, cue) key; the caller polls
//     TryGet for the result without ever blocking.
//
// # Basic Usage
//
//	p := pool.New(rasterize)
//	if err := p.Start(8); err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Shutdown()
//
//	// Synchronous path: block for one bitmap.
//	art := p.RenderSync(params)
//
//	// Asynchronous path: submit by key, poll later.
//	key := pool.Key{Track: 2, Cue: 41}
//	if err := p.SubmitAsync(key, params); err == pool.ErrQueueFull {
//	    art = p.RenderSync(params) // fall back when saturated
//	}
//	for {
//	    art, status := p.TryGet(key)
//	    if status == pool.StatusReady {
//	        break
//	    }
//	    time.Sleep(time.Millisecond)
//	}
//
// # Admission and Limits
//
// Start clamps the worker count to MaxWorkers (256). SubmitAsync rejects
// with ErrQueueFull once MaxAsyncJobs (1024) keyed jobs are outstanding,
// so a producer can fall back to RenderSync instead of growing memory
// without bound. A pool that was never started, was started with zero
// workers, or has been shut down runs RenderSync calls directly on the
// caller's goroutine and rejects SubmitAsync with ErrNotAccepting.
//
// # Failure Model
//
// A render that fails inside the rasterizer is not an error to the pool:
// it flows through the normal completion path as the empty Artifact. A
// panicking rasterizer is recovered and folded into the same empty result.
// Shutdown is idempotent, safe before Start, and releases every caller
// still blocked in RenderSync with the empty Artifact.
//
// # Ordering
//
// Jobs are dispatched in FIFO order, but renders run concurrently, so
// completion order across jobs is unspecified. Each job individually
// completes exactly once and its result is consumed exactly once: by the
// RenderSync return, by one StatusReady TryGet, or by shutdown
// reclamation.
package pool
