package pool

import "errors"

var (
	// ErrNotAccepting is returned by SubmitAsync when the pool has not
	// been started, was started with zero workers, or has been shut
	// down. Callers are expected to fall back to RenderSync.
	ErrNotAccepting = errors.New("pool is not accepting submissions")

	// ErrQueueFull is returned by SubmitAsync once MaxAsyncJobs keyed
	// jobs are outstanding. The submission is dropped without touching
	// the queue; callers may retry later or fall back to RenderSync.
	ErrQueueFull = errors.New("async job limit reached")

	// ErrAlreadyStarted is returned by Start while the pool is running.
	ErrAlreadyStarted = errors.New("pool already started")
)
