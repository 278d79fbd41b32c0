package pool

import (
	"sync/atomic"

	"github.com/subpix/renderpool/render"
)

// Key identifies an asynchronously submitted job by its position in the
// source material: the subtitle track and the cue index within it.
type Key struct {
	Track int
	Cue   int
}

// job is one unit of rendering work: the copied input parameters and a
// one-shot result channel through which ownership of the finished
// Artifact is transferred to exactly one consumer. Keyed jobs are
// additionally reachable through the pool's index; the job itself does
// not know its key.
//
// The buffered channel replaces per-job locks and waiter counting: the
// single send never blocks, and whoever receives owns the buffers.
type job struct {
	params render.Params

	// result carries the artifact from the completing side (a worker,
	// or shutdown reclamation) to the consuming side (the blocked
	// RenderSync caller or a TryGet poller). Capacity 1, written once.
	result chan render.Artifact

	// completed guards the single send on result. Exactly one of the
	// worker and the shutdown reclamation pass wins the CAS.
	completed atomic.Bool

	// done becomes true only after the artifact is in the channel, so
	// an observer that sees done may receive without blocking.
	done atomic.Bool
}

func newJob(params render.Params) *job {
	return &job{
		params: params,
		result: make(chan render.Artifact, 1),
	}
}

// complete publishes the artifact and marks the job done. It reports
// whether this call won the completion race; a false return means the job
// was already completed elsewhere and art was discarded.
func (j *job) complete(art render.Artifact) bool {
	if !j.completed.CompareAndSwap(false, true) {
		return false
	}
	j.result <- art
	j.done.Store(true)
	return true
}

// wait blocks until the job completes and takes ownership of the result.
func (j *job) wait() render.Artifact {
	return <-j.result
}

// take claims the result without blocking. It must only be called after
// done has been observed true.
func (j *job) take() render.Artifact {
	return <-j.result
}
