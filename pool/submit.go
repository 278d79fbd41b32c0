package pool

import "github.com/subpix/renderpool/render"

// Status is the three-way outcome of a TryGet poll.
type Status int

const (
	// StatusNotFound means no outstanding job matches the key.
	StatusNotFound Status = iota
	// StatusPending means the job exists but has not completed; the
	// key stays queryable.
	StatusPending
	// StatusReady means the artifact was returned and the key
	// retired; further polls for it report StatusNotFound.
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not found"
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// RenderSync renders one entry and blocks until the bitmap is available.
//
// While the pool is accepting, the work is queued and executed by a
// worker; otherwise the rasterizer runs directly on the caller's
// goroutine. Either way the caller receives a valid Artifact and owns its
// buffers. A shutdown arriving mid-wait releases the caller with the
// empty Artifact.
func (p *Pool) RenderSync(params render.Params) render.Artifact {
	params = params.Normalized()

	if !p.accepting.Load() {
		return p.invoke(params)
	}

	j := newJob(params)
	if !p.enqueue(j) {
		// Lost the race with Shutdown; degrade to a direct call.
		return p.invoke(params)
	}
	return j.wait()
}

// SubmitAsync queues one entry for rendering under key and returns
// without waiting. Poll TryGet with the same key for the result.
//
// It fails with ErrNotAccepting when the pool is stopped and with
// ErrQueueFull when MaxAsyncJobs keyed jobs are already outstanding; in
// the latter case nothing was queued and the caller may fall back to
// RenderSync.
//
// Keys are not deduplicated: resubmitting a live key renders both jobs
// but only the most recent one stays retrievable.
func (p *Pool) SubmitAsync(key Key, params render.Params) error {
	if !p.accepting.Load() {
		return ErrNotAccepting
	}
	j := newJob(params.Normalized())

	p.mu.Lock()
	st := p.state
	if st == nil || !st.running || !p.accepting.Load() {
		p.mu.Unlock()
		return ErrNotAccepting
	}
	if len(st.index) >= MaxAsyncJobs {
		p.mu.Unlock()
		if m := p.conf.metrics; m != nil {
			m.JobsRejected.Inc()
		}
		return ErrQueueFull
	}
	st.queue = append(st.queue, j)
	st.index[key] = j
	depth := len(st.queue)
	p.mu.Unlock()

	if m := p.conf.metrics; m != nil {
		m.JobsSubmitted.Inc()
		m.QueueDepth.Set(float64(depth))
	}
	signal(st)
	return nil
}

// TryGet polls for the result of a keyed job. It never blocks.
//
// StatusReady transfers ownership of the artifact to the caller and
// retires the key; StatusPending leaves the job untouched and queryable;
// StatusNotFound covers unknown, already-retrieved, and
// reclaimed-at-shutdown keys alike.
func (p *Pool) TryGet(key Key) (render.Artifact, Status) {
	p.mu.Lock()
	st := p.state
	if st == nil {
		p.mu.Unlock()
		return render.Artifact{}, StatusNotFound
	}
	j, ok := st.index[key]
	if !ok {
		p.mu.Unlock()
		return render.Artifact{}, StatusNotFound
	}
	if !j.done.Load() {
		p.mu.Unlock()
		return render.Artifact{}, StatusPending
	}
	delete(st.index, key)
	p.mu.Unlock()

	return j.take(), StatusReady
}

// enqueue appends an unkeyed job to the dispatch queue and wakes a
// worker. It reports false when the pool stopped in the meantime, in
// which case the job was not queued.
func (p *Pool) enqueue(j *job) bool {
	p.mu.Lock()
	st := p.state
	if st == nil || !st.running {
		p.mu.Unlock()
		return false
	}
	st.queue = append(st.queue, j)
	depth := len(st.queue)
	p.mu.Unlock()

	if m := p.conf.metrics; m != nil {
		m.JobsSubmitted.Inc()
		m.QueueDepth.Set(float64(depth))
	}
	signal(st)
	return true
}

// signal wakes a worker. The token is cumulative: with a 1-slot buffer a
// dropped send means a token is already pending, and a worker that
// dequeues while jobs remain re-arms the token, so the wake fans out
// across idle workers and no job is stranded.
func signal(st *poolState) {
	select {
	case st.wake <- struct{}{}:
	default:
	}
}
