package pool

import (
	"context"
	"time"

	"github.com/subpix/renderpool/render"
)

// work is one worker's loop: wait for a wake token, then drain the
// dispatch queue, rendering each job outside every shared lock so a slow
// render never blocks submission or the other workers.
func (p *Pool) work(st *poolState) error {
	limitCtx := p.limiterContext(st)

	for {
		select {
		case <-st.quit:
			return nil
		case <-st.wake:
			for {
				j := p.next(st)
				if j == nil {
					break
				}
				p.run(limitCtx, j)

				// Shutdown drains nothing: jobs left behind
				// are reclaimed after the workers join.
				select {
				case <-st.quit:
					return nil
				default:
				}
			}
		}
	}
}

// limiterContext returns a context canceled when the pool shuts down, for
// rate.Limiter.Wait. Without a limiter no context is needed.
func (p *Pool) limiterContext(st *poolState) context.Context {
	if p.conf.limiter == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-st.quit
		cancel()
	}()
	return ctx
}

// next detaches the head job from the dispatch queue. A keyed job stays
// linked in the index until retrieved. Returns nil when the queue is
// empty or the pool is stopping.
func (p *Pool) next(st *poolState) *job {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !st.running || len(st.queue) == 0 {
		return nil
	}
	j := st.queue[0]
	st.queue[0] = nil
	st.queue = st.queue[1:]

	// Work remains; pass the token on so idle workers join the drain
	// instead of one worker serializing the backlog.
	if len(st.queue) > 0 {
		signal(st)
	}

	if m := p.conf.metrics; m != nil {
		m.QueueDepth.Set(float64(len(st.queue)))
	}
	return j
}

// run executes one job end to end: rate limiting, hooks, the render call,
// metrics, and completion.
func (p *Pool) run(limitCtx context.Context, j *job) {
	if lim := p.conf.limiter; lim != nil {
		if err := lim.Wait(limitCtx); err != nil {
			// Shutting down; release any waiter with the empty
			// artifact instead of rendering.
			j.complete(render.Artifact{})
			return
		}
	}

	if fn := p.conf.onJobStart; fn != nil {
		fn(j.params)
	}

	start := time.Now()
	art := p.invoke(j.params)

	if m := p.conf.metrics; m != nil {
		m.RenderLatency.Observe(time.Since(start).Seconds())
		m.JobsCompleted.Inc()
	}
	if fn := p.conf.onJobDone; fn != nil {
		fn(j.params, art)
	}

	j.complete(art)
}

// invoke shields the pool from a panicking rasterizer: a panic is folded
// into the empty artifact and flows through the normal completion path,
// the same as any other render failure.
func (p *Pool) invoke(params render.Params) (art render.Artifact) {
	defer func() {
		if r := recover(); r != nil {
			art = render.Artifact{}
		}
	}()
	return p.render(params)
}
