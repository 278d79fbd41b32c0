package pool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/subpix/renderpool/pool"
	"github.com/subpix/renderpool/render"
)

func TestPool_Shutdown_BeforeStart(t *testing.T) {
	p := pool.New(bitmapFor)
	p.Shutdown() // must be a no-op, not a crash or a hang
}

func TestPool_Shutdown_Twice(t *testing.T) {
	p := pool.New(bitmapFor)
	if err := p.Start(2); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	p.Shutdown()
	p.Shutdown()
}

func TestPool_Shutdown_AfterDisabledStart(t *testing.T) {
	p := pool.New(bitmapFor)
	if err := p.Start(0); err != nil {
		t.Fatalf("Start(0) should succeed, got %v", err)
	}
	p.Shutdown()
}

func TestPool_Restart(t *testing.T) {
	p := pool.New(bitmapFor)
	if err := p.Start(2); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	p.Shutdown()

	if err := p.Start(2); err != nil {
		t.Fatalf("failed to restart pool: %v", err)
	}
	defer p.Shutdown()

	if art := p.RenderSync(testParams(32, 8)); art.Empty() {
		t.Error("restarted pool must serve RenderSync")
	}

	key := pool.Key{Track: 1, Cue: 1}
	if err := p.SubmitAsync(key, testParams(32, 8)); err != nil {
		t.Fatalf("restarted pool must accept submissions: %v", err)
	}
	pollReady(t, p, key)
}

func TestPool_Shutdown_ReleasesBlockedSyncCallers(t *testing.T) {
	gate := make(chan struct{})
	firstStarted := make(chan struct{})
	var first atomic.Bool

	// The first render parks the only worker; later sync calls pile up
	// in the dispatch queue behind it.
	p := pool.New(func(params render.Params) render.Artifact {
		if first.CompareAndSwap(false, true) {
			close(firstStarted)
			<-gate
		}
		return bitmapFor(params)
	})
	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	const callers = 4
	results := make(chan render.Artifact, callers)
	for range callers {
		go func() {
			results <- p.RenderSync(testParams(32, 8))
		}()
	}
	<-firstStarted

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()

	// Let Shutdown reach the worker join, then release the in-flight
	// render so the worker can publish and exit.
	time.Sleep(50 * time.Millisecond)
	close(gate)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	// Every caller must come back with a valid artifact: the in-flight
	// one with a real bitmap, reclaimed ones with the empty artifact,
	// and racers that missed the queue via the direct path.
	for i := range callers {
		select {
		case <-results:
		case <-time.After(5 * time.Second):
			t.Fatalf("caller %d was never released", i)
		}
	}
}

func TestPool_Shutdown_ReclaimsKeyedJobs(t *testing.T) {
	gate := make(chan struct{})
	p := pool.New(func(params render.Params) render.Artifact {
		<-gate
		return bitmapFor(params)
	})
	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	for i := range 5 {
		if err := p.SubmitAsync(pool.Key{Track: 1, Cue: i}, testParams(16, 4)); err != nil {
			t.Fatalf("failed to submit cue %d: %v", i, err)
		}
	}

	done := make(chan struct{})
	go func() {
		p.Shutdown()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	close(gate)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	// Reclaimed jobs are gone: every key now reports not found.
	for i := range 5 {
		if _, status := p.TryGet(pool.Key{Track: 1, Cue: i}); status != pool.StatusNotFound {
			t.Errorf("cue %d: expected not found after shutdown, got %v", i, status)
		}
	}
}

func TestPool_ConcurrentSubmitAndShutdown(t *testing.T) {
	p := pool.New(bitmapFor)
	if err := p.Start(4); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	var wg sync.WaitGroup
	for producer := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for c := range 200 {
				if c%2 == 0 {
					// Rejections are expected once shutdown
					// lands; only a hang or a panic fails.
					_ = p.SubmitAsync(pool.Key{Track: n, Cue: c}, testParams(16, 4))
				} else {
					_ = p.RenderSync(testParams(16, 4))
				}
			}
		}(producer)
	}

	time.Sleep(10 * time.Millisecond)
	p.Shutdown()
	wg.Wait()
	p.Shutdown()
}

func TestPool_QueueDepthDrainsToZero(t *testing.T) {
	p := pool.New(bitmapFor)
	if err := p.Start(2); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}
	defer p.Shutdown()

	for i := range 16 {
		if err := p.SubmitAsync(pool.Key{Track: 1, Cue: i}, testParams(16, 4)); err != nil {
			t.Fatalf("failed to submit cue %d: %v", i, err)
		}
	}
	for i := range 16 {
		pollReady(t, p, pool.Key{Track: 1, Cue: i})
	}

	if depth := p.QueueDepth(); depth != 0 {
		t.Errorf("expected an empty dispatch queue, got depth %d", depth)
	}
}

func TestPool_Shutdown_ConcurrentCallsWaitForWorkers(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	var rendered atomic.Bool
	p := pool.New(func(params render.Params) render.Artifact {
		close(started)
		<-gate
		rendered.Store(true)
		return bitmapFor(params)
	})
	if err := p.Start(1); err != nil {
		t.Fatalf("failed to start pool: %v", err)
	}

	if err := p.SubmitAsync(pool.Key{Track: 1, Cue: 0}, testParams(16, 4)); err != nil {
		t.Fatalf("failed to submit: %v", err)
	}
	<-started

	first := make(chan struct{})
	go func() {
		p.Shutdown()
		close(first)
	}()
	// Let the first call flip the running flag and park on the worker
	// join before the second call arrives.
	time.Sleep(20 * time.Millisecond)

	second := make(chan struct{})
	go func() {
		p.Shutdown()
		close(second)
	}()

	// Neither call may return while the worker still holds a render.
	select {
	case <-second:
		t.Fatal("racing Shutdown returned while a worker was still rendering")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	for name, ch := range map[string]chan struct{}{"first": first, "second": second} {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("%s Shutdown call never completed", name)
		}
	}
	if !rendered.Load() {
		t.Error("shutdown completed before the in-flight render finished")
	}
}
