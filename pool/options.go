package pool

import (
	"golang.org/x/time/rate"

	"github.com/subpix/renderpool/render"
)

// Option is a functional option for configuring the pool.
type Option func(*config)

type config struct {
	limiter    *rate.Limiter
	metrics    *Metrics
	onJobStart func(render.Params)
	onJobDone  func(render.Params, render.Artifact)
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRateLimit caps render throughput with a token bucket.
// rendersPerSecond is the sustained rate, burst the bucket size. Useful
// when the pool shares a machine with the encoder and must not starve it.
// If not specified, renders run as fast as workers allow.
func WithRateLimit(rendersPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if rendersPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(rendersPerSecond), burst)
		}
	}
}

// WithMetrics attaches prometheus instrumentation to the pool.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithOnJobStart registers a hook invoked by the worker just before each
// render call. The hook runs on the worker goroutine and must not block.
func WithOnJobStart(fn func(render.Params)) Option {
	return func(cfg *config) {
		cfg.onJobStart = fn
	}
}

// WithOnJobDone registers a hook invoked after each render call with the
// produced artifact, before the result is published. The hook runs on the
// worker goroutine and must not block or retain the artifact's buffers.
func WithOnJobDone(fn func(render.Params, render.Artifact)) Option {
	return func(cfg *config) {
		cfg.onJobDone = fn
	}
}
