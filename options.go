package datefilter

import (
	"github.com/hupe1980/datefilter/internal/resource"
)

// MemoryBudget reserves and returns accounted memory. It must be safe for
// concurrent use when shared between filters.
type MemoryBudget interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	nodeBits         int
	budget           MemoryBudget
}

// Option configures a Filter.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		nodeBits:         DefaultNodeBits,
	}
}

// WithLogger sets the structured logger.
// If nil is passed, logging stays disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsCollector sets the metrics sink.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithNodeBits overrides the bitmap width of every tree node (1 to 64).
// Wider nodes mean fewer nodes for dense inputs and more waste for sparse
// ones.
func WithNodeBits(n int) Option {
	return func(o *options) {
		o.nodeBits = n
	}
}

// WithMemoryLimit caps the memory accounted to this filter's trees.
// Zero or a negative limit removes the cap.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		if bytes <= 0 {
			o.budget = nil
			return
		}
		o.budget = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

// WithResourceController charges this filter against a shared budget, such
// as a *resource.Controller used by several filters at once.
func WithResourceController(b MemoryBudget) Option {
	return func(o *options) {
		o.budget = b
	}
}
