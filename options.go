package fhirschema

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Option configures an engine.
type Option func(*Options)

// Options holds all configuration for an engine.
type Options struct {
	// MessageStyle selects the wording of invalid-field and required messages.
	MessageStyle MessageStyle

	// MaxErrors stops the walk after that many issues. 0 is unlimited.
	MaxErrors int

	// Invariants enables evaluation of schema invariants.
	Invariants bool

	// WorkerCount is the number of goroutines used by batch validation.
	WorkerCount int

	// ExpressionCacheSize bounds the compiled FHIRPath expression cache.
	ExpressionCacheSize int

	// Logger receives debug and warning events. Disabled by default.
	Logger zerolog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		MessageStyle:        StyleCurrent,
		MaxErrors:           0, // unlimited
		Invariants:          true,
		WorkerCount:         runtime.NumCPU(),
		ExpressionCacheSize: 500,
		Logger:              zerolog.Nop(),
	}
}

// Apply returns DefaultOptions with opts applied in order.
func Apply(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMessageStyle selects the message wording.
func WithMessageStyle(style MessageStyle) Option {
	return func(o *Options) {
		o.MessageStyle = style
	}
}

// WithMaxErrors sets the maximum number of issues before stopping validation.
// Use 0 for unlimited and 1 for short-circuit behaviour.
func WithMaxErrors(max int) Option {
	return func(o *Options) {
		if max >= 0 {
			o.MaxErrors = max
		}
	}
}

// WithInvariants enables or disables invariant evaluation.
func WithInvariants(enable bool) Option {
	return func(o *Options) {
		o.Invariants = enable
	}
}

// WithWorkerCount sets the number of workers for batch validation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithExpressionCacheSize sets the FHIRPath expression cache size.
func WithExpressionCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.ExpressionCacheSize = size
		}
	}
}

// WithLogger sets the logger used by the engine.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// LegacyOptions returns options reproducing the entity-based messages and
// first-violation reporting of older callers.
func LegacyOptions() []Option {
	return []Option{
		WithMessageStyle(StyleLegacy),
		WithMaxErrors(1),
	}
}
