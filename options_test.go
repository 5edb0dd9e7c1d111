package fhirschema

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.MessageStyle != StyleCurrent {
		t.Errorf("MessageStyle = %s; want current", opts.MessageStyle)
	}
	if opts.MaxErrors != 0 {
		t.Errorf("MaxErrors = %d; want 0 (unlimited)", opts.MaxErrors)
	}
	if !opts.Invariants {
		t.Error("Invariants should be enabled by default")
	}
	if opts.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d; want %d", opts.WorkerCount, runtime.NumCPU())
	}
	if opts.ExpressionCacheSize != 500 {
		t.Errorf("ExpressionCacheSize = %d; want 500", opts.ExpressionCacheSize)
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		check func(*Options) bool
	}{
		{"legacy style", []Option{WithMessageStyle(StyleLegacy)}, func(o *Options) bool { return o.MessageStyle == StyleLegacy }},
		{"max errors", []Option{WithMaxErrors(5)}, func(o *Options) bool { return o.MaxErrors == 5 }},
		{"negative max errors ignored", []Option{WithMaxErrors(3), WithMaxErrors(-1)}, func(o *Options) bool { return o.MaxErrors == 3 }},
		{"invariants off", []Option{WithInvariants(false)}, func(o *Options) bool { return !o.Invariants }},
		{"workers", []Option{WithWorkerCount(3)}, func(o *Options) bool { return o.WorkerCount == 3 }},
		{"zero workers ignored", []Option{WithWorkerCount(0)}, func(o *Options) bool { return o.WorkerCount == runtime.NumCPU() }},
		{"cache size", []Option{WithExpressionCacheSize(10)}, func(o *Options) bool { return o.ExpressionCacheSize == 10 }},
		{"zero cache size ignored", []Option{WithExpressionCacheSize(0)}, func(o *Options) bool { return o.ExpressionCacheSize == 500 }},
		{"later option wins", []Option{WithMaxErrors(1), WithMaxErrors(0)}, func(o *Options) bool { return o.MaxErrors == 0 }},
		{"legacy preset", LegacyOptions(), func(o *Options) bool { return o.MessageStyle == StyleLegacy && o.MaxErrors == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if o := Apply(tt.opts...); !tt.check(o) {
				t.Errorf("unexpected options: %+v", o)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	o := Apply(WithLogger(zerolog.New(&buf)))
	o.Logger.Info().Msg("hello")
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("logger output = %q", buf.String())
	}
}

func TestMessageStyle(t *testing.T) {
	tests := []struct {
		name string
		want MessageStyle
	}{
		{"legacy", StyleLegacy},
		{"current", StyleCurrent},
		{"", StyleCurrent},
		{"other", StyleCurrent},
	}
	for _, tt := range tests {
		if got := ParseMessageStyle(tt.name); got != tt.want {
			t.Errorf("ParseMessageStyle(%q) = %s; want %s", tt.name, got, tt.want)
		}
	}
	if StyleLegacy.String() != "legacy" || StyleCurrent.String() != "current" {
		t.Error("MessageStyle.String() does not round-trip")
	}
}
