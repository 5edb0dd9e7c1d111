// Package engine is the entry point of the library. It wires the registry,
// the structural validator, the invariant evaluator, metrics and logging
// behind the two reporting views.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/invariant"
	"github.com/gofhir/fhirschema/registry"
	"github.com/gofhir/fhirschema/schema"
	"github.com/gofhir/fhirschema/structural"
	"github.com/gofhir/fhirschema/worker"
)

var errTrailingData = errors.New("unexpected data after the JSON value")

// Engine validates instances against registered schemas.
// It is safe for concurrent use.
type Engine struct {
	options   *fhs.Options
	registry  *registry.Registry
	evaluator *invariant.Evaluator
	walker    *structural.Validator
	batch     *worker.BatchValidator
	metrics   *fhs.Metrics
	log       zerolog.Logger
}

// New creates an engine over the built-in FHIR R4 schemas.
func New(opts ...fhs.Option) *Engine {
	return NewWithRegistry(registry.Standard(), opts...)
}

// NewWithRegistry creates an engine resolving tags through reg.
func NewWithRegistry(reg *registry.Registry, opts ...fhs.Option) *Engine {
	options := fhs.Apply(opts...)
	e := &Engine{
		options:   options,
		registry:  reg,
		evaluator: invariant.New(options.ExpressionCacheSize, options.Logger),
		metrics:   fhs.NewMetrics(),
		log:       options.Logger,
	}
	e.walker = structural.New(reg,
		structural.WithStyle(options.MessageStyle),
		structural.WithEvaluator(e.evaluator),
		structural.WithInvariants(options.Invariants),
	)
	e.batch = worker.NewBatchValidator(e.ValidateResource, options.WorkerCount)
	return e
}

// Validate checks data against s, stopping after Options.MaxErrors errors.
// data may be decoded JSON, a JSON document as []byte, or any value that
// encodes to JSON (typed models). path defaults to the schema name.
func (e *Engine) Validate(data any, s *schema.Schema, path string) (*fhs.Result, error) {
	return e.run(data, s, path, e.options.MaxErrors)
}

// ValidateAll runs the full accumulation and returns the OperationOutcome view.
func (e *Engine) ValidateAll(data any, s *schema.Schema, path string) (*fhs.ValidationResult, error) {
	res, err := e.run(data, s, path, 0)
	if err != nil {
		return nil, err
	}
	return res.ValidationResult(), nil
}

// ValidateShortCircuit stops at the first error and returns its message.
func (e *Engine) ValidateShortCircuit(data any, s *schema.Schema, path string) (fhs.ShortCircuitResult, error) {
	res, err := e.run(data, s, path, 1)
	if err != nil {
		return fhs.ShortCircuitResult{}, err
	}
	return res.ShortCircuit(), nil
}

// ValidateType checks data against the type registered under tag, which may
// name a composite schema or a primitive.
func (e *Engine) ValidateType(data any, tag, path string) (*fhs.Result, error) {
	if s, ok := e.registry.Schema(tag); ok {
		return e.Validate(data, s, path)
	}
	entry, ok := e.registry.Lookup(tag)
	if !ok || entry.Kind != registry.Primitive {
		return nil, fmt.Errorf("engine: %w %q", registry.ErrUnknownType, tag)
	}
	if path == "" {
		path = tag
	}
	value, err := normalize(data)
	if err != nil {
		return nil, err
	}
	res := fhs.NewResult()
	res.ResourceType = tag
	if viol := entry.Check(value, path); viol != nil {
		res.AddViolation(viol, e.options.MessageStyle)
	}
	return res, nil
}

// ValidateResource decodes a JSON resource and validates it against the
// schema its resourceType names.
func (e *Engine) ValidateResource(ctx context.Context, raw []byte) (*fhs.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := decode(raw)
	if err != nil {
		e.log.Debug().Err(err).Msg("resource is not valid JSON")
		return nil, fmt.Errorf("engine: decode resource: %w", err)
	}
	res, err := e.walker.ValidateResource(data, "", e.options.MaxErrors)
	if err != nil {
		e.log.Error().Err(err).Msg("schema tables are inconsistent")
		return nil, err
	}
	e.record(res, time.Since(start))
	return res, nil
}

// ValidateBatch validates resources on Options.WorkerCount goroutines.
// Results keep input order.
func (e *Engine) ValidateBatch(ctx context.Context, resources [][]byte) *worker.BatchResult {
	return e.batch.ValidateBatch(ctx, resources)
}

func (e *Engine) run(data any, s *schema.Schema, path string, limit int) (*fhs.Result, error) {
	start := time.Now()
	value, err := normalize(data)
	if err != nil {
		return nil, err
	}
	res, err := e.walker.Validate(value, s, path, limit)
	if err != nil {
		e.log.Error().Err(err).Msg("schema tables are inconsistent")
		return nil, err
	}
	e.record(res, time.Since(start))
	return res, nil
}

func (e *Engine) record(res *fhs.Result, took time.Duration) {
	e.metrics.RecordResult(res, took)
	e.log.Debug().
		Str("type", res.ResourceType).
		Bool("valid", res.Valid).
		Int("issues", len(res.Issues)).
		Dur("took", took).
		Msg("validated")
}

// Metrics returns the engine counters.
func (e *Engine) Metrics() *fhs.Metrics {
	return e.metrics
}

// Registry returns the registry the engine resolves tags with.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Options returns a copy of the engine options.
func (e *Engine) Options() fhs.Options {
	return *e.options
}

// Evaluator returns the invariant evaluator, mainly for its cache stats.
func (e *Engine) Evaluator() *invariant.Evaluator {
	return e.evaluator
}

// normalize turns data into the map/slice form the walker reads. Trees that
// hold any Go-typed value below the root go through a JSON round trip.
func normalize(data any) (any, error) {
	switch v := data.(type) {
	case []byte:
		return decode(v)
	case json.RawMessage:
		return decode(v)
	}
	if jsonShaped(data) {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("engine: encode instance: %w", err)
	}
	return decode(raw)
}

// jsonShaped reports whether data holds only the values a JSON decode into
// any produces.
func jsonShaped(data any) bool {
	switch v := data.(type) {
	case nil, string, bool, float64, json.Number:
		return true
	case map[string]any:
		for _, item := range v {
			if !jsonShaped(item) {
				return false
			}
		}
		return true
	case []any:
		for _, item := range v {
			if !jsonShaped(item) {
				return false
			}
		}
		return true
	}
	return false
}

// decode parses exactly one JSON value, keeping numbers as json.Number so
// decimals stay exact.
func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return v, nil
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns a process-wide engine with default options over the
// built-in schemas.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// ValidateAll validates with the default engine and returns the
// OperationOutcome view.
func ValidateAll(data any, s *schema.Schema, path string) (*fhs.ValidationResult, error) {
	return Default().ValidateAll(data, s, path)
}

// ValidateShortCircuit validates with the default engine and returns the
// first error message.
func ValidateShortCircuit(data any, s *schema.Schema, path string) (fhs.ShortCircuitResult, error) {
	return Default().ValidateShortCircuit(data, s, path)
}
