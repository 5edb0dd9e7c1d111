package fhirschema

import (
	"sync"
	"sync/atomic"
	"time"
)

const unsetMin = ^uint64(0)

// durations keeps running totals of observed durations in nanoseconds.
type durations struct {
	count atomic.Uint64
	sum   atomic.Uint64
	min   atomic.Uint64
	max   atomic.Uint64
}

func (d *durations) reset() {
	d.count.Store(0)
	d.sum.Store(0)
	d.min.Store(unsetMin)
	d.max.Store(0)
}

func (d *durations) observe(took time.Duration) {
	ns := uint64(took.Nanoseconds()) //nolint:gosec // durations here are never negative
	d.count.Add(1)
	d.sum.Add(ns)
	for old := d.min.Load(); ns < old && !d.min.CompareAndSwap(old, ns); old = d.min.Load() {
	}
	for old := d.max.Load(); ns > old && !d.max.CompareAndSwap(old, ns); old = d.max.Load() {
	}
}

func (d *durations) avgNs() uint64 {
	n := d.count.Load()
	if n == 0 {
		return 0
	}
	return d.sum.Load() / n
}

func (d *durations) minNs() uint64 {
	if v := d.min.Load(); v != unsetMin {
		return v
	}
	return 0
}

// Metrics counts validations, their timing and the issues they produced.
// All methods are safe for concurrent use.
type Metrics struct {
	valid    atomic.Uint64
	errors   atomic.Uint64
	warnings atomic.Uint64
	timing   durations

	// ViolationKind -> *atomic.Uint64
	kinds sync.Map
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.timing.reset()
	return m
}

// RecordValidation records one finished validation.
func (m *Metrics) RecordValidation(took time.Duration, valid bool) {
	m.timing.observe(took)
	if valid {
		m.valid.Add(1)
	}
}

// RecordIssue counts one issue by severity and by violation kind.
func (m *Metrics) RecordIssue(issue Issue) {
	switch issue.Severity {
	case SeverityError:
		m.errors.Add(1)
	case SeverityWarning:
		m.warnings.Add(1)
	}
	counter, _ := m.kinds.LoadOrStore(issue.Kind, new(atomic.Uint64))
	counter.(*atomic.Uint64).Add(1)
}

// RecordResult records r as one validation plus each of its issues.
func (m *Metrics) RecordResult(r *Result, took time.Duration) {
	m.RecordValidation(took, r.Valid)
	for _, issue := range r.Issues {
		m.RecordIssue(issue)
	}
}

func (m *Metrics) ValidationsTotal() uint64 { return m.timing.count.Load() }
func (m *Metrics) ValidationsValid() uint64 { return m.valid.Load() }
func (m *Metrics) ErrorsTotal() uint64      { return m.errors.Load() }
func (m *Metrics) WarningsTotal() uint64    { return m.warnings.Load() }

// ValidationRate is the share of validations without errors, in [0, 1].
func (m *Metrics) ValidationRate() float64 {
	total := m.ValidationsTotal()
	if total == 0 {
		return 0
	}
	return float64(m.ValidationsValid()) / float64(total)
}

func (m *Metrics) AverageValidationTime() time.Duration {
	return time.Duration(m.timing.avgNs()) //nolint:gosec // nanoseconds within int64 range
}

func (m *Metrics) MinValidationTime() time.Duration {
	return time.Duration(m.timing.minNs()) //nolint:gosec // nanoseconds within int64 range
}

func (m *Metrics) MaxValidationTime() time.Duration {
	return time.Duration(m.timing.max.Load()) //nolint:gosec // nanoseconds within int64 range
}

// KindTotal returns how many issues of kind were recorded.
func (m *Metrics) KindTotal(kind ViolationKind) uint64 {
	counter, ok := m.kinds.Load(kind)
	if !ok {
		return 0
	}
	return counter.(*atomic.Uint64).Load()
}

// Snapshot is a point-in-time copy of Metrics, keyed for JSON export.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	ValidationsTotal uint64  `json:"validations_total"`
	ValidationsValid uint64  `json:"validations_valid"`
	ValidationRate   float64 `json:"validation_rate"`

	AvgValidationTimeNs uint64 `json:"avg_validation_time_ns"`
	MinValidationTimeNs uint64 `json:"min_validation_time_ns"`
	MaxValidationTimeNs uint64 `json:"max_validation_time_ns"`

	ErrorsTotal   uint64            `json:"errors_total"`
	WarningsTotal uint64            `json:"warnings_total"`
	Kinds         map[string]uint64 `json:"kinds,omitempty"`
}

func (m *Metrics) Snapshot() Snapshot {
	kinds := make(map[string]uint64)
	m.kinds.Range(func(key, value any) bool {
		kinds[key.(ViolationKind).String()] = value.(*atomic.Uint64).Load()
		return true
	})

	return Snapshot{
		Timestamp:           time.Now(),
		ValidationsTotal:    m.ValidationsTotal(),
		ValidationsValid:    m.ValidationsValid(),
		ValidationRate:      m.ValidationRate(),
		AvgValidationTimeNs: m.timing.avgNs(),
		MinValidationTimeNs: m.timing.minNs(),
		MaxValidationTimeNs: m.timing.max.Load(),
		ErrorsTotal:         m.ErrorsTotal(),
		WarningsTotal:       m.WarningsTotal(),
		Kinds:               kinds,
	}
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.timing.reset()
	m.valid.Store(0)
	m.errors.Store(0)
	m.warnings.Store(0)
	m.kinds.Range(func(key, _ any) bool {
		m.kinds.Delete(key)
		return true
	})
}
