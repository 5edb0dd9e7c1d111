// Package invariant evaluates schema invariants against a single node.
//
// An invariant carrying a Go Check runs it directly. One carrying only a
// FHIRPath expression is compiled once, cached and evaluated against the
// node encoded as JSON.
package invariant

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gofhir/fhirpath"
	"github.com/rs/zerolog"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/cache"
	"github.com/gofhir/fhirschema/schema"
)

// Evaluator evaluates invariants. It is safe for concurrent use.
type Evaluator struct {
	exprs *cache.Cache[string, *fhirpath.Expression]
	log   zerolog.Logger
}

// New creates an evaluator caching up to cacheSize compiled expressions.
func New(cacheSize int, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		exprs: cache.New[string, *fhirpath.Expression](cacheSize),
		log:   log,
	}
}

// Evaluate reports whether node satisfies inv. An error means the invariant
// could not be evaluated; it says nothing about the node.
func (e *Evaluator) Evaluate(inv schema.Invariant, node map[string]any) (bool, error) {
	if inv.Check != nil {
		return inv.Check(node), nil
	}
	if inv.Expression == "" {
		return true, nil
	}

	expr, err := e.exprs.GetOrCompute(inv.Expression, func() (*fhirpath.Expression, error) {
		return fhirpath.Compile(inv.Expression)
	})
	if err != nil {
		return true, fmt.Errorf("compile %s: %w", inv.Key, err)
	}

	data, err := json.Marshal(node)
	if err != nil {
		return true, fmt.Errorf("encode node for %s: %w", inv.Key, err)
	}
	result, err := expr.Evaluate(data)
	if err != nil {
		return true, fmt.Errorf("evaluate %s: %w", inv.Key, err)
	}
	return passed(result), nil
}

// passed interprets a FHIRPath result. Empty is not applicable and passes;
// a non-boolean result is treated as truthy.
func passed(result fhirpath.Collection) bool {
	if result.Empty() {
		return true
	}
	b, err := result.ToBoolean()
	if err != nil {
		return true
	}
	return b
}

// Run evaluates every invariant in order. Failures become invariant
// violations; evaluation errors become processing warnings.
func (e *Evaluator) Run(entity, path string, invs []schema.Invariant, node map[string]any) ([]*fhs.Violation, []fhs.Issue) {
	var (
		failed   []*fhs.Violation
		warnings []fhs.Issue
	)
	for _, inv := range invs {
		ok, err := e.Evaluate(inv, node)
		if err != nil {
			e.log.Warn().Err(err).Str("key", inv.Key).Str("path", path).Msg("invariant not evaluated")
			warnings = append(warnings, ProcessingIssue(inv, path, err))
			continue
		}
		if !ok {
			severity := inv.Severity
			if severity == "" {
				severity = fhs.SeverityError
			}
			failed = append(failed, fhs.NewInvariant(entity, path, inv.Key, inv.Human, severity, node))
		}
	}
	return failed, warnings
}

// ProcessingIssue reports an invariant that could not be evaluated.
func ProcessingIssue(inv schema.Invariant, path string, err error) fhs.Issue {
	return fhs.Warning(fhs.IssueTypeProcessing).
		Diagnostics(fmt.Sprintf("Invariant %s could not be evaluated: %v", inv.Key, err)).
		Details(fmt.Sprintf("Path: %s. Value: %s", path, inv.Expression)).
		At(path).
		Kind(fhs.KindInvariant).
		Build()
}

// Stats returns the compiled-expression cache counters.
func (e *Evaluator) Stats() cache.Stats {
	return e.exprs.Stats()
}
