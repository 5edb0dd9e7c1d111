package invariant

import (
	"testing"

	"github.com/rs/zerolog"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/schema"
)

func newEvaluator() *Evaluator {
	return New(16, zerolog.Nop())
}

func TestEvaluate_Check(t *testing.T) {
	e := newEvaluator()
	inv := schema.Invariant{
		Key:        "t-1",
		Expression: "this is not fhirpath (",
		Check:      func(node map[string]any) bool { return node["ok"] == true },
	}

	ok, err := e.Evaluate(inv, map[string]any{"ok": true})
	if err != nil || !ok {
		t.Errorf("Evaluate(ok) = %v, %v", ok, err)
	}
	ok, err = e.Evaluate(inv, map[string]any{})
	if err != nil || ok {
		t.Errorf("Evaluate(empty) = %v, %v", ok, err)
	}
	if s := e.Stats(); s.Size != 0 {
		t.Errorf("expression compiled although Check is set: %+v", s)
	}
}

func TestEvaluate_Expression(t *testing.T) {
	e := newEvaluator()
	inv := schema.Invariant{Key: "t-2", Expression: "name.exists() or telecom.exists()"}

	tests := []struct {
		name string
		node map[string]any
		want bool
	}{
		{"with name", map[string]any{"resourceType": "Patient", "name": []any{map[string]any{"family": "Doe"}}}, true},
		{"with telecom", map[string]any{"resourceType": "Patient", "telecom": []any{map[string]any{"value": "1"}}}, true},
		{"neither", map[string]any{"resourceType": "Patient", "active": true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(inv, tt.node)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Evaluate() = %v; want %v", got, tt.want)
			}
		})
	}

	if s := e.Stats(); s.Size != 1 || s.Hits < 2 {
		t.Errorf("expression not cached: %+v", s)
	}
}

func TestEvaluate_EmptyExpression(t *testing.T) {
	ok, err := newEvaluator().Evaluate(schema.Invariant{Key: "noop"}, map[string]any{})
	if err != nil || !ok {
		t.Errorf("Evaluate() = %v, %v; want true, nil", ok, err)
	}
}

func TestRun(t *testing.T) {
	e := newEvaluator()
	invs := []schema.Invariant{
		{Key: "a-1", Human: "always fails", Check: func(map[string]any) bool { return false }},
		{Key: "a-2", Human: "passes", Check: func(map[string]any) bool { return true }},
		{Key: "a-3", Human: "warns", Severity: fhs.SeverityWarning, Check: func(map[string]any) bool { return false }},
		{Key: "a-4", Expression: "name.exists("},
	}

	failed, warnings := e.Run("Thing", "Thing.part", invs, map[string]any{"resourceType": "Patient"})
	if len(failed) != 2 {
		t.Fatalf("failed = %d; want 2", len(failed))
	}
	if failed[0].Key != "a-1" || failed[0].Severity != fhs.SeverityError {
		t.Errorf("failed[0] = %+v", failed[0])
	}
	if failed[1].Key != "a-3" || failed[1].Severity != fhs.SeverityWarning {
		t.Errorf("failed[1] = %+v", failed[1])
	}
	if got := failed[0].Render(fhs.StyleCurrent); got != "InvariantException: [a-1] always fails. Path: Thing.part" {
		t.Errorf("Render() = %q", got)
	}

	if len(warnings) != 1 {
		t.Fatalf("warnings = %d; want 1", len(warnings))
	}
	w := warnings[0]
	if !w.IsWarning() || w.Code != fhs.IssueTypeProcessing || w.Path() != "Thing.part" {
		t.Errorf("warning = %+v", w)
	}
}
