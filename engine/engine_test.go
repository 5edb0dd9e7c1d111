package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/definitions"
	"github.com/gofhir/fhirschema/registry"
	"github.com/gofhir/fhirschema/schema"
)

func TestValidateAll_Views(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]any
		schema    *schema.Schema
		wantValid bool
		wantCode  fhs.IssueType
		wantShort string
	}{
		{
			name:      "valid period",
			data:      map[string]any{"start": "2019-01-01", "end": "2020-01-01"},
			schema:    definitions.Period,
			wantValid: true,
		},
		{
			name:      "period invariant",
			data:      map[string]any{"start": "2020-01-01", "end": "2019-01-01"},
			schema:    definitions.Period,
			wantCode:  fhs.IssueTypeInvariant,
			wantShort: "InvariantException: [per-1] If present, start SHALL have a lower value than end. Path: Period",
		},
		{
			name:      "undeclared field",
			data:      map[string]any{"id": "123", "test": "test"},
			schema:    definitions.CodeableConcept,
			wantCode:  fhs.IssueTypeInvalid,
			wantShort: "InvalidFieldException. Field(s): 'test'. Path: CodeableConcept.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all, err := ValidateAll(tt.data, tt.schema, "")
			if err != nil {
				t.Fatal(err)
			}
			if all.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v; want %v", all.IsValid, tt.wantValid)
			}
			if all.OperationOutcome.ResourceType != "OperationOutcome" {
				t.Errorf("ResourceType = %q", all.OperationOutcome.ResourceType)
			}

			sc, err := ValidateShortCircuit(tt.data, tt.schema, "")
			if err != nil {
				t.Fatal(err)
			}
			if tt.wantValid {
				if sc.Error != nil || len(all.OperationOutcome.Issue) != 0 {
					t.Errorf("unexpected failure: %v / %v", sc.Message(), all.OperationOutcome.Issue)
				}
				return
			}
			if got := all.OperationOutcome.Issue[0].Code; got != tt.wantCode {
				t.Errorf("Code = %s; want %s", got, tt.wantCode)
			}
			if sc.Message() != tt.wantShort {
				t.Errorf("short-circuit = %q; want %q", sc.Message(), tt.wantShort)
			}
			if sc.Message() != all.OperationOutcome.Issue[0].Diagnostics {
				t.Error("short-circuit message differs from the first accumulated issue")
			}
		})
	}
}

func TestValidateShortCircuit_StopsEarly(t *testing.T) {
	e := New()
	data := map[string]any{"resourceType": "Observation", "extra": true}

	all, err := e.ValidateAll(data, definitions.Observation, "")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(all.OperationOutcome.Issue); n != 3 {
		t.Fatalf("accumulated %d issues; want 3", n)
	}

	sc, err := e.ValidateShortCircuit(data, definitions.Observation, "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(sc.Message(), "InvalidFieldException") {
		t.Errorf("short-circuit = %q", sc.Message())
	}
}

func TestValidate_Options(t *testing.T) {
	data := map[string]any{"language": map[string]any{"text": "en"}, "bogus": 1.0}

	legacy := New(fhs.LegacyOptions()...)
	res, err := legacy.Validate(data, definitions.PatientCommunication, "")
	if err != nil {
		t.Fatal(err)
	}
	want := "InvalidFieldException: Fields [bogus] are not allowed in PatientCommunication."
	if len(res.Issues) != 1 || res.Issues[0].Diagnostics != want {
		t.Errorf("legacy issues = %v", res.Issues)
	}

	noInv := New(fhs.WithInvariants(false))
	res, err = noInv.Validate(map[string]any{"start": "2020-01-01", "end": "2019-01-01"}, definitions.Period, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Errorf("invariants ran although disabled: %v", res.Issues)
	}

	opts := New(fhs.WithMaxErrors(2), fhs.WithWorkerCount(3)).Options()
	if opts.MaxErrors != 2 || opts.WorkerCount != 3 {
		t.Errorf("Options() = %+v", opts)
	}
}

type period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type coding struct {
	System string `json:"system,omitempty"`
	Code   string `json:"code,omitempty"`
}

func TestValidate_Inputs(t *testing.T) {
	e := New()
	tests := []struct {
		name   string
		schema *schema.Schema
		data   any
		valid  bool
	}{
		{"struct", definitions.Period, period{Start: "2019-01-01", End: "2020-01-01"}, true},
		{"struct reversed", definitions.Period, period{Start: "2020-01-01", End: "2019-01-01"}, false},
		{"json bytes", definitions.Period, []byte(`{"start":"2019-01-01","end":"bad"}`), false},
		{"typed slice", definitions.Period, []map[string]any{{"start": "2019"}, {"end": "2020"}}, true},
		{"nested string slice", definitions.HumanName, map[string]any{"family": "Doe", "given": []string{"John"}}, true},
		{"nested string slice on scalar field", definitions.HumanName, map[string]any{"family": []string{"Doe"}}, false},
		{"nested struct slice", definitions.CodeableConcept, map[string]any{"text": "x", "coding": []coding{{System: "http://loinc.org", Code: "1234-5"}}}, true},
		{"struct inside decoded array", definitions.CodeableConcept, map[string]any{"coding": []any{coding{Code: "1234-5"}}}, true},
		{"nested struct map", definitions.HumanName, map[string]any{"family": "Doe", "period": &period{Start: "2020", End: "2019"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Validate(tt.data, tt.schema, "")
			if err != nil {
				t.Fatal(err)
			}
			if res.Valid != tt.valid {
				t.Errorf("Valid = %v; want %v: %v", res.Valid, tt.valid, res.Issues)
			}
		})
	}

	for _, raw := range []string{`{`, `{"start":"2019"} {"bogus":1}`, `{"start":"2019"}}`} {
		if _, err := e.Validate([]byte(raw), definitions.Period, ""); err == nil {
			t.Errorf("Validate(%s) error = nil; want decode error", raw)
		}
	}
	if _, err := e.Validate([]byte("{\"start\":\"2019\"}\n"), definitions.Period, ""); err != nil {
		t.Errorf("trailing whitespace: %v", err)
	}
}

func TestValidateResource(t *testing.T) {
	e := New()
	ctx := context.Background()

	tests := []struct {
		name     string
		raw      string
		valid    bool
		wantPath string
	}{
		{
			name:  "patient",
			raw:   `{"resourceType":"Patient","gender":"female","birthDate":"1990-05-01","name":[{"family":"Roe"}]}`,
			valid: true,
		},
		{
			name:     "observation missing code",
			raw:      `{"resourceType":"Observation","status":"final"}`,
			wantPath: "Observation.code",
		},
		{
			name:     "exact decimal",
			raw:      `{"resourceType":"Observation","status":"final","code":{"text":"x"},"valueQuantity":{"value":1.10,"comparator":"~"}}`,
			wantPath: "Observation.valueQuantity.comparator",
		},
		{
			name:     "coverage",
			raw:      `{"resourceType":"Coverage","status":"active","beneficiary":{"reference":"Organization/1"},"payor":[{"reference":"Organization/1"}]}`,
			wantPath: "Coverage.beneficiary.reference",
		},
		{
			name:     "unknown type",
			raw:      `{"resourceType":"Spaceship"}`,
			wantPath: "Spaceship.resourceType",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.ValidateResource(ctx, []byte(tt.raw))
			if err != nil {
				t.Fatal(err)
			}
			if res.Valid != tt.valid {
				t.Fatalf("Valid = %v; want %v: %v", res.Valid, tt.valid, res.Issues)
			}
			if tt.wantPath != "" && res.Issues[0].Path() != tt.wantPath {
				t.Errorf("Path() = %s; want %s", res.Issues[0].Path(), tt.wantPath)
			}
		})
	}

	for _, raw := range []string{"not json", `{"resourceType":"Patient"} {"bogus":1}`} {
		if _, err := e.ValidateResource(ctx, []byte(raw)); err == nil {
			t.Errorf("ValidateResource(%s) error = nil; want decode error", raw)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.ValidateResource(cancelled, []byte(`{}`)); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v; want context.Canceled", err)
	}
}

func TestValidateBatch(t *testing.T) {
	e := New(fhs.WithWorkerCount(2))
	batch := e.ValidateBatch(context.Background(), [][]byte{
		[]byte(`{"resourceType":"Organization","name":"Acme"}`),
		[]byte(`{"resourceType":"Organization"}`),
		[]byte(`{"resourceType":"Patient","active":"yes"}`),
		[]byte(`{`),
	})
	if batch.TotalJobs != 4 || batch.FailedJobs != 1 {
		t.Errorf("Total/Failed = %d/%d", batch.TotalJobs, batch.FailedJobs)
	}
	if !batch.Results[0].Result.Valid {
		t.Error("organization with a name should be valid")
	}
	if got := batch.Results[1].Result.Issues[0].Code; got != fhs.IssueTypeInvariant {
		t.Errorf("org-1 code = %s", got)
	}
	if batch.ErrorCount() != 2 {
		t.Errorf("ErrorCount() = %d; want 2", batch.ErrorCount())
	}
	if e.Metrics().ValidationsTotal() != 3 {
		t.Errorf("ValidationsTotal() = %d; want 3", e.Metrics().ValidationsTotal())
	}
}

func TestValidateType(t *testing.T) {
	e := New()

	res, err := e.ValidateType(map[string]any{"start": "2019"}, "Period", "")
	if err != nil || !res.Valid {
		t.Errorf("ValidateType(Period) = %v, %v", res, err)
	}

	res, err = e.ValidateType("2020-13-01", "date", "")
	if err != nil {
		t.Fatal(err)
	}
	want := "FormatException: [value=2020-13-01]. Value must be a valid date. Path: date"
	if len(res.Issues) != 1 || res.Issues[0].Diagnostics != want {
		t.Errorf("issues = %v", res.Issues)
	}

	if _, err := e.ValidateType(nil, "Nope", ""); !errors.Is(err, registry.ErrUnknownType) {
		t.Errorf("error = %v; want ErrUnknownType", err)
	}
}

func TestMetrics(t *testing.T) {
	e := New()
	_, _ = e.Validate(map[string]any{"bogus": true}, definitions.Coding, "")
	_, _ = e.Validate(map[string]any{"code": "x"}, definitions.Coding, "")

	m := e.Metrics()
	if m.ValidationsTotal() != 2 || m.ValidationsValid() != 1 {
		t.Errorf("total/valid = %d/%d", m.ValidationsTotal(), m.ValidationsValid())
	}
	if m.KindTotal(fhs.KindInvalidField) != 1 {
		t.Errorf("KindTotal(invalid-field) = %d", m.KindTotal(fhs.KindInvalidField))
	}
}

func TestUnknownTagPropagates(t *testing.T) {
	reg := registry.Standard()
	broken := schema.New("Broken", schema.Datatype, []schema.AttributeDefinition{{Name: "x", Type: "Missing"}})
	if err := reg.RegisterSchema(broken); err != nil {
		t.Fatal(err)
	}
	e := NewWithRegistry(reg)
	if _, err := e.ValidateAll(map[string]any{"x": 1.0}, broken, ""); !errors.Is(err, registry.ErrUnknownType) {
		t.Errorf("error = %v; want ErrUnknownType", err)
	}
}

func TestDefault(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned different engines")
	}
}
