package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/engine"
)

// mockValidate reports one error for resources containing "bad" and one
// warning for resources containing "odd".
func mockValidate(_ context.Context, resource []byte) (*fhs.Result, error) {
	r := fhs.NewResult()
	switch {
	case strings.Contains(string(resource), "bad"):
		r.AddIssue(fhs.Error(fhs.IssueTypeInvalid).Diagnostics("bad").Build())
	case strings.Contains(string(resource), "odd"):
		r.AddIssue(fhs.Warning(fhs.IssueTypeProcessing).Diagnostics("odd").Build())
	}
	return r, nil
}

func collect(ch <-chan *EntryResult) []*EntryResult {
	var out []*EntryResult
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestBundleValidator_ValidateStream(t *testing.T) {
	bundle := `{
		"resourceType": "Bundle",
		"id": "b1",
		"type": "collection",
		"entry": [
			{"fullUrl": "urn:uuid:1", "resource": {"resourceType": "Patient", "id": "1"}},
			{"fullUrl": "urn:uuid:2", "resource": {"resourceType": "Observation", "id": "bad"}},
			{"fullUrl": "urn:uuid:3"}
		],
		"total": 3
	}`

	results := collect(NewBundleValidator(mockValidate).ValidateStream(context.Background(), strings.NewReader(bundle)))
	if len(results) != 3 {
		t.Fatalf("got %d results; want 3", len(results))
	}

	tests := []struct {
		fullURL string
		ref     string
		valid   bool
	}{
		{"urn:uuid:1", "Patient/1", true},
		{"urn:uuid:2", "Observation/bad", false},
		{"urn:uuid:3", "", true},
	}
	for i, tt := range tests {
		r := results[i]
		if r.Error != nil {
			t.Fatalf("entry %d: %v", i, r.Error)
		}
		if r.Index != i || r.FullURL != tt.fullURL || r.Ref() != tt.ref {
			t.Errorf("entry %d = {%d %s %s}", i, r.Index, r.FullURL, r.Ref())
		}
		if r.Result.Valid != tt.valid {
			t.Errorf("entry %d valid = %v; want %v", i, r.Result.Valid, tt.valid)
		}
	}
}

func TestBundleValidator_ValidateStreamParallel(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"resourceType":"Bundle","type":"collection","entry":[`)
	for i := 0; i < 50; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"resource":{"resourceType":"Patient","id":"p%d"}}`, i)
	}
	b.WriteString(`]}`)

	v := NewBundleValidator(mockValidate).WithWorkerCount(4).WithBufferSize(3)
	results := collect(v.ValidateStreamParallel(context.Background(), strings.NewReader(b.String())))

	if len(results) != 50 {
		t.Fatalf("got %d results; want 50", len(results))
	}
	for i, r := range results {
		if r.Index != i || r.ResourceID != fmt.Sprintf("p%d", i) {
			t.Errorf("result %d = index %d id %s", i, r.Index, r.ResourceID)
		}
	}
}

func TestBundleValidator_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantIndex []int
		wantError []bool
	}{
		{"empty bundle", `{"resourceType":"Bundle","type":"collection"}`, nil, nil},
		{"empty entry array", `{"resourceType":"Bundle","entry":[]}`, nil, nil},
		{"not json", `not json`, []int{-1}, []bool{true}},
		{"not an object", `[1, 2]`, []int{-1}, []bool{true}},
		{"entry not an array", `{"entry": {}}`, []int{-1}, []bool{true}},
		{"bad entry continues", `{"entry":[{"resource":{"resourceType":"Patient"}}, 42, {}]}`, []int{0, 1, 2}, []bool{false, true, false}},
		{"truncated", `{"entry":[{"resource":{"resourceType":"Patient"}}, {"resou`, []int{0, -1}, []bool{false, true}},
	}

	for _, tt := range tests {
		for _, parallel := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/parallel=%v", tt.name, parallel), func(t *testing.T) {
				v := NewBundleValidator(mockValidate).WithWorkerCount(2)
				var ch <-chan *EntryResult
				if parallel {
					ch = v.ValidateStreamParallel(context.Background(), strings.NewReader(tt.input))
				} else {
					ch = v.ValidateStream(context.Background(), strings.NewReader(tt.input))
				}
				results := collect(ch)
				if len(results) != len(tt.wantIndex) {
					t.Fatalf("got %d results; want %d", len(results), len(tt.wantIndex))
				}
				for i, r := range results {
					if r.Index != tt.wantIndex[i] || (r.Error != nil) != tt.wantError[i] {
						t.Errorf("result %d = index %d error %v", i, r.Index, r.Error)
					}
				}
			})
		}
	}
}

func TestBundleValidator_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bundle := `{"resourceType":"Bundle","entry":[{"resource":{"resourceType":"Patient"}}]}`
	results := collect(NewBundleValidator(mockValidate).ValidateStream(ctx, strings.NewReader(bundle)))

	if len(results) != 1 || !errors.Is(results[0].Error, context.Canceled) {
		t.Fatalf("results = %+v; want one cancellation error", results)
	}
}

func TestBundleValidator_WithEngine(t *testing.T) {
	bundle := `{
		"resourceType": "Bundle",
		"type": "collection",
		"entry": [
			{"resource": {"resourceType": "Patient", "gender": "female"}},
			{"resource": {"resourceType": "Observation", "status": "final"}},
			{"resource": {"resourceType": "Starship"}}
		]
	}`

	v := NewBundleValidator(engine.Default().ValidateResource)
	agg := Aggregate(v.ValidateStream(context.Background(), strings.NewReader(bundle)))

	if agg.TotalEntries != 3 || agg.EntriesWithErrors != 2 {
		t.Fatalf("summary = %s", agg.Summary())
	}
	issues := agg.Issues[1]
	if len(issues) != 1 || issues[0].Diagnostics != "RequiredFieldException: Field: 'code'. Path: Observation" {
		t.Errorf("entry 1 issues = %+v", issues)
	}
	if got := agg.Issues[2]; len(got) != 1 || got[0].Path() != "Starship.resourceType" {
		t.Errorf("entry 2 issues = %+v", got)
	}
}

func TestAggregate(t *testing.T) {
	ch := make(chan *EntryResult, 5)

	valid := fhs.NewResult()
	warned, _ := mockValidate(context.Background(), []byte("odd"))
	failed, _ := mockValidate(context.Background(), []byte("bad"))

	ch <- &EntryResult{Index: 0, Result: valid}
	ch <- &EntryResult{Index: 1, Result: warned}
	ch <- &EntryResult{Index: 2, Result: failed}
	ch <- &EntryResult{Index: 3, Error: errors.New("boom")}
	ch <- &EntryResult{Index: -1, Error: errors.New("truncated")}
	close(ch)

	agg := Aggregate(ch)
	if agg.TotalEntries != 3 || agg.EntriesWithErrors != 1 || agg.EntriesWithWarnings != 1 || agg.TotalIssues != 2 {
		t.Errorf("aggregate = %+v", agg)
	}
	if len(agg.ProcessingErrors) != 2 || !agg.HasErrors() {
		t.Errorf("ProcessingErrors = %v", agg.ProcessingErrors)
	}
	if _, ok := agg.Issues[0]; ok {
		t.Error("entries without issues should not be indexed")
	}
	want := "Validated 3 entries: 1 with errors, 1 with warnings, 2 total issues"
	if agg.Summary() != want {
		t.Errorf("Summary() = %q", agg.Summary())
	}
}

func TestBundleStreamResult_NoErrors(t *testing.T) {
	ch := make(chan *EntryResult, 1)
	ch <- &EntryResult{Index: 0, Result: fhs.NewResult()}
	close(ch)

	if agg := Aggregate(ch); agg.HasErrors() {
		t.Errorf("HasErrors() = true for %+v", agg)
	}
}

func TestBundleValidator_Options(t *testing.T) {
	v := NewBundleValidator(mockValidate)
	if v.bufferSize != 100 || v.workerCount != 4 {
		t.Errorf("defaults = %d/%d", v.bufferSize, v.workerCount)
	}
	v.WithBufferSize(10).WithWorkerCount(8)
	if v.bufferSize != 10 || v.workerCount != 8 {
		t.Errorf("configured = %d/%d", v.bufferSize, v.workerCount)
	}
	v.WithBufferSize(0).WithWorkerCount(-1)
	if v.bufferSize != 10 || v.workerCount != 8 {
		t.Errorf("invalid values should be ignored: %d/%d", v.bufferSize, v.workerCount)
	}
}
