// Package stream validates the entries of a Bundle as they are read, so a
// large bundle never has to be decoded in one piece.
package stream

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-json"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/worker"
)

// EntryResult is the outcome for one Bundle.entry. Bundle-level failures
// use Index -1.
type EntryResult struct {
	Index int

	// FullURL is entry.fullUrl, if present.
	FullURL string

	ResourceType string
	ResourceID   string

	// Result is an empty valid result for entries without a resource.
	Result *fhs.Result

	// Error is a decode, dispatch or cancellation error.
	Error error
}

// Ref returns "Type/id", "Type" or "" for the entry's resource.
func (e *EntryResult) Ref() string {
	switch {
	case e.ResourceType == "":
		return ""
	case e.ResourceID == "":
		return e.ResourceType
	default:
		return e.ResourceType + "/" + e.ResourceID
	}
}

// entry is the part of a Bundle.entry the validator reads. Other entry
// fields (request, response, search) are skipped.
type entry struct {
	FullURL  string          `json:"fullUrl"`
	Resource json.RawMessage `json:"resource"`
}

type header struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id"`
}

// BundleValidator validates bundle entries in a streaming fashion.
type BundleValidator struct {
	validate    worker.Func
	bufferSize  int
	workerCount int
}

// NewBundleValidator creates a streaming validator calling fn for every
// entry resource.
func NewBundleValidator(fn worker.Func) *BundleValidator {
	return &BundleValidator{
		validate:    fn,
		bufferSize:  100,
		workerCount: 4,
	}
}

// WithBufferSize sets the channel buffer size.
func (v *BundleValidator) WithBufferSize(size int) *BundleValidator {
	if size > 0 {
		v.bufferSize = size
	}
	return v
}

// WithWorkerCount sets the number of parallel workers.
func (v *BundleValidator) WithWorkerCount(count int) *BundleValidator {
	if count > 0 {
		v.workerCount = count
	}
	return v
}

// ValidateStream validates entries one by one on a single goroutine.
// Results arrive in bundle order.
func (v *BundleValidator) ValidateStream(ctx context.Context, r io.Reader) <-chan *EntryResult {
	results := make(chan *EntryResult, v.bufferSize)
	go func() {
		defer close(results)
		v.scan(ctx, r, func(index int, e entry, err error) {
			if err != nil {
				results <- &EntryResult{Index: index, Error: err}
				return
			}
			results <- v.process(ctx, index, e)
		})
	}()
	return results
}

// ValidateStreamParallel validates entries on WithWorkerCount goroutines
// while still emitting results in bundle order.
func (v *BundleValidator) ValidateStreamParallel(ctx context.Context, r io.Reader) <-chan *EntryResult {
	results := make(chan *EntryResult, v.bufferSize)

	type job struct {
		index int
		entry entry
		out   chan *EntryResult
	}
	jobs := make(chan job, v.bufferSize)
	// pending holds one future per entry in bundle order.
	pending := make(chan chan *EntryResult, v.bufferSize)

	var wg sync.WaitGroup
	wg.Add(v.workerCount)
	for w := 0; w < v.workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				j.out <- v.process(ctx, j.index, j.entry)
			}
		}()
	}

	go func() {
		defer close(pending)
		defer close(jobs)
		v.scan(ctx, r, func(index int, e entry, err error) {
			out := make(chan *EntryResult, 1)
			pending <- out
			if err != nil {
				out <- &EntryResult{Index: index, Error: err}
				return
			}
			jobs <- job{index: index, entry: e, out: out}
		})
	}()

	go func() {
		defer close(results)
		for out := range pending {
			results <- <-out
		}
		wg.Wait()
	}()

	return results
}

// scan walks the top-level bundle object and calls emit for every entry.
// An entry that is well-formed JSON but not an entry object is emitted with
// its decode error and scanning continues. Syntax errors and cancellation
// are emitted with Index -1 and stop the scan.
func (v *BundleValidator) scan(ctx context.Context, r io.Reader, emit func(int, entry, error)) {
	dec := json.NewDecoder(r)

	fail := func(err error) {
		emit(-1, entry{}, err)
	}

	if err := expectDelim(dec, '{'); err != nil {
		fail(fmt.Errorf("read bundle: %w", err))
		return
	}
	for dec.More() {
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}
		tok, err := dec.Token()
		if err != nil {
			fail(fmt.Errorf("read field: %w", err))
			return
		}
		name, _ := tok.(string)
		if name != "entry" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				fail(fmt.Errorf("skip field %s: %w", name, err))
				return
			}
			continue
		}

		if err := expectDelim(dec, '['); err != nil {
			fail(fmt.Errorf("read entry array: %w", err))
			return
		}
		for index := 0; dec.More(); index++ {
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				fail(fmt.Errorf("decode entry %d: %w", index, err))
				return
			}
			var e entry
			if err := json.Unmarshal(raw, &e); err != nil {
				emit(index, e, fmt.Errorf("entry %d: %w", index, err))
				continue
			}
			emit(index, e, nil)
		}
		if _, err := dec.Token(); err != nil {
			fail(fmt.Errorf("close entry array: %w", err))
			return
		}
	}
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// process validates one entry's resource.
func (v *BundleValidator) process(ctx context.Context, index int, e entry) *EntryResult {
	res := &EntryResult{Index: index, FullURL: e.FullURL}
	if len(e.Resource) == 0 || string(e.Resource) == "null" {
		res.Result = fhs.NewResult()
		return res
	}

	var h header
	if err := json.Unmarshal(e.Resource, &h); err == nil {
		res.ResourceType = h.ResourceType
		res.ResourceID = h.ID
	}

	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}
	result, err := v.validate(ctx, e.Resource)
	if err != nil {
		res.Error = err
		return res
	}
	res.Result = result
	return res
}

// BundleStreamResult aggregates the results of a streaming validation.
type BundleStreamResult struct {
	// TotalEntries counts entries that were validated.
	TotalEntries int

	EntriesWithErrors   int
	EntriesWithWarnings int

	TotalIssues int

	// ProcessingErrors are decode and cancellation errors, not violations.
	ProcessingErrors []error

	// Issues holds the issues of each entry that had any, by index.
	Issues map[int][]fhs.Issue
}

// Aggregate drains results.
func Aggregate(results <-chan *EntryResult) *BundleStreamResult {
	agg := &BundleStreamResult{
		Issues: make(map[int][]fhs.Issue),
	}

	for result := range results {
		if result.Error != nil {
			agg.ProcessingErrors = append(agg.ProcessingErrors, result.Error)
			continue
		}
		agg.TotalEntries++
		if result.Result == nil || len(result.Result.Issues) == 0 {
			continue
		}

		issues := result.Result.Issues
		agg.Issues[result.Index] = issues
		agg.TotalIssues += len(issues)

		switch {
		case result.Result.HasErrors():
			agg.EntriesWithErrors++
		case result.Result.WarningCount() > 0:
			agg.EntriesWithWarnings++
		}
	}

	return agg
}

// HasErrors returns true if any entry had errors or could not be processed.
func (r *BundleStreamResult) HasErrors() bool {
	return r.EntriesWithErrors > 0 || len(r.ProcessingErrors) > 0
}

// Summary returns a human-readable summary of the validation.
func (r *BundleStreamResult) Summary() string {
	return fmt.Sprintf(
		"Validated %d entries: %d with errors, %d with warnings, %d total issues",
		r.TotalEntries,
		r.EntriesWithErrors,
		r.EntriesWithWarnings,
		r.TotalIssues,
	)
}
