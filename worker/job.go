package worker

import (
	"time"

	fhs "github.com/gofhir/fhirschema"
)

// JobResult is the outcome of validating one resource of a batch.
type JobResult struct {
	// Index is the position of the resource in the batch.
	Index int

	// Result is nil when Error is set.
	Result *fhs.Result

	// Error is a decode, dispatch or cancellation error.
	Error error

	Duration time.Duration
}

// BatchResult aggregates results from one batch, in input order.
type BatchResult struct {
	Results []*JobResult

	// TotalJobs is the number of resources submitted.
	TotalJobs int

	// CompletedJobs counts resources that were validated, errors included.
	CompletedJobs int

	// FailedJobs counts results carrying an Error.
	FailedJobs int

	TotalDuration time.Duration
}

// HasErrors returns true if any job failed or reported an error issue.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
		if r.Result != nil && r.Result.HasErrors() {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error issues across all results.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += r.Result.ErrorCount()
		}
	}
	return count
}
