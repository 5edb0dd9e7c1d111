package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	fhs "github.com/gofhir/fhirschema"
)

// Func validates one encoded resource.
type Func func(ctx context.Context, resource []byte) (*fhs.Result, error)

// BatchValidator fans a batch out over a fixed number of workers.
type BatchValidator struct {
	validate Func
	workers  int
}

// NewBatchValidator creates a batch validator. workers <= 0 uses NumCPU.
func NewBatchValidator(fn Func, workers int) *BatchValidator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchValidator{
		validate: fn,
		workers:  workers,
	}
}

// ValidateBatch validates every resource and returns results in input order.
// Resources not reached before ctx is cancelled carry ctx.Err().
func (bv *BatchValidator) ValidateBatch(ctx context.Context, resources [][]byte) *BatchResult {
	start := time.Now()
	results := make([]*JobResult, len(resources))

	// Small batches are not worth the goroutines.
	if len(resources) <= 2 {
		for i, res := range resources {
			results[i] = bv.run(ctx, i, res)
		}
		return summarize(results, start)
	}

	workers := bv.workers
	if workers > len(resources) {
		workers = len(resources)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = bv.run(ctx, i, resources[i])
			}
		}()
	}

submit:
	for i := range resources {
		select {
		case <-ctx.Done():
			break submit
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for i, r := range results {
		if r == nil {
			results[i] = &JobResult{Index: i, Error: ctx.Err()}
		}
	}
	return summarize(results, start)
}

func (bv *BatchValidator) run(ctx context.Context, i int, resource []byte) *JobResult {
	if err := ctx.Err(); err != nil {
		return &JobResult{Index: i, Error: err}
	}
	start := time.Now()
	result, err := bv.validate(ctx, resource)
	return &JobResult{
		Index:    i,
		Result:   result,
		Error:    err,
		Duration: time.Since(start),
	}
}

func summarize(results []*JobResult, start time.Time) *BatchResult {
	br := &BatchResult{
		Results:       results,
		TotalJobs:     len(results),
		TotalDuration: time.Since(start),
	}
	for _, r := range results {
		if r.Error != nil {
			br.FailedJobs++
		}
		if !errors.Is(r.Error, context.Canceled) && !errors.Is(r.Error, context.DeadlineExceeded) {
			br.CompletedJobs++
		}
	}
	return br
}
