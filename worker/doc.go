// Package worker validates batches of resources on a fixed number of
// goroutines.
//
//	bv := worker.NewBatchValidator(eng.ValidateResource, 4)
//	batch := bv.ValidateBatch(ctx, resources)
//	for i, r := range batch.Results {
//	    if r.Error != nil {
//	        // resources[i] could not be validated
//	    }
//	}
package worker
