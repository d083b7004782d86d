// Package resource governs the shared limits of a de-duplication run.
//
// A single Controller is shared by every Filter in a process:
//
//   - Memory: a hard byte budget for tree nodes and partition buckets.
//     AcquireMemory never blocks; a refusal becomes an allocation failure
//     in the tree that asked.
//   - Workers: bounds how many inputs are filtered at the same time.
//   - IO: a token bucket throttling input reads.
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   512 << 20,
//	    MaxWorkers:         4,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
//	r := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// # Nil Safety
//
// All methods accept a nil *Controller and then impose no limits.
package resource
