package lazy

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"
)

// Prefetch warms a graph by evaluating keys across a partitioned worker
// pool. Keys are routed to workers by hash of their label, so repeated keys
// land on the same worker and are evaluated at most once; single-flight in
// the graph dedupes the rest.
//
// Prefetch is an optimization only: failures are collected and returned
// combined, and every failed key stays memoized as failed exactly as if it
// had been requested directly.
//
// Defining functions with dependencies between the given keys are safe as
// long as those dependencies are acyclic; a worker that needs a key owned by
// another worker blocks until that worker's evaluation completes.
func Prefetch[K comparable, V any](ctx context.Context, g *Graph[K, V], keys []K, numWorkers int) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	buckets := make([][]K, numWorkers)
	for _, k := range keys {
		idx := 0
		if numWorkers > 1 {
			idx = int(xxhash.Sum64String(keyLabel(k)) % uint64(numWorkers))
		}
		buckets[idx] = append(buckets[idx], k)
	}

	errs := make([]error, numWorkers)
	var wg sync.WaitGroup
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, bucket []K) {
			defer wg.Done()
			for _, k := range bucket {
				if _, err := g.Get(ctx, k); err != nil {
					errs[i] = multierr.Append(errs[i], err)
				}
			}
		}(i, bucket)
	}
	wg.Wait()
	return multierr.Combine(errs...)
}
