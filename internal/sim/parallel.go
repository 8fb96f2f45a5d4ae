package sim

import (
	"context"
	"sync"
)

// Sweep runs one full integration per parameter value in parallel. Each run
// builds its own collection inside the supplied function, so runs share no
// mutable state; parallelism across runs is the only concurrency in the
// package, a single run is strictly sequential.
func Sweep(ctx context.Context, values []float64, run func(ctx context.Context, value float64) (*Result, error)) ([]*Result, error) {
	results := make([]*Result, len(values))
	errs := make([]error, len(values))

	var wg sync.WaitGroup
	for i, v := range values {
		wg.Add(1)
		go func(idx int, value float64) {
			defer wg.Done()
			results[idx], errs[idx] = run(ctx, value)
		}(i, v)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
