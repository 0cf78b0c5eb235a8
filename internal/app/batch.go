package app

import (
	"context"
	"sync"
)

// fanOut runs fn over items on at most workers goroutines and gathers
// the successful results in input order. fn returning false drops the
// item without aborting the batch.
func fanOut[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) (R, bool)) []R {
	if workers <= 0 {
		workers = 1
	}

	results := make([]R, len(items))
	kept := make([]bool, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

launch:
	for i, item := range items {
		select {
		case <-ctx.Done():
			// Stop launching; already-started work still lands in results.
			break launch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], kept[i] = fn(ctx, item)
		}(i, item)
	}

	wg.Wait()

	out := make([]R, 0, len(items))
	for i, ok := range kept {
		if ok {
			out = append(out, results[i])
		}
	}
	return out
}
