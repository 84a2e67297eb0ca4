package wmset

import (
	"context"
	"sync"
)

// result is the outcome of decoding one entity
type result[T any] struct {
	index int
	value T
	err   error
}

// parallelMap runs fn for every index in [0, n) over a bounded set of workers
// and returns the results ordered by index. It fails only when ctx is
// cancelled.
func parallelMap[T any](ctx context.Context, workers, n int, fn func(i int) (T, error)) ([]result[T], error) {
	if n == 0 {
		return nil, nil
	}

	workChan := make(chan int, n)
	resultsChan := make(chan result[T], n)

	for i := 0; i < n; i++ {
		workChan <- i
	}
	close(workChan)

	var wg sync.WaitGroup
	numWorkers := min(max(workers, 1), n)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workChan {
				if ctx.Err() != nil {
					return
				}
				value, err := fn(i)
				resultsChan <- result[T]{index: i, value: value, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]result[T], n)
	received := 0
	for r := range resultsChan {
		results[r.index] = r
		received++
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if received != n {
		return nil, context.Canceled
	}

	return results, nil
}
