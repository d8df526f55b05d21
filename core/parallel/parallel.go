// Package parallel splits per-column work across goroutines. The
// factorization itself never runs here; only independent column loops
// (column statistics, correlation diagnostics) do.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into at most runtime.NumCPU() contiguous ranges
// and calls fn(start, end) for each range concurrently. It returns when all
// ranges are done.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items <= threshold and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ParallelizeErr is ParallelizeWithThreshold for range functions that can
// fail. The error of the lowest failing range is returned, so the result is
// the same as a sequential loop that stops at the first error.
func ParallelizeErr(items int, threshold int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}
	if items <= threshold {
		return fn(0, items)
	}

	var (
		mu       sync.Mutex
		firstErr error
		firstAt  = items
	)
	Parallelize(items, func(start, end int) {
		if err := fn(start, end); err != nil {
			mu.Lock()
			if start < firstAt {
				firstAt = start
				firstErr = err
			}
			mu.Unlock()
		}
	})
	return firstErr
}
