package pipeline

import (
	"context"
	"fmt"
	"log"
)

// ChunkAggregator turns one batch of raw lines into a partial aggregate.
type ChunkAggregator[A any] func(chunk Chunk) A

// MergeFunc combines two partial aggregates; it must be associative and
// commutative so the final result does not depend on worker scheduling
// order.
type MergeFunc[A any] func(a, b A) A

type poolResult[A any] struct {
	agg A
	err error
}

// RunPool partitions chunks into workers contiguous, roughly equal slices
// (slice size = ceil(len(chunks)/workers)), aggregates each slice on its
// own goroutine with a local pre-reduce, then performs the final reduction
// over the per-worker aggregates in the order they come back.
//
// Workers own their aggregate exclusively; results travel back over a
// channel, so there is no shared mutable state during the parallel phase.
// An empty chunk slice returns the zero aggregate without spawning anyone.
// A worker panic or a cancelled context is fatal to the whole run: a
// partial global aggregate is unsound to report.
func RunPool[A any](ctx context.Context, chunks []Chunk, workers int, zero func() A, aggregate ChunkAggregator[A], merge MergeFunc[A]) (A, error) {
	if len(chunks) == 0 {
		return zero(), nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	sliceSize := (len(chunks) + workers - 1) / workers
	results := make(chan poolResult[A], workers)

	for i := 0; i < workers; i++ {
		lo := i * sliceSize
		if lo > len(chunks) {
			lo = len(chunks)
		}
		hi := lo + sliceSize
		if hi > len(chunks) {
			hi = len(chunks)
		}

		go func(id int, slice []Chunk) {
			var res poolResult[A]
			defer func() {
				if r := recover(); r != nil {
					res.err = fmt.Errorf("%w: worker %d panicked: %v", ErrWorkerFailure, id, r)
				}
				results <- res
			}()

			local := zero()
			for _, chunk := range slice {
				if err := ctx.Err(); err != nil {
					res.err = fmt.Errorf("%w: worker %d: %v", ErrWorkerFailure, id, err)
					return
				}
				// pre-reduce locally so the coordinator merges one
				// aggregate per worker, not one per chunk
				local = merge(local, aggregate(chunk))
			}
			res.agg = local
		}(i, chunks[lo:hi])
	}

	final := zero()
	var firstErr error
	for i := 0; i < workers; i++ {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			log.Printf("❌ %v", res.err)
			continue
		}
		final = merge(final, res.agg)
	}

	if firstErr != nil {
		return zero(), firstErr
	}
	return final, nil
}
