// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelOptions specifies how producers are joined.
type ParallelOptions struct {
	// Limit controls how many producers may run at once.
	//
	// Numbers less than or equal to zero indicate no limit.
	Limit int
}

// InParallel runs producers concurrently and emits, once all of them have
// completed, the slice of their last values in the same positions.
//
// InParallel is the same as [InParallelWith] with the default [ParallelOptions].
//
// Example:
//
//	quotes := join.InParallel(fetchQuote("ACME"), fetchQuote("INITECH"))
//	prices, err := join.Last(ctx, quotes) // []Quote{acme, initech}
func InParallel[T any](producers ...Producer[T]) Producer[[]T] {
	return InParallelWith(ParallelOptions{}, producers...)
}

// InParallelWith runs producers concurrently and emits the slice of their
// last values.
//
// With no producers it emits an empty slice immediately. Otherwise all
// producers are started, and the slice is emitted exactly once after every
// one of them has completed.
//
// The first failure cancels the context shared by the remaining producers
// and becomes the result, wrapped in an [IndexedError]. The join returns
// only after every started producer has returned, so no work outlives it.
// A producer that completes without emitting fails with [ErrNoValue].
func InParallelWith[T any](opts ParallelOptions, producers ...Producer[T]) Producer[[]T] {
	return func(ctx context.Context, emit func([]T)) error {
		if len(producers) == 0 {
			emit([]T{})
			return nil
		}

		results := make([]T, len(producers))
		group, subCtx := newGroup(ctx, opts)
		for i, p := range producers {
			group.Go(func() error {
				v, err := Last(subCtx, p)
				if err != nil {
					return &IndexedError{Index: i, Err: err}
				}
				results[i] = v
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}

		emit(results)
		return nil
	}
}

// InParallelMap runs the named producers concurrently and emits, once all of
// them have completed, the map of their last values under the same keys.
//
// InParallelMap is the same as [InParallelMapWith] with the default
// [ParallelOptions].
func InParallelMap[T any](producers map[string]Producer[T]) Producer[map[string]T] {
	return InParallelMapWith(ParallelOptions{}, producers)
}

// InParallelMapWith runs the named producers concurrently and emits the map
// of their last values.
//
// It behaves like [InParallelWith]: an empty input emits an empty map
// immediately, and failures are wrapped in a [KeyedError].
func InParallelMapWith[T any](
	opts ParallelOptions,
	producers map[string]Producer[T],
) Producer[map[string]T] {
	return func(ctx context.Context, emit func(map[string]T)) error {
		if len(producers) == 0 {
			emit(map[string]T{})
			return nil
		}

		// each goroutine writes only its own slot
		keys := make([]string, 0, len(producers))
		for key := range producers {
			keys = append(keys, key)
		}
		values := make([]T, len(keys))

		group, subCtx := newGroup(ctx, opts)
		for i, key := range keys {
			p := producers[key]
			group.Go(func() error {
				v, err := Last(subCtx, p)
				if err != nil {
					return &KeyedError{Key: key, Err: err}
				}
				values[i] = v
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}

		results := make(map[string]T, len(keys))
		for i, key := range keys {
			results[key] = values[i]
		}
		emit(results)
		return nil
	}
}

func newGroup(ctx context.Context, opts ParallelOptions) (*errgroup.Group, context.Context) {
	group, subCtx := errgroup.WithContext(ctx)
	if opts.Limit > 0 {
		group.SetLimit(opts.Limit)
	}
	return group, subCtx
}
