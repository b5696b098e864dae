// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Options specifies how a sequence is run.
type Options struct {
	// RecordLimit controls how many members of a record step may run at
	// once.
	//
	// Numbers less than or equal to zero indicate no limit.
	RecordLimit int
}

// InSequence runs steps strictly in order and emits the final [Accumulator]
// exactly once.
//
// InSequence is the same as [InSequenceWith] with the default [Options].
// See [ConcatJoin] for the variadic form.
func InSequence[T any](steps []Step[T]) Producer[Accumulator[T]] {
	return InSequenceWith(Options{}, steps)
}

// ConcatJoin is [InSequence] taking its steps as variadic arguments.
//
// Example:
//
//	run := join.ConcatJoin(
//	    join.Source(join.Just[any]("a")),
//	    join.Factory(func(_ []any) join.Producer[any] { return join.Just[any]("b") }),
//	    join.Factory(func(soFar []any) join.Producer[any] {
//	        return join.Just[any]([]any{soFar[0], soFar[1]})
//	    }),
//	)
//	acc, err := join.Last(ctx, run) // acc.List == []any{"a", "b", []any{"a", "b"}}
func ConcatJoin[T any](steps ...Step[T]) Producer[Accumulator[T]] {
	return InSequence(steps)
}

// InSequenceWith runs steps strictly in order and emits the final
// [Accumulator] exactly once.
//
// The mode of the run is fixed by the first step: [MapMode] if it is a
// record step, [ListMode] otherwise. An empty step list emits an empty
// list accumulator.
//
// Every step is classified when the run starts, before any of them
// executes. A step whose shape disagrees with the mode fails the run with a
// [ConfigurationError]; a zero Step fails it with [ErrInvalidStep].
//
// Step i+1 starts only after step i has completed and its last value has
// been added to the accumulator. Factories are called at that point with a
// snapshot of the accumulator. Members of a record step run concurrently
// (see [InParallelMapWith]) and are merged as one unit.
//
// A failing step ends the run with its error wrapped in an [IndexedError]
// carrying the step index; later steps never start. No intermediate
// accumulator is ever emitted.
//
// Nothing runs until the returned [Producer] is called, and each call is
// an independent run with its own accumulator.
func InSequenceWith[T any](opts Options, steps []Step[T]) Producer[Accumulator[T]] {
	steps = slices.Clone(steps)
	return func(ctx context.Context, emit func(Accumulator[T])) error {
		if len(steps) == 0 {
			emit(newAccumulator[T](ListMode))
			return nil
		}

		mode, err := classify(steps)
		if err != nil {
			return err
		}

		acc := newAccumulator[T](mode)
		for i, step := range steps {
			acc, err = applyStep(ctx, opts, i, acc, step)
			if err != nil {
				return err
			}
		}

		emit(acc)
		return nil
	}
}

// applyStep runs one step against acc and returns the grown accumulator.
func applyStep[T any](
	ctx context.Context,
	opts Options,
	index int,
	acc Accumulator[T],
	step Step[T],
) (Accumulator[T], error) {
	if err := ctx.Err(); err != nil {
		return acc, err
	}

	next := acc
	err := scoped(ctx, stepName(index), func(ctx context.Context) error {
		if step.IsRecord() {
			members := step.record.producers(maps.Clone(acc.Map))
			for key, p := range members {
				members[key] = scopedProducer(key, p)
			}
			group := InParallelMapWith(ParallelOptions{Limit: opts.RecordLimit}, members)
			values, err := Last(ctx, group)
			if err != nil {
				return err
			}
			next = acc.merged(values)
			return nil
		}

		p := step.resolve(slices.Clone(acc.List))
		if p == nil {
			return ErrNilProducer
		}
		v, err := Last(ctx, p)
		if err != nil {
			return err
		}
		next = acc.appended(v)
		return nil
	})
	if err != nil {
		return acc, &IndexedError{Index: index, Err: err}
	}
	return next, nil
}

// scopedProducer runs p with name pushed onto the name stack.
func scopedProducer[T any](name string, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		return scoped(ctx, name, func(ctx context.Context) error {
			return p(ctx, emit)
		})
	}
}

func stepName(index int) string {
	return fmt.Sprintf("step[%d]", index)
}
