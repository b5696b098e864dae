// SPDX-License-Identifier: Apache-2.0

package join

import "context"

// A Collator turns a producer of an accumulator into a producer of the
// accumulator grown by one more step.
type Collator[T any] = func(Producer[Accumulator[T]]) Producer[Accumulator[T]]

// Empty creates a [Producer] that emits an accumulator to which no step
// has been applied yet.
//
// Its mode is [ListMode], but the first [Collate] applied to it adopts the
// mode of its own step.
func Empty[T any]() Producer[Accumulator[T]] {
	return Just(newAccumulator[T](ListMode))
}

// Collate is [CollateWith] with the default [Options].
func Collate[T any](step Step[T]) Collator[T] {
	return CollateWith(Options{}, step)
}

// CollateWith returns a [Collator] that applies step after everything the
// previous producer did.
//
// The previous producer runs first; its last value is the accumulator the
// step extends. An accumulator holding values keeps its mode and contents,
// so a run can continue from one built elsewhere. A step that disagrees with the accumulator's mode fails
// with a [ConfigurationError] before it starts.
//
// Applying collators left to right over [Empty] is equivalent to
// [InSequenceWith] over the same steps, except that a mode mismatch is
// only detected when execution reaches the offending step:
//
//	run := join.Collated(
//	    join.Collate(join.Group(join.Record[string]{"a": join.Entry(join.Just("a"))})),
//	    join.Collate(join.Group(join.Record[string]{
//	        "b": join.DeferredEntry(func(soFar map[string]string) join.Producer[string] {
//	            return join.Just(soFar["a"] + soFar["a"])
//	        }),
//	    })),
//	)
//	acc, err := join.Last(ctx, run) // acc.Map == map[string]string{"a": "a", "b": "aa"}
func CollateWith[T any](opts Options, step Step[T]) Collator[T] {
	return func(prev Producer[Accumulator[T]]) Producer[Accumulator[T]] {
		return func(ctx context.Context, emit func(Accumulator[T])) error {
			acc, err := Last(ctx, prev)
			if err != nil {
				return err
			}

			index := acc.steps
			switch {
			case step.kind == KindInvalid:
				return &IndexedError{Index: index, Err: ErrInvalidStep}
			case index == 0 && acc.Len() == 0:
				acc = newAccumulator[T](step.Mode())
			case step.Mode() != acc.Mode:
				return &ConfigurationError{Index: index, Want: acc.Mode, Got: step.Mode()}
			}

			next, err := applyStep(ctx, opts, index, acc, step)
			if err != nil {
				return err
			}
			emit(next)
			return nil
		}
	}
}

// Collated folds collators left to right over [Empty].
//
// This lets a sequence be built incrementally:
//
//	collators := []join.Collator[any]{join.Collate(join.Source(loadUser))}
//	if wantOrders {
//	    collators = append(collators, join.Collate(join.Factory(ordersFor)))
//	}
//	acc, err := join.Last(ctx, join.Collated(collators...))
func Collated[T any](collators ...Collator[T]) Producer[Accumulator[T]] {
	p := Empty[T]()
	for _, c := range collators {
		p = c(p)
	}
	return p
}
