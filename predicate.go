// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
)

// A Predicate is a failable boolean condition check.
//
// It returns true or false to indicate whether the condition is met,
// and may return an error if the condition check itself fails.
type Predicate = func(context.Context) (bool, error)

// When runs p only if the predicate returns true.
//
// If the predicate returns false, the result completes without emitting.
// That suits [InSequenceUncollated] and [InParallelUncollated]; a sequence
// or join that needs a value from a skipped producer fails with
// [ErrNoValue], so use [If] there.
func When[T any](predicate Predicate, p Producer[T]) Producer[T] {
	return If(predicate, p, nil)
}

// Unless runs p only if the predicate returns false.
//
// See [When] for what a skipped producer does.
func Unless[T any](predicate Predicate, p Producer[T]) Producer[T] {
	return If(Not(predicate), p, nil)
}

// If runs then when the predicate returns true and otherwise when it
// returns false. A nil branch completes without emitting.
//
// The predicate is checked each time the result is run, so it sees the
// world as it is when execution reaches the step:
//
//	join.Group(join.Record[Quote]{
//	    "quote": join.Entry(join.If(marketOpen, liveQuote, lastClose)),
//	})
func If[T any](predicate Predicate, then, otherwise Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		ok, err := predicate(ctx)
		if err != nil {
			return err
		}
		p := otherwise
		if ok {
			p = then
		}
		if p == nil {
			return nil
		}
		return p(ctx, emit)
	}
}

// Not negates a predicate, returning true when the predicate returns false
// and vice versa.
func Not(predicate Predicate) Predicate {
	return func(ctx context.Context) (bool, error) {
		ok, err := predicate(ctx)
		return !ok, err
	}
}

// And combines multiple predicates with logical AND.
//
// All predicates must return true for the result to be true. Evaluation
// short-circuits on the first false or error.
func And(predicates ...Predicate) Predicate {
	return func(ctx context.Context) (bool, error) {
		for _, p := range predicates {
			ok, err := p(ctx)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
}

// Or combines multiple predicates with logical OR.
//
// Returns true if any predicate returns true. Evaluation short-circuits
// on the first true or error.
func Or(predicates ...Predicate) Predicate {
	return func(ctx context.Context) (bool, error) {
		for _, p := range predicates {
			ok, err := p(ctx)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
}
