// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
)

// A Producer is a finite, cancelable asynchronous computation.
//
// Calling a Producer starts it. It emits zero or more values through emit,
// one at a time, and then returns nil to signal completion or an error to
// signal failure. A Producer must return promptly once ctx is done.
//
// Producers are inert values: constructing one does no work, and each call
// is an independent run.
type Producer[T any] = func(ctx context.Context, emit func(T)) error

// Just creates a [Producer] that emits the given values in order and completes.
//
// Example:
//
//	p := join.Just("a")   // emits "a"
//	q := join.Just(1, 2)  // emits 1, then 2
func Just[T any](values ...T) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		for _, v := range values {
			if err := ctx.Err(); err != nil {
				return err
			}
			emit(v)
		}
		return nil
	}
}

// Fail creates a [Producer] that emits nothing and fails with err.
func Fail[T any](err error) Producer[T] {
	return func(_ context.Context, _ func(T)) error {
		return err
	}
}

// FromFunc lifts a blocking function into a [Producer] that emits its result.
//
// This is the usual way to adapt existing code (an HTTP call, a database
// query) into a sequence step.
//
// Example:
//
//	loadUser := join.FromFunc(func(ctx context.Context) (User, error) {
//	    return db.LoadUser(ctx, id)
//	})
func FromFunc[T any](f func(context.Context) (T, error)) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		v, err := f(ctx)
		if err != nil {
			return err
		}
		emit(v)
		return nil
	}
}

// FromChan creates a [Producer] that emits every value received from ch
// until ch is closed.
//
// The channel is consumed by whoever runs the producer, so a FromChan
// producer can only be run meaningfully once.
func FromChan[T any](ch <-chan T) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				emit(v)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Defer creates a [Producer] whose underlying producer is built by f each
// time it is run, not when Defer is called.
func Defer[T any](f func() Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		p := f()
		if p == nil {
			return ErrNilProducer
		}
		return p(ctx, emit)
	}
}

// Map applies f to every value emitted by p.
//
// The first error returned by f stops p and becomes the failure of the
// resulting [Producer].
//
// Example:
//
//	lengths := join.Map(names, func(_ context.Context, s string) (int, error) {
//	    return len(s), nil
//	})
func Map[T, U any](p Producer[T], f func(context.Context, T) (U, error)) Producer[U] {
	return func(ctx context.Context, emit func(U)) error {
		ctx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		var mapErr error
		err := p(ctx, func(t T) {
			if mapErr != nil {
				return
			}
			u, err := f(ctx, t)
			if err != nil {
				mapErr = err
				cancel(err)
				return
			}
			emit(u)
		})
		if mapErr != nil {
			return mapErr
		}
		return err
	}
}

// Concat runs each producer to completion in order, forwarding every value.
//
// The next producer is not started until the previous one has completed.
// The first failure stops the concatenation.
func Concat[T any](producers ...Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		for i, p := range producers {
			if err := ctx.Err(); err != nil {
				return err
			}
			if p == nil {
				return &IndexedError{Index: i, Err: ErrNilProducer}
			}
			if err := p(ctx, emit); err != nil {
				return err
			}
		}
		return nil
	}
}

// Completion discards every value of p and emits a single signal once p
// has completed.
func Completion[T any](p Producer[T]) Producer[struct{}] {
	return func(ctx context.Context, emit func(struct{})) error {
		if err := Drain(ctx, p); err != nil {
			return err
		}
		emit(struct{}{})
		return nil
	}
}

// Last runs p and returns the last value it emitted.
//
// If p completes without emitting anything, Last returns [ErrNoValue].
func Last[T any](ctx context.Context, p Producer[T]) (T, error) {
	var (
		last T
		seen bool
	)
	if p == nil {
		return last, ErrNilProducer
	}
	err := p(ctx, func(v T) {
		last = v
		seen = true
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if !seen {
		return last, ErrNoValue
	}
	return last, nil
}

// Collect runs p and returns every value it emitted, in order.
func Collect[T any](ctx context.Context, p Producer[T]) ([]T, error) {
	var collected []T
	if p == nil {
		return nil, ErrNilProducer
	}
	err := p(ctx, func(v T) {
		collected = append(collected, v)
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}

// Drain runs p for its side effects, discarding every value.
func Drain[T any](ctx context.Context, p Producer[T]) error {
	if p == nil {
		return ErrNilProducer
	}
	return p(ctx, func(T) {})
}
