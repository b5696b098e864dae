// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStepMismatch is matched by every [ConfigurationError].
	ErrStepMismatch = errors.New("step-shape mismatch")

	// ErrInvalidStep reports a zero-value [Step] with no producer, factory,
	// or record behind it.
	ErrInvalidStep = errors.New("invalid step")

	// ErrNoValue is returned when a producer completes without emitting the
	// value a join or sequence needed from it.
	ErrNoValue = errors.New("producer completed without a value")

	// ErrNilProducer is returned when a nil [Producer] is run, or a factory
	// returns one.
	ErrNilProducer = errors.New("nil producer")
)

// ConfigurationError reports a step whose shape disagrees with the mode
// fixed by the first step of a sequence.
//
// It matches [ErrStepMismatch] with [errors.Is]:
//
//	_, err := join.Last(ctx, join.ConcatJoin(
//	    join.Source(join.Just("a")),
//	    join.Group(join.Record[string]{"b": join.Entry(join.Just("b"))}),
//	))
//	if errors.Is(err, join.ErrStepMismatch) {
//	    var ce *join.ConfigurationError
//	    errors.As(err, &ce) // ce.Index == 1, ce.Want == ListMode, ce.Got == MapMode
//	}
type ConfigurationError struct {
	Index int
	Want  Mode
	Got   Mode
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"step %d: %v: sequence is in %v mode but step is %v",
		e.Index, ErrStepMismatch, e.Want, e.Got,
	)
}

// Is reports whether target is [ErrStepMismatch].
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrStepMismatch
}

// IndexedError wraps an error with the position at which it occurred.
//
// Sequences report the failing step index; joins report the failing member.
//
// Example:
//
//	var ie *join.IndexedError
//	if errors.As(err, &ie) {
//	    fmt.Printf("failed at %d: %v\n", ie.Index, ie.Err)
//	}
type IndexedError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *IndexedError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for error inspection via errors.Is and errors.As.
func (e *IndexedError) Unwrap() error {
	return e.Err
}

// KeyedError wraps an error with the key of the record member or joined
// map entry that failed.
type KeyedError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *KeyedError) Error() string {
	return fmt.Sprintf("key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyedError) Unwrap() error {
	return e.Err
}

// NamedError is an error returned by [Named].
// It wraps the underlying error with the name of the producer that failed.
type NamedError struct {
	// Name is the name of the producer that failed.
	Name string
	// Err is the underlying error.
	Err error
}

// Error returns the formatted error message.
func (e NamedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e NamedError) Unwrap() error {
	return e.Err
}

// RecoveredPanic is an error type that wraps a panic value.
type RecoveredPanic struct {
	Value any
}

func (p *RecoveredPanic) Error() string {
	return fmt.Sprintf("panic recovered: %v", p.Value)
}

// RecoverPanics wraps a producer to recover from panics and convert them to
// errors.
//
// Members of a join run on their own goroutines, where an unrecovered panic
// takes down the process. Wrapping them turns the panic into a regular
// failure that cancels their siblings.
func RecoverPanics[T any](p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &RecoveredPanic{Value: r}
			}
		}()
		return p(ctx, emit)
	}
}

// OnError substitutes a fallback producer when p fails.
//
// onError receives the failure and returns the producer to run instead. If
// onError returns an error, that error is the result. If it returns
// (nil, nil), the failure is treated as handled and the result completes.
//
// Values emitted by p before it failed are still forwarded. OnError runs the
// fallback once; it does not retry p.
//
// Example:
//
//	join.OnError(
//	    fetchFromPrimary,
//	    func(ctx context.Context, err error) (join.Producer[Config], error) {
//	        if errors.Is(err, ErrUnavailable) {
//	            return fetchFromCache, nil
//	        }
//	        return nil, err
//	    },
//	)
func OnError[T any](
	p Producer[T],
	onError func(context.Context, error) (Producer[T], error),
) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		if err := p(ctx, emit); err != nil {
			fallback, err := onError(ctx, err)
			if err != nil {
				return err
			}
			if fallback == nil {
				return nil
			}
			return fallback(ctx, emit)
		}
		return nil
	}
}

// FallbackTo returns an error handler for [OnError] that always substitutes
// the given producer.
func FallbackTo[T any](fallback Producer[T]) func(context.Context, error) (Producer[T], error) {
	return func(_ context.Context, _ error) (Producer[T], error) {
		return fallback, nil
	}
}
