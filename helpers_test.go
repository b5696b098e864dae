// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ==== Test Helpers: Error Variables ====

var error1 = errors.New("error 1")
var error2 = errors.New("error 2")

// ==== Test Helpers: Producers ====

// after emits v once d has elapsed, or fails with the context error.
func after[T any](d time.Duration, v T) Producer[T] {
	return Delay(d, Just(v))
}

// silent completes without emitting anything.
func silent[T any]() Producer[T] {
	return Just[T]()
}

// probe records how a producer was run.
type probe struct {
	started   atomic.Int32
	cancelled atomic.Int32
	finished  atomic.Int32
}

// wrapProbe counts starts and finishes of p.
func wrapProbe[T any](pr *probe, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		pr.started.Add(1)
		defer pr.finished.Add(1)
		return p(ctx, emit)
	}
}

// blockUntilCancelled never emits; it returns the context error once ctx is
// done and records the cancellation in pr.
func blockUntilCancelled[T any](pr *probe) Producer[T] {
	return func(ctx context.Context, _ func(T)) error {
		pr.started.Add(1)
		<-ctx.Done()
		pr.cancelled.Add(1)
		return ctx.Err()
	}
}

// journal records the order in which events happen across goroutines.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string{}, j.entries...)
}

// logged records "start <name>" and "end <name>" around p.
func logged[T any](j *journal, name string, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		j.add("start " + name)
		err := p(ctx, emit)
		j.add("end " + name)
		return err
	}
}

// ==== Test Helpers: Error Validators ====

// isNil validates that the error is nil.
func isNil(testErr error) error {
	if testErr != nil {
		return fmt.Errorf("unexpected error: %w", testErr)
	}
	return nil
}

// all returns a validator that passes only if all the given validators pass.
func all(validators ...func(error) error) func(error) error {
	return func(testErr error) error {
		for _, validator := range validators {
			if err := validator(testErr); err != nil {
				return err
			}
		}
		return nil
	}
}

// matches returns a validator that checks if the error matches the target error using errors.Is.
func matches(targetErr error) func(error) error {
	return func(testError error) error {
		if !errors.Is(testError, targetErr) {
			return fmt.Errorf("expected error %v to match error %v", testError, targetErr)
		}
		return nil
	}
}

// atIndex validates that the outermost IndexedError carries index.
func atIndex(index int) func(error) error {
	return func(testErr error) error {
		var ie *IndexedError
		if !errors.As(testErr, &ie) {
			return fmt.Errorf("expected IndexedError, got %v", testErr)
		}
		if ie.Index != index {
			return fmt.Errorf("expected index %d, got %d", index, ie.Index)
		}
		return nil
	}
}

// atKey validates that the error contains a KeyedError for key.
func atKey(key string) func(error) error {
	return func(testErr error) error {
		var ke *KeyedError
		if !errors.As(testErr, &ke) {
			return fmt.Errorf("expected KeyedError, got %v", testErr)
		}
		if ke.Key != key {
			return fmt.Errorf("expected key %q, got %q", key, ke.Key)
		}
		return nil
	}
}

// contains returns a validator that checks if the error message contains the given substring.
func contains(substring string) func(error) error {
	return func(testErr error) error {
		if testErr == nil || !strings.Contains(testErr.Error(), substring) {
			return fmt.Errorf("expected error to contain %q, got %v", substring, testErr)
		}
		return nil
	}
}
