// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var error3 = errors.New("error 3")

// isRecoveredPanic validates that the error is a RecoveredPanic.
func isRecoveredPanic(testErr error) error {
	var rp *RecoveredPanic
	if !errors.As(testErr, &rp) {
		return fmt.Errorf("expected RecoveredPanic, got %v", testErr)
	}
	return nil
}

// panicWith panics with value when run.
func panicWith[T any](value any) Producer[T] {
	return func(context.Context, func(T)) error {
		panic(value)
	}
}

func TestConfigurationError(t *testing.T) {
	t.Parallel()
	err := error(&ConfigurationError{Index: 2, Want: MapMode, Got: ListMode})

	assert.ErrorIs(t, err, ErrStepMismatch)
	assert.NotErrorIs(t, err, ErrInvalidStep)
	assert.Equal(t, "step 2: step-shape mismatch: sequence is in map mode but step is list", err.Error())

	// wrapping keeps it discoverable
	wrapped := fmt.Errorf("loading: %w", err)
	var ce *ConfigurationError
	require.ErrorAs(t, wrapped, &ce)
	assert.Equal(t, 2, ce.Index)
}

func TestPositionalErrors(t *testing.T) {
	t.Parallel()
	err := error(&IndexedError{Index: 1, Err: &KeyedError{Key: "users", Err: error1}})

	assert.Equal(t, `element 1: key "users": error 1`, err.Error())
	if verr := all(matches(error1), atIndex(1), atKey("users"))(err); verr != nil {
		t.Error(verr)
	}

	named := error(NamedError{Name: "load", Err: err})
	assert.Equal(t, `load: element 1: key "users": error 1`, named.Error())
	assert.ErrorIs(t, named, error1)
}

func TestOnError(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		producer  Producer[int]
		expected  []int
		validator func(error) error
	}{
		{
			name: "NoError",
			producer: OnError(
				Just(5),
				func(context.Context, error) (Producer[int], error) {
					return Just(100), nil
				},
			),
			expected:  []int{5},
			validator: isNil,
		},
		{
			name: "FallbackExecuted",
			producer: OnError(
				Concat(Just(1), Fail[int](error1)),
				func(_ context.Context, err error) (Producer[int], error) {
					if errors.Is(err, error1) {
						return Just(10), nil
					}
					return Just(20), nil
				},
			),
			expected:  []int{1, 10}, // value before the failure is kept
			validator: isNil,
		},
		{
			name: "HandlerError",
			producer: OnError(
				Fail[int](error1),
				func(context.Context, error) (Producer[int], error) {
					return nil, error2
				},
			),
			validator: matches(error2),
		},
		{
			name: "FallbackFails",
			producer: OnError(
				Fail[int](error1),
				FallbackTo(Fail[int](error3)),
			),
			validator: all(matches(error3), func(err error) error {
				if errors.Is(err, error1) {
					return fmt.Errorf("original error leaked into %v", err)
				}
				return nil
			}),
		},
		{
			name:      "FallbackToExecuted",
			producer:  OnError(Fail[int](error1), FallbackTo(Just(7))),
			expected:  []int{7},
			validator: isNil,
		},
		{
			name: "NilFallbackSwallowsError",
			producer: OnError(
				Fail[int](error1),
				func(context.Context, error) (Producer[int], error) {
					//nolint:nilnil
					return nil, nil
				},
			),
			validator: isNil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var emitted []int
			err := tc.producer(t.Context(), func(v int) { emitted = append(emitted, v) })
			if verr := tc.validator(err); verr != nil {
				t.Error(verr)
			}
			assert.Equal(t, tc.expected, emitted)
		})
	}
}

func TestRecoverPanics(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		producer  Producer[int]
		validator func(error) error
	}{
		{
			name:      "RecoversPanic",
			producer:  RecoverPanics(panicWith[int]("oh no!")),
			validator: isRecoveredPanic,
		},
		{
			name:      "DoesNotAffectNormalOperation",
			producer:  RecoverPanics(Just(5)),
			validator: isNil,
		},
		{
			name:      "DoesNotAffectErrors",
			producer:  RecoverPanics(Fail[int](error1)),
			validator: matches(error1),
		},
		{
			name: "JoinMemberPanic",
			producer: Map(
				InParallel(Just(1), RecoverPanics(panicWith[int]("boom"))),
				func(_ context.Context, values []int) (int, error) { return len(values), nil },
			),
			validator: all(isRecoveredPanic, atIndex(1)),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Drain(t.Context(), tc.producer)
			if verr := tc.validator(err); verr != nil {
				t.Error(verr)
			}
		})
	}

	t.Run("ErrorMessage", func(t *testing.T) {
		t.Parallel()
		err := Drain(t.Context(), RecoverPanics(panicWith[int]("test panic")))
		require.Error(t, err)
		assert.Equal(t, "panic recovered: test panic", err.Error())
	})
}
