// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// is returns a predicate that always answers ok.
func is(ok bool) Predicate {
	return func(context.Context) (bool, error) {
		return ok, nil
	}
}

// broken returns a predicate whose check fails.
func broken(err error) Predicate {
	return func(context.Context) (bool, error) {
		return false, err
	}
}

func TestConditionals(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name      string
		producer  Producer[string]
		expected  []string
		validator func(error) error
	}{
		{
			name:      "WhenTrue",
			producer:  When(is(true), Just("ran")),
			expected:  []string{"ran"},
			validator: isNil,
		},
		{
			name:      "WhenFalse",
			producer:  When(is(false), Just("ran")),
			validator: isNil,
		},
		{
			name:      "UnlessTrue",
			producer:  Unless(is(true), Just("ran")),
			validator: isNil,
		},
		{
			name:      "UnlessFalse",
			producer:  Unless(is(false), Just("ran")),
			expected:  []string{"ran"},
			validator: isNil,
		},
		{
			name:      "IfOtherwise",
			producer:  If(is(false), Just("then"), Just("otherwise")),
			expected:  []string{"otherwise"},
			validator: isNil,
		},
		{
			name:      "PredicateError",
			producer:  If(broken(error1), Just("then"), Just("otherwise")),
			validator: matches(error1),
		},
		{
			name:      "Not",
			producer:  When(Not(is(false)), Just("ran")),
			expected:  []string{"ran"},
			validator: isNil,
		},
		{
			name:      "And",
			producer:  If(And(is(true), is(false)), Just("then"), Just("otherwise")),
			expected:  []string{"otherwise"},
			validator: isNil,
		},
		{
			name:      "AndShortCircuits",
			producer:  If(And(is(false), broken(error1)), Just("then"), Just("otherwise")),
			expected:  []string{"otherwise"},
			validator: isNil,
		},
		{
			name:      "Or",
			producer:  If(Or(is(false), is(true)), Just("then"), Just("otherwise")),
			expected:  []string{"then"},
			validator: isNil,
		},
		{
			name:      "OrError",
			producer:  If(Or(is(false), broken(error2)), Just("then"), Just("otherwise")),
			validator: matches(error2),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			values, err := Collect(t.Context(), tc.producer)
			if verr := tc.validator(err); verr != nil {
				t.Error(verr)
			}
			assert.Equal(t, tc.expected, values)
		})
	}
}

func TestConditionalsInRuns(t *testing.T) {
	t.Parallel()

	t.Run("SkippedUncollated", func(t *testing.T) {
		t.Parallel()
		var pr probe
		signals, err := Collect(t.Context(), InSequenceUncollated([]Producer[int]{
			When(is(false), wrapProbe(&pr, Just(1))),
			Just(2),
		}))
		if verr := isNil(err); verr != nil {
			t.Error(verr)
		}
		assert.Len(t, signals, 1)
		assert.Zero(t, pr.started.Load())
	})

	t.Run("SkippedStepHasNoValue", func(t *testing.T) {
		t.Parallel()
		_, err := Last(t.Context(), ConcatJoin(Source(When(is(false), Just(1)))))
		if verr := all(matches(ErrNoValue), atIndex(0))(err); verr != nil {
			t.Error(verr)
		}
	})

	t.Run("CheckedWhenReached", func(t *testing.T) {
		t.Parallel()
		open := false
		marketOpen := func(context.Context) (bool, error) { return open, nil }
		acc, err := Last(t.Context(), ConcatJoin(
			Source(FromFunc(func(context.Context) (string, error) {
				open = true
				return "opened", nil
			})),
			Source(If(marketOpen, Just("live"), Just("close"))),
		))
		if verr := isNil(err); verr != nil {
			t.Error(verr)
		}
		assert.Equal(t, []string{"opened", "live"}, acc.List)
	})
}
