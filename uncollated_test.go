// SPDX-License-Identifier: Apache-2.0

package join

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUncollatedEmpty(t *testing.T) {
	t.Parallel()

	signals, err := Collect(t.Context(), InSequenceUncollated[int](nil))
	require.NoError(t, err)
	assert.Len(t, signals, 1)

	signals, err = Collect(t.Context(), InParallelUncollated[int](nil))
	require.NoError(t, err)
	assert.Len(t, signals, 1)
}

func TestInSequenceUncollated(t *testing.T) {
	t.Parallel()
	var j journal
	signals, err := Collect(t.Context(), InSequenceUncollated([]Producer[int]{
		logged(&j, "a", Delay(2*time.Millisecond, Just(1, 2))),
		logged(&j, "b", silent[int]()),
		logged(&j, "c", Just(3)),
	}))
	require.NoError(t, err)
	assert.Len(t, signals, 1)
	assert.Equal(t, []string{
		"start a", "end a",
		"start b", "end b",
		"start c", "end c",
	}, j.list())
}

func TestInSequenceUncollatedFailure(t *testing.T) {
	t.Parallel()
	var pr probe
	signals, err := Collect(t.Context(), InSequenceUncollated([]Producer[int]{
		Just(1),
		Fail[int](error1),
		wrapProbe(&pr, Just(2)),
	}))
	require.ErrorIs(t, err, error1)
	assert.Empty(t, signals)
	assert.Zero(t, pr.started.Load())
}

func TestInParallelUncollated(t *testing.T) {
	t.Parallel()
	var pr probe
	signals, err := Collect(t.Context(), InParallelUncollated([]Producer[string]{
		wrapProbe(&pr, after(2*time.Millisecond, "a")),
		wrapProbe(&pr, silent[string]()),
		wrapProbe(&pr, Just("b", "c")),
	}))
	require.NoError(t, err)
	assert.Len(t, signals, 1)
	assert.EqualValues(t, 3, pr.finished.Load())
}

func TestInParallelUncollatedFailure(t *testing.T) {
	t.Parallel()
	var pr probe
	signals, err := Collect(t.Context(), InParallelUncollated([]Producer[string]{
		blockUntilCancelled[string](&pr),
		Delay(time.Millisecond, Fail[string](error2)),
	}))
	if verr := all(matches(error2), atIndex(1))(err); verr != nil {
		t.Error(verr)
	}
	assert.Empty(t, signals)
	assert.EqualValues(t, 1, pr.cancelled.Load())
}
