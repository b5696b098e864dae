// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceEvent records one named unit of work: a sequence step, a record
// member, or a [Named] producer.
type TraceEvent struct {
	// Names is the full hierarchical path, e.g. ["step[1]", "users"].
	Names []string `json:"step_names"`

	// Start is when the unit began.
	Start time.Time `json:"start"`

	// Duration is how long the unit took.
	Duration time.Duration `json:"duration"`

	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// TraceOption configures trace behavior.
type TraceOption func(*traceOptions)

type traceOptions struct {
	streamTo io.Writer
}

// WithStreamTo streams each event as a JSON line to w as soon as it
// finishes, in addition to keeping it in memory.
//
// Write failures are ignored so that tracing never fails a run.
func WithStreamTo(w io.Writer) TraceOption {
	return func(opts *traceOptions) {
		opts.streamTo = w
	}
}

// Trace is the result of a traced run.
type Trace struct {
	// ID identifies the run.
	ID string

	// Events in approximate start order. Events of concurrent record
	// members may interleave; sort by Start for a strict order.
	Events []TraceEvent

	// Start is when the traced run began.
	Start time.Time

	// Duration is the total run time. For filtered traces (from Filter),
	// this is the sum of event durations.
	Duration time.Duration

	// TotalSteps is the number of events recorded.
	TotalSteps int

	// TotalErrors is the number of events that failed.
	TotalErrors int
}

// trace is the collector installed in the context during a traced run.
type trace struct {
	mu      sync.Mutex
	encoder *json.Encoder
	result  *Trace
}

// eventIdx is a type-safe index into the trace's event array.
type eventIdx int

// Traced runs p, forwarding its values, and records every named unit of
// work inside it. When p returns, done receives the finished [Trace].
//
// Sequence steps are recorded as "step[i]", record members by their key,
// and [Named] producers by their name.
//
// Example:
//
//	var tr *join.Trace
//	run := join.Traced(join.ConcatJoin(steps...), func(t *join.Trace) { tr = t })
//	acc, err := join.Last(ctx, run)
//	_, _ = tr.WriteText(os.Stdout)
func Traced[T any](p Producer[T], done func(*Trace), opts ...TraceOption) Producer[T] {
	options := traceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return func(ctx context.Context, emit func(T)) error {
		result := &Trace{
			ID:     uuid.NewString(),
			Start:  time.Now(),
			Events: make([]TraceEvent, 0),
		}
		tr := &trace{result: result}
		if options.streamTo != nil {
			tr.encoder = json.NewEncoder(options.streamTo)
		}

		j := deriveCtx(ctx)
		j.trace = tr

		defer func() {
			result.Duration = time.Since(result.Start)
			if flusher, ok := options.streamTo.(interface{ Flush() error }); ok {
				_ = flusher.Flush()
			}
			if done != nil {
				done(result)
			}
		}()
		return p(j, emit)
	}
}

// newEvent appends an event for names and returns its index.
func (t *trace) newEvent(names []string) eventIdx {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.result.Events = append(t.result.Events, TraceEvent{
		Names: names,
		Start: time.Now(),
	})
	t.result.TotalSteps++
	return eventIdx(len(t.result.Events) - 1)
}

// recordFinish sets the duration and error of an event.
func (t *trace) recordFinish(idx eventIdx, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := &t.result.Events[idx]
	event.Duration = time.Since(event.Start)
	if err != nil {
		event.Error = innermost(err).Error()
		t.result.TotalErrors++
	}

	if t.encoder != nil {
		_ = t.encoder.Encode(event)
	}
}

// innermost strips the wrappers this package adds around an error, so a
// failure nested several steps deep is not repeated at each level.
// Wrappers from other packages are kept.
func innermost(err error) error {
	for {
		var inner error
		switch e := err.(type) {
		case NamedError:
			inner = e.Err
		case *IndexedError:
			inner = e.Err
		case *KeyedError:
			inner = e.Err
		}
		if inner == nil {
			return err
		}
		err = inner
	}
}
