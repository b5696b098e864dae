// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// StepNames returns a copy of the name stack from the context.
// Returns nil if no names are present in the context.
//
// Inside a sequence the stack includes the step being run, e.g.
// ["import", "step[2]", "users"] for member "users" of the third step of a
// producer named "import".
func StepNames(ctx context.Context) []string {
	j := lookupCtx(ctx)
	if j == nil || len(j.names) == 0 {
		return nil
	}
	return append([]string{}, j.names...)
}

// fullName joins a name stack into a dotted path.
func fullName(names []string) string {
	if len(names) == 0 {
		return "<unknown>"
	}
	return strings.Join(names, ".")
}

// Named wraps a [Producer] with a name.
//
// A failure is wrapped in a [NamedError], so its message is prefixed with
// the name: "fetch: connection refused".
//
// Named also pushes the name onto the name stack of the context (see
// [StepNames]) and records a trace event when a trace is active (see
// [Traced]).
func Named[T any](name string, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		err := scoped(ctx, name, func(ctx context.Context) error {
			return p(ctx, emit)
		})
		if err != nil {
			return NamedError{Name: name, Err: err}
		}
		return nil
	}
}

// scoped runs fn with name pushed onto the name stack.
//
// It records a trace event for the run when a trace is active, runs the
// installed hooks, and logs the start and finish at debug level. Errors are
// returned unchanged.
func scoped(ctx context.Context, name string, fn func(context.Context) error) error {
	j := deriveCtx(ctx)
	j.names = append(append(make([]string, 0, len(j.names)+1), j.names...), name)

	path := fullName(j.names)
	j.slogger.Log(j, slog.LevelDebug, "starting", "name", path)

	var idx eventIdx
	if j.trace != nil {
		idx = j.trace.newEvent(j.names)
	}

	var (
		runCtx   context.Context = j
		finishes []func(error)
	)
	for _, hook := range j.hooks {
		hookCtx, finish := hook(runCtx, j.names)
		if hookCtx != nil {
			runCtx = hookCtx
		}
		if finish != nil {
			finishes = append(finishes, finish)
		}
	}

	start := time.Now()
	err := fn(runCtx)

	for i := len(finishes) - 1; i >= 0; i-- {
		finishes[i](err)
	}

	if j.trace != nil {
		j.trace.recordFinish(idx, err)
	}
	if err != nil {
		j.slogger.Log(j, slog.LevelDebug, "failed",
			"name", path, "duration_ms", time.Since(start).Milliseconds(), "error", err)
	} else {
		j.slogger.Log(j, slog.LevelDebug, "finished",
			"name", path, "duration_ms", time.Since(start).Milliseconds())
	}
	return err
}
