// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"log/slog"
	"time"
)

// joinCtxKey is the context key for retrieving the joinCtx.
type joinCtxKey struct{}

// joinCtx consolidates all join-specific context values (trace, names,
// logger) so that each of them is a single lookup.
//
// It embeds the parent context.Context to delegate cancellation, deadlines,
// and foreign values.
type joinCtx struct {
	context.Context

	// trace is the active execution trace, or nil.
	trace *trace

	// names is the name stack in hierarchical order (oldest first).
	names []string

	// slogger defaults to slog.Default() if not explicitly set.
	slogger *slog.Logger

	// hooks observe every named unit of work, outermost first.
	hooks []Hook
}

// Value intercepts joinCtxKey lookups and delegates all other keys to the
// embedded parent context.
func (j *joinCtx) Value(key any) any {
	if _, ok := key.(joinCtxKey); ok {
		return j
	}
	return j.Context.Value(key)
}

// lookupCtx returns the innermost joinCtx of ctx, or nil.
func lookupCtx(ctx context.Context) *joinCtx {
	j, _ := ctx.Value(joinCtxKey{}).(*joinCtx)
	return j
}

// deriveCtx creates a joinCtx wrapping parent that inherits the values of
// the innermost joinCtx found in parent, if any.
func deriveCtx(parent context.Context) *joinCtx {
	origin := lookupCtx(parent)
	if origin == nil {
		return &joinCtx{Context: parent, slogger: slog.Default()}
	}
	return &joinCtx{
		Context: parent,
		trace:   origin.trace,
		names:   origin.names,
		slogger: origin.slogger,
		hooks:   origin.hooks,
	}
}

// A Hook observes named units of work: sequence steps, record members, and
// [Named] producers.
//
// It is called when a unit starts, with the unit's full name path. The
// returned context is the one the unit runs with, so a hook can attach
// values such as a tracing span. The returned function is called with the
// unit's result when it finishes.
type Hook func(ctx context.Context, names []string) (context.Context, func(error))

// WithHook installs hook for every named unit of work inside p.
//
// Hooks installed by enclosing producers keep running; the new hook runs
// after them.
func WithHook[T any](hook Hook, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		j := deriveCtx(ctx)
		j.hooks = append(append(make([]Hook, 0, len(j.hooks)+1), j.hooks...), hook)
		return p(j, emit)
	}
}

// WithTimeout runs p with a context that is cancelled after timeout.
//
// Example:
//
//	join.WithTimeout(5*time.Second, fetchQuote)
func WithTimeout[T any](timeout time.Duration, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return p(ctx, emit)
	}
}

// WithDeadline runs p with a context that is cancelled at deadline.
func WithDeadline[T any](deadline time.Time, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		ctx, cancel := context.WithDeadline(ctx, deadline)
		defer cancel()
		return p(ctx, emit)
	}
}

// Delay waits for duration before starting p.
//
// The wait respects cancellation: if ctx is done first, p never starts and
// the context error is returned.
func Delay[T any](duration time.Duration, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		timer := time.NewTimer(duration)
		defer timer.Stop()

		select {
		case <-timer.C:
			return p(ctx, emit)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
