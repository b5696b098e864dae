// SPDX-License-Identifier: Apache-2.0

package join

import (
	"context"
	"log/slog"
	"time"
)

// Slogger returns the [slog.Logger] from the context, or [slog.Default] if none is set.
//
// Sequences and [Named] producers log their progress to this logger at
// [slog.LevelDebug].
func Slogger(ctx context.Context) *slog.Logger {
	j := lookupCtx(ctx)
	if j == nil || j.slogger == nil {
		return slog.Default()
	}
	return j.slogger
}

// WithSlogger configures a [Producer] to use a specific [slog.Logger].
// A nil logger means [slog.Default].
//
// This is typically applied once at the root of a run:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	result, err := join.Last(ctx, join.WithSlogger(logger, join.ConcatJoin(steps...)))
func WithSlogger[T any](logger *slog.Logger, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		if logger == nil {
			logger = slog.Default()
		}
		j := deriveCtx(ctx)
		j.slogger = logger
		return p(j, emit)
	}
}

// WithSlogging wraps a [Producer] with structured logging that emits records
// when it starts and finishes, including the number of values emitted and
// the execution duration.
//
// The records carry the dotted name path from the context as a "name"
// attribute, or "<unknown>" outside any named scope.
//
//	{"level":"INFO","msg":"starting producer","name":"load.step[0]"}
//	{"level":"INFO","msg":"finished producer","name":"load.step[0]","values":1,"duration_ms":12}
func WithSlogging[T any](level slog.Level, p Producer[T]) Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		name := fullName(StepNames(ctx))
		logger := Slogger(ctx)

		logger.Log(ctx, level, "starting producer", "name", name)
		start := time.Now()
		count := 0
		err := p(ctx, func(v T) {
			count++
			emit(v)
		})
		duration := time.Since(start)
		if err != nil {
			logger.Log(ctx, level, "failed producer",
				"name", name, "values", count, "duration_ms", duration.Milliseconds(), "error", err)
			return err
		}
		logger.Log(ctx, level, "finished producer",
			"name", name, "values", count, "duration_ms", duration.Milliseconds())
		return nil
	}
}
