// SPDX-License-Identifier: Apache-2.0

// Package zerologjoin logs the steps of join sequences with zerolog.
//
// The join package logs through log/slog. Programs that standardize on
// zerolog install [Hook] instead:
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	run := join.WithHook(zerologjoin.Hook(logger, zerolog.DebugLevel), join.ConcatJoin(steps...))
//
// Inside a unit, [zerolog.Ctx] returns a logger that carries the unit's path.
package zerologjoin

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sam-fredrickson/join"
)

// PathField is the field holding the dotted name path of a unit.
const PathField = "join_path"

// Hook returns a [join.Hook] that logs the start and finish of every named
// unit of work at level. Failures are always logged at error level.
func Hook(logger zerolog.Logger, level zerolog.Level) join.Hook {
	return func(ctx context.Context, names []string) (context.Context, func(error)) {
		unit := logger.With().Str(PathField, strings.Join(names, ".")).Logger()
		unit.WithLevel(level).Msg("starting")
		start := time.Now()
		return unit.WithContext(ctx), func(err error) {
			if err != nil {
				unit.Error().Err(err).Dur("duration", time.Since(start)).Msg("failed")
				return
			}
			unit.WithLevel(level).Dur("duration", time.Since(start)).Msg("finished")
		}
	}
}

// Logged installs [Hook] for every named unit of work inside p.
func Logged[T any](logger zerolog.Logger, level zerolog.Level, p join.Producer[T]) join.Producer[T] {
	return join.WithHook(Hook(logger, level), p)
}
