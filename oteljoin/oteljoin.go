// SPDX-License-Identifier: Apache-2.0

// Package oteljoin reports the steps of join sequences as OpenTelemetry spans.
//
// Install [Hook] around a run to get one span per sequence step, record
// member, and [join.Named] producer, nested the way they ran:
//
//	tracer := otel.Tracer("importer")
//	run := oteljoin.Instrument(tracer, join.ConcatJoin(steps...))
//	acc, err := join.Last(ctx, run)
package oteljoin

import (
	"context"
	"strings"

	"github.com/sam-fredrickson/join"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PathKey is the span attribute holding the dotted name path of a unit,
// e.g. "import.step[1].users".
const PathKey = attribute.Key("join.path")

// Hook returns a [join.Hook] that starts a span for every named unit of work.
//
// The span is named after the last element of the path. Failures are
// recorded on the span and set its status to error.
func Hook(tracer trace.Tracer) join.Hook {
	return func(ctx context.Context, names []string) (context.Context, func(error)) {
		name := "<unknown>"
		if len(names) > 0 {
			name = names[len(names)-1]
		}
		ctx, span := tracer.Start(ctx, name,
			trace.WithAttributes(PathKey.String(strings.Join(names, "."))),
		)
		return ctx, func(err error) {
			endSpan(span, err)
		}
	}
}

// Instrument installs [Hook] for every named unit of work inside p.
func Instrument[T any](tracer trace.Tracer, p join.Producer[T]) join.Producer[T] {
	return join.WithHook(Hook(tracer), p)
}

// Spanned runs p inside a span called name.
//
// The span records how many values p emitted. Unlike [Instrument] it does
// not affect the name stack of the context.
func Spanned[T any](tracer trace.Tracer, name string, p join.Producer[T]) join.Producer[T] {
	return func(ctx context.Context, emit func(T)) error {
		ctx, span := tracer.Start(ctx, name)
		count := 0
		err := p(ctx, func(v T) {
			count++
			emit(v)
		})
		span.SetAttributes(attribute.Int("join.values", count))
		endSpan(span, err)
		return err
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
