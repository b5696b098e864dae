// SPDX-License-Identifier: Apache-2.0

// Package join runs asynchronous producers in sequence or in parallel and
// collects their results.
//
// # The Problem
//
// Loading a page of data often means a chain of calls where later calls need
// the answers of earlier ones, and some calls in the middle can go out at
// the same time. Written by hand, this turns into goroutines, WaitGroups,
// result variables captured by closures, and error plumbing that obscures
// which call depends on which.
//
// Join describes such a chain as a list of steps and threads the results
// through it for you.
//
// # Producers
//
// A [Producer] is a finite asynchronous computation:
//
//	type Producer[T any] = func(ctx context.Context, emit func(T)) error
//
// It emits zero or more values and returns nil on completion, or an error.
// [Just], [FromFunc], and [FromChan] adapt existing values and code;
// [Last] and [Collect] run a producer and gather what it emitted.
//
// # Parallel Joins
//
// [InParallel] runs producers concurrently and emits the slice of their last
// values once all have completed. [InParallelMap] does the same for a map
// of named producers. Empty inputs emit an empty result immediately. The
// first failure cancels the other producers:
//
//	prices, err := join.Last(ctx, join.InParallel(
//	    fetchPrice("ACME"),
//	    fetchPrice("INITECH"),
//	))
//
// # Sequences
//
// [InSequence] and [ConcatJoin] run a list of [Step] values strictly in
// order, each one starting after the previous has completed. A step is one
// of:
//
//   - [Source]: an existing producer
//
//   - [Factory]: a function of the results so far that returns a producer,
//     called only when execution reaches the step
//
//   - [Group]: a [Record] of named producers and factories, run concurrently
//     and merged as one unit
//
// The first step fixes the shape of the result, an [Accumulator]. A sequence
// starting with a record step collects a map of all record values
// ([MapMode]); any other sequence collects one value per step ([ListMode]).
// Mixing the two shapes fails with a [ConfigurationError] before any step
// runs.
//
//	acc, err := join.Last(ctx, join.ConcatJoin(
//	    join.Group(join.Record[any]{
//	        "user": join.Entry(loadUser(id)),
//	    }),
//	    join.Group(join.Record[any]{
//	        "orders": join.DeferredEntry(func(soFar map[string]any) join.Producer[any] {
//	            return loadOrders(soFar["user"].(User))
//	        }),
//	        "prefs": join.DeferredEntry(func(soFar map[string]any) join.Producer[any] {
//	            return loadPrefs(soFar["user"].(User))
//	        }),
//	    }),
//	))
//	// acc.Map has "user", "orders", and "prefs"
//
// [Collate] builds the same sequence one step at a time.
//
// [InSequenceUncollated] and [InParallelUncollated] run producers only for
// their effects and emit a single signal when everything has completed.
//
// # Observability
//
// Sequence steps are named "step[i]" and record members by their key.
// [Traced] records a [Trace] of these units, [WithSlogger] routes their debug
// logs, and [WithHook] lets other systems observe them (see the oteljoin
// package for OpenTelemetry spans).
package join
