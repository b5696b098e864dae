// SPDX-License-Identifier: Apache-2.0

package join

import (
	"maps"
	"slices"
)

// An Accumulator holds the results of a sequence.
//
// In [ListMode], List has one value per step in step order. In [MapMode],
// Map holds the merged values of every record step, later keys shadowing
// earlier ones. The field of the other mode is nil.
//
// An Accumulator also counts the steps applied to it (see [Accumulator.Steps]),
// so compare results through List and Map rather than whole values.
type Accumulator[T any] struct {
	Mode Mode
	List []T
	Map  map[string]T

	// steps counts the steps applied so far. An empty accumulator with no
	// steps adopts the mode of the first step applied to it.
	steps int
}

// newAccumulator returns an empty accumulator of the given mode.
func newAccumulator[T any](mode Mode) Accumulator[T] {
	if mode == MapMode {
		return Accumulator[T]{Mode: MapMode, Map: map[string]T{}}
	}
	return Accumulator[T]{Mode: ListMode, List: []T{}}
}

// Len returns the number of values held.
func (a Accumulator[T]) Len() int {
	if a.Mode == MapMode {
		return len(a.Map)
	}
	return len(a.List)
}

// Steps returns the number of steps that contributed to a.
func (a Accumulator[T]) Steps() int {
	return a.steps
}

// appended returns a copy of a with v added as the next list slot.
// a itself is left untouched, so earlier snapshots stay valid.
func (a Accumulator[T]) appended(v T) Accumulator[T] {
	a.List = append(slices.Clip(a.List), v)
	a.steps++
	return a
}

// merged returns a copy of a with the entries of m merged in.
func (a Accumulator[T]) merged(m map[string]T) Accumulator[T] {
	next := maps.Clone(a.Map)
	if next == nil {
		next = make(map[string]T, len(m))
	}
	maps.Copy(next, m)
	a.Map = next
	a.steps++
	return a
}
