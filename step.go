// SPDX-License-Identifier: Apache-2.0

package join

// Kind tags the shape of a [Step].
type Kind int

const (
	// KindInvalid is the kind of the zero Step.
	KindInvalid Kind = iota
	// KindProducer is a step backed by an existing producer.
	KindProducer
	// KindFactory is a step whose producer is derived from the results so far.
	KindFactory
	// KindRecord is a named group of producers resolved concurrently.
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindProducer:
		return "producer"
	case KindFactory:
		return "factory"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// Mode is the shape of a sequence's accumulator.
type Mode int

const (
	// ListMode accumulates one value per step, in order.
	ListMode Mode = iota
	// MapMode merges the keyed values of each record step.
	MapMode
)

func (m Mode) String() string {
	if m == MapMode {
		return "map"
	}
	return "list"
}

// A ListFactory derives a step's producer from the values accumulated by
// the steps before it.
type ListFactory[T any] = func(soFar []T) Producer[T]

// A MapFactory derives a record member's producer from the values
// accumulated by the record steps before it.
type MapFactory[T any] = func(soFar map[string]T) Producer[T]

// A Step is one unit of a sequence: a producer, a factory, or a record.
//
// Build steps with [Source], [Factory], and [Group]. The zero Step is
// invalid and fails any sequence it is part of.
type Step[T any] struct {
	kind     Kind
	producer Producer[T]
	factory  ListFactory[T]
	record   Record[T]
}

// Source creates a step that runs p as is.
func Source[T any](p Producer[T]) Step[T] {
	return Step[T]{kind: KindProducer, producer: p}
}

// Factory creates a step whose producer is built by f when execution
// reaches the step.
//
// f receives a snapshot of the list accumulated so far: exactly one value
// per earlier step and nothing else.
//
// Example:
//
//	join.ConcatJoin(
//	    join.Source(loadUser),
//	    join.Factory(func(soFar []any) join.Producer[any] {
//	        return loadOrders(soFar[0].(User))
//	    }),
//	)
func Factory[T any](f ListFactory[T]) Step[T] {
	return Step[T]{kind: KindFactory, factory: f}
}

// Group creates a record step. Its members run concurrently and their
// values are merged into the map accumulator as one unit.
//
// An empty record is a valid record step.
func Group[T any](r Record[T]) Step[T] {
	if r == nil {
		r = Record[T]{}
	}
	return Step[T]{kind: KindRecord, record: r}
}

// Kind reports the shape of s.
func (s Step[T]) Kind() Kind {
	return s.kind
}

// IsRecord reports whether s is a record step.
func (s Step[T]) IsRecord() bool {
	return s.kind == KindRecord
}

// Mode reports the accumulator mode that s belongs to: [MapMode] for record
// steps and [ListMode] for everything else.
func (s Step[T]) Mode() Mode {
	if s.IsRecord() {
		return MapMode
	}
	return ListMode
}

// resolve returns the producer for a list-mode step, calling the factory
// with soFar if the step has one.
func (s Step[T]) resolve(soFar []T) Producer[T] {
	if s.kind == KindFactory {
		if s.factory == nil {
			return nil
		}
		return s.factory(soFar)
	}
	return s.producer
}

// A Record is a named group of producers and factories.
type Record[T any] map[string]Member[T]

// A Member is one entry of a [Record]: a producer or a [MapFactory].
type Member[T any] struct {
	producer Producer[T]
	factory  MapFactory[T]
}

// Entry creates a record member that runs p as is.
func Entry[T any](p Producer[T]) Member[T] {
	return Member[T]{producer: p}
}

// DeferredEntry creates a record member whose producer is built by f with a
// snapshot of the map accumulated by earlier record steps.
//
// Members of the same record see the same snapshot; they never see each
// other's values.
func DeferredEntry[T any](f MapFactory[T]) Member[T] {
	return Member[T]{factory: f}
}

// resolve returns the member's producer, calling its factory with soFar if
// it has one.
func (m Member[T]) resolve(soFar map[string]T) Producer[T] {
	if m.factory != nil {
		return m.factory(soFar)
	}
	return m.producer
}

// producers resolves every member of r against soFar.
func (r Record[T]) producers(soFar map[string]T) map[string]Producer[T] {
	resolved := make(map[string]Producer[T], len(r))
	for key, member := range r {
		p := member.resolve(soFar)
		if p == nil {
			p = Fail[T](ErrNilProducer)
		}
		resolved[key] = p
	}
	return resolved
}

// classify fixes the mode of a sequence from its first step and checks
// every other step against it.
func classify[T any](steps []Step[T]) (Mode, error) {
	mode := steps[0].Mode()
	for i, step := range steps {
		if step.kind == KindInvalid {
			return mode, &IndexedError{Index: i, Err: ErrInvalidStep}
		}
		if step.Mode() != mode {
			return mode, &ConfigurationError{Index: i, Want: mode, Got: step.Mode()}
		}
	}
	return mode, nil
}
