// SPDX-License-Identifier: Apache-2.0

package join

// ForEach maps every item to a producer.
//
// The result can be handed to [InParallel] to load the items concurrently
// or to [InSequenceUncollated] to process them one at a time, so switching
// a loop between the two only changes the function that wraps it:
//
//	fetches := join.ForEach(symbols, fetchQuote)
//
//	// concurrently, one value per symbol
//	quotes := join.InParallel(fetches...)
//
//	// serially, as steps of a sequence
//	quotes := join.InSequence(join.Sources(fetches))
func ForEach[A, T any](items []A, f func(A) Producer[T]) []Producer[T] {
	producers := make([]Producer[T], len(items))
	for i, item := range items {
		producers[i] = f(item)
	}
	return producers
}

// ForEachKey maps every item to a producer keyed by key(item).
//
// Items with the same key replace each other; the last one wins.
func ForEachKey[A, T any](items []A, key func(A) string, f func(A) Producer[T]) map[string]Producer[T] {
	producers := make(map[string]Producer[T], len(items))
	for _, item := range items {
		producers[key(item)] = f(item)
	}
	return producers
}

// Sources turns producers into [Source] steps of a list sequence.
func Sources[T any](producers []Producer[T]) []Step[T] {
	steps := make([]Step[T], len(producers))
	for i, p := range producers {
		steps[i] = Source(p)
	}
	return steps
}

// Entries turns named producers into a [Record] for a [Group] step.
func Entries[T any](producers map[string]Producer[T]) Record[T] {
	record := make(Record[T], len(producers))
	for key, p := range producers {
		record[key] = Entry(p)
	}
	return record
}
