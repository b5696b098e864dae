// SPDX-License-Identifier: Apache-2.0

package join

// InSequenceUncollated runs producers one after another, discarding their
// values, and emits a single signal after the last one completes.
//
// An empty list signals immediately. The first failure ends the run and
// later producers never start. Producers may complete without emitting.
func InSequenceUncollated[T any](producers []Producer[T]) Producer[struct{}] {
	return Completion(Concat(producers...))
}

// InParallelUncollated runs producers concurrently, discarding their values,
// and emits a single signal once all of them have completed.
//
// An empty list signals immediately. The first failure cancels the others,
// as in [InParallel]. Producers may complete without emitting.
func InParallelUncollated[T any](producers []Producer[T]) Producer[struct{}] {
	signals := make([]Producer[struct{}], len(producers))
	for i, p := range producers {
		signals[i] = Completion(p)
	}
	return Completion(InParallel(signals...))
}
