// SPDX-License-Identifier: Apache-2.0

package join

import (
	"path"
	"strings"
	"time"
)

// TraceFilter is a predicate function for filtering trace events.
type TraceFilter func(TraceEvent) bool

func matchAll(event TraceEvent, filters []TraceFilter) bool {
	for _, filter := range filters {
		if !filter(event) {
			return false
		}
	}
	return true
}

// FindEvent returns the first event matching all provided filters, or nil if none match.
//
// Example:
//
//	// the first failing record member of the third step
//	event := tr.FindEvent(join.HasPathPrefix([]string{"step[2]"}), join.DepthEquals(2), join.HasError())
func (t *Trace) FindEvent(filters ...TraceFilter) *TraceEvent {
	for i := range t.Events {
		if matchAll(t.Events[i], filters) {
			return &t.Events[i]
		}
	}
	return nil
}

// Filter returns a new Trace containing only events matching all provided
// filters. The original trace is not modified.
//
// In the returned trace, TotalSteps and TotalErrors count the filtered
// events, Duration is the sum of their durations, and Start is the earliest
// of their starts (or the original Start if nothing matched).
func (t *Trace) Filter(filters ...TraceFilter) *Trace {
	filtered := &Trace{
		ID:     t.ID,
		Start:  t.Start,
		Events: make([]TraceEvent, 0, len(t.Events)),
	}

	var earliest time.Time
	for _, event := range t.Events {
		if !matchAll(event, filters) {
			continue
		}
		filtered.Events = append(filtered.Events, event)
		filtered.Duration += event.Duration
		if event.Error != "" {
			filtered.TotalErrors++
		}
		if earliest.IsZero() || event.Start.Before(earliest) {
			earliest = event.Start
		}
	}
	if !earliest.IsZero() {
		filtered.Start = earliest
	}
	filtered.TotalSteps = len(filtered.Events)
	return filtered
}

// MinDuration returns a filter that matches events with duration >= d.
func MinDuration(d time.Duration) TraceFilter {
	return func(event TraceEvent) bool {
		return event.Duration >= d
	}
}

// HasError returns a filter that matches events with errors.
func HasError() TraceFilter {
	return func(event TraceEvent) bool {
		return event.Error != ""
	}
}

// NoError returns a filter that matches events without errors.
func NoError() TraceFilter {
	return func(event TraceEvent) bool {
		return event.Error == ""
	}
}

// NameMatches returns a filter that matches events whose last name matches
// the glob pattern, using [path.Match] semantics.
//
// Step names contain brackets, which are glob metacharacters; escape them
// to match literally: `step\[1\]`. A malformed pattern matches nothing.
func NameMatches(pattern string) TraceFilter {
	return func(event TraceEvent) bool {
		if len(event.Names) == 0 {
			return false
		}
		matched, err := path.Match(pattern, event.Names[len(event.Names)-1])
		return err == nil && matched
	}
}

// PathMatches returns a filter that matches events whose dotted path
// (Names joined with ".") matches the glob pattern.
//
// See [NameMatches] for the pattern syntax.
func PathMatches(pattern string) TraceFilter {
	return func(event TraceEvent) bool {
		if len(event.Names) == 0 {
			return false
		}
		matched, err := path.Match(pattern, strings.Join(event.Names, "."))
		return err == nil && matched
	}
}

// HasPathPrefix returns a filter that matches events whose Names start
// with prefix.
func HasPathPrefix(prefix []string) TraceFilter {
	return func(event TraceEvent) bool {
		if len(event.Names) < len(prefix) {
			return false
		}
		for i, p := range prefix {
			if event.Names[i] != p {
				return false
			}
		}
		return true
	}
}

// DepthEquals returns a filter that matches events with len(Names) == depth.
func DepthEquals(depth int) TraceFilter {
	return func(event TraceEvent) bool {
		return len(event.Names) == depth
	}
}
