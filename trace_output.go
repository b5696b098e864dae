// SPDX-License-Identifier: Apache-2.0

package join

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteTo serializes the trace events as a pretty-printed JSON array.
//
// This differs from streaming (see [WithStreamTo]), which writes one JSON
// object per line while the run is in progress.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(t.Events, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to marshal trace: %w", err)
	}
	data = append(data, '\n')

	n, err := w.Write(data)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write trace: %w", err)
	}
	return int64(n), nil
}

// WriteText writes a tree view of the trace, indenting each event by its
// depth and showing the last element of its path.
//
//	step[0] (12ms)
//	step[1] (40ms)
//	  users (38ms)
//	  orders (40ms) [ERROR: connection refused]
//
// Members of a record step run concurrently, so their events can appear
// in any order below the step. [WriteFlatText] shows full paths instead.
func (t *Trace) WriteText(w io.Writer) (int64, error) {
	return t.writeLines(w, func(event TraceEvent) string {
		depth := max(len(event.Names)-1, 0)
		name := "<unknown>"
		if len(event.Names) > 0 {
			name = event.Names[len(event.Names)-1]
		}
		return strings.Repeat("  ", depth) + name
	})
}

// WriteFlatText writes one line per event with its full path.
//
//	step[0] (12ms)
//	step[1] (40ms)
//	step[1] > users (38ms)
//	step[1] > orders (40ms) [ERROR: connection refused]
func (t *Trace) WriteFlatText(w io.Writer) (int64, error) {
	return t.writeLines(w, func(event TraceEvent) string {
		if len(event.Names) == 0 {
			return "<unknown>"
		}
		return strings.Join(event.Names, " > ")
	})
}

func (t *Trace) writeLines(w io.Writer, label func(TraceEvent) string) (int64, error) {
	var total int64
	for _, event := range t.Events {
		line := fmt.Sprintf("%s (%s)", label(event), event.Duration)
		if event.Error != "" {
			line += fmt.Sprintf(" [ERROR: %s]", event.Error)
		}
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("failed to write text: %w", err)
		}
	}
	return total, nil
}
