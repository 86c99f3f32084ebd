package trace

import (
	"fmt"
	"io"
	"strconv"
)

// TraceLevel controls the verbosity of per-event trace lines.
type TraceLevel string

const (
	// TraceLevelNone disables trace lines (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents writes one "<time> <EVENT_KIND>" line per executed event.
	TraceLevelEvents TraceLevel = "events"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelEvents: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Series records every observation of a run in memory, in arrival order.
type Series struct {
	Observations []Observation
}

// NewSeries creates an empty Series ready for recording.
func NewSeries() *Series {
	return &Series{
		Observations: make([]Observation, 0),
	}
}

// Observe appends obs. It never fails.
func (s *Series) Observe(obs Observation) error {
	s.Observations = append(s.Observations, obs)
	return nil
}

// Len returns the number of recorded observations.
func (s *Series) Len() int {
	return len(s.Observations)
}

// Points returns the (time, value) pairs of one series.
func (s *Series) Points(name SeriesName) [][2]float64 {
	pts := make([][2]float64, len(s.Observations))
	for i, obs := range s.Observations {
		pts[i] = [2]float64{obs.Time, obs.Value(name)}
	}
	return pts
}

// FormatLine renders the trace line for obs: "<time> <EVENT_KIND>".
func FormatLine(obs Observation) string {
	return strconv.FormatFloat(obs.Time, 'g', -1, 64) + " " + obs.Kind
}

// LineWriter writes one trace line per observation.
type LineWriter struct {
	w io.Writer
}

// NewLineWriter creates a LineWriter over w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// Observe writes the trace line for obs.
func (lw *LineWriter) Observe(obs Observation) error {
	_, err := fmt.Fprintln(lw.w, FormatLine(obs))
	return err
}
