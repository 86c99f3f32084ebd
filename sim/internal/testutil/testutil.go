// Package testutil provides shared test infrastructure for the simulator.
// It consolidates scripted random sources and float assertion helpers used
// across sim/ and its sub-package tests.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays fixed values for Float64 and Intn. When a script
// runs out it returns the fallback values (0 for both by default).
type ScriptedSource struct {
	Floats        []float64
	Ints          []int
	FloatFallback float64
	IntFallback   int

	FloatCalls int
	IntCalls   int
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	s.FloatCalls++
	if len(s.Floats) == 0 {
		return s.FloatFallback
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// Intn returns the next scripted int, reduced modulo n.
func (s *ScriptedSource) Intn(n int) int {
	s.IntCalls++
	v := s.IntFallback
	if len(s.Ints) > 0 {
		v = s.Ints[0]
		s.Ints = s.Ints[1:]
	}
	return v % n
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
