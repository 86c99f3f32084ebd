package trace

import (
	"math"
	"testing"
)

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty series and a nil one
	for _, s := range []*Series{NewSeries(), nil} {
		// WHEN summarized
		summary := Summarize(s)

		// THEN all fields are zero
		if summary.Points != 0 || summary.FinalTime != 0 {
			t.Errorf("expected zero points and time, got %+v", summary)
		}
		if summary.PeakBacteria != 0 || summary.PeakPhages != 0 {
			t.Error("expected zero peaks")
		}
		if summary.MeanInfectedPercent != 0 {
			t.Error("expected zero mean infected")
		}
	}
}

func TestSummarize_PopulatedTrace(t *testing.T) {
	// GIVEN a series whose infected share is 10% for 1 time unit and 40% for 3
	s := NewSeries()
	_ = s.Observe(Observation{Time: 1, Bacteria: 5, Phages: 9, InfectedPercent: 10})
	_ = s.Observe(Observation{Time: 2, Bacteria: 8, Phages: 3, InfectedPercent: 40})
	_ = s.Observe(Observation{Time: 5, Bacteria: 6, Phages: 4, InfectedPercent: 0})

	// WHEN summarized
	summary := Summarize(s)

	// THEN peaks, final state and the time-weighted mean are reported
	if summary.Points != 3 {
		t.Errorf("expected 3 points, got %d", summary.Points)
	}
	if summary.FinalTime != 5 || summary.Final.Bacteria != 6 {
		t.Errorf("unexpected final state: %+v", summary.Final)
	}
	if summary.PeakBacteria != 8 || summary.PeakPhages != 9 {
		t.Errorf("peaks = (%d, %d), want (8, 9)", summary.PeakBacteria, summary.PeakPhages)
	}
	if summary.MaxInfectedPercent != 40 {
		t.Errorf("max infected = %v, want 40", summary.MaxInfectedPercent)
	}
	want := (10*1 + 40*3) / 4.0
	if math.Abs(summary.MeanInfectedPercent-want) > 1e-12 {
		t.Errorf("mean infected = %v, want %v", summary.MeanInfectedPercent, want)
	}
}

func TestSummarize_SingleObservation_MeanIsItsValue(t *testing.T) {
	s := NewSeries()
	_ = s.Observe(Observation{Time: 2, InfectedPercent: 12.5})

	if got := Summarize(s).MeanInfectedPercent; got != 12.5 {
		t.Errorf("mean infected = %v, want 12.5", got)
	}
}
