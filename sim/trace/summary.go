package trace

// SeriesSummary aggregates statistics from a recorded Series.
type SeriesSummary struct {
	Points             int
	FinalTime          float64
	PeakBacteria       int
	PeakPhages         int
	MaxInfectedPercent float64
	// MeanInfectedPercent weights each observation by the time until the next one.
	MeanInfectedPercent float64
	Final               Observation
}

// Summarize computes aggregate statistics from a Series.
// Safe for nil or empty series (returns zero-value fields).
func Summarize(s *Series) *SeriesSummary {
	summary := &SeriesSummary{}
	if s == nil || len(s.Observations) == 0 {
		return summary
	}

	obs := s.Observations
	summary.Points = len(obs)
	summary.Final = obs[len(obs)-1]
	summary.FinalTime = summary.Final.Time

	weighted := 0.0
	for i, o := range obs {
		if o.Bacteria > summary.PeakBacteria {
			summary.PeakBacteria = o.Bacteria
		}
		if o.Phages > summary.PeakPhages {
			summary.PeakPhages = o.Phages
		}
		if o.InfectedPercent > summary.MaxInfectedPercent {
			summary.MaxInfectedPercent = o.InfectedPercent
		}
		if i+1 < len(obs) {
			weighted += o.InfectedPercent * (obs[i+1].Time - o.Time)
		}
	}

	span := summary.FinalTime - obs[0].Time
	if span > 0 {
		summary.MeanInfectedPercent = weighted / span
	} else {
		summary.MeanInfectedPercent = obs[0].InfectedPercent
	}
	return summary
}
