// Package trace provides the observation records emitted by the simulation
// and simple recorders for them.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Observation captures the population state right after one executed event.
type Observation struct {
	Time            float64 // simulated time after the event
	Kind            string  // event kind that fired, e.g. "INFECT"
	Phages          int     // live phage count
	Bacteria        int     // live bacteria count
	BacteriaSurface float64 // mean bacterial surface resistance
	BacteriaEnzyme  float64 // mean bacterial enzyme resistance
	PhageSurface    float64 // mean phage surface strength
	PhageEnzyme     float64 // mean phage enzyme strength
	InfectedPercent float64 // 100 × infected / bacteria
}

// SeriesName identifies one of the seven exported time series.
type SeriesName string

const (
	SeriesPhages          SeriesName = "Lambda_Phage"
	SeriesBacteria        SeriesName = "Bacteria"
	SeriesBacteriaSurface SeriesName = "bas_avg_sr"
	SeriesBacteriaEnzyme  SeriesName = "bas_avg_enz"
	SeriesPhageSurface    SeriesName = "lps_avg_sr"
	SeriesPhageEnzyme     SeriesName = "lps_avg_enz"
	SeriesInfected        SeriesName = "bas_infected"
)

// AllSeries lists the series in export order.
var AllSeries = []SeriesName{
	SeriesPhages,
	SeriesBacteria,
	SeriesBacteriaSurface,
	SeriesBacteriaEnzyme,
	SeriesPhageSurface,
	SeriesPhageEnzyme,
	SeriesInfected,
}

// Value returns the y value of obs for the named series. Unknown names yield 0.
func (obs Observation) Value(name SeriesName) float64 {
	switch name {
	case SeriesPhages:
		return float64(obs.Phages)
	case SeriesBacteria:
		return float64(obs.Bacteria)
	case SeriesBacteriaSurface:
		return obs.BacteriaSurface
	case SeriesBacteriaEnzyme:
		return obs.BacteriaEnzyme
	case SeriesPhageSurface:
		return obs.PhageSurface
	case SeriesPhageEnzyme:
		return obs.PhageEnzyme
	case SeriesInfected:
		return obs.InfectedPercent
	}
	return 0
}
