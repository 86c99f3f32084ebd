// Tracks run-wide counters such as events fired per kind, births, deaths,
// infections and peak population sizes.

package sim

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	EventsByKind [NumEventKinds]int64 // executed events per kind

	BacteriaBorn     int64 // initial and reproduced
	BacterialDeaths  int64 // DEATH events plus hosts killed by lysis
	PhagesReleased   int64 // initial, secreted and lysis progeny
	ProphagesCloned  int64 // prophages copied into daughter cells
	ProphagesLost    int64 // prophages removed with a host that died
	Infections       int64
	FailedInfections int64
	Denatured        int64
	Lyses            int64

	PeakBacteria int
	PeakPhages   int
	PeakPool     int // largest event pool seen at the top of an iteration
}

// NewMetrics creates zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Executed returns the total number of executed events.
func (m *Metrics) Executed() int64 {
	var n int64
	for _, c := range m.EventsByKind {
		n += c
	}
	return n
}

func (m *Metrics) recordEvent(kind EventKind) {
	if kind >= 0 && int(kind) < NumEventKinds {
		m.EventsByKind[kind]++
	}
}

func (m *Metrics) recordPopulation(p *Population, poolSize int) {
	m.PeakBacteria = max(m.PeakBacteria, p.BacteriaCount())
	m.PeakPhages = max(m.PeakPhages, p.PhageCount())
	m.PeakPool = max(m.PeakPool, poolSize)
}

// Print writes the end-of-run report.
func (m *Metrics) Print(w io.Writer, res RunResult) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Outcome              : %s\n", res.Outcome)
	fmt.Fprintf(w, "Simulated Time       : %.6f\n", res.Clock)
	fmt.Fprintf(w, "Events Examined      : %s\n", humanize.Comma(res.Steps))
	fmt.Fprintf(w, "Events Executed      : %s\n", humanize.Comma(res.Iterations))
	for k := 0; k < NumEventKinds; k++ {
		fmt.Fprintf(w, "  %-18s : %s\n", EventKind(k), humanize.Comma(m.EventsByKind[k]))
	}
	fmt.Fprintf(w, "Bacteria (final/peak): %s / %s\n", humanize.Comma(int64(res.Bacteria)), humanize.Comma(int64(m.PeakBacteria)))
	fmt.Fprintf(w, "Phages (final/peak)  : %s / %s\n", humanize.Comma(int64(res.Phages)), humanize.Comma(int64(m.PeakPhages)))
	fmt.Fprintf(w, "Infected (final)     : %s\n", humanize.Comma(int64(res.Infected)))
	fmt.Fprintf(w, "Infections           : %s ok, %s failed\n", humanize.Comma(m.Infections), humanize.Comma(m.FailedInfections))
	fmt.Fprintf(w, "Lyses                : %s\n", humanize.Comma(m.Lyses))
	fmt.Fprintf(w, "Peak Event Pool      : %s\n", humanize.Comma(int64(m.PeakPool)))
}
