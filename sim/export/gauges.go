package export

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phage-sim/phage-sim/sim/trace"
)

const namespace = "phage_sim"

// Gauges mirrors the latest observation into Prometheus metrics.
type Gauges struct {
	Clock    prometheus.Gauge
	Bacteria prometheus.Gauge
	Phages   prometheus.Gauge
	Infected prometheus.Gauge
	// MeanTrait is labelled by species ("bacterium", "phage") and trait ("surface", "enzymes").
	MeanTrait *prometheus.GaugeVec
	// Events counts executed events by kind.
	Events *prometheus.CounterVec
}

// NewGauges creates the collectors and registers them on reg.
func NewGauges(reg prometheus.Registerer) (*Gauges, error) {
	g := &Gauges{
		Clock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "clock",
			Help: "Simulated time after the last executed event.",
		}),
		Bacteria: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "bacteria",
			Help: "Live bacteria.",
		}),
		Phages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "phages",
			Help: "Live phages, free and integrated.",
		}),
		Infected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "infected_percent",
			Help: "Share of bacteria carrying a prophage, in percent.",
		}),
		MeanTrait: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "mean_trait",
			Help: "Population mean of a resistance or strength trait.",
		}, []string{"species", "trait"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_total",
			Help: "Executed events by kind.",
		}, []string{"kind"}),
	}
	for _, c := range []prometheus.Collector{g.Clock, g.Bacteria, g.Phages, g.Infected, g.MeanTrait, g.Events} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Observe updates every gauge from obs.
func (g *Gauges) Observe(obs trace.Observation) error {
	g.Clock.Set(obs.Time)
	g.Bacteria.Set(float64(obs.Bacteria))
	g.Phages.Set(float64(obs.Phages))
	g.Infected.Set(obs.InfectedPercent)
	g.MeanTrait.WithLabelValues("bacterium", "surface").Set(obs.BacteriaSurface)
	g.MeanTrait.WithLabelValues("bacterium", "enzymes").Set(obs.BacteriaEnzyme)
	g.MeanTrait.WithLabelValues("phage", "surface").Set(obs.PhageSurface)
	g.MeanTrait.WithLabelValues("phage", "enzymes").Set(obs.PhageEnzyme)
	if obs.Kind != "" {
		g.Events.WithLabelValues(obs.Kind).Inc()
	}
	return nil
}
