package sim

import "github.com/phage-sim/phage-sim/sim/trace"

// Observer receives one observation per executed event, in time order.
// A returned error stops the run.
type Observer interface {
	Observe(obs trace.Observation) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(obs trace.Observation) error

// Observe calls f(obs).
func (f ObserverFunc) Observe(obs trace.Observation) error {
	return f(obs)
}

// Observers fans one observation out to several sinks, in order, stopping
// at the first error.
type Observers []Observer

// Observe forwards obs to every sink.
func (all Observers) Observe(obs trace.Observation) error {
	for _, o := range all {
		if o == nil {
			continue
		}
		if err := o.Observe(obs); err != nil {
			return err
		}
	}
	return nil
}
