package sim

import "github.com/sirupsen/logrus"

// Phage is a lambda-phage particle. A free phage (Host == nil) can denature
// or attempt an infection. An integrated phage lives inside Host and can
// secrete copies or switch to the lytic cycle.
type Phage struct {
	ID      uint64
	Surface float64 // strength against surface receptors
	Enzymes float64 // strength against degrading enzymes
	Host    *Bacterium

	slot int // index in Population.phages, -1 once removed
}

// Species returns SpeciesPhage.
func (ph *Phage) Species() Species { return SpeciesPhage }

// OrganismID returns the phage's ID.
func (ph *Phage) OrganismID() uint64 { return ph.ID }

// Free reports whether the phage is free-floating.
func (ph *Phage) Free() bool { return ph.Host == nil }

// Alive reports whether the phage is still registered.
func (ph *Phage) Alive() bool { return ph.slot >= 0 }

// Execute dispatches DENATURE, INFECT, SWITCH and SECRETE.
func (ph *Phage) Execute(s *Simulator, kind EventKind) error {
	switch kind {
	case KindDenature:
		ph.denature(s)
	case KindInfect:
		ph.infect(s)
	case KindSwitch:
		ph.lyse(s)
	case KindSecrete:
		ph.secrete(s)
	default:
		return unsupported(ph, kind)
	}
	return nil
}

func (ph *Phage) denature(s *Simulator) {
	if !ph.Free() {
		return
	}
	s.Events.InvalidateOwnedBy(ph)
	s.Population.removePhage(ph, AccountingSubtractive)
	s.Metrics.Denatured++
}

// infect attacks a uniformly chosen bacterium. The phage's free-state events
// are retired either way: on success it integrates and gets SWITCH and
// SECRETE events, on failure it is consumed.
func (ph *Phage) infect(s *Simulator) {
	s.Events.InvalidateOwnedBy(ph)
	target := s.Population.randomBacterium(s.rng)

	// the second draw is skipped when the surface test already failed
	if (1-target.Surface)*ph.Surface >= s.rng.Uniform() &&
		(1-target.Enzymes)*ph.Enzymes >= s.rng.Uniform() &&
		!target.Infected {
		ph.Host = target
		target.Resident = ph
		s.Population.markInfected(target)
		s.scheduleIntegrated(ph)
		s.Metrics.Infections++
		logrus.Debugf("phage #%d integrated into bacterium #%d", ph.ID, target.ID)
		return
	}

	s.Population.removePhage(ph, AccountingSubtractive)
	s.Metrics.FailedInfections++
}

// lyse leaves the registry, kills the host and releases LysisProgeny free
// phages derived from this one.
func (ph *Phage) lyse(s *Simulator) {
	s.Events.InvalidateOwnedBy(ph)
	s.Population.removePhage(ph, s.Config.SwitchAccounting)

	if host := ph.Host; host != nil {
		host.die(s)
	}
	ph.Host = nil

	for i := 0; i < s.Config.LysisProgeny; i++ {
		s.releaseProgeny(ph)
	}
	s.Metrics.Lyses++
	logrus.Debugf("phage #%d lysed, released %d progeny (phages=%d)", ph.ID, s.Config.LysisProgeny, s.Population.PhageCount())
}

func (ph *Phage) secrete(s *Simulator) {
	s.releaseProgeny(ph)
}

// mutatePhage applies the progeny mutation rule. With probability
// m.Probability both traits move: upward when a second draw exceeds
// m.HelpsThreshold, downward otherwise, each by a random fraction of
// m.Amount. The upward enzyme step scales with the surface trait and the
// downward surface step with the enzyme headroom. Results are not clamped.
func mutatePhage(m PhageMutationConfig, rng *VariateSource, surface, enzymes float64) (float64, float64) {
	if !(m.Probability >= rng.Uniform()) {
		return surface, enzymes
	}
	if rng.Uniform() > m.HelpsThreshold {
		ns := surface + rng.Uniform()*m.Amount*(1-surface)
		ne := enzymes + rng.Uniform()*m.Amount*surface
		return ns, ne
	}
	ns := surface - rng.Uniform()*m.Amount*(1-enzymes)
	ne := enzymes - rng.Uniform()*m.Amount*enzymes
	return ns, ne
}
