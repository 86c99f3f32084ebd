package sim

import "github.com/sirupsen/logrus"

// Bacterium is a host cell with two defenses against phage: surface
// receptors that block binding and enzymes that degrade viral DNA.
// Resident is set iff Infected.
type Bacterium struct {
	ID       uint64
	Surface  float64 // probability surface receptors block binding
	Enzymes  float64 // probability enzymes degrade viral DNA
	Infected bool
	Resident *Phage // integrated phage, non-owning

	slot int // index in Population.bacteria, -1 once removed
}

// Species returns SpeciesBacterium.
func (b *Bacterium) Species() Species { return SpeciesBacterium }

// OrganismID returns the bacterium's ID.
func (b *Bacterium) OrganismID() uint64 { return b.ID }

// Alive reports whether the bacterium is still registered.
func (b *Bacterium) Alive() bool { return b.slot >= 0 }

// Execute dispatches DEATH, REPRODUCE and CONJUGATION.
func (b *Bacterium) Execute(s *Simulator, kind EventKind) error {
	switch kind {
	case KindDeath:
		b.die(s)
	case KindReproduce:
		b.reproduce(s)
	case KindConjugation:
		b.conjugate(s)
	default:
		return unsupported(b, kind)
	}
	return nil
}

// die removes the bacterium and all of its pending events. An infected
// bacterium takes its resident phage with it.
func (b *Bacterium) die(s *Simulator) {
	if !s.Population.removeBacterium(b) {
		return
	}
	s.Events.InvalidateOwnedBy(b)
	s.Metrics.BacterialDeaths++

	if b.Infected && b.Resident != nil {
		ph := b.Resident
		s.Events.InvalidateOwnedBy(ph)
		// a lysing phage has already left the registry
		if s.Population.removePhage(ph, AccountingSubtractive) {
			s.Metrics.ProphagesLost++
		}
		ph.Host = nil
		b.Resident = nil
	}
	logrus.Debugf("bacterium #%d died (bacteria=%d)", b.ID, s.Population.BacteriaCount())
}

// reproduce creates one daughter cell. Each trait is inherited through
// inheritTrait with its own draw, surface first. An infected parent passes
// an unmutated copy of its prophage to the daughter.
func (b *Bacterium) reproduce(s *Simulator) {
	m := s.Config.BacteriumMutation
	surface := inheritTrait(b.Surface, s.rng.Uniform(), m.Surface, m.IncrementFactor, m.DecrementFactor)
	enzymes := inheritTrait(b.Enzymes, s.rng.Uniform(), m.Enzymes, m.IncrementFactor, m.DecrementFactor)

	child := s.AddBacterium(surface, enzymes)
	if b.Infected && b.Resident != nil {
		s.addProphage(b.Resident, child)
	}
}

// inheritTrait applies the three-branch inheritance rule to one trait. The
// branches are tested as written, not cumulatively, so a draw matching none
// of them keeps the trait unchanged.
func inheritTrait(trait, u float64, th TraitThresholds, increment, decrement float64) float64 {
	switch {
	case u >= 0 && u <= th.Keep:
		return trait
	case u > th.Keep && u <= th.Increase:
		return trait + increment*(1-trait)
	case u > th.Increase && u < th.Decrease:
		return trait - decrement*trait
	default:
		return trait
	}
}

// conjugate pushes a uniformly chosen bacterium's traits toward 1 in
// proportion to this bacterium's traits. The target may be b itself.
func (b *Bacterium) conjugate(s *Simulator) {
	target := s.Population.randomBacterium(s.rng)
	dSurface := b.Surface * (1 - target.Surface)
	dEnzymes := b.Enzymes * (1 - target.Enzymes)
	s.Population.shiftBacterium(target, dSurface, dEnzymes)
}
