package sim

// Population owns the live bacteria and phages and keeps running trait sums
// and the infected count so averages are O(1) per observation.
//
// Registries are unordered: removal swaps the last element into the freed
// slot. Each organism remembers its slot so removal is O(1).
type Population struct {
	bacteria []*Bacterium
	phages   []*Phage

	bacteriaSurfaceSum float64
	bacteriaEnzymeSum  float64
	phageSurfaceSum    float64
	phageEnzymeSum     float64
	infected           int
}

// NewPopulation creates empty registries.
func NewPopulation() *Population {
	return &Population{
		bacteria: make([]*Bacterium, 0),
		phages:   make([]*Phage, 0),
	}
}

func (p *Population) addBacterium(b *Bacterium) {
	b.slot = len(p.bacteria)
	p.bacteria = append(p.bacteria, b)
	p.bacteriaSurfaceSum += b.Surface
	p.bacteriaEnzymeSum += b.Enzymes
	if b.Infected {
		p.infected++
	}
}

// removeBacterium unregisters b and subtracts its traits. Returns false if b
// was not registered.
func (p *Population) removeBacterium(b *Bacterium) bool {
	if b.slot < 0 || b.slot >= len(p.bacteria) || p.bacteria[b.slot] != b {
		return false
	}
	last := len(p.bacteria) - 1
	p.bacteria[b.slot] = p.bacteria[last]
	p.bacteria[b.slot].slot = b.slot
	p.bacteria[last] = nil
	p.bacteria = p.bacteria[:last]
	b.slot = -1

	p.bacteriaSurfaceSum -= b.Surface
	p.bacteriaEnzymeSum -= b.Enzymes
	if b.Infected {
		p.infected--
	}
	return true
}

func (p *Population) addPhage(ph *Phage) {
	ph.slot = len(p.phages)
	p.phages = append(p.phages, ph)
	p.phageSurfaceSum += ph.Surface
	p.phageEnzymeSum += ph.Enzymes
}

// removePhage unregisters ph. Subtractive accounting takes its traits out of
// the sums; additive accounting adds them in again. Returns false if ph was
// not registered, in which case the sums are untouched.
func (p *Population) removePhage(ph *Phage, acct SwitchAccounting) bool {
	if ph.slot < 0 || ph.slot >= len(p.phages) || p.phages[ph.slot] != ph {
		return false
	}
	last := len(p.phages) - 1
	p.phages[ph.slot] = p.phages[last]
	p.phages[ph.slot].slot = ph.slot
	p.phages[last] = nil
	p.phages = p.phages[:last]
	ph.slot = -1

	sign := -1.0
	if acct == AccountingAdditive {
		sign = 1.0
	}
	p.phageSurfaceSum += sign * ph.Surface
	p.phageEnzymeSum += sign * ph.Enzymes
	return true
}

// markInfected flips b to infected and counts it.
func (p *Population) markInfected(b *Bacterium) {
	if !b.Infected {
		b.Infected = true
		p.infected++
	}
}

// shiftBacterium moves b's traits by the given deltas, keeping the sums in step.
func (p *Population) shiftBacterium(b *Bacterium, dSurface, dEnzymes float64) {
	b.Surface += dSurface
	b.Enzymes += dEnzymes
	if b.slot >= 0 {
		p.bacteriaSurfaceSum += dSurface
		p.bacteriaEnzymeSum += dEnzymes
	}
}

// randomBacterium picks a live bacterium uniformly. Panics on an empty registry.
func (p *Population) randomBacterium(rng *VariateSource) *Bacterium {
	return p.bacteria[rng.Intn(len(p.bacteria))]
}

// Bacteria returns the live bacteria. Callers must not modify the slice.
func (p *Population) Bacteria() []*Bacterium { return p.bacteria }

// Phages returns the live phages. Callers must not modify the slice.
func (p *Population) Phages() []*Phage { return p.phages }

func (p *Population) BacteriaCount() int { return len(p.bacteria) }
func (p *Population) PhageCount() int    { return len(p.phages) }

// InfectedCount is the incrementally maintained number of infected bacteria.
func (p *Population) InfectedCount() int { return p.infected }

// RecountInfected counts infected bacteria from scratch.
func (p *Population) RecountInfected() int {
	n := 0
	for _, b := range p.bacteria {
		if b.Infected {
			n++
		}
	}
	return n
}

// TraitSums reports the running sums: bacterial surface, bacterial enzymes,
// phage surface, phage enzymes.
func (p *Population) TraitSums() (bs, be, ps, pe float64) {
	return p.bacteriaSurfaceSum, p.bacteriaEnzymeSum, p.phageSurfaceSum, p.phageEnzymeSum
}

// RecomputeTraitSums sums the traits of the live sets from scratch, in the
// same order as TraitSums.
func (p *Population) RecomputeTraitSums() (bs, be, ps, pe float64) {
	for _, b := range p.bacteria {
		bs += b.Surface
		be += b.Enzymes
	}
	for _, ph := range p.phages {
		ps += ph.Surface
		pe += ph.Enzymes
	}
	return bs, be, ps, pe
}

// mean returns sum/n, or 0 for an empty set.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanBacterialTraits returns the average surface and enzyme resistance.
func (p *Population) MeanBacterialTraits() (surface, enzymes float64) {
	n := len(p.bacteria)
	return mean(p.bacteriaSurfaceSum, n), mean(p.bacteriaEnzymeSum, n)
}

// MeanPhageTraits returns the average surface and enzyme strength.
func (p *Population) MeanPhageTraits() (surface, enzymes float64) {
	n := len(p.phages)
	return mean(p.phageSurfaceSum, n), mean(p.phageEnzymeSum, n)
}

// InfectedPercent returns 100 × infected / bacteria, or 0 with no bacteria.
func (p *Population) InfectedPercent() float64 {
	return 100 * mean(float64(p.infected), len(p.bacteria))
}
