package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phage-sim/phage-sim/sim/internal/testutil"
)

// testConfig is a small, fast configuration with subtractive switch
// accounting so the trait-sum invariant holds exactly.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Population = PopulationConfig{InitialPhages: 5, InitialBacteria: 10}
	cfg.MaxSteps = 20_000
	cfg.Seed = 7
	cfg.SwitchAccounting = AccountingSubtractive
	return cfg
}

// newScriptedSimulator returns an empty simulator whose draws come from src.
func newScriptedSimulator(cfg Config, src *testutil.ScriptedSource) *Simulator {
	return newSimulator(cfg, WithRandomSource(src))
}

// pendingEvent returns the valid event of the given kind owned by o.
func pendingEvent(t *testing.T, s *Simulator, o Organism, kind EventKind) *Event {
	t.Helper()
	for _, ev := range s.Events.Events() {
		if ev.Valid() && ev.Owner == o && ev.Kind == kind {
			return ev
		}
	}
	t.Fatalf("no pending %s event for %s #%d", kind, o.Species(), o.OrganismID())
	return nil
}

// assertEventSets checks that every live organism has exactly the events its
// state prescribes and that no valid event belongs to a dead organism.
func assertEventSets(t *testing.T, s *Simulator) {
	t.Helper()
	for _, b := range s.Population.Bacteria() {
		assert.Equal(t, []EventKind{KindDeath, KindReproduce, KindConjugation}, s.Events.PendingKinds(b),
			"bacterium #%d", b.ID)
	}
	for _, ph := range s.Population.Phages() {
		want := []EventKind{KindDenature, KindInfect}
		if !ph.Free() {
			want = []EventKind{KindSwitch, KindSecrete}
		}
		assert.Equal(t, want, s.Events.PendingKinds(ph), "phage #%d (free=%v)", ph.ID, ph.Free())
	}
	for _, ev := range s.Events.Events() {
		if !ev.Valid() {
			continue
		}
		switch o := ev.Owner.(type) {
		case *Bacterium:
			assert.True(t, o.Alive(), "valid %s event owned by dead bacterium #%d", ev.Kind, o.ID)
		case *Phage:
			assert.True(t, o.Alive(), "valid %s event owned by dead phage #%d", ev.Kind, o.ID)
		}
	}
}

// assertSumsConsistent compares the running trait sums with a recount.
func assertSumsConsistent(t *testing.T, s *Simulator) {
	t.Helper()
	bs, be, ps, pe := s.Population.TraitSums()
	wbs, wbe, wps, wpe := s.Population.RecomputeTraitSums()
	tol := func(want float64) float64 { return 1e-9 * math.Max(1, math.Abs(want)) }
	assert.InDelta(t, wbs, bs, tol(wbs), "bacterial surface sum")
	assert.InDelta(t, wbe, be, tol(wbe), "bacterial enzyme sum")
	assert.InDelta(t, wps, ps, tol(wps), "phage surface sum")
	assert.InDelta(t, wpe, pe, tol(wpe), "phage enzyme sum")
}

// assertLinksConsistent checks the host/resident back-references.
func assertLinksConsistent(t *testing.T, s *Simulator) {
	t.Helper()
	for _, b := range s.Population.Bacteria() {
		if !b.Infected {
			assert.Nil(t, b.Resident, "uninfected bacterium #%d has a resident", b.ID)
			continue
		}
		require.NotNil(t, b.Resident, "infected bacterium #%d has no resident", b.ID)
		assert.Same(t, b, b.Resident.Host)
		assert.True(t, b.Resident.Alive())
	}
	for _, ph := range s.Population.Phages() {
		if ph.Host != nil {
			assert.True(t, ph.Host.Alive(), "phage #%d lives in a dead host", ph.ID)
			assert.Same(t, ph, ph.Host.Resident)
		}
	}
	assert.Equal(t, s.Population.RecountInfected(), s.Population.InfectedCount())
}
