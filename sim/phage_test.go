package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phage-sim/phage-sim/sim/internal/testutil"
)

func TestPhage_Infect_ForcedSuccess(t *testing.T) {
	// GIVEN one defenceless bacterium and one maximal phage, all draws 0
	s := newScriptedSimulator(testConfig(), &testutil.ScriptedSource{})
	b := s.AddBacterium(0, 0)
	ph := s.AddPhage(1, 1)

	// WHEN the phage's INFECT event fires
	require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindInfect)))

	// THEN the bacterium is infected by this phage
	assert.True(t, b.Infected)
	assert.Same(t, ph, b.Resident)
	assert.Same(t, b, ph.Host)
	assert.Equal(t, 1, s.Population.InfectedCount())
	assert.Equal(t, 1, s.Population.PhageCount())

	// AND the phage swapped its free events for integrated ones
	assert.Equal(t, []EventKind{KindSwitch, KindSecrete}, s.Events.PendingKinds(ph))
	assertEventSets(t, s)
	assertLinksConsistent(t, s)
}

func TestPhage_Infect_FailureConsumesPhage(t *testing.T) {
	tests := []struct {
		name      string
		bSurface  float64
		bEnzymes  float64
		infected  bool
		floats    []float64
		wantDraws int
	}{
		// (1-0.5)*0.5 = 0.25 < 0.3, second draw skipped
		{"surface defence holds", 0.5, 0, false, []float64{0.3}, 1},
		// surface passes, (1-0.9)*0.5 = 0.05 < 0.1
		{"enzyme defence holds", 0, 0.9, false, []float64{0.0, 0.1}, 2},
		// both pass but the target already carries a prophage
		{"already infected", 0, 0, true, []float64{0.0, 0.0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &testutil.ScriptedSource{Floats: tt.floats}
			s := newScriptedSimulator(testConfig(), src)
			b := s.AddBacterium(tt.bSurface, tt.bEnzymes)
			if tt.infected {
				resident := s.AddPhage(0.2, 0.2)
				resident.Host = b
				b.Resident = resident
				s.Population.markInfected(b)
				s.Events.InvalidateOwnedBy(resident)
				s.scheduleIntegrated(resident)
			}
			ph := s.AddPhage(0.5, 0.5)
			phagesBefore := s.Population.PhageCount()

			require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindInfect)))

			assert.False(t, ph.Alive())
			assert.Nil(t, ph.Host)
			assert.Empty(t, s.Events.PendingKinds(ph))
			assert.Equal(t, phagesBefore-1, s.Population.PhageCount())
			assert.Equal(t, tt.wantDraws, src.FloatCalls)
			assert.Equal(t, int64(1), s.Metrics.FailedInfections)
			assertSumsConsistent(t, s)
			assertLinksConsistent(t, s)
		})
	}
}

func TestPhage_Denature_FreePhageRemoved(t *testing.T) {
	s := newScriptedSimulator(testConfig(), &testutil.ScriptedSource{})
	s.AddBacterium(0, 0)
	ph := s.AddPhage(0.3, 0.1)

	require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindDenature)))

	assert.False(t, ph.Alive())
	assert.Equal(t, 0, s.Population.PhageCount())
	assert.Empty(t, s.Events.PendingKinds(ph))
	assertSumsConsistent(t, s)
}

func TestPhage_Denature_IntegratedIsNoop(t *testing.T) {
	s := newScriptedSimulator(testConfig(), &testutil.ScriptedSource{})
	b := s.AddBacterium(0, 0)
	ph := s.AddPhage(1, 1)
	require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindInfect)))

	require.NoError(t, ph.Execute(s, KindDenature))

	assert.True(t, ph.Alive())
	assert.Same(t, b, ph.Host)
	assert.Equal(t, []EventKind{KindSwitch, KindSecrete}, s.Events.PendingKinds(ph))
}

func TestPhage_Switch_LysesHostAndReleasesProgeny(t *testing.T) {
	tests := []struct {
		name        string
		acct        SwitchAccounting
		wantSurface float64 // phage surface sum after lysis
	}{
		{"subtractive", AccountingSubtractive, 150},
		{"additive keeps the lysed phage's traits", AccountingAdditive, 152},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN an integrated phage (draws of 0 never move mutated traits)
			cfg := testConfig()
			cfg.SwitchAccounting = tt.acct
			s := newScriptedSimulator(cfg, &testutil.ScriptedSource{})
			b := s.AddBacterium(0, 0)
			ph := s.AddPhage(1, 1)
			require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindInfect)))

			// WHEN it switches to the lytic cycle
			require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindSwitch)))

			// THEN host and phage are gone and 150 free progeny exist
			assert.False(t, b.Alive())
			assert.False(t, ph.Alive())
			assert.Equal(t, 0, s.Population.BacteriaCount())
			assert.Equal(t, 0, s.Population.InfectedCount())
			require.Equal(t, 150, s.Population.PhageCount())
			for _, p := range s.Population.Phages() {
				assert.True(t, p.Free())
				assert.NotSame(t, ph, p)
			}
			assert.Empty(t, s.Events.PendingKinds(ph))
			assert.Empty(t, s.Events.PendingKinds(b))
			assertEventSets(t, s)

			_, _, ps, _ := s.Population.TraitSums()
			assert.InDelta(t, tt.wantSurface, ps, 1e-9)
			assert.Equal(t, int64(1), s.Metrics.Lyses)
			assert.Equal(t, int64(0), s.Metrics.ProphagesLost, "lysing phage is not double-counted")
		})
	}
}

func TestPhage_Secrete_ReleasesOneFreeCopy(t *testing.T) {
	s := newScriptedSimulator(testConfig(), &testutil.ScriptedSource{FloatFallback: 0.5})
	b := s.AddBacterium(0, 0)
	ph := s.AddPhage(1, 1)
	// force the integration rather than relying on draws
	ph.Host = b
	b.Resident = ph
	s.Population.markInfected(b)
	s.Events.InvalidateOwnedBy(ph)
	s.scheduleIntegrated(ph)

	// 0.5 > mutation probability, so no mutation
	require.NoError(t, s.Fire(pendingEvent(t, s, ph, KindSecrete)))

	require.Equal(t, 2, s.Population.PhageCount())
	released := s.Population.Phages()[1]
	assert.True(t, released.Free())
	assert.Equal(t, 1.0, released.Surface)
	assert.Equal(t, 1.0, released.Enzymes)
	assert.Same(t, b, ph.Host, "secreting phage stays integrated")
	assertEventSets(t, s)
	assertSumsConsistent(t, s)
}

func TestMutatePhage(t *testing.T) {
	m := PhageMutationConfig{Probability: 0.06, HelpsThreshold: 0.33, Amount: 0.2}
	tests := []struct {
		name      string
		floats    []float64
		surface   float64
		enzymes   float64
		wantS     float64
		wantE     float64
		wantDraws int
	}{
		{"no mutation", []float64{0.5}, 0.4, 0.2, 0.4, 0.2, 1},
		{"helpful: enzyme step scales with surface", []float64{0.01, 0.5, 0.5, 0.5}, 0.4, 0.2,
			0.4 + 0.5*0.2*0.6, 0.2 + 0.5*0.2*0.4, 4},
		{"harmful: surface step scales with enzyme headroom", []float64{0.01, 0.2, 0.5, 0.5}, 0.4, 0.2,
			0.4 - 0.5*0.2*0.8, 0.2 - 0.5*0.2*0.2, 4},
		{"harmful at threshold", []float64{0.06, 0.33, 1, 1}, 0.4, 0.2,
			0.4 - 0.2*0.8, 0.2 - 0.2*0.2, 4},
		{"no clamping below zero", []float64{0, 0, 0.99, 0}, 0.05, 0,
			0.05 - 0.99*0.2*1, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &testutil.ScriptedSource{Floats: tt.floats}
			rng := NewVariateSourceFrom(1, src)

			s, e := mutatePhage(m, rng, tt.surface, tt.enzymes)

			assert.InDelta(t, tt.wantS, s, 1e-12)
			assert.InDelta(t, tt.wantE, e, 1e-12)
			assert.Equal(t, tt.wantDraws, src.FloatCalls)
		})
	}
}

func TestPhage_Execute_RejectsBacterialKinds(t *testing.T) {
	s := newScriptedSimulator(testConfig(), &testutil.ScriptedSource{})
	ph := s.AddPhage(0, 0)

	for _, kind := range []EventKind{KindDeath, KindReproduce, KindConjugation} {
		err := ph.Execute(s, kind)
		assert.ErrorIs(t, err, ErrUnsupportedEvent, kind.String())
	}
}
