package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordEvent_CountsPerKind(t *testing.T) {
	m := NewMetrics()

	m.recordEvent(KindInfect)
	m.recordEvent(KindInfect)
	m.recordEvent(KindDeath)
	m.recordEvent(EventKind(99)) // ignored

	assert.Equal(t, int64(2), m.EventsByKind[KindInfect])
	assert.Equal(t, int64(1), m.EventsByKind[KindDeath])
	assert.Equal(t, int64(3), m.Executed())
}

func TestMetrics_RecordPopulation_KeepsPeaks(t *testing.T) {
	m := NewMetrics()
	p := NewPopulation()
	p.addBacterium(&Bacterium{ID: 1})
	p.addBacterium(&Bacterium{ID: 2})
	p.addPhage(&Phage{ID: 3})

	m.recordPopulation(p, 9)
	p.removeBacterium(p.Bacteria()[0])
	m.recordPopulation(p, 4)

	assert.Equal(t, 2, m.PeakBacteria)
	assert.Equal(t, 1, m.PeakPhages)
	assert.Equal(t, 9, m.PeakPool)
}

func TestMetrics_ExecutedMatchesIterations(t *testing.T) {
	s, err := NewSimulator(testConfig())
	require.NoError(t, err)

	res, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, res.Iterations, s.Metrics.Executed())
	assert.Equal(t, s.Metrics.EventsByKind[KindInfect], s.Metrics.Infections+s.Metrics.FailedInfections)
	assert.Equal(t, s.Metrics.EventsByKind[KindSwitch], s.Metrics.Lyses)
	assert.GreaterOrEqual(t, s.Metrics.PeakBacteria, res.Bacteria)
}

func TestMetrics_Print(t *testing.T) {
	m := NewMetrics()
	m.EventsByKind[KindReproduce] = 1234567
	m.Infections = 12
	m.FailedInfections = 3400
	m.PeakBacteria = 25000
	res := RunResult{Outcome: OutcomeStepBudgetReached, Clock: 1.5, Steps: 50_000_000, Iterations: 1234567, Bacteria: 20000}

	var buf bytes.Buffer
	m.Print(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "=== Simulation Metrics ===")
	assert.Contains(t, out, "step-budget-reached")
	assert.Contains(t, out, "50,000,000")
	assert.Contains(t, out, "REPRODUCE")
	assert.Contains(t, out, "1,234,567")
	assert.Contains(t, out, "20,000 / 25,000")
	assert.Contains(t, out, "12 ok, 3,400 failed")
}
