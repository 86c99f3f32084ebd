// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/phage-sim/phage-sim/sim/trace"
)

// ErrStaleEvent is returned when an invalidated event is fired.
var ErrStaleEvent = errors.New("event is no longer valid")

// Simulator is the core object that holds simulation time, both
// populations, the event pool and the first-reaction loop.
type Simulator struct {
	Clock float64
	// StepCount is the number of events examined so far. It grows by the
	// pool size every iteration and is compared against Config.MaxSteps.
	StepCount  int64
	Iterations int64
	Config     Config
	// Events has every pending event of every organism, in creation order
	Events     *EventPool
	Population *Population
	Metrics    *Metrics

	rng      *VariateSource
	observer Observer
	nextID   uint64
}

// Option customizes a Simulator at construction.
type Option func(*Simulator)

// WithObserver sets the sink that receives one observation per executed event.
func WithObserver(o Observer) Option {
	return func(s *Simulator) { s.observer = o }
}

// WithRandomSource replaces the seeded source, e.g. with a scripted one in tests.
func WithRandomSource(src RandomSource) Option {
	return func(s *Simulator) {
		s.rng = NewVariateSourceFrom(NewSimulationKey(s.Config.Seed), src)
	}
}

// NewSimulator validates cfg and creates the initial populations: phages
// first, then bacteria, each drawing its surface then enzyme level.
func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := newSimulator(cfg, opts...)
	s.seedPopulation()
	return s, nil
}

// newSimulator builds an empty simulator without validation or seeding.
func newSimulator(cfg Config, opts ...Option) *Simulator {
	s := &Simulator{
		Config:     cfg,
		Events:     NewEventPool(),
		Population: NewPopulation(),
		Metrics:    NewMetrics(),
		rng:        NewVariateSource(NewSimulationKey(cfg.Seed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) seedPopulation() {
	levels := s.Config.InitialTraitLevels
	for i := 0; i < s.Config.Population.InitialPhages; i++ {
		surface := float64(s.rng.Intn(levels)) / 10
		enzymes := float64(s.rng.Intn(levels)) / 10
		s.AddPhage(surface, enzymes)
	}
	for i := 0; i < s.Config.Population.InitialBacteria; i++ {
		surface := float64(s.rng.Intn(levels)) / 10
		enzymes := float64(s.rng.Intn(levels)) / 10
		s.AddBacterium(surface, enzymes)
	}
	logrus.Infof("Seeded %d phages and %d bacteria (%d events)",
		s.Population.PhageCount(), s.Population.BacteriaCount(), s.Events.Len())
}

// RNG returns the simulation's random stream.
func (s *Simulator) RNG() *VariateSource {
	return s.rng
}

func (s *Simulator) newID() uint64 {
	s.nextID++
	return s.nextID
}

// AddBacterium registers an uninfected bacterium and schedules its DEATH,
// REPRODUCE and CONJUGATION events.
func (s *Simulator) AddBacterium(surface, enzymes float64) *Bacterium {
	b := &Bacterium{ID: s.newID(), Surface: surface, Enzymes: enzymes}
	s.Population.addBacterium(b)
	r := s.Config.Rates.Bacterium
	s.Events.Schedule(b, r.Death, KindDeath)
	s.Events.Schedule(b, r.Reproduce, KindReproduce)
	s.Events.Schedule(b, r.Conjugation, KindConjugation)
	s.Metrics.BacteriaBorn++
	return b
}

// AddPhage registers a free phage with the given traits, unmutated, and
// schedules its DENATURE and INFECT events.
func (s *Simulator) AddPhage(surface, enzymes float64) *Phage {
	ph := &Phage{ID: s.newID(), Surface: surface, Enzymes: enzymes}
	s.Population.addPhage(ph)
	s.scheduleFree(ph)
	s.Metrics.PhagesReleased++
	return ph
}

func (s *Simulator) scheduleFree(ph *Phage) {
	r := s.Config.Rates.Phage
	s.Events.Schedule(ph, r.Denature, KindDenature)
	s.Events.Schedule(ph, r.Infect, KindInfect)
}

func (s *Simulator) scheduleIntegrated(ph *Phage) {
	r := s.Config.Rates.Phage
	s.Events.Schedule(ph, r.Switch, KindSwitch)
	s.Events.Schedule(ph, r.Secrete, KindSecrete)
}

// addProphage integrates a verbatim copy of parent into host and counts host as infected.
func (s *Simulator) addProphage(parent *Phage, host *Bacterium) *Phage {
	ph := &Phage{ID: s.newID(), Surface: parent.Surface, Enzymes: parent.Enzymes, Host: host}
	s.Population.addPhage(ph)
	host.Resident = ph
	s.Population.markInfected(host)
	s.scheduleIntegrated(ph)
	s.Metrics.ProphagesCloned++
	return ph
}

// releaseProgeny adds one free phage derived from parent through the mutation rule.
func (s *Simulator) releaseProgeny(parent *Phage) *Phage {
	surface, enzymes := mutatePhage(s.Config.PhageMutation, s.rng, parent.Surface, parent.Enzymes)
	return s.AddPhage(surface, enzymes)
}

// Fire executes ev against its owner.
func (s *Simulator) Fire(ev *Event) error {
	if !ev.valid {
		return fmt.Errorf("%w: %s #%d", ErrStaleEvent, ev.Kind, ev.seq)
	}
	s.Metrics.recordEvent(ev.Kind)
	s.Iterations++
	logrus.Debugf("[t=%.6f] %s on %s #%d", s.Clock, ev.Kind, ev.Owner.Species(), ev.Owner.OrganismID())
	return ev.Owner.Execute(s, ev.Kind)
}

// Observe snapshots the current state. kind is the event that just fired.
func (s *Simulator) Observe(kind EventKind) trace.Observation {
	bs, be := s.Population.MeanBacterialTraits()
	ps, pe := s.Population.MeanPhageTraits()
	return trace.Observation{
		Time:            s.Clock,
		Kind:            kind.String(),
		Phages:          s.Population.PhageCount(),
		Bacteria:        s.Population.BacteriaCount(),
		BacteriaSurface: bs,
		BacteriaEnzyme:  be,
		PhageSurface:    ps,
		PhageEnzyme:     pe,
		InfectedPercent: s.Population.InfectedPercent(),
	}
}

// extinction returns the extinction outcome for the current state, or
// OutcomeRunning when the loop can continue.
func (s *Simulator) extinction() Outcome {
	switch {
	case s.Events.Len() == 0:
		return OutcomeExtinctionOfEvents
	case s.Population.BacteriaCount() == 0:
		return OutcomeExtinctionOfBacteria
	case s.Population.PhageCount() == 0:
		return OutcomeExtinctionOfPhage
	}
	return OutcomeRunning
}

// Step performs one iteration of the first-reaction loop: compact, check
// for extinction, sample a delay for every event, fire the earliest, emit
// an observation, charge the step budget and verify the infected count.
func (s *Simulator) Step() (Outcome, error) {
	s.Events.Compact()
	if o := s.extinction(); o.Terminal() {
		return o, nil
	}
	s.Metrics.recordPopulation(s.Population, s.Events.Len())

	ev, delay, examined := s.Events.NextReaction(s.rng)
	s.Clock += delay
	if err := s.Fire(ev); err != nil {
		return OutcomeInvariantViolation, err
	}

	if s.observer != nil {
		if err := s.observer.Observe(s.Observe(ev.Kind)); err != nil {
			return OutcomeRunning, fmt.Errorf("observe at t=%g: %w", s.Clock, err)
		}
	}

	s.StepCount += int64(examined)
	if s.StepCount >= s.Config.MaxSteps {
		return OutcomeStepBudgetReached, nil
	}

	if tracked, counted := s.Population.InfectedCount(), s.Population.RecountInfected(); tracked != counted {
		return OutcomeInvariantViolation, &InvariantViolationError{
			Kind:    ev.Kind,
			Tracked: tracked,
			Counted: counted,
			Clock:   s.Clock,
		}
	}
	return OutcomeRunning, nil
}

// Run steps until a terminal outcome or an error. The error is non-nil for
// an invariant violation or a failing observer; extinction is not an error.
func (s *Simulator) Run() (RunResult, error) {
	logrus.Infof("Starting simulation: seed=%d, max steps=%d, pool=%d",
		s.Config.Seed, s.Config.MaxSteps, s.Events.Len())
	for {
		outcome, err := s.Step()
		if err != nil {
			res := s.Result(outcome)
			logrus.Errorf("[t=%.6f] Simulation aborted: %v", s.Clock, err)
			return res, err
		}
		if outcome.Terminal() {
			res := s.Result(outcome)
			if outcome.Extinction() {
				logrus.Warnf("[t=%.6f] Simulation ended: %s", s.Clock, outcome)
			} else {
				logrus.Infof("[t=%.6f] Simulation ended: %s", s.Clock, outcome)
			}
			return res, nil
		}
	}
}

// Result summarizes the current state under the given outcome.
func (s *Simulator) Result(outcome Outcome) RunResult {
	return RunResult{
		Outcome:    outcome,
		Clock:      s.Clock,
		Steps:      s.StepCount,
		Iterations: s.Iterations,
		Bacteria:   s.Population.BacteriaCount(),
		Phages:     s.Population.PhageCount(),
		Infected:   s.Population.InfectedCount(),
	}
}
