package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("invalid simulation config")

// PopulationConfig sets the size of the starting populations.
type PopulationConfig struct {
	InitialPhages   int `yaml:"initial_phages"`   // free phages created at t=0 (must be > 0)
	InitialBacteria int `yaml:"initial_bacteria"` // uninfected bacteria created at t=0 (must be > 0)
}

// BacteriumRates holds the exponential rates (λ) of bacterial events.
type BacteriumRates struct {
	Death       float64 `yaml:"death"`
	Reproduce   float64 `yaml:"reproduce"`
	Conjugation float64 `yaml:"conjugation"`
}

// PhageRates holds the exponential rates (λ) of phage events.
type PhageRates struct {
	Denature float64 `yaml:"denature"`
	Infect   float64 `yaml:"infect"`
	Switch   float64 `yaml:"switch"`  // lysogenic to lytic
	Secrete  float64 `yaml:"secrete"` // lysogenic secretion
}

// RateConfig groups the rates of both species.
type RateConfig struct {
	Bacterium BacteriumRates `yaml:"bacterium"`
	Phage     PhageRates     `yaml:"phage"`
}

// TraitThresholds are the three upper bounds tested against a uniform draw
// when a bacterial trait is inherited. They are compared as disjoint
// intervals, not as a cumulative distribution: a draw that falls in none of
// them leaves the trait unchanged.
type TraitThresholds struct {
	Keep     float64 `yaml:"keep"`
	Increase float64 `yaml:"increase"`
	Decrease float64 `yaml:"decrease"`
}

// BacteriumMutationConfig controls trait inheritance on REPRODUCE.
type BacteriumMutationConfig struct {
	Surface         TraitThresholds `yaml:"surface"`
	Enzymes         TraitThresholds `yaml:"enzymes"`
	IncrementFactor float64         `yaml:"increment_factor"` // share of headroom gained on increase
	DecrementFactor float64         `yaml:"decrement_factor"` // share of value lost on decrease
}

// PhageMutationConfig controls the progeny mutation rule.
type PhageMutationConfig struct {
	Probability    float64 `yaml:"probability"`     // chance a progeny mutates at all
	HelpsThreshold float64 `yaml:"helps_threshold"` // draws above this mutate upward
	Amount         float64 `yaml:"amount"`          // max fraction moved per mutation
}

// SwitchAccounting selects how a lysing phage's traits are booked when it
// leaves the phage registry.
type SwitchAccounting string

const (
	// AccountingAdditive adds the traits back into the phage sums, matching
	// the historical model output. The phage sums drift from the live totals.
	AccountingAdditive SwitchAccounting = "additive"
	// AccountingSubtractive removes the traits like every other phage removal.
	AccountingSubtractive SwitchAccounting = "subtractive"
)

// validSwitchAccounting maps accepted accounting mode strings.
var validSwitchAccounting = map[SwitchAccounting]bool{
	AccountingAdditive:    true,
	AccountingSubtractive: true,
}

// IsValidSwitchAccounting returns true if the given string is a recognized accounting mode.
func IsValidSwitchAccounting(mode string) bool {
	return validSwitchAccounting[SwitchAccounting(mode)]
}

// Config is the full parameter set of a simulation run.
type Config struct {
	Population         PopulationConfig        `yaml:"population"`
	MaxSteps           int64                   `yaml:"max_steps"`   // ceiling on examined events
	Seed               int64                   `yaml:"seed"`        // RNG seed
	OutputPath         string                  `yaml:"output_path"` // consumed by exporters only
	Rates              RateConfig              `yaml:"rates"`
	BacteriumMutation  BacteriumMutationConfig `yaml:"bacterium_mutation"`
	PhageMutation      PhageMutationConfig     `yaml:"phage_mutation"`
	LysisProgeny       int                     `yaml:"lysis_progeny"`        // free phages released by SWITCH
	InitialTraitLevels int                     `yaml:"initial_trait_levels"` // initial traits are Intn(levels)/10
	SwitchAccounting   SwitchAccounting        `yaml:"switch_accounting"`
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() Config {
	return Config{
		Population: PopulationConfig{
			InitialPhages:   100,
			InitialBacteria: 200,
		},
		MaxSteps: 50_000_000,
		Seed:     42,
		Rates: RateConfig{
			Bacterium: BacteriumRates{Death: 0.5, Reproduce: 5.0, Conjugation: 1.0},
			Phage:     PhageRates{Denature: 0.5, Infect: 11.0, Switch: 3.0, Secrete: 7.0},
		},
		BacteriumMutation: BacteriumMutationConfig{
			Surface:         TraitThresholds{Keep: 0.97, Increase: 0.02, Decrease: 0.01},
			Enzymes:         TraitThresholds{Keep: 0.975, Increase: 0.015, Decrease: 0.01},
			IncrementFactor: 0.2,
			DecrementFactor: 0.1,
		},
		PhageMutation: PhageMutationConfig{
			Probability:    0.06,
			HelpsThreshold: 0.33,
			Amount:         0.2,
		},
		LysisProgeny:       150,
		InitialTraitLevels: 6,
		SwitchAccounting:   AccountingAdditive,
	}
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if c.Population.InitialPhages <= 0 {
		return fmt.Errorf("%w: initial phage count must be > 0, got %d", ErrInvalidConfig, c.Population.InitialPhages)
	}
	if c.Population.InitialBacteria <= 0 {
		return fmt.Errorf("%w: initial bacteria count must be > 0, got %d", ErrInvalidConfig, c.Population.InitialBacteria)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("%w: max steps must be > 0, got %d", ErrInvalidConfig, c.MaxSteps)
	}
	rates := []struct {
		name  string
		value float64
	}{
		{"bacterium death", c.Rates.Bacterium.Death},
		{"bacterium reproduce", c.Rates.Bacterium.Reproduce},
		{"bacterium conjugation", c.Rates.Bacterium.Conjugation},
		{"phage denature", c.Rates.Phage.Denature},
		{"phage infect", c.Rates.Phage.Infect},
		{"phage switch", c.Rates.Phage.Switch},
		{"phage secrete", c.Rates.Phage.Secrete},
	}
	for _, r := range rates {
		if !(r.value > 0) {
			return fmt.Errorf("%w: %s rate must be > 0, got %v", ErrInvalidConfig, r.name, r.value)
		}
	}
	probs := []struct {
		name  string
		value float64
	}{
		{"surface keep threshold", c.BacteriumMutation.Surface.Keep},
		{"surface increase threshold", c.BacteriumMutation.Surface.Increase},
		{"surface decrease threshold", c.BacteriumMutation.Surface.Decrease},
		{"enzyme keep threshold", c.BacteriumMutation.Enzymes.Keep},
		{"enzyme increase threshold", c.BacteriumMutation.Enzymes.Increase},
		{"enzyme decrease threshold", c.BacteriumMutation.Enzymes.Decrease},
		{"increment factor", c.BacteriumMutation.IncrementFactor},
		{"decrement factor", c.BacteriumMutation.DecrementFactor},
		{"phage mutation probability", c.PhageMutation.Probability},
		{"phage mutation helps threshold", c.PhageMutation.HelpsThreshold},
		{"phage mutation amount", c.PhageMutation.Amount},
	}
	for _, p := range probs {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.LysisProgeny < 0 {
		return fmt.Errorf("%w: lysis progeny must be >= 0, got %d", ErrInvalidConfig, c.LysisProgeny)
	}
	if c.InitialTraitLevels < 1 || c.InitialTraitLevels > 11 {
		return fmt.Errorf("%w: initial trait levels must be in [1,11], got %d", ErrInvalidConfig, c.InitialTraitLevels)
	}
	if !IsValidSwitchAccounting(string(c.SwitchAccounting)) {
		return fmt.Errorf("%w: unknown switch accounting %q", ErrInvalidConfig, c.SwitchAccounting)
	}
	return nil
}
