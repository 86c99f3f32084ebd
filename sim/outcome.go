package sim

import (
	"errors"
	"fmt"
)

// Outcome tags why the event loop stopped.
type Outcome int

const (
	// OutcomeRunning means the loop has not terminated.
	OutcomeRunning Outcome = iota
	// OutcomeStepBudgetReached is the normal stop: MaxSteps events examined.
	OutcomeStepBudgetReached
	OutcomeExtinctionOfBacteria
	OutcomeExtinctionOfPhage
	OutcomeExtinctionOfEvents
	// OutcomeInvariantViolation means the bookkeeping is broken. Always
	// accompanied by a non-nil error.
	OutcomeInvariantViolation
)

var outcomeNames = map[Outcome]string{
	OutcomeRunning:              "running",
	OutcomeStepBudgetReached:    "step-budget-reached",
	OutcomeExtinctionOfBacteria: "extinction-of-bacteria",
	OutcomeExtinctionOfPhage:    "extinction-of-phage",
	OutcomeExtinctionOfEvents:   "extinction-of-events",
	OutcomeInvariantViolation:   "internal-invariant-violation",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Terminal reports whether the loop stops on this outcome.
func (o Outcome) Terminal() bool { return o != OutcomeRunning }

// Normal reports whether the outcome is the budgeted, non-abnormal stop.
func (o Outcome) Normal() bool { return o == OutcomeStepBudgetReached }

// Extinction reports whether a population or the event pool ran out.
func (o Outcome) Extinction() bool {
	switch o {
	case OutcomeExtinctionOfBacteria, OutcomeExtinctionOfPhage, OutcomeExtinctionOfEvents:
		return true
	}
	return false
}

// ErrInvariantViolation is wrapped by InvariantViolationError.
var ErrInvariantViolation = errors.New("internal invariant violation")

// InvariantViolationError reports that the tracked infected count no longer
// matches a recount. Kind is the event that fired just before the check.
type InvariantViolationError struct {
	Kind    EventKind
	Tracked int
	Counted int
	Clock   float64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%v after %s at t=%g: tracked infected=%d, counted=%d",
		ErrInvariantViolation, e.Kind, e.Clock, e.Tracked, e.Counted)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// RunResult summarizes a finished run.
type RunResult struct {
	Outcome    Outcome
	Clock      float64 // simulated time at stop
	Steps      int64   // events examined, the quantity bounded by MaxSteps
	Iterations int64   // events executed
	Bacteria   int
	Phages     int
	Infected   int
}
