package sim

import (
	"errors"
	"fmt"
)

// ErrUnsupportedEvent is returned when an organism is asked to handle an
// event kind that belongs to the other species.
var ErrUnsupportedEvent = errors.New("unsupported event kind")

// Species distinguishes the two organism variants.
type Species int

const (
	SpeciesBacterium Species = iota
	SpeciesPhage
)

func (s Species) String() string {
	switch s {
	case SpeciesBacterium:
		return "bacterium"
	case SpeciesPhage:
		return "phage"
	default:
		return "unknown"
	}
}

// Organism is implemented by *Bacterium and *Phage only. Execute applies the
// effect of one event kind to the simulation state.
type Organism interface {
	Execute(s *Simulator, kind EventKind) error
	Species() Species
	OrganismID() uint64
}

func unsupported(o Organism, kind EventKind) error {
	return fmt.Errorf("%w: %s on %s #%d", ErrUnsupportedEvent, kind, o.Species(), o.OrganismID())
}
