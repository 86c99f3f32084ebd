package sim

// EventKind enumerates every reaction an organism can undergo.
type EventKind int

const (
	KindDeath       EventKind = iota // bacterium dies
	KindReproduce                    // bacterium divides
	KindConjugation                  // bacterium transfers resistance
	KindDenature                     // free phage decays
	KindInfect                       // free phage attacks a bacterium
	KindSwitch                       // prophage enters the lytic cycle
	KindSecrete                      // prophage releases one free copy
)

// NumEventKinds is the number of defined event kinds.
const NumEventKinds = int(KindSecrete) + 1

var eventKindNames = [NumEventKinds]string{
	KindDeath:       "DEATH",
	KindReproduce:   "REPRODUCE",
	KindConjugation: "CONJUGATION",
	KindDenature:    "DENATURE",
	KindInfect:      "INFECT",
	KindSwitch:      "SWITCH",
	KindSecrete:     "SECRETE",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= NumEventKinds {
		return "UNKNOWN"
	}
	return eventKindNames[k]
}

// Event is one pending reaction of one organism.
// Rate is fixed at creation. A changed rate is modelled by invalidating the
// event and appending a new one.
type Event struct {
	Owner Organism
	Rate  float64 // exponential rate λ
	Kind  EventKind

	seq   uint64 // creation order within the pool
	valid bool
}

// NewEvent creates a valid event. It is not pending until appended to a pool.
func NewEvent(owner Organism, rate float64, kind EventKind) *Event {
	return &Event{Owner: owner, Rate: rate, Kind: kind, valid: true}
}

// Valid reports whether the event can still fire.
func (e *Event) Valid() bool {
	return e.valid
}

// Seq returns the creation sequence number assigned by the pool.
func (e *Event) Seq() uint64 {
	return e.seq
}
