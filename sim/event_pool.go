package sim

// EventPool holds every pending event of every organism in creation order.
// Removal is two-phase: InvalidateOwnedBy flags events, Compact drops them.
// An event flagged mid-iteration is skipped by NextReaction even before compaction.
type EventPool struct {
	events  []*Event
	nextSeq uint64
}

// NewEventPool creates an empty pool.
func NewEventPool() *EventPool {
	return &EventPool{
		events: make([]*Event, 0),
	}
}

// Len returns the number of events in the pool, including invalid ones not yet compacted.
func (p *EventPool) Len() int {
	return len(p.events)
}

// Append adds an event to the end of the pool and stamps its sequence number.
func (p *EventPool) Append(ev *Event) {
	ev.seq = p.nextSeq
	p.nextSeq++
	p.events = append(p.events, ev)
}

// Schedule creates a valid event for owner and appends it.
func (p *EventPool) Schedule(owner Organism, rate float64, kind EventKind) *Event {
	ev := NewEvent(owner, rate, kind)
	p.Append(ev)
	return ev
}

// InvalidateOwnedBy flags every valid event owned by owner and returns how many were flagged.
func (p *EventPool) InvalidateOwnedBy(owner Organism) int {
	n := 0
	for _, ev := range p.events {
		if ev.valid && ev.Owner == owner {
			ev.valid = false
			n++
		}
	}
	return n
}

// Compact removes invalid events, preserving the order of the rest.
// Returns the number of events removed.
func (p *EventPool) Compact() int {
	kept := p.events[:0]
	for _, ev := range p.events {
		if ev.valid {
			kept = append(kept, ev)
		}
	}
	removed := len(p.events) - len(kept)
	// release dropped pointers held by the tail of the backing array
	for i := len(kept); i < len(p.events); i++ {
		p.events[i] = nil
	}
	p.events = kept
	return removed
}

// Events returns the pool contents in creation order. Callers must not modify the slice.
func (p *EventPool) Events() []*Event {
	return p.events
}

// PendingKinds returns the kinds of the valid events owned by owner, in creation order.
func (p *EventPool) PendingKinds(owner Organism) []EventKind {
	var kinds []EventKind
	for _, ev := range p.events {
		if ev.valid && ev.Owner == owner {
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}

// NextReaction samples one exponential delay per valid event, in creation
// order, and returns the event with the smallest delay. Ties go to the event
// seen first. examined is the number of candidates sampled, which is also the
// number of uniform draws consumed. Returns a nil event when nothing is valid.
func (p *EventPool) NextReaction(rng *VariateSource) (next *Event, delay float64, examined int) {
	for _, ev := range p.events {
		if !ev.valid {
			continue
		}
		tau := rng.Exponential(ev.Rate)
		examined++
		if next == nil || tau < delay {
			next = ev
			delay = tau
		}
	}
	return next, delay, examined
}
