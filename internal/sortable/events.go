package sortable

import (
	"github.com/1broseidon/sortable/internal/geometry"
	"github.com/1broseidon/sortable/internal/ids"
)

// EventType names a session notification.
type EventType int

const (
	EventStart EventType = iota
	EventMove
	EventOver
	EventDrop
	EventCancel
	EventEnd
)

func (t EventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventMove:
		return "move"
	case EventOver:
		return "over"
	case EventDrop:
		return "drop"
	case EventCancel:
		return "cancel"
	case EventEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Cancelable reports whether a listener veto stops the triggering step.
func (t EventType) Cancelable() bool {
	switch t {
	case EventStart, EventOver, EventDrop:
		return true
	default:
		return false
	}
}

// Snapshot is the public state of a session at notification time.
type Snapshot struct {
	ActiveItem  ids.ID
	ActiveIndex int
	OverItem    ids.ID
	OverIndex   int
	// ProposedOver is the target about to replace OverItem; only set on
	// EventOver.
	ProposedOver ids.ID
	Container    ids.ID
	Pointer      geometry.Point
}

// Event is delivered to listeners.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Decision is a listener's answer to a cancelable event.
type Decision int

const (
	Proceed Decision = iota
	Veto
)

// Listener observes events. Its decision only matters for cancelable ones.
type Listener func(Event) Decision

// Observe wraps a function that never vetoes.
func Observe(fn func(Event)) Listener {
	return func(e Event) Decision {
		fn(e)
		return Proceed
	}
}

type subscription struct {
	id       int
	listener Listener
}

type dispatcher struct {
	nextID    int
	listeners map[EventType][]subscription
	outcomes  []outcomeSubscription
}

type outcomeSubscription struct {
	id int
	fn func(Event, bool)
}

func (d *dispatcher) on(t EventType, l Listener) func() {
	if d.listeners == nil {
		d.listeners = make(map[EventType][]subscription)
	}
	d.nextID++
	id := d.nextID
	d.listeners[t] = append(d.listeners[t], subscription{id: id, listener: l})

	return func() {
		subs := d.listeners[t]
		for i, sub := range subs {
			if sub.id == id {
				d.listeners[t] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (d *dispatcher) onOutcome(fn func(Event, bool)) func() {
	d.nextID++
	id := d.nextID
	d.outcomes = append(d.outcomes, outcomeSubscription{id: id, fn: fn})

	return func() {
		for i, sub := range d.outcomes {
			if sub.id == id {
				d.outcomes = append(d.outcomes[:i:i], d.outcomes[i+1:]...)
				return
			}
		}
	}
}

// dispatch delivers e to every listener and reports whether the step may
// proceed. Every listener sees the event even after a veto.
func (d *dispatcher) dispatch(e Event) bool {
	subs := append([]subscription(nil), d.listeners[e.Type]...)

	vetoed := false
	for _, sub := range subs {
		if sub.listener(e) == Veto {
			vetoed = true
		}
	}

	if !e.Type.Cancelable() {
		return true
	}

	proceed := !vetoed
	for _, sub := range append([]outcomeSubscription(nil), d.outcomes...) {
		sub.fn(e, proceed)
	}
	return proceed
}
