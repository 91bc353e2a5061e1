package engine

import (
	"context"
	"fmt"
)

// EventKind identifies an input event.
type EventKind int

const (
	EventDigit EventKind = iota + 1
	EventAcknowledge
	EventTick
	EventQuit
)

var eventKindNames = [...]string{
	EventDigit:       "Digit",
	EventAcknowledge: "Acknowledge",
	EventTick:        "Tick",
	EventQuit:        "Quit",
}

// String returns the event kind name.
func (k EventKind) String() string {
	if k >= EventDigit && k <= EventQuit {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one discrete input to the engine.
type Event struct {
	Kind  EventKind
	Digit int
}

// Digit returns a digit event.
func Digit(d int) Event { return Event{Kind: EventDigit, Digit: d} }

// Apply dispatches a single event.
func (e *Engine) Apply(ev Event) Snapshot {
	switch ev.Kind {
	case EventDigit:
		return e.SubmitDigit(ev.Digit)
	case EventAcknowledge:
		return e.AcknowledgeMemorized()
	case EventTick:
		return e.Tick()
	case EventQuit:
		return e.Quit()
	default:
		return e.Snapshot()
	}
}

// Run applies events in arrival order until the channel closes or ctx is
// done. Producers may send from several goroutines; each event is applied
// to completion before the next is read. When out is non-nil every
// resulting snapshot is delivered on it.
func (e *Engine) Run(ctx context.Context, events <-chan Event, out chan<- Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			snap := e.Apply(ev)
			if out == nil {
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
