// Package debounce turns periodic touch presence samples into tap and drag
// events. A contact must be seen on DefaultThreshold consecutive polls
// before anything is reported.
package debounce

import "math"

// DefaultThreshold is the number of consecutive present samples needed
// before a contact counts as a touch.
const DefaultThreshold = 3

// Kind classifies the event produced by a poll.
type Kind int

const (
	None Kind = iota
	TapDown
	DragUpdate
	TapUp
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case TapDown:
		return "tap-down"
	case DragUpdate:
		return "drag"
	case TapUp:
		return "tap-up"
	default:
		return "unknown"
	}
}

// State is the debouncer's view of the current contact.
type State int

const (
	Idle State = iota
	Settling
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Settling:
		return "settling"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Sample is one reading of the touch controller.
type Sample struct {
	Present bool
	X, Y    uint16
}

// Event is the outcome of a poll. X and Y are only meaningful when Kind
// is not None.
type Event struct {
	Kind Kind
	X, Y uint16
}

// Debouncer tracks one contact at a time. It is not safe for concurrent
// use; a single polling task owns it.
type Debouncer struct {
	threshold uint16
	count     uint16
	x, y      uint16
}

// New returns a debouncer. A threshold below 1 selects DefaultThreshold.
func New(threshold int) *Debouncer {
	if threshold < 1 || threshold > math.MaxUint16 {
		threshold = DefaultThreshold
	}
	return &Debouncer{threshold: uint16(threshold)}
}

// Poll advances the debouncer by one sample.
//
// While present, the counter increments (saturating). Reaching the
// threshold emits TapDown; every later present sample emits DragUpdate.
// On release a contact that reached the threshold emits exactly one TapUp
// at the last present coordinate; shorter contacts vanish silently.
func (d *Debouncer) Poll(s Sample) Event {
	if !s.Present {
		ev := Event{}
		if d.count >= d.threshold {
			ev = Event{Kind: TapUp, X: d.x, Y: d.y}
		}
		d.count = 0
		return ev
	}

	if d.count < math.MaxUint16 {
		d.count++
	}
	d.x, d.y = s.X, s.Y

	switch {
	case d.count == d.threshold:
		return Event{Kind: TapDown, X: s.X, Y: s.Y}
	case d.count > d.threshold:
		return Event{Kind: DragUpdate, X: s.X, Y: s.Y}
	default:
		return Event{}
	}
}

// State reports whether a contact is absent, settling or active.
func (d *Debouncer) State() State {
	switch {
	case d.count == 0:
		return Idle
	case d.count < d.threshold:
		return Settling
	default:
		return Active
	}
}

