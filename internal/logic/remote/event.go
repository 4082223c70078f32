package remote

import (
	"fmt"

	"github.com/cjeanneret/HexPad/internal/logic/telemetry"
)

// EventKind names what happened.
type EventKind string

const (
	EventPress   EventKind = "press"
	EventCommand EventKind = "command"
	EventFrame   EventKind = "frame"
	EventBattery EventKind = "battery"
	EventError   EventKind = "error"
)

// Battery gauge names used in events and snapshots.
const (
	SourceHexapod    = "hexapod"
	SourceController = "controller"
)

// Event reports a state change of the remote to observers.
type Event struct {
	Kind    EventKind        `json:"kind"`
	Button  string           `json:"button,omitempty"`
	Command string           `json:"command,omitempty"`
	Bits    uint8            `json:"bits"`
	Frame   *telemetry.Frame `json:"frame,omitempty"`
	Source  string           `json:"source,omitempty"`
	Percent int              `json:"percent"`
	Error   string           `json:"error,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventPress:
		return fmt.Sprintf("press %s bits=%08b", e.Button, e.Bits)
	case EventCommand:
		return fmt.Sprintf("command %s", e.Command)
	case EventFrame:
		if e.Frame != nil {
			return "frame " + e.Frame.String()
		}
		return "frame"
	case EventBattery:
		return fmt.Sprintf("battery %s %d%%", e.Source, e.Percent)
	case EventError:
		return "error " + e.Error
	default:
		return string(e.Kind)
	}
}

// Notifier receives events from the main loop. Notify must not block.
type Notifier interface {
	Notify(Event)
}

// Notifiers fans an event out to several observers.
type Notifiers []Notifier

func (ns Notifiers) Notify(e Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(e)
		}
	}
}
