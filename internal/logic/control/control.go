// Package control maps button presses onto the hexapod's control bitfield
// and one-shot commands through a declarative binding table.
package control

import "github.com/cjeanneret/HexPad/internal/logic/widget"

// Bits of the control byte sent in every frame.
const (
	WiggleBit    uint8 = 1 << 0 // wiggle instead of walk
	HighStepBit  uint8 = 1 << 1
	HighBodyBit  uint8 = 1 << 2
	QuickStepBit uint8 = 1 << 3 // shorter, quicker steps
	RippleBit    uint8 = 1 << 4 // ripple gait instead of tripod
)

// Binding describes what pressing a button does. Group lists the buttons
// that become deselected. When Bit is non-zero it is set or cleared
// according to Set. A non-zero Command is sent on its own at once.
type Binding struct {
	Group   []widget.ButtonID
	Bit     uint8
	Set     bool
	Command byte
}

// Bindings is the remote's binding table, indexed by button.
var Bindings = map[widget.ButtonID]Binding{
	widget.WalkMode:   {Group: []widget.ButtonID{widget.WiggleMode}, Bit: WiggleBit, Set: false},
	widget.WiggleMode: {Group: []widget.ButtonID{widget.WalkMode}, Bit: WiggleBit, Set: true},
	widget.TripodGait: {Group: []widget.ButtonID{widget.RippleGait}, Bit: RippleBit, Set: false},
	widget.RippleGait: {Group: []widget.ButtonID{widget.TripodGait}, Bit: RippleBit, Set: true},
	widget.LowBody:    {Group: []widget.ButtonID{widget.HighBody}, Bit: HighBodyBit, Set: false},
	widget.HighBody:   {Group: []widget.ButtonID{widget.LowBody}, Bit: HighBodyBit, Set: true},
	widget.LowStep:    {Group: []widget.ButtonID{widget.HighStep}, Bit: HighStepBit, Set: false},
	widget.HighStep:   {Group: []widget.ButtonID{widget.LowStep}, Bit: HighStepBit, Set: true},
	widget.LongStep:   {Group: []widget.ButtonID{widget.QuickStep}, Bit: QuickStepBit, Set: false},
	widget.QuickStep:  {Group: []widget.ButtonID{widget.LongStep}, Bit: QuickStepBit, Set: true},
	widget.RedEyes:    {Group: []widget.ButtonID{widget.GreenEyes, widget.BlueEyes}, Command: 'r'},
	widget.GreenEyes:  {Group: []widget.ButtonID{widget.RedEyes, widget.BlueEyes}, Command: 'g'},
	widget.BlueEyes:   {Group: []widget.ButtonID{widget.RedEyes, widget.GreenEyes}, Command: 'b'},
}

// Selector is the part of the widget model the state machine drives.
type Selector interface {
	Select(id widget.ButtonID, others ...widget.ButtonID)
}

// StateMachine owns the control bitfield.
type StateMachine struct {
	bits     uint8
	bindings map[widget.ButtonID]Binding
}

// New returns a state machine with all bits clear, matching the default
// selection of walk, tripod, low body, low step and long step.
func New() *StateMachine {
	return &StateMachine{bindings: Bindings}
}

// Bits returns the current control bitfield.
func (s *StateMachine) Bits() uint8 {
	return s.bits
}

// Apply handles a press of id: it updates the selection in sel, sets or
// clears the bound bit and returns the one-shot command to transmit, if
// any. Unbound ids are ignored.
func (s *StateMachine) Apply(id widget.ButtonID, sel Selector) (cmd byte, ok bool) {
	b, found := s.bindings[id]
	if !found {
		return 0, false
	}
	if b.Bit != 0 {
		if b.Set {
			s.bits |= b.Bit
		} else {
			s.bits &^= b.Bit
		}
	}
	sel.Select(id, b.Group...)
	if b.Command != 0 {
		return b.Command, true
	}
	return 0, false
}
