// Package sim maps desktop input onto the remote's stand-in peripherals:
// the mouse drives the virtual touch panel and the keyboard moves the
// sticks.
package sim

import (
	"github.com/cjeanneret/HexPad/internal/hw/adc"
)

// Toucher is a software touch source.
type Toucher interface {
	Press(x, y int)
	Release()
}

// StickSetter sets analog channel values.
type StickSetter interface {
	Set(ch int, v uint16)
}

// Input is one frame of desktop input. Stick fields are true while the
// key is held.
type Input struct {
	Pointer    bool
	X, Y       int
	LeftUp     bool
	LeftDown   bool
	LeftLeft   bool
	LeftRight  bool
	RightUp    bool
	RightDown  bool
	RightLeft  bool
	RightRight bool
}

// Driver applies Input frames.
type Driver struct {
	touch  Toucher
	sticks StickSetter
	in     adc.Inputs
	centre uint16
	down   bool
}

// NewDriver returns a driver. sticks may be nil when a converter is
// attached.
func NewDriver(t Toucher, sticks StickSetter, in adc.Inputs, centre uint16) *Driver {
	return &Driver{touch: t, sticks: sticks, in: in, centre: centre}
}

// Apply forwards one input frame. A press is sent on every frame the
// pointer is down so drags move; release is sent once.
func (d *Driver) Apply(in Input) {
	switch {
	case in.Pointer:
		d.touch.Press(in.X, in.Y)
		d.down = true
	case d.down:
		d.touch.Release()
		d.down = false
	}

	if d.sticks == nil {
		return
	}
	d.sticks.Set(d.in.LeftX, StickValue(in.LeftLeft, in.LeftRight, d.centre))
	d.sticks.Set(d.in.LeftY, StickValue(in.LeftDown, in.LeftUp, d.centre))
	d.sticks.Set(d.in.RightX, StickValue(in.RightLeft, in.RightRight, d.centre))
	d.sticks.Set(d.in.RightY, StickValue(in.RightDown, in.RightUp, d.centre))
}

// StickValue is the reading of an axis pushed towards neg, pos, both or
// neither.
func StickValue(neg, pos bool, centre uint16) uint16 {
	switch {
	case neg && !pos:
		return 0
	case pos && !neg:
		return adc.MaxValue
	default:
		return centre
	}
}
