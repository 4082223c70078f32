// Package adc reads the remote's analog inputs: the battery divider and
// the four joystick axes.
package adc

import (
	"fmt"
	"sync"
)

// MaxValue is the full-scale reading of a 10-bit converter.
const MaxValue = 1023

// Reader returns a 10-bit reading of one converter channel.
type Reader interface {
	ReadChannel(ch int) (uint16, error)
}

// Inputs maps each analog signal to its converter channel.
type Inputs struct {
	Battery int
	LeftX   int
	LeftY   int
	RightX  int
	RightY  int
}

// DefaultInputs matches the board wiring: battery on channel 0, then the
// left and right stick axes.
var DefaultInputs = Inputs{Battery: 0, LeftX: 1, LeftY: 2, RightX: 3, RightY: 4}

// Sticks holds raw 10-bit joystick readings.
type Sticks struct {
	LeftX, LeftY   uint16
	RightX, RightY uint16
}

// ReadSticks reads the four joystick axes.
func ReadSticks(r Reader, in Inputs) (Sticks, error) {
	var s Sticks
	for _, ax := range []struct {
		ch  int
		dst *uint16
	}{
		{in.LeftX, &s.LeftX},
		{in.LeftY, &s.LeftY},
		{in.RightX, &s.RightX},
		{in.RightY, &s.RightY},
	} {
		v, err := r.ReadChannel(ax.ch)
		if err != nil {
			return Sticks{}, err
		}
		*ax.dst = v
	}
	return s, nil
}

// Fixed is a Reader returning values set by the caller. It stands in for
// the converter on a desktop, where the simulator moves the sticks.
type Fixed struct {
	mu     sync.RWMutex
	values map[int]uint16
}

// NewFixed returns a reader with the given initial channel values.
func NewFixed(values map[int]uint16) *Fixed {
	f := &Fixed{values: make(map[int]uint16, len(values))}
	for ch, v := range values {
		f.values[ch] = v
	}
	return f
}

// Set changes the value of a channel, clamped to MaxValue.
func (f *Fixed) Set(ch int, v uint16) {
	if v > MaxValue {
		v = MaxValue
	}
	f.mu.Lock()
	f.values[ch] = v
	f.mu.Unlock()
}

func (f *Fixed) ReadChannel(ch int) (uint16, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[ch]
	if !ok {
		return 0, fmt.Errorf("channel %d not configured", ch)
	}
	return v, nil
}
