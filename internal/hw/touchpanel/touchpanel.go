// Package touchpanel provides touch sources implementing the tinygo
// touch.Pointer interface. A point with Z > 0 is a contact; X and Y are
// panel pixels.
package touchpanel

import (
	"sync"

	"tinygo.org/x/drivers/touch"
)

// Virtual is a touch source driven in software, by the web page or the
// desktop simulator.
type Virtual struct {
	mu sync.Mutex
	p  touch.Point
}

// NewVirtual returns a released virtual panel.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Press puts a finger down (or moves it) at (x, y).
func (v *Virtual) Press(x, y int) {
	v.mu.Lock()
	v.p = touch.Point{X: x, Y: y, Z: 1}
	v.mu.Unlock()
}

// Release lifts the finger.
func (v *Virtual) Release() {
	v.mu.Lock()
	v.p = touch.Point{}
	v.mu.Unlock()
}

// ReadTouchPoint returns the current contact.
func (v *Virtual) ReadTouchPoint() touch.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.p
}

// Multi reads several sources and reports the first contact found, so a
// physical panel and the web page can both drive the remote.
type Multi []touch.Pointer

func (m Multi) ReadTouchPoint() touch.Point {
	for _, p := range m {
		if pt := p.ReadTouchPoint(); pt.Z > 0 {
			return pt
		}
	}
	return touch.Point{}
}
