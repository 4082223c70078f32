package remote

import (
	"sync/atomic"

	"github.com/cjeanneret/HexPad/internal/logic/widget"
)

// Shared holds the scalars written by the periodic tasks and read by the
// main loop. Each is a single atomic word.
type Shared struct {
	touch      atomic.Uint32 // x<<16 | y of the last present sample
	touching   atomic.Bool
	press      atomic.Int32 // mailbox, -1 when empty
	brightness atomic.Int32
}

func newShared() *Shared {
	s := &Shared{}
	s.press.Store(int32(widget.NoButton))
	return s
}

func (s *Shared) setTouch(x, y uint16) {
	s.touch.Store(uint32(x)<<16 | uint32(y))
	s.touching.Store(true)
}

func (s *Shared) clearTouch() {
	s.touching.Store(false)
}

// Touch returns the last present coordinate and whether a finger is down.
func (s *Shared) Touch() (x, y int, touching bool) {
	v := s.touch.Load()
	return int(v >> 16), int(v & 0xFFFF), s.touching.Load()
}

// post puts a press in the mailbox, replacing any undelivered one.
func (s *Shared) post(id widget.ButtonID) {
	s.press.Store(int32(id))
}

// take empties the mailbox.
func (s *Shared) take() widget.ButtonID {
	return widget.ButtonID(s.press.Swap(int32(widget.NoButton)))
}
