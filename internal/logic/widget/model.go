// Package widget holds the button and slider tables of the remote's UI and
// turns debounced touch events into captures, presses, slider values and
// redraw flags. It never draws.
package widget

import (
	"fmt"

	"github.com/cjeanneret/HexPad/internal/hw/display"
	"github.com/cjeanneret/HexPad/internal/logic/geometry"
)

// HitHeight is the touch-sensitive height of buttons and sliders. Buttons
// are drawn 28 px tall but accept touches over 32 px.
const HitHeight = 32

// thumbMargin is the half width of a slider thumb, kept off both ends of
// the track.
const thumbMargin = 8

// Button is a toggle on the page. X is the horizontal centre, Y the top.
type Button struct {
	ID          ButtonID
	X, Y        int
	Width       int
	Colour      display.Colour
	Label       string
	Selected    bool
	Highlighted bool
	Dirty       bool
	Page        Page
}

// Box returns the touch-sensitive box of the button.
func (b *Button) Box() geometry.Rect {
	return geometry.CentredBox(b.X, b.Y, b.Width, HitHeight)
}

// Slider is a 0..100 value control. X is the horizontal centre, Y the top.
// LastRendered is -1 until first drawn.
type Slider struct {
	ID           SliderID
	X, Y         int
	Width        int
	Colour       display.Colour
	Value        int
	LastRendered int
	Page         Page
}

// Box returns the touch-sensitive box of the slider.
func (s *Slider) Box() geometry.Rect {
	return geometry.CentredBox(s.X, s.Y, s.Width, HitHeight)
}

// Usable returns the track length available to the thumb centre.
func (s *Slider) Usable() int {
	return s.Width - 2*thumbMargin
}

// ThumbX returns the thumb centre for the current value.
func (s *Slider) ThumbX() int {
	u := s.Usable()
	return s.X - u/2 + u*s.Value/100
}

// Model is the widget state of the remote. It is not safe for concurrent
// use; the caller serialises access between the touch task and the main
// loop.
type Model struct {
	buttons []Button
	sliders []Slider
	page    Page

	capturedButton ButtonID
	capturedSlider SliderID
}

// NewModel builds a model from a layout. Buttons and sliders must be
// listed in ID order.
func NewModel(l Layout) (*Model, error) {
	for i, b := range l.Buttons {
		if int(b.ID) != i {
			return nil, fmt.Errorf("button %q at index %d has id %d", b.Label, i, b.ID)
		}
		if b.Width <= 0 {
			return nil, fmt.Errorf("button %v: width must be > 0", b.ID)
		}
	}
	for i, s := range l.Sliders {
		if int(s.ID) != i {
			return nil, fmt.Errorf("slider at index %d has id %d", i, s.ID)
		}
		if s.Usable() <= 0 {
			return nil, fmt.Errorf("slider %v: width must be > %d", s.ID, 2*thumbMargin)
		}
	}
	m := &Model{
		buttons:        append([]Button(nil), l.Buttons...),
		sliders:        append([]Slider(nil), l.Sliders...),
		page:           MainPage,
		capturedButton: NoButton,
		capturedSlider: NoSlider,
	}
	return m, nil
}

// Page returns the active page.
func (m *Model) Page() Page {
	return m.page
}

// OnTapDown captures the last button and the last slider on the active
// page whose boxes contain (x, y). Both may be captured at once.
func (m *Model) OnTapDown(x, y int) {
	for i := range m.buttons {
		b := &m.buttons[i]
		if b.Page == m.page && b.Box().Contains(x, y) {
			m.capturedButton = b.ID
		}
	}
	for i := range m.sliders {
		s := &m.sliders[i]
		if s.Page == m.page && s.Box().Contains(x, y) {
			m.capturedSlider = s.ID
		}
	}
}

// OnDragUpdate moves the captured slider while the touch stays inside it.
func (m *Model) OnDragUpdate(x, y int) {
	if m.capturedSlider == NoSlider {
		return
	}
	s := &m.sliders[m.capturedSlider]
	if !s.Box().Contains(x, y) {
		return
	}
	u := s.Usable()
	v := 100 * (x - (s.X - u/2)) / u
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.Value = v
}

// OnTapUp releases all captures. It reports a press when a button was
// captured and (x, y) is still inside it.
func (m *Model) OnTapUp(x, y int) (ButtonID, bool) {
	id := m.capturedButton
	m.capturedButton = NoButton
	m.capturedSlider = NoSlider
	if id == NoButton {
		return NoButton, false
	}
	if !m.buttons[id].Box().Contains(x, y) {
		return NoButton, false
	}
	return id, true
}

// RefreshHighlights recomputes button highlights from the latest touch
// point. A button is highlighted while it is captured and the finger is
// inside it; a change marks it dirty.
func (m *Model) RefreshHighlights(x, y int, touching bool) {
	for i := range m.buttons {
		b := &m.buttons[i]
		h := touching && m.capturedButton == b.ID && b.Box().Contains(x, y)
		if h != b.Highlighted {
			b.Highlighted = h
			b.Dirty = true
		}
	}
}

// Select marks id selected and every id in others deselected. All touched
// buttons become dirty. NoButton entries are skipped.
func (m *Model) Select(id ButtonID, others ...ButtonID) {
	if m.valid(id) {
		m.buttons[id].Selected = true
		m.buttons[id].Dirty = true
	}
	for _, o := range others {
		if !m.valid(o) {
			continue
		}
		m.buttons[o].Selected = false
		m.buttons[o].Dirty = true
	}
}

// Captured returns the captured button and slider.
func (m *Model) Captured() (ButtonID, SliderID) {
	return m.capturedButton, m.capturedSlider
}

// Button returns a copy of button id.
func (m *Model) Button(id ButtonID) Button {
	return m.buttons[id]
}

// Slider returns a copy of slider id.
func (m *Model) Slider(id SliderID) Slider {
	return m.sliders[id]
}

// Buttons returns a copy of the button table.
func (m *Model) Buttons() []Button {
	return append([]Button(nil), m.buttons...)
}

// Sliders returns a copy of the slider table.
func (m *Model) Sliders() []Slider {
	return append([]Slider(nil), m.sliders...)
}

// SetSlider moves a slider programmatically, clamping to 0..100.
func (m *Model) SetSlider(id SliderID, value int) {
	if id < 0 || int(id) >= len(m.sliders) {
		return
	}
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	m.sliders[id].Value = value
}

// TakeRedraws returns the widgets of the active page that need drawing and
// marks them drawn: dirty buttons, and sliders whose value differs from
// what was last rendered. With full set, every widget on the page is
// returned.
func (m *Model) TakeRedraws(full bool) ([]Button, []Slider) {
	var buttons []Button
	var sliders []Slider
	for i := range m.buttons {
		b := &m.buttons[i]
		if b.Page != m.page || !(full || b.Dirty) {
			continue
		}
		b.Dirty = false
		buttons = append(buttons, *b)
	}
	for i := range m.sliders {
		s := &m.sliders[i]
		if s.Page != m.page || !(full || s.Value != s.LastRendered) {
			continue
		}
		s.LastRendered = s.Value
		sliders = append(sliders, *s)
	}
	return buttons, sliders
}

func (m *Model) valid(id ButtonID) bool {
	return id >= 0 && int(id) < len(m.buttons)
}
