package widget

import "github.com/cjeanneret/HexPad/internal/hw/display"

// Layout is the initial placement and state of every widget. Buttons and
// Sliders are indexed by their IDs.
type Layout struct {
	Buttons []Button
	Sliders []Slider
}

// TrimDefault is the centred position of a trim slider.
const TrimDefault = 50

// DefaultLayout returns the remote's main page. Each row holds a pair of
// mutually exclusive buttons; the trims sit in a column on the right.
func DefaultLayout() Layout {
	b := func(id ButtonID, x, y, width int, c display.Colour, label string, selected bool) Button {
		return Button{ID: id, X: x, Y: y, Width: width, Colour: c, Label: label, Selected: selected, Dirty: true, Page: MainPage}
	}
	s := func(id SliderID, x, y, width int, c display.Colour) Slider {
		return Slider{ID: id, X: x, Y: y, Width: width, Colour: c, Value: TrimDefault, LastRendered: -1, Page: MainPage}
	}
	return Layout{
		Buttons: []Button{
			b(WalkMode, 140, 30, 100, display.Blue, "Walk", true),
			b(WiggleMode, 260, 30, 100, display.Blue, "Wiggle", false),

			b(TripodGait, 140, 65, 100, display.Blue, "Tripod", true),
			b(RippleGait, 260, 65, 100, display.Blue, "Ripple", false),

			b(LowBody, 140, 100, 100, display.Blue, "Low", true),
			b(HighBody, 260, 100, 100, display.Blue, "High", false),

			b(LowStep, 140, 135, 100, display.Blue, "Low", true),
			b(HighStep, 260, 135, 100, display.Blue, "High", false),

			b(LongStep, 140, 170, 100, display.Blue, "Long", true),
			b(QuickStep, 260, 170, 100, display.Blue, "Quick", false),

			b(RedEyes, 122, 205, 64, display.Red, "Red", false),
			b(GreenEyes, 200, 205, 70, display.Green, "Green", true),
			b(BlueEyes, 278, 205, 64, display.Blue, "Blue", false),
		},
		Sliders: []Slider{
			s(FrontTrim, 400, 65, 140, display.Cyan),
			s(BackTrim, 400, 135, 140, display.Orange),
		},
	}
}
