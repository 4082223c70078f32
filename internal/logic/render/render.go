// Package render draws the remote's page onto a display.Canvas. It draws
// only what the widget model reports as changed, plus the two battery
// gauges on every pass.
package render

import (
	"github.com/cjeanneret/HexPad/internal/hw/display"
	"github.com/cjeanneret/HexPad/internal/logic/widget"
)

// Drawn button height. Touches are accepted a little lower, see
// widget.HitHeight.
const buttonHeight = 28

// Gauge positions in the header.
const (
	HexapodGaugeX    = 200
	ControllerGaugeX = 276
	GaugeY           = 5
)

// Label is static text drawn on a full redraw.
type Label struct {
	Text   string
	X, Y   int
	Colour display.Colour
}

// Header and row labels of the main page.
var pageLabels = []Label{
	{"H", 182, 3, display.LGray},
	{"C", 258, 3, display.LGray},
	{"Mode:", 2, 36, display.White},
	{"Gait:", 2, 71, display.White},
	{"Body:", 2, 106, display.White},
	{"Step:", 2, 141, display.White},
	{"Eyes:", 2, 211, display.White},
	{"Front trim", 332, 50, display.White},
	{"Back trim", 332, 120, display.White},
}

// Scene is everything a render pass needs.
type Scene struct {
	Full              bool
	Buttons           []widget.Button
	Sliders           []widget.Slider
	HexapodPercent    int
	ControllerPercent int
}

// Renderer draws scenes onto a canvas.
type Renderer struct {
	c     display.Canvas
	title string
}

// New returns a renderer drawing onto c with the given title.
func New(c display.Canvas, title string) *Renderer {
	return &Renderer{c: c, title: title}
}

// Render draws one pass and flushes the canvas.
func (r *Renderer) Render(s Scene) error {
	if s.Full {
		r.drawPage()
	}
	r.DrawBattery(HexapodGaugeX, GaugeY, s.HexapodPercent, s.Full)
	r.DrawBattery(ControllerGaugeX, GaugeY, s.ControllerPercent, s.Full)
	for _, b := range s.Buttons {
		r.DrawButton(b)
	}
	for _, sl := range s.Sliders {
		r.DrawSlider(sl)
	}
	return r.c.Flush()
}

func (r *Renderer) drawPage() {
	w, _ := r.c.Size()
	r.c.Fill(display.Black)
	r.c.Text(r.title, 2, 3, display.Blue, display.Black)
	for _, l := range pageLabels {
		r.c.Text(l.Text, l.X, l.Y, l.Colour, display.Black)
	}
	r.c.Box(0, 24, w, 25, display.LGray)
}

// DrawButton draws a bordered button, filled in its colour when selected
// or highlighted.
func (r *Renderer) DrawButton(b widget.Button) {
	fill := display.Black
	if b.Highlighted || b.Selected {
		fill = b.Colour
	}
	x0, x1 := b.X-b.Width/2, b.X+b.Width/2
	r.c.Box(x0, b.Y, x1, b.Y+buttonHeight, b.Colour)
	r.c.Box(x0+2, b.Y+2, x1-2, b.Y+buttonHeight-2, fill)

	text := display.White
	if fill == display.DGray {
		text = display.DGray
	}
	r.c.CentredText(b.Label, b.X, b.Y+6, text, fill)
}

// DrawSlider draws the track and thumb of a slider.
func (r *Renderer) DrawSlider(s widget.Slider) {
	x0, x1 := s.X-s.Width/2, s.X+s.Width/2
	mid := s.ThumbX()
	r.c.Box(x0, s.Y, x1, s.Y+8, display.Black)
	r.c.Box(x0, s.Y+8, x1, s.Y+24, display.DGray)
	r.c.Box(x0, s.Y+24, x1, s.Y+widget.HitHeight, display.Black)
	r.c.Box(mid-8, s.Y, mid+8, s.Y+widget.HitHeight, s.Colour)
}

// GaugeColour picks the bar colour for a charge level.
func GaugeColour(percent int) display.Colour {
	switch {
	case percent < 20:
		return display.Red
	case percent < 50:
		return display.Yellow
	default:
		return display.Green
	}
}

// GaugeWidth is the bar length in pixels. A flat battery still shows a
// 3 px sliver.
func GaugeWidth(percent int) int {
	w := percent * 30 / 100
	if w < 3 {
		w = 3
	}
	if w > 30 {
		w = 30
	}
	return w
}

// DrawBattery draws a battery gauge. The outline is drawn only with frame
// set; the bar is redrawn every time.
func (r *Renderer) DrawBattery(x, y, percent int, frame bool) {
	if frame {
		r.c.Box(x, y, x+34, y+12, display.LGray)
		r.c.Box(x+34, y+4, x+36, y+8, display.LGray)
	}
	w := GaugeWidth(percent)
	r.c.Box(x+2, y+2, x+2+w, y+10, GaugeColour(percent))
	r.c.Box(x+2+w+1, y+2, x+32, y+10, display.Black)
}
