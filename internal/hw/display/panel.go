package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Metrics of proggy.TinySZ8pt7b. Text is addressed by its top edge, so the
// baseline sits fontAscent pixels below y.
const (
	fontHeight = 12
	fontAscent = 9
)

// filler is implemented by displays with an accelerated rectangle fill.
type filler interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Panel draws boxes and text onto a tinygo Displayer.
type Panel struct {
	d    drivers.Displayer
	font tinyfont.Fonter
	w, h int
}

// NewPanel wraps d. The panel size is taken from the displayer.
func NewPanel(d drivers.Displayer) *Panel {
	w, h := d.Size()
	return &Panel{
		d:    d,
		font: &proggy.TinySZ8pt7b,
		w:    int(w),
		h:    int(h),
	}
}

func (p *Panel) Size() (w, h int) {
	return p.w, p.h
}

func (p *Panel) Fill(c Colour) {
	p.Box(0, 0, p.w-1, p.h-1, c)
}

// Box fills the inclusive box (x1,y1)-(x2,y2). Inverted boxes draw nothing.
func (p *Panel) Box(x1, y1, x2, y2 int, c Colour) {
	if x2 < x1 || y2 < y1 || x1 >= p.w || y1 >= p.h || x2 < 0 || y2 < 0 {
		return
	}
	x1, y1 = clampInt(x1, 0, p.w-1), clampInt(y1, 0, p.h-1)
	x2, y2 = clampInt(x2, 0, p.w-1), clampInt(y2, 0, p.h-1)
	rgba := c.RGBA()
	if f, ok := p.d.(filler); ok {
		_ = f.FillRectangle(int16(x1), int16(y1), int16(x2-x1+1), int16(y2-y1+1), rgba)
		return
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			p.d.SetPixel(int16(x), int16(y), rgba)
		}
	}
}

// TextWidth returns the rendered width of s in pixels.
func (p *Panel) TextWidth(s string) int {
	_, outbox := tinyfont.LineWidth(p.font, s)
	return int(outbox)
}

func (p *Panel) Text(s string, x, y int, fg, bg Colour) {
	if s == "" {
		return
	}
	p.Box(x, y, x+p.TextWidth(s)-1, y+fontHeight-1, bg)
	tinyfont.WriteLine(p.d, p.font, int16(x), int16(y+fontAscent), s, fg.RGBA())
}

func (p *Panel) CentredText(s string, cx, y int, fg, bg Colour) {
	p.Text(s, cx-p.TextWidth(s)/2, y, fg, bg)
}

// Flush presents the frame on the underlying display.
func (p *Panel) Flush() error {
	return p.d.Display()
}
