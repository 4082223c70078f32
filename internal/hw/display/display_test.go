package display

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestColour_RoundTrip(t *testing.T) {
	for _, c := range []Colour{Black, Red, Green, Blue, White, Purple, Yellow, Orange, Cyan, DGray, LGray} {
		if got := FromRGBA(c.RGBA()); got != c {
			t.Errorf("FromRGBA(%d.RGBA()) = %d", c, got)
		}
	}
}

func TestColour_RGBA(t *testing.T) {
	if got := Red.RGBA(); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Red.RGBA() = %+v", got)
	}
	if got := White.RGBA(); got != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Errorf("White.RGBA() = %+v", got)
	}
}

func TestFramebuffer_SetPixelAndAt(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.SetPixel(1, 2, Green.RGBA())
	fb.SetPixel(-1, 0, Red.RGBA())
	fb.SetPixel(4, 0, Red.RGBA())

	if got := fb.At(1, 2); got != Green {
		t.Errorf("At(1,2) = %d, want %d", got, Green)
	}
	if got := fb.At(0, 0); got != Black {
		t.Errorf("At(0,0) = %d, want black", got)
	}
	if got := fb.At(10, 10); got != Black {
		t.Errorf("At outside = %d, want black", got)
	}
}

func TestFramebuffer_FillRectangleClips(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	if err := fb.FillRectangle(6, 6, 10, 10, Blue.RGBA()); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{6, 6}, {7, 7}, {7, 6}} {
		if got := fb.At(p[0], p[1]); got != Blue {
			t.Errorf("At(%d,%d) = %d, want blue", p[0], p[1], got)
		}
	}
	if got := fb.At(5, 5); got != Black {
		t.Errorf("At(5,5) = %d, want black", got)
	}
}

func TestFramebuffer_WritePNG(t *testing.T) {
	fb := NewFramebuffer(5, 4)
	_ = fb.FillRectangle(0, 0, 5, 4, Yellow.RGBA())

	var buf bytes.Buffer
	if err := fb.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Fatalf("bounds = %v, want 5x4", b)
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0 {
		t.Errorf("pixel = (%d,%d,%d), want yellow", r>>8, g>>8, b>>8)
	}
}

func TestFramebuffer_DisplayMirrorsToDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fb1")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	fb := NewFramebuffer(2, 1)
	closer, err := fb.AttachDevice(path)
	if err != nil {
		t.Fatalf("AttachDevice: %v", err)
	}
	defer closer.Close()

	fb.SetPixel(1, 0, Red.RGBA())
	if err := fb.Display(); err != nil {
		t.Fatalf("Display: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x00, 0x00, 0xf8}
	if !bytes.Equal(data, want) {
		t.Errorf("device bytes = % x, want % x", data, want)
	}
	if fb.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", fb.Frames())
	}
}

// pixelDisplay is a Displayer without FillRectangle.
type pixelDisplay struct {
	w, h   int16
	pixels map[[2]int16]color.RGBA
	shown  int
}

func (d *pixelDisplay) Size() (x, y int16) { return d.w, d.h }

func (d *pixelDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.pixels[[2]int16{x, y}] = c
}

func (d *pixelDisplay) Display() error {
	d.shown++
	return nil
}

func TestPanel_BoxIsInclusive(t *testing.T) {
	d := &pixelDisplay{w: 20, h: 20, pixels: map[[2]int16]color.RGBA{}}
	p := NewPanel(d)
	p.Box(2, 3, 4, 5, Red)

	if len(d.pixels) != 9 {
		t.Errorf("pixels set = %d, want 9", len(d.pixels))
	}
	for _, pt := range [][2]int16{{2, 3}, {4, 5}, {3, 4}} {
		if d.pixels[pt] != Red.RGBA() {
			t.Errorf("pixel %v = %+v, want red", pt, d.pixels[pt])
		}
	}
}

func TestPanel_BoxUsesFillRectangle(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	p := NewPanel(fb)
	p.Box(2, 2, 8, 8, Cyan)
	if fb.At(2, 2) != Cyan || fb.At(8, 8) != Cyan || fb.At(9, 9) != Black {
		t.Errorf("box not filled as expected")
	}
	p.Box(5, 5, 4, 4, Red)
	if fb.At(4, 4) != Cyan || fb.At(5, 5) != Cyan {
		t.Errorf("inverted box should draw nothing")
	}
}

func TestPanel_FillAndFlush(t *testing.T) {
	fb := NewFramebuffer(6, 6)
	p := NewPanel(fb)
	p.Fill(Purple)
	if err := p.Flush(); err != nil {
		t.Fatal(err)
	}
	if fb.At(0, 0) != Purple || fb.At(5, 5) != Purple {
		t.Error("Fill did not cover the panel")
	}
	if fb.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", fb.Frames())
	}
}

func TestPanel_TextPaintsBackgroundAndGlyphs(t *testing.T) {
	fb := NewFramebuffer(120, 40)
	p := NewPanel(fb)
	w := p.TextWidth("Walk")
	if w <= 0 {
		t.Fatalf("TextWidth = %d, want > 0", w)
	}
	p.Text("Walk", 10, 10, White, Blue)

	var fg, bg int
	for y := 10; y < 10+fontHeight; y++ {
		for x := 10; x < 10+w; x++ {
			switch fb.At(x, y) {
			case White:
				fg++
			case Blue:
				bg++
			}
		}
	}
	if fg == 0 {
		t.Error("no glyph pixels drawn")
	}
	if bg == 0 {
		t.Error("no background pixels drawn")
	}
	if fb.At(9, 10) != Black {
		t.Error("text background leaked left of x")
	}
}

func TestPanel_CentredText(t *testing.T) {
	fb := NewFramebuffer(200, 40)
	p := NewPanel(fb)
	w := p.TextWidth("Tripod")
	p.CentredText("Tripod", 100, 5, White, Green)
	left := 100 - w/2
	if fb.At(left, 5) != Green && fb.At(left, 5) != White {
		t.Errorf("pixel at left edge %d not painted", left)
	}
	if fb.At(left-1, 5) != Black {
		t.Errorf("pixel left of text painted")
	}
}

func TestFramebuffer_DisplaySkipsUnchangedFrames(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	_ = fb.Display()
	if fb.Frames() != 0 {
		t.Fatalf("Frames = %d after empty display, want 0", fb.Frames())
	}
	fb.SetPixel(0, 0, White.RGBA())
	_ = fb.Display()
	fb.SetPixel(0, 0, White.RGBA())
	_ = fb.Display()
	if fb.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", fb.Frames())
	}
}
