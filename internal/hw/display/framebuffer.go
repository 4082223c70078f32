package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"
)

// Framebuffer is an RGB565 pixel store implementing drivers.Displayer.
// It can be mirrored to a Linux framebuffer device on every Display call
// and read back as an image by the web page and the simulator.
type Framebuffer struct {
	mu     sync.RWMutex
	w, h   int
	pix    []uint16
	frames uint64
	dirty  bool
	dev    io.WriterAt
	devBuf []byte
}

// NewFramebuffer allocates a black w x h framebuffer.
func NewFramebuffer(w, h int) *Framebuffer {
	return &Framebuffer{
		w:   w,
		h:   h,
		pix: make([]uint16, w*h),
	}
}

// AttachDevice mirrors the framebuffer to an fbdev node (e.g. /dev/fb1)
// that expects little-endian RGB565 rows with no padding.
func (f *Framebuffer) AttachDevice(path string) (io.Closer, error) {
	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer device: %w", err)
	}
	f.mu.Lock()
	f.dev = file
	f.devBuf = make([]byte, len(f.pix)*2)
	f.mu.Unlock()
	return file, nil
}

func (f *Framebuffer) Size() (x, y int16) {
	return int16(f.w), int16(f.h)
}

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= f.w || iy < 0 || iy >= f.h {
		return
	}
	p := uint16(FromRGBA(c))
	f.mu.Lock()
	if i := iy*f.w + ix; f.pix[i] != p {
		f.pix[i] = p
		f.dirty = true
	}
	f.mu.Unlock()
}

// FillRectangle fills a width x height block starting at (x, y).
func (f *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0, y0 := clampInt(int(x), 0, f.w), clampInt(int(y), 0, f.h)
	x1, y1 := clampInt(int(x)+int(width), 0, f.w), clampInt(int(y)+int(height), 0, f.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	p := uint16(FromRGBA(c))
	f.mu.Lock()
	for py := y0; py < y1; py++ {
		row := f.pix[py*f.w : (py+1)*f.w]
		for px := x0; px < x1; px++ {
			if row[px] != p {
				row[px] = p
				f.dirty = true
			}
		}
	}
	f.mu.Unlock()
	return nil
}

// Display presents the frame if any pixel changed since the last call,
// pushing it to the attached device.
func (f *Framebuffer) Display() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}
	f.dirty = false
	f.frames++
	if f.dev == nil {
		return nil
	}
	for i, p := range f.pix {
		f.devBuf[2*i] = byte(p)
		f.devBuf[2*i+1] = byte(p >> 8)
	}
	if _, err := f.dev.WriteAt(f.devBuf, 0); err != nil {
		return fmt.Errorf("write framebuffer device: %w", err)
	}
	return nil
}

// At returns the colour at (x, y), or Black outside the buffer.
func (f *Framebuffer) At(x, y int) Colour {
	if x < 0 || x >= f.w || y < 0 || y >= f.h {
		return Black
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Colour(f.pix[y*f.w+x])
}

// Frames returns how many changed frames have been presented.
func (f *Framebuffer) Frames() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frames
}

// RGBA returns the buffer as packed 8-bit RGBA, row by row.
func (f *Framebuffer) RGBA() []byte {
	out := make([]byte, f.w*f.h*4)
	f.mu.RLock()
	for i, p := range f.pix {
		c := Colour(p).RGBA()
		out[4*i] = c.R
		out[4*i+1] = c.G
		out[4*i+2] = c.B
		out[4*i+3] = 0xff
	}
	f.mu.RUnlock()
	return out
}

// Image returns a copy of the buffer as an image.
func (f *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	copy(img.Pix, f.RGBA())
	return img
}

// WritePNG encodes the current contents as PNG.
func (f *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, f.Image())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
