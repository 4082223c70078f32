package touchpanel

import (
	"fmt"
	"sync"

	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/logic/geometry"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers/touch"
)

// Control bytes: start bit, channel, 12-bit differential mode.
const (
	cmdX  = 0xD0
	cmdY  = 0x90
	cmdZ1 = 0xB0
	cmdZ2 = 0xC0
)

// DefaultPressureThreshold separates a real press from a floating reading.
const DefaultPressureThreshold = 400

// Conn is the SPI transfer used by the controller.
type Conn interface {
	Tx(w, r []byte) error
}

// XPT2046Config describes the panel behind the controller. Raw readings
// between RawMin and RawMax are scaled onto Width x Height pixels.
type XPT2046Config struct {
	Width, Height     int
	RawMinX, RawMaxX  int
	RawMinY, RawMaxY  int
	PressureThreshold int
}

// XPT2046 is a resistive touch controller on SPI.
type XPT2046 struct {
	mu        sync.Mutex
	conn      Conn
	xs, ys    geometry.AxisScale
	threshold int
}

// NewXPT2046 drives a controller over an already connected SPI device.
func NewXPT2046(c Conn, cfg XPT2046Config) *XPT2046 {
	th := cfg.PressureThreshold
	if th <= 0 {
		th = DefaultPressureThreshold
	}
	return &XPT2046{
		conn:      c,
		xs:        geometry.AxisScale{RawMin: cfg.RawMinX, RawMax: cfg.RawMaxX, Pixels: cfg.Width},
		ys:        geometry.AxisScale{RawMin: cfg.RawMinY, RawMax: cfg.RawMaxY, Pixels: cfg.Height},
		threshold: th,
	}
}

// OpenXPT2046 connects to the controller on the named SPI port.
func OpenXPT2046(port string, speed physic.Frequency, cfg XPT2046Config) (*XPT2046, spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("init host: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, nil, fmt.Errorf("open spi %q: %w", port, err)
	}
	if speed <= 0 {
		speed = 2 * physic.MegaHertz
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("connect xpt2046: %w", err)
	}
	debug.Info("XPT2046 connected on %v at %v", p, speed)
	return NewXPT2046(c, cfg), p, nil
}

// ReadTouchPoint samples pressure and, when pressed, position. Bus errors
// are logged and read as no contact.
func (d *XPT2046) ReadTouchPoint() touch.Point {
	d.mu.Lock()
	defer d.mu.Unlock()

	z1, err := d.read(cmdZ1)
	if err != nil {
		debug.Error(err)
		return touch.Point{}
	}
	z2, err := d.read(cmdZ2)
	if err != nil {
		debug.Error(err)
		return touch.Point{}
	}
	z := z1 + 4095 - z2
	if z < d.threshold {
		return touch.Point{}
	}

	rx, err := d.read(cmdX)
	if err != nil {
		debug.Error(err)
		return touch.Point{}
	}
	ry, err := d.read(cmdY)
	if err != nil {
		debug.Error(err)
		return touch.Point{}
	}
	debug.Trace("XPT2046: raw x=%d y=%d z=%d", rx, ry, z)
	return touch.Point{X: d.xs.ToPixel(rx), Y: d.ys.ToPixel(ry), Z: z}
}

// read sends a control byte and returns the 12-bit conversion.
func (d *XPT2046) read(cmd byte) (int, error) {
	w := []byte{cmd, 0, 0}
	r := make([]byte, 3)
	if err := d.conn.Tx(w, r); err != nil {
		return 0, fmt.Errorf("xpt2046 %#02x: %w", cmd, err)
	}
	return int(uint16(r[1])<<8|uint16(r[2])) >> 3, nil
}
