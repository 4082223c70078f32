package adc

import (
	"fmt"
	"sync"

	"github.com/cjeanneret/HexPad/internal/debug"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Conn is the SPI transfer used by the converter.
type Conn interface {
	Tx(w, r []byte) error
}

// MCP3008 is an 8-channel 10-bit SPI converter.
type MCP3008 struct {
	mu   sync.Mutex
	conn Conn
}

// NewMCP3008 drives a converter over an already connected SPI device.
func NewMCP3008(c Conn) *MCP3008 {
	return &MCP3008{conn: c}
}

// OpenMCP3008 initialises the host drivers and connects to the converter
// on the named SPI port (e.g. "/dev/spidev0.0", or "" for the first one).
func OpenMCP3008(port string, speed physic.Frequency) (*MCP3008, spi.PortCloser, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("init host: %w", err)
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, nil, fmt.Errorf("open spi %q: %w", port, err)
	}
	if speed <= 0 {
		speed = physic.MegaHertz
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("connect mcp3008: %w", err)
	}
	debug.Info("MCP3008 connected on %v at %v", p, speed)
	return NewMCP3008(c), p, nil
}

// ReadChannel performs a single-ended conversion of ch (0-7).
func (m *MCP3008) ReadChannel(ch int) (uint16, error) {
	if ch < 0 || ch > 7 {
		return 0, fmt.Errorf("mcp3008: channel %d out of range", ch)
	}
	w := []byte{0x01, byte(0x80 | ch<<4), 0x00}
	r := make([]byte, 3)
	m.mu.Lock()
	err := m.conn.Tx(w, r)
	m.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("mcp3008 channel %d: %w", ch, err)
	}
	v := uint16(r[1]&0x03)<<8 | uint16(r[2])
	debug.Trace("MCP3008: ch%d = %d", ch, v)
	return v, nil
}
