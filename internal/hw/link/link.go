// Package link is the serial connection to the hexapod: single-byte
// transmits paced by a fixed gap, and a receiver keeping the lowest
// inbound byte not yet taken.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cjeanneret/HexPad/internal/debug"
	"go.bug.st/serial"
)

// Defaults of the hexapod's UART: 9600 8N1 with a 2 ms pause after every
// byte, which the receiver needs to keep up.
const (
	DefaultBaudRate = 9600
	DefaultByteGap  = 2 * time.Millisecond
)

// readTimeout bounds each blocking read so the receiver notices
// cancellation.
const readTimeout = 100 * time.Millisecond

// DefaultRetryDelay is the pause after a failed read.
const DefaultRetryDelay = 500 * time.Millisecond

// ErrClosed is returned by operations on a closed link.
var ErrClosed = errors.New("link closed")

// Port is the part of a serial port the link needs.
type Port interface {
	io.ReadWriter
	Drain() error
	Close() error
}

// Config describes the serial device.
type Config struct {
	Device   string
	BaudRate int
	ByteGap  time.Duration
}

// Link serialises transmits on a Port and tracks the lowest received
// byte since the last take. The hexapod reports its charge, which only
// ever counts down, so the lowest byte is the one worth keeping.
type Link struct {
	port Port
	gap  time.Duration

	// RetryDelay is the pause after a failed read.
	RetryDelay time.Duration

	// OnError, if set, is told about read errors Receive recovers from.
	// They are logged otherwise.
	OnError func(error)

	// sleep is replaced in tests.
	sleep func(time.Duration)

	mu     sync.Mutex
	rx     atomic.Int32 // lowest received byte, -1 when empty
	sent   atomic.Uint64
	closed atomic.Bool
}

// Open opens the serial device as 8N1 at the configured rate.
func Open(cfg Config) (*Link, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial device is required")
	}
	baud := cfg.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	debug.Info("Opening serial link %s at %d baud", cfg.Device, baud)

	p, err := serial.Open(cfg.Device, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Device, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	if err := p.ResetInputBuffer(); err != nil {
		debug.Error(fmt.Errorf("reset input buffer: %w", err))
	}
	return New(p, cfg.ByteGap), nil
}

// New wraps an already open port. A non-positive gap selects
// DefaultByteGap.
func New(p Port, gap time.Duration) *Link {
	if gap <= 0 {
		gap = DefaultByteGap
	}
	l := &Link{port: p, gap: gap, RetryDelay: DefaultRetryDelay, sleep: time.Sleep}
	l.rx.Store(-1)
	return l
}

// Transmit writes one byte, waits for it to leave the UART and then pauses
// for the byte gap.
func (l *Link) Transmit(b byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transmit(b)
}

// TransmitAll sends bytes one by one with the same pacing as Transmit. No
// other transmit can interleave.
func (l *Link) TransmitAll(bs []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range bs {
		if err := l.transmit(b); err != nil {
			return err
		}
	}
	return nil
}

func (l *Link) transmit(b byte) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if _, err := l.port.Write([]byte{b}); err != nil {
		return fmt.Errorf("write byte %#02x: %w", b, err)
	}
	if err := l.port.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	l.sent.Add(1)
	l.sleep(l.gap)
	return nil
}

// Sent returns the number of bytes transmitted.
func (l *Link) Sent() uint64 {
	return l.sent.Load()
}

// Receive reads from the port until ctx is cancelled or the link is
// closed. Every byte is offered to the receive slot, which keeps the
// lowest. A failed read is reported and retried after RetryDelay; only
// cancellation, Close or EOF end the loop, and all of them return nil.
func (l *Link) Receive(ctx context.Context) error {
	buf := make([]byte, 16)
	for {
		if ctx.Err() != nil || l.closed.Load() {
			return nil
		}
		n, err := l.port.Read(buf)
		for _, b := range buf[:n] {
			l.offer(b)
		}
		if n > 0 && debug.IsEnabled(debug.LevelTrace) {
			debug.Trace("Link: received %d byte(s) %v", n, buf[:n])
		}
		if err == nil {
			continue
		}
		if l.closed.Load() || errors.Is(err, io.EOF) {
			return nil
		}
		err = fmt.Errorf("read: %w", err)
		if l.OnError != nil {
			l.OnError(err)
		} else {
			debug.Error(err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.RetryDelay):
		}
	}
}

// offer stores b unless a lower byte is already waiting.
func (l *Link) offer(b byte) {
	for {
		old := l.rx.Load()
		if old >= 0 && old <= int32(b) {
			return
		}
		if l.rx.CompareAndSwap(old, int32(b)) {
			return
		}
	}
}

// TakeReceived returns and clears the lowest byte received since the
// previous take.
func (l *Link) TakeReceived() (byte, bool) {
	v := l.rx.Swap(-1)
	if v < 0 {
		return 0, false
	}
	return byte(v), true
}

// Close closes the port. Further transmits fail with ErrClosed.
func (l *Link) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	return l.port.Close()
}
