package link

import (
	"io"
	"sync"

	"github.com/cjeanneret/HexPad/internal/debug"
)

// MockPort is an in-memory Port for development without the radio
// attached. Written bytes are recorded; Inject feeds bytes to Read.
type MockPort struct {
	mu      sync.Mutex
	written []byte
	in      chan byte
	done    chan struct{}
	once    sync.Once
}

// NewMockPort returns an open mock port.
func NewMockPort() *MockPort {
	debug.Info("Using MOCK serial link (development mode)")
	return &MockPort{
		in:   make(chan byte, 64),
		done: make(chan struct{}),
	}
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	m.written = append(m.written, p...)
	m.mu.Unlock()
	return len(p), nil
}

// Read blocks until a byte is injected or the port is closed.
func (m *MockPort) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case b := <-m.in:
		p[0] = b
		return 1, nil
	case <-m.done:
		return 0, io.EOF
	}
}

func (m *MockPort) Drain() error {
	return nil
}

func (m *MockPort) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

// Inject queues a byte for Read, as if the hexapod had sent it.
func (m *MockPort) Inject(b byte) {
	select {
	case m.in <- b:
	case <-m.done:
	}
}

// Written returns a copy of everything written so far.
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written...)
}
