package touchpanel

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers/touch"
)

// fakeConn answers conversions from a table keyed by control byte.
type fakeConn struct {
	values map[byte]int
	err    error
	cmds   []byte
}

func (c *fakeConn) Tx(w, r []byte) error {
	c.cmds = append(c.cmds, w[0])
	if c.err != nil {
		return c.err
	}
	v := uint16(c.values[w[0]]) << 3
	r[1] = byte(v >> 8)
	r[2] = byte(v)
	return nil
}

var panelCfg = XPT2046Config{
	Width: 480, Height: 320,
	RawMinX: 200, RawMaxX: 3900,
	RawMinY: 300, RawMaxY: 3800,
}

func TestXPT2046_Pressed(t *testing.T) {
	c := &fakeConn{values: map[byte]int{cmdZ1: 600, cmdZ2: 3500, cmdX: 2050, cmdY: 3800}}
	d := NewXPT2046(c, panelCfg)
	p := d.ReadTouchPoint()
	want := touch.Point{X: 239, Y: 319, Z: 1195}
	if p != want {
		t.Errorf("ReadTouchPoint = %+v, want %+v", p, want)
	}
	if len(c.cmds) != 4 {
		t.Errorf("transfers = %d, want 4", len(c.cmds))
	}
}

func TestXPT2046_LightPressureIsNoContact(t *testing.T) {
	c := &fakeConn{values: map[byte]int{cmdZ1: 10, cmdZ2: 3900, cmdX: 2000, cmdY: 2000}}
	d := NewXPT2046(c, panelCfg)
	if p := d.ReadTouchPoint(); p.Z != 0 {
		t.Errorf("Z = %d, want 0", p.Z)
	}
	if len(c.cmds) != 2 {
		t.Errorf("position read without contact: %x", c.cmds)
	}
}

func TestXPT2046_BusErrorIsNoContact(t *testing.T) {
	d := NewXPT2046(&fakeConn{err: errors.New("bus")}, panelCfg)
	if p := d.ReadTouchPoint(); p != (touch.Point{}) {
		t.Errorf("ReadTouchPoint = %+v, want zero", p)
	}
}

func TestXPT2046_DefaultThreshold(t *testing.T) {
	d := NewXPT2046(&fakeConn{}, panelCfg)
	if d.threshold != DefaultPressureThreshold {
		t.Errorf("threshold = %d, want %d", d.threshold, DefaultPressureThreshold)
	}
}

func TestVirtual(t *testing.T) {
	v := NewVirtual()
	if p := v.ReadTouchPoint(); p.Z != 0 {
		t.Fatalf("new panel pressed: %+v", p)
	}
	v.Press(140, 30)
	if p := v.ReadTouchPoint(); p != (touch.Point{X: 140, Y: 30, Z: 1}) {
		t.Errorf("after press = %+v", p)
	}
	v.Release()
	if p := v.ReadTouchPoint(); p.Z != 0 {
		t.Errorf("after release = %+v", p)
	}
}

func TestMulti_FirstContactWins(t *testing.T) {
	a, b := NewVirtual(), NewVirtual()
	m := Multi{a, b}
	if p := m.ReadTouchPoint(); p.Z != 0 {
		t.Fatalf("idle = %+v", p)
	}
	b.Press(5, 6)
	if p := m.ReadTouchPoint(); p.X != 5 || p.Y != 6 {
		t.Errorf("b only = %+v", p)
	}
	a.Press(1, 2)
	if p := m.ReadTouchPoint(); p.X != 1 || p.Y != 2 {
		t.Errorf("both = %+v, want a", p)
	}
}
