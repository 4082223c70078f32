// Package remote ties the remote together. Two periodic tasks (the frame
// tick and the touch poll) feed a main loop that delivers button presses,
// sends telemetry frames, folds battery readings and redraws the screen.
package remote

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/hw/adc"
	"github.com/cjeanneret/HexPad/internal/hw/backlight"
	"github.com/cjeanneret/HexPad/internal/hw/display"
	"github.com/cjeanneret/HexPad/internal/logic/control"
	"github.com/cjeanneret/HexPad/internal/logic/debounce"
	"github.com/cjeanneret/HexPad/internal/logic/render"
	"github.com/cjeanneret/HexPad/internal/logic/telemetry"
	"github.com/cjeanneret/HexPad/internal/logic/widget"
	"tinygo.org/x/drivers/touch"
)

// Link is the serial link to the hexapod.
type Link interface {
	Transmit(b byte) error
	TransmitAll(bs []byte) error
	TakeReceived() (byte, bool)
}

// Dimmer sets the display backlight.
type Dimmer interface {
	Apply(brightness int) error
}

// Deps are the peripherals the remote drives. Dimmer and Notifier may be
// nil.
type Deps struct {
	Link     Link
	ADC      adc.Reader
	Touch    touch.Pointer
	Canvas   display.Canvas
	Dimmer   Dimmer
	Notifier Notifier
}

// Options tune the controller. Zero values select the defaults.
type Options struct {
	Command       byte
	TickHz        int
	TicksPerFrame int
	TouchPeriod   time.Duration
	LoopInterval  time.Duration
	DebounceTicks int
	Inputs        *adc.Inputs
	Title         string
	Brightness    int
	Layout        *widget.Layout
}

// Defaults used when an option is left at its zero value.
const (
	DefaultTouchPeriod  = time.Second / 200
	DefaultLoopInterval = 5 * time.Millisecond
	DefaultTitle        = "Hexapod"
)

func (o *Options) applyDefaults() {
	if o.Command == 0 {
		o.Command = telemetry.DefaultCommand
	}
	if o.TickHz <= 0 {
		o.TickHz = telemetry.DefaultTickHz
	}
	if o.TicksPerFrame <= 0 {
		o.TicksPerFrame = telemetry.DefaultTicksPerFrame
	}
	if o.TouchPeriod <= 0 {
		o.TouchPeriod = DefaultTouchPeriod
	}
	if o.LoopInterval <= 0 {
		o.LoopInterval = DefaultLoopInterval
	}
	if o.DebounceTicks <= 0 {
		o.DebounceTicks = debounce.DefaultThreshold
	}
	if o.Inputs == nil {
		in := adc.DefaultInputs
		o.Inputs = &in
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
}

// Controller is the remote's application state.
//
// The widget model, the state machine and the battery estimates are only
// touched under mu. The touch task holds mu for the length of one
// debounced event; the main loop holds it to apply a press and to take a
// render snapshot. No I/O happens under mu.
type Controller struct {
	opts   Options
	link   Link
	adc    adc.Reader
	touch  touch.Pointer
	dimmer Dimmer
	notify Notifier

	budget   *telemetry.TickBudget
	debounce *debounce.Debouncer
	renderer *render.Renderer
	shared   *Shared

	mu         sync.Mutex
	model      *widget.Model
	sm         *control.StateMachine
	hexapod    *telemetry.Battery
	controller *telemetry.Battery
	lastFrame  telemetry.Frame

	frames     atomic.Uint64
	fullRedraw atomic.Bool
	applied    int // last brightness given to the dimmer, touch task only
}

// New builds a controller. The first Step performs a full redraw.
func New(d Deps, opts Options) (*Controller, error) {
	if d.Link == nil || d.ADC == nil || d.Touch == nil || d.Canvas == nil {
		return nil, errors.New("remote: link, adc, touch and canvas are required")
	}
	opts.applyDefaults()

	layout := widget.DefaultLayout()
	if opts.Layout != nil {
		layout = *opts.Layout
	}
	model, err := widget.NewModel(layout)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}

	c := &Controller{
		opts:       opts,
		link:       d.Link,
		adc:        d.ADC,
		touch:      d.Touch,
		dimmer:     d.Dimmer,
		notify:     d.Notifier,
		budget:     telemetry.NewTickBudget(opts.TicksPerFrame),
		debounce:   debounce.New(opts.DebounceTicks),
		renderer:   render.New(d.Canvas, opts.Title),
		shared:     newShared(),
		model:      model,
		sm:         control.New(),
		hexapod:    telemetry.NewBattery(),
		controller: telemetry.NewBattery(),
		applied:    -1,
	}
	c.shared.brightness.Store(int32(clampBrightness(opts.Brightness)))
	c.fullRedraw.Store(true)
	return c, nil
}

// Shared exposes the scalars written by the periodic tasks.
func (c *Controller) Shared() *Shared {
	return c.shared
}

// TickISR counts one frame-cadence tick.
func (c *Controller) TickISR() {
	c.budget.Tick()
}

// TickN counts n ticks at once, for tick sources that wake less often
// than the tick rate.
func (c *Controller) TickN(n int) {
	c.budget.Add(n)
}

// TouchISR polls the touch source once and feeds the debouncer. It also
// applies the shared brightness to the backlight.
func (c *Controller) TouchISR() {
	c.applyBrightness()

	p := c.touch.ReadTouchPoint()
	s := debounce.Sample{Present: p.Z > 0}
	if s.Present {
		s.X, s.Y = clampCoord(p.X), clampCoord(p.Y)
	}

	ev := c.debounce.Poll(s)
	if s.Present {
		debug.Trace("touch sample (%d,%d) z=%d %v", p.X, p.Y, p.Z, c.debounce.State())
	}
	if s.Present {
		c.shared.setTouch(s.X, s.Y)
	} else {
		c.shared.clearTouch()
	}
	if ev.Kind == debounce.None {
		return
	}
	debug.Touch(ev.Kind.String(), ev.X, ev.Y)

	x, y := int(ev.X), int(ev.Y)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch ev.Kind {
	case debounce.TapDown:
		c.model.OnTapDown(x, y)
	case debounce.DragUpdate:
		c.model.OnDragUpdate(x, y)
	case debounce.TapUp:
		if id, ok := c.model.OnTapUp(x, y); ok {
			c.shared.post(id)
		}
	}
}

func (c *Controller) applyBrightness() {
	if c.dimmer == nil {
		return
	}
	b := int(c.shared.brightness.Load())
	if b == c.applied {
		return
	}
	if err := c.dimmer.Apply(b); err != nil {
		debug.Error(fmt.Errorf("backlight: %w", err))
		return
	}
	c.applied = b
}

// Step runs one pass of the main loop: deliver a pending press, take the
// hexapod's battery byte, send every frame that is due and redraw what
// changed. Errors are reported and the pass carries on.
func (c *Controller) Step() {
	c.deliverPress()
	c.receiveBattery()
	for c.budget.Take() {
		c.sendFrame()
	}
	if err := c.render(); err != nil {
		c.Report(fmt.Errorf("render: %w", err))
	}
}

func (c *Controller) deliverPress() {
	id := c.shared.take()
	if id == widget.NoButton {
		return
	}
	c.mu.Lock()
	cmd, hasCmd := c.sm.Apply(id, c.model)
	bits := c.sm.Bits()
	c.mu.Unlock()

	debug.Press(id.String(), bits)
	c.emit(Event{Kind: EventPress, Button: id.String(), Bits: bits})
	if !hasCmd {
		return
	}
	if err := c.link.Transmit(cmd); err != nil {
		c.Report(fmt.Errorf("transmit command %q: %w", cmd, err))
		return
	}
	c.emit(Event{Kind: EventCommand, Command: string(rune(cmd)), Bits: bits})
}

func (c *Controller) receiveBattery() {
	v, ok := c.link.TakeReceived()
	if !ok {
		return
	}
	c.mu.Lock()
	changed := c.hexapod.IngestRemoteByte(v)
	p := c.hexapod.Percent()
	c.mu.Unlock()
	if changed {
		debug.Battery(SourceHexapod, p)
		c.emit(Event{Kind: EventBattery, Source: SourceHexapod, Percent: p})
	}
}

func (c *Controller) sendFrame() {
	raw, err := c.adc.ReadChannel(c.opts.Inputs.Battery)
	if err != nil {
		c.Report(fmt.Errorf("read battery: %w", err))
		return
	}
	sticks, err := adc.ReadSticks(c.adc, *c.opts.Inputs)
	if err != nil {
		c.Report(fmt.Errorf("read sticks: %w", err))
		return
	}

	c.mu.Lock()
	changed := c.controller.IngestLocalReading(int(raw))
	percent := c.controller.Percent()
	bits := c.sm.Bits()
	f := telemetry.BuildFrame(c.opts.Command, bits, telemetry.Sticks{
		LeftX:  telemetry.Downsample(sticks.LeftX),
		LeftY:  telemetry.Downsample(sticks.LeftY),
		RightX: telemetry.Downsample(sticks.RightX),
		RightY: telemetry.Downsample(sticks.RightY),
	})
	c.lastFrame = f
	c.mu.Unlock()

	if changed {
		debug.Battery(SourceController, percent)
		c.emit(Event{Kind: EventBattery, Source: SourceController, Percent: percent})
	}
	if err := c.link.TransmitAll(f[:]); err != nil {
		c.Report(fmt.Errorf("transmit frame: %w", err))
		return
	}
	c.frames.Add(1)
	debug.Frame(f[:])
	c.emit(Event{Kind: EventFrame, Frame: &f, Bits: bits})
}

func (c *Controller) render() error {
	x, y, touching := c.shared.Touch()

	c.mu.Lock()
	c.model.RefreshHighlights(x, y, touching)
	full := c.fullRedraw.Swap(false)
	buttons, sliders := c.model.TakeRedraws(full)
	scene := render.Scene{
		Full:              full,
		Buttons:           buttons,
		Sliders:           sliders,
		HexapodPercent:    c.hexapod.Percent(),
		ControllerPercent: c.controller.Percent(),
	}
	c.mu.Unlock()

	return c.renderer.Render(scene)
}

// Report logs err and publishes it as an error event. The loop carries
// on; peripherals running outside it report through here too.
func (c *Controller) Report(err error) {
	debug.Error(err)
	c.emit(Event{Kind: EventError, Error: err.Error()})
}

func (c *Controller) emit(e Event) {
	if c.notify != nil {
		c.notify.Notify(e)
	}
}

// SetBrightness stores a new backlight level; the touch task applies it.
// 0 is full brightness and 255 is off.
func (c *Controller) SetBrightness(b int) {
	c.shared.brightness.Store(int32(clampBrightness(b)))
}

// Brightness returns the requested backlight level.
func (c *Controller) Brightness() int {
	return int(c.shared.brightness.Load())
}

// RequestFullRedraw makes the next pass repaint the whole page.
func (c *Controller) RequestFullRedraw() {
	c.fullRedraw.Store(true)
}

// Frames returns how many frames were sent.
func (c *Controller) Frames() uint64 {
	return c.frames.Load()
}

func clampBrightness(b int) int {
	switch {
	case b < backlight.FullBright:
		return backlight.FullBright
	case b > backlight.Off:
		return backlight.Off
	default:
		return b
	}
}

func clampCoord(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(v)
	}
}
