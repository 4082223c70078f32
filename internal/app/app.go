// Package app assembles the remote from configuration: it picks real or
// stand-in peripherals, builds the controller and runs it alongside the
// serial receiver and the optional web server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers/touch"

	"github.com/cjeanneret/HexPad/internal/config"
	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/hw/adc"
	"github.com/cjeanneret/HexPad/internal/hw/backlight"
	"github.com/cjeanneret/HexPad/internal/hw/display"
	"github.com/cjeanneret/HexPad/internal/hw/gpio"
	"github.com/cjeanneret/HexPad/internal/hw/link"
	"github.com/cjeanneret/HexPad/internal/hw/touchpanel"
	"github.com/cjeanneret/HexPad/internal/logic/remote"
	"github.com/cjeanneret/HexPad/internal/web"
)

// mockDrainInterval is how often the mock hexapod reports a lower charge.
const mockDrainInterval = 20 * time.Second

// App is an assembled remote.
type App struct {
	Config *config.Config
	Remote *remote.Controller
	Link   *link.Link
	Screen *display.Framebuffer
	Events *web.StatusBroadcaster

	// Touch always exists so the web page and the simulator can drive the
	// remote; a physical panel, when present, is read first.
	Touch *touchpanel.Virtual

	// Sticks is nil when a converter is attached.
	Sticks *adc.Fixed

	// Mock is nil when a real serial device is open.
	Mock *link.MockPort

	closers []io.Closer
}

// New brings up the peripherals named in cfg and builds the controller.
// Events go to events (a new broadcaster when nil) and to extra, which may
// be nil. On error, everything opened so far is closed.
func New(cfg *config.Config, events *web.StatusBroadcaster, extra remote.Notifier) (*App, error) {
	if events == nil {
		events = web.NewStatusBroadcaster()
	}
	a := &App{
		Config: cfg,
		Events: events,
		Touch:  touchpanel.NewVirtual(),
	}
	if err := a.build(extra); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(extra remote.Notifier) error {
	cfg := a.Config

	debug.Step(1, "Initializing GPIO driver")
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
	g, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		return fmt.Errorf("init GPIO: %w", err)
	}
	a.closers = append(a.closers, g)

	var dimmer remote.Dimmer
	if cfg.Backlight.Pin > 0 {
		debug.Step(2, "Initializing backlight")
		bl, err := backlight.New(g, cfg.Backlight.Pin)
		if err != nil {
			return fmt.Errorf("init backlight: %w", err)
		}
		a.closers = append(a.closers, bl)
		dimmer = bl
		debug.Value("Backlight pin", cfg.Backlight.Pin)
	}

	debug.Step(3, "Opening serial link")
	if cfg.Link.Mock {
		a.Mock = link.NewMockPort()
		a.Link = link.New(a.Mock, cfg.ByteGap())
	} else {
		a.Link, err = link.Open(link.Config{
			Device:   cfg.Link.Port,
			BaudRate: cfg.Link.BaudRate,
			ByteGap:  cfg.ByteGap(),
		})
		if err != nil {
			return err
		}
	}
	a.closers = append(a.closers, a.Link)
	debug.PrintStruct("Link config", cfg.Link)

	debug.Step(4, "Initializing analog inputs")
	reader, err := a.openADC()
	if err != nil {
		return err
	}
	debug.Value("ADC source", cfg.ADC.Source)

	debug.Step(5, "Initializing touch panel")
	pointer, err := a.openTouch()
	if err != nil {
		return err
	}
	debug.Value("Touch source", cfg.Touch.Source)

	debug.Step(6, "Initializing display")
	a.Screen = display.NewFramebuffer(cfg.Display.Width, cfg.Display.Height)
	if cfg.Display.FramebufDev != "" {
		dev, err := a.Screen.AttachDevice(cfg.Display.FramebufDev)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, dev)
		debug.Value("Framebuffer device", cfg.Display.FramebufDev)
	}

	debug.Step(7, "Building controller")
	notify := remote.Notifiers{a.Events}
	if extra != nil {
		notify = append(notify, extra)
	}
	in := adc.Inputs{
		Battery: cfg.ADC.Battery,
		LeftX:   cfg.ADC.LeftX,
		LeftY:   cfg.ADC.LeftY,
		RightX:  cfg.ADC.RightX,
		RightY:  cfg.ADC.RightY,
	}
	a.Remote, err = remote.New(remote.Deps{
		Link:     a.Link,
		ADC:      reader,
		Touch:    pointer,
		Canvas:   display.NewPanel(a.Screen),
		Dimmer:   dimmer,
		Notifier: notify,
	}, remote.Options{
		Command:       cfg.CommandByte(),
		TickHz:        cfg.Timing.TickHz,
		TicksPerFrame: cfg.Timing.TicksPerFrame,
		TouchPeriod:   cfg.TouchPeriod(),
		LoopInterval:  cfg.LoopInterval(),
		DebounceTicks: cfg.Touch.DebounceTicks,
		Inputs:        &in,
		Title:         cfg.Display.Title,
		Brightness:    cfg.Backlight.Brightness,
	})
	if err != nil {
		return err
	}
	a.Link.OnError = a.Remote.Report
	debug.Info("Frame rate: %.1f Hz, touch poll: %v", cfg.FrameRateHz(), cfg.TouchPeriod())
	return nil
}

func (a *App) openADC() (adc.Reader, error) {
	cfg := a.Config.ADC
	if cfg.Source == "mcp3008" {
		m, port, err := adc.OpenMCP3008(cfg.SPIPort, physic.Frequency(cfg.SpeedKHz)*physic.KiloHertz)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, port)
		return m, nil
	}
	stick := uint16(cfg.FixedStick)
	a.Sticks = adc.NewFixed(map[int]uint16{
		cfg.Battery: uint16(cfg.FixedBattery),
		cfg.LeftX:   stick,
		cfg.LeftY:   stick,
		cfg.RightX:  stick,
		cfg.RightY:  stick,
	})
	return a.Sticks, nil
}

func (a *App) openTouch() (touch.Pointer, error) {
	cfg := a.Config.Touch
	if cfg.Source != "xpt2046" {
		return a.Touch, nil
	}
	x, port, err := touchpanel.OpenXPT2046(cfg.SPIPort, physic.Frequency(cfg.SpeedKHz)*physic.KiloHertz,
		touchpanel.XPT2046Config{
			Width:             a.Config.Display.Width,
			Height:            a.Config.Display.Height,
			RawMinX:           cfg.RawMinX,
			RawMaxX:           cfg.RawMaxX,
			RawMinY:           cfg.RawMinY,
			RawMaxY:           cfg.RawMaxY,
			PressureThreshold: cfg.PressureThreshold,
		})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, port)
	return touchpanel.Multi{x, a.Touch}, nil
}

// Run drives the remote, the serial receiver and, with webPort > 0, the
// web server until ctx is cancelled.
func (a *App) Run(ctx context.Context, webPort int) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Remote.Run(ctx) })
	// Receive retries failed reads itself, so a flaky port never stops
	// the group.
	g.Go(func() error { return a.Link.Receive(ctx) })
	g.Go(func() error {
		// Receive blocks in Read; closing the link releases it.
		<-ctx.Done()
		return a.Link.Close()
	})
	if a.Mock != nil {
		g.Go(func() error { return a.mockHexapod(ctx) })
	}
	if webPort > 0 {
		srv := web.NewServer(fmt.Sprintf(":%d", webPort), a.Events, a.Remote, a.Touch, a.Screen, web.PageConfig{
			Title:  a.Config.Display.Title,
			Width:  a.Config.Display.Width,
			Height: a.Config.Display.Height,
		})
		g.Go(func() error { return srv.Run(ctx) })
	}
	return g.Wait()
}

// mockHexapod stands in for the robot on a mock link: it reports a slowly
// falling charge.
func (a *App) mockHexapod(ctx context.Context) error {
	t := time.NewTicker(mockDrainInterval)
	defer t.Stop()
	charge := 100
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if charge > 0 {
				charge--
			}
			a.Mock.Inject(byte(charge))
		}
	}
}

// Close releases every peripheral in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
