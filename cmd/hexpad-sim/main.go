// Command hexpad-sim runs the remote in a desktop window. The mouse is the
// touch panel, WASD is the left stick and the arrow keys are the right
// stick. Frames go to the mock link unless -port names a serial device.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/cjeanneret/HexPad/internal/app"
	"github.com/cjeanneret/HexPad/internal/config"
	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/hw/adc"
	"github.com/cjeanneret/HexPad/internal/hw/display"
	"github.com/cjeanneret/HexPad/internal/sim"
)

type game struct {
	screen *display.Framebuffer
	driver *sim.Driver
	w, h   int
	img    *ebiten.Image
	done   <-chan struct{}
}

func (g *game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	in := sim.Input{
		LeftUp:     ebiten.IsKeyPressed(ebiten.KeyW),
		LeftDown:   ebiten.IsKeyPressed(ebiten.KeyS),
		LeftLeft:   ebiten.IsKeyPressed(ebiten.KeyA),
		LeftRight:  ebiten.IsKeyPressed(ebiten.KeyD),
		RightUp:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		RightDown:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		RightLeft:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		RightRight: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		in.Pointer = true
		in.X, in.Y = ebiten.CursorPosition()
	} else if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		in.Pointer = true
		in.X, in.Y = ebiten.TouchPosition(ids[0])
	}
	if in.Pointer && (in.X < 0 || in.Y < 0 || in.X >= g.w || in.Y >= g.h) {
		in.Pointer = false
	}
	g.driver.Apply(in)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.w, g.h)
	}
	g.img.WritePixels(g.screen.RGBA())
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}

func main() {
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	serialPort := flag.String("port", "", "serial device to drive a real hexapod (default: mock link)")
	webPort := flag.Int("web", 0, "also serve the web page on this port (0 = off)")
	scale := flag.Int("scale", 2, "window scale factor")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}
	// The simulator supplies touch and sticks itself.
	cfg.Touch.Source = "virtual"
	cfg.ADC.Source = "fixed"
	cfg.Display.FramebufDev = ""
	cfg.Defaults.MockGPIO = true
	if *serialPort != "" {
		cfg.Link.Port = *serialPort
		cfg.Link.Mock = false
	}

	debug.Init(cfg.Defaults.DebugLevel)
	debug.Summary("HexPad simulator")

	a, err := app.New(cfg, nil, nil)
	if err != nil {
		log.Fatalf("init remote failed: %v", err)
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- a.Run(ctx, *webPort) }()

	var sticks sim.StickSetter
	if a.Sticks != nil {
		sticks = a.Sticks
	}
	in := adc.Inputs{
		Battery: cfg.ADC.Battery,
		LeftX:   cfg.ADC.LeftX,
		LeftY:   cfg.ADC.LeftY,
		RightX:  cfg.ADC.RightX,
		RightY:  cfg.ADC.RightY,
	}
	g := &game{
		screen: a.Screen,
		driver: sim.NewDriver(a.Touch, sticks, in, uint16(cfg.ADC.FixedStick)),
		w:      cfg.Display.Width,
		h:      cfg.Display.Height,
		done:   ctx.Done(),
	}

	ebiten.SetWindowTitle(cfg.Display.Title + " (HexPad simulator)")
	if *scale < 1 {
		*scale = 1
	}
	ebiten.SetWindowSize(g.w*(*scale), g.h*(*scale))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Printf("window: %v", err)
	}

	cancel()
	if err := <-runErr; err != nil {
		log.Printf("remote stopped: %v", err)
	}
}
