package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/cjeanneret/HexPad/internal/app"
	"github.com/cjeanneret/HexPad/internal/bridge"
	"github.com/cjeanneret/HexPad/internal/config"
	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/logic/remote"
	"github.com/cjeanneret/HexPad/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	debugLevel := flag.Int("debug", -1, "override debug level (0-4)")
	serialPort := flag.String("port", "", "override serial device, e.g. /dev/ttyUSB0 (disables the mock link)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate and apply CLI overrides
	if err := validateCLIOverrides(*debugLevel); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, *debugLevel, *serialPort)

	// Log lines reach web clients through the same broadcaster as events
	events := web.NewStatusBroadcaster()
	if webPort.port() > 0 {
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(events)))
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Summary("HexPad remote")
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	// Optional MQTT mirror; the remote works without the broker
	var pub *bridge.Publisher
	if cfg.MQTT.Broker != "" {
		client, disconnect, err := bridge.Connect(cfg.MQTT)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			defer disconnect()
			pub = bridge.NewPublisher(client, cfg.MQTT.Topic)
			debug.Value("MQTT topic", cfg.MQTT.Topic)
		}
	}

	a, err := app.New(cfg, events, notifierOrNil(pub))
	if err != nil {
		log.Fatalf("init remote failed: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("closing peripherals failed: %v", err)
		}
	}()

	if pub != nil {
		if err := pub.SubscribeBrightness(a.Remote); err != nil {
			log.Printf("mqtt brightness control disabled: %v", err)
		}
	}

	debug.Section("Running")
	if port := webPort.port(); port > 0 {
		debug.Info("Web interface on http://localhost:%d/", port)
	}
	if err := a.Run(ctx, webPort.port()); err != nil {
		log.Printf("remote stopped: %v", err)
	}
}

// notifierOrNil keeps a nil publisher from becoming a non-nil interface.
func notifierOrNil(p *bridge.Publisher) remote.Notifier {
	if p == nil {
		return nil
	}
	return p
}

// validateCLIOverrides checks the CLI overrides. -1 means "use config default".
func validateCLIOverrides(debugLevel int) error {
	if debugLevel != -1 && (debugLevel < 0 || debugLevel > 4) {
		return fmt.Errorf("debug must be between 0 and 4, got %d", debugLevel)
	}
	return nil
}

// applyOverrides mutates cfg with the CLI overrides. A serial device turns
// the mock link off.
func applyOverrides(cfg *config.Config, debugLevel int, serialPort string) {
	if debugLevel >= 0 {
		cfg.Defaults.DebugLevel = debugLevel
	}
	if serialPort != "" {
		cfg.Link.Port = serialPort
		cfg.Link.Mock = false
	}
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
