package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxConfigFileBytes bounds the size of a config file.
const MaxConfigFileBytes = 64 * 1024

// LinkConfig describes the serial link to the hexapod.
type LinkConfig struct {
	Port        string `yaml:"port"`         // e.g., "/dev/ttyUSB0"
	BaudRate    int    `yaml:"baud_rate"`    // default 9600
	ByteGapMs   int    `yaml:"byte_gap_ms"`  // pause after each transmitted byte (ms)
	CommandChar string `yaml:"command_char"` // leading byte of joystick frames (default "c")
	Mock        bool   `yaml:"mock"`         // use an in-memory port instead of a device
}

// TimingConfig holds the rates of the periodic tasks.
type TimingConfig struct {
	TickHz         int `yaml:"tick_hz"`          // timing task rate (default 7812)
	TicksPerFrame  int `yaml:"ticks_per_frame"`  // ticks between frames (default 781, i.e. 10 Hz)
	TouchHz        int `yaml:"touch_hz"`         // touch polling rate (default 30)
	LoopIntervalMs int `yaml:"loop_interval_ms"` // main loop idle sleep (default 2)
}

// TouchConfig selects and tunes the touch source.
type TouchConfig struct {
	Source            string `yaml:"source"`   // "xpt2046" or "virtual"
	SPIPort           string `yaml:"spi_port"` // e.g., "/dev/spidev0.1"
	SpeedKHz          int    `yaml:"speed_khz"`
	PressureThreshold int    `yaml:"pressure_threshold"`
	RawMinX           int    `yaml:"raw_min_x"`
	RawMaxX           int    `yaml:"raw_max_x"`
	RawMinY           int    `yaml:"raw_min_y"`
	RawMaxY           int    `yaml:"raw_max_y"`
	DebounceTicks     int    `yaml:"debounce_ticks"` // samples before a contact counts (default 3)
}

// ADCConfig selects the analog input source and channel wiring.
type ADCConfig struct {
	Source   string `yaml:"source"`   // "mcp3008" or "fixed"
	SPIPort  string `yaml:"spi_port"` // e.g., "/dev/spidev0.0"
	SpeedKHz int    `yaml:"speed_khz"`
	Battery  int    `yaml:"battery_channel"`
	LeftX    int    `yaml:"left_x_channel"`
	LeftY    int    `yaml:"left_y_channel"`
	RightX   int    `yaml:"right_x_channel"`
	RightY   int    `yaml:"right_y_channel"`
	// Values used by the "fixed" source.
	FixedBattery int `yaml:"fixed_battery"` // default 650 (full)
	FixedStick   int `yaml:"fixed_stick"`   // default 512 (centred)
}

// BacklightConfig drives the panel backlight.
type BacklightConfig struct {
	Pin        int `yaml:"pin"`        // BCM pin with hardware PWM (12, 13, 18 or 19). 0 = not used.
	Brightness int `yaml:"brightness"` // inverted: 0 = full, 254 = night dark, 255 = off
}

// DisplayConfig describes the panel.
type DisplayConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Title       string `yaml:"title"`
	FramebufDev string `yaml:"framebuffer_device"` // e.g., "/dev/fb1". Empty = memory only.
}

// MQTTConfig enables the status mirror. Empty broker = disabled.
type MQTTConfig struct {
	Broker   string `yaml:"broker"` // e.g., "tcp://localhost:1883"
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	Link      LinkConfig      `yaml:"link"`
	Timing    TimingConfig    `yaml:"timing"`
	Touch     TouchConfig     `yaml:"touch"`
	ADC       ADCConfig       `yaml:"adc"`
	Backlight BacklightConfig `yaml:"backlight"`
	Display   DisplayConfig   `yaml:"display"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

// ValidateConfigPath checks that path names a .yaml file directly inside a
// configs/ directory, without traversal.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if strings.Contains(filepath.ToSlash(path), "..") {
		return fmt.Errorf("config path %q must not contain '..'", path)
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file exceeds %d bytes", MaxConfigFileBytes)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration for a desktop run: mock link, virtual
// touch, fixed analog inputs.
func Default() *Config {
	cfg := &Config{
		Link:     LinkConfig{Mock: true},
		Touch:    TouchConfig{Source: "virtual"},
		ADC:      ADCConfig{Source: "fixed"},
		Defaults: DefaultsConfig{MockGPIO: true},
	}
	_ = cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() error {
	// Link
	if !c.Link.Mock && c.Link.Port == "" {
		return fmt.Errorf("link.port is required unless link.mock is set")
	}
	if c.Link.BaudRate <= 0 {
		c.Link.BaudRate = 9600
	}
	if c.Link.ByteGapMs <= 0 {
		c.Link.ByteGapMs = 2
	}
	if c.Link.CommandChar == "" {
		c.Link.CommandChar = "c"
	}
	if len(c.Link.CommandChar) != 1 {
		return fmt.Errorf("link.command_char must be a single byte, got %q", c.Link.CommandChar)
	}

	// Timing
	if c.Timing.TickHz <= 0 {
		c.Timing.TickHz = 7812
	}
	if c.Timing.TicksPerFrame <= 0 {
		c.Timing.TicksPerFrame = 781
	}
	if c.Timing.TouchHz <= 0 {
		c.Timing.TouchHz = 30
	}
	if c.Timing.LoopIntervalMs <= 0 {
		c.Timing.LoopIntervalMs = 2
	}
	if c.Timing.TickHz > 100000 {
		return fmt.Errorf("timing.tick_hz must be <= 100000, got %d", c.Timing.TickHz)
	}
	if c.Timing.TouchHz > 1000 {
		return fmt.Errorf("timing.touch_hz must be <= 1000, got %d", c.Timing.TouchHz)
	}

	// Touch
	switch c.Touch.Source {
	case "":
		c.Touch.Source = "virtual"
	case "virtual", "xpt2046":
	default:
		return fmt.Errorf("touch.source must be \"xpt2046\" or \"virtual\", got %q", c.Touch.Source)
	}
	if c.Touch.SpeedKHz <= 0 {
		c.Touch.SpeedKHz = 2000
	}
	if c.Touch.PressureThreshold <= 0 {
		c.Touch.PressureThreshold = 400
	}
	if c.Touch.RawMaxX == 0 && c.Touch.RawMinX == 0 {
		c.Touch.RawMinX, c.Touch.RawMaxX = 200, 3900
	}
	if c.Touch.RawMaxY == 0 && c.Touch.RawMinY == 0 {
		c.Touch.RawMinY, c.Touch.RawMaxY = 300, 3800
	}
	if c.Touch.DebounceTicks <= 0 {
		c.Touch.DebounceTicks = 3
	}

	// ADC
	switch c.ADC.Source {
	case "":
		c.ADC.Source = "fixed"
	case "fixed", "mcp3008":
	default:
		return fmt.Errorf("adc.source must be \"mcp3008\" or \"fixed\", got %q", c.ADC.Source)
	}
	if c.ADC.SpeedKHz <= 0 {
		c.ADC.SpeedKHz = 1000
	}
	if c.ADC.LeftX == 0 && c.ADC.LeftY == 0 && c.ADC.RightX == 0 && c.ADC.RightY == 0 {
		c.ADC.Battery, c.ADC.LeftX, c.ADC.LeftY, c.ADC.RightX, c.ADC.RightY = 0, 1, 2, 3, 4
	}
	for name, ch := range map[string]int{
		"battery_channel": c.ADC.Battery, "left_x_channel": c.ADC.LeftX, "left_y_channel": c.ADC.LeftY,
		"right_x_channel": c.ADC.RightX, "right_y_channel": c.ADC.RightY,
	} {
		if ch < 0 || ch > 7 {
			return fmt.Errorf("adc.%s must be between 0 and 7, got %d", name, ch)
		}
	}
	if c.ADC.FixedBattery <= 0 {
		c.ADC.FixedBattery = 650
	}
	if c.ADC.FixedStick <= 0 {
		c.ADC.FixedStick = 512
	}

	// Backlight
	if c.Backlight.Brightness < 0 || c.Backlight.Brightness > 255 {
		return fmt.Errorf("backlight.brightness must be between 0 and 255, got %d", c.Backlight.Brightness)
	}

	// Display
	if c.Display.Width <= 0 {
		c.Display.Width = 480
	}
	if c.Display.Height <= 0 {
		c.Display.Height = 320
	}
	if c.Display.Width < 320 || c.Display.Height < 240 {
		return fmt.Errorf("display must be at least 320x240, got %dx%d", c.Display.Width, c.Display.Height)
	}
	if c.Display.Title == "" {
		c.Display.Title = "Hexapod"
	}

	// MQTT
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "hexpad"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "hexpad"
	}

	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	return nil
}

// CommandByte returns the leading byte of joystick frames.
func (c *Config) CommandByte() byte {
	return c.Link.CommandChar[0]
}

// ByteGap returns the pause after each transmitted byte.
func (c *Config) ByteGap() time.Duration {
	return time.Duration(c.Link.ByteGapMs) * time.Millisecond
}

// TickPeriod returns the period of the timing task.
func (c *Config) TickPeriod() time.Duration {
	return time.Second / time.Duration(c.Timing.TickHz)
}

// TouchPeriod returns the period of the touch polling task.
func (c *Config) TouchPeriod() time.Duration {
	return time.Second / time.Duration(c.Timing.TouchHz)
}

// LoopInterval returns the main loop idle sleep.
func (c *Config) LoopInterval() time.Duration {
	return time.Duration(c.Timing.LoopIntervalMs) * time.Millisecond
}

// FrameRateHz returns the resulting telemetry frame rate.
func (c *Config) FrameRateHz() float64 {
	return float64(c.Timing.TickHz) / float64(c.Timing.TicksPerFrame)
}
