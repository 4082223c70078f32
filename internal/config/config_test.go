package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath_Valid(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "default.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateConfigPath(path); err != nil {
		t.Errorf("expected valid path, got error: %v", err)
	}
	if err := ValidateConfigPath("configs/default.yaml"); err != nil {
		t.Errorf("expected valid relative path, got error: %v", err)
	}
}

func TestValidateConfigPath_Invalid(t *testing.T) {
	cases := []string{
		"",
		"../../etc/passwd",
		"configs/../../../etc/shadow",
		"configs/default.json",
		"configs/default.yml",
		"configs/default",
		"other/default.yaml",
		"default.yaml",
		"/tmp/default.yaml",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_VeryLongPath(t *testing.T) {
	long := "configs/" + strings.Repeat("a", 1000) + ".yaml"
	// Must not panic.
	_ = ValidateConfigPath(long)
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
link:
  port: "/dev/ttyUSB0"
  baud_rate: 19200
  byte_gap_ms: 3
  command_char: "j"
timing:
  tick_hz: 7812
  ticks_per_frame: 781
  touch_hz: 30
touch:
  source: "xpt2046"
  spi_port: "/dev/spidev0.1"
  pressure_threshold: 500
adc:
  source: "mcp3008"
  battery_channel: 7
  left_x_channel: 0
  left_y_channel: 1
  right_x_channel: 2
  right_y_channel: 3
backlight:
  pin: 18
  brightness: 40
display:
  width: 480
  height: 320
  title: "Test"
mqtt:
  broker: "tcp://localhost:1883"
defaults:
  debug_level: 2
  mock_gpio: true
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Link.Port != "/dev/ttyUSB0" {
		t.Errorf("link.port = %q, want %q", cfg.Link.Port, "/dev/ttyUSB0")
	}
	if cfg.Link.BaudRate != 19200 {
		t.Errorf("link.baud_rate = %d, want 19200", cfg.Link.BaudRate)
	}
	if cfg.CommandByte() != 'j' {
		t.Errorf("command byte = %q, want 'j'", cfg.CommandByte())
	}
	if cfg.Touch.Source != "xpt2046" || cfg.Touch.PressureThreshold != 500 {
		t.Errorf("touch = %+v", cfg.Touch)
	}
	if cfg.ADC.Battery != 7 || cfg.ADC.LeftX != 0 || cfg.ADC.RightY != 3 {
		t.Errorf("adc channels = %+v", cfg.ADC)
	}
	if cfg.Backlight.Brightness != 40 {
		t.Errorf("backlight.brightness = %d, want 40", cfg.Backlight.Brightness)
	}
	if cfg.Display.Title != "Test" {
		t.Errorf("display.title = %q, want %q", cfg.Display.Title, "Test")
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" || cfg.MQTT.Topic != "hexpad" {
		t.Errorf("mqtt = %+v", cfg.MQTT)
	}
	if cfg.Defaults.DebugLevel != 2 {
		t.Errorf("debug_level = %d, want 2", cfg.Defaults.DebugLevel)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	yaml := `
link:
  mock: true
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"baud_rate", cfg.Link.BaudRate, 9600},
		{"byte_gap_ms", cfg.Link.ByteGapMs, 2},
		{"tick_hz", cfg.Timing.TickHz, 7812},
		{"ticks_per_frame", cfg.Timing.TicksPerFrame, 781},
		{"touch_hz", cfg.Timing.TouchHz, 30},
		{"loop_interval_ms", cfg.Timing.LoopIntervalMs, 2},
		{"debounce_ticks", cfg.Touch.DebounceTicks, 3},
		{"pressure_threshold", cfg.Touch.PressureThreshold, 400},
		{"left_x_channel", cfg.ADC.LeftX, 1},
		{"right_y_channel", cfg.ADC.RightY, 4},
		{"fixed_battery", cfg.ADC.FixedBattery, 650},
		{"fixed_stick", cfg.ADC.FixedStick, 512},
		{"width", cfg.Display.Width, 480},
		{"height", cfg.Display.Height, 320},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s default = %d, want %d", c.name, c.got, c.want)
		}
	}
	if cfg.Touch.Source != "virtual" || cfg.ADC.Source != "fixed" {
		t.Errorf("sources = %q/%q, want virtual/fixed", cfg.Touch.Source, cfg.ADC.Source)
	}
	if cfg.CommandByte() != 'c' {
		t.Errorf("command byte = %q, want 'c'", cfg.CommandByte())
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"missing port":       "link:\n  port: \"\"\n",
		"long command char":  "link:\n  mock: true\n  command_char: \"cc\"\n",
		"bad touch source":   "link:\n  mock: true\ntouch:\n  source: \"mouse\"\n",
		"bad adc source":     "link:\n  mock: true\nadc:\n  source: \"ads1115\"\n",
		"channel too high":   "link:\n  mock: true\nadc:\n  left_x_channel: 9\n",
		"brightness too big": "link:\n  mock: true\nbacklight:\n  brightness: 300\n",
		"small display":      "link:\n  mock: true\ndisplay:\n  width: 128\n  height: 64\n",
		"tick rate too high": "link:\n  mock: true\ntiming:\n  tick_hz: 1000000\n",
		"debug level":        "link:\n  mock: true\ndefaults:\n  debug_level: 9\n",
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, yaml)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "big.yaml")
	data := make([]byte, MaxConfigFileBytes+1)
	for i := range data {
		data[i] = '#'
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for oversized config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{{{invalid yaml!!!!")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeConfig(t, "")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for empty config (link.port missing), got nil")
	}
}

func TestLoad_UnknownFields(t *testing.T) {
	yaml := `
link:
  mock: true
unknown_section:
  foo: bar
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err != nil {
		t.Errorf("unknown fields should be ignored, got error: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "nonexistent.yaml")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func TestLoad_ShippedDefault(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "default.yaml"))
	if err != nil {
		t.Fatalf("shipped config does not load: %v", err)
	}
	if !cfg.Link.Mock || cfg.Touch.Source != "virtual" {
		t.Errorf("shipped config should run on a desktop: %+v %+v", cfg.Link, cfg.Touch)
	}
}

// ---------- Accessors ----------

func TestConfig_Durations(t *testing.T) {
	cfg := Default()
	if got := cfg.ByteGap(); got != 2*time.Millisecond {
		t.Errorf("ByteGap = %v, want 2ms", got)
	}
	if got := cfg.TickPeriod(); got != time.Second/7812 {
		t.Errorf("TickPeriod = %v, want %v", got, time.Second/7812)
	}
	if got := cfg.TouchPeriod(); got != time.Second/30 {
		t.Errorf("TouchPeriod = %v, want %v", got, time.Second/30)
	}
	if got := cfg.LoopInterval(); got != 2*time.Millisecond {
		t.Errorf("LoopInterval = %v, want 2ms", got)
	}
}

func TestConfig_FrameRateHz(t *testing.T) {
	cfg := Default()
	got := cfg.FrameRateHz()
	if got < 10.0 || got > 10.01 {
		t.Errorf("FrameRateHz = %v, want about 10", got)
	}
}

func TestDefault_IsDesktopReady(t *testing.T) {
	cfg := Default()
	if !cfg.Link.Mock || !cfg.Defaults.MockGPIO {
		t.Error("Default should use mock link and GPIO")
	}
	if cfg.Display.Title != "Hexapod" {
		t.Errorf("title = %q, want %q", cfg.Display.Title, "Hexapod")
	}
}
