package gpio

import (
	"fmt"

	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// pwmClockHz is the PWM clock handed to rpio. With a 256 step cycle the
// backlight runs at roughly 37 kHz, well above audible coil whine.
const pwmClockHz = 9600000

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pins map[int]rpio.Pin
}

// NewRPiRealDriver creates a real GPIO driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
func NewRPiRealDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	debug.Verbose("GPIO memory mapped successfully")

	return &RPiDriver{
		pins: make(map[int]rpio.Pin),
	}, nil
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)

	p := rpio.Pin(pin)
	r.pins[pin] = p

	switch mode {
	case Output:
		p.Output()
	case PWM:
		// Only BCM 12, 13, 18 and 19 have a hardware PWM function.
		switch pin {
		case 12, 13, 18, 19:
		default:
			return fmt.Errorf("pin %d has no hardware PWM", pin)
		}
		p.Mode(rpio.Pwm)
		p.Freq(pwmClockHz)
	default:
		return fmt.Errorf("unknown pin mode: %d", mode)
	}

	return nil
}

func (r *RPiDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)

	p, ok := r.pins[pin]
	if !ok {
		// Pin not setup yet, setup as output
		if err := r.SetupPin(pin, Output); err != nil {
			return err
		}
		p = r.pins[pin]
	}

	if level == High {
		p.High()
	} else {
		p.Low()
	}

	return nil
}

func (r *RPiDriver) SetPWM(pin int, duty, cycle uint32) error {
	debug.GPIO("SetPWM", pin, debug.Fmt("%d/%d", duty, cycle))

	p, ok := r.pins[pin]
	if !ok {
		if err := r.SetupPin(pin, PWM); err != nil {
			return err
		}
		p = r.pins[pin]
	}
	if duty > cycle {
		duty = cycle
	}
	p.DutyCycle(duty, cycle)
	return nil
}

func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	// Reset all pins to input (safe state)
	for pin, p := range r.pins {
		debug.Verbose("Resetting pin %d to input", pin)
		p.Input()
	}

	return rpio.Close()
}
