package backlight

import (
	"errors"

	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/hw/gpio"
)

// Brightness is inverted: 0 is full bright. 254 is the darkest night
// setting and 255 is off; both leave the backlight dark.
const (
	FullBright = 0
	NightDark  = 254
	Off        = 255
)

// cycle is the PWM period in counts, matching an 8-bit timer.
const cycle = 256

// Backlight drives the panel backlight through a hardware PWM pin. On a
// pin without PWM it falls back to switching the backlight on or off.
type Backlight struct {
	gpio     gpio.Driver
	pin      int
	switched bool
	applied  int
}

// New sets up the PWM pin, or the pin as a plain output when it has no
// PWM function. The backlight stays dark until the first Apply.
func New(g gpio.Driver, pin int) (*Backlight, error) {
	b := &Backlight{gpio: g, pin: pin, applied: -1}
	pwmErr := g.SetupPin(pin, gpio.PWM)
	if pwmErr == nil {
		return b, nil
	}
	if err := g.SetupPin(pin, gpio.Output); err != nil {
		return nil, errors.Join(pwmErr, err)
	}
	debug.Info("Backlight pin %d has no PWM (%v), dimming disabled", pin, pwmErr)
	b.switched = true
	return b, nil
}

// Duty converts an inverted brightness into on-counts out of 256.
func Duty(brightness int) uint32 {
	if brightness >= NightDark {
		return 0
	}
	if brightness < 0 {
		brightness = 0
	}
	return uint32(cycle - brightness)
}

// Apply updates the PWM duty. Repeated calls with the same brightness
// do not touch the hardware.
func (b *Backlight) Apply(brightness int) error {
	if brightness == b.applied {
		return nil
	}
	duty := Duty(brightness)
	debug.Trace("Backlight: brightness=%d duty=%d/%d", brightness, duty, cycle)
	var err error
	if b.switched {
		err = b.gpio.WritePin(b.pin, gpio.Level(duty > 0))
	} else {
		err = b.gpio.SetPWM(b.pin, duty, cycle)
	}
	if err != nil {
		return err
	}
	b.applied = brightness
	return nil
}

// Close turns the backlight off.
func (b *Backlight) Close() error {
	if b.switched {
		return b.gpio.WritePin(b.pin, gpio.Low)
	}
	return b.gpio.SetPWM(b.pin, 0, cycle)
}
