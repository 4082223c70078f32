// Package telemetry builds the periodic command frame sent to the hexapod
// and smooths the battery readings shown on the remote.
package telemetry

import "fmt"

// FrameLen is the size of a command frame on the wire.
const FrameLen = 7

// DefaultCommand is the leading byte of a joystick frame.
const DefaultCommand byte = 'c'

// Frame is [cmd, bits, leftX, leftY, rightX, rightY, checksum]. Frames
// carry no delimiter; the receiver synchronises on byte count alone.
type Frame [FrameLen]byte

// Sticks holds the four joystick axes already reduced to 8 bits.
type Sticks struct {
	LeftX, LeftY   uint8
	RightX, RightY uint8
}

// Checksum is the 8-bit wrapping sum of the control bits and the four axes.
// The command byte is not included.
func Checksum(bits uint8, s Sticks) uint8 {
	return bits + s.LeftX + s.LeftY + s.RightX + s.RightY
}

// BuildFrame assembles a frame. It is pure.
func BuildFrame(cmd byte, bits uint8, s Sticks) Frame {
	return Frame{cmd, bits, s.LeftX, s.LeftY, s.RightX, s.RightY, Checksum(bits, s)}
}

// Valid reports whether the checksum byte matches bytes 1 to 5.
func (f Frame) Valid() bool {
	return f[6] == f[1]+f[2]+f[3]+f[4]+f[5]
}

// Bits returns the control bitfield carried by the frame.
func (f Frame) Bits() uint8 {
	return f[1]
}

// Sticks returns the joystick axes carried by the frame.
func (f Frame) Sticks() Sticks {
	return Sticks{LeftX: f[2], LeftY: f[3], RightX: f[4], RightY: f[5]}
}

func (f Frame) String() string {
	return fmt.Sprintf("cmd=%q bits=%08b lx=%d ly=%d rx=%d ry=%d sum=%d", f[0], f[1], f[2], f[3], f[4], f[5], f[6])
}

// Downsample reduces a 10-bit ADC reading to 8 bits.
func Downsample(adc uint16) uint8 {
	return uint8((adc & 0x3FF) >> 2)
}
