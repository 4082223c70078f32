package geometry

// AxisScale maps a raw converter reading onto a pixel axis.
// RawMin maps to pixel 0 and RawMax to pixel Pixels-1. Swapping the two
// flips the axis, which covers panels mounted upside down.
type AxisScale struct {
	RawMin int
	RawMax int
	Pixels int
}

// ToPixel converts a raw reading. Readings outside the raw range are
// clamped to the panel edge.
func (a AxisScale) ToPixel(raw int) int {
	span := a.RawMax - a.RawMin
	if span == 0 || a.Pixels <= 0 {
		return 0
	}
	p := (raw - a.RawMin) * (a.Pixels - 1) / span
	if p < 0 {
		return 0
	}
	if p > a.Pixels-1 {
		return a.Pixels - 1
	}
	return p
}
