package display

import "image/color"

// Colour is a 16-bit RGB565 pixel value as used by the panel controller.
type Colour uint16

// Palette used by the remote's UI.
const (
	Black  Colour = 0
	Red    Colour = 63488
	Green  Colour = 2016
	Blue   Colour = 31
	White  Colour = 65535
	Purple Colour = 61727
	Yellow Colour = 65504
	Orange Colour = 0b1111110000000000 // R31 G32 B0
	Cyan   Colour = 2047
	DGray  Colour = 0b0011100011100111
	LGray  Colour = 31727
)

// RGBA expands the colour to 8 bits per channel, replicating the high
// bits so that FromRGBA(c.RGBA()) == c.
func (c Colour) RGBA() color.RGBA {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return color.RGBA{
		R: r5<<3 | r5>>2,
		G: g6<<2 | g6>>4,
		B: b5<<3 | b5>>2,
		A: 0xff,
	}
}

// FromRGBA packs an 8-bit colour into RGB565.
func FromRGBA(c color.RGBA) Colour {
	return Colour(uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3))
}
