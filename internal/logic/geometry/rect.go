package geometry

// Rect is an axis-aligned box in panel pixels. Both corners are inclusive,
// matching how the display controller addresses a fill window.
type Rect struct {
	X0, Y0 int
	X1, Y1 int
}

// CentredBox returns the box of a widget anchored at its horizontal centre
// cx and its top edge: [cx-width/2, cx+width/2] x [top, top+height].
func CentredBox(cx, top, width, height int) Rect {
	return Rect{
		X0: cx - width/2,
		Y0: top,
		X1: cx + width/2,
		Y1: top + height,
	}
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// Inset shrinks r by n pixels on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X0: r.X0 + n, Y0: r.Y0 + n, X1: r.X1 - n, Y1: r.Y1 - n}
}

// Width returns the number of pixel columns covered by r.
func (r Rect) Width() int {
	return r.X1 - r.X0 + 1
}

// Height returns the number of pixel rows covered by r.
func (r Rect) Height() int {
	return r.Y1 - r.Y0 + 1
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.X1 < r.X0 || r.Y1 < r.Y0
}

// Clip returns the part of r inside a w x h surface.
func (r Rect) Clip(w, h int) Rect {
	if r.X0 < 0 {
		r.X0 = 0
	}
	if r.Y0 < 0 {
		r.Y0 = 0
	}
	if r.X1 > w-1 {
		r.X1 = w - 1
	}
	if r.Y1 > h-1 {
		r.Y1 = h - 1
	}
	return r
}
