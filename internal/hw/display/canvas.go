// Package display holds the pixel surfaces the remote draws on: an
// in-memory RGB565 framebuffer and a Panel that adds boxes and text on top
// of any tinygo drivers.Displayer.
package display

// Canvas is the drawing boundary used by the renderer. Box corners are
// inclusive. Text is positioned by its top-left corner; CentredText by the
// horizontal centre of its top edge.
type Canvas interface {
	Size() (w, h int)
	Fill(c Colour)
	Box(x1, y1, x2, y2 int, c Colour)
	Text(s string, x, y int, fg, bg Colour)
	CentredText(s string, cx, y int, fg, bg Colour)
	Flush() error
}
