package drawing

import (
	"image"
	"image/color"
)

// Canvas accumulates primitives in paint order.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	width, height int
	prims         []Primitive
}

// NewCanvas returns an empty canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point {
	return image.Point{X: c.width, Y: c.height}
}

// Add appends p on top of everything already on the canvas. Nil is ignored.
func (c *Canvas) Add(p Primitive) {
	if p == nil {
		return
	}
	c.prims = append(c.prims, p)
}

// Primitives returns a copy of the primitive list in paint order.
func (c *Canvas) Primitives() []Primitive {
	return append([]Primitive(nil), c.prims...)
}

// Len returns the number of primitives.
func (c *Canvas) Len() int {
	return len(c.prims)
}

// Counts returns the number of polylines and dots on the canvas.
func (c *Canvas) Counts() (polylines, dots int) {
	for _, p := range c.prims {
		switch p.Kind() {
		case KindPolyline:
			polylines++
		case KindDot:
			dots++
		}
	}
	return polylines, dots
}

// Clear removes every primitive.
func (c *Canvas) Clear() {
	c.prims = nil
}

// Render composites the canvas over a white background.
func (c *Canvas) Render() *image.RGBA {
	return Composite(c.prims, c.Size(), color.White)
}
