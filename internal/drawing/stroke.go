package drawing

import (
	"image"

	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// StrokeRecorder turns pointer events into freehand primitives on a Canvas.
//
// Down places a round dab the size of the brush. Every Move draws a segment
// from the previous position plus a dab at the new position so consecutive
// segments join without gaps. Up ends the stroke.
type StrokeRecorder struct {
	canvas *Canvas
	active bool
	last   image.Point
}

// NewStrokeRecorder returns a recorder drawing onto canvas.
func NewStrokeRecorder(canvas *Canvas) *StrokeRecorder {
	return &StrokeRecorder{canvas: canvas}
}

// Active reports whether a stroke is in progress.
func (r *StrokeRecorder) Active() bool {
	return r.active
}

// Down starts a stroke at p.
func (r *StrokeRecorder) Down(p image.Point, c imaging.Color, brush int) {
	r.active = true
	r.last = p
	r.canvas.Add(NewDot(p, float64(brush)/2, c))
}

// Move extends the current stroke to p. It reports false, and draws nothing,
// when no stroke is in progress.
func (r *StrokeRecorder) Move(p image.Point, c imaging.Color, brush int) bool {
	if !r.active {
		return false
	}
	segment, err := NewPolyline([]image.Point{r.last, p}, c, float64(brush), true)
	if err != nil {
		return false
	}
	r.canvas.Add(segment)
	r.canvas.Add(NewDot(p, float64(brush)/2, c))
	r.last = p
	return true
}

// Up ends the current stroke.
func (r *StrokeRecorder) Up() {
	r.active = false
}
