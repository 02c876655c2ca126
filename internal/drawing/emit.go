package drawing

import (
	"image"

	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// EdgeStrokeWidth is the stroke width of polylines emitted from traced edges.
const EdgeStrokeWidth = 1.5

// CenterOffset returns the translation that centers an image of size img on
// a canvas of size canvas: ((cw-iw)/2, (ch-ih)/2), rounded toward negative
// infinity. The offset is negative when the image is larger than the canvas.
func CenterOffset(canvas, img image.Point) image.Point {
	return image.Point{
		X: floorHalf(canvas.X - img.X),
		Y: floorHalf(canvas.Y - img.Y),
	}
}

func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}

// EmitPolylines appends one smoothed Polyline per boundary to canvas.
//
// Every point is translated by offset. Boundaries with fewer than 2 points
// are skipped. Returns the number of polylines added.
func EmitPolylines(canvas *Canvas, boundaries []imaging.Boundary, c imaging.Color, offset image.Point, width float64) int {
	n := 0
	points := make([]image.Point, 0, 64)
	for _, b := range boundaries {
		points = points[:0]
		for _, p := range b {
			points = append(points, p.Add(offset))
		}
		line, err := NewPolyline(points, c, width, true)
		if err != nil {
			continue
		}
		canvas.Add(line)
		n++
	}
	return n
}
