package drawing

import (
	"errors"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// ErrTooFewPoints is returned by NewPolyline when fewer than two points are given.
var ErrTooFewPoints = errors.New("polyline needs at least 2 points")

// Kind identifies the concrete type of a Primitive.
type Kind int

const (
	KindPolyline Kind = iota
	KindDot
)

func (k Kind) String() string {
	switch k {
	case KindPolyline:
		return "polyline"
	case KindDot:
		return "dot"
	}
	return "unknown"
}

// Primitive is one drawable element on a Canvas. The only implementations are
// Polyline and Dot.
type Primitive interface {
	Kind() Kind
	// Bounds returns the pixel rectangle the primitive may touch.
	Bounds() image.Rectangle
	draw(dc *gg.Context)
}

// Polyline is an open chain of straight segments between consecutive points.
//
// Smooth records that the line was meant to be drawn smoothed. The compositor
// always renders straight segments, so it carries no rendering effect.
type Polyline struct {
	Points []image.Point `json:"points"`
	Color  imaging.Color `json:"color"`
	Width  float64       `json:"width"`
	Smooth bool          `json:"smooth"`
}

// NewPolyline copies points into a new Polyline.
func NewPolyline(points []image.Point, c imaging.Color, width float64, smooth bool) (*Polyline, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	return &Polyline{
		Points: append([]image.Point(nil), points...),
		Color:  c,
		Width:  width,
		Smooth: smooth,
	}, nil
}

func (p *Polyline) Kind() Kind { return KindPolyline }

func (p *Polyline) Bounds() image.Rectangle {
	if len(p.Points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: p.Points[0], Max: p.Points[0]}
	for _, pt := range p.Points[1:] {
		r.Min.X = min(r.Min.X, pt.X)
		r.Min.Y = min(r.Min.Y, pt.Y)
		r.Max.X = max(r.Max.X, pt.X)
		r.Max.Y = max(r.Max.Y, pt.Y)
	}
	pad := int(math.Ceil(p.Width / 2))
	return image.Rect(r.Min.X-pad, r.Min.Y-pad, r.Max.X+pad+1, r.Max.Y+pad+1)
}

func (p *Polyline) draw(dc *gg.Context) {
	dc.SetColor(p.Color)
	dc.SetLineWidth(p.Width)
	dc.MoveTo(pixelCenter(p.Points[0]))
	for _, pt := range p.Points[1:] {
		dc.LineTo(pixelCenter(pt))
	}
	dc.Stroke()
}

// Dot is a filled circle.
type Dot struct {
	Center image.Point   `json:"center"`
	Radius int           `json:"radius"`
	Color  imaging.Color `json:"color"`
}

// NewDot creates a Dot, rounding radius up to a whole pixel and to at least 1.
func NewDot(center image.Point, radius float64, c imaging.Color) *Dot {
	r := int(math.Ceil(radius))
	if r < 1 {
		r = 1
	}
	return &Dot{Center: center, Radius: r, Color: c}
}

func (d *Dot) Kind() Kind { return KindDot }

// Bounds is the circle's bounding box, Center ± Radius.
func (d *Dot) Bounds() image.Rectangle {
	return image.Rect(d.Center.X-d.Radius, d.Center.Y-d.Radius, d.Center.X+d.Radius+1, d.Center.Y+d.Radius+1)
}

func (d *Dot) draw(dc *gg.Context) {
	x, y := pixelCenter(d.Center)
	dc.SetColor(d.Color)
	dc.DrawCircle(x, y, float64(d.Radius))
	dc.Fill()
}

// pixelCenter maps an integer pixel coordinate to the center of that pixel.
func pixelCenter(p image.Point) (float64, float64) {
	return float64(p.X) + 0.5, float64(p.Y) + 0.5
}
