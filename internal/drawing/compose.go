package drawing

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// Composite rasterizes prims onto a new size.X×size.Y image.
//
// The image starts filled with background. Primitives are painted in slice
// order, so later ones cover earlier ones. Polylines are stroked as straight
// segments with round caps and joins; dots are filled circles. Edges are
// anti-aliased. Primitives whose Bounds miss the image entirely are skipped.
func Composite(prims []Primitive, size image.Point, background color.Color) *image.RGBA {
	im := image.NewRGBA(image.Rect(0, 0, max(size.X, 0), max(size.Y, 0)))
	if im.Rect.Empty() {
		return im
	}

	dc := gg.NewContextForRGBA(im)
	dc.SetColor(background)
	dc.Clear()
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, p := range prims {
		if !p.Bounds().Overlaps(im.Rect) {
			continue
		}
		p.draw(dc)
	}
	return im
}

// ExportPNG renders prims over white and writes the result to path.
func ExportPNG(path string, prims []Primitive, size image.Point) error {
	return imaging.SavePNG(path, Composite(prims, size, color.White))
}
