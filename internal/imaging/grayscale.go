package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Grayscale converts an image to a single-channel luminance image.
//
// An *image.Gray whose bounds start at (0,0) is already in the right form and
// is returned unchanged. Every other image is converted pixel by pixel with the
// ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B, in the fixed-point form
// used by color.GrayModel). The result always has the same width and height as
// the input and bounds starting at (0,0).
//
// Images that are not opaque are flattened onto white first, so transparent
// areas read as bright background rather than black.
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	if !isOpaque(img) {
		img = flattenOnWhite(img)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	gray := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for x := 0; x < width; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			row[x] = c.Y
		}
	}
	return gray
}

// isOpaque reports whether img is known to have no transparent pixels.
func isOpaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// flattenOnWhite composites img over an opaque white background of the same size.
func flattenOnWhite(img image.Image) image.Image {
	b := img.Bounds()
	background := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(background, img, image.Point{}, 1.0)
}
