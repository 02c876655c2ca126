package drawing

import (
	"image"
	"math"

	"github.com/ironsheep/sketchdraw/internal/imaging"
)

// ShadingOptions controls the stipple pass.
type ShadingOptions struct {
	// Stride is the sampling interval in pixels along both axes.
	Stride int
	// Cutoff is the luminance at and above which nothing is drawn. Zero
	// draws nothing at all.
	Cutoff int
	// MaxRadius is the dot radius for a fully black sample.
	MaxRadius int
}

// DefaultShadingOptions returns stride 3, cutoff 200 and max radius 3.
func DefaultShadingOptions() ShadingOptions {
	return ShadingOptions{Stride: 3, Cutoff: 200, MaxRadius: 3}
}

// Shade adds a stippled shading layer for gray to canvas and returns the
// number of dots added.
//
// The image is sampled at every Stride-th pixel in both directions, starting
// at (0,0). A sample with luminance below Cutoff gets one Dot at offset plus
// the sample position. Its darkness intensity = 1 - lum/255 scales both the
// dot color (c channels multiplied by intensity and rounded) and its radius
// (round(intensity * MaxRadius), at least 1). Bright samples produce nothing,
// which keeps highlights clean.
//
// A non-positive Stride or MaxRadius, or a negative Cutoff, falls back to
// DefaultShadingOptions.
func Shade(canvas *Canvas, gray *image.Gray, c imaging.Color, offset image.Point, opts ShadingOptions) int {
	def := DefaultShadingOptions()
	if opts.Stride <= 0 {
		opts.Stride = def.Stride
	}
	if opts.Cutoff < 0 {
		opts.Cutoff = def.Cutoff
	}
	if opts.MaxRadius <= 0 {
		opts.MaxRadius = def.MaxRadius
	}

	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	n := 0
	for y := 0; y < height; y += opts.Stride {
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x += opts.Stride {
			lum := int(gray.Pix[off+x])
			if lum >= opts.Cutoff {
				continue
			}
			intensity := 1 - float64(lum)/255.0
			radius := math.Round(intensity * float64(opts.MaxRadius))
			canvas.Add(NewDot(image.Point{X: x, Y: y}.Add(offset), radius, c.Scale(intensity)))
			n++
		}
	}
	return n
}
