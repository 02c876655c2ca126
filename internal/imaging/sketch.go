package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// DefaultSketchKernel is the Gaussian kernel size used by the pencil-sketch filter.
const DefaultSketchKernel = 21

// Sketch renders img as a pencil sketch on a white background.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - kernel: Blur kernel size in pixels. Values <= 0 select
//     DefaultSketchKernel. See SketchKernel for how the size is adjusted.
//
// Returns:
//   - *image.Gray: The sketch, same size as img, bounds starting at (0,0).
//   - error: ErrInvalidImageSize if img has zero width or height.
//
// # Algorithm
//
//  1. Grayscale conversion (see Grayscale)
//  2. Invert: 255 - value per pixel
//  3. Gaussian blur of the inverted image. The kernel size k maps to a sigma
//     of 0.3*((k-1)/2 - 1) + 0.8
//  4. Color dodge: out = gray*256 / (255 - blurred), integer division,
//     clamped to 255. A zero divisor produces 0
//
// Flat regions come out white and edges in the source become dark strokes. A
// uniform non-black image maps to solid white, and sketching a sketch of a
// uniform image changes nothing.
func Sketch(img image.Image, kernel int) (*image.Gray, error) {
	gray := Grayscale(img)
	width, height := gray.Rect.Dx(), gray.Rect.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d image cannot be sketched", ErrInvalidImageSize, width, height)
	}

	k := SketchKernel(kernel, width, height)
	inverted := effect.Invert(gray)

	var blurred *image.NRGBA
	if k > 1 {
		blurred = imaging.Blur(inverted, kernelSigma(k))
	} else {
		blurred = imaging.Clone(inverted)
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := int(gray.Pix[y*gray.Stride+x])
			b := int(blurred.Pix[y*blurred.Stride+x*4])
			out.Pix[y*out.Stride+x] = colorDodge(g, b)
		}
	}
	return out, nil
}

// SketchKernel returns the blur kernel size Sketch uses for a width×height image.
//
// The requested size is normalized to an odd number (even sizes round down,
// non-positive sizes become DefaultSketchKernel) and then clamped to the
// largest odd size that fits the smaller image dimension. The result is at
// least 1, which disables blurring.
func SketchKernel(requested, width, height int) int {
	k := requested
	if k <= 0 {
		k = DefaultSketchKernel
	}
	if k%2 == 0 {
		k--
	}

	limit := min(width, height)
	if limit%2 == 0 {
		limit--
	}
	if k > limit {
		k = limit
	}
	if k < 1 {
		k = 1
	}
	return k
}

// kernelSigma derives the Gaussian standard deviation for a k×k kernel.
func kernelSigma(k int) float64 {
	return 0.3*(float64(k-1)*0.5-1) + 0.8
}

// colorDodge blends gray against the blurred inverse.
func colorDodge(gray, blurredInverse int) uint8 {
	denom := 255 - blurredInverse
	if denom <= 0 {
		return 0
	}
	v := gray * 256 / denom
	if v > 255 {
		return 255
	}
	return uint8(v)
}
