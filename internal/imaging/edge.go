package imaging

import (
	"image"
	"math"
)

// Default hysteresis thresholds for EdgeMask, on the 0-255 gradient scale.
const (
	DefaultLowThreshold  = 50
	DefaultHighThreshold = 150
)

// EdgeMask performs Canny edge detection on a luminance image.
//
// The result is a grayscale image of the same size, with bounds starting at
// (0,0), where edge pixels are 255 and everything else is 0.
//
// Parameters:
//   - gray: Source luminance image (see Grayscale).
//   - low: Weak-edge threshold (0-255). Gradients at or below it are discarded.
//   - high: Strong-edge threshold (0-255). Gradients above it are always kept.
//     If low > high the two are swapped.
//
// # Algorithm
//
//  1. Normalize luminance to 0-1
//
//  2. Gaussian blur: 5x5 kernel to reduce noise
//
//  3. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  4. Non-maximum suppression: Thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  5. Hysteresis thresholding:
//     - Pixels above high are strong edges (always kept)
//     - Pixels above low are weak edges, kept only when a chain of
//     8-connected weak pixels links them to a strong edge
//     - Everything else is discarded
//
// A uniform image has zero gradient everywhere and yields an all-zero mask.
func EdgeMask(gray *image.Gray, low, high int) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mask := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return mask
	}
	if low > high {
		low, high = high, low
	}

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(gray.Pix[off+x]) / 255.0
		}
	}

	blurred := gaussianBlur(lum, width, height)
	magnitude, direction := sobel(blurred, width, height)
	suppressed := nonMaxSuppress(magnitude, direction, width, height)
	hysteresis(mask.Pix, suppressed, width, height,
		float64(low)/255.0, float64(high)/255.0)

	return mask
}

// sobel computes gradient magnitude and direction for every pixel.
// Border pixels use clamped (replicated) edge values.
func sobel(img []float64, width, height int) (magnitude, direction []float64) {
	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude = make([]float64, width*height)
	direction = make([]float64, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -1; kx <= 1; kx++ {
					px := clamp(x+kx, 0, width-1)
					v := img[py*width+px]
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y*width+x] = math.Sqrt(gx*gx + gy*gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// nonMaxSuppress keeps only pixels that are local maxima along their gradient
// direction. Border pixels are always suppressed.
func nonMaxSuppress(magnitude, direction []float64, width, height int) []float64 {
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			angle := direction[i]
			mag := magnitude[i]
			if mag == 0 {
				continue
			}

			// Determine neighbors to compare based on gradient direction
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = magnitude[i-1]
				n2 = magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = magnitude[i-width-1]
				n2 = magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = magnitude[i-width]
				n2 = magnitude[i+width]
			default:
				n1 = magnitude[i-width+1]
				n2 = magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}
	return suppressed
}

// hysteresis marks strong pixels in mask and grows them through 8-connected
// weak pixels with an explicit stack.
func hysteresis(mask []uint8, suppressed []float64, width, height int, lowThresh, highThresh float64) {
	stack := make([]int, 0, 256)
	for i, v := range suppressed {
		if v > highThresh {
			mask[i] = 255
			stack = append(stack, i)
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width

		for dy := -1; dy <= 1; dy++ {
			ny := y + dy
			if ny < 0 || ny >= height {
				continue
			}
			for dx := -1; dx <= 1; dx++ {
				nx := x + dx
				if (dx == 0 && dy == 0) || nx < 0 || nx >= width {
					continue
				}
				n := ny*width + nx
				if mask[n] == 0 && suppressed[n] > lowThresh {
					mask[n] = 255
					stack = append(stack, n)
				}
			}
		}
	}
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img []float64, width, height int) []float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -2; kx <= 2; kx++ {
					px := clamp(x+kx, 0, width-1)
					sum += img[py*width+px] * kernel[ky+2][kx+2]
				}
			}
			result[y*width+x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
