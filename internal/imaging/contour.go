package imaging

import (
	"image"
)

// Boundary is an ordered sequence of points describing one traced edge contour.
//
// Consecutive points are connected; the order defines how the contour is
// drawn. Boundaries are independent of each other and come back in raster
// order of their starting pixel, which carries no meaning.
type Boundary []image.Point

// ring lists the 8 neighbor offsets in clockwise order (Y grows downward),
// starting east.
var ring = [8]image.Point{
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
}

const (
	dirEast = 0
	dirWest = 4
)

// ExtractBoundaries runs EdgeMask on gray and traces the resulting mask.
//
// Boundaries with fewer than 2 points are dropped since they cannot form a
// line. An image without edges returns nil.
func ExtractBoundaries(gray *image.Gray, low, high int) []Boundary {
	return TraceBoundaries(EdgeMask(gray, low, high))
}

// TraceBoundaries follows the borders of all connected groups of nonzero
// pixels in mask.
//
// # Algorithm
//
// Border following after Suzuki and Abe (1985). The mask is scanned in raster
// order; a foreground pixel with a background pixel to its west starts an
// outer border, and a foreground pixel with background to its east starts a
// hole border. Each border is walked counterclockwise around 8-connected
// neighbors, labeling visited pixels so that every border is traced exactly
// once. All borders are returned as a flat list; nesting is not reported.
//
// # Point Reduction
//
// A traced border contains every pixel it passes through. Runs of points
// moving in the same direction (horizontal, vertical or diagonal) are reduced
// to their end points, so a straight one-pixel line becomes two points.
//
// Points are relative to the mask's bounds, so (0,0) is the top-left mask
// pixel. Boundaries with fewer than 2 points are dropped.
func TraceBoundaries(mask *image.Gray) []Boundary {
	bounds := mask.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// labels is the mask padded with a one-pixel background frame, so neighbor
	// lookups never leave the slice.
	stride := width + 2
	labels := make([]int32, stride*(height+2))
	for y := 0; y < height; y++ {
		off := mask.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		for x := 0; x < width; x++ {
			if mask.Pix[off+x] != 0 {
				labels[(y+1)*stride+x+1] = 1
			}
		}
	}

	var boundaries []Boundary
	nbd := int32(1)
	for y := 1; y <= height; y++ {
		for x := 1; x <= width; x++ {
			i := y*stride + x
			v := labels[i]
			if v == 0 {
				continue
			}

			var from int
			switch {
			case v == 1 && labels[i-1] == 0:
				from = dirWest
			case v >= 1 && labels[i+1] == 0:
				from = dirEast
			default:
				continue
			}

			nbd++
			chain := followBorder(labels, stride, i, from, nbd)
			b := compressChain(chain)
			if len(b) < 2 {
				continue
			}
			for k := range b {
				b[k] = b[k].Sub(image.Point{X: 1, Y: 1})
			}
			boundaries = append(boundaries, b)
		}
	}
	return boundaries
}

// followBorder walks one border starting at index start. from is the ring
// direction of the background pixel that triggered the border. Visited pixels
// are relabeled with nbd (or -nbd where the border touches background to the
// east). Returned points are in padded coordinates.
func followBorder(labels []int32, stride, start, from int, nbd int32) []image.Point {
	offset := func(d int) int { return ring[d].Y*stride + ring[d].X }
	point := func(i int) image.Point { return image.Point{X: i % stride, Y: i / stride} }

	// Look clockwise from the triggering background pixel for any neighbor.
	first := -1
	for k := 0; k < 8; k++ {
		d := (from + k) % 8
		if labels[start+offset(d)] != 0 {
			first = d
			break
		}
	}
	if first < 0 {
		// Isolated pixel.
		labels[start] = -nbd
		return []image.Point{point(start)}
	}

	p1 := start + offset(first)
	prevDir := first // direction from current pixel to the previous one
	cur := start
	chain := make([]image.Point, 0, 64)

	for {
		// Search counterclockwise, starting just past the previous pixel.
		eastClear := false
		next := prevDir
		for k := 1; k <= 8; k++ {
			d := (prevDir - k + 8) % 8
			if labels[cur+offset(d)] != 0 {
				next = d
				break
			}
			if d == dirEast {
				eastClear = true
			}
		}

		if eastClear {
			labels[cur] = -nbd
		} else if labels[cur] == 1 {
			labels[cur] = nbd
		}
		chain = append(chain, point(cur))

		n := cur + offset(next)
		if n == start && cur == p1 {
			return chain
		}
		prevDir = (next + 4) % 8
		cur = n
	}
}

// compressChain drops every point of a closed chain whose incoming and
// outgoing steps are identical, keeping only the points where the direction
// changes.
func compressChain(chain []image.Point) Boundary {
	n := len(chain)
	if n <= 2 {
		return Boundary(chain)
	}

	out := make(Boundary, 0, n/2+1)
	for i, p := range chain {
		prev := chain[(i+n-1)%n]
		next := chain[(i+1)%n]
		if p.Sub(prev) != next.Sub(p) {
			out = append(out, p)
		}
	}
	return out
}
