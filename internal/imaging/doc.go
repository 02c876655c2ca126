// Package imaging provides the raster stages of the line-art pipeline.
//
// This package turns an arbitrary input photo into the pieces the drawing
// package renders: a single-channel luminance image, a binary edge mask, and
// the ordered boundary point sequences traced from that mask. It also
// implements the pencil-sketch filter and the image loader that fits input
// files onto the drawing canvas.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Luminance images produced here always start at (0,0), so boundary
//     points can be used directly as offsets into the source image.
//
// # Pipeline Stages
//
//	image.Image --Grayscale--> *image.Gray --EdgeMask--> *image.Gray (0/255)
//	                                       --TraceBoundaries--> []Boundary
//	image.Image --Sketch--> *image.Gray
//
// Every stage returns a new image and never modifies its input. The one
// exception is Grayscale, which returns its argument unchanged when it is
// already an origin-based *image.Gray.
//
// # Color Representation
//
// Color is an 8-bit RGB triple that formats as "#rrggbb". It implements
// color.Color, so it can be handed straight to any image/draw API, and
// encoding.TextMarshaler, so it round-trips through JSON and TOML as a hex
// string.
//
// # Error Handling
//
// Decoding failures wrap ErrUnreadableImage. The sketch filter returns
// ErrInvalidImageSize for images with no pixels. Edge extraction has no error
// path: an image without edges simply yields no boundaries.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless and
// may run concurrently on different images.
package imaging
