// Package drawing holds the vector side of the line-art pipeline: the
// primitives that make up a drawing, the canvas that accumulates them, and
// the compositor that turns them back into pixels.
//
// # Primitives
//
// A drawing is an ordered list of two primitive kinds:
//   - Polyline: connected straight segments with a color and stroke width
//   - Dot: a filled circle with a center, radius and color
//
// Order matters. The compositor paints primitives in the order they were
// added, so later primitives cover earlier ones.
//
// # Producers
//
//   - EmitPolylines converts traced edge boundaries into polylines
//   - Shade samples a luminance image on a grid and emits dots whose size and
//     darkness follow the local darkness of the image
//   - StrokeRecorder converts pointer events into freehand strokes
//
// All producers write into an explicit *Canvas passed by the caller.
//
// # Coordinates
//
// Integer coordinates address pixels; (0,0) is the top-left pixel and Y
// grows downward. Geometry is drawn through pixel centers.
//
// # Output
//
// Composite returns an *image.RGBA of the canvas size. ExportPNG writes it
// straight to disk with no temporary file, so an interrupted write can leave
// a truncated PNG.
package drawing
