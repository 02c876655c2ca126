package imaging

import "errors"

// Sentinel errors for image stages.
var (
	// ErrUnreadableImage is returned when an input file cannot be opened or decoded.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrInvalidImageSize is returned when an image is too small for an operation.
	ErrInvalidImageSize = errors.New("invalid image size")

	// ErrInvalidColor is returned for color strings that are not #rgb or #rrggbb.
	ErrInvalidColor = errors.New("invalid color")
)
