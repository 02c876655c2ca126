package studio

import (
	"errors"

	"github.com/ironsheep/sketchdraw/internal/history"
	"github.com/ironsheep/sketchdraw/internal/imaging"
)

var (
	// ErrNoImageLoaded is returned by operations that need a loaded image.
	ErrNoImageLoaded = errors.New("no image loaded")

	// ErrFileWrite is returned when a drawing or the history ledger cannot be
	// written. The canvas is left untouched.
	ErrFileWrite = errors.New("file write failed")
)

// Notice levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Notice is a message meant for the person at the drawing surface.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NoticeFor turns an operation error into a user-facing notice.
func NoticeFor(err error) Notice {
	switch {
	case err == nil:
		return Notice{Level: LevelInfo, Message: "OK"}
	case errors.Is(err, ErrNoImageLoaded):
		return Notice{Level: LevelWarning, Message: "Please load an image first!"}
	case errors.Is(err, imaging.ErrUnreadableImage):
		return Notice{Level: LevelError, Message: "Could not load image: " + err.Error()}
	case errors.Is(err, imaging.ErrInvalidImageSize):
		return Notice{Level: LevelError, Message: "Image is too small to convert: " + err.Error()}
	case errors.Is(err, imaging.ErrInvalidColor):
		return Notice{Level: LevelWarning, Message: "Not a valid color: " + err.Error()}
	case errors.Is(err, history.ErrRecordNotFound):
		return Notice{Level: LevelError, Message: "File not found!"}
	case errors.Is(err, ErrFileWrite):
		return Notice{Level: LevelError, Message: "Could not save: " + err.Error()}
	}
	return Notice{Level: LevelError, Message: err.Error()}
}
