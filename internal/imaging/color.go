package imaging

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
//
// Color implements color.Color as a fully opaque color.
type Color struct {
	R uint8 // Red component (0-255)
	G uint8 // Green component (0-255)
	B uint8 // Blue component (0-255)
}

// Common colors.
var (
	Black = Color{}
	White = Color{R: 255, G: 255, B: 255}
)

// ParseHexColor parses a color string like "#FF8040", "ff8040" or "#f84".
//
// The leading '#' is optional and hex digits are case-insensitive. Any other
// length or a non-hex digit returns an error wrapping ErrInvalidColor.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return Color{}, fmt.Errorf("%w: %q must be #rgb or #rrggbb", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// RGBA implements color.Color. The color is always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = 0xffff
	return
}

// Scale multiplies every channel by f and rounds to the nearest integer.
//
// Results are clamped to [0,255], so factors above 1 saturate instead of
// wrapping. Scale(0) is black and Scale(1) is the color itself.
func (c Color) Scale(f float64) Color {
	return Color{
		R: clampChannel(math.Round(float64(c.R) * f)),
		G: clampChannel(math.Round(float64(c.G) * f)),
		B: clampChannel(math.Round(float64(c.B) * f)),
	}
}

// ContrastText returns the text color that stays readable on top of c:
// white for dark colors (channel sum below 384), black otherwise.
func (c Color) ContrastText() Color {
	if int(c.R)+int(c.G)+int(c.B) < 384 {
		return White
	}
	return Black
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// clampChannel converts v to a channel value, constraining it to [0,255].
func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
