package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit color. The zero value is black; Default marks the
// surface's own foreground or background.
type Color struct {
	R, G, B uint8
	Default bool
}

// ColorDefault defers to the backend's default color.
var ColorDefault = Color{Default: true}

var (
	ColorBlack  = Color{R: 0, G: 0, B: 0}
	ColorWhite  = Color{R: 255, G: 255, B: 255}
	ColorRed    = Color{R: 255, G: 0, B: 0}
	ColorGreen  = Color{R: 0, G: 255, B: 0}
	ColorBlue   = Color{R: 0, G: 0, B: 255}
	ColorYellow = Color{R: 255, G: 255, B: 0}
	ColorGray   = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a color from components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseColor accepts "#rgb", "#rrggbb" (the leading # is optional) or
// "default".
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "default") || s == "" {
		return ColorDefault, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return fromColorful(c), nil
}

// MustParseColor is ParseColor for constants; it panics on bad input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// IsDefault reports whether c defers to the backend default.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals compares two colors; all default colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Resolve returns fallback when c is the default color.
func (c Color) Resolve(fallback Color) Color {
	if c.Default {
		return fallback
	}
	return c
}

func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return c.Hex()
}

// Hex returns "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes c toward other in Lab space. t=0 is c, t=1 is other.
// Default colors do not blend.
func (c Color) Blend(other Color, t float64) Color {
	if c.Default || other.Default {
		if t < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), t))
}

// Lighten moves c toward white by amount (0..1).
func (c Color) Lighten(amount float64) Color {
	return c.Blend(ColorWhite, amount)
}

// Darken moves c toward black by amount (0..1).
func (c Color) Darken(amount float64) Color {
	return c.Blend(ColorBlack, amount)
}

// RGBA returns the color with full alpha, one texel of the color atlas.
func (c Color) RGBA() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, 255}
}
