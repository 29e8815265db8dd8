package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" or "#RRGGBBAA" when translucent
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

var namedColors = map[string]color.NRGBA{
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"black":       {A: 255},
	"transparent": {},
}

// ParseColor converts a color string into a non-premultiplied color.
//
// Accepted forms:
//   - "#RGB" and "#RRGGBB": opaque colors
//   - "#RRGGBBAA": colors with explicit alpha
//   - "white", "black", "transparent"
//
// The leading '#' is optional and hex digits are case-insensitive.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}

	alpha := uint8(255)
	switch len(v) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(v[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q", s)
		}
		alpha = uint8(a)
		v = v[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RGB, #RRGGBB or #RRGGBBAA", s)
	}

	c, err := colorful.Hex(v)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// FormatColor renders c as "#rrggbb", appending the alpha byte only when the
// color is not fully opaque. The result round-trips through ParseColor.
func FormatColor(c color.NRGBA) string {
	hex := toColorful(c).Hex()
	if c.A == 255 {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, c.A)
}

// DescribeColor returns c in hex, RGBA and HSL form.
func DescribeColor(c color.NRGBA) ColorResult {
	h, s, l := toColorful(c).Hsl()
	return ColorResult{
		Hex:  FormatColor(c),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
