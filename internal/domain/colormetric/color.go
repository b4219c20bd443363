// Package colormetric converts hex kit colors into RGB, Lab and HSL forms and
// computes the pairwise metrics the conflict engine votes on.
package colormetric

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Scale factors between go-colorful's unit ranges and the conventional ones.
const (
	labScale     = 100.0 // colorful Lab L is 0..1; CIE L* is 0..100
	percentScale = 100.0 // HSL saturation/lightness as percentages
)

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Lab is a CIE L*a*b* triple (D65) on the 0..100 lightness scale.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// HSL holds hue in degrees [0,360) and saturation/lightness in percent.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Color is an immutable sRGB color parsed from a hex string.
type Color struct {
	c colorful.Color
}

// Parse reads "#RRGGBB", "RRGGBB" or the three-digit shorthand forms.
// Case is ignored and surrounding whitespace trimmed.
func Parse(hex string) (Color, error) {
	const op = "colormetric.parse"
	digits := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 || !isHex(digits) {
		return Color{}, fmt.Errorf("%s: %w", op, &FormatError{Input: hex})
	}
	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return Color{}, fmt.Errorf("%s: %w: %v", op, &FormatError{Input: hex}, err)
	}
	return Color{c: c}, nil
}

// MustParse is Parse for package-level fixtures; it panics on bad input.
func MustParse(hex string) Color {
	c, err := Parse(hex)
	if err != nil {
		panic(err)
	}
	return c
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

// Hex renders the canonical upper-case "#RRGGBB" form.
func (c Color) Hex() string {
	return strings.ToUpper(c.c.Hex())
}

// RGB returns the 8-bit channels.
func (c Color) RGB() RGB {
	r, g, b := c.c.RGB255()
	return RGB{R: r, G: g, B: b}
}

// Lab returns the CIE Lab coordinates.
func (c Color) Lab() Lab {
	l, a, b := c.c.Lab()
	return Lab{L: l * labScale, A: a * labScale, B: b * labScale}
}

// HSL returns hue, saturation and lightness.
func (c Color) HSL() HSL {
	h, s, l := c.c.Hsl()
	return HSL{H: h, S: s * percentScale, L: l * percentScale}
}

// DeltaE is the CIEDE2000 difference on the 0..100 scale.
func (c Color) DeltaE(other Color) float64 {
	return c.c.DistanceCIEDE2000(other.c) * labScale
}

// RelativeLuminance is the WCAG 2.x relative luminance in [0,1].
func (c Color) RelativeLuminance() float64 {
	rgb := c.RGB()
	return RelativeLuminance(rgb.R, rgb.G, rgb.B)
}
