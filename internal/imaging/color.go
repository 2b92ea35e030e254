package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// It is a comparable value type and can be used directly as a map key.
type RGBColor struct {
	R uint8 `json:"r" yaml:"r"` // Red component (0-255)
	G uint8 `json:"g" yaml:"g"` // Green component (0-255)
	B uint8 `json:"b" yaml:"b"` // Blue component (0-255)
}

// FromColor converts any color.Color to 8-bit RGB, dropping alpha.
//
// Alpha-premultiplied components are un-premultiplied first, so a
// half-transparent red still reads as (255, 0, 0).
func FromColor(c color.Color) RGBColor {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBColor{R: n.R, G: n.G, B: n.B}
}

// RGBA implements color.Color. The color is always fully opaque.
func (c RGBColor) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the color formatted as "#rrggbb".
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c RGBColor) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHex parses "#rrggbb" or "#rgb" (the leading '#' is optional).
func ParseHex(s string) (RGBColor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}
	if s[0] != '#' {
		s = "#" + s
	}
	cf, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// SampleColor returns the color at a pixel coordinate.
//
// Coordinates are relative to the image bounds origin, so (0,0) is always the
// top-left pixel even for sub-images.
func SampleColor(img image.Image, x, y int) (RGBColor, error) {
	bounds := img.Bounds()
	px, py := bounds.Min.X+x, bounds.Min.Y+y
	if x < 0 || y < 0 || px >= bounds.Max.X || py >= bounds.Max.Y {
		return RGBColor{}, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	return FromColor(img.At(px, py)), nil
}

// Pixels returns every pixel of img as RGB in row-major order (all of row 0,
// then row 1, ...).
func Pixels(img image.Image) []RGBColor {
	bounds := img.Bounds()
	out := make([]RGBColor, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out = append(out, FromColor(img.At(x, y)))
		}
	}
	return out
}
