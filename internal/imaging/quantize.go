package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultPaletteSize is the number of colors used when simplifying an image
// before its colors are averaged.
const DefaultPaletteSize = 16

// Quantize approximates img with at most n representative colors chosen by
// median cut. Every pixel is mapped to its nearest palette entry without
// dithering, so flat regions stay flat.
//
// The returned image has its origin at (0,0) and owns its pixels. Images with
// fewer than n distinct colors keep their exact colors.
func Quantize(img image.Image, n int) (*image.Paletted, error) {
	if n <= 0 || n > 256 {
		return nil, fmt.Errorf("palette size must be in 1..256, got %d", n)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot quantize empty image")
	}

	// The quantizer reads *image.RGBA without going through color.Model.
	rgba := clone.AsRGBA(img)

	q := quantize.MedianCutQuantizer{Aggregation: quantize.Mean}
	palette := q.Quantize(make(color.Palette, 0, n), rgba)
	if len(palette) == 0 {
		return nil, fmt.Errorf("quantizer produced an empty palette")
	}

	out := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), palette)
	draw.Draw(out, out.Bounds(), rgba, rgba.Bounds().Min, draw.Src)
	return out, nil
}
