package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Resize stretches img to exactly width × height pixels using Lanczos
// resampling. Aspect ratio is not preserved.
func Resize(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}

// ResizeNearest stretches img to width × height with nearest-neighbour
// sampling, so every output pixel is a color that exists in img. Used on
// palette-reduced images to keep them on their palette.
func ResizeNearest(img image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.NearestNeighbor), nil
}

// AverageColor downsamples img to a single pixel by area averaging (box
// filter over the whole image) and returns that pixel.
func AverageColor(img image.Image) (RGBColor, error) {
	if img.Bounds().Empty() {
		return RGBColor{}, fmt.Errorf("cannot average empty image")
	}
	px := imaging.Resize(img, 1, 1, imaging.Box)
	return FromColor(px.NRGBAAt(0, 0)), nil
}

// CloneNRGBA returns a deep copy of img as *image.NRGBA with origin (0,0).
func CloneNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// NewCanvas allocates a width × height image filled with bg.
func NewCanvas(width, height int, bg color.Color) *image.NRGBA {
	return imaging.New(width, height, bg)
}
