package mosaic

import (
	"fmt"
	"image"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// Tile is one candidate image of the catalog.
//
// Tiles are values: the normalization functions return a new Tile with a new
// pixel buffer and leave their input untouched.
type Tile struct {
	// ID is the tile's dense index in its catalog.
	ID int

	// Path is the source file, empty for tiles built in memory.
	Path string

	// Image holds the tile pixels with origin (0,0).
	Image *image.NRGBA

	// Color is the representative color, computed from the full source
	// image before any cropping or resizing.
	Color imaging.RGBColor
}

// Width returns the tile width in pixels.
func (t Tile) Width() int { return t.Image.Bounds().Dx() }

// Height returns the tile height in pixels.
func (t Tile) Height() int { return t.Image.Bounds().Dy() }

// IsSquare reports whether the tile is as wide as it is tall.
func (t Tile) IsSquare() bool { return t.Width() == t.Height() }

// NewTile copies img into a Tile and computes its representative color.
func NewTile(id int, path string, img image.Image, paletteSize int) (Tile, error) {
	c, err := RepresentativeColor(img, paletteSize)
	if err != nil {
		return Tile{}, err
	}
	return Tile{
		ID:    id,
		Path:  path,
		Image: imaging.CloneNRGBA(img),
		Color: c,
	}, nil
}

// RepresentativeColor summarises img as a single color: the image is first
// reduced to paletteSize colors, then area-averaged down to one pixel.
// Reducing first damps outlier pixels so the result leans toward the
// dominant tones rather than the literal mean.
func RepresentativeColor(img image.Image, paletteSize int) (imaging.RGBColor, error) {
	q, err := imaging.Quantize(img, paletteSize)
	if err != nil {
		return imaging.RGBColor{}, fmt.Errorf("failed to reduce palette: %w", err)
	}
	c, err := imaging.AverageColor(q)
	if err != nil {
		return imaging.RGBColor{}, fmt.Errorf("failed to average colors: %w", err)
	}
	return c, nil
}

// NormalizeSquare crops t to a centered square.
//
// Square tiles are returned unchanged. Otherwise padding = |h-w|/2 is cut
// from the start of the longer side and the crop keeps exactly the shorter
// side's length, so an odd difference loses its extra pixel on the far side.
func NormalizeSquare(t Tile) (Tile, error) {
	w, h := t.Width(), t.Height()
	if w == h {
		return t, nil
	}

	diff := h - w
	if diff < 0 {
		diff = -diff
	}
	padding := diff / 2

	var left, top, right, bottom int
	if w > h {
		left, top, right, bottom = padding, 0, padding+h, h
	} else {
		left, top, right, bottom = 0, padding, w, padding+w
	}

	cropped, err := imaging.CropRect(t.Image, left, top, right, bottom)
	if err != nil {
		return Tile{}, fmt.Errorf("failed to crop tile %d: %w", t.ID, err)
	}
	t.Image = cropped
	return t, nil
}

// NormalizeResize stretches t to exactly size × size pixels.
func NormalizeResize(t Tile, size int) (Tile, error) {
	if size <= 0 {
		return Tile{}, fmt.Errorf("%w: tile size %d", ErrInvalidGridDimensions, size)
	}
	if t.Width() == size && t.Height() == size {
		return t, nil
	}
	resized, err := imaging.Resize(t.Image, size, size)
	if err != nil {
		return Tile{}, fmt.Errorf("failed to resize tile %d: %w", t.ID, err)
	}
	t.Image = resized
	return t, nil
}

// Normalize applies NormalizeSquare then NormalizeResize.
func Normalize(t Tile, size int) (Tile, error) {
	sq, err := NormalizeSquare(t)
	if err != nil {
		return Tile{}, err
	}
	return NormalizeResize(sq, size)
}
