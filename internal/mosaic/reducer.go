package mosaic

import (
	"fmt"
	"image"
	"math"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// Grid is the main image reduced to one color per mosaic cell.
type Grid struct {
	// Colors holds Rows*Cols cell colors in row-major order.
	Colors []imaging.RGBColor

	// Rows and Cols are the grid dimensions. The simplified image is Cols
	// pixels wide and Rows pixels tall.
	Rows int
	Cols int

	// Simplified is the palette-reduced, resized main image the colors were
	// read from.
	Simplified *image.NRGBA
}

// Cell returns the color of the cell at (row, col).
func (g *Grid) Cell(row, col int) imaging.RGBColor {
	return g.Colors[row*g.Cols+col]
}

// GridSize returns the grid dimensions Reduce produces for a width × height
// main image.
//
// The target size is (round(height/scale), round(width/scale)) taken as
// (width, height): cols follows the source height and rows the source width.
// Rounding is half-to-even.
func GridSize(width, height, scale int) (rows, cols int, err error) {
	if scale <= 0 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}
	cols = int(math.RoundToEven(float64(height) / float64(scale)))
	rows = int(math.RoundToEven(float64(width) / float64(scale)))
	if rows == 0 || cols == 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d image at scale %d gives %d rows x %d cols",
			ErrInvalidGridDimensions, width, height, scale, rows, cols)
	}
	return rows, cols, nil
}

// Reduce turns the main image into a Grid: the image is reduced to
// paletteSize colors, resized to the GridSize target with nearest-neighbour
// sampling (so every cell stays on the palette), and read row by row.
func Reduce(img image.Image, scale, paletteSize int) (*Grid, error) {
	b := img.Bounds()
	rows, cols, err := GridSize(b.Dx(), b.Dy(), scale)
	if err != nil {
		return nil, err
	}

	q, err := imaging.Quantize(img, paletteSize)
	if err != nil {
		return nil, fmt.Errorf("failed to simplify main image: %w", err)
	}
	small, err := imaging.ResizeNearest(q, cols, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to resize main image: %w", err)
	}

	return &Grid{
		Colors:     imaging.Pixels(small),
		Rows:       rows,
		Cols:       cols,
		Simplified: small,
	}, nil
}
