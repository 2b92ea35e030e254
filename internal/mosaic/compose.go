package mosaic

import (
	"fmt"
	"image"
	"image/color"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// Compose pastes the matched tiles onto a black canvas of
// (cols*tileRes) × (rows*tileRes) pixels.
//
// Cell i goes to column i%cols, row i/cols. Every referenced tile must be
// normalized to tileRes × tileRes; all ids are checked before the canvas is
// allocated so a bad result never produces a partial mosaic. Tile pixels are
// copied, the catalog is not modified.
func Compose(matches []int, c *Catalog, rows, cols, tileRes int) (*image.NRGBA, error) {
	if rows <= 0 || cols <= 0 || tileRes <= 0 {
		return nil, fmt.Errorf("%w: %d rows x %d cols at tile resolution %d",
			ErrInvalidGridDimensions, rows, cols, tileRes)
	}
	if len(matches) != rows*cols {
		return nil, fmt.Errorf("%w: %d matches for %dx%d grid", ErrGridMismatch, len(matches), rows, cols)
	}

	tiles := make([]*image.NRGBA, len(matches))
	for i, id := range matches {
		t, ok := c.Tile(id)
		if !ok {
			return nil, fmt.Errorf("%w: cell %d references tile %d of %d", ErrUnknownTile, i, id, c.Len())
		}
		if t.Width() != tileRes || t.Height() != tileRes {
			return nil, fmt.Errorf("%w: tile %d is %dx%d, want %dx%d",
				ErrTileSize, id, t.Width(), t.Height(), tileRes, tileRes)
		}
		tiles[i] = t.Image
	}

	canvas := imaging.NewCanvas(cols*tileRes, rows*tileRes, color.Black)
	for i, img := range tiles {
		imaging.Paste(canvas, img, (i%cols)*tileRes, (i/cols)*tileRes)
	}
	return canvas, nil
}
