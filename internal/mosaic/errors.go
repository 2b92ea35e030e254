package mosaic

import "errors"

// Fatal conditions of a mosaic run. Callers match them with errors.Is; the
// returned errors wrap these with the offending path or parameter.
var (
	// ErrCatalogEmpty means no tile survived decoding, or the tile
	// directory could not be listed at all.
	ErrCatalogEmpty = errors.New("tile catalog is empty")

	// ErrInvalidGridDimensions means the reduced grid has zero rows or
	// columns, or compositing was asked for a non-positive size.
	ErrInvalidGridDimensions = errors.New("invalid grid dimensions")

	// ErrInvalidScale means the scale factor is not positive.
	ErrInvalidScale = errors.New("invalid scale factor")

	// ErrNoTilesAvailable means a match was requested against an empty
	// catalog.
	ErrNoTilesAvailable = errors.New("no tiles available for matching")

	// ErrGridMismatch means the match result does not cover rows*cols cells.
	ErrGridMismatch = errors.New("match result does not fit grid")

	// ErrUnknownTile means a match result references an id outside the
	// catalog.
	ErrUnknownTile = errors.New("unknown tile id")

	// ErrTileSize means a tile is not normalized to the requested resolution.
	ErrTileSize = errors.New("tile not normalized to tile resolution")
)
