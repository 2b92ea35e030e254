// Package mosaic builds photo mosaics.
//
// A run has three stages. Reduce turns the main image into a Grid of cell
// colors. BuildCatalog decodes a flat directory of tile images, records each
// tile's representative color and normalizes it to a square of the tile
// resolution. A Matcher then picks for every cell the tile whose color is
// nearest under Distance, and Compose pastes the chosen tiles onto a canvas.
// Run and RunImage chain these stages and write the configured artifacts.
//
// # Color distance
//
// Distance weighs squared channel differences by 0.30, 0.59 and 0.11 for red,
// green and blue. Ties are broken toward the lowest tile id, which makes
// matching deterministic for a given catalog order.
//
// # Grid orientation
//
// For a W×H main image at scale s the grid has round(H/s) columns and
// round(W/s) rows, rounding half to even. Square images are unaffected; for
// rectangular input the mosaic comes out with its axes swapped relative to
// the source.
//
// # Thread Safety
//
// Catalog and Grid are read-only after construction. A Matcher may be used
// from several goroutines; its distance cache is internally locked.
package mosaic
