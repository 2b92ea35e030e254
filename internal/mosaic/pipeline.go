package mosaic

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/PLudrak/mozaiker/internal/config"
	"github.com/PLudrak/mozaiker/internal/imaging"
)

// Result is everything a batch run produced.
type Result struct {
	Mosaic  *image.NRGBA
	Grid    *Grid
	Matches []int
	Catalog *Catalog
	Stats   MatchStats
}

// Run executes one batch: decode the main image, then continue as RunImage.
// The configuration is validated first.
func Run(cfg *config.Config, log logrus.FieldLogger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	img, err := imaging.Decode(cfg.MainImage)
	if err != nil {
		return nil, err
	}
	return RunImage(img, cfg, log)
}

// RunImage builds a mosaic of an already decoded main image.
//
// Steps, in order: reduce the main image to a grid, save the simplified copy,
// build the tile catalog, save the normalized tiles, match cells to tiles,
// write the manifest, composite and save the mosaic. Output paths left empty
// in cfg.Output skip that artifact. Any error aborts the run and no mosaic is
// returned or written.
func RunImage(img image.Image, cfg *config.Config, log logrus.FieldLogger) (*Result, error) {
	log = loggerOr(log)
	start := time.Now()

	grid, err := Reduce(img, cfg.Scale, cfg.PaletteSize)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"rows":  grid.Rows,
		"cols":  grid.Cols,
		"scale": cfg.Scale,
	}).Info("main image reduced")

	if p := cfg.Output.Simplified; p != "" {
		if err := imaging.SaveImage(grid.Simplified, p, cfg.Output.JPEGQuality); err != nil {
			return nil, err
		}
		log.WithField("path", p).Debug("saved simplified main image")
	}

	cat, err := BuildCatalog(cfg.TileDir, CatalogOptions{
		TileRes:     cfg.TileResolution,
		PaletteSize: cfg.PaletteSize,
		Workers:     cfg.Workers,
		Log:         log,
	})
	if err != nil {
		return nil, err
	}

	if dir := cfg.Output.TilesDir; dir != "" {
		if err := SaveTiles(cat, dir, cfg.Output.JPEGQuality); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{"dir": dir, "tiles": cat.Len()}).Debug("saved normalized tiles")
	}

	m := NewMatcher(MatchOptions{Workers: cfg.Workers, Log: log})
	matches, err := m.Match(grid.Colors, cat)
	if err != nil {
		return nil, err
	}
	stats := m.Stats(grid.Colors, matches)

	if p := cfg.Output.Manifest; p != "" {
		man, err := BuildManifest(cat, matches)
		if err != nil {
			return nil, err
		}
		man.Rows, man.Cols, man.TileRes = grid.Rows, grid.Cols, cfg.TileResolution
		if err := man.WriteYAML(p); err != nil {
			return nil, err
		}
		log.WithField("path", p).Debug("wrote manifest")
	}

	mosaic, err := Compose(matches, cat, grid.Rows, grid.Cols, cfg.TileResolution)
	if err != nil {
		return nil, err
	}

	if p := cfg.Output.Mosaic; p != "" {
		if err := imaging.SaveImage(mosaic, p, cfg.Output.JPEGQuality); err != nil {
			return nil, err
		}
	}

	b := mosaic.Bounds()
	log.WithFields(logrus.Fields{
		"width":           b.Dx(),
		"height":          b.Dy(),
		"cells":           stats.Cells,
		"distinct_colors": stats.DistinctColors,
		"distinct_tiles":  stats.DistinctTiles,
		"cache_entries":   stats.CacheEntries,
		"elapsed":         time.Since(start).Round(time.Millisecond),
	}).Info("mosaic built")

	return &Result{
		Mosaic:  mosaic,
		Grid:    grid,
		Matches: matches,
		Catalog: cat,
		Stats:   stats,
	}, nil
}
