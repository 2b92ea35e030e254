package mosaic

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// Catalog is the ordered set of candidate tiles. Tile ids are dense:
// Tiles()[i].ID == i.
type Catalog struct {
	tiles []Tile
}

// NewCatalog builds a catalog from in-memory tiles, assigning ids 0..N-1 in
// slice order. An empty slice yields an empty catalog.
func NewCatalog(tiles []Tile) *Catalog {
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		t.ID = i
		out[i] = t
	}
	return &Catalog{tiles: out}
}

// Len returns the number of tiles.
func (c *Catalog) Len() int { return len(c.tiles) }

// Tile returns the tile with the given id.
func (c *Catalog) Tile(id int) (Tile, bool) {
	if id < 0 || id >= len(c.tiles) {
		return Tile{}, false
	}
	return c.tiles[id], true
}

// Tiles returns the tiles in id order. The slice is a copy; the pixel
// buffers are shared and must not be modified.
func (c *Catalog) Tiles() []Tile {
	out := make([]Tile, len(c.tiles))
	copy(out, c.tiles)
	return out
}

// Colors returns the representative colors in id order.
func (c *Catalog) Colors() []imaging.RGBColor {
	out := make([]imaging.RGBColor, len(c.tiles))
	for i, t := range c.tiles {
		out[i] = t.Color
	}
	return out
}

// CatalogOptions configures BuildCatalog.
type CatalogOptions struct {
	// TileRes is the edge length tiles are normalized to.
	TileRes int

	// PaletteSize is the palette used for representative colors.
	PaletteSize int

	// Workers bounds concurrent decodes. Values < 1 mean 1.
	Workers int

	// SkipNormalize keeps tiles at their decoded size.
	SkipNormalize bool

	// Log receives per-file warnings. Defaults to the logrus standard
	// logger.
	Log logrus.FieldLogger
}

// BuildCatalog decodes every regular file of dir (non-recursive, no
// extension filter) into a Tile.
//
// Files are enumerated in name order before any decoding starts and ids are
// assigned from that order, so the result does not depend on which worker
// finishes first. A file that cannot be opened or decoded is logged and
// skipped. If the directory cannot be listed or no file survives, the error
// wraps ErrCatalogEmpty.
func BuildCatalog(dir string, opts CatalogOptions) (*Catalog, error) {
	log := loggerOr(opts.Log)
	if !opts.SkipNormalize && opts.TileRes <= 0 {
		return nil, fmt.Errorf("%w: tile resolution %d", ErrInvalidGridDimensions, opts.TileRes)
	}

	paths, err := listRegularFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrCatalogEmpty, dir, err)
	}
	log.WithFields(logrus.Fields{"dir": dir, "files": len(paths)}).Info("found tile candidates")

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	paletteSize := opts.PaletteSize
	if paletteSize == 0 {
		paletteSize = imaging.DefaultPaletteSize
	}

	slots := make([]*Tile, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			t, err := loadTile(path, paletteSize, opts)
			if err != nil {
				log.WithError(err).WithField("path", path).Warn("skipping tile")
				return nil
			}
			slots[i] = &t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tiles := make([]Tile, 0, len(slots))
	for _, t := range slots {
		if t != nil {
			tiles = append(tiles, *t)
		}
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no decodable images in %s", ErrCatalogEmpty, dir)
	}

	c := NewCatalog(tiles)
	log.WithFields(logrus.Fields{
		"dir":     dir,
		"tiles":   c.Len(),
		"skipped": len(paths) - c.Len(),
	}).Info("tile catalog built")
	return c, nil
}

func loadTile(path string, paletteSize int, opts CatalogOptions) (Tile, error) {
	img, err := imaging.Decode(path)
	if err != nil {
		return Tile{}, err
	}
	t, err := NewTile(0, path, img, paletteSize)
	if err != nil {
		return Tile{}, err
	}
	if opts.SkipNormalize {
		return t, nil
	}
	return Normalize(t, opts.TileRes)
}

// listRegularFiles returns the regular files directly inside dir, sorted by
// name. Symlinks count when they point at a regular file.
func listRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			mode = info.Mode()
		}
		if mode.IsRegular() {
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// SaveTiles writes every tile of c to dir as <id>.jpg, creating dir if
// needed.
func SaveTiles(c *Catalog, dir string, quality int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tiles directory: %w", err)
	}
	for _, t := range c.tiles {
		path := filepath.Join(dir, strconv.Itoa(t.ID)+".jpg")
		if err := imaging.SaveImage(t.Image, path, quality); err != nil {
			return err
		}
	}
	return nil
}

func loggerOr(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
