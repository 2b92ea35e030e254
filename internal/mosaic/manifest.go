package mosaic

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Manifest records which tiles a mosaic was built from and how often each
// one was placed.
type Manifest struct {
	Rows     int             `yaml:"rows"`
	Cols     int             `yaml:"cols"`
	TileRes  int             `yaml:"tile_resolution"`
	Cells    int             `yaml:"cells"`
	Distinct int             `yaml:"distinct_tiles"`
	Tiles    []ManifestEntry `yaml:"tiles"`
}

// ManifestEntry describes one catalog tile.
type ManifestEntry struct {
	ID    int    `yaml:"id"`
	Path  string `yaml:"path,omitempty"`
	Color string `yaml:"color"`

	// Digest is the hex BLAKE3-256 of the source file, empty for tiles
	// without a path.
	Digest string `yaml:"blake3,omitempty"`
	Uses   int    `yaml:"uses"`
}

// BuildManifest describes every tile of c together with its use count in
// matches. Source files are re-read to compute their digests.
func BuildManifest(c *Catalog, matches []int) (*Manifest, error) {
	counts := UseCounts(matches, c.Len())
	m := &Manifest{
		Cells: len(matches),
		Tiles: make([]ManifestEntry, 0, c.Len()),
	}
	for _, t := range c.tiles {
		e := ManifestEntry{
			ID:    t.ID,
			Path:  t.Path,
			Color: t.Color.Hex(),
			Uses:  counts[t.ID],
		}
		if t.Path != "" {
			d, err := fileDigest(t.Path)
			if err != nil {
				return nil, err
			}
			e.Digest = d
		}
		if e.Uses > 0 {
			m.Distinct++
		}
		m.Tiles = append(m.Tiles, e)
	}
	return m, nil
}

func fileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open tile source: %w", err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// WriteYAML writes the manifest to path, creating parent directories.
func (m *Manifest) WriteYAML(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteYAML.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
