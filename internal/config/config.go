package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/PLudrak/mozaiker/internal/imaging"
)

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "MOZAIKER_CONFIG"

// Default batch parameters.
const (
	DefaultScale          = 10
	DefaultTileResolution = 100
	DefaultPaletteSize    = 16
	DefaultJPEGQuality    = 90
	DefaultMosaicOutput   = "mosaic.png"
	DefaultSimplified     = "mainphoto_simplified.jpg"
)

// Config describes one mosaic batch run.
type Config struct {
	// MainImage is the path of the image the mosaic reproduces.
	MainImage string `yaml:"main_image"`

	// TileDir is the flat directory holding candidate tile images.
	TileDir string `yaml:"tile_dir"`

	// Scale is the number of main-image pixels folded into one grid cell.
	Scale int `yaml:"scale"`

	// TileResolution is the edge length in pixels of every tile in the
	// finished mosaic.
	TileResolution int `yaml:"tile_resolution"`

	// PaletteSize is the number of colors used to simplify images before
	// their colors are read.
	PaletteSize int `yaml:"palette_size"`

	// Workers bounds the goroutines used for decoding tiles and matching
	// cells. 1 runs sequentially.
	Workers int `yaml:"workers"`

	// Output configures the artifacts written by the run.
	Output OutputConfig `yaml:"output"`
}

// OutputConfig configures written artifacts. Empty paths disable the
// corresponding artifact, except Mosaic which is required.
type OutputConfig struct {
	// Mosaic is where the composited mosaic is saved. The format follows
	// the extension.
	Mosaic string `yaml:"mosaic"`

	// Simplified is where the palette-reduced, resized main image is saved.
	Simplified string `yaml:"simplified"`

	// TilesDir, when set, receives every normalized tile as <id>.jpg.
	TilesDir string `yaml:"tiles_dir"`

	// Manifest, when set, receives a YAML listing of the tile catalog.
	Manifest string `yaml:"manifest"`

	// JPEGQuality applies to every JPEG artifact (1-100).
	JPEGQuality int `yaml:"jpeg_quality"`
}

// Default returns the configuration used as a base before a file or flags
// are applied. MainImage and TileDir have no sensible default and are left
// empty.
func Default() *Config {
	return &Config{
		Scale:          DefaultScale,
		TileResolution: DefaultTileResolution,
		PaletteSize:    DefaultPaletteSize,
		Workers:        runtime.NumCPU(),
		Output: OutputConfig{
			Mosaic:      DefaultMosaicOutput,
			Simplified:  DefaultSimplified,
			JPEGQuality: DefaultJPEGQuality,
		},
	}
}

// Path resolves the config file location: the flag value if set, otherwise
// the MOZAIKER_CONFIG environment variable. An empty result means "no file".
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvConfigPath)
}

// LoadFile loads configuration from path on top of Default(). Unknown keys
// are rejected so that typos do not silently fall back to defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors. All problems are reported
// at once.
func (c *Config) Validate() error {
	var errs []error

	if c.MainImage == "" {
		errs = append(errs, fmt.Errorf("main_image is required"))
	}
	if c.TileDir == "" {
		errs = append(errs, fmt.Errorf("tile_dir is required"))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be > 0, got %d", c.Scale))
	}
	if c.TileResolution <= 0 {
		errs = append(errs, fmt.Errorf("tile_resolution must be > 0, got %d", c.TileResolution))
	}
	if c.PaletteSize < 1 || c.PaletteSize > 256 {
		errs = append(errs, fmt.Errorf("palette_size must be in 1..256, got %d", c.PaletteSize))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.Output.Mosaic == "" {
		errs = append(errs, fmt.Errorf("output.mosaic is required"))
	} else if !imaging.SupportedOutputFormat(c.Output.Mosaic) {
		errs = append(errs, fmt.Errorf("output.mosaic %q has no supported image extension", c.Output.Mosaic))
	}
	if c.Output.Simplified != "" && !imaging.SupportedOutputFormat(c.Output.Simplified) {
		errs = append(errs, fmt.Errorf("output.simplified %q has no supported image extension", c.Output.Simplified))
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("output.jpeg_quality must be in 1..100, got %d", c.Output.JPEGQuality))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
