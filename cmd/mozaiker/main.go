package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/PLudrak/mozaiker/internal/config"
	"github.com/PLudrak/mozaiker/internal/mosaic"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// EnvLogLevel selects the log level (debug, info, warn, error).
const EnvLogLevel = "MOZAIKER_LOG_LEVEL"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath string
	version    bool

	main       string
	tiles      string
	scale      int
	tileRes    int
	palette    int
	workers    int
	output     string
	simplified string
	saveTiles  string
	manifest   string
	quality    int
}

func newFlagSet(o *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("mozaiker", pflag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+")")
	fs.BoolVarP(&o.version, "version", "v", false, "print version information")

	fs.StringVarP(&o.main, "main", "m", "", "main image the mosaic reproduces")
	fs.StringVarP(&o.tiles, "tiles", "t", "", "directory of tile images")
	fs.IntVarP(&o.scale, "scale", "s", config.DefaultScale, "main-image pixels per grid cell")
	fs.IntVar(&o.tileRes, "tile-res", config.DefaultTileResolution, "edge length in pixels of each tile in the mosaic")
	fs.IntVar(&o.palette, "palette", config.DefaultPaletteSize, "colors used to simplify images before reading colors")
	fs.IntVarP(&o.workers, "workers", "w", 0, "parallel workers for decoding and matching (0 or unset uses all CPUs)")
	fs.StringVarP(&o.output, "output", "o", config.DefaultMosaicOutput, "mosaic output path; format follows the extension")
	fs.StringVar(&o.simplified, "simplified", config.DefaultSimplified, "simplified main image output path (empty to skip)")
	fs.StringVar(&o.saveTiles, "save-tiles", "", "directory receiving every normalized tile as <id>.jpg")
	fs.StringVar(&o.manifest, "manifest", "", "write a YAML manifest of the tiles used to this path")
	fs.IntVarP(&o.quality, "quality", "q", config.DefaultJPEGQuality, "JPEG quality (1-100)")
	return fs
}

// loadConfig layers Default, the config file and explicitly set flags, in
// that order.
func loadConfig(fs *pflag.FlagSet, o *options) (*config.Config, error) {
	cfg := config.Default()
	if path := config.Path(o.configPath); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("main") {
		cfg.MainImage = o.main
	}
	if fs.Changed("tiles") {
		cfg.TileDir = o.tiles
	}
	if fs.Changed("scale") {
		cfg.Scale = o.scale
	}
	if fs.Changed("tile-res") {
		cfg.TileResolution = o.tileRes
	}
	if fs.Changed("palette") {
		cfg.PaletteSize = o.palette
	}
	if fs.Changed("workers") {
		cfg.Workers = o.workers
		if o.workers == 0 {
			cfg.Workers = runtime.NumCPU()
		}
	}
	if fs.Changed("output") {
		cfg.Output.Mosaic = o.output
	}
	if fs.Changed("simplified") {
		cfg.Output.Simplified = o.simplified
	}
	if fs.Changed("save-tiles") {
		cfg.Output.TilesDir = o.saveTiles
	}
	if fs.Changed("manifest") {
		cfg.Output.Manifest = o.manifest
	}
	if fs.Changed("quality") {
		cfg.Output.JPEGQuality = o.quality
	}
	return cfg, nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if v := os.Getenv(EnvLogLevel); v != "" {
		if lvl, err := logrus.ParseLevel(v); err == nil {
			log.SetLevel(lvl)
		} else {
			log.WithField("value", v).Warn("unknown " + EnvLogLevel + ", using info")
		}
	}
	return log
}

func run(args []string, stdout io.Writer) error {
	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if o.version {
		fmt.Fprintf(stdout, "mozaiker %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := loadConfig(fs, &o)
	if err != nil {
		return err
	}

	log := newLogger()
	log.WithFields(logrus.Fields{
		"version": Version,
		"main":    cfg.MainImage,
		"tiles":   cfg.TileDir,
	}).Debug("starting")

	res, err := mosaic.Run(cfg, log)
	if err != nil {
		return err
	}
	b := res.Mosaic.Bounds()
	fmt.Fprintf(stdout, "%s: %dx%d mosaic, %d cells, %d of %d tiles used\n",
		cfg.Output.Mosaic, b.Dx(), b.Dy(), res.Stats.Cells, res.Stats.DistinctTiles, res.Catalog.Len())
	return nil
}
