package mosaic

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/PLudrak/mozaiker/internal/config"
	"github.com/PLudrak/mozaiker/internal/imaging"
)

// pipelineFixture writes a 100×100 four-quadrant main image and one tile per
// quadrant color (plus a file that does not decode) and returns a config
// pointing at them with every artifact enabled.
func pipelineFixture(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	tiles := filepath.Join(root, "tiles")
	if err := os.Mkdir(tiles, 0o755); err != nil {
		t.Fatal(err)
	}

	main := writeImage(t, root, "main.png", quadrantImage(100, red, green, blue, yellow))
	writeImage(t, tiles, "1_red.png", solidImage(30, 20, red))
	writeImage(t, tiles, "2_green.png", solidImage(20, 30, green))
	writeImage(t, tiles, "3_blue.png", solidImage(25, 25, blue))
	writeImage(t, tiles, "4_yellow.png", solidImage(40, 10, yellow))
	if err := os.WriteFile(filepath.Join(tiles, "5_notes.txt"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(root, "out")
	cfg := config.Default()
	cfg.MainImage = main
	cfg.TileDir = tiles
	cfg.Scale = 10
	cfg.TileResolution = 8
	cfg.Workers = 4
	cfg.Output.Mosaic = filepath.Join(out, "mosaic.png")
	cfg.Output.Simplified = filepath.Join(out, "simplified.png")
	cfg.Output.TilesDir = filepath.Join(out, "tiles")
	cfg.Output.Manifest = filepath.Join(out, "manifest.yaml")
	return cfg
}

func TestRun(t *testing.T) {
	cfg := pipelineFixture(t)
	log, _ := nullLogger()

	res, err := Run(cfg, log)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if b := res.Mosaic.Bounds(); b.Dx() != 80 || b.Dy() != 80 {
		t.Fatalf("mosaic = %dx%d, want 80x80", b.Dx(), b.Dy())
	}
	if res.Catalog.Len() != 4 {
		t.Errorf("catalog has %d tiles, want 4", res.Catalog.Len())
	}
	if len(res.Matches) != res.Grid.Rows*res.Grid.Cols {
		t.Errorf("%d matches for %dx%d grid", len(res.Matches), res.Grid.Rows, res.Grid.Cols)
	}
	if res.Stats.DistinctTiles != 4 || res.Stats.Cells != 100 {
		t.Errorf("stats = %+v", res.Stats)
	}

	// One pixel in the middle of each quadrant.
	checks := []struct {
		x, y int
		want imaging.RGBColor
	}{
		{20, 20, red},
		{60, 20, green},
		{20, 60, blue},
		{60, 60, yellow},
	}
	for _, ck := range checks {
		if got := imaging.FromColor(res.Mosaic.At(ck.x, ck.y)); !closeColor(got, ck.want, 2) {
			t.Errorf("pixel (%d,%d) = %v, want %v", ck.x, ck.y, got, ck.want)
		}
	}

	for _, p := range []string{cfg.Output.Mosaic, cfg.Output.Simplified, cfg.Output.Manifest} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("artifact %s: %v", p, err)
		}
	}
	for _, name := range []string{"0.jpg", "3.jpg"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.TilesDir, name)); err != nil {
			t.Errorf("saved tile %s: %v", name, err)
		}
	}

	man, err := ReadManifest(cfg.Output.Manifest)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	total := 0
	for _, e := range man.Tiles {
		if e.Uses != 25 {
			t.Errorf("tile %d used %d times, want 25", e.ID, e.Uses)
		}
		total += e.Uses
	}
	if total != 100 || man.Rows != 10 || man.Cols != 10 || man.TileRes != 8 {
		t.Errorf("manifest header = rows %d cols %d res %d, uses %d", man.Rows, man.Cols, man.TileRes, total)
	}

	saved, err := imaging.Decode(cfg.Output.Mosaic)
	if err != nil {
		t.Fatalf("decode saved mosaic: %v", err)
	}
	if b := saved.Bounds(); b.Dx() != 80 || b.Dy() != 80 {
		t.Errorf("saved mosaic = %dx%d, want 80x80", b.Dx(), b.Dy())
	}
}

// A landscape main image yields a portrait mosaic: the grid takes its column
// count from the image height and its row count from the width, so the picture
// is squashed horizontally while left and right stay in place.
func TestRunImage_Landscape(t *testing.T) {
	cfg := pipelineFixture(t)
	cfg.Output.Simplified = ""
	cfg.Output.TilesDir = ""
	cfg.Output.Manifest = ""
	log, _ := nullLogger()

	img := solidImage(200, 100, red)
	for y := 0; y < 100; y++ {
		for x := 100; x < 200; x++ {
			img.Set(x, y, blue)
		}
	}

	res, err := RunImage(img, cfg, log)
	if err != nil {
		t.Fatalf("RunImage failed: %v", err)
	}
	if res.Grid.Rows != 20 || res.Grid.Cols != 10 {
		t.Fatalf("grid = %d rows x %d cols, want 20 x 10", res.Grid.Rows, res.Grid.Cols)
	}
	if b := res.Mosaic.Bounds(); b.Dx() != 80 || b.Dy() != 160 {
		t.Fatalf("mosaic = %dx%d, want 80x160", b.Dx(), b.Dy())
	}
	if res.Stats.Cells != 200 || res.Stats.DistinctTiles != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}

	for row := 0; row < res.Grid.Rows; row++ {
		for col := 0; col < res.Grid.Cols; col++ {
			want := red
			if col >= 5 {
				want = blue
			}
			if got := res.Grid.Cell(row, col); !closeColor(got, want, 2) {
				t.Fatalf("cell (%d,%d) = %v, want %v", row, col, got, want)
			}
		}
	}

	checks := []struct {
		x, y int
		want imaging.RGBColor
	}{
		{4, 4, red},
		{36, 155, red},
		{44, 4, blue},
		{76, 155, blue},
	}
	for _, ck := range checks {
		if got := imaging.FromColor(res.Mosaic.At(ck.x, ck.y)); !closeColor(got, ck.want, 2) {
			t.Errorf("pixel (%d,%d) = %v, want %v", ck.x, ck.y, got, ck.want)
		}
	}

	saved, err := imaging.Decode(cfg.Output.Mosaic)
	if err != nil {
		t.Fatalf("decode saved mosaic: %v", err)
	}
	if b := saved.Bounds(); b.Dx() != 80 || b.Dy() != 160 {
		t.Errorf("saved mosaic = %dx%d, want 80x160", b.Dx(), b.Dy())
	}
}

func TestRun_OptionalArtifactsDisabled(t *testing.T) {
	cfg := pipelineFixture(t)
	cfg.Output.Simplified = ""
	cfg.Output.TilesDir = ""
	cfg.Output.Manifest = ""
	cfg.Workers = 1
	log, _ := nullLogger()

	if _, err := Run(cfg, log); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(cfg.Output.Mosaic))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "mosaic.png" {
		t.Errorf("output dir holds %d entries, want only mosaic.png", len(entries))
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, cfg *config.Config)
		check  func(err error) bool
	}{
		{
			name:   "missing main image",
			mutate: func(t *testing.T, cfg *config.Config) { cfg.MainImage = filepath.Join(t.TempDir(), "none.png") },
			check:  func(err error) bool { return errors.Is(err, fs.ErrNotExist) && !imaging.IsDecodeError(err) },
		},
		{
			name: "undecodable main image",
			mutate: func(t *testing.T, cfg *config.Config) {
				p := filepath.Join(t.TempDir(), "main.png")
				if err := os.WriteFile(p, []byte("garbage"), 0o644); err != nil {
					t.Fatal(err)
				}
				cfg.MainImage = p
			},
			check: imaging.IsDecodeError,
		},
		{
			name:   "empty tile directory",
			mutate: func(t *testing.T, cfg *config.Config) { cfg.TileDir = t.TempDir() },
			check:  func(err error) bool { return errors.Is(err, ErrCatalogEmpty) },
		},
		{
			name:   "scale too large",
			mutate: func(t *testing.T, cfg *config.Config) { cfg.Scale = 1000 },
			check:  func(err error) bool { return errors.Is(err, ErrInvalidGridDimensions) },
		},
		{
			name:   "invalid configuration",
			mutate: func(t *testing.T, cfg *config.Config) { cfg.TileResolution = 0 },
			check:  func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pipelineFixture(t)
			tt.mutate(t, cfg)
			log, _ := nullLogger()

			res, err := Run(cfg, log)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if res != nil {
				t.Error("result returned on failure")
			}
			if _, err := os.Stat(cfg.Output.Mosaic); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("mosaic written on failure (stat: %v)", err)
			}
		})
	}
}
