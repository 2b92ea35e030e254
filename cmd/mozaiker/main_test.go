package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/PLudrak/mozaiker/internal/config"
	"github.com/PLudrak/mozaiker/internal/imaging"
)

func writeSolid(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	if err := imaging.SaveImage(img, path, 0); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig_Layering(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mozaiker.yaml")
	yaml := "main_image: from-file.png\ntile_dir: tiles\nscale: 4\noutput:\n  mosaic: file.png\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvConfigPath, cfgPath)

	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse([]string{"--scale", "7", "--manifest", "m.yaml"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(fs, &o)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if cfg.MainImage != "from-file.png" {
		t.Errorf("MainImage = %s, want value from file", cfg.MainImage)
	}
	if cfg.Scale != 7 {
		t.Errorf("Scale = %d, want flag value 7", cfg.Scale)
	}
	if cfg.Output.Mosaic != "file.png" {
		t.Errorf("Output.Mosaic = %s, want file value (flag default must not override)", cfg.Output.Mosaic)
	}
	if cfg.Output.Manifest != "m.yaml" {
		t.Errorf("Output.Manifest = %s, want m.yaml", cfg.Output.Manifest)
	}
	if cfg.TileResolution != config.DefaultTileResolution {
		t.Errorf("TileResolution = %d, want default", cfg.TileResolution)
	}
}

func TestLoadConfig_Workers(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"default", nil, runtime.NumCPU()},
		{"explicit zero", []string{"--workers", "0"}, runtime.NumCPU()},
		{"explicit count", []string{"-w", "3"}, 3},
		{"negative stays invalid", []string{"--workers=-1"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o options
			fs := newFlagSet(&o)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			cfg, err := loadConfig(fs, &o)
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}
			if cfg.Workers != tt.want {
				t.Errorf("Workers = %d, want %d", cfg.Workers, tt.want)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	var o options
	fs := newFlagSet(&o)
	if err := fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(fs, &o); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--version"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "mozaiker "+Version) {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_UnexpectedArgument(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	if err := run([]string{"extra"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestRun_BuildsMosaic(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "error")
	dir := t.TempDir()
	tiles := filepath.Join(dir, "tiles")
	if err := os.Mkdir(tiles, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSolid(t, filepath.Join(dir, "main.png"), 30, 30, color.NRGBA{200, 10, 10, 255})
	writeSolid(t, filepath.Join(tiles, "red.png"), 12, 12, color.NRGBA{255, 0, 0, 255})
	writeSolid(t, filepath.Join(tiles, "gray.png"), 12, 12, color.NRGBA{128, 128, 128, 255})
	output := filepath.Join(dir, "mosaic.png")

	var out bytes.Buffer
	err := run([]string{
		"--main", filepath.Join(dir, "main.png"),
		"--tiles", tiles,
		"--scale", "10",
		"--tile-res", "5",
		"--simplified", "",
		"--output", output,
	}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img, err := imaging.Decode(output)
	if err != nil {
		t.Fatalf("decode mosaic: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 15 || b.Dy() != 15 {
		t.Errorf("mosaic = %dx%d, want 15x15", b.Dx(), b.Dy())
	}
	if !strings.Contains(out.String(), "9 cells, 1 of 2 tiles used") {
		t.Errorf("summary = %q", out.String())
	}
}
