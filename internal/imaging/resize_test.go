package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestResize(t *testing.T) {
	img := createInMemoryImage(200, 100, color.RGBA{10, 200, 30, 255})

	out, err := Resize(img, 50, 50)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v, want 50x50", out.Bounds())
	}
	if got := FromColor(out.At(25, 25)); got != (RGBColor{10, 200, 30}) {
		t.Errorf("flat color after resize: got %v", got)
	}
}

func TestResizeNearest_StaysOnPalette(t *testing.T) {
	img := createPatternImage(100, 100)

	out, err := ResizeNearest(img, 7, 3)
	if err != nil {
		t.Fatalf("ResizeNearest failed: %v", err)
	}
	if out.Bounds().Dx() != 7 || out.Bounds().Dy() != 3 {
		t.Fatalf("dimensions: got %v", out.Bounds())
	}

	allowed := map[RGBColor]bool{
		{255, 0, 0}: true, {0, 255, 0}: true, {0, 0, 255}: true, {255, 255, 255}: true,
	}
	for i, c := range Pixels(out) {
		if !allowed[c] {
			t.Errorf("pixel %d: %v is not one of the source colors", i, c)
		}
	}
}

func TestResize_InvalidSize(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	sizes := [][2]int{{0, 10}, {10, 0}, {-1, 5}}
	for _, s := range sizes {
		if _, err := Resize(img, s[0], s[1]); err == nil {
			t.Errorf("Resize(%d,%d) should fail", s[0], s[1])
		}
		if _, err := ResizeNearest(img, s[0], s[1]); err == nil {
			t.Errorf("ResizeNearest(%d,%d) should fail", s[0], s[1])
		}
	}
}

func TestAverageColor(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want RGBColor
	}{
		{"solid", createInMemoryImage(30, 20, color.RGBA{12, 34, 56, 255}), RGBColor{12, 34, 56}},
		{"single pixel", createInMemoryImage(1, 1, color.RGBA{1, 2, 3, 255}), RGBColor{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AverageColor(tt.img)
			if err != nil {
				t.Fatalf("AverageColor failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("AverageColor: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAverageColor_HalfAndHalf(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			} else {
				img.Set(x, y, color.RGBA{200, 100, 50, 255})
			}
		}
	}

	got, err := AverageColor(img)
	if err != nil {
		t.Fatalf("AverageColor failed: %v", err)
	}
	if absDiff(got.R, 100) > 1 || absDiff(got.G, 50) > 1 || absDiff(got.B, 25) > 1 {
		t.Errorf("AverageColor: got %v, want about (100,50,25)", got)
	}
}

func TestAverageColor_Empty(t *testing.T) {
	if _, err := AverageColor(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("AverageColor should fail for an empty image")
	}
}

func TestCloneNRGBA(t *testing.T) {
	img := createPatternImage(10, 10)
	c := CloneNRGBA(img.SubImage(image.Rect(5, 5, 10, 10)))

	if c.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Errorf("bounds: got %v", c.Bounds())
	}
	img.Set(7, 7, color.Black)
	if got := FromColor(c.At(2, 2)); got != (RGBColor{255, 255, 255}) {
		t.Errorf("clone shares pixels with source: got %v", got)
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
