package halide

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestPNGIntensityRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.White)
	img.Set(1, 0, color.Black)
	img.Set(2, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	img.Set(0, 1, color.White)
	img.Set(1, 1, color.White)
	img.Set(2, 1, color.White)

	path := filepath.Join(t.TempDir(), "in.png")
	if err := SaveNegativePNG(img, path); err != nil {
		t.Fatal(err)
	}

	field, err := LoadIntensityPNG(path)
	if err != nil {
		t.Fatal(err)
	}
	if field.Width != 3 || field.Height != 2 {
		t.Fatalf("field %dx%d, want 3x2", field.Width, field.Height)
	}
	if field.At(0, 0) != 1 {
		t.Fatalf("white pixel loaded as %.6f", field.At(0, 0))
	}
	if field.At(1, 0) != 0 {
		t.Fatalf("black pixel loaded as %.6f", field.At(1, 0))
	}
	if mid := field.At(2, 0); mid <= 0.4 || mid >= 0.6 {
		t.Fatalf("mid gray loaded as %.6f", mid)
	}
}

func TestLoadIntensityPNGMissing(t *testing.T) {
	if _, err := LoadIntensityPNG(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadIntensityPNGNotPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIntensityPNG(path); err == nil {
		t.Fatal("expected decode error")
	}
}
