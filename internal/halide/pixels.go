package halide

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// LoadIntensityPNG decodes a PNG into a normalized [0,1] intensity field.
// Color inputs are collapsed through the 16-bit gray model so 16-bit sources
// keep their precision.
func LoadIntensityPNG(path string) (*Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image %s", path)
	}

	field := NewField(b.Dx(), b.Dy())
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			field.Set(x, y, Real(g.Y)/65535.0)
		}
	}
	return field, nil
}

// SaveNegativePNG writes the rendered negative losslessly.
func SaveNegativePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
