package halide

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeInputPNG writes a uniform bright 8x8 source frame.
func writeInputPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestRunEndToEndScatter(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.png")
	output := filepath.Join(dir, "negative.png")
	writeInputPNG(t, input)

	cfgBody := fmt.Sprintf(`{
		"input": %q,
		"output": %q,
		"numGrains": 4000,
		"latentThresholdRange": {"min": 1, "max": 2},
		"absorptionRange": {"min": 0.8, "max": 0.9},
		"seed": 1234
	}`, input, output)
	cfgPath := filepath.Join(dir, "film.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	require.NoError(t, Run(cfgPath))

	img := decodePNG(t, output)
	require.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	darkened := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if g := color.GrayModel.Convert(img.At(x, y)).(color.Gray); g.Y < 255 {
				darkened++
			}
		}
	}
	// 4000 activated grains on 64 pixels leave essentially nothing white
	assert.Greater(t, darkened, 32, "bright input produced no darkening")
}

func TestRunEndToEndGrid(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.png")
	output := filepath.Join(dir, "negative.png")
	writeInputPNG(t, input)

	cfgBody := fmt.Sprintf(`{
		"input": %q,
		"output": %q,
		"strategy": "grid",
		"samplesPerPixel": 2,
		"seed": 99
	}`, input, output)
	cfgPath := filepath.Join(dir, "film.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	require.NoError(t, Run(cfgPath))

	img := decodePNG(t, output)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			assert.Less(t, int(g.Y), 255, "grid pixel (%d,%d) stayed white", x, y)
		}
	}
}

// A zero population must leave the background canvas untouched.
func TestRunZeroGrains(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.png")
	output := filepath.Join(dir, "negative.png")
	writeInputPNG(t, input)

	cfgBody := fmt.Sprintf(`{"input": %q, "output": %q, "numGrains": 0, "seed": 5}`, input, output)
	cfgPath := filepath.Join(dir, "film.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	require.NoError(t, Run(cfgPath))

	img := decodePNG(t, output)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			require.EqualValues(t, 255, g.Y, "pixel (%d,%d) not background", x, y)
		}
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfgBody := fmt.Sprintf(`{"input": %q, "seed": 5}`, filepath.Join(dir, "absent.png"))
	cfgPath := filepath.Join(dir, "film.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))
	assert.Error(t, Run(cfgPath))
}

func TestRunMissingConfig(t *testing.T) {
	assert.Error(t, Run(filepath.Join(t.TempDir(), "absent.json")))
}

func TestSaveCurvePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.png")
	require.NoError(t, SaveCurvePlot(testCurve(), 1.0, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
