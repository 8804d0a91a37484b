package halide

// Real is the scalar type used across the simulation.
type Real = float64

// Field is a dense single-channel exposure field over a width×height canvas.
// Values are non-negative light intensities, one per pixel, stored row-major
// in a flat buffer.
type Field struct {
	Width, Height int
	Buf           []Real // flat: y*Width + x
}

// NewField allocates a zero-initialized field.
func NewField(width, height int) *Field {
	if width <= 0 || height <= 0 {
		panic("field dimensions must be positive")
	}
	return &Field{Width: width, Height: height, Buf: make([]Real, width*height)}
}

func (f *Field) idx(x, y int) int { return y*f.Width + x }

// At returns the intensity at (x, y). No bounds check; callers stay in range.
func (f *Field) At(x, y int) Real { return f.Buf[f.idx(x, y)] }

// Set writes the intensity at (x, y).
func (f *Field) Set(x, y int, v Real) { f.Buf[f.idx(x, y)] = v }
