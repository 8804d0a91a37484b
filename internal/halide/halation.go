package halide

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// kernel2D is a normalized square Gaussian kernel.
type kernel2D struct {
	size int    // odd, >= minKernelSize
	w    []Real // size*size weights, sums to 1
}

// gaussianKernel builds a 2D Gaussian of the given sigma. Kernel size is
// 2*ceil(3*sigma)+1, clamped to at least minKernelSize.
func gaussianKernel(sigma Real) kernel2D {
	if sigma <= 0 {
		panic("sigma must be positive")
	}
	half := int(math.Ceil(3 * sigma))
	size := 2*half + 1
	if size < minKernelSize {
		size = minKernelSize
		half = size / 2
	}
	w := make([]Real, size*size)
	inv := 1 / (2 * sigma * sigma)
	for j := -half; j <= half; j++ {
		for i := -half; i <= half; i++ {
			r2 := Real(i*i + j*j)
			w[(j+half)*size+(i+half)] = math.Exp(-r2 * inv)
		}
	}
	floats.Scale(1/floats.Sum(w), w)
	return kernel2D{size: size, w: w}
}

// convolve applies the kernel to src, one worker per band of rows. Samples
// falling outside the canvas are skipped: no wraparound, no mirroring. Energy
// is lost near edges, which the halation model treats as film cut off at the
// frame boundary.
func convolve(src *Field, k kernel2D) *Field {
	dst := NewField(src.Width, src.Height)
	half := k.size / 2

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > src.Height {
		workers = src.Height
	}
	rowsPer, rem := src.Height/workers, src.Height%workers

	var wg sync.WaitGroup
	wg.Add(workers)
	y0 := 0
	for w := 0; w < workers; w++ {
		rows := rowsPer
		if w < rem {
			rows++
		}
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < src.Width; x++ {
					var sum Real
					for j := -half; j <= half; j++ {
						sy := y + j
						if sy < 0 || sy >= src.Height {
							continue
						}
						krow := k.w[(j+half)*k.size:]
						srow := src.Buf[sy*src.Width:]
						for i := -half; i <= half; i++ {
							sx := x + i
							if sx < 0 || sx >= src.Width {
								continue
							}
							sum += krow[i+half] * srow[sx]
						}
					}
					dst.Buf[y*src.Width+x] = sum
				}
			}
		}(y0, y0+rows)
		y0 += rows
	}
	wg.Wait()
	return dst
}

// Diffuse applies the halation approximation: light transmitted down through
// the emulsion (down-kernel blur), partially reflected off the film base
// (reflectionFactor), scattered back up (up-kernel blur), and added to the
// direct exposure. Output is unclamped; values above 1 are legitimate
// over-exposure handled downstream by development and the curve.
func Diffuse(input *Field, reflectionFactor, sigmaDown, sigmaUp Real) *Field {
	transmitted := convolve(input, gaussianKernel(sigmaDown))
	floats.Scale(reflectionFactor, transmitted.Buf)
	upward := convolve(transmitted, gaussianKernel(sigmaUp))

	out := NewField(input.Width, input.Height)
	floats.AddTo(out.Buf, input.Buf, upward.Buf)
	return out
}
