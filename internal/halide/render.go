package halide

import (
	"image"
	"math"
	"runtime"
	"sync"
)

// CurveParams defines the characteristic (H&D) curve mapping a grain's
// developed fraction to optical density. DMin < DMax, all positive.
type CurveParams struct {
	DMin  Real
	DMax  Real
	Gamma Real
	E0    Real
}

// Density evaluates the curve at the given developed fraction, clamped to
// [DMin, DMax]. Monotonically non-decreasing in the developed fraction.
func (c *CurveParams) Density(developedFraction Real) Real {
	e := developedFraction + c.E0
	d := c.DMin + c.Gamma*math.Log10(e/c.E0)
	if d < c.DMin {
		d = c.DMin
	}
	if d > c.DMax {
		d = c.DMax
	}
	return d
}

// norm maps density into [0,1] over the curve's dynamic range.
func (c *CurveParams) norm(developedFraction Real) Real {
	return (c.Density(developedFraction) - c.DMin) / (c.DMax - c.DMin)
}

// Intensity converts a developed fraction to an 8-bit negative pixel value:
// higher density, darker pixel.
func (c *CurveParams) Intensity(developedFraction Real) uint8 {
	v := math.Round(255 * (1 - c.norm(developedFraction)))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Intensity16 is the 16-bit variant used by the lossless PNG path.
func (c *CurveParams) Intensity16(developedFraction Real) uint16 {
	v := math.Round(65535 * (1 - c.norm(developedFraction)))
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

// Render paints every grain onto a white canvas as a photographic negative.
// Point rendering by default; with disk=true each grain paints a filled disk
// of its radius, clipped to the canvas. Grains off the canvas are skipped.
// When UseLocks is set the grain loop is parallel and same-pixel writes are
// serialized by sharded locks (last write wins, but never a data race).
func Render(em *Emulsion, width, height int, curve *CurveParams, disk bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF // opaque white background
	}
	put := func(x, y int, v uint8, locks *shardLocks) {
		p := y*img.Stride + x*4
		if locks != nil {
			locks.lock(p)
		}
		img.Pix[p+0] = v
		img.Pix[p+1] = v
		img.Pix[p+2] = v
		if locks != nil {
			locks.unlock(p)
		}
	}
	renderGrains(em, width, height, curve, disk, put)
	return img
}

// Render16 is the 16-bit per channel variant backing the PNG16 output path.
func Render16(em *Emulsion, width, height int, curve *CurveParams, disk bool) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	put16 := func(x, y int, v uint16, locks *shardLocks) {
		p := y*img.Stride + x*8
		if locks != nil {
			locks.lock(p)
		}
		// NRGBA64 stores big-endian uint16 per channel: R, G, B, A.
		img.Pix[p+0] = uint8(v >> 8)
		img.Pix[p+1] = uint8(v)
		img.Pix[p+2] = uint8(v >> 8)
		img.Pix[p+3] = uint8(v)
		img.Pix[p+4] = uint8(v >> 8)
		img.Pix[p+5] = uint8(v)
		if locks != nil {
			locks.unlock(p)
		}
	}
	renderGrains16(em, width, height, curve, disk, put16)
	return img
}

// renderGrains drives the grain loop, parallel when UseLocks allows it.
func renderGrains(em *Emulsion, width, height int, curve *CurveParams, disk bool, put func(x, y int, v uint8, locks *shardLocks)) {
	paint := func(g *Grain, locks *shardLocks) {
		if g.X < 0 || g.Y < 0 || g.X >= width || g.Y >= height {
			return
		}
		v := curve.Intensity(g.DevelopedFraction)
		if !disk {
			put(g.X, g.Y, v, locks)
			return
		}
		r := int(math.Ceil(g.Radius))
		r2 := g.Radius * g.Radius
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if Real(dx*dx+dy*dy) > r2 {
					continue
				}
				x, y := g.X+dx, g.Y+dy
				if x < 0 || y < 0 || x >= width || y >= height {
					continue
				}
				put(x, y, v, locks)
			}
		}
	}

	if !UseLocks {
		for i := range em.Grains {
			paint(&em.Grains[i], nil)
		}
		return
	}
	locks := &shardLocks{}
	forEachGrainRange(len(em.Grains), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			paint(&em.Grains[i], locks)
		}
	})
}

func renderGrains16(em *Emulsion, width, height int, curve *CurveParams, disk bool, put func(x, y int, v uint16, locks *shardLocks)) {
	paint := func(g *Grain, locks *shardLocks) {
		if g.X < 0 || g.Y < 0 || g.X >= width || g.Y >= height {
			return
		}
		v := curve.Intensity16(g.DevelopedFraction)
		if !disk {
			put(g.X, g.Y, v, locks)
			return
		}
		r := int(math.Ceil(g.Radius))
		r2 := g.Radius * g.Radius
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if Real(dx*dx+dy*dy) > r2 {
					continue
				}
				x, y := g.X+dx, g.Y+dy
				if x < 0 || y < 0 || x >= width || y >= height {
					continue
				}
				put(x, y, v, locks)
			}
		}
	}

	if !UseLocks {
		for i := range em.Grains {
			paint(&em.Grains[i], nil)
		}
		return
	}
	locks := &shardLocks{}
	forEachGrainRange(len(em.Grains), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			paint(&em.Grains[i], locks)
		}
	})
}

// forEachGrainRange fans n items out over NumCPU workers in disjoint ranges.
func forEachGrainRange(n int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	per, rem := n/workers, n%workers

	var wg sync.WaitGroup
	wg.Add(workers)
	lo := 0
	for w := 0; w < workers; w++ {
		count := per
		if w < rem {
			count++
		}
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, lo+count)
		lo += count
	}
	wg.Wait()
}
