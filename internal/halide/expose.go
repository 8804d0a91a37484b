package halide

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
)

// ExposeAll runs the stochastic exposure stage: every grain reads the
// intensity at its own pixel from the (post-halation) field and absorbs
// photons via the binomial fast path. Workers own disjoint grain ranges, so
// no grain is ever touched twice.
func ExposeAll(em *Emulsion, field *Field, exposureTime Real, seed uint64) {
	n := len(em.Grains)
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

	var counter int64
	nextPrint := int64(1)
	if n >= 100 {
		nextPrint = int64(n / 100) // ~1%
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	lo := 0
	for w := 0; w < workers; w++ {
		count := per
		if w < rem {
			count++
		}
		go func(wid, lo, hi int) {
			defer wg.Done()
			src := rand.NewPCG(workerSeed(seed, wid), streamExpose)
			for i := lo; i < hi; i++ {
				g := &em.Grains[i]
				// grains off the canvas see no light
				if g.X >= 0 && g.Y >= 0 && g.X < field.Width && g.Y < field.Height {
					g.ExposeBinomial(src, field.At(g.X, g.Y), exposureTime)
				}
				done := atomic.AddInt64(&counter, 1)
				if Progress && done%nextPrint == 0 {
					fmt.Printf("[EXPOSE] %.2f%%\n", Real(done)*100/Real(n))
				}
			}
		}(w, lo, lo+count)
		lo += count
	}
	wg.Wait()
}
