package halide

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// EstimateActivation probes the expected activated fraction for a configured
// RandomScatter run by exposing throwaway grains at random positions. Cheap
// relative to a full run; useful for sanity-checking exposure time before
// committing to millions of grains.
func EstimateActivation(field *Field, cfg *Config, trials int) Real {
	if trials <= 0 {
		return 0
	}
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > trials {
		workers = trials
	}

	per, rem := trials/workers, trials%workers
	var wg sync.WaitGroup
	hitsCh := make(chan int, workers)

	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		if n == 0 {
			continue
		}
		wg.Add(1)
		go func(wid, n int) {
			defer wg.Done()
			src := rand.NewPCG(workerSeed(cfg.Seed, wid), streamProbe)
			rng := rand.New(src)
			radius := distuv.Uniform{Min: cfg.RadiusRange.Min, Max: cfg.RadiusRange.Max, Src: src}
			absorb := distuv.Uniform{Min: cfg.AbsorptionRange.Min, Max: cfg.AbsorptionRange.Max, Src: src}
			thrSpan := cfg.LatentThresholdRange.Max - cfg.LatentThresholdRange.Min

			localHits := 0
			for i := 0; i < n; i++ {
				g := Grain{
					X:                     rng.IntN(field.Width),
					Y:                     rng.IntN(field.Height),
					Radius:                radius.Rand(),
					LatentThreshold:       cfg.LatentThresholdRange.Min + rng.IntN(thrSpan),
					AbsorptionProbability: absorb.Rand(),
				}
				g.ExposeBinomial(src, field.At(g.X, g.Y), cfg.ExposureTime)
				if g.Activated {
					localHits++
				}
			}
			hitsCh <- localHits
		}(w, n)
	}

	wg.Wait()
	close(hitsCh)

	totalHits := 0
	for h := range hitsCh {
		totalHits += h
	}
	return Real(totalHits) / Real(trials)
}
