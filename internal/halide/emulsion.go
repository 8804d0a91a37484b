package halide

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// StrategyKind selects how the grain population is laid out on the canvas.
type StrategyKind int

const (
	// RandomScatter draws every grain property independently at random.
	RandomScatter StrategyKind = iota
	// PerPixelGrid places exactly one grain per canvas pixel.
	PerPixelGrid
)

// Strategy is the tagged variant choosing the population model, fixed at
// emulsion construction time so the rest of the pipeline stays
// strategy-agnostic.
type Strategy struct {
	Kind            StrategyKind
	NumGrains       int // RandomScatter population size
	SamplesPerPixel int // PerPixelGrid candidates averaged per pixel
}

// Emulsion owns the grain population exclusively. Its size is immutable
// after generation; grains are mutated in place by the exposure and
// development stages and read by the renderer.
type Emulsion struct {
	Grains []Grain
}

// Generate instantiates the grain population for the given canvas.
// PerPixelGrid additionally consumes the exposure field: its candidates run
// their stochastic exposure trials during generation, so the caller must not
// run a separate exposure pass over a grid emulsion.
func Generate(width, height int, field *Field, strat Strategy, cfg *Config) (*Emulsion, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %dx%d", width, height)
	}
	switch strat.Kind {
	case RandomScatter:
		return generateScatter(width, height, strat.NumGrains, cfg), nil
	case PerPixelGrid:
		if field == nil {
			return nil, fmt.Errorf("per-pixel grid generation needs an exposure field")
		}
		return generateGrid(width, height, field, strat.SamplesPerPixel, cfg), nil
	default:
		return nil, fmt.Errorf("unknown generation strategy %d", strat.Kind)
	}
}

// generateScatter fills a preallocated slice with workers writing disjoint
// index ranges. No shared append target, so millions of insertions never
// contend on a lock.
func generateScatter(width, height, n int, cfg *Config) *Emulsion {
	if n <= 0 {
		return &Emulsion{}
	}
	grains := make([]Grain, n)

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
		go func(wid, lo, hi int) {
			defer wg.Done()
			src := rand.NewPCG(workerSeed(cfg.Seed, wid), streamGenerate)
			rng := rand.New(src)
			radius := distuv.Uniform{Min: cfg.RadiusRange.Min, Max: cfg.RadiusRange.Max, Src: src}
			absorb := distuv.Uniform{Min: cfg.AbsorptionRange.Min, Max: cfg.AbsorptionRange.Max, Src: src}
			thrSpan := cfg.LatentThresholdRange.Max - cfg.LatentThresholdRange.Min
			for i := lo; i < hi; i++ {
				grains[i] = Grain{
					X:                     rng.IntN(width),
					Y:                     rng.IntN(height),
					Radius:                radius.Rand(),
					LatentThreshold:       cfg.LatentThresholdRange.Min + rng.IntN(thrSpan),
					AbsorptionProbability: absorb.Rand(),
				}
			}
		}(w, lo, lo+count)
		lo += count
	}
	wg.Wait()
	return &Emulsion{Grains: grains}
}

// generateGrid builds exactly one grain per pixel. Each of the spp candidates
// runs its own stochastic exposure trial at the pixel's intensity; their
// silver counts are averaged by integer division into the retained grain.
// The population is deterministic (width*height) even though each grain's
// exposure outcome is not.
func generateGrid(width, height int, field *Field, spp int, cfg *Config) *Emulsion {
	if spp <= 0 {
		return &Emulsion{}
	}
	grains := make([]Grain, width*height)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}
	rowsPer, rem := height/workers, height%workers

	var wg sync.WaitGroup
	wg.Add(workers)
	y0 := 0
	for w := 0; w < workers; w++ {
		rows := rowsPer
		if w < rem {
			rows++
		}
		go func(wid, y0, y1 int) {
			defer wg.Done()
			src := rand.NewPCG(workerSeed(cfg.Seed, wid), streamGenerate)
			radius := distuv.Uniform{Min: cfg.RadiusRange.Min, Max: cfg.RadiusRange.Max, Src: src}
			for y := y0; y < y1; y++ {
				for x := 0; x < width; x++ {
					intensity := field.At(x, y)
					r := radius.Rand()
					total := 0
					for s := 0; s < spp; s++ {
						cand := Grain{
							X: x, Y: y,
							Radius:                r,
							LatentThreshold:       cfg.GridLatentThreshold,
							AbsorptionProbability: cfg.GridAbsorption,
						}
						cand.ExposeBinomial(src, intensity, cfg.ExposureTime)
						total += cand.SilverCount
					}
					g := Grain{
						X: x, Y: y,
						Radius:                r,
						SilverCount:           total / spp,
						LatentThreshold:       cfg.GridLatentThreshold,
						AbsorptionProbability: cfg.GridAbsorption,
					}
					g.Activated = g.SilverCount >= g.LatentThreshold
					grains[y*width+x] = g
				}
			}
		}(w, y0, y0+rows)
		y0 += rows
	}
	wg.Wait()
	return &Emulsion{Grains: grains}
}

// DedupePositions drops all but the first grain at each canvas position.
// A post-generation filter over a dense position grid; generation itself
// never coordinates on uniqueness. Grains outside the canvas are kept (the
// renderer skips them anyway).
func (e *Emulsion) DedupePositions(width, height int) {
	seen := make([]bool, width*height)
	kept := e.Grains[:0]
	for _, g := range e.Grains {
		if g.X >= 0 && g.Y >= 0 && g.X < width && g.Y < height {
			i := g.Y*width + g.X
			if seen[i] {
				continue
			}
			seen[i] = true
		}
		kept = append(kept, g)
	}
	e.Grains = kept
}
