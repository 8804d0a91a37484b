package halide

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Grain is a single silver-halide crystal, the atomic unit of the simulation.
// Position, radius, threshold and absorption probability are fixed at
// creation; SilverCount/Activated mutate during exposure, DevelopedFraction
// during development.
type Grain struct {
	// position on the image canvas
	X, Y int

	// radius of the crystal in microns
	Radius Real

	// number of reduced metallic silver atoms accumulated so far
	SilverCount int
	// number of silver atoms needed to activate the grain
	LatentThreshold int

	// whether the latent image has crossed the threshold; once true,
	// further exposure has no effect
	Activated bool

	// per-photon capture probability, in (0, 1]
	AbsorptionProbability Real

	// reserved for wavelength weighting; not exercised by the
	// single-channel pipeline
	SpectralSensitivity Real

	// fraction of maximum development achieved, in [0, MaxDevelopment]
	DevelopedFraction Real
}

// Developer is the chemical bath, shared read-only by every grain during a
// development pass.
type Developer struct {
	Strength       Real // development rate constant, > 0
	MaxDevelopment Real // saturation ceiling for DevelopedFraction, > 0
}

// photonCount is the deterministic discretization of the incident photon
// flux over the grain's cross-section.
func (g *Grain) photonCount(intensity, exposureTime Real) int {
	area := math.Pi * g.Radius * g.Radius
	return int(intensity * area * exposureTime)
}

// Expose runs one Bernoulli trial per incident photon; each absorbed photon
// reduces one silver atom. Processing stops the moment the latent threshold
// is crossed, so SilverCount never exceeds LatentThreshold.
func (g *Grain) Expose(rng *rand.Rand, intensity, exposureTime Real) {
	if g.Activated {
		return
	}
	n := g.photonCount(intensity, exposureTime)
	for i := 0; i < n; i++ {
		if rng.Float64() < g.AbsorptionProbability {
			g.SilverCount++
			if g.SilverCount >= g.LatentThreshold {
				g.Activated = true
				return
			}
		}
	}
}

// ExposeBinomial samples the absorbed photon count directly from
// Binomial(photonCount, AbsorptionProbability) instead of iterating per
// photon. Distributionally equivalent to Expose, including the threshold
// cap: the sequential loop stops at the threshold, so the final count is
// min(threshold, prior + absorbed) either way. This is the fast path at
// grain counts in the millions.
func (g *Grain) ExposeBinomial(src rand.Source, intensity, exposureTime Real) {
	if g.Activated {
		return
	}
	n := g.photonCount(intensity, exposureTime)
	if n == 0 {
		return
	}
	bin := distuv.Binomial{N: Real(n), P: g.AbsorptionProbability, Src: src}
	absorbed := int(bin.Rand())
	if need := g.LatentThreshold - g.SilverCount; absorbed >= need {
		g.SilverCount = g.LatentThreshold
		g.Activated = true
		return
	}
	g.SilverCount += absorbed
}

// Develop applies one forward-Euler step of the development kinetics:
// the rate depends only on the latent ratio, so repeated small steps and one
// large step of the same total dt are equivalent. Grains with an essentially
// empty latent image are left untouched.
func (g *Grain) Develop(dev *Developer, dt Real) {
	latentRatio := Real(g.SilverCount) / Real(g.LatentThreshold)
	if latentRatio <= epsLatent {
		return
	}
	g.DevelopedFraction += dev.Strength * latentRatio * dt
	if g.DevelopedFraction > dev.MaxDevelopment {
		g.DevelopedFraction = dev.MaxDevelopment
	}
}
