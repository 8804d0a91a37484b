package halide

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Range bounds a uniform real draw over [Min, Max).
type Range struct {
	Min Real `json:"min"`
	Max Real `json:"max"`
}

// IntRange bounds a uniform integer draw over [Min, Max).
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DeveloperCfg mirrors Developer in the config file.
type DeveloperCfg struct {
	Strength       Real `json:"strength,omitempty"`
	MaxDevelopment Real `json:"maxDevelopment,omitempty"`
}

// Config is the full configuration surface of one simulation run. Zero
// values pick up defaults in normalize, except the population sizes and the
// reflection factor, where zero is meaningful: those use pointers so that an
// absent key and an explicit 0 can be told apart.
type Config struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`

	Strategy string `json:"strategy,omitempty"` // "random" (default) or "grid"

	NumGrains       *int `json:"numGrains,omitempty"`
	SamplesPerPixel *int `json:"samplesPerPixel,omitempty"`

	RadiusRange          Range    `json:"radiusRange,omitempty"`
	LatentThresholdRange IntRange `json:"latentThresholdRange,omitempty"`
	AbsorptionRange      Range    `json:"absorptionRange,omitempty"`
	GridLatentThreshold  int      `json:"gridLatentThreshold,omitempty"`
	GridAbsorption       Real     `json:"gridAbsorption,omitempty"`

	ExposureTime Real `json:"exposureTime,omitempty"`

	Developer     DeveloperCfg `json:"developer,omitempty"`
	DevelopmentDt Real         `json:"developmentDt,omitempty"`

	ReflectionFactor *Real `json:"reflectionFactor,omitempty"`
	SigmaDown        Real  `json:"sigmaDown,omitempty"`
	SigmaUp          Real  `json:"sigmaUp,omitempty"`

	DMin  Real `json:"dMin,omitempty"`
	DMax  Real `json:"dMax,omitempty"`
	Gamma Real `json:"gamma,omitempty"`
	E0    Real `json:"e0,omitempty"`

	DedupePositions bool   `json:"dedupePositions,omitempty"`
	DiskRender      bool   `json:"diskRender,omitempty"`
	Seed            uint64 `json:"seed,omitempty"` // 0 picks a time-based seed
}

// GrainStrategy resolves the config's strategy fields into the tagged
// variant consumed by Generate. Call after normalize.
func (c *Config) GrainStrategy() Strategy {
	if c.Strategy == "grid" {
		return Strategy{Kind: PerPixelGrid, SamplesPerPixel: *c.SamplesPerPixel}
	}
	return Strategy{Kind: RandomScatter, NumGrains: *c.NumGrains}
}

// normalize applies defaults and validates every randomized range before any
// simulation work begins. A misconfigured range is a configuration error,
// never a mid-run failure.
func (c *Config) normalize() error {
	if c.Output == "" {
		c.Output = NegativeOut
	}
	if c.NumGrains == nil {
		n := NumGrains
		c.NumGrains = &n
	}
	if c.SamplesPerPixel == nil {
		spp := 1
		c.SamplesPerPixel = &spp
	}
	if c.RadiusRange == (Range{}) {
		c.RadiusRange = Range{Min: RadiusMin, Max: RadiusMax}
	}
	if c.LatentThresholdRange == (IntRange{}) {
		c.LatentThresholdRange = IntRange{Min: ThresholdMin, Max: ThresholdMax}
	}
	if c.AbsorptionRange == (Range{}) {
		c.AbsorptionRange = Range{Min: AbsorptionMin, Max: AbsorptionMax}
	}
	if c.GridLatentThreshold <= 0 {
		c.GridLatentThreshold = GridThreshold
	}
	if c.GridAbsorption <= 0 {
		c.GridAbsorption = GridAbsorption
	}
	if c.ExposureTime <= 0 {
		c.ExposureTime = ExposureTime
	}
	if c.Developer.Strength <= 0 {
		c.Developer.Strength = DevStrength
	}
	if c.Developer.MaxDevelopment <= 0 {
		c.Developer.MaxDevelopment = DevMax
	}
	if c.DevelopmentDt <= 0 {
		c.DevelopmentDt = DevelopmentDt
	}
	if c.ReflectionFactor == nil {
		r := Real(ReflectionFactor)
		c.ReflectionFactor = &r
	}
	if c.SigmaDown <= 0 {
		c.SigmaDown = SigmaDown
	}
	if c.SigmaUp <= 0 {
		c.SigmaUp = SigmaUp
	}
	if c.DMin <= 0 {
		c.DMin = DMin
	}
	if c.DMax <= 0 {
		c.DMax = DMax
	}
	if c.Gamma <= 0 {
		c.Gamma = CurveGamma
	}
	if c.E0 <= 0 {
		c.E0 = CurveE0
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
		DebugLog("Seed not set, using %d", c.Seed)
	}

	if c.Input == "" {
		return fmt.Errorf("config has no input image")
	}
	switch c.Strategy {
	case "", "random", "grid":
	default:
		return fmt.Errorf("unknown strategy %q (want \"random\" or \"grid\")", c.Strategy)
	}
	if *c.NumGrains < 0 {
		return fmt.Errorf("numGrains must be >= 0, got %d", *c.NumGrains)
	}
	if *c.SamplesPerPixel < 0 {
		return fmt.Errorf("samplesPerPixel must be >= 0, got %d", *c.SamplesPerPixel)
	}
	if r := c.RadiusRange; r.Min <= 0 || r.Max <= r.Min {
		return fmt.Errorf("radiusRange must satisfy 0 < min < max, got [%g, %g)", r.Min, r.Max)
	}
	if r := c.LatentThresholdRange; r.Min < 1 || r.Max <= r.Min {
		return fmt.Errorf("latentThresholdRange must satisfy 1 <= min < max, got [%d, %d)", r.Min, r.Max)
	}
	if r := c.AbsorptionRange; r.Min <= 0 || r.Max <= r.Min || r.Max > 1 {
		return fmt.Errorf("absorptionRange must satisfy 0 < min < max <= 1, got [%g, %g)", r.Min, r.Max)
	}
	if c.GridAbsorption > 1 {
		return fmt.Errorf("gridAbsorption must be in (0, 1], got %g", c.GridAbsorption)
	}
	if rf := *c.ReflectionFactor; rf < 0 || rf > 1 {
		return fmt.Errorf("reflectionFactor must be in [0, 1], got %g", rf)
	}
	if c.DMax <= c.DMin {
		return fmt.Errorf("dMax must exceed dMin, got dMin=%g dMax=%g", c.DMin, c.DMax)
	}
	if !isFinite(c.ExposureTime) || !isFinite(c.SigmaDown) || !isFinite(c.SigmaUp) {
		return fmt.Errorf("non-finite parameter in config")
	}
	return nil
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	DebugLog("Loaded config from %s: strategy=%q, exposureTime=%g, dt=%g, seed=%d",
		path, cfg.Strategy, cfg.ExposureTime, cfg.DevelopmentDt, cfg.Seed)
	return &cfg, nil
}
