package halide

import (
	"fmt"
	"strings"
	"time"
)

// Run executes one full pipeline from a JSON config: decode input →
// halation → generate → expose → develop → render → encode negative.
// One-shot batch transform; any stage failure halts the run with no partial
// output.
func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	field, err := LoadIntensityPNG(cfg.Input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	width, height := field.Width, field.Height
	DebugLog("Input %s: %dx%d", cfg.Input, width, height)

	start := time.Now()
	diffused := Diffuse(field, *cfg.ReflectionFactor, cfg.SigmaDown, cfg.SigmaUp)
	DebugLog("Halation (reflection=%g, σ=%g/%g): %s",
		*cfg.ReflectionFactor, cfg.SigmaDown, cfg.SigmaUp, time.Since(start))

	strat := cfg.GrainStrategy()
	t := time.Now()
	em, err := Generate(width, height, diffused, strat, cfg)
	if err != nil {
		return err
	}
	DebugLog("Generated %d grains: %s", len(em.Grains), time.Since(t))

	if cfg.DedupePositions {
		before := len(em.Grains)
		em.DedupePositions(width, height)
		DebugLog("Dedupe dropped %d grains", before-len(em.Grains))
	}

	if strat.Kind == RandomScatter {
		if Debug {
			p := EstimateActivation(diffused, cfg, ProbeTrials)
			DebugLog("Estimated activated fraction: %.4f", p)
		}
		t = time.Now()
		ExposeAll(em, diffused, cfg.ExposureTime, cfg.Seed)
		DebugLog("Exposure: %s", time.Since(t))
	}
	// PerPixelGrid ran its exposure trials during generation.

	t = time.Now()
	dev := &Developer{Strength: cfg.Developer.Strength, MaxDevelopment: cfg.Developer.MaxDevelopment}
	DevelopAll(em, dev, cfg.DevelopmentDt)
	DebugLog("Development: %s", time.Since(t))

	curve := &CurveParams{DMin: cfg.DMin, DMax: cfg.DMax, Gamma: cfg.Gamma, E0: cfg.E0}
	if Debug {
		plotPath := strings.TrimSuffix(cfg.Output, ".png") + "_curve.png"
		if err := SaveCurvePlot(curve, dev.MaxDevelopment, plotPath); err != nil {
			DebugLog("Curve plot failed: %v", err)
		} else {
			DebugLog("Saved curve plot: %s", plotPath)
		}
	}

	t = time.Now()
	if PNG16 {
		img := Render16(em, width, height, curve, cfg.DiskRender)
		if err := SaveNegativePNG(img, cfg.Output); err != nil {
			return fmt.Errorf("writing negative: %w", err)
		}
	} else {
		img := Render(em, width, height, curve, cfg.DiskRender)
		if err := SaveNegativePNG(img, cfg.Output); err != nil {
			return fmt.Errorf("writing negative: %w", err)
		}
	}
	DebugLog("Render+save %s: %s, total %s", cfg.Output, time.Since(t), time.Since(start))
	return nil
}
