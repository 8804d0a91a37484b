package halide

import (
	"testing"
)

// brightConfig guarantees activation on a full-intensity field: threshold 1
// and a large photon budget per grain.
func brightConfig(t *testing.T, seed uint64) *Config {
	t.Helper()
	cfg := &Config{
		Input:                "in.png",
		Seed:                 seed,
		RadiusRange:          Range{Min: 0.3, Max: 0.5},
		LatentThresholdRange: IntRange{Min: 1, Max: 2},
		AbsorptionRange:      Range{Min: 0.8, Max: 0.9},
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	return cfg
}

func TestExposeAllBrightField(t *testing.T) {
	cfg := brightConfig(t, 41)
	field := uniformField(16, 16, 1)
	em, err := Generate(16, 16, nil, Strategy{Kind: RandomScatter, NumGrains: 500}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	ExposeAll(em, field, cfg.ExposureTime, cfg.Seed)
	for _, g := range em.Grains {
		if !g.Activated {
			t.Fatalf("bright-field grain not activated: %+v", g)
		}
		if g.Activated != (g.SilverCount >= g.LatentThreshold) {
			t.Fatalf("activation invariant broken: %+v", g)
		}
	}
}

func TestExposeAllDarkField(t *testing.T) {
	cfg := brightConfig(t, 43)
	field := NewField(16, 16)
	em, err := Generate(16, 16, nil, Strategy{Kind: RandomScatter, NumGrains: 500}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	ExposeAll(em, field, cfg.ExposureTime, cfg.Seed)
	for _, g := range em.Grains {
		if g.SilverCount != 0 || g.Activated {
			t.Fatalf("dark-field grain exposed: %+v", g)
		}
	}
}

func TestExposeAllEmptyEmulsion(t *testing.T) {
	ExposeAll(&Emulsion{}, uniformField(4, 4, 1), 100, 1)
}

func TestExposeAllOffCanvasGrainUntouched(t *testing.T) {
	em := &Emulsion{Grains: []Grain{
		{X: 100, Y: 100, Radius: 1, LatentThreshold: 1, AbsorptionProbability: 1},
	}}
	ExposeAll(em, uniformField(4, 4, 1), 100, 1)
	if em.Grains[0].SilverCount != 0 || em.Grains[0].Activated {
		t.Fatalf("off-canvas grain saw light: %+v", em.Grains[0])
	}
}
