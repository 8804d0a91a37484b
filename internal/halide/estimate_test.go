package halide

import (
	"testing"
)

func TestEstimateActivationBrightField(t *testing.T) {
	cfg := brightConfig(t, 51)
	field := uniformField(8, 8, 1)
	p := EstimateActivation(field, cfg, 2000)
	if p < 0.95 || p > 1.0000001 {
		t.Fatalf("unexpected activation estimate on bright field: %.6f", p)
	}
}

func TestEstimateActivationDarkField(t *testing.T) {
	cfg := brightConfig(t, 52)
	field := NewField(8, 8)
	if p := EstimateActivation(field, cfg, 2000); p != 0 {
		t.Fatalf("dark field estimated %.6f, want 0", p)
	}
}

func TestEstimateActivationNoTrials(t *testing.T) {
	cfg := brightConfig(t, 53)
	if p := EstimateActivation(uniformField(4, 4, 1), cfg, 0); p != 0 {
		t.Fatalf("zero trials estimated %.6f", p)
	}
}
