package halide

// Defaults applied by loadConfig when the JSON omits a value.
const (
	NumGrains        = 10_000_000
	ExposureTime     = 700.0
	RadiusMin        = 0.1 // microns
	RadiusMax        = 0.5
	ThresholdMin     = 5
	ThresholdMax     = 20 // exclusive
	AbsorptionMin    = 0.3
	AbsorptionMax    = 0.6
	GridThreshold    = 10
	GridAbsorption   = 0.9
	DevStrength      = 0.1
	DevMax           = 1.0
	DevelopmentDt    = 0.1
	ReflectionFactor = 0.2
	SigmaDown        = 2.0
	SigmaUp          = 4.0
	DMin             = 0.1
	DMax             = 2.2
	CurveGamma       = 0.7
	CurveE0          = 0.01
	NegativeOut      = "negative.png"
	ProbeTrials      = 100_000
	NumShards        = 1024
	// hot-loop constants
	epsLatent     = 1e-6
	minKernelSize = 3
)

// Distinct PCG streams so pipeline stages never share a random sequence.
const (
	streamGenerate uint64 = 1
	streamExpose   uint64 = 2
	streamProbe    uint64 = 3
)
