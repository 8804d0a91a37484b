package halide

var (
	Debug    = false // set to true for verbose debug output
	UseLocks = true  // set to false to disable sharded pixel locks and render serially
	PNG16    = false // set to true to save the negative as a 16-bit per channel lossless PNG
	Progress = true  // set to false to silence per-stage progress prints
)
