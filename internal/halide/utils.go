package halide

import (
	"math"
)

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// workerSeed derives an independent per-worker seed from the run seed.
func workerSeed(seed uint64, wid int) uint64 {
	return seed ^ uint64(wid)*0x9e3779b97f4a7c15
}
