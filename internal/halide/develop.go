package halide

// DevelopAll integrates one development step for every grain. The Developer
// is shared read-only; each worker mutates only its own grain range, so the
// pass needs no locking.
func DevelopAll(em *Emulsion, dev *Developer, dt Real) {
	forEachGrainRange(len(em.Grains), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			em.Grains[i].Develop(dev, dt)
		}
	})
}
