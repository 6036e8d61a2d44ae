// Package engine implements the gravitational N-body core: an octree-based
// Barnes-Hut force evaluator with an exact pairwise fallback, a time-scaled
// semi-implicit Euler stepper with adaptive substepping, and a spatial-hash
// overlap resolver.
//
// The engine is unit-agnostic: positions, masses, and the gravitational
// constant only have to agree with each other. The defaults assume
// kilometers, kilograms, and seconds (G = 6.6743e-20 km³/(kg·s²)), with the
// time scale expressed in simulated days per wall-clock second.
//
// A typical frame:
//
//	eng := engine.New(engine.Defaults())
//	eng.AddBody(sun)
//	eng.AddBody(earth)
//	for {
//	    eng.Tick(time.Now())
//	    // read back body positions for display
//	}
//
// The caller owns the body set; the engine never destroys a body on its own.
package engine
