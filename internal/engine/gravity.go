package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// minSeparationSq guards against self-force and division blow-up when a
	// body and an aggregate mass center (numerically) coincide.
	minSeparationSq = 1e-12

	// contactSlack widens the pair cutoff slightly beyond touching radii.
	// Pairs inside the cutoff exchange no gravity; the overlap resolver
	// handles them instead.
	contactSlack = 1.05
)

// An Evaluator accumulates gravitational accelerations into every body's
// transient acceleration field. Accelerations are zeroed by the caller
// before the pass.
type Evaluator interface {
	Accelerate(bodies []*Body) error
}

// pairAccel returns the acceleration on a body of position p due to a point
// mass m at q, or zero when the separation is below the cutoff.
func pairAccel(g float64, p, q r3.Vec, m, cutoff float64) r3.Vec {
	d := q.Sub(p)
	d2 := r3.Norm2(d)
	if d2 < minSeparationSq || d2 < cutoff*cutoff {
		return r3.Vec{}
	}
	return d.Scale(g * m / (d2 * math.Sqrt(d2)))
}

// Direct is the exact O(n²) evaluator: every unordered pair interacts once,
// with equal and opposite contributions. It is the correctness baseline for
// the Barnes-Hut evaluator and the fallback when tree construction fails or
// theta is zero.
type Direct struct {
	G float64
}

// NewDirect returns a brute-force evaluator using gravitational constant g.
func NewDirect(g float64) *Direct {
	return &Direct{G: g}
}

func (d *Direct) Accelerate(bodies []*Body) error {
	for i := 0; i < len(bodies); i++ {
		bi := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			bj := bodies[j]
			cutoff := contactSlack * (bi.Radius + bj.Radius)
			dv := bj.Pos.Sub(bi.Pos)
			d2 := r3.Norm2(dv)
			if d2 < minSeparationSq || d2 < cutoff*cutoff {
				continue
			}
			inv := 1 / (d2 * math.Sqrt(d2))
			bi.acc = bi.acc.Add(dv.Scale(d.G * bj.Mass * inv))
			bj.acc = bj.acc.Sub(dv.Scale(d.G * bi.Mass * inv))
		}
	}
	return nil
}
