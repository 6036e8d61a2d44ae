package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravlab/internal/engine"
)

// Metric accumulates a diagnostic over the body set as a run progresses.
type Metric interface {
	Name() string
	Observe(bodies []*engine.Body, t float64)
	Value() float64
	Reset()
}

func totalEnergy(g float64, bodies []*engine.Body) float64 {
	var ke, pe float64
	for i, b := range bodies {
		ke += 0.5 * b.Mass * r3.Norm2(b.Vel)
		for j := i + 1; j < len(bodies); j++ {
			o := bodies[j]
			r := r3.Norm(o.Pos.Sub(b.Pos))
			if r > 0 {
				pe -= g * b.Mass * o.Mass / r
			}
		}
	}
	return ke + pe
}

func totalMomentum(bodies []*engine.Body) r3.Vec {
	var p r3.Vec
	for _, b := range bodies {
		p = p.Add(b.Vel.Scale(b.Mass))
	}
	return p
}

func barycenter(bodies []*engine.Body) (r3.Vec, float64) {
	var c r3.Vec
	var m float64
	for _, b := range bodies {
		c = c.Add(b.Pos.Scale(b.Mass))
		m += b.Mass
	}
	if m == 0 {
		return r3.Vec{}, 0
	}
	return c.Scale(1 / m), m
}
