package metrics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravlab/internal/engine"
)

// Containment reports the fraction of observations where every body stayed
// within the given radius of the barycenter. A falling value flags escapers.
type Containment struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		name:   "containment",
		radius: radius,
	}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(bodies []*engine.Body, t float64) {
	c.samples++
	center, mass := barycenter(bodies)
	if mass == 0 {
		return
	}
	for _, b := range bodies {
		if r3.Norm(b.Pos.Sub(center)) > c.radius {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
