package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravlab/internal/engine"
)

// MomentumDrift tracks the worst deviation of total linear momentum from
// its value at the first observation, relative to the initial magnitude.
// When the set starts at rest the drift is reported in absolute terms.
type MomentumDrift struct {
	name        string
	initial     r3.Vec
	initialNorm float64
	maxDrift    float64
	samples     int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{
		name: "momentum_drift",
	}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(bodies []*engine.Body, t float64) {
	p := totalMomentum(bodies)

	if m.samples == 0 {
		m.initial = p
		m.initialNorm = r3.Norm(p)
	}
	m.samples++

	drift := r3.Norm(p.Sub(m.initial))
	if m.initialNorm > 0 {
		drift /= m.initialNorm
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = r3.Vec{}
	m.initialNorm = 0
	m.maxDrift = 0
	m.samples = 0
}
