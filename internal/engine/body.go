package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is one gravitating object. Pos and Vel are mutated by the engine
// every step; acc is transient and only meaningful inside a force pass. Fixed
// bodies contribute gravity but are never moved.
type Body struct {
	ID     string
	Mass   float64
	Radius float64
	Pos    r3.Vec
	Vel    r3.Vec
	Fixed  bool

	acc r3.Vec
}

// NewBody validates and constructs a body. Mass must be positive, radius
// non-negative, and all state components finite.
func NewBody(id string, mass, radius float64, pos, vel r3.Vec) (*Body, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if mass <= 0 || math.IsNaN(mass) {
		return nil, ErrNonPositiveMass
	}
	if radius < 0 || math.IsNaN(radius) {
		return nil, ErrNegativeRadius
	}
	if !finiteVec(pos) || !finiteVec(vel) {
		return nil, ErrNonFinite
	}
	return &Body{ID: id, Mass: mass, Radius: radius, Pos: pos, Vel: vel}, nil
}

// Acceleration returns the acceleration accumulated by the most recent
// force pass. It is zeroed at the start of every pass.
func (b *Body) Acceleration() r3.Vec { return b.acc }

// ResetAccelerations clears the accumulated acceleration on every body.
// Callers driving an Evaluator outside the engine reset between passes.
func ResetAccelerations(bodies []*Body) {
	for _, b := range bodies {
		b.acc = r3.Vec{}
	}
}

func finiteVec(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
