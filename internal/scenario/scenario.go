// Package scenario builds ready-to-simulate body sets in km-kg-s units.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravlab/internal/engine"
)

const (
	G       = 6.6743e-20 // km³/(kg·s²)
	SunMass = 1.989e30
	AU      = 1.495978707e8
)

type planet struct {
	id     string
	mass   float64 // kg
	radius float64 // km
	orbit  float64 // km, mean distance from the Sun
	speed  float64 // km/s, mean orbital speed
}

var planets = []planet{
	{"mercury", 3.301e23, 2439.7, 5.791e7, 47.36},
	{"venus", 4.867e24, 6051.8, 1.0821e8, 35.02},
	{"earth", 5.972e24, 6371.0, 1.496e8, 29.78},
	{"mars", 6.417e23, 3389.5, 2.2794e8, 24.07},
	{"jupiter", 1.898e27, 69911, 7.7857e8, 13.07},
	{"saturn", 5.683e26, 58232, 1.4335e9, 9.68},
	{"uranus", 8.681e25, 25362, 2.8725e9, 6.80},
	{"neptune", 1.024e26, 24622, 4.4951e9, 5.43},
}

// Solar returns the Sun and the eight planets on circular starting orbits,
// all placed along +X with prograde velocity along +Y.
func Solar() []*engine.Body {
	bodies := make([]*engine.Body, 0, len(planets)+1)

	sun, _ := engine.NewBody("sun", SunMass, 695700, r3.Vec{}, r3.Vec{})
	bodies = append(bodies, sun)

	for _, p := range planets {
		b, _ := engine.NewBody(p.id, p.mass, p.radius,
			r3.Vec{X: p.orbit}, r3.Vec{Y: p.speed})
		bodies = append(bodies, b)
	}
	return bodies
}

// Binary returns two equal suns orbiting their common barycenter.
func Binary() []*engine.Body {
	sep := AU / 2
	// Each star circles the midpoint at half the relative orbital speed.
	v := 0.5 * math.Sqrt(G*SunMass/sep)

	a, _ := engine.NewBody("alpha", SunMass, 695700, r3.Vec{X: -sep / 2}, r3.Vec{Y: -v})
	b, _ := engine.NewBody("beta", SunMass, 695700, r3.Vec{X: sep / 2}, r3.Vec{Y: v})
	return []*engine.Body{a, b}
}

// Cluster returns a central sun with n-1 planet-mass bodies scattered in a
// disc, each on an approximately circular orbit. Deterministic for a seed.
func Cluster(n int, seed int64) []*engine.Body {
	if n < 1 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))

	bodies := make([]*engine.Body, 0, n)
	sun, _ := engine.NewBody("sun", SunMass, 695700, r3.Vec{}, r3.Vec{})
	bodies = append(bodies, sun)

	for i := 1; i < n; i++ {
		r := AU * (0.3 + 4*rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		pos := r3.Vec{
			X: r * math.Cos(theta),
			Y: r * math.Sin(theta),
			Z: r * 0.02 * (rng.Float64() - 0.5),
		}

		v := CircularOrbitSpeed(G, SunMass, r)
		vel := r3.Vec{X: -v * math.Sin(theta), Y: v * math.Cos(theta)}

		b, _ := engine.NewBody(fmt.Sprintf("body-%d", i), 1e23*(0.1+rng.Float64()), 3000, pos, vel)
		bodies = append(bodies, b)
	}
	return bodies
}

// CircularOrbitSpeed returns the speed for a circular orbit of radius r
// around a central mass m: sqrt(G·m/r).
func CircularOrbitSpeed(g, m, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * m / r)
}

// Build maps a scenario name to its body set. n and seed only apply to the
// cluster scenario.
func Build(name string, n int, seed int64) ([]*engine.Body, error) {
	switch name {
	case "solar":
		return Solar(), nil
	case "binary":
		return Binary(), nil
	case "cluster":
		if n <= 0 {
			n = 50
		}
		return Cluster(n, seed), nil
	default:
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
}

// Names lists the built-in scenarios.
func Names() []string {
	return []string{"solar", "binary", "cluster"}
}
