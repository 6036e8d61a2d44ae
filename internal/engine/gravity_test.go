package engine

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	gKm = 6.6743e-20 // km³/(kg·s²)
	au  = 1.495978707e8
)

func accelerations(t *testing.T, ev Evaluator, bodies []*Body) []r3.Vec {
	t.Helper()
	for _, b := range bodies {
		b.acc = r3.Vec{}
	}
	if err := ev.Accelerate(bodies); err != nil {
		t.Fatalf("accelerate: %v", err)
	}
	out := make([]r3.Vec, len(bodies))
	for i, b := range bodies {
		out[i] = b.acc
	}
	return out
}

func TestDirectPairSymmetry(t *testing.T) {
	a := mustBody(t, "a", 3e24, 0, r3.Vec{X: -au / 2}, r3.Vec{})
	b := mustBody(t, "b", 7e24, 0, r3.Vec{X: au / 2, Y: 1e7}, r3.Vec{})

	acc := accelerations(t, NewDirect(gKm), []*Body{a, b})

	// Newton's third law: m1·a1 == -m2·a2.
	fa := acc[0].Scale(a.Mass)
	fb := acc[1].Scale(b.Mass)
	sum := fa.Add(fb)
	if r3.Norm(sum) > 1e-12*r3.Norm(fa) {
		t.Errorf("force asymmetry: %+v vs %+v", fa, fb)
	}
}

func TestDirectMomentumClosure(t *testing.T) {
	bodies := cluster(t, 30, 10*au, 11)
	acc := accelerations(t, NewDirect(gKm), bodies)

	var net r3.Vec
	var scale float64
	for i, b := range bodies {
		net = net.Add(acc[i].Scale(b.Mass))
		scale += r3.Norm(acc[i].Scale(b.Mass))
	}
	if r3.Norm(net) > 1e-10*scale {
		t.Errorf("net internal force %.3e of total %.3e", r3.Norm(net), scale)
	}
}

func TestBarnesHutMatchesDirectAtSmallTheta(t *testing.T) {
	bodies := cluster(t, 60, 10*au, 3)

	exact := accelerations(t, NewDirect(gKm), bodies)

	bh := NewBarnesHut(gKm, 1e-9, 0)
	bh.Workers = 1
	approx := accelerations(t, bh, bodies)

	for i := range bodies {
		diff := r3.Norm(approx[i].Sub(exact[i]))
		if diff > 1e-6*r3.Norm(exact[i]) {
			t.Errorf("body %d: relative error %.3e", i, diff/r3.Norm(exact[i]))
		}
	}
}

func TestBarnesHutErrorMonotoneInTheta(t *testing.T) {
	bodies := cluster(t, 80, 10*au, 5)
	exact := accelerations(t, NewDirect(gKm), bodies)

	thetas := []float64{1.2, 0.8, 0.5, 0.2, 0.0001}
	prev := math.Inf(1)
	for _, theta := range thetas {
		bh := NewBarnesHut(gKm, theta, 0)
		bh.Workers = 1
		approx := accelerations(t, bh, bodies)

		var sum float64
		for i := range bodies {
			sum += r3.Norm(approx[i].Sub(exact[i])) / r3.Norm(exact[i])
		}
		mean := sum / float64(len(bodies))

		if mean > prev*1.05+1e-18 {
			t.Errorf("theta %.4f: mean error %.3e exceeds %.3e at larger theta", theta, mean, prev)
		}
		prev = mean
	}
}

func TestTwoEarthMassesAtOneAU(t *testing.T) {
	m := 5.97e24
	a := mustBody(t, "a", m, 0, r3.Vec{}, r3.Vec{})
	b := mustBody(t, "b", m, 0, r3.Vec{X: au}, r3.Vec{})

	acc := accelerations(t, NewDirect(gKm), []*Body{a, b})

	want := gKm * m / (au * au)
	if math.Abs(r3.Norm(acc[0])-want) > 1e-9*want {
		t.Errorf("|a1| = %.6e, want %.6e", r3.Norm(acc[0]), want)
	}
	if acc[0].X <= 0 || acc[1].X >= 0 {
		t.Errorf("accelerations not mutually attractive: %+v %+v", acc[0], acc[1])
	}
	if math.Abs(acc[0].X+acc[1].X) > 1e-9*want {
		t.Errorf("accelerations not equal and opposite: %+v %+v", acc[0], acc[1])
	}
}

func TestContactCutoffSkipsPair(t *testing.T) {
	// Overlapping display radii: gravity is suppressed and left to the
	// overlap resolver instead of blowing up.
	a := mustBody(t, "a", 1e24, 1000, r3.Vec{}, r3.Vec{})
	b := mustBody(t, "b", 1e24, 1000, r3.Vec{X: 1500}, r3.Vec{})

	acc := accelerations(t, NewDirect(gKm), []*Body{a, b})
	if r3.Norm(acc[0]) != 0 || r3.Norm(acc[1]) != 0 {
		t.Errorf("expected zero acceleration inside contact cutoff, got %+v %+v", acc[0], acc[1])
	}

	bh := NewBarnesHut(gKm, 0.5, 0)
	bh.Workers = 1
	acc = accelerations(t, bh, []*Body{a, b})
	if r3.Norm(acc[0]) != 0 || r3.Norm(acc[1]) != 0 {
		t.Errorf("barnes-hut leaf pair should honor the cutoff, got %+v %+v", acc[0], acc[1])
	}
}

func TestBarnesHutParallelMatchesSerial(t *testing.T) {
	bodies := cluster(t, 100, 10*au, 13)

	serial := NewBarnesHut(gKm, 0.5, 0)
	serial.Workers = 1
	want := accelerations(t, serial, bodies)

	parallel := NewBarnesHut(gKm, 0.5, 0)
	parallel.Workers = 4
	got := accelerations(t, parallel, bodies)

	for i := range bodies {
		if got[i] != want[i] {
			t.Fatalf("body %d: parallel %+v != serial %+v", i, got[i], want[i])
		}
	}
}

func TestBarnesHutEmptySet(t *testing.T) {
	bh := NewBarnesHut(gKm, 0.5, 0)
	if err := bh.Accelerate(nil); err != nil {
		t.Fatalf("empty accelerate: %v", err)
	}
}
