package engine

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func benchCluster(n int) []*Body {
	rng := rand.New(rand.NewSource(42))
	bodies := make([]*Body, n)
	for i := range bodies {
		bodies[i] = &Body{
			ID:   string(rune('a'+i%26)) + string(rune('0'+i/26)),
			Mass: 1e24 * (1 + rng.Float64()),
			Pos: r3.Vec{
				X: (rng.Float64() - 0.5) * 10 * au,
				Y: (rng.Float64() - 0.5) * 10 * au,
				Z: (rng.Float64() - 0.5) * 10 * au,
			},
		}
	}
	return bodies
}

func BenchmarkTreeBuild100(b *testing.B) {
	bodies := benchCluster(100)
	tree := NewOctree(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Build(bodies)
	}
}

func BenchmarkTreeBuild1000(b *testing.B) {
	bodies := benchCluster(1000)
	tree := NewOctree(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Build(bodies)
	}
}

func BenchmarkBarnesHut100(b *testing.B) {
	bodies := benchCluster(100)
	bh := NewBarnesHut(gKm, 0.5, 0)
	bh.Workers = 1

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Accelerate(bodies)
	}
}

func BenchmarkBarnesHut1000(b *testing.B) {
	bodies := benchCluster(1000)
	bh := NewBarnesHut(gKm, 0.5, 0)
	bh.Workers = 1

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Accelerate(bodies)
	}
}

func BenchmarkBarnesHutParallel1000(b *testing.B) {
	bodies := benchCluster(1000)
	bh := NewBarnesHut(gKm, 0.5, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Accelerate(bodies)
	}
}

func BenchmarkDirect100(b *testing.B) {
	bodies := benchCluster(100)
	direct := NewDirect(gKm)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = direct.Accelerate(bodies)
	}
}

func BenchmarkDirect1000(b *testing.B) {
	bodies := benchCluster(1000)
	direct := NewDirect(gKm)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = direct.Accelerate(bodies)
	}
}

func BenchmarkEngineStep500(b *testing.B) {
	p := Defaults()
	eng := New(p)
	for _, body := range benchCluster(500) {
		eng.AddBody(body)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.Step(0.016)
	}
}
