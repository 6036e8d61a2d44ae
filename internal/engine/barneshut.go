package engine

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// BarnesHut approximates gravity in O(n log n) by walking an octree per
// body: a distant subtree acts as a single point mass when its size-to-
// distance ratio falls below Theta, otherwise the walk recurses.
//
// Theta = 0 degenerates to exact pairwise evaluation (every walk reaches
// individual leaves); 0.5 is the conventional accuracy/cost balance.
type BarnesHut struct {
	G     float64
	Theta float64

	// Workers fans the per-body walk across goroutines: 0 means NumCPU,
	// 1 runs serially. The tree is immutable during evaluation and each
	// goroutine writes only its own bodies' accelerations.
	Workers int

	tree *Octree
}

// NewBarnesHut returns an evaluator with the given constants over a
// dedicated octree arena. maxDepth <= 0 selects DefaultMaxDepth.
func NewBarnesHut(g, theta float64, maxDepth int) *BarnesHut {
	return &BarnesHut{G: g, Theta: theta, tree: NewOctree(maxDepth)}
}

// Tree exposes the evaluator's octree, rebuilt by the latest Accelerate.
func (bh *BarnesHut) Tree() *Octree { return bh.tree }

// Accelerate rebuilds the octree and accumulates accelerations for every
// body. A build failure is returned so the caller can fall back to the
// direct evaluator for the step.
func (bh *BarnesHut) Accelerate(bodies []*Body) error {
	if err := bh.tree.Build(bodies); err != nil {
		return err
	}
	if len(bodies) == 0 {
		return nil
	}

	workers := bh.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(bodies) {
		workers = len(bodies)
	}
	if workers == 1 {
		for _, b := range bodies {
			b.acc = b.acc.Add(bh.accelOn(b))
		}
		return nil
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < len(bodies); i += workers {
				b := bodies[i]
				b.acc = b.acc.Add(bh.accelOn(b))
			}
		}(w)
	}
	wg.Wait()
	return nil
}

// AccelOn returns the net acceleration the current tree exerts on b without
// mutating anything. The tree must have been built first.
func (bh *BarnesHut) AccelOn(b *Body) r3.Vec {
	return bh.accelOn(b)
}

func (bh *BarnesHut) accelOn(b *Body) r3.Vec {
	if len(bh.tree.nodes) == 0 {
		return r3.Vec{}
	}
	return bh.walk(b, 0)
}

func (bh *BarnesHut) walk(b *Body, ni int32) r3.Vec {
	n := &bh.tree.nodes[ni]
	if n.count == 0 {
		return r3.Vec{}
	}

	d := n.com.Sub(b.Pos)
	d2 := r3.Norm2(d)
	if d2 < minSeparationSq {
		// Coincident with the mass center: self-interaction or a
		// degenerate clump containing this body. No contribution.
		return r3.Vec{}
	}

	if n.count == 1 {
		other := bh.tree.bodies[n.body]
		if other == b {
			return r3.Vec{}
		}
		return pairAccel(bh.G, b.Pos, other.Pos, other.Mass, contactSlack*(b.Radius+other.Radius))
	}

	// Multi-body node: aggregate when the opening criterion s/d < theta
	// holds, or when the node is a depth-capped clump with no children.
	s := 2 * n.half
	if s*s < bh.Theta*bh.Theta*d2 || !n.hasChildren() {
		return pairAccel(bh.G, b.Pos, n.com, n.mass, 0)
	}

	var acc r3.Vec
	for _, ci := range n.children {
		if ci == noChild {
			continue
		}
		acc = acc.Add(bh.walk(b, ci))
	}
	return acc
}

func (n *onode) hasChildren() bool {
	for _, ci := range n.children {
		if ci != noChild {
			return true
		}
	}
	return false
}
