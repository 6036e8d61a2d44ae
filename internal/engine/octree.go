package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultMaxDepth bounds octree subdivision. Bodies at coincident or
	// near-coincident positions would otherwise recurse without end; at the
	// cap a node stops subdividing and only accumulates aggregates.
	DefaultMaxDepth = 32

	minRootSide = 1e-9
	noChild     = int32(-1)
)

// onode is one octant of the tree. Children are arena indices, noChild when
// absent. A node with count == 1 and body >= 0 is a single-body leaf; a node
// with count > 1 and no children is a depth-capped clump treated as a point
// mass by the evaluator.
type onode struct {
	center   r3.Vec
	half     float64
	com      r3.Vec
	mass     float64
	body     int32
	count    int32
	children [8]int32
}

// Octree is a Barnes-Hut spatial partition rebuilt from scratch every step.
// The node arena is reused across builds to avoid allocation churn.
type Octree struct {
	nodes    []onode
	bodies   []*Body
	maxDepth int
}

// NewOctree returns an empty tree. maxDepth <= 0 selects DefaultMaxDepth.
func NewOctree(maxDepth int) *Octree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Octree{maxDepth: maxDepth}
}

// Len reports the number of allocated nodes.
func (t *Octree) Len() int { return len(t.nodes) }

// Root returns the root aggregate mass and center of mass. Zero values for
// an empty tree.
func (t *Octree) Root() (mass float64, com r3.Vec) {
	if len(t.nodes) == 0 {
		return 0, r3.Vec{}
	}
	return t.nodes[0].mass, t.nodes[0].com
}

// Build reconstructs the tree from the given bodies. The root cube is the
// tightest axis-aligned cube around all positions, grown by 10% so edge
// bodies do not land exactly on octant boundaries. Bodies are referenced,
// not copied; the tree must not outlive a mutation of their positions.
func (t *Octree) Build(bodies []*Body) error {
	t.nodes = t.nodes[:0]
	t.bodies = bodies
	if len(bodies) == 0 {
		return nil
	}

	min := bodies[0].Pos
	max := bodies[0].Pos
	for _, b := range bodies {
		if !finiteVec(b.Pos) {
			return ErrNonFinite
		}
		min.X = math.Min(min.X, b.Pos.X)
		min.Y = math.Min(min.Y, b.Pos.Y)
		min.Z = math.Min(min.Z, b.Pos.Z)
		max.X = math.Max(max.X, b.Pos.X)
		max.Y = math.Max(max.Y, b.Pos.Y)
		max.Z = math.Max(max.Z, b.Pos.Z)
	}

	side := math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z)) * 1.1
	if side < minRootSide {
		side = minRootSide
	}
	center := r3.Vec{
		X: (min.X + max.X) / 2,
		Y: (min.Y + max.Y) / 2,
		Z: (min.Z + max.Z) / 2,
	}

	t.newNode(center, side/2)
	for i := range bodies {
		t.insert(0, int32(i), 0)
	}
	return nil
}

func (t *Octree) newNode(center r3.Vec, half float64) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, onode{
		center:   center,
		half:     half,
		body:     noChild,
		children: [8]int32{noChild, noChild, noChild, noChild, noChild, noChild, noChild, noChild},
	})
	return idx
}

// insert places body bi into the subtree rooted at ni. Aggregates are
// updated incrementally on the way down. Note that t.nodes may reallocate
// when children are created, so nodes are always re-indexed after newNode.
func (t *Octree) insert(ni, bi int32, depth int) {
	b := t.bodies[bi]

	n := &t.nodes[ni]
	if n.count == 0 {
		n.body = bi
		n.count = 1
		n.mass = b.Mass
		n.com = b.Pos
		return
	}

	// Mass-weighted running center of mass.
	total := n.mass + b.Mass
	n.com = r3.Vec{
		X: (n.com.X*n.mass + b.Pos.X*b.Mass) / total,
		Y: (n.com.Y*n.mass + b.Pos.Y*b.Mass) / total,
		Z: (n.com.Z*n.mass + b.Pos.Z*b.Mass) / total,
	}
	n.mass = total
	n.count++

	if depth >= t.maxDepth {
		// Clump: keep aggregating without subdividing.
		n.body = noChild
		return
	}

	if n.body != noChild {
		// Single-body leaf gaining a second body: push the resident down
		// first, then fall through to route the newcomer.
		resident := n.body
		n.body = noChild
		t.passDown(ni, resident, depth)
	}
	t.passDown(ni, bi, depth)
}

func (t *Octree) passDown(ni, bi int32, depth int) {
	b := t.bodies[bi]
	oct := octantOf(t.nodes[ni].center, b.Pos)
	child := t.nodes[ni].children[oct]
	if child == noChild {
		center := t.nodes[ni].center
		quarter := t.nodes[ni].half / 2
		child = t.newNode(childCenter(center, quarter, oct), quarter)
		t.nodes[ni].children[oct] = child
	}
	t.insert(child, bi, depth+1)
}

// octantOf returns a 3-bit octant index: bit 0 set when x >= center.x,
// bit 1 for y, bit 2 for z.
func octantOf(center, p r3.Vec) int {
	oct := 0
	if p.X >= center.X {
		oct |= 1
	}
	if p.Y >= center.Y {
		oct |= 2
	}
	if p.Z >= center.Z {
		oct |= 4
	}
	return oct
}

func childCenter(center r3.Vec, quarter float64, oct int) r3.Vec {
	c := r3.Vec{X: center.X - quarter, Y: center.Y - quarter, Z: center.Z - quarter}
	if oct&1 != 0 {
		c.X = center.X + quarter
	}
	if oct&2 != 0 {
		c.Y = center.Y + quarter
	}
	if oct&4 != 0 {
		c.Z = center.Z + quarter
	}
	return c
}
