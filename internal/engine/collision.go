package engine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// cellKey addresses one cell of the broad-phase spatial hash.
type cellKey struct {
	X, Y, Z int32
}

// OverlapResolver is a best-effort de-penetration pass: a spatial hash
// broad phase followed by symmetric positional correction. It never touches
// velocities and never merges or destroys bodies.
type OverlapResolver struct {
	cellSize float64
	cells    map[cellKey][]int
}

// NewOverlapResolver returns a resolver with the given hash cell size;
// cellSize <= 0 derives the size from the largest radius on each pass.
func NewOverlapResolver(cellSize float64) *OverlapResolver {
	return &OverlapResolver{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

// Resolve pushes overlapping bodies apart along their connecting axis, half
// the overlap each. A fixed body stays put and its partner takes the full
// correction.
func (r *OverlapResolver) Resolve(bodies []*Body) {
	if len(bodies) < 2 {
		return
	}

	cell := r.cellSize
	if cell <= 0 {
		var maxRadius float64
		for _, b := range bodies {
			maxRadius = math.Max(maxRadius, b.Radius)
		}
		if maxRadius == 0 {
			return
		}
		cell = 2 * maxRadius
	}

	for k := range r.cells {
		delete(r.cells, k)
	}
	for i, b := range bodies {
		k := keyFor(b.Pos, cell)
		r.cells[k] = append(r.cells[k], i)
	}

	// Own cell plus the 26 neighbors covers pairs straddling a boundary.
	for i, b := range bodies {
		home := keyFor(b.Pos, cell)
		for dx := int32(-1); dx <= 1; dx++ {
			for dy := int32(-1); dy <= 1; dy++ {
				for dz := int32(-1); dz <= 1; dz++ {
					k := cellKey{home.X + dx, home.Y + dy, home.Z + dz}
					for _, j := range r.cells[k] {
						if j <= i {
							continue
						}
						separate(b, bodies[j])
					}
				}
			}
		}
	}
}

func keyFor(p r3.Vec, cell float64) cellKey {
	return cellKey{
		X: int32(math.Floor(p.X / cell)),
		Y: int32(math.Floor(p.Y / cell)),
		Z: int32(math.Floor(p.Z / cell)),
	}
}

func separate(a, b *Body) {
	minDist := a.Radius + b.Radius
	if minDist == 0 {
		return
	}
	d := b.Pos.Sub(a.Pos)
	dist := r3.Norm(d)
	if dist >= minDist {
		return
	}

	var axis r3.Vec
	if dist > 0 {
		axis = d.Scale(1 / dist)
	} else {
		// Coincident centers: any axis works.
		axis = r3.Vec{X: 1}
	}
	overlap := minDist - dist

	switch {
	case a.Fixed && b.Fixed:
	case a.Fixed:
		b.Pos = b.Pos.Add(axis.Scale(overlap))
	case b.Fixed:
		a.Pos = a.Pos.Sub(axis.Scale(overlap))
	default:
		a.Pos = a.Pos.Sub(axis.Scale(overlap / 2))
		b.Pos = b.Pos.Add(axis.Scale(overlap / 2))
	}
}
