package engine

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// SecondsPerDay converts the time-scale unit (simulated days per wall
// second) into the engine's native seconds.
const SecondsPerDay = 86400.0

// Params configures an Engine. The zero value is not usable; start from
// Defaults.
type Params struct {
	// G is the gravitational constant in the caller's unit system. The
	// default assumes kilometers, kilograms, and seconds.
	G float64

	// Theta is the Barnes-Hut opening parameter. Zero selects the exact
	// pairwise evaluator.
	Theta float64

	// TimeScale is the simulation speed in simulated days per wall second.
	TimeScale float64

	// MaxFrameSeconds clamps a single step: larger wall-clock deltas
	// (a backgrounded window, a debugger pause) are skipped instead of
	// integrated.
	MaxFrameSeconds float64

	// Substepping splits high time-scale steps into several force/integrate
	// rounds for stability. Disabling it is only useful for demonstrating
	// why it exists.
	Substepping bool

	// Workers bounds force-evaluation parallelism: 0 means NumCPU, 1 serial.
	Workers int

	// MaxDepth caps octree subdivision; <= 0 selects DefaultMaxDepth.
	MaxDepth int

	// CellSize is the collision broad-phase hash cell size; <= 0 derives it
	// from the largest body radius each pass.
	CellSize float64
}

// Defaults returns engine parameters for km-kg-s units at real-time speed.
func Defaults() Params {
	return Params{
		G:               6.6743e-20,
		Theta:           0.5,
		TimeScale:       1.0,
		MaxFrameSeconds: 1.0,
		Substepping:     true,
	}
}

// Engine owns the per-step pipeline: octree rebuild, force accumulation,
// integration, overlap resolution. Bodies are referenced, never destroyed;
// the caller adds and removes them between steps.
type Engine struct {
	params Params
	bodies []*Body

	barnesHut *BarnesHut
	direct    *Direct
	resolver  *OverlapResolver

	paused   bool
	lastTick time.Time

	// stats from the most recent step
	lastSubsteps int
	lastFallback bool
}

// New returns an engine with no bodies.
func New(p Params) *Engine {
	if p.MaxFrameSeconds <= 0 {
		p.MaxFrameSeconds = 1.0
	}
	bh := NewBarnesHut(p.G, p.Theta, p.MaxDepth)
	bh.Workers = p.Workers
	return &Engine{
		params:    p,
		barnesHut: bh,
		direct:    NewDirect(p.G),
		resolver:  NewOverlapResolver(p.CellSize),
	}
}

// AddBody inserts a body into the live set. The engine trusts NewBody to
// have validated it.
func (e *Engine) AddBody(b *Body) {
	e.bodies = append(e.bodies, b)
}

// RemoveBody removes a body by identifier, silently doing nothing when the
// id is unknown.
func (e *Engine) RemoveBody(id string) {
	for i, b := range e.bodies {
		if b.ID == id {
			e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
			return
		}
	}
}

// Body looks a body up by identifier.
func (e *Engine) Body(id string) *Body {
	for _, b := range e.bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Bodies returns the live body slice. Callers must not add or remove
// entries while a step is in progress.
func (e *Engine) Bodies() []*Body { return e.bodies }

// SetTimeScale sets the simulation speed in simulated days per wall second,
// effective on the next step.
func (e *Engine) SetTimeScale(scale float64) { e.params.TimeScale = scale }

// TimeScale reports the current simulation speed.
func (e *Engine) TimeScale() float64 { return e.params.TimeScale }

// SetPaused stops or resumes stepping. A paused step alters no state and
// accumulates no time.
func (e *Engine) SetPaused(p bool) { e.paused = p }

// Paused reports whether the engine is paused.
func (e *Engine) Paused() bool { return e.paused }

// SetTheta sets the Barnes-Hut opening parameter, effective on the next
// step. Zero switches to the exact evaluator.
func (e *Engine) SetTheta(theta float64) {
	e.params.Theta = theta
	e.barnesHut.Theta = theta
}

// Theta reports the current opening parameter.
func (e *Engine) Theta() float64 { return e.params.Theta }

// SetSubstepping toggles adaptive substepping.
func (e *Engine) SetSubstepping(on bool) { e.params.Substepping = on }

// Tick advances the simulation using wall-clock timestamps. The first call
// only records the timestamp; subsequent calls step by the elapsed time.
func (e *Engine) Tick(now time.Time) {
	if e.lastTick.IsZero() {
		e.lastTick = now
		return
	}
	elapsed := now.Sub(e.lastTick).Seconds()
	e.lastTick = now
	e.Step(elapsed)
}

// Step advances every body by elapsed wall-clock seconds scaled by the
// time-scale factor. Non-positive or abnormally large deltas are skipped.
func (e *Engine) Step(elapsed float64) {
	if e.paused || len(e.bodies) == 0 {
		return
	}
	if elapsed <= 0 || elapsed > e.params.MaxFrameSeconds || !finite(elapsed) {
		return
	}

	dt := elapsed * e.params.TimeScale * SecondsPerDay
	steps := 1
	if e.params.Substepping {
		steps = Substeps(e.params.TimeScale)
	}
	e.lastSubsteps = steps

	sub := dt / float64(steps)
	for i := 0; i < steps; i++ {
		e.accumulate()
		e.integrate(sub)
	}
	e.resolver.Resolve(e.bodies)
}

// Substeps returns the adaptive substep count for a time-scale factor:
// max(1, ceil(log10(scale+1))). High speeds trade extra force passes for
// integration stability.
func Substeps(timeScale float64) int {
	n := int(math.Ceil(math.Log10(timeScale + 1)))
	if n < 1 {
		return 1
	}
	return n
}

// accumulate zeroes accelerations and runs one force pass, falling back to
// the direct evaluator when the tree cannot be built or theta is zero.
func (e *Engine) accumulate() {
	ResetAccelerations(e.bodies)
	e.lastFallback = false
	if e.params.Theta <= 0 {
		e.lastFallback = true
		_ = e.direct.Accelerate(e.bodies)
		return
	}
	if err := e.barnesHut.Accelerate(e.bodies); err != nil {
		e.lastFallback = true
		_ = e.direct.Accelerate(e.bodies)
	}
}

// integrate applies semi-implicit Euler: velocity first, then position from
// the updated velocity. Fixed bodies keep their state but already
// contributed gravity during the force pass.
func (e *Engine) integrate(dt float64) {
	for _, b := range e.bodies {
		if b.Fixed {
			b.acc = r3.Vec{}
			continue
		}
		b.Vel = b.Vel.Add(b.acc.Scale(dt))
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		b.acc = r3.Vec{}
	}
}

// Step statistics for display layers.
func (e *Engine) LastSubsteps() int  { return e.lastSubsteps }
func (e *Engine) UsedFallback() bool { return e.lastFallback }
func (e *Engine) BodyCount() int     { return len(e.bodies) }
func (e *Engine) TreeNodes() int     { return e.barnesHut.Tree().Len() }

// Energy returns total kinetic plus pairwise potential energy. Exact O(n²);
// intended for diagnostics, not the hot path.
func (e *Engine) Energy() float64 {
	var ke, pe float64
	for i, b := range e.bodies {
		ke += 0.5 * b.Mass * r3.Norm2(b.Vel)
		for j := i + 1; j < len(e.bodies); j++ {
			o := e.bodies[j]
			r := r3.Norm(o.Pos.Sub(b.Pos))
			if r > 0 {
				pe -= e.params.G * b.Mass * o.Mass / r
			}
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum of the body set.
func (e *Engine) Momentum() r3.Vec {
	var p r3.Vec
	for _, b := range e.bodies {
		p = p.Add(b.Vel.Scale(b.Mass))
	}
	return p
}
