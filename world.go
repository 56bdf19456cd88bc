package bubblestack

import (
	"errors"
	"fmt"
	"math"
)

// Simulation defaults. Units are pixels and seconds.
const (
	DefaultTimeStep     = 1.0 / 60
	DefaultSolverPasses = 3
	// DefaultRestingSpeed is the approach speed below which contacts do not
	// bounce. Without it a body on the floor would bounce on gravity alone
	// every step and never rest.
	DefaultRestingSpeed = 40.0
	DefaultMaxSpeed     = 4000.0
	DefaultSettleSpeed  = 20.0
	DefaultSettleSteps  = 30
)

// DefaultGravity points down the screen.
var DefaultGravity = Vec2{X: 0, Y: 1000}

var (
	// ErrWorldDestroyed is returned by Add after Destroy.
	ErrWorldDestroyed = errors.New("world destroyed")
	// ErrInvalidBody is returned by Add for bodies that break an invariant.
	ErrInvalidBody = errors.New("invalid body")
)

// Contact describes a bouncing impact resolved during a step. Resting
// contacts (approach speed below RestingSpeed) are not reported.
type Contact struct {
	A, B *Body
	// Normal points from A toward B.
	Normal       Vec2
	ImpactSpeed  float64
	ReboundSpeed float64
}

// World owns gravity, the bodies, and simulation time.
//
// World is not safe for concurrent use; every call is expected from the same
// frame callback stream.
type World struct {
	Gravity      Vec2
	TimeStep     float64
	SolverPasses int
	RestingSpeed float64
	MaxSpeed     float64
	SettleSpeed  float64
	SettleSteps  int

	bodies  []*Body
	dynamic []*Body
	statics []*Body
	ids     map[string]*Body

	time      float64
	steps     int
	calmSteps int
	prev      []Vec2

	stepping  bool
	destroyed bool

	contacts  []Contact
	afterStep handlerList[func(*World)]
	onContact handlerList[func(Contact)]
}

// NewWorld creates an empty world with the given gravity and default solver
// settings.
func NewWorld(gravity Vec2) *World {
	return &World{
		Gravity:      gravity,
		TimeStep:     DefaultTimeStep,
		SolverPasses: DefaultSolverPasses,
		RestingSpeed: DefaultRestingSpeed,
		MaxSpeed:     DefaultMaxSpeed,
		SettleSpeed:  DefaultSettleSpeed,
		SettleSteps:  DefaultSettleSteps,
		ids:          make(map[string]*Body),
	}
}

// Add inserts static and dynamic bodies. Either all bodies are added or, on
// error, none are.
func (w *World) Add(bodies ...*Body) error {
	if w.destroyed {
		return ErrWorldDestroyed
	}
	seen := make(map[string]struct{}, len(bodies))
	for _, b := range bodies {
		if b == nil || !b.valid() {
			id := ""
			if b != nil {
				id = b.ID
			}
			return fmt.Errorf("%w: %q", ErrInvalidBody, id)
		}
		if _, dup := w.ids[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBody, b.ID)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBody, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	for _, b := range bodies {
		w.bodies = append(w.bodies, b)
		w.ids[b.ID] = b
		if b.Static {
			b.invMass = 0
			w.statics = append(w.statics, b)
		} else {
			w.dynamic = append(w.dynamic, b)
		}
	}
	w.calmSteps = 0
	return nil
}

// Bodies returns every body in insertion order. The returned slice MUST NOT
// be mutated.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Dynamic returns the non-static bodies in insertion order. The returned
// slice MUST NOT be mutated.
func (w *World) Dynamic() []*Body {
	return w.dynamic
}

// Static returns the static bodies in insertion order.
func (w *World) Static() []*Body {
	return w.statics
}

// Body looks a body up by id.
func (w *World) Body(id string) (*Body, bool) {
	b, ok := w.ids[id]
	return b, ok
}

// Time returns the simulated time in seconds.
func (w *World) Time() float64 {
	return w.time
}

// Steps returns the number of completed steps.
func (w *World) Steps() int {
	return w.steps
}

// Settled reports whether every dynamic body has stayed below SettleSpeed for
// SettleSteps consecutive steps.
func (w *World) Settled() bool {
	return len(w.dynamic) > 0 && w.calmSteps >= w.SettleSteps
}

// Destroyed reports whether Destroy has been called.
func (w *World) Destroyed() bool {
	return w.destroyed
}

// OnAfterStep registers fn to run after each step, once the new positions
// are final.
func (w *World) OnAfterStep(fn func(*World)) CallbackHandle {
	return newHandle(&w.afterStep, w.afterStep.add(fn))
}

// OnContact registers fn to run for each bouncing contact of a step, before
// the after-step callbacks.
func (w *World) OnContact(fn func(Contact)) CallbackHandle {
	return newHandle(&w.onContact, w.onContact.add(fn))
}

// Step advances the simulation by TimeStep. Calling Step from inside one of
// its own callbacks is a no-op, as is stepping a destroyed world.
func (w *World) Step() {
	if w.destroyed || w.stepping {
		return
	}
	w.stepping = true
	defer func() { w.stepping = false }()

	dt := w.TimeStep
	if dt <= 0 {
		dt = DefaultTimeStep
	}

	w.prev = w.prev[:0]
	for _, b := range w.dynamic {
		w.prev = append(w.prev, b.Position)
		w.integrate(b, dt)
	}

	passes := w.SolverPasses
	if passes < 1 {
		passes = 1
	}
	w.contacts = w.contacts[:0]
	for pass := 0; pass < passes; pass++ {
		first := pass == 0
		for i := 0; i < len(w.dynamic); i++ {
			for j := i + 1; j < len(w.dynamic); j++ {
				w.solveCircles(w.dynamic[i], w.dynamic[j], first)
			}
		}
		for _, b := range w.dynamic {
			for _, s := range w.statics {
				w.solveStatic(b, s, first)
			}
		}
	}

	w.time += dt
	w.steps++
	w.trackCalm(dt)

	for _, h := range w.onContact.snapshot() {
		for _, c := range w.contacts {
			if w.destroyed || h.removed {
				break
			}
			h.fn(c)
		}
	}
	for _, h := range w.afterStep.snapshot() {
		if w.destroyed {
			return
		}
		if h.removed {
			continue
		}
		h.fn(w)
	}
}

// Run steps the world n times.
func (w *World) Run(n int) {
	for i := 0; i < n && !w.destroyed; i++ {
		w.Step()
	}
}

// Clear removes every body. The world stays usable.
func (w *World) Clear() {
	w.bodies = nil
	w.dynamic = nil
	w.statics = nil
	w.contacts = nil
	w.ids = make(map[string]*Body)
	w.calmSteps = 0
}

// Destroy clears the world and drops every callback. Further Steps are
// no-ops and Add fails. Destroy is idempotent.
func (w *World) Destroy() {
	if w.destroyed {
		return
	}
	w.Clear()
	w.afterStep.clear()
	w.onContact.clear()
	w.destroyed = true
}

func (w *World) integrate(b *Body, dt float64) {
	b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
	if b.FrictionAir > 0 {
		b.Velocity = b.Velocity.Scale(1 - b.FrictionAir)
	}
	if w.MaxSpeed > 0 {
		if s := b.Velocity.Len(); s > w.MaxSpeed {
			b.Velocity = b.Velocity.Scale(w.MaxSpeed / s)
		}
	}
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// trackCalm counts consecutive steps in which no dynamic body moved faster
// than SettleSpeed, measured as net displacement over the step.
func (w *World) trackCalm(dt float64) {
	for i, b := range w.dynamic {
		if b.Position.Sub(w.prev[i]).Len()/dt > w.SettleSpeed {
			w.calmSteps = 0
			return
		}
	}
	w.calmSteps++
}

// solveCircles separates two overlapping dynamic circles and applies the
// rebound impulse along the collision normal.
func (w *World) solveCircles(a, b *Body, first bool) {
	n, depth, ok := circleContact(a.Position, a.Radius, b.Position, b.Radius)
	if !ok {
		return
	}
	total := a.invMass + b.invMass
	if total == 0 {
		return
	}
	a.Position = a.Position.Sub(n.Scale(depth * a.invMass / total))
	b.Position = b.Position.Add(n.Scale(depth * b.invMass / total))

	approach := -b.Velocity.Sub(a.Velocity).Dot(n)
	if approach <= 0 {
		return
	}
	e := 0.0
	bounce := first && approach >= w.RestingSpeed
	if bounce {
		e = math.Max(a.Restitution, b.Restitution)
	}
	j := (1 + e) * approach / total
	a.Velocity = a.Velocity.Sub(n.Scale(j * a.invMass))
	b.Velocity = b.Velocity.Add(n.Scale(j * b.invMass))
	if bounce {
		w.contacts = append(w.contacts, Contact{A: a, B: b, Normal: n, ImpactSpeed: approach, ReboundSpeed: e * approach})
	}
}

// solveStatic pushes a dynamic body out of a static one and reflects its
// normal velocity scaled by the dynamic body's restitution.
func (w *World) solveStatic(b, s *Body, first bool) {
	var (
		n     Vec2
		depth float64
		ok    bool
	)
	switch s.Shape {
	case ShapeBox:
		n, depth, ok = circleBoxContact(b.Position, b.Radius, s.Bounds())
	case ShapeCircle:
		// circleContact's normal points from s to b.
		n, depth, ok = circleContact(s.Position, s.Radius, b.Position, b.Radius)
	}
	if !ok {
		return
	}
	b.Position = b.Position.Add(n.Scale(depth))

	vn := b.Velocity.Dot(n)
	if vn >= 0 {
		return
	}
	approach := -vn
	e := 0.0
	bounce := first && approach >= w.RestingSpeed
	if bounce {
		e = b.Restitution
	}
	b.Velocity = b.Velocity.Add(n.Scale((1 + e) * approach))
	if bounce {
		w.contacts = append(w.contacts, Contact{A: s, B: b, Normal: n, ImpactSpeed: approach, ReboundSpeed: e * approach})
	}
}
