package bubblestack

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle controller's state. Transitions only move forward:
// Idle -> Triggered -> Running -> TornDown, or Idle -> TornDown.
type State uint8

const (
	StateIdle      State = iota // region observed, nothing else exists
	StateTriggered              // visibility fired, world being built
	StateRunning                // world stepping, placements synced every frame
	StateTornDown               // every resource released
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTriggered:
		return "triggered"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn-down"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Simulation is the scoped resource that owns a running world: the world
// itself, the frame task registered with the scheduler and the render sync
// subscription. Close releases all three together.
type Simulation struct {
	world       *World
	sync        *RenderSync
	syncHandle  CallbackHandle
	cancelFrame func()
	stepsFrame  int
	frames      int
	closed      bool
	onSettled   func()
	settledSeen bool
}

// StartSimulation registers a frame task on sched that steps world
// stepsPerFrame times per frame, syncing elements after every step.
func StartSimulation(world *World, elements ElementSet, sched Scheduler, stepsPerFrame int) *Simulation {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	s := &Simulation{
		world:      world,
		sync:       NewRenderSync(elements),
		stepsFrame: stepsPerFrame,
	}
	s.syncHandle = world.OnAfterStep(func(w *World) {
		s.sync.Apply(w.Dynamic())
	})
	s.cancelFrame = sched.Schedule(s.frame)
	return s
}

func (s *Simulation) frame() {
	if s.closed {
		return
	}
	s.frames++
	for i := 0; i < s.stepsFrame && !s.closed; i++ {
		s.world.Step()
	}
	if !s.closed && !s.settledSeen && s.world.Settled() {
		s.settledSeen = true
		if s.onSettled != nil {
			s.onSettled()
		}
	}
}

// World returns the simulated world. It is destroyed once Close returns.
func (s *Simulation) World() *World {
	return s.world
}

// Sync returns the render sync writing placements.
func (s *Simulation) Sync() *RenderSync {
	return s.sync
}

// Frames returns the number of frames the simulation has run.
func (s *Simulation) Frames() int {
	return s.frames
}

// Closed reports whether Close has been called.
func (s *Simulation) Closed() bool {
	return s.closed
}

// Close stops the frame task, detaches the sync, clears and destroys the
// world. Safe to call more than once and from inside a frame.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cancelFrame != nil {
		s.cancelFrame()
		s.cancelFrame = nil
	}
	s.sync.Close()
	s.syncHandle.Remove()
	s.world.Clear()
	s.world.Destroy()
}

// Controller sequences the trigger, world construction, the frame loop and
// teardown for one mounted stack.
type Controller struct {
	cfg      Config
	elements ElementSet
	sched    Scheduler

	state    State
	trigger  *VisibilityTrigger
	region   Rect
	geometry Geometry
	sim      *Simulation

	worldsBuilt int
	onChange    handlerList[func(from, to State)]
	onSettled   handlerList[func()]
	log         *logrus.Entry
}

// NewController validates cfg and arms the visibility trigger. Elements
// missing for a badge are reported as a warning; RenderSync skips them.
func NewController(cfg Config, elements ElementSet, sched Scheduler) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, fmt.Errorf("%w: nil scheduler", ErrInvalidConfig)
	}
	c := &Controller{
		cfg:      cfg,
		elements: elements,
		sched:    sched,
		log:      logFor("lifecycle"),
	}
	c.trigger = NewVisibilityTrigger(cfg.Threshold, c.fire)
	if elements != nil {
		for _, b := range cfg.Badges {
			if _, ok := elements.Element(b.ID); !ok {
				c.log.WithField("badge", b.ID).Warn("badge has no visual element")
			}
		}
	}
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Config returns the controller's configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Geometry returns the boundary geometry recorded at trigger time. Zero
// until the controller has triggered.
func (c *Controller) Geometry() Geometry {
	return c.geometry
}

// World returns the running world, or nil outside StateRunning.
func (c *Controller) World() *World {
	if c.state != StateRunning || c.sim == nil {
		return nil
	}
	return c.sim.World()
}

// Simulation returns the running simulation handle, or nil.
func (c *Controller) Simulation() *Simulation {
	if c.state != StateRunning {
		return nil
	}
	return c.sim
}

// WorldsBuilt returns how many worlds this controller has constructed. It
// never exceeds one.
func (c *Controller) WorldsBuilt() int {
	return c.worldsBuilt
}

// OnStateChange registers fn to run after every transition.
func (c *Controller) OnStateChange(fn func(from, to State)) CallbackHandle {
	return newHandle(&c.onChange, c.onChange.add(fn))
}

// OnSettled registers fn to run once, the first frame every body is at rest.
func (c *Controller) OnSettled(fn func()) CallbackHandle {
	return newHandle(&c.onSettled, c.onSettled.add(fn))
}

// Observe delivers a visibility observation of the container region within
// the viewport. Only the first observation crossing the threshold has any
// effect.
func (c *Controller) Observe(region, viewport Rect) {
	if c.state != StateIdle {
		return
	}
	c.region = region
	c.trigger.Update(region, viewport)
}

func (c *Controller) fire() {
	if c.state != StateIdle {
		return
	}
	c.transition(StateTriggered)
	if c.state != StateTriggered {
		// A state-change callback tore the controller down.
		return
	}
	if err := c.start(); err != nil {
		c.log.WithError(err).Error("failed to start simulation")
		c.Teardown()
	}
}

// start builds the world, boundaries and body set, then starts the frame
// task. Geometry is measured from the region once, here.
func (c *Controller) start() error {
	ref := c.cfg.Geometry
	scale := Vec2{1, 1}
	c.geometry = ref
	if c.cfg.Responsive {
		size := c.region.Size()
		scale = ref.ScaleFactors(size)
		c.geometry = ref.Scaled(size)
	}

	bodies, err := NewBodySet(c.cfg.Badges, scale)
	if err != nil {
		return err
	}
	world := NewWorld(c.cfg.Gravity)
	world.TimeStep = c.cfg.TimeStep
	world.SolverPasses = c.cfg.SolverPasses
	if err := world.Add(bodies...); err != nil {
		return err
	}
	if err := world.Add(NewBoundaries(c.geometry).Bodies()...); err != nil {
		return err
	}
	c.worldsBuilt++

	c.sim = StartSimulation(world, c.elements, SchedulerFunc(c.schedule), c.cfg.StepsPerFrame)
	c.sim.onSettled = c.settled
	c.log.WithFields(logrus.Fields{
		"bodies": len(world.Bodies()),
		"width":  c.geometry.Width,
		"height": c.geometry.Height,
	}).Debug("world built")
	c.transition(StateRunning)
	return nil
}

// schedule wraps the host scheduler so a panic inside a frame releases the
// simulation before propagating.
func (c *Controller) schedule(fn func()) func() {
	return c.sched.Schedule(func() {
		ok := false
		defer func() {
			if !ok {
				c.log.Error("frame panicked, tearing down")
				c.Teardown()
			}
		}()
		fn()
		ok = true
	})
}

func (c *Controller) settled() {
	c.log.WithField("time", c.sim.World().Time()).Debug("bodies settled")
	for _, h := range c.onSettled.snapshot() {
		if !h.removed {
			h.fn()
		}
	}
}

// Teardown releases everything the controller holds. From Idle only the
// trigger is canceled. Idempotent.
func (c *Controller) Teardown() {
	if c.state == StateTornDown {
		return
	}
	c.trigger.Cancel()
	if c.sim != nil {
		c.sim.Close()
	}
	c.transition(StateTornDown)
	c.onChange.clear()
	c.onSettled.clear()
}

func (c *Controller) transition(to State) {
	from := c.state
	if to <= from {
		return
	}
	c.state = to
	c.log.WithFields(logrus.Fields{"from": from, "state": to}).Debug("state change")
	for _, h := range c.onChange.snapshot() {
		if h.removed {
			continue
		}
		h.fn(from, to)
	}
}
