package bubblestack

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/tanema/gween/ease"
)

// Hover feedback for badge nodes.
var (
	HoverTint     = Color{R: 0.85, G: 0.85, B: 0.85, A: 1}
	HoverDuration = float32(0.15)
)

// StackOptions configures MountStack.
type StackOptions struct {
	// Config is the badge layout and simulation tunables. A zero Config
	// (no badges) is replaced with DefaultConfig.
	Config Config
	// Origin is the container's top-left corner in the parent's space.
	Origin Vec2
	// Size is the container size. Zero uses the reference geometry size.
	Size Vec2
	// Images maps Badge.Image keys to textures. Badges without an image
	// draw a disc in PlaceholderFill.
	Images map[string]*ebiten.Image
	// PlaceholderFill colors badges that have no image.
	PlaceholderFill Color
	// Open is called with a badge URL when the badge is clicked.
	Open func(url string)
	// Parent receives the container node. Nil uses the scene root.
	Parent *Node
}

// Stack is a badge stack mounted into a Scene: a container node, one node
// per badge and the controller that animates them once the container
// scrolls into view.
type Stack struct {
	scene     *Scene
	container *Node
	nodes     map[string]*Node
	badges    map[string]Badge
	ctrl      *Controller
	open      func(string)

	tweens        tweenSet
	cancelObserve func()
	cancelTweens  func()
	handles       []CallbackHandle
	overlaid      *World
	unmounted     bool
	log           *logrus.Entry
}

// MountStack builds the container and badge nodes under opts.Parent and
// arms the controller. Nothing is simulated until the container is at least
// Config.Threshold visible within the scene viewport.
func MountStack(scene *Scene, opts StackOptions) (*Stack, error) {
	if scene == nil {
		return nil, fmt.Errorf("mount stack: nil scene")
	}
	cfg := opts.Config
	if len(cfg.Badges) == 0 {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mount stack: %w", err)
	}
	size := opts.Size
	if size.X <= 0 || size.Y <= 0 {
		size = Vec2{cfg.Geometry.Width, cfg.Geometry.Height}
	}
	fill := opts.PlaceholderFill
	if fill.A == 0 {
		fill = Color{R: 0.55, G: 0.75, B: 1, A: 1}
	}

	s := &Stack{
		scene:  scene,
		nodes:  make(map[string]*Node, len(cfg.Badges)),
		badges: make(map[string]Badge, len(cfg.Badges)),
		open:   opts.Open,
		log:    logFor("stack"),
	}

	s.container = NewContainer("matterContainer")
	s.container.X, s.container.Y = opts.Origin.X, opts.Origin.Y
	s.container.Width, s.container.Height = size.X, size.Y
	s.container.Interactable = true

	scale := Vec2{1, 1}
	if cfg.Responsive {
		scale = cfg.Geometry.ScaleFactors(size)
	}
	rs := math.Min(scale.X, scale.Y)

	elements := make(ElementMap, len(cfg.Badges))
	for _, b := range cfg.Badges {
		n := s.newBadgeNode(b, opts.Images[b.Image], fill)
		r := b.Radius * rs
		s.resize(n, r)
		n.SetPlacement(b.Position.X*scale.X-r, b.Position.Y*scale.Y-r)
		s.container.AddChild(n)
		s.nodes[b.ID] = n
		s.badges[b.ID] = b
		elements[b.ID] = n
	}

	ctrl, err := NewController(cfg, elements, scene)
	if err != nil {
		s.container.Dispose()
		return nil, fmt.Errorf("mount stack: %w", err)
	}
	s.ctrl = ctrl
	s.handles = append(s.handles,
		ctrl.OnStateChange(s.stateChanged),
		ctrl.OnSettled(func() {
			scene.emit(Event{Type: EventSettled, State: ctrl.State()})
		}),
	)

	parent := opts.Parent
	if parent == nil {
		parent = scene.Root()
	}
	parent.AddChild(s.container)

	s.cancelObserve = scene.Schedule(s.observe)
	s.cancelTweens = scene.Schedule(func() {
		s.tweens.update(float32(1.0 / float64(ebiten.TPS())))
	})
	s.log.WithField("badges", len(cfg.Badges)).Debug("stack mounted")
	return s, nil
}

func (s *Stack) newBadgeNode(b Badge, img *ebiten.Image, fill Color) *Node {
	n := NewSprite(b.ID, img)
	n.Interactable = true
	n.UserData = b.URL
	if img == nil {
		n.Fill = fill
	}
	id, url := b.ID, b.URL
	n.OnClick = func(ctx ClickContext) {
		s.log.WithFields(logrus.Fields{"badge": id, "url": url}).Debug("badge clicked")
		if s.open != nil {
			s.open(url)
		}
		s.scene.emit(Event{Type: EventClick, BadgeID: id, URL: url, X: ctx.GlobalX, Y: ctx.GlobalY, State: s.ctrl.State()})
	}
	n.OnPointerEnter = func(ctx PointerContext) {
		s.tweens.start(n, TweenColor(n, HoverTint, HoverDuration, ease.OutQuad))
		s.scene.emit(Event{Type: EventPointerEnter, BadgeID: id, URL: url, X: ctx.GlobalX, Y: ctx.GlobalY, State: s.ctrl.State()})
	}
	n.OnPointerLeave = func(ctx PointerContext) {
		s.tweens.start(n, TweenColor(n, ColorWhite, HoverDuration, ease.OutQuad))
		s.scene.emit(Event{Type: EventPointerLeave, BadgeID: id, URL: url, X: ctx.GlobalX, Y: ctx.GlobalY, State: s.ctrl.State()})
	}
	return n
}

// resize sizes n to a circle of radius r: the image is scaled to the
// diameter, a placeholder disc gets it as its local size. The hit region is
// the shape inscribed in the local bounds, so after scaling it is the
// body's circle and it follows the node.
func (s *Stack) resize(n *Node, r float64) {
	d := 2 * r
	if n.Image == nil {
		n.Width, n.Height = d, d
		n.HitShape = HitCircle{CenterX: r, CenterY: r, Radius: r}
		return
	}
	b := n.Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return
	}
	n.ScaleX, n.ScaleY = d/w, d/h
	n.HitShape = HitEllipse{CenterX: w / 2, CenterY: h / 2, RadiusX: w / 2, RadiusY: h / 2}
}

// observe feeds the container's scene bounds to the controller each frame
// until it leaves StateIdle.
func (s *Stack) observe() {
	if s.ctrl.State() != StateIdle {
		s.stopObserving()
		return
	}
	s.ctrl.Observe(s.container.WorldBounds(), s.scene.Viewport())
	if s.ctrl.State() != StateIdle {
		s.stopObserving()
	}
}

func (s *Stack) stopObserving() {
	if s.cancelObserve != nil {
		s.cancelObserve()
		s.cancelObserve = nil
	}
}

func (s *Stack) stateChanged(from, to State) {
	s.scene.emit(Event{Type: EventStateChange, State: to})
	switch to {
	case StateRunning:
		w := s.ctrl.World()
		for _, b := range w.Dynamic() {
			if n, ok := s.nodes[b.ID]; ok {
				s.resize(n, b.Radius)
				p := Placement(b)
				n.SetPlacement(p.X, p.Y)
			}
		}
		if s.scene.debug {
			s.scene.showBodies(w, s.container, s.ctrl.Geometry().Interior())
			s.overlaid = w
		}
	case StateTornDown:
		if s.overlaid != nil {
			s.scene.hideBodies(s.overlaid)
			s.overlaid = nil
		}
	}
}

// Controller returns the stack's lifecycle controller.
func (s *Stack) Controller() *Controller {
	return s.ctrl
}

// State is shorthand for Controller().State().
func (s *Stack) State() State {
	return s.ctrl.State()
}

// Container returns the container node.
func (s *Stack) Container() *Node {
	return s.container
}

// Node returns the badge node with the given id.
func (s *Stack) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Badge returns the badge declaration with the given id.
func (s *Stack) Badge(id string) (Badge, bool) {
	b, ok := s.badges[id]
	return b, ok
}

// Bounds returns the container's scene-space rectangle.
func (s *Stack) Bounds() Rect {
	return s.container.WorldBounds()
}

// Unmount tears down the controller, removes the stack's scene tasks and
// disposes its nodes. Safe to call more than once.
func (s *Stack) Unmount() {
	if s.unmounted {
		return
	}
	s.unmounted = true
	s.ctrl.Teardown()
	s.stopObserving()
	if s.cancelTweens != nil {
		s.cancelTweens()
		s.cancelTweens = nil
	}
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = nil
	if s.overlaid != nil {
		s.scene.hideBodies(s.overlaid)
		s.overlaid = nil
	}
	s.container.Dispose()
	s.log.Debug("stack unmounted")
}

// Unmounted reports whether Unmount was called.
func (s *Stack) Unmounted() bool {
	return s.unmounted
}
