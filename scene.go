package bubblestack

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree, the camera, pointer
// state and the per-frame task list. It is the host environment for stacks:
// it supplies the viewport, the visual elements and the periodic callback.
type Scene struct {
	root   *Node
	camera *Camera
	store  EntityStore
	debug  bool

	// ClearColor fills the screen before drawing. Zero alpha skips the fill.
	ClearColor Color
	// WheelScroll is the camera travel per mouse wheel notch. Zero disables
	// wheel scrolling.
	WheelScroll float64
	// ScreenshotDir receives Screenshot captures.
	ScreenshotDir string

	width, height float64

	tasks    handlerList[func()]
	overlays []bodyOverlay

	pointer     pointerState
	hitBuf      []*Node
	injectQueue []syntheticPointerEvent
	scrollQueue []float64
	testRunner  *TestRunner

	screenshotQueue []string
}

// NewScene creates a scene with a root container and no camera. Until a
// camera is added the viewport is the screen rectangle set by SetSize.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		WheelScroll:   40,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetSize records the screen size used when there is no camera.
func (s *Scene) SetSize(width, height float64) {
	s.width, s.height = width, height
}

// NewCamera creates the scene camera with the given viewport, replacing any
// previous one.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	s.camera = newCamera(viewport)
	return s.camera
}

// Camera returns the scene camera, or nil.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Viewport returns the visible world-space rectangle.
func (s *Scene) Viewport() Rect {
	if s.camera != nil {
		return s.camera.VisibleBounds()
	}
	return Rect{Width: s.width, Height: s.height}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// emit forwards an event to the entity store, if any.
func (s *Scene) emit(e Event) {
	if s.store != nil {
		s.store.EmitEvent(e)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, physics bodies are outlined over their badges and the
// package logger drops to debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	SetDebugMode(enabled)
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// Schedule implements Scheduler: fn runs once per Update, after input and
// camera movement, in registration order.
func (s *Scene) Schedule(fn func()) func() {
	id := s.tasks.add(fn)
	return func() { s.tasks.remove(id) }
}

// Update advances one frame: camera, scripted input, scheduled tasks (the
// visibility checks and physics steps), node callbacks, then pointer input
// against the freshly synced positions.
func (s *Scene) Update() {
	s.update(1.0 / float64(ebiten.TPS()))
}

func (s *Scene) update(dt float64) {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processScroll()
	if s.camera != nil {
		s.camera.update(float32(dt))
	}

	updateWorldTransform(s.root, identityTransform)
	for _, h := range s.tasks.snapshot() {
		if h.removed {
			continue
		}
		h.fn()
	}
	updateNodes(s.root, dt)

	updateWorldTransform(s.root, identityTransform)
	s.processInput()
}

// viewMatrix returns the camera view, or identity without a camera.
func (s *Scene) viewMatrix() [6]float64 {
	if s.camera == nil {
		return identityTransform
	}
	return s.camera.computeViewMatrix()
}
