package bubblestack

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// bodyOverlay outlines a world's bodies and the interior they are confined
// to in debug mode. Coordinates are relative to origin's world transform.
type bodyOverlay struct {
	world    *World
	origin   *Node
	interior Rect
}

var (
	overlayDynamic = Color{R: 1, G: 0.3, B: 0.8, A: 0.9}
	overlayStatic   = Color{R: 0.3, G: 0.9, B: 1, A: 0.6}
	overlayInterior = Color{R: 1, G: 0.9, B: 0.2, A: 0.4}
)

// showBodies adds a debug overlay for w. Removing it is done by hideBodies.
func (s *Scene) showBodies(w *World, origin *Node, interior Rect) {
	s.overlays = append(s.overlays, bodyOverlay{world: w, origin: origin, interior: interior})
}

func (s *Scene) hideBodies(w *World) {
	for i, o := range s.overlays {
		if o.world == w {
			s.overlays = append(s.overlays[:i], s.overlays[i+1:]...)
			return
		}
	}
}

func (s *Scene) drawOverlays(dst *ebiten.Image, view [6]float64) {
	for _, o := range s.overlays {
		if o.world.Destroyed() {
			continue
		}
		m := view
		if o.origin != nil && !o.origin.IsDisposed() {
			m = multiplyAffine(view, o.origin.worldTransform)
		}
		x, y := transformPoint(m, o.interior.X, o.interior.Y)
		vector.StrokeRect(dst, float32(x), float32(y),
			float32(o.interior.Width*m[0]), float32(o.interior.Height*m[3]), 1, overlayInterior.toRGBA(), false)
		for _, b := range o.world.Static() {
			drawBodyOutline(dst, b, m, overlayStatic)
		}
		for _, b := range o.world.Dynamic() {
			drawBodyOutline(dst, b, m, overlayDynamic)
		}
	}
}

func drawBodyOutline(dst *ebiten.Image, b *Body, m [6]float64, clr Color) {
	switch b.Shape {
	case ShapeCircle:
		cx, cy := transformPoint(m, b.Position.X, b.Position.Y)
		vector.StrokeCircle(dst, float32(cx), float32(cy), float32(b.Radius*m[0]), 1, clr.toRGBA(), true)
	case ShapeBox:
		r := b.Bounds()
		x, y := transformPoint(m, r.X, r.Y)
		vector.StrokeRect(dst, float32(x), float32(y), float32(r.Width*m[0]), float32(r.Height*m[3]), 1, clr.toRGBA(), false)
	}
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("bubblestack debug: %s on disposed node %q", op, n.Name))
	}
}
