package bubblestack

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitEllipse is an axis-aligned elliptical hit area in local coordinates.
// A sprite scaled unevenly to a circle uses the ellipse inscribed in its
// texture, which maps back onto that circle.
type HitEllipse struct {
	CenterX, CenterY, RadiusX, RadiusY float64
}

// Contains reports whether (x, y) lies inside or on the ellipse.
func (e HitEllipse) Contains(x, y float64) bool {
	if e.RadiusX <= 0 || e.RadiusY <= 0 {
		return false
	}
	dx := (x - e.CenterX) / e.RadiusX
	dy := (y - e.CenterY) / e.RadiusY
	return dx*dx+dy*dy <= 1
}

// pointerState tracks the single mouse pointer between frames.
type pointerState struct {
	down      bool
	button    MouseButton
	hitNode   *Node
	hoverNode *Node
	lastX     float64
	lastY     float64
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's local size. Nodes without
// either are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	w, h := n.Size()
	if w == 0 && h == 0 {
		return false
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in painter order, appending interactable
// nodes to buf. Skips Visible=false or Interactable=false subtrees.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Image != nil || n.Width > 0 || n.Height > 0 {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = collectInteractable(s.root, s.hitBuf[:0])
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// HitTest returns the topmost interactable node under a screen point.
func (s *Scene) HitTest(screenX, screenY float64) *Node {
	wx, wy := s.screenToWorld(screenX, screenY)
	return s.hitTest(wx, wy)
}

func (s *Scene) screenToWorld(sx, sy float64) (float64, float64) {
	if s.camera != nil {
		return s.camera.ScreenToWorld(sx, sy)
	}
	return sx, sy
}

// processInput consumes one injected event if queued, otherwise reads the
// real mouse.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	mx, my := ebiten.CursorPosition()
	wx, wy := s.screenToWorld(float64(mx), float64(my))

	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	s.processPointer(wx, wy, pressed, button)
}

// processScroll applies queued synthetic scrolls, then the mouse wheel.
func (s *Scene) processScroll() {
	if s.camera == nil {
		s.scrollQueue = s.scrollQueue[:0]
		return
	}
	for _, dy := range s.scrollQueue {
		s.camera.ScrollBy(0, dy)
	}
	s.scrollQueue = s.scrollQueue[:0]
	if s.WheelScroll != 0 {
		if _, wy := ebiten.Wheel(); wy != 0 {
			s.camera.ScrollBy(0, -wy*s.WheelScroll)
		}
	}
}

// processPointer runs the pointer state machine: hover enter/leave, and a
// click when press and release land on the same node.
func (s *Scene) processPointer(wx, wy float64, pressed bool, button MouseButton) {
	ps := &s.pointer
	target := s.hitTest(wx, wy)

	if ps.hoverNode != nil && ps.hoverNode.IsDisposed() {
		ps.hoverNode = nil
	}
	if target != ps.hoverNode {
		if ps.hoverNode != nil && ps.hoverNode.OnPointerLeave != nil {
			ps.hoverNode.OnPointerLeave(pointerContext(ps.hoverNode, wx, wy, button))
		}
		if target != nil && target.OnPointerEnter != nil {
			target.OnPointerEnter(pointerContext(target, wx, wy, button))
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
	case !pressed && ps.down:
		if ps.hitNode != nil && ps.hitNode == target && target.OnClick != nil {
			lx, ly := target.WorldToLocal(wx, wy)
			target.OnClick(ClickContext{
				Node:    target,
				GlobalX: wx,
				GlobalY: wy,
				LocalX:  lx,
				LocalY:  ly,
				Button:  ps.button,
			})
		}
		ps.down = false
		ps.hitNode = nil
	}
	ps.lastX = wx
	ps.lastY = wy
}

func pointerContext(n *Node, wx, wy float64, button MouseButton) PointerContext {
	lx, ly := n.WorldToLocal(wx, wy)
	return PointerContext{Node: n, GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly, Button: button}
}
