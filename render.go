package bubblestack

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}
	a := clamp(c.A)
	return color.RGBA{
		R: uint8(clamp(c.R)*a*255 + 0.5),
		G: uint8(clamp(c.G)*a*255 + 0.5),
		B: uint8(clamp(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// Draw renders the node tree through the camera, then the debug overlay,
// then writes any queued screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	updateWorldTransform(s.root, identityTransform)
	view := s.viewMatrix()
	drawNode(screen, s.root, view, 1)
	if s.debug {
		s.drawOverlays(screen, view)
	}
	s.flushScreenshots(screen)
}

// drawNode draws n and its subtree in painter order.
func drawNode(dst *ebiten.Image, n *Node, view [6]float64, parentAlpha float64) {
	if !n.Visible {
		return
	}
	alpha := parentAlpha * n.Alpha
	if alpha <= 0 {
		return
	}
	m := multiplyAffine(view, n.worldTransform)

	switch {
	case n.Image != nil:
		op := &ebiten.DrawImageOptions{}
		op.GeoM.SetElement(0, 0, m[0])
		op.GeoM.SetElement(1, 0, m[1])
		op.GeoM.SetElement(0, 1, m[2])
		op.GeoM.SetElement(1, 1, m[3])
		op.GeoM.SetElement(0, 2, m[4])
		op.GeoM.SetElement(1, 2, m[5])
		a := float32(alpha * n.Color.A)
		op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(n.Image, op)
	case n.Fill.A > 0 && n.Width > 0:
		r := n.Width / 2
		cx, cy := transformPoint(m, r, n.Height/2)
		fill := n.Fill
		fill.A *= alpha
		fill.R *= n.Color.R
		fill.G *= n.Color.G
		fill.B *= n.Color.B
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(r*m[0]), fill.toRGBA(), true)
	}

	for _, c := range n.children {
		drawNode(dst, c, view, alpha)
	}
}
