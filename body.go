package bubblestack

import "math"

// Shape selects a body's collision geometry.
type Shape uint8

const (
	ShapeCircle Shape = iota // dynamic badges and optional round obstacles
	ShapeBox                 // axis-aligned static boundary geometry
)

// density converts area to mass. Only mass ratios matter to the solver.
const density = 0.001

// DefaultFrictionAir is the per-step velocity damping applied to new circles.
const DefaultFrictionAir = 0.01

// Body is a rigid body in a World. Position is always the body's center.
// Static bodies have zero inverse mass and are never moved by the solver.
type Body struct {
	ID    string
	Shape Shape

	Position Vec2
	Velocity Vec2

	// Radius is used by ShapeCircle.
	Radius float64
	// Width and Height are used by ShapeBox.
	Width, Height float64

	Restitution float64
	FrictionAir float64
	// Static is read by World.Add. Flipping it on a body already in a world
	// does not move it between the world's static and dynamic sets.
	Static bool

	invMass float64
}

// NewCircle creates a dynamic circle centered at (x, y).
func NewCircle(id string, x, y, radius, restitution float64) *Body {
	return &Body{
		ID:          id,
		Shape:       ShapeCircle,
		Position:    Vec2{x, y},
		Radius:      radius,
		Restitution: restitution,
		FrictionAir: DefaultFrictionAir,
		invMass:     1 / (math.Pi * radius * radius * density),
	}
}

// NewBox creates a static axis-aligned box centered at (x, y).
func NewBox(id string, x, y, width, height float64) *Body {
	return &Body{
		ID:       id,
		Shape:    ShapeBox,
		Position: Vec2{x, y},
		Width:    width,
		Height:   height,
		Static:   true,
	}
}

// NewBoxFromRect creates a static box covering r.
func NewBoxFromRect(id string, r Rect) *Body {
	return NewBox(id, r.X+r.Width/2, r.Y+r.Height/2, r.Width, r.Height)
}

// Speed returns the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// Bounds returns the body's axis-aligned bounding box.
func (b *Body) Bounds() Rect {
	if b.Shape == ShapeBox {
		return Rect{
			X:      b.Position.X - b.Width/2,
			Y:      b.Position.Y - b.Height/2,
			Width:  b.Width,
			Height: b.Height,
		}
	}
	return Rect{
		X:      b.Position.X - b.Radius,
		Y:      b.Position.Y - b.Radius,
		Width:  2 * b.Radius,
		Height: 2 * b.Radius,
	}
}

func (b *Body) valid() bool {
	if b.ID == "" {
		return false
	}
	if b.Restitution < 0 || b.Restitution > 1 || math.IsNaN(b.Restitution) {
		return false
	}
	switch b.Shape {
	case ShapeCircle:
		return b.Radius > 0
	case ShapeBox:
		return b.Static && b.Width > 0 && b.Height > 0
	}
	return false
}
