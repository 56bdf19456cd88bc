package bubblestack

import (
	"errors"
	"testing"
)

func TestReferenceBoundaries(t *testing.T) {
	g := ReferenceGeometry()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	b := NewBoundaries(g)

	for _, body := range b.Bodies() {
		if !body.Static {
			t.Errorf("%s is not static", body.ID)
		}
		if body.Shape != ShapeBox {
			t.Errorf("%s shape = %v, want box", body.ID, body.Shape)
		}
	}

	floor := b.Floor.Bounds()
	if floor.Y != 650 {
		t.Errorf("floor top = %f, want 650", floor.Y)
	}
	if floor.Height != 100 {
		t.Errorf("floor depth = %f, want 100", floor.Height)
	}
	if floor.X > 0 || floor.X+floor.Width < 800 {
		t.Errorf("floor spans [%f, %f], want beyond [0, 800]", floor.X, floor.X+floor.Width)
	}

	left := b.LeftWall.Bounds()
	if left.X+left.Width != 20 {
		t.Errorf("left wall inner face = %f, want 20", left.X+left.Width)
	}
	right := b.RightWall.Bounds()
	if right.X != 795 {
		t.Errorf("right wall inner face = %f, want 795", right.X)
	}
	for _, w := range []Rect{left, right} {
		if w.Y > 0 {
			t.Errorf("wall top = %f, want above the container", w.Y)
		}
		if w.Y+w.Height < floor.Y {
			t.Errorf("wall bottom = %f, want at or below floor top %f", w.Y+w.Height, floor.Y)
		}
	}
}

func TestGeometryScaled(t *testing.T) {
	g := ReferenceGeometry()

	same := g.Scaled(Vec2{800, 600})
	if same != g {
		t.Errorf("Scaled(800x600) = %+v, want reference", same)
	}

	half := g.Scaled(Vec2{400, 300})
	if half.Width != 400 || half.Height != 300 {
		t.Errorf("size = %fx%f, want 400x300", half.Width, half.Height)
	}
	if half.FloorTop != 325 || half.LeftEdge != 10 || !approxEqual(half.RightEdge, 397.5, epsilon) {
		t.Errorf("scaled = %+v", half)
	}

	wide := g.Scaled(Vec2{1600, 600})
	if wide.FloorTop != 650 {
		t.Errorf("FloorTop = %f, want 650 with unchanged height", wide.FloorTop)
	}
	if wide.RightEdge != 1590 {
		t.Errorf("RightEdge = %f, want 1590", wide.RightEdge)
	}
	if wide.WallThickness != g.WallThickness {
		t.Errorf("WallThickness = %f, want %f (smaller factor)", wide.WallThickness, g.WallThickness)
	}

	zero := g.Scaled(Vec2{})
	if zero != g {
		t.Errorf("Scaled(0x0) = %+v, want reference", zero)
	}
}

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Geometry)
	}{
		{"zero width", func(g *Geometry) { g.Width = 0 }},
		{"negative height", func(g *Geometry) { g.Height = -1 }},
		{"walls crossed", func(g *Geometry) { g.LeftEdge, g.RightEdge = 795, 20 }},
		{"no floor depth", func(g *Geometry) { g.FloorDepth = 0 }},
		{"no wall thickness", func(g *Geometry) { g.WallThickness = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ReferenceGeometry()
			tt.mutate(&g)
			if err := g.Validate(); !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Validate = %v, want ErrInvalidGeometry", err)
			}
		})
	}
}

func TestGeometryInterior(t *testing.T) {
	in := ReferenceGeometry().Interior()
	if in.X != 20 || in.Width != 775 {
		t.Errorf("interior x range = [%f, %f], want [20, 795]", in.X, in.X+in.Width)
	}
	if in.Y+in.Height != 650 {
		t.Errorf("interior bottom = %f, want 650", in.Y+in.Height)
	}
	for _, b := range DefaultBadges() {
		if b.Position.X-b.Radius < in.X || b.Position.X+b.Radius > in.X+in.Width {
			t.Errorf("%s starts outside the walls", b.ID)
		}
	}
}
