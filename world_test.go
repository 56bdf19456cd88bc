package bubblestack

import (
	"errors"
	"math"
	"testing"
)

// floorWorld returns a world with boundaries whose floor surface is at
// floorTop, wide enough that walls never interfere.
func floorWorld(t *testing.T, floorTop float64) *World {
	t.Helper()
	g := Geometry{
		Width:         800,
		Height:        floorTop,
		FloorTop:      floorTop,
		FloorDepth:    100,
		LeftEdge:      -1000,
		RightEdge:     1000,
		WallThickness: 60,
	}
	w := NewWorld(DefaultGravity)
	if err := w.Add(NewBoundaries(g).Bodies()...); err != nil {
		t.Fatalf("Add boundaries: %v", err)
	}
	return w
}

func TestWorldAddRejectsInvalidBodies(t *testing.T) {
	tests := []struct {
		name string
		body *Body
	}{
		{"nil", nil},
		{"empty id", NewCircle("", 0, 0, 10, 0.5)},
		{"zero radius", NewCircle("a", 0, 0, 0, 0.5)},
		{"negative radius", NewCircle("a", 0, 0, -1, 0.5)},
		{"restitution above 1", NewCircle("a", 0, 0, 10, 1.5)},
		{"restitution below 0", NewCircle("a", 0, 0, 10, -0.1)},
		{"box without size", NewBox("b", 0, 0, 0, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(DefaultGravity)
			err := w.Add(tt.body)
			if !errors.Is(err, ErrInvalidBody) {
				t.Errorf("Add = %v, want ErrInvalidBody", err)
			}
			if len(w.Bodies()) != 0 {
				t.Errorf("Bodies() = %d, want 0", len(w.Bodies()))
			}
		})
	}
}

func TestWorldAddAllOrNothing(t *testing.T) {
	w := NewWorld(DefaultGravity)
	err := w.Add(NewCircle("a", 0, 0, 10, 0.5), NewCircle("a", 50, 0, 10, 0.5))
	if !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("Add duplicate ids = %v, want ErrInvalidBody", err)
	}
	if len(w.Bodies()) != 0 {
		t.Errorf("Bodies() = %d after failed Add, want 0", len(w.Bodies()))
	}

	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := w.Add(NewCircle("a", 100, 0, 10, 0.5)); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("Add existing id = %v, want ErrInvalidBody", err)
	}
}

func TestWorldPartitionsBodies(t *testing.T) {
	w := floorWorld(t, 700)
	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5), NewCircle("b", 50, 0, 10, 0.5)); err != nil {
		t.Fatal(err)
	}
	if got := len(w.Static()); got != 3 {
		t.Errorf("Static() = %d, want 3", got)
	}
	if got := len(w.Dynamic()); got != 2 {
		t.Errorf("Dynamic() = %d, want 2", got)
	}
	if w.Dynamic()[0].ID != "a" || w.Dynamic()[1].ID != "b" {
		t.Error("Dynamic() not in insertion order")
	}
	if b, ok := w.Body(FloorID); !ok || !b.Static {
		t.Error("Body(FloorID) missing or not static")
	}
	if _, ok := w.Body("missing"); ok {
		t.Error("Body(missing) found")
	}
}

func TestWorldFreeFall(t *testing.T) {
	w := NewWorld(Vec2{0, 1000})
	b := NewCircle("a", 0, 0, 10, 0.5)
	b.FrictionAir = 0
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}
	w.Run(60)

	if !approxEqual(w.Time(), 1, 1e-9) {
		t.Errorf("Time() = %f, want 1", w.Time())
	}
	if w.Steps() != 60 {
		t.Errorf("Steps() = %d, want 60", w.Steps())
	}
	if !approxEqual(b.Velocity.Y, 1000, 1e-6) {
		t.Errorf("Velocity.Y = %f, want 1000", b.Velocity.Y)
	}
	// Semi-implicit Euler: y = g*dt^2 * n(n+1)/2.
	want := 1000.0 / 3600 * 60 * 61 / 2
	if !approxEqual(b.Position.Y, want, 1e-6) {
		t.Errorf("Position.Y = %f, want %f", b.Position.Y, want)
	}
	if b.Position.X != 0 {
		t.Errorf("Position.X = %f, want 0", b.Position.X)
	}
}

func TestWorldMaxSpeed(t *testing.T) {
	w := NewWorld(Vec2{0, 1e6})
	b := NewCircle("a", 0, 0, 10, 0.5)
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}
	w.Run(5)
	if s := b.Speed(); s > DefaultMaxSpeed+1e-9 {
		t.Errorf("Speed() = %f, want <= %f", s, DefaultMaxSpeed)
	}
}

func TestWorldFirstBounceUsesRestitution(t *testing.T) {
	w := floorWorld(t, 700)
	b := NewCircle("ball", 100, 0, 10, 0.5)
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}

	var first *Contact
	w.OnContact(func(c Contact) {
		if first == nil {
			cc := c
			first = &cc
		}
	})
	for i := 0; i < 300 && first == nil; i++ {
		w.Step()
	}
	if first == nil {
		t.Fatal("no contact reported")
	}
	if first.A.ID != FloorID || first.B != b {
		t.Errorf("contact between %s and %s, want floor and ball", first.A.ID, first.B.ID)
	}
	if !approxEqual(first.Normal.Y, -1, epsilon) {
		t.Errorf("Normal = %v, want (0,-1)", first.Normal)
	}
	if first.ImpactSpeed < 800 {
		t.Errorf("ImpactSpeed = %f, want > 800 after a 690 unit fall", first.ImpactSpeed)
	}
	if !approxEqual(first.ReboundSpeed, 0.5*first.ImpactSpeed, 1e-9) {
		t.Errorf("ReboundSpeed = %f, want %f", first.ReboundSpeed, 0.5*first.ImpactSpeed)
	}
	if !approxEqual(b.Velocity.Y, -first.ReboundSpeed, 1e-9) {
		t.Errorf("Velocity.Y after bounce = %f, want %f", b.Velocity.Y, -first.ReboundSpeed)
	}
	if b.Position.Y+b.Radius > 700+1e-9 {
		t.Errorf("ball bottom at %f, below floor 700", b.Position.Y+b.Radius)
	}
}

func TestWorldBounceApexesDecrease(t *testing.T) {
	w := floorWorld(t, 700)
	b := NewCircle("ball", 100, 0, 10, 0.5)
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}

	var apexes []float64
	prevVY := b.Velocity.Y
	for i := 0; i < 600; i++ {
		w.Step()
		if prevVY < 0 && b.Velocity.Y >= 0 {
			apexes = append(apexes, b.Position.Y)
		}
		prevVY = b.Velocity.Y
	}
	if len(apexes) < 2 {
		t.Fatalf("apexes = %v, want at least 2 bounces", apexes)
	}
	for i := 1; i < len(apexes); i++ {
		if apexes[i] <= apexes[i-1] {
			t.Errorf("apex %d at y=%f is not lower than apex %d at y=%f", i, apexes[i], i-1, apexes[i-1])
		}
	}
}

func TestWorldBodyComesToRestOnFloor(t *testing.T) {
	w := floorWorld(t, 700)
	b := NewCircle("ball", 100, 0, 10, 0.5)
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1200 && !w.Settled(); i++ {
		w.Step()
	}
	if !w.Settled() {
		t.Fatalf("not settled after %d steps", w.Steps())
	}
	if !approxEqual(b.Position.Y, 690, 1e-6) {
		t.Errorf("resting Position.Y = %f, want 690", b.Position.Y)
	}
	if !approxEqual(b.Position.X, 100, 1e-9) {
		t.Errorf("resting Position.X = %f, want 100", b.Position.X)
	}
	if b.Speed() > 1e-6 {
		t.Errorf("resting speed = %f, want ~0", b.Speed())
	}
}

func TestWorldZeroRestitutionDoesNotBounce(t *testing.T) {
	w := floorWorld(t, 700)
	b := NewCircle("ball", 100, 500, 10, 0)
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}
	landed := false
	for i := 0; i < 200; i++ {
		w.Step()
		if b.Position.Y >= 690-1e-9 {
			landed = true
		}
		if landed && b.Velocity.Y < 0 {
			t.Fatalf("step %d: ball moving up (vy=%f) with restitution 0", i, b.Velocity.Y)
		}
	}
	if !landed {
		t.Error("ball never reached the floor")
	}
}

func TestWorldStaticsNeverMove(t *testing.T) {
	w := floorWorld(t, 700)
	if err := w.Add(NewCircle("a", 100, 600, 50, 0.8), NewCircle("b", 110, 400, 50, 0.8)); err != nil {
		t.Fatal(err)
	}
	before := make(map[string]Vec2)
	for _, s := range w.Static() {
		before[s.ID] = s.Position
	}
	w.Run(300)
	for _, s := range w.Static() {
		if s.Position != before[s.ID] {
			t.Errorf("%s moved from %v to %v", s.ID, before[s.ID], s.Position)
		}
		if s.Velocity != (Vec2{}) {
			t.Errorf("%s velocity = %v, want zero", s.ID, s.Velocity)
		}
	}
}

func TestWorldCoincidentCentersSeparateAlongX(t *testing.T) {
	w := NewWorld(Vec2{})
	a := NewCircle("a", 550, 300, 50, 0.8)
	b := NewCircle("b", 550, 300, 40, 0.8)
	if err := w.Add(a, b); err != nil {
		t.Fatal(err)
	}
	w.Step()
	if !(b.Position.X > a.Position.X) {
		t.Errorf("b.X = %f, a.X = %f, want b right of a", b.Position.X, a.Position.X)
	}
	if !approxEqual(a.Position.Y, 300, 1e-9) || !approxEqual(b.Position.Y, 300, 1e-9) {
		t.Errorf("Y changed: a=%f b=%f", a.Position.Y, b.Position.Y)
	}
	if d := b.Position.Sub(a.Position).Len(); d < 90-1e-9 {
		t.Errorf("distance = %f, want >= 90", d)
	}
}

func TestWorldHeavierBodyMovesLess(t *testing.T) {
	w := NewWorld(Vec2{})
	big := NewCircle("big", 0, 0, 100, 0)
	small := NewCircle("small", 100, 0, 20, 0)
	if err := w.Add(big, small); err != nil {
		t.Fatal(err)
	}
	w.Step()
	if math.Abs(big.Position.X) >= math.Abs(small.Position.X-100) {
		t.Errorf("big moved %f, small moved %f; want big to move less", math.Abs(big.Position.X), math.Abs(small.Position.X-100))
	}
}

func TestWorldPairUsesMaxRestitution(t *testing.T) {
	w := NewWorld(Vec2{})
	a := NewCircle("a", 0, 0, 10, 0)
	b := NewCircle("b", 19, 0, 10, 0.6)
	a.Velocity = Vec2{X: 600}
	a.FrictionAir, b.FrictionAir = 0, 0
	if err := w.Add(a, b); err != nil {
		t.Fatal(err)
	}
	var got []Contact
	w.OnContact(func(c Contact) { got = append(got, c) })
	w.Step()
	if len(got) != 1 {
		t.Fatalf("contacts = %d, want 1", len(got))
	}
	if !approxEqual(got[0].ReboundSpeed, 0.6*got[0].ImpactSpeed, 1e-9) {
		t.Errorf("ReboundSpeed = %f, want 0.6 * %f", got[0].ReboundSpeed, got[0].ImpactSpeed)
	}
	// Equal masses: relative velocity reverses scaled by e.
	rel := b.Velocity.X - a.Velocity.X
	if !approxEqual(rel, 0.6*600, 1e-6) {
		t.Errorf("separation speed = %f, want 360", rel)
	}
}

func TestWorldAfterStepOrderAndRemove(t *testing.T) {
	w := NewWorld(DefaultGravity)
	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5)); err != nil {
		t.Fatal(err)
	}
	var order []string
	w.OnAfterStep(func(*World) { order = append(order, "first") })
	h := w.OnAfterStep(func(*World) { order = append(order, "second") })
	w.OnAfterStep(func(*World) { order = append(order, "third") })

	w.Step()
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Fatalf("order = %v, want [first second third]", order)
	}

	h.Remove()
	h.Remove()
	order = order[:0]
	w.Step()
	if len(order) != 2 || order[1] != "third" {
		t.Errorf("order after Remove = %v, want [first third]", order)
	}
}

func TestWorldAfterStepSeesIntegratedPositions(t *testing.T) {
	w := NewWorld(DefaultGravity)
	b := NewCircle("a", 0, 0, 10, 0.5)
	if err := w.Add(b); err != nil {
		t.Fatal(err)
	}
	var seen float64
	w.OnAfterStep(func(w *World) {
		seen = w.Dynamic()[0].Position.Y
	})
	w.Step()
	if seen <= 0 || seen != b.Position.Y {
		t.Errorf("after-step saw y=%f, body at %f", seen, b.Position.Y)
	}
}

func TestWorldDestroyDuringAfterStep(t *testing.T) {
	w := NewWorld(DefaultGravity)
	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5)); err != nil {
		t.Fatal(err)
	}
	calls := 0
	w.OnAfterStep(func(w *World) { w.Destroy() })
	w.OnAfterStep(func(*World) { calls++ })

	w.Step()
	if calls != 0 {
		t.Errorf("subscriber after Destroy ran %d times, want 0", calls)
	}
	if !w.Destroyed() {
		t.Fatal("Destroyed() = false")
	}
	steps := w.Steps()
	w.Step()
	w.Run(10)
	if w.Steps() != steps {
		t.Errorf("Steps() = %d after stepping a destroyed world, want %d", w.Steps(), steps)
	}
	if err := w.Add(NewCircle("b", 0, 0, 10, 0.5)); !errors.Is(err, ErrWorldDestroyed) {
		t.Errorf("Add after Destroy = %v, want ErrWorldDestroyed", err)
	}
	w.Destroy()
}

func TestWorldStepInsideCallbackIsNoop(t *testing.T) {
	w := NewWorld(DefaultGravity)
	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5)); err != nil {
		t.Fatal(err)
	}
	w.OnAfterStep(func(w *World) { w.Step() })
	w.Step()
	if w.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", w.Steps())
	}
}

func TestWorldClear(t *testing.T) {
	w := floorWorld(t, 700)
	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5)); err != nil {
		t.Fatal(err)
	}
	w.Clear()
	if len(w.Bodies()) != 0 || len(w.Dynamic()) != 0 || len(w.Static()) != 0 {
		t.Error("bodies left after Clear")
	}
	w.Step()
	if w.Settled() {
		t.Error("empty world reports Settled")
	}
	if err := w.Add(NewCircle("a", 0, 0, 10, 0.5)); err != nil {
		t.Errorf("Add after Clear: %v", err)
	}
}

func TestWorldDefaultLayoutStaysContained(t *testing.T) {
	g := ReferenceGeometry()
	bodies, err := NewBodySet(DefaultBadges(), Vec2{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorld(DefaultGravity)
	if err := w.Add(bodies...); err != nil {
		t.Fatal(err)
	}
	if err := w.Add(NewBoundaries(g).Bodies()...); err != nil {
		t.Fatal(err)
	}
	w.Run(900)

	const slack = 5
	in := g.Interior()
	for _, b := range w.Dynamic() {
		r := b.Bounds()
		if r.X < in.X-slack || r.X+r.Width > in.X+in.Width+slack {
			t.Errorf("%s at x=%f (r=%f) outside walls", b.ID, b.Position.X, b.Radius)
		}
		if r.Y+r.Height > in.Y+in.Height+slack {
			t.Errorf("%s bottom at %f, below floor %f", b.ID, r.Y+r.Height, in.Y+in.Height)
		}
	}
}
