package bubblestack

import "testing"

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.Root() == nil {
		t.Fatal("Root() is nil")
	}
	if s.Root().Name != "root" {
		t.Errorf("root name = %q, want root", s.Root().Name)
	}
	if s.Camera() != nil {
		t.Error("new scene should have no camera")
	}
}

func TestSceneViewport(t *testing.T) {
	s := NewScene()
	s.SetSize(640, 480)
	if got := s.Viewport(); got != (Rect{Width: 640, Height: 480}) {
		t.Errorf("Viewport without camera = %+v, want 640x480", got)
	}

	cam := s.NewCamera(Rect{Width: 800, Height: 600})
	cam.ScrollBy(0, 900)
	vp := s.Viewport()
	if !approxEqual(vp.Y, 900, epsilon) || !approxEqual(vp.Height, 600, epsilon) {
		t.Errorf("Viewport = %+v, want the camera's visible bounds", vp)
	}
}

func TestSceneScheduleOrder(t *testing.T) {
	s := NewScene()
	var order []int
	s.Schedule(func() { order = append(order, 1) })
	cancel := s.Schedule(func() { order = append(order, 2) })
	s.Schedule(func() { order = append(order, 3) })

	s.update(frameDT)
	cancel()
	cancel()
	s.update(frameDT)

	want := []int{1, 2, 3, 1, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestSceneScheduleCancelInsideTask(t *testing.T) {
	s := NewScene()
	runs := 0
	var cancel func()
	cancel = s.Schedule(func() {
		runs++
		cancel()
	})
	later := 0
	s.Schedule(func() { later++ })

	s.update(frameDT)
	s.update(frameDT)
	if runs != 1 {
		t.Errorf("self-cancelling task ran %d times, want 1", runs)
	}
	if later != 2 {
		t.Errorf("later task ran %d times, want 2", later)
	}
}

func TestSceneScheduleDuringUpdate(t *testing.T) {
	s := NewScene()
	added := 0
	s.Schedule(func() {
		if added == 0 {
			s.Schedule(func() { added++ })
		}
	})
	s.update(frameDT)
	if added != 0 {
		t.Error("task scheduled mid-frame ran in the same frame")
	}
	s.update(frameDT)
	if added != 1 {
		t.Errorf("added ran %d times, want 1", added)
	}
}

func TestSceneUpdateOrder(t *testing.T) {
	s := NewScene()
	cam := s.NewCamera(Rect{Width: 800, Height: 600})
	node := NewContainer("n")
	s.Root().AddChild(node)

	var order []string
	s.Schedule(func() {
		order = append(order, "task")
		if cam.Y != 350 {
			t.Errorf("task saw camera Y = %v, want the scroll applied first", cam.Y)
		}
	})
	node.OnUpdate = func(float64) { order = append(order, "node") }

	s.InjectScroll(50)
	s.update(frameDT)
	if len(order) != 2 || order[0] != "task" || order[1] != "node" {
		t.Errorf("order = %v, want [task node]", order)
	}
}

type countingStore struct{ n int }

func (c *countingStore) EmitEvent(Event) { c.n++ }

func TestSceneEmit(t *testing.T) {
	s := NewScene()
	s.emit(Event{Type: EventClick})

	store := &countingStore{}
	s.SetEntityStore(store)
	s.emit(Event{Type: EventClick})
	s.emit(Event{Type: EventSettled})
	if store.n != 2 {
		t.Errorf("events = %d, want 2", store.n)
	}
}

func TestSceneDebugMode(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	n := NewContainer("n")
	n.Dispose()
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding a disposed node in debug mode")
		}
	}()
	s.Root().AddChild(n)
}
