package bubblestack

import "testing"

func TestInjectClick(t *testing.T) {
	s, below, _ := newBadgeScene()
	clicked := false
	below.OnClick = func(ctx ClickContext) {
		clicked = true
		if ctx.Node != below {
			t.Error("expected the below disc")
		}
	}

	s.InjectClick(10, 150)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(s.injectQueue))
	}

	// Frame 1: press
	s.processInput()
	if len(s.injectQueue) != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", len(s.injectQueue))
	}
	if clicked {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release
	s.processInput()
	if !clicked {
		t.Error("click should fire on release frame")
	}
	if s.Pending() {
		t.Error("queue should be drained")
	}
}

func TestInjectPressRelease(t *testing.T) {
	s, below, above := newBadgeScene()
	var got []string
	below.OnClick = func(ClickContext) { got = append(got, "below") }
	above.OnClick = func(ClickContext) { got = append(got, "above") }

	s.InjectPress(140, 150)
	s.InjectRelease(140, 150)
	s.InjectPress(10, 150)
	s.InjectRelease(140, 150)
	for s.Pending() {
		s.processInput()
	}
	if len(got) != 1 || got[0] != "above" {
		t.Errorf("clicks = %v, want [above]", got)
	}
}

func TestInjectUsesCamera(t *testing.T) {
	s, below, _ := newBadgeScene()
	cam := s.NewCamera(Rect{Width: 800, Height: 600})
	cam.ScrollBy(0, 100)
	clicked := false
	below.OnClick = func(ClickContext) { clicked = true }

	s.InjectClick(10, 50)
	s.processInput()
	s.processInput()
	if !clicked {
		t.Error("injected screen point should pass through the camera")
	}
}

func TestInjectScroll(t *testing.T) {
	s := NewScene()
	s.WheelScroll = 0
	cam := s.NewCamera(Rect{Width: 800, Height: 600})

	s.InjectScroll(250)
	s.InjectScroll(50)
	if !s.Pending() {
		t.Fatal("scroll should be pending")
	}
	s.processScroll()
	if cam.Y != 600 {
		t.Errorf("camera Y = %v, want 600", cam.Y)
	}
	if s.Pending() {
		t.Error("scroll queue should be drained")
	}
}

func TestInjectScrollWithoutCamera(t *testing.T) {
	s := NewScene()
	s.InjectScroll(100)
	s.processScroll()
	if s.Pending() {
		t.Error("scroll without a camera should be dropped")
	}
}
