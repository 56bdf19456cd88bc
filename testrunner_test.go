package bubblestack

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`
steps:
  - {action: scroll, dy: 600}
  - {action: wait, frames: 3}
  - {action: click, x: 100, y: 200}
`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "scroll" || runner.steps[0].DY != 600 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "wait" || runner.steps[1].Frames != 3 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "click" || runner.steps[2].X != 100 || runner.steps[2].Y != 200 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadTestScriptJSON(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 5, "y": 6}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runner.steps[0].X != 5 || runner.steps[0].Y != 6 {
		t.Errorf("step = %+v", runner.steps[0])
	}
}

func TestLoadTestScriptInvalid(t *testing.T) {
	if _, err := LoadTestScript([]byte(`not a script`)); err == nil {
		t.Error("expected error for a bare scalar")
	}
	if _, err := LoadTestScript([]byte(`steps: []`)); err == nil {
		t.Error("expected error for empty steps")
	}
	if _, err := LoadTestScript([]byte(`steps: [{action: jump}]`)); err == nil {
		t.Error("expected error for an unknown action")
	}
}

func TestRunnerClick(t *testing.T) {
	s, below, _ := newBadgeScene()
	clicked := false
	below.OnClick = func(ClickContext) { clicked = true }

	runner, err := LoadTestScript([]byte(`steps: [{action: click, x: 10, y: 150}]`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	// Frame 1: runner queues press+release, press consumed.
	runner.step(s)
	s.processInput()
	// Frame 2: release consumed.
	runner.step(s)
	s.processInput()

	if !clicked {
		t.Error("scripted click did not reach the node")
	}
	runner.step(s)
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerWait(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`steps: [{action: wait, frames: 3}, {action: scroll, dy: 10}]`))
	if err != nil {
		t.Fatal(err)
	}

	runner.step(s) // wait starts, counts as frame 1
	runner.step(s) // frame 2
	runner.step(s) // frame 3
	if len(s.scrollQueue) != 0 {
		t.Fatal("scroll queued before the wait finished")
	}
	runner.step(s)
	if len(s.scrollQueue) != 1 || s.scrollQueue[0] != 10 {
		t.Errorf("scrollQueue = %v, want [10]", s.scrollQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done after its last step")
	}
}
