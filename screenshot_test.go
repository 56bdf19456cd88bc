package bubblestack

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"settled", "settled"},
		{"before-trigger", "before-trigger"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueue(t *testing.T) {
	s := NewScene()
	if s.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", s.ScreenshotDir)
	}
	s.Screenshot("a")
	s.Screenshot("b")
	if len(s.screenshotQueue) != 2 || s.screenshotQueue[0] != "a" || s.screenshotQueue[1] != "b" {
		t.Errorf("queue = %v, want [a b]", s.screenshotQueue)
	}
}

func TestRunnerScreenshot(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`steps: [{action: screenshot, label: settled}]`))
	if err != nil {
		t.Fatal(err)
	}
	runner.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "settled" {
		t.Errorf("queue = %v, want [settled]", s.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}
