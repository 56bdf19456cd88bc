package bubblestack

// Scheduler is the host's periodic callback mechanism. Schedule registers fn
// to run once per frame until the returned cancel is called. Cancel must be
// idempotent and take effect immediately, even from inside fn.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func()) (cancel func())

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(fn func()) func() { return f(fn) }

// FrameLoop is a manually driven Scheduler. Each Frame runs every scheduled
// task once, in registration order. Tests drive it directly; the terminal
// demo drives it from a ticker.
type FrameLoop struct {
	tasks  handlerList[func()]
	frames int
}

// NewFrameLoop creates an empty loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// Schedule implements Scheduler.
func (l *FrameLoop) Schedule(fn func()) func() {
	id := l.tasks.add(fn)
	return func() { l.tasks.remove(id) }
}

// Frame runs one frame. Tasks scheduled during the frame first run on the
// next one.
func (l *FrameLoop) Frame() {
	l.frames++
	for _, h := range l.tasks.snapshot() {
		if h.removed {
			continue
		}
		h.fn()
	}
}

// Advance runs n frames.
func (l *FrameLoop) Advance(n int) {
	for i := 0; i < n; i++ {
		l.Frame()
	}
}

// Frames returns the number of frames run so far.
func (l *FrameLoop) Frames() int {
	return l.frames
}

// Len returns the number of scheduled tasks.
func (l *FrameLoop) Len() int {
	return l.tasks.len()
}
