package bubblestack

// DefaultThreshold is the visible fraction of the container that starts the
// simulation.
const DefaultThreshold = 0.1

// VisibleRatio returns the fraction of region's area that lies inside
// viewport, in [0, 1]. Zero-area regions report 0.
func VisibleRatio(region, viewport Rect) float64 {
	area := region.Area()
	if area == 0 {
		return 0
	}
	r := region.Intersection(viewport).Area() / area
	if r > 1 {
		return 1
	}
	return r
}

// VisibilityTrigger is a single-fire subscription on a region's visibility.
// The first Update whose ratio reaches the threshold invokes onFire and
// disengages the trigger for good; later visibility changes are ignored.
type VisibilityTrigger struct {
	threshold float64
	onFire    func()
	fired     bool
	canceled  bool
}

// NewVisibilityTrigger creates a pending trigger. A threshold outside (0, 1]
// falls back to DefaultThreshold.
func NewVisibilityTrigger(threshold float64, onFire func()) *VisibilityTrigger {
	if !(threshold > 0) || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &VisibilityTrigger{threshold: threshold, onFire: onFire}
}

// Threshold returns the visible fraction required to fire.
func (t *VisibilityTrigger) Threshold() float64 {
	return t.threshold
}

// Update delivers one visibility observation. It reports whether this call
// fired the trigger.
func (t *VisibilityTrigger) Update(region, viewport Rect) bool {
	if !t.Active() {
		return false
	}
	if VisibleRatio(region, viewport) < t.threshold {
		return false
	}
	t.fired = true
	fn := t.onFire
	t.onFire = nil
	if fn != nil {
		fn()
	}
	return true
}

// Cancel stops observing without invoking the callback. It is a no-op once
// the trigger has fired.
func (t *VisibilityTrigger) Cancel() {
	if t.fired {
		return
	}
	t.canceled = true
	t.onFire = nil
}

// Active reports whether the trigger is still waiting to fire.
func (t *VisibilityTrigger) Active() bool {
	return !t.fired && !t.canceled
}

// Fired reports whether the trigger has fired.
func (t *VisibilityTrigger) Fired() bool {
	return t.fired
}
