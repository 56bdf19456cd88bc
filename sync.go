package bubblestack

// Element is an externally owned visual element mirrored by a body. The
// simulation never owns elements; it only writes placements.
type Element interface {
	// SetPlacement moves the element's top-left corner to (x, y) in
	// container coordinates.
	SetPlacement(x, y float64)
}

// ElementSet resolves elements by body id.
type ElementSet interface {
	Element(id string) (Element, bool)
}

// ElementMap is a map-backed ElementSet.
type ElementMap map[string]Element

// Element implements ElementSet.
func (m ElementMap) Element(id string) (Element, bool) {
	e, ok := m[id]
	return e, ok
}

// ElementFunc adapts a placement callback to Element.
type ElementFunc func(x, y float64)

// SetPlacement implements Element.
func (f ElementFunc) SetPlacement(x, y float64) { f(x, y) }

// Placement returns the top-left corner for a circle body: badges are
// anchored by their corner but positioned by center.
func Placement(b *Body) Vec2 {
	return Vec2{X: b.Position.X - b.Radius, Y: b.Position.Y - b.Radius}
}

// RenderSync copies body positions onto their elements.
type RenderSync struct {
	elements ElementSet
	missed   map[string]bool
	writes   int
	closed   bool
}

// NewRenderSync creates a sync over elements.
func NewRenderSync(elements ElementSet) *RenderSync {
	return &RenderSync{elements: elements, missed: make(map[string]bool)}
}

// Apply writes one placement per body that has a matching element and
// returns how many were written. Bodies without an element are skipped; the
// first miss per id is logged at debug level. Static bodies are ignored.
func (r *RenderSync) Apply(bodies []*Body) int {
	if r.closed || r.elements == nil {
		return 0
	}
	n := 0
	for _, b := range bodies {
		if r.closed {
			break
		}
		if b.Static {
			continue
		}
		el, ok := r.elements.Element(b.ID)
		if !ok || el == nil {
			if !r.missed[b.ID] {
				r.missed[b.ID] = true
				logFor("sync").WithField("badge", b.ID).Debug("no visual element for body, skipping")
			}
			continue
		}
		p := Placement(b)
		el.SetPlacement(p.X, p.Y)
		n++
		r.writes++
	}
	return n
}

// Writes returns the total number of placements written.
func (r *RenderSync) Writes() int {
	return r.writes
}

// Close stops all further writes, including the rest of an Apply in
// progress.
func (r *RenderSync) Close() {
	r.closed = true
}

// Closed reports whether Close was called.
func (r *RenderSync) Closed() bool {
	return r.closed
}
