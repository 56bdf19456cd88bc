package bubblestack

// handler is one registered callback. removed is set instead of compacting
// in place so a dispatch already in progress skips it.
type handler[F any] struct {
	id      uint32
	fn      F
	removed bool
}

// handlerList is an ordered callback registry. Callbacks fire in
// registration order.
type handlerList[F any] struct {
	entries []*handler[F]
	nextID  uint32
}

func (l *handlerList[F]) add(fn F) uint32 {
	l.nextID++
	l.entries = append(l.entries, &handler[F]{id: l.nextID, fn: fn})
	return l.nextID
}

// remove drops the entry with the given id. The surviving entries are copied
// into a fresh slice so snapshots taken by an in-flight dispatch stay intact.
func (l *handlerList[F]) remove(id uint32) {
	for i, h := range l.entries {
		if h.id == id {
			h.removed = true
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

// snapshot returns the current entries for dispatch.
func (l *handlerList[F]) snapshot() []*handler[F] {
	return l.entries
}

func (l *handlerList[F]) clear() {
	for _, h := range l.entries {
		h.removed = true
	}
	l.entries = nil
}

func (l *handlerList[F]) len() int {
	return len(l.entries)
}

// CallbackHandle allows removing a registered callback. Remove is safe to
// call more than once and on the zero value.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

func newHandle[F any](l *handlerList[F], id uint32) CallbackHandle {
	return CallbackHandle{remove: func() { l.remove(id) }}
}
