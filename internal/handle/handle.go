// Package handle implements the identity index: a generational slot table
// that maps scene elements to stable, opaque handles without owning them.
//
// Elements are recorded through weak pointers, so an indexed element can
// still be collected by the host. Slots are invalidated explicitly by
// Release; the generation counter makes a released handle unequal to any
// later occupant of the same slot. Collection of a still-indexed element
// triggers a best-effort callback, which callers must treat as a diagnostic
// only: it runs on an arbitrary goroutine at an unspecified time.
package handle

import (
	"fmt"
	"runtime"
	"weak"
)

// Handle identifies an engine entity. The zero value is Nil and is never issued.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil is the zero Handle.
var Nil Handle

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool {
	return h == Nil
}

// Index returns the slot index of h. Useful for stable ordering.
func (h Handle) Index() uint32 {
	return h.index
}

// Less orders handles by slot, then generation.
func (h Handle) Less(o Handle) bool {
	if h.index != o.index {
		return h.index < o.index
	}
	return h.gen < o.gen
}

func (h Handle) String() string {
	if h.IsNil() {
		return "h<nil>"
	}
	return fmt.Sprintf("h%d.%d", h.index, h.gen)
}

type slot[T any] struct {
	gen     uint32
	live    bool
	key     weak.Pointer[T]
	cleanup runtime.Cleanup
}

// Table is the identity index. It is not safe for concurrent use; only the
// lost-element callback may run on another goroutine.
type Table[T any] struct {
	slots  []slot[T]
	free   []uint32
	byKey  map[weak.Pointer[T]]Handle
	live   int
	onLost func(Handle)
}

// NewTable returns an empty table. onLost, if non-nil, is invoked when an
// element is collected while its handle is still live.
func NewTable[T any](onLost func(Handle)) *Table[T] {
	return &Table[T]{
		// slot 0 is reserved so the zero Handle is never valid
		slots:  make([]slot[T], 1),
		byKey:  make(map[weak.Pointer[T]]Handle),
		onLost: onLost,
	}
}

// HandleOf returns the handle already issued for el, or issues a new one.
// A nil element yields Nil.
func (t *Table[T]) HandleOf(el *T) Handle {
	if el == nil {
		return Nil
	}
	key := weak.Make(el)
	if h, ok := t.byKey[key]; ok {
		return h
	}

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot[T]{})
		idx = uint32(len(t.slots) - 1)
	}

	s := &t.slots[idx]
	s.gen++
	s.live = true
	s.key = key
	h := Handle{index: idx, gen: s.gen}
	if t.onLost != nil {
		s.cleanup = runtime.AddCleanup(el, t.onLost, h)
	}
	t.byKey[key] = h
	t.live++
	return h
}

// Lookup returns the handle issued for el without issuing one.
func (t *Table[T]) Lookup(el *T) (Handle, bool) {
	if el == nil {
		return Nil, false
	}
	h, ok := t.byKey[weak.Make(el)]
	return h, ok
}

// Valid reports whether h is live in this table.
func (t *Table[T]) Valid(h Handle) bool {
	if h.index == 0 || int(h.index) >= len(t.slots) {
		return false
	}
	s := &t.slots[h.index]
	return s.live && s.gen == h.gen
}

// Value returns the element behind h, or nil when h is stale or the element
// has been collected.
func (t *Table[T]) Value(h Handle) *T {
	if !t.Valid(h) {
		return nil
	}
	return t.slots[h.index].key.Value()
}

// Release invalidates h and forgets its element. Releasing a stale handle is a no-op.
func (t *Table[T]) Release(h Handle) bool {
	if !t.Valid(h) {
		return false
	}
	s := &t.slots[h.index]
	if t.onLost != nil {
		s.cleanup.Stop()
	}
	delete(t.byKey, s.key)
	s.live = false
	s.key = weak.Pointer[T]{}
	s.cleanup = runtime.Cleanup{}
	t.free = append(t.free, h.index)
	t.live--
	return true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	return t.live
}

// Each calls fn for every live handle in slot order.
func (t *Table[T]) Each(fn func(Handle)) {
	for i := 1; i < len(t.slots); i++ {
		if s := &t.slots[i]; s.live {
			fn(Handle{index: uint32(i), gen: s.gen})
		}
	}
}

// Collected returns the live handles whose element is already gone.
func (t *Table[T]) Collected() []Handle {
	var out []Handle
	t.Each(func(h Handle) {
		if t.slots[h.index].key.Value() == nil {
			out = append(out, h)
		}
	})
	return out
}
