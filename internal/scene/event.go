package scene

import (
	"fmt"
	"sync"
)

// EventKind enumerates scene-tree notifications.
type EventKind uint8

const (
	SubtreeInserted EventKind = iota + 1
	SubtreeRemoved
	MarkerAdded
	MarkerRemoved
)

func (k EventKind) String() string {
	switch k {
	case SubtreeInserted:
		return "subtree-inserted"
	case SubtreeRemoved:
		return "subtree-removed"
	case MarkerAdded:
		return "marker-added"
	case MarkerRemoved:
		return "marker-removed"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event is one scene-tree notification. Marker is set for marker events only.
type Event struct {
	Kind   EventKind
	Target *Element
	Marker Marker
}

func (e Event) String() string {
	if e.Marker != "" {
		return fmt.Sprintf("%s %s [%s]", e.Kind, e.Target, e.Marker)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Target)
}

// EventWithMeta adds sequencing metadata for deterministic ordering.
type EventWithMeta struct {
	Event       Event
	SequenceNum uint64
}

// Queue buffers notifications until the engine drains them. Push may be
// called from the host's goroutine; Collect from the engine's.
type Queue struct {
	mu          sync.Mutex
	batch       []EventWithMeta
	sequenceNum uint64
}

// NewQueue returns a queue with room for size events before it grows.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{batch: make([]EventWithMeta, 0, size)}
}

// Push appends ev and returns its sequence number.
func (q *Queue) Push(ev Event) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	seq := q.sequenceNum
	q.batch = append(q.batch, EventWithMeta{Event: ev, SequenceNum: seq})
	q.sequenceNum++
	return seq
}

// Collect atomically takes every queued event in push order.
func (q *Queue) Collect() []EventWithMeta {
	q.mu.Lock()
	defer q.mu.Unlock()

	events := q.batch
	q.batch = make([]EventWithMeta, 0, cap(events))
	return events
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.batch)
}
