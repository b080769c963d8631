package model

import "github.com/comalice/graphview/internal/handle"

// handleSet is an insertion-ordered set with O(1) add/remove/has.
// Removal swaps the last element into the hole.
type handleSet struct {
	index map[handle.Handle]int
	items []handle.Handle
}

func newHandleSet() *handleSet {
	return &handleSet{index: make(map[handle.Handle]int)}
}

func (s *handleSet) add(h handle.Handle) bool {
	if _, ok := s.index[h]; ok {
		return false
	}
	s.index[h] = len(s.items)
	s.items = append(s.items, h)
	return true
}

func (s *handleSet) remove(h handle.Handle) bool {
	i, ok := s.index[h]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.index[moved] = i
	}
	s.items = s.items[:last]
	delete(s.index, h)
	return true
}

func (s *handleSet) has(h handle.Handle) bool {
	_, ok := s.index[h]
	return ok
}

func (s *handleSet) len() int {
	return len(s.items)
}
