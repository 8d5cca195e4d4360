// Package setutil holds small ID set helpers.
package setutil

import "slices"

// UintSet collects distinct IDs, e.g. the users touched by one batch update.
type UintSet struct {
	items map[uint]struct{}
}

func NewUintSet(ids ...uint) *UintSet {
	s := &UintSet{items: make(map[uint]struct{}, len(ids))}
	s.AddAll(ids)
	return s
}

func (s *UintSet) Add(id uint) {
	s.items[id] = struct{}{}
}

func (s *UintSet) AddAll(ids []uint) {
	for _, id := range ids {
		s.items[id] = struct{}{}
	}
}

func (s *UintSet) Has(id uint) bool {
	_, ok := s.items[id]
	return ok
}

// Sorted returns the IDs in ascending order.
func (s *UintSet) Sorted() []uint {
	out := make([]uint, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s *UintSet) Len() int {
	return len(s.items)
}
