package model

import "sort"

// IDSet is an immutable set of todo ids. Every mutator returns a new
// value, so a snapshot handed out earlier never changes underneath its
// holder. The zero value is the empty set.
type IDSet struct {
	m map[int]struct{}
}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...int) IDSet { return IDSet{}.With(ids...) }

// Has reports membership.
func (s IDSet) Has(id int) bool {
	_, ok := s.m[id]
	return ok
}

// Len is the number of ids in the set.
func (s IDSet) Len() int { return len(s.m) }

// With returns a copy of s with ids added.
func (s IDSet) With(ids ...int) IDSet {
	if len(ids) == 0 {
		return s
	}
	m := make(map[int]struct{}, len(s.m)+len(ids))
	for id := range s.m {
		m[id] = struct{}{}
	}
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return IDSet{m: m}
}

// Without returns a copy of s with ids removed.
func (s IDSet) Without(ids ...int) IDSet {
	if len(s.m) == 0 || len(ids) == 0 {
		return s
	}
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	m := make(map[int]struct{}, len(s.m))
	for id := range s.m {
		if _, gone := drop[id]; !gone {
			m[id] = struct{}{}
		}
	}
	return IDSet{m: m}
}

// IDs returns the members in ascending order.
func (s IDSet) IDs() []int {
	out := make([]int, 0, len(s.m))
	for id := range s.m {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
