package graph

import "slices"

// Set is a set of airport IDs.
type Set map[int32]bool

// NewSet returns a set holding ids.
func NewSet(ids ...int32) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Add inserts id into the set.
func (s Set) Add(id int32) { s[id] = true }

// Has reports whether id is in the set. Safe on a nil set.
func (s Set) Has(id int32) bool { return s[id] }

// Len returns the number of IDs in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the IDs in ascending order.
func (s Set) Sorted() []int32 {
	out := make([]int32, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both sets hold the same IDs.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for id := range s {
		if !o[id] {
			return false
		}
	}
	return true
}
