package visibility

import "slices"

// Set is the positional visibility of every item in a collection.
// Position i refers to the i-th item in collection order.
type Set struct {
	shown []bool
	count int
}

// All returns a Set of n items, all visible.
func All(n int) Set {
	shown := make([]bool, n)
	for i := range shown {
		shown[i] = true
	}
	return Set{shown: shown, count: n}
}

// None returns a Set of n items, all hidden.
func None(n int) Set {
	return Set{shown: make([]bool, n)}
}

// FromFunc builds a Set of n items where item i is visible iff pred(i).
func FromFunc(n int, pred func(i int) bool) Set {
	s := None(n)
	for i := range n {
		if pred(i) {
			s.shown[i] = true
			s.count++
		}
	}
	return s
}

// Len returns the collection size.
func (s Set) Len() int { return len(s.shown) }

// Count returns the number of visible items.
func (s Set) Count() int { return s.count }

// Empty reports whether no item is visible.
func (s Set) Empty() bool { return s.count == 0 }

// Contains reports whether item i is visible. Out-of-range positions are hidden.
func (s Set) Contains(i int) bool {
	return i >= 0 && i < len(s.shown) && s.shown[i]
}

// Indices returns the visible positions in collection order.
func (s Set) Indices() []int {
	out := make([]int, 0, s.count)
	for i, v := range s.shown {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// Intersect returns the items visible in both sets.
// Sets of different lengths are compared up to the shorter length.
func (s Set) Intersect(o Set) Set {
	return FromFunc(min(s.Len(), o.Len()), func(i int) bool {
		return s.shown[i] && o.shown[i]
	})
}

// Equal reports whether both sets cover the same collection with the same visibility.
func (s Set) Equal(o Set) bool {
	return s.count == o.count && slices.Equal(s.shown, o.shown)
}
