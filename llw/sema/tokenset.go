package sema

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// TokenSet is a set of small integer IDs (terminal IDs, and rule IDs in the
// dominator computation). It is backed by a treeset, so iteration is always
// in ascending ID order; every listing derived from a TokenSet is stable.
type TokenSet struct {
	s *treeset.Set
}

// NewTokenSet creates a set holding the given IDs.
func NewTokenSet(ids ...int) *TokenSet {
	t := &TokenSet{s: treeset.NewWith(utils.IntComparator)}
	for _, id := range ids {
		t.s.Add(id)
	}
	return t
}

// Add inserts an ID and reports whether the set changed.
func (t *TokenSet) Add(id int) bool {
	if t.s.Contains(id) {
		return false
	}
	t.s.Add(id)
	return true
}

// Remove deletes an ID and reports whether it was present.
func (t *TokenSet) Remove(id int) bool {
	if !t.s.Contains(id) {
		return false
	}
	t.s.Remove(id)
	return true
}

// AddAll inserts every ID of another set and reports whether the set changed.
func (t *TokenSet) AddAll(other *TokenSet) bool {
	changed := false
	if other == nil {
		return false
	}
	it := other.s.Iterator()
	for it.Next() {
		if t.Add(it.Value().(int)) {
			changed = true
		}
	}
	return changed
}

// Contains reports membership.
func (t *TokenSet) Contains(id int) bool {
	return t.s.Contains(id)
}

// Size returns the number of IDs in the set.
func (t *TokenSet) Size() int {
	return t.s.Size()
}

// IsEmpty reports whether the set has no members.
func (t *TokenSet) IsEmpty() bool {
	return t.s.Empty()
}

// Values returns the IDs in ascending order.
func (t *TokenSet) Values() []int {
	vals := t.s.Values()
	ids := make([]int, len(vals))
	for i, v := range vals {
		ids[i] = v.(int)
	}
	return ids
}

// Copy returns an independent copy of the set.
func (t *TokenSet) Copy() *TokenSet {
	c := NewTokenSet()
	c.AddAll(t)
	return c
}

// Intersect returns the intersection with another set.
func (t *TokenSet) Intersect(other *TokenSet) *TokenSet {
	r := NewTokenSet()
	it := t.s.Iterator()
	for it.Next() {
		id := it.Value().(int)
		if other.Contains(id) {
			r.Add(id)
		}
	}
	return r
}

// Equals reports whether both sets hold exactly the same IDs.
func (t *TokenSet) Equals(other *TokenSet) bool {
	if t.Size() != other.Size() {
		return false
	}
	it := t.s.Iterator()
	for it.Next() {
		if !other.Contains(it.Value().(int)) {
			return false
		}
	}
	return true
}

// Format renders the set as "{a, b, c}" using a naming function.
func (t *TokenSet) Format(name func(int) string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, id := range t.Values() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name(id))
	}
	b.WriteString("}")
	return b.String()
}
