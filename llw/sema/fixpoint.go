package sema

import (
	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
)

// The set analyses are computed as fixpoints over the rule table. Expected
// iteration counts are bounded by the nesting depth of rule references.

// Phase P: productivity. A rule is productive if its body can derive some
// finite terminal string. Computed from below: start with no rule productive
// and add rules until stable. Non-productive rules are reported and excluded
// from the remaining phases.
func (a *analysis) checkProductive() {
	prod := make([]bool, len(a.rules))
	for rid := range a.rules {
		if a.broken[rid] {
			prod[rid] = true // skip, avoid cascading diagnostics
		}
	}
	changed := true
	for changed {
		changed = false
		for rid, rule := range a.rules {
			if prod[rid] {
				continue
			}
			if a.productiveNode(rule.Body, prod) {
				prod[rid] = true
				changed = true
			}
		}
	}
	for rid, rule := range a.rules {
		if !prod[rid] {
			a.sink.Error(diag.Unproductive, rule.Rng, "rule %s cannot derive a terminal string", rule.Name)
			a.broken[rid] = true
		}
	}
}

func (a *analysis) productiveNode(r llw.Regex, prod []bool) bool {
	switch n := r.(type) {
	case *llw.Alt:
		for _, br := range n.Branches {
			if a.productiveNode(br, prod) {
				return true
			}
		}
		return false
	case *llw.Concat:
		for _, c := range n.Children {
			if !a.productiveNode(c, prod) {
				return false
			}
		}
		return true
	case *llw.Plus:
		return a.productiveNode(n.Inner, prod)
	case *llw.Binding:
		return a.productiveNode(n.Inner, prod)
	case *llw.Ref:
		if rid := a.ruleRef(n); rid >= 0 {
			return prod[rid]
		}
		return true // terminals and unresolved references
	}
	// Optional, Star, Marker, Predicate, Action, Create
	return true
}

// Phase N: nullability, per node, as a least fixpoint over the rules.
func (a *analysis) computeNullable() {
	a.nullable = make([]bool, a.file.NodeCount)
	a.ruleNullable = make([]bool, len(a.rules))
	changed := true
	for changed {
		changed = false
		for rid, rule := range a.rules {
			if a.broken[rid] {
				continue
			}
			v := a.evalNullable(rule.Body)
			if v != a.ruleNullable[rid] {
				a.ruleNullable[rid] = v
				changed = true
			}
		}
	}
}

func (a *analysis) evalNullable(r llw.Regex) bool {
	v := false
	switch n := r.(type) {
	case *llw.Optional, *llw.Star, *llw.Marker, *llw.Predicate, *llw.Action, *llw.Create:
		v = true
	case *llw.Plus:
		v = a.evalNullable(n.Inner)
	case *llw.Binding:
		v = a.evalNullable(n.Inner)
	case *llw.Ref:
		if rid := a.ruleRef(n); rid >= 0 {
			v = a.ruleNullable[rid]
		}
	case *llw.Concat:
		v = true
		for _, c := range n.Children {
			if !a.evalNullable(c) {
				v = false
			}
		}
	case *llw.Alt:
		for _, br := range n.Branches {
			if a.evalNullable(br) {
				v = true
			}
		}
	}
	// evaluate inner nodes of Optional and Star for their table entries
	switch n := r.(type) {
	case *llw.Optional:
		a.evalNullable(n.Inner)
	case *llw.Star:
		a.evalNullable(n.Inner)
	}
	a.nullable[r.ID()] = v
	return v
}

// Phase F, part 1: FIRST sets per node.
func (a *analysis) computeFirst() {
	a.first = make([]*TokenSet, a.file.NodeCount)
	changed := true
	for changed {
		changed = false
		for rid, rule := range a.rules {
			if a.broken[rid] {
				continue
			}
			if a.evalFirst(rule.Body) {
				changed = true
			}
		}
	}
}

func (a *analysis) evalFirst(r llw.Regex) bool {
	set := a.firstOf(r.ID())
	changed := false
	switch n := r.(type) {
	case *llw.Ref:
		if tid := a.tokenRef(n); tid >= 0 {
			changed = set.Add(tid)
		} else if rid := a.ruleRef(n); rid >= 0 && !a.broken[rid] {
			changed = set.AddAll(a.firstOf(a.rules[rid].Body.ID()))
		}
	case *llw.Optional:
		changed = a.evalFirst(n.Inner)
		changed = set.AddAll(a.firstOf(n.Inner.ID())) || changed
	case *llw.Star:
		changed = a.evalFirst(n.Inner)
		changed = set.AddAll(a.firstOf(n.Inner.ID())) || changed
	case *llw.Plus:
		changed = a.evalFirst(n.Inner)
		changed = set.AddAll(a.firstOf(n.Inner.ID())) || changed
	case *llw.Binding:
		changed = a.evalFirst(n.Inner)
		changed = set.AddAll(a.firstOf(n.Inner.ID())) || changed
	case *llw.Alt:
		for _, br := range n.Branches {
			changed = a.evalFirst(br) || changed
			changed = set.AddAll(a.firstOf(br.ID())) || changed
		}
	case *llw.Concat:
		for _, c := range n.Children {
			changed = a.evalFirst(c) || changed
		}
		for _, c := range n.Children {
			changed = set.AddAll(a.firstOf(c.ID())) || changed
			if !a.nullable[c.ID()] {
				break
			}
		}
	}
	// Predicate, Action, Marker, Create contribute nothing
	return changed
}

// Phase F, part 2: FOLLOW sets per rule. FOLLOW(start) starts at {EOF};
// the classical propagation rules run until stable, with loops treating the
// next iteration's FIRST as possible follow input.
func (a *analysis) computeFollow() {
	a.follow = make([]*TokenSet, len(a.rules))
	for rid := range a.rules {
		a.follow[rid] = NewTokenSet()
	}
	if a.start >= 0 {
		a.follow[a.start].Add(EOFToken)
	}
	changed := true
	for changed {
		changed = false
		for rid, rule := range a.rules {
			if a.broken[rid] {
				continue
			}
			if a.propagateFollow(rule.Body, a.follow[rid]) {
				changed = true
			}
		}
	}
}

func (a *analysis) propagateFollow(r llw.Regex, after *TokenSet) bool {
	changed := false
	switch n := r.(type) {
	case *llw.Ref:
		if rid := a.ruleRef(n); rid >= 0 {
			changed = a.follow[rid].AddAll(after)
		}
	case *llw.Concat:
		for i, c := range n.Children {
			changed = a.propagateFollow(c, a.suffixFirst(n.Children[i+1:], after)) || changed
		}
	case *llw.Alt:
		for _, br := range n.Branches {
			changed = a.propagateFollow(br, after) || changed
		}
	case *llw.Optional:
		changed = a.propagateFollow(n.Inner, after)
	case *llw.Binding:
		changed = a.propagateFollow(n.Inner, after)
	case *llw.Star:
		changed = a.propagateFollow(n.Inner, a.loopFollow(n.Inner, after))
	case *llw.Plus:
		changed = a.propagateFollow(n.Inner, a.loopFollow(n.Inner, after))
	}
	return changed
}

// suffixFirst computes the terminals that may follow a sequence position:
// the FIRST sets of the trailing siblings while they are nullable, plus the
// surrounding follow input if the whole tail is nullable.
func (a *analysis) suffixFirst(rest []llw.Regex, after *TokenSet) *TokenSet {
	s := NewTokenSet()
	for _, c := range rest {
		s.AddAll(a.firstOf(c.ID()))
		if !a.nullable[c.ID()] {
			return s
		}
	}
	s.AddAll(after)
	return s
}

// loopFollow is the follow input inside a repetition: the loop body may be
// followed by its own next iteration.
func (a *analysis) loopFollow(inner llw.Regex, after *TokenSet) *TokenSet {
	s := a.firstOf(inner.ID()).Copy()
	s.AddAll(after)
	return s
}
