package sema

import (
	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
)

// Phase E: final structural checks, after all sets are in place.
func (a *analysis) finalChecks() {
	a.checkReachability()
	a.checkStartNotReferenced()
	a.checkSkipTokens()
	a.checkRightTokens()
	for rid, rule := range a.rules {
		if a.broken[rid] {
			continue
		}
		a.checkIndexCollisions(rule)
		a.checkMarkers(rule)
	}
}

func (a *analysis) checkReachability() {
	if a.start < 0 {
		return
	}
	for rid, rule := range a.rules {
		if !a.reachable[rid] && !a.broken[rid] {
			a.sink.Warn(diag.Unreachable, rule.Rng, "rule %s is unreachable from the start rule", rule.Name)
		}
	}
}

// The self-references of a left-recursive or operator-precedence start rule
// are resolved by the recursion rewrite and are exempt from this check.
func (a *analysis) checkStartNotReferenced() {
	if a.start < 0 {
		return
	}
	selfRec := a.classes[a.start] == LeftRecursive || a.classes[a.start] == OperatorPrecedence
	for rid, rule := range a.rules {
		if rid == a.start && selfRec {
			continue
		}
		walkRegex(rule.Body, func(n llw.Regex) {
			if a.ruleRef(n) == a.start {
				a.sink.Error(diag.StartRuleIssue, n.Span(),
					"start rule %s must not be referenced", a.rules[a.start].Name)
			}
		})
	}
}

func (a *analysis) checkSkipTokens() {
	for _, id := range a.skip.Values() {
		if rng, used := a.tokenUse[id]; used {
			a.sink.Error(diag.SkipOrRightMisuse, rng,
				"skip token %s may not appear in a rule", a.tokenName(id))
		}
	}
}

func (a *analysis) checkRightTokens() {
	for _, rr := range a.rightRefs {
		if !a.midTokens.Contains(rr.id) {
			a.sink.Error(diag.SkipOrRightMisuse, rr.rng,
				"right token %s is not used as an operator", a.tokenName(rr.id))
		}
	}
}

// Predicate and action indices must be unique within a rule; both index
// namespaces are independent.
func (a *analysis) checkIndexCollisions(rule *llw.Rule) {
	preds := NewTokenSet()
	acts := NewTokenSet()
	walkRegex(rule.Body, func(n llw.Regex) {
		switch x := n.(type) {
		case *llw.Predicate:
			if !preds.Add(x.Index) {
				a.sink.Error(diag.IndexCollision, x.Span(),
					"duplicate predicate index ?%d in rule %s", x.Index, rule.Name)
			}
		case *llw.Action:
			if !acts.Add(x.Index) {
				a.sink.Error(diag.IndexCollision, x.Span(),
					"duplicate action index #%d in rule %s", x.Index, rule.Name)
			}
		}
	})
}

// checkMarkers verifies that every creation N>name is preceded by a matching
// marker <N on every path reaching it, and that every marker has a creation
// with the same index somewhere in the rule. Node bindings inside a marked region are rejected until their
// interaction with node creation is settled.
func (a *analysis) checkMarkers(rule *llw.Rule) {
	creates := NewTokenSet()
	walkRegex(rule.Body, func(n llw.Regex) {
		if c, ok := n.(*llw.Create); ok {
			creates.Add(c.Index)
		}
	})
	a.markerFlow(rule, rule.Body, NewTokenSet())
	walkRegex(rule.Body, func(n llw.Regex) {
		if m, ok := n.(*llw.Marker); ok && !creates.Contains(m.Index) {
			a.sink.Error(diag.MarkerMismatch, m.Span(),
				"marker <%d in rule %s is never closed", m.Index, rule.Name)
		}
	})
}

// markerFlow threads the set of open markers through a regex. Branches of an
// alternation only keep markers opened on every branch; repetitions and
// optionals cannot leak markers, since their bodies may run zero times.
func (a *analysis) markerFlow(rule *llw.Rule, r llw.Regex, open *TokenSet) *TokenSet {
	switch n := r.(type) {
	case *llw.Marker:
		open.Add(n.Index)
	case *llw.Create:
		if !open.Remove(n.Index) {
			a.sink.Error(diag.MarkerMismatch, n.Span(),
				"creation %d>%s in rule %s has no preceding marker <%d", n.Index, n.Name, rule.Name, n.Index)
		}
	case *llw.Concat:
		for _, c := range n.Children {
			open = a.markerFlow(rule, c, open)
		}
	case *llw.Alt:
		var merged *TokenSet
		for _, br := range n.Branches {
			res := a.markerFlow(rule, br, open.Copy())
			if merged == nil {
				merged = res
			} else {
				merged = merged.Intersect(res)
			}
		}
		if merged != nil {
			open = merged
		}
	case *llw.Optional:
		a.markerFlow(rule, n.Inner, open.Copy())
	case *llw.Star:
		a.markerFlow(rule, n.Inner, open.Copy())
	case *llw.Plus:
		a.markerFlow(rule, n.Inner, open.Copy())
	case *llw.Binding:
		if !open.IsEmpty() {
			a.sink.Error(diag.ClassificationError, n.Span(),
				"binding @%s in rule %s may not appear inside a marked region", n.Name, rule.Name)
		}
		a.markerFlow(rule, n.Inner, open.Copy())
	}
	return open
}
