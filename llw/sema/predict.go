package sema

import (
	"fmt"
	"strings"

	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
)

// Phase D: predict sets. For each alternation, every branch gets the decision
// set FIRST(branch), extended by FOLLOW(rule) if the branch is nullable. Two
// sibling branches with overlapping decision sets conflict unless a semantic
// predicate guards one of them. The recursive branches of left-recursive and
// operator-precedence rules are decided by the recursion rewrite, not by
// lookahead, and take no part in conflict detection.
func (a *analysis) computePredict() {
	for rid, rule := range a.rules {
		if a.broken[rid] {
			continue
		}
		r := rid
		walkRegex(rule.Body, func(n llw.Regex) {
			alt, ok := n.(*llw.Alt)
			if !ok {
				return
			}
			sets := make([]*TokenSet, len(alt.Branches))
			for i, br := range alt.Branches {
				s := a.firstOf(br.ID()).Copy()
				if a.nullable[br.ID()] {
					s.AddAll(a.follow[r])
				}
				sets[i] = s
			}
			a.predict[alt.ID()] = sets
			a.checkConflicts(r, alt, sets)
		})
	}
}

// checkConflicts reports at most one conflict per alternation, listing the
// involved branches and the overlapping terminals.
func (a *analysis) checkConflicts(rid int, alt *llw.Alt, sets []*TokenSet) {
	ruleName := a.rules[rid].Name
	recursive := alt == a.rules[rid].Body &&
		(a.classes[rid] == LeftRecursive || a.classes[rid] == OperatorPrecedence)
	guarded := make([]bool, len(alt.Branches))
	for i, br := range alt.Branches {
		guarded[i] = startsWithPredicate(br)
		if recursive && a.ruleRef(leftmostAtom(br)) == rid {
			guarded[i] = true
		}
	}
	involved := NewTokenSet()
	overlap := NewTokenSet()
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if guarded[i] || guarded[j] {
				continue
			}
			ov := sets[i].Intersect(sets[j])
			if ov.IsEmpty() {
				continue
			}
			involved.Add(i)
			involved.Add(j)
			overlap.AddAll(ov)
		}
	}
	if involved.IsEmpty() {
		return
	}
	a.sink.Error(diag.PredictConflict, alt.Span(),
		"LL(1) conflict in rule %s: alternatives %s overlap on %s",
		ruleName, branchList(involved), overlap.Format(a.tokenName))
}

// branchList renders 1-based branch indices as "1 and 2" or "1, 2 and 3".
func branchList(branches *TokenSet) string {
	ids := branches.Values()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id+1)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

// startsWithPredicate reports whether a branch is guarded by a leading
// semantic predicate. Markers emit no tokens and are looked through.
func startsWithPredicate(r llw.Regex) bool {
	switch n := r.(type) {
	case *llw.Predicate:
		return true
	case *llw.Binding:
		return startsWithPredicate(n.Inner)
	case *llw.Concat:
		for _, c := range n.Children {
			if _, isMarker := c.(*llw.Marker); isMarker {
				continue
			}
			return startsWithPredicate(c)
		}
	}
	return false
}
