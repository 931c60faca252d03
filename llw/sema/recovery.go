package sema

import (
	"github.com/llwgen/llwgen/llw"
)

// Phase G: recovery-set synthesis.
//
// Vertices of the rule-derivation graph are rules; an edge A → B exists if B
// is referenced somewhere in A's body. A rule D dominates R if every path
// from the start rule to R passes through D. The recovery set of R is the
// union of the FOLLOW sets of R's dominators, plus EOF: the parser must
// eventually return through every dominator, so their follow terminals are
// always legal synchronization points. Taking dominators instead of the
// current call path handles recursion and shared tails without
// over-approximating.
//
// Dominators are computed with the classical iterative dataflow algorithm
// over the reverse post-order of the graph.
func (a *analysis) computeRecovery() {
	n := len(a.rules)
	a.recovery = make([]*TokenSet, n)
	a.reachable = make([]bool, n)
	if a.start < 0 {
		for rid := range a.rules {
			a.recovery[rid] = NewTokenSet(EOFToken)
		}
		return
	}

	succ := a.derivationGraph()
	order := postOrder(succ, a.start)
	rpo := make([]int, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		rpo = append(rpo, order[i])
	}
	for _, rid := range order {
		a.reachable[rid] = true
	}
	pred := make([]*TokenSet, n)
	for rid := range a.rules {
		pred[rid] = NewTokenSet()
	}
	for rid, ss := range succ {
		if !a.reachable[rid] {
			continue
		}
		for _, t := range ss.Values() {
			pred[t].Add(rid)
		}
	}

	dom := make([]*TokenSet, n)
	dom[a.start] = NewTokenSet(a.start)
	changed := true
	for changed {
		changed = false
		for _, rid := range rpo {
			if rid == a.start {
				continue
			}
			d := a.intersectDoms(dom, pred[rid])
			if d == nil {
				continue
			}
			d.Add(rid)
			if dom[rid] == nil || !dom[rid].Equals(d) {
				dom[rid] = d
				changed = true
			}
		}
	}

	for rid := range a.rules {
		s := NewTokenSet(EOFToken)
		if a.reachable[rid] && dom[rid] != nil {
			for _, d := range dom[rid].Values() {
				s.AddAll(a.follow[d])
			}
		}
		a.recovery[rid] = s
		tracer().Debugf("recovery(%s) = %s", a.rules[rid].Name, s.Format(a.tokenName))
	}
}

// derivationGraph collects, per rule, the set of rules referenced in its body.
func (a *analysis) derivationGraph() []*TokenSet {
	succ := make([]*TokenSet, len(a.rules))
	for rid, rule := range a.rules {
		succ[rid] = NewTokenSet()
		if a.broken[rid] {
			continue
		}
		r := rid
		walkRegex(rule.Body, func(n llw.Regex) {
			if tgt := a.ruleRef(n); tgt >= 0 {
				succ[r].Add(tgt)
			}
		})
	}
	return succ
}

// postOrder returns the rules reachable from the start rule in DFS
// post-order.
func postOrder(succ []*TokenSet, start int) []int {
	visited := make([]bool, len(succ))
	var order []int
	var visit func(int)
	visit = func(rid int) {
		visited[rid] = true
		for _, t := range succ[rid].Values() {
			if !visited[t] {
				visit(t)
			}
		}
		order = append(order, rid)
	}
	visit(start)
	return order
}

// intersectDoms intersects the dominator sets of all predecessors that have
// been computed so far. nil means no predecessor is settled yet.
func (a *analysis) intersectDoms(dom []*TokenSet, preds *TokenSet) *TokenSet {
	var d *TokenSet
	for _, p := range preds.Values() {
		if dom[p] == nil {
			continue
		}
		if d == nil {
			d = dom[p].Copy()
		} else {
			d = d.Intersect(dom[p])
		}
	}
	return d
}
