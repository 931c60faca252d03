package sema

import (
	"github.com/llwgen/llwgen"
	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
)

// Phase R: build the terminal and rule tables and resolve every reference.
// Duplicates are reported on the second occurrence; a rule with an
// unresolved reference is flagged and skipped by the later phases.
func (a *analysis) resolve() {
	f := a.file
	a.tokens = []TokenInfo{{Name: "EOF"}}
	for _, d := range f.TokenDecls() {
		if _, dup := a.tokenByName[d.Name]; dup {
			a.sink.Error(diag.Redefinition, d.Rng, "duplicate token %s", d.Name)
			continue
		}
		id := len(a.tokens)
		a.tokens = append(a.tokens, TokenInfo{Name: d.Name, Sym: d.Sym, Class: d.Class})
		a.tokenByName[d.Name] = id
		if d.Sym != "" {
			if _, dup := a.tokenBySym[d.Sym]; dup {
				a.sink.Error(diag.Redefinition, d.Rng, "duplicate symbol '%s'", d.Sym)
			} else {
				a.tokenBySym[d.Sym] = id
			}
		}
	}

	for _, r := range f.RuleItems() {
		if _, dup := a.ruleByName[r.Name]; dup {
			a.sink.Error(diag.Redefinition, r.Rng, "duplicate rule %s", r.Name)
			continue
		}
		a.ruleByName[r.Name] = len(a.rules)
		a.rules = append(a.rules, r)
	}
	a.broken = make([]bool, len(a.rules))

	for _, st := range f.StartItems() {
		if a.start >= 0 || !a.startSpan.IsNull() {
			a.sink.Error(diag.StartRuleIssue, st.Rng, "duplicate start declaration")
			continue
		}
		a.startSpan = st.Rng
		if rid, ok := a.ruleByName[st.Name]; ok {
			a.start = rid
		} else {
			a.sink.Error(diag.UndefinedName, st.Rng, "undefined rule %s", st.Name)
		}
	}
	if a.startSpan.IsNull() && a.start < 0 {
		a.sink.Error(diag.StartRuleIssue, llwgen.Span{}, "missing start declaration")
	}

	for _, sk := range f.SkipItems() {
		for _, n := range sk.Tokens {
			if id, ok := a.tokenByName[n.Name]; ok {
				a.skip.Add(id)
			} else {
				a.sink.Error(diag.UndefinedName, n.Rng, "undefined token %s", n.Name)
			}
		}
	}
	for _, rt := range f.RightItems() {
		for _, n := range rt.Tokens {
			if id, ok := a.tokenByName[n.Name]; ok {
				a.right.Add(id)
				a.rightRefs = append(a.rightRefs, resolvedName{id: id, rng: n.Rng})
			} else {
				a.sink.Error(diag.UndefinedName, n.Rng, "undefined token %s", n.Name)
			}
		}
	}

	a.refs = make([]symRef, f.NodeCount)
	for rid, rule := range a.rules {
		r := rid
		walkRegex(rule.Body, func(n llw.Regex) {
			ref, ok := n.(*llw.Ref)
			if !ok {
				return
			}
			switch {
			case ref.IsSymbol:
				if id, found := a.tokenBySym[ref.Name]; found {
					a.resolveToken(ref, id)
				} else {
					a.sink.Error(diag.UndefinedName, ref.Span(), "undefined token symbol '%s'", ref.Name)
					a.broken[r] = true
				}
			case ref.IsTokenName():
				if id, found := a.tokenByName[ref.Name]; found {
					a.resolveToken(ref, id)
				} else {
					a.sink.Error(diag.UndefinedName, ref.Span(), "undefined token %s", ref.Name)
					a.broken[r] = true
				}
			default:
				if id, found := a.ruleByName[ref.Name]; found {
					a.refs[ref.ID()] = symRef{kind: refRule, id: id}
				} else {
					a.sink.Error(diag.UndefinedName, ref.Span(), "undefined rule %s", ref.Name)
					a.broken[r] = true
				}
			}
		})
	}
}

func (a *analysis) resolveToken(ref *llw.Ref, id int) {
	a.refs[ref.ID()] = symRef{kind: refToken, id: id}
	if _, seen := a.tokenUse[id]; !seen {
		a.tokenUse[id] = ref.Span()
	}
}

// ruleRef returns the rule ID a node resolves to, or -1.
func (a *analysis) ruleRef(n llw.Regex) int {
	if ref, ok := n.(*llw.Ref); ok {
		if sr := a.refs[ref.ID()]; sr.kind == refRule {
			return sr.id
		}
	}
	return -1
}

// tokenRef returns the terminal ID a node resolves to, or -1.
func (a *analysis) tokenRef(n llw.Regex) int {
	if ref, ok := n.(*llw.Ref); ok {
		if sr := a.refs[ref.ID()]; sr.kind == refToken {
			return sr.id
		}
	}
	return -1
}
