package sema

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/llwgen/llwgen/llw"
)

// EOFToken is the terminal ID of the end-of-input marker. Declared terminals
// get the IDs 1…n in declaration order.
const EOFToken = 0

// TokenInfo describes one terminal of the analyzed grammar.
type TokenInfo struct {
	Name  string
	Sym   string
	Class bool // symbol is class-style, "<...>"
}

// RuleInfo carries the analysis results for one rule.
type RuleInfo struct {
	Name     string
	Class    RuleClass
	First    *TokenSet
	Follow   *TokenSet
	Recovery *TokenSet
	Predict  []*TokenSet // decision sets of the top-level alternatives
	Ops      []OpLevel   // precedence levels for operator rules
	Suppress bool        // rule does not create a syntax-tree node
	NodeName string      // node name, rule name unless overridden by a binding
}

// Artifact is the analyzed-grammar output of the semantic pass, the input of
// the code-emission back-end. It is complete up to the reported diagnostics.
type Artifact struct {
	Path   string
	Tokens []TokenInfo // [0] is EOF
	Rules  []RuleInfo
	Start  int // rule ID of the start rule, -1 if missing
	Skip   *TokenSet
	Right  *TokenSet
}

// TokenName returns the terminal's declared name, "EOF" for the EOF ID.
func (art *Artifact) TokenName(id int) string {
	if id >= 0 && id < len(art.Tokens) {
		return art.Tokens[id].Name
	}
	return "?"
}

// RightAssoc reports whether an operator terminal is right-associative.
func (art *Artifact) RightAssoc(tok int) bool {
	return art.Right.Contains(tok)
}

// Fingerprint returns a stable hash over the analysis results. Two runs over
// equivalent grammars produce the same fingerprint.
func (art *Artifact) Fingerprint() string {
	type ruleView struct {
		Name     string
		Class    int
		First    []int
		Follow   []int
		Recovery []int
		Predict  [][]int
		Ops      []OpLevel
		Suppress bool
		NodeName string
	}
	type view struct {
		Tokens []TokenInfo
		Rules  []ruleView
		Start  int
		Skip   []int
		Right  []int
	}
	v := view{
		Tokens: art.Tokens,
		Start:  art.Start,
		Skip:   art.Skip.Values(),
		Right:  art.Right.Values(),
	}
	for _, r := range art.Rules {
		rv := ruleView{
			Name:     r.Name,
			Class:    int(r.Class),
			First:    r.First.Values(),
			Follow:   r.Follow.Values(),
			Recovery: r.Recovery.Values(),
			Ops:      r.Ops,
			Suppress: r.Suppress,
			NodeName: r.NodeName,
		}
		for _, p := range r.Predict {
			rv.Predict = append(rv.Predict, p.Values())
		}
		v.Rules = append(v.Rules, rv)
	}
	return fmt.Sprintf("%x", structhash.Sha1(v, 1))
}

// artifact assembles the output of a finished pass.
func (a *analysis) artifact() *Artifact {
	art := &Artifact{
		Path:   a.file.Path,
		Tokens: a.tokens,
		Start:  a.start,
		Skip:   a.skip,
		Right:  a.right,
	}
	for rid, rule := range a.rules {
		ri := RuleInfo{
			Name:     rule.Name,
			Class:    a.classes[rid],
			First:    a.firstOf(rule.Body.ID()).Copy(),
			Follow:   a.follow[rid].Copy(),
			Recovery: a.recovery[rid].Copy(),
			Ops:      a.ops[rid],
			Suppress: a.suppress[rid],
			NodeName: a.nodeName[rid],
		}
		if alt, ok := rule.Body.(*llw.Alt); ok {
			if sets, found := a.predict[alt.ID()]; found {
				ri.Predict = sets
			}
		}
		if ri.Predict == nil {
			p := ri.First.Copy()
			if a.ruleNullable[rid] {
				p.AddAll(ri.Follow)
			}
			ri.Predict = []*TokenSet{p}
		}
		art.Rules = append(art.Rules, ri)
	}
	return art
}
