package sema

import (
	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
)

// RuleClass tags the top-level shape of a rule. The parser generated for a
// rule depends on its class: left-recursive and operator-precedence rules
// compile into loops, forwarding rules suppress their syntax-tree node.
type RuleClass int

const (
	Plain RuleClass = iota
	LeftRecursive
	OperatorPrecedence
	UnconditionalForward
	ConditionalForward
	RightRecursiveForward
	MaybeEmpty
)

var classNames = [...]string{
	"plain", "left-recursive", "operator-precedence",
	"unconditional-forward", "conditional-forward",
	"right-recursive-forward", "maybe-empty",
}

func (c RuleClass) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// OpLevel is one precedence level of an operator rule: the operator
// terminals of one recursive branch. Levels are counted from the first
// branch, binding tightest.
type OpLevel struct {
	Level  int
	Tokens []int
}

// Phase C: classify each rule's top-level shape and validate the shape
// constraints. Near-misses of the operator-precedence pattern get specific
// diagnostics.
func (a *analysis) classify() {
	n := len(a.rules)
	a.classes = make([]RuleClass, n)
	a.ops = make([][]OpLevel, n)
	a.suppress = make([]bool, n)
	a.nodeName = make([]string, n)
	for rid, rule := range a.rules {
		a.nodeName[rid] = rule.Name
		if b, ok := rule.Body.(*llw.Binding); ok {
			a.nodeName[rid] = b.Name
		}
		if a.broken[rid] {
			continue
		}
		a.classes[rid] = a.classifyRule(rid, rule)
		switch a.classes[rid] {
		case UnconditionalForward, ConditionalForward, RightRecursiveForward:
			a.suppress[rid] = true
		}
		tracer().Debugf("rule %s is %s", rule.Name, a.classes[rid])
	}
}

func (a *analysis) classifyRule(rid int, rule *llw.Rule) RuleClass {
	body := rule.Body
	if alt, ok := body.(*llw.Alt); ok {
		var rec, nonRec []llw.Regex
		for _, br := range alt.Branches {
			if a.ruleRef(leftmostAtom(br)) == rid {
				rec = append(rec, br)
			} else {
				nonRec = append(nonRec, br)
			}
		}
		if len(rec) > 0 {
			return a.classifyLeftRecursive(rid, rule, rec, nonRec)
		}
	}
	switch {
	case a.isForwardBody(rid, body):
		return UnconditionalForward
	case a.isRightRecursiveForward(rid, body):
		return RightRecursiveForward
	case a.isConditionalForward(rid, body):
		return ConditionalForward
	case a.ruleNullable[rid]:
		return MaybeEmpty
	}
	return Plain
}

// classifyLeftRecursive decides between the general left-recursive shape and
// the operator-precedence shape, where every recursive branch is a binary
// operator application "self MID self".
func (a *analysis) classifyLeftRecursive(rid int, rule *llw.Rule, rec, nonRec []llw.Regex) RuleClass {
	opShape := true
	binop := true
	for _, br := range rec {
		c, ok := br.(*llw.Concat)
		if !ok || a.ruleRef(leftmostAtom(br)) != rid {
			opShape = false
			binop = false
			break
		}
		if a.ruleRef(c.Children[len(c.Children)-1]) != rid {
			binop = false
		}
		if len(c.Children) != 3 || a.ruleRef(c.Children[0]) != rid ||
			a.ruleRef(c.Children[2]) != rid {
			opShape = false
		}
	}
	if !opShape {
		if binop {
			// looks like an operator rule but with malformed branches
			a.sink.Error(diag.ClassificationError, rule.Rng,
				"operator-precedence branch of rule %s must have 3 elements", rule.Name)
		}
		return LeftRecursive
	}
	for i, br := range rec {
		mid := br.(*llw.Concat).Children[1]
		toks := a.operatorTokens(mid)
		if toks == nil {
			a.sink.Error(diag.ClassificationError, mid.Span(),
				"operator of rule %s must be a token", rule.Name)
			return LeftRecursive
		}
		a.ops[rid] = append(a.ops[rid], OpLevel{Level: i, Tokens: toks})
		for _, t := range toks {
			a.midTokens.Add(t)
		}
	}
	if len(nonRec) != 1 {
		a.sink.Error(diag.ClassificationError, rule.Rng,
			"operator-precedence rule %s must have exactly one non-recursive alternative", rule.Name)
		a.ops[rid] = nil
		return LeftRecursive
	}
	return OperatorPrecedence
}

// operatorTokens returns the terminal IDs of a MID position: a single token
// reference or an alternation of token references. nil means the position is
// not made of tokens.
func (a *analysis) operatorTokens(mid llw.Regex) []int {
	if tid := a.tokenRef(mid); tid >= 0 {
		return []int{tid}
	}
	alt, ok := mid.(*llw.Alt)
	if !ok {
		return nil
	}
	var toks []int
	for _, br := range alt.Branches {
		tid := a.tokenRef(br)
		if tid < 0 {
			return nil
		}
		toks = append(toks, tid)
	}
	return toks
}

// isForwardBody reports a body that only forwards to other rules: a single
// rule reference or an alternation of rule references.
func (a *analysis) isForwardBody(rid int, body llw.Regex) bool {
	if tgt := a.ruleRef(body); tgt >= 0 && tgt != rid {
		return true
	}
	alt, ok := body.(*llw.Alt)
	if !ok {
		return false
	}
	for _, br := range alt.Branches {
		tgt := a.ruleRef(br)
		if tgt < 0 || tgt == rid {
			return false
		}
	}
	return true
}

// isRightRecursiveForward reports an alternation with at least one
// right-recursive branch and at least one forwarding branch.
func (a *analysis) isRightRecursiveForward(rid int, body llw.Regex) bool {
	alt, ok := body.(*llw.Alt)
	if !ok {
		return false
	}
	hasRightRec := false
	hasForward := false
	for _, br := range alt.Branches {
		if a.ruleRef(rightmostAtom(br)) == rid {
			hasRightRec = true
			continue
		}
		if tgt := a.ruleRef(br); tgt >= 0 && tgt != rid {
			hasForward = true
		}
	}
	return hasRightRec && hasForward
}

// isConditionalForward reports a body that forwards through its first
// element, with a nullable remainder.
func (a *analysis) isConditionalForward(rid int, body llw.Regex) bool {
	c, ok := body.(*llw.Concat)
	if !ok || len(c.Children) < 2 {
		return false
	}
	if tgt := a.ruleRef(c.Children[0]); tgt < 0 || tgt == rid {
		return false
	}
	for _, rest := range c.Children[1:] {
		if !a.nullable[rest.ID()] {
			return false
		}
	}
	return true
}

func leftmostAtom(r llw.Regex) llw.Regex {
	switch n := r.(type) {
	case *llw.Concat:
		if len(n.Children) > 0 {
			return leftmostAtom(n.Children[0])
		}
	case *llw.Binding:
		return leftmostAtom(n.Inner)
	}
	return r
}

func rightmostAtom(r llw.Regex) llw.Regex {
	switch n := r.(type) {
	case *llw.Concat:
		if len(n.Children) > 0 {
			return rightmostAtom(n.Children[len(n.Children)-1])
		}
	case *llw.Binding:
		return rightmostAtom(n.Inner)
	}
	return r
}
