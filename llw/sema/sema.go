package sema

import (
	"github.com/llwgen/llwgen"
	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
)

// analysis holds all side tables of one semantic pass. Tables indexed by
// regex-node ID cover every node of the file; tables indexed by rule ID
// cover the rules in declaration order.
type analysis struct {
	file *llw.File
	sink *diag.Sink

	tokens      []TokenInfo // [0] is EOF
	tokenByName map[string]int
	tokenBySym  map[string]int
	rules       []*llw.Rule
	ruleByName  map[string]int

	refs         []symRef // per node ID
	broken       []bool   // per rule: unresolved refs or unproductive
	nullable     []bool   // per node ID
	ruleNullable []bool
	first        []*TokenSet // per node ID
	follow       []*TokenSet // per rule
	predict      map[int][]*TokenSet
	classes      []RuleClass
	ops          [][]OpLevel
	suppress     []bool
	nodeName     []string
	recovery     []*TokenSet
	reachable    []bool

	start     int
	startSpan llwgen.Span
	skip      *TokenSet
	right     *TokenSet
	rightRefs []resolvedName
	tokenUse  map[int]llwgen.Span // first use of a terminal in a rule body
	midTokens *TokenSet           // terminals used as operator in a precedence rule
}

const (
	refNone = iota
	refToken
	refRule
)

type symRef struct {
	kind int
	id   int
}

type resolvedName struct {
	id  int
	rng llwgen.Span
}

// Analyze runs the semantic pass over a parsed grammar file. Diagnostics go
// to the sink; the returned artifact is complete up to the reported errors.
// Running Analyze twice over the same AST yields identical artifacts and
// diagnostics.
func Analyze(f *llw.File, sink *diag.Sink) *Artifact {
	a := &analysis{
		file:        f,
		sink:        sink,
		tokenByName: make(map[string]int),
		tokenBySym:  make(map[string]int),
		ruleByName:  make(map[string]int),
		predict:     make(map[int][]*TokenSet),
		tokenUse:    make(map[int]llwgen.Span),
		skip:        NewTokenSet(),
		right:       NewTokenSet(),
		midTokens:   NewTokenSet(),
		start:       -1,
	}
	a.resolve()
	a.checkProductive()
	a.computeNullable()
	a.computeFirst()
	a.computeFollow()
	a.classify()
	a.computePredict()
	a.computeRecovery()
	a.finalChecks()
	tracer().Infof("analyzed %d rules, %d terminals", len(a.rules), len(a.tokens)-1)
	return a.artifact()
}

// Process runs the whole front-end pipeline: scan, parse, analyze. The sink
// is always returned, together with a possibly partial artifact. A non-nil
// error is only returned when the scanner could not be constructed.
func Process(path, text string, maxErrors int) (*Artifact, *diag.Sink, error) {
	sink := diag.NewSink(path, text, maxErrors)
	f, err := llw.ParseString(path, text, sink)
	if err != nil {
		return nil, sink, err
	}
	return Analyze(f, sink), sink, nil
}

// walkRegex visits r and all nodes below it in pre-order.
func walkRegex(r llw.Regex, visit func(llw.Regex)) {
	visit(r)
	switch n := r.(type) {
	case *llw.Concat:
		for _, c := range n.Children {
			walkRegex(c, visit)
		}
	case *llw.Alt:
		for _, br := range n.Branches {
			walkRegex(br, visit)
		}
	case *llw.Optional:
		walkRegex(n.Inner, visit)
	case *llw.Star:
		walkRegex(n.Inner, visit)
	case *llw.Plus:
		walkRegex(n.Inner, visit)
	case *llw.Binding:
		walkRegex(n.Inner, visit)
	}
}

// firstOf returns the FIRST set of a node, treating missing entries as empty.
func (a *analysis) firstOf(id int) *TokenSet {
	if a.first[id] == nil {
		a.first[id] = NewTokenSet()
	}
	return a.first[id]
}

func (a *analysis) tokenName(id int) string {
	if id >= 0 && id < len(a.tokens) {
		return a.tokens[id].Name
	}
	return "?"
}
