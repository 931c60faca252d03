package llw

import (
	"github.com/llwgen/llwgen"
)

// The grammar AST is built once by the parser and thereafter immutable.
// Every regex node carries a serial ID; analysis results live in side tables
// indexed by that ID, never on the nodes themselves.

// File is the root of a parsed grammar source file.
type File struct {
	Path      string
	Items     []Item
	NodeCount int // number of regex nodes, IDs are 0…NodeCount-1
}

// Item is a top-level item of a grammar file.
type Item interface {
	Span() llwgen.Span
	item()
}

// NameRef is an occurrence of a token or rule name in a top-level item.
type NameRef struct {
	Name string
	Rng  llwgen.Span
}

// TokenDecl declares one terminal. The symbol is optional; a symbol of the
// form "<...>" flags the terminal as class-style.
type TokenDecl struct {
	Name  string
	Sym   string
	Class bool
	Rng   llwgen.Span
}

// TokenList is a "token …;" item holding an ordered list of declarations.
type TokenList struct {
	Decls []TokenDecl
	Rng   llwgen.Span
}

// Rule is a "name: regex;" item.
type Rule struct {
	Name string
	Body Regex
	Rng  llwgen.Span
}

// Start is a "start name;" item.
type Start struct {
	Name string
	Rng  llwgen.Span
}

// Skip is a "skip Token…;" item. Multiple skip items union.
type Skip struct {
	Tokens []NameRef
	Rng    llwgen.Span
}

// Right is a "right Token…;" item declaring right-associative operator tokens.
type Right struct {
	Tokens []NameRef
	Rng    llwgen.Span
}

func (t *TokenList) Span() llwgen.Span { return t.Rng }
func (r *Rule) Span() llwgen.Span      { return r.Rng }
func (s *Start) Span() llwgen.Span     { return s.Rng }
func (s *Skip) Span() llwgen.Span      { return s.Rng }
func (r *Right) Span() llwgen.Span     { return r.Rng }

func (*TokenList) item() {}
func (*Rule) item()      {}
func (*Start) item()     {}
func (*Skip) item()      {}
func (*Right) item()     {}

// --- Regex nodes -----------------------------------------------------------

// Regex is a node of a rule body. The variant set is closed; analyses match
// exhaustively over it.
type Regex interface {
	ID() int
	Span() llwgen.Span
	regexNode()
}

type base struct {
	id  int
	rng llwgen.Span
}

func (b base) ID() int           { return b.id }
func (b base) Span() llwgen.Span { return b.rng }
func (b base) regexNode()        {}

// Concat is a juxtaposition sequence.
type Concat struct {
	base
	Children []Regex
}

// Alt is an alternation; branches are ordered.
type Alt struct {
	base
	Branches []Regex
}

// Optional is "[x]".
type Optional struct {
	base
	Inner Regex
}

// Star is "x*".
type Star struct {
	base
	Inner Regex
}

// Plus is "x+".
type Plus struct {
	base
	Inner Regex
}

// Ref is a reference to a rule, a token name, or a token symbol.
type Ref struct {
	base
	Name     string
	IsSymbol bool // referenced by quoted symbol rather than by name
}

// IsTokenName reports whether the reference names a terminal (by its
// upper-case name or by symbol).
func (r *Ref) IsTokenName() bool {
	return r.IsSymbol || (len(r.Name) > 0 && r.Name[0] >= 'A' && r.Name[0] <= 'Z')
}

// Predicate is a semantic predicate "?N" guarding a branch.
type Predicate struct {
	base
	Index int
}

// Action is a semantic action "#N".
type Action struct {
	base
	Index int
}

// Marker is "<N", a placeholder for later node creation. It emits no tokens.
type Marker struct {
	base
	Index int
}

// Create is "N>name": it wraps everything since the matching marker into a
// named syntax-tree node. The node itself derives no tokens.
type Create struct {
	base
	Index int
	Name  string
}

// Binding is "x @name": it renames the syntax-tree node resulting from the
// preceding atom.
type Binding struct {
	base
	Inner Regex
	Name  string
}

// --- File accessors --------------------------------------------------------

// TokenDecls returns all terminal declarations in declaration order.
func (f *File) TokenDecls() []TokenDecl {
	var decls []TokenDecl
	for _, it := range f.Items {
		if tl, ok := it.(*TokenList); ok {
			decls = append(decls, tl.Decls...)
		}
	}
	return decls
}

// RuleItems returns all rules in declaration order.
func (f *File) RuleItems() []*Rule {
	var rules []*Rule
	for _, it := range f.Items {
		if r, ok := it.(*Rule); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// StartItems returns all start declarations in source order.
func (f *File) StartItems() []*Start {
	var starts []*Start
	for _, it := range f.Items {
		if s, ok := it.(*Start); ok {
			starts = append(starts, s)
		}
	}
	return starts
}

// SkipItems returns all skip declarations in source order.
func (f *File) SkipItems() []*Skip {
	var skips []*Skip
	for _, it := range f.Items {
		if s, ok := it.(*Skip); ok {
			skips = append(skips, s)
		}
	}
	return skips
}

// RightItems returns all right declarations in source order.
func (f *File) RightItems() []*Right {
	var rights []*Right
	for _, it := range f.Items {
		if r, ok := it.(*Right); ok {
			rights = append(rights, r)
		}
	}
	return rights
}
