package llwgen

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. The llw scanner defines the closed
// set of categories for grammar source files; analysis results use token IDs
// into a grammar's terminal table instead.
type TokType int

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens. They are produced by the llw scanner and
// reflect lexemes of a grammar source file.
//
// An example would be a token for a rule reference:
//
//    TokType = LowerIdent   // identifier for this kind of tokens
//    Lexeme  = "expr"       // lexeme how it appeared in the input stream
//    Span    = 67…71        // occurred from byte position 67 in the input
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a byte range of input. Every token and
// every node of a grammar AST tracks which input bytes it covers. A span
// denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
