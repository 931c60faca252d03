package llw

import (
	"fmt"

	"github.com/llwgen/llwgen"
)

// Token categories of the grammar language. The set is closed.
const (
	TokEOF llwgen.TokType = iota
	TokError
	TokLowerIdent
	TokUpperIdent
	TokSymbol // 'quoted'
	TokInt
	TokPredicate // ?N
	TokAction    // #N
	TokMarker    // <N
	TokCreate    // N>name
	KwToken
	KwStart
	KwSkip
	KwRight
	TokSemi
	TokColon
	TokPipe
	TokStar
	TokPlus
	TokLParen
	TokRParen
	TokLBrack
	TokRBrack
	TokLAngle
	TokRAngle
	TokAt
	TokHash
	TokEqual
	TokQuest
)

var kindNames = [...]string{
	"EOF", "error", "identifier", "token name", "symbol", "integer",
	"predicate", "action", "marker", "creation",
	"'token'", "'start'", "'skip'", "'right'",
	"';'", "':'", "'|'", "'*'", "'+'", "'('", "')'", "'['", "']'",
	"'<'", "'>'", "'@'", "'#'", "'='", "'?'",
}

// KindName returns a printable name for a token category, for use in
// diagnostics.
func KindName(k llwgen.TokType) string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a scanned lexeme of a grammar source file.
type Token struct {
	Kind llwgen.TokType
	Text string      // the lexeme as it appeared in the input
	Rng  llwgen.Span // byte range in the input
	Idx  int         // index N for ?N, #N, <N and N>name tokens
	Name string      // node name for N>name tokens
	Sym  string      // decoded content for symbol tokens
}

var _ llwgen.Token = Token{}

// TokType returns the token's category.
func (t Token) TokType() llwgen.TokType {
	return t.Kind
}

// Lexeme returns the matched input slice.
func (t Token) Lexeme() string {
	return t.Text
}

// Value returns the decoded symbol content for symbol tokens and the index
// for predicate/action/marker/creation tokens.
func (t Token) Value() interface{} {
	switch t.Kind {
	case TokSymbol:
		return t.Sym
	case TokPredicate, TokAction, TokMarker, TokCreate:
		return t.Idx
	}
	return nil
}

// Span returns the byte range the token covers.
func (t Token) Span() llwgen.Span {
	return t.Rng
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %v", KindName(t.Kind), t.Text, t.Rng)
}

// ClassStyle reports whether a symbol token declares a class-style terminal,
// i.e. its content is of the form "<...>".
func (t Token) ClassStyle() bool {
	return t.Kind == TokSymbol && len(t.Sym) >= 2 &&
		t.Sym[0] == '<' && t.Sym[len(t.Sym)-1] == '>'
}
