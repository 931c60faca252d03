package llw

import (
	"testing"

	"github.com/llwgen/llwgen"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func scanAll(t *testing.T, input string) []Token {
	s, err := ScanString("test.llw", input)
	if err != nil {
		t.Fatalf("cannot create scanner: %v", err)
	}
	var toks []Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks
		}
	}
}

func kinds(toks []Token) []llwgen.TokType {
	ks := make([]llwgen.TokType, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func expectKinds(t *testing.T, input string, want ...llwgen.TokType) []Token {
	toks := scanAll(t, input)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("input %q: expected %d tokens, got %d: %v", input, len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %q: token #%d: expected %s, got %s",
				input, i, KindName(want[i]), KindName(got[i]))
		}
	}
	return toks
}

func TestScanItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	expectKinds(t, "a: A 'x' ;",
		TokLowerIdent, TokColon, TokUpperIdent, TokSymbol, TokSemi, TokEOF)
	expectKinds(t, "token start skip right",
		KwToken, KwStart, KwSkip, KwRight, TokEOF)
	expectKinds(t, "e: e M e | e P e | N;",
		TokLowerIdent, TokColon,
		TokLowerIdent, TokUpperIdent, TokLowerIdent, TokPipe,
		TokLowerIdent, TokUpperIdent, TokLowerIdent, TokPipe,
		TokUpperIdent, TokSemi, TokEOF)
	expectKinds(t, "x: [A] B* C+ @n;",
		TokLowerIdent, TokColon, TokLBrack, TokUpperIdent, TokRBrack,
		TokUpperIdent, TokStar, TokUpperIdent, TokPlus, TokAt,
		TokLowerIdent, TokSemi, TokEOF)
	expectKinds(t, "// comment only\n", TokEOF)
}

func TestScanIndexedTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	toks := expectKinds(t, "?1 #2 <3 4>node",
		TokPredicate, TokAction, TokMarker, TokCreate, TokEOF)
	want := []int{1, 2, 3, 4}
	for i, idx := range want {
		if toks[i].Idx != idx {
			t.Errorf("token #%d: expected index %d, got %d", i, idx, toks[i].Idx)
		}
	}
	if toks[3].Name != "node" {
		t.Errorf("expected creation name %q, got %q", "node", toks[3].Name)
	}
}

func TestScanSymbols(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	toks := expectKinds(t, `'+' '<int>' 'a\'b'`,
		TokSymbol, TokSymbol, TokSymbol, TokEOF)
	if toks[0].Sym != "+" {
		t.Errorf("expected symbol %q, got %q", "+", toks[0].Sym)
	}
	if toks[1].Sym != "<int>" || !toks[1].ClassStyle() {
		t.Errorf("expected class-style symbol <int>, got %q", toks[1].Sym)
	}
	if toks[2].Sym != "a'b" {
		t.Errorf("expected escaped symbol %q, got %q", "a'b", toks[2].Sym)
	}
}

func TestScanUnterminatedSymbol(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	s, err := ScanString("test.llw", "a: 'xy\nb: A;")
	if err != nil {
		t.Fatalf("cannot create scanner: %v", err)
	}
	var sawError bool
	for {
		tok := s.Next()
		if tok.Kind == TokError {
			sawError = true
			if tok.Rng.From() != 3 || tok.Rng.To() != 6 { // quote to end of line
				t.Errorf("unexpected error range %v", tok.Rng)
			}
		}
		if tok.Kind == TokEOF {
			break
		}
	}
	if !sawError {
		t.Errorf("expected an error token for the unterminated symbol")
	}
	errs := s.ErrorIter()
	if len(errs) != 1 {
		t.Fatalf("expected 1 lexical error, got %d", len(errs))
	}
	if errs[0].Message != "unterminated symbol" {
		t.Errorf("unexpected message %q", errs[0].Message)
	}
}

func TestScanUnrecognizedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	s, err := ScanString("test.llw", "a $ b")
	if err != nil {
		t.Fatalf("cannot create scanner: %v", err)
	}
	var got []llwgen.TokType
	for {
		tok := s.Next()
		got = append(got, tok.Kind)
		if tok.Kind == TokEOF {
			break
		}
	}
	want := []llwgen.TokType{TokLowerIdent, TokError, TokLowerIdent, TokEOF}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token #%d: expected %s, got %s", i, KindName(want[i]), KindName(got[i]))
		}
	}
	if len(s.ErrorIter()) != 1 {
		t.Errorf("expected 1 lexical error, got %d", len(s.ErrorIter()))
	}
}

func TestScanEOFIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	s, err := ScanString("test.llw", "a")
	if err != nil {
		t.Fatalf("cannot create scanner: %v", err)
	}
	s.Next() // a
	e1 := s.Next()
	e2 := s.Next()
	if e1.Kind != TokEOF || e2.Kind != TokEOF {
		t.Errorf("expected EOF twice, got %s and %s", KindName(e1.Kind), KindName(e2.Kind))
	}
	if e1.Rng != e2.Rng {
		t.Errorf("EOF spans differ: %v vs %v", e1.Rng, e2.Rng)
	}
}
