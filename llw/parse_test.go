package llw

import (
	"testing"

	"github.com/llwgen/llwgen/diag"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parse(t *testing.T, input string) (*File, *diag.Sink) {
	sink := diag.NewSink("test.llw", input, 0)
	f, err := ParseString("test.llw", input, sink)
	if err != nil {
		t.Fatalf("cannot parse: %v", err)
	}
	return f, sink
}

func TestParseItems(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	f, sink := parse(t, `
token Plus='+' Num='<int>';
start expr;
skip Ws;
right Pow;
expr: Num (Plus Num)*;
`)
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", sink.Listing())
	}
	if len(f.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(f.Items))
	}
	decls := f.TokenDecls()
	if len(decls) != 2 {
		t.Fatalf("expected 2 token declarations, got %d", len(decls))
	}
	if decls[0].Name != "Plus" || decls[0].Sym != "+" || decls[0].Class {
		t.Errorf("unexpected first declaration %+v", decls[0])
	}
	if decls[1].Name != "Num" || decls[1].Sym != "<int>" || !decls[1].Class {
		t.Errorf("unexpected second declaration %+v", decls[1])
	}
	rules := f.RuleItems()
	if len(rules) != 1 || rules[0].Name != "expr" {
		t.Fatalf("expected one rule expr, got %v", rules)
	}
	body, ok := rules[0].Body.(*Concat)
	if !ok || len(body.Children) != 2 {
		t.Fatalf("expected 2-element concat body, got %T", rules[0].Body)
	}
	if _, ok := body.Children[1].(*Star); !ok {
		t.Errorf("expected trailing star, got %T", body.Children[1])
	}
}

func TestParseRegexShapes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	f, sink := parse(t, "r: A | [B] c+ | ?1 D @x | <1 E 1>n;")
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", sink.Listing())
	}
	alt, ok := f.RuleItems()[0].Body.(*Alt)
	if !ok || len(alt.Branches) != 4 {
		t.Fatalf("expected 4-branch alternation, got %T", f.RuleItems()[0].Body)
	}
	if _, ok := alt.Branches[0].(*Ref); !ok {
		t.Errorf("branch 1: expected reference, got %T", alt.Branches[0])
	}
	b2, ok := alt.Branches[1].(*Concat)
	if !ok || len(b2.Children) != 2 {
		t.Fatalf("branch 2: expected 2-element concat, got %T", alt.Branches[1])
	}
	if _, ok := b2.Children[0].(*Optional); !ok {
		t.Errorf("branch 2: expected leading optional, got %T", b2.Children[0])
	}
	if _, ok := b2.Children[1].(*Plus); !ok {
		t.Errorf("branch 2: expected trailing plus, got %T", b2.Children[1])
	}
	b3, ok := alt.Branches[2].(*Concat)
	if !ok || len(b3.Children) != 2 {
		t.Fatalf("branch 3: expected 2-element concat, got %T", alt.Branches[2])
	}
	if _, ok := b3.Children[0].(*Predicate); !ok {
		t.Errorf("branch 3: expected leading predicate, got %T", b3.Children[0])
	}
	bind, ok := b3.Children[1].(*Binding)
	if !ok || bind.Name != "x" {
		t.Errorf("branch 3: expected binding @x, got %T", b3.Children[1])
	}
	b4, ok := alt.Branches[3].(*Concat)
	if !ok || len(b4.Children) != 3 {
		t.Fatalf("branch 4: expected 3-element concat, got %T", alt.Branches[3])
	}
	if _, ok := b4.Children[0].(*Marker); !ok {
		t.Errorf("branch 4: expected leading marker, got %T", b4.Children[0])
	}
	if cr, ok := b4.Children[2].(*Create); !ok || cr.Index != 1 || cr.Name != "n" {
		t.Errorf("branch 4: expected trailing creation 1>n, got %T", b4.Children[2])
	}
}

func TestParseMissingSemicolonRecovery(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	f, sink := parse(t, "a: A\nb: B;\n")
	if len(sink.Errors()) != 1 {
		t.Fatalf("expected exactly 1 error, got:\n%s", sink.Listing())
	}
	if sink.Errors()[0].Code != diag.ParserError {
		t.Errorf("expected a parser error, got %v", sink.Errors()[0].Code)
	}
	rules := f.RuleItems()
	if len(rules) != 2 || rules[0].Name != "a" || rules[1].Name != "b" {
		t.Fatalf("expected recovery to keep both rules, got %d", len(rules))
	}
}

func TestParseNodeIDsAreDense(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	f, _ := parse(t, "a: A (B | C)* [D];")
	seen := make([]bool, f.NodeCount)
	var rec func(Regex)
	rec = func(r Regex) {
		if r.ID() < 0 || r.ID() >= f.NodeCount {
			t.Fatalf("node ID %d out of range", r.ID())
		}
		if seen[r.ID()] {
			t.Fatalf("node ID %d assigned twice", r.ID())
		}
		seen[r.ID()] = true
		switch n := r.(type) {
		case *Concat:
			for _, c := range n.Children {
				rec(c)
			}
		case *Alt:
			for _, br := range n.Branches {
				rec(br)
			}
		case *Optional:
			rec(n.Inner)
		case *Star:
			rec(n.Inner)
		case *Plus:
			rec(n.Inner)
		case *Binding:
			rec(n.Inner)
		}
	}
	for _, r := range f.RuleItems() {
		rec(r.Body)
	}
}

func TestPrintRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.llw")
	defer teardown()
	//
	src := `token Plus='+' Times='*' Num='<int>';
start expr;
right Pow;
expr: expr Times expr | expr Plus expr | Num;
opt: [Num] Plus* (Num | Plus)+;
mk: <1 Num 1>lit;
`
	f1, sink := parse(t, src)
	if sink.Count() != 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", sink.Listing())
	}
	p1 := Print(f1)
	f2, sink2 := parse(t, p1)
	if sink2.Count() != 0 {
		t.Fatalf("re-parse of printed grammar failed:\n%s", sink2.Listing())
	}
	p2 := Print(f2)
	if p1 != p2 {
		t.Errorf("pretty-printing is not stable:\n--- first\n%s\n--- second\n%s", p1, p2)
	}
}
