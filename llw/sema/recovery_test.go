package sema

import (
	"testing"

	"github.com/llwgen/llwgen/diag"
	"github.com/llwgen/llwgen/llw"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const blockGrammar = `
token Fn='fn' Name='<name>' Lb='{' Rb='}' Semi=';' E='<expr>';
start file;
file: fn*;
fn: Fn Name block;
block: Lb stmt* Rb;
stmt: expr Semi;
expr: E;
`

func TestRecoveryViaDominators(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.sema")
	defer teardown()
	//
	art, sink := process(t, blockGrammar)
	if sink.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", sink.Listing())
	}
	stmt := findRule(t, art, "stmt")
	// every path from file to stmt runs through fn and block, so the follow
	// terminals of these dominators and of stmt itself (Fn from fn and
	// block, Rb from stmt) are safe synchronization points
	for _, name := range []string{"Rb", "Fn"} {
		if !stmt.Recovery.Contains(tokenID(t, art, name)) {
			t.Errorf("expected %s in recovery(stmt), got %s",
				name, stmt.Recovery.Format(art.TokenName))
		}
	}
	if !stmt.Recovery.Contains(EOFToken) {
		t.Errorf("expected EOF in recovery(stmt)")
	}
	for _, r := range art.Rules {
		for _, name := range []string{"fn", "block", "stmt"} {
			if r.Name != name {
				continue
			}
			d := findRule(t, art, name)
			if !containsAll(d.Recovery, findRule(t, art, "file").Follow) {
				t.Errorf("recovery(%s) should cover the follow set of dominator file", name)
			}
		}
	}
}

func containsAll(set, sub *TokenSet) bool {
	for _, id := range sub.Values() {
		if !set.Contains(id) {
			return false
		}
	}
	return true
}

func TestRecoveryOfStartIsEOF(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.sema")
	defer teardown()
	//
	art, sink := process(t, blockGrammar)
	if sink.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", sink.Listing())
	}
	file := findRule(t, art, "file")
	if !file.Recovery.Equals(NewTokenSet(EOFToken)) {
		t.Errorf("expected recovery(file) = {EOF}, got %s", file.Recovery.Format(art.TokenName))
	}
	if !file.Follow.Equals(NewTokenSet(EOFToken)) {
		t.Errorf("expected FOLLOW(file) = {EOF}, got %s", file.Follow.Format(art.TokenName))
	}
}

func TestRecoveryCoversRecursion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.sema")
	defer teardown()
	//
	// blk is reachable through two call sites, in s and in item; the
	// recovery of item must still be derived from true dominators only
	art, sink := process(t, `
token Lb='{' Rb='}' A='a' B='b';
start s;
s: blk;
blk: Lb item* Rb;
item: A blk | B;
`)
	if sink.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", sink.Listing())
	}
	item := findRule(t, art, "item")
	blk := findRule(t, art, "blk")
	// blk dominates item despite the cycle between them
	if !containsAll(item.Recovery, blk.Follow) {
		t.Errorf("recovery(item) = %s should cover FOLLOW(blk) = %s",
			item.Recovery.Format(art.TokenName), blk.Follow.Format(art.TokenName))
	}
	if !item.Recovery.Contains(EOFToken) {
		t.Errorf("expected EOF in recovery(item)")
	}
}

func TestFirstAndFollowSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.sema")
	defer teardown()
	//
	art, sink := process(t, blockGrammar)
	if sink.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", sink.Listing())
	}
	fn := tokenID(t, art, "Fn")
	rb := tokenID(t, art, "Rb")
	e := tokenID(t, art, "E")
	if !findRule(t, art, "file").First.Equals(NewTokenSet(fn)) {
		t.Errorf("FIRST(file) should be {Fn}, got %s",
			findRule(t, art, "file").First.Format(art.TokenName))
	}
	// fn repeats under the star, so fn may follow itself
	if !findRule(t, art, "fn").Follow.Equals(NewTokenSet(EOFToken, fn)) {
		t.Errorf("FOLLOW(fn) should be {EOF, Fn}, got %s",
			findRule(t, art, "fn").Follow.Format(art.TokenName))
	}
	if !findRule(t, art, "stmt").Follow.Equals(NewTokenSet(rb, e)) {
		t.Errorf("FOLLOW(stmt) should be {Rb, E}, got %s",
			findRule(t, art, "stmt").Follow.Format(art.TokenName))
	}
	// EOF never occurs in a FIRST set
	for _, r := range art.Rules {
		if r.First.Contains(EOFToken) {
			t.Errorf("FIRST(%s) contains EOF", r.Name)
		}
	}
}

func TestIdempotence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.sema")
	defer teardown()
	//
	sink := diag.NewSink("test.llw", blockGrammar, 0)
	f, err := llw.ParseString("test.llw", blockGrammar, sink)
	if err != nil {
		t.Fatalf("cannot parse: %v", err)
	}
	s1 := diag.NewSink("test.llw", blockGrammar, 0)
	s2 := diag.NewSink("test.llw", blockGrammar, 0)
	a1 := Analyze(f, s1)
	a2 := Analyze(f, s2)
	if a1.Fingerprint() != a2.Fingerprint() {
		t.Errorf("analysis is not idempotent: %s vs %s", a1.Fingerprint(), a2.Fingerprint())
	}
	if s1.Listing() != s2.Listing() {
		t.Errorf("diagnostics differ between runs:\n%s\n---\n%s", s1.Listing(), s2.Listing())
	}
}

func TestRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "llwgen.sema")
	defer teardown()
	//
	art1, sink := process(t, blockGrammar)
	if sink.HasErrors() {
		t.Fatalf("expected no errors, got:\n%s", sink.Listing())
	}
	sink2 := diag.NewSink("test.llw", blockGrammar, 0)
	f, err := llw.ParseString("test.llw", blockGrammar, sink2)
	if err != nil {
		t.Fatalf("cannot parse: %v", err)
	}
	printed := llw.Print(f)
	art2, sink3 := process(t, printed)
	if sink3.HasErrors() {
		t.Fatalf("re-analysis of printed grammar failed:\n%s", sink3.Listing())
	}
	if art1.Fingerprint() != art2.Fingerprint() {
		t.Errorf("round-trip changed the artifact:\n%s\nvs\n%s", art1.Fingerprint(), art2.Fingerprint())
	}
}
