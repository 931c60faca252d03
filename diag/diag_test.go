package diag

import (
	"strings"
	"testing"

	"github.com/llwgen/llwgen"
)

func TestSortedByPosition(t *testing.T) {
	sink := NewSink("g.llw", "token A;\nstart a;\n", 0)
	sink.Error(UndefinedName, llwgen.Span{12, 13}, "undefined rule a")
	sink.Warn(Unreachable, llwgen.Span{6, 7}, "rule x is unreachable from the start rule")
	sink.Error(Redefinition, llwgen.Span{6, 7}, "duplicate token A")
	all := sink.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].Code != Redefinition { // same position: errors before warnings
		t.Errorf("expected redefinition first, got %v", all[0].Code)
	}
	if all[1].Code != Unreachable {
		t.Errorf("expected unreachable second, got %v", all[1].Code)
	}
	if all[2].Code != UndefinedName {
		t.Errorf("expected undefined-name last, got %v", all[2].Code)
	}
	if len(sink.Errors()) != 2 || len(sink.Warnings()) != 1 {
		t.Errorf("expected 2 errors and 1 warning, got %d and %d",
			len(sink.Errors()), len(sink.Warnings()))
	}
}

func TestFormat(t *testing.T) {
	sink := NewSink("g.llw", "token A;\nstart a;\n", 0)
	sink.Error(UndefinedName, llwgen.Span{15, 16}, "undefined rule a")
	got := sink.Format(sink.All()[0])
	want := "g.llw:2:7: error: undefined rule a"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCapacity(t *testing.T) {
	sink := NewSink("g.llw", "x", 2)
	for i := 0; i < 5; i++ {
		sink.Error(ParserError, llwgen.Span{uint64(i), uint64(i) + 1}, "missing ';'")
	}
	if sink.Count() != 2 {
		t.Errorf("expected 2 entries after cap, got %d", sink.Count())
	}
	if !sink.Truncated() {
		t.Errorf("expected sink to be flagged truncated")
	}
}

func TestListingStable(t *testing.T) {
	sink := NewSink("g.llw", "abc\ndef\n", 0)
	sink.Warn(Unreachable, llwgen.Span{4, 5}, "rule d is unreachable from the start rule")
	sink.Error(Redefinition, llwgen.Span{0, 1}, "duplicate rule a")
	l1 := sink.Listing()
	l2 := sink.Listing()
	if l1 != l2 {
		t.Errorf("listing is not stable across calls")
	}
	if !strings.HasPrefix(l1, "g.llw:1:1: error:") {
		t.Errorf("unexpected listing order:\n%s", l1)
	}
}
