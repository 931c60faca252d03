/*
Package diag collects diagnostics for a grammar source file.

Diagnostics are keyed by source byte-range and accumulated append-only; the
analysis pipeline never aborts on an error. Iteration order at output is by
source position, which keeps diagnostic listings stable across runs.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/llwgen/llwgen"
)

// Severity of a diagnostic entry.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Code identifies the kind of a diagnostic. The set is closed; message texts
// are fixed per code, with identifiers interpolated by the reporting phase.
type Code int

const (
	LexicalError Code = iota
	ParserError
	Redefinition
	UndefinedName
	StartRuleIssue
	Unproductive
	Unreachable
	PredictConflict
	ClassificationError
	MarkerMismatch
	IndexCollision
	SkipOrRightMisuse
)

var codeNames = [...]string{
	"lexical-error", "parser-error", "redefinition", "undefined-name",
	"start-rule-issue", "unproductive", "unreachable", "predict-conflict",
	"classification-error", "marker-mismatch", "index-collision",
	"skip-or-right-misuse",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Entry is one collected diagnostic.
type Entry struct {
	Code     Code
	Severity Severity
	Range    llwgen.Span
	Message  string
}

// DefaultMaxErrors is the sink capacity used when clients pass 0.
const DefaultMaxErrors = 100

// Sink is a fixed-capacity append-only collection of diagnostics for one
// source file. It is the only mutable collaborator of the analysis pipeline
// and is passed explicitly to each phase.
type Sink struct {
	path      string
	lines     []uint64 // byte offsets of line starts
	max       int
	truncated bool
	entries   *arraylist.List
}

// NewSink creates a sink for a source file. The text is only used to build
// the line index for positional formatting; it is not retained.
func NewSink(path, text string, maxErrors int) *Sink {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxErrors
	}
	lines := []uint64{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, uint64(i)+1)
		}
	}
	return &Sink{
		path:    path,
		lines:   lines,
		max:     maxErrors,
		entries: arraylist.New(),
	}
}

// Path returns the source path this sink reports for.
func (s *Sink) Path() string {
	return s.path
}

func (s *Sink) add(e Entry) {
	if s.entries.Size() >= s.max {
		s.truncated = true
		return
	}
	s.entries.Add(e)
}

// Error records an error diagnostic.
func (s *Sink) Error(code Code, r llwgen.Span, format string, args ...interface{}) {
	s.add(Entry{code, Error, r, fmt.Sprintf(format, args...)})
}

// Warn records a warning diagnostic.
func (s *Sink) Warn(code Code, r llwgen.Span, format string, args ...interface{}) {
	s.add(Entry{code, Warning, r, fmt.Sprintf(format, args...)})
}

// Truncated reports whether entries have been dropped because the sink
// reached its capacity.
func (s *Sink) Truncated() bool {
	return s.truncated
}

// Count returns the number of collected entries.
func (s *Sink) Count() int {
	return s.entries.Size()
}

// HasErrors reports whether at least one entry of severity Error was recorded.
func (s *Sink) HasErrors() bool {
	for _, e := range s.sorted() {
		if e.Severity == Error {
			return true
		}
	}
	return false
}

func (s *Sink) sorted() []Entry {
	all := make([]Entry, 0, s.entries.Size())
	it := s.entries.Iterator()
	for it.Next() {
		all = append(all, it.Value().(Entry))
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Range.From() != all[j].Range.From() {
			return all[i].Range.From() < all[j].Range.From()
		}
		return all[i].Severity < all[j].Severity
	})
	return all
}

// All returns every entry, sorted by (range start, severity).
func (s *Sink) All() []Entry {
	return s.sorted()
}

// Errors returns the error entries, sorted by range start.
func (s *Sink) Errors() []Entry {
	return s.filter(Error)
}

// Warnings returns the warning entries, sorted by range start.
func (s *Sink) Warnings() []Entry {
	return s.filter(Warning)
}

func (s *Sink) filter(sev Severity) []Entry {
	var r []Entry
	for _, e := range s.sorted() {
		if e.Severity == sev {
			r = append(r, e)
		}
	}
	return r
}

// LineCol converts a byte offset into a 1-based line/column pair.
func (s *Sink) LineCol(offset uint64) (int, int) {
	line := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > offset
	})
	return line, int(offset-s.lines[line-1]) + 1
}

// Format renders one entry in the stable textual form
// "<path>:<line>:<col>: <severity>: <message>".
func (s *Sink) Format(e Entry) string {
	line, col := s.LineCol(e.Range.From())
	return fmt.Sprintf("%s:%d:%d: %s: %s", s.path, line, col, e.Severity, e.Message)
}

// Listing renders all entries, one per line, sorted by position.
func (s *Sink) Listing() string {
	var b strings.Builder
	for _, e := range s.sorted() {
		b.WriteString(s.Format(e))
		b.WriteString("\n")
	}
	return b.String()
}
