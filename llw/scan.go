package llw

import (
	"strconv"
	"strings"
	"sync"

	"github.com/llwgen/llwgen"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// The scanner is backed by a lexmachine DFA, compiled once per process.
// Skipped input (whitespace, // line comments) never reaches the parser;
// unrecognized input is turned into TokError tokens so that scanning always
// continues to the end of the file.

var punctuation = map[string]llwgen.TokType{
	";": TokSemi, ":": TokColon, "|": TokPipe, "*": TokStar, "+": TokPlus,
	"(": TokLParen, ")": TokRParen, "[": TokLBrack, "]": TokRBrack,
	"<": TokLAngle, ">": TokRAngle, "@": TokAt, "#": TokHash,
	"=": TokEqual, "?": TokQuest,
}

var keywords = map[string]llwgen.TokType{
	"token": KwToken, "start": KwStart, "skip": KwSkip, "right": KwRight,
}

var (
	llwLexer   *lexmachine.Lexer
	llwCompile error
	initLexer  sync.Once
)

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func emit(kind llwgen.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

// escape turns a literal lexeme into a regular expression matching exactly
// that lexeme.
func escape(lit string) string {
	return "\\" + strings.Join(strings.Split(lit, ""), "\\")
}

func buildLexer() {
	l := lexmachine.NewLexer()
	l.Add([]byte(`( |\t|\n|\r)+`), skip)
	l.Add([]byte(`//[^\n]*`), skip)
	for kw, kind := range keywords {
		l.Add([]byte(kw), emit(kind))
	}
	l.Add([]byte(`'(\\.|[^'\\\n])*'`), emit(TokSymbol))
	l.Add([]byte(`'(\\.|[^'\\\n])*`), emit(TokError)) // unterminated symbol
	l.Add([]byte(`\?[0-9]+`), emit(TokPredicate))
	l.Add([]byte(`#[0-9]+`), emit(TokAction))
	l.Add([]byte(`<[0-9]+`), emit(TokMarker))
	l.Add([]byte(`[0-9]+>[a-z_][a-zA-Z0-9_]*`), emit(TokCreate))
	l.Add([]byte(`[0-9]+`), emit(TokInt))
	l.Add([]byte(`[a-z_][a-zA-Z0-9_]*`), emit(TokLowerIdent))
	l.Add([]byte(`[A-Z][a-zA-Z0-9_]*`), emit(TokUpperIdent))
	for p, kind := range punctuation {
		l.Add([]byte(escape(p)), emit(kind))
	}
	llwCompile = l.Compile()
	llwLexer = l
}

// LexError is a lexical error with the byte range of the offending input.
type LexError struct {
	Range   llwgen.Span
	Message string
}

// Scanner tokenizes one grammar source file.
type Scanner struct {
	name   string
	input  string
	scan   *lexmachine.Scanner
	errors []LexError
	eof    bool
}

// ScanString creates a scanner over the given grammar source text.
func ScanString(name, input string) (*Scanner, error) {
	initLexer.Do(buildLexer)
	if llwCompile != nil {
		return nil, llwCompile
	}
	ls, err := llwLexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner{name: name, input: input, scan: ls}, nil
}

// Name returns the source name the scanner was created with.
func (s *Scanner) Name() string {
	return s.name
}

// ErrorIter returns the lexical errors recorded so far, in discovery order.
func (s *Scanner) ErrorIter() []LexError {
	return s.errors
}

func (s *Scanner) fail(r llwgen.Span, msg string) {
	s.errors = append(s.errors, LexError{Range: r, Message: msg})
}

// Next returns the next token. At the end of the input it returns an EOF
// token and keeps doing so on further calls.
func (s *Scanner) Next() Token {
	if s.eof {
		return s.eofToken()
	}
	tok, err, eof := s.scan.Next()
	if err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			start := uint64(ui.StartTC)
			end := uint64(ui.FailTC)
			if end <= start {
				end = start + 1
			}
			s.scan.TC = int(end)
			r := llwgen.Span{start, end}
			s.fail(r, "unrecognized input")
			return Token{Kind: TokError, Text: s.input[start:end], Rng: r}
		}
		tracer().Errorf("scanner error: %v", err)
		s.eof = true
		return s.eofToken()
	}
	if eof {
		s.eof = true
		return s.eofToken()
	}
	t := s.convert(tok.(*lexmachine.Token))
	tracer().Debugf("scanned %v", t)
	return t
}

func (s *Scanner) eofToken() Token {
	n := uint64(len(s.input))
	return Token{Kind: TokEOF, Rng: llwgen.Span{n, n}}
}

func (s *Scanner) convert(lt *lexmachine.Token) Token {
	text := string(lt.Lexeme)
	r := llwgen.Span{uint64(lt.TC), uint64(lt.TC + len(lt.Lexeme))}
	t := Token{Kind: llwgen.TokType(lt.Type), Text: text, Rng: r}
	switch t.Kind {
	case TokError: // unterminated symbol, quote to end of line
		s.fail(r, "unterminated symbol")
	case TokSymbol:
		t.Sym = unquote(text)
	case TokPredicate, TokAction, TokMarker:
		t.Idx, _ = strconv.Atoi(text[1:])
	case TokCreate:
		gt := strings.IndexByte(text, '>')
		t.Idx, _ = strconv.Atoi(text[:gt])
		t.Name = text[gt+1:]
	}
	return t
}

// unquote strips the enclosing quotes from a symbol lexeme and resolves
// backslash escapes. A backslash escapes the next byte.
func unquote(text string) string {
	body := text[1 : len(text)-1]
	if !strings.Contains(body, "\\") {
		return body
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String()
}
