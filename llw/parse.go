package llw

import (
	"github.com/llwgen/llwgen"
	"github.com/llwgen/llwgen/diag"
)

// The grammar language is parsed by a hand-written recursive-descent parser
// with one token of lookahead. Errors go to the diagnostic sink; the parser
// recovers by advancing to the next top-level item.

// Parser parses one grammar source file into a File.
type Parser struct {
	scan      *Scanner
	sink      *diag.Sink
	cur, peek Token
	nodes     int
}

// ParseString scans and parses grammar source text. Lexical and syntactic
// errors are reported to the sink; the returned AST is complete up to the
// reported errors. A non-nil error is only returned when the scanner itself
// could not be constructed.
func ParseString(path, text string, sink *diag.Sink) (*File, error) {
	s, err := ScanString(path, text)
	if err != nil {
		return nil, err
	}
	p := &Parser{scan: s, sink: sink}
	p.cur = p.read()
	p.peek = p.read()
	f := p.parseFile()
	f.Path = path
	f.NodeCount = p.nodes
	for _, le := range s.ErrorIter() {
		sink.Error(diag.LexicalError, le.Range, "%s", le.Message)
	}
	return f, nil
}

// read fetches the next non-error token from the scanner. Error tokens have
// already been reported as lexical errors.
func (p *Parser) read() Token {
	for {
		t := p.scan.Next()
		if t.Kind != TokError {
			return t
		}
	}
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.read()
}

func (p *Parser) node(r llwgen.Span) base {
	b := base{id: p.nodes, rng: r}
	p.nodes++
	return b
}

func (p *Parser) errorf(r llwgen.Span, format string, args ...interface{}) {
	p.sink.Error(diag.ParserError, r, format, args...)
}

func (p *Parser) parseFile() *File {
	f := &File{}
	for p.cur.Kind != TokEOF {
		switch p.cur.Kind {
		case KwToken:
			f.Items = append(f.Items, p.parseTokenList())
		case KwStart:
			f.Items = append(f.Items, p.parseStart())
		case KwSkip:
			f.Items = append(f.Items, p.parseSkip())
		case KwRight:
			f.Items = append(f.Items, p.parseRight())
		case TokLowerIdent:
			if p.peek.Kind == TokColon {
				f.Items = append(f.Items, p.parseRule())
				break
			}
			p.errorf(p.cur.Rng, "unexpected %s %q", KindName(p.cur.Kind), p.cur.Text)
			p.next()
			p.syncTop()
		default:
			p.errorf(p.cur.Rng, "unexpected %s %q", KindName(p.cur.Kind), p.cur.Text)
			p.next()
			p.syncTop()
		}
	}
	return f
}

// syncTop advances to the start of the next top-level item.
func (p *Parser) syncTop() {
	for {
		switch p.cur.Kind {
		case TokEOF, KwToken, KwStart, KwSkip, KwRight:
			return
		case TokLowerIdent:
			if p.peek.Kind == TokColon {
				return
			}
		}
		p.next()
	}
}

// finishItem consumes the terminating semicolon of a top-level item. A
// missing semicolon is reported once; the parser then resynchronizes at the
// next top-level item.
func (p *Parser) finishItem() llwgen.Span {
	if p.cur.Kind == TokSemi {
		r := p.cur.Rng
		p.next()
		return r
	}
	p.errorf(p.cur.Rng, "missing ';'")
	p.syncTop()
	return p.cur.Rng
}

func (p *Parser) parseTokenList() *TokenList {
	tl := &TokenList{Rng: p.cur.Rng}
	p.next()
	for p.cur.Kind == TokUpperIdent {
		d := TokenDecl{Name: p.cur.Text, Rng: p.cur.Rng}
		p.next()
		if p.cur.Kind == TokEqual {
			p.next()
			if p.cur.Kind == TokSymbol {
				d.Sym = p.cur.Sym
				d.Class = p.cur.ClassStyle()
				d.Rng = d.Rng.Extend(p.cur.Rng)
				p.next()
			} else {
				p.errorf(p.cur.Rng, "expected symbol after '='")
			}
		}
		tl.Decls = append(tl.Decls, d)
	}
	if len(tl.Decls) == 0 {
		p.errorf(p.cur.Rng, "expected token name")
	}
	tl.Rng = tl.Rng.Extend(p.finishItem())
	return tl
}

func (p *Parser) parseStart() *Start {
	st := &Start{Rng: p.cur.Rng}
	p.next()
	if p.cur.Kind == TokLowerIdent {
		st.Name = p.cur.Text
		p.next()
	} else {
		p.errorf(p.cur.Rng, "expected rule name")
	}
	st.Rng = st.Rng.Extend(p.finishItem())
	return st
}

func (p *Parser) parseNameList() []NameRef {
	var names []NameRef
	for p.cur.Kind == TokUpperIdent {
		names = append(names, NameRef{Name: p.cur.Text, Rng: p.cur.Rng})
		p.next()
	}
	if len(names) == 0 {
		p.errorf(p.cur.Rng, "expected token name")
	}
	return names
}

func (p *Parser) parseSkip() *Skip {
	sk := &Skip{Rng: p.cur.Rng}
	p.next()
	sk.Tokens = p.parseNameList()
	sk.Rng = sk.Rng.Extend(p.finishItem())
	return sk
}

func (p *Parser) parseRight() *Right {
	rt := &Right{Rng: p.cur.Rng}
	p.next()
	rt.Tokens = p.parseNameList()
	rt.Rng = rt.Rng.Extend(p.finishItem())
	return rt
}

func (p *Parser) parseRule() *Rule {
	r := &Rule{Name: p.cur.Text, Rng: p.cur.Rng}
	p.next() // name
	p.next() // colon
	r.Body = p.parseAlt()
	r.Rng = r.Rng.Extend(p.finishItem())
	return r
}

// --- Regex parsing ---------------------------------------------------------
//
// Precedence, tight to loose: atom/group/optional/binding, postfix * +,
// concatenation, alternation.

func atomStart(k llwgen.TokType) bool {
	switch k {
	case TokLParen, TokLBrack, TokLowerIdent, TokUpperIdent, TokSymbol,
		TokPredicate, TokAction, TokMarker:
		return true
	}
	return false
}

func (p *Parser) parseAlt() Regex {
	first := p.parseConcat()
	if p.cur.Kind != TokPipe {
		return first
	}
	branches := []Regex{first}
	for p.cur.Kind == TokPipe {
		p.next()
		branches = append(branches, p.parseConcat())
	}
	r := branches[0].Span().Extend(branches[len(branches)-1].Span())
	return &Alt{base: p.node(r), Branches: branches}
}

func (p *Parser) parseConcat() Regex {
	var items []Regex
	start := p.cur.Rng
	for atomStart(p.cur.Kind) {
		if p.cur.Kind == TokLowerIdent && p.peek.Kind == TokColon {
			break // start of the next rule, after a missing ';'
		}
		r := p.parseAtom()
	postfix:
		for {
			switch p.cur.Kind {
			case TokStar:
				r = &Star{base: p.node(r.Span().Extend(p.cur.Rng)), Inner: r}
				p.next()
			case TokPlus:
				r = &Plus{base: p.node(r.Span().Extend(p.cur.Rng)), Inner: r}
				p.next()
			case TokAt:
				p.next()
				if p.cur.Kind != TokLowerIdent {
					p.errorf(p.cur.Rng, "expected node name after '@'")
					break postfix
				}
				r = &Binding{base: p.node(r.Span().Extend(p.cur.Rng)), Inner: r, Name: p.cur.Text}
				p.next()
			case TokCreate:
				// the creation token closes a marked region; it follows its
				// atom in the sequence rather than wrapping it
				items = append(items, r)
				r = &Create{base: p.node(p.cur.Rng), Index: p.cur.Idx, Name: p.cur.Name}
				p.next()
			default:
				break postfix
			}
		}
		items = append(items, r)
	}
	if len(items) == 0 {
		p.errorf(p.cur.Rng, "expected expression")
		return &Concat{base: p.node(start)}
	}
	if len(items) == 1 {
		return items[0]
	}
	r := items[0].Span().Extend(items[len(items)-1].Span())
	return &Concat{base: p.node(r), Children: items}
}

func (p *Parser) parseAtom() Regex {
	t := p.cur
	switch t.Kind {
	case TokLParen:
		p.next()
		inner := p.parseAlt()
		if p.cur.Kind == TokRParen {
			p.next()
		} else {
			p.errorf(p.cur.Rng, "unbalanced '('")
		}
		return inner
	case TokLBrack:
		p.next()
		inner := p.parseAlt()
		r := t.Rng.Extend(inner.Span())
		if p.cur.Kind == TokRBrack {
			r = r.Extend(p.cur.Rng)
			p.next()
		} else {
			p.errorf(p.cur.Rng, "unbalanced '['")
		}
		return &Optional{base: p.node(r), Inner: inner}
	case TokLowerIdent, TokUpperIdent:
		p.next()
		return &Ref{base: p.node(t.Rng), Name: t.Text}
	case TokSymbol:
		p.next()
		return &Ref{base: p.node(t.Rng), Name: t.Sym, IsSymbol: true}
	case TokPredicate:
		p.next()
		return &Predicate{base: p.node(t.Rng), Index: t.Idx}
	case TokAction:
		p.next()
		return &Action{base: p.node(t.Rng), Index: t.Idx}
	case TokMarker:
		p.next()
		return &Marker{base: p.node(t.Rng), Index: t.Idx}
	}
	// not reached: callers check atomStart first
	p.errorf(t.Rng, "unexpected %s", KindName(t.Kind))
	p.next()
	return &Concat{base: p.node(t.Rng)}
}
