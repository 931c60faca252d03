package llw

import (
	"fmt"
	"strings"
)

// Print renders a grammar AST back into grammar syntax. Re-parsing the
// output yields a structurally equivalent AST; analysis results over both
// agree (modulo formatting).
func Print(f *File) string {
	var b strings.Builder
	for _, it := range f.Items {
		switch item := it.(type) {
		case *TokenList:
			b.WriteString("token")
			for _, d := range item.Decls {
				b.WriteString(" ")
				b.WriteString(d.Name)
				if d.Sym != "" {
					b.WriteString("='")
					b.WriteString(escapeSymbol(d.Sym))
					b.WriteString("'")
				}
			}
			b.WriteString(";\n")
		case *Start:
			fmt.Fprintf(&b, "start %s;\n", item.Name)
		case *Skip:
			b.WriteString("skip")
			for _, n := range item.Tokens {
				b.WriteString(" ")
				b.WriteString(n.Name)
			}
			b.WriteString(";\n")
		case *Right:
			b.WriteString("right")
			for _, n := range item.Tokens {
				b.WriteString(" ")
				b.WriteString(n.Name)
			}
			b.WriteString(";\n")
		case *Rule:
			fmt.Fprintf(&b, "%s: %s;\n", item.Name, Sprint(item.Body))
		}
	}
	return b.String()
}

// Precedence contexts for printing, loose to tight.
const (
	prAlt = iota
	prConcat
	prPostfix
)

// Sprint renders a single regex in grammar syntax.
func Sprint(r Regex) string {
	return sprint(r, prAlt)
}

func sprint(r Regex, prec int) string {
	switch n := r.(type) {
	case *Alt:
		parts := make([]string, len(n.Branches))
		for i, br := range n.Branches {
			parts[i] = sprint(br, prConcat)
		}
		return wrap(strings.Join(parts, " | "), prAlt, prec)
	case *Concat:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = sprint(c, prPostfix)
		}
		return wrap(strings.Join(parts, " "), prConcat, prec)
	case *Optional:
		return "[" + sprint(n.Inner, prAlt) + "]"
	case *Star:
		return sprint(n.Inner, prPostfix) + "*"
	case *Plus:
		return sprint(n.Inner, prPostfix) + "+"
	case *Binding:
		return sprint(n.Inner, prPostfix) + "@" + n.Name
	case *Ref:
		if n.IsSymbol {
			return "'" + escapeSymbol(n.Name) + "'"
		}
		return n.Name
	case *Predicate:
		return fmt.Sprintf("?%d", n.Index)
	case *Action:
		return fmt.Sprintf("#%d", n.Index)
	case *Marker:
		return fmt.Sprintf("<%d", n.Index)
	case *Create:
		return fmt.Sprintf("%d>%s", n.Index, n.Name)
	}
	return ""
}

// wrap parenthesizes when a construct appears in a tighter context.
func wrap(s string, level, prec int) string {
	if level < prec {
		return "(" + s + ")"
	}
	return s
}

func escapeSymbol(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	return strings.ReplaceAll(s, "'", "\\'")
}
