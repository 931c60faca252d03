/*
Package llw implements the front-end for the .llw grammar language: a scanner,
the grammar AST, a recursive-descent parser, and a pretty-printer.

The grammar language describes LL(1) grammars extended with direct left
recursion, operator-precedence rules, semantic predicates and actions, and
explicit marker/creation tokens for syntax-tree shape control. A grammar file
consists of top-level items in any order:

    token Name='symbol' … ;
    start rule_name ;
    skip Token … ;
    right Token … ;
    rule_name : regex ;

Scanning and parsing never abort: lexical and syntactic errors are collected
in a diagnostic sink and the parser recovers at the next top-level item.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package llw

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'llwgen.llw'.
func tracer() tracing.Trace {
	return tracing.Select("llwgen.llw")
}
