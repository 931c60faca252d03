/*
Package llwgen is the grammar front-end of a parser generator for .llw grammars.

llwgen consumes a grammar description in a dedicated grammar language and
analyses it for recursive-descent parsing with error-resilient recovery.
The grammar language extends LL(1) with direct left recursion,
operator-precedence rules, semantic predicates, semantic actions, and
explicit markers/bindings for syntax-tree shape control. Package structure is
as follows:

■ llw: Package llw implements the scanner and the recursive-descent parser for
the grammar language itself, together with the grammar AST and a pretty-printer.

■ llw/sema: Package sema implements the semantic pass: name resolution, the
LL(1) fixpoint analyses (nullable, FIRST, FOLLOW, predict sets), rule
classification, conflict detection, and recovery-set synthesis based on
dominators of the rule-derivation graph.

■ diag: Package diag collects diagnostics keyed by source byte-range, with
stable iteration order by position.

The base package contains data types which are used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package llwgen
