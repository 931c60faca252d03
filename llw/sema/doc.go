/*
Package sema analyses a parsed .llw grammar for LL(1) recursive-descent
parsing with error-resilient recovery.

The pass runs in phases, each reading the AST plus the results of earlier
phases: name resolution, productivity, nullable, FIRST and FOLLOW, rule
classification, predict sets and conflict detection, recovery-set synthesis
from dominators of the rule-derivation graph, and final structural checks. All
results live in side tables indexed by rule and regex-node IDs; the AST stays
immutable. Diagnostics are accumulated in a sink and never abort the pass, so
a (possibly partial) artifact is always produced.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package sema

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'llwgen.sema'.
func tracer() tracing.Trace {
	return tracing.Select("llwgen.sema")
}
