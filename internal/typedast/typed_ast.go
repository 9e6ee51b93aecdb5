// Package typedast is the per-node type annotation table the inference
// engine's results publish for downstream consumers: given an expression
// or definition id, look up the type (and
// qualifiers like "possibly unbound" or "was a deferred string annotation")
// the engine assigned it, without re-running inference. Grounded on
// AILANG's internal/typedast package, which plays the same role for
// AILANG's Core AST — a typed tree paired with its own untyped source node
// — adapted here from "typed Core expression wrapping an untyped Core
// node" to "typed annotation table keyed by arena/definition id", since
// this core builds its typed results as a side table over internal/ir's
// arena rather than as a parallel tree.
package typedast

import (
	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/resolve"
)

// Qualifiers records the boolean flags attached to one annotated node
// alongside its type: whether it came from a deferred (string/stub)
// annotation, and its resolved boundness if it is a place use.
type Qualifiers struct {
	Deferred  bool
	Boundness resolve.Boundness
}

// ExprEntry is one expression node's published type annotation.
type ExprEntry struct {
	Type lattice.Type
	Qualifiers
}

// DefEntry is one definition's published binding/declaration types.
type DefEntry struct {
	Binding     lattice.Type
	Declaration lattice.Type
	Qualifiers
}

// Table is the typed-AST result: every expression and definition id the
// engine annotated, plus the diagnostics raised while doing so. It is built
// once per scope/file from an ExpressionInference/DefinitionInference pair
// and handed to callers (a demo driver, a future LSP layer) that want typed
// lookups without holding the Engine itself.
type Table struct {
	exprs       map[ids.ExprID]ExprEntry
	defs        map[ids.DefID]DefEntry
	diagnostics []*diag.Report
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		exprs: make(map[ids.ExprID]ExprEntry),
		defs:  make(map[ids.DefID]DefEntry),
	}
}

// RecordExpr publishes node's inferred type and qualifiers.
func (t *Table) RecordExpr(node ids.ExprID, typ lattice.Type, q Qualifiers) {
	t.exprs[node] = ExprEntry{Type: typ, Qualifiers: q}
}

// RecordDef publishes def's binding/declaration types and qualifiers.
func (t *Table) RecordDef(def ids.DefID, binding, declaration lattice.Type, q Qualifiers) {
	t.defs[def] = DefEntry{Binding: binding, Declaration: declaration, Qualifiers: q}
}

// AddDiagnostics appends diagnostics raised while building this table.
func (t *Table) AddDiagnostics(reps []*diag.Report) {
	t.diagnostics = append(t.diagnostics, reps...)
}

// ExprType returns node's published type, Dynamic if nothing was recorded.
func (t *Table) ExprType(node ids.ExprID) lattice.Type {
	if e, ok := t.exprs[node]; ok {
		return e.Type
	}
	return lattice.Dynamic{}
}

// ExprQualifiers returns node's published qualifiers, the zero value if
// nothing was recorded.
func (t *Table) ExprQualifiers(node ids.ExprID) Qualifiers {
	return t.exprs[node].Qualifiers
}

// DefBindingType returns def's published binding type, Dynamic if nothing
// was recorded.
func (t *Table) DefBindingType(def ids.DefID) lattice.Type {
	if d, ok := t.defs[def]; ok && d.Binding != nil {
		return d.Binding
	}
	return lattice.Dynamic{}
}

// DefDeclarationType returns def's published declaration type, Dynamic if
// nothing was recorded.
func (t *Table) DefDeclarationType(def ids.DefID) lattice.Type {
	if d, ok := t.defs[def]; ok && d.Declaration != nil {
		return d.Declaration
	}
	return lattice.Dynamic{}
}

// Diagnostics returns every diagnostic recorded against this table.
func (t *Table) Diagnostics() []*diag.Report { return t.diagnostics }

// Len reports how many expression entries the table holds, for tests and
// smoke-test drivers that want a coverage count.
func (t *Table) Len() int { return len(t.exprs) }

// Merge copies every entry and diagnostic from other into t, overwriting any
// entry t already holds for the same id. Used to combine the definition- and
// expression-level tables InferScopeTypes produces into one published Table.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for id, e := range other.exprs {
		t.exprs[id] = e
	}
	for id, d := range other.defs {
		t.defs[id] = d
	}
	t.diagnostics = append(t.diagnostics, other.diagnostics...)
}
