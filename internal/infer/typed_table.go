package infer

import (
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/typedast"
)

// TypedTable publishes this result as a typedast.Table, the form a demo
// driver or a future LSP layer consumes instead of holding the Engine's
// internal maps directly.
func (r *ExpressionInference) TypedTable() *typedast.Table {
	t := typedast.New()
	for node, typ := range r.types {
		t.RecordExpr(node, typ, typedast.Qualifiers{Deferred: r.stringAnnots[node]})
	}
	t.AddDiagnostics(r.diagnostics)
	return t
}

// TypedTable publishes this result as a typedast.Table keyed by definition
// id, recording whichever of binding/declaration this definition resolved.
func (r *DefinitionInference) TypedTable() *typedast.Table {
	t := typedast.New()
	recorded := make(map[ids.DefID]bool)
	for def, bind := range r.bindings {
		t.RecordDef(def, bind, r.declarations[def], typedast.Qualifiers{Boundness: r.boundness[def]})
		recorded[def] = true
	}
	for def, decl := range r.declarations {
		if recorded[def] {
			continue
		}
		t.RecordDef(def, nil, decl, typedast.Qualifiers{Boundness: r.boundness[def]})
	}
	t.AddDiagnostics(r.diagnostics)
	return t
}

// TypedTable publishes a whole scope's result as one typedast.Table,
// merging the definition- and expression-level tables.
func (r *ScopeInference) TypedTable() *typedast.Table {
	t := r.DefinitionInference.TypedTable()
	t.Merge(r.ExpressionInference.TypedTable())
	return t
}
