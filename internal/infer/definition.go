package infer

import (
	"context"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/place"
	"github.com/sunholo/tycore/internal/query"
)

// InferDefinitionTypes infers only the minimum subtree needed to type one
// definition, useful for cross-scope
// lookups that don't need the whole enclosing scope typed. Annotation and
// parameter definitions contribute a declared type; everything else
// contributes a binding type from its value expression.
func (e *Engine) InferDefinitionTypes(ctx context.Context, def ids.DefID) *DefinitionInference {
	ctx = ensureCtx(ctx)
	tok := query.Normalize("infer_definition_types", uint32(def))
	result := newDefinitionInference()

	// Compute may re-run fn more than once to reach a fixed point (it
	// always runs at least twice even outside a cycle, to confirm
	// convergence), so diagnostics collected by one run must not survive
	// into the next — only the diagnostics belonging to the call that
	// produced the final result are kept.
	var diags []*diag.Report
	t := e.Cache.Compute(ctx, tok, func(ctx context.Context, seed lattice.Type) lattice.Type {
		diags = nil
		return e.inferOneDefinition(ctx, def, &diags)
	})
	result.diagnostics = append(result.diagnostics, diags...)

	switch d, ok := e.defs[def]; {
	case !ok:
		// unregistered definition: nothing to report beyond Dynamic.
	case d.Kind == place.DefAnnotation || d.Kind == place.DefParameter:
		result.declarations[def] = t
		e.declTypes[def] = t
	default:
		result.bindings[def] = t
		e.defTypes[def] = t
	}
	return result
}

func (e *Engine) inferOneDefinition(ctx context.Context, def ids.DefID, diags *[]*diag.Report) lattice.Type {
	d, ok := e.defs[def]
	if !ok || d.Expr == 0 {
		return lattice.Dynamic{}
	}
	expr := e.Arena.Get(d.Expr)
	if expr == nil {
		return lattice.Dynamic{}
	}
	exprResult := newExpressionInference()
	t := e.inferExpr(ctx, expr, TypeContext{}, exprResult)
	*diags = append(*diags, exprResult.diagnostics...)
	return t
}

// InferDeferredTypes re-infers a definition whose annotation was a string
// literal, a stub-file annotation, or written under "from __future__ import
// annotations". reparsed is the
// already-parsed inner expression the caller recovered from the string —
// this core never parses strings itself.
func (e *Engine) InferDeferredTypes(ctx context.Context, def ids.DefID, reparsed ir.Expr) *DefinitionInference {
	ctx = ensureCtx(ctx)
	tok := query.Normalize("infer_deferred_types", uint32(def), uint32(e.Arena.Intern(reparsed)))
	result := newDefinitionInference()

	var diags []*diag.Report
	t := e.Cache.Compute(ctx, tok, func(ctx context.Context, seed lattice.Type) lattice.Type {
		diags = nil
		exprResult := newExpressionInference()
		t := e.inferExpr(ctx, reparsed, TypeContext{}, exprResult)
		diags = exprResult.diagnostics
		return t
	})
	result.diagnostics = append(result.diagnostics, diags...)

	result.declarations[def] = t
	e.declTypes[def] = t
	return result
}

// InferScopeTypes walks every definition and expression registered for
// scope in definition order, producing the full per-scope result (spec
// §4.F "Scope inference"). defs and exprs are the scope's definitions and
// top-level expressions in source order; deferred annotation expressions
// among exprs are inferred in the same pass here since this core has no
// separate AST walk to schedule a second one — callers that need the
// stub/future-annotations deferral call InferDeferredTypes explicitly for
// those nodes instead of including them in exprs.
//
// Each definition is individually memoized by InferDefinitionTypes' own
// query token; top-level expressions go straight to inferExpr, which is not
// memoized. This entry point itself does not wrap the whole walk in another
// Cache.Compute — doing so
// would re-run the (side-effecting, result-accumulating) walk a second
// time to check fixed-point convergence, double-counting diagnostics for
// no benefit, since the walk order here never participates in a query
// cycle on its own.
func (e *Engine) InferScopeTypes(ctx context.Context, scope ids.ScopeID, defs []ids.DefID, exprs []ir.Expr) *ScopeInference {
	ctx = ensureCtx(ctx)

	defResult := newDefinitionInference()
	exprResult := newExpressionInference()

	for _, def := range defs {
		di := e.InferDefinitionTypes(ctx, def)
		for id, t := range di.bindings {
			defResult.bindings[id] = t
		}
		for id, t := range di.declarations {
			defResult.declarations[id] = t
		}
		defResult.diagnostics = append(defResult.diagnostics, di.diagnostics...)
	}
	for _, expr := range exprs {
		e.inferExpr(ctx, expr, TypeContext{}, exprResult)
	}

	return &ScopeInference{DefinitionInference: defResult, ExpressionInference: exprResult}
}
