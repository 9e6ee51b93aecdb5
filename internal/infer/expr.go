package infer

import (
	"context"

	"github.com/sunholo/tycore/internal/access"
	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/place"
	"github.com/sunholo/tycore/internal/query"
	"github.com/sunholo/tycore/internal/resolve"
)

// InferExpressionType infers expr standalone under tc, memoized by the
// expression's arena id and the annotation (if any).
func (e *Engine) InferExpressionType(ctx context.Context, expr ir.Expr, tc TypeContext) lattice.Type {
	ctx = ensureCtx(ctx)
	id := e.Arena.Intern(expr)
	var annotKey string
	if tc.Annotation != nil {
		annotKey = tc.Annotation.String()
	}
	tok := query.Normalize("infer_expression_type", uint32(id), annotKey)
	return e.Cache.Compute(ctx, tok, func(ctx context.Context, seed lattice.Type) lattice.Type {
		result := newExpressionInference()
		return e.inferExpr(ctx, expr, tc, result)
	})
}

// InferExpressionTypes infers expr and every subexpression it contains
// under tc, returning the full per-node result.
func (e *Engine) InferExpressionTypes(ctx context.Context, expr ir.Expr, tc TypeContext) *ExpressionInference {
	ctx = ensureCtx(ctx)
	result := newExpressionInference()
	e.inferExpr(ctx, expr, tc, result)
	return result
}

// inferExpr is the recursive dispatch core, mirroring AILANG's
// typechecker's per-node-kind switch (internal/types/typechecker.go):
// every case computes a type, records it against the node's arena id, and
// returns it so callers composing larger expressions don't need a second
// lookup.
func (e *Engine) inferExpr(ctx context.Context, expr ir.Expr, tc TypeContext, result *ExpressionInference) lattice.Type {
	if expr == nil {
		return lattice.Dynamic{}
	}
	id := e.Arena.Intern(expr)

	var t lattice.Type
	switch n := expr.(type) {
	case *ir.Literal:
		t = e.inferLiteral(n, tc)

	case *ir.Name:
		t = e.inferName(n, id, result)

	case *ir.Attribute:
		base := e.inferExpr(ctx, n.Value, TypeContext{}, result)
		got, err := access.DunderCall(base, "__getattr__", nil, e.lookupOrNil(), e.Rel)
		if err != nil {
			// Attribute access usually isn't a dunder call at all; fall back
			// to Dynamic rather than surfacing a spurious dunder diagnostic
			// when the base type has no custom __getattr__.
			t = lattice.Dynamic{}
		} else {
			t = got
		}

	case *ir.Subscript:
		base := e.inferExpr(ctx, n.Value, TypeContext{}, result)
		key := e.inferSubscriptKey(ctx, n.Index, result)
		got, err := access.Subscript(base, key, e.lookupOrNil(), e.Rel)
		result.report(err)
		t = got

	case *ir.Call:
		t = e.inferCall(ctx, n, tc, result)

	case *ir.BinOp:
		left := e.inferExpr(ctx, n.Left, TypeContext{}, result)
		right := e.inferExpr(ctx, n.Right, TypeContext{}, result)
		got, err := access.BinaryOp(n.Op, left, right, e.lookupOrNil(), e.Rel)
		result.report(err)
		t = got

	case *ir.UnaryOp:
		operand := e.inferExpr(ctx, n.Operand, TypeContext{}, result)
		if n.Op == "not" {
			// "not x" always produces bool regardless of x's narrowed shape.
			t = boolType()
		} else {
			t = operand
		}

	case *ir.BoolOp:
		t = e.inferBoolOp(ctx, n, result)

	case *ir.Compare:
		for _, c := range n.Comparators {
			e.inferExpr(ctx, c, TypeContext{}, result)
		}
		e.inferExpr(ctx, n.Left, TypeContext{}, result)
		t = boolType()

	case *ir.IfExp:
		e.inferExpr(ctx, n.Test, TypeContext{}, result)
		body := e.inferExpr(ctx, n.Body, tc, result)
		orelse := e.inferExpr(ctx, n.Orelse, tc, result)
		t = lattice.UnionOf(body, orelse)

	case *ir.Tuple:
		t = e.inferTupleDisplay(ctx, n, tc, result)

	case *ir.List:
		t = e.inferListDisplay(ctx, n, tc, result)

	case *ir.Starred:
		t = e.inferExpr(ctx, n.Value, TypeContext{}, result)

	case *ir.Lambda:
		t = e.inferLambda(ctx, n, result)

	case *ir.StringAnnotation:
		result.stringAnnots[id] = true
		t = e.inferExpr(ctx, n.Inner, tc, result)

	default:
		t = lattice.Dynamic{}
	}

	result.record(id, t)
	return t
}

func boolType() lattice.Type { return lattice.Union{Members: []lattice.Type{
	lattice.BooleanLiteral{Value: true}, lattice.BooleanLiteral{Value: false},
}} }

func (e *Engine) lookupOrNil() access.ClassLookup {
	if e.Lookup == nil {
		return ClassLookupFunc(nil)
	}
	return e.Lookup
}

func (e *Engine) inferLiteral(n *ir.Literal, tc TypeContext) lattice.Type {
	switch n.Kind {
	case ir.LitBool:
		v, _ := n.Value.(bool)
		return lattice.BooleanLiteral{Value: v}
	case ir.LitInt:
		v, _ := n.Value.(int64)
		return lattice.IntLiteral{Value: v}
	case ir.LitString:
		v, _ := n.Value.(string)
		return lattice.StringLiteral{Value: v}
	case ir.LitBytes:
		v, _ := n.Value.(string)
		return lattice.BytesLiteral{Value: v}
	default:
		// None/Ellipsis: the lattice has no dedicated singleton type for
		// these, so they widen to Dynamic the way an unresolved import would
		//.
		return lattice.Dynamic{Kind: lattice.DynamicPlaceholder}
	}
}

// inferName resolves a Name use through the full live-definitions pipeline:
// gather this use's LiveDefinitions, drop statically-unreachable ones, apply
// each surviving one's narrowing, combine via resolve.FromBindings, then
// resolve.Combine against any reaching declaration.
func (e *Engine) inferName(n *ir.Name, use ids.ExprID, result *ExpressionInference) lattice.Type {
	var reachableLive []place.LiveDefinition
	typesByDef := make(map[ids.DefID]lattice.Type)
	var declTypes []lattice.Type
	hasDecl := false

	for _, ld := range e.Tree.UseDef().LiveAt(use) {
		if !e.reachable(ld.Visibility) {
			continue
		}
		reachableLive = append(reachableLive, ld)
		raw, ok := e.defTypes[ld.Def]
		if !ok {
			raw = lattice.Dynamic{}
		}
		typesByDef[ld.Def] = e.applyNarrowing(raw, ld.Narrowing)
		if dt, ok := e.declTypes[ld.Def]; ok {
			declTypes = append(declTypes, dt)
			hasDecl = true
		}
	}

	bindingsType, boundness := resolve.FromBindings(reachableLive, typesByDef, e.implicitDef)
	declaredType := resolve.FromDeclarations(declTypes)

	finalType, _, rep := e.Resolver.Combine(n.Span(), bindingsType, boundness, declaredType, hasDecl)
	if rep != nil {
		result.report(rep)
	}
	if boundness == resolve.PossiblyUnbound {
		result.report(diag.New(diag.PossiblyUnboundPlace, n.Span(), "name "+n.Ident+" is possibly unbound here"))
	} else if boundness == resolve.Unbound {
		result.report(diag.New(diag.UnboundPlace, n.Span(), "name "+n.Ident+" is unbound here"))
	}
	return finalType
}

func (e *Engine) inferSubscriptKey(ctx context.Context, index ir.Expr, result *ExpressionInference) access.Key {
	if _, ok := index.(*ir.Slice); ok {
		return access.Key{IsSlice: true, Slice: lattice.SliceLiteral{}, Type: lattice.Dynamic{}}
	}
	t := e.inferExpr(ctx, index, TypeContext{}, result)
	return access.Key{Type: t}
}

func (e *Engine) inferCall(ctx context.Context, n *ir.Call, tc TypeContext, result *ExpressionInference) lattice.Type {
	funcType := e.inferExpr(ctx, n.Func, TypeContext{}, result)
	args := make([]access.Arg, 0, len(n.Args))
	for _, a := range n.Args {
		argT := e.inferExpr(ctx, a.Value, TypeContext{}, result)
		kind := access.ArgPositional
		switch {
		case a.Star:
			kind = access.ArgStar
		case a.DoubleStar:
			kind = access.ArgDoubleStar
		case a.Name != "":
			kind = access.ArgKeyword
		}
		args = append(args, access.Arg{Kind: kind, Name: a.Name, Type: argT})
	}

	switch callable := funcType.(type) {
	case lattice.Callable:
		ret, err := access.Call(callable, args, e.Rel)
		result.report(err)
		return ret
	case lattice.Dynamic, lattice.Divergent, lattice.Todo:
		return funcType
	default:
		ret, err := access.DunderCall(funcType, "__call__", args, e.lookupOrNil(), e.Rel)
		result.report(err)
		return ret
	}
}

func (e *Engine) inferBoolOp(ctx context.Context, n *ir.BoolOp, result *ExpressionInference) lattice.Type {
	var members []lattice.Type
	for _, v := range n.Values {
		members = append(members, e.inferExpr(ctx, v, TypeContext{}, result))
	}
	return lattice.UnionOf(members...)
}

// elementAnnotation extracts the single type argument a `list[T]`/`set[T]`-
// shaped TypeContext annotation specializes to, for bidirectional inference
// of empty/bare displays.
func elementAnnotation(tc TypeContext) (lattice.Type, bool) {
	ga, ok := tc.Annotation.(lattice.GenericAlias)
	if !ok || len(ga.Specialization) == 0 {
		return nil, false
	}
	return ga.Specialization[0], true
}

func (e *Engine) inferTupleDisplay(ctx context.Context, n *ir.Tuple, tc TypeContext, result *ExpressionInference) lattice.Type {
	elems := make([]lattice.Type, len(n.Elts))
	for i, elt := range n.Elts {
		elems[i] = e.inferExpr(ctx, elt, TypeContext{}, result)
	}
	return lattice.FixedTuple(elems...)
}

func (e *Engine) inferListDisplay(ctx context.Context, n *ir.List, tc TypeContext, result *ExpressionInference) lattice.Type {
	if len(n.Elts) == 0 {
		if elemT, ok := elementAnnotation(tc); ok {
			return lattice.GenericAlias{Specialization: []lattice.Type{elemT}}
		}
		return lattice.Dynamic{}
	}
	var members []lattice.Type
	for _, elt := range n.Elts {
		members = append(members, e.inferExpr(ctx, elt, TypeContext{}, result))
	}
	return lattice.GenericAlias{Specialization: []lattice.Type{lattice.UnionOf(members...)}}
}

func (e *Engine) inferLambda(ctx context.Context, n *ir.Lambda, result *ExpressionInference) lattice.Type {
	params := make([]lattice.Param, len(n.Params))
	for i, p := range n.Params {
		pt := lattice.Type(lattice.Dynamic{})
		if p.Annotation != nil {
			pt = e.inferExpr(ctx, p.Annotation, TypeContext{}, result)
		}
		params[i] = lattice.Param{Name: p.Name, Type: pt, Kind: paramKind(p.Kind), HasDefault: p.Default != nil}
	}
	ret := e.inferExpr(ctx, n.Body, TypeContext{}, result)
	return lattice.Callable{Signature: &lattice.Signature{Params: params, Return: ret}}
}

func paramKind(k ir.ParamKind) lattice.ParamKind {
	switch k {
	case ir.ParamPositionalOnly:
		return lattice.ParamPositionalOnly
	case ir.ParamVarArgs:
		return lattice.ParamVarArgs
	case ir.ParamKeywordOnly:
		return lattice.ParamKeywordOnly
	case ir.ParamKwArgs:
		return lattice.ParamKwArgs
	default:
		return lattice.ParamPositionalOrKeyword
	}
}
