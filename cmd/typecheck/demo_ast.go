package main

import (
	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/infer"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/place"
	"github.com/sunholo/tycore/internal/reach"
	"github.com/sunholo/tycore/internal/resolve"
)

// demoClassDB is a trivial ClassDB for the demos below: no class has any
// subclass/protocol relationship beyond identity, which is all these
// synthetic programs need.
type demoClassDB struct{}

func (demoClassDB) IsSubclassOf(sub, super ids.ClassID) bool  { return sub == super }
func (demoClassDB) Conforms(class, protocol ids.ClassID) bool { return false }

// typeEntry is one labeled type the driver prints after running a demo.
type typeEntry struct {
	Label string
	Type  lattice.Type
}

// demoOutput is what a demo program reports back to main for rendering.
type demoOutput struct {
	Types       []typeEntry
	Diagnostics []*diag.Report
}

// demo pairs a short description with the synthetic program it builds and
// runs. Since this core never parses real source, every
// demo constructs its own internal/ir/internal/place fixture by hand, the
// same way internal/infer's own tests do — this driver is the in-tree
// "type checked output" smoke test AILANG's own cmd/typecheck/main.go ran
// over a parsed AILANG program, generalized to the constructs this core
// actually understands.
type demo struct {
	Name        string
	Description string
	Run         func() demoOutput
}

func demos() []demo {
	return []demo{
		{Name: "literals", Description: "literal inference and the operator-dunder fallback to object", Run: runLiteralsDemo},
		{Name: "lambda-call", Description: "lambda signatures and call-binding diagnostics", Run: runLambdaCallDemo},
		{Name: "operator-overload", Description: "binary operator resolution via __add__/__radd__", Run: runOperatorOverloadDemo},
		{Name: "possibly-unbound", Description: "a name bound on only one of two reaching paths", Run: runPossiblyUnboundDemo},
		{Name: "unpacking", Description: "fixed- and starred-tuple unpacking target types", Run: runUnpackingDemo},
	}
}

func newDemoEngine() *infer.Engine {
	tree := place.NewScopeTree()
	arena := ir.NewArena()
	reachArena := reach.NewArena()
	rel := lattice.NewRelations(demoClassDB{})
	return infer.New(tree, arena, reachArena, rel)
}

// runLiteralsDemo infers `x = 42`, `y = "hi"`, `z = True` and the expression
// `41 + 1`, which falls back to `object` since IntLiteral carries no class
// identity for the operator-dunder lookup to resolve against.
func runLiteralsDemo() demoOutput {
	e := newDemoEngine()
	scope := e.Tree.Root()
	tbl := e.Tree.Table(scope)

	x := tbl.AddSymbol("x")
	tbl.MarkBound(x)
	xLit := ir.NewLiteral(ir.Span{}, ir.LitInt, int64(42))
	xDef := &place.Definition{ID: ids.DefID(1), Place: x, Scope: scope, Kind: place.DefAssignment, Expr: e.Arena.Intern(xLit)}
	e.RegisterDefinition(xDef)

	y := tbl.AddSymbol("y")
	tbl.MarkBound(y)
	yLit := ir.NewLiteral(ir.Span{}, ir.LitString, "hi")
	yDef := &place.Definition{ID: ids.DefID(2), Place: y, Scope: scope, Kind: place.DefAssignment, Expr: e.Arena.Intern(yLit)}
	e.RegisterDefinition(yDef)

	z := tbl.AddSymbol("z")
	tbl.MarkBound(z)
	zLit := ir.NewLiteral(ir.Span{}, ir.LitBool, true)
	zDef := &place.Definition{ID: ids.DefID(3), Place: z, Scope: scope, Kind: place.DefAssignment, Expr: e.Arena.Intern(zLit)}
	e.RegisterDefinition(zDef)

	sum := &ir.BinOp{Op: "+", Left: ir.NewLiteral(ir.Span{}, ir.LitInt, int64(41)), Right: ir.NewLiteral(ir.Span{}, ir.LitInt, int64(1))}

	result := e.InferScopeTypes(nil, scope, []ids.DefID{xDef.ID, yDef.ID, zDef.ID}, []ir.Expr{sum})
	return demoOutput{
		Types: []typeEntry{
			{"x", result.BindingType(xDef.ID)},
			{"y", result.BindingType(yDef.ID)},
			{"z", result.BindingType(zDef.ID)},
			{"41 + 1", result.ExpressionType(e.Arena.Intern(sum))},
		},
		Diagnostics: result.Diagnostics(),
	}
}

// runLambdaCallDemo infers `lambda a, b: 0` and calls it once correctly and
// once with a missing argument, surfacing access.BindCall's BindingError.
// The body is a bare literal rather than a reference to a or b: this
// engine's inferLambda does not itself wire a lambda's parameters into the
// enclosing use-def graph (that is a scope-building step a real parser
// would own, out of scope here), so a body that named a parameter would
// report it unbound regardless of how the call binds.
func runLambdaCallDemo() demoOutput {
	e := newDemoEngine()

	lambda := &ir.Lambda{
		Params: []ir.Param{{Name: "a", Kind: ir.ParamPositionalOrKeyword}, {Name: "b", Kind: ir.ParamPositionalOrKeyword}},
		Body:   ir.NewLiteral(ir.Span{}, ir.LitInt, int64(0)),
	}
	goodCall := &ir.Call{Func: lambda, Args: []ir.Arg{
		{Value: ir.NewLiteral(ir.Span{}, ir.LitInt, int64(1))},
		{Value: ir.NewLiteral(ir.Span{}, ir.LitInt, int64(2))},
	}}
	badCall := &ir.Call{Func: lambda, Args: []ir.Arg{
		{Value: ir.NewLiteral(ir.Span{}, ir.LitInt, int64(1))},
	}}

	goodResult := e.InferExpressionTypes(nil, goodCall, infer.TypeContext{})
	badResult := e.InferExpressionTypes(nil, badCall, infer.TypeContext{})

	return demoOutput{
		Types: []typeEntry{
			{"(lambda a, b: 0)(1, 2)", goodResult.ExpressionType(e.Arena.Intern(goodCall))},
			{"(lambda a, b: 0)(1)", badResult.ExpressionType(e.Arena.Intern(badCall))},
		},
		Diagnostics: append(append([]*diag.Report{}, goodResult.Diagnostics()...), badResult.Diagnostics()...),
	}
}

// runOperatorOverloadDemo infers `v1 + v2` where both operands are
// instances of a class whose metaclass publishes a `__add__` returning the
// same class, the way a user-defined numeric type would resolve `+`.
func runOperatorOverloadDemo() demoOutput {
	e := newDemoEngine()
	vector := ids.ClassID(1)
	vectorInstance := lattice.NominalInstance{Class: vector}
	addMethod := lattice.Callable{Signature: &lattice.Signature{
		Params: []lattice.Param{{Name: "other", Kind: lattice.ParamPositionalOrKeyword, Type: vectorInstance}},
		Return: vectorInstance,
	}}
	e.Lookup = infer.ClassLookupFunc(func(class ids.ClassID, name string) (lattice.Type, resolve.Boundness) {
		if class == vector && name == "__add__" {
			return addMethod, resolve.Bound
		}
		return lattice.Dynamic{}, resolve.Unbound
	})

	scope := e.Tree.Root()
	tbl := e.Tree.Table(scope)
	v1 := tbl.AddSymbol("v1")
	tbl.MarkBound(v1)
	v1Def := &place.Definition{ID: ids.DefID(1), Place: v1, Scope: scope, Kind: place.DefAssignment}
	e.RegisterDefinition(v1Def)
	e.SetBindingType(v1Def.ID, vectorInstance)
	v1Name := ir.NewName(ir.Span{}, "v1")
	e.Tree.UseDef().Record(e.Arena.Intern(v1Name), place.LiveDefinition{Def: v1Def.ID})

	v2 := tbl.AddSymbol("v2")
	tbl.MarkBound(v2)
	v2Def := &place.Definition{ID: ids.DefID(2), Place: v2, Scope: scope, Kind: place.DefAssignment}
	e.RegisterDefinition(v2Def)
	e.SetBindingType(v2Def.ID, vectorInstance)
	v2Name := ir.NewName(ir.Span{}, "v2")
	e.Tree.UseDef().Record(e.Arena.Intern(v2Name), place.LiveDefinition{Def: v2Def.ID})

	sum := &ir.BinOp{Op: "+", Left: v1Name, Right: v2Name}
	result := e.InferExpressionTypes(nil, sum, infer.TypeContext{})

	return demoOutput{
		Types:       []typeEntry{{"v1 + v2", result.ExpressionType(e.Arena.Intern(sum))}},
		Diagnostics: result.Diagnostics(),
	}
}

// runPossiblyUnboundDemo infers a name use reached by both a real binding
// and the synthetic "start of scope" implicit-unbound definition, the
// shape `if cond: x = 1` produces at the use of `x` right after the if.
func runPossiblyUnboundDemo() demoOutput {
	e := newDemoEngine()
	scope := e.Tree.Root()
	tbl := e.Tree.Table(scope)
	x := tbl.AddSymbol("x")
	tbl.MarkBound(x)

	bound := &place.Definition{ID: ids.DefID(1), Place: x, Scope: scope, Kind: place.DefAssignment}
	e.RegisterDefinition(bound)
	e.SetBindingType(bound.ID, lattice.IntLiteral{Value: 1})

	implicit := &place.Definition{ID: ids.DefID(2), Place: x, Scope: scope, Kind: place.DefImplicitUnbound}
	e.RegisterDefinition(implicit)
	e.MarkImplicit(implicit.ID)
	e.SetBindingType(implicit.ID, lattice.Dynamic{})

	use := ir.NewName(ir.Span{}, "x")
	uid := e.Arena.Intern(use)
	e.Tree.UseDef().Record(uid, place.LiveDefinition{Def: bound.ID})
	e.Tree.UseDef().Record(uid, place.LiveDefinition{Def: implicit.ID})

	result := e.InferExpressionTypes(nil, use, infer.TypeContext{})
	return demoOutput{
		Types:       []typeEntry{{"x", result.ExpressionType(uid)}},
		Diagnostics: result.Diagnostics(),
	}
}

// runUnpackingDemo infers the per-target types of `a, *b, c = (1, "x", "y", True)`.
func runUnpackingDemo() demoOutput {
	e := newDemoEngine()
	tup := lattice.FixedTuple(
		lattice.IntLiteral{Value: 1},
		lattice.StringLiteral{Value: "x"},
		lattice.StringLiteral{Value: "y"},
		lattice.BooleanLiteral{Value: true},
	)
	result := e.InferUnpackTypes(nil, tup, 3, 1)
	return demoOutput{
		Types: []typeEntry{
			{"a", result.TargetType(0)},
			{"*b", result.TargetType(1)},
			{"c", result.TargetType(2)},
		},
		Diagnostics: result.Diagnostics(),
	}
}
