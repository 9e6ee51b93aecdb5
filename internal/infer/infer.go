// Package infer implements the inference engine: the four
// memoized entry points (scope/definition/deferred/expression), bidirectional
// inference via TypeContext and unpacking, wired on top of internal/place
// (scopes/places/use-def),
// internal/resolve (binding+declaration combination), internal/narrow
// (guard-driven type refinement), internal/access (subscript/call/dunder)
// and internal/query (memoization and cycle recovery). Grounded on
// AILANG's internal/types/typechecker.go top-level driver — the same
// "walk the program once, dispatch per node kind, consult the other type
// packages for judgments" shape — generalized from AILANG's HM
// unification-driven checker to this core's gradual-typing lattice.
//
// Match statements and loops are not handled: nothing here consumes
// ir.MatchArm, and loop bodies are not typed to a fixed point.
package infer

import (
	"context"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/narrow"
	"github.com/sunholo/tycore/internal/place"
	"github.com/sunholo/tycore/internal/query"
	"github.com/sunholo/tycore/internal/reach"
	"github.com/sunholo/tycore/internal/resolve"
)

// TypeContext threads an optional expected type into expression inference
//: it specializes bare literal
// container displays, helps resolve call overload ambiguity, and picks a
// union branch when assigning a literal.
type TypeContext struct {
	Annotation lattice.Type // nil means "no expectation"
}

// Engine answers the inference queries over one file's already-built scope
// tree and expression arena. A real parser (out of scope for this core)
// would populate the tree/arena/definitions before handing the Engine to a
// caller; tests build these directly.
type Engine struct {
	Tree       *place.ScopeTree
	Arena      *ir.Arena
	ReachArena *reach.Arena
	Rel        *lattice.Relations
	Narrow     *narrow.Engine
	Resolver   *resolve.Resolver
	Cache      *query.Cache
	Lookup     ClassLookupFunc // dunder resolution; nil means "no dunders known"

	defs        map[ids.DefID]*place.Definition
	defTypes    map[ids.DefID]lattice.Type
	declTypes   map[ids.DefID]lattice.Type
	implicitDef map[ids.DefID]bool
	narrowByTDD map[reach.ID]narrow.Narrow
	oracle      reach.Oracle

	builtinsTable *place.Table
	modules       map[string]*place.Table
}

// ClassLookupFunc adapts a plain function to internal/access's ClassLookup
// interface, since the engine's dunder table is usually just a map.
type ClassLookupFunc func(class ids.ClassID, name string) (lattice.Type, resolve.Boundness)

func (f ClassLookupFunc) LookupDunder(class ids.ClassID, name string) (lattice.Type, resolve.Boundness) {
	if f == nil {
		return lattice.Dynamic{}, resolve.Unbound
	}
	return f(class, name)
}

// New creates an Engine over tree/arena, using rel for all subtyping
// judgments. reachArena and rel's relations are shared with the narrowing
// engine so guard predicates and type relations agree.
func New(tree *place.ScopeTree, arena *ir.Arena, reachArena *reach.Arena, rel *lattice.Relations) *Engine {
	return &Engine{
		Tree:        tree,
		Arena:       arena,
		ReachArena:  reachArena,
		Rel:         rel,
		Narrow:      narrow.New(rel, reachArena),
		Resolver:    resolve.New(tree, rel),
		Cache:       query.NewCache(),
		defs:        make(map[ids.DefID]*place.Definition),
		defTypes:    make(map[ids.DefID]lattice.Type),
		declTypes:   make(map[ids.DefID]lattice.Type),
		implicitDef: make(map[ids.DefID]bool),
		narrowByTDD: make(map[reach.ID]narrow.Narrow),
		modules:     make(map[string]*place.Table),
	}
}

// RegisterDefinition makes def resolvable by its ID — the scope builder
// calls this once per binding/declaration/parameter site it creates.
func (e *Engine) RegisterDefinition(def *place.Definition) { e.defs[def.ID] = def }

// Definition looks up a previously registered definition.
func (e *Engine) Definition(id ids.DefID) (*place.Definition, bool) {
	d, ok := e.defs[id]
	return d, ok
}

// SetBindingType records the type a definition's right-hand side evaluates
// to, consumed by from-bindings resolution at every use reaching it.
func (e *Engine) SetBindingType(def ids.DefID, t lattice.Type) { e.defTypes[def] = t }

// SetDeclaredType records a definition's explicit annotation type.
func (e *Engine) SetDeclaredType(def ids.DefID, t lattice.Type) { e.declTypes[def] = t }

// MarkImplicit flags def as the synthetic "not yet bound" definition a
// scope's implicit start-of-scope binding contributes.
func (e *Engine) MarkImplicit(def ids.DefID) { e.implicitDef[def] = true }

// RegisterNarrowing associates a TDD node (typically a narrow.Pair's
// PredNode, or its negation via ReachArena.Not) with the concrete type
// refinement active when a use's LiveDefinition.Narrowing equals that node.
// The scope builder calls this once per guard branch it threads into the
// use-def map, pairing the exact TDD shape it constructed with the Narrow
// function that produced it.
func (e *Engine) RegisterNarrowing(node reach.ID, fn narrow.Narrow) {
	e.narrowByTDD[node] = fn
}

// SetOracle installs the reachability oracle used to decide whether a
// definition's Visibility constraint is statically dead on this path. With
// no oracle set, every definition is conservatively treated as reachable.
func (e *Engine) SetOracle(o reach.Oracle) { e.oracle = o }

// SetBuiltinsTable installs the builtins module's place table, the final
// fallback in name resolution and the target of BuiltinsPlace.
func (e *Engine) SetBuiltinsTable(t *place.Table) { e.builtinsTable = t }

// RegisterModule makes a module's place table available to ImportedPlace/
// KnownModulePlace under dottedPath.
func (e *Engine) RegisterModule(dottedPath string, t *place.Table) { e.modules[dottedPath] = t }

// applyNarrowing looks up the Narrow function registered for node, falling
// back to the identity narrowing for unregistered or AlwaysTrue nodes —
// compound guards (and/or combinations) the caller didn't separately
// register narrow the reachability predicate only, not the type: only one
// branch of a combinator is ever precise.
func (e *Engine) applyNarrowing(t lattice.Type, node reach.ID) lattice.Type {
	if node == 0 || node == reach.IDAlwaysTrue {
		return t
	}
	if fn, ok := e.narrowByTDD[node]; ok {
		return fn(t)
	}
	return t
}

// reachable reports whether a definition's visibility constraint is live,
// consulting the installed oracle if any.
func (e *Engine) reachable(vis reach.ID) bool {
	if e.oracle == nil || vis == 0 {
		return true
	}
	return e.ReachArena.Evaluate(vis, e.oracle) != reach.AlwaysFalse
}

// Place resolves name against scope's own table only (no fallback chain).
func (e *Engine) Place(scope ids.ScopeID, name string) (ids.PlaceID, bool) {
	tbl := e.Tree.Table(scope)
	if tbl == nil {
		return 0, false
	}
	return tbl.Lookup(name)
}

// GlobalPlace delegates to the resolver.
func (e *Engine) GlobalPlace(name string) (ids.PlaceID, bool) { return e.Resolver.GlobalPlace(name) }

// ImportedPlace resolves name against a registered module's table.
func (e *Engine) ImportedPlace(dottedModule, name string, isStub bool, explicitAll map[string]bool) (ids.PlaceID, bool) {
	tbl, ok := e.modules[dottedModule]
	if !ok {
		return 0, false
	}
	return e.Resolver.ImportedPlace(tbl, name, isStub, explicitAll)
}

// BuiltinsPlace resolves name against the installed builtins table.
func (e *Engine) BuiltinsPlace(name string) (ids.PlaceID, bool) {
	if e.builtinsTable == nil {
		return 0, false
	}
	return e.Resolver.BuiltinsPlace(e.builtinsTable, name)
}

// KnownModulePlace resolves a dotted module path against the registry.
func (e *Engine) KnownModulePlace(dottedPath string) (*place.Table, bool) {
	return e.Resolver.KnownModulePlace(e.modules, dottedPath)
}

// StaticExpressionTruthiness classifies t's boolean value statically (spec
// §6 `static_expression_truthiness`): AlwaysTrue when every value of t is
// truthy, AlwaysFalse when every value is falsy, Ambiguous otherwise.
func (e *Engine) StaticExpressionTruthiness(t lattice.Type) reach.Value {
	switch {
	case e.Rel.IsSubtypeOf(t, lattice.AlwaysTruthy{}):
		return reach.AlwaysTrue
	case e.Rel.IsSubtypeOf(t, lattice.AlwaysFalsy{}):
		return reach.AlwaysFalse
	default:
		return reach.Ambiguous
	}
}

// ExpressionInference is the result of InferExpressionTypes:
// per-node types, the string-annotation marker set, and any diagnostics
// raised while inferring them.
type ExpressionInference struct {
	types         map[ids.ExprID]lattice.Type
	stringAnnots  map[ids.ExprID]bool
	diagnostics   []*diag.Report
}

func newExpressionInference() *ExpressionInference {
	return &ExpressionInference{
		types:        make(map[ids.ExprID]lattice.Type),
		stringAnnots: make(map[ids.ExprID]bool),
	}
}

// ExpressionType returns the inferred type of node, or Dynamic if it was
// never inferred (e.g. unreachable code the engine skipped).
func (r *ExpressionInference) ExpressionType(node ids.ExprID) lattice.Type {
	if t, ok := r.types[node]; ok {
		return t
	}
	return lattice.Dynamic{}
}

// IsStringAnnotation reports whether node was a string-literal annotation
// deferred for a later pass.
func (r *ExpressionInference) IsStringAnnotation(node ids.ExprID) bool {
	return r.stringAnnots[node]
}

// Diagnostics returns every diagnostic raised while building this result.
func (r *ExpressionInference) Diagnostics() []*diag.Report { return r.diagnostics }

func (r *ExpressionInference) record(node ids.ExprID, t lattice.Type) {
	r.types[node] = t
}

func (r *ExpressionInference) report(rep *diag.Report) {
	if rep != nil {
		r.diagnostics = append(r.diagnostics, rep)
	}
}

// DefinitionInference is the result of InferDefinitionTypes/InferDeferredTypes
//: one definition's binding type, declared type and boundness.
type DefinitionInference struct {
	bindings     map[ids.DefID]lattice.Type
	declarations map[ids.DefID]lattice.Type
	boundness    map[ids.DefID]resolve.Boundness
	diagnostics  []*diag.Report
}

func newDefinitionInference() *DefinitionInference {
	return &DefinitionInference{
		bindings:     make(map[ids.DefID]lattice.Type),
		declarations: make(map[ids.DefID]lattice.Type),
		boundness:    make(map[ids.DefID]resolve.Boundness),
	}
}

// BindingType returns def's from-bindings-resolved type.
func (r *DefinitionInference) BindingType(def ids.DefID) lattice.Type {
	if t, ok := r.bindings[def]; ok {
		return t
	}
	return lattice.Dynamic{}
}

// DeclarationType returns def's from-declarations type, Dynamic if none.
func (r *DefinitionInference) DeclarationType(def ids.DefID) lattice.Type {
	if t, ok := r.declarations[def]; ok {
		return t
	}
	return lattice.Dynamic{}
}

// Boundness returns def's resolved boundness.
func (r *DefinitionInference) Boundness(def ids.DefID) resolve.Boundness { return r.boundness[def] }

// Diagnostics returns every diagnostic raised while resolving this definition.
func (r *DefinitionInference) Diagnostics() []*diag.Report { return r.diagnostics }

// ScopeInference is the result of InferScopeTypes: every definition's and
// expression's inferred type for one scope, walked in definition order.
type ScopeInference struct {
	*DefinitionInference
	*ExpressionInference
}

// Diagnostics merges both the definition- and expression-level diagnostics.
func (r *ScopeInference) Diagnostics() []*diag.Report {
	out := append([]*diag.Report{}, r.DefinitionInference.diagnostics...)
	return append(out, r.ExpressionInference.diagnostics...)
}

// UnpackResult is the result of InferUnpackTypes: one type per
// unpacking target, plus any length-mismatch diagnostics.
type UnpackResult struct {
	targetTypes []lattice.Type
	diagnostics []*diag.Report
}

// TargetType returns the i'th target's assigned type.
func (r *UnpackResult) TargetType(i int) lattice.Type {
	if i < 0 || i >= len(r.targetTypes) {
		return lattice.Dynamic{}
	}
	return r.targetTypes[i]
}

// Diagnostics returns any length-mismatch diagnostics raised.
func (r *UnpackResult) Diagnostics() []*diag.Report { return r.diagnostics }

// ensureCtx returns ctx, defaulting to Background so callers of the
// TypeContext-only external-interface signatures don't need to thread one
// through explicitly.
func ensureCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
