// Package resolve implements the place resolver: combining a
// place's from-bindings type (what the narrowing/use-def analysis says
// reaches a use) with its from-declarations type (an explicit annotation),
// computing boundness, and resolving the fallback chains that get a place
// from a name to a concrete module/global/builtin binding. Grounded on
// AILANG's internal/types/unification.go Unify-then-prefer-annotation
// idiom (generalized here to "combine binding-inferred and declared types"
// instead of "combine inferred and annotated type variables"), generalized
// further to the cross-scope/builtins/stub-reexport fallback chain a
// gradual type checker's symbol resolver needs.
package resolve

import (
	"fmt"
	"strings"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/place"
)

// Boundness is the result of asking whether a place is definitely,
// possibly, or never bound at a use.
type Boundness int

const (
	Bound Boundness = iota
	PossiblyUnbound
	Unbound
)

func (b Boundness) String() string {
	switch b {
	case Bound:
		return "bound"
	case PossiblyUnbound:
		return "possibly-unbound"
	default:
		return "unbound"
	}
}

// Resolver answers place-resolution queries against one file's scope tree.
type Resolver struct {
	tree *place.ScopeTree
	rel  *lattice.Relations
}

// New creates a Resolver over tree, using rel for assignability checks
// between bindings-inferred and declared types.
func New(tree *place.ScopeTree, rel *lattice.Relations) *Resolver {
	return &Resolver{tree: tree, rel: rel}
}

// FromBindings computes the union type and boundness reaching a use from
// its live definitions. typesByDef gives
// each definition's contribution type (after narrowing has already been
// applied by the caller); implicitByDef marks the synthetic "start of
// scope, not yet bound" definition any place without a guaranteed prior
// binding carries.
func FromBindings(live []place.LiveDefinition, typesByDef map[ids.DefID]lattice.Type, implicitByDef map[ids.DefID]bool) (lattice.Type, Boundness) {
	b := lattice.NewUnionBuilder()
	sawImplicit, sawReal := false, false
	for _, ld := range live {
		t, ok := typesByDef[ld.Def]
		if !ok {
			continue
		}
		b.Add(t)
		if implicitByDef[ld.Def] {
			sawImplicit = true
		} else {
			sawReal = true
		}
	}
	switch {
	case sawImplicit && sawReal:
		return b.Build(), PossiblyUnbound
	case sawImplicit && !sawReal:
		return b.Build(), Unbound
	default:
		return b.Build(), Bound
	}
}

// FromDeclarations computes the declared type for a place from its
// annotation definitions: the union
// of every reaching declaration's annotated type. Declarations don't
// contribute boundness — a declaration alone (`x: int` with no assignment)
// never makes a place bound.
func FromDeclarations(declTypes []lattice.Type) lattice.Type {
	return lattice.UnionOf(declTypes...)
}

// Combine merges a from-bindings result with an optional from-declarations
// result, following a four-step combination rule:
//  1. No declaration reaches the use: the bindings result is authoritative.
//  2. A declaration reaches the use and the bindings type is assignable to
//     it: the declaration's type is authoritative (narrower, or equal,
//     static information always wins over inferred).
//  3. A declaration reaches the use but the bindings type is NOT assignable
//     to it: the declaration still wins (it's what static analysis downstream
//     trusts), but an InvalidAssignment diagnostic is emitted pointing at
//     the use.
//  4. Boundness always comes from the bindings result, never the
//     declaration — declaring a name doesn't bind it.
func (r *Resolver) Combine(span ir.Span, bindingsType lattice.Type, boundness Boundness, declaredType lattice.Type, hasDeclaration bool) (lattice.Type, Boundness, *diag.Report) {
	if !hasDeclaration {
		return bindingsType, boundness, nil
	}
	if r.rel.IsAssignableTo(bindingsType, declaredType) {
		return declaredType, boundness, nil
	}
	rep := diag.New(diag.InvalidAssignment, span,
		fmt.Sprintf("type %q is not assignable to declared type %q", bindingsType.String(), declaredType.String()))
	return declaredType, boundness, rep
}

// GlobalPlace resolves a bare name against the module root scope's place
// table, the target of a `global x` declaration.
func (r *Resolver) GlobalPlace(name string) (ids.PlaceID, bool) {
	tbl := r.tree.Table(r.tree.Root())
	return tbl.Lookup(name)
}

// NonlocalPlace resolves name against the nearest enclosing function scope
// that binds it, walking outward from scope — the target of a `nonlocal x`
// declaration.
func (r *Resolver) NonlocalPlace(scope ids.ScopeID, name string) (ids.PlaceID, ids.ScopeID, bool) {
	for _, anc := range r.tree.EnclosingFunctionScopes(scope) {
		tbl := r.tree.Table(anc)
		if id, ok := tbl.Lookup(name); ok && tbl.Get(id).Flags.Bound {
			return id, anc, true
		}
	}
	return 0, ids.NoScope, false
}

// ModuleAttrPlace resolves `module.attr` against the module's own place
// table, falling back to Object when the attribute was never recorded
// there — e.g. the module is only partially analyzed, or the attribute is
// dynamically assigned.
func (r *Resolver) ModuleAttrPlace(moduleTable *place.Table, attr string) (ids.PlaceID, lattice.Type) {
	if id, ok := moduleTable.Lookup(attr); ok {
		return id, nil
	}
	return 0, lattice.TheObject
}

// stubReexported reports whether name is visible through a stub module's
// re-export surface. When explicitAll is non-nil, exactly the names it lists
// are exported. Otherwise names starting with an underscore are private,
// except dunder names, and names without a leading underscore are exported.
func stubReexported(name string, explicitAll map[string]bool) bool {
	if explicitAll != nil {
		return explicitAll[name]
	}
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return true
	}
	return !strings.HasPrefix(name, "_")
}

// ImportedPlace resolves `name` imported from a module, applying stub
// re-export filtering when the source is a `.pyi` stub. explicitAll, if
// non-nil, is the module's `__all__` list; when nil, the underscore-prefix
// convention applies instead.
func (r *Resolver) ImportedPlace(moduleTable *place.Table, name string, isStub bool, explicitAll map[string]bool) (ids.PlaceID, bool) {
	id, ok := moduleTable.Lookup(name)
	if !ok {
		return 0, false
	}
	if isStub && !stubReexported(name, explicitAll) {
		return 0, false
	}
	return id, true
}

// BuiltinsPlace resolves a bare name against the builtins module's place
// table, the last link in the fallback chain after local/global lookup
// fails: only the
// builtins module's own top-level symbols are visible, never anything the
// builtins module itself imports.
func (r *Resolver) BuiltinsPlace(builtinsTable *place.Table, name string) (ids.PlaceID, bool) {
	for _, p := range builtinsTable.Symbols() {
		if p.Root == name {
			return p.ID, true
		}
	}
	return 0, false
}

// KnownModulePlace resolves a dotted module path (e.g. `os.path`) against a
// registry of known modules' place tables, the target of `import os.path`.
func (r *Resolver) KnownModulePlace(modules map[string]*place.Table, dottedPath string) (*place.Table, bool) {
	tbl, ok := modules[dottedPath]
	return tbl, ok
}
