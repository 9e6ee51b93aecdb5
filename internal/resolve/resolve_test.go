package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/place"
)

type stubClassDB struct{}

func (stubClassDB) IsSubclassOf(sub, super ids.ClassID) bool { return sub == super }
func (stubClassDB) Conforms(class, protocol ids.ClassID) bool { return false }

func TestFromBindingsAllRealIsBound(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	live := []place.LiveDefinition{{Def: ids.DefID(1)}}
	typ, bnd := FromBindings(live, map[ids.DefID]lattice.Type{ids.DefID(1): str}, nil)
	assert.Equal(t, Bound, bnd)
	assert.True(t, str.Equals(typ))
}

func TestFromBindingsMixedIsPossiblyUnbound(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	live := []place.LiveDefinition{{Def: ids.DefID(1)}, {Def: ids.DefID(2)}}
	typesByDef := map[ids.DefID]lattice.Type{ids.DefID(1): str, ids.DefID(2): lattice.Dynamic{}}
	_, bnd := FromBindings(live, typesByDef, map[ids.DefID]bool{ids.DefID(2): true})
	assert.Equal(t, PossiblyUnbound, bnd)
}

func TestFromBindingsAllImplicitIsUnbound(t *testing.T) {
	live := []place.LiveDefinition{{Def: ids.DefID(1)}}
	typesByDef := map[ids.DefID]lattice.Type{ids.DefID(1): lattice.Dynamic{}}
	_, bnd := FromBindings(live, typesByDef, map[ids.DefID]bool{ids.DefID(1): true})
	assert.Equal(t, Unbound, bnd)
}

func TestCombinePrefersDeclarationWhenAssignable(t *testing.T) {
	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	union := lattice.UnionOf(str, lattice.NominalInstance{Class: ids.ClassID(2)})

	typ, bnd, rep := r.Combine(ir.Span{}, str, Bound, union, true)
	assert.Nil(t, rep)
	assert.Equal(t, Bound, bnd)
	assert.True(t, union.Equals(typ))
}

func TestCombineFlagsInvalidAssignment(t *testing.T) {
	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	other := lattice.NominalInstance{Class: ids.ClassID(2)}

	_, _, rep := r.Combine(ir.Span{}, str, Bound, other, true)
	require.NotNil(t, rep)
	assert.Equal(t, "invalid-assignment", string(rep.Code))
}

func TestCombineNoDeclarationKeepsBindings(t *testing.T) {
	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	typ, bnd, rep := r.Combine(ir.Span{}, str, PossiblyUnbound, nil, false)
	assert.Nil(t, rep)
	assert.Equal(t, PossiblyUnbound, bnd)
	assert.True(t, str.Equals(typ))
}

func TestGlobalPlaceLooksUpModuleRoot(t *testing.T) {
	tree := place.NewScopeTree()
	root := tree.Root()
	rootTbl := tree.Table(root)
	x := rootTbl.AddSymbol("x")
	rootTbl.MarkBound(x)

	r := New(tree, lattice.NewRelations(stubClassDB{}))
	id, ok := r.GlobalPlace("x")
	require.True(t, ok)
	assert.Equal(t, x, id)

	_, ok = r.GlobalPlace("missing")
	assert.False(t, ok)
}

func TestImportedPlaceFiltersPrivateStubNames(t *testing.T) {
	modTbl := place.NewTable(ids.ScopeID(1))
	pub := modTbl.AddSymbol("public_fn")
	modTbl.AddSymbol("_private_fn")

	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	id, ok := r.ImportedPlace(modTbl, "public_fn", true, nil)
	require.True(t, ok)
	assert.Equal(t, pub, id)

	_, ok = r.ImportedPlace(modTbl, "_private_fn", true, nil)
	assert.False(t, ok)

	// Non-stub modules don't filter by underscore convention.
	_, ok = r.ImportedPlace(modTbl, "_private_fn", false, nil)
	assert.True(t, ok)
}

func TestImportedPlaceRespectsExplicitAll(t *testing.T) {
	modTbl := place.NewTable(ids.ScopeID(1))
	modTbl.AddSymbol("a")
	modTbl.AddSymbol("b")

	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	all := map[string]bool{"a": true}

	_, ok := r.ImportedPlace(modTbl, "a", true, all)
	assert.True(t, ok)
	_, ok = r.ImportedPlace(modTbl, "b", true, all)
	assert.False(t, ok)
}

func TestBuiltinsPlaceOnlyTopLevel(t *testing.T) {
	builtins := place.NewTable(ids.ScopeID(1))
	builtins.AddSymbol("len")

	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	_, ok := r.BuiltinsPlace(builtins, "len")
	assert.True(t, ok)
	_, ok = r.BuiltinsPlace(builtins, "nonexistent")
	assert.False(t, ok)
}

func TestModuleAttrPlaceFallsBackToObject(t *testing.T) {
	modTbl := place.NewTable(ids.ScopeID(1))
	modTbl.AddSymbol("known")

	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	_, fallback := r.ModuleAttrPlace(modTbl, "unknown")
	assert.True(t, lattice.TheObject.Equals(fallback))

	id, fallback2 := r.ModuleAttrPlace(modTbl, "known")
	assert.Nil(t, fallback2)
	assert.NotZero(t, id)
}

func TestKnownModulePlace(t *testing.T) {
	osPath := place.NewTable(ids.ScopeID(1))
	modules := map[string]*place.Table{"os.path": osPath}

	r := New(place.NewScopeTree(), lattice.NewRelations(stubClassDB{}))
	tbl, ok := r.KnownModulePlace(modules, "os.path")
	require.True(t, ok)
	assert.Same(t, osPath, tbl)

	_, ok = r.KnownModulePlace(modules, "sys")
	assert.False(t, ok)
}
