package place

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/tycore/internal/ids"
)

func TestAddSymbolIsIdempotent(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	a := tbl.AddSymbol("x")
	b := tbl.AddSymbol("x")
	assert.Equal(t, a, b)
	assert.Equal(t, 1, tbl.Len())
}

func TestAddAttributeBuildsPath(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	self := tbl.AddSymbol("self")
	attr := tbl.AddAttribute(self, "name")

	got := tbl.Get(attr)
	require.NotNil(t, got)
	assert.Equal(t, "self.name", got.Path)
	assert.Equal(t, self, got.Parent)

	again := tbl.AddAttribute(self, "name")
	assert.Equal(t, attr, again)
}

func TestLookupByPath(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	self := tbl.AddSymbol("self")
	tbl.AddAttribute(self, "value")

	id, ok := tbl.Lookup("self.value")
	require.True(t, ok)
	assert.Equal(t, "self.value", tbl.Get(id).Path)

	_, ok = tbl.Lookup("self.missing")
	assert.False(t, ok)
}

func TestIntAndStrSubscriptPaths(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	xs := tbl.AddSymbol("xs")
	first := tbl.AddIntSubscript(xs, 0)
	neg := tbl.AddIntSubscript(xs, -1)
	d := tbl.AddSymbol("d")
	key := tbl.AddStrSubscript(d, "k")

	assert.Equal(t, "xs[0]", tbl.Get(first).Path)
	assert.Equal(t, "xs[-1]", tbl.Get(neg).Path)
	assert.Equal(t, `d["k"]`, tbl.Get(key).Path)
}

func TestSymbolsViewExcludesNestedPaths(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	self := tbl.AddSymbol("self")
	tbl.AddAttribute(self, "name")
	tbl.AddSymbol("y")

	syms := tbl.Symbols()
	var names []string
	for _, p := range syms {
		names = append(names, p.Root)
	}
	assert.ElementsMatch(t, []string{"self", "y"}, names)
}

func TestInstanceAttributesView(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	self := tbl.AddSymbol("self")
	nameAttr := tbl.AddAttribute(self, "name")
	tbl.AddAttribute(self, "hidden")
	tbl.MarkInstanceAttribute(nameAttr)

	attrs := tbl.InstanceAttributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "self.name", attrs[0].Path)
}

func TestFlagMarking(t *testing.T) {
	tbl := NewTable(ids.ScopeID(1))
	x := tbl.AddSymbol("x")
	tbl.MarkBound(x)
	tbl.MarkUsed(x)
	tbl.MarkDeclared(x)
	tbl.MarkGlobal(x)
	tbl.MarkNonlocal(x)

	f := tbl.Get(x).Flags
	assert.True(t, f.Bound)
	assert.True(t, f.Used)
	assert.True(t, f.Declared)
	assert.True(t, f.MarkedGlobal)
	assert.True(t, f.MarkedNonlocal)
}

func TestScopeTreeAncestorsAndGenerator(t *testing.T) {
	tree := NewScopeTree()
	root := tree.Root()
	fn := tree.AddScope(root, ScopeFunction, "outer")
	inner := tree.AddScope(fn, ScopeFunction, "inner")

	chain := tree.Ancestors(inner)
	assert.Equal(t, []ids.ScopeID{inner, fn, root}, chain)

	tree.MarkGenerator(inner)
	assert.True(t, tree.IsGenerator(inner))
	assert.False(t, tree.IsGenerator(fn))
}

func TestScopeTreeMethodDetection(t *testing.T) {
	tree := NewScopeTree()
	root := tree.Root()
	cls := tree.AddScope(root, ScopeClass, "C")
	method := tree.AddScope(cls, ScopeFunction, "m")
	free := tree.AddScope(root, ScopeFunction, "f")

	assert.True(t, tree.Scope(method).IsMethod)
	assert.False(t, tree.Scope(free).IsMethod)
}

func TestUseDefMapRecordsInOrder(t *testing.T) {
	m := NewUseDefMap()
	use := ids.ExprID(10)
	m.Record(use, LiveDefinition{Def: ids.DefID(1)})
	m.Record(use, LiveDefinition{Def: ids.DefID(2)})

	live := m.LiveAt(use)
	require.Len(t, live, 2)
	assert.Equal(t, ids.DefID(1), live[0].Def)
	assert.Equal(t, ids.DefID(2), live[1].Def)
}
