package narrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/reach"
)

type stubClassDB struct{}

func (stubClassDB) IsSubclassOf(sub, super ids.ClassID) bool { return sub == super }
func (stubClassDB) Conforms(class, protocol ids.ClassID) bool { return false }

func newEngine() (*Engine, *reach.Arena) {
	rel := lattice.NewRelations(stubClassDB{})
	arena := reach.NewArena()
	return New(rel, arena), arena
}

func TestIsInstanceNarrowsBothBranches(t *testing.T) {
	e, _ := newEngine()
	klass := lattice.NominalInstance{Class: ids.ClassID(1)}
	pair := e.IsInstance(ids.PredicateID(1), klass)

	union := lattice.UnionOf(klass, lattice.NominalInstance{Class: ids.ClassID(2)})
	pos := pair.Positive(union)
	neg := pair.Negative(union)

	assert.True(t, klass.Equals(pos))
	assert.False(t, lattice.NominalInstance{Class: ids.ClassID(2)}.Equals(pos))
	assert.False(t, klass.Equals(neg))
}

func TestIsSingletonNarrows(t *testing.T) {
	e, _ := newEngine()
	none := lattice.NominalInstance{Class: ids.ClassID(9)}
	other := lattice.NominalInstance{Class: ids.ClassID(1)}
	union := lattice.UnionOf(none, other)

	pair := e.IsSingleton(ids.PredicateID(1), none)
	assert.True(t, none.Equals(pair.Positive(union)))
	assert.False(t, none.Equals(pair.Negative(union)))
}

func TestTruthyRemovesFalsy(t *testing.T) {
	// AlwaysFalsy{} is not proven disjoint from an arbitrary nominal instance
	// (the class might define __bool__), so the narrowing conservatively
	// keeps `str & ~AlwaysFalsy` rather than dropping AlwaysFalsy outright —
	// but the AlwaysFalsy member itself, being exactly the target, is
	// dropped.
	e, _ := newEngine()
	str := lattice.NominalInstance{Class: ids.ClassID(3)}
	union := lattice.UnionOf(str, lattice.AlwaysFalsy{})

	pair := e.Truthy(ids.PredicateID(1))
	pos := pair.Positive(union)

	inter, ok := pos.(lattice.Intersection)
	require.True(t, ok, "expected %v to narrow to an intersection, got %v", union, pos)
	require.Len(t, inter.Positive, 1)
	assert.True(t, str.Equals(inter.Positive[0]))
	require.Len(t, inter.Negative, 1)
	assert.True(t, lattice.AlwaysFalsy{}.Equals(inter.Negative[0]))
}

func TestInContainerNarrows(t *testing.T) {
	e, _ := newEngine()
	a := lattice.StringLiteral{Value: "a"}
	b := lattice.StringLiteral{Value: "b"}
	c := lattice.StringLiteral{Value: "c"}
	union := lattice.UnionOf(a, b, c)

	pair := e.InContainer(ids.PredicateID(1), []lattice.Type{a, b})
	pos := pair.Positive(union)
	assert.True(t, lattice.UnionOf(a, b).Equals(pos))
}

func TestAndCombinesPositiveBranches(t *testing.T) {
	// Chaining `if x and isinstance(x, Other)` applies the truthy narrowing
	// first, then isinstance on its result: the combination must be a
	// subtype of Other and must no longer admit Str, whatever intersection
	// shape the builder settles on.
	e, arena := newEngine()
	str := lattice.NominalInstance{Class: ids.ClassID(3)}
	other := lattice.NominalInstance{Class: ids.ClassID(1)}
	union := lattice.UnionOf(str, other, lattice.AlwaysFalsy{})

	truthy := e.Truthy(ids.PredicateID(1))
	isOther := e.IsInstance(ids.PredicateID(2), other)
	combined := And(truthy, isOther, arena)

	pos := combined.Positive(union)
	assert.True(t, e.rel.IsSubtypeOf(pos, other))
	assert.False(t, e.rel.IsSubtypeOf(str, pos))
}

func TestMultiComparatorIsIdentity(t *testing.T) {
	_, arena := newEngine()
	pair := MultiComparator(ids.PredicateID(1), arena)
	str := lattice.NominalInstance{Class: ids.ClassID(3)}
	require.True(t, str.Equals(pair.Positive(str)))
	require.True(t, str.Equals(pair.Negative(str)))
}
