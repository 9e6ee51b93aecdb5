package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/tycore/internal/ids"
)

func TestSubtypeOfObjectAndNever(t *testing.T) {
	r := NewRelations(testDB())
	assert.True(t, r.IsSubtypeOf(IntLiteral{Value: 1}, TheObject))
	assert.True(t, r.IsSubtypeOf(TheNever, IntLiteral{Value: 1}))
	assert.False(t, r.IsSubtypeOf(TheObject, IntLiteral{Value: 1}))
}

func TestSubtypeOfUnionDistributesOnTheLeft(t *testing.T) {
	r := NewRelations(testDB())
	u := UnionOf(IntLiteral{Value: 1}, IntLiteral{Value: 2})
	assert.False(t, r.IsSubtypeOf(u, NominalInstance{Class: ids.ClassID(1)}))
}

func TestSubtypeOfUnionOnTheRight(t *testing.T) {
	r := NewRelations(testDB())
	u := UnionOf(IntLiteral{Value: 1}, IntLiteral{Value: 2})
	assert.True(t, r.IsSubtypeOf(IntLiteral{Value: 1}, u))
	assert.False(t, r.IsSubtypeOf(IntLiteral{Value: 3}, u))
}

func TestSubtypeOfNominalHierarchy(t *testing.T) {
	db := testDB()
	base := ids.ClassID(1)
	derived := ids.ClassID(2)
	unrelated := ids.ClassID(3)
	db.setSubclass(derived, base)
	r := NewRelations(db)

	assert.True(t, r.IsSubtypeOf(NominalInstance{Class: derived}, NominalInstance{Class: base}))
	assert.False(t, r.IsSubtypeOf(NominalInstance{Class: base}, NominalInstance{Class: derived}))
	assert.False(t, r.IsSubtypeOf(NominalInstance{Class: unrelated}, NominalInstance{Class: base}))
}

func TestAssignableToTreatsDynamicAsConsistent(t *testing.T) {
	r := NewRelations(testDB())
	dyn := Dynamic{Kind: DynamicExplicitAny}
	assert.True(t, r.IsAssignableTo(dyn, IntLiteral{Value: 1}))
	assert.True(t, r.IsAssignableTo(IntLiteral{Value: 1}, dyn))
	// But under strict subtyping Dynamic is not a subtype of a concrete type.
	assert.False(t, r.IsSubtypeOf(dyn, IntLiteral{Value: 1}))
}

func TestEquivalentToIsSymmetricAndOrderInvariant(t *testing.T) {
	r := NewRelations(testDB())
	a := UnionOf(IntLiteral{Value: 1}, IntLiteral{Value: 2})
	b := UnionOf(IntLiteral{Value: 2}, IntLiteral{Value: 1})
	assert.True(t, r.IsEquivalentTo(a, b))
}

func TestLiteralWidensToBuiltinInstance(t *testing.T) {
	r := NewRelations(testDB())
	intClass := ids.ClassID(7)
	r.Builtins.Int = intClass
	assert.True(t, r.IsSubtypeOf(IntLiteral{Value: 1}, NominalInstance{Class: intClass}))
	assert.False(t, r.IsSubtypeOf(IntLiteral{Value: 1}, NominalInstance{Class: ids.ClassID(8)}))

	// Without Builtins configured, widening conservatively fails rather than guesses.
	r2 := NewRelations(testDB())
	assert.False(t, r2.IsSubtypeOf(IntLiteral{Value: 1}, NominalInstance{Class: intClass}))
}

func TestDisjointFromLiterals(t *testing.T) {
	r := NewRelations(testDB())
	assert.True(t, r.IsDisjointFrom(IntLiteral{Value: 1}, IntLiteral{Value: 2}))
	assert.False(t, r.IsDisjointFrom(IntLiteral{Value: 1}, IntLiteral{Value: 1}))
}

func TestDisjointFromUnrelatedNominalClasses(t *testing.T) {
	db := testDB()
	a, b := ids.ClassID(1), ids.ClassID(2)
	r := NewRelations(db)
	assert.True(t, r.IsDisjointFrom(NominalInstance{Class: a}, NominalInstance{Class: b}))

	db.setSubclass(a, b)
	assert.False(t, r.IsDisjointFrom(NominalInstance{Class: a}, NominalInstance{Class: b}))
}

func TestDisjointFromNeverDynamicAndObject(t *testing.T) {
	r := NewRelations(testDB())
	assert.True(t, r.IsDisjointFrom(TheNever, IntLiteral{Value: 1}))
	assert.False(t, r.IsDisjointFrom(Dynamic{Kind: DynamicExplicitAny}, IntLiteral{Value: 1}))
	assert.False(t, r.IsDisjointFrom(TheObject, IntLiteral{Value: 1}))
}

func TestTupleSubtypeFixedLength(t *testing.T) {
	db := testDB()
	derived, base := ids.ClassID(2), ids.ClassID(1)
	db.setSubclass(derived, base)
	r := NewRelations(db)

	a := FixedTuple(NominalInstance{Class: derived}, IntLiteral{Value: 1})
	b := FixedTuple(NominalInstance{Class: base}, NominalInstance{Class: ids.ClassID(9)})
	assert.False(t, r.IsSubtypeOf(a, b)) // second element: IntLiteral not <: unrelated class 9

	b2 := FixedTuple(NominalInstance{Class: base}, TheObject)
	assert.True(t, r.IsSubtypeOf(a, b2))
}

func TestTupleSubtypeFixedLengthMismatch(t *testing.T) {
	r := NewRelations(testDB())
	a := FixedTuple(IntLiteral{Value: 1})
	b := FixedTuple(IntLiteral{Value: 1}, IntLiteral{Value: 2})
	assert.False(t, r.IsSubtypeOf(a, b))
}

func TestTupleSubtypeFixedAgainstVariable(t *testing.T) {
	r := NewRelations(testDB())
	a := FixedTuple(IntLiteral{Value: 1}, IntLiteral{Value: 2}, IntLiteral{Value: 3})
	b := VariableTuple([]Type{TheObject}, TheObject, nil)
	assert.True(t, r.IsSubtypeOf(a, b))
}

func TestCallableSubtypeContravariantParamsCovariantReturn(t *testing.T) {
	db := testDB()
	animal, dog := ids.ClassID(1), ids.ClassID(2)
	db.setSubclass(dog, animal)
	r := NewRelations(db)

	// f(animal) -> dog  should be a subtype of  g(dog) -> animal
	f := Callable{Signature: &Signature{
		Params: []Param{{Name: "x", Type: NominalInstance{Class: animal}, Kind: ParamPositionalOrKeyword}},
		Return: NominalInstance{Class: dog},
	}}
	g := Callable{Signature: &Signature{
		Params: []Param{{Name: "x", Type: NominalInstance{Class: dog}, Kind: ParamPositionalOrKeyword}},
		Return: NominalInstance{Class: animal},
	}}
	assert.True(t, r.IsSubtypeOf(f, g))
	assert.False(t, r.IsSubtypeOf(g, f))
}

func TestTypedDictSubtypeRequiredMutableField(t *testing.T) {
	r := NewRelations(testDB())
	src := &TypedDictSchema{Name: "Src", Fields: []TypedDictField{
		{Name: "x", DeclaredType: IntLiteral{Value: 1}, Required: true},
	}}
	dst := &TypedDictSchema{Name: "Dst", Fields: []TypedDictField{
		{Name: "x", DeclaredType: IntLiteral{Value: 1}, Required: true},
	}}
	ok, _ := TypedDictSubtype(src, dst, r.IsSubtypeOf)
	assert.True(t, ok)

	dst2 := &TypedDictSchema{Name: "Dst2", Fields: []TypedDictField{
		{Name: "x", DeclaredType: IntLiteral{Value: 2}, Required: true},
	}}
	ok2, _ := TypedDictSubtype(src, dst2, r.IsSubtypeOf)
	assert.False(t, ok2)
}

func TestTypedDictSubtypeNotRequiredReadOnlyAbsentField(t *testing.T) {
	r := NewRelations(testDB())
	src := &TypedDictSchema{Name: "Src"}
	dst := &TypedDictSchema{Name: "Dst", Fields: []TypedDictField{
		{Name: "y", DeclaredType: TheObject, Required: false, ReadOnly: true},
	}}
	ok, _ := TypedDictSubtype(src, dst, r.IsSubtypeOf)
	assert.True(t, ok, "absent NotRequired ReadOnly field succeeds only when target type accepts anything")
}
