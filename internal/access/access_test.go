package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/resolve"
)

type stubClassDB struct{}

func (stubClassDB) IsSubclassOf(sub, super ids.ClassID) bool  { return sub == super }
func (stubClassDB) Conforms(class, protocol ids.ClassID) bool { return false }

func newRel() *lattice.Relations { return lattice.NewRelations(stubClassDB{}) }

type stubLookup struct {
	typ lattice.Type
	bnd resolve.Boundness
}

func (s stubLookup) LookupDunder(class ids.ClassID, name string) (lattice.Type, resolve.Boundness) {
	return s.typ, s.bnd
}

func TestSubscriptFixedTupleLiteralIndex(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	num := lattice.NominalInstance{Class: ids.ClassID(2)}
	tup := lattice.FixedTuple(str, num)

	got, err := Subscript(tup, Key{Type: lattice.IntLiteral{Value: 1}}, nil, newRel())
	require.Nil(t, err)
	assert.True(t, num.Equals(got))
}

func TestSubscriptFixedTupleNegativeIndex(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	num := lattice.NominalInstance{Class: ids.ClassID(2)}
	tup := lattice.FixedTuple(str, num)

	got, err := Subscript(tup, Key{Type: lattice.IntLiteral{Value: -1}}, nil, newRel())
	require.Nil(t, err)
	assert.True(t, num.Equals(got))
}

func TestSubscriptFixedTupleOutOfBounds(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	tup := lattice.FixedTuple(str)

	_, err := Subscript(tup, Key{Type: lattice.IntLiteral{Value: 5}}, nil, newRel())
	require.NotNil(t, err)
	assert.Equal(t, diag.IndexOutOfBounds, err.Code)
}

func TestSubscriptFixedTupleNonLiteralUnionsMembers(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	num := lattice.NominalInstance{Class: ids.ClassID(2)}
	tup := lattice.FixedTuple(str, num)

	got, err := Subscript(tup, Key{Type: lattice.Dynamic{}}, nil, newRel())
	require.Nil(t, err)
	union, ok := got.(lattice.Union)
	require.True(t, ok)
	assert.Len(t, union.Members, 2)
}

func TestSubscriptVariadicTuplePrefix(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	num := lattice.NominalInstance{Class: ids.ClassID(2)}
	tup := lattice.VariableTuple([]lattice.Type{str}, num, nil)

	got, err := Subscript(tup, Key{Type: lattice.IntLiteral{Value: 0}}, nil, newRel())
	require.Nil(t, err)
	assert.True(t, str.Equals(got))

	got, err = Subscript(tup, Key{Type: lattice.IntLiteral{Value: 3}}, nil, newRel())
	require.Nil(t, err)
	assert.True(t, num.Equals(got))
}

func TestSubscriptTypedDictKnownField(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	schema := &lattice.TypedDictSchema{Name: "Point", Fields: []lattice.TypedDictField{
		{Name: "x", DeclaredType: str, Required: true},
	}}
	td := lattice.TypedDict{Schema: schema}

	got, err := Subscript(td, Key{Type: lattice.StringLiteral{Value: "x"}}, nil, newRel())
	require.Nil(t, err)
	assert.True(t, str.Equals(got))
}

func TestSubscriptTypedDictUnknownField(t *testing.T) {
	schema := &lattice.TypedDictSchema{Name: "Point", Fields: nil}
	td := lattice.TypedDict{Schema: schema}

	_, err := Subscript(td, Key{Type: lattice.StringLiteral{Value: "z"}}, nil, newRel())
	require.NotNil(t, err)
	assert.Equal(t, diag.InvalidKeyOnTypedDict, err.Code)
}

func TestSubscriptGenericAliasAccumulatesSpecialization(t *testing.T) {
	alias := lattice.GenericAlias{Class: ids.ClassID(9)}
	intT := lattice.NominalInstance{Class: ids.ClassID(1)}

	got, err := Subscript(alias, Key{Type: intT}, nil, newRel())
	require.Nil(t, err)
	ga, ok := got.(lattice.GenericAlias)
	require.True(t, ok)
	require.Len(t, ga.Specialization, 1)
	assert.True(t, intT.Equals(ga.Specialization[0]))
}

func TestSubscriptUnionDistributesOverMembers(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	tupA := lattice.FixedTuple(str)
	tupB := lattice.FixedTuple(str, str)
	union := lattice.Union{Members: []lattice.Type{tupA, tupB}}

	got, err := Subscript(union, Key{Type: lattice.IntLiteral{Value: 0}}, nil, newRel())
	require.Nil(t, err)
	assert.True(t, str.Equals(got))
}

func TestSubscriptUnionPartialFailureStillUnionsSuccesses(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	tup := lattice.FixedTuple(str)
	union := lattice.Union{Members: []lattice.Type{tup, lattice.Dynamic{}}}

	// Index 5 is out of bounds on the one-element tuple, but the Dynamic
	// member subscripts to Dynamic itself, so this still succeeds overall
	// with a diagnostic surfaced.
	got, err := Subscript(union, Key{Type: lattice.IntLiteral{Value: 5}}, nil, newRel())
	require.NotNil(t, err)
	assert.NotNil(t, got)
}

func TestDunderCallMissingReportsError(t *testing.T) {
	base := lattice.NominalInstance{Class: ids.ClassID(1)}
	lookup := stubLookup{typ: nil, bnd: resolve.Unbound}

	_, err := DunderCall(base, "__getitem__", nil, lookup, newRel())
	require.NotNil(t, err)
	assert.Equal(t, diag.DunderCallError, err.Code)
}

func TestDunderCallPossiblyUnboundStillReturnsValue(t *testing.T) {
	ret := lattice.NominalInstance{Class: ids.ClassID(7)}
	sig := &lattice.Signature{Return: ret}
	callable := lattice.Callable{Signature: sig}
	base := lattice.NominalInstance{Class: ids.ClassID(1)}
	lookup := stubLookup{typ: callable, bnd: resolve.PossiblyUnbound}

	got, err := DunderCall(base, "__getitem__", nil, lookup, newRel())
	require.NotNil(t, err)
	assert.Equal(t, diag.DunderPossiblyUnbound, err.Code)
	assert.True(t, ret.Equals(got))
}

func TestDunderCallBoundDispatchesAndBinds(t *testing.T) {
	ret := lattice.NominalInstance{Class: ids.ClassID(7)}
	keyT := lattice.NominalInstance{Class: ids.ClassID(3)}
	sig := &lattice.Signature{
		Params: []lattice.Param{{Name: "key", Kind: lattice.ParamPositionalOrKeyword, Type: keyT}},
		Return: ret,
	}
	callable := lattice.Callable{Signature: sig}
	base := lattice.NominalInstance{Class: ids.ClassID(1)}
	lookup := stubLookup{typ: callable, bnd: resolve.Bound}

	args := []Arg{{Kind: ArgPositional, Type: keyT}}
	got, err := DunderCall(base, "__getitem__", args, lookup, newRel())
	require.Nil(t, err)
	assert.True(t, ret.Equals(got))
}

func TestBindCallFillsDefaultsAndDetectsMissing(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	ret := lattice.NominalInstance{Class: ids.ClassID(9)}
	sig := &lattice.Signature{
		Params: []lattice.Param{
			{Name: "a", Kind: lattice.ParamPositionalOrKeyword, Type: str},
			{Name: "b", Kind: lattice.ParamPositionalOrKeyword, Type: str, HasDefault: true},
		},
		Return: ret,
	}

	got, err := BindCall(sig, []Arg{{Kind: ArgPositional, Type: str}}, newRel())
	require.Nil(t, err)
	assert.True(t, ret.Equals(got))

	_, err = BindCall(sig, nil, newRel())
	require.NotNil(t, err)
	assert.Equal(t, diag.BindingError, err.Code)
}

func TestCallTriesOverloadsInOrder(t *testing.T) {
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	num := lattice.NominalInstance{Class: ids.ClassID(2)}
	retA := lattice.NominalInstance{Class: ids.ClassID(10)}
	retB := lattice.NominalInstance{Class: ids.ClassID(11)}

	sigA := &lattice.Signature{
		Params: []lattice.Param{{Name: "x", Kind: lattice.ParamPositionalOrKeyword, Type: str}},
		Return: retA,
	}
	sigB := &lattice.Signature{
		Params: []lattice.Param{{Name: "x", Kind: lattice.ParamPositionalOrKeyword, Type: num}},
		Return: retB,
	}
	callable := lattice.Callable{Signature: sigA, Overloads: []*lattice.Signature{sigB}}

	got, err := Call(callable, []Arg{{Kind: ArgPositional, Type: num}}, newRel())
	require.Nil(t, err)
	assert.True(t, retB.Equals(got))
}
