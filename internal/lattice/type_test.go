package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/tycore/internal/ids"
)

func TestPrimitiveStrings(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		expected string
	}{
		{"Never", TheNever, "Never"},
		{"Object", TheObject, "object"},
		{"AlwaysTruthy", TheAlwaysTruthy, "AlwaysTruthy"},
		{"AlwaysFalsy", TheAlwaysFalsy, "AlwaysFalsy"},
		{"LiteralString", TheLiteralString, "LiteralString"},
		{"IntLiteral", IntLiteral{Value: 3}, "Literal[3]"},
		{"BooleanLiteral", BooleanLiteral{Value: true}, "Literal[true]"},
		{"StringLiteral", StringLiteral{Value: "x"}, `Literal["x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typ.String())
		})
	}
}

func TestEqualsDistinguishesDynamicKind(t *testing.T) {
	// Different DynamicKind values must compare unequal under Equals, but
	// two Dynamic values of the SAME kind must compare equal.
	a := Dynamic{Kind: DynamicExplicitAny}
	b := Dynamic{Kind: DynamicExplicitAny}
	c := Dynamic{Kind: DynamicUnresolvedImport}
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestUnionSingletonCollapses(t *testing.T) {
	got := UnionOf(IntLiteral{Value: 1})
	assert.Equal(t, IntLiteral{Value: 1}, got)
}

func TestUnionEmptyIsNever(t *testing.T) {
	got := UnionOf()
	assert.Equal(t, TheNever, got)
}

func TestUnionObjectShortCircuits(t *testing.T) {
	got := UnionOf(IntLiteral{Value: 1}, TheObject, StringLiteral{Value: "a"})
	assert.Equal(t, TheObject, got)
}

func TestUnionDropsNever(t *testing.T) {
	got := UnionOf(TheNever, IntLiteral{Value: 1})
	assert.Equal(t, IntLiteral{Value: 1}, got)
}

func TestUnionDedupesAndUnwrapsNested(t *testing.T) {
	inner := UnionOf(IntLiteral{Value: 1}, IntLiteral{Value: 2})
	outer := UnionOf(inner, IntLiteral{Value: 2}, IntLiteral{Value: 3})
	u, ok := outer.(Union)
	require.True(t, ok)
	assert.Len(t, u.Members, 3)
}

func TestUnionPermutationInvarianceUnderEquals(t *testing.T) {
	a := UnionOf(IntLiteral{Value: 1}, StringLiteral{Value: "x"}, BooleanLiteral{Value: true})
	b := UnionOf(BooleanLiteral{Value: true}, IntLiteral{Value: 1}, StringLiteral{Value: "x"})
	assert.True(t, a.Equals(b), "union built from a permutation of the same inputs must be Equals-equal")
}

func TestClassLiteralAndGenericAliasEquals(t *testing.T) {
	c1 := ClassLiteral{Class: ids.ClassID(1)}
	c2 := ClassLiteral{Class: ids.ClassID(1)}
	c3 := ClassLiteral{Class: ids.ClassID(2)}
	assert.True(t, c1.Equals(c2))
	assert.False(t, c1.Equals(c3))

	g1 := GenericAlias{Class: ids.ClassID(1), Specialization: []Type{IntLiteral{Value: 1}}}
	g2 := GenericAlias{Class: ids.ClassID(1), Specialization: []Type{IntLiteral{Value: 1}}}
	g3 := GenericAlias{Class: ids.ClassID(1), Specialization: []Type{IntLiteral{Value: 2}}}
	assert.True(t, g1.Equals(g2))
	assert.False(t, g1.Equals(g3))
}

func TestInternerFreshTypeVarsAreDistinct(t *testing.T) {
	in := NewInterner()
	a := in.FreshTypeVar("T", nil)
	b := in.FreshTypeVar("T", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, Star, a.VKind)
}

func TestInternerFreshDivergentTokensAreDistinct(t *testing.T) {
	in := NewInterner()
	a := in.FreshDivergent()
	b := in.FreshDivergent()
	assert.NotEqual(t, a.Token, b.Token)
}
