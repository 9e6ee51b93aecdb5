package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/tycore/internal/ids"
)

func testDB() *fakeClassDB {
	return &fakeClassDB{subclasses: map[ids.ClassID]map[ids.ClassID]bool{}}
}

type fakeClassDB struct {
	subclasses map[ids.ClassID]map[ids.ClassID]bool
	conforms   map[ids.ClassID]map[ids.ClassID]bool
}

func (f *fakeClassDB) IsSubclassOf(sub, super ids.ClassID) bool {
	if sub == super {
		return true
	}
	return f.subclasses[sub] != nil && f.subclasses[sub][super]
}

func (f *fakeClassDB) Conforms(class, protocol ids.ClassID) bool {
	return f.conforms != nil && f.conforms[class] != nil && f.conforms[class][protocol]
}

func (f *fakeClassDB) setSubclass(sub, super ids.ClassID) {
	if f.subclasses[sub] == nil {
		f.subclasses[sub] = map[ids.ClassID]bool{}
	}
	f.subclasses[sub][super] = true
}

func TestIntersectionBuilderPositiveDisjointCollapsesToNever(t *testing.T) {
	db := testDB()
	r := NewRelations(db)
	b := r.NewIntersectionBuilderWithRelations()
	b.AddPositive(IntLiteral{Value: 1}).AddPositive(IntLiteral{Value: 2})
	assert.Equal(t, TheNever, b.Build())
}

func TestIntersectionBuilderNegativeEquivalentToPositiveCollapsesToNever(t *testing.T) {
	db := testDB()
	r := NewRelations(db)
	b := r.NewIntersectionBuilderWithRelations()
	b.AddPositive(IntLiteral{Value: 1}).AddNegative(IntLiteral{Value: 1})
	assert.Equal(t, TheNever, b.Build())
}

func TestIntersectionBuilderDropsObject(t *testing.T) {
	db := testDB()
	r := NewRelations(db)
	b := r.NewIntersectionBuilderWithRelations()
	b.AddPositive(TheObject).AddPositive(IntLiteral{Value: 1})
	assert.Equal(t, IntLiteral{Value: 1}, b.Build())
}

func TestIntersectionBuilderUnwrapsNested(t *testing.T) {
	db := testDB()
	r := NewRelations(db)
	inner := r.NewIntersectionBuilderWithRelations()
	inner.AddPositive(NominalInstance{Class: ids.ClassID(1)}).AddNegative(NominalInstance{Class: ids.ClassID(2)})
	nested := inner.Build()

	outer := r.NewIntersectionBuilderWithRelations()
	outer.AddPositive(nested)
	it, ok := outer.Build().(Intersection)
	require.True(t, ok)
	assert.Len(t, it.Positive, 1)
	assert.Len(t, it.Negative, 1)
}

func TestIntersectionBuilderNoTermsIsObject(t *testing.T) {
	db := testDB()
	r := NewRelations(db)
	b := r.NewIntersectionBuilderWithRelations()
	assert.Equal(t, TheObject, b.Build())
}
