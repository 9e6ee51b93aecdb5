package typedast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/resolve"
)

func TestTableRecordExprRoundTrips(t *testing.T) {
	tbl := New()
	str := lattice.NominalInstance{Class: ids.ClassID(1)}
	tbl.RecordExpr(ids.ExprID(1), str, Qualifiers{Deferred: true})

	assert.True(t, str.Equals(tbl.ExprType(ids.ExprID(1))))
	assert.True(t, tbl.ExprQualifiers(ids.ExprID(1)).Deferred)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableExprTypeDefaultsToDynamic(t *testing.T) {
	tbl := New()
	assert.True(t, lattice.Dynamic{}.Equals(tbl.ExprType(ids.ExprID(99))))
	assert.Equal(t, Qualifiers{}, tbl.ExprQualifiers(ids.ExprID(99)))
}

func TestTableRecordDefRoundTrips(t *testing.T) {
	tbl := New()
	bind := lattice.NominalInstance{Class: ids.ClassID(2)}
	decl := lattice.NominalInstance{Class: ids.ClassID(3)}
	tbl.RecordDef(ids.DefID(1), bind, decl, Qualifiers{Boundness: resolve.PossiblyUnbound})

	assert.True(t, bind.Equals(tbl.DefBindingType(ids.DefID(1))))
	assert.True(t, decl.Equals(tbl.DefDeclarationType(ids.DefID(1))))
}

func TestTableDefTypesDefaultToDynamicWhenUnset(t *testing.T) {
	tbl := New()
	tbl.RecordDef(ids.DefID(1), nil, nil, Qualifiers{})
	assert.True(t, lattice.Dynamic{}.Equals(tbl.DefBindingType(ids.DefID(1))))
	assert.True(t, lattice.Dynamic{}.Equals(tbl.DefDeclarationType(ids.DefID(1))))
	assert.True(t, lattice.Dynamic{}.Equals(tbl.DefBindingType(ids.DefID(404))))
}

func TestTableAddDiagnosticsAccumulates(t *testing.T) {
	tbl := New()
	rep1 := diag.New(diag.UnpackLengthMismatch, ir.Span{}, "first")
	rep2 := diag.New(diag.UnpackLengthMismatch, ir.Span{}, "second")
	tbl.AddDiagnostics([]*diag.Report{rep1})
	tbl.AddDiagnostics([]*diag.Report{rep2})

	assert.Equal(t, []*diag.Report{rep1, rep2}, tbl.Diagnostics())
}

func TestTableMergeCombinesExprsDefsAndDiagnostics(t *testing.T) {
	left := New()
	left.RecordExpr(ids.ExprID(1), lattice.NominalInstance{Class: ids.ClassID(1)}, Qualifiers{})
	left.RecordDef(ids.DefID(1), lattice.NominalInstance{Class: ids.ClassID(1)}, nil, Qualifiers{})
	left.AddDiagnostics([]*diag.Report{diag.New(diag.UnpackLengthMismatch, ir.Span{}, "left")})

	right := New()
	right.RecordExpr(ids.ExprID(2), lattice.NominalInstance{Class: ids.ClassID(2)}, Qualifiers{})
	right.RecordDef(ids.DefID(2), nil, lattice.NominalInstance{Class: ids.ClassID(2)}, Qualifiers{})
	right.AddDiagnostics([]*diag.Report{diag.New(diag.UnpackLengthMismatch, ir.Span{}, "right")})

	left.Merge(right)

	assert.Equal(t, 2, left.Len())
	assert.True(t, lattice.NominalInstance{Class: ids.ClassID(2)}.Equals(left.ExprType(ids.ExprID(2))))
	assert.True(t, lattice.NominalInstance{Class: ids.ClassID(2)}.Equals(left.DefDeclarationType(ids.DefID(2))))
	assert.Len(t, left.Diagnostics(), 2)
}

func TestTableMergeOverwritesSameID(t *testing.T) {
	left := New()
	left.RecordExpr(ids.ExprID(1), lattice.NominalInstance{Class: ids.ClassID(1)}, Qualifiers{})

	right := New()
	right.RecordExpr(ids.ExprID(1), lattice.NominalInstance{Class: ids.ClassID(9)}, Qualifiers{Deferred: true})

	left.Merge(right)

	assert.True(t, lattice.NominalInstance{Class: ids.ClassID(9)}.Equals(left.ExprType(ids.ExprID(1))))
	assert.True(t, left.ExprQualifiers(ids.ExprID(1)).Deferred)
}

func TestTableMergeNilIsNoop(t *testing.T) {
	left := New()
	left.RecordExpr(ids.ExprID(1), lattice.NominalInstance{Class: ids.ClassID(1)}, Qualifiers{})
	left.Merge(nil)
	assert.Equal(t, 1, left.Len())
}
