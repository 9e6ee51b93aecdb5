package diag

import (
	"testing"

	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/testutil"
)

// TestReportJSONGolden pins the wire shape of a rendered Report against a
// checked-in fixture, so an accidental field rename or reordering in the
// JSON encoding shows up as a diff instead of silently changing downstream
// consumers (editors, CI annotators) of internal/diag's JSON output.
func TestReportJSONGolden(t *testing.T) {
	rep := New(InvalidAssignment, ir.Span{Start: ir.Pos{File: "a.py", Offset: 10}, End: ir.Pos{File: "a.py", Offset: 14}}, "expected int, got str")
	rep.Secondary = append(rep.Secondary, Annotation{
		Span:    ir.Span{Start: ir.Pos{File: "a.py", Offset: 1}, End: ir.Pos{File: "a.py", Offset: 3}},
		Message: "declared here",
	})

	testutil.CompareWithGolden(t, "diag", "invalid_assignment", rep)
}
