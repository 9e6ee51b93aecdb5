package access

import (
	"fmt"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/resolve"
)

// ClassLookup resolves a dunder method on a class through its metaclass
//, reporting a boundness distinct
// from ordinary place resolution so a possibly-missing dunder can be
// flagged with its own diagnostic code rather than reusing the place
// resolver's possibly-unbound-place wording.
type ClassLookup interface {
	LookupDunder(class ids.ClassID, name string) (lattice.Type, resolve.Boundness)
}

func classOf(base lattice.Type) (ids.ClassID, bool) {
	switch t := base.(type) {
	case lattice.NominalInstance:
		return t.Class, true
	case lattice.ProtocolInstance:
		return t.Protocol, true
	default:
		return 0, false
	}
}

// DunderCall looks up and invokes a dunder method (`__getitem__`,
// `__class_getitem__`, etc.) on base, producing the distinct
// DunderPossiblyUnbound diagnostic when the method exists on
// some but not all paths reaching base's class, and DunderCallError when it
// doesn't exist at all.
func DunderCall(base lattice.Type, name string, args []Arg, lookup ClassLookup, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	class, ok := classOf(base)
	if !ok {
		return lattice.TheObject, nil
	}
	typ, bnd := lookup.LookupDunder(class, name)
	if bnd == resolve.Unbound {
		return lattice.Dynamic{}, diag.New(diag.DunderCallError, ir.Span{},
			fmt.Sprintf("%s has no %s method", base.String(), name))
	}

	callable, ok := typ.(lattice.Callable)
	if !ok {
		return lattice.Dynamic{}, diag.New(diag.CallNonCallable, ir.Span{},
			fmt.Sprintf("%s.%s is not callable", base.String(), name))
	}

	ret, err := Call(callable, args, rel)
	if err != nil {
		return ret, err
	}
	if bnd == resolve.PossiblyUnbound {
		return ret, diag.New(diag.DunderPossiblyUnbound, ir.Span{},
			fmt.Sprintf("%s may not define %s on every path", base.String(), name))
	}
	return ret, nil
}
