package access

import (
	"fmt"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
)

// operatorDunders maps a binary operator spelling to its forward/reflected
// dunder method pair, the way AILANG's typechecker_operators.go
// resolves `a + b` through `type(a).__add__` falling back to
// `type(b).__radd__`.
var operatorDunders = map[string][2]string{
	"+":  {"__add__", "__radd__"},
	"-":  {"__sub__", "__rsub__"},
	"*":  {"__mul__", "__rmul__"},
	"/":  {"__truediv__", "__rtruediv__"},
	"//": {"__floordiv__", "__rfloordiv__"},
	"%":  {"__mod__", "__rmod__"},
	"**": {"__pow__", "__rpow__"},
	"@":  {"__matmul__", "__rmatmul__"},
	"&":  {"__and__", "__rand__"},
	"|":  {"__or__", "__ror__"},
	"^":  {"__xor__", "__rxor__"},
	"<<": {"__lshift__", "__rlshift__"},
	">>": {"__rshift__", "__rrshift__"},
}

// BinaryOp resolves `left op right` through the forward dunder on left's
// class, falling back to the reflected dunder on right's class if the
// forward method is unbound. An unrecognized operator spelling or a lookup
// with nothing registered for either side yields Dynamic rather than
// failing outright, since the core treats unparseable/unknown operator
// shapes the same as any other unresolvable region.
func BinaryOp(op string, left, right lattice.Type, lookup ClassLookup, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	dunders, ok := operatorDunders[op]
	if !ok {
		return lattice.Dynamic{}, nil
	}
	forward, reflected := dunders[0], dunders[1]

	ret, err := DunderCall(left, forward, []Arg{{Kind: ArgPositional, Type: right}}, lookup, rel)
	if err == nil {
		return ret, nil
	}
	if fwdErr := err; fwdErr.Code == diag.DunderCallError {
		retR, errR := DunderCall(right, reflected, []Arg{{Kind: ArgPositional, Type: left}}, lookup, rel)
		if errR == nil {
			return retR, nil
		}
		return lattice.Dynamic{}, diag.New(diag.CallNonCallable, ir.Span{},
			fmt.Sprintf("unsupported operand types for %q: %s and %s", op, left.String(), right.String()))
	}
	return ret, err
}
