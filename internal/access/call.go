package access

import (
	"fmt"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
)

// ArgKind distinguishes how one call argument was supplied: positional,
// keyword, *args spread, or **kwargs spread.
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgKeyword
	ArgStar       // *args spread — unknown arity, absorbed conservatively
	ArgDoubleStar // **kwargs spread
)

// Arg is one argument at a call site, reduced to its static type.
type Arg struct {
	Kind ArgKind
	Name string // set for ArgKeyword
	Type lattice.Type
}

func hasParamKind(params []lattice.Param, kind lattice.ParamKind) bool {
	for _, p := range params {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// BindCall checks args against one signature: fill positional-or-keyword
// params from positional args first, then by name;
// keyword-only params only by name; *args/**kwargs spreads are absorbed
// without per-element checking, since their element count isn't known
// statically; any named param left unfilled without a default is a binding
// error, as is an unconsumed positional or keyword argument with nowhere to
// go.
func BindCall(sig *lattice.Signature, args []Arg, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	var positional []Arg
	keyword := make(map[string]Arg)
	hasStar, hasDoubleStar := false, false
	for _, a := range args {
		switch a.Kind {
		case ArgPositional:
			positional = append(positional, a)
		case ArgKeyword:
			keyword[a.Name] = a
		case ArgStar:
			hasStar = true
		case ArgDoubleStar:
			hasDoubleStar = true
		}
	}

	pi := 0
	for _, p := range sig.Params {
		switch p.Kind {
		case lattice.ParamPositionalOnly, lattice.ParamPositionalOrKeyword:
			if pi < len(positional) {
				if !rel.IsAssignableTo(positional[pi].Type, p.Type) {
					return nil, argTypeError(p, positional[pi].Type)
				}
				pi++
				continue
			}
			if p.Kind == lattice.ParamPositionalOrKeyword {
				if a, ok := keyword[p.Name]; ok {
					delete(keyword, p.Name)
					if !rel.IsAssignableTo(a.Type, p.Type) {
						return nil, argTypeError(p, a.Type)
					}
					continue
				}
			}
			if hasStar || p.HasDefault {
				continue
			}
			return nil, missingArgError(p)

		case lattice.ParamKeywordOnly:
			if a, ok := keyword[p.Name]; ok {
				delete(keyword, p.Name)
				if !rel.IsAssignableTo(a.Type, p.Type) {
					return nil, argTypeError(p, a.Type)
				}
				continue
			}
			if hasDoubleStar || p.HasDefault {
				continue
			}
			return nil, missingArgError(p)

		case lattice.ParamVarArgs, lattice.ParamKwArgs:
			// Absorbs whatever remains; validated at the call site only by
			// the caller having already matched what it could name.
		}
	}

	if pi < len(positional) && !hasParamKind(sig.Params, lattice.ParamVarArgs) {
		return nil, diag.New(diag.BindingError, ir.Span{}, "too many positional arguments")
	}
	if len(keyword) > 0 && !hasDoubleStar && !hasParamKind(sig.Params, lattice.ParamKwArgs) {
		for name := range keyword {
			return nil, diag.New(diag.BindingError, ir.Span{}, fmt.Sprintf("unexpected keyword argument %q", name))
		}
	}
	return sig.Return, nil
}

func argTypeError(p lattice.Param, got lattice.Type) *diag.Report {
	return diag.New(diag.InvalidArgumentType, ir.Span{},
		fmt.Sprintf("argument %q expects %s, got %s", p.Name, p.Type.String(), got.String()))
}

func missingArgError(p lattice.Param) *diag.Report {
	return diag.New(diag.BindingError, ir.Span{}, fmt.Sprintf("missing required argument %q", p.Name))
}

// Call resolves a (possibly overloaded) Callable against args, trying each
// signature in declaration order and returning the first one that binds
//. If every overload
// fails, the last overload's diagnostic is reported — matching the
// intuition that the last-declared overload is usually the most general
// fallback.
func Call(c lattice.Callable, args []Arg, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	var lastErr *diag.Report
	for _, sig := range c.AllSignatures() {
		ret, err := BindCall(sig, args, rel)
		if err == nil {
			return ret, nil
		}
		lastErr = err
	}
	return lattice.Dynamic{}, lastErr
}
