// Package access implements call binding and subscript access:
// argument binding against Signature/Callable, `obj[key]` distribution over
// Union/Tuple/TypedDict/GenericAlias, and the metaclass-routed dunder
// fallback (`__getitem__`, `__class_getitem__`) for everything else.
// Grounded on AILANG's internal/types/unification.go type-switch dispatch
// idiom, generalized from unification cases to access cases.
package access

import (
	"fmt"

	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
)

// Key is a subscript key reduced to what static indexing needs: either a
// literal value (for tuple/TypedDict specialization) or just a static type
// (everything else falls through to __getitem__).
type Key struct {
	Type    lattice.Type
	IsSlice bool
	Slice   lattice.SliceLiteral
}

// Subscript evaluates `base[key]`, trying the
// static cases - Union distribution, tuple/TypedDict literal indexing,
// generic specialization - before falling back to a `__getitem__` dunder
// call through lookup.
func Subscript(base lattice.Type, key Key, lookup ClassLookup, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	switch b := base.(type) {
	case lattice.Union:
		return subscriptUnion(b, key, lookup, rel)

	case lattice.Tuple:
		return subscriptTuple(b, key, lookup, rel)

	case lattice.TypedDict:
		return subscriptTypedDict(b, key)

	case lattice.GenericAlias:
		return specializeGeneric(b, key)

	case lattice.ClassLiteral:
		// A bare (non-generic) class used with a subscript is only valid if
		// it's being specialized as a generic - there is no arity to check
		// against here, so accept any key and report the class as specialized
		// with one more argument than previously known.
		return lattice.GenericAlias{Class: b.Class, Specialization: []lattice.Type{key.Type}}, nil

	case lattice.Dynamic, lattice.Divergent, lattice.Todo:
		return base, nil

	default:
		return DunderCall(base, "__getitem__", []Arg{{Kind: ArgPositional, Type: key.Type}}, lookup, rel)
	}
}

// subscriptUnion distributes a subscript over every union member: the
// element results are unioned, and any
// per-member failure downgrades the whole access to possibly-not-subscriptable
// rather than failing outright, since other members may still succeed.
func subscriptUnion(u lattice.Union, key Key, lookup ClassLookup, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	builder := lattice.NewUnionBuilder()
	var firstErr *diag.Report
	anyOK := false
	for _, m := range u.Members {
		res, err := Subscript(m, key, lookup, rel)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		anyOK = true
		builder.Add(res)
	}
	if !anyOK {
		return lattice.Dynamic{}, firstErr
	}
	if firstErr != nil {
		return builder.Build(), diag.New(diag.PossiblyMissingImplicitCall, ir.Span{},
			"subscript is not valid on every union member")
	}
	return builder.Build(), nil
}

// subscriptTuple indexes a literal int key statically against a fixed tuple,
// and otherwise unions the variadic/element types a non-literal or
// out-of-range index could land on.
func subscriptTuple(t lattice.Tuple, key Key, lookup ClassLookup, rel *lattice.Relations) (lattice.Type, *diag.Report) {
	if key.IsSlice {
		return lattice.Tuple{Spec: t.Spec}, nil
	}

	lit, isLiteral := key.Type.(lattice.IntLiteral)
	if !t.Spec.IsFixed() {
		if isLiteral {
			if n := lit.Value; n >= 0 && n < int64(len(t.Spec.Prefix)) {
				return t.Spec.Prefix[n], nil
			}
			if n := lit.Value; n < 0 && -n <= int64(len(t.Spec.Suffix)) {
				return t.Spec.Suffix[len(t.Spec.Suffix)+int(n)], nil
			}
		}
		return t.Spec.Variadic, nil
	}

	if !isLiteral {
		builder := lattice.NewUnionBuilder()
		for _, e := range t.Spec.Elements {
			builder.Add(e)
		}
		return builder.Build(), nil
	}

	n := lit.Value
	if n < 0 {
		n += int64(len(t.Spec.Elements))
	}
	if n < 0 || n >= int64(len(t.Spec.Elements)) {
		return lattice.Dynamic{}, diag.New(diag.IndexOutOfBounds, ir.Span{},
			fmt.Sprintf("tuple index %d out of bounds for length %d", lit.Value, len(t.Spec.Elements)))
	}
	return t.Spec.Elements[n], nil
}

// subscriptTypedDict looks up a literal string key against the schema. A
// non-literal key yields Object without a diagnostic; a key naming any
// schema field, required or not, yields that field's declared type; a
// literal key absent from the schema yields Dynamic with an
// InvalidKeyOnTypedDict diagnostic.
func subscriptTypedDict(t lattice.TypedDict, key Key) (lattice.Type, *diag.Report) {
	lit, ok := key.Type.(lattice.StringLiteral)
	if !ok {
		return lattice.Object{}, nil
	}
	field, ok := t.Schema.Field(lit.Value)
	if !ok {
		return lattice.Dynamic{}, diag.New(diag.InvalidKeyOnTypedDict, ir.Span{},
			fmt.Sprintf("%q is not a field of %s", lit.Value, t.Schema.Name))
	}
	return field.DeclaredType, nil
}

// specializeGeneric applies one more type argument to a partially- or
// un-specialized generic alias; arity
// checking against the class's declared type parameters is the caller's
// (internal/infer's) job once it has access to the class database.
func specializeGeneric(g lattice.GenericAlias, key Key) (lattice.Type, *diag.Report) {
	spec := append(append([]lattice.Type{}, g.Specialization...), key.Type)
	return lattice.GenericAlias{Class: g.Class, Specialization: spec}, nil
}
