package infer

import (
	"context"
	"fmt"

	"github.com/sunholo/tycore/internal/access"
	"github.com/sunholo/tycore/internal/diag"
	"github.com/sunholo/tycore/internal/ir"
	"github.com/sunholo/tycore/internal/lattice"
)

// InferUnpackTypes assigns a type to every target of `(a, b, *rest) = expr`
// by structurally decomposing valueType: fixed
// tuples split positionally one-for-one with targets; variable-length
// tuples assign the variadic portion to the starred target; non-tuple
// iterables assign element_type to every plain target and
// list[element_type] to the starred one. targets is the total number of
// assignment targets (including the starred one, if any); starIndex is
// that target's position within targets, or -1 if the unpack has no
// starred target.
func (e *Engine) InferUnpackTypes(ctx context.Context, valueType lattice.Type, targets int, starIndex int) *UnpackResult {
	result := &UnpackResult{targetTypes: make([]lattice.Type, targets)}
	for i := range result.targetTypes {
		result.targetTypes[i] = lattice.Dynamic{}
	}

	tup, isTuple := valueType.(lattice.Tuple)
	switch {
	case isTuple && tup.Spec.IsFixed():
		e.unpackFixedTuple(tup.Spec.Elements, targets, starIndex, result)
	case isTuple:
		e.unpackVariableTuple(tup.Spec, targets, starIndex, result)
	default:
		e.unpackIterable(valueType, targets, starIndex, result)
	}
	return result
}

func listOf(elem lattice.Type) lattice.Type {
	return lattice.GenericAlias{Specialization: []lattice.Type{elem}}
}

// unpackFixedTuple splits a fixed-length tuple's elements positionally
// across targets, with the starred target (if any) absorbing every
// element between the targets before and after it.
func (e *Engine) unpackFixedTuple(elems []lattice.Type, targets int, starIndex int, result *UnpackResult) {
	if starIndex < 0 {
		if len(elems) != targets {
			result.diagnostics = append(result.diagnostics, diag.New(diag.UnpackLengthMismatch, ir.Span{},
				fmt.Sprintf("tuple of length %d cannot unpack into %d targets", len(elems), targets)))
			return
		}
		for i, t := range elems {
			result.targetTypes[i] = t
		}
		return
	}

	after := targets - starIndex - 1
	if len(elems) < targets-1 {
		result.diagnostics = append(result.diagnostics, diag.New(diag.UnpackLengthMismatch, ir.Span{},
			fmt.Sprintf("tuple of length %d cannot unpack into %d targets (one starred)", len(elems), targets)))
		return
	}

	for i := 0; i < starIndex; i++ {
		result.targetTypes[i] = elems[i]
	}
	starred := elems[starIndex : len(elems)-after]
	result.targetTypes[starIndex] = listOf(lattice.UnionOf(starred...))
	for i := 0; i < after; i++ {
		result.targetTypes[starIndex+1+i] = elems[len(elems)-after+i]
	}
}

// unpackVariableTuple assigns a variable-length tuple's prefix/suffix
// elements to the targets flanking the starred target, and the variadic
// middle to the starred target itself. With no starred target (malformed
// for a tuple this shape, but tolerated) every target falls back to the
// variadic element type.
func (e *Engine) unpackVariableTuple(spec lattice.TupleSpec, targets int, starIndex int, result *UnpackResult) {
	if starIndex < 0 {
		for i := range result.targetTypes {
			result.targetTypes[i] = spec.Variadic
		}
		return
	}

	for i := 0; i < starIndex; i++ {
		if i < len(spec.Prefix) {
			result.targetTypes[i] = spec.Prefix[i]
		} else {
			result.targetTypes[i] = spec.Variadic
		}
	}
	after := targets - starIndex - 1
	for i := 0; i < after; i++ {
		idx := starIndex + 1 + i
		suffixPos := len(spec.Suffix) - after + i
		if suffixPos >= 0 && suffixPos < len(spec.Suffix) {
			result.targetTypes[idx] = spec.Suffix[suffixPos]
		} else {
			result.targetTypes[idx] = spec.Variadic
		}
	}
	result.targetTypes[starIndex] = listOf(spec.Variadic)
}

// unpackIterable handles `a, b = non_tuple_iterable`: every plain target
// gets the iterable's element type, and a starred target gets
// list[element_type].
func (e *Engine) unpackIterable(valueType lattice.Type, targets int, starIndex int, result *UnpackResult) {
	elem := e.iterableElementType(valueType)
	for i := range result.targetTypes {
		if i == starIndex {
			result.targetTypes[i] = listOf(elem)
		} else {
			result.targetTypes[i] = elem
		}
	}
}

// iterableElementType recovers the element type of a non-tuple iterable:
// a single-argument generic specialization (list[int], set[str], ...) if
// the type carries one, else whatever __iter__().__next__() resolves to,
// else Dynamic.
func (e *Engine) iterableElementType(t lattice.Type) lattice.Type {
	switch v := t.(type) {
	case lattice.NominalInstance:
		if len(v.Specialization) > 0 {
			return v.Specialization[0]
		}
	case lattice.GenericAlias:
		if len(v.Specialization) > 0 {
			return v.Specialization[0]
		}
	}

	lookup := e.lookupOrNil()
	iter, err := access.DunderCall(t, "__iter__", nil, lookup, e.Rel)
	if err != nil {
		return lattice.Dynamic{}
	}
	next, err := access.DunderCall(iter, "__next__", nil, lookup, e.Rel)
	if err != nil {
		return lattice.Dynamic{}
	}
	return next
}
