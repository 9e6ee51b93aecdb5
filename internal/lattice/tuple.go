package lattice

import "strings"

// TupleSpec is either a fixed-length element list or a variable-length
// shape `prefix ++ T* ++ suffix`.
type TupleSpec struct {
	// Fixed tuples set Elements and leave Variadic nil.
	Elements []Type
	// Variable tuples set Prefix/Variadic/Suffix and leave Elements nil.
	Prefix   []Type
	Variadic Type
	Suffix   []Type
}

// IsFixed reports whether this spec is a fixed-length tuple.
func (s TupleSpec) IsFixed() bool { return s.Variadic == nil }

func (s TupleSpec) String() string {
	join := func(ts []Type) string {
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = t.String()
		}
		return strings.Join(parts, ", ")
	}
	if s.IsFixed() {
		return join(s.Elements)
	}
	parts := []string{}
	if len(s.Prefix) > 0 {
		parts = append(parts, join(s.Prefix))
	}
	parts = append(parts, s.Variadic.String()+", ...")
	if len(s.Suffix) > 0 {
		parts = append(parts, join(s.Suffix))
	}
	return strings.Join(parts, ", ")
}

func (s TupleSpec) Equals(o TupleSpec) bool {
	if s.IsFixed() != o.IsFixed() {
		return false
	}
	if s.IsFixed() {
		return sameTypeSlice(s.Elements, o.Elements)
	}
	return sameTypeSlice(s.Prefix, o.Prefix) &&
		s.Variadic.Equals(o.Variadic) &&
		sameTypeSlice(s.Suffix, o.Suffix)
}

// Tuple is a fixed-length or variable-length sequence type.
type Tuple struct{ Spec TupleSpec }

func (Tuple) isType()          {}
func (t Tuple) String() string { return "(" + t.Spec.String() + ")" }
func (t Tuple) Equals(o Type) bool {
	ot, ok := o.(Tuple)
	return ok && t.Spec.Equals(ot.Spec)
}

// FixedTuple is a convenience constructor for a fixed-length TupleSpec.
func FixedTuple(elems ...Type) Tuple {
	return Tuple{Spec: TupleSpec{Elements: elems}}
}

// VariableTuple is a convenience constructor for `prefix ++ T* ++ suffix`.
func VariableTuple(prefix []Type, variadic Type, suffix []Type) Tuple {
	return Tuple{Spec: TupleSpec{Prefix: prefix, Variadic: variadic, Suffix: suffix}}
}
