// Package lattice implements the type-checker core's lattice of types: an
// immutable term algebra with sum (union), product (intersection),
// gradual, nominal, structural, tuple, literal, callable, typed-dict and
// type-variable forms, plus the subtype/assignable/equivalent/disjoint
// relations closed over it. Grounded on AILANG's
// internal/types/types_v2.go variant set and internal/types/unification.go's
// relation-visitor idiom, generalized from AILANG's Hindley-Milner
// row-polymorphic types to a gradual subtyping lattice.
package lattice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sunholo/tycore/internal/ids"
)

// Type is an immutable term in the lattice. Types are plain values with no
// table of canonical instances: two structurally equal types may be distinct
// Go values, and Equals compares structure for every variant (TypeVars by
// their Interner-allocated ID).
type Type interface {
	// String renders the type for diagnostics and tests.
	String() string
	// Equals reports structural equality under canonicalization.
	Equals(Type) bool
	// isType is unexported so Type can only be implemented within this
	// package, keeping the variant set closed — pattern matching on type
	// variants dispatches by closed enumeration.
	isType()
}

// DynamicKind records why a Dynamic type arose. Equals compares it, so two
// Dynamics of different kinds are neither equivalent nor strict subtypes of
// each other; gradual assignability ignores it.
type DynamicKind int

const (
	DynamicExplicitAny DynamicKind = iota
	DynamicUnresolvedImport
	DynamicDivergentSeed
	DynamicPlaceholder
)

func (k DynamicKind) String() string {
	switch k {
	case DynamicExplicitAny:
		return "Any"
	case DynamicUnresolvedImport:
		return "Unknown"
	case DynamicDivergentSeed:
		return "Divergent-as-Dynamic"
	case DynamicPlaceholder:
		return "Unknown"
	default:
		return "Any"
	}
}

// Dynamic is the gradual type: consistent with every type in both
// directions under assignability, distinct from every non-dynamic type
// under equivalence.
type Dynamic struct{ Kind DynamicKind }

func (Dynamic) isType()          {}
func (d Dynamic) String() string { return d.Kind.String() }
func (d Dynamic) Equals(o Type) bool {
	od, ok := o.(Dynamic)
	return ok && od.Kind == d.Kind
}

// Never is the empty type, bottom of the lattice.
type Never struct{}

func (Never) isType()           {}
func (Never) String() string    { return "Never" }
func (Never) Equals(o Type) bool { _, ok := o.(Never); return ok }

// Object is the top of the lattice: every other type is assignable to and a
// subtype of Object.
type Object struct{}

func (Object) isType()           {}
func (Object) String() string    { return "object" }
func (Object) Equals(o Type) bool { _, ok := o.(Object); return ok }

// ClassLiteral is the class itself used as a value (e.g. `int` used where a
// class object, not an instance, is expected).
type ClassLiteral struct{ Class ids.ClassID }

func (ClassLiteral) isType() {}
func (c ClassLiteral) String() string { return fmt.Sprintf("type[#%d]", c.Class) }
func (c ClassLiteral) Equals(o Type) bool {
	oc, ok := o.(ClassLiteral)
	return ok && oc.Class == c.Class
}

// GenericAlias is a specialized generic class used as a value, e.g. `List[int]`.
type GenericAlias struct {
	Class          ids.ClassID
	Specialization []Type
}

func (GenericAlias) isType() {}
func (g GenericAlias) String() string {
	return fmt.Sprintf("type[#%d%s]", g.Class, specString(g.Specialization))
}
func (g GenericAlias) Equals(o Type) bool {
	og, ok := o.(GenericAlias)
	return ok && og.Class == g.Class && sameTypeSlice(g.Specialization, og.Specialization)
}

// NominalInstance is an instance of a nominal class.
type NominalInstance struct {
	Class          ids.ClassID
	Specialization []Type
}

func (NominalInstance) isType() {}
func (n NominalInstance) String() string {
	return fmt.Sprintf("#%d%s", n.Class, specString(n.Specialization))
}
func (n NominalInstance) Equals(o Type) bool {
	on, ok := o.(NominalInstance)
	return ok && on.Class == n.Class && sameTypeSlice(n.Specialization, on.Specialization)
}

// ProtocolInstance is an instance satisfying a structural protocol.
type ProtocolInstance struct {
	Protocol       ids.ClassID
	Specialization []Type
}

func (ProtocolInstance) isType() {}
func (p ProtocolInstance) String() string {
	return fmt.Sprintf("protocol#%d%s", p.Protocol, specString(p.Specialization))
}
func (p ProtocolInstance) Equals(o Type) bool {
	op, ok := o.(ProtocolInstance)
	return ok && op.Protocol == p.Protocol && sameTypeSlice(p.Specialization, op.Specialization)
}

func specString(spec []Type) string {
	if len(spec) == 0 {
		return ""
	}
	parts := make([]string, len(spec))
	for i, t := range spec {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func sameTypeSlice(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// Union is a disjunction of two or more members (invariant: never empty,
// never a singleton — singletons collapse to their element).
type Union struct{ Members []Type }

func (Union) isType() {}
func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (u Union) Equals(o Type) bool {
	ou, ok := o.(Union)
	if !ok || len(u.Members) != len(ou.Members) {
		return false
	}
	// Unions are built in canonical (sorted-by-string) order by UnionBuilder,
	// so member-wise comparison is sufficient without a quadratic set diff.
	for i := range u.Members {
		if !u.Members[i].Equals(ou.Members[i]) {
			return false
		}
	}
	return true
}

// Intersection is a conjunction of positive atoms and negated atoms.
type Intersection struct {
	Positive []Type
	Negative []Type
}

func (Intersection) isType() {}
func (i Intersection) String() string {
	parts := make([]string, 0, len(i.Positive)+len(i.Negative))
	for _, p := range i.Positive {
		parts = append(parts, p.String())
	}
	for _, n := range i.Negative {
		parts = append(parts, "~"+n.String())
	}
	return strings.Join(parts, " & ")
}
func (i Intersection) Equals(o Type) bool {
	oi, ok := o.(Intersection)
	if !ok {
		return false
	}
	return sameTypeSlice(i.Positive, oi.Positive) && sameTypeSlice(i.Negative, oi.Negative)
}

// IntLiteral is the literal type of a specific int value.
type IntLiteral struct{ Value int64 }

func (IntLiteral) isType()           {}
func (l IntLiteral) String() string  { return fmt.Sprintf("Literal[%d]", l.Value) }
func (l IntLiteral) Equals(o Type) bool {
	ol, ok := o.(IntLiteral)
	return ok && ol.Value == l.Value
}

// BooleanLiteral is the literal type of True or False.
type BooleanLiteral struct{ Value bool }

func (BooleanLiteral) isType()          {}
func (l BooleanLiteral) String() string { return fmt.Sprintf("Literal[%t]", l.Value) }
func (l BooleanLiteral) Equals(o Type) bool {
	ol, ok := o.(BooleanLiteral)
	return ok && ol.Value == l.Value
}

// StringLiteral is the literal type of a specific string value.
type StringLiteral struct{ Value string }

func (StringLiteral) isType()          {}
func (l StringLiteral) String() string { return fmt.Sprintf("Literal[%q]", l.Value) }
func (l StringLiteral) Equals(o Type) bool {
	ol, ok := o.(StringLiteral)
	return ok && ol.Value == l.Value
}

// BytesLiteral is the literal type of a specific bytes value.
type BytesLiteral struct{ Value string }

func (BytesLiteral) isType()          {}
func (l BytesLiteral) String() string { return fmt.Sprintf("Literal[b%q]", l.Value) }
func (l BytesLiteral) Equals(o Type) bool {
	ol, ok := o.(BytesLiteral)
	return ok && ol.Value == l.Value
}

// LiteralString is the type of "some string literal, exact value unknown" —
// narrower than `str`, wider than any single StringLiteral.
type LiteralString struct{}

func (LiteralString) isType()           {}
func (LiteralString) String() string    { return "LiteralString" }
func (LiteralString) Equals(o Type) bool { _, ok := o.(LiteralString); return ok }

// EnumLiteral is the literal type of one specific enum member.
type EnumLiteral struct {
	Class   ids.ClassID
	Variant string
}

func (EnumLiteral) isType() {}
func (e EnumLiteral) String() string { return fmt.Sprintf("Literal[#%d.%s]", e.Class, e.Variant) }
func (e EnumLiteral) Equals(o Type) bool {
	oe, ok := o.(EnumLiteral)
	return ok && oe.Class == e.Class && oe.Variant == e.Variant
}

// SliceLiteral is the literal type of a `start:stop:step` slice object.
type SliceLiteral struct {
	Start, Stop, Step *int64
}

func (SliceLiteral) isType() {}
func (s SliceLiteral) String() string {
	fmtp := func(p *int64) string {
		if p == nil {
			return ""
		}
		return fmt.Sprintf("%d", *p)
	}
	return fmt.Sprintf("slice[%s:%s:%s]", fmtp(s.Start), fmtp(s.Stop), fmtp(s.Step))
}
func (s SliceLiteral) Equals(o Type) bool {
	os, ok := o.(SliceLiteral)
	if !ok {
		return false
	}
	eq := func(a, b *int64) bool {
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	}
	return eq(s.Start, os.Start) && eq(s.Stop, os.Stop) && eq(s.Step, os.Step)
}

// AlwaysTruthy is the boundary set of values bool() always narrows away on
// the negative branch.
type AlwaysTruthy struct{}

func (AlwaysTruthy) isType()           {}
func (AlwaysTruthy) String() string    { return "AlwaysTruthy" }
func (AlwaysTruthy) Equals(o Type) bool { _, ok := o.(AlwaysTruthy); return ok }

// AlwaysFalsy is the boundary set of values bool() always narrows away on
// the positive branch.
type AlwaysFalsy struct{}

func (AlwaysFalsy) isType()           {}
func (AlwaysFalsy) String() string    { return "AlwaysFalsy" }
func (AlwaysFalsy) Equals(o Type) bool { _, ok := o.(AlwaysFalsy); return ok }

// Divergent is the cycle-recovery seed.
type Divergent struct{ Token uint32 }

func (Divergent) isType()          {}
func (d Divergent) String() string { return fmt.Sprintf("Divergent(#%d)", d.Token) }
func (d Divergent) Equals(o Type) bool {
	od, ok := o.(Divergent)
	return ok && od.Token == d.Token
}

// Todo behaves as Dynamic but records why it hasn't been implemented yet.
type Todo struct{ Reason string }

func (Todo) isType()          {}
func (t Todo) String() string { return fmt.Sprintf("Todo(%s)", t.Reason) }
func (t Todo) Equals(o Type) bool {
	ot, ok := o.(Todo)
	return ok && ot.Reason == t.Reason
}

// ClassBase names the class side of a SubclassOf type: either a concrete
// class or "unknown" (when the base itself is Dynamic).
type ClassBase struct {
	Class   ids.ClassID
	Dynamic bool
}

// SubclassOf is the set of classes that are subclasses of a given class base.
type SubclassOf struct{ Base ClassBase }

func (SubclassOf) isType() {}
func (s SubclassOf) String() string {
	if s.Base.Dynamic {
		return "type[Unknown]"
	}
	return fmt.Sprintf("type[#%d]", s.Base.Class)
}
func (s SubclassOf) Equals(o Type) bool {
	os, ok := o.(SubclassOf)
	return ok && os.Base == s.Base
}

// TypeVar is a bound or constrained type variable.
type TypeVar struct {
	ID    uint32
	Name  string
	VKind Kind
	Bound Type // optional upper bound, nil if unbounded
}

func (TypeVar) isType()          {}
func (t TypeVar) String() string { return t.Name }
func (t TypeVar) Equals(o Type) bool {
	ot, ok := o.(TypeVar)
	return ok && ot.ID == t.ID
}
