package lattice

import (
	"fmt"
	"strings"

	"github.com/sunholo/tycore/internal/ids"
)

// TypedDictField describes one field of a TypedDictSchema.
type TypedDictField struct {
	Name             string
	DeclaredType     Type
	Required         bool
	ReadOnly         bool
	FirstDeclaration ids.DefID // 0 if unknown/synthetic
}

// TypedDictSchema is an ordered mapping field_name -> TypedDictField. Order
// is the class definition's insertion order; equivalence ignores order, but
// cache-key equality (used by the query layer) respects it.
type TypedDictSchema struct {
	Name   string
	Fields []TypedDictField
}

// Field looks up a field by name.
func (s *TypedDictSchema) Field(name string) (TypedDictField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return TypedDictField{}, false
}

// FieldNames returns every declared field name, in schema order.
func (s *TypedDictSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (s *TypedDictSchema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		req := "required"
		if !f.Required {
			req = "not-required"
		}
		ro := ""
		if f.ReadOnly {
			ro = ",read-only"
		}
		parts[i] = fmt.Sprintf("%s: %s(%s%s)", f.Name, f.DeclaredType, req, ro)
	}
	return fmt.Sprintf("TypedDict(%s){%s}", s.Name, strings.Join(parts, ", "))
}

// equivalentUnordered compares two schemas ignoring field order, used by
// Equals (equivalence ignores order).
func (s *TypedDictSchema) equivalentUnordered(o *TypedDictSchema) bool {
	if s.Name != o.Name || len(s.Fields) != len(o.Fields) {
		return false
	}
	for _, f := range s.Fields {
		of, ok := o.Field(f.Name)
		if !ok {
			return false
		}
		if f.Required != of.Required || f.ReadOnly != of.ReadOnly {
			return false
		}
		if !f.DeclaredType.Equals(of.DeclaredType) {
			return false
		}
	}
	return true
}

// TypedDict is a structurally-typed mapping schema.
type TypedDict struct{ Schema *TypedDictSchema }

func (TypedDict) isType()          {}
func (t TypedDict) String() string { return t.Schema.String() }
func (t TypedDict) Equals(o Type) bool {
	ot, ok := o.(TypedDict)
	return ok && t.Schema.equivalentUnordered(ot.Schema)
}

// TypedDictFieldRelation is the result of checking one field's subtyping
// rule.
type TypedDictFieldRelation struct {
	FieldName string
	OK        bool
	Reason    string
}

// TypedDictSubtype checks src <: dst under the four per-field rules.
// related is the relation to use for declared-type comparisons
// (is_subtype_of for strict subtyping contexts, is_assignable_to for
// gradual contexts) — callers pass the right one in.
func TypedDictSubtype(src, dst *TypedDictSchema, related func(a, b Type) bool) (bool, []TypedDictFieldRelation) {
	var results []TypedDictFieldRelation
	ok := true
	for _, df := range dst.Fields {
		sf, present := src.Field(df.Name)
		switch {
		case df.Required && !df.ReadOnly:
			// Rule 1: mutually related, must be present/required/mutable.
			if !present || !sf.Required || sf.ReadOnly {
				results = append(results, TypedDictFieldRelation{df.Name, false, "required mutable field missing or mismatched"})
				ok = false
				continue
			}
			good := related(sf.DeclaredType, df.DeclaredType) && related(df.DeclaredType, sf.DeclaredType)
			results = append(results, TypedDictFieldRelation{df.Name, good, "mutual relation required"})
			ok = ok && good

		case df.Required && df.ReadOnly:
			// Rule 2: present and required; covariant relation.
			if !present || !sf.Required {
				results = append(results, TypedDictFieldRelation{df.Name, false, "required read-only field missing"})
				ok = false
				continue
			}
			good := related(sf.DeclaredType, df.DeclaredType)
			results = append(results, TypedDictFieldRelation{df.Name, good, "covariant relation required"})
			ok = ok && good

		case !df.Required && !df.ReadOnly:
			// Rule 3: if present, must be NotRequired/mutable/mutually related;
			// if absent, relation fails (source may allow extra unknown keys).
			if !present {
				results = append(results, TypedDictFieldRelation{df.Name, false, "absent source field with open extras"})
				ok = false
				continue
			}
			if sf.Required || sf.ReadOnly {
				results = append(results, TypedDictFieldRelation{df.Name, false, "present field has wrong required/read-only flags"})
				ok = false
				continue
			}
			good := related(sf.DeclaredType, df.DeclaredType) && related(df.DeclaredType, sf.DeclaredType)
			results = append(results, TypedDictFieldRelation{df.Name, good, "mutual relation required"})
			ok = ok && good

		default: // !Required && ReadOnly
			// Rule 4: if present, covariant; if absent, succeeds iff target
			// field type accepts anything (Object related to it).
			if present {
				good := related(sf.DeclaredType, df.DeclaredType)
				results = append(results, TypedDictFieldRelation{df.Name, good, "covariant relation required"})
				ok = ok && good
				continue
			}
			good := related(TheObject, df.DeclaredType)
			results = append(results, TypedDictFieldRelation{df.Name, good, "absent field requires target to accept anything"})
			ok = ok && good
		}
	}
	return ok, results
}
