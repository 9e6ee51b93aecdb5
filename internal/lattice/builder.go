package lattice

import "sort"

// UnionBuilder incrementally assembles a canonical union: unwrap nested
// unions, drop Never, short-circuit to Object, deduplicate by equivalence.
// Grounded on AILANG's
// internal/types UnionBuilder-shaped incremental assembly in
// internal/types/builder.go, generalized from HM type construction to
// lattice-canonical union construction.
type UnionBuilder struct {
	members  []Type
	isObject bool
}

// NewUnionBuilder creates an empty UnionBuilder.
func NewUnionBuilder() *UnionBuilder { return &UnionBuilder{} }

// Add folds t into the union under construction.
func (b *UnionBuilder) Add(t Type) *UnionBuilder {
	if b.isObject {
		return b
	}
	switch tt := t.(type) {
	case Union:
		for _, m := range tt.Members {
			b.Add(m)
		}
		return b
	case Never:
		return b
	case Object:
		b.isObject = true
		b.members = nil
		return b
	}
	for _, existing := range b.members {
		if existing.Equals(t) {
			return b
		}
	}
	b.members = append(b.members, t)
	return b
}

// Build finishes the union: Object if it ever absorbed Object, Never if no
// members were added, the sole member if exactly one remains, else a Union.
func (b *UnionBuilder) Build() Type {
	if b.isObject {
		return TheObject
	}
	switch len(b.members) {
	case 0:
		return TheNever
	case 1:
		return b.members[0]
	default:
		members := append([]Type(nil), b.members...)
		sort.Slice(members, func(i, j int) bool { return members[i].String() < members[j].String() })
		return Union{Members: members}
	}
}

// UnionOf is a convenience one-shot union builder.
func UnionOf(ts ...Type) Type {
	b := NewUnionBuilder()
	for _, t := range ts {
		b.Add(t)
	}
	return b.Build()
}

// IntersectionBuilder incrementally assembles a canonical intersection:
// unwrap nested intersections, drop Object from positives, collapse to
// Never on a positive/positive or positive/negative contradiction.
type IntersectionBuilder struct {
	positive   []Type
	negative   []Type
	isNever    bool
	disjoint   func(a, b Type) bool
	equivalent func(a, b Type) bool
}

// NewIntersectionBuilder creates an empty IntersectionBuilder. disjoint and
// equivalent are injected so this package doesn't need to import the
// relation visitors in relations.go circularly at construction time; see
// NewIntersectionBuilderWithRelations for the common case.
func NewIntersectionBuilder(disjoint, equivalent func(a, b Type) bool) *IntersectionBuilder {
	return &IntersectionBuilder{disjoint: disjoint, equivalent: equivalent}
}

// AddPositive folds a positive (non-negated) atom into the intersection.
func (b *IntersectionBuilder) AddPositive(t Type) *IntersectionBuilder {
	if b.isNever {
		return b
	}
	if it, ok := t.(Intersection); ok {
		for _, p := range it.Positive {
			b.AddPositive(p)
		}
		for _, n := range it.Negative {
			b.AddNegative(n)
		}
		return b
	}
	if _, ok := t.(Object); ok {
		return b
	}
	if _, ok := t.(Never); ok {
		b.isNever = true
		b.positive = nil
		b.negative = nil
		return b
	}
	for _, n := range b.negative {
		if b.equivalent(t, n) {
			b.isNever = true
			return b
		}
	}
	for _, p := range b.positive {
		if b.disjoint(p, t) {
			b.isNever = true
			return b
		}
		if b.equivalent(p, t) {
			return b
		}
	}
	b.positive = append(b.positive, t)
	return b
}

// AddNegative folds a negated atom (`~T`) into the intersection.
func (b *IntersectionBuilder) AddNegative(t Type) *IntersectionBuilder {
	if b.isNever {
		return b
	}
	for _, p := range b.positive {
		if b.equivalent(p, t) {
			b.isNever = true
			return b
		}
	}
	for _, n := range b.negative {
		if b.equivalent(n, t) {
			return b
		}
	}
	b.negative = append(b.negative, t)
	return b
}

// Build finishes the intersection.
func (b *IntersectionBuilder) Build() Type {
	if b.isNever {
		return TheNever
	}
	if len(b.positive) == 0 && len(b.negative) == 0 {
		return TheObject
	}
	if len(b.positive) == 1 && len(b.negative) == 0 {
		return b.positive[0]
	}
	positive := append([]Type(nil), b.positive...)
	negative := append([]Type(nil), b.negative...)
	sort.Slice(positive, func(i, j int) bool { return positive[i].String() < positive[j].String() })
	sort.Slice(negative, func(i, j int) bool { return negative[i].String() < negative[j].String() })
	return Intersection{Positive: positive, Negative: negative}
}
