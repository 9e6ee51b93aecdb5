package lattice

import "github.com/sunholo/tycore/internal/ids"

// ClassDB is the minimal view of class hierarchy and protocol conformance
// that the relation visitors need. It is supplied by whatever owns the
// class table (the place/resolve layer in later packages); lattice itself
// carries no knowledge of classes beyond their opaque ids.ClassID. Full
// structural protocol matching (checking a NominalInstance's member types
// against a protocol's declared members) lives above this package, where
// attribute resolution is available — ClassDB.Conforms records only
// explicit, already-computed conformance, not a live structural check.
type ClassDB interface {
	IsSubclassOf(sub, super ids.ClassID) bool
	Conforms(class, protocol ids.ClassID) bool
}

// BuiltinClasses names the nominal classes that literal types widen to
// (`Literal[1]` widens to `int`, etc). Zero values mean
// "unknown" and make literal-to-instance widening conservatively fail
// rather than guess, since lattice itself has no builtin class table.
type BuiltinClasses struct {
	Int, Bool, Str, Bytes ids.ClassID
}

// Relations answers subtype/assignable/equivalent/disjoint queries over the
// lattice. Grounded on AILANG's internal/types/unification.go
// relation-visitor shape (mutually recursive descent with an explicit
// recursion guard), generalized from unification to the four gradual
// subtyping relations.
type Relations struct {
	DB       ClassDB
	Builtins BuiltinClasses
}

// NewRelations builds a Relations engine backed by db. Callers that need
// literal-to-instance widening (Literal[1] <: int) must set r.Builtins
// afterward to the resolved builtin class ids.
func NewRelations(db ClassDB) *Relations {
	return &Relations{DB: db}
}

// NewIntersectionBuilderWithRelations is the common-case constructor for
// IntersectionBuilder, wiring its disjoint/equivalent hooks to this engine.
func (r *Relations) NewIntersectionBuilderWithRelations() *IntersectionBuilder {
	return NewIntersectionBuilder(r.IsDisjointFrom, r.IsEquivalentTo)
}

// pairGuard blocks infinite recursion on cyclic types (recursive protocols,
// self-referential generics) by remembering (kind, a, b) triples currently
// being evaluated; a repeat answers true, since a relation that depends on
// itself holding is the fixed point that discharges it.
type pairGuard map[string]bool

func guardKey(kind, a, b string) string { return kind + "\x00" + a + "\x00" + b }

func (g pairGuard) enter(kind string, a, b Type) (pairGuard, bool) {
	key := guardKey(kind, a.String(), b.String())
	if g[key] {
		return g, true
	}
	ng := make(pairGuard, len(g)+1)
	for k := range g {
		ng[k] = true
	}
	ng[key] = true
	return ng, false
}

// IsEquivalentTo reports whether a and b denote the same set of values.
func (r *Relations) IsEquivalentTo(a, b Type) bool {
	return r.equivalentTo(a, b, pairGuard{})
}

func (r *Relations) equivalentTo(a, b Type, g pairGuard) bool {
	ng, seen := g.enter("equiv", a, b)
	if seen {
		return true
	}
	if a.Equals(b) {
		return true
	}
	// Dynamic is equivalent only to another Dynamic of the identical kind,
	// already covered by Equals above (invariant 3).
	if isDynamic(a) || isDynamic(b) {
		return false
	}
	return r.subtypeOf(a, b, ng, false) && r.subtypeOf(b, a, ng, false)
}

// IsSubtypeOf reports whether every value of type a is also a value of type
// b, under strict (non-gradual) subtyping. Dynamic is a subtype only of
// itself and object (or a union containing one of them) and a supertype only
// of itself and Never — use
// IsAssignableTo for gradual contexts (parameter binding, return checks).
func (r *Relations) IsSubtypeOf(a, b Type) bool {
	return r.subtypeOf(a, b, pairGuard{}, false)
}

// IsAssignableTo reports whether a value of type a may be assigned where b
// is expected, treating Dynamic as consistent with everything in both
// directions (the gradual-typing "consistency" relation).
func (r *Relations) IsAssignableTo(a, b Type) bool {
	if isDynamic(a) || isDynamic(b) {
		return true
	}
	return r.subtypeOf(a, b, pairGuard{}, true)
}

// IsDisjointFrom reports whether no value can belong to both a and b.
// Dynamic is never disjoint from anything (it might be anything).
func (r *Relations) IsDisjointFrom(a, b Type) bool {
	if isDynamic(a) || isDynamic(b) {
		return false
	}
	return r.disjointFrom(a, b, pairGuard{})
}

func isDynamic(t Type) bool {
	switch t.(type) {
	case Dynamic, Todo, Divergent:
		return true
	}
	return false
}

// subtypeOf is the shared engine for IsSubtypeOf/IsAssignableTo. gradual
// controls whether Dynamic subterms (inside generics, tuples, callables)
// are treated as universally consistent rather than requiring identity.
func (r *Relations) subtypeOf(a, b Type, g pairGuard, gradual bool) bool {
	ng, seen := g.enter("sub", a, b)
	if seen {
		return true
	}
	g = ng

	if _, ok := b.(Object); ok {
		return true
	}
	if _, ok := a.(Never); ok {
		return true
	}
	if a.Equals(b) {
		return true
	}
	if gradual && (isDynamic(a) || isDynamic(b)) {
		return true
	}

	// Union(xs) <: t  iff every member is.
	if ua, ok := a.(Union); ok {
		for _, m := range ua.Members {
			if !r.subtypeOf(m, b, g, gradual) {
				return false
			}
		}
		return true
	}
	// t <: Union(ys)  iff some member accepts it.
	if ub, ok := b.(Union); ok {
		for _, m := range ub.Members {
			if r.subtypeOf(a, m, g, gradual) {
				return true
			}
		}
		return false
	}
	// t <: Intersection(pos, neg)  iff t <: every pos and t disjoint from every neg.
	if ib, ok := b.(Intersection); ok {
		for _, p := range ib.Positive {
			if !r.subtypeOf(a, p, g, gradual) {
				return false
			}
		}
		for _, n := range ib.Negative {
			if !r.disjointFrom(a, n, g) {
				return false
			}
		}
		return true
	}
	// Intersection(pos, neg) <: t  iff some pos component is.
	if ia, ok := a.(Intersection); ok {
		for _, p := range ia.Positive {
			if r.subtypeOf(p, b, g, gradual) {
				return true
			}
		}
		return false
	}

	switch at := a.(type) {
	case Never:
		return true
	case IntLiteral:
		return r.literalWidensTo(r.Builtins.Int, b)
	case BooleanLiteral:
		return r.literalWidensTo(r.Builtins.Bool, b)
	case StringLiteral:
		if _, ok := b.(LiteralString); ok {
			return true
		}
		return r.literalWidensTo(r.Builtins.Str, b)
	case BytesLiteral:
		return r.literalWidensTo(r.Builtins.Bytes, b)
	case LiteralString:
		return r.literalWidensTo(r.Builtins.Str, b)
	case EnumLiteral:
		if nb, ok := b.(NominalInstance); ok {
			return nb.Class == at.Class && len(nb.Specialization) == 0
		}
		return false
	case AlwaysTruthy, AlwaysFalsy:
		return false

	case NominalInstance:
		return r.nominalSubtypeOf(at, b, g, gradual)
	case ProtocolInstance:
		if bp, ok := b.(ProtocolInstance); ok {
			return at.Protocol == bp.Protocol && r.sameSpecialization(at.Specialization, bp.Specialization, g, gradual)
		}
		return false
	case ClassLiteral:
		if bc, ok := b.(ClassLiteral); ok {
			return at.Class == bc.Class
		}
		if bs, ok := b.(SubclassOf); ok {
			return !bs.Base.Dynamic && (at.Class == bs.Base.Class || r.DB.IsSubclassOf(at.Class, bs.Base.Class))
		}
		return false
	case GenericAlias:
		if bg, ok := b.(GenericAlias); ok {
			return at.Class == bg.Class && r.sameSpecialization(at.Specialization, bg.Specialization, g, gradual)
		}
		return false
	case SubclassOf:
		bs, ok := b.(SubclassOf)
		if !ok {
			return false
		}
		if at.Base.Dynamic {
			return gradual
		}
		if bs.Base.Dynamic {
			return gradual
		}
		return at.Base.Class == bs.Base.Class || r.DB.IsSubclassOf(at.Base.Class, bs.Base.Class)

	case Tuple:
		bt, ok := b.(Tuple)
		if !ok {
			return false
		}
		return r.tupleSubtypeOf(at.Spec, bt.Spec, g, gradual)

	case TypedDict:
		bt, ok := b.(TypedDict)
		if !ok {
			return false
		}
		relate := func(x, y Type) bool { return r.subtypeOf(x, y, g, gradual) }
		ok2, _ := TypedDictSubtype(at.Schema, bt.Schema, relate)
		return ok2

	case Callable:
		bc, ok := b.(Callable)
		if !ok {
			return false
		}
		return r.callableSubtypeOf(at, bc, g, gradual)
	case FunctionLiteral, BoundMethod:
		// Resolving a def's actual signature needs the def table, which lives
		// above this package; callers widen these to Callable before asking.
		return false
	case WrapperDescriptor:
		return false

	case TypeVar:
		if at.Bound != nil {
			return r.subtypeOf(at.Bound, b, g, gradual)
		}
		return false

	case Divergent, Todo, Dynamic:
		return gradual
	}
	return false
}

// literalWidensTo checks whether b is the (unspecialized) NominalInstance of
// wantClass, the builtin class a literal of this kind widens to. wantClass
// is the zero ids.ClassID when the caller never set Relations.Builtins, in
// which case widening conservatively never succeeds.
func (r *Relations) literalWidensTo(wantClass ids.ClassID, b Type) bool {
	if wantClass == 0 {
		return false
	}
	nb, ok := b.(NominalInstance)
	return ok && nb.Class == wantClass && len(nb.Specialization) == 0
}

func (r *Relations) nominalSubtypeOf(a NominalInstance, b Type, g pairGuard, gradual bool) bool {
	switch bt := b.(type) {
	case NominalInstance:
		if a.Class == bt.Class {
			return r.sameSpecialization(a.Specialization, bt.Specialization, g, gradual)
		}
		return r.DB.IsSubclassOf(a.Class, bt.Class)
	case ProtocolInstance:
		return r.DB.Conforms(a.Class, bt.Protocol)
	default:
		return false
	}
}

func (r *Relations) sameSpecialization(a, b []Type, g pairGuard, gradual bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !r.subtypeOf(a[i], b[i], g, gradual) || !r.subtypeOf(b[i], a[i], g, gradual) {
			return false
		}
	}
	return true
}

// tupleSubtypeOf implements tuple subtyping: fixed-vs-fixed is
// element-wise covariant at equal length; fixed-vs-variable and
// variable-vs-variable align prefix/suffix positionally and require the
// remaining middle span to be covariant with the variadic element type.
func (r *Relations) tupleSubtypeOf(a, b TupleSpec, g pairGuard, gradual bool) bool {
	if a.IsFixed() && b.IsFixed() {
		if len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !r.subtypeOf(a.Elements[i], b.Elements[i], g, gradual) {
				return false
			}
		}
		return true
	}
	if a.IsFixed() && !b.IsFixed() {
		if len(a.Elements) < len(b.Prefix)+len(b.Suffix) {
			return false
		}
		n := len(a.Elements)
		for i, t := range b.Prefix {
			if !r.subtypeOf(a.Elements[i], t, g, gradual) {
				return false
			}
		}
		for i, t := range b.Suffix {
			if !r.subtypeOf(a.Elements[n-len(b.Suffix)+i], t, g, gradual) {
				return false
			}
		}
		for i := len(b.Prefix); i < n-len(b.Suffix); i++ {
			if !r.subtypeOf(a.Elements[i], b.Variadic, g, gradual) {
				return false
			}
		}
		return true
	}
	if !a.IsFixed() && b.IsFixed() {
		// A variable-length tuple can only be a subtype of a fixed-length one
		// if it is in fact impossible to have fewer elements than the fixed
		// arity demands, which open-ended tuples never guarantee.
		return false
	}
	// both variable: prefixes/suffixes must align and the variadic middle
	// must be covariant; a's prefix/suffix must be at least as long as b's
	// since a's variadic span already covers any extra alignment slack.
	if len(a.Prefix) < len(b.Prefix) || len(a.Suffix) < len(b.Suffix) {
		return false
	}
	for i, t := range b.Prefix {
		if !r.subtypeOf(a.Prefix[i], t, g, gradual) {
			return false
		}
	}
	for i, t := range b.Suffix {
		if !r.subtypeOf(a.Suffix[len(a.Suffix)-len(b.Suffix)+i], t, g, gradual) {
			return false
		}
	}
	for i := len(b.Prefix); i < len(a.Prefix); i++ {
		if !r.subtypeOf(a.Prefix[i], b.Variadic, g, gradual) {
			return false
		}
	}
	for i := len(b.Suffix); i < len(a.Suffix); i++ {
		if !r.subtypeOf(a.Suffix[len(a.Suffix)-1-i], b.Variadic, g, gradual) {
			return false
		}
	}
	return r.subtypeOf(a.Variadic, b.Variadic, g, gradual)
}

// callableSubtypeOf implements parameter-contravariant, return-covariant
// function subtyping: a is a subtype of b iff for every
// signature of b, a has a signature accepting at least as wide a
// parameter set and returning at least as narrow a result (an overloaded a
// may satisfy each of b's signatures through a different alternative).
func (r *Relations) callableSubtypeOf(a, b Callable, g pairGuard, gradual bool) bool {
	for _, bsig := range b.AllSignatures() {
		matched := false
		for _, asig := range a.AllSignatures() {
			if r.signatureSubtypeOf(asig, bsig, g, gradual) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (r *Relations) signatureSubtypeOf(a, b *Signature, g pairGuard, gradual bool) bool {
	if !r.subtypeOf(a.Return, b.Return, g, gradual) {
		return false
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range b.Params {
		// contravariant: b's parameter type must be a subtype of a's.
		if !r.subtypeOf(b.Params[i].Type, a.Params[i].Type, g, gradual) {
			return false
		}
		if a.Params[i].Kind != b.Params[i].Kind {
			return false
		}
	}
	return true
}

// disjointFrom reports whether a and b share no values.
func (r *Relations) disjointFrom(a, b Type, g pairGuard) bool {
	ng, seen := g.enter("disjoint", a, b)
	if seen {
		return false
	}
	g = ng

	if isDynamic(a) || isDynamic(b) {
		return false
	}
	if _, ok := a.(Never); ok {
		return true
	}
	if _, ok := b.(Never); ok {
		return true
	}
	if _, ok := a.(Object); ok {
		_, isNever := b.(Never)
		return isNever
	}
	if _, ok := b.(Object); ok {
		_, isNever := a.(Never)
		return isNever
	}

	if ua, ok := a.(Union); ok {
		for _, m := range ua.Members {
			if !r.disjointFrom(m, b, g) {
				return false
			}
		}
		return true
	}
	if ub, ok := b.(Union); ok {
		for _, m := range ub.Members {
			if !r.disjointFrom(a, m, g) {
				return false
			}
		}
		return true
	}

	// Two distinct final (non-subclassable) literal/singleton kinds are
	// disjoint; a literal and its own widened instance type are not.
	switch at := a.(type) {
	case IntLiteral:
		if bl, ok := b.(IntLiteral); ok {
			return at.Value != bl.Value
		}
	case BooleanLiteral:
		if bl, ok := b.(BooleanLiteral); ok {
			return at.Value != bl.Value
		}
	case StringLiteral:
		if bl, ok := b.(StringLiteral); ok {
			return at.Value != bl.Value
		}
	case BytesLiteral:
		if bl, ok := b.(BytesLiteral); ok {
			return at.Value != bl.Value
		}
	case EnumLiteral:
		if bl, ok := b.(EnumLiteral); ok {
			return at.Class != bl.Class || at.Variant != bl.Variant
		}
	case NominalInstance:
		if bn, ok := b.(NominalInstance); ok {
			if at.Class == bn.Class {
				return false
			}
			return !r.DB.IsSubclassOf(at.Class, bn.Class) && !r.DB.IsSubclassOf(bn.Class, at.Class)
		}
	}
	// Conservative default: without an explicit rule above, two types are
	// never reported disjoint — disjointness is proved, not assumed.
	return false
}
