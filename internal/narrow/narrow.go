// Package narrow implements the narrowing engine: translating
// a guard expression (isinstance/issubclass checks, identity/equality
// comparisons against a singleton, membership tests, truthiness, pattern
// tests) into a pair of type-narrowing functions, one for the positive
// branch and one for the negative, plus the reachability predicate the
// guard contributes to internal/reach. Grounded on AILANG's
// internal/types/unification.go substitution-application idiom (a Narrow
// here plays the role a Subst does there: a pure function from Type to
// Type), generalized to the exact predicate shapes (isinstance, identity,
// membership, truthiness, pattern) a gradual type checker's narrowing pass
// needs to enumerate.
package narrow

import (
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/lattice"
	"github.com/sunholo/tycore/internal/reach"
)

// Narrow is a pure function refining a static type along one branch of a
// guard. Applying Narrow to a type it has no opinion about returns the type
// unchanged.
type Narrow func(t lattice.Type) lattice.Type

// identity leaves every type unchanged — the "no information" narrowing.
func identity(t lattice.Type) lattice.Type { return t }

// Pair bundles the positive- and negative-branch narrowing functions a
// guard contributes, alongside the reachability predicate id it should
// register for each branch.
type Pair struct {
	Positive   Narrow
	Negative   Narrow
	Predicate  ids.PredicateID // the underlying atom, for building reach.ID guards
	PredNode   reach.ID        // convenience: reach arena node for Predicate (0 if unset)
}

// Engine builds narrowing Pairs against one Relations/Arena pair, so that
// isinstance-style narrowing can consult subtype relations and every guard
// shares the same interned predicate arena.
type Engine struct {
	rel   *lattice.Relations
	arena *reach.Arena
}

// New creates a narrowing Engine.
func New(rel *lattice.Relations, arena *reach.Arena) *Engine {
	return &Engine{rel: rel, arena: arena}
}

// unionMembers returns t's union members, or t itself as a single-element
// slice if it isn't a Union — so narrowing can treat both shapes uniformly.
func unionMembers(t lattice.Type) []lattice.Type {
	if u, ok := t.(lattice.Union); ok {
		return u.Members
	}
	return []lattice.Type{t}
}

// narrowMatch filters t's union members down to those consistent with
// target, intersecting the ones that overlap without being a full subtype.
// This is the shared implementation behind every "is/matches target"
// positive branch in this file.
func (e *Engine) narrowMatch(t, target lattice.Type) lattice.Type {
	var kept []lattice.Type
	for _, m := range unionMembers(t) {
		switch {
		case e.rel.IsDisjointFrom(m, target):
			continue
		case e.rel.IsSubtypeOf(m, target):
			kept = append(kept, m)
		default:
			b := e.rel.NewIntersectionBuilderWithRelations()
			b.AddPositive(m)
			b.AddPositive(target)
			kept = append(kept, b.Build())
		}
	}
	return lattice.UnionOf(kept...)
}

// narrowExclude filters t's union members down to those consistent with
// "not target", dropping members that are fully subsumed by target and
// intersecting-out the ones that merely overlap it.
func (e *Engine) narrowExclude(t, target lattice.Type) lattice.Type {
	var kept []lattice.Type
	for _, m := range unionMembers(t) {
		switch {
		case e.rel.IsSubtypeOf(m, target):
			continue
		case e.rel.IsDisjointFrom(m, target):
			kept = append(kept, m)
		default:
			b := e.rel.NewIntersectionBuilderWithRelations()
			b.AddPositive(m)
			b.AddNegative(target)
			kept = append(kept, b.Build())
		}
	}
	return lattice.UnionOf(kept...)
}

// IsInstance builds the Pair for `isinstance(x, klass)`: the positive
// branch keeps only union members consistent with klass, the negative
// branch drops members fully subsumed by klass.
func (e *Engine) IsInstance(pred ids.PredicateID, klass lattice.Type) Pair {
	atom := e.arena.NewAtom(pred)
	return Pair{
		Predicate: pred,
		PredNode:  atom,
		Positive:  func(t lattice.Type) lattice.Type { return e.narrowMatch(t, klass) },
		Negative:  func(t lattice.Type) lattice.Type { return e.narrowExclude(t, klass) },
	}
}

// IsSubclass mirrors IsInstance for `issubclass(x, klass)` guards against a
// SubclassOf-typed x; the narrowing is identical in shape, only the static
// semantics of what's being compared differ, so it's expressed the same way.
func (e *Engine) IsSubclass(pred ids.PredicateID, klass lattice.Type) Pair {
	return e.IsInstance(pred, klass)
}

// IsSingleton builds the Pair for `x is None` / `x is not None`-shaped
// identity checks against a singleton type: the positive branch narrows to
// exactly the singleton, the negative branch removes it.
func (e *Engine) IsSingleton(pred ids.PredicateID, singleton lattice.Type) Pair {
	atom := e.arena.NewAtom(pred)
	return Pair{
		Predicate: pred,
		PredNode:  atom,
		Positive:  func(t lattice.Type) lattice.Type { return e.narrowMatch(t, singleton) },
		Negative:  func(t lattice.Type) lattice.Type { return e.narrowExclude(t, singleton) },
	}
}

// EqualsSingleValued builds the Pair for `x == <literal>` / `x !=
// <literal>` against a single-valued literal type. Semantically identical
// to IsSingleton for narrowing purposes — equality with a literal narrows
// exactly like identity with a singleton — but kept as a distinct entry
// point since the two guards are syntactically and diagnostically distinct.
func (e *Engine) EqualsSingleValued(pred ids.PredicateID, literal lattice.Type) Pair {
	return e.IsSingleton(pred, literal)
}

// InContainer builds the Pair for `x in (a, b, c)`-shaped membership tests
// against a finite literal container: the
// positive branch narrows to the union of the container's literal element
// types, the negative branch removes each of them.
func (e *Engine) InContainer(pred ids.PredicateID, elems []lattice.Type) Pair {
	atom := e.arena.NewAtom(pred)
	union := lattice.UnionOf(elems...)
	return Pair{
		Predicate: pred,
		PredNode:  atom,
		Positive:  func(t lattice.Type) lattice.Type { return e.narrowMatch(t, union) },
		Negative: func(t lattice.Type) lattice.Type {
			for _, el := range elems {
				t = e.narrowExclude(t, el)
			}
			return t
		},
	}
}

// Truthy builds the Pair for a bare truthiness guard (`if x:`): the
// positive branch removes lattice.AlwaysFalsy, the negative branch removes
// lattice.AlwaysTruthy.
func (e *Engine) Truthy(pred ids.PredicateID) Pair {
	atom := e.arena.NewAtom(pred)
	return Pair{
		Predicate: pred,
		PredNode:  atom,
		Positive:  func(t lattice.Type) lattice.Type { return e.narrowExclude(t, lattice.AlwaysFalsy{}) },
		Negative:  func(t lattice.Type) lattice.Type { return e.narrowExclude(t, lattice.AlwaysTruthy{}) },
	}
}

// Pattern builds the Pair for a single match-statement pattern test (class
// pattern, literal pattern, or capture), expressed as isinstance-style
// narrowing against the pattern's static type.
func (e *Engine) Pattern(pred ids.PredicateID, patternType lattice.Type) Pair {
	return e.IsInstance(pred, patternType)
}

// And combines two Pairs with boolean AND:
// the positive branch applies both narrowings in sequence; the negative
// branch is De Morgan's — "not (A and B)" narrows nothing precisely (it's
// "not A or not B"), so the negative branch is left as identity: only a
// single guard's negative branch is ever precise for a conjunction.
func And(a, b Pair, arena *reach.Arena) Pair {
	return Pair{
		Positive: func(t lattice.Type) lattice.Type { return b.Positive(a.Positive(t)) },
		Negative: identity,
		PredNode: arena.And(a.PredNode, b.PredNode),
	}
}

// Or combines two Pairs with boolean OR:
// the negative branch applies both negations in sequence (De Morgan's "not
// (A or B) == not A and not B" holds exactly); the positive branch is left
// imprecise (identity) for the same reason And's negative branch is.
func Or(a, b Pair, arena *reach.Arena) Pair {
	return Pair{
		Positive: identity,
		Negative: func(t lattice.Type) lattice.Type { return b.Negative(a.Negative(t)) },
		PredNode: arena.Or(a.PredNode, b.PredNode),
	}
}

// MultiComparator builds the Pair for a chained comparison with more than
// two comparators (e.g. `a < b < c`): such a guard contributes no precise
// narrowing in either branch, only a reachability predicate.
func MultiComparator(pred ids.PredicateID, arena *reach.Arena) Pair {
	return Pair{Predicate: pred, PredNode: arena.NewAtom(pred), Positive: identity, Negative: identity}
}
