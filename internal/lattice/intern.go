package lattice

import "sync"

// Interner owns the engine's type-variable and divergence-token counters and
// the handful of shared singleton instances (Never, Object, AlwaysTruthy,
// AlwaysFalsy). Unlike AILANG's internal/types, which has no map-based
// string interner (its HM types are plain Go values),
// our atoms are comparable via Equals without needing a canonical pointer
// table — see the note on type.go's doc comment. What genuinely needs
// sequential, concurrency-safe allocation is fresh TypeVar ids and
// Divergent cycle tokens, so that's what Interner serializes: interior
// data structures are append-only and insertion uses fine-grained locking.
type Interner struct {
	mu        sync.Mutex
	nextVar   uint32
	nextToken uint32
}

// NewInterner creates an empty Interner.
func NewInterner() *Interner {
	return &Interner{}
}

// FreshTypeVar allocates a new, uniquely-numbered TypeVar.
func (in *Interner) FreshTypeVar(name string, kind Kind) TypeVar {
	in.mu.Lock()
	in.nextVar++
	id := in.nextVar
	in.mu.Unlock()
	if kind == nil {
		kind = Star
	}
	return TypeVar{ID: id, Name: name, VKind: kind}
}

// FreshDivergent allocates a new cycle-recovery seed token.
func (in *Interner) FreshDivergent() Divergent {
	in.mu.Lock()
	in.nextToken++
	tok := in.nextToken
	in.mu.Unlock()
	return Divergent{Token: tok}
}

// Shared singleton instances. These are immutable values, so sharing them
// is purely a convenience — Equals never relies on identity.
var (
	TheNever        Type = Never{}
	TheObject       Type = Object{}
	TheAlwaysTruthy Type = AlwaysTruthy{}
	TheAlwaysFalsy  Type = AlwaysFalsy{}
	TheLiteralString Type = LiteralString{}
)
