// Package query implements the memoized query cache with cycle recovery:
// every inference entry point is a pure function of its arguments,
// memoized by a normalized key, re-executed to a fixed point when it
// participates in a cycle (seeded with a Divergent placeholder so the
// recursive call terminates), and bounded by a global iteration cap.
// Grounded on AILANG's internal/eval_harness memoization plus
// internal/effects' fixed-point row-unification retry loop, generalized
// from effect-row solving to general query memoization.
package query

import (
	"context"
	"fmt"

	"github.com/sunholo/tycore/internal/lattice"
)

// Token identifies one in-flight or cached query invocation after
// normalization: two queries that would compute the same result must
// normalize to the same Token.
type Token string

// Normalize builds a Token from a query kind and its normalized arguments.
// Callers are responsible for normalizing argument order/representation
// before calling this (e.g. sorting set-valued arguments) so structurally
// identical queries collide.
func Normalize(kind string, args ...any) Token {
	return Token(fmt.Sprintf("%s(%v)", kind, args))
}

// state is the cache entry for one token: either in-flight (entered, not
// yet resolved — the cycle-detection state), or settled with a result.
type state struct {
	entered bool
	result  lattice.Type
	settled bool
	iter    int
}

// Cache is a per-file query cache with cycle recovery, not safe for
// concurrent use by multiple goroutines against the same token: each file's
// analysis runs on one goroutine; cross-file results are combined after
// each completes, never interleaved.
type Cache struct {
	entries     map[Token]*state
	divergentCounter uint32
	maxIterations    int
}

// DefaultMaxIterations bounds the fixed-point loop a Divergent-seeded cycle
// can run before the cache gives up and returns the last computed
// approximation.
const DefaultMaxIterations = 16

// NewCache creates an empty Cache with the default iteration cap.
func NewCache() *Cache {
	return &Cache{entries: make(map[Token]*state), maxIterations: DefaultMaxIterations}
}

// WithMaxIterations overrides the iteration cap. internal/infer builds its
// cache with NewCache and keeps DefaultMaxIterations.
func (c *Cache) WithMaxIterations(n int) *Cache {
	if n > 0 {
		c.maxIterations = n
	}
	return c
}

// Compute evaluates fn for token, memoizing the result. If token is already
// in-flight (a cycle), Compute seeds the recursive call with a fresh
// Divergent type rather than recursing forever, then re-runs fn to a fixed
// point: each re-run substitutes
// the previous result for the Divergent seed, stopping when two consecutive
// runs produce an equal result or the iteration cap is hit.
func (c *Cache) Compute(ctx context.Context, token Token, fn func(ctx context.Context, seed lattice.Type) lattice.Type) lattice.Type {
	if st, ok := c.entries[token]; ok {
		if st.settled {
			return st.result
		}
		if st.entered {
			// Cycle: hand back a divergent placeholder distinct per
			// concurrent cycle so nested cycles don't collide.
			c.divergentCounter++
			return lattice.Divergent{Token: c.divergentCounter}
		}
	}

	st := &state{entered: true}
	c.entries[token] = st

	seed := lattice.Type(lattice.Dynamic{Kind: lattice.DynamicDivergentSeed})
	var result lattice.Type
	for st.iter = 0; st.iter < c.maxIterations; st.iter++ {
		select {
		case <-ctx.Done():
			st.settled = true
			st.result = seed
			return seed
		default:
		}
		next := fn(ctx, seed)
		if result != nil && next.Equals(result) {
			result = next
			break
		}
		result = next
		seed = result
	}

	st.entered = false
	st.settled = true
	st.result = result
	return result
}

// Get returns the cached result for token without computing it, if settled.
func (c *Cache) Get(token Token) (lattice.Type, bool) {
	st, ok := c.entries[token]
	if !ok || !st.settled {
		return nil, false
	}
	return st.result, true
}

// Invalidate drops a cached entry, forcing recomputation on next Compute.
func (c *Cache) Invalidate(token Token) {
	delete(c.entries, token)
}

// Len reports how many settled entries the cache holds.
func (c *Cache) Len() int {
	n := 0
	for _, st := range c.entries {
		if st.settled {
			n++
		}
	}
	return n
}
