// Package ids defines the small stable-identifier types threaded through every
// other package in the engine: classes, scopes, expressions, definitions,
// places, predicates and reachability-constraint nodes are all referred to by
// handle rather than by pointer, so that query keys and cache entries stay
// comparable and cheap to hash.
package ids

import "fmt"

// ClassID identifies a nominal class or protocol declaration.
type ClassID uint32

// ScopeID identifies a node in the scope tree (module, class, function,
// lambda, comprehension, type-alias or annotation scope).
type ScopeID uint32

// ExprID identifies an expression within a single file's expression arena.
type ExprID uint32

// DefID identifies a definition (binding or declaration) site.
type DefID uint32

// PlaceID identifies a place (access path) within a scope's place table.
type PlaceID uint32

// PredicateID identifies an interned Predicate value (see package reach).
type PredicateID uint32

// FileID identifies a source file opaquely; the core never looks inside it.
type FileID uint32

// UnpackID identifies a single unpacking operation (e.g. `a, b = expr`).
type UnpackID uint32

func (s ScopeID) String() string { return fmt.Sprintf("scope#%d", uint32(s)) }
func (e ExprID) String() string  { return fmt.Sprintf("expr#%d", uint32(e)) }
func (d DefID) String() string   { return fmt.Sprintf("def#%d", uint32(d)) }
func (p PlaceID) String() string { return fmt.Sprintf("place#%d", uint32(p)) }
func (c ClassID) String() string { return fmt.Sprintf("class#%d", uint32(c)) }

// NoScope is the zero value, used for the (nonexistent) parent of the root
// module scope.
const NoScope ScopeID = 0
