// Package reach implements the reachability algebra: reduced,
// ordered ternary decision diagrams (TDDs) over predicates, with AND/OR/NOT
// and oracle-driven ternary evaluation. Grounded structurally on AILANG's
// internal/dtree decision-tree compiler — an interned node that dispatches
// on a discriminator with a default branch is the closest analogue to a
// TDD's interior node (atom, with if_true/if_ambiguous/if_false children) —
// but the algorithm itself (boolean/ternary algebra
// over predicate truth, not pattern-matrix specialization) is new, grounded
// on the reachability-constraint shape a real narrowing analyzer needs
// (reduce a guard to AND/OR/NOT over atomic predicates, then evaluate
// ternary) since AILANG's match compiler has no ternary or
// boolean-combination operations at all.
package reach

import "github.com/sunholo/tycore/internal/ids"

// Value is the ternary result of evaluating a reachability constraint.
type Value int

const (
	AlwaysFalse Value = iota
	Ambiguous
	AlwaysTrue
)

func (v Value) String() string {
	switch v {
	case AlwaysTrue:
		return "AlwaysTrue"
	case AlwaysFalse:
		return "AlwaysFalse"
	default:
		return "Ambiguous"
	}
}

// Not computes the ternary negation used when evaluating NOT nodes.
func (v Value) Not() Value {
	switch v {
	case AlwaysTrue:
		return AlwaysFalse
	case AlwaysFalse:
		return AlwaysTrue
	default:
		return Ambiguous
	}
}

// ID identifies an interned TDD node. Three reserved ids carry fixed
// meaning; every other id indexes an interior node in an Arena.
type ID uint32

const (
	IDAlwaysTrue  ID = 1
	IDAmbiguous   ID = 2
	IDAlwaysFalse ID = 3
	firstInterior ID = 4
)

func (id ID) String() string {
	switch id {
	case IDAlwaysTrue:
		return "ALWAYS_TRUE"
	case IDAmbiguous:
		return "AMBIGUOUS"
	case IDAlwaysFalse:
		return "ALWAYS_FALSE"
	default:
		return "node"
	}
}

// node is an interior TDD node: dispatch on atom's truth value.
type node struct {
	atom    ids.PredicateID
	ifTrue  ID
	ifAmbig ID
	ifFalse ID
}

// key is the canonical lookup key for an interior node — used both for
// reduction (a node with ifTrue==ifAmbig==ifFalse, or ifTrue==ifFalse with
// matching ifAmbig, collapses to that child) and for interning identical
// nodes to the same ID.
type key struct {
	atom             ids.PredicateID
	ifTrue, ifAmbig, ifFalse ID
}

// Oracle maps a predicate to its ternary truth value, independent of any
// particular TDD node — it is the thing §4.B's evaluate() consults at
// each atom.
type Oracle interface {
	Evaluate(p ids.PredicateID) Value
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(ids.PredicateID) Value

func (f OracleFunc) Evaluate(p ids.PredicateID) Value { return f(p) }

// Arena owns the interned universe of TDD nodes for one engine instance.
// All operations are memoized and nodes are append-only once published.
// Arena holds no lock and is not safe for concurrent use by multiple
// goroutines.
type Arena struct {
	nodes   []node      // index 0 unused; indices 1-3 are reserved leaves
	byKey   map[key]ID
	andMemo map[[2]ID]ID
	orMemo  map[[2]ID]ID
	notMemo map[ID]ID
}

// NewArena creates an Arena seeded with the three reserved leaves.
func NewArena() *Arena {
	return &Arena{
		nodes:   make([]node, firstInterior),
		byKey:   make(map[key]ID),
		andMemo: make(map[[2]ID]ID),
		orMemo:  make(map[[2]ID]ID),
		notMemo: make(map[ID]ID),
	}
}

// NewAtom returns the TDD id for the constraint "p is AlwaysTrue", a single
// interior node with one branch per outcome routed to the matching leaf.
func (a *Arena) NewAtom(p ids.PredicateID) ID {
	return a.makeNode(p, IDAlwaysTrue, IDAmbiguous, IDAlwaysFalse)
}

// makeNode builds (or finds, or reduces) the interior node for atom with
// the given three branches, enforcing reduction and ordering (the normal
// form: a node whose branches are all equal collapses to that branch; nodes
// are only ever constructed with strictly increasing atom IDs along any
// root-to-leaf path, which callers (and/or/not below) maintain by
// always branching on the smaller of the two input nodes' atoms first.
func (a *Arena) makeNode(atom ids.PredicateID, ifTrue, ifAmbig, ifFalse ID) ID {
	if ifTrue == ifAmbig && ifAmbig == ifFalse {
		return ifTrue
	}
	k := key{atom: atom, ifTrue: ifTrue, ifAmbig: ifAmbig, ifFalse: ifFalse}
	if id, ok := a.byKey[k]; ok {
		return id
	}
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, node{atom: atom, ifTrue: ifTrue, ifAmbig: ifAmbig, ifFalse: ifFalse})
	a.byKey[k] = id
	return id
}

func (a *Arena) get(id ID) (node, bool) {
	if int(id) < int(firstInterior) || int(id) >= len(a.nodes) {
		return node{}, false
	}
	return a.nodes[id], true
}

func orderedPair(a, b ID) [2]ID {
	if a <= b {
		return [2]ID{a, b}
	}
	return [2]ID{b, a}
}

// Not computes the involutive negation of id: swap the AlwaysTrue/AlwaysFalse
// leaves and recurse through every interior node, keeping Ambiguous fixed.
func (a *Arena) Not(id ID) ID {
	switch id {
	case IDAlwaysTrue:
		return IDAlwaysFalse
	case IDAlwaysFalse:
		return IDAlwaysTrue
	case IDAmbiguous:
		return IDAmbiguous
	}
	if cached, ok := a.notMemo[id]; ok {
		return cached
	}
	n, ok := a.get(id)
	if !ok {
		return IDAmbiguous
	}
	result := a.makeNode(n.atom, a.Not(n.ifTrue), a.Not(n.ifAmbig), a.Not(n.ifFalse))
	a.notMemo[id] = result
	return result
}

// And computes the conjunction of two TDDs. Commutative; cached under the
// ordered pair.
func (a *Arena) And(x, y ID) ID {
	if x == IDAlwaysFalse || y == IDAlwaysFalse {
		return IDAlwaysFalse
	}
	if x == IDAlwaysTrue {
		return y
	}
	if y == IDAlwaysTrue {
		return x
	}
	if x == y {
		return x
	}
	pair := orderedPair(x, y)
	if cached, ok := a.andMemo[pair]; ok {
		return cached
	}
	result := a.combine(x, y, a.And)
	a.andMemo[pair] = result
	return result
}

// Or computes the disjunction of two TDDs. Commutative; cached under the
// ordered pair.
func (a *Arena) Or(x, y ID) ID {
	if x == IDAlwaysTrue || y == IDAlwaysTrue {
		return IDAlwaysTrue
	}
	if x == IDAlwaysFalse {
		return y
	}
	if y == IDAlwaysFalse {
		return x
	}
	if x == y {
		return x
	}
	pair := orderedPair(x, y)
	if cached, ok := a.orMemo[pair]; ok {
		return cached
	}
	result := a.combine(x, y, a.Or)
	a.orMemo[pair] = result
	return result
}

// combine performs the shared Shannon-expansion structure for And/Or:
// recurse on whichever side has the smaller atom ID (ordering invariant),
// holding the other side fixed across branches it doesn't mention.
func (a *Arena) combine(x, y ID, op func(ID, ID) ID) ID {
	nx, xInterior := a.get(x)
	ny, yInterior := a.get(y)
	switch {
	case xInterior && (!yInterior || nx.atom <= ny.atom):
		if xInterior && yInterior && nx.atom == ny.atom {
			return a.makeNode(nx.atom, op(nx.ifTrue, ny.ifTrue), op(nx.ifAmbig, ny.ifAmbig), op(nx.ifFalse, ny.ifFalse))
		}
		return a.makeNode(nx.atom, op(nx.ifTrue, y), op(nx.ifAmbig, y), op(nx.ifFalse, y))
	case yInterior:
		return a.makeNode(ny.atom, op(x, ny.ifTrue), op(x, ny.ifAmbig), op(x, ny.ifFalse))
	default:
		// neither interior: both must be reserved leaves, already handled by
		// the short-circuit checks in And/Or before combine is ever called.
		return IDAmbiguous
	}
}

// Evaluate walks id against oracle, returning the ternary outcome.
func (a *Arena) Evaluate(id ID, oracle Oracle) Value {
	switch id {
	case IDAlwaysTrue:
		return AlwaysTrue
	case IDAlwaysFalse:
		return AlwaysFalse
	case IDAmbiguous:
		return Ambiguous
	}
	n, ok := a.get(id)
	if !ok {
		return Ambiguous
	}
	switch oracle.Evaluate(n.atom) {
	case AlwaysTrue:
		return a.Evaluate(n.ifTrue, oracle)
	case AlwaysFalse:
		return a.Evaluate(n.ifFalse, oracle)
	default:
		return a.Evaluate(n.ifAmbig, oracle)
	}
}

// IsAlwaysTrue is the §4.B shortcut: a constraint is statically-always-true
// iff its id is the reserved ALWAYS_TRUE id.
func IsAlwaysTrue(id ID) bool { return id == IDAlwaysTrue }

// IsAlwaysFalse mirrors IsAlwaysTrue for the ALWAYS_FALSE leaf.
func IsAlwaysFalse(id ID) bool { return id == IDAlwaysFalse }
