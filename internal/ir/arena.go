package ir

import (
	"sync"

	"github.com/sunholo/tycore/internal/ids"
)

// Arena assigns stable ids.ExprID handles to Expr nodes, the same role
// AILANG's internal/sid stable-id scheme plays for Core IR nodes: callers
// never invent their own numbering, they register a node once and use the
// returned handle as the key into every downstream table (place table,
// use-def map, inference results, diagnostics).
type Arena struct {
	mu     sync.Mutex
	byExpr map[Expr]ids.ExprID
	byID   []Expr // index 0 unused, ids start at 1
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{byExpr: make(map[Expr]ids.ExprID), byID: []Expr{nil}}
}

// Intern assigns e a stable id, returning the existing one on a repeat call
// with the same node (pointer identity, since every Expr variant here is a
// pointer receiver type).
func (a *Arena) Intern(e Expr) ids.ExprID {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.byExpr[e]; ok {
		return id
	}
	id := ids.ExprID(len(a.byID))
	a.byID = append(a.byID, e)
	a.byExpr[e] = id
	return id
}

// Get returns the node registered under id, or nil if id is unknown.
func (a *Arena) Get(id ids.ExprID) Expr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(id) <= 0 || int(id) >= len(a.byID) {
		return nil
	}
	return a.byID[id]
}

// Len reports how many nodes have been interned.
func (a *Arena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byID) - 1
}

// Walk registers e and, recursively, every subexpression it holds —
// including Lambda bodies and every element of Compare/BoolOp slices — so a
// caller can intern a whole synthetic program in one call. For a Lambda only
// the body is walked.
func (a *Arena) Walk(e Expr) ids.ExprID {
	if e == nil {
		return 0
	}
	switch n := e.(type) {
	case *Attribute:
		a.Walk(n.Value)
	case *Subscript:
		a.Walk(n.Value)
		a.Walk(n.Index)
	case *Slice:
		a.Walk(n.Start)
		a.Walk(n.Stop)
		a.Walk(n.Step)
	case *Tuple:
		for _, elt := range n.Elts {
			a.Walk(elt)
		}
	case *List:
		for _, elt := range n.Elts {
			a.Walk(elt)
		}
	case *Starred:
		a.Walk(n.Value)
	case *Call:
		a.Walk(n.Func)
		for _, arg := range n.Args {
			a.Walk(arg.Value)
		}
	case *BinOp:
		a.Walk(n.Left)
		a.Walk(n.Right)
	case *UnaryOp:
		a.Walk(n.Operand)
	case *BoolOp:
		for _, v := range n.Values {
			a.Walk(v)
		}
	case *Compare:
		a.Walk(n.Left)
		for _, c := range n.Comparators {
			a.Walk(c)
		}
	case *IfExp:
		a.Walk(n.Test)
		a.Walk(n.Body)
		a.Walk(n.Orelse)
	case *Lambda:
		a.Walk(n.Body)
	case *StringAnnotation:
		a.Walk(n.Inner)
	}
	return a.Intern(e)
}
