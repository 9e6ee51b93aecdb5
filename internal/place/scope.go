package place

import "github.com/sunholo/tycore/internal/ids"

// ScopeTree is the full scope hierarchy plus per-scope place tables for one
// file — the semantic index the place resolver and inference engine are
// built against.
type ScopeTree struct {
	scopes    []*Scope // index 0 unused
	tables    map[ids.ScopeID]*Table
	nodeScope map[ids.ExprID]ids.ScopeID
	generator map[ids.ScopeID]bool // the "generator-function set"
	useDef    *UseDefMap
}

// NewScopeTree creates a tree with a single module-root scope.
func NewScopeTree() *ScopeTree {
	t := &ScopeTree{
		scopes:    []*Scope{nil},
		tables:    make(map[ids.ScopeID]*Table),
		nodeScope: make(map[ids.ExprID]ids.ScopeID),
		generator: make(map[ids.ScopeID]bool),
		useDef:    NewUseDefMap(),
	}
	t.addScope(ids.NoScope, ScopeModule, "<module>")
	return t
}

// AddScope creates a new child scope under parent and returns its id, along
// with a fresh place table for it.
func (t *ScopeTree) AddScope(parent ids.ScopeID, kind ScopeKind, name string) ids.ScopeID {
	return t.addScope(parent, kind, name)
}

func (t *ScopeTree) addScope(parent ids.ScopeID, kind ScopeKind, name string) ids.ScopeID {
	id := ids.ScopeID(len(t.scopes))
	s := &Scope{ID: id, Parent: parent, Kind: kind, Name: name, IsMethod: kind == ScopeFunction && parent != ids.NoScope && t.kindOf(parent) == ScopeClass}
	t.scopes = append(t.scopes, s)
	t.tables[id] = NewTable(id)
	return id
}

func (t *ScopeTree) kindOf(id ids.ScopeID) ScopeKind {
	if int(id) <= 0 || int(id) >= len(t.scopes) {
		return ScopeModule
	}
	return t.scopes[id].Kind
}

// Root is the module scope's id, always 1 (0 is reserved as ids.NoScope).
func (t *ScopeTree) Root() ids.ScopeID { return ids.ScopeID(1) }

// Scope returns the Scope node for id.
func (t *ScopeTree) Scope(id ids.ScopeID) *Scope {
	if int(id) <= 0 || int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// Table returns the place table owned by scope id.
func (t *ScopeTree) Table(id ids.ScopeID) *Table { return t.tables[id] }

// Ancestors returns id's scope-parent chain, innermost first, ending at the
// module root.
func (t *ScopeTree) Ancestors(id ids.ScopeID) []ids.ScopeID {
	var out []ids.ScopeID
	for cur := id; cur != ids.NoScope; {
		out = append(out, cur)
		s := t.Scope(cur)
		if s == nil {
			break
		}
		cur = s.Parent
	}
	return out
}

// EnclosingFunctionScopes returns the chain of function/lambda scopes
// strictly enclosing id, innermost first — the scopes a `nonlocal`
// declaration may bind through.
func (t *ScopeTree) EnclosingFunctionScopes(id ids.ScopeID) []ids.ScopeID {
	var out []ids.ScopeID
	s := t.Scope(id)
	if s == nil {
		return nil
	}
	for cur := s.Parent; cur != ids.NoScope; {
		cs := t.Scope(cur)
		if cs == nil {
			break
		}
		if cs.Kind == ScopeFunction || cs.Kind == ScopeLambda {
			out = append(out, cur)
		}
		cur = cs.Parent
	}
	return out
}

// MarkGenerator records that scope id contains a `yield`, making it a
// generator function for the purposes of definite-assignment narrowing.
func (t *ScopeTree) MarkGenerator(id ids.ScopeID) { t.generator[id] = true }

// IsGenerator reports whether scope id was marked by MarkGenerator.
func (t *ScopeTree) IsGenerator(id ids.ScopeID) bool { return t.generator[id] }

// BindNode records which scope an expression node belongs to (the
// AST-node-to-scope map).
func (t *ScopeTree) BindNode(expr ids.ExprID, scope ids.ScopeID) { t.nodeScope[expr] = scope }

// ScopeOf looks up the scope an expression was bound to via BindNode.
func (t *ScopeTree) ScopeOf(expr ids.ExprID) (ids.ScopeID, bool) {
	s, ok := t.nodeScope[expr]
	return s, ok
}

// UseDef returns the tree's use-def map.
func (t *ScopeTree) UseDef() *UseDefMap { return t.useDef }
