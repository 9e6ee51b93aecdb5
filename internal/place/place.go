// Package place implements the place table and semantic index:
// per-scope tables of places (name/attribute/subscript access paths), their
// flags, the scope tree, the use-def map and the reachability/predicate
// arenas a file's semantic analysis publishes for the inference engine to
// consume. Grounded on AILANG's internal/core node/id scheme
// (internal/core/core.go) and internal/sid's stable-id allocation idiom,
// adapted from an evaluator's node table to a flow-insensitive place table.
package place

import (
	"strings"

	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/reach"
)

// ScopeKind is the kind of node in the scope tree.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeClass
	ScopeFunction
	ScopeLambda
	ScopeComprehension
	ScopeTypeAlias
	ScopeAnnotation
)

// Scope is a node in the scope tree.
type Scope struct {
	ID       ids.ScopeID
	Parent   ids.ScopeID // ids.NoScope for the module root
	Kind     ScopeKind
	Name     string
	Guard    reach.ID // scope-level reachability constraint
	IsMethod bool     // true for a function scope directly nested in a class
}

// DefKind is the kind of binding/declaration site.
type DefKind int

const (
	DefAssignment DefKind = iota
	DefAnnotation
	DefForTarget
	DefParameter
	DefImport
	DefClass
	DefFunction
	DefTypeAlias
	DefAugmentedAssign
	DefImplicitUnbound // the synthetic "start of scope" binding
)

// Definition is a binding or declaration site for a place.
type Definition struct {
	ID    ids.DefID
	Place ids.PlaceID
	Scope ids.ScopeID
	Kind  DefKind
	Expr  ids.ExprID // 0 if this definition has no associated value expression
}

// Flags are the per-place boolean attributes tracked for narrowing/resolution.
type Flags struct {
	Used                bool
	Bound               bool
	Declared            bool
	MarkedGlobal        bool
	MarkedNonlocal      bool
	IsInstanceAttribute bool
}

// Place is an access path rooted at a name, with zero or more `.member`/
// `[key]` segments.
type Place struct {
	ID      ids.PlaceID
	Scope   ids.ScopeID
	Root    string
	Path    string // canonical rendering of the full access path
	Flags   Flags
	Parent  ids.PlaceID // the immediate proper-prefix place, 0 for a bare name
}

// segmentKind distinguishes the three path-segment shapes a place can add.
type segmentKind int

const (
	segAttr segmentKind = iota
	segIntSub
	segStrSub
)

type pathKey struct {
	scope ids.ScopeID
	path  string
}

// Table is one scope's place table: the indexed place vector plus the
// name/path lookup index.
type Table struct {
	scope       ids.ScopeID
	places      []*Place // index 0 unused
	byPath      map[pathKey]ids.PlaceID
}

// NewTable creates an empty Table for scope.
func NewTable(scope ids.ScopeID) *Table {
	return &Table{scope: scope, places: []*Place{nil}, byPath: make(map[pathKey]ids.PlaceID)}
}

// AddSymbol registers (or finds) the plain-name place for name.
func (t *Table) AddSymbol(name string) ids.PlaceID {
	return t.addPath(name, 0, "")
}

// AddAttribute registers (or finds) `parent.member` given parent's id.
func (t *Table) AddAttribute(parent ids.PlaceID, member string) ids.PlaceID {
	pp := t.places[parent]
	return t.addPath(pp.Root, parent, "."+member)
}

// AddIntSubscript registers (or finds) `parent[n]`.
func (t *Table) AddIntSubscript(parent ids.PlaceID, n int64) ids.PlaceID {
	pp := t.places[parent]
	return t.addPath(pp.Root, parent, fmtIntSub(n))
}

// AddStrSubscript registers (or finds) `parent["s"]`.
func (t *Table) AddStrSubscript(parent ids.PlaceID, s string) ids.PlaceID {
	pp := t.places[parent]
	return t.addPath(pp.Root, parent, "[\""+s+"\"]")
}

func fmtIntSub(n int64) string {
	var b strings.Builder
	b.WriteByte('[')
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	b.WriteString(itoa(n))
	b.WriteByte(']')
	return b.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// addPath is the shared implementation behind AddSymbol/AddAttribute/
// AddIntSubscript/AddStrSubscript: it records the new place. Adding a path
// automatically associates the IDs of all its proper prefix paths — every
// prefix is itself already a place in the table by construction, since
// callers always add a parent before adding one of its children.
func (t *Table) addPath(root string, parent ids.PlaceID, suffix string) ids.PlaceID {
	fullPath := root + suffix
	if parent != 0 {
		fullPath = t.places[parent].Path + suffix
	} else {
		fullPath = root
	}
	key := pathKey{scope: t.scope, path: fullPath}
	if id, ok := t.byPath[key]; ok {
		return id
	}
	id := ids.PlaceID(len(t.places))
	p := &Place{ID: id, Scope: t.scope, Root: root, Path: fullPath, Parent: parent}
	t.places = append(t.places, p)
	t.byPath[key] = id
	return id
}

// Lookup finds a place by its canonical path (a bare name coincides with a
// zero-segment lookup).
func (t *Table) Lookup(path string) (ids.PlaceID, bool) {
	id, ok := t.byPath[pathKey{scope: t.scope, path: path}]
	return id, ok
}

// Get returns the Place for id.
func (t *Table) Get(id ids.PlaceID) *Place {
	if int(id) <= 0 || int(id) >= len(t.places) {
		return nil
	}
	return t.places[id]
}

// Symbols returns every plain-name place (the "symbols view").
func (t *Table) Symbols() []*Place {
	var out []*Place
	for _, p := range t.places[1:] {
		if p.Parent == 0 {
			out = append(out, p)
		}
	}
	return out
}

// InstanceAttributes returns every place flagged by MarkInstanceAttribute
// (by convention `<first param>.<name>` paths inside a method scope) — the
// "instance attributes view".
func (t *Table) InstanceAttributes() []*Place {
	var out []*Place
	for _, p := range t.places[1:] {
		if p.Flags.IsInstanceAttribute {
			out = append(out, p)
		}
	}
	return out
}

// MarkBound, MarkDeclared, MarkUsed, MarkGlobal, MarkNonlocal and
// MarkInstanceAttribute flip the corresponding Flags bit.
func (t *Table) MarkBound(id ids.PlaceID)              { t.places[id].Flags.Bound = true }
func (t *Table) MarkDeclared(id ids.PlaceID)           { t.places[id].Flags.Declared = true }
func (t *Table) MarkUsed(id ids.PlaceID)               { t.places[id].Flags.Used = true }
func (t *Table) MarkGlobal(id ids.PlaceID)             { t.places[id].Flags.MarkedGlobal = true }
func (t *Table) MarkNonlocal(id ids.PlaceID)           { t.places[id].Flags.MarkedNonlocal = true }
func (t *Table) MarkInstanceAttribute(id ids.PlaceID)  { t.places[id].Flags.IsInstanceAttribute = true }

// Len returns the number of places registered, excluding the unused zero slot.
func (t *Table) Len() int { return len(t.places) - 1 }
