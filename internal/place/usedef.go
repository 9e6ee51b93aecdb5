package place

import (
	"github.com/sunholo/tycore/internal/ids"
	"github.com/sunholo/tycore/internal/reach"
)

// LiveDefinition is one entry in a use's live-definitions list: a binding
// that may reach this use, together with the narrowing predicate active on
// that path and the reachability constraint under which the binding itself
// is visible.
type LiveDefinition struct {
	Def        ids.DefID
	Narrowing  reach.ID // predicate refining the type along this path, IDAlwaysTrue if none
	Visibility reach.ID // the definition's own reachability constraint
}

// UseDefMap records, for every use of a place, the set of definitions that
// may reach it.
type UseDefMap struct {
	byUse map[ids.ExprID][]LiveDefinition
}

// NewUseDefMap creates an empty map.
func NewUseDefMap() *UseDefMap {
	return &UseDefMap{byUse: make(map[ids.ExprID][]LiveDefinition)}
}

// Record appends a live definition for use.
func (m *UseDefMap) Record(use ids.ExprID, ld LiveDefinition) {
	m.byUse[use] = append(m.byUse[use], ld)
}

// LiveAt returns the live definitions recorded for use, in recording order.
func (m *UseDefMap) LiveAt(use ids.ExprID) []LiveDefinition {
	return m.byUse[use]
}
