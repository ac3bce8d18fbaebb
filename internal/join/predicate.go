package join

import (
	"time"

	"github.com/accented-ai/corpusql/internal/query"
)

// Predicate decides whether a left row and a right row satisfy a join
// predicate over the given key columns (spec §4.9 join predicates: EQUAL,
// CONTAINS, CONTAINED_BY, INTERSECT, PROXIMITY(n)).
type Predicate func(left, right Row, leftKey, rightKey string, proximityN int) bool

// Registry holds, per JoinPredicateKind, one or more named strategies and
// which one is active. Mirrors the teacher's executor strategy-selection
// idiom: a fixed heuristic dispatch, not a cost-based optimizer (the latter
// is explicitly out of scope).
type Registry struct {
	strategies map[query.JoinPredicateKind]map[string]Predicate
	active     map[query.JoinPredicateKind]string
}

// NewRegistry builds a Registry pre-populated with the naive O(n·m)
// strategy for every predicate kind, each made active by default.
func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[query.JoinPredicateKind]map[string]Predicate),
		active:     make(map[query.JoinPredicateKind]string),
	}
	r.register(query.JoinEqual, "naive", equalPredicate)
	r.register(query.JoinContains, "naive", containsPredicate)
	r.register(query.JoinContainedBy, "naive", containedByPredicate)
	r.register(query.JoinIntersect, "naive", intersectPredicate)
	r.register(query.JoinProximity, "naive", proximityPredicate)
	for kind := range r.strategies {
		r.active[kind] = "naive"
	}
	return r
}

func (r *Registry) register(kind query.JoinPredicateKind, name string, p Predicate) {
	if r.strategies[kind] == nil {
		r.strategies[kind] = make(map[string]Predicate)
	}
	r.strategies[kind][name] = p
}

// Register adds a named strategy for a predicate kind without activating
// it; call SetActive to switch.
func (r *Registry) Register(kind query.JoinPredicateKind, name string, p Predicate) {
	r.register(kind, name, p)
}

// SetActive switches which named strategy is used for a predicate kind.
// Returns false if the name was never registered.
func (r *Registry) SetActive(kind query.JoinPredicateKind, name string) bool {
	if _, ok := r.strategies[kind][name]; !ok {
		return false
	}
	r.active[kind] = name
	return true
}

// Active returns the currently active strategy for kind, or false if none
// is registered.
func (r *Registry) Active(kind query.JoinPredicateKind) (Predicate, bool) {
	name, ok := r.active[kind]
	if !ok {
		return nil, false
	}
	p, ok := r.strategies[kind][name]
	return p, ok
}

// Names lists every registered strategy name for kind.
func (r *Registry) Names(kind query.JoinPredicateKind) []string {
	var names []string
	for name := range r.strategies[kind] {
		names = append(names, name)
	}
	return names
}

func columnValue(row Row, key string) (interface{}, bool) {
	v, ok := row[key]
	return v, ok
}

func equalPredicate(left, right Row, leftKey, rightKey string, _ int) bool {
	lv, lok := columnValue(left, leftKey)
	rv, rok := columnValue(right, rightKey)
	if !lok || !rok {
		return false
	}
	lt, lIsDate := ColumnAsDate(lv)
	rt, rIsDate := ColumnAsDate(rv)
	if lIsDate && rIsDate {
		return lt.Equal(rt)
	}
	return lv == rv
}

// containsPredicate treats a point-date left value as a degenerate range
// and falls back to equality, per spec §4.9's note that CONTAINS/
// CONTAINED_BY behave as equality when both sides are single dates rather
// than ranges (this engine has no native date-range value).
func containsPredicate(left, right Row, leftKey, rightKey string, n int) bool {
	return equalPredicate(left, right, leftKey, rightKey, n)
}

func containedByPredicate(left, right Row, leftKey, rightKey string, n int) bool {
	return equalPredicate(left, right, leftKey, rightKey, n)
}

func intersectPredicate(left, right Row, leftKey, rightKey string, n int) bool {
	return equalPredicate(left, right, leftKey, rightKey, n)
}

// proximityPredicate matches when the two date columns are within n days
// of each other.
func proximityPredicate(left, right Row, leftKey, rightKey string, n int) bool {
	lv, lok := columnValue(left, leftKey)
	rv, rok := columnValue(right, rightKey)
	if !lok || !rok {
		return false
	}
	lt, lIsDate := ColumnAsDate(lv)
	rt, rIsDate := ColumnAsDate(rv)
	if !lIsDate || !rIsDate {
		return false
	}
	diff := lt.Sub(rt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(n)*24*time.Hour
}
