package join

import (
	"fmt"

	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// Runner executes a nested query.Query to a match.Result. The top-level
// engine package supplies this callback so that join never has to import
// the dispatcher (which in turn depends on join), avoiding an import
// cycle.
type Runner func(q *query.Query) (match.Result, error)

// ExecuteSubquery runs a SubqueryCondition against an already-materialized
// outer table (spec §4.9 SUBQUERY/JOIN): the inner query runs via runner,
// its result is pivoted into a Table aliased to sc.Alias, and the two
// tables are joined per sc.Join.
func ExecuteSubquery(outer Table, runner Runner, reg *Registry, sc *query.SubqueryCondition) (match.Result, error) {
	if sc.Query == nil {
		return match.Result{}, fmt.Errorf("join: subquery %q has no query", sc.Alias)
	}
	inner, err := runner(sc.Query)
	if err != nil {
		return match.Result{}, fmt.Errorf("join: subquery %q: %w", sc.Alias, err)
	}
	innerTable := Materialize(sc.Alias, inner)
	if sc.Join == nil {
		return match.Result{}, fmt.Errorf("join: subquery %q has no join condition", sc.Alias)
	}
	return Join(reg, outer, innerTable, sc.Join)
}
