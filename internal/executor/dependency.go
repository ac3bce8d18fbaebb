package executor

import (
	"fmt"
	"strings"

	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// DependencyExecutor implements DEPENDENCY(governor, relation, dependent)
// (spec §4.4). With a literal governor and dependent it is an exact probe;
// a variable dependent is handled by dependencyWithVariable, and a
// variable governor yields an empty result.
type DependencyExecutor struct{}

func (DependencyExecutor) Execute(ctx Context, cond query.Condition, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	c, ok := cond.(*query.DependencyCondition)
	if !ok {
		return match.Result{}, fmt.Errorf("dependency executor: unexpected condition type %T", cond)
	}
	gm := toMatchGranularity(gran)

	if c.Governor.IsVariable() || c.Dependent.IsVariable() {
		return dependencyWithVariable(ctx, c, access, gran, window)
	}

	relation := strings.ToLower(c.Relation)
	governor := strings.ToLower(c.Governor.Literal)
	dependent := strings.ToLower(c.Dependent.Literal)
	key := index.ComposeKey(relation, governor, dependent)

	list, found, err := access.Get(ctx.Std, index.Dependency, key)
	if err != nil {
		return match.Result{}, fmt.Errorf("dependency: probe: %w", err)
	}
	ctx.Annotate("condition/dependency.probe", map[string]interface{}{"key": string(key), "found": found})
	if !found {
		return match.Empty(gm, window), nil
	}

	composed := relation + " " + governor + " " + dependent
	details, err := emitFromPositions(ctx, list, gran, c.Tag(), "", composed, match.ValueDependency)
	if err != nil {
		return match.Result{}, err
	}
	return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
}

// dependencyWithVariable handles a DEPENDENCY with a variable argument.
// Only a literal governor with a variable dependent is executed: it
// prefix-scans relation\0governor\0 (the key's natural prefix) and binds
// each dependent. A variable governor is not a key prefix, so it degrades
// to an empty result (spec §4.4, §7 UNSUPPORTED convention).
func dependencyWithVariable(ctx Context, c *query.DependencyCondition, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	gm := toMatchGranularity(gran)

	if c.Governor.IsVariable() {
		// governor is not a key prefix component on its own; unsupported.
		return match.Empty(gm, window), nil
	}

	relation := strings.ToLower(c.Relation)
	governor := strings.ToLower(c.Governor.Literal)
	prefix := index.ComposeKey(relation, governor, "")

	it, err := index.SeekIterator(ctx.Std, access, index.Dependency, prefix)
	if err != nil {
		return match.Result{}, fmt.Errorf("dependency: prefix scan: %w", err)
	}
	defer it.Close()

	var details []match.Detail
	count := 0
	for it.Next() {
		count++
		if count%cancelBatch == 0 {
			if cerr := ctx.CheckCancelled(); cerr != nil {
				return match.Result{}, cerr
			}
		}
		entry := it.Entry()
		if !hasPrefix(entry.Key, prefix) {
			break
		}
		parts := index.SplitKey(entry.Key)
		if len(parts) != 3 {
			continue
		}
		dependent := parts[2]
		d, err := emitFromPositions(ctx, entry.Value, gran, c.Tag(), c.Dependent.Variable, dependent, match.ValueDependency)
		if err != nil {
			return match.Result{}, err
		}
		details = append(details, d...)
	}
	if err := it.Err(); err != nil {
		return match.Result{}, fmt.Errorf("dependency: iterate: %w", err)
	}
	return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
}
