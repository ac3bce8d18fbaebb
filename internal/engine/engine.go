// Package engine implements the Executor Factory & Dispatch (spec §2, §9):
// the single recursive Execute that routes a query.Condition to the right
// atomic executor, boolean composer, or subquery join, and the top-level
// Run that drives a query.Query end to end through projection.
package engine

import (
	"fmt"

	"github.com/accented-ai/corpusql/internal/annotations"
	"github.com/accented-ai/corpusql/internal/corpus"
	"github.com/accented-ai/corpusql/internal/executor"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/join"
	"github.com/accented-ai/corpusql/internal/logical"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/projection"
	"github.com/accented-ai/corpusql/internal/query"
)

// Engine wires the atomic executors, the index access, the corpus stores,
// and the join strategy registry into one recursive evaluator.
type Engine struct {
	Access     index.Access
	Meta       corpus.MetadataStore
	Text       corpus.TextAccess
	JoinReg    *join.Registry
	containsEx executor.ContainsExecutor
	nerEx      executor.NerExecutor
	posEx      executor.PosExecutor
	depEx      executor.DependencyExecutor
	temporalEx executor.TemporalExecutor
}

// New builds an Engine ready to run queries against access, using meta/text
// for Result Projection's TITLE/TIMESTAMP/SNIPPET columns.
func New(access index.Access, meta corpus.MetadataStore, text corpus.TextAccess) *Engine {
	return &Engine{
		Access:  access,
		Meta:    meta,
		Text:    text,
		JoinReg: join.NewRegistry(),
	}
}

// Run executes q end to end: dispatch over q.Where, then Result Projection
// of q.Select/OrderBy/Limit.
func (e *Engine) Run(ctx executor.Context, q *query.Query) (projection.RowSet, error) {
	result, err := e.Evaluate(ctx, q)
	if err != nil {
		return projection.RowSet{}, err
	}
	return projection.Project(result, q, e.Meta, e.Text)
}

// Evaluate runs q.Where (or the universe, if q has no WHERE clause) and
// returns the raw match.Result before projection — the shape a nested
// subquery needs.
func (e *Engine) Evaluate(ctx executor.Context, q *query.Query) (match.Result, error) {
	ctx.Annotate(annotationQueryBegin, map[string]interface{}{"from": q.From, "granularity": q.Granularity.String()})
	if q.Where == nil {
		// The complement of an empty result is the whole universe.
		return logical.Not(ctx, match.Empty(toMatchGranularity(q.Granularity), q.WindowSize), e.Access, q.Granularity, q.WindowSize)
	}
	result, err := e.Execute(ctx, q.Where, q.Granularity, q.WindowSize)
	ctx.Annotate(annotationQueryComplete, map[string]interface{}{"count": len(result.Details)})
	return result, err
}

const (
	annotationQueryBegin    = annotations.QueryBegin
	annotationQueryComplete = annotations.QueryComplete
)

// Execute is the recursive dispatcher (spec §2's Executor Factory): it
// tags-switches on cond's concrete type and routes to the atomic
// executors (internal/executor), the boolean composer (internal/logical),
// or the subquery/join layer (internal/join). OR evaluates every child
// before combining; AND stops at the first child whose own result is empty,
// since the intersection can then only be empty.
func (e *Engine) Execute(ctx executor.Context, cond query.Condition, gran query.Granularity, window int) (match.Result, error) {
	if err := ctx.CheckCancelled(); err != nil {
		return match.Result{}, err
	}

	switch c := cond.(type) {
	case *query.ContainsCondition:
		return e.containsEx.Execute(ctx, c, e.Access, gran, window)
	case *query.NerCondition:
		return e.nerEx.Execute(ctx, c, e.Access, gran, window)
	case *query.PosCondition:
		return e.posEx.Execute(ctx, c, e.Access, gran, window)
	case *query.DependencyCondition:
		return e.depEx.Execute(ctx, c, e.Access, gran, window)
	case *query.TemporalCondition:
		return e.temporalEx.Execute(ctx, c, e.Access, gran, window)
	case *query.NotCondition:
		child, err := e.Execute(ctx, c.Child, gran, window)
		if err != nil {
			return match.Result{}, err
		}
		return logical.Not(ctx, child, e.Access, gran, window)
	case *query.LogicalCondition:
		return e.executeLogical(ctx, c, gran, window)
	case *query.SubqueryCondition:
		// A SubqueryCondition reached standalone (not inside an AND that
		// supplies a left table) has nothing to join against; it
		// degenerates to just running its own nested query.
		if c.Query == nil {
			return match.Result{}, fmt.Errorf("subquery %q: no nested query", c.Alias)
		}
		return e.Evaluate(ctx, c.Query)
	default:
		return match.Result{}, fmt.Errorf("engine: unrecognized condition type %T", cond)
	}
}

// executeLogical evaluates a LogicalCondition's children. A SubqueryCondition
// among an AND's children is handled specially (spec §4.9): the other
// children are executed and intersected first to form the join's left
// table, then each subquery child joins its own nested result against that
// left table. OR never contains a subquery in practice (subqueries always
// correlate to the conjunction they appear in), so subquery children under
// OR are simply executed standalone like any other child.
func (e *Engine) executeLogical(ctx executor.Context, c *query.LogicalCondition, gran query.Granularity, window int) (match.Result, error) {
	if c.Op == query.OpAnd {
		return e.executeAndWithSubqueries(ctx, c, gran, window)
	}

	results := make([]match.Result, 0, len(c.Children))
	for _, child := range c.Children {
		r, err := e.Execute(ctx, child, gran, window)
		if err != nil {
			return match.Result{}, err
		}
		results = append(results, r)
	}
	return logical.Or(results), nil
}

func (e *Engine) executeAndWithSubqueries(ctx executor.Context, c *query.LogicalCondition, gran query.Granularity, window int) (match.Result, error) {
	var plain []query.Condition
	var subqueries []*query.SubqueryCondition
	for _, child := range c.Children {
		if sq, ok := child.(*query.SubqueryCondition); ok {
			subqueries = append(subqueries, sq)
			continue
		}
		plain = append(plain, child)
	}

	results := make([]match.Result, 0, len(plain))
	for _, child := range plain {
		r, err := e.Execute(ctx, child, gran, window)
		if err != nil {
			return match.Result{}, err
		}
		results = append(results, r)
		if len(r.Details) == 0 {
			// Short-circuit: an already-empty AND cannot become non-empty,
			// and an empty left table joins to nothing either.
			return match.Empty(toMatchGranularity(gran), window), nil
		}
	}

	left := match.Empty(toMatchGranularity(gran), window)
	if len(results) > 0 {
		left = logical.And(results)
	}
	if len(subqueries) == 0 {
		return left, nil
	}

	runner := func(nested *query.Query) (match.Result, error) {
		return e.Evaluate(ctx, nested)
	}
	for _, sq := range subqueries {
		leftAlias := sq.Alias
		if sq.Join != nil && sq.Join.LeftAlias != "" {
			leftAlias = sq.Join.LeftAlias
		}
		leftTable := join.Materialize(leftAlias, left)
		joined, err := join.ExecuteSubquery(leftTable, runner, e.JoinReg, sq)
		if err != nil {
			return match.Result{}, err
		}
		left = joined
	}
	return left, nil
}

func toMatchGranularity(g query.Granularity) match.Granularity {
	if g == query.Sentence {
		return match.Sentence
	}
	return match.Document
}
