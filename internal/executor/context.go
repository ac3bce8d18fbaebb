// Package executor implements the condition-executor dispatch (spec §2,
// §4.2-§4.6): one executor per predicate kind, each exposing the uniform
// contract Execute(ctx, condition, access, granularity, window) ->
// match.Result. Structured after the teacher's Context/annotation split
// (datalog/executor/context.go) but scoped down to this engine's fixed
// predicate set — there is no cost-based planner here (spec §1 Non-goal).
package executor

import (
	stdctx "context"
	"fmt"

	"github.com/accented-ai/corpusql/internal/annotations"
	"github.com/accented-ai/corpusql/internal/engineerr"
)

// Context carries the caller's cancellation signal and an optional
// annotation collector through a single query's execution. It is cheap to
// construct and safe to pass by value (it only holds references).
type Context struct {
	Std       stdctx.Context
	Collector *annotations.Collector
}

// NewContext creates a Context with no annotation collection. Cancellation
// always checks std (use context.Background() for "never cancel").
func NewContext(std stdctx.Context) Context {
	if std == nil {
		std = stdctx.Background()
	}
	return Context{Std: std}
}

// WithCollector returns a copy of ctx that records events to handler.
func (c Context) WithCollector(handler annotations.Handler) Context {
	c.Collector = annotations.NewCollector(handler)
	return c
}

// CheckCancelled returns engineerr.ErrCancelled (wrapped) if the caller's
// cancellation signal has fired; nil otherwise. Called between top-level
// condition evaluations and between iterator batches, per spec §5.
func (c Context) CheckCancelled() error {
	select {
	case <-c.Std.Done():
		return fmt.Errorf("execution cancelled: %w", engineerr.ErrCancelled)
	default:
		return nil
	}
}

// Annotate records an event if a collector is attached; otherwise it's a
// no-op (nil-safe).
func (c Context) Annotate(name string, data map[string]interface{}) {
	c.Collector.Add(annotations.Event{Name: name, Data: data})
}
