package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/position"
	"github.com/accented-ai/corpusql/internal/query"
	"github.com/accented-ai/corpusql/internal/storage/memindex"
)

func TestDependencyExactProbe(t *testing.T) {
	store := memindex.New(index.Dependency)
	store.Put(index.Dependency, index.ComposeKey("nsubj", "chased", "ahab"), position.List{
		position.New(1, position.DocumentLevel, 0, 1, time.Time{}),
	})

	cond := &query.DependencyCondition{Relation: "nsubj", Governor: query.DepArg{Literal: "chased"}, Dependent: query.DepArg{Literal: "ahab"}}
	ctx := NewContext(nil)
	result, err := (DependencyExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	assert.Len(t, result.Details, 1)
}

func TestDependencyVariableDependentScansBoundGovernor(t *testing.T) {
	store := memindex.New(index.Dependency)
	store.Put(index.Dependency, index.ComposeKey("nsubj", "chased", "ahab"), position.List{position.New(1, position.DocumentLevel, 0, 1, time.Time{})})
	store.Put(index.Dependency, index.ComposeKey("nsubj", "chased", "whale"), position.List{position.New(2, position.DocumentLevel, 0, 1, time.Time{})})
	store.Put(index.Dependency, index.ComposeKey("nsubj", "fled", "whale"), position.List{position.New(3, position.DocumentLevel, 0, 1, time.Time{})})

	cond := &query.DependencyCondition{Relation: "nsubj", Governor: query.DepArg{Literal: "chased"}, Dependent: query.DepArg{Variable: "d"}}
	ctx := NewContext(nil)
	result, err := (DependencyExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 2)
	for _, d := range result.Details {
		assert.Equal(t, "d", d.VariableName)
	}
}

func TestDependencyVariableGovernorIsUnsupportedAndEmpty(t *testing.T) {
	store := memindex.New(index.Dependency)
	store.Put(index.Dependency, index.ComposeKey("nsubj", "chased", "ahab"), position.List{position.New(1, position.DocumentLevel, 0, 1, time.Time{})})

	cond := &query.DependencyCondition{Relation: "nsubj", Governor: query.DepArg{Variable: "g"}, Dependent: query.DepArg{Literal: "ahab"}}
	ctx := NewContext(nil)
	result, err := (DependencyExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Details)
}

func TestDependencyNoMatchReturnsEmpty(t *testing.T) {
	store := memindex.New(index.Dependency)
	cond := &query.DependencyCondition{Relation: "nsubj", Governor: query.DepArg{Literal: "nobody"}, Dependent: query.DepArg{Literal: "nothing"}}
	ctx := NewContext(nil)
	result, err := (DependencyExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Details)
}
