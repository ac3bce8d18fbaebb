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

func TestNerExactProbe(t *testing.T) {
	store := memindex.New(index.Ner)
	store.Put(index.Ner, index.ComposeKey("PERSON", "Ahab"), position.List{
		position.New(1, position.DocumentLevel, 0, 1, time.Time{}),
	})

	cond := &query.NerCondition{EntityType: "PERSON", Value: query.Lit("Ahab")}
	ctx := NewContext(nil)
	result, err := (NerExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	assert.Len(t, result.Details, 1)
}

func TestNerWildcardTypeVariableValueBindsEveryType(t *testing.T) {
	store := memindex.New(index.Ner)
	store.Put(index.Ner, index.ComposeKey("PERSON", "Ahab"), position.List{position.New(1, position.DocumentLevel, 0, 1, time.Time{})})
	store.Put(index.Ner, index.ComposeKey("ORG", "Pequod"), position.List{position.New(2, position.DocumentLevel, 0, 1, time.Time{})})

	cond := &query.NerCondition{EntityType: "*", Value: query.Var("v")}
	ctx := NewContext(nil)
	result, err := (NerExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 2)
	for _, d := range result.Details {
		assert.Equal(t, "v", d.VariableName)
	}
}

func TestNerWildcardTypeLiteralValueFiltersToThatValue(t *testing.T) {
	store := memindex.New(index.Ner)
	store.Put(index.Ner, index.ComposeKey("PERSON", "Alice"), position.List{position.New(1, position.DocumentLevel, 0, 1, time.Time{})})
	store.Put(index.Ner, index.ComposeKey("ORG", "Alice"), position.List{position.New(2, position.DocumentLevel, 0, 1, time.Time{})})
	store.Put(index.Ner, index.ComposeKey("PERSON", "Bob"), position.List{position.New(3, position.DocumentLevel, 0, 1, time.Time{})})

	cond := &query.NerCondition{EntityType: "*", Value: query.Lit("Alice")}
	ctx := NewContext(nil)
	result, err := (NerExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 2)
	docs := map[int]bool{}
	for _, d := range result.Details {
		docs[d.Position.DocID] = true
	}
	assert.True(t, docs[1])
	assert.True(t, docs[2])
	assert.False(t, docs[3])
}

func TestNerVariableValueFixedTypeScansOnlyThatType(t *testing.T) {
	store := memindex.New(index.Ner)
	store.Put(index.Ner, index.ComposeKey("PERSON", "Ahab"), position.List{position.New(1, position.DocumentLevel, 0, 1, time.Time{})})
	store.Put(index.Ner, index.ComposeKey("ORG", "Pequod"), position.List{position.New(2, position.DocumentLevel, 0, 1, time.Time{})})

	cond := &query.NerCondition{EntityType: "PERSON", Value: query.Var("v")}
	ctx := NewContext(nil)
	result, err := (NerExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "Ahab", result.Details[0].Value)
}

func TestNerNoMatchReturnsEmpty(t *testing.T) {
	store := memindex.New(index.Ner)
	cond := &query.NerCondition{EntityType: "PERSON", Value: query.Lit("Nobody")}
	ctx := NewContext(nil)
	result, err := (NerExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Details)
}
