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

func putDate(t *testing.T, store *memindex.Store, date string, docID int) {
	t.Helper()
	store.Put(index.NerDate, index.ComposeKey("DATE", date), position.List{
		position.New(docID, position.DocumentLevel, 0, 1, time.Time{}),
	})
}

func TestTemporalBefore(t *testing.T) {
	store := memindex.New(index.NerDate)
	putDate(t, store, "2020-01-01", 1)
	putDate(t, store, "2020-06-01", 2)

	cond := &query.TemporalCondition{Op: query.OpBefore, Date: "2020-03-01"}
	ctx := NewContext(nil)
	result, err := (TemporalExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, 1, result.Details[0].Position.DocID)
}

func TestTemporalAfter(t *testing.T) {
	store := memindex.New(index.NerDate)
	putDate(t, store, "2020-01-01", 1)
	putDate(t, store, "2020-06-01", 2)

	cond := &query.TemporalCondition{Op: query.OpAfter, Date: "2020-03-01"}
	ctx := NewContext(nil)
	result, err := (TemporalExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, 2, result.Details[0].Position.DocID)
}

func TestTemporalEqual(t *testing.T) {
	store := memindex.New(index.NerDate)
	putDate(t, store, "2020-01-01", 1)
	putDate(t, store, "2020-06-01", 2)

	cond := &query.TemporalCondition{Op: query.OpEqual, Date: "2020-01-01"}
	ctx := NewContext(nil)
	result, err := (TemporalExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, 1, result.Details[0].Position.DocID)
}

func TestTemporalBetween(t *testing.T) {
	store := memindex.New(index.NerDate)
	putDate(t, store, "2020-01-01", 1)
	putDate(t, store, "2020-03-01", 2)
	putDate(t, store, "2020-12-01", 3)

	cond := &query.TemporalCondition{Op: query.OpBetween, Date: "2020-02-01", Date2: "2020-06-01"}
	ctx := NewContext(nil)
	result, err := (TemporalExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, 2, result.Details[0].Position.DocID)
}

func TestTemporalNearWithinRadius(t *testing.T) {
	store := memindex.New(index.NerDate)
	putDate(t, store, "2020-01-01", 1)
	putDate(t, store, "2020-01-10", 2)

	cond := &query.TemporalCondition{Op: query.OpNear, Date: "2020-01-03", Radius: 5, RadiusUnit: query.UnitDay}
	ctx := NewContext(nil)
	result, err := (TemporalExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, 1, result.Details[0].Position.DocID)
}

func TestTemporalDateVariableBindsParsedDates(t *testing.T) {
	store := memindex.New(index.NerDate)
	putDate(t, store, "2020-01-01", 1)
	putDate(t, store, "2020-06-01", 2)

	cond := &query.TemporalCondition{Op: query.OpBefore, Date: "2025-01-01", Variable: "d"}
	ctx := NewContext(nil)
	result, err := (TemporalExecutor{}).Execute(ctx, cond, store, query.Document, 0)
	require.NoError(t, err)
	require.Len(t, result.Details, 2)
	for _, d := range result.Details {
		assert.Equal(t, "d", d.VariableName)
	}
}

func TestParseRadiusParsesUnitsAndRejectsGarbage(t *testing.T) {
	n, unit, err := ParseRadius("5day")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, query.UnitDay, unit)

	n, unit, err = ParseRadius("2weeks")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, query.UnitWeek, unit)

	_, _, err = ParseRadius("nope")
	assert.Error(t, err)

	_, _, err = ParseRadius("3fortnights")
	assert.Error(t, err)
}
