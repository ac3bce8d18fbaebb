package join

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/position"
	"github.com/accented-ai/corpusql/internal/query"
)

func TestMaterializeGroupsByDocument(t *testing.T) {
	result := match.Result{
		Granularity: match.Document,
		Details: []match.Detail{
			{Value: "2020-01-01", VariableName: "d", ValueType: match.ValueDate, Position: position.Position{DocID: 1, SentID: position.DocumentLevel}},
			{Value: "2020-02-01", VariableName: "d", ValueType: match.ValueDate, Position: position.Position{DocID: 2, SentID: position.DocumentLevel}},
		},
	}
	table := Materialize("a", result)
	assert.Equal(t, []string{DocumentIDColumn, "d"}, table.Columns)
	assert.Len(t, table.Rows, 2)
}

func TestJoinEqualOnDateColumn(t *testing.T) {
	left := Table{
		Alias:   "left",
		Columns: []string{DocumentIDColumn, "d"},
		Rows: []Row{
			{DocumentIDColumn: 1, "d": "2020-01-01"},
			{DocumentIDColumn: 2, "d": "2020-03-01"},
		},
	}
	right := Table{
		Alias:   "right",
		Columns: []string{DocumentIDColumn, "d"},
		Rows: []Row{
			{DocumentIDColumn: 10, "d": "2020-01-01"},
		},
	}
	reg := NewRegistry()
	jc := &query.JoinCondition{LeftAlias: "left", LeftKey: "d", RightAlias: "right", RightKey: "d", Type: query.InnerJoin, Predicate: query.JoinEqual}

	result, err := Join(reg, left, right, jc)
	require.NoError(t, err)
	assert.Len(t, result.Details, 1)
	assert.True(t, result.Details[0].IsJoinResult)
	assert.Equal(t, 10, result.Details[0].RightDocID)
}

func TestJoinProximityWithinRadius(t *testing.T) {
	left := Table{Columns: []string{DocumentIDColumn, "d"}, Rows: []Row{{DocumentIDColumn: 1, "d": "2020-01-01"}}}
	right := Table{Alias: "r", Columns: []string{DocumentIDColumn, "d"}, Rows: []Row{{DocumentIDColumn: 2, "d": "2020-01-03"}}}
	reg := NewRegistry()
	jc := &query.JoinCondition{LeftKey: "d", RightKey: "d", Predicate: query.JoinProximity, ProximityN: 5}

	result, err := Join(reg, left, right, jc)
	require.NoError(t, err)
	assert.Len(t, result.Details, 1)
}

func TestJoinLeftJoinKeepsUnmatchedLeftRows(t *testing.T) {
	left := Table{Columns: []string{DocumentIDColumn, "d"}, Rows: []Row{{DocumentIDColumn: 1, "d": "2020-01-01"}}}
	right := Table{Alias: "r", Columns: []string{DocumentIDColumn, "d"}, Rows: []Row{{DocumentIDColumn: 2, "d": "1999-01-01"}}}
	reg := NewRegistry()
	jc := &query.JoinCondition{LeftKey: "d", RightKey: "d", Type: query.LeftJoin, Predicate: query.JoinEqual}

	result, err := Join(reg, left, right, jc)
	require.NoError(t, err)
	require.Len(t, result.Details, 1)
	assert.Equal(t, -1, result.Details[0].RightDocID)
}

func TestColumnAsDateParsesISODate(t *testing.T) {
	d, ok := ColumnAsDate("2020-01-01")
	assert.True(t, ok)
	assert.Equal(t, 2020, d.Year())
}

func TestBenchmarkReturnsTimingPerStrategy(t *testing.T) {
	left := Table{Columns: []string{DocumentIDColumn, "d"}, Rows: []Row{{DocumentIDColumn: 1, "d": "2020-01-01"}}}
	right := Table{Columns: []string{DocumentIDColumn, "d"}, Rows: []Row{{DocumentIDColumn: 2, "d": "2020-01-01"}}}
	reg := NewRegistry()
	jc := &query.JoinCondition{LeftKey: "d", RightKey: "d", Predicate: query.JoinEqual}

	timings := Benchmark(reg, left, right, jc)
	require.Len(t, timings, 1)
	assert.Equal(t, "naive", timings[0].Name)
	assert.GreaterOrEqual(t, timings[0].Latency, time.Duration(0))
}
