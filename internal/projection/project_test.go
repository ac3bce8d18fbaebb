package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accented-ai/corpusql/internal/corpus"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/position"
	"github.com/accented-ai/corpusql/internal/query"
)

func buildResult() match.Result {
	return match.Result{
		Granularity: match.Document,
		Details: []match.Detail{
			{Value: "whale", VariableName: "w", Position: position.Position{DocID: 1, SentID: position.DocumentLevel}},
			{Value: "moby", VariableName: "w", Position: position.Position{DocID: 1, SentID: position.DocumentLevel}},
			{Value: "shark", VariableName: "w", Position: position.Position{DocID: 2, SentID: position.DocumentLevel}},
		},
	}
}

func TestProjectIdentifierAndVariableExpandsMultiValued(t *testing.T) {
	q := &query.Query{Select: []query.SelectColumn{query.Identifier("document_id"), query.VariableColumn("w")}}
	rs, err := Project(buildResult(), q, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"document_id", "w"}, rs.Columns)
	// doc 1 has 2 values for w -> 2 rows; doc 2 has 1 -> 1 row
	assert.Len(t, rs.Rows, 3)
}

func TestProjectTitleUsesMetadataStore(t *testing.T) {
	meta := corpus.NewMemoryStore()
	meta.PutMetadata(1, "Moby Dick", time.Date(1851, 10, 18, 0, 0, 0, 0, time.UTC))

	q := &query.Query{Select: []query.SelectColumn{query.Identifier("document_id"), query.Title()}}
	result := match.Result{Details: []match.Detail{
		{Position: position.Position{DocID: 1, SentID: position.DocumentLevel}},
	}}
	rs, err := Project(result, q, meta, nil)
	require.NoError(t, err)
	assert.Equal(t, "Moby Dick", rs.Rows[0][1])
}

func TestProjectCountStar(t *testing.T) {
	// buildResult has 3 Details but only 2 distinct (doc,sent) groups
	// (doc 1 has two variable bindings at the same position); COUNT(*)
	// counts groups, not raw details.
	q := &query.Query{Select: []query.SelectColumn{query.CountStar()}}
	rs, err := Project(buildResult(), q, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Rows[0][0])
}

func TestProjectCountDocuments(t *testing.T) {
	q := &query.Query{Select: []query.SelectColumn{query.CountDocuments()}}
	rs, err := Project(buildResult(), q, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Rows[0][0])
}

func TestProjectOrderByDescending(t *testing.T) {
	q := &query.Query{
		Select:  []query.SelectColumn{query.Identifier("document_id")},
		OrderBy: []query.OrderSpec{{Column: "document_id", Descending: true}},
	}
	rs, err := Project(buildResult(), q, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Rows[0][0])
}

func TestProjectLimitTruncates(t *testing.T) {
	q := &query.Query{Select: []query.SelectColumn{query.Identifier("document_id")}, Limit: 1}
	rs, err := Project(buildResult(), q, nil, nil)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 1)
}
