package logical

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accented-ai/corpusql/internal/executor"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/position"
	"github.com/accented-ai/corpusql/internal/query"
	"github.com/accented-ai/corpusql/internal/storage/memindex"
)

func doc(id int, value string) match.Detail {
	return match.Detail{Value: value, Position: position.Position{DocID: id, SentID: position.DocumentLevel}}
}

func sent(doc, s int, value string) match.Detail {
	return match.Detail{Value: value, Position: position.Position{DocID: doc, SentID: s}}
}

func TestOrUnionsAndDedupes(t *testing.T) {
	a := match.Result{Details: []match.Detail{doc(1, "x"), doc(2, "y")}}
	b := match.Result{Details: []match.Detail{doc(2, "y"), doc(3, "z")}}
	out := Or([]match.Result{a, b})
	assert.Len(t, out.Details, 3)
}

func TestAndDocumentIntersectsByDocID(t *testing.T) {
	a := match.Result{Granularity: match.Document, Details: []match.Detail{doc(1, "whale"), doc(2, "whale")}}
	b := match.Result{Granularity: match.Document, Details: []match.Detail{doc(2, "moby"), doc(3, "moby")}}
	out := And([]match.Result{a, b})
	ids := out.DocIDs()
	assert.Equal(t, []int{2}, ids)
}

func TestAndSentenceWindowZeroRequiresExactCoOccurrence(t *testing.T) {
	a := match.Result{Granularity: match.Sentence, Details: []match.Detail{sent(1, 5, "whale")}}
	b := match.Result{Granularity: match.Sentence, Details: []match.Detail{sent(1, 7, "moby")}}
	out := And([]match.Result{a, b})
	assert.Empty(t, out.Details)
}

func TestAndSentenceWindowRelaxesWithinRange(t *testing.T) {
	a := match.Result{Granularity: match.Sentence, WindowSize: 2, Details: []match.Detail{sent(1, 5, "whale")}}
	b := match.Result{Granularity: match.Sentence, WindowSize: 2, Details: []match.Detail{sent(1, 7, "moby")}}
	out := andSentenceWindowed([]match.Result{a, b}, 2)
	assert.Len(t, out.Details, 2)
}

func TestAndSingleChildIgnoresWindow(t *testing.T) {
	a := match.Result{Granularity: match.Sentence, Details: []match.Detail{sent(1, 5, "whale")}}
	out := andSentenceWindowed([]match.Result{a}, 0)
	assert.Len(t, out.Details, 1)
}

func TestNotComplementsAgainstUniverse(t *testing.T) {
	store := memindex.New(index.Unigram)
	store.Put(index.Unigram, index.ComposeKey("whale"), position.List{
		position.New(1, position.DocumentLevel, 0, 1, time.Time{}),
		position.New(2, position.DocumentLevel, 0, 1, time.Time{}),
		position.New(3, position.DocumentLevel, 0, 1, time.Time{}),
	})

	child := match.Result{Granularity: match.Document, Details: []match.Detail{doc(2, "whale")}}
	ctx := executor.NewContext(context.Background())

	out, err := Not(ctx, child, store, query.Document, 0)
	require.NoError(t, err)
	ids := out.DocIDs()
	assert.ElementsMatch(t, []int{1, 3}, ids)
}
