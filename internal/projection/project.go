// Package projection implements Result Projection (spec §4.10): turning a
// match.Result into the output RowSet a client (the CLI, or a consumer
// library) actually renders, applying SELECT, ORDER BY and LIMIT.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/accented-ai/corpusql/internal/corpus"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// RowSet is the final, client-facing table: one header per SELECT column,
// rows in output order.
type RowSet struct {
	Columns []string
	Rows    [][]interface{}
}

// groupKey identifies a (document[,sentence]) output row before any
// multi-valued VARIABLE column forces a cross-product expansion.
type groupKey struct {
	doc  int
	sent int
}

// group collects every variable's distinct bound values seen at a key.
type group struct {
	key  groupKey
	vars map[string][]interface{}
}

// Project builds the output RowSet for q.Select against result, resolving
// TITLE/TIMESTAMP via meta and SNIPPET via text (either may be nil if the
// query never references them).
func Project(result match.Result, q *query.Query, meta corpus.MetadataStore, text corpus.TextAccess) (RowSet, error) {
	if isPureAggregate(q.Select) {
		return projectAggregate(result, q.Select)
	}

	groups := groupDetails(result)
	hasSentence := result.Granularity == match.Sentence

	rs := RowSet{}
	for _, c := range q.Select {
		rs.Columns = append(rs.Columns, c.OutputName())
	}

	for _, g := range groups {
		rows, err := expandGroupRows(g, q.Select, hasSentence, meta, text)
		if err != nil {
			return RowSet{}, err
		}
		rs.Rows = append(rs.Rows, rows...)
	}

	applyOrderBy(&rs, q.OrderBy)
	applyLimit(&rs, q.Limit)
	return rs, nil
}

func isPureAggregate(cols []query.SelectColumn) bool {
	if len(cols) == 0 {
		return false
	}
	for _, c := range cols {
		switch c.Kind {
		case query.ColCountStar, query.ColCountUnique, query.ColCountDocuments:
		default:
			return false
		}
	}
	return true
}

func projectAggregate(result match.Result, cols []query.SelectColumn) (RowSet, error) {
	rs := RowSet{}
	row := make([]interface{}, 0, len(cols))
	for _, c := range cols {
		rs.Columns = append(rs.Columns, c.OutputName())
		switch c.Kind {
		case query.ColCountStar:
			row = append(row, len(result.DocSentPairs()))
		case query.ColCountDocuments:
			row = append(row, len(result.DocIDs()))
		case query.ColCountUnique:
			row = append(row, countUniqueVariable(result, c.Name))
		}
	}
	rs.Rows = [][]interface{}{row}
	return rs, nil
}

func countUniqueVariable(result match.Result, variable string) int {
	seen := make(map[string]bool)
	for _, d := range result.Details {
		if d.VariableName != variable {
			continue
		}
		seen[fmt.Sprint(d.Value)] = true
	}
	return len(seen)
}

func groupDetails(result match.Result) []group {
	index := make(map[groupKey]*group)
	var order []groupKey
	for _, d := range result.Details {
		gk := groupKey{doc: d.Position.DocID, sent: d.Position.SentID}
		g, ok := index[gk]
		if !ok {
			g = &group{key: gk, vars: make(map[string][]interface{})}
			index[gk] = g
			order = append(order, gk)
		}
		if d.VariableName != "" {
			g.vars[d.VariableName] = appendDistinct(g.vars[d.VariableName], d.Value)
		}
	}
	groups := make([]group, 0, len(order))
	for _, gk := range order {
		groups = append(groups, *index[gk])
	}
	return groups
}

func appendDistinct(values []interface{}, v interface{}) []interface{} {
	for _, existing := range values {
		if fmt.Sprint(existing) == fmt.Sprint(v) {
			return values
		}
	}
	return append(values, v)
}

// expandGroupRows renders one group into one or more output rows: a
// VARIABLE column bound to a multi-valued variable expands into a
// cross-product of rows within the group (spec §4.10).
func expandGroupRows(g group, cols []query.SelectColumn, hasSentence bool, meta corpus.MetadataStore, text corpus.TextAccess) ([][]interface{}, error) {
	rows := [][]interface{}{{}}
	for _, c := range cols {
		values, err := resolveColumn(g, c, hasSentence, meta, text)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			values = []interface{}{nil}
		}
		var next [][]interface{}
		for _, r := range rows {
			for _, v := range values {
				nr := append(append([]interface{}{}, r...), v)
				next = append(next, nr)
			}
		}
		rows = next
	}
	return rows, nil
}

func resolveColumn(g group, c query.SelectColumn, hasSentence bool, meta corpus.MetadataStore, text corpus.TextAccess) ([]interface{}, error) {
	switch c.Kind {
	case query.ColIdentifier:
		if hasSentence && strings.EqualFold(c.Name, "sentence_id") {
			return []interface{}{g.key.sent}, nil
		}
		return []interface{}{g.key.doc}, nil
	case query.ColVariable:
		return g.vars[c.Name], nil
	case query.ColTitle:
		if meta == nil {
			return []interface{}{""}, nil
		}
		md, ok := meta.Get(g.key.doc)
		if !ok {
			return []interface{}{""}, nil
		}
		return []interface{}{md.Title}, nil
	case query.ColTimestamp:
		if meta == nil {
			return []interface{}{""}, nil
		}
		md, ok := meta.Get(g.key.doc)
		if !ok {
			return []interface{}{""}, nil
		}
		return []interface{}{md.Timestamp}, nil
	case query.ColSnippet:
		if text == nil {
			return []interface{}{""}, nil
		}
		sentID := g.key.sent
		if sentID < 0 {
			sentID = 0
		}
		sentences, err := text.Sentences(g.key.doc, sentID, c.Snippet)
		if err != nil {
			return nil, fmt.Errorf("projection: snippet: %w", err)
		}
		return []interface{}{strings.Join(sentences, " ")}, nil
	default:
		return []interface{}{""}, nil
	}
}

func applyOrderBy(rs *RowSet, specs []query.OrderSpec) {
	if len(specs) == 0 {
		return
	}
	colIndex := make(map[string]int, len(rs.Columns))
	for i, name := range rs.Columns {
		colIndex[name] = i
	}
	var active []struct {
		idx  int
		desc bool
	}
	for _, s := range specs {
		if i, ok := colIndex[s.Column]; ok {
			active = append(active, struct {
				idx  int
				desc bool
			}{i, s.Descending})
		}
	}
	if len(active) == 0 {
		return
	}
	sort.SliceStable(rs.Rows, func(i, j int) bool {
		for _, a := range active {
			cmp := compareValues(rs.Rows[i][a.idx], rs.Rows[j][a.idx])
			if cmp == 0 {
				continue
			}
			if a.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b interface{}) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func applyLimit(rs *RowSet, limit int) {
	if limit <= 0 || limit >= len(rs.Rows) {
		return
	}
	rs.Rows = rs.Rows[:limit]
}
