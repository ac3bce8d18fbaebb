// Package join implements the Subquery & Join layer (spec §4.9): running
// subqueries, pivoting their results into column-oriented tables, and
// performing the temporal join between two tables.
package join

import (
	"fmt"
	"sort"
	"time"

	"github.com/accented-ai/corpusql/internal/match"
)

// DocumentIDColumn and SentenceIDColumn are the two fixed columns every
// Table carries (spec §4.9: "at least document_id, optionally sentence_id").
const (
	DocumentIDColumn = "document_id"
	SentenceIDColumn = "sentence_id"
)

// Row is one materialized row: column name -> value.
type Row map[string]interface{}

// Table is a QueryResult pivoted into column-oriented rows, addressable by
// its SubqueryAlias (spec §3 SubqueryResult).
type Table struct {
	Alias   string
	Columns []string
	Rows    []Row
}

// Materialize pivots a match.Result into a Table. Every variable bound
// anywhere in the result becomes a column; a (doc[,sent]) group with
// multiple distinct values for the same variable expands into one row per
// combination (cross-product within the group), mirroring Result
// Projection's multi-valued-variable rule (spec §4.10) since subquery
// tables are consumed the same way columns are.
func Materialize(alias string, result match.Result) Table {
	hasSentence := result.Granularity == match.Sentence

	type groupKey struct {
		doc  int
		sent int
	}
	groups := make(map[groupKey]map[string][]interface{})
	var order []groupKey

	for _, d := range result.Details {
		gk := groupKey{doc: d.Position.DocID, sent: d.Position.SentID}
		vars, ok := groups[gk]
		if !ok {
			vars = make(map[string][]interface{})
			groups[gk] = vars
			order = append(order, gk)
		}
		if d.VariableName != "" {
			vars[d.VariableName] = appendUnique(vars[d.VariableName], d.Value)
		}
		// Every detail also carries an implicit "date" projection when its
		// ValueType is DATE, letting a plain (unbound) TEMPORAL condition
		// still participate in a temporal join on its position's date.
		if d.ValueType == match.ValueDate {
			vars["_date"] = appendUnique(vars["_date"], d.Value)
		}
	}

	columnSet := map[string]bool{DocumentIDColumn: true}
	if hasSentence {
		columnSet[SentenceIDColumn] = true
	}
	for _, vars := range groups {
		for name := range vars {
			columnSet[name] = true
		}
	}
	columns := sortedColumns(columnSet, hasSentence)

	var rows []Row
	for _, gk := range order {
		vars := groups[gk]
		base := Row{DocumentIDColumn: gk.doc}
		if hasSentence {
			base[SentenceIDColumn] = gk.sent
		}
		rows = append(rows, expandRow(base, vars, columns)...)
	}

	return Table{Alias: alias, Columns: columns, Rows: rows}
}

func appendUnique(values []interface{}, v interface{}) []interface{} {
	for _, existing := range values {
		if fmt.Sprint(existing) == fmt.Sprint(v) {
			return values
		}
	}
	return append(values, v)
}

func sortedColumns(set map[string]bool, hasSentence bool) []string {
	var rest []string
	for name := range set {
		if name == DocumentIDColumn || name == SentenceIDColumn {
			continue
		}
		rest = append(rest, name)
	}
	sort.Strings(rest)
	cols := []string{DocumentIDColumn}
	if hasSentence {
		cols = append(cols, SentenceIDColumn)
	}
	return append(cols, rest...)
}

// expandRow cross-products a group's multi-valued variable columns into one
// row per combination, leaving columns the group has no value for unset.
func expandRow(base Row, vars map[string][]interface{}, columns []string) []Row {
	rows := []Row{cloneRow(base)}
	for _, col := range columns {
		values, ok := vars[col]
		if !ok || len(values) == 0 {
			continue
		}
		var next []Row
		for _, r := range rows {
			for _, v := range values {
				nr := cloneRow(r)
				nr[col] = v
				next = append(next, nr)
			}
		}
		rows = next
	}
	return rows
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ColumnAsDate extracts column as a time.Time, accepting either a
// time.Time value directly or an ISO date/date-time string (as variable
// bindings captured from TEMPORAL/NER(DATE,...) conditions typically are).
func ColumnAsDate(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{
			"2006-01-02T15:04:05Z07:00",
			"2006-01-02T15:04:05",
			"2006-01-02",
		} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
