package join

import (
	"fmt"
	"strings"

	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/position"
	"github.com/accented-ai/corpusql/internal/query"
)

// Join performs the temporal join between two materialized tables per a
// JoinCondition (spec §4.9), using reg's currently active strategy for
// jc.Predicate. Right-hand columns are renamed "<rightAlias>_<col>" except
// document_id/sentence_id, which are dropped from the right side: a joined
// row carries only the left table's document_id/sentence_id plus the
// right's matched position recorded separately as RightDocID/RightSentID
// on the resulting match.Detail.
func Join(reg *Registry, left, right Table, jc *query.JoinCondition) (match.Result, error) {
	pred, ok := reg.Active(jc.Predicate)
	if !ok {
		return match.Result{}, fmt.Errorf("join: no active strategy for predicate %v", jc.Predicate)
	}

	var out []match.Detail
	matchedRight := make([]bool, len(right.Rows))

	for _, lrow := range left.Rows {
		matchedAny := false
		for ri, rrow := range right.Rows {
			if !pred(lrow, rrow, jc.LeftKey, jc.RightKey, jc.ProximityN) {
				continue
			}
			matchedAny = true
			matchedRight[ri] = true
			out = append(out, buildJoinDetail(lrow, rrow, jc, right.Alias))
		}
		if !matchedAny && jc.Type == query.LeftJoin {
			out = append(out, buildJoinDetail(lrow, nil, jc, right.Alias))
		}
	}

	if jc.Type == query.RightJoin {
		for ri, rrow := range right.Rows {
			if matchedRight[ri] {
				continue
			}
			out = append(out, buildJoinDetail(nil, rrow, jc, right.Alias))
		}
	}

	gran := match.Document
	if _, ok := left.rowHasColumn(SentenceIDColumn); ok {
		gran = match.Sentence
	}
	if gran == match.Document {
		// Document-level left table: the output is document-level, so every
		// right-hand sentence id is dropped.
		for i := range out {
			out[i].RightSentID = position.DocumentLevel
			out[i].Position.SentID = position.DocumentLevel
		}
	}
	return match.Result{Granularity: gran, Details: out}.Sorted(), nil
}

func (t Table) rowHasColumn(col string) (string, bool) {
	for _, c := range t.Columns {
		if c == col {
			return c, true
		}
	}
	return "", false
}

func buildJoinDetail(lrow, rrow Row, jc *query.JoinCondition, rightAlias string) match.Detail {
	d := match.Detail{IsJoinResult: true, ValueType: match.ValueCount}

	if lrow != nil {
		d.Position = position.Position{
			DocID:  intOf(lrow[DocumentIDColumn]),
			SentID: sentOf(lrow),
		}
		d.VariableName = jc.LeftAlias
	}
	if rrow != nil {
		d.RightDocID = intOf(rrow[DocumentIDColumn])
		d.RightSentID = sentOf(rrow)
	} else {
		d.RightDocID = -1
		d.RightSentID = position.DocumentLevel
	}
	if lrow == nil {
		// RIGHT JOIN unmatched-left row: position comes from the right side.
		d.Position = position.Position{DocID: d.RightDocID, SentID: d.RightSentID}
	}

	d.Value = renderJoinValue(lrow, rrow, rightAlias)
	return d
}

func renderJoinValue(lrow, rrow Row, rightAlias string) string {
	var parts []string
	for k, v := range lrow {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	for k, v := range rrow {
		if k == DocumentIDColumn || k == SentenceIDColumn {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s_%s=%v", rightAlias, k, v))
	}
	return strings.Join(parts, ",")
}

func intOf(v interface{}) int {
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}

func sentOf(row Row) int {
	if v, ok := row[SentenceIDColumn]; ok {
		return intOf(v)
	}
	return position.DocumentLevel
}
