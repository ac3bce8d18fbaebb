package executor

import (
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/position"
	"github.com/accented-ai/corpusql/internal/query"
)

// Executor is the uniform contract every condition executor implements
// (spec §2): translate one AST condition into a QueryResult by probing the
// index set at the requested granularity/window.
type Executor interface {
	Execute(ctx Context, cond query.Condition, access index.Access, gran query.Granularity, window int) (match.Result, error)
}

// toMatchGranularity converts the AST's granularity tag to match.Result's.
func toMatchGranularity(g query.Granularity) match.Granularity {
	if g == query.Sentence {
		return match.Sentence
	}
	return match.Document
}

// cancelBatch is the iterator-batch size at which CheckCancelled is
// consulted while draining a PositionList or an index Iterator (spec §5:
// "batch size >= 1, <= 1024 entries recommended").
const cancelBatch = 256

// emitFromPositions materializes one match.Detail per distinct (document,
// sentence) pair (or, at Document granularity, one per distinct document),
// keeping the first-seen occurrence; spec §4.2's grouping rule shared by
// CONTAINS/NER/POS/DEPENDENCY/TEMPORAL.
func emitFromPositions(
	ctx Context,
	list position.List,
	gran query.Granularity,
	tag string,
	variable string,
	value interface{},
	valueType match.ValueType,
) ([]match.Detail, error) {
	var details []match.Detail

	if gran == query.Document {
		seenDoc := make(map[int]bool)
		for i, p := range list {
			if i%cancelBatch == 0 {
				if err := ctx.CheckCancelled(); err != nil {
					return nil, err
				}
			}
			if seenDoc[p.DocID] {
				continue
			}
			seenDoc[p.DocID] = true
			docPos := position.New(p.DocID, position.DocumentLevel, p.Begin, p.End, p.Date)
			details = append(details, match.Detail{
				Value: value, ValueType: valueType, Position: docPos,
				ConditionTag: tag, VariableName: variable,
			})
		}
		return details, nil
	}

	seenDocSent := make(map[match.DocSentPair]bool)
	for i, p := range list {
		if i%cancelBatch == 0 {
			if err := ctx.CheckCancelled(); err != nil {
				return nil, err
			}
		}
		key := match.DocSentPair{DocID: p.DocID, SentID: p.SentID}
		if seenDocSent[key] {
			continue
		}
		seenDocSent[key] = true
		details = append(details, match.Detail{
			Value: value, ValueType: valueType, Position: p,
			ConditionTag: tag, VariableName: variable,
		})
	}
	return details, nil
}
