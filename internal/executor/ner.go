package executor

import (
	"fmt"
	"strings"

	"github.com/accented-ai/corpusql/internal/engineerr"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// NerExecutor implements NER(type, value) (spec §4.3).
type NerExecutor struct{}

func (NerExecutor) Execute(ctx Context, cond query.Condition, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	c, ok := cond.(*query.NerCondition)
	if !ok {
		return match.Result{}, fmt.Errorf("ner executor: unexpected condition type %T", cond)
	}

	entityType := strings.ToUpper(c.EntityType)
	indexName := index.Ner
	if entityType == "DATE" {
		indexName = index.NerDate
	}

	gm := toMatchGranularity(gran)

	switch {
	case c.EntityType == "*":
		return nerPrefixScan(ctx, access, indexName, nil, c, gran, window)

	case c.Value.IsWildcard() || c.Value.IsVariable():
		prefix := index.ComposeKey(entityType, "")
		return nerPrefixScan(ctx, access, indexName, prefix, c, gran, window)

	default:
		key := index.ComposeKey(entityType, c.Value.Literal)
		list, found, err := access.Get(ctx.Std, indexName, key)
		if err != nil {
			return match.Result{}, fmt.Errorf("ner: probe %s: %w", indexName, err)
		}
		ctx.Annotate("condition/ner.probe", map[string]interface{}{"index": indexName, "key": string(key), "found": found})
		if !found {
			return match.Empty(gm, window), nil
		}
		// No variable bound: value is the entity TYPE (spec §4.3).
		details, err := emitFromPositions(ctx, list, gran, c.Tag(), "", entityType, match.ValueEntity)
		if err != nil {
			return match.Result{}, err
		}
		return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
	}
}

// nerPrefixScan handles wildcard-type (prefix nil, scans whole index) and
// wildcard/variable-value (prefix TYPE\0) cases uniformly: iterate all
// matching keys, extract the entity VALUE from the key suffix, and bind it
// if the condition requests a variable.
func nerPrefixScan(ctx Context, access index.Access, indexName string, prefix []byte, c *query.NerCondition, gran query.Granularity, window int) (match.Result, error) {
	gm := toMatchGranularity(gran)

	it, err := index.SeekIterator(ctx.Std, access, indexName, prefix)
	if err != nil {
		return match.Result{}, fmt.Errorf("ner: prefix scan: %w", err)
	}
	defer it.Close()

	var details []match.Detail
	count := 0
	for it.Next() {
		count++
		if count%cancelBatch == 0 {
			if cerr := ctx.CheckCancelled(); cerr != nil {
				return match.Result{}, cerr
			}
		}
		entry := it.Entry()
		if prefix != nil && !hasPrefix(entry.Key, prefix) {
			break
		}
		parts := index.SplitKey(entry.Key)
		if len(parts) != 2 {
			continue
		}
		entityType, value := parts[0], parts[1]

		var boundValue interface{}
		var variable string
		switch {
		case c.Value.IsVariable() || c.Value.IsWildcard():
			// Variable binding captures the entity VALUE, not the TYPE.
			boundValue = value
			variable = c.Value.Variable
		default:
			// Type wildcarded but value is a fixed literal: still an exact
			// probe on the value (spec §4.3), just scanning across types.
			if value != c.Value.Literal {
				continue
			}
			boundValue = entityType
		}

		d, err := emitFromPositions(ctx, entry.Value, gran, c.Tag(), variable, boundValue, match.ValueEntity)
		if err != nil {
			return match.Result{}, err
		}
		details = append(details, d...)
	}
	if err := it.Err(); err != nil {
		return match.Result{}, fmt.Errorf("ner: iterate %s: %w: %v", indexName, engineerr.ErrIndexAccess, err)
	}
	return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
}
