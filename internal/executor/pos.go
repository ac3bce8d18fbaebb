package executor

import (
	"fmt"
	"strings"

	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// PosExecutor implements POS(tag, term) (spec §4.5).
type PosExecutor struct{}

func (PosExecutor) Execute(ctx Context, cond query.Condition, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	c, ok := cond.(*query.PosCondition)
	if !ok {
		return match.Result{}, fmt.Errorf("pos executor: unexpected condition type %T", cond)
	}
	gm := toMatchGranularity(gran)
	tag := strings.ToLower(c.Tag_)

	if c.Term.IsVariable() || c.Term.IsWildcard() {
		prefix := index.ComposeKey(tag, "")
		it, err := index.SeekIterator(ctx.Std, access, index.Pos, prefix)
		if err != nil {
			return match.Result{}, fmt.Errorf("pos: prefix scan: %w", err)
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
			if !hasPrefix(entry.Key, prefix) {
				break
			}
			parts := index.SplitKey(entry.Key)
			if len(parts) != 2 {
				continue
			}
			term := parts[1]
			d, err := emitFromPositions(ctx, entry.Value, gran, c.Tag(), c.Term.Variable, term, match.ValuePos)
			if err != nil {
				return match.Result{}, err
			}
			details = append(details, d...)
		}
		if err := it.Err(); err != nil {
			return match.Result{}, fmt.Errorf("pos: iterate: %w", err)
		}
		return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
	}

	term := strings.ToLower(c.Term.Literal)
	key := index.ComposeKey(tag, term)
	list, found, err := access.Get(ctx.Std, index.Pos, key)
	if err != nil {
		return match.Result{}, fmt.Errorf("pos: probe: %w", err)
	}
	ctx.Annotate("condition/pos.probe", map[string]interface{}{"key": string(key), "found": found})
	if !found {
		return match.Empty(gm, window), nil
	}
	details, err := emitFromPositions(ctx, list, gran, c.Tag(), "", term, match.ValuePos)
	if err != nil {
		return match.Result{}, err
	}
	return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
}
