package executor

import (
	"fmt"
	"strings"

	"github.com/accented-ai/corpusql/internal/engineerr"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// ContainsExecutor implements CONTAINS(...) (spec §4.2).
type ContainsExecutor struct{}

func (ContainsExecutor) Execute(ctx Context, cond query.Condition, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	c, ok := cond.(*query.ContainsCondition)
	if !ok {
		return match.Result{}, fmt.Errorf("contains executor: unexpected condition type %T", cond)
	}

	n := len(c.Terms)
	if n == 0 || n > 3 {
		return match.Result{}, fmt.Errorf("contains: %d terms (want 1-3): %w", n, engineerr.ErrInvalidCondition)
	}

	indexName, err := arityIndex(n)
	if err != nil {
		return match.Result{}, err
	}

	// Wildcard handling (spec §4.2): "* X" is unsupported (empty result);
	// "X *" triggers a bigram prefix scan; any other combination with more
	// than one wildcard, or a wildcard outside bigram, degrades to empty.
	wildcardPositions := wildcardPositions(c.Terms)
	lowered := make([]string, n)
	for i, t := range c.Terms {
		lowered[i] = strings.ToLower(t)
	}

	gm := toMatchGranularity(gran)
	value := strings.Join(c.Terms, " ")

	switch len(wildcardPositions) {
	case 0:
		key := index.ComposeKey(lowered...)
		list, found, err := access.Get(ctx.Std, indexName, key)
		if err != nil {
			return match.Result{}, fmt.Errorf("contains: probe %s: %w", indexName, err)
		}
		ctx.Annotate("condition/contains.probe", map[string]interface{}{"index": indexName, "key": string(key), "found": found})
		if !found {
			return match.Empty(gm, window), nil
		}
		details, err := emitFromPositions(ctx, list, gran, c.Tag(), c.Variable, value, match.ValueTerm)
		if err != nil {
			return match.Result{}, err
		}
		return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil

	case 1:
		if n != 2 || wildcardPositions[0] != 1 {
			// Only "X *" on a 2-term CONTAINS is supported; everything
			// else (e.g. "* X", or a wildcard in a 3-term CONTAINS) is a
			// deliberately unimplemented variant: degrade to empty rather
			// than error (spec §4.2, §7 UNSUPPORTED convention).
			return match.Empty(gm, window), nil
		}
		prefix := index.ComposeKey(lowered[0], "")
		it, err := index.SeekIterator(ctx.Std, access, index.Bigram, prefix)
		if err != nil {
			return match.Result{}, fmt.Errorf("contains: prefix scan: %w", err)
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
			d, err := emitFromPositions(ctx, entry.Value, gran, c.Tag(), c.Variable, value, match.ValueTerm)
			if err != nil {
				return match.Result{}, err
			}
			details = append(details, d...)
		}
		if err := it.Err(); err != nil {
			return match.Result{}, fmt.Errorf("contains: iterate bigram: %w: %v", engineerr.ErrIndexAccess, err)
		}
		return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil

	default:
		// Multiple wildcards: unsupported.
		return match.Empty(gm, window), nil
	}
}

func arityIndex(n int) (string, error) {
	switch n {
	case 1:
		return index.Unigram, nil
	case 2:
		return index.Bigram, nil
	case 3:
		return index.Trigram, nil
	default:
		return "", fmt.Errorf("contains: unsupported arity %d: %w", n, engineerr.ErrInvalidCondition)
	}
}

func wildcardPositions(terms []string) []int {
	var out []int
	for i, t := range terms {
		if t == "*" {
			out = append(out, i)
		}
	}
	return out
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
