// Package logical implements the boolean set algebra over QueryResults
// (spec §4.7-§4.8): AND/OR at both granularities with optional sentence
// window relaxation, and NOT's universe complementation.
package logical

import (
	"fmt"

	"github.com/accented-ai/corpusql/internal/engineerr"
	"github.com/accented-ai/corpusql/internal/executor"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// Or unions the multiset of MatchDetails across children (spec §4.7).
// Duplicates (same position, value, variableName) collapse by set
// identity; there is no window interaction for OR.
func Or(results []match.Result) match.Result {
	if len(results) == 0 {
		return match.Result{}
	}
	gran, window := results[0].Granularity, results[0].WindowSize
	seen := make(map[interface{}]bool)
	var out []match.Detail
	for _, r := range results {
		for _, d := range r.Details {
			k := d.SetKey()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, d)
		}
	}
	return match.Result{Granularity: gran, WindowSize: window, Details: out}.Sorted()
}

// And computes the intersection set algebra for AND (spec §4.7). At
// Document granularity, AND keeps every detail from every child whose docID
// is present in all children. At Sentence granularity, And applies the
// sentence-window relaxation described in §4.7 (a window of 0 degenerates
// to exact co-occurrence, which also happens to be the correct answer when
// there's only one child, since "for every other child" is then vacuously
// true — this is precisely the "ignore window with no peer" rule spec §9
// calls out).
func And(results []match.Result) match.Result {
	if len(results) == 0 {
		return match.Result{}
	}
	gran, window := results[0].Granularity, results[0].WindowSize

	if gran == match.Document {
		return andDocument(results)
	}
	return andSentenceWindowed(results, window)
}

func andDocument(results []match.Result) match.Result {
	docSets := make([]map[int]bool, len(results))
	for i, r := range results {
		docSets[i] = make(map[int]bool)
		for _, id := range r.DocIDs() {
			docSets[i][id] = true
		}
	}

	var out []match.Detail
	for i, r := range results {
		for _, d := range r.Details {
			inAll := true
			for j := range results {
				if j == i {
					continue
				}
				if !docSets[j][d.Position.DocID] {
					inAll = false
					break
				}
			}
			if inAll {
				out = append(out, d)
			}
		}
	}
	return match.Result{Granularity: match.Document, WindowSize: 0, Details: out}.Sorted()
}

func andSentenceWindowed(results []match.Result, window int) match.Result {
	childGroups := make([]map[match.DocSentPair][]match.Detail, len(results))
	childDocSents := make([]map[int][]int, len(results))
	for i, r := range results {
		childGroups[i] = r.GroupByDocSent()
		ds := make(map[int][]int)
		for pair := range childGroups[i] {
			ds[pair.DocID] = append(ds[pair.DocID], pair.SentID)
		}
		childDocSents[i] = ds
	}

	var out []match.Detail
	for i, groups := range childGroups {
		for pair, details := range groups {
			ok := true
			for j := range results {
				if j == i {
					continue
				}
				peer := false
				for _, s2 := range childDocSents[j][pair.DocID] {
					if abs(pair.SentID-s2) <= window {
						peer = true
						break
					}
				}
				if !peer {
					ok = false
					break
				}
			}
			if ok {
				out = append(out, details...)
			}
		}
	}
	return match.Result{Granularity: match.Sentence, WindowSize: window, Details: out}.Sorted()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Not complements child against a universe derived from the unigram
// index's key space (spec §4.8): U_DOCUMENT/U_SENTENCE is every (doc[,sent])
// that appears in any unigram entry's PositionList. Emits synthetic
// placeholder MatchDetails (value="", ValueType=TERM) for U \ excluded(child).
func Not(ctx executor.Context, child match.Result, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	gm := toMatchGranularity(gran)

	excluded := make(map[interface{}]bool)
	if gm == match.Document {
		for _, id := range child.DocIDs() {
			excluded[id] = true
		}
	} else {
		for _, p := range child.DocSentPairs() {
			excluded[p] = true
		}
	}

	it, err := access.Iterator(ctx.Std, index.Unigram)
	if err != nil {
		return match.Result{}, fmt.Errorf("not: universe scan: %w", err)
	}
	defer it.Close()

	seenUniverse := make(map[interface{}]bool)
	var out []match.Detail
	count := 0
	for it.Next() {
		count++
		if count%256 == 0 {
			if cerr := ctx.CheckCancelled(); cerr != nil {
				return match.Result{}, cerr
			}
		}
		entry := it.Entry()
		for _, p := range entry.Value {
			var key interface{}
			pos := p
			if gm == match.Document {
				key = p.DocID
				pos.SentID = -1
			} else {
				key = match.DocSentPair{DocID: p.DocID, SentID: p.SentID}
			}
			if seenUniverse[key] {
				continue
			}
			seenUniverse[key] = true
			if excluded[key] {
				continue
			}
			out = append(out, match.Detail{
				Value: "", ValueType: match.ValueTerm, Position: pos,
			})
		}
	}
	if err := it.Err(); err != nil {
		return match.Result{}, fmt.Errorf("not: universe scan: %w: %v", engineerr.ErrIndexAccess, err)
	}

	return match.Result{Granularity: gm, WindowSize: window, Details: out}.Sorted(), nil
}

func toMatchGranularity(g query.Granularity) match.Granularity {
	if g == query.Sentence {
		return match.Sentence
	}
	return match.Document
}
