// Package index defines the Index Access contract (spec §4.1): the only
// way the query engine touches on-disk data. Implementations live outside
// this package (internal/storage/memindex, internal/storage/badgerindex);
// the engine itself only ever sees this interface, matching the external
// collaborator boundary spec.md §1 draws around the on-disk index format.
package index

import (
	"context"
	"fmt"

	"github.com/accented-ai/corpusql/internal/position"
)

// Well-known index names (spec §4.1).
const (
	Unigram    = "unigram"
	Bigram     = "bigram"
	Trigram    = "trigram"
	Ner        = "ner"
	NerDate    = "ner_date"
	Dependency = "dependency"
	Pos        = "pos"
)

// Delimiter separates composite key fields. Callers normalise case before
// key composition: terms, POS tags and dependency fields are lowercased,
// NER entity types are upper-cased (e.g. "PERSON").
const Delimiter = 0x00

// Entry is one (key, PositionList) pair yielded by an Iterator.
type Entry struct {
	Key   []byte
	Value position.List
}

// Iterator walks index entries in lexicographic key order. Every Iterator
// returned by Access must be Closed on every exit path (success, error, or
// cancellation) — the engine never leaks an open iterator.
type Iterator interface {
	// Next advances to the next entry, returning false at end-of-stream or
	// on error (check Err after Next returns false).
	Next() bool
	// Entry returns the current entry. Valid only after Next returned true.
	Entry() Entry
	// Seek repositions the iterator at the first key >= prefix (or, for a
	// prefix scan, the first key with the given prefix).
	Seek(prefix []byte)
	// Err returns any error encountered during iteration.
	Err() error
	// Close releases resources held by the iterator. Idempotent.
	Close() error
}

// Access is the read-only interface the query engine consumes. A concrete
// implementation may be in-memory, Badger-backed, or anything else that can
// satisfy exact-key probes and ordered prefix iteration.
type Access interface {
	// Get performs an exact-key probe against the named index. ok is false
	// if the key is absent (not an error).
	Get(ctx context.Context, indexName string, key []byte) (list position.List, ok bool, err error)

	// Iterator opens an ordered iterator over the named index. Callers must
	// Close it. Returns a wrapped engineerr.ErrMissingIndex if indexName is
	// not recognized by this Access, and engineerr.ErrIndexAccess if the
	// underlying store can't be opened.
	Iterator(ctx context.Context, indexName string) (Iterator, error)
}

// SeekIterator opens it and seeks to prefix in one step; a convenience used
// by every prefix-scanning executor.
func SeekIterator(ctx context.Context, access Access, indexName string, prefix []byte) (Iterator, error) {
	it, err := access.Iterator(ctx, indexName)
	if err != nil {
		return nil, err
	}
	it.Seek(prefix)
	return it, nil
}

// ComposeKey joins parts with Delimiter, exactly as spec §4.1/§4.2-§4.5
// describe for unigram/bigram/trigram, ner, dependency, and pos keys.
func ComposeKey(parts ...string) []byte {
	total := 0
	for i, p := range parts {
		total += len(p)
		if i > 0 {
			total++
		}
	}
	out := make([]byte, 0, total)
	for i, p := range parts {
		if i > 0 {
			out = append(out, Delimiter)
		}
		out = append(out, []byte(p)...)
	}
	return out
}

// SplitKey splits a composite key on Delimiter into its constituent parts.
func SplitKey(key []byte) []string {
	var parts []string
	start := 0
	for i, b := range key {
		if b == Delimiter {
			parts = append(parts, string(key[start:i]))
			start = i + 1
		}
	}
	parts = append(parts, string(key[start:]))
	return parts
}

func (e Entry) String() string {
	return fmt.Sprintf("%q -> %d positions", string(e.Key), len(e.Value))
}
