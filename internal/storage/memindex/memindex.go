// Package memindex is an in-memory implementation of index.Access, used by
// every executor test and by small corpora that fit comfortably in
// process memory. It is grounded on the sorted-key-scan idiom found in the
// pack's indexstore/go-leia reference files: keys are kept sorted so that
// Seek can binary-search a prefix rather than scanning linearly.
package memindex

import (
	"context"
	"fmt"
	"sort"

	"github.com/accented-ai/corpusql/internal/engineerr"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/position"
)

type sortedIndex struct {
	keys   [][]byte
	values []position.List
}

func (s *sortedIndex) insertionSorted() bool {
	for i := 1; i < len(s.keys); i++ {
		if string(s.keys[i-1]) > string(s.keys[i]) {
			return false
		}
	}
	return true
}

// Store is a mutable in-memory set of named indexes. Build it with Put
// calls, then use it directly as an index.Access.
type Store struct {
	indexes map[string]*sortedIndex
}

// New creates an empty in-memory index store recognizing exactly the given
// index names (the well-known names in internal/index.Access are typical,
// but a Store may be built with any subset, to exercise MISSING_INDEX).
func New(indexNames ...string) *Store {
	s := &Store{indexes: make(map[string]*sortedIndex, len(indexNames))}
	for _, name := range indexNames {
		s.indexes[name] = &sortedIndex{}
	}
	return s
}

// Put inserts or appends to the PositionList stored at key in indexName.
// Keys are kept sorted lazily; Put is O(n) per call (test/build-time
// convenience, not a production write path — write paths are out of scope
// per spec §1).
func (s *Store) Put(indexName string, key []byte, list position.List) {
	idx, ok := s.indexes[indexName]
	if !ok {
		idx = &sortedIndex{}
		s.indexes[indexName] = idx
	}
	for i, k := range idx.keys {
		if string(k) == string(key) {
			idx.values[i] = append(idx.values[i], list...)
			return
		}
	}
	idx.keys = append(idx.keys, key)
	idx.values = append(idx.values, list)
	if !idx.insertionSorted() {
		sortIndex(idx)
	}
}

func sortIndex(idx *sortedIndex) {
	order := make([]int, len(idx.keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return string(idx.keys[order[a]]) < string(idx.keys[order[b]])
	})
	newKeys := make([][]byte, len(order))
	newValues := make([]position.List, len(order))
	for i, o := range order {
		newKeys[i] = idx.keys[o]
		newValues[i] = idx.values[o]
	}
	idx.keys, idx.values = newKeys, newValues
}

// Get implements index.Access.
func (s *Store) Get(_ context.Context, indexName string, key []byte) (position.List, bool, error) {
	idx, ok := s.indexes[indexName]
	if !ok {
		return nil, false, fmt.Errorf("memindex: index %q not recognized: %w", indexName, engineerr.ErrMissingIndex)
	}
	i := sort.Search(len(idx.keys), func(i int) bool { return string(idx.keys[i]) >= string(key) })
	if i < len(idx.keys) && string(idx.keys[i]) == string(key) {
		return idx.values[i], true, nil
	}
	return nil, false, nil
}

// Iterator implements index.Access.
func (s *Store) Iterator(_ context.Context, indexName string) (index.Iterator, error) {
	idx, ok := s.indexes[indexName]
	if !ok {
		return nil, fmt.Errorf("memindex: index %q not recognized: %w", indexName, engineerr.ErrMissingIndex)
	}
	return &memIterator{idx: idx, pos: -1}, nil
}

type memIterator struct {
	idx    *sortedIndex
	pos    int
	seeked bool
	prefix []byte
}

func (it *memIterator) Next() bool {
	it.pos++
	if it.seeked && it.prefix != nil {
		if it.pos >= len(it.idx.keys) || !hasPrefix(it.idx.keys[it.pos], it.prefix) {
			it.pos = len(it.idx.keys)
			return false
		}
		return true
	}
	return it.pos < len(it.idx.keys)
}

func (it *memIterator) Entry() index.Entry {
	return index.Entry{Key: it.idx.keys[it.pos], Value: it.idx.values[it.pos]}
}

func (it *memIterator) Seek(prefix []byte) {
	it.seeked = true
	it.prefix = prefix
	i := sort.Search(len(it.idx.keys), func(i int) bool { return string(it.idx.keys[i]) >= string(prefix) })
	it.pos = i - 1
}

func (it *memIterator) Err() error   { return nil }
func (it *memIterator) Close() error { return nil }

func hasPrefix(key, prefix []byte) bool {
	if len(prefix) == 0 {
		return true
	}
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
