// Package badgerindex implements index.Access on top of BadgerDB, the
// teacher's own storage engine (datalog/storage/badger_store.go). Each
// named index (unigram, bigram, ner, ...) is stored as a key prefix inside
// one shared Badger database, since Badger's own Iterator already provides
// exactly the ordered-scan-with-Seek/ValidForPrefix semantics the Index
// Access contract (spec §4.1) requires.
//
// Building and populating an index directory is out of scope (spec §1
// Non-goals: index building, write paths); Open opens a pre-built
// directory (read-only when asked) and Put exists only to support tests that need a
// throwaway on-disk fixture.
package badgerindex

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/accented-ai/corpusql/internal/engineerr"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/position"
)

// Store wraps a Badger database recognizing a fixed set of index names.
type Store struct {
	db         *badger.DB
	indexNames map[string]bool
}

// Open opens (or creates) a Badger database at path recognizing the given
// index names. ReadOnly should be true for querying a pre-built corpus
// (spec §6's "valid index directory" contract); it is passed to Badger
// unchanged, so a caller that needs Put must open with readOnly false.
func Open(path string, readOnly bool, indexNames ...string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ReadOnly = readOnly

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerindex: open %s: %w", path, err)
	}
	names := make(map[string]bool, len(indexNames))
	for _, n := range indexNames {
		names[n] = true
	}
	return &Store{db: db, indexNames: names}, nil
}

// Close releases the underlying Badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) storageKey(indexName string, key []byte) []byte {
	out := make([]byte, 0, len(indexName)+1+len(key))
	out = append(out, []byte(indexName)...)
	out = append(out, index.Delimiter)
	out = append(out, key...)
	return out
}

// Put writes a PositionList under key in indexName. Test/fixture-building
// convenience only; see package doc.
func (s *Store) Put(indexName string, key []byte, list position.List) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.storageKey(indexName, key), position.Encode(list))
	})
}

// Get implements index.Access.
func (s *Store) Get(_ context.Context, indexName string, key []byte) (position.List, bool, error) {
	if !s.indexNames[indexName] {
		return nil, false, fmt.Errorf("badgerindex: index %q not recognized: %w", indexName, engineerr.ErrMissingIndex)
	}
	var list position.List
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.storageKey(indexName, key))
		if err == badger.ErrKeyNotFound {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, derr := position.Decode(val)
			if derr != nil {
				return derr
			}
			list = decoded
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("badgerindex: get %s/%s: %w: %v", indexName, key, engineerr.ErrIndexAccess, err)
	}
	return list, found, nil
}

// Iterator implements index.Access.
func (s *Store) Iterator(_ context.Context, indexName string) (index.Iterator, error) {
	if !s.indexNames[indexName] {
		return nil, fmt.Errorf("badgerindex: index %q not recognized: %w", indexName, engineerr.ErrMissingIndex)
	}
	txn := s.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = append([]byte(indexName), index.Delimiter)
	it := txn.NewIterator(opts)
	bit := &badgerIterator{
		txn:       txn,
		it:        it,
		nsPrefix:  opts.Prefix,
		indexName: indexName,
	}
	bit.Seek(nil)
	return bit, nil
}

type badgerIterator struct {
	txn       *badger.Txn
	it        *badger.Iterator
	nsPrefix  []byte
	indexName string
	started   bool
	pending   bool // true when the iterator is already positioned on an unread entry (post-Seek)
	err       error
	entry     index.Entry
}

func (bi *badgerIterator) Next() bool {
	if bi.pending {
		bi.pending = false
	} else if !bi.started {
		bi.started = true
	} else {
		bi.it.Next()
	}
	if !bi.it.ValidForPrefix(bi.nsPrefix) {
		return false
	}
	item := bi.it.Item()
	key := bytes.TrimPrefix(item.KeyCopy(nil), bi.nsPrefix)
	var list position.List
	err := item.Value(func(val []byte) error {
		decoded, derr := position.Decode(val)
		if derr != nil {
			return derr
		}
		list = decoded
		return nil
	})
	if err != nil {
		bi.err = fmt.Errorf("badgerindex: decode %s: %w: %v", bi.indexName, engineerr.ErrIndexAccess, err)
		return false
	}
	bi.entry = index.Entry{Key: key, Value: list}
	return true
}

func (bi *badgerIterator) Entry() index.Entry { return bi.entry }

func (bi *badgerIterator) Seek(prefix []byte) {
	full := make([]byte, 0, len(bi.nsPrefix)+len(prefix))
	full = append(full, bi.nsPrefix...)
	full = append(full, prefix...)
	bi.it.Seek(full)
	bi.started = true
	bi.pending = true
	if bi.it.ValidForPrefix(bi.nsPrefix) {
		item := bi.it.Item()
		key := bytes.TrimPrefix(item.KeyCopy(nil), bi.nsPrefix)
		var list position.List
		_ = item.Value(func(val []byte) error {
			decoded, derr := position.Decode(val)
			if derr == nil {
				list = decoded
			}
			return derr
		})
		bi.entry = index.Entry{Key: key, Value: list}
	}
}

func (bi *badgerIterator) Err() error { return bi.err }

func (bi *badgerIterator) Close() error {
	bi.it.Close()
	bi.txn.Discard()
	return nil
}
