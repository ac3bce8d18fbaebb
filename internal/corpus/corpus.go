// Package corpus defines the two external collaborators Result Projection
// needs beyond the match details themselves (spec §4.10): the metadata
// store (docId -> title, timestamp) and a text/sentence access used to
// render SNIPPET(?v, k) columns. Both are out of scope per spec §1 ("the
// corpus metadata store") but the engine must consume *some* concrete shape
// of them to be exercised end to end, so this package fixes the contract
// and ships an in-memory reference implementation.
package corpus

import (
	"fmt"
	"time"
)

// Metadata is one document's corpus-level metadata.
type Metadata struct {
	DocID     int
	Title     string
	Timestamp time.Time
}

// MetadataStore resolves document ids to their corpus metadata.
type MetadataStore interface {
	Get(docID int) (Metadata, bool)
}

// TextAccess resolves a document+sentence position to surrounding sentence
// text, for SNIPPET(?v, k) projection.
type TextAccess interface {
	// Sentences returns up to 2*k+1 sentences centered on sentID within
	// docID: k before, the sentence itself, and k after, each as plain
	// text, in document order. Missing sentences (out of range) are
	// simply omitted rather than padded.
	Sentences(docID, sentID, k int) ([]string, error)
}

// MemoryStore is an in-memory MetadataStore + TextAccess, suitable for
// tests and small corpora.
type MemoryStore struct {
	meta      map[int]Metadata
	sentences map[int][]string // docID -> sentences in order (index == sentID)
}

// NewMemoryStore creates an empty in-memory corpus store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		meta:      make(map[int]Metadata),
		sentences: make(map[int][]string),
	}
}

// PutMetadata registers a document's title and timestamp.
func (m *MemoryStore) PutMetadata(docID int, title string, ts time.Time) {
	m.meta[docID] = Metadata{DocID: docID, Title: title, Timestamp: ts}
}

// PutSentences registers a document's full sentence list, in order.
func (m *MemoryStore) PutSentences(docID int, sentences []string) {
	m.sentences[docID] = sentences
}

// Get implements MetadataStore.
func (m *MemoryStore) Get(docID int) (Metadata, bool) {
	meta, ok := m.meta[docID]
	return meta, ok
}

// Sentences implements TextAccess.
func (m *MemoryStore) Sentences(docID, sentID, k int) ([]string, error) {
	all, ok := m.sentences[docID]
	if !ok {
		return nil, fmt.Errorf("corpus: no sentence text for document %d", docID)
	}
	lo := sentID - k
	if lo < 0 {
		lo = 0
	}
	hi := sentID + k
	if hi > len(all)-1 {
		hi = len(all) - 1
	}
	if lo > hi {
		return nil, nil
	}
	out := make([]string, 0, hi-lo+1)
	out = append(out, all[lo:hi+1]...)
	return out, nil
}
