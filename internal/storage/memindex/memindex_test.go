package memindex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/position"
)

func TestGetExactKey(t *testing.T) {
	s := New(index.Unigram)
	key := index.ComposeKey("whale")
	list := position.List{position.New(1, 0, 0, 5, time.Time{})}
	s.Put(index.Unigram, key, list)

	got, found, err := s.Get(context.Background(), index.Unigram, key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, list, got)
}

func TestGetMissingKey(t *testing.T) {
	s := New(index.Unigram)
	_, found, err := s.Get(context.Background(), index.Unigram, index.ComposeKey("absent"))
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestGetUnrecognizedIndex(t *testing.T) {
	s := New(index.Unigram)
	_, _, err := s.Get(context.Background(), index.Bigram, index.ComposeKey("x"))
	assert.Error(t, err)
}

func TestPutMergesDuplicateKey(t *testing.T) {
	s := New(index.Unigram)
	key := index.ComposeKey("whale")
	s.Put(index.Unigram, key, position.List{position.New(1, 0, 0, 1, time.Time{})})
	s.Put(index.Unigram, key, position.List{position.New(2, 0, 0, 1, time.Time{})})

	got, found, err := s.Get(context.Background(), index.Unigram, key)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, got, 2)
}

func TestIteratorSeekPrefix(t *testing.T) {
	s := New(index.Bigram)
	s.Put(index.Bigram, index.ComposeKey("moby", "dick"), position.List{position.New(1, 0, 0, 1, time.Time{})})
	s.Put(index.Bigram, index.ComposeKey("moby", "whale"), position.List{position.New(2, 0, 0, 1, time.Time{})})
	s.Put(index.Bigram, index.ComposeKey("call", "me"), position.List{position.New(3, 0, 0, 1, time.Time{})})

	it, err := s.Iterator(context.Background(), index.Bigram)
	assert.NoError(t, err)
	defer it.Close()

	it.Seek(index.ComposeKey("moby", ""))
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Entry().Key))
	}
	assert.Len(t, keys, 2)
}

func TestIteratorFullScanOrder(t *testing.T) {
	s := New(index.Unigram)
	s.Put(index.Unigram, index.ComposeKey("zebra"), position.List{position.New(3, 0, 0, 1, time.Time{})})
	s.Put(index.Unigram, index.ComposeKey("apple"), position.List{position.New(1, 0, 0, 1, time.Time{})})

	it, err := s.Iterator(context.Background(), index.Unigram)
	assert.NoError(t, err)
	defer it.Close()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Entry().Key))
	}
	assert.Equal(t, []string{string(index.ComposeKey("apple")), string(index.ComposeKey("zebra"))}, keys)
}
