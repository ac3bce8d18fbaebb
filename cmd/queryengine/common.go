package main

import (
	"fmt"

	"github.com/accented-ai/corpusql/internal/config"
	"github.com/accented-ai/corpusql/internal/corpus"
	"github.com/accented-ai/corpusql/internal/engine"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/storage/badgerindex"
)

// allIndexNames lists every index name the engine's executors address
// (spec §3's index set), used both to open the Badger store and by
// validate-index.
var allIndexNames = []string{
	index.Unigram, index.Bigram, index.Trigram,
	index.Ner, index.NerDate, index.Dependency, index.Pos,
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// openEngine opens the Badger-backed index set at cfg.IndexRoot and wires
// an Engine around it. The metadata/snippet corpus store is left empty
// (spec §1: the corpus metadata store is an external collaborator this
// repo only defines the contract for) — TITLE/TIMESTAMP columns render
// blank against it, and a SNIPPET column fails with an error because no
// sentence text is registered.
func openEngine(cfg config.Config) (*engine.Engine, *badgerindex.Store, error) {
	store, err := badgerindex.Open(cfg.IndexRoot, cfg.ReadOnly, allIndexNames...)
	if err != nil {
		return nil, nil, fmt.Errorf("open index at %s: %w", cfg.IndexRoot, err)
	}
	var access index.Access = store
	eng := engine.New(access, corpus.NewMemoryStore(), corpus.NewMemoryStore())
	return eng, store, nil
}
