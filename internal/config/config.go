// Package config loads the engine's YAML configuration file (spec §6:
// index root, default index set, default granularity/window, snippet
// radius), following the yaml.v3 decoder idiom used elsewhere in the pack
// (sqldef's database/database.go ParseGeneratorConfig).
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/accented-ai/corpusql/internal/query"
)

// Config is the engine's on-disk configuration.
type Config struct {
	IndexRoot     string `yaml:"index_root"`
	CorpusName    string `yaml:"corpus_name"`
	Granularity   string `yaml:"granularity"`   // "document" or "sentence"
	WindowSize    int    `yaml:"window_size"`   // sentences, only meaningful at Sentence granularity
	SnippetRadius int    `yaml:"snippet_radius"`
	ReadOnly      bool   `yaml:"read_only"`
}

// Default returns the configuration the CLI falls back to when no file is
// given.
func Default() Config {
	return Config{
		IndexRoot:     "./index",
		CorpusName:    "default",
		Granularity:   "document",
		WindowSize:    0,
		SnippetRadius: 1,
		ReadOnly:      true,
	}
}

// Load reads and decodes a YAML config file at path, rejecting unknown
// keys (the sqldef idiom: dec.KnownFields(true) catches config typos
// instead of silently ignoring them).
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// QueryGranularity resolves the configured default granularity, defaulting
// to Document on an unrecognized or empty value.
func (c Config) QueryGranularity() query.Granularity {
	if c.Granularity == "sentence" {
		return query.Sentence
	}
	return query.Document
}
