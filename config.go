// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quarry

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/poiesic/quarry/classify"
	"github.com/poiesic/quarry/keyword"
	"github.com/poiesic/quarry/search"
)

// Config holds the catalog configuration loaded from a TOML file.
type Config struct {
	Storage    StorageConfig       `toml:"storage"`
	Engine     EngineConfig        `toml:"engine"`
	Classifier ClassifierConfig    `toml:"classifier"`
	Recency    RecencyConfig       `toml:"recency"`
	Keywords   map[string][]string `toml:"keywords"` // category -> keywords
}

// StorageConfig configures the Badger store.
type StorageConfig struct {
	Dir       string `toml:"dir"` // supports ${ENV_VAR} expansion
	Namespace string `toml:"namespace"`
}

// EngineConfig configures the search pipeline.
type EngineConfig struct {
	MaxResults int `toml:"max_results"`
}

// ClassifierConfig configures the intent classification rules.
type ClassifierConfig struct {
	SpecificTriggers     []string `toml:"specific_triggers"`
	ExploratoryKeywords  []string `toml:"exploratory_keywords"`
	KnownVocabulary      []string `toml:"known_vocabulary"`
	DifficultyMarkers    []string `toml:"difficulty_markers"`
	ExploratoryWordLimit int      `toml:"exploratory_word_limit"`
}

// RecencyConfig configures the recency boost applied after score ranking.
type RecencyConfig struct {
	Disabled   bool `toml:"disabled"`
	FreshDays  int  `toml:"fresh_days"`
	StaleDays  int  `toml:"stale_days"`
	FreshBonus int  `toml:"fresh_bonus"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir:       "./quarry.db",
			Namespace: "entry",
		},
		Engine: EngineConfig{
			MaxResults: search.DefaultMaxResults,
		},
		Classifier: ClassifierConfig{
			SpecificTriggers:     []string{"exact", "titled", "called"},
			ExploratoryKeywords:  []string{"browse", "explore", "recommend", "suggest", "ideas"},
			DifficultyMarkers:    []string{"beginner", "intermediate", "advanced"},
			ExploratoryWordLimit: classify.DefaultExploratoryWordLimit,
		},
		Recency: RecencyConfig{
			FreshDays:  30,
			StaleDays:  365,
			FreshBonus: 5,
		},
		Keywords: map[string][]string{},
	}
}

// LoadConfig reads a TOML file at path over DefaultConfig.
// Environment variables referenced as ${VAR_NAME} in storage.dir are expanded.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse config: unknown key %q", undecoded[0].String())
	}

	cfg.Storage.Dir = os.ExpandEnv(cfg.Storage.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.MaxResults < 1 {
		errs = append(errs, errors.New("config: engine.max_results must be at least 1"))
	}
	if c.Classifier.ExploratoryWordLimit < 1 {
		errs = append(errs, errors.New("config: classifier.exploratory_word_limit must be at least 1"))
	}
	if !c.Recency.Disabled {
		r := c.Recency
		if r.FreshDays < 0 || r.StaleDays <= r.FreshDays || r.FreshBonus < 0 {
			errs = append(errs, errors.New("config: recency requires stale_days > fresh_days >= 0 and fresh_bonus >= 0"))
		}
	}
	if c.Storage.Namespace == "" {
		errs = append(errs, errors.New("config: storage.namespace is required"))
	}
	return errors.Join(errs...)
}

// Categories returns the configured categories in sorted order.
func (c *Config) Categories() []string {
	return slices.Sorted(maps.Keys(c.Keywords))
}

// BuildKeywords builds the keyword to category registry. Every category
// name is registered as a keyword for itself.
func (c *Config) BuildKeywords() (*keyword.Registry[string], error) {
	b := keyword.NewBuilder[string]()
	for _, category := range c.Categories() {
		b.Register(category, category)
		b.RegisterAll(category, c.Keywords[category]...)
	}
	return b.Build()
}

// BuildClassifier builds the intent classifier. Registered keywords and
// categories count as known vocabulary.
func (c *Config) BuildClassifier() (*classify.Rules, error) {
	known := slices.Clone(c.Classifier.KnownVocabulary)
	for _, category := range c.Categories() {
		known = append(known, category)
		known = append(known, c.Keywords[category]...)
	}
	return classify.NewBuilder().
		SpecificTriggers(c.Classifier.SpecificTriggers...).
		ExploratoryKeywords(c.Classifier.ExploratoryKeywords...).
		KnownVocabulary(known...).
		DifficultyMarkers(c.Classifier.DifficultyMarkers...).
		ExploratoryWordLimit(c.Classifier.ExploratoryWordLimit).
		Build()
}

// BuildRecency builds the recency ranker, or returns nil when disabled.
func (c *Config) BuildRecency(now func() time.Time) (*search.RecencyRanker[Entry], error) {
	if c.Recency.Disabled {
		return nil, nil
	}
	return search.Recency(func(e Entry) time.Time { return e.Published },
		c.Recency.FreshDays, c.Recency.StaleDays, c.Recency.FreshBonus,
		search.WithClock(now))
}
