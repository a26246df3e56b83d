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

package search

import (
	"errors"
	"fmt"

	"github.com/poiesic/quarry/classify"
	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/storage"
)

// DefaultMaxResults is the engine-wide result cap when none is configured.
const DefaultMaxResults = 20

// SummaryFunc formats the one-line summary of a search.
type SummaryFunc func(q core.Query, count int) string

// SuggestionFunc proposes alternative queries when a search finds nothing.
type SuggestionFunc func(q core.Query) []string

// DefaultSummary reports the number of results for the query.
func DefaultSummary(q core.Query, count int) string {
	switch count {
	case 0:
		return fmt.Sprintf("No results for %q", q.Input())
	case 1:
		return fmt.Sprintf("Found 1 result for %q", q.Input())
	default:
		return fmt.Sprintf("Found %d results for %q", count, q.Input())
	}
}

// NoSuggestions is the default SuggestionFunc.
func NoSuggestions(core.Query) []string {
	return nil
}

// Config is the immutable configuration of an Engine. Create one with a Builder.
type Config[T any] struct {
	store       storage.Store[T]
	classifier  classify.Classifier
	scorers     map[core.Mode]Scorer[T]
	filter      Filter[T]
	ranker      Ranker[T]
	maxResults  int
	summary     SummaryFunc
	suggestions SuggestionFunc
}

// Store returns the configured document store.
func (c Config[T]) Store() storage.Store[T] { return c.store }

// MaxResults returns the engine-wide result cap.
func (c Config[T]) MaxResults() int { return c.maxResults }

// Classifier returns the configured classifier.
func (c Config[T]) Classifier() classify.Classifier { return c.classifier }

// ScorerFor returns the scorer used for mode.
func (c Config[T]) ScorerFor(mode core.Mode) Scorer[T] {
	if s, ok := c.scorers[mode]; ok {
		return s
	}
	return Zero[T]()
}

// Builder assembles a Config. Invalid arguments are collected and reported by Build.
type Builder[T any] struct {
	store         storage.Store[T]
	classifier    classify.Classifier
	defaultScorer Scorer[T]
	scorers       map[core.Mode]Scorer[T]
	filter        Filter[T]
	ranker        Ranker[T]
	maxResults    int
	summary       SummaryFunc
	suggestions   SuggestionFunc
	errs          []error
}

// NewBuilder starts a configuration over store.
func NewBuilder[T any](store storage.Store[T]) *Builder[T] {
	return &Builder[T]{
		store:       store,
		scorers:     make(map[core.Mode]Scorer[T]),
		maxResults:  DefaultMaxResults,
		summary:     DefaultSummary,
		suggestions: NoSuggestions,
	}
}

// WithClassifier sets the intent classifier.
// The default classifier only recognizes quoted and URL queries as Specific.
func (b *Builder[T]) WithClassifier(c classify.Classifier) *Builder[T] {
	if c == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: classifier", ErrStrategyRequired))
		return b
	}
	b.classifier = c
	return b
}

// WithDefaultScorer sets the scorer for every mode without its own scorer.
func (b *Builder[T]) WithDefaultScorer(s Scorer[T]) *Builder[T] {
	if s == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: default scorer", ErrStrategyRequired))
		return b
	}
	b.defaultScorer = s
	return b
}

// WithScorer sets the scorer for one mode, overriding the default scorer.
func (b *Builder[T]) WithScorer(mode core.Mode, s Scorer[T]) *Builder[T] {
	if !mode.IsValid() {
		b.errs = append(b.errs, core.Invalid(core.ErrInvalidMode, mode.String()))
		return b
	}
	if s == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: scorer for %s", ErrStrategyRequired, mode))
		return b
	}
	b.scorers[mode] = s
	return b
}

// WithFilter sets the filter. Several filters are combined with And.
func (b *Builder[T]) WithFilter(filters ...Filter[T]) *Builder[T] {
	for _, f := range filters {
		if f == nil {
			b.errs = append(b.errs, fmt.Errorf("%w: filter", ErrStrategyRequired))
			return b
		}
	}
	switch len(filters) {
	case 0:
		b.filter = nil
	case 1:
		b.filter = filters[0]
	default:
		b.filter = And(filters...)
	}
	return b
}

// WithRanker sets the ranker. Several rankers are applied in order with Chain.
func (b *Builder[T]) WithRanker(rankers ...Ranker[T]) *Builder[T] {
	for _, r := range rankers {
		if r == nil {
			b.errs = append(b.errs, fmt.Errorf("%w: ranker", ErrStrategyRequired))
			return b
		}
	}
	switch len(rankers) {
	case 0:
		b.ranker = nil
	case 1:
		b.ranker = rankers[0]
	default:
		b.ranker = Chain(rankers...)
	}
	return b
}

// WithMaxResults sets the engine-wide result cap.
func (b *Builder[T]) WithMaxResults(n int) *Builder[T] {
	b.maxResults = n
	return b
}

// WithSummary sets the summary formatter.
func (b *Builder[T]) WithSummary(fn SummaryFunc) *Builder[T] {
	if fn != nil {
		b.summary = fn
	}
	return b
}

// WithSuggestions sets the provider of "did you mean" suggestions.
func (b *Builder[T]) WithSuggestions(fn SuggestionFunc) *Builder[T] {
	if fn != nil {
		b.suggestions = fn
	}
	return b
}

// Build validates the configuration.
func (b *Builder[T]) Build() (Config[T], error) {
	errs := b.errs
	if core.IsNil(b.store) {
		errs = append(errs, ErrStoreRequired)
	}
	if err := core.ValidateMaxResults(b.maxResults); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Config[T]{}, errors.Join(errs...)
	}

	classifier := b.classifier
	if classifier == nil {
		rules, err := classify.NewBuilder().IgnoreUnknownShortQueries().Build()
		if err != nil {
			return Config[T]{}, err
		}
		classifier = rules
	}

	scorers := make(map[core.Mode]Scorer[T], len(core.Modes()))
	for _, mode := range core.Modes() {
		switch {
		case b.scorers[mode] != nil:
			scorers[mode] = b.scorers[mode]
		case b.defaultScorer != nil:
			scorers[mode] = b.defaultScorer
		}
	}

	filter := b.filter
	if filter == nil {
		filter = AllowAll[T]()
	}
	ranker := b.ranker
	if ranker == nil {
		ranker = ByScore[T]()
	}

	return Config[T]{
		store:       b.store,
		classifier:  classifier,
		scorers:     scorers,
		filter:      filter,
		ranker:      ranker,
		maxResults:  b.maxResults,
		summary:     b.summary,
		suggestions: b.suggestions,
	}, nil
}
