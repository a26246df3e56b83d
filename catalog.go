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
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/quarry/classify"
	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/keyword"
	"github.com/poiesic/quarry/search"
	"github.com/poiesic/quarry/storage"
)

// Filter keys understood by a Catalog.
const (
	FilterCategory = "category"
	FilterTag      = "tag"

	// filterInferred marks a category filter added by the pre-search hook.
	filterInferred = "quarry.inferred_category"
)

// Scoring weights per intent mode.
const (
	titlePhrasePoints = 10
	titleTermsPoints  = 5
	bodyPhrasePoints  = 3

	titleWeight = 3
	tagWeight   = 2
	bodyWeight  = 1

	browseBase      = 1
	browseHitWeight = 2

	maxSuggestions = 5
)

// Catalog is a search engine over Entry documents. It infers a category
// from the query before searching and widens the search again when the
// inferred category turns out to be empty.
type Catalog struct {
	engine     *search.Engine[Entry]
	classifier classify.Classifier
	keywords   *keyword.Registry[string]
	categories []string
	logger     *slog.Logger
}

type catalogOptions struct {
	logger  *slog.Logger
	monitor search.Monitor
	now     func() time.Time
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(o *catalogOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithMonitor sets the search pipeline monitor.
func WithMonitor(monitor search.Monitor) CatalogOption {
	return func(o *catalogOptions) {
		o.monitor = monitor
	}
}

// WithClock sets the reference time for the recency boost.
func WithClock(now func() time.Time) CatalogOption {
	return func(o *catalogOptions) {
		o.now = now
	}
}

// NewCatalog creates a Catalog over store. A nil cfg uses DefaultConfig.
func NewCatalog(store storage.Store[Entry], cfg *Config, opts ...CatalogOption) (*Catalog, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &catalogOptions{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	classifier, err := cfg.BuildClassifier()
	if err != nil {
		return nil, err
	}
	keywords, err := cfg.BuildKeywords()
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		classifier: classifier,
		keywords:   keywords,
		categories: cfg.Categories(),
		logger:     o.logger,
	}

	rankers := []search.Ranker[Entry]{search.ByScore[Entry]()}
	recency, err := cfg.BuildRecency(o.now)
	if err != nil {
		return nil, err
	}
	if recency != nil {
		rankers = append(rankers, recency)
	}

	searchCfg, err := search.NewBuilder(store).
		WithClassifier(classifier).
		WithScorer(core.ModeSpecific, specificScorer()).
		WithScorer(core.ModeVague, vagueScorer()).
		WithScorer(core.ModeExploratory, exploratoryScorer()).
		WithFilter(
			search.MatchFilter(FilterCategory, func(e Entry) []string { return []string{e.Category} }),
			search.MatchFilter(FilterTag, func(e Entry) []string { return e.Tags }),
		).
		WithRanker(rankers...).
		WithMaxResults(cfg.Engine.MaxResults).
		WithSummary(summarize).
		WithSuggestions(c.suggest).
		Build()
	if err != nil {
		return nil, err
	}

	engine, err := search.NewEngine(searchCfg,
		search.WithLogger[Entry](o.logger),
		search.WithMonitor[Entry](o.monitor),
		search.WithPreSearch[Entry](c.inferCategory),
		search.WithPostSearch(c.widen),
	)
	if err != nil {
		return nil, err
	}
	c.engine = engine
	return c, nil
}

// Search runs a query given as raw text.
func (c *Catalog) Search(ctx context.Context, raw string, opts ...core.QueryOption) (core.Result[Entry], error) {
	return c.engine.SearchText(ctx, raw, opts...)
}

// Classify returns the intent mode the catalog would use for raw.
func (c *Catalog) Classify(raw string) core.Mode {
	return c.classifier.Classify(core.Normalize(raw))
}

// InferCategories returns the categories recognized in raw.
func (c *Catalog) InferCategories(raw string) []string {
	return c.keywords.InferFromQuery(raw)
}

// Engine returns the underlying search engine.
func (c *Catalog) Engine() *search.Engine[Entry] {
	return c.engine
}

// Store returns the document store.
func (c *Catalog) Store() storage.Store[Entry] {
	return c.engine.Store()
}

// Categories returns the configured categories.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// inferCategory adds a category filter when the query names exactly one category.
func (c *Catalog) inferCategory(q core.Query) core.Query {
	if _, ok := q.Filter(FilterCategory); ok {
		return q
	}
	inferred := c.keywords.InferFromQuery(q.Input())
	if len(inferred) != 1 {
		return q
	}
	c.logger.Debug("inferred category", "query", q.Input(), "category", inferred[0])
	return q.WithFilter(FilterCategory, inferred[0]).WithFilter(filterInferred, true)
}

// widen retries without the inferred category when it matched nothing.
func (c *Catalog) widen(ctx context.Context, q core.Query, result core.Result[Entry]) (core.Result[Entry], error) {
	if !result.Empty() {
		return result, nil
	}
	if _, ok := q.Filter(filterInferred); !ok {
		return result, nil
	}
	c.logger.Debug("inferred category found nothing, widening", "query", q.Input())
	retry, err := c.engine.Execute(ctx, q.WithoutFilter(FilterCategory).WithoutFilter(filterInferred))
	if err != nil {
		return core.Result[Entry]{}, err
	}
	if retry.Empty() {
		return result, nil
	}
	return retry, nil
}

// suggest proposes registered keywords that share a prefix with the query
// words, falling back to the category list.
func (c *Catalog) suggest(q core.Query) []string {
	words := q.Words()
	var suggestions []string
	for _, word := range words {
		for _, kw := range c.keywords.WithPrefix(word) {
			if kw != word && !slices.Contains(suggestions, kw) {
				suggestions = append(suggestions, kw)
			}
		}
	}
	if len(suggestions) == 0 {
		suggestions = slices.Clone(c.categories)
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func summarize(q core.Query, count int) string {
	scope := ""
	if category, ok := q.FilterString(FilterCategory); ok {
		scope = fmt.Sprintf(" in %s", category)
	}
	switch count {
	case 0:
		return fmt.Sprintf("No entries%s match %q", scope, q.Input())
	case 1:
		return fmt.Sprintf("1 entry%s matches %q", scope, q.Input())
	default:
		return fmt.Sprintf("%d entries%s match %q", count, scope, q.Input())
	}
}

func title(e Entry) string { return e.Title }
func body(e Entry) string  { return e.Body }
func tags(e Entry) string  { return strings.Join(e.Tags, " ") }

func labels(e Entry) string {
	return e.Category + " " + tags(e)
}

// specificScorer favors entries whose title holds the exact query.
func specificScorer() search.Scorer[Entry] {
	return search.Weighted(
		search.Weight[Entry]{Scorer: search.PhraseScorer(title, titlePhrasePoints), Multiplier: 1},
		search.Weight[Entry]{Scorer: search.AllTermsScorer(title, titleTermsPoints), Multiplier: 1},
		search.Weight[Entry]{Scorer: search.PhraseScorer(body, bodyPhrasePoints), Multiplier: 1},
	)
}

// vagueScorer weighs term matches in the title over tags over body.
func vagueScorer() search.Scorer[Entry] {
	return search.Weighted(
		search.Weight[Entry]{Scorer: search.TermScorer(title), Multiplier: titleWeight},
		search.Weight[Entry]{Scorer: search.TermScorer(tags), Multiplier: tagWeight},
		search.Weight[Entry]{Scorer: search.TermScorer(body), Multiplier: bodyWeight},
	)
}

// exploratoryScorer keeps every entry and lifts those labeled with query terms.
func exploratoryScorer() search.Scorer[Entry] {
	return search.Weighted(
		search.Weight[Entry]{Scorer: search.Constant[Entry](browseBase), Multiplier: 1},
		search.Weight[Entry]{Scorer: search.TermScorer(labels), Multiplier: browseHitWeight},
	)
}
