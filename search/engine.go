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
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/storage"
)

// PreSearchFunc derives the query that the pipeline actually runs.
type PreSearchFunc func(q core.Query) core.Query

// PostSearchFunc rewrites a finished result. It receives the query returned
// by the pre-search hook and may re-run the pipeline through Engine.Execute.
type PostSearchFunc[T any] func(ctx context.Context, q core.Query, result core.Result[T]) (core.Result[T], error)

// Engine runs queries against a fixed Config.
// An Engine is safe for concurrent use when its store is.
type Engine[T any] struct {
	cfg     Config[T]
	pre     PreSearchFunc
	post    PostSearchFunc[T]
	monitor Monitor
	logger  *slog.Logger
}

// Option configures an Engine.
type Option[T any] func(*Engine[T]) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(e *Engine[T]) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor sets the pipeline monitor. A nil monitor disables monitoring.
func WithMonitor[T any](monitor Monitor) Option[T] {
	return func(e *Engine[T]) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// WithPreSearch sets the hook run before the pipeline.
func WithPreSearch[T any](fn PreSearchFunc) Option[T] {
	return func(e *Engine[T]) error {
		if fn != nil {
			e.pre = fn
		}
		return nil
	}
}

// WithPostSearch sets the hook run after the pipeline.
func WithPostSearch[T any](fn PostSearchFunc[T]) Option[T] {
	return func(e *Engine[T]) error {
		if fn != nil {
			e.post = fn
		}
		return nil
	}
}

// NewEngine creates an engine over a Config produced by Builder.Build.
func NewEngine[T any](cfg Config[T], opts ...Option[T]) (*Engine[T], error) {
	if core.IsNil(cfg.store) {
		return nil, ErrStoreRequired
	}

	e := &Engine[T]{
		cfg:     cfg,
		pre:     func(q core.Query) core.Query { return q },
		post:    func(_ context.Context, _ core.Query, r core.Result[T]) (core.Result[T], error) { return r, nil },
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine[T]) Config() Config[T] {
	return e.cfg
}

// Store returns the document store, so callers can add and remove
// documents without rebuilding the engine.
func (e *Engine[T]) Store() storage.Store[T] {
	return e.cfg.store
}

// SearchText builds a query from raw text and options, then runs Search.
func (e *Engine[T]) SearchText(ctx context.Context, raw string, opts ...core.QueryOption) (core.Result[T], error) {
	q, err := core.NewQuery(raw, opts...)
	if err != nil {
		return core.Result[T]{}, err
	}
	return e.Search(ctx, q)
}

// Search runs the pre-search hook, the pipeline and the post-search hook.
// Finding nothing is not an error; only store failures and context
// cancellation are returned.
func (e *Engine[T]) Search(ctx context.Context, q core.Query) (core.Result[T], error) {
	start := time.Now()
	e.monitor.Start(q)

	q = e.preSearch(q)

	result, err := e.execute(ctx, q, e.monitor)
	if err != nil {
		e.monitor.Failed(err)
		return core.Result[T]{}, err
	}

	result, err = e.postSearch(ctx, q, result)
	if err != nil {
		e.monitor.Failed(err)
		return core.Result[T]{}, err
	}

	// Hooks may rewrite the result; the cap and suggestion rules still hold.
	if limit := e.limit(q); len(result.Items) > limit {
		result.Items = result.Items[:limit]
		result.Summary = e.summarize(q, limit)
	}
	if len(result.Items) > 0 {
		result.Suggestions = nil
	}

	e.monitor.Finish(result.Mode, len(result.Items), time.Since(start))
	return result, nil
}

// Execute runs the five pipeline phases without the hooks. Hooks use it to
// rerun a query, so it reports only recovered panics to the monitor; stage
// counts come from the enclosing Search alone.
func (e *Engine[T]) Execute(ctx context.Context, q core.Query) (core.Result[T], error) {
	return e.execute(ctx, q, &noopMonitor{})
}

func (e *Engine[T]) execute(ctx context.Context, q core.Query, monitor Monitor) (core.Result[T], error) {
	if err := ctx.Err(); err != nil {
		return core.Result[T]{}, err
	}

	// Classify
	mode, forced := q.Mode()
	if !forced {
		mode = e.classify(q)
	}
	monitor.Classified(mode, forced)
	e.logger.Debug("query classified", "query", q.Input(), "mode", mode, "forced", forced)

	// Filter
	docs, err := e.cfg.store.All(ctx)
	if err != nil {
		e.logger.Error("error reading document store", "err", err)
		return core.Result[T]{}, err
	}
	candidates := make([]T, 0, len(docs))
	for _, doc := range docs {
		if e.test(doc, q) {
			candidates = append(candidates, doc)
		}
	}
	monitor.Filtered(len(docs), len(candidates))
	if len(candidates) == 0 {
		e.logger.Debug("no documents passed the filter", "query", q.Input(), "total", len(docs))
		return e.empty(q, mode), nil
	}

	// Score
	scorer := e.cfg.ScorerFor(mode)
	items := make([]core.ScoredItem[T], 0, len(candidates))
	for _, doc := range candidates {
		if score := e.score(scorer, doc, q); score > 0 {
			items = append(items, core.ScoredItem[T]{Doc: doc, Score: score})
		}
	}
	monitor.Scored(len(candidates), len(items))
	if len(items) == 0 {
		e.logger.Debug("no documents scored above zero", "query", q.Input(), "candidates", len(candidates))
		return e.empty(q, mode), nil
	}

	// Rank
	items = e.rank(items, q)

	// TrimAndWrap
	if limit := e.limit(q); len(items) > limit {
		items = items[:limit]
	}
	return core.Result[T]{
		Mode:    mode,
		Items:   items,
		Summary: e.summarize(q, len(items)),
	}, nil
}

func (e *Engine[T]) limit(q core.Query) int {
	return min(e.cfg.maxResults, q.MaxResults())
}

func (e *Engine[T]) empty(q core.Query, mode core.Mode) core.Result[T] {
	return core.Result[T]{
		Mode:        mode,
		Items:       []core.ScoredItem[T]{},
		Suggestions: e.suggest(q),
		Summary:     e.summarize(q, 0),
	}
}

// degraded records a recovered strategy panic.
func (e *Engine[T]) degraded(stage Stage, r any) {
	e.logger.Warn("search strategy panicked, degrading", "stage", stage, "panic", r)
	e.monitor.Degraded(stage, r)
}

func (e *Engine[T]) preSearch(q core.Query) (out core.Query) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StagePreSearch, r)
			out = q
		}
	}()
	return e.pre(q)
}

func (e *Engine[T]) postSearch(ctx context.Context, q core.Query, result core.Result[T]) (out core.Result[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StagePostSearch, r)
			out, err = result, nil
		}
	}()
	return e.post(ctx, q, result)
}

func (e *Engine[T]) classify(q core.Query) (mode core.Mode) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StageClassify, r)
			mode = core.ModeVague
		}
	}()
	mode = e.cfg.classifier.Classify(q.Input())
	if !mode.IsValid() {
		e.logger.Warn("classifier returned an unknown mode, using vague", "mode", mode)
		mode = core.ModeVague
	}
	return mode
}

func (e *Engine[T]) test(doc T, q core.Query) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StageFilter, r)
			ok = false
		}
	}()
	return e.cfg.filter.Test(doc, q)
}

func (e *Engine[T]) score(scorer Scorer[T], doc T, q core.Query) (score int) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StageScore, r)
			score = 0
		}
	}()
	return max(scorer.Score(doc, q), 0)
}

// rank hands the ranker a copy so the scored order survives a panic.
func (e *Engine[T]) rank(items []core.ScoredItem[T], q core.Query) (out []core.ScoredItem[T]) {
	working := make([]core.ScoredItem[T], len(items))
	copy(working, items)
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StageRank, r)
			out = items
		}
	}()
	ranked := e.cfg.ranker.Rank(working, q)
	if len(ranked) != len(items) {
		e.logger.Warn("ranker changed the number of items, keeping scored order",
			"before", len(items), "after", len(ranked))
		return items
	}
	return ranked
}

func (e *Engine[T]) summarize(q core.Query, count int) (summary string) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StageSummary, r)
			summary = DefaultSummary(q, count)
		}
	}()
	return e.cfg.summary(q, count)
}

func (e *Engine[T]) suggest(q core.Query) (suggestions []string) {
	defer func() {
		if r := recover(); r != nil {
			e.degraded(StageSuggestions, r)
			suggestions = nil
		}
	}()
	return e.cfg.suggestions(q)
}
