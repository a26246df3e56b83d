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
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/quarry/classify"
	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/storage"
	"github.com/poiesic/quarry/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoreTable scores documents by id from a fixed table.
func scoreTable(scores map[string]int) Scorer[article] {
	return ScorerFunc[article](func(a article, _ core.Query) int { return scores[a.ID] })
}

func newTestStore(t *testing.T, docs ...article) *memory.Store[article] {
	t.Helper()
	store := memory.NewStore[article]()
	for _, doc := range docs {
		require.NoError(t, store.Add(context.Background(), doc.ID, doc))
	}
	return store
}

func newTestEngine(t *testing.T, b *Builder[article], opts ...Option[article]) *Engine[article] {
	t.Helper()
	cfg, err := b.Build()
	require.NoError(t, err)
	engine, err := NewEngine(cfg, opts...)
	require.NoError(t, err)
	return engine
}

func ids(result core.Result[article]) []string {
	out := make([]string, len(result.Items))
	for i, item := range result.Items {
		out[i] = item.Doc.ID
	}
	return out
}

func TestNewEngine(t *testing.T) {
	t.Run("zero config", func(t *testing.T) {
		_, err := NewEngine(Config[article]{})
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		cfg, err := NewBuilder[article](memory.NewStore[article]()).Build()
		require.NoError(t, err)
		engine, err := NewEngine(cfg, WithLogger[article](nil), WithMonitor[article](nil))
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("failing option", func(t *testing.T) {
		cfg, err := NewBuilder[article](memory.NewStore[article]()).Build()
		require.NoError(t, err)
		boom := errors.New("boom")
		_, err = NewEngine(cfg, func(*Engine[article]) error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestSearch_EndToEnd(t *testing.T) {
	store := newTestStore(t,
		article{ID: "A", Category: "go"},
		article{ID: "B", Category: "go"},
		article{ID: "C", Category: "rust"},
	)
	engine := newTestEngine(t, NewBuilder[article](store).
		WithClassifier(classify.Fixed(core.ModeVague)).
		WithScorer(core.ModeVague, scoreTable(map[string]int{"A": 10, "B": 5, "C": 50})).
		WithFilter(FilterFunc[article](func(a article, _ core.Query) bool { return a.Category == "go" })).
		WithSuggestions(func(core.Query) []string { return []string{"try again"} }))

	result, err := engine.SearchText(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, core.ModeVague, result.Mode)
	assert.Equal(t, []string{"A", "B"}, ids(result))
	assert.Equal(t, 10, result.Items[0].Score)
	assert.Equal(t, 5, result.Items[1].Score)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, `Found 2 results for "anything"`, result.Summary)
}

func TestSearch_ZeroAndNegativeScoresAreDropped(t *testing.T) {
	store := newTestStore(t, article{ID: "A"}, article{ID: "B"}, article{ID: "C"})
	engine := newTestEngine(t, NewBuilder[article](store).
		WithDefaultScorer(scoreTable(map[string]int{"A": 0, "B": -4, "C": 1})))

	result, err := engine.SearchText(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, ids(result))
}

func TestSearch_CapIsMinimumOfEngineAndQuery(t *testing.T) {
	var docs []article
	scores := map[string]int{}
	for i := range 30 {
		id := fmt.Sprintf("d%02d", i)
		docs = append(docs, article{ID: id})
		scores[id] = i + 1
	}
	store := newTestStore(t, docs...)

	tests := []struct {
		name        string
		engineCap   int
		queryOption []core.QueryOption
		want        int
	}{
		{"query default below engine cap", 20, nil, core.DefaultMaxResults},
		{"query cap below engine cap", 20, []core.QueryOption{core.WithMaxResults(3)}, 3},
		{"engine cap below query cap", 4, []core.QueryOption{core.WithMaxResults(25)}, 4},
		{"cap above document count", 50, []core.QueryOption{core.WithMaxResults(50)}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, NewBuilder[article](store).
				WithDefaultScorer(scoreTable(scores)).
				WithMaxResults(tt.engineCap))

			result, err := engine.SearchText(context.Background(), "q", tt.queryOption...)
			require.NoError(t, err)
			assert.Len(t, result.Items, tt.want)
			assert.Equal(t, "d29", result.Items[0].Doc.ID)
		})
	}
}

func TestSearch_EmptyResults(t *testing.T) {
	suggest := func(q core.Query) []string { return []string{"did you mean " + q.Input() + "s"} }

	t.Run("empty store", func(t *testing.T) {
		engine := newTestEngine(t, NewBuilder[article](newTestStore(t)).
			WithDefaultScorer(Constant[article](1)).
			WithSuggestions(suggest))

		result, err := engine.SearchText(context.Background(), "cat")
		require.NoError(t, err)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.Equal(t, []string{"did you mean cats"}, result.Suggestions)
		assert.Equal(t, `No results for "cat"`, result.Summary)
		assert.Equal(t, core.ModeVague, result.Mode)
	})

	t.Run("everything filtered out", func(t *testing.T) {
		engine := newTestEngine(t, NewBuilder[article](newTestStore(t, article{ID: "A"})).
			WithDefaultScorer(Constant[article](1)).
			WithFilter(Not(AllowAll[article]())).
			WithSuggestions(suggest))

		result, err := engine.SearchText(context.Background(), "dog")
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, []string{"did you mean dogs"}, result.Suggestions)
	})

	t.Run("everything scored zero", func(t *testing.T) {
		engine := newTestEngine(t, NewBuilder[article](newTestStore(t, article{ID: "A"})).
			WithSuggestions(suggest))

		result, err := engine.SearchText(context.Background(), "owl")
		require.NoError(t, err)
		assert.Empty(t, result.Items)
		assert.Equal(t, []string{"did you mean owls"}, result.Suggestions)
	})
}

func TestSearch_ForcedModeBypassesClassifier(t *testing.T) {
	classified := false
	classifier := classify.Func(func(string) core.Mode {
		classified = true
		return core.ModeVague
	})
	engine := newTestEngine(t, NewBuilder[article](newTestStore(t, article{ID: "A"})).
		WithClassifier(classifier).
		WithScorer(core.ModeExploratory, Constant[article](2)))

	result, err := engine.SearchText(context.Background(), "q", core.WithMode(core.ModeExploratory))
	require.NoError(t, err)
	assert.False(t, classified)
	assert.Equal(t, core.ModeExploratory, result.Mode)
	assert.Equal(t, []string{"A"}, ids(result))
}

func TestSearch_ModeSelectsScorer(t *testing.T) {
	store := newTestStore(t, article{ID: "A", Title: "go"}, article{ID: "B", Title: "rust"})
	engine := newTestEngine(t, NewBuilder[article](store).
		WithClassifier(classify.Func(func(input string) core.Mode {
			if input == "exact" {
				return core.ModeSpecific
			}
			return core.ModeVague
		})).
		WithScorer(core.ModeSpecific, scoreTable(map[string]int{"A": 1})).
		WithScorer(core.ModeVague, scoreTable(map[string]int{"B": 1})))

	result, err := engine.SearchText(context.Background(), "EXACT")
	require.NoError(t, err)
	assert.Equal(t, core.ModeSpecific, result.Mode)
	assert.Equal(t, []string{"A"}, ids(result))

	result, err = engine.SearchText(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, ids(result))
}

func TestSearch_TiesKeepStoreOrder(t *testing.T) {
	store := newTestStore(t, article{ID: "z"}, article{ID: "a"}, article{ID: "m"})
	engine := newTestEngine(t, NewBuilder[article](store).
		WithDefaultScorer(Constant[article](1)))

	for range 5 {
		result, err := engine.SearchText(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "a", "m"}, ids(result))
	}
}

func TestSearch_Hooks(t *testing.T) {
	store := newTestStore(t,
		article{ID: "A", Category: "go"},
		article{ID: "B", Category: "rust"},
	)
	builder := NewBuilder[article](store).
		WithDefaultScorer(Constant[article](1)).
		WithFilter(MatchFilter("category", func(a article) []string { return []string{a.Category} })).
		WithSuggestions(func(core.Query) []string { return []string{"engine suggestion"} })

	t.Run("pre-search injects a filter", func(t *testing.T) {
		engine := newTestEngine(t, builder, WithPreSearch[article](func(q core.Query) core.Query {
			return q.WithFilter("category", "rust")
		}))
		result, err := engine.SearchText(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, ids(result))
	})

	t.Run("post-search retries without the filter", func(t *testing.T) {
		var engine *Engine[article]
		engine = newTestEngine(t, builder, WithPostSearch(func(ctx context.Context, q core.Query, r core.Result[article]) (core.Result[article], error) {
			if !r.Empty() {
				return r, nil
			}
			return engine.Execute(ctx, q.WithoutFilter("category"))
		}))
		result, err := engine.SearchText(context.Background(), "q", core.WithFilter("category", "python"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, ids(result))
		assert.Empty(t, result.Suggestions)
	})

	t.Run("post-search results are capped and lose suggestions", func(t *testing.T) {
		engine := newTestEngine(t, builder, WithPostSearch(func(_ context.Context, _ core.Query, r core.Result[article]) (core.Result[article], error) {
			for range 5 {
				r.Items = append(r.Items, core.ScoredItem[article]{Doc: article{ID: "X"}, Score: 1})
			}
			r.Suggestions = []string{"should vanish"}
			return r, nil
		}))
		result, err := engine.SearchText(context.Background(), "q", core.WithMaxResults(3))
		require.NoError(t, err)
		assert.Len(t, result.Items, 3)
		assert.Empty(t, result.Suggestions)
		assert.Equal(t, `Found 3 results for "q"`, result.Summary)
	})

	t.Run("post-search error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		engine := newTestEngine(t, builder, WithPostSearch(func(context.Context, core.Query, core.Result[article]) (core.Result[article], error) {
			return core.Result[article]{}, boom
		}))
		_, err := engine.SearchText(context.Background(), "q")
		assert.ErrorIs(t, err, boom)
	})
}

func TestSearch_StrategyPanicsDegrade(t *testing.T) {
	store := newTestStore(t, article{ID: "A"}, article{ID: "B"}, article{ID: "C"})
	monitor := newTestMonitor()

	engine := newTestEngine(t, NewBuilder[article](store).
		WithClassifier(classify.Func(func(string) core.Mode { panic("classifier") })).
		WithFilter(FilterFunc[article](func(a article, _ core.Query) bool {
			if a.ID == "C" {
				panic("filter")
			}
			return true
		})).
		WithDefaultScorer(ScorerFunc[article](func(a article, _ core.Query) int {
			if a.ID == "B" {
				panic("scorer")
			}
			return 1
		})).
		WithRanker(RankerFunc[article](func([]core.ScoredItem[article], core.Query) []core.ScoredItem[article] {
			panic("ranker")
		})),
		WithMonitor[article](monitor),
		WithLogger[article](slog.New(slog.DiscardHandler)))

	result, err := engine.SearchText(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, core.ModeVague, result.Mode)
	assert.Equal(t, []string{"A"}, ids(result))
	assert.ElementsMatch(t, []Stage{StageClassify, StageFilter, StageScore, StageRank}, monitor.degraded)
}

func TestSearch_RankerThatDropsItemsIsIgnored(t *testing.T) {
	store := newTestStore(t, article{ID: "A"}, article{ID: "B"})
	engine := newTestEngine(t, NewBuilder[article](store).
		WithDefaultScorer(scoreTable(map[string]int{"A": 1, "B": 2})).
		WithRanker(RankerFunc[article](func(items []core.ScoredItem[article], _ core.Query) []core.ScoredItem[article] {
			return items[:1]
		})))

	result, err := engine.SearchText(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ids(result))
}

type failingStore struct {
	storage.Store[article]
	err error
}

func (f *failingStore) All(context.Context) ([]article, error) {
	return nil, f.err
}

func TestSearch_StoreErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	monitor := newTestMonitor()
	engine := newTestEngine(t, NewBuilder[article](&failingStore{err: boom}),
		WithMonitor[article](monitor))

	_, err := engine.SearchText(context.Background(), "q")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, monitor.failed)
	assert.Equal(t, 0, monitor.finished)
}

func TestSearch_CanceledContext(t *testing.T) {
	engine := newTestEngine(t, NewBuilder[article](newTestStore(t, article{ID: "A"})))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.SearchText(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_InvalidQueryOptions(t *testing.T) {
	engine := newTestEngine(t, NewBuilder[article](newTestStore(t)))

	_, err := engine.SearchText(context.Background(), "q", core.WithMaxResults(0))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestSearch_Monitor(t *testing.T) {
	store := newTestStore(t, article{ID: "A"}, article{ID: "B"}, article{ID: "C"})
	monitor := newTestMonitor()
	engine := newTestEngine(t, NewBuilder[article](store).
		WithClassifier(classify.Fixed(core.ModeSpecific)).
		WithFilter(Not(MatchFilter("id", func(a article) []string { return []string{a.ID} }))).
		WithDefaultScorer(scoreTable(map[string]int{"A": 1})),
		WithMonitor[article](monitor))

	_, err := engine.SearchText(context.Background(), "q", core.WithFilter("id", "C"))
	require.NoError(t, err)

	assert.Equal(t, []string{"q"}, monitor.started)
	assert.Equal(t, core.ModeSpecific, monitor.mode)
	assert.Equal(t, [2]int{3, 2}, monitor.filtered)
	assert.Equal(t, [2]int{2, 1}, monitor.scored)
	assert.Equal(t, 1, monitor.finished)
	assert.Equal(t, 1, monitor.results)
}

func TestSearch_MonitorIgnoresNestedExecute(t *testing.T) {
	store := newTestStore(t, article{ID: "A"}, article{ID: "B"})
	monitor := newTestMonitor()
	var engine *Engine[article]
	engine = newTestEngine(t, NewBuilder[article](store).
		WithDefaultScorer(scoreTable(map[string]int{"A": 1, "B": 1})),
		WithMonitor[article](monitor),
		WithPostSearch(func(ctx context.Context, q core.Query, _ core.Result[article]) (core.Result[article], error) {
			return engine.Execute(ctx, q)
		}))

	t.Run("stages are counted once per search", func(t *testing.T) {
		result, err := engine.SearchText(context.Background(), "q")
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)

		assert.Equal(t, 1, monitor.calls["classified"])
		assert.Equal(t, 1, monitor.calls["filtered"])
		assert.Equal(t, 1, monitor.calls["scored"])
		assert.Equal(t, [2]int{2, 2}, monitor.filtered)
		assert.Equal(t, 1, monitor.finished)
		assert.Equal(t, 2, monitor.results)
	})
}

func TestSearch_ConcurrentWithStoreWrites(t *testing.T) {
	store := newTestStore(t)
	engine := newTestEngine(t, NewBuilder[article](store).
		WithDefaultScorer(Constant[article](1)))
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := range 50 {
				id := fmt.Sprintf("w%d-%d", w, i)
				assert.NoError(t, store.Add(ctx, id, article{ID: id}))
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				result, err := engine.SearchText(ctx, "q", core.WithMaxResults(5))
				assert.NoError(t, err)
				assert.LessOrEqual(t, len(result.Items), 5)
			}
		}()
	}
	wg.Wait()

	size, err := store.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, size)
}

// testMonitor records pipeline callbacks.
type testMonitor struct {
	mu       sync.Mutex
	started  []string
	mode     core.Mode
	filtered [2]int
	scored   [2]int
	calls    map[string]int
	degraded []Stage
	failed   int
	finished int
	results  int
}

func newTestMonitor() *testMonitor {
	return &testMonitor{calls: make(map[string]int)}
}

func (m *testMonitor) Start(q core.Query) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, q.Input())
}

func (m *testMonitor) Classified(mode core.Mode, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	m.calls["classified"]++
}

func (m *testMonitor) Filtered(total, candidates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filtered = [2]int{total, candidates}
	m.calls["filtered"]++
}

func (m *testMonitor) Scored(candidates, survivors int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scored = [2]int{candidates, survivors}
	m.calls["scored"]++
}

func (m *testMonitor) Degraded(stage Stage, _ any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded = append(m.degraded, stage)
}

func (m *testMonitor) Failed(_ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

func (m *testMonitor) Finish(_ core.Mode, results int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished++
	m.results = results
}
