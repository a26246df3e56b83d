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
	"testing"

	"github.com/poiesic/quarry/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type article struct {
	ID       string
	Title    string
	Body     string
	Tags     []string
	Category string
}

func mustQuery(t *testing.T, raw string, opts ...core.QueryOption) core.Query {
	t.Helper()
	q, err := core.NewQuery(raw, opts...)
	require.NoError(t, err)
	return q
}

func TestFilters(t *testing.T) {
	q := mustQuery(t, "anything")
	doc := article{ID: "1", Category: "go"}

	yes := FilterFunc[article](func(article, core.Query) bool { return true })
	no := FilterFunc[article](func(article, core.Query) bool { return false })

	assert.True(t, AllowAll[article]().Test(doc, q))
	assert.True(t, And(yes, yes).Test(doc, q))
	assert.False(t, And(yes, no).Test(doc, q))
	assert.True(t, And[article]().Test(doc, q))
	assert.True(t, Or(no, yes).Test(doc, q))
	assert.False(t, Or(no, no).Test(doc, q))
	assert.False(t, Or[article]().Test(doc, q))
	assert.True(t, Not(no).Test(doc, q))
	assert.False(t, Not(yes).Test(doc, q))
}

func TestAnd_ShortCircuits(t *testing.T) {
	q := mustQuery(t, "x")
	calls := 0
	counting := FilterFunc[article](func(article, core.Query) bool {
		calls++
		return true
	})
	no := FilterFunc[article](func(article, core.Query) bool { return false })

	assert.False(t, And(no, counting).Test(article{}, q))
	assert.Equal(t, 0, calls)
}

func TestMatchFilter(t *testing.T) {
	byCategory := MatchFilter("category", func(a article) []string { return []string{a.Category} })
	byTag := MatchFilter("tag", func(a article) []string { return a.Tags })
	doc := article{Category: "Go", Tags: []string{"concurrency", "channels"}}

	t.Run("absent key passes", func(t *testing.T) {
		assert.True(t, byCategory.Test(doc, mustQuery(t, "q")))
	})

	t.Run("matching value ignores case", func(t *testing.T) {
		assert.True(t, byCategory.Test(doc, mustQuery(t, "q", core.WithFilter("category", "go"))))
	})

	t.Run("different value fails", func(t *testing.T) {
		assert.False(t, byCategory.Test(doc, mustQuery(t, "q", core.WithFilter("category", "rust"))))
	})

	t.Run("any of many values", func(t *testing.T) {
		assert.True(t, byTag.Test(doc, mustQuery(t, "q", core.WithFilter("tag", "channels"))))
		assert.False(t, byTag.Test(doc, mustQuery(t, "q", core.WithFilter("tag", "generics"))))
	})

	t.Run("non-string value is ignored", func(t *testing.T) {
		assert.True(t, byCategory.Test(doc, mustQuery(t, "q", core.WithFilter("category", 42))))
	})
}

func TestScorers(t *testing.T) {
	title := func(a article) string { return a.Title }
	body := func(a article) string { return a.Body }
	doc := article{
		Title: "Concurrency in Go",
		Body:  "Goroutines and channels make concurrency approachable.",
	}

	t.Run("zero and constant", func(t *testing.T) {
		q := mustQuery(t, "go")
		assert.Equal(t, 0, Zero[article]().Score(doc, q))
		assert.Equal(t, 3, Constant[article](3).Score(doc, q))
	})

	t.Run("term scorer counts matching terms", func(t *testing.T) {
		q := mustQuery(t, "concurrency in go")
		assert.Equal(t, 2, TermScorer(title).Score(doc, q))
		assert.Equal(t, 1, TermScorer(body).Score(doc, q))
	})

	t.Run("term scorer ignores stop words", func(t *testing.T) {
		q := mustQuery(t, "the and of")
		assert.Equal(t, 0, TermScorer(title).Score(doc, q))
	})

	t.Run("all terms scorer", func(t *testing.T) {
		assert.Equal(t, 5, AllTermsScorer(title, 5).Score(doc, mustQuery(t, "go concurrency")))
		assert.Equal(t, 0, AllTermsScorer(title, 5).Score(doc, mustQuery(t, "go generics")))
	})

	t.Run("phrase scorer", func(t *testing.T) {
		assert.Equal(t, 7, PhraseScorer(title, 7).Score(doc, mustQuery(t, "\"Concurrency in Go\"")))
		assert.Equal(t, 0, PhraseScorer(title, 7).Score(doc, mustQuery(t, "go concurrency")))
		assert.Equal(t, 0, PhraseScorer(title, 7).Score(doc, mustQuery(t, "  ")))
	})

	t.Run("weighted sums and floors at zero", func(t *testing.T) {
		q := mustQuery(t, "concurrency in go")
		weighted := Weighted(
			Weight[article]{Scorer: TermScorer(title), Multiplier: 3},
			Weight[article]{Scorer: TermScorer(body), Multiplier: 1},
		)
		assert.Equal(t, 7, weighted.Score(doc, q))

		negative := Weighted(Weight[article]{Scorer: Constant[article](2), Multiplier: -5})
		assert.Equal(t, 0, negative.Score(doc, q))
	})
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"quick", "brown", "fox"}, Terms("The quick, brown fox!"))
	assert.Empty(t, Terms("the a an"))
	assert.False(t, containsAllTerms("anything", nil))
}

func TestByScore_Stable(t *testing.T) {
	q := mustQuery(t, "x")
	items := []core.ScoredItem[string]{
		{Doc: "a", Score: 1},
		{Doc: "b", Score: 5},
		{Doc: "c", Score: 1},
		{Doc: "d", Score: 5},
		{Doc: "e", Score: 3},
	}

	ranked := ByScore[string]().Rank(items, q)

	docs := make([]string, len(ranked))
	for i, item := range ranked {
		docs[i] = item.Doc
	}
	assert.Equal(t, []string{"b", "d", "e", "a", "c"}, docs)
}

func TestChain(t *testing.T) {
	q := mustQuery(t, "x")
	reverse := RankerFunc[string](func(items []core.ScoredItem[string], _ core.Query) []core.ScoredItem[string] {
		out := make([]core.ScoredItem[string], 0, len(items))
		for i := len(items) - 1; i >= 0; i-- {
			out = append(out, items[i])
		}
		return out
	})
	items := []core.ScoredItem[string]{{Doc: "a", Score: 1}, {Doc: "b", Score: 2}}

	ranked := Chain(ByScore[string](), reverse).Rank(items, q)
	assert.Equal(t, "a", ranked[0].Doc)
	assert.Equal(t, "b", ranked[1].Doc)
}
