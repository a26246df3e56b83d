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
	"cmp"
	"slices"

	"github.com/poiesic/quarry/core"
)

// Ranker reorders scored items. It may sort in place or return a new slice,
// but must return exactly the items it was given.
type Ranker[T any] interface {
	Rank(items []core.ScoredItem[T], q core.Query) []core.ScoredItem[T]
}

// RankerFunc adapts a function to Ranker.
type RankerFunc[T any] func(items []core.ScoredItem[T], q core.Query) []core.ScoredItem[T]

// Rank calls f(items, q).
func (f RankerFunc[T]) Rank(items []core.ScoredItem[T], q core.Query) []core.ScoredItem[T] {
	return f(items, q)
}

type byScore[T any] struct{}

// ByScore returns the default ranker: score descending, ties kept in their
// incoming order.
func ByScore[T any]() Ranker[T] {
	return byScore[T]{}
}

func (byScore[T]) Rank(items []core.ScoredItem[T], _ core.Query) []core.ScoredItem[T] {
	sortByScore(items)
	return items
}

// Chain applies rankers in order, feeding each the output of the previous one.
func Chain[T any](rankers ...Ranker[T]) Ranker[T] {
	return RankerFunc[T](func(items []core.ScoredItem[T], q core.Query) []core.ScoredItem[T] {
		for _, r := range rankers {
			items = r.Rank(items, q)
		}
		return items
	})
}

func sortByScore[T any](items []core.ScoredItem[T]) {
	slices.SortStableFunc(items, func(a, b core.ScoredItem[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
}
