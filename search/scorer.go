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
	"strings"

	"github.com/poiesic/quarry/core"
)

// Scorer computes the relevance of a document. Zero or less means irrelevant.
type Scorer[T any] interface {
	Score(doc T, q core.Query) int
}

// ScorerFunc adapts a function to Scorer.
type ScorerFunc[T any] func(doc T, q core.Query) int

// Score calls f(doc, q).
func (f ScorerFunc[T]) Score(doc T, q core.Query) int {
	return f(doc, q)
}

// Zero returns a Scorer that marks every document irrelevant.
func Zero[T any]() Scorer[T] {
	return Constant[T](0)
}

// Constant returns a Scorer that gives every document the same score.
func Constant[T any](n int) Scorer[T] {
	return ScorerFunc[T](func(T, core.Query) int { return n })
}

// Weight pairs a scorer with its multiplier in Weighted.
type Weight[T any] struct {
	Scorer     Scorer[T]
	Multiplier int
}

// Weighted sums the weighted scores of parts, floored at 0.
func Weighted[T any](parts ...Weight[T]) Scorer[T] {
	return ScorerFunc[T](func(doc T, q core.Query) int {
		total := 0
		for _, p := range parts {
			total += p.Multiplier * p.Scorer.Score(doc, q)
		}
		return max(total, 0)
	})
}

// TermScorer counts the query terms, stop words excluded, that occur in the
// extracted text.
func TermScorer[T any](extract func(T) string) Scorer[T] {
	return ScorerFunc[T](func(doc T, q core.Query) int {
		return countTerms(extract(doc), Terms(q.Input()))
	})
}

// AllTermsScorer awards points when every query term occurs in the extracted text.
func AllTermsScorer[T any](extract func(T) string, points int) Scorer[T] {
	return ScorerFunc[T](func(doc T, q core.Query) int {
		if containsAllTerms(extract(doc), Terms(q.Input())) {
			return points
		}
		return 0
	})
}

// PhraseScorer awards points when the whole normalized query occurs in the
// extracted text, ignoring case. Surrounding quotes are stripped from the query.
func PhraseScorer[T any](extract func(T) string, points int) Scorer[T] {
	return ScorerFunc[T](func(doc T, q core.Query) int {
		phrase := strings.Trim(q.Input(), "\"' ")
		if phrase == "" {
			return 0
		}
		if strings.Contains(strings.ToLower(extract(doc)), phrase) {
			return points
		}
		return 0
	})
}
