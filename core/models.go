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

package core

// ScoredItem pairs a document with its relevance score.
type ScoredItem[T any] struct {
	Doc   T
	Score int
}

// Boost returns a copy with n added to the score. Negative boosts are ignored.
func (s ScoredItem[T]) Boost(n int) ScoredItem[T] {
	if n > 0 {
		s.Score += n
	}
	return s
}

// Result is the outcome of a single search.
// Suggestions are only populated when Items is empty.
type Result[T any] struct {
	Mode        Mode
	Items       []ScoredItem[T]
	Suggestions []string
	Summary     string
}

// Empty reports whether the result has no items.
func (r *Result[T]) Empty() bool {
	return len(r.Items) == 0
}

// Docs returns the documents of Items in order.
func (r *Result[T]) Docs() []T {
	docs := make([]T, len(r.Items))
	for i, item := range r.Items {
		docs[i] = item.Doc
	}
	return docs
}
