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

// Filter decides whether a document is eligible for scoring.
type Filter[T any] interface {
	Test(doc T, q core.Query) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc[T any] func(doc T, q core.Query) bool

// Test calls f(doc, q).
func (f FilterFunc[T]) Test(doc T, q core.Query) bool {
	return f(doc, q)
}

// AllowAll returns a Filter that passes every document.
func AllowAll[T any]() Filter[T] {
	return FilterFunc[T](func(T, core.Query) bool { return true })
}

// And passes a document only when every filter does. Evaluation stops at
// the first failing filter. And with no filters passes everything.
func And[T any](filters ...Filter[T]) Filter[T] {
	return FilterFunc[T](func(doc T, q core.Query) bool {
		for _, f := range filters {
			if !f.Test(doc, q) {
				return false
			}
		}
		return true
	})
}

// Or passes a document when any filter does. Or with no filters passes nothing.
func Or[T any](filters ...Filter[T]) Filter[T] {
	return FilterFunc[T](func(doc T, q core.Query) bool {
		for _, f := range filters {
			if f.Test(doc, q) {
				return true
			}
		}
		return false
	})
}

// Not inverts f.
func Not[T any](f Filter[T]) Filter[T] {
	return FilterFunc[T](func(doc T, q core.Query) bool {
		return !f.Test(doc, q)
	})
}

// MatchFilter compares the query filter under key with the values extracted
// from a document, ignoring case. Queries without a string value for key
// pass every document.
func MatchFilter[T any](key string, extract func(T) []string) Filter[T] {
	return FilterFunc[T](func(doc T, q core.Query) bool {
		want, ok := q.FilterString(key)
		if !ok {
			return true
		}
		for _, have := range extract(doc) {
			if strings.EqualFold(strings.TrimSpace(have), strings.TrimSpace(want)) {
				return true
			}
		}
		return false
	})
}
