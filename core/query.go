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

import (
	"maps"
	"strings"
)

// DefaultMaxResults is the result cap used when a query does not set one.
const DefaultMaxResults = 10

// Query captures a single search request. It is immutable once built;
// the With* methods return modified copies.
type Query struct {
	input      string
	filters    map[string]any
	mode       Mode
	maxResults int
}

// QueryOption configures a Query during construction.
type QueryOption func(*Query) error

// WithMode forces the intent mode and bypasses classification.
func WithMode(m Mode) QueryOption {
	return func(q *Query) error {
		if !m.IsValid() {
			return Invalid(ErrInvalidMode, m.String())
		}
		q.mode = m
		return nil
	}
}

// WithMaxResults sets the per-query result cap.
func WithMaxResults(n int) QueryOption {
	return func(q *Query) error {
		if err := ValidateMaxResults(n); err != nil {
			return err
		}
		q.maxResults = n
		return nil
	}
}

// WithFilter adds a single filter parameter.
func WithFilter(key string, value any) QueryOption {
	return func(q *Query) error {
		q.filters[key] = value
		return nil
	}
}

// WithFilters adds every entry of filters.
func WithFilters(filters map[string]any) QueryOption {
	return func(q *Query) error {
		maps.Copy(q.filters, filters)
		return nil
	}
}

// NewQuery normalizes raw (trim, lower-case) and applies opts.
// MaxResults defaults to DefaultMaxResults.
func NewQuery(raw string, opts ...QueryOption) (Query, error) {
	q := Query{
		input:      Normalize(raw),
		filters:    make(map[string]any),
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		if err := opt(&q); err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

// Normalize trims surrounding whitespace and lower-cases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Input returns the normalized query text.
func (q Query) Input() string { return q.input }

// Words returns the whitespace-separated tokens of the normalized input.
func (q Query) Words() []string { return strings.Fields(q.input) }

// Mode returns the forced mode, if any.
func (q Query) Mode() (Mode, bool) { return q.mode, q.mode.IsValid() }

// MaxResults returns the per-query result cap.
func (q Query) MaxResults() int {
	if q.maxResults < 1 {
		return DefaultMaxResults
	}
	return q.maxResults
}

// Filter returns the filter value stored under key.
func (q Query) Filter(key string) (any, bool) {
	v, ok := q.filters[key]
	return v, ok
}

// FilterString returns the filter under key when it is a non-empty string.
func (q Query) FilterString(key string) (string, bool) {
	v, ok := q.filters[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Filters returns a copy of every filter parameter.
func (q Query) Filters() map[string]any {
	return maps.Clone(q.filters)
}

// WithInput returns a copy of q with a new, normalized input.
func (q Query) WithInput(raw string) Query {
	q.filters = maps.Clone(q.filters)
	q.input = Normalize(raw)
	return q
}

// WithFilter returns a copy of q with key set to value.
func (q Query) WithFilter(key string, value any) Query {
	filters := maps.Clone(q.filters)
	if filters == nil {
		filters = make(map[string]any)
	}
	filters[key] = value
	q.filters = filters
	return q
}

// WithoutFilter returns a copy of q without key.
func (q Query) WithoutFilter(key string) Query {
	filters := maps.Clone(q.filters)
	delete(filters, key)
	q.filters = filters
	return q
}
