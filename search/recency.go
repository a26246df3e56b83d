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
	"fmt"
	"time"

	"github.com/poiesic/quarry/core"
)

const day = 24 * time.Hour

// RecencyOption configures a RecencyRanker.
type RecencyOption func(*recencyOptions)

type recencyOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now as the reference time for document age.
func WithClock(now func() time.Time) RecencyOption {
	return func(o *recencyOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// RecencyRanker boosts recently published documents and re-sorts by score.
// Documents aged freshDays or less get freshBonus, documents aged staleDays
// or more get nothing, and ages in between decay linearly.
type RecencyRanker[T any] struct {
	timestamp  func(T) time.Time
	freshDays  int
	staleDays  int
	freshBonus int
	now        func() time.Time
}

var _ Ranker[string] = (*RecencyRanker[string])(nil)

// Recency creates a RecencyRanker. The timestamp extractor returns the zero
// time for documents without a date; those get no bonus.
func Recency[T any](timestamp func(T) time.Time, freshDays, staleDays, freshBonus int, opts ...RecencyOption) (*RecencyRanker[T], error) {
	if timestamp == nil {
		return nil, fmt.Errorf("%w: recency timestamp extractor", ErrStrategyRequired)
	}
	if freshDays < 0 || staleDays <= freshDays || freshBonus < 0 {
		return nil, core.Invalid(ErrInvalidRecencyBounds,
			fmt.Sprintf("fresh=%d stale=%d bonus=%d", freshDays, staleDays, freshBonus))
	}
	o := &recencyOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return &RecencyRanker[T]{
		timestamp:  timestamp,
		freshDays:  freshDays,
		staleDays:  staleDays,
		freshBonus: freshBonus,
		now:        o.now,
	}, nil
}

// Bonus returns the boost for a document published at ts.
func (r *RecencyRanker[T]) Bonus(ts time.Time) int {
	if ts.IsZero() {
		return 0
	}
	age := max(int(r.now().Sub(ts)/day), 0)
	switch {
	case age <= r.freshDays:
		return r.freshBonus
	case age >= r.staleDays:
		return 0
	}
	// Every term is non-negative, so integer division truncates toward zero.
	return r.freshBonus * (r.staleDays - age) / (r.staleDays - r.freshDays)
}

// Rank adds each item's bonus to its score and sorts by the new score.
func (r *RecencyRanker[T]) Rank(items []core.ScoredItem[T], _ core.Query) []core.ScoredItem[T] {
	for i, item := range items {
		items[i] = item.Boost(r.Bonus(r.timestamp(item.Doc)))
	}
	sortByScore(items)
	return items
}
