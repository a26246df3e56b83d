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

import "errors"

var (
	// ErrStoreRequired is returned when an engine has no document store.
	ErrStoreRequired = errors.New("document store required")

	// ErrStrategyRequired is returned when a nil classifier, filter, scorer or ranker is configured.
	ErrStrategyRequired = errors.New("strategy required")

	// ErrInvalidRecencyBounds is returned for recency parameters outside
	// staleDays > freshDays >= 0 and freshBonus >= 0.
	ErrInvalidRecencyBounds = errors.New("invalid recency bounds")
)
