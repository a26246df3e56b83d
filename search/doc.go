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

// Package search implements a pluggable, in-process document search pipeline.
//
// An Engine runs every query through five fixed phases:
//   - Classify: pick the intent mode, unless the query forces one
//   - Filter: drop documents that fail the configured Filter
//   - Score: apply the mode's Scorer and keep only positive scores
//   - Rank: reorder the scored items with the configured Ranker
//   - TrimAndWrap: cap the items and attach a summary line
//
// Configuration is assembled once with a Builder and never changes for the
// lifetime of the engine. Specialized engines customize behavior through the
// pre-search and post-search hooks only.
//
// Filters, scorers and rankers must be pure and fast. A strategy that panics
// is recovered: the document is filtered out, scored 0, or left in its
// previous order, and the Monitor is told about it.
package search
