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

// Package quarry is an in-process document search engine.
//
// The generic pipeline lives in package search; this package wires it to a
// concrete catalog of Entry documents: a TOML configuration, a keyword
// registry that infers categories from queries, per-intent scoring, and a
// Badger-backed store kept in sync by package ingestion.
package quarry
