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

// Package ingestion keeps a document store in sync with an external source.
//
// A Refresher fetches the current documents from a Source, retrying
// transient failures with exponential backoff, upserts them through a
// worker pool and removes documents that disappeared since the previous
// refresh. Fetching happens here, outside the search path, so search
// strategies never perform I/O.
package ingestion
