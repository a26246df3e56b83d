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

// Package keyword provides a reusable keyword to concept lookup table.
//
// A Registry maps normalized keywords and multi-word phrases to values of
// any comparable type. Besides exact lookup it infers values from free-text
// queries in three passes:
//   - exact match of each query word
//   - phrase match of registered multi-word keywords
//   - prefix fallback on the first three characters, only when the first
//     two passes found nothing
//
// Registries are built once with a Builder and are immutable afterwards,
// so they can be shared between goroutines.
package keyword
