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

// Package storage provides the document store abstraction for quarry.
//
// The search pipeline depends on nothing but the [Store] interface, which
// decouples it from where documents actually live. Two implementations ship
// with the module:
//
//   - memory.Store: the reference implementation, an RWMutex-guarded map
//     that preserves insertion order
//   - badger.Store: documents serialized with a [Codec] into BadgerDB
//
// # Semantics
//
// Add is an upsert: adding an existing id replaces its document in place.
// Remove is a no-op for a missing id. All returns a snapshot; mutating the
// store afterwards never changes a slice that was already returned.
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// reads interleaved with writes from multiple goroutines.
//
// # Context Support
//
// All store methods accept context.Context so that database-backed stores
// can honour cancellation. The in-memory store ignores it.
package storage
