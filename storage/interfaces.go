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

package storage

import (
	"context"
)

// Store is a collection of identifier to document pairs.
// Implementations must be thread-safe: Add, Remove and All may be called
// concurrently from multiple goroutines without external locking.
type Store[T any] interface {
	// Add inserts doc under id, replacing any document already stored there.
	// Returns an error wrapping core.ErrInvalidArgument for a blank id or nil doc.
	Add(ctx context.Context, id string, doc T) error

	// Remove deletes the document stored under id.
	// Removing a missing or blank id is a no-op.
	Remove(ctx context.Context, id string) error

	// All returns a snapshot of every document at call time.
	// The order is stable for a fixed store state.
	All(ctx context.Context) ([]T, error)

	// FindByID retrieves the document stored under id.
	// The boolean is false when no such document exists, including for a blank id.
	FindByID(ctx context.Context, id string) (T, bool, error)

	// Size returns the number of stored documents.
	Size(ctx context.Context) (int, error)
}

// Codec serializes documents for stores that keep bytes rather than values.
// Every mus-go serializer satisfies it.
type Codec[T any] interface {
	Size(v T) int
	Marshal(v T, bs []byte) int
	Unmarshal(bs []byte) (T, int, error)
}

// IDLister is implemented by stores that can enumerate their document ids.
type IDLister interface {
	IDs(ctx context.Context) ([]string, error)
}
