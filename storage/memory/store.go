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

package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/storage"
)

// Store is an in-memory storage.Store guarded by a RWMutex.
// Documents are kept in insertion order so All is deterministic.
type Store[T any] struct {
	mu    sync.RWMutex
	index map[string]int
	ids   []string
	docs  []T
}

var (
	_ storage.Store[string] = (*Store[string])(nil)
	_ storage.IDLister      = (*Store[string])(nil)
)

// NewStore creates an empty Store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		index: make(map[string]int),
	}
}

// Add inserts or replaces the document stored under id.
// A replaced document keeps its original position.
func (s *Store[T]) Add(_ context.Context, id string, doc T) error {
	if err := core.ValidateID(id); err != nil {
		return err
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[id]; ok {
		s.docs[i] = doc
		return nil
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.docs = append(s.docs, doc)
	return nil
}

// Remove deletes the document stored under id. Missing ids are ignored.
func (s *Store[T]) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil
	}
	delete(s.index, id)
	s.ids = slices.Delete(s.ids, i, i+1)
	s.docs = slices.Delete(s.docs, i, i+1)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return nil
}

// All returns a snapshot of every document in insertion order.
func (s *Store[T]) All(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs), nil
}

// FindByID retrieves the document stored under id.
func (s *Store[T]) FindByID(_ context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return s.docs[i], true, nil
}

// Size returns the number of stored documents.
func (s *Store[T]) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids), nil
}

// IDs returns a snapshot of every id in insertion order.
func (s *Store[T]) IDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids), nil
}
