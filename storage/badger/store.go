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

package badger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/storage"
)

// Store implements storage.Store on top of a BadgerDB backend.
// Documents are serialized with a storage.Codec and kept under
// <namespace>:<id>, so All returns them in id order.
type Store[T any] struct {
	backend   *Backend
	codec     storage.Codec[T]
	prefix    []byte
	namespace string
	logger    *slog.Logger
}

var (
	_ storage.Store[string] = (*Store[string])(nil)
	_ storage.IDLister      = (*Store[string])(nil)
)

// Option configures a Store.
type Option func(*storeOptions) error

type storeOptions struct {
	namespace string
	logger    *slog.Logger
}

// WithNamespace sets the key namespace. Stores with different namespaces
// can share one backend without seeing each other's documents.
func WithNamespace(namespace string) Option {
	return func(o *storeOptions) error {
		if err := core.ValidateID(namespace); err != nil {
			return err
		}
		o.namespace = namespace
		return nil
	}
}

// WithLogger sets the store logger. A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewStore creates a Store over backend using codec for document values.
func NewStore[T any](backend *Backend, codec storage.Codec[T], opts ...Option) (*Store[T], error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	if codec == nil {
		return nil, storage.ErrCodecRequired
	}
	o := &storeOptions{namespace: defaultNamespace, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Store[T]{
		backend:   backend,
		codec:     codec,
		prefix:    makeDocPrefix(o.namespace),
		namespace: o.namespace,
		logger:    o.logger,
	}, nil
}

// Namespace returns the key namespace of the store.
func (s *Store[T]) Namespace() string {
	return s.namespace
}

// Add stores doc under id, replacing any existing value.
func (s *Store[T]) Add(ctx context.Context, id string, doc T) error {
	if err := core.ValidateID(id); err != nil {
		return err
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return err
	}
	value := storage.Marshal(s.codec, doc)
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeDocKey(s.prefix, id), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Remove deletes the document under id. Missing and blank ids are ignored.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if core.ValidateID(id) != nil {
		return nil
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeDocKey(s.prefix, id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// All returns every document in the namespace, ordered by id.
func (s *Store[T]) All(ctx context.Context) ([]T, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var docs []T
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		it := tx.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			doc, err := storage.Unmarshal(s.codec, value)
			if err != nil {
				s.logger.Error("failed to decode document", "key", string(item.Key()), "err", err)
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// IDs returns every document id in the namespace in key order.
func (s *Store[T]) IDs(ctx context.Context) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	var ids []string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)
		defer it.Close()
		for it.Seek(s.prefix); it.ValidForPrefix(s.prefix); it.Next() {
			ids = append(ids, idFromKey(s.prefix, it.Item().KeyCopy(nil)))
		}
		return nil
	}, false)
	return ids, err
}

// FindByID retrieves the document stored under id. A blank id is never found.
func (s *Store[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := s.ready(ctx); err != nil {
		return zero, false, err
	}
	if core.ValidateID(id) != nil {
		return zero, false, nil
	}
	var (
		doc   T
		found bool
	)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocKey(s.prefix, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		doc, err = storage.Unmarshal(s.codec, value)
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	if err != nil {
		return zero, false, err
	}
	return doc, found, nil
}

// Size returns the number of documents in the namespace.
func (s *Store[T]) Size(ctx context.Context) (int, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *Store[T]) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}
