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

package quarry

import (
	"log/slog"

	"github.com/poiesic/quarry/ingestion"
	"github.com/poiesic/quarry/storage"
	"github.com/poiesic/quarry/storage/badger"
)

// Store is a persistent Entry store.
type Store struct {
	*badger.Store[Entry]
	backend *badger.Backend
	logger  *slog.Logger
}

// OpenStore opens the Badger database configured by cfg.Storage.
// A nil logger falls back to slog.Default().
func OpenStore(cfg *Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := badger.OpenBackend(cfg.Storage.Dir, badger.WithBackendLogger(logger))
	if err != nil {
		return nil, err
	}

	store, err := badger.NewStore[Entry](backend, EntryMUS,
		badger.WithNamespace(cfg.Storage.Namespace),
		badger.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Store{Store: store, backend: backend, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// NewIndexer creates a refresher that keeps store in sync with source,
// identifying entries with EntryID.
func NewIndexer(store storage.Store[Entry], source ingestion.Source[Entry], opts ...ingestion.Option) (*ingestion.Refresher[Entry], error) {
	return ingestion.NewRefresher(store, source, EntryID, opts...)
}
