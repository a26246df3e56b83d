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

package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/storage"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
)

// Source produces the current documents of an external collection.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

// Fetch calls f(ctx).
func (f SourceFunc[T]) Fetch(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// IDFunc returns the store id of a document.
type IDFunc[T any] func(doc T) string

// Report summarizes one refresh.
type Report struct {
	RunID    uuid.UUID
	Fetched  int
	Upserted int
	Removed  int
	Failed   int
	Elapsed  time.Duration
}

// Refresher replaces the content of a store with the documents of a Source.
// Refreshes are serialized; searches may run against the store meanwhile.
type Refresher[T any] struct {
	store          storage.Store[T]
	source         Source[T]
	id             IDFunc[T]
	pool           *ants.Pool
	maxAttempts    int
	baseDelay      time.Duration
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger

	mu       sync.Mutex
	previous map[string]struct{}
}

type options struct {
	poolSize       int
	maxAttempts    int
	baseDelay      time.Duration
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger
}

// Option configures a Refresher.
type Option func(*options) error

// WithPoolSize sets the worker pool size for concurrent upserts.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *options) error {
		o.poolSize = max(size, 1)
		return nil
	}
}

// WithRetry sets how often a failing fetch is attempted and the initial backoff.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(o *options) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		o.maxAttempts = maxAttempts
		o.baseDelay = baseDelay
		return nil
	}
}

// WithProgress writes a progress line to w every reportInterval documents.
func WithProgress(w io.Writer, reportInterval int) Option {
	return func(o *options) error {
		o.progress = w
		o.reportInterval = reportInterval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewRefresher creates a Refresher that stores documents from source under ids from id.
// Call Release when done.
func NewRefresher[T any](store storage.Store[T], source Source[T], id IDFunc[T], opts ...Option) (*Refresher[T], error) {
	if core.IsNil(store) {
		return nil, ErrStoreRequired
	}
	if core.IsNil(source) {
		return nil, ErrSourceRequired
	}
	if id == nil {
		return nil, ErrIDFuncRequired
	}

	o := &options{
		poolSize:    max(runtime.NumCPU()/2, 1),
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, err
	}

	return &Refresher[T]{
		store:          store,
		source:         source,
		id:             id,
		pool:           pool,
		maxAttempts:    o.maxAttempts,
		baseDelay:      o.baseDelay,
		progress:       o.progress,
		reportInterval: o.reportInterval,
		logger:         o.logger,
	}, nil
}

// Refresh fetches the source and brings the store up to date.
//
// Documents whose id was stored by the previous refresh but is missing now
// are removed. Before the first refresh the previous ids are read from the
// store when it implements storage.IDLister, so a persistent store is
// pruned across process restarts too. Documents with a blank id or that
// fail to store are counted in Report.Failed and do not stop the refresh.
func (r *Refresher[T]) Refresh(ctx context.Context) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	report := Report{RunID: uuid.New()}
	logger := r.logger.With("run", report.RunID.String())

	var docs []T
	err := RetryWithBackoff(ctx, logger, func() error {
		var fetchErr error
		docs, fetchErr = r.source.Fetch(ctx)
		return fetchErr
	}, r.maxAttempts, r.baseDelay)
	if err != nil {
		logger.Error("error fetching documents", "err", err)
		return report, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	report.Fetched = len(docs)

	previous, err := r.previousIDs(ctx)
	if err != nil {
		return report, err
	}

	// Later documents win when a source repeats an id.
	current := make(map[string]struct{}, len(docs))
	order := make([]string, 0, len(docs))
	latest := make(map[string]T, len(docs))
	for _, doc := range docs {
		id := r.id(doc)
		if err := core.ValidateID(id); err != nil {
			logger.Warn("skipping document without id", "err", err)
			report.Failed++
			continue
		}
		if _, seen := current[id]; !seen {
			current[id] = struct{}{}
			order = append(order, id)
		}
		latest[id] = doc
	}

	var (
		upserted atomic.Int64
		failed   atomic.Int64
		wg       sync.WaitGroup
	)
	var tracker *progressTracker
	if r.progress != nil {
		tracker = newProgressTracker(r.progress, len(order), r.reportInterval)
	}

	for _, id := range order {
		doc := latest[id]
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			defer tracker.increment()
			if err := r.store.Add(ctx, id, doc); err != nil {
				logger.Error("error storing document", "id", id, "err", err)
				failed.Add(1)
				return
			}
			upserted.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			logger.Error("error submitting document", "id", id, "err", submitErr)
			failed.Add(1)
		}
	}
	wg.Wait()
	tracker.finish()

	report.Upserted = int(upserted.Load())
	report.Failed += int(failed.Load())

	if err := ctx.Err(); err != nil {
		return report, err
	}

	for id := range previous {
		if _, ok := current[id]; ok {
			continue
		}
		if err := r.store.Remove(ctx, id); err != nil {
			logger.Error("error removing stale document", "id", id, "err", err)
			report.Failed++
			continue
		}
		report.Removed++
	}

	r.previous = current
	report.Elapsed = time.Since(start)
	logger.Info("refresh complete",
		"fetched", report.Fetched,
		"upserted", report.Upserted,
		"removed", report.Removed,
		"failed", report.Failed,
		"elapsed", report.Elapsed)
	return report, nil
}

func (r *Refresher[T]) previousIDs(ctx context.Context) (map[string]struct{}, error) {
	if r.previous != nil {
		return r.previous, nil
	}
	lister, ok := r.store.(storage.IDLister)
	if !ok {
		return nil, nil
	}
	ids, err := lister.IDs(ctx)
	if err != nil {
		r.logger.Error("error listing stored documents", "err", err)
		return nil, err
	}
	previous := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		previous[id] = struct{}{}
	}
	return previous, nil
}

// Release releases the worker pool.
// The refresher should not be used after calling Release.
func (r *Refresher[T]) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
