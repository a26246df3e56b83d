package badger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns a BadgerDB instance shared by one or more Stores.
type Backend struct {
	db     *badger.DB
	path   string
	logger *slog.Logger
}

type backendOptions struct {
	inMemory    bool
	logger      *slog.Logger
	compression options.CompressionType
	syncWrites  bool
}

// BackendOption configures OpenBackend.
type BackendOption func(*backendOptions)

// InMemory keeps all data in memory. The path passed to OpenBackend is ignored.
func InMemory() BackendOption {
	return func(o *backendOptions) {
		o.inMemory = true
	}
}

// WithBackendLogger routes Badger's internal logging to logger.
// Default is slog.Default().
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(o *backendOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCompression sets the block compression. Default is none.
func WithCompression(c options.CompressionType) BackendOption {
	return func(o *backendOptions) {
		o.compression = c
	}
}

// WithSyncWrites fsyncs every write before it is acknowledged.
func WithSyncWrites(sync bool) BackendOption {
	return func(o *backendOptions) {
		o.syncWrites = sync
	}
}

// slogAdapter forwards Badger's printf-style logging to slog,
// tagging each record with the database path.
type slogAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogAdapter)(nil)

func (a *slogAdapter) log(level slog.Level, format string, args ...any) {
	a.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (a *slogAdapter) Errorf(format string, args ...any)   { a.log(slog.LevelError, format, args...) }
func (a *slogAdapter) Warningf(format string, args ...any) { a.log(slog.LevelWarn, format, args...) }
func (a *slogAdapter) Infof(format string, args ...any)    { a.log(slog.LevelDebug, format, args...) }
func (a *slogAdapter) Debugf(format string, args ...any)   { a.log(slog.LevelDebug, format, args...) }

// OpenBackend opens the BadgerDB database in dir, creating the directory
// when missing.
func OpenBackend(dir string, opts ...BackendOption) (*Backend, error) {
	o := &backendOptions{
		logger:      slog.Default(),
		compression: options.None,
	}
	for _, opt := range opts {
		opt(o)
	}

	var bopts badger.Options
	if o.inMemory {
		dir = ""
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
		bopts = badger.DefaultOptions(dir).WithSyncWrites(o.syncWrites)
	}

	logger := o.logger.With("component", "badger", "path", dir)
	bopts.Logger = &slogAdapter{logger: logger}
	bopts.Compression = o.compression

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	logger.Debug("opened database", "in_memory", o.inMemory)

	return &Backend{
		db:     db,
		path:   dir,
		logger: logger,
	}, nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("database directory is required")
	}
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Path returns the database directory, or "" for an in-memory database.
func (b *Backend) Path() string {
	return b.path
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	b.logger.Debug("closing database")
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction that fn must commit.
// The transaction is discarded when fn returns.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
