package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested record does not exist in the store.
var ErrNotFound = errors.New("not found")

// Config selects the backing database.
type Config struct {
	// Driver is one of "sqlite", "postgres" or "mysql".
	Driver string
	// DSN is the driver-specific data source name. For sqlite an empty DSN
	// opens an in-memory database.
	DSN          string
	MaxOpenConns int
}

// Store persists admins, job postings, and visit records in a relational
// database. All multi-statement operations run inside a single transaction.
type Store struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

// NewStore opens a SQLite store in dataDir. Pass empty string for in-memory.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return Open(Config{Driver: "sqlite"})
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(Config{
		Driver: "sqlite",
		DSN:    filepath.Join(dataDir, "jobportal.db") + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
	})
}

// Open connects to the configured database and runs migrations.
func Open(cfg Config) (*Store, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := SanitizeDSN(d.name, cfg.DSN)
	if d.name == "sqlite" && dsn == "" {
		dsn = ":memory:"
	}

	db, err := sqlx.Connect(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.name, err)
	}

	switch {
	case d.name == "sqlite":
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	s := &Store{db: db, dialect: d, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s database: %w", d.name, err)
	}
	return s, nil
}

// SetClock overrides the time source used for created/updated timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Driver returns the dialect name of the backing database.
func (s *Store) Driver() string {
	return s.dialect.name
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// TableCounts returns the number of stored rows per table.
func (s *Store) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// withTx runs fn inside a transaction, committing only if fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// insert executes a named INSERT and returns the generated id. Dialects
// without LastInsertId support use a RETURNING clause instead.
func (s *Store) insert(ctx context.Context, ext sqlx.ExtContext, query string, arg interface{}) (int64, error) {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return 0, fmt.Errorf("bind insert: %w", err)
	}
	q = ext.Rebind(q)

	if s.dialect.returning {
		var id int64
		if err := ext.QueryRowxContext(ctx, q+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := ext.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
