// Package sqlite provides the SQLite-backed card catalog store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Config holds store settings.
type Config struct {
	Path string
	// ReadOnly opens the database in read-only mode. The serving path always
	// does this: the file must already exist and concurrent readers are safe.
	// Only the one-time seeding flow opens read-write.
	ReadOnly      bool
	BusyTimeoutMS int
	MaxOpenConns  int
}

// Store wraps the process-wide catalog database handle. It is constructed
// once at startup, injected where needed, and closed at shutdown.
type Store struct {
	db *sql.DB
}

// NewStore opens the catalog database. In read-only mode a missing file is an
// immediate error; in read-write mode parent directories are created, WAL is
// enabled, and the schema is applied.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: database path required")
	}
	if cfg.BusyTimeoutMS <= 0 {
		cfg.BusyTimeoutMS = 5000
	}

	memory := isMemory(cfg.Path)

	dsn := cfg.Path
	if cfg.ReadOnly && !memory {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("sqlite: database file %s: %w", cfg.Path, err)
		}
		dsn = "file:" + cfg.Path + "?mode=ro"
	} else if !memory {
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	// database/sql pools connections; a plain :memory: DSN would give every
	// pooled connection its own empty database.
	if memory {
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := applyPragmas(db, cfg); err != nil {
		db.Close()
		return nil, err
	}

	if !cfg.ReadOnly {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB, cfg Config) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeoutMS),
		"PRAGMA foreign_keys = ON",
	}
	if !cfg.ReadOnly {
		// Durable write-ahead journal for the seeding flow.
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}
	return nil
}

// DB exposes the underlying handle for repositories.
func (s *Store) DB() *sql.DB { return s.db }

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func isMemory(path string) bool {
	return path == ":memory:" || path == "file::memory:"
}
