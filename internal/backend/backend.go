// Package backend selects the ledger store implementation from
// configuration. The default memory backend keeps the ledger for the
// lifetime of the process; the sqlite backend persists it across
// restarts through the same interface.
package backend

import (
	"fmt"
	"log/slog"

	"caisse/internal/config"
	"caisse/internal/ledger"
	"caisse/internal/storage"
)

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result carries the store and an optional cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Type identifies a ledger backend.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

// IsValid returns true for a known backend type.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// Create builds the ledger store named by the app config.
func Create(cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	switch t {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		logger.Info("Initialized SQLite ledger backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil
	default:
		logger.Info("Initialized memory ledger backend")
		return &Result{Store: ledger.NewMemoryStore()}, nil
	}
}
