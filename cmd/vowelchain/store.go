package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CTAG07/vowelchain/pkg/history"
)

// historyDB bundles the open database with the run store built on it.
type historyDB struct {
	db    *sql.DB
	store *history.Store
}

// openHistory opens the configured database, creating its directory and
// schema as needed.
func openHistory(config *ServerConfig, logger *slog.Logger) (*historyDB, error) {
	if dir := filepath.Dir(config.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := initDB(config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err = history.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup history schema: %w", err)
	}

	store, err := history.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history store: %w", err)
	}
	store.SetLogger(logger)

	return &historyDB{db: db, store: store}, nil
}

func (h *historyDB) Close(logger *slog.Logger) {
	h.store.Close()
	if err := h.db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
