// Package store opens the database holding extra blocked commands.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/havce/cmdblock"
	"github.com/havce/cmdblock/internal/config"
	"github.com/havce/cmdblock/postgres"
	"github.com/havce/cmdblock/sqlite"
)

// Store is an open blocklist database.
type Store struct {
	cmdblock.BlocklistService
	io.Closer
}

// Open connects to dsn: a postgres:// URL selects Postgres, anything else is
// a SQLite path (after tilde expansion) or ":memory:".
func Open(ctx context.Context, dsn string) (*Store, error) {
	if config.IsPostgresDSN(dsn) {
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("cannot open postgres: %w", err)
		}
		return &Store{postgres.NewBlocklistService(db), db}, nil
	}

	path, err := config.ExpandDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot expand dsn: %w", err)
	}

	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, fmt.Errorf("cannot open db: %w", err)
	}
	return &Store{sqlite.NewBlocklistService(db), db}, nil
}
