package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/havce/cmdblock/postgres/statements"
	"github.com/lib/pq"
)

// DB is a Postgres backed store for blocked commands.
type DB struct {
	db *sql.DB

	// Returns the current time. Defaults to time.Now().
	Now func() time.Time
}

// Open connects to the database at dsn (a postgres:// URL) and creates the
// tables if needed.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	p := &DB{db: db, Now: time.Now}
	if err := p.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := p.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return p, nil
}

// Ping tests the database connection.
func (p *DB) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database connection.
func (p *DB) Close() error {
	return p.db.Close()
}

// Migrate creates tables (see statements package) on the database.
func (p *DB) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, statements.CreateBlockedCommandsTable)
	return err
}

// isUniqueViolation reports whether err is a duplicate key error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
