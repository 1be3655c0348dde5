// Package sqlite stores delivered contact messages in a local SQLite inbox.
package sqlite

import (
	"context"
	"embed"
	"fmt"

	"github.com/aretw0/devcraft/pkg/domain"
	"github.com/aretw0/devcraft/pkg/ports"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ ports.Deliverer = (*Inbox)(nil)

// Inbox is a Deliverer that appends every submission to a SQLite table.
type Inbox struct {
	dbConn *sqlx.DB
}

// Open connects to the SQLite file at path and applies pending migrations.
// WAL mode and a busy timeout are enabled so the CLI can read while the server writes.
func Open(path string) (*Inbox, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to inbox db : %w", err)
	}

	db.SetMaxOpenConns(1)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migration : %w", err)
	}

	return &Inbox{dbConn: db}, nil
}

// Deliver inserts the submission. Re-delivering the same ID is a no-op.
func (in *Inbox) Deliver(ctx context.Context, sub domain.Submission) error {
	query := `INSERT OR IGNORE INTO submissions (id, session_id, name, email, message, received_at)
	          VALUES (:id, :session_id, :name, :email, :message, :received_at)`

	if _, err := in.dbConn.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("inserting submission %s: %w", sub.ID, err)
	}
	return nil
}

// Recent returns up to limit submissions, newest first.
func (in *Inbox) Recent(ctx context.Context, limit int) ([]domain.Submission, error) {
	var subs []domain.Submission
	query := `SELECT id, session_id, name, email, message, received_at
	          FROM submissions ORDER BY received_at DESC LIMIT ?`

	if err := in.dbConn.SelectContext(ctx, &subs, query, limit); err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return subs, nil
}

// Count returns the number of stored submissions.
func (in *Inbox) Count(ctx context.Context) (int, error) {
	var n int
	if err := in.dbConn.GetContext(ctx, &n, `SELECT COUNT(*) FROM submissions`); err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}

// Close terminates the database connection.
func (in *Inbox) Close() error {
	if err := in.dbConn.Close(); err != nil {
		return fmt.Errorf("closing inbox : %w", err)
	}
	return nil
}
