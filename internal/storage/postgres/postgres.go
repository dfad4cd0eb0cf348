// Package postgres loads generated datasets into PostgreSQL by executing the
// relational insert script.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/lobbygen/internal/export"
	"github.com/mmynk/lobbygen/internal/models"
	"github.com/mmynk/lobbygen/internal/storage"
)

// Ensure Loader implements storage.Sink
var _ storage.Sink = (*Loader)(nil)

// schema creates the minimal tables the relational insert script targets.
// Columns the script leaves as DEFAULT get their values here.
const schema = `
CREATE TABLE IF NOT EXISTS Players (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    platform TEXT NOT NULL,
    roles TEXT[] NOT NULL,
    rank INTEGER NOT NULL,
    characters TEXT[] NOT NULL,
    voice_chat BOOLEAN NOT NULL,
    mic BOOLEAN NOT NULL,
    vanguards INTEGER NOT NULL DEFAULT 0,
    duelists INTEGER NOT NULL DEFAULT 0,
    strategists INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS Groups (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    region TEXT NOT NULL,
    gamemode TEXT NOT NULL,
    open BOOLEAN NOT NULL,
    passcode TEXT NOT NULL DEFAULT '',
    vanguards INTEGER,
    duelists INTEGER,
    strategists INTEGER,
    platforms TEXT[] NOT NULL DEFAULT '{}',
    voice_chat BOOLEAN NOT NULL,
    mic BOOLEAN NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_active_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS GroupMembers (
    group_id TEXT NOT NULL REFERENCES Groups(id) ON DELETE CASCADE,
    player_id INTEGER NOT NULL REFERENCES Players(id) ON DELETE CASCADE,
    leader BOOLEAN NOT NULL,
    PRIMARY KEY (group_id, player_id)
);
`

const truncate = "TRUNCATE GroupMembers, Groups, Players"

type options struct {
	reset bool
}

// Option configures a Loader.
type Option func(opts *options)

// WithReset empties the tables before each dataset is written, so a database
// can be reloaded with a fresh run.
func WithReset() Option {
	return func(opts *options) {
		opts.reset = true
	}
}

// Loader implements storage.Sink on top of a pgx connection pool.
type Loader struct {
	pool  *pgxpool.Pool
	reset bool
}

// New connects to the database at url and verifies the connection.
func New(ctx context.Context, url string, opts ...Option) (*Loader, error) {
	var lopts options
	for _, opt := range opts {
		opt(&lopts)
	}

	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Loader{pool: pool, reset: lopts.reset}, nil
}

// Close closes the connection pool.
func (l *Loader) Close() error {
	l.pool.Close()
	return nil
}

// WriteDataset creates the tables if needed and executes the relational
// insert statements for ds in one transaction.
func (l *Loader) WriteDataset(ctx context.Context, ds *models.Dataset) error {
	return pgx.BeginFunc(ctx, l.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
		if l.reset {
			if _, err := tx.Exec(ctx, truncate); err != nil {
				return fmt.Errorf("failed to reset tables: %w", err)
			}
		}

		for _, stmt := range export.RelationalStatements(ds) {
			tag, err := tx.Exec(ctx, stmt)
			if err != nil {
				return fmt.Errorf("failed to execute insert: %w", err)
			}
			slog.Debug("Insert executed", "run_id", ds.RunID, "rows", tag.RowsAffected())
		}
		return nil
	})
}

// Counts returns the number of rows in the Players, Groups and GroupMembers
// tables.
func (l *Loader) Counts(ctx context.Context) (players, groups, members int64, err error) {
	err = l.pool.QueryRow(ctx,
		"SELECT (SELECT count(*) FROM Players), (SELECT count(*) FROM Groups), (SELECT count(*) FROM GroupMembers)",
	).Scan(&players, &groups, &members)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return players, groups, members, nil
}
