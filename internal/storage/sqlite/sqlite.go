// Package sqlite provides a SQLite-backed implementation of the storage.Sink interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/lobbygen/internal/models"
	"github.com/mmynk/lobbygen/internal/storage"
)

// Ensure SQLiteStore implements storage.Sink
var _ storage.Sink = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Sink using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Run describes one dataset stored in the database.
type Run struct {
	ID        string
	Seed      int64
	CreatedAt int64
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// WriteDataset persists a dataset as a new run.
// The ds.RunID field will be populated if empty.
func (s *SQLiteStore) WriteDataset(ctx context.Context, ds *models.Dataset) error {
	if ds.RunID == "" {
		ds.RunID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO generation_runs (id, seed, created_at) VALUES (?, ?, ?)",
		ds.RunID, ds.Seed, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if err := insertPlayers(ctx, tx, ds.RunID, ds.Players); err != nil {
		return err
	}

	for i := range ds.Groups {
		if err := insertGroup(ctx, tx, ds.RunID, i, &ds.Groups[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertPlayers(ctx context.Context, tx *sql.Tx, runID string, players []models.Player) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (run_id, id, name, platform, roles, rank, rank_value, characters,
		                     voice_chat, mic, vanguards, duelists, strategists)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare player insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		roles, err := encodeList(p.Roles)
		if err != nil {
			return err
		}
		characters, err := encodeList(p.Characters)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx,
			runID, p.ID, p.Name, p.Platform, roles, p.Rank.ID, p.Rank.Value, characters,
			p.VoiceChat, p.Mic, p.RoleQueue.Vanguards, p.RoleQueue.Duelists, p.RoleQueue.Strategists,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player %d: %w", p.ID, err)
		}
	}
	return nil
}

func insertGroup(ctx context.Context, tx *sql.Tx, runID string, position int, g *models.Group) error {
	platforms, err := encodeList(g.Settings.Platforms)
	if err != nil {
		return err
	}

	var vanguards, duelists, strategists sql.NullInt64
	if q := g.RoleQueue; q != nil {
		vanguards = sql.NullInt64{Int64: int64(q.Vanguards), Valid: true}
		duelists = sql.NullInt64{Int64: int64(q.Duelists), Valid: true}
		strategists = sql.NullInt64{Int64: int64(q.Strategists), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (run_id, id, position, owner, name, region, gamemode, open,
		                    vanguards, duelists, strategists, platforms, voice_chat, mic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, g.ID, position, g.Owner, g.Name, g.Region, g.Gamemode, g.Open,
		vanguards, duelists, strategists, platforms, g.Settings.VoiceChat, g.Settings.Mic,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group %s: %w", g.ID, err)
	}

	for i, m := range g.Memberships() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (run_id, group_id, player_id, position, leader) VALUES (?, ?, ?, ?, ?)",
			runID, m.GroupID, m.PlayerID, i, m.Leader,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member %d of group %s: %w", m.PlayerID, g.ID, err)
		}
	}
	return nil
}

// ListRuns returns every stored run, oldest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, seed, created_at FROM generation_runs ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(data string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return values, nil
}
