package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/lobbygen/internal/models"
)

const playerColumns = `p.id, p.name, p.platform, p.roles, p.rank, p.characters,
	p.voice_chat, p.mic, p.vanguards, p.duelists, p.strategists`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlayer scans the playerColumns projection, plus any extra destinations.
func scanPlayer(row rowScanner, extra ...any) (models.Player, error) {
	var p models.Player
	var roles, rank, characters string
	dest := []any{
		&p.ID, &p.Name, &p.Platform, &roles, &rank, &characters,
		&p.VoiceChat, &p.Mic, &p.RoleQueue.Vanguards, &p.RoleQueue.Duelists, &p.RoleQueue.Strategists,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Player{}, fmt.Errorf("failed to scan player: %w", err)
	}

	var err error
	if p.Roles, err = decodeList(roles); err != nil {
		return models.Player{}, err
	}
	if p.Characters, err = decodeList(characters); err != nil {
		return models.Player{}, err
	}
	if p.Rank, err = models.RankByID(rank); err != nil {
		return models.Player{}, err
	}
	return p, nil
}

// GetDataset loads a stored run, including its players, groups and members.
func (s *SQLiteStore) GetDataset(ctx context.Context, runID string) (*models.Dataset, error) {
	ds := &models.Dataset{RunID: runID}
	err := s.db.QueryRowContext(ctx,
		"SELECT seed FROM generation_runs WHERE id = ?",
		runID,
	).Scan(&ds.Seed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+playerColumns+" FROM players p WHERE p.run_id = ? ORDER BY p.id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		ds.Players = append(ds.Players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}

	groupRows, err := s.db.QueryContext(ctx,
		"SELECT id FROM groups WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get groups: %w", err)
	}
	defer groupRows.Close()

	var groupIDs []string
	for groupRows.Next() {
		var id string
		if err := groupRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		groupIDs = append(groupIDs, id)
	}
	if err := groupRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, id := range groupIDs {
		g, err := s.GetGroup(ctx, runID, id)
		if err != nil {
			return nil, err
		}
		ds.Groups = append(ds.Groups, *g)
	}
	return ds, nil
}

// GetGroup retrieves one group of a run with its members, leader first.
func (s *SQLiteStore) GetGroup(ctx context.Context, runID, groupID string) (*models.Group, error) {
	g := &models.Group{}
	var platforms string
	var vanguards, duelists, strategists sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner, name, region, gamemode, open, vanguards, duelists, strategists,
		       platforms, voice_chat, mic
		FROM groups WHERE run_id = ? AND id = ?`,
		runID, groupID,
	).Scan(&g.ID, &g.Owner, &g.Name, &g.Region, &g.Gamemode, &g.Open,
		&vanguards, &duelists, &strategists, &platforms, &g.Settings.VoiceChat, &g.Settings.Mic)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group not found: %s", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if vanguards.Valid && duelists.Valid && strategists.Valid {
		g.RoleQueue = &models.RoleQueue{
			Vanguards:   int(vanguards.Int64),
			Duelists:    int(duelists.Int64),
			Strategists: int(strategists.Int64),
		}
	}
	if g.Settings.Platforms, err = decodeList(platforms); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+playerColumns+`, m.leader
		FROM group_members m
		JOIN players p ON p.run_id = m.run_id AND p.id = m.player_id
		WHERE m.run_id = ? AND m.group_id = ?
		ORDER BY m.position`,
		runID, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var leader bool
		p, err := scanPlayer(rows, &leader)
		if err != nil {
			return nil, err
		}
		p.Leader = leader
		g.Members = append(g.Members, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return g, nil
}
