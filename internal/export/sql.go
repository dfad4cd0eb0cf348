package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmynk/lobbygen/internal/models"
)

const (
	playersColumns = "id, name, platform, roles, rank, characters, voice_chat, mic, vanguards, duelists, strategists"
	groupsColumns  = "id, owner, region, gamemode, open, passcode, vanguards, duelists, strategists, platforms, voice_chat, mic, created_at, updated_at, last_active_at"
	membersColumns = "group_id, player_id, leader"

	lobbyGroupsColumns = "id, owner, region, gamemode, open, vanguards, duelists, strategists, platforms, voice_chat, mic, players"
)

// RelationalSQL writes INSERT statements for the Players, Groups and
// GroupMembers tables. Columns the database fills itself are written as
// DEFAULT.
type RelationalSQL struct{}

func (e *RelationalSQL) Description() string {
	return "PostgreSQL inserts for Players, Groups and GroupMembers"
}

func (e *RelationalSQL) Extension() string {
	return ".sql"
}

func (e *RelationalSQL) Write(w io.Writer, ds *models.Dataset) error {
	bw := bufio.NewWriter(w)
	for i, stmt := range RelationalStatements(ds) {
		if i > 0 {
			bw.WriteString("\n\n")
		}
		bw.WriteString(stmt)
	}
	bw.WriteString("\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write sql: %w", err)
	}
	return nil
}

// RelationalStatements returns one commented INSERT statement per non-empty
// table, in foreign key order.
func RelationalStatements(ds *models.Dataset) []string {
	players := make([]string, len(ds.Players))
	for i, p := range ds.Players {
		players[i] = playerTuple(p)
	}

	groups := make([]string, len(ds.Groups))
	var members []string
	for i := range ds.Groups {
		g := &ds.Groups[i]
		groups[i] = groupTuple(g)
		for _, m := range g.Memberships() {
			members = append(members, fmt.Sprintf("    (%s, %d, %s)", quote(m.GroupID), m.PlayerID, strconv.FormatBool(m.Leader)))
		}
	}

	var stmts []string
	stmts = appendInsert(stmts, "Players", playersColumns, players)
	stmts = appendInsert(stmts, "Groups", groupsColumns, groups)
	stmts = appendInsert(stmts, "GroupMembers", membersColumns, members)
	return stmts
}

func appendInsert(stmts []string, table, columns string, rows []string) []string {
	if len(rows) == 0 {
		return stmts
	}
	return append(stmts, fmt.Sprintf("-- %s\nINSERT INTO %s (%s) VALUES\n%s;", table, table, columns, strings.Join(rows, ",\n")))
}

func playerTuple(p models.Player) string {
	return fmt.Sprintf("    (%d, %s, %s, %s, %d, %s, %t, %t, %d, %d, %d)",
		p.ID, quote(p.Name), quote(p.Platform), array(p.Roles), p.Rank.Value, array(p.Characters),
		p.VoiceChat, p.Mic, p.RoleQueue.Vanguards, p.RoleQueue.Duelists, p.RoleQueue.Strategists,
	)
}

func groupTuple(g *models.Group) string {
	return fmt.Sprintf("    (%s, %s, %s, %s, %t, DEFAULT, %s, %s, %t, %t, DEFAULT, DEFAULT, DEFAULT)",
		quote(g.ID), quote(g.Owner), quote(g.Region), quote(g.Gamemode), g.Open,
		queueValues(g.RoleQueue), array(g.Settings.Platforms), g.Settings.VoiceChat, g.Settings.Mic,
	)
}

// LobbySQL writes a single INSERT into a denormalized Groups table whose
// players column holds the member list as JSON.
type LobbySQL struct{}

func (e *LobbySQL) Description() string {
	return "PostgreSQL inserts for a Groups table with embedded JSON players"
}

func (e *LobbySQL) Extension() string {
	return ".sql"
}

func (e *LobbySQL) Write(w io.Writer, ds *models.Dataset) error {
	rows := make([]string, len(ds.Groups))
	for i := range ds.Groups {
		g := &ds.Groups[i]
		players, err := json.Marshal(toPlayerDTOs(g.Members))
		if err != nil {
			return fmt.Errorf("failed to encode players of group %s: %w", g.ID, err)
		}
		rows[i] = fmt.Sprintf("    (%s, %s, %s, %s, %t, %s, %s, %t, %t, %s::json)",
			quote(g.ID), quote(g.Owner), quote(g.Region), quote(g.Gamemode), g.Open,
			queueValues(g.RoleQueue), array(g.Settings.Platforms), g.Settings.VoiceChat, g.Settings.Mic,
			quote(string(players)),
		)
	}

	bw := bufio.NewWriter(w)
	if len(rows) > 0 {
		fmt.Fprintf(bw, "INSERT INTO Groups (%s) VALUES\n%s;\n", lobbyGroupsColumns, strings.Join(rows, ",\n"))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write sql: %w", err)
	}
	return nil
}

// quote renders s as a single-quoted SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// array renders values as a text[] literal. An empty array needs an explicit
// type for PostgreSQL to accept it.
func array(values []string) string {
	if len(values) == 0 {
		return "'{}'::text[]"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]"
}

func queueValues(q *models.RoleQueue) string {
	if q == nil {
		return "DEFAULT, DEFAULT, DEFAULT"
	}
	return fmt.Sprintf("%d, %d, %d", q.Vanguards, q.Duelists, q.Strategists)
}
