package sqlite

import "database/sql"

// schema sets up the tables generated datasets are loaded into.
// Every table is keyed by run so several runs can share one database file.
// Array-valued columns hold JSON arrays.
const schema = `
CREATE TABLE IF NOT EXISTS generation_runs (
    id TEXT PRIMARY KEY,
    seed INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    run_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    platform TEXT NOT NULL,
    roles TEXT NOT NULL,
    rank TEXT NOT NULL,
    rank_value INTEGER NOT NULL,
    characters TEXT NOT NULL,
    voice_chat INTEGER NOT NULL,
    mic INTEGER NOT NULL,
    vanguards INTEGER NOT NULL,
    duelists INTEGER NOT NULL,
    strategists INTEGER NOT NULL,
    PRIMARY KEY (run_id, id),
    UNIQUE (run_id, name),
    FOREIGN KEY (run_id) REFERENCES generation_runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS groups (
    run_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    owner TEXT NOT NULL,
    name TEXT NOT NULL,
    region TEXT NOT NULL,
    gamemode TEXT NOT NULL,
    open INTEGER NOT NULL,
    vanguards INTEGER,
    duelists INTEGER,
    strategists INTEGER,
    platforms TEXT NOT NULL,
    voice_chat INTEGER NOT NULL,
    mic INTEGER NOT NULL,
    PRIMARY KEY (run_id, id),
    FOREIGN KEY (run_id) REFERENCES generation_runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS group_members (
    run_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    player_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    leader INTEGER NOT NULL,
    PRIMARY KEY (run_id, group_id, player_id),
    FOREIGN KEY (run_id, group_id) REFERENCES groups(run_id, id) ON DELETE CASCADE,
    FOREIGN KEY (run_id, player_id) REFERENCES players(run_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_groups_run_position ON groups(run_id, position);
CREATE INDEX IF NOT EXISTS idx_group_members_group ON group_members(run_id, group_id, position);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
