package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cohesivestack/valgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	var c Config
	c.InitDefaults()
	return c
}

func TestDefaultsAreValid(t *testing.T) {
	c := defaultConfig()
	assert.True(t, c.Validation().Valid())
	assert.Equal(t, DefaultCount, c.Count)
	assert.Equal(t, "json", c.Output.ResolvedFormat())
	assert.True(t, c.Generator.RankAdjacency)
}

func TestResolvedFormat(t *testing.T) {
	tests := []struct {
		name   string
		output OutputConfig
		want   string
	}{
		{name: "explicit format wins", output: OutputConfig{Path: "out.json", Format: "sql-lobbies"}, want: "sql-lobbies"},
		{name: "json extension", output: OutputConfig{Path: "out.json"}, want: "json"},
		{name: "sql extension", output: OutputConfig{Path: "out.sql"}, want: "sql"},
		{name: "compressed sql", output: OutputConfig{Path: "out.sql.lz4"}, want: "sql"},
		{name: "sqlite database", output: OutputConfig{Path: "data/lobbies.db"}, want: FormatSQLite},
		{name: "unknown extension", output: OutputConfig{Path: "out.txt"}, want: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.output.ResolvedFormat())
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		field  string
	}{
		{name: "negative count", modify: func(c *Config) { c.Count = -1 }, field: "count"},
		{name: "unknown format", modify: func(c *Config) { c.Output.Format = "xml" }, field: "output.format"},
		{name: "postgres without url", modify: func(c *Config) { c.Output.Format = FormatPostgres }, field: "output.databaseUrl"},
		{name: "unknown log level", modify: func(c *Config) { c.Logger.Level = "loud" }, field: "logger.level"},
		{name: "infeasible quota", modify: func(c *Config) { c.Generator.MinPerRole = 3 }, field: "generator.minPerRole"},
		{name: "chance above one", modify: func(c *Config) { c.Generator.RoleQueueChance = 1.5 }, field: "generator.roleQueueChance"},
		{name: "repeated alphabet", modify: func(c *Config) { c.Generator.IDAlphabet = "AAB" }, field: "generator.idAlphabet"},
		{name: "no retries", modify: func(c *Config) { c.Generator.MaxRetries = 0 }, field: "generator.maxRetries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig()
			tt.modify(&c)

			v := c.Validation()
			require.False(t, v.Valid())

			verr, ok := v.ToError().(*valgo.Error)
			require.True(t, ok)
			assert.Contains(t, verr.Errors(), tt.field)
		})
	}
}

func TestInfeasibleQuotaAllowedWithoutRoleQueue(t *testing.T) {
	c := defaultConfig()
	c.Generator.MinPerRole = 3
	c.Generator.RoleQueueChance = 0
	assert.True(t, c.Validation().Valid())
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		c, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, defaultConfig(), c)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lobbygen.yaml")
		content := `
count: 40
seed: 99
output:
  path: lobbies.sql
logger:
  level: debug
generator:
  rankAdjacency: false
  playerPoolSize: 120
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 40, c.Count)
		assert.Equal(t, int64(99), c.Seed)
		assert.Equal(t, "sql", c.Output.ResolvedFormat())
		assert.Equal(t, "debug", c.Logger.Level)
		assert.False(t, c.Generator.RankAdjacency)
		assert.Equal(t, 120, c.Generator.PlayerPoolSize)
		// untouched keys keep defaults
		assert.Equal(t, 6, c.Generator.GroupSize)
		assert.Equal(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ", c.Generator.IDAlphabet)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("count: [1, 2"), 0644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func TestRules(t *testing.T) {
	c := defaultConfig()
	r := c.Rules()
	assert.Equal(t, c.Generator.GroupSize, r.GroupSize)
	assert.Equal(t, c.Generator.MinPerRole, r.MinPerRole)
	assert.True(t, r.RankAdjacency)
	assert.Equal(t, c.Generator.RankWindow, r.RankWindow)
}
