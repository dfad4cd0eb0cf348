// Package config holds the settings for one lobbygen run. Values come from
// defaults, then an optional YAML file, then command line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cohesivestack/valgo"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/lobbygen/internal/export"
	"github.com/mmynk/lobbygen/internal/generator"
	"github.com/mmynk/lobbygen/internal/invariant"
	"github.com/mmynk/lobbygen/pkg/logging"
)

const (
	DefaultCount  = 250
	DefaultOutput = "mock_lobbies.json"

	// FormatSQLite and FormatPostgres name the database sinks. Every other
	// format is a file exporter from the export registry.
	FormatSQLite   = "sqlite"
	FormatPostgres = "postgres"
)

// Formats returns every accepted output format, sorted.
func Formats() []string {
	formats := append(export.List(), FormatSQLite, FormatPostgres)
	slices.Sort(formats)
	return formats
}

type Config struct {
	Count int `yaml:"count"` // default: 250
	// Seed of zero means a time based seed.
	Seed        int64            `yaml:"seed"`
	Output      OutputConfig     `yaml:"output"`
	MetricsFile string           `yaml:"metricsFile"`
	Logger      LoggerConfig     `yaml:"logger"`
	Generator   generator.Config `yaml:"generator"`
}

func (c *Config) InitDefaults() {
	c.Count = DefaultCount
	c.Output.InitDefaults()
	c.Logger.InitDefaults()
	c.Generator.InitDefaults()
}

func (c *Config) Validation() *valgo.Validation {
	v := valgo.Is(valgo.Int(c.Count, "count").GreaterOrEqualTo(0))
	v.In("output", c.Output.Validation())
	v.In("logger", c.Logger.Validation())
	v.In("generator", c.Generator.Validation())
	return v
}

// Rules returns the invariants datasets produced under this config must hold.
func (c *Config) Rules() invariant.Rules {
	return invariant.Rules{
		GroupSize:     c.Generator.GroupSize,
		MinPerRole:    c.Generator.MinPerRole,
		RankAdjacency: c.Generator.RankAdjacency,
		RankWindow:    c.Generator.RankWindow,
	}
}

type OutputConfig struct {
	// Path is the output file, or the database file for the sqlite format.
	Path string `yaml:"path"` // default: mock_lobbies.json
	// Format is inferred from Path when empty.
	Format string `yaml:"format"`
	// DatabaseURL is the connection string for the postgres format.
	DatabaseURL string `yaml:"databaseUrl"`
	// Reset empties the postgres tables before loading.
	Reset bool `yaml:"reset"`
}

func (c *OutputConfig) InitDefaults() {
	c.Path = DefaultOutput
}

// ResolvedFormat returns Format, or the format inferred from Path when
// Format is empty. A .db or .sqlite file selects the sqlite sink.
func (c *OutputConfig) ResolvedFormat() string {
	if c.Format != "" {
		return c.Format
	}
	if f := export.FormatForPath(c.Path); f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(c.Path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	}
	return "json"
}

func (c *OutputConfig) Validation() *valgo.Validation {
	format := c.ResolvedFormat()
	v := valgo.Is(valgo.String(format, "format").InSlice(Formats(), fmt.Sprintf("Must be one of %v", Formats())))
	if format == FormatPostgres {
		v.Is(valgo.String(c.DatabaseURL, "databaseUrl").Not().Blank("Must be set for the postgres format"))
	} else {
		v.Is(valgo.String(c.Path, "path").Not().Blank())
	}
	return v
}

type LoggerConfig struct {
	Level      string `yaml:"level"`      // default: info
	Structured bool   `yaml:"structured"` // default: false
}

func (c *LoggerConfig) InitDefaults() {
	c.Level = "info"
}

func (c *LoggerConfig) Validation() *valgo.Validation {
	return valgo.Is(valgo.String(c.Level, "level").Passing(func(_ string) bool {
		_, ok := logging.ParseLevel(c.Level)
		return ok
	}, fmt.Sprintf("Must be one of %v", logging.Levels)))
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	var c Config
	c.InitDefaults()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return c, nil
}
