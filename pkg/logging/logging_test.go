package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug, ok: true},
		{name: "upper case", input: "INFO", want: slog.LevelInfo, ok: true},
		{name: "warning alias", input: "warning", want: slog.LevelWarn, ok: true},
		{name: "error", input: "error", want: slog.LevelError, ok: true},
		{name: "unknown falls back to info", input: "loud", want: slog.LevelInfo, ok: false},
		{name: "empty", input: "", want: slog.LevelInfo, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewStructured(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", true)

	logger.Info("dropped")
	logger.Warn("kept", "group_id", "ABCD")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "ABCD", line["group_id"])
}

func TestNewColored(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", false)

	logger.Debug("Groups generated", "count", 3)
	assert.Contains(t, buf.String(), "Groups generated")
	assert.Contains(t, buf.String(), "count")
}

func TestLevelsParse(t *testing.T) {
	for _, name := range Levels {
		_, ok := ParseLevel(name)
		assert.True(t, ok, name)
	}
}
