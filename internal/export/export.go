// Package export serializes generated datasets to files. Each output schema
// is an Exporter registered under a format name.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mmynk/lobbygen/internal/models"
)

// Exporter writes a dataset in one output schema.
type Exporter interface {
	// Write serializes ds to w.
	Write(w io.Writer, ds *models.Dataset) error

	// Description returns a human-readable description of the format.
	Description() string

	// Extension returns the file extension, including the dot.
	Extension() string
}

// Registry maps format names to exporter factories.
var Registry = map[string]func() Exporter{
	"json":        func() Exporter { return &LobbyJSON{Indent: "  "} },
	"sql":         func() Exporter { return &RelationalSQL{} },
	"sql-lobbies": func() Exporter { return &LobbySQL{} },
}

// Get returns the exporter registered under name.
func Get(name string) (Exporter, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown export format: %s", name)
	}
	return factory(), nil
}

// List returns the registered format names in sorted order.
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatForPath infers a format name from the output file's extension,
// ignoring a trailing compression suffix. It returns "" when nothing matches.
func FormatForPath(path string) string {
	base := strings.TrimSuffix(strings.ToLower(path), CompressedSuffix)
	switch filepath.Ext(base) {
	case ".json":
		return "json"
	case ".sql":
		return "sql"
	default:
		return ""
	}
}
