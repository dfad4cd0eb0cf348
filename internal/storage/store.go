// Package storage provides abstractions for loading generated datasets into databases.
package storage

import (
	"context"

	"github.com/mmynk/lobbygen/internal/models"
)

// Sink defines the interface for dataset destinations.
// This abstraction allows swapping databases (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Sink interface {
	// WriteDataset persists every player, group and membership of ds in a
	// single transaction.
	WriteDataset(ctx context.Context, ds *models.Dataset) error

	// Close releases any resources held by the sink.
	Close() error
}
