package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/lobbygen/internal/config"
	"github.com/mmynk/lobbygen/internal/export"
	"github.com/mmynk/lobbygen/internal/generator"
	"github.com/mmynk/lobbygen/internal/invariant"
	"github.com/mmynk/lobbygen/internal/models"
	"github.com/mmynk/lobbygen/internal/storage"
	"github.com/mmynk/lobbygen/internal/storage/postgres"
	"github.com/mmynk/lobbygen/internal/storage/sqlite"
)

// SinkOpener opens the database sink for a sqlite or postgres output.
type SinkOpener func(ctx context.Context, format string, out config.OutputConfig) (storage.Sink, error)

// GenerateService runs generation jobs and hands the result to an exporter or
// a database sink.
type GenerateService struct {
	openSink SinkOpener
	metrics  *generator.Metrics
}

// Option configures a GenerateService.
type Option func(s *GenerateService)

// WithMetrics records generator metrics into m.
func WithMetrics(m *generator.Metrics) Option {
	return func(s *GenerateService) {
		s.metrics = m
	}
}

// WithSinkOpener replaces the function used to open database sinks.
func WithSinkOpener(open SinkOpener) Option {
	return func(s *GenerateService) {
		s.openSink = open
	}
}

// NewGenerateService creates a new GenerateService.
func NewGenerateService(opts ...Option) *GenerateService {
	s := &GenerateService{openSink: OpenSink}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	Seed        int64
	Format      string
	Destination string
	Players     int
	Groups      int
	Members     int
	// Bytes is the size of the written file. It is zero for database sinks.
	Bytes    int64
	Duration time.Duration
}

// Run generates cfg.Count groups, checks them and writes them to the
// configured output.
func (s *GenerateService) Run(ctx context.Context, cfg config.Config) (*Result, error) {
	start := time.Now()
	seed := cfg.Seed
	if seed == 0 {
		seed = start.UnixNano()
	}
	format := cfg.Output.ResolvedFormat()

	slog.Info("Generate request received",
		"count", cfg.Count,
		"seed", seed,
		"format", format,
	)

	gen := generator.New(cfg.Generator, seed, generator.WithMetrics(s.metrics))
	ds, err := gen.Generate(ctx, cfg.Count)
	if err != nil {
		slog.Error("Generate failed", "seed", seed, "error", err)
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}
	ds.RunID = uuid.New().String()

	if err := invariant.Check(ds, cfg.Rules()); err != nil {
		slog.Error("Generated dataset is inconsistent", "run_id", ds.RunID, "error", err)
		return nil, fmt.Errorf("failed to verify generated dataset: %w", err)
	}

	res := &Result{
		RunID:   ds.RunID,
		Seed:    seed,
		Format:  format,
		Players: len(ds.Players),
		Groups:  len(ds.Groups),
		Members: countMembers(ds),
	}

	switch format {
	case config.FormatSQLite, config.FormatPostgres:
		res.Destination = cfg.Output.Path
		if format == config.FormatPostgres {
			res.Destination = "postgres"
		}
		if err := s.writeSink(ctx, format, cfg.Output, ds); err != nil {
			return nil, err
		}
	default:
		e, err := export.Get(format)
		if err != nil {
			return nil, err
		}
		res.Destination = cfg.Output.Path
		res.Bytes, err = export.WriteFile(cfg.Output.Path, e, ds)
		if err != nil {
			slog.Error("Export failed", "run_id", ds.RunID, "path", cfg.Output.Path, "error", err)
			return nil, fmt.Errorf("failed to export dataset: %w", err)
		}
	}

	res.Duration = time.Since(start)
	slog.Info("Run completed",
		"run_id", res.RunID,
		"destination", res.Destination,
		"groups", res.Groups,
		"players", res.Players,
		"members", res.Members,
		"bytes", res.Bytes,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (s *GenerateService) writeSink(ctx context.Context, format string, out config.OutputConfig, ds *models.Dataset) error {
	sink, err := s.openSink(ctx, format, out)
	if err != nil {
		slog.Error("Failed to open sink", "format", format, "error", err)
		return fmt.Errorf("failed to open %s sink: %w", format, err)
	}
	defer sink.Close()

	if err := sink.WriteDataset(ctx, ds); err != nil {
		slog.Error("WriteDataset failed", "run_id", ds.RunID, "format", format, "error", err)
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

// OpenSink opens the SQLite database at out.Path, or connects to
// out.DatabaseURL for postgres.
func OpenSink(ctx context.Context, format string, out config.OutputConfig) (storage.Sink, error) {
	switch format {
	case config.FormatSQLite:
		store, err := sqlite.New(out.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.FormatPostgres:
		var opts []postgres.Option
		if out.Reset {
			opts = append(opts, postgres.WithReset())
		}
		loader, err := postgres.New(ctx, out.DatabaseURL, opts...)
		if err != nil {
			return nil, err
		}
		return loader, nil
	default:
		return nil, fmt.Errorf("unknown sink format: %s", format)
	}
}

func countMembers(ds *models.Dataset) int {
	n := 0
	for _, g := range ds.Groups {
		n += len(g.Members)
	}
	return n
}
