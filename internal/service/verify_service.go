package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/lobbygen/internal/config"
	"github.com/mmynk/lobbygen/internal/export"
	"github.com/mmynk/lobbygen/internal/invariant"
	"github.com/mmynk/lobbygen/internal/storage/sqlite"
)

// VerifyResult summarizes a checked output.
type VerifyResult struct {
	Runs   int
	Groups int
}

// Verify checks the dataset stored at path against rules. JSON exports
// (optionally .lz4) are decoded; SQLite databases have every stored run
// checked. Violations are returned as an *invariant.Error.
func Verify(ctx context.Context, path string, rules invariant.Rules) (*VerifyResult, error) {
	slog.Info("Verify request received", "path", path)

	out := config.OutputConfig{Path: path}
	switch format := out.ResolvedFormat(); format {
	case "json":
		return verifyJSON(path, rules)
	case config.FormatSQLite:
		return verifySQLite(ctx, path, rules)
	default:
		return nil, fmt.Errorf("cannot verify %s output: %s", format, path)
	}
}

func verifyJSON(path string, rules invariant.Rules) (*VerifyResult, error) {
	r, err := export.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ds, err := export.DecodeLobbies(r)
	if err != nil {
		return nil, err
	}
	if err := invariant.Check(ds, rules); err != nil {
		slog.Error("Verify failed", "path", path, "error", err)
		return nil, err
	}

	slog.Info("Verify successful", "path", path, "groups", len(ds.Groups))
	return &VerifyResult{Runs: 1, Groups: len(ds.Groups)}, nil
}

func verifySQLite(ctx context.Context, path string, rules invariant.Rules) (*VerifyResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{}
	for _, run := range runs {
		ds, err := store.GetDataset(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		if err := invariant.Check(ds, rules); err != nil {
			slog.Error("Verify failed", "path", path, "run_id", run.ID, "error", err)
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		res.Runs++
		res.Groups += len(ds.Groups)
	}

	slog.Info("Verify successful", "path", path, "runs", res.Runs, "groups", res.Groups)
	return res, nil
}
