package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/lobbygen/internal/config"
	"github.com/mmynk/lobbygen/internal/generator"
	"github.com/mmynk/lobbygen/internal/invariant"
	"github.com/mmynk/lobbygen/internal/models"
	"github.com/mmynk/lobbygen/internal/storage"
	"github.com/mmynk/lobbygen/internal/storage/sqlite"
)

func testConfig(t *testing.T, path string) config.Config {
	t.Helper()
	var cfg config.Config
	cfg.InitDefaults()
	cfg.Count = 30
	cfg.Seed = 5
	cfg.Output.Path = path
	cfg.Generator.PlayerPoolSize = 80
	return cfg
}

// recordingSink keeps the last dataset it was given.
type recordingSink struct {
	ds     *models.Dataset
	err    error
	closed bool
}

func (s *recordingSink) WriteDataset(_ context.Context, ds *models.Dataset) error {
	s.ds = ds
	return s.err
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestRunWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "lobbies.json")
	cfg := testConfig(t, path)

	res, err := NewGenerateService().Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "json", res.Format)
	assert.Equal(t, path, res.Destination)
	assert.Equal(t, 30, res.Groups)
	assert.Equal(t, 80, res.Players)
	assert.Equal(t, int64(5), res.Seed)
	assert.Len(t, res.RunID, 36)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), res.Bytes)

	verified, err := Verify(context.Background(), path, cfg.Rules())
	require.NoError(t, err)
	assert.Equal(t, 30, verified.Groups)
}

func TestRunWritesCompressedSQL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobbies.sql.lz4")
	cfg := testConfig(t, path)

	res, err := NewGenerateService().Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "sql", res.Format)
	assert.Positive(t, res.Bytes)
}

func TestRunSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobbies.db")
	cfg := testConfig(t, path)
	svc := NewGenerateService()

	first, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, config.FormatSQLite, first.Format)

	cfg.Seed = 6
	_, err = svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	store, err := sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()

	ds, err := store.GetDataset(context.Background(), first.RunID)
	require.NoError(t, err)
	assert.Len(t, ds.Groups, 30)
	assert.Equal(t, first.Members, countMembers(ds))

	verified, err := Verify(context.Background(), path, cfg.Rules())
	require.NoError(t, err)
	assert.Equal(t, 2, verified.Runs)
	assert.Equal(t, 60, verified.Groups)
}

func TestRunUsesSinkOpener(t *testing.T) {
	sink := &recordingSink{}
	var openedFormat string
	svc := NewGenerateService(WithSinkOpener(func(_ context.Context, format string, _ config.OutputConfig) (storage.Sink, error) {
		openedFormat = format
		return sink, nil
	}))

	cfg := testConfig(t, "")
	cfg.Output.Format = config.FormatPostgres
	cfg.Output.DatabaseURL = "postgres://localhost/lobbies"

	res, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, config.FormatPostgres, openedFormat)
	assert.Equal(t, "postgres", res.Destination)
	require.NotNil(t, sink.ds)
	assert.Equal(t, res.RunID, sink.ds.RunID)
	assert.True(t, sink.closed)
}

func TestRunSinkFailure(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	svc := NewGenerateService(WithSinkOpener(func(context.Context, string, config.OutputConfig) (storage.Sink, error) {
		return sink, nil
	}))

	cfg := testConfig(t, filepath.Join(t.TempDir(), "lobbies.db"))
	_, err := svc.Run(context.Background(), cfg)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, sink.closed)
}

func TestRunIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	svc := NewGenerateService()

	for _, name := range []string{"a.json", "b.json"} {
		_, err := svc.Run(context.Background(), testConfig(t, filepath.Join(dir, name)))
		require.NoError(t, err)
	}

	a, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "b.json"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewGenerateService(WithMetrics(generator.NewMetrics(reg)))

	_, err := svc.Run(context.Background(), testConfig(t, filepath.Join(t.TempDir(), "out.json")))
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "lobbygen_groups_generated_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerateService().Run(ctx, testConfig(t, filepath.Join(t.TempDir(), "out.json")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()

	t.Run("detects violations", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		content := `[{"id":"ABCD","name":"Player 1's Group","owner":"Player 1","region":"na","gamemode":"competitive","open":true,
"roleQueue":{"vanguards":3,"duelists":3,"strategists":3},
"groupSettings":{"platforms":[],"voiceChat":false,"mic":false},
"players":[{"id":1,"name":"Player 1","leader":false,"platform":"pc","roles":["duelist"],"rank":"g3","characters":["Hulk"],"voiceChat":false,"mic":false}]}]`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		var cfg config.Config
		cfg.InitDefaults()
		_, err := Verify(context.Background(), path, cfg.Rules())

		var verr *invariant.Error
		require.ErrorAs(t, err, &verr)
		assert.GreaterOrEqual(t, len(verr.Violations), 3)
	})

	t.Run("rejects sql output", func(t *testing.T) {
		_, err := Verify(context.Background(), filepath.Join(dir, "out.sql"), invariant.Rules{})
		assert.ErrorContains(t, err, "cannot verify sql output")
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := Verify(context.Background(), filepath.Join(dir, "missing.db"), invariant.Rules{})
		assert.ErrorContains(t, err, "failed to open database")
	})
}
