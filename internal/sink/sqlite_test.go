package sink

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/sim"
)

func testDataset(t *testing.T) *sim.CycleDataset {
	t.Helper()
	engine, err := sim.NewEngine(sim.Options{
		Seed:  42,
		Start: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return engine.RunCycle(0)
}

func tableCount(t *testing.T, s *SQLite, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSQLiteRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "installation.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	ds := testDataset(t)
	require.NoError(t, s.Record(context.Background(), ds))

	assert.Equal(t, 3, tableCount(t, s, "environmental"))
	assert.Equal(t, 9, tableCount(t, s, "tree_biometrics"))
	assert.Equal(t, 15, tableCount(t, s, "visitor_detection"))
	assert.Equal(t, 3, tableCount(t, s, "user_engagement"))
	assert.Equal(t, 3, tableCount(t, s, "audio_system"))
	assert.Equal(t, 3, tableCount(t, s, "lighting_system"))
	assert.Equal(t, 1, tableCount(t, s, "system_metadata"))

	batches, points, errs := s.Stats()
	assert.Equal(t, 1, batches)
	assert.Equal(t, 37, points)
	assert.Zero(t, errs)
}

func TestSQLiteRecordRoundTripsValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "installation.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	ds := testDataset(t)
	require.NoError(t, s.Record(context.Background(), ds))

	var (
		zone string
		temp float64
	)
	require.NoError(t, s.db.QueryRow(
		"SELECT zone, temperature_c FROM environmental ORDER BY zone LIMIT 1").Scan(&zone, &temp))
	assert.Equal(t, "deep_forest", zone)

	var runID, regime string
	require.NoError(t, s.db.QueryRow(
		"SELECT run_id, weather_pattern FROM system_metadata").Scan(&runID, &regime))
	assert.Equal(t, ds.Metadata.RunID, runID)
	assert.Equal(t, ds.Metadata.WeatherRegime, regime)
}

func TestSQLiteReopenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "installation.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), testDataset(t)))
	require.NoError(t, s.Close())

	// Reopening applies no migrations and keeps the stored rows.
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 1, tableCount(t, s, "system_metadata"))

	require.NoError(t, s.Record(context.Background(), testDataset(t)))
	assert.Equal(t, 2, tableCount(t, s, "system_metadata"))
	assert.Equal(t, 6, tableCount(t, s, "environmental"))
}
