package sink

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/monitoring"
	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/sim"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLite stores cycle datasets in a local SQLite database, one table per
// reading category plus a per-cycle metadata row. It plays the time-series
// store role for the installation dashboards.
type SQLite struct {
	db *sql.DB

	mu             sync.Mutex
	batchesWritten int
	pointsWritten  int
	writeErrors    int
}

// OpenSQLite opens (creating if needed) the database at path and applies any
// pending schema migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// migrateUp applies the embedded migrations. No-op when already at the
// latest version.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Record writes every reading of the dataset in a single transaction.
func (s *SQLite) Record(ctx context.Context, ds *sim.CycleDataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.noteError()
		return fmt.Errorf("begin dataset transaction: %w", err)
	}

	points, err := insertDataset(tx, ds)
	if err != nil {
		tx.Rollback()
		s.noteError()
		return err
	}
	if err := tx.Commit(); err != nil {
		s.noteError()
		return fmt.Errorf("commit dataset: %w", err)
	}

	s.mu.Lock()
	s.batchesWritten++
	s.pointsWritten += points
	s.mu.Unlock()
	return nil
}

func (s *SQLite) noteError() {
	s.mu.Lock()
	s.writeErrors++
	s.mu.Unlock()
}

func insertDataset(tx *sql.Tx, ds *sim.CycleDataset) (int, error) {
	points := 0

	for _, r := range ds.Environmental {
		if _, err := tx.Exec(
			`INSERT INTO environmental (timestamp, zone, temperature_c, humidity_percent, wind_speed_ms, pressure_hpa)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.Timestamp, r.Zone, r.TemperatureC, r.HumidityPercent, r.WindSpeedMS, r.PressureHPa,
		); err != nil {
			return 0, fmt.Errorf("insert environmental reading: %w", err)
		}
		points++
	}

	for _, r := range ds.TreeBiometrics {
		if _, err := tx.Exec(
			`INSERT INTO tree_biometrics (timestamp, tree_id, zone, strain_x_mm, strain_y_mm, movement_amplitude_mm, natural_frequency_hz, health_score)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Timestamp, r.TreeID, r.Zone, r.StrainXMM, r.StrainYMM, r.MovementAmplitudeMM, r.NaturalFrequencyHz, r.HealthScore,
		); err != nil {
			return 0, fmt.Errorf("insert tree reading: %w", err)
		}
		points++
	}

	for _, r := range ds.VisitorDetection {
		if _, err := tx.Exec(
			`INSERT INTO visitor_detection (timestamp, sensor_id, zone, distance_cm, signal_strength, confidence_level, detection_active, visitor_count_estimate)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Timestamp, r.SensorID, r.Zone, r.DistanceCM, r.SignalStrength, r.ConfidenceLevel, r.DetectionActive, r.VisitorCountEstimate,
		); err != nil {
			return 0, fmt.Errorf("insert visitor reading: %w", err)
		}
		points++
	}

	for _, r := range ds.Metadata.UserEngagement {
		if _, err := tx.Exec(
			`INSERT INTO user_engagement (timestamp, zone, average_engagement_duration_sec, engagement_score)
			 VALUES (?, ?, ?, ?)`,
			r.Timestamp, r.Zone, r.AverageEngagementDurationSec, r.EngagementScore,
		); err != nil {
			return 0, fmt.Errorf("insert engagement stat: %w", err)
		}
		points++
	}

	for _, r := range ds.AudioSystem {
		if _, err := tx.Exec(
			`INSERT INTO audio_system (timestamp, speaker_id, zone, volume_db) VALUES (?, ?, ?, ?)`,
			r.Timestamp, r.SpeakerID, r.Zone, r.VolumeDB,
		); err != nil {
			return 0, fmt.Errorf("insert audio reading: %w", err)
		}
		points++
	}

	for _, r := range ds.LightingSystem {
		if _, err := tx.Exec(
			`INSERT INTO lighting_system (timestamp, led_id, zone, red_intensity, green_intensity, blue_intensity)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.Timestamp, r.LEDID, r.Zone, r.RedIntensity, r.GreenIntensity, r.BlueIntensity,
		); err != nil {
			return 0, fmt.Errorf("insert lighting reading: %w", err)
		}
		points++
	}

	m := ds.Metadata
	if _, err := tx.Exec(
		`INSERT INTO system_metadata (timestamp, run_id, weather_pattern, total_visitors_detected, active_audio_channels, total_power_consumption, average_tree_movement, cycles_generated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Timestamp, m.RunID, m.WeatherRegime, m.Stats.TotalVisitorsDetected, m.Stats.ActiveAudioChannels,
		m.Stats.TotalPowerConsumptionW, m.Stats.AverageTreeMovementMM, m.Stats.CyclesGenerated,
	); err != nil {
		return 0, fmt.Errorf("insert metadata: %w", err)
	}
	points++

	return points, nil
}

// Stats returns the sink's write counters: batches, points, errors.
func (s *SQLite) Stats() (batches, points, errors int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batchesWritten, s.pointsWritten, s.writeErrors
}

// Close logs the write statistics and closes the database.
func (s *SQLite) Close() error {
	batches, points, errs := s.Stats()
	monitoring.Logf("sqlite sink: %d batches, %d points written, %d errors", batches, points, errs)
	return s.db.Close()
}
