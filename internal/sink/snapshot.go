package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/monitoring"
	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/sim"
)

// Snapshot writes each dataset to <prefix>_snapshot.json, overwriting the
// previous file. Intended for snapshot mode, where exactly one dataset is
// produced.
type Snapshot struct {
	prefix string
}

// NewSnapshot returns a snapshot writer for the given file prefix.
func NewSnapshot(prefix string) (*Snapshot, error) {
	if prefix == "" {
		return nil, fmt.Errorf("snapshot writer requires a file prefix")
	}
	return &Snapshot{prefix: prefix}, nil
}

// Path returns the file the writer targets.
func (s *Snapshot) Path() string {
	return s.prefix + "_snapshot.json"
}

// Record marshals the dataset as indented JSON and writes it atomically via
// a rename.
func (s *Snapshot) Record(_ context.Context, ds *sim.CycleDataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("finalize snapshot: %w", err)
	}
	monitoring.Logf("snapshot saved to %s", s.Path())
	return nil
}

func (s *Snapshot) Close() error { return nil }
