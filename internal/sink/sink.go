// Package sink provides the destinations that durably store or forward
// emitted cycle datasets: a SQLite time-series store and a JSON snapshot
// file writer. The simulator tolerates sink failure; a failed write loses
// one cycle's data, never the run.
package sink

import (
	"context"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/sim"
)

// Sink accepts one complete dataset per cycle. Implementations must not
// retain or mutate the dataset after Record returns.
type Sink interface {
	Record(ctx context.Context, ds *sim.CycleDataset) error
	Close() error
}

// Null discards all datasets. Useful when the simulator runs for its log
// output only.
type Null struct{}

func (Null) Record(context.Context, *sim.CycleDataset) error { return nil }
func (Null) Close() error                                    { return nil }

// Multi fans a dataset out to several sinks; the first error is returned
// but every sink is still attempted.
type Multi []Sink

func (m Multi) Record(ctx context.Context, ds *sim.CycleDataset) error {
	var first error
	for _, s := range m {
		if err := s.Record(ctx, ds); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
