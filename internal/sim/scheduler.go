package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/monitoring"
	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/timeutil"
)

// DatasetSink receives completed cycle datasets. Implementations must treat
// the dataset as immutable; sink failures are reported per cycle and never
// stop generation.
type DatasetSink interface {
	Record(ctx context.Context, ds *CycleDataset) error
}

// SchedulerOptions parameterize the single generation loop. The three
// documented modes are value combinations, not separate code paths:
// continuous (Interval=n, CycleLimit=0), demo (short interval, accelerated
// engine clock), snapshot (CycleLimit=1).
type SchedulerOptions struct {
	// Interval is the real-time cadence between cycles.
	Interval time.Duration

	// CycleLimit stops the loop after this many cycles; 0 means run until
	// cancelled.
	CycleLimit int

	// LiveStats logs a one-line summary after each cycle.
	LiveStats bool
}

// Scheduler drives the engine at a fixed cadence and hands each dataset to
// the sink through an at-most-one-in-flight queue, so a slow or failing sink
// never blocks clock advancement or the next cycle's generation.
type Scheduler struct {
	engine *Engine
	sink   DatasetSink
	clock  timeutil.Clock
	opts   SchedulerOptions

	dropped int
}

// NewScheduler validates the cadence and returns a scheduler.
func NewScheduler(engine *Engine, sink DatasetSink, clock timeutil.Clock, opts SchedulerOptions) (*Scheduler, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %v", opts.Interval)
	}
	if sink == nil {
		return nil, fmt.Errorf("scheduler requires a sink")
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Scheduler{engine: engine, sink: sink, clock: clock, opts: opts}, nil
}

// Run drives the generation loop until the context is cancelled or the
// cycle limit is reached. It returns the context error on cancellation and
// nil on a completed limited run.
func (s *Scheduler) Run(ctx context.Context) error { return s.run(ctx) }

// DroppedDatasets returns the count of datasets dropped at the hand-off
// queue during this run.
func (s *Scheduler) DroppedDatasets() int {
	return s.dropped
}

func (s *Scheduler) run(ctx context.Context) error {
	// Hand-off queue: at most one dataset pending. When the sink stalls, the
	// oldest pending dataset is dropped and logged rather than growing
	// memory without bound.
	pending := make(chan *CycleDataset, 1)
	delivered := make(chan struct{})

	go func() {
		defer close(delivered)
		for ds := range pending {
			if err := s.sink.Record(ctx, ds); err != nil {
				monitoring.Logf("sink write failed for cycle %s: %v", ds.Timestamp, err)
			}
		}
	}()

	ticker := s.clock.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	cycles := 0
	// The first cycle runs immediately; subsequent cycles advance the
	// simulated clock by one interval each.
	elapsed := time.Duration(0)

loop:
	for {
		// Cancellation is checked at the tick boundary only: a cycle either
		// completes and is fully emitted, or does not start.
		if ctx.Err() != nil {
			break
		}

		ds := s.engine.RunCycle(elapsed)
		s.enqueue(pending, ds)
		cycles++

		if s.opts.LiveStats {
			st := ds.Metadata.Stats
			monitoring.Logf("cycle %d @ %s regime=%s visitors=%d movement=%.3fmm power=%.1fW",
				st.CyclesGenerated, ds.Timestamp, ds.Metadata.WeatherRegime,
				st.TotalVisitorsDetected, st.AverageTreeMovementMM, st.TotalPowerConsumptionW)
		}

		if s.opts.CycleLimit > 0 && cycles >= s.opts.CycleLimit {
			break
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C():
			elapsed = s.opts.Interval
		}
	}

	close(pending)
	<-delivered

	if s.dropped > 0 {
		monitoring.Logf("run complete: %d cycles, %d datasets dropped at sink hand-off", cycles, s.dropped)
	}
	return ctx.Err()
}

// enqueue hands a dataset to the delivery goroutine, dropping the oldest
// pending dataset if the sink has not picked it up yet.
func (s *Scheduler) enqueue(pending chan *CycleDataset, ds *CycleDataset) {
	for {
		select {
		case pending <- ds:
			return
		default:
		}
		select {
		case old := <-pending:
			s.dropped++
			monitoring.Logf("sink backlog: dropping dataset %s", old.Timestamp)
		default:
		}
	}
}
