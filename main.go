// Command installation-sim generates correlated sensor datasets for the
// interactive forest installation and records them to a local SQLite
// time-series store and/or JSON snapshot files.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/config"
	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/sim"
	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/sink"
	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/timeutil"
)

var (
	interval   = flag.Int("interval", config.DefaultIntervalSeconds, "Interval between measurements in seconds")
	demo       = flag.Bool("demo", false, "Accelerated demo mode: short cadence, fast simulated clock")
	snapshot   = flag.Bool("snapshot", false, "Generate a single snapshot instead of running continuously")
	output     = flag.String("output", "", "Base name for snapshot files")
	dbPath     = flag.String("db", "installation_data.db", "SQLite database path (empty disables the database sink)")
	seed       = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	configPath = flag.String("config", "", "Optional JSON options file")
	quiet      = flag.Bool("quiet", false, "Disable per-cycle live stats")
)

func main() {
	flag.Parse()

	opts := config.Empty()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = loaded
	}

	runSeed := opts.GetSeed(*seed)
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	cadence := opts.GetInterval(time.Duration(*interval) * time.Second)
	clockMode := sim.RealTime
	acceleration := 1.0
	if opts.GetDemo(*demo) {
		clockMode = sim.Accelerated
		acceleration = opts.GetAcceleration(config.DefaultDemoAcceleration)
		cadence = config.DefaultDemoIntervalSec * time.Second
	}

	cycleLimit := opts.GetCycleLimit(0)
	if opts.GetSnapshot(*snapshot) {
		cycleLimit = 1
	}

	engine, err := sim.NewEngine(sim.Options{
		Seed:         runSeed,
		ClockMode:    clockMode,
		Acceleration: acceleration,
	})
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	var sinks sink.Multi
	if path := opts.GetDBPath(*dbPath); path != "" {
		db, err := sink.OpenSQLite(path)
		if err != nil {
			log.Fatalf("Failed to open database sink: %v", err)
		}
		sinks = append(sinks, db)
	}
	if prefix := opts.GetOutputPrefix(*output); prefix != "" {
		snap, err := sink.NewSnapshot(prefix)
		if err != nil {
			log.Fatalf("Failed to create snapshot writer: %v", err)
		}
		sinks = append(sinks, snap)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, sink.Null{})
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Printf("sink close error: %v", err)
		}
	}()

	scheduler, err := sim.NewScheduler(engine, sinks, timeutil.RealClock{}, sim.SchedulerOptions{
		Interval:   cadence,
		CycleLimit: cycleLimit,
		LiveStats:  !*quiet,
	})
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("installation simulator starting: run=%s seed=%d interval=%s cycles=%v",
		engine.RunID(), runSeed, cadence, cycleLimit)

	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("scheduler error: %v", err)
	}
	log.Printf("installation simulator stopped")
}
