package sim

import "time"

// ClockMode describes how the simulation clock advances relative to real
// time.
type ClockMode int

const (
	// RealTime advances simulated time in lock-step with elapsed real time.
	RealTime ClockMode = iota
	// Accelerated multiplies elapsed real time by an acceleration factor so
	// a short run exercises a full diurnal cycle.
	Accelerated
)

// SimulationClock owns the simulated wall-clock. It is advanced exactly once
// per cycle by the engine and never moves backward within a run.
type SimulationClock struct {
	mode         ClockMode
	acceleration float64

	start   time.Time
	current time.Time
}

// NewSimulationClock constructs a clock starting at start. The acceleration
// factor only applies in Accelerated mode; values below 1 are treated as 1.
func NewSimulationClock(start time.Time, mode ClockMode, acceleration float64) *SimulationClock {
	if acceleration < 1 {
		acceleration = 1
	}
	return &SimulationClock{
		mode:         mode,
		acceleration: acceleration,
		start:        start.UTC(),
		current:      start.UTC(),
	}
}

// Advance moves simulated time forward by realElapsed scaled by the clock
// mode and returns the new simulated timestamp. Negative elapsed durations
// are ignored so simulated time is monotonic.
func (c *SimulationClock) Advance(realElapsed time.Duration) time.Time {
	if realElapsed > 0 {
		step := realElapsed
		if c.mode == Accelerated {
			step = time.Duration(float64(realElapsed) * c.acceleration)
		}
		c.current = c.current.Add(step)
	}
	return c.current
}

// Now returns the current simulated timestamp.
func (c *SimulationClock) Now() time.Time {
	return c.current
}

// HourOfDay returns the simulated hour as a float in [0, 24).
func (c *SimulationClock) HourOfDay() float64 {
	h := c.current.Hour()
	m := c.current.Minute()
	s := c.current.Second()
	return float64(h) + float64(m)/60 + float64(s)/3600
}

// Elapsed returns the simulated session duration since the clock started.
func (c *SimulationClock) Elapsed() time.Duration {
	return c.current.Sub(c.start)
}

// Mode returns the configured clock mode.
func (c *SimulationClock) Mode() ClockMode {
	return c.mode
}
