// Package units provides the hard sensor ranges shared by the generators and
// small helpers for clamping and bounded-step smoothing.
package units

// Hard ranges. Every emitted reading is clamped to these regardless of input
// history; out-of-range telemetry breaks downstream dashboards.
const (
	MinTemperatureC = -10.0
	MaxTemperatureC = 40.0

	MinHumidityPercent = 20.0
	MaxHumidityPercent = 95.0

	MinWindSpeedMS = 0.0
	MaxWindSpeedMS = 25.0

	MinPressureHPa = 960.0
	MaxPressureHPa = 1060.0

	// Per-axis strain limit for the tree gauges, in millimetres.
	MaxStrainMM = 25.0

	MaxMovementAmplitudeMM = 50.0

	MinNaturalFrequencyHz = 0.1
	MaxNaturalFrequencyHz = 0.6

	MinHealthScore = 0.5
	MaxHealthScore = 1.0

	// TF-Mini detection envelope in centimetres.
	MinDistanceCM = 20.0
	MaxDistanceCM = 1200.0

	MaxVolumeDB = 75.0

	// Channels below this volume count as silent in the metadata stats.
	SilenceThresholdDB = 20.0

	// Physical resolution limit of a single detection sensor.
	MaxVisitorEstimate = 3

	MaxEngagementDurationSec = 1800.0
)

// Maximum per-cycle deltas for the smoothed state variables. Consecutive
// readings of one variable never move further apart than these.
const (
	MaxTemperatureStepC   = 0.8
	MaxHumidityStepPct    = 3.0
	MaxWindStepMS         = 1.5
	MaxPressureStepHPa    = 1.5
	MaxStrainStepMM       = 2.0
	MaxHealthStepPerCycle = 0.002
)

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ClampInt limits v to the inclusive range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StepToward moves current toward target by at most maxStep and returns the
// new value. It never overshoots the target.
func StepToward(current, target, maxStep float64) float64 {
	delta := target - current
	if delta > maxStep {
		delta = maxStep
	} else if delta < -maxStep {
		delta = -maxStep
	}
	return current + delta
}
