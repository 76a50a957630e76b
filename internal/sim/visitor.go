package sim

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/units"
)

// detectionBand classifies one sensor draw by distance.
type detectionBand int

const (
	// bandBackground: nothing in range, sensor reports near its max range.
	bandBackground detectionBand = iota
	// bandPassing: a visitor moving through at mid range.
	bandPassing
	// bandEngaged: a visitor lingering close to the sensor.
	bandEngaged
)

// sensorState is the short-lived per-sensor state. Only the dwell counter
// persists across cycles; it tracks consecutive engaged detections and resets
// as soon as the sensor drops out of the engaged band.
type sensorState struct {
	id    string
	zone  string
	dwell int
}

// VisitorDetectionGenerator draws per-sensor detection readings from the
// zone traffic curves and aggregates them into per-zone engagement
// statistics.
type VisitorDetectionGenerator struct {
	registry *Registry
	rng      *rand.Rand
	sensors  []*sensorState
}

// NewVisitorDetectionGenerator creates one sensor state per configured
// sensor, identified as {zone}_lidar_{NN}.
func NewVisitorDetectionGenerator(registry *Registry, rng *rand.Rand) *VisitorDetectionGenerator {
	g := &VisitorDetectionGenerator{registry: registry, rng: rng}
	for _, z := range registry.Zones() {
		for i := 0; i < z.VisitorSensors; i++ {
			g.sensors = append(g.sensors, &sensorState{
				id:   fmt.Sprintf("%s_lidar_%02d", z.Name, i),
				zone: z.Name,
			})
		}
	}
	return g
}

// weatherTrafficFactor scales detection probability by regime. Storms keep
// visitors away: roughly one fifth of normal traffic.
func weatherTrafficFactor(regime Regime) float64 {
	switch regime {
	case RegimeStormy:
		return 0.2
	case RegimeVariable:
		return 0.75
	default:
		return 1.0
	}
}

// engagementScore maps aggregate dwell seconds to [0,1] with saturation:
// early dwell raises the score quickly, long dwell approaches 1.
func engagementScore(totalDwellSec float64) float64 {
	if totalDwellSec <= 0 {
		return 0
	}
	return units.Clamp01(totalDwellSec / (totalDwellSec + 120))
}

// Step draws one reading per sensor and one engagement stat per zone.
// cycleSec is the simulated duration of this cycle, used to convert dwell
// counters into durations. The returned map carries per-zone visitor counts
// for the response engine.
func (g *VisitorDetectionGenerator) Step(hour float64, regime Regime, cycleSec float64, ts string) ([]VisitorDetectionReading, []EngagementStat, map[string]int) {
	readings := make([]VisitorDetectionReading, 0, len(g.sensors))
	zoneVisitors := make(map[string]int, len(g.registry.Zones()))

	idx := 0
	type zoneAgg struct {
		dwellSecs []float64
		total     float64
	}
	aggs := make([]zoneAgg, len(g.registry.Zones()))

	for zi, z := range g.registry.Zones() {
		p := z.TrafficIntensity(hour) * weatherTrafficFactor(regime)

		for i := 0; i < z.VisitorSensors; i++ {
			s := g.sensors[idx]
			idx++

			band := g.drawBand(p)
			r := g.emit(s, z, band, ts)
			readings = append(readings, r)
			zoneVisitors[z.Name] += r.VisitorCountEstimate

			if band == bandEngaged {
				s.dwell++
				d := float64(s.dwell) * cycleSec
				if d < 5 {
					d = 5 // a single engaged cycle still counts as a brief stop
				}
				d = units.Clamp(d, 0, units.MaxEngagementDurationSec)
				aggs[zi].dwellSecs = append(aggs[zi].dwellSecs, d)
				aggs[zi].total += d
			} else {
				s.dwell = 0
			}
		}
	}

	stats := make([]EngagementStat, 0, len(g.registry.Zones()))
	for zi, z := range g.registry.Zones() {
		var duration float64
		if len(aggs[zi].dwellSecs) > 0 {
			duration = stat.Mean(aggs[zi].dwellSecs, nil)
		}
		stats = append(stats, EngagementStat{
			Timestamp:                    ts,
			Zone:                         z.Name,
			AverageEngagementDurationSec: round1(units.Clamp(duration, 0, units.MaxEngagementDurationSec)),
			EngagementScore:              round4(engagementScore(aggs[zi].total)),
		})
	}
	return readings, stats, zoneVisitors
}

// drawBand selects the detection band for one sensor given its detection
// probability. Engaged detections are a minority of hits; the rest of the
// probability mass is visitors passing through.
func (g *VisitorDetectionGenerator) drawBand(p float64) detectionBand {
	roll := g.rng.Float64()
	switch {
	case roll < p*0.45:
		return bandEngaged
	case roll < p:
		return bandPassing
	default:
		return bandBackground
	}
}

// emit builds the reading for one sensor draw. Each band carries its own
// distance, confidence and signal distribution: closer detections read
// stronger and more confident.
func (g *VisitorDetectionGenerator) emit(s *sensorState, z Zone, band detectionBand, ts string) VisitorDetectionReading {
	span := z.SignalMax - z.SignalMin
	var (
		distance, confidence, signal float64
		visitors                     int
		active                       bool
	)

	switch band {
	case bandEngaged:
		distance = uniform(g.rng, units.MinDistanceCM, 200)
		confidence = uniform(g.rng, 75, 95)
		signal = z.SignalMin + span*uniform(g.rng, 0.70, 1.0)
		visitors = g.drawVisitorEstimate()
		active = true
	case bandPassing:
		distance = uniform(g.rng, 200, 700)
		confidence = uniform(g.rng, 45, 75)
		signal = z.SignalMin + span*uniform(g.rng, 0.40, 0.70)
		visitors = 1
		active = true
	default:
		distance = uniform(g.rng, 1100, units.MaxDistanceCM)
		confidence = uniform(g.rng, 10, 30)
		signal = z.SignalMin + span*uniform(g.rng, 0, 0.25)
		visitors = 0
		active = false
	}

	return VisitorDetectionReading{
		Timestamp:            ts,
		SensorID:             s.id,
		Zone:                 s.zone,
		DistanceCM:           round1(units.Clamp(distance, units.MinDistanceCM, units.MaxDistanceCM)),
		SignalStrength:       round1(units.Clamp(signal, 0, 100)),
		ConfidenceLevel:      round1(units.Clamp(confidence, 0, 100)),
		DetectionActive:      active,
		VisitorCountEstimate: units.ClampInt(visitors, 0, units.MaxVisitorEstimate),
	}
}

// drawVisitorEstimate returns 1..3 with single visitors most common, capped
// at the sensor's physical resolution limit.
func (g *VisitorDetectionGenerator) drawVisitorEstimate() int {
	weights := [...]int{1, 1, 1, 2, 2, 3}
	return weights[g.rng.Intn(len(weights))]
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
