package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/units"
)

func newTestVisitors(t *testing.T, seed int64) (*VisitorDetectionGenerator, *Registry) {
	t.Helper()
	registry, err := NewRegistry(DefaultZones())
	require.NoError(t, err)
	return NewVisitorDetectionGenerator(registry, rand.New(rand.NewSource(seed))), registry
}

func TestVisitorStepShape(t *testing.T) {
	t.Parallel()

	g, registry := newTestVisitors(t, 1)
	readings, stats, zoneVisitors := g.Step(12, RegimeStable, 30, "ts")

	assert.Len(t, readings, registry.TotalSensors())
	assert.Len(t, stats, len(registry.Zones()))

	assert.Equal(t, "entrance_clearing_lidar_00", readings[0].SensorID)
	assert.Equal(t, "riverside_lidar_04", readings[len(readings)-1].SensorID)

	total := 0
	for _, z := range registry.Zones() {
		total += zoneVisitors[z.Name]
	}
	sum := 0
	for _, r := range readings {
		sum += r.VisitorCountEstimate
	}
	assert.Equal(t, sum, total, "per-zone counts must add up to the reading estimates")
}

func TestVisitorReadingsStayInRange(t *testing.T) {
	t.Parallel()

	g, registry := newTestVisitors(t, 2)
	envelope := make(map[string]Zone)
	for _, z := range registry.Zones() {
		envelope[z.Name] = z
	}

	for i := 0; i < 5000; i++ {
		hour := float64(i%96) / 4 // sweep the full day in quarter hours
		readings, stats, _ := g.Step(hour, RegimeVariable, 30, "ts")

		for _, r := range readings {
			z := envelope[r.Zone]
			assert.GreaterOrEqual(t, r.DistanceCM, units.MinDistanceCM)
			assert.LessOrEqual(t, r.DistanceCM, units.MaxDistanceCM)
			assert.GreaterOrEqual(t, r.SignalStrength, z.SignalMin)
			assert.LessOrEqual(t, r.SignalStrength, z.SignalMax)
			assert.GreaterOrEqual(t, r.ConfidenceLevel, 0.0)
			assert.LessOrEqual(t, r.ConfidenceLevel, 100.0)
			assert.GreaterOrEqual(t, r.VisitorCountEstimate, 0)
			assert.LessOrEqual(t, r.VisitorCountEstimate, units.MaxVisitorEstimate)
			if !r.DetectionActive {
				assert.Zero(t, r.VisitorCountEstimate, "inactive sensors must not report visitors")
			}
		}
		for _, s := range stats {
			assert.GreaterOrEqual(t, s.EngagementScore, 0.0)
			assert.LessOrEqual(t, s.EngagementScore, 1.0)
			assert.GreaterOrEqual(t, s.AverageEngagementDurationSec, 0.0)
			assert.LessOrEqual(t, s.AverageEngagementDurationSec, units.MaxEngagementDurationSec)
			if s.AverageEngagementDurationSec > 0 {
				assert.GreaterOrEqual(t, s.AverageEngagementDurationSec, 5.0,
					"a single engaged cycle still counts as a brief stop")
			}
		}
	}
}

func TestStormsSuppressTraffic(t *testing.T) {
	t.Parallel()

	calm, _ := newTestVisitors(t, 3)
	stormy, _ := newTestVisitors(t, 3)

	var calmTotal, stormTotal int
	const cycles = 3000
	for i := 0; i < cycles; i++ {
		_, _, cv := calm.Step(12, RegimeStable, 30, "ts")
		_, _, sv := stormy.Step(12, RegimeStormy, 30, "ts")
		for _, n := range cv {
			calmTotal += n
		}
		for _, n := range sv {
			stormTotal += n
		}
	}

	require.Positive(t, calmTotal)
	ratio := float64(stormTotal) / float64(calmTotal)
	assert.Less(t, ratio, 0.35, "storm traffic should be roughly a fifth of calm traffic")
	assert.Greater(t, ratio, 0.05, "storms thin the crowd, they do not empty the forest")
}

func TestNightIsQuieterThanDay(t *testing.T) {
	t.Parallel()

	day, _ := newTestVisitors(t, 4)
	night, _ := newTestVisitors(t, 4)

	var dayTotal, nightTotal int
	for i := 0; i < 3000; i++ {
		_, _, dv := day.Step(14, RegimeStable, 30, "ts")
		_, _, nv := night.Step(3, RegimeStable, 30, "ts")
		for _, n := range dv {
			dayTotal += n
		}
		for _, n := range nv {
			nightTotal += n
		}
	}
	assert.Greater(t, dayTotal, nightTotal*5)
}

func TestEngagementScoreSaturates(t *testing.T) {
	t.Parallel()

	assert.Zero(t, engagementScore(0))
	assert.Zero(t, engagementScore(-10))
	assert.InDelta(t, 0.5, engagementScore(120), 1e-9)

	prev := 0.0
	for d := 10.0; d <= 10000; d += 10 {
		s := engagementScore(d)
		assert.Greater(t, s, prev)
		assert.Less(t, s, 1.0)
		prev = s
	}
}
