package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryValidation(t *testing.T) {
	t.Parallel()

	t.Run("accepts the default topology", func(t *testing.T) {
		t.Parallel()
		r, err := NewRegistry(DefaultZones())
		require.NoError(t, err)
		assert.Len(t, r.Zones(), 3)
		assert.Equal(t, 9, r.TotalTrees())
		assert.Equal(t, 15, r.TotalSensors())
	})

	t.Run("rejects empty zone list", func(t *testing.T) {
		t.Parallel()
		_, err := NewRegistry(nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate zone names", func(t *testing.T) {
		t.Parallel()
		zones := DefaultZones()
		zones[1].Name = zones[0].Name
		_, err := NewRegistry(zones)
		assert.ErrorContains(t, err, "duplicate zone name")
	})

	t.Run("rejects non-positive tree count", func(t *testing.T) {
		t.Parallel()
		zones := DefaultZones()
		zones[0].Trees = 0
		_, err := NewRegistry(zones)
		assert.ErrorContains(t, err, "tree count")
	})

	t.Run("rejects non-positive sensor count", func(t *testing.T) {
		t.Parallel()
		zones := DefaultZones()
		zones[2].VisitorSensors = -1
		_, err := NewRegistry(zones)
		assert.ErrorContains(t, err, "sensor count")
	})

	t.Run("rejects inverted signal envelope", func(t *testing.T) {
		t.Parallel()
		zones := DefaultZones()
		zones[0].SignalMin = 90
		zones[0].SignalMax = 40
		_, err := NewRegistry(zones)
		assert.ErrorContains(t, err, "signal envelope")
	})
}

func TestTrafficIntensity(t *testing.T) {
	t.Parallel()

	zone := DefaultZones()[0] // entrance_clearing, weight 5

	t.Run("opening hours dominate", func(t *testing.T) {
		t.Parallel()
		day := zone.TrafficIntensity(12)
		evening := zone.TrafficIntensity(20)
		night := zone.TrafficIntensity(3)
		assert.Greater(t, day, evening)
		assert.Greater(t, evening, night)
		assert.Greater(t, night, 0.0)
	})

	t.Run("never exceeds one", func(t *testing.T) {
		t.Parallel()
		for h := 0.0; h < 24; h += 0.25 {
			p := zone.TrafficIntensity(h)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	})

	t.Run("typical visitor weight scales traffic", func(t *testing.T) {
		t.Parallel()
		busy := zone
		quiet := zone
		busy.TypicalVisitors = 5
		quiet.TypicalVisitors = 2
		assert.Greater(t, busy.TrafficIntensity(12), quiet.TrafficIntensity(12))
	})
}

func TestRegistryZonesAreCopied(t *testing.T) {
	t.Parallel()

	zones := DefaultZones()
	r, err := NewRegistry(zones)
	require.NoError(t, err)

	zones[0].Trees = 99
	assert.Equal(t, 3, r.Zones()[0].Trees, "registry must not observe caller mutations")
}
