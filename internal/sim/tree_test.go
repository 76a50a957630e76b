package sim

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/units"
)

func newTestTrees(t *testing.T, seed int64) *TreeBiometricsGenerator {
	t.Helper()
	registry, err := NewRegistry(DefaultZones())
	require.NoError(t, err)
	return NewTreeBiometricsGenerator(registry, rand.New(rand.NewSource(seed)))
}

func constantWind(ms float64) func(zone string) float64 {
	return func(string) float64 { return ms }
}

func TestWindStrainTransfer(t *testing.T) {
	t.Parallel()

	t.Run("monotone in wind speed", func(t *testing.T) {
		t.Parallel()
		prev := windStrainMM(0)
		for w := 0.5; w <= 40; w += 0.5 {
			cur := windStrainMM(w)
			assert.Greater(t, cur, prev)
			prev = cur
		}
	})

	t.Run("saturates below the asymptote", func(t *testing.T) {
		t.Parallel()
		assert.Less(t, windStrainMM(1000), 18.0)
		assert.InDelta(t, 9.0, windStrainMM(8), 1e-9, "half saturation at 8 m/s")
	})

	t.Run("negative wind reads as calm", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, windStrainMM(-3))
	})
}

func TestTreeGeneratorTopology(t *testing.T) {
	t.Parallel()

	g := newTestTrees(t, 1)
	require.Len(t, g.Trees(), 9)
	assert.Equal(t, "entrance_clearing_tree_00", g.Trees()[0].ID)
	assert.Equal(t, "riverside_tree_02", g.Trees()[8].ID)

	for _, tree := range g.Trees() {
		assert.GreaterOrEqual(t, tree.NaturalFrequencyHz, units.MinNaturalFrequencyHz)
		assert.LessOrEqual(t, tree.NaturalFrequencyHz, units.MaxNaturalFrequencyHz)
		assert.GreaterOrEqual(t, tree.Health, 0.9)
		assert.LessOrEqual(t, tree.Health, 1.0)
	}
}

func TestTreeReadingsStayInRange(t *testing.T) {
	t.Parallel()

	g := newTestTrees(t, 2)
	for i := 1; i <= 5000; i++ {
		elapsed := time.Duration(i) * 30 * time.Second
		for _, r := range g.Step(elapsed, constantWind(12), RegimeVariable, "ts") {
			assert.LessOrEqual(t, math.Abs(r.StrainXMM), units.MaxStrainMM)
			assert.LessOrEqual(t, math.Abs(r.StrainYMM), units.MaxStrainMM)
			assert.GreaterOrEqual(t, r.MovementAmplitudeMM, 0.0)
			assert.LessOrEqual(t, r.MovementAmplitudeMM, units.MaxMovementAmplitudeMM)
			assert.GreaterOrEqual(t, r.HealthScore, units.MinHealthScore)
			assert.LessOrEqual(t, r.HealthScore, units.MaxHealthScore)
		}
	}
}

func TestTreeStrainContinuity(t *testing.T) {
	t.Parallel()

	g := newTestTrees(t, 3)
	prev := map[string]TreeBiometricsReading{}
	const roundSlack = 2e-4

	for i := 1; i <= 2000; i++ {
		elapsed := time.Duration(i) * 30 * time.Second
		// Alternate wind so targets swing hard between cycles.
		wind := constantWind(0)
		if i%2 == 0 {
			wind = constantWind(20)
		}
		for _, r := range g.Step(elapsed, wind, RegimeVariable, "ts") {
			if p, ok := prev[r.TreeID]; ok {
				assert.LessOrEqual(t, math.Abs(r.StrainXMM-p.StrainXMM), units.MaxStrainStepMM+roundSlack)
				assert.LessOrEqual(t, math.Abs(r.StrainYMM-p.StrainYMM), units.MaxStrainStepMM+roundSlack)
				assert.LessOrEqual(t, math.Abs(r.HealthScore-p.HealthScore), units.MaxHealthStepPerCycle+roundSlack)
			}
			prev[r.TreeID] = r
		}
	}
}

func TestTreeHealthDegradesInStorms(t *testing.T) {
	t.Parallel()

	g := newTestTrees(t, 4)
	for i := 1; i <= 300; i++ {
		g.Step(time.Duration(i)*30*time.Second, constantWind(18), RegimeStormy, "ts")
	}
	for _, tree := range g.Trees() {
		assert.InDelta(t, units.MinHealthScore, tree.Health, 1e-9,
			"300 storm cycles should drive health to the floor")
	}
}

func TestTreeHealthRecoversInCalm(t *testing.T) {
	t.Parallel()

	g := newTestTrees(t, 5)
	for i := 1; i <= 300; i++ {
		g.Step(time.Duration(i)*30*time.Second, constantWind(18), RegimeStormy, "ts")
	}
	floor := g.Trees()[0].Health

	// Calm, near-still conditions allow slow recovery at half the
	// degradation rate.
	for i := 301; i <= 600; i++ {
		g.Step(time.Duration(i)*30*time.Second, constantWind(0), RegimeStable, "ts")
	}
	for _, tree := range g.Trees() {
		assert.Greater(t, tree.Health, floor)
		assert.LessOrEqual(t, tree.Health, units.MaxHealthScore)
	}
}

func TestTreeFrequencyIsStable(t *testing.T) {
	t.Parallel()

	g := newTestTrees(t, 6)
	before := make(map[string]float64)
	for _, tree := range g.Trees() {
		before[tree.ID] = tree.NaturalFrequencyHz
	}
	for i := 1; i <= 500; i++ {
		g.Step(time.Duration(i)*30*time.Second, constantWind(10), RegimeVariable, "ts")
	}
	for _, tree := range g.Trees() {
		assert.Equal(t, before[tree.ID], tree.NaturalFrequencyHz)
	}
}
