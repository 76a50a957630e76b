package sim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/units"
)

// TreeState is the persistent per-tree state, created at simulator start and
// mutated every cycle by the generator. Never destroyed during a run.
type TreeState struct {
	ID   string
	Zone string

	// Health is a slowly moving scalar in [0.5, 1.0]. Storms and sustained
	// strain push it down; calm periods allow partial recovery.
	Health float64

	// NaturalFrequencyHz is near-constant per tree and gives each tree a
	// persistent oscillatory signature.
	NaturalFrequencyHz float64

	// phase offsets the oscillation so trees in the same zone stay
	// distinguishable.
	phase float64

	strainX float64
	strainY float64
}

// TreeBiometricsGenerator owns the tree states and converts each cycle's
// wind into strain readings with bounded-step continuity.
type TreeBiometricsGenerator struct {
	registry *Registry
	rng      *rand.Rand
	trees    []*TreeState
}

// NewTreeBiometricsGenerator creates one TreeState per configured tree.
// Tree identifiers follow the {zone}_tree_{NN} wire convention.
func NewTreeBiometricsGenerator(registry *Registry, rng *rand.Rand) *TreeBiometricsGenerator {
	g := &TreeBiometricsGenerator{registry: registry, rng: rng}
	for _, z := range registry.Zones() {
		for i := 0; i < z.Trees; i++ {
			g.trees = append(g.trees, &TreeState{
				ID:                 fmt.Sprintf("%s_tree_%02d", z.Name, i),
				Zone:               z.Name,
				Health:             0.9 + rng.Float64()*0.1,
				NaturalFrequencyHz: units.MinNaturalFrequencyHz + rng.Float64()*(units.MaxNaturalFrequencyHz-units.MinNaturalFrequencyHz),
				phase:              rng.Float64() * 2 * math.Pi,
			})
		}
	}
	return g
}

// Trees exposes the persistent states for tests.
func (g *TreeBiometricsGenerator) Trees() []*TreeState {
	return g.trees
}

// windStrainMM is the saturating wind-to-strain transfer function. Strain
// grows with wind speed but with diminishing returns above the half
// saturation point, so strain stays bounded for any wind input.
func windStrainMM(windMS float64) float64 {
	const (
		maxWindStrain = 18.0 // mm, asymptotic contribution
		halfSat       = 8.0  // m/s at which half the asymptote is reached
	)
	if windMS < 0 {
		windMS = 0
	}
	return maxWindStrain * windMS / (windMS + halfSat)
}

// Step produces one reading per tree. Target strain combines the saturating
// wind term with the tree's natural oscillation over elapsed session time;
// the previous strain approaches the target by a bounded step. Health drifts
// by at most MaxHealthStepPerCycle.
func (g *TreeBiometricsGenerator) Step(elapsed time.Duration, wind func(zone string) float64, regime Regime, ts string) []TreeBiometricsReading {
	readings := make([]TreeBiometricsReading, 0, len(g.trees))
	t := elapsed.Seconds()

	for _, tree := range g.trees {
		w := wind(tree.Zone)

		sway := 2.5 * math.Sin(2*math.Pi*tree.NaturalFrequencyHz*t+tree.phase)
		jitterX := (g.rng.Float64()*2 - 1) * 0.4
		jitterY := (g.rng.Float64()*2 - 1) * 0.25

		targetX := windStrainMM(w) + sway + jitterX
		targetY := 0.6*targetX + jitterY

		tree.strainX = units.Clamp(units.StepToward(tree.strainX, targetX, units.MaxStrainStepMM), -units.MaxStrainMM, units.MaxStrainMM)
		tree.strainY = units.Clamp(units.StepToward(tree.strainY, targetY, units.MaxStrainStepMM), -units.MaxStrainMM, units.MaxStrainMM)

		movement := units.Clamp(math.Abs(tree.strainX)+math.Abs(tree.strainY), 0, units.MaxMovementAmplitudeMM)
		g.updateHealth(tree, movement, regime)

		readings = append(readings, TreeBiometricsReading{
			Timestamp:           ts,
			TreeID:              tree.ID,
			Zone:                tree.Zone,
			StrainXMM:           round4(tree.strainX),
			StrainYMM:           round4(tree.strainY),
			MovementAmplitudeMM: round4(movement),
			NaturalFrequencyHz:  round4(tree.NaturalFrequencyHz),
			HealthScore:         round4(tree.Health),
		})
	}
	return readings
}

// updateHealth applies the slow health drift: stormy weather and sustained
// high strain degrade, calm conditions recover at half the degradation rate.
func (g *TreeBiometricsGenerator) updateHealth(tree *TreeState, movementMM float64, regime Regime) {
	const highStrainMM = 18.0
	switch {
	case regime == RegimeStormy || movementMM > highStrainMM:
		tree.Health -= units.MaxHealthStepPerCycle
	case regime == RegimeStable && movementMM < 6:
		tree.Health += units.MaxHealthStepPerCycle / 2
	}
	tree.Health = units.Clamp(tree.Health, units.MinHealthScore, units.MaxHealthScore)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
