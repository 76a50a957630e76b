package sim

import (
	"fmt"
	"math"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/units"
)

// The response correlation engine is stateless: audio and lighting are pure
// functions of this cycle's tree and visitor outputs. Engagement and presence
// amplify response; the zone theme sets hue.

// AudioVolumeDB derives a zone's speaker volume from the mean tree movement
// amplitude and the zone's visitor count. Both terms are monotonically
// increasing and saturate, so volume never exceeds the documented range for
// any input.
func AudioVolumeDB(meanMovementMM float64, zoneVisitors int) float64 {
	if meanMovementMM < 0 {
		meanMovementMM = 0
	}
	if zoneVisitors < 0 {
		zoneVisitors = 0
	}

	treeTerm := 0.3 * meanMovementMM / (meanMovementMM + 4)
	visitorTerm := 0.15 * float64(zoneVisitors)
	if visitorTerm > 0.7 {
		visitorTerm = 0.7
	}

	return units.Clamp(units.MaxVolumeDB*(treeTerm+visitorTerm), 0, units.MaxVolumeDB)
}

// LEDIntensity derives a zone fixture's RGB output. The zone theme weights
// fix the hue; a shared brightness factor grows monotonically with
// engagement score and visitor presence and is clamped to 8-bit channels.
func LEDIntensity(theme ColorTheme, engagement float64, zoneVisitors int) (red, green, blue int) {
	engagement = units.Clamp01(engagement)
	if zoneVisitors < 0 {
		zoneVisitors = 0
	}

	presence := 0.15 * float64(zoneVisitors)
	if presence > 0.45 {
		presence = 0.45
	}
	// Base glow keeps the installation visible with no visitors at all.
	brightness := 0.25 + 0.5*engagement + presence

	scale := func(weight float64) int {
		v := int(math.Round(255 * weight * brightness))
		return units.ClampInt(v, 0, 255)
	}
	return scale(theme.Red), scale(theme.Green), scale(theme.Blue)
}

// responseReadings builds the per-zone audio and lighting readings for one
// cycle from the already generated tree and engagement outputs.
func responseReadings(registry *Registry, trees []TreeBiometricsReading, engagement []EngagementStat, zoneVisitors map[string]int, ts string) ([]AudioSystemReading, []LightingReading) {
	audio := make([]AudioSystemReading, 0, len(registry.Zones()))
	lighting := make([]LightingReading, 0, len(registry.Zones()))

	for zi, z := range registry.Zones() {
		var sum float64
		var n int
		for _, t := range trees {
			if t.Zone == z.Name {
				sum += t.MovementAmplitudeMM
				n++
			}
		}
		var meanMovement float64
		if n > 0 {
			meanMovement = sum / float64(n)
		}

		visitors := zoneVisitors[z.Name]
		audio = append(audio, AudioSystemReading{
			Timestamp: ts,
			SpeakerID: fmt.Sprintf("%s_speaker_main", z.Name),
			Zone:      z.Name,
			VolumeDB:  round1(AudioVolumeDB(meanMovement, visitors)),
		})

		r, g, b := LEDIntensity(z.Theme, engagement[zi].EngagementScore, visitors)
		lighting = append(lighting, LightingReading{
			Timestamp:      ts,
			LEDID:          fmt.Sprintf("%s_led_main", z.Name),
			Zone:           z.Name,
			RedIntensity:   r,
			GreenIntensity: g,
			BlueIntensity:  b,
		})
	}
	return audio, lighting
}
