package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/G-sdn/InteractiveArtInstallationMonitoring/internal/units"
)

// Regime is the current weather pattern governing environmental generation.
type Regime int

const (
	RegimeStable Regime = iota
	RegimeVariable
	RegimeStormy
)

// String returns the regime label used in dataset metadata.
func (r Regime) String() string {
	switch r {
	case RegimeStable:
		return "stable"
	case RegimeVariable:
		return "variable"
	case RegimeStormy:
		return "stormy"
	default:
		return "unknown"
	}
}

// regimeSpec holds the target bands, volatility and dwell rules for one
// regime. Variable is the high-entropy hub: it is entered from both other
// regimes and leaves most readily.
type regimeSpec struct {
	tempLo, tempHi float64
	humLo, humHi   float64
	windLo, windHi float64
	presLo, presHi float64

	// volatility scales the per-cycle jitter magnitude in [0,1].
	volatility float64

	// minDwell is simulated time that must elapse before a transition.
	minDwell time.Duration

	// leaveProb is the per-cycle transition probability once dwell has
	// elapsed.
	leaveProb float64
}

var regimeSpecs = map[Regime]regimeSpec{
	RegimeStable: {
		tempLo: 8, tempHi: 32,
		humLo: 40, humHi: 70,
		windLo: 0, windHi: 6,
		presLo: 1010, presHi: 1035,
		volatility: 0.2,
		minDwell:   10 * time.Minute,
		leaveProb:  0.05,
	},
	RegimeVariable: {
		tempLo: 5, tempHi: 28,
		humLo: 45, humHi: 85,
		windLo: 2, windHi: 12,
		presLo: 990, presHi: 1020,
		volatility: 0.5,
		minDwell:   5 * time.Minute,
		leaveProb:  0.15,
	},
	RegimeStormy: {
		tempLo: 2, tempHi: 20,
		humLo: 70, humHi: 95,
		windLo: 8, windHi: 22,
		presLo: 960, presHi: 995,
		volatility: 0.8,
		minDwell:   8 * time.Minute,
		leaveProb:  0.08,
	},
}

// zoneWeather is the smoothed per-zone state persisted across cycles. It is
// the core source of temporal continuity: each variable moves by a bounded
// step per cycle and is hard-clamped afterwards.
type zoneWeather struct {
	temperature float64
	humidity    float64
	wind        float64
	pressure    float64
}

// WeatherEngine maintains the regime state machine and the smoothed per-zone
// environmental variables. State is mutated exactly once per cycle by Step,
// always from the cycle loop (single-writer discipline).
type WeatherEngine struct {
	registry *Registry
	rng      *rand.Rand

	regime      Regime
	regimeSince time.Time
	pinned      bool

	// keyed by zone index to keep iteration in registry order.
	zones []zoneWeather
}

// NewWeatherEngine seeds per-zone state at the regime band centres so the
// first cycle already satisfies the range invariants.
func NewWeatherEngine(registry *Registry, rng *rand.Rand, start time.Time) *WeatherEngine {
	w := &WeatherEngine{
		registry:    registry,
		rng:         rng,
		regime:      RegimeStable,
		regimeSince: start,
		zones:       make([]zoneWeather, len(registry.Zones())),
	}
	spec := regimeSpecs[w.regime]
	for i, z := range registry.Zones() {
		w.zones[i] = zoneWeather{
			temperature: units.Clamp(mid(spec.tempLo, spec.tempHi)+z.TempOffsetC, units.MinTemperatureC, units.MaxTemperatureC),
			humidity:    units.Clamp(mid(spec.humLo, spec.humHi)+z.HumidityOffsetPct, units.MinHumidityPercent, units.MaxHumidityPercent),
			wind:        units.Clamp(mid(spec.windLo, spec.windHi)*z.WindFactor, units.MinWindSpeedMS, units.MaxWindSpeedMS),
			pressure:    units.Clamp(mid(spec.presLo, spec.presHi), units.MinPressureHPa, units.MaxPressureHPa),
		}
	}
	return w
}

func mid(lo, hi float64) float64 { return (lo + hi) / 2 }

// Regime returns the current weather regime.
func (w *WeatherEngine) Regime() Regime {
	return w.regime
}

// PinRegime locks the engine into one regime, disabling transitions. Used to
// exercise regime-dependent behaviour in isolation.
func (w *WeatherEngine) PinRegime(r Regime) {
	w.regime = r
	w.pinned = true
}

// Step advances the regime state machine and the smoothed per-zone
// variables, returning one environmental reading per zone stamped with ts.
func (w *WeatherEngine) Step(now time.Time, hour float64, ts string) []EnvironmentalReading {
	w.maybeTransition(now)

	spec := regimeSpecs[w.regime]
	readings := make([]EnvironmentalReading, 0, len(w.zones))

	// Diurnal base temperature: coolest before dawn, warmest mid-afternoon.
	diurnal := 15 + 8*math.Sin((hour-6)*math.Pi/12)

	for i, z := range w.registry.Zones() {
		zw := &w.zones[i]

		tempTarget := units.Clamp(diurnal, spec.tempLo, spec.tempHi) + z.TempOffsetC
		humTarget := mid(spec.humLo, spec.humHi) + z.HumidityOffsetPct
		windTarget := mid(spec.windLo, spec.windHi) * z.WindFactor
		presTarget := mid(spec.presLo, spec.presHi)

		zw.temperature = w.smooth(zw.temperature, tempTarget, units.MaxTemperatureStepC, spec.volatility, units.MinTemperatureC, units.MaxTemperatureC)
		zw.humidity = w.smooth(zw.humidity, humTarget, units.MaxHumidityStepPct, spec.volatility, units.MinHumidityPercent, units.MaxHumidityPercent)
		zw.wind = w.smooth(zw.wind, windTarget, units.MaxWindStepMS, spec.volatility, units.MinWindSpeedMS, units.MaxWindSpeedMS)
		zw.pressure = w.smooth(zw.pressure, presTarget, units.MaxPressureStepHPa, spec.volatility, units.MinPressureHPa, units.MaxPressureHPa)

		readings = append(readings, EnvironmentalReading{
			Timestamp:       ts,
			Zone:            z.Name,
			TemperatureC:    round1(zw.temperature),
			HumidityPercent: round1(zw.humidity),
			WindSpeedMS:     round1(zw.wind),
			PressureHPa:     round1(zw.pressure),
		})
	}
	return readings
}

// smooth moves current toward target with a bounded approach step plus
// volatility-scaled jitter. The approach and jitter budgets split maxStep
// 70/30 so the total per-cycle delta never exceeds maxStep, keeping the
// continuity law intact before the final hard clamp.
func (w *WeatherEngine) smooth(current, target, maxStep, volatility, lo, hi float64) float64 {
	approach := units.StepToward(current, target, 0.7*maxStep)
	jitter := (w.rng.Float64()*2 - 1) * volatility * 0.3 * maxStep
	return units.Clamp(approach+jitter, lo, hi)
}

// maybeTransition rolls for a regime change once the minimum dwell has
// elapsed in simulated time.
func (w *WeatherEngine) maybeTransition(now time.Time) {
	if w.pinned {
		return
	}
	spec := regimeSpecs[w.regime]
	if now.Sub(w.regimeSince) < spec.minDwell {
		return
	}
	if w.rng.Float64() >= spec.leaveProb {
		return
	}

	next := w.nextRegime()
	if next != w.regime {
		w.regime = next
		w.regimeSince = now
	}
}

// nextRegime picks the destination regime. Variable acts as the hub: stable
// and stormy mostly move through it rather than directly to each other.
func (w *WeatherEngine) nextRegime() Regime {
	roll := w.rng.Float64()
	switch w.regime {
	case RegimeStable:
		if roll < 0.8 {
			return RegimeVariable
		}
		return RegimeStormy
	case RegimeVariable:
		if roll < 0.6 {
			return RegimeStable
		}
		return RegimeStormy
	case RegimeStormy:
		if roll < 0.7 {
			return RegimeVariable
		}
		return RegimeStable
	}
	return RegimeVariable
}

// Wind returns the current smoothed wind speed for a zone, consumed by the
// tree biometrics generator within the same cycle.
func (w *WeatherEngine) Wind(zone string) float64 {
	for i, z := range w.registry.Zones() {
		if z.Name == zone {
			return w.zones[i].wind
		}
	}
	return 0
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
