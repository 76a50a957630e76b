package sim

import (
	"fmt"
)

// ColorTheme holds the relative RGB weights that set a zone's hue. Weights
// are in [0,1]; the response engine scales them by activity before clamping
// to 8-bit channel values.
type ColorTheme struct {
	Red   float64
	Green float64
	Blue  float64
}

// Zone is the static configuration for one physical area of the
// installation. Instances are immutable after registry construction and are
// shared by reference between the generators.
type Zone struct {
	Name           string
	Trees          int
	VisitorSensors int
	Speakers       int
	LEDs           int

	// TypicalVisitors weights the shared diurnal traffic curve; a zone with
	// weight 3 sees baseline traffic, higher sees more.
	TypicalVisitors int

	// Signal strength envelope for the zone's detection sensors.
	SignalMin float64
	SignalMax float64

	Theme ColorTheme

	// Micro-climate offsets applied to the weather targets so zones are
	// never identical even under one regime.
	TempOffsetC       float64
	HumidityOffsetPct float64
	WindFactor        float64
}

// TrafficIntensity evaluates the zone's diurnal traffic curve at the given
// hour of day, returning a per-sensor detection probability in [0,1].
// Opening hours dominate, evenings see reduced traffic and nights are close
// to quiet.
func (z Zone) TrafficIntensity(hour float64) float64 {
	var base float64
	switch {
	case hour >= 9 && hour < 18:
		base = 0.30
	case hour >= 18 && hour < 22:
		base = 0.15
	default:
		base = 0.02
	}
	weight := float64(z.TypicalVisitors) / 3.0
	p := base * weight
	if p > 1 {
		p = 1
	}
	return p
}

// Registry is the immutable set of configured zones. Iteration order is the
// construction order, which keeps every generation pass deterministic.
type Registry struct {
	zones []Zone
}

// NewRegistry validates the zone set and returns a registry. Invalid
// topology is a configuration error and must abort startup before the first
// cycle.
func NewRegistry(zones []Zone) (*Registry, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("registry requires at least one zone")
	}
	seen := make(map[string]bool, len(zones))
	for _, z := range zones {
		if z.Name == "" {
			return nil, fmt.Errorf("zone with empty name")
		}
		if seen[z.Name] {
			return nil, fmt.Errorf("duplicate zone name %q", z.Name)
		}
		seen[z.Name] = true
		if z.Trees <= 0 {
			return nil, fmt.Errorf("zone %q: tree count must be positive, got %d", z.Name, z.Trees)
		}
		if z.VisitorSensors <= 0 {
			return nil, fmt.Errorf("zone %q: sensor count must be positive, got %d", z.Name, z.VisitorSensors)
		}
		if z.Speakers <= 0 || z.LEDs <= 0 {
			return nil, fmt.Errorf("zone %q: speaker and LED counts must be positive", z.Name)
		}
		if z.TypicalVisitors <= 0 {
			return nil, fmt.Errorf("zone %q: typical visitor weight must be positive", z.Name)
		}
		if z.SignalMin < 0 || z.SignalMax > 100 || z.SignalMin >= z.SignalMax {
			return nil, fmt.Errorf("zone %q: signal envelope [%v,%v] invalid", z.Name, z.SignalMin, z.SignalMax)
		}
	}
	cp := make([]Zone, len(zones))
	copy(cp, zones)
	return &Registry{zones: cp}, nil
}

// Zones returns the configured zones in construction order.
func (r *Registry) Zones() []Zone {
	return r.zones
}

// TotalTrees returns the tree count across all zones.
func (r *Registry) TotalTrees() int {
	n := 0
	for _, z := range r.zones {
		n += z.Trees
	}
	return n
}

// TotalSensors returns the visitor sensor count across all zones.
func (r *Registry) TotalSensors() int {
	n := 0
	for _, z := range r.zones {
		n += z.VisitorSensors
	}
	return n
}

// DefaultZones returns the three-zone topology of the reduced installation:
// an open entrance clearing, a dense mystical forest and a riverside area.
func DefaultZones() []Zone {
	return []Zone{
		{
			Name:            "entrance_clearing",
			Trees:           3,
			VisitorSensors:  5,
			Speakers:        1,
			LEDs:            1,
			TypicalVisitors: 5,
			SignalMin:       30,
			SignalMax:       95,
			// Warm white tones.
			Theme:             ColorTheme{Red: 0.78, Green: 0.71, Blue: 0.47},
			TempOffsetC:       1,
			HumidityOffsetPct: -5,
			WindFactor:        1.0,
		},
		{
			Name:            "deep_forest",
			Trees:           3,
			VisitorSensors:  5,
			Speakers:        1,
			LEDs:            1,
			TypicalVisitors: 2,
			SignalMin:       20,
			SignalMax:       80,
			// Mystic green tones.
			Theme:             ColorTheme{Red: 0.31, Green: 0.71, Blue: 0.12},
			TempOffsetC:       -1,
			HumidityOffsetPct: 10,
			WindFactor:        0.6,
		},
		{
			Name:            "riverside",
			Trees:           3,
			VisitorSensors:  5,
			Speakers:        1,
			LEDs:            1,
			TypicalVisitors: 3,
			SignalMin:       25,
			SignalMax:       90,
			// Blue-green water tones.
			Theme:             ColorTheme{Red: 0.20, Green: 0.59, Blue: 0.78},
			TempOffsetC:       -2,
			HumidityOffsetPct: 15,
			WindFactor:        0.9,
		},
	}
}
