// Package config loads optional simulator settings from a JSON file. Fields
// are pointers so a partial config overrides only what it names; unset fields
// fall back to the command-line values and built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults used when neither flag nor config file sets a value.
const (
	DefaultIntervalSeconds  = 30
	DefaultDemoAcceleration = 120.0
	DefaultDemoIntervalSec  = 1
)

// Options is the simulator settings schema. The same JSON shape is accepted
// for full and partial configs.
type Options struct {
	IntervalSeconds *int     `json:"interval_seconds,omitempty"`
	Demo            *bool    `json:"demo,omitempty"`
	Snapshot        *bool    `json:"snapshot,omitempty"`
	Acceleration    *float64 `json:"acceleration,omitempty"`
	CycleLimit      *int     `json:"cycle_limit,omitempty"`
	Seed            *int64   `json:"seed,omitempty"`
	DBPath          *string  `json:"db_path,omitempty"`
	OutputPrefix    *string  `json:"output_prefix,omitempty"`
}

// Empty returns an Options with all fields unset.
func Empty() *Options {
	return &Options{}
}

// Load reads and validates an options file.
func Load(path string) (*Options, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	opts := Empty()
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

// Validate rejects values that would make the run misbehave rather than
// merely look odd.
func (o *Options) Validate() error {
	if o.IntervalSeconds != nil && *o.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %d", *o.IntervalSeconds)
	}
	if o.Acceleration != nil && *o.Acceleration < 1 {
		return fmt.Errorf("acceleration must be >= 1, got %v", *o.Acceleration)
	}
	if o.CycleLimit != nil && *o.CycleLimit < 0 {
		return fmt.Errorf("cycle_limit must not be negative, got %d", *o.CycleLimit)
	}
	return nil
}

// GetInterval returns the configured cadence, or fallback when unset.
func (o *Options) GetInterval(fallback time.Duration) time.Duration {
	if o.IntervalSeconds != nil {
		return time.Duration(*o.IntervalSeconds) * time.Second
	}
	return fallback
}

// GetDemo returns the demo flag, or fallback when unset.
func (o *Options) GetDemo(fallback bool) bool {
	if o.Demo != nil {
		return *o.Demo
	}
	return fallback
}

// GetSnapshot returns the snapshot flag, or fallback when unset.
func (o *Options) GetSnapshot(fallback bool) bool {
	if o.Snapshot != nil {
		return *o.Snapshot
	}
	return fallback
}

// GetAcceleration returns the clock acceleration, or fallback when unset.
func (o *Options) GetAcceleration(fallback float64) float64 {
	if o.Acceleration != nil {
		return *o.Acceleration
	}
	return fallback
}

// GetCycleLimit returns the cycle limit, or fallback when unset.
func (o *Options) GetCycleLimit(fallback int) int {
	if o.CycleLimit != nil {
		return *o.CycleLimit
	}
	return fallback
}

// GetSeed returns the random seed, or fallback when unset.
func (o *Options) GetSeed(fallback int64) int64 {
	if o.Seed != nil {
		return *o.Seed
	}
	return fallback
}

// GetDBPath returns the SQLite path, or fallback when unset.
func (o *Options) GetDBPath(fallback string) string {
	if o.DBPath != nil {
		return *o.DBPath
	}
	return fallback
}

// GetOutputPrefix returns the snapshot file prefix, or fallback when unset.
func (o *Options) GetOutputPrefix(fallback string) string {
	if o.OutputPrefix != nil {
		return *o.OutputPrefix
	}
	return fallback
}
