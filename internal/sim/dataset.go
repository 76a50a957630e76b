package sim

// Reading records are the transient per-cycle outputs of the generators. All
// readings in one cycle carry the same timestamp (RFC 3339, to the second).
// Field names and units match the measurement schema consumed by the
// installation dashboards, so they are a compatibility surface.

// EnvironmentalReading is one zone's weather sample for a cycle.
type EnvironmentalReading struct {
	Timestamp       string  `json:"timestamp"`
	Zone            string  `json:"zone"`
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPercent float64 `json:"humidity_percent"`
	WindSpeedMS     float64 `json:"wind_speed_ms"`
	PressureHPa     float64 `json:"pressure_hpa"`
}

// TreeBiometricsReading is one tree's strain gauge sample for a cycle.
type TreeBiometricsReading struct {
	Timestamp           string  `json:"timestamp"`
	TreeID              string  `json:"tree_id"`
	Zone                string  `json:"zone"`
	StrainXMM           float64 `json:"strain_x_mm"`
	StrainYMM           float64 `json:"strain_y_mm"`
	MovementAmplitudeMM float64 `json:"movement_amplitude_mm"`
	NaturalFrequencyHz  float64 `json:"natural_frequency_hz"`
	HealthScore         float64 `json:"health_score"`
}

// VisitorDetectionReading is one TF-Mini sensor's sample for a cycle.
type VisitorDetectionReading struct {
	Timestamp            string  `json:"timestamp"`
	SensorID             string  `json:"sensor_id"`
	Zone                 string  `json:"zone"`
	DistanceCM           float64 `json:"distance_cm"`
	SignalStrength       float64 `json:"signal_strength"`
	ConfidenceLevel      float64 `json:"confidence_level"`
	DetectionActive      bool    `json:"detection_active"`
	VisitorCountEstimate int     `json:"visitor_count_estimate"`
}

// AudioSystemReading is one zone speaker's derived output level.
type AudioSystemReading struct {
	Timestamp string  `json:"timestamp"`
	SpeakerID string  `json:"speaker_id"`
	Zone      string  `json:"zone"`
	VolumeDB  float64 `json:"volume_db"`
}

// LightingReading is one zone LED fixture's derived RGB output.
type LightingReading struct {
	Timestamp      string `json:"timestamp"`
	LEDID          string `json:"led_id"`
	Zone           string `json:"zone"`
	RedIntensity   int    `json:"red_intensity"`
	GreenIntensity int    `json:"green_intensity"`
	BlueIntensity  int    `json:"blue_intensity"`
}

// EngagementStat is a per-zone aggregate derived purely from the cycle's
// visitor detection readings.
type EngagementStat struct {
	Timestamp                    string  `json:"timestamp"`
	Zone                         string  `json:"zone"`
	AverageEngagementDurationSec float64 `json:"average_engagement_duration_sec"`
	EngagementScore              float64 `json:"engagement_score"`
}

// RunStats carries the running session counters exposed in the metadata
// block of every dataset.
type RunStats struct {
	TotalVisitorsDetected  int     `json:"total_visitors_detected"`
	ActiveAudioChannels    int     `json:"active_audio_channels"`
	TotalPowerConsumptionW float64 `json:"total_power_consumption"`
	AverageTreeMovementMM  float64 `json:"average_tree_movement"`
	CyclesGenerated        int     `json:"cycles_generated"`
	SimulatedUptimeSec     float64 `json:"simulated_uptime_seconds"`
}

// Metadata is the per-dataset metadata block.
type Metadata struct {
	RunID          string           `json:"run_id"`
	Timestamp      string           `json:"timestamp"`
	SimulationTime string           `json:"simulation_time"`
	WeatherRegime  string           `json:"weather_pattern"`
	Stats          RunStats         `json:"stats"`
	UserEngagement []EngagementStat `json:"user_engagement"`
}

// CycleDataset is the emitted unit: every reading category produced in one
// generation pass plus metadata. Ownership transfers to the sink once a
// cycle completes; the engine keeps no reference to emitted datasets.
type CycleDataset struct {
	Timestamp        string                    `json:"timestamp"`
	Metadata         Metadata                  `json:"metadata"`
	Environmental    []EnvironmentalReading    `json:"environmental"`
	TreeBiometrics   []TreeBiometricsReading   `json:"tree_biometrics"`
	VisitorDetection []VisitorDetectionReading `json:"visitor_detection"`
	AudioSystem      []AudioSystemReading      `json:"audio_system"`
	LightingSystem   []LightingReading         `json:"lighting_system"`
}
