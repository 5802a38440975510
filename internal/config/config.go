// Package config defines the simulation configuration surface and the
// calibration tables backing action probabilities.
package config

import "time"

const (
	RealismToy       = "toy"
	RealismEmpirical = "empirical"
)

type FormationSlot struct {
	Role string  `koanf:"role" yaml:"role"`
	X    float64 `koanf:"x" yaml:"x"`
	Y    float64 `koanf:"y" yaml:"y"`
}

// Config carries every tunable the engine consumes. Values are layered from
// defaults, an optional YAML file, and MATCHSIM_-prefixed env vars.
type Config struct {
	// Pitch dimensions in meters. Half FIFA pitch by default.
	PitchWidth  float64 `koanf:"pitch_width"`
	PitchLength float64 `koanf:"pitch_length"`

	// DT is simulated seconds per tick (0.066 ≈ 15 FPS).
	DT float64 `koanf:"dt"`

	// RealismLevel selects calibration tables: toy or empirical.
	RealismLevel string `koanf:"realism_level"`

	// DataDir holds the empirical YAML tables. Ignored at toy realism.
	DataDir string `koanf:"data_dir"`

	MaxGameTime           float64 `koanf:"max_game_time"`
	MaxTicksWithoutChange int     `koanf:"max_ticks_without_change"`

	// Epsilon is the base exploration rate of the decision policy.
	Epsilon float64 `koanf:"epsilon"`

	// Candidate sampling grid for dribble targets.
	DribbleAngles    int       `koanf:"dribble_angles"`
	DribbleDistances []float64 `koanf:"dribble_distances"`

	// CaptureRadius is the distance within which a loose ball may be won.
	CaptureRadius float64 `koanf:"capture_radius"`

	// PressureRadius is the opponent distance at which pressure reads zero.
	PressureRadius float64 `koanf:"pressure_radius"`

	// ShotMissFloor is the minimum off-target probability of any shot.
	ShotMissFloor float64 `koanf:"shot_miss_floor"`

	// KickoffTime anchors event timestamps (RFC3339). Fixed by default so
	// identical seeds produce byte-identical traces.
	KickoffTime string `koanf:"kickoff_time"`

	LogLevel string `koanf:"log_level"`

	// Formations maps "team_0"/"team_1" to seven (role, x, y) slots.
	Formations map[string][]FormationSlot `koanf:"formations"`
}

// New returns the toy-realism defaults.
func New() *Config {
	return &Config{
		PitchWidth:            34.0,
		PitchLength:           52.0,
		DT:                    0.066,
		RealismLevel:          RealismToy,
		DataDir:               "data",
		MaxGameTime:           900.0,
		MaxTicksWithoutChange: 1200,
		Epsilon:               0.15,
		DribbleAngles:         8,
		DribbleDistances:      []float64{2.0, 4.0, 6.0},
		CaptureRadius:         3.0,
		PressureRadius:        10.0,
		ShotMissFloor:         0.35,
		KickoffTime:           "2024-01-01T15:00:00Z",
		LogLevel:              "info",
		Formations: map[string][]FormationSlot{
			"team_0": DefaultFormation(0),
			"team_1": DefaultFormation(1),
		},
	}
}

// DefaultFormation is the stock 1-2-3-1 half-pitch setup for a team.
func DefaultFormation(teamID int) []FormationSlot {
	if teamID == 0 {
		return []FormationSlot{
			{Role: "goalkeeper", X: 17, Y: 5},
			{Role: "defender", X: 10, Y: 15},
			{Role: "defender", X: 24, Y: 15},
			{Role: "midfielder", X: 17, Y: 25},
			{Role: "midfielder", X: 8, Y: 30},
			{Role: "midfielder", X: 26, Y: 30},
			{Role: "forward", X: 17, Y: 40},
		}
	}
	return []FormationSlot{
		{Role: "goalkeeper", X: 17, Y: 47},
		{Role: "defender", X: 10, Y: 37},
		{Role: "defender", X: 24, Y: 37},
		{Role: "midfielder", X: 17, Y: 27},
		{Role: "midfielder", X: 8, Y: 22},
		{Role: "midfielder", X: 26, Y: 22},
		{Role: "forward", X: 17, Y: 12},
	}
}

// Kickoff parses KickoffTime. Validate guarantees this cannot fail after a
// successful Load.
func (c *Config) Kickoff() time.Time {
	t, err := time.Parse(time.RFC3339, c.KickoffTime)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}
