package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ThreatTable maps "<col>_<row>" zone keys to expected-threat values.
type ThreatTable struct {
	Zones map[string]float64 `yaml:"zones"`
}

// PassBucket is one distance class of a role's pass-length distribution.
type PassBucket struct {
	MaxDist float64 `yaml:"max_dist"` // upper bound in meters, 0 = unbounded
	Mean    float64 `yaml:"mean"`
	Std     float64 `yaml:"std"`
	Success float64 `yaml:"success"` // base empirical completion rate
}

type PassTable struct {
	Roles map[string][]PassBucket `yaml:"roles"`
}

// DribbleBucket calibrates dribble success for a pressure class.
type DribbleBucket struct {
	MaxPressure float64 `yaml:"max_pressure"` // upper bound in [0,1]
	Success     float64 `yaml:"success"`
	Duration    float64 `yaml:"duration"` // typical carry time, seconds
}

type DribbleTable struct {
	Buckets []DribbleBucket `yaml:"buckets"`
}

// Tables bundles the static reference data consumed at model construction.
type Tables struct {
	Threat  ThreatTable
	Pass    PassTable
	Dribble DribbleTable
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadTables resolves the calibration tables for the configured realism
// level. Toy realism always uses the built-in tables; empirical realism
// reads threat.yaml, pass_dist.yaml and dribble.yaml from DataDir.
func LoadTables(cfg *Config) (*Tables, error) {
	if cfg.RealismLevel == RealismToy {
		return ToyTables(), nil
	}
	t := &Tables{}
	if err := loadYAML(filepath.Join(cfg.DataDir, "threat.yaml"), &t.Threat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTables, err)
	}
	if err := loadYAML(filepath.Join(cfg.DataDir, "pass_dist.yaml"), &t.Pass); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTables, err)
	}
	if err := loadYAML(filepath.Join(cfg.DataDir, "dribble.yaml"), &t.Dribble); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTables, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) validate() error {
	if len(t.Pass.Roles) == 0 {
		return fmt.Errorf("%w: pass table has no roles", ErrLoadTables)
	}
	if len(t.Dribble.Buckets) == 0 {
		return fmt.Errorf("%w: dribble table has no buckets", ErrLoadTables)
	}
	return nil
}

// PassBucketFor picks the role's distance class for a pass of the given
// length. Unknown roles fall back to the midfielder table.
func (t *Tables) PassBucketFor(role string, dist float64) PassBucket {
	buckets, ok := t.Pass.Roles[role]
	if !ok {
		buckets = t.Pass.Roles["midfielder"]
	}
	for _, b := range buckets {
		if b.MaxDist <= 0 || dist <= b.MaxDist {
			return b
		}
	}
	if len(buckets) > 0 {
		return buckets[len(buckets)-1]
	}
	return PassBucket{Mean: 12, Std: 3, Success: 0.7}
}

// DribbleBucketFor picks the calibration bucket for the given pressure.
func (t *Tables) DribbleBucketFor(pressure float64) DribbleBucket {
	for _, b := range t.Dribble.Buckets {
		if pressure <= b.MaxPressure {
			return b
		}
	}
	if n := len(t.Dribble.Buckets); n > 0 {
		return t.Dribble.Buckets[n-1]
	}
	return DribbleBucket{MaxPressure: 1, Success: 0.5, Duration: 2}
}

// ToyTables returns the built-in calibration set. The threat zones are left
// empty: the engine substitutes the synthetic gradient in that case.
func ToyTables() *Tables {
	return &Tables{
		Pass: PassTable{Roles: map[string][]PassBucket{
			"goalkeeper": {
				{MaxDist: 12, Mean: 8, Std: 2, Success: 0.88},
				{MaxDist: 25, Mean: 18, Std: 4, Success: 0.74},
				{MaxDist: 0, Mean: 35, Std: 8, Success: 0.58},
			},
			"defender": {
				{MaxDist: 12, Mean: 8, Std: 2, Success: 0.86},
				{MaxDist: 25, Mean: 18, Std: 4, Success: 0.76},
				{MaxDist: 0, Mean: 35, Std: 8, Success: 0.60},
			},
			"midfielder": {
				{MaxDist: 12, Mean: 8, Std: 2, Success: 0.90},
				{MaxDist: 25, Mean: 18, Std: 4, Success: 0.80},
				{MaxDist: 0, Mean: 35, Std: 8, Success: 0.65},
			},
			"forward": {
				{MaxDist: 12, Mean: 8, Std: 2, Success: 0.85},
				{MaxDist: 25, Mean: 18, Std: 4, Success: 0.75},
				{MaxDist: 0, Mean: 35, Std: 8, Success: 0.58},
			},
		}},
		Dribble: DribbleTable{Buckets: []DribbleBucket{
			{MaxPressure: 0.25, Success: 0.80, Duration: 1.0},
			{MaxPressure: 0.50, Success: 0.70, Duration: 1.5},
			{MaxPressure: 0.75, Success: 0.55, Duration: 2.0},
			{MaxPressure: 1.00, Success: 0.45, Duration: 2.5},
		}},
	}
}
