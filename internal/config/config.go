package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFinalTime   = 1.0
	DefaultTotalSteps  = 100000
	DefaultRecordEvery = 200
	DefaultElements    = 50
	DefaultLength      = 1.0
	DefaultRadius      = 0.025
	DefaultDensity     = 509.3
	DefaultYoungs      = 1e9
	DefaultPoisson     = 0.5
	DefaultGravity     = 9.80665
)

type Config struct {
	Scenario    string         `yaml:"scenario"`
	Stepper     string         `yaml:"stepper"`
	FinalTime   float64        `yaml:"final_time"`
	TotalSteps  int            `yaml:"total_steps"`
	RecordEvery int            `yaml:"record_every"`
	Gravity     float64        `yaml:"gravity"`
	Rod         RodConfig      `yaml:"rod"`
	Friction    FrictionConfig `yaml:"friction"`
}

type RodConfig struct {
	Elements      int     `yaml:"elements"`
	Length        float64 `yaml:"length"`
	Radius        float64 `yaml:"radius"`
	Density       float64 `yaml:"density"`
	YoungsModulus float64 `yaml:"youngs_modulus"`
	PoissonRatio  float64 `yaml:"poisson_ratio"`
	Damping       float64 `yaml:"damping"`
	InertiaFactor float64 `yaml:"inertia_factor"`
	Velocity      float64 `yaml:"velocity"`
}

type FrictionConfig struct {
	Stiffness     float64 `yaml:"stiffness"`
	Damping       float64 `yaml:"damping"`
	SlipTolerance float64 `yaml:"slip_tolerance"`
	StaticMu      float64 `yaml:"static_mu"`
	KineticMu     float64 `yaml:"kinetic_mu"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    "rolling",
		Stepper:     "verlet",
		FinalTime:   DefaultFinalTime,
		TotalSteps:  DefaultTotalSteps,
		RecordEvery: DefaultRecordEvery,
		Gravity:     DefaultGravity,
		Rod: RodConfig{
			Elements:      DefaultElements,
			Length:        DefaultLength,
			Radius:        DefaultRadius,
			Density:       DefaultDensity,
			YoungsModulus: DefaultYoungs,
			PoissonRatio:  DefaultPoisson,
			Damping:       1e-6,
			InertiaFactor: 1.0,
		},
		Friction: FrictionConfig{
			Stiffness:     10.0,
			Damping:       1e-4,
			SlipTolerance: 1e-8,
			StaticMu:      0.4,
			KineticMu:     0.2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
