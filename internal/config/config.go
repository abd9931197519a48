package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/universe"
)

const (
	DefaultDt          = 25000.0
	DefaultDuration    = 157788000.0
	DefaultWorkers     = 1
	DefaultRecordEvery = 1
	DefaultDataDir     = ".nbody"
	DefaultFPS         = 30
	DefaultPreset      = "planets"
)

type Config struct {
	Input       string  `yaml:"input,omitempty"`
	Preset      string  `yaml:"preset,omitempty"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Workers     int     `yaml:"workers"`
	Validate    bool    `yaml:"validate"`
	RecordEvery int     `yaml:"record_every"`
	DataDir     string  `yaml:"data_dir"`
	FPS         int     `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      DefaultPreset,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Workers:     DefaultWorkers,
		Validate:    true,
		RecordEvery: DefaultRecordEvery,
		DataDir:     DefaultDataDir,
		FPS:         DefaultFPS,
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

// SimConfig converts to the run parameters used by the simulator.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		Workers:       c.Workers,
		RecordEvery:   c.RecordEvery,
		ValidateState: c.Validate,
	}
}

// Universe builds the initial universe. An input file takes precedence over
// a preset.
func (c *Config) Universe() (*sim.Universe, error) {
	if c.Input != "" {
		f, err := universe.ReadFile(c.Input)
		if err != nil {
			return nil, err
		}
		return sim.NewUniverse(f.Radius, f.Bodies), nil
	}

	p := GetPreset(c.Preset)
	if p == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", c.Preset, ListPresets())
	}
	return p.Universe(), nil
}

// BodySpec is one row of a preset's initial conditions.
type BodySpec struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
	Mass float64 `yaml:"mass"`
	Name string  `yaml:"name"`
}

func (s BodySpec) Body() *physics.Body {
	return physics.NewBody(s.X, s.Y, s.VX, s.VY, s.Mass, s.Name)
}
