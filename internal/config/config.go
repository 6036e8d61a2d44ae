package config

import (
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravlab/internal/engine"
)

const (
	DefaultG         = 6.6743e-20 // km³/(kg·s²)
	DefaultTheta     = 0.5
	DefaultTimeScale = 1.0 // simulated days per wall second
	DefaultMaxFrame  = 1.0
	DefaultFrame     = 1.0 / 60.0
	DefaultDuration  = 365.0 // simulated days for batch runs
)

// Config is the YAML-loadable run configuration. Engine-facing fields map
// straight onto engine.Params; the rest drive the CLI run loop.
type Config struct {
	Scenario        string  `yaml:"scenario"`
	G               float64 `yaml:"g"`
	Theta           float64 `yaml:"theta"`
	TimeScale       float64 `yaml:"time_scale"`
	MaxFrameSeconds float64 `yaml:"max_frame_seconds"`
	Substepping     bool    `yaml:"substepping"`
	Workers         int     `yaml:"workers"`
	MaxDepth        int     `yaml:"max_depth"`
	CellSize        float64 `yaml:"cell_size"`

	// Batch-run shape: total simulated days, advanced in fixed wall-clock
	// frames of FrameSeconds each.
	Duration     float64 `yaml:"duration"`
	FrameSeconds float64 `yaml:"frame_seconds"`
	Seed         int64   `yaml:"seed"`

	// Bodies overrides the scenario with an explicit body list.
	Bodies []BodyConfig `yaml:"bodies"`
}

// BodyConfig describes one body in caller units (km, kg, km/s).
type BodyConfig struct {
	ID       string     `yaml:"id"`
	Mass     float64    `yaml:"mass"`
	Radius   float64    `yaml:"radius"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Fixed    bool       `yaml:"fixed"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:        "solar",
		G:               DefaultG,
		Theta:           DefaultTheta,
		TimeScale:       DefaultTimeScale,
		MaxFrameSeconds: DefaultMaxFrame,
		Substepping:     true,
		Duration:        DefaultDuration,
		FrameSeconds:    DefaultFrame,
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

// EngineParams maps the configuration onto engine parameters.
func (c *Config) EngineParams() engine.Params {
	return engine.Params{
		G:               c.G,
		Theta:           c.Theta,
		TimeScale:       c.TimeScale,
		MaxFrameSeconds: c.MaxFrameSeconds,
		Substepping:     c.Substepping,
		Workers:         c.Workers,
		MaxDepth:        c.MaxDepth,
		CellSize:        c.CellSize,
	}
}

// BuildBodies constructs the explicit body list, if any.
func (c *Config) BuildBodies() ([]*engine.Body, error) {
	if len(c.Bodies) == 0 {
		return nil, nil
	}
	bodies := make([]*engine.Body, 0, len(c.Bodies))
	for _, bc := range c.Bodies {
		b, err := engine.NewBody(bc.ID, bc.Mass, bc.Radius,
			r3.Vec{X: bc.Position[0], Y: bc.Position[1], Z: bc.Position[2]},
			r3.Vec{X: bc.Velocity[0], Y: bc.Velocity[1], Z: bc.Velocity[2]})
		if err != nil {
			return nil, err
		}
		b.Fixed = bc.Fixed
		bodies = append(bodies, b)
	}
	return bodies, nil
}
