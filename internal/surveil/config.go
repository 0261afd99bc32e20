package surveil

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level deployment configuration: where the map lives,
// how to scale it, which sensors to deploy, and how the simulation should
// run. Mirrors main.py's config shape (environment.map, sensors) with the
// simulation and adversary sections the original hard-codes pulled out
// into YAML.
type Config struct {
	Environment EnvironmentCfg `yaml:"environment"`
	Sensors     []SensorCfg    `yaml:"sensors"`
	Adversaries []AdversaryCfg `yaml:"adversaries"`
	Simulation  SimulationCfg  `yaml:"simulation"`
}

// EnvironmentCfg locates and scales the map raster and bounds the
// simulation's run length.
type EnvironmentCfg struct {
	Map          MapCfg        `yaml:"map"`
	MaxTimesteps TimestepLimit `yaml:"max_timesteps"`
}

// UnmarshalYAML decodes the environment section and then marks a null
// max_timesteps as unbounded: yaml.v3 never calls TimestepLimit's own
// UnmarshalYAML for a null value, so it is recognised here instead.
func (e *EnvironmentCfg) UnmarshalYAML(value *yaml.Node) error {
	type plain EnvironmentCfg
	if err := value.Decode((*plain)(e)); err != nil {
		return err
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "max_timesteps" && value.Content[i+1].ShortTag() == "!!null" {
			e.MaxTimesteps = TimestepLimit{Unbounded: true}
		}
	}
	return nil
}

// MapCfg points at the raster file, its real-world scale, and an optional
// persisted graph cache.
type MapCfg struct {
	Image     string  `yaml:"image"`
	PixelToCM float64 `yaml:"pixel_to_cm"`
	Graph     string  `yaml:"graph"`
}

// TimestepLimit is environment.max_timesteps: either a positive bound or
// unbounded, spelled as the YAML literal "inf" or a null mapping (spec.md
// §6 "Configuration").
type TimestepLimit struct {
	N         int
	Unbounded bool
}

// UnmarshalYAML accepts a positive integer, the string "inf", or null.
func (t *TimestepLimit) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*t = TimestepLimit{Unbounded: true}
		return nil
	}
	if value.Tag == "!!str" {
		if !strings.EqualFold(value.Value, "inf") {
			return fmt.Errorf("max_timesteps: unsupported string %q, expected \"inf\"", value.Value)
		}
		*t = TimestepLimit{Unbounded: true}
		return nil
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("max_timesteps: %w", err)
	}
	*t = TimestepLimit{N: n}
	return nil
}

// AsSimulationLimit returns the value Simulation.MaxTimesteps expects: the
// bound itself, or -1 for unbounded.
func (t TimestepLimit) AsSimulationLimit() int {
	if t.Unbounded {
		return -1
	}
	return t.N
}

// SensorCfg is one entry of the sensors list. Type selects which fields
// apply; unused fields for a given type are ignored.
type SensorCfg struct {
	Type            string  `yaml:"type"` // "Line", "Camera", or "Robot"
	Name            string  `yaml:"name"`
	Range           float64 `yaml:"range"`
	FieldOfView     float64 `yaml:"field_of_view"` // degrees, Camera
	Radius          float64 `yaml:"radius"`        // cm, Robot
	Speed           float64 `yaml:"speed"`         // cm/timestep, Robot
	FOV             float64 `yaml:"fov"`           // radians, Robot
	AngleResolution float64 `yaml:"angle_resolution"` // degrees, Robot
}

// AdversaryCfg is one entry of the adversaries list.
type AdversaryCfg struct {
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Theta  float64 `yaml:"theta"`
}

// SimulationCfg controls the run's determinism. Run length lives under
// environment.max_timesteps, not here, since it bounds the environment's
// wall-clock simulation rather than a placement-pipeline parameter.
type SimulationCfg struct {
	Seed int64 `yaml:"seed"`
}

// LoadConfig reads and validates a deployment config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("reading config file: %w", err)}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parsing YAML: %w", err)}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields LoadConfig doesn't already guarantee, returning the
// first failure found.
func (c *Config) Validate() error {
	if c.Environment.Map.Image == "" {
		return &ConfigError{Field: "environment.map.image", Err: fmt.Errorf("must be set")}
	}
	if c.Environment.Map.PixelToCM <= 0 {
		return &ConfigError{Field: "environment.map.pixel_to_cm", Err: fmt.Errorf("must be positive")}
	}
	if !c.Environment.MaxTimesteps.Unbounded && c.Environment.MaxTimesteps.N <= 0 {
		return &ConfigError{Field: "environment.max_timesteps", Err: fmt.Errorf(`must be positive, "inf", or null`)}
	}
	for i, s := range c.Sensors {
		switch s.Type {
		case "Line", "Camera", "Robot":
		default:
			return &ConfigError{Field: fmt.Sprintf("sensors[%d].type", i), Err: fmt.Errorf("unsupported type %q", s.Type)}
		}
		if s.Name == "" {
			return &ConfigError{Field: fmt.Sprintf("sensors[%d].name", i), Err: fmt.Errorf("must be set")}
		}
	}
	return nil
}

// BuildSensors constructs the concrete Sensor values described by the
// config, bound to grid for their detection and placement geometry.
func (c *Config) BuildSensors(grid *OccupancyGrid) ([]Sensor, error) {
	sensors := make([]Sensor, 0, len(c.Sensors))
	for _, s := range c.Sensors {
		switch s.Type {
		case "Line":
			sensors = append(sensors, NewLineSensor(s.Name, grid, s.Range))
		case "Camera":
			sensors = append(sensors, NewCameraSensor(s.Name, grid, s.FieldOfView, s.Range))
		case "Robot":
			sensors = append(sensors, NewRobot(s.Name, grid, s.Radius, s.Speed, s.FOV, s.Range, s.AngleResolution))
		default:
			return nil, &ConfigError{Field: "sensors", Err: fmt.Errorf("unsupported type %q", s.Type)}
		}
	}
	return sensors, nil
}

// BuildAdversaries constructs the adversary pool described by the config,
// bound to grid for their motion collision checks.
func (c *Config) BuildAdversaries(grid *OccupancyGrid) *AdversaryPool {
	pool := &AdversaryPool{Adversaries: make([]*Adversary, 0, len(c.Adversaries))}
	for _, a := range c.Adversaries {
		pose := Pose{X: a.X, Y: a.Y, Theta: a.Theta}
		pool.Adversaries = append(pool.Adversaries, NewAdversary(pose, a.Radius, a.Speed, grid))
	}
	return pool
}
