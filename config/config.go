// Package config provides configuration loading and access for the trainer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Sensory inputs and decision outputs are fixed by the agent's controller.
const (
	NumInputs  = 2 // horizontal distance to gap, vertical offset to gap
	NumOutputs = 1 // jump
)

// Config holds all training configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Network    NetworkConfig    `yaml:"network"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Agent      AgentConfig      `yaml:"agent"`
	Pipes      PipesConfig      `yaml:"pipes"`
	Episode    EpisodeConfig    `yaml:"episode"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds playfield and display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// NetworkConfig holds the fixed network topology.
type NetworkConfig struct {
	Dims []int `yaml:"dims"` // layer sizes, input first, e.g. [2, 10, 10, 1]
}

// PopulationConfig holds population sizing.
type PopulationConfig struct {
	Size   int `yaml:"size"`
	Elites int `yaml:"elites"`
}

// MutationConfig holds procreation parameters.
type MutationConfig struct {
	Probability   float64 `yaml:"probability"`    // per-entry replacement chance
	Range         float64 `yaml:"range"`          // replacements are uniform in [-range, range]
	SymmetricBias bool    `yaml:"symmetric_bias"` // biases default to parent1 like weights
}

// PhysicsConfig holds agent physics constants (per tick).
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Friction    float64 `yaml:"friction"`
	JumpImpulse float64 `yaml:"jump_impulse"` // magnitude, applied upward
	Mass        float64 `yaml:"mass"`
	AgentRadius float64 `yaml:"agent_radius"`
}

// AgentConfig holds the episode start position.
type AgentConfig struct {
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
}

// PipesConfig holds obstacle field parameters.
type PipesConfig struct {
	Count          int     `yaml:"count"`
	StartX         float64 `yaml:"start_x"`
	Space          float64 `yaml:"space"`           // horizontal distance between consecutive pipes
	Width          float64 `yaml:"width"`
	GapHalfHeight  float64 `yaml:"gap_half_height"`
	Margin         float64 `yaml:"margin"`          // gap centers stay in [margin, height-margin]
	Speed          float64 `yaml:"speed"`           // pixels per tick
	RegapOnRecycle bool    `yaml:"regap_on_recycle"`
}

// EpisodeConfig holds episode limits.
type EpisodeConfig struct {
	MaxTicks int `yaml:"max_ticks"` // 0 = run until extinction
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogEvery int `yaml:"log_every"` // log every Nth generation
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW   float64 // Screen.Width as float64
	ScreenH   float64 // Screen.Height as float64
	NumLayers int     // len(Network.Dims) - 1
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults. Panics if they do not parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		add("screen: dimensions must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}

	dims := c.Network.Dims
	switch {
	case len(dims) < 2:
		add("network: dims needs at least an input and an output layer, got %v", dims)
	default:
		for i, d := range dims {
			if d <= 0 {
				add("network: dims[%d] must be positive, got %d", i, d)
			}
		}
		if dims[0] != NumInputs {
			add("network: dims[0] must be %d (sensory inputs), got %d", NumInputs, dims[0])
		}
		if dims[len(dims)-1] != NumOutputs {
			add("network: last dim must be %d (jump decision), got %d", NumOutputs, dims[len(dims)-1])
		}
	}

	if c.Population.Size <= 0 {
		add("population: size must be positive, got %d", c.Population.Size)
	}
	if c.Population.Elites <= 0 {
		add("population: elites must be positive, got %d", c.Population.Elites)
	}
	if c.Population.Size > 0 && 2*c.Population.Elites >= c.Population.Size {
		add("population: elites (%d) must be less than half the population (%d)",
			c.Population.Elites, c.Population.Size)
	}

	if c.Mutation.Probability < 0 || c.Mutation.Probability > 1 {
		add("mutation: probability must be in [0, 1], got %g", c.Mutation.Probability)
	}
	if c.Mutation.Range < 0 {
		add("mutation: range must be non-negative, got %g", c.Mutation.Range)
	}

	if c.Physics.Mass <= 0 {
		add("physics: mass must be positive, got %g", c.Physics.Mass)
	}

	if c.Pipes.Count <= 0 {
		add("pipes: count must be positive, got %d", c.Pipes.Count)
	}
	if c.Pipes.Space <= c.Pipes.Width {
		add("pipes: space (%g) must exceed width (%g)", c.Pipes.Space, c.Pipes.Width)
	}
	if c.Pipes.Speed < 0 {
		add("pipes: speed must be non-negative, got %g", c.Pipes.Speed)
	}
	// The ring must always hold a pipe at or ahead of the agents. Only the
	// leftmost pipe is recycled, once its right edge passes 0, so the last pipe
	// is never further left than (count-1)*space - width. At most one pipe can
	// leave per tick, which needs speed below space.
	if c.Pipes.Count > 0 && c.Pipes.Space > 0 {
		if reach := float64(c.Pipes.Count-1)*c.Pipes.Space - c.Pipes.Width; reach < c.Agent.StartX {
			add("pipes: %d pipes spaced %g leave no pipe ahead of agents at x=%g (last pipe can fall back to x=%g)",
				c.Pipes.Count, c.Pipes.Space, c.Agent.StartX, reach)
		}
		if last := c.Pipes.StartX + float64(c.Pipes.Count-1)*c.Pipes.Space; last < c.Agent.StartX {
			add("pipes: start_x %g puts every pipe behind agents at x=%g", c.Pipes.StartX, c.Agent.StartX)
		}
		if c.Pipes.Speed >= c.Pipes.Space {
			add("pipes: speed (%g) must be less than space (%g)", c.Pipes.Speed, c.Pipes.Space)
		}
	}
	if 2*c.Pipes.Margin > float64(c.Screen.Height) {
		add("pipes: margin %g leaves no room for gap centers on a %d-high screen",
			c.Pipes.Margin, c.Screen.Height)
	}

	if c.Episode.MaxTicks < 0 {
		add("episode: max_ticks must be non-negative, got %d", c.Episode.MaxTicks)
	}

	return errors.Join(errs...)
}

// ComputeDerived calculates values derived from loaded config.
func (c *Config) ComputeDerived() {
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)
	c.Derived.NumLayers = len(c.Network.Dims) - 1
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Network.Dims = append([]int(nil), c.Network.Dims...)
	return &clone
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
