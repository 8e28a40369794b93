package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-pipenet/pkg/calc"
	"github.com/dd0wney/cluso-pipenet/pkg/hydraulics"
	"github.com/dd0wney/cluso-pipenet/pkg/logging"
	"github.com/dd0wney/cluso-pipenet/pkg/pipeflow"
	"github.com/dd0wney/cluso-pipenet/pkg/validation"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// MaxWorkers caps the number of parallel subnet solves
const MaxWorkers = 1024

// Config is the complete run configuration of the solver
type Config struct {
	Solver  SolverConfig  `yaml:"solver"`
	Physics PhysicsConfig `yaml:"physics"`
	Debug   DebugConfig   `yaml:"debug"`
	Logging LoggingConfig `yaml:"logging"`
}

// SolverConfig controls subnet scheduling and the propagation solver
type SolverConfig struct {
	// Workers is the number of subnets solved in parallel (default: number of CPUs)
	Workers int `yaml:"workers"`

	// MaxWellHops bounds the well-to-meter chain walk (default: 16)
	MaxWellHops int `yaml:"max_well_hops"`

	// PressureTolerance is the line pressure disagreement reported as a mismatch, atm
	PressureTolerance float64 `yaml:"pressure_tolerance"`

	// Roughness is the absolute pipe wall roughness, mm
	Roughness float64 `yaml:"roughness"`
}

// PhysicsConfig tunes the pressure-drop integration
type PhysicsConfig struct {
	MaxSteps      int     `yaml:"max_steps"`
	SegmentLength float64 `yaml:"segment_length"` // m
	Temperature   float64 `yaml:"temperature"`    // degrees C
}

// DebugConfig holds diagnostics switches
type DebugConfig struct {
	// Serial solves one subnet at a time so logs come out in partition order
	Serial bool `yaml:"serial"`

	// TGFDir receives one annotated .tgf file per solved subnet when set
	TGFDir string `yaml:"tgf_dir"`
}

// LoggingConfig selects the log level
type LoggingConfig struct {
	Level string `yaml:"level"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file is given
func Default() *Config {
	phys := pipeflow.DefaultConfig()
	return &Config{
		Solver: SolverConfig{
			Workers:           validation.ClampInt(runtime.NumCPU(), 1, MaxWorkers),
			MaxWellHops:       hydraulics.DefaultMaxWellHops,
			PressureTolerance: hydraulics.DefaultPressureTolerance,
			Roughness:         hydraulics.DefaultRoughness,
		},
		Physics: PhysicsConfig{
			MaxSteps:      phys.MaxSteps,
			SegmentLength: phys.SegmentLength,
			Temperature:   phys.Temperature,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML file on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from PIPENET_* environment variables
func (c *Config) ApplyEnv() error {
	if s := os.Getenv("PIPENET_WORKERS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: PIPENET_WORKERS: %w", ErrInvalidConfig, err)
		}
		c.Solver.Workers = n
	}
	if s := os.Getenv("PIPENET_TGF_DIR"); s != "" {
		c.Debug.TGFDir = s
	}
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		c.Logging.Level = strings.ToLower(s)
	}
	return nil
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	err := validation.NewConfigValidator("Config").
		Positive("Solver.Workers", c.Solver.Workers).
		MaxInt("Solver.Workers", c.Solver.Workers, MaxWorkers).
		RangeInt("Solver.MaxWellHops", c.Solver.MaxWellHops, 1, 1024).
		NonNegativeFloat("Solver.PressureTolerance", c.Solver.PressureTolerance).
		Finite("Solver.PressureTolerance", c.Solver.PressureTolerance).
		PositiveFloat("Solver.Roughness", c.Solver.Roughness).
		Positive("Physics.MaxSteps", c.Physics.MaxSteps).
		PositiveFloat("Physics.SegmentLength", c.Physics.SegmentLength).
		RangeFloat("Physics.Temperature", c.Physics.Temperature, -273.15, 1000).
		Required("Logging.Level", c.Logging.Level).
		When(c.Logging.Level != "", func(v *validation.ConfigValidator) {
			v.OneOf("Logging.Level", c.Logging.Level, logLevels)
		}).
		When(c.Debug.TGFDir != "", func(v *validation.ConfigValidator) {
			v.Custom("Debug.TGFDir", func() error { return checkDir(c.Debug.TGFDir) })
		}).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// checkDir accepts a missing path or an existing directory
func checkDir(path string) error {
	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case !fi.IsDir():
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// LogLevel returns the configured logging level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}

// SolverOptions maps the solver section onto propagation options
func (c *Config) SolverOptions() hydraulics.Options {
	opts := hydraulics.DefaultOptions()
	opts.Roughness = c.Solver.Roughness
	opts.MaxWellHops = c.Solver.MaxWellHops
	opts.PressureTolerance = c.Solver.PressureTolerance
	return opts
}

// PipeflowConfig maps the physics section onto the pressure-drop model
func (c *Config) PipeflowConfig() pipeflow.Config {
	return pipeflow.Config{
		SegmentLength: c.Physics.SegmentLength,
		MaxSteps:      c.Physics.MaxSteps,
		Temperature:   c.Physics.Temperature,
	}
}

// RunnerConfig maps the configuration onto the orchestrator settings
func (c *Config) RunnerConfig() calc.Config {
	return calc.Config{
		Workers: c.Solver.Workers,
		Serial:  c.Debug.Serial,
		Solver:  c.SolverOptions(),
		TGFDir:  c.Debug.TGFDir,
	}
}
