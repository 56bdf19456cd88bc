package bubblestack

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every Config validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the badge layout and simulation tunables. DefaultConfig
// returns the designed values; LoadConfig overlays a YAML file on top of
// them.
//
// Example file:
//
//	threshold: 0.1
//	gravity: {x: 0, y: 1000}
//	badges:
//	  - id: bubble0
//	    url: https://example.com/
//	    image: example_bubble
//	    position: {x: 500, y: 200}
//	    radius: 175
//	    restitution: 0.8
type Config struct {
	// Threshold is the visible fraction of the container that fires the
	// trigger.
	Threshold float64 `yaml:"threshold"`
	// Geometry is the reference layout the badges were designed against.
	Geometry Geometry `yaml:"geometry"`
	// Responsive scales geometry and badges to the container size measured
	// at trigger time. When false the reference geometry is used as is.
	Responsive bool `yaml:"responsive"`
	// Gravity in units per second squared.
	Gravity Vec2 `yaml:"gravity"`
	// TimeStep is the fixed step in seconds.
	TimeStep float64 `yaml:"timeStep"`
	// SolverPasses is the number of collision resolution passes per step.
	SolverPasses int `yaml:"solverPasses"`
	// StepsPerFrame is how many physics steps run per host frame.
	StepsPerFrame int `yaml:"stepsPerFrame"`
	// Badges declares the bubbles in element order.
	Badges []Badge `yaml:"badges"`
}

// DefaultConfig returns the designed configuration.
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		Geometry:      ReferenceGeometry(),
		Responsive:    true,
		Gravity:       DefaultGravity,
		TimeStep:      DefaultTimeStep,
		SolverPasses:  DefaultSolverPasses,
		StepsPerFrame: 1,
		Badges:        DefaultBadges(),
	}
}

// Validate checks every field.
func (c Config) Validate() error {
	if !(c.Threshold > 0) || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be in (0, 1], got %v", ErrInvalidConfig, c.Threshold)
	}
	if !finite(c.Gravity.X, c.Gravity.Y) {
		return fmt.Errorf("%w: gravity must be finite, got %v", ErrInvalidConfig, c.Gravity)
	}
	if !(c.TimeStep > 0) || math.IsInf(c.TimeStep, 0) {
		return fmt.Errorf("%w: time step must be > 0, got %v", ErrInvalidConfig, c.TimeStep)
	}
	if c.SolverPasses < 1 {
		return fmt.Errorf("%w: solver passes must be >= 1, got %d", ErrInvalidConfig, c.SolverPasses)
	}
	if c.StepsPerFrame < 1 {
		return fmt.Errorf("%w: steps per frame must be >= 1, got %d", ErrInvalidConfig, c.StepsPerFrame)
	}
	if err := c.Geometry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.Badges) == 0 {
		return fmt.Errorf("%w: no badges", ErrInvalidConfig)
	}
	if err := ValidateBadges(c.Badges); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	for _, b := range c.Badges {
		switch b.ID {
		case FloorID, LeftWallID, RightWallID:
			return fmt.Errorf("%w: badge id %q is reserved", ErrInvalidConfig, b.ID)
		}
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Fields absent from the document keep their defaults; a badges list
// replaces the default list entirely.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// MarshalConfig encodes c as YAML.
func MarshalConfig(c Config) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
