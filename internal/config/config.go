// Package config loads the YAML tuning file an embedder may supply to
// adjust matmul transpose flags, the declutter pass budget, and the
// pulsification axis/width, instead of hard-coding them at each call site.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level tuning document.
type Config struct {
	MatMul    MatMulConfig    `yaml:"matmul"`
	Optimize  OptimizeConfig  `yaml:"optimize"`
	Streaming StreamingConfig `yaml:"streaming"`
}

// MatMulConfig mirrors matmul.Flags so it can be set from YAML without
// importing the matmul package here (config stays a leaf package).
type MatMulConfig struct {
	ATranspose bool `yaml:"a_transpose"`
	BTranspose bool `yaml:"b_transpose"`
	CTranspose bool `yaml:"c_transpose"`
}

// OptimizeConfig bounds the declutter fixed-point loop.
type OptimizeConfig struct {
	MaxDeclutterPasses int `yaml:"max_declutter_passes"`
}

// StreamingConfig names the default pulsification parameters.
type StreamingConfig struct {
	TimeAxis   int   `yaml:"time_axis"`
	PulseWidth int64 `yaml:"pulse_width"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Optimize: OptimizeConfig{MaxDeclutterPasses: 8},
	}
}

// Load reads and parses a YAML tuning file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}
