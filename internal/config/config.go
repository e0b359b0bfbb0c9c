// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads netsim configuration from YAML files and environment
// variables.
package config

import (
	"os"

	"github.com/db47h/netsim"
	"github.com/db47h/netsim/gates"
	"github.com/db47h/netsim/internal/logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding configuration values.
const (
	EnvLogLevel = "NETSIM_LOG_LEVEL"
	EnvTrace    = "NETSIM_TRACE"
)

// Config contains all netsim settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Run     RunConfig     `yaml:"run"`
	Trace   TraceConfig   `yaml:"trace"`

	// Gates lists gate types registered in addition to the built-in ones.
	Gates []GateConfig `yaml:"gates"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of error, warn, info (default), debug or trace.
	Level string `yaml:"level"`
}

// RunConfig holds default simulation settings.
type RunConfig struct {
	// Until is the simulated time at which a run stops.
	Until uint64 `yaml:"until"`
	// MaxSteps bounds the number of advances when running until the circuit
	// settles.
	MaxSteps int `yaml:"max_steps"`
}

// TraceConfig configures the event trace database.
type TraceConfig struct {
	// Path of the SQLite database. Tracing is disabled if empty.
	Path string `yaml:"path"`
}

// GateConfig describes an extra gate type.
type GateConfig struct {
	Name string `yaml:"name"`
	// Kind is a gate kind accepted by gates.Kind.
	Kind string `yaml:"kind"`
	// Select is the selector width of mux gates.
	Select int `yaml:"select,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Run: RunConfig{
			Until:    1000,
			MaxSteps: 100000,
		},
	}
}

// Load returns the configuration read from path, or the default configuration
// if path is empty, with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a YAML file. Values missing from the
// file keep their default.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config file "+path)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvTrace); v != "" {
		cfg.Trace.Path = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return errors.Errorf("invalid log level %q (valid: %v)", c.Logging.Level, logging.Levels)
	}
	if c.Run.MaxSteps <= 0 {
		return errors.Errorf("max_steps must be positive, got %d", c.Run.MaxSteps)
	}
	for i, g := range c.Gates {
		if g.Name == "" {
			return errors.Errorf("gate #%d: missing name", i)
		}
		if _, err := gates.Kind(g.Kind, g.Select); err != nil {
			return errors.Wrap(err, "gate "+g.Name)
		}
	}
	return nil
}

// Registry returns the built-in gate registry extended with the configured
// gates.
func (c *Config) Registry() (*netsim.Registry, error) {
	reg := gates.Default()
	for _, g := range c.Gates {
		r, err := gates.Kind(g.Kind, g.Select)
		if err != nil {
			return nil, errors.Wrap(err, "gate "+g.Name)
		}
		if err := reg.Register(g.Name, netsim.NewDef(g.Name, r)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
