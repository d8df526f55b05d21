// Package config loads the YAML configuration of the goeof command.
// Command line flags override values read from the file.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/goeof/pkg/errors"
	"github.com/YuminosukeSato/goeof/pkg/log"
)

// Config holds the analysis settings shared by every subcommand.
type Config struct {
	// Input is the path of the numeric CSV matrix (samples × features).
	Input string `yaml:"input"`
	// Header skips the first CSV row.
	Header bool `yaml:"header"`
	// Modes is the number of modes to retain; 0 keeps all.
	Modes int `yaml:"modes"`
	// Norm divides every feature by its population standard deviation.
	Norm bool `yaml:"norm"`
	// Weights are per-feature weights; empty means all ones.
	Weights []float64 `yaml:"weights"`
	// Scaling is the EOF/PC scaling code (0, 1 or 2).
	Scaling int `yaml:"scaling"`
	// Format is the report format: table, json or yaml.
	Format string `yaml:"format"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Plot PlotConfig `yaml:"plot"`
}

// PlotConfig controls the plot subcommand.
type PlotConfig struct {
	// Width and Height are in inches.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// MaxModes limits the number of EOF patterns drawn; 0 draws all.
	MaxModes int `yaml:"max_modes"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:   "table",
		LogLevel: "info",
		Plot: PlotConfig{
			Width:    8,
			Height:   5,
			MaxModes: 4,
		},
	}
}

// Load reads path on top of Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. It does not touch the filesystem.
func (c *Config) Validate() error {
	if c.Modes < 0 {
		return errors.NewValidationError("modes", "must be zero (all) or positive", c.Modes)
	}
	if c.Scaling < 0 || c.Scaling > 2 {
		return errors.NewValidationError("scaling", "must be 0, 1 or 2", c.Scaling)
	}
	switch strings.ToLower(c.Format) {
	case "table", "json", "yaml":
	default:
		return errors.NewValidationError("format", "must be table, json or yaml", c.Format)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", "must be debug, info, warn or error", c.LogLevel)
	}
	if err := errors.CheckVector("config.weights", c.Weights); err != nil {
		return err
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return errors.NewValidationError("plot", "width and height must be positive", []float64{c.Plot.Width, c.Plot.Height})
	}
	if c.Plot.MaxModes < 0 {
		return errors.NewValidationError("plot.max_modes", "must not be negative", c.Plot.MaxModes)
	}
	return nil
}
