// Package config reads the optional run configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/pulseops/Autosource/internal/schema"
)

// Config holds run settings. Command-line flags override any value set here.
type Config struct {
	Registry    string `yaml:"registry"`     // built-in schema set, e.g. autosource
	Seed        uint64 `yaml:"seed"`         // 0 = random
	Format      string `yaml:"format"`       // text | json
	MetricsFile string `yaml:"metrics_file"` // prometheus textfile output, empty = off
	Verbose     bool   `yaml:"verbose"`
}

// Formats lists the accepted output formats.
var Formats = []string{"text", "json"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Registry: schema.DefaultSet,
		Format:   "text",
	}
}

// Load reads a YAML config file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if !slices.Contains(schema.Sets(), c.Registry) {
		return fmt.Errorf("registry must be one of %v, got %q", schema.Sets(), c.Registry)
	}
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("format must be one of %v, got %q", Formats, c.Format)
	}
	return nil
}
