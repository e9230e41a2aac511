package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the serve configuration file. Flags override file values.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Database is the path to the SQLite row store.
	Database string `yaml:"database"`

	// SchemaOverlay optionally points at a CUE document replacing parts
	// of the built-in table definition.
	SchemaOverlay string `yaml:"schema_overlay,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Listen:   ":8080",
		Database: "surveyd.db",
	}
}

// LoadConfig reads a YAML config file over the defaults. Unknown fields
// are rejected so typos fail loudly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Listen == "" {
		return cfg, fmt.Errorf("config %s: listen address is empty", path)
	}
	if cfg.Database == "" {
		return cfg, fmt.Errorf("config %s: database path is empty", path)
	}

	return cfg, nil
}
