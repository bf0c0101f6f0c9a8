// Package config loads optional user defaults from a YAML file. Only
// gesture and output defaults live here; a device target is never read
// from config, so every invocation states its target explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the tunable defaults.
type Config struct {
	// Timeout bounds each external tool invocation.
	Timeout Duration `yaml:"timeout"`
	// BuildTimeout bounds xcodebuild, which runs far longer.
	BuildTimeout Duration `yaml:"build_timeout"`
	// Settle is the pause between dispatching a gesture and taking the
	// post snapshot.
	Settle Duration `yaml:"settle"`
	Scroll Scroll   `yaml:"scroll"`
	// Format is the default output format: text, yaml, or json.
	Format string `yaml:"format"`
}

// Scroll carries directional scroll defaults.
type Scroll struct {
	// Distance in logical points.
	Distance float64 `yaml:"distance"`
	// Speed is the swipe duration in seconds.
	Speed float64 `yaml:"speed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeout:      Duration(30 * time.Second),
		BuildTimeout: Duration(15 * time.Minute),
		Settle:       Duration(time.Second),
		Scroll:       Scroll{Distance: 300, Speed: 0.4},
		Format:       "text",
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sim-cli", "config.yaml")
}

// Load reads the config at path layered over the defaults. An empty path
// means the default location, where a missing file is fine; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("45s", "2m") or a bare number of seconds.
type Duration time.Duration

// D converts to the standard type.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		dur, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(dur)
		return nil
	}

	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		*d = Duration(time.Duration(seconds * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration value on line %d", value.Line)
}

// MarshalYAML implements yaml.Marshaler, keeping round-trips readable.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}
