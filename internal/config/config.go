// Package config loads CLI settings.
//
// Precedence, lowest first: Defaults, the YAML file, DECISIONGRAPH_*
// environment variables, then command-line flags (applied by the CLI).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/policy"
	"github.com/roach88/decisiongraph/internal/traverse"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = ".decisiongraph.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DECISIONGRAPH_"

// DefaultPattern matches decision logs below a directory.
const DefaultPattern = "**/*.decisionlog.json"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds every setting the CLI reads.
type Config struct {
	// Strict makes WARN violations fail a run.
	Strict bool `yaml:"strict" env:"STRICT"`

	// MaxDepth bounds dependency traces in reports.
	MaxDepth int `yaml:"maxDepth" env:"MAX_DEPTH"`

	// Pattern selects files when a directory is linted.
	Pattern string `yaml:"pattern" env:"PATTERN"`

	Color string `yaml:"color" env:"COLOR"`

	// Archive is the default op-log database for import and replay --db.
	Archive string `yaml:"archive" env:"ARCHIVE"`

	Policy PolicyConfig `yaml:"policy" envPrefix:"POLICY_"`
}

// PolicyConfig configures the advisory caller policy.
type PolicyConfig struct {
	AllowedKinds []string `yaml:"allowedKinds" env:"ALLOWED_KINDS" envSeparator:","`

	// DeprecatedDependency is the severity of DEPENDENCY_ON_DEPRECATED,
	// or "off".
	DeprecatedDependency string `yaml:"deprecatedDependency" env:"DEPRECATED_DEPENDENCY"`
}

// Off disables a configurable check.
const Off = "off"

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		MaxDepth: traverse.DefaultMaxDepth,
		Pattern:  DefaultPattern,
		Color:    ColorAuto,
		Policy: PolicyConfig{
			DeprecatedDependency: string(domain.SeverityWarn),
		},
	}
}

// Load builds a Config from defaults, the YAML file at path and environ.
//
// An empty path means DefaultFile, which may be absent. An explicit path
// must exist. environ is consulted instead of the process environment
// when non-nil.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("config: maxDepth must be positive, got %d", c.MaxDepth)
	}
	if !doublestar.ValidatePattern(c.Pattern) {
		return fmt.Errorf("config: invalid pattern %q", c.Pattern)
	}
	if !slices.Contains([]string{ColorAuto, ColorAlways, ColorNever}, c.Color) {
		return fmt.Errorf("config: color must be auto, always or never, got %q", c.Color)
	}
	switch domain.Severity(c.Policy.DeprecatedDependency) {
	case domain.SeverityError, domain.SeverityWarn, domain.SeverityInfo, Off, "":
	default:
		return fmt.Errorf("config: invalid deprecatedDependency severity %q", c.Policy.DeprecatedDependency)
	}
	return nil
}

// CallerPolicy returns the advisory policy these settings describe.
func (c Config) CallerPolicy() policy.Policy {
	a := policy.Advisory{AllowedKinds: c.Policy.AllowedKinds}
	if s := c.Policy.DeprecatedDependency; s != Off {
		a.DeprecatedDependency = domain.Severity(s)
	}
	return a
}
