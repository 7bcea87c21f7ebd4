package config

import (
	"github.com/kbukum/regexprobe/engine"
	apperrors "github.com/kbukum/regexprobe/errors"
	"github.com/kbukum/regexprobe/observability"
	"github.com/kbukum/regexprobe/server"
)

// DefaultServiceName names the process in logs, telemetry and env prefixes.
const DefaultServiceName = "regexprobe"

// Config is the complete regexprobe configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Engine        engine.Config        `yaml:"engine" mapstructure:"engine"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Engine.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section. Out-of-range values are INVALID_INPUT.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return invalid("service", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return invalid("engine", err)
	}
	if err := c.Server.Validate(); err != nil {
		return invalid("server", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return invalid("observability", err)
	}
	return nil
}

// invalid keeps AppErrors as they are and turns anything else into
// INVALID_INPUT for the given config section.
func invalid(section string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.InvalidInput(section, err.Error()).WithCause(err)
}

// Load reads configuration from file and environment, then applies defaults
// and validates the result.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(DefaultServiceName, &cfg, opts...); err != nil {
		return nil, invalid("config", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied and nothing
// read from disk or the environment.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}
