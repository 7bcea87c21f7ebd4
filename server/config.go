package server

import (
	"fmt"

	"github.com/kbukum/regexprobe/resilience"
	"github.com/kbukum/regexprobe/server/middleware"
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string                `yaml:"host" mapstructure:"host"`
	Port         int                   `yaml:"port" mapstructure:"port"`
	ReadTimeout  int                   `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int                   `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int                   `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	MaxBodySize  string                `yaml:"max_body_size" mapstructure:"max_body_size"` // e.g. "1MB"
	CORS         middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
	// Evaluations bounds concurrent query evaluations across all requests.
	Evaluations resilience.BulkheadConfig `yaml:"evaluations" mapstructure:"evaluations"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
	if c.Evaluations.Name == "" {
		c.Evaluations.Name = "evaluations"
	}
	if c.Evaluations.MaxConcurrent == 0 {
		c.Evaluations.MaxConcurrent = resilience.DefaultMaxConcurrent
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("server.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if c.Evaluations.MaxConcurrent < 0 {
		return fmt.Errorf("server.evaluations.max_concurrent must be non-negative (got: %d)", c.Evaluations.MaxConcurrent)
	}
	if c.Evaluations.MaxWait < 0 {
		return fmt.Errorf("server.evaluations.max_wait must be non-negative (got: %s)", c.Evaluations.MaxWait)
	}
	if c.MaxBodySize != "" && middleware.ParseSize(c.MaxBodySize, -1) < 0 {
		return fmt.Errorf("server.max_body_size is not a size (got: %s)", c.MaxBodySize)
	}
	return nil
}
