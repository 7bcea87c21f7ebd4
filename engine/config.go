package engine

import (
	"fmt"
	"time"

	"github.com/kbukum/regexprobe/errors"
	"github.com/kbukum/regexprobe/validation"
)

// Config selects and tunes a backend.
type Config struct {
	Name         string        `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Workers      int           `yaml:"workers" mapstructure:"workers" json:"workers" validate:"gte=1,max=1024"`
	MatchTimeout time.Duration `yaml:"match_timeout" mapstructure:"match_timeout" json:"match_timeout" validate:"gte=0"`
	ECMAScript   bool          `yaml:"ecmascript" mapstructure:"ecmascript" json:"ecmascript"`
	RE2Syntax    bool          `yaml:"re2_syntax" mapstructure:"re2_syntax" json:"re2_syntax"`
	// UnmatchedGroup replaces "" for capture groups that did not participate
	// in a match. Empty keeps "".
	UnmatchedGroup string `yaml:"unmatched_group" mapstructure:"unmatched_group" json:"unmatched_group,omitempty"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = NameGo
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.MatchTimeout == 0 {
		c.MatchTimeout = DefaultMatchTimeout
	}
}

// Validate checks the settings and that the backend is registered.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	registryMu.RLock()
	_, ok := factories[c.Name]
	registryMu.RUnlock()
	if !ok {
		return errors.UnsupportedEngine(c.Name, Names())
	}
	return nil
}
