package evaluator

import (
	"github.com/kbukum/regexprobe/engine"
	"github.com/kbukum/regexprobe/logger"
	"github.com/kbukum/regexprobe/observability"
)

// GroupPolicy renders a capture group that did not participate in a match.
// index is the 1-based group number.
type GroupPolicy func(index int) string

// EmptyGroup renders every non-participating group as "".
func EmptyGroup(int) string { return "" }

// FixedGroup renders every non-participating group as s.
func FixedGroup(s string) GroupPolicy {
	return func(int) string { return s }
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers sets how many inputs are matched concurrently. Values below 1
// mean sequential matching. Output order never depends on this setting.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithGroupPolicy overrides how non-participating groups are rendered.
func WithGroupPolicy(p GroupPolicy) Option {
	return func(e *Evaluator) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithLogger sets the logger used for run diagnostics. A nil logger
// silences them; without this option the global logger is used.
func WithLogger(l *logger.Logger) Option {
	return func(e *Evaluator) {
		if l == nil {
			l = logger.Nop()
		}
		e.log = l
	}
}

// WithMetrics records run metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Evaluator) { e.metrics = m }
}

// FromConfig returns the options implied by an engine configuration.
func FromConfig(cfg engine.Config) []Option {
	opts := []Option{WithWorkers(cfg.Workers)}
	if cfg.UnmatchedGroup != "" {
		opts = append(opts, WithGroupPolicy(FixedGroup(cfg.UnmatchedGroup)))
	}
	return opts
}
