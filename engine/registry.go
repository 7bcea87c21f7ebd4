package engine

import (
	"sort"
	"sync"

	"github.com/kbukum/regexprobe/errors"
)

// Factory builds an Engine from backend settings.
type Factory func(cfg Config) Engine

var (
	registryMu sync.RWMutex
	factories  = map[string]Factory{
		NameGo:  func(Config) Engine { return NewStdlib() },
		NameRE2: func(Config) Engine { return NewRE2() },
		NameRegexp2: func(cfg Config) Engine {
			return NewRegexp2(Regexp2Options{
				MatchTimeout: cfg.MatchTimeout,
				ECMAScript:   cfg.ECMAScript,
				RE2:          cfg.RE2Syntax,
			})
		},
	}
)

// Register adds or replaces a backend factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Names returns the registered backend names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the backend named by cfg.Name. Unknown names return an
// UNSUPPORTED_ENGINE AppError.
func New(cfg Config) (Engine, error) {
	cfg.ApplyDefaults()
	registryMu.RLock()
	f, ok := factories[cfg.Name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.UnsupportedEngine(cfg.Name, Names())
	}
	return f(cfg), nil
}

// Lookup builds a backend by name with default settings.
func Lookup(name string) (Engine, error) {
	return New(Config{Name: name})
}
