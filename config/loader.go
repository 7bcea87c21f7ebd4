package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kbukum/regexprobe/logger"
)

// FileSystem abstracts the file operations the loader needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when given, otherwise the first
// candidate that exists.
func (cr *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(envCandidates(serviceName))
	}
	return resolved
}

func (cr *Resolver) first(paths []string) string {
	for _, p := range paths {
		if cr.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

func configCandidates(serviceName string) []string {
	return []string{
		serviceName + ".yml",
		serviceName + ".yaml",
		filepath.Join("config", serviceName+".yml"),
		filepath.Join("cmd", serviceName, "config.yml"),
		filepath.Join("config", "config.yml"),
		"config.yml",
	}
}

func envCandidates(serviceName string) []string {
	return []string{
		".env." + serviceName,
		filepath.Join("cmd", serviceName, ".env"),
		".env",
	}
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Defaults to the upper-cased service name
	Flags      *pflag.FlagSet
	FlagKeys   map[string]string // config key -> flag name
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithFlags binds command-line flags to config keys. keys maps a config key
// such as "engine.name" to a flag name; flags missing from the set are
// skipped. A flag the user set wins over every other source.
func WithFlags(flags *pflag.FlagSet, keys map[string]string) LoaderOption {
	return func(lc *LoaderConfig) {
		lc.Flags = flags
		lc.FlagKeys = keys
	}
}

// LoadConfig loads configuration for a service into cfg. Sources, lowest
// precedence first: the YAML config file, the .env file, the process
// environment, then flags bound with WithFlags. Only variables carrying the
// prefix are considered, so REGEXPROBE_ENGINE_NAME=re2 sets engine.name.
//
// An explicit config file that cannot be read is an error. A discovered one
// that fails to parse is logged and skipped.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: envPrefix(serviceName)}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)
	explicit := lc.ConfigFile != ""

	v := viper.New()

	if files.ConfigFile != "" {
		if !lc.FileSystem.Exists(files.ConfigFile) {
			if explicit {
				return fmt.Errorf("config file %s not found", files.ConfigFile)
			}
		} else {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				if explicit {
					return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
				}
				logger.Warn("ignoring unreadable config file", logger.Fields(
					"path", files.ConfigFile,
					logger.FieldError, err.Error(),
				))
			}
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("ignoring unreadable env file", logger.Fields(
				"path", files.EnvFile,
				logger.FieldError, err.Error(),
			))
		}
	}

	bindPrefixedEnv(v, lc.EnvPrefix, os.Environ())
	if err := bindFlags(v, lc.Flags, lc.FlagKeys); err != nil {
		return err
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
}

// bindPrefixedEnv binds every PREFIX_* variable to each nested key it could
// stand for.
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	want := prefix + "_"
	for _, env := range environ {
		key, _, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, want) || len(key) == len(want) {
			continue
		}
		for _, variant := range generateEnvKeyVariants(key[len(want):]) {
			_ = v.BindEnv(variant, key)
		}
	}
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	if flags == nil {
		return nil
	}
	for key, name := range keys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// generateEnvKeyVariants returns the keys an env var name may map to.
// Examples:
//
//	ENGINE_MATCH_TIMEOUT -> [engine_match_timeout, engine.match.timeout, engine.match_timeout, engine_match.timeout]
//	LOGGING_LEVEL        -> [logging_level, logging.level]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}
	for i := 1; i < len(parts)-1; i++ {
		prefix := strings.Join(parts[:i+1], "_")
		suffix := strings.Join(parts[i+1:], ".")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
