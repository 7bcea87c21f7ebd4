// Package config loads regexprobe configuration.
//
// Values come from a YAML file, an optional .env file and REGEXPROBE_*
// environment variables, in increasing order of precedence:
//
//	cfg, err := config.Load(config.WithConfigFile("regexprobe.yml"))
//
// Load applies defaults and validates every section before returning.
package config
