package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/regexprobe/config"
	"github.com/kbukum/regexprobe/engine"
	"github.com/kbukum/regexprobe/logger"
)

const (
	flagConfig       = "config"
	flagEnvFile      = "env-file"
	flagLogLevel     = "log-level"
	flagEngine       = "engine"
	flagWorkers      = "workers"
	flagMatchTimeout = "match-timeout"
	flagECMAScript   = "ecmascript"
	flagUnmatched    = "unmatched-group"
	flagPretty       = "pretty"
	flagHost         = "host"
	flagPort         = "port"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "regexprobe [query.json]",
		Short: "Report how a regex engine matches a pattern against inputs",
		Long: `regexprobe compiles the pattern of a query document once and searches every
input for its leftmost match, printing one JSON result document.

With a single argument it behaves like "regexprobe query <file>".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runQuery(cmd, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "Config file (default: search regexprobe.yml, config.yml)")
	pf.String(flagEnvFile, "", "Dotenv file loaded before the environment (default: .env)")
	pf.String(flagLogLevel, "", "Log level: debug, info, warn, error, disabled")
	pf.StringP(flagEngine, "e", "", "Regex engine: "+joinNames())
	pf.IntP(flagWorkers, "w", 0, "Inputs matched concurrently")
	pf.Duration(flagMatchTimeout, 0, "Per-input match deadline for backtracking engines")
	pf.Bool(flagECMAScript, false, "ECMAScript syntax and semantics (regexp2 only)")
	pf.String(flagUnmatched, "", `Text reported for groups that did not participate (default "")`)

	root.Flags().Bool(flagPretty, false, "Indent the result document")

	root.AddCommand(
		newQueryCmd(),
		newEnginesCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func joinNames() string {
	return strings.Join(engine.Names(), ", ")
}

// flagKeys maps config keys to the flags that override them. Flags a
// command does not define are skipped.
var flagKeys = map[string]string{
	"logging.level":          flagLogLevel,
	"engine.name":            flagEngine,
	"engine.workers":         flagWorkers,
	"engine.match_timeout":   flagMatchTimeout,
	"engine.ecmascript":      flagECMAScript,
	"engine.unmatched_group": flagUnmatched,
	"server.host":            flagHost,
	"server.port":            flagPort,
}

// loadConfig reads configuration with the command's flags bound on top.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	opts := []config.LoaderOption{config.WithFlags(flags, flagKeys)}
	if path, _ := flags.GetString(flagConfig); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if path, _ := flags.GetString(flagEnvFile); path != "" {
		opts = append(opts, config.WithEnvFile(path))
	}
	return config.Load(opts...)
}

// cliLogger builds the process logger. The CLI always logs to the command's
// stderr so stdout carries nothing but the result document.
func cliLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, cmd.ErrOrStderr())
	logger.SetGlobalLogger(log)
	return log
}
