package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kbukum/regexprobe/assembler"
	"github.com/kbukum/regexprobe/engine"
	apperrors "github.com/kbukum/regexprobe/errors"
	"github.com/kbukum/regexprobe/evaluator"
	"github.com/kbukum/regexprobe/logger"
	"github.com/kbukum/regexprobe/observability"
	"github.com/kbukum/regexprobe/query"
	"github.com/kbukum/regexprobe/version"
)

func newQueryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "query <file|->",
		Short: "Evaluate one query document and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0])
		},
	}
	c.Flags().Bool(flagPretty, false, "Indent the result document")
	return c
}

func runQuery(cmd *cobra.Command, path string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	log := cliLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	shutdown, err := observability.Setup(ctx, cfg.Observability, cfg.Name, version.Short(), cfg.Environment)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	data, err := readDocument(cmd, path)
	if err != nil {
		return err
	}
	q, err := query.Parse(data)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg.Engine)
	if err != nil {
		return err
	}
	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return apperrors.Internal(err)
	}

	opts := append(evaluator.FromConfig(cfg.Engine), evaluator.WithLogger(log), evaluator.WithMetrics(metrics))
	ev := evaluator.New(eng, opts...)
	res, err := ev.Evaluate(ctx, q)
	if err != nil {
		return err
	}

	pretty, _ := cmd.Flags().GetBool(flagPretty)
	if err := assembler.Encode(cmd.OutOrStdout(), res, assembler.Options{Indent: pretty}); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// readDocument reads the query document from path, or stdin for "-".
func readDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, apperrors.InvalidInput("query", "failed to read stdin").WithCause(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.InvalidInput("query", "failed to read "+path).WithCause(err)
	}
	return data, nil
}
