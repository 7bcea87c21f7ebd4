package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/regexprobe/evaluator"
	"github.com/kbukum/regexprobe/logger"
	"github.com/kbukum/regexprobe/observability"
	"github.com/kbukum/regexprobe/server"
	"github.com/kbukum/regexprobe/version"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the probe over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	c.Flags().String(flagHost, "", "Listen host (overrides server.host)")
	c.Flags().IntP(flagPort, "p", 0, "Listen port (overrides server.port)")
	return c
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	log := logger.Init(cfg.Logging, cfg.Name)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
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

	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return err
	}
	probe, err := server.NewProbeHandler(cfg.Engine, cfg.Server.Evaluations, log, evaluator.WithMetrics(metrics))
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, probe.Names)
	probe.Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("probe service ready", logger.Fields(
		"addr", srv.Addr(),
		logger.FieldEngine, cfg.Engine.Name,
		"version", version.Short(),
	))

	<-ctx.Done()
	return srv.Stop(context.WithoutCancel(ctx))
}
