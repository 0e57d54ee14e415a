package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/standings-sync/internal/app"
	"github.com/riskibarqy/standings-sync/internal/config"
	"github.com/riskibarqy/standings-sync/internal/observability"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	dryRun := flag.Bool("dry-run", false, "fetch and normalize into memory without touching the database")
	leagueID := flag.Int64("league", 0, "sync only this competition id")
	season := flag.Int("season", 0, "override STANDINGS_SEASON")
	jsonOut := flag.Bool("json", false, "print the run summary as JSON on stdout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTelemetry, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 2
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := app.NewRunner(ctx, cfg, logger, app.RunOptions{
		DryRun:   *dryRun,
		LeagueID: *leagueID,
		Season:   *season,
	})
	if err != nil {
		logger.Error("build runner", "error", err)
		return 2
	}
	defer func() {
		if err := runner.Close(); err != nil {
			logger.Warn("close runner", "error", err)
		}
	}()

	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error("standings sync aborted", "error", err)
		return 2
	}

	if *jsonOut {
		out, err := sonic.ConfigStd.MarshalIndent(summary, "", "  ")
		if err != nil {
			logger.Error("encode summary", "error", err)
			return 2
		}
		fmt.Println(string(out))
	}

	if summary.HasFailures() {
		return 1
	}
	return 0
}
