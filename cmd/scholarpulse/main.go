package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholarpulse/scholarpulse/internal/core/llm"
	"github.com/scholarpulse/scholarpulse/internal/platform/config"
	"github.com/scholarpulse/scholarpulse/internal/platform/observability"
	"github.com/scholarpulse/scholarpulse/internal/research"
)

func main() {
	query := flag.String("query", "", "Research query (required)")
	year := flag.Int("year", 0, "Restrict papers to a submission year (0 = all time)")
	maxPapers := flag.Int("max-papers", 0, "Override the maximum number of papers to fetch")
	outDir := flag.String("out", "", "Override the output directory")
	quiet := flag.Bool("quiet", false, "Suppress progress output")

	flag.Parse()

	if *query == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *maxPapers > 0 {
		cfg.ArxivMaxResults = *maxPapers
	}

	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := llm.New(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generation client")
	}

	go func() {
		if err := observability.NewServer(cfg.HealthPort, &logger).Start(ctx); err != nil {
			logger.Error().Err(err).Msg("health server error")
		}
	}()

	notify := research.Notify(nil)
	if !*quiet {
		notify = func(message string) {
			fmt.Println("[ScholarPulse] " + message)
		}
	}

	runner := research.NewRunner(client, cfg, &logger)

	session, err := runner.Run(ctx, *query, *year, notify)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("run cancelled")
			return
		}

		logger.Fatal().Err(err).Msg("pipeline failed")
	}

	logger.Info().
		Str("session", session.ID).
		Str("report", session.ReportPath).
		Int("papers", len(session.Papers)).
		Msg("run finished")
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
