package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ringwatch/ringwatch/internal/api"
	"github.com/ringwatch/ringwatch/internal/config"
	"github.com/ringwatch/ringwatch/internal/engine"
	"github.com/ringwatch/ringwatch/internal/ingest"
	"github.com/ringwatch/ringwatch/internal/logging"
	"github.com/ringwatch/ringwatch/internal/model"
	"github.com/ringwatch/ringwatch/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		inputPath  = flag.String("input", "", "event log file to analyze (csv, json or ndjson)")
		outputPath = flag.String("output", "", "write the analysis result JSON here instead of stdout")
		serve      = flag.Bool("serve", false, "run the HTTP API instead of a one-shot analysis")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			bootLogger := logging.NewLogger("info", "json", "ringwatch")
			bootLogger.Fatal().Err(err).Msg("failed to load configuration")
		}
		cfg = loaded
	}

	logger := logging.NewLogger(cfg.General.LogLevel, cfg.General.LogFormat, "ringwatch")
	logger.Info().
		Str("instance_id", cfg.General.InstanceID).
		Bool("serve", *serve).
		Msg("ringwatch starting")

	if *serve {
		runServer(cfg, logger)
		return
	}
	runBatch(cfg, logger, *inputPath, *outputPath)
}

// runBatch analyzes one input file and emits the result JSON.
func runBatch(cfg *config.Config, logger zerolog.Logger, inputPath, outputPath string) {
	if inputPath == "" {
		logger.Fatal().Msg("batch mode requires -input (or use -serve)")
	}

	events, err := readEvents(inputPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("input", inputPath).Msg("failed to read events")
	}
	logger.Info().Int("events", len(events)).Msg("events loaded")

	started := time.Now()
	result := engine.Analyze(events, cfg.Analysis, func(stage model.Stage, pct int) {
		logger.Debug().Str("stage", string(stage)).Int("percent", pct).Msg("analysis progress")
	})
	logger.Info().
		Dur("elapsed", time.Since(started)).
		Int("clusters", len(result.Clusters)).
		Int("waves", len(result.Waves)).
		Int("scorecards", len(result.Scorecards)).
		Msg("analysis complete")

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			logger.Fatal().Err(err).Str("output", outputPath).Msg("failed to create output file")
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Fatal().Err(err).Msg("failed to write result")
	}
}

func readEvents(path string, logger zerolog.Logger) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.ReadCSV(f, logger)
	default:
		return ingest.ReadJSON(f)
	}
}

// runServer wires storage, optional kafka ingest and the HTTP API together
// and blocks until SIGINT/SIGTERM.
func runServer(cfg *config.Config, logger zerolog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.Open(cfg.Storage.Backend, cfg.Storage.DSN)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open storage")
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	buffer := ingest.NewBuffer(cfg.Ingest.BufferSize)
	ingest.StartKafka(ctx, cfg.Ingest.Kafka, buffer, logger)

	hub := api.NewHub(logger)
	go hub.Run()

	server := api.NewServer(store, buffer, hub, logger)
	httpServer := &http.Server{
		Addr:    cfg.API.Listen,
		Handler: server.Router(cfg.API.AllowedOrigins),
	}

	go func() {
		logger.Info().Str("listen", cfg.API.Listen).Msg("HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Warn().Str("signal", sig.String()).Msg("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP shutdown error")
	}
	logger.Info().Msg("ringwatch shutdown complete")
}
