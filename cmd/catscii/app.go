package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/izalutski/catscii/internal/catapi"
	"github.com/izalutski/catscii/internal/config"
	"github.com/izalutski/catscii/internal/pipeline"
	"github.com/izalutski/catscii/internal/telemetry"
	"github.com/spf13/cobra"
)

// app bundles what every subcommand needs.
type app struct {
	cfg           *config.Config
	logger        *slog.Logger
	pipeline      *pipeline.Pipeline
	shutdownTrace func(context.Context) error
}

// setup loads configuration, applies flag overrides and wires the pipeline.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// Flags the command does not define report unchanged.
	if cmd.Flags().Changed("width") {
		cfg.ArtWidth = artWidth
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("debug-endpoints") {
		cfg.DebugEndpoints, _ = cmd.Flags().GetBool("debug-endpoints")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := telemetry.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := telemetry.NewLogger(os.Stderr, level, cfg.LogFormat)
	slog.SetDefault(logger)

	shutdownTrace, err := telemetry.InitTracing(cmd.Context(), cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	client := catapi.NewClient(cfg.ClientOptions()...)

	return &app{
		cfg:           cfg,
		logger:        logger,
		pipeline:      pipeline.New(client, client, cfg.RenderOptions(), logger),
		shutdownTrace: shutdownTrace,
	}, nil
}

// close flushes pending spans.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdownTrace(ctx); err != nil {
		a.logger.Warn("flush traces", "error", err)
	}
}
