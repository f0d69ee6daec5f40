package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/weather-analysis/internal/adapter/chart"
	"github.com/couchcryptid/weather-analysis/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-analysis/internal/adapter/report"
	"github.com/couchcryptid/weather-analysis/internal/adapter/sqlite"
	"github.com/couchcryptid/weather-analysis/internal/config"
	"github.com/couchcryptid/weather-analysis/internal/observability"
	"github.com/couchcryptid/weather-analysis/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	sinks := []pipeline.Sink{
		csvfile.NewWriter(cfg.CleanedDataPath),
		chart.NewRenderer(cfg.PlotsDir),
		report.NewTextWriter(cfg.ReportPath),
	}
	if cfg.SummaryYAMLPath != "" {
		sinks = append(sinks, report.NewYAMLWriter(cfg.SummaryYAMLPath))
	}
	if cfg.SQLiteExportPath != "" {
		sinks = append(sinks, sqlite.NewExporter(cfg.SQLiteExportPath))
	}

	p := pipeline.New(
		csvfile.NewReader(cfg.InputPath),
		pipeline.NewTransformer(logger),
		sinks,
		logger,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("analysis failed", "error", runErr)
	}

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		stop()
		os.Exit(1)
	}
	logger.Info("all outputs written", "plots_dir", cfg.PlotsDir, "report", cfg.ReportPath)
}
