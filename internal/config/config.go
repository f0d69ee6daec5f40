package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds all run settings, populated from environment variables.
// Defaults reproduce the fixed paths of a plain invocation.
type Config struct {
	InputPath       string
	PlotsDir        string
	CleanedDataPath string
	ReportPath      string

	// Optional outputs, disabled when empty.
	SummaryYAMLPath  string
	SQLiteExportPath string
	MetricsTextfile  string

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(envOrDefault("LOG_FORMAT", "text"))
	switch format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: text, json)", format)
	}

	cfg := &Config{
		InputPath:        envOrDefault("INPUT_PATH", "data/weatherIndia.csv"),
		PlotsDir:         envOrDefault("PLOTS_DIR", "plots"),
		CleanedDataPath:  envOrDefault("CLEANED_DATA_PATH", "cleaned_data.csv"),
		ReportPath:       envOrDefault("REPORT_PATH", "summary_report.txt"),
		SummaryYAMLPath:  strings.TrimSpace(os.Getenv("SUMMARY_YAML_PATH")),
		SQLiteExportPath: strings.TrimSpace(os.Getenv("SQLITE_EXPORT_PATH")),
		MetricsTextfile:  strings.TrimSpace(os.Getenv("METRICS_TEXTFILE")),
		LogLevel:         level,
		LogFormat:        format,
	}

	if cfg.MetricsTextfile != "" && !strings.HasSuffix(cfg.MetricsTextfile, ".prom") {
		return nil, fmt.Errorf("METRICS_TEXTFILE %q must end in .prom", cfg.MetricsTextfile)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
