package observability

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"

	"github.com/couchcryptid/weather-analysis/internal/config"
)

// NewLogger builds the process logger. Text output is colorized for a
// terminal; JSON output suits log collectors. Every line carries the run id.
func NewLogger(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stderr, cfg).With("run_id", uuid.NewString())
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.Kitchen,
	}))
}
