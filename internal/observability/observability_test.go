package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-analysis/internal/config"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// Each call owns its registry, so repeated construction must not panic.
	a := NewMetrics()
	b := NewMetrics()

	a.RowsLoaded.Add(3)
	assert.InDelta(t, 3, testutil.ToFloat64(a.RowsLoaded), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.RowsLoaded), 0)
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsLoaded.Add(10)
	m.RowsCleaned.Add(8)
	m.RowsDropped.Add(2)
	m.ArtifactsWritten.WithLabelValues("chart").Add(4)
	m.LastRunSuccess.Set(1)

	path := filepath.Join(t.TempDir(), "weather.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "weather_analysis_rows_loaded_total 10")
	assert.Contains(t, out, "weather_analysis_rows_dropped_total 2")
	assert.Contains(t, out, `weather_analysis_artifacts_written_total{kind="chart"} 4`)
	assert.Contains(t, out, "weather_analysis_last_run_success 1")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogFormat: "json", LogLevel: slog.LevelInfo})

	logger.Debug("hidden")
	logger.Info("cleaned", "rows", 42)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cleaned", line["msg"])
	assert.InDelta(t, 42, line["rows"], 0)
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Config{LogFormat: "text", LogLevel: slog.LevelDebug})

	logger.Debug("grouped", "months", 12)

	assert.Contains(t, buf.String(), "grouped")
	assert.Contains(t, buf.String(), "months")
}
