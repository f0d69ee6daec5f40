// Package sqlite exports a finished analysis into a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

const driverName = "sqlite"

// schema is applied on every export; tables are dropped first so a database
// never carries rows from an earlier run.
var schema = []string{
	`DROP TABLE IF EXISTS observations`,
	`DROP TABLE IF EXISTS daily_stats`,
	`DROP TABLE IF EXISTS monthly_stats`,
	`DROP TABLE IF EXISTS yearly_stats`,
	`DROP TABLE IF EXISTS monthly_rain`,
	`CREATE TABLE observations (
		id             INTEGER PRIMARY KEY,
		formatted_date TEXT    NOT NULL,
		temp           REAL    NOT NULL,
		humidity       REAL    NOT NULL,
		summary        TEXT    NOT NULL,
		date           TEXT    NOT NULL,
		month          INTEGER NOT NULL,
		year           INTEGER NOT NULL,
		rain           INTEGER NOT NULL
	)`,
	`CREATE TABLE daily_stats (
		date  TEXT PRIMARY KEY,
		count INTEGER NOT NULL,
		mean  REAL NOT NULL,
		min   REAL NOT NULL,
		max   REAL NOT NULL,
		std   REAL
	)`,
	`CREATE TABLE monthly_stats (
		month INTEGER PRIMARY KEY,
		count INTEGER NOT NULL,
		mean  REAL NOT NULL,
		min   REAL NOT NULL,
		max   REAL NOT NULL,
		std   REAL
	)`,
	`CREATE TABLE yearly_stats (
		year  INTEGER PRIMARY KEY,
		count INTEGER NOT NULL,
		mean  REAL NOT NULL,
		min   REAL NOT NULL,
		max   REAL NOT NULL,
		std   REAL
	)`,
	`CREATE TABLE monthly_rain (
		month     INTEGER PRIMARY KEY,
		rain_days INTEGER NOT NULL
	)`,
}

// Exporter writes the cleaned table and every aggregate into SQLite.
// It implements pipeline.Sink.
type Exporter struct {
	path string
}

// NewExporter creates an Exporter for the database file at path.
func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

// Kind returns the artifact label used in metrics and logs.
func (e *Exporter) Kind() string { return "sqlite" }

// Write recreates all tables and fills them inside one transaction.
func (e *Exporter) Write(ctx context.Context, a *domain.Analysis) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(e.path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := Open(e.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := Export(ctx, db, a); err != nil {
		return nil, err
	}
	if err := db.Close(); err != nil {
		return nil, fmt.Errorf("close sqlite: %w", err)
	}
	return []string{e.path}, nil
}

// Open opens a file-backed database and checks that it is reachable.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// Export replaces the analysis tables in db.
func Export(ctx context.Context, db *sql.DB, a *domain.Analysis) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err = insertObservations(ctx, tx, a.Observations); err != nil {
		return err
	}

	agg := a.Aggregates
	daily := make([][]any, 0, len(agg.Daily))
	for _, d := range agg.Daily {
		daily = append(daily, statRow(d.Date.Format(domain.DateLayout), d.TempStats))
	}
	monthly := make([][]any, 0, len(agg.Monthly))
	for _, m := range agg.Monthly {
		monthly = append(monthly, statRow(m.Month, m.TempStats))
	}
	yearly := make([][]any, 0, len(agg.Yearly))
	for _, y := range agg.Yearly {
		yearly = append(yearly, statRow(y.Year, y.TempStats))
	}
	rain := make([][]any, 0, len(agg.MonthlyRain))
	for _, r := range agg.MonthlyRain {
		rain = append(rain, []any{r.Month, r.RainDays})
	}

	inserts := []struct {
		query string
		rows  [][]any
	}{
		{`INSERT INTO daily_stats(date, count, mean, min, max, std) VALUES(?,?,?,?,?,?)`, daily},
		{`INSERT INTO monthly_stats(month, count, mean, min, max, std) VALUES(?,?,?,?,?,?)`, monthly},
		{`INSERT INTO yearly_stats(year, count, mean, min, max, std) VALUES(?,?,?,?,?,?)`, yearly},
		{`INSERT INTO monthly_rain(month, rain_days) VALUES(?,?)`, rain},
	}
	for _, ins := range inserts {
		if err = insertRows(ctx, tx, ins.query, ins.rows); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}

func insertObservations(ctx context.Context, tx *sql.Tx, obs []domain.Observation) error {
	rows := make([][]any, len(obs))
	for i, o := range obs {
		rows[i] = []any{
			o.FormattedDate.UTC().Format(domain.InstantLayout),
			o.Temp,
			o.Humidity,
			o.Summary,
			o.Date.Format(domain.DateLayout),
			o.Month,
			o.Year,
			o.Rain,
		}
	}
	return insertRows(ctx, tx,
		`INSERT INTO observations(formatted_date, temp, humidity, summary, date, month, year, rain) VALUES(?,?,?,?,?,?,?,?)`,
		rows)
}

func insertRows(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}
	return nil
}

func statRow(key any, s domain.TempStats) []any {
	var std sql.NullFloat64
	if s.StdDev != nil {
		std = sql.NullFloat64{Float64: *s.StdDev, Valid: true}
	}
	return []any{key, s.Count, s.Mean, s.Min, s.Max, std}
}
