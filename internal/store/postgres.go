// Package store persists completed analyses. The archive is optional and
// best-effort: the orchestrator logs write failures and moves on.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

// ErrNotFound is returned when no archived report exists for a key.
var ErrNotFound = errors.New("no archived report for key")

// PostgresArchive keeps one row per report key, overwritten on refresh.
type PostgresArchive struct {
	pool *pgxpool.Pool
}

// NewPostgresArchive connects and ensures the backing table exists.
func NewPostgresArchive(ctx context.Context, databaseURL string) (*PostgresArchive, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect archive: %w", err)
	}

	const ddl = `
		CREATE TABLE IF NOT EXISTS climate_reports (
			report_key   TEXT PRIMARY KEY,
			latitude     DOUBLE PRECISION NOT NULL,
			longitude    DOUBLE PRECISION NOT NULL,
			land_id      TEXT NOT NULL DEFAULT '',
			generated_at TIMESTAMPTZ NOT NULL,
			report       JSONB NOT NULL
		)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure climate_reports: %w", err)
	}

	return &PostgresArchive{pool: pool}, nil
}

// Close releases the underlying pool.
func (a *PostgresArchive) Close() {
	a.pool.Close()
}

// Save upserts the report under its cache key. Last writer wins.
func (a *PostgresArchive) Save(ctx context.Context, report *climate.ComprehensiveAnalysis) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%w: encode report: %v", climate.ErrPersistence, err)
	}

	key := reportKey(report)
	const q = `
		INSERT INTO climate_reports (report_key, latitude, longitude, land_id, generated_at, report)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (report_key) DO UPDATE
		SET generated_at = EXCLUDED.generated_at, report = EXCLUDED.report`
	_, err = a.pool.Exec(ctx, q, key,
		report.Location.Latitude, report.Location.Longitude,
		report.LandID, report.GeneratedAt, payload)
	if err != nil {
		return fmt.Errorf("%w: write report %s: %v", climate.ErrPersistence, key, err)
	}
	return nil
}

// Latest returns the archived report for key, or ErrNotFound.
func (a *PostgresArchive) Latest(ctx context.Context, key string) (*climate.ComprehensiveAnalysis, error) {
	const q = `SELECT report FROM climate_reports WHERE report_key = $1`

	var payload []byte
	if err := a.pool.QueryRow(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read report %s: %v", climate.ErrPersistence, key, err)
	}

	var report climate.ComprehensiveAnalysis
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("%w: decode report %s: %v", climate.ErrPersistence, key, err)
	}
	return &report, nil
}

// reportKey mirrors the orchestrator's cache key so archive rows and cache
// entries address the same report.
func reportKey(report *climate.ComprehensiveAnalysis) string {
	if report.LandID == "" {
		return "report:" + report.Location.Key()
	}
	return "report:" + report.Location.Key() + ":" + report.LandID
}
