package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type postgresStore struct {
	baseStore
}

// NewPostgres opens the shared report database via the pgx stdlib driver.
func NewPostgres(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "postgres://localhost:5432/ringwatch?sslmode=disable"
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &postgresStore{baseStore{db: db}}, nil
}

func (s *postgresStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			actors INTEGER NOT NULL,
			clusters INTEGER NOT NULL,
			waves INTEGER NOT NULL,
			flagged INTEGER NOT NULL,
			result_json JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *postgresStore) SaveReport(ctx context.Context, report *Report) error {
	payload, err := encodeResult(report.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, actors, clusters, waves, flagged, result_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.ID,
		report.CreatedAt.UTC(),
		report.Actors,
		report.Clusters,
		report.Waves,
		report.Flagged,
		payload,
	)
	return err
}

func (s *postgresStore) GetReport(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, actors, clusters, waves, flagged, result_json
		FROM reports WHERE id = $1`, id)
	var report Report
	var payload string
	err := row.Scan(&report.ID, &report.CreatedAt, &report.Actors, &report.Clusters,
		&report.Waves, &report.Flagged, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := decodeResult(payload, &report.Result); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *postgresStore) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, actors, clusters, waves, flagged
		FROM reports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Actors, &s.Clusters, &s.Waves, &s.Flagged); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
