package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	baseStore
}

// NewSQLite opens (or creates) the local report database.
func NewSQLite(dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:ringwatch.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &sqliteStore{baseStore{db: db}}, nil
}

func (s *sqliteStore) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			actors INTEGER NOT NULL,
			clusters INTEGER NOT NULL,
			waves INTEGER NOT NULL,
			flagged INTEGER NOT NULL,
			result_json TEXT NOT NULL
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

func (s *sqliteStore) SaveReport(ctx context.Context, report *Report) error {
	payload, err := encodeResult(report.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, actors, clusters, waves, flagged, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.CreatedAt.UTC().Format(time.RFC3339Nano),
		report.Actors,
		report.Clusters,
		report.Waves,
		report.Flagged,
		payload,
	)
	return err
}

func (s *sqliteStore) GetReport(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, actors, clusters, waves, flagged, result_json
		FROM reports WHERE id = ?`, id)
	var report Report
	var created, payload string
	err := row.Scan(&report.ID, &created, &report.Actors, &report.Clusters,
		&report.Waves, &report.Flagged, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
		report.CreatedAt = t
	}
	if err := decodeResult(payload, &report.Result); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *sqliteStore) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, actors, clusters, waves, flagged
		FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var s Summary
		var created string
		if err := rows.Scan(&s.ID, &created, &s.Actors, &s.Clusters, &s.Waves, &s.Flagged); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			s.CreatedAt = t
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
