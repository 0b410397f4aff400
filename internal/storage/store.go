// Package storage persists analysis reports. Two backends share one
// interface: sqlite for the local-first default, postgres for shared
// deployments. Reports are stored as JSON alongside summary columns.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ringwatch/ringwatch/internal/model"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// Report wraps one analysis result with persistence metadata.
type Report struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"createdAt"`
	Actors    int                  `json:"actors"`
	Clusters  int                  `json:"clusters"`
	Waves     int                  `json:"waves"`
	Flagged   int                  `json:"flagged"`
	Result    model.AnalysisResult `json:"result"`
}

// Summary is the listing view of a stored report.
type Summary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Actors    int       `json:"actors"`
	Clusters  int       `json:"clusters"`
	Waves     int       `json:"waves"`
	Flagged   int       `json:"flagged"`
}

// Store is the report persistence interface.
type Store interface {
	Init(ctx context.Context) error
	SaveReport(ctx context.Context, report *Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	ListReports(ctx context.Context, limit int) ([]Summary, error)
	Close() error
}

// NewReport assembles a Report from an analysis result, generating its id
// and summary counters.
func NewReport(result model.AnalysisResult) *Report {
	flagged := 0
	for i := range result.Scorecards {
		if result.Scorecards[i].Flagged {
			flagged++
		}
	}
	return &Report{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Actors:    len(result.Scorecards),
		Clusters:  len(result.Clusters),
		Waves:     len(result.Waves),
		Flagged:   flagged,
		Result:    result,
	}
}

// Open selects a backend by name: "sqlite" (default) or "postgres".
func Open(backend, dsn string) (Store, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(dsn)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

type baseStore struct {
	db *sql.DB
}

func (s *baseStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func encodeResult(result model.AnalysisResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}

func decodeResult(data string, result *model.AnalysisResult) error {
	if err := json.Unmarshal([]byte(data), result); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
