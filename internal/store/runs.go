package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run status values
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// IngestionRun is the bookkeeping record for one acquisition pass
type IngestionRun struct {
	ID              string     `json:"id" db:"id"`
	Source          string     `json:"source" db:"source"`
	Status          string     `json:"status" db:"status"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty" db:"finished_at"`
	RecordsFetched  int        `json:"records_fetched" db:"records_fetched"`
	RecordsIngested int        `json:"records_ingested" db:"records_ingested"`
	RecordsFailed   int        `json:"records_failed" db:"records_failed"`
	Notes           string     `json:"notes,omitempty" db:"notes"`
}

// StartRun records the beginning of an ingestion pass and returns its ID
func (s *Store) StartRun(ctx context.Context, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, source, status, started_at)
		VALUES ($1, $2, $3, $4)`,
		id, source, RunRunning, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("start ingestion run: %w", err)
	}
	s.logger.Info("ingestion run started", zap.String("run_id", id), zap.String("source", source))
	return id, nil
}

// FinishRun closes a run with its final status and counters
func (s *Store) FinishRun(ctx context.Context, id, status string, fetched, ingested, failed int, notes string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ingestion_runs
		SET status = $2, finished_at = $3,
			records_fetched = $4, records_ingested = $5, records_failed = $6,
			notes = $7
		WHERE id = $1`,
		id, status, time.Now().UTC(), fetched, ingested, failed, notes)
	if err != nil {
		return fmt.Errorf("finish ingestion run %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish ingestion run %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListRuns returns the most recent ingestion runs, newest first
func (s *Store) ListRuns(ctx context.Context, limit int) ([]IngestionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []IngestionRun
	err := s.db.SelectContext(ctx, &runs, `
		SELECT id, source, status, started_at, finished_at,
			records_fetched, records_ingested, records_failed, notes
		FROM ingestion_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	return runs, nil
}
