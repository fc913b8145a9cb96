// Package history provides optional PostgreSQL persistence of pipeline
// run metadata. The tracking service remains the system of record; this
// is a local mirror for querying past runs without network access.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Run is one recorded pipeline run.
type Run struct {
	ID            uuid.UUID
	TrackingRunID uuid.UUID
	JobType       string
	InputArtifact string
	Status        string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// ArtifactRecord is one artifact consumed or produced by a run.
type ArtifactRecord struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	Name      string
	Kind      string
	Direction string
	Rows      int
	CreatedAt time.Time
}

// Artifact directions.
const (
	DirectionInput  = "input"
	DirectionOutput = "output"
)

// CreateRun records the start of a pipeline run and returns its local ID.
func (s *Store) CreateRun(ctx context.Context, trackingRunID uuid.UUID, jobType, inputArtifact string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (tracking_run_id, job_type, input_artifact, status)
		 VALUES ($1, $2, $3, 'running')
		 RETURNING id`,
		trackingRunID, jobType, inputArtifact,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run with its terminal status.
func (s *Store) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// RecordArtifact stores one artifact reference for a run. Re-recording the
// same name for a run overwrites the previous row.
func (s *Store) RecordArtifact(ctx context.Context, runID uuid.UUID, name, kind, direction string, rows int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, name, kind, direction, row_count)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, name) DO UPDATE SET kind = $3, direction = $4, row_count = $5, created_at = NOW()`,
		runID, name, kind, direction, rows,
	)
	if err != nil {
		return fmt.Errorf("failed to record artifact %s: %w", name, err)
	}
	return nil
}

// GetRun retrieves a run by its local ID, or nil if absent.
func (s *Store) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := s.pool.QueryRow(ctx,
		`SELECT id, tracking_run_id, job_type, input_artifact, status, created_at, completed_at
		 FROM pipeline_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.TrackingRunID, &run.JobType, &run.InputArtifact, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, tracking_run_id, job_type, input_artifact, status, created_at, completed_at
		 FROM pipeline_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.TrackingRunID, &run.JobType, &run.InputArtifact, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListArtifacts retrieves artifact records for a run in insertion order.
func (s *Store) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, run_id, name, kind, direction, row_count, created_at
		 FROM run_artifacts WHERE run_id = $1 ORDER BY created_at ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var records []ArtifactRecord
	for rows.Next() {
		var rec ArtifactRecord
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Name, &rec.Kind, &rec.Direction, &rec.Rows, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
