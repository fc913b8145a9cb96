package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/rental-pipeline/internal/config"
	"github.com/jonathan/rental-pipeline/internal/history"
	"github.com/jonathan/rental-pipeline/internal/tracking"
)

// Run-history writes are best-effort: failures warn and the pipeline
// continues, matching the optional nature of the local mirror.

func recordRunStart(ctx context.Context, store *history.Store, run *tracking.Run, cfg config.Config) uuid.UUID {
	if store == nil {
		return uuid.Nil
	}
	id, err := store.CreateRun(ctx, run.ID, run.JobType, cfg.InputArtifact)
	if err != nil {
		fmt.Printf("Warning: failed to record run start: %v\n", err)
		return uuid.Nil
	}
	return id
}

func recordRunEnd(ctx context.Context, store *history.Store, runID uuid.UUID, runErr error) {
	if store == nil || runID == uuid.Nil {
		return
	}
	status := "completed"
	if runErr != nil {
		status = "failed"
	}
	if err := store.CompleteRun(context.WithoutCancel(ctx), runID, status); err != nil {
		fmt.Printf("Warning: failed to record run completion: %v\n", err)
	}
}

func recordArtifact(ctx context.Context, store *history.Store, runID uuid.UUID, name, kind, direction string, rows int) {
	if store == nil || runID == uuid.Nil {
		return
	}
	if err := store.RecordArtifact(ctx, runID, name, kind, direction, rows); err != nil {
		fmt.Printf("Warning: failed to record artifact %s: %v\n", name, err)
	}
}
