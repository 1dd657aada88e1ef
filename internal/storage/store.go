package storage

import (
	"context"

	"zombies/internal/model"
)

// DefaultStoreKind is the backend used when none is configured.
const DefaultStoreKind = "memory"

// Store persists run summaries and their per-tick statistics.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveTickStats(ctx context.Context, runID string, ticks []model.TickStats) error
	GetTickStats(ctx context.Context, runID string) ([]model.TickStats, bool, error)
}
