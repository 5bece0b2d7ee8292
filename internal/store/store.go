// Package store persists runs and per-stage checkpoints so an interrupted
// discovery run can resume where it left off.
package store

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the discovery pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	DeleteRun(ctx context.Context, runID string) error

	// Checkpoints
	SaveCheckpoint(ctx context.Context, runID, stage string, payload model.CheckpointPayload) (*model.Checkpoint, error)
	LatestCheckpoint(ctx context.Context, runID string) (*model.Checkpoint, error)
	ListCheckpoints(ctx context.Context, runID string) ([]model.Checkpoint, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a migrated Store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "postgres":
		s, err = NewPostgres(ctx, dsn, nil)
	default:
		s, err = NewSQLite(dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
