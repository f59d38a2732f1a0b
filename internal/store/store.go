// Package store persists extraction runs. Two drivers implement the same
// interface: an embedded SQLite database for single-user use and Postgres
// for shared deployments.
package store

import (
	"context"

	"github.com/aomi-research/edinet-cli/internal/model"
)

// RunFilter specifies criteria for listing extraction runs.
type RunFilter struct {
	Status  model.RunStatus `json:"status,omitempty"`
	Company string          `json:"company,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for extraction runs.
type Store interface {
	SaveRun(ctx context.Context, run *model.ExtractionRun) error
	GetRun(ctx context.Context, runID string) (*model.ExtractionRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.ExtractionRun, error)

	Migrate(ctx context.Context) error
	Close() error
}
