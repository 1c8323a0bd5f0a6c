// Package repository persists solve runs so past results can be listed and
// fetched again. Backed by GORM with sqlite, mysql or postgres.
package repository

import (
	"context"

	"github.com/michaelcadilhac/oink/pkg/model"
)

// RunRepository stores and retrieves solve runs.
type RunRepository interface {
	// SaveRun persists one finished solve run.
	SaveRun(ctx context.Context, result *model.SolveResult) error

	// GetRunByUUID retrieves a run by its UUID.
	GetRunByUUID(ctx context.Context, uuid string) (*model.SolveResult, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*model.SolveResult, error)
}
