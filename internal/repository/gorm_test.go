package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/michaelcadilhac/oink/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func sampleResult(uuid string) *model.SolveResult {
	return &model.SolveResult{
		UUID:     uuid,
		Input:    "games/cycle.pg",
		Format:   model.FormatPGSolver,
		Weights:  model.WeightBig,
		Vertices: 3,
		Edges:    3,
		Duration: 1500 * time.Microsecond,
		Verified: true,
		Results: []model.VertexResult{
			{Vertex: 0, Winner: model.OwnerMin, Strategy: model.NoStrategy},
			{Vertex: 1, Winner: model.OwnerMin, Strategy: 2},
			{Vertex: 2, Winner: model.OwnerMin, Strategy: model.NoStrategy},
		},
		Stats: model.SolveStats{Computes: 2, Reduces: 2, Phase1: 1},
	}
}

func TestGormRunRepositoryRoundTrip(t *testing.T) {
	repo, err := NewGormRunRepository(setupTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, sampleResult("run-1")))

	got, err := repo.GetRunByUUID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, sampleResult("run-1"), got)
}

func TestGormRunRepositoryNotFound(t *testing.T) {
	repo, err := NewGormRunRepository(setupTestDB(t))
	require.NoError(t, err)

	_, err = repo.GetRunByUUID(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGormRunRepositoryListRuns(t *testing.T) {
	repo, err := NewGormRunRepository(setupTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, sampleResult("run-1")))
	require.NoError(t, repo.SaveRun(ctx, sampleResult("run-2")))
	require.NoError(t, repo.SaveRun(ctx, sampleResult("run-3")))

	runs, err := repo.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-3", runs[0].UUID)
	assert.Equal(t, "run-2", runs[1].UUID)

	// Default limit applies for non-positive values.
	runs, err = repo.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestGormRunRepositoryDuplicateUUID(t *testing.T) {
	repo, err := NewGormRunRepository(setupTestDB(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, sampleResult("run-1")))
	assert.Error(t, repo.SaveRun(ctx, sampleResult("run-1")))
}
