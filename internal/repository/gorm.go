package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	oerrors "github.com/michaelcadilhac/oink/pkg/errors"
	"github.com/michaelcadilhac/oink/pkg/model"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository and migrates the
// schema.
func NewGormRunRepository(db *gorm.DB) (*GormRunRepository, error) {
	if err := db.AutoMigrate(&SolveRun{}); err != nil {
		return nil, oerrors.Wrap(oerrors.CodeDatabaseError, "failed to migrate schema", err)
	}
	return &GormRunRepository{db: db}, nil
}

// SaveRun persists one finished solve run.
func (r *GormRunRepository) SaveRun(ctx context.Context, result *model.SolveResult) error {
	row, err := FromModel(result)
	if err != nil {
		return oerrors.Wrap(oerrors.CodeDatabaseError, "failed to encode run", err)
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return oerrors.Wrap(oerrors.CodeDatabaseError, "failed to save run", err)
	}
	return nil
}

// GetRunByUUID retrieves a run by its UUID.
func (r *GormRunRepository) GetRunByUUID(ctx context.Context, uuid string) (*model.SolveResult, error) {
	var row SolveRun
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, oerrors.Newf(oerrors.CodeNotFound, "run not found: %s", uuid)
		}
		return nil, oerrors.Wrap(oerrors.CodeDatabaseError, "failed to get run", err)
	}
	return row.ToModel(), nil
}

// ListRuns returns the most recent runs, newest first.
func (r *GormRunRepository) ListRuns(ctx context.Context, limit int) ([]*model.SolveResult, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []SolveRun
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, oerrors.Wrap(oerrors.CodeDatabaseError, "failed to list runs", err)
	}
	results := make([]*model.SolveResult, len(rows))
	for i := range rows {
		results[i] = rows[i].ToModel()
	}
	return results, nil
}
