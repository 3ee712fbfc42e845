package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/MohamedIjlal27/fleet-pro-sub003/internal/model"
)

type ImportRunRepository interface {
	Create(ctx context.Context, run *model.ImportRun) error
	List(ctx context.Context, limit int) ([]model.ImportRun, error)
}

type importRunRepo struct{ db *gorm.DB }

func NewImportRunRepository(db *gorm.DB) ImportRunRepository {
	return &importRunRepo{db: db}
}

func (r *importRunRepo) Create(ctx context.Context, run *model.ImportRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *importRunRepo) List(ctx context.Context, limit int) ([]model.ImportRun, error) {
	var runs []model.ImportRun
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
