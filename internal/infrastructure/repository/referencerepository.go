package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"campusdesk/internal/infrastructure/persistence/models"
	db "campusdesk/internal/shared/db"
)

type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	return r.activeExists(ctx, &models.CategoryModel{}, id)
}

func (r *ReferenceRepository) LocationExists(ctx context.Context, id uint) (bool, error) {
	return r.activeExists(ctx, &models.LocationModel{}, id)
}

func (r *ReferenceRepository) activeExists(ctx context.Context, model any, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(model).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check reference data: %w", err)
	}
	return count > 0, nil
}
