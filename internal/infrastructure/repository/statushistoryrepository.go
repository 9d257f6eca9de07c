package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"campusdesk/internal/domain/issue"
	"campusdesk/internal/infrastructure/persistence/mappers"
	"campusdesk/internal/infrastructure/persistence/models"
	db "campusdesk/internal/shared/db"
)

type StatusHistoryRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{
		db:     db,
		mapper: mappers.NewIssueMapper(),
	}
}

func (r *StatusHistoryRepository) Append(ctx context.Context, h *issue.StatusHistory) error {
	model := r.mapper.HistoryToModel(h)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return h.SetID(model.ID)
}

func (r *StatusHistoryRepository) ListByIssue(ctx context.Context, issueID uint) ([]*issue.StatusHistory, error) {
	var historyModels []models.StatusHistoryModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("issue_id = ?", issueID).
		Order("id ASC").
		Find(&historyModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}

	entries := make([]*issue.StatusHistory, len(historyModels))
	for i := range historyModels {
		entries[i] = r.mapper.HistoryToDomain(&historyModels[i])
	}
	return entries, nil
}

func (r *StatusHistoryRepository) CountByIssue(ctx context.Context, issueID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.StatusHistoryModel{}).
		Where("issue_id = ?", issueID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count status history: %w", err)
	}
	return count, nil
}

func (r *StatusHistoryRepository) DeleteByIssue(ctx context.Context, issueID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Where("issue_id = ?", issueID).Delete(&models.StatusHistoryModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete status history: %w", err)
	}
	return nil
}
