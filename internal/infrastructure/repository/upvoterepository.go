package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campusdesk/internal/domain/issue"
	"campusdesk/internal/infrastructure/persistence/mappers"
	"campusdesk/internal/infrastructure/persistence/models"
	db "campusdesk/internal/shared/db"
)

type UpvoteRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewUpvoteRepository(db *gorm.DB) *UpvoteRepository {
	return &UpvoteRepository{
		db:     db,
		mapper: mappers.NewIssueMapper(),
	}
}

func (r *UpvoteRepository) Find(ctx context.Context, issueID, userID uint) (*issue.Upvote, error) {
	var model models.UpvoteModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("issue_id = ? AND user_id = ?", issueID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find upvote: %w", err)
	}
	return r.mapper.UpvoteToDomain(&model), nil
}

func (r *UpvoteRepository) Create(ctx context.Context, u *issue.Upvote) error {
	model := r.mapper.UpvoteToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create upvote: %w", err)
	}
	return u.SetID(model.ID)
}

func (r *UpvoteRepository) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.UpvoteModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete upvote: %w", err)
	}
	return nil
}

func (r *UpvoteRepository) CountByIssue(ctx context.Context, issueID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UpvoteModel{}).
		Where("issue_id = ?", issueID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count upvotes: %w", err)
	}
	return count, nil
}

func (r *UpvoteRepository) UpvotedIssueIDs(ctx context.Context, userID uint, issueIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(issueIDs))
	if userID == 0 || len(issueIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.UpvoteModel{}).
		Where("user_id = ? AND issue_id IN ?", userID, issueIDs).
		Pluck("issue_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load upvoted issues: %w", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *UpvoteRepository) DeleteByIssue(ctx context.Context, issueID uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Where("issue_id = ?", issueID).Delete(&models.UpvoteModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete upvotes: %w", err)
	}
	return nil
}
