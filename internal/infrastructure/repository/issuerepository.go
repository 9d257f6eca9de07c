package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"campusdesk/internal/domain/issue"
	"campusdesk/internal/infrastructure/persistence/mappers"
	"campusdesk/internal/infrastructure/persistence/models"
	db "campusdesk/internal/shared/db"
)

// allowedIssueOrderByFields maps public sort keys to columns; anything else falls back to created_at.
var allowedIssueOrderByFields = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"upvotes_count": "upvotes_count",
	"priority":      "priority_rank",
}

// issueUpdatableColumns are written by Update. Counters are deliberately absent.
var issueUpdatableColumns = []string{
	"title",
	"description",
	"priority",
	"priority_rank",
	"status",
	"assignee_id",
	"is_anonymous",
	"estimated_resolution_seconds",
	"resolved_at",
	"updated_at",
}

type IssueRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewIssueRepository(db *gorm.DB) *IssueRepository {
	return &IssueRepository{
		db:     db,
		mapper: mappers.NewIssueMapper(),
	}
}

func (r *IssueRepository) Create(ctx context.Context, i *issue.Issue) error {
	model := r.mapper.ToModel(i)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	return i.SetID(model.ID)
}

func (r *IssueRepository) GetByID(ctx context.Context, id uint) (*issue.Issue, error) {
	return r.get(db.GetTxFromContext(ctx, r.db), id)
}

func (r *IssueRepository) GetByIDForUpdate(ctx context.Context, id uint) (*issue.Issue, error) {
	return r.get(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()), id)
}

func (r *IssueRepository) get(tx *gorm.DB, id uint) (*issue.Issue, error) {
	var model models.IssueModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, issue.ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *IssueRepository) Update(ctx context.Context, i *issue.Issue) error {
	model := r.mapper.ToModel(i)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.IssueModel{}).
		Where("id = ?", model.ID).
		Select(issueUpdatableColumns).
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update issue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, model.ID)
	}

	return nil
}

func (r *IssueRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.IssueModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete issue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return issue.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) List(ctx context.Context, filter issue.IssueFilter) ([]*issue.Issue, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.IssueModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	column, ok := allowedIssueOrderByFields[strings.ToLower(filter.SortBy)]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	query = query.Order(column + " " + order).Order("id " + order)

	query = query.Scopes(db.Paginate(filter.Page, filter.PageSize))

	var issueModels []models.IssueModel
	if err := query.Find(&issueModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}

	issues := make([]*issue.Issue, len(issueModels))
	for i := range issueModels {
		is, err := r.mapper.ToDomain(&issueModels[i])
		if err != nil {
			return nil, 0, err
		}
		issues[i] = is
	}

	return issues, total, nil
}

func (r *IssueRepository) ListIDs(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	var ids []uint
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.IssueModel{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list issue ids: %w", err)
	}
	return ids, nil
}

func (r *IssueRepository) AdjustCounters(ctx context.Context, issueID uint, upvotesDelta, commentsDelta int) error {
	if upvotesDelta == 0 && commentsDelta == 0 {
		return nil
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.IssueModel{}).
		Where("id = ?", issueID).
		UpdateColumns(map[string]any{
			"upvotes_count":  flooredAdd("upvotes_count", upvotesDelta),
			"comments_count": flooredAdd("comments_count", commentsDelta),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to adjust issue counters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, issueID)
	}
	return nil
}

func (r *IssueRepository) SetCounters(ctx context.Context, issueID uint, upvotes, comments int) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.IssueModel{}).
		Where("id = ?", issueID).
		UpdateColumns(map[string]any{
			"upvotes_count":  upvotes,
			"comments_count": comments,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set issue counters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.ensureExists(ctx, issueID)
	}
	return nil
}

// ensureExists distinguishes a missing row from an update that changed nothing
// (mysql reports zero affected rows for identical values).
func (r *IssueRepository) ensureExists(ctx context.Context, issueID uint) error {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.IssueModel{}).Where("id = ?", issueID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check issue: %w", err)
	}
	if n == 0 {
		return issue.ErrIssueNotFound
	}
	return nil
}

// flooredAdd computes column + delta in SQL, never going below zero.
func flooredAdd(column string, delta int) any {
	return gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
}
