package usecases

import (
	"context"
	"strings"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

type CreateIssueCommand struct {
	ReporterID  uint   `json:"reporter_id" validate:"required"`
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"required,notblank,max=10000"`
	CategoryID  uint   `json:"category_id" validate:"required"`
	LocationID  uint   `json:"location_id" validate:"required"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// TextSanitizer strips markup from plain-text fields before they are stored.
type TextSanitizer interface {
	StripTags(input string) string
}

type CreateIssueUseCase struct {
	issues    issue.IssueRepository
	refs      issue.ReferenceRepository
	sanitizer TextSanitizer
	metrics   MetricsRecorder
	logger    logger.Interface
}

func NewCreateIssueUseCase(
	issues issue.IssueRepository,
	refs issue.ReferenceRepository,
	sanitizer TextSanitizer,
	metrics MetricsRecorder,
	logger logger.Interface,
) *CreateIssueUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &CreateIssueUseCase{
		issues:    issues,
		refs:      refs,
		sanitizer: sanitizer,
		metrics:   metrics,
		logger:    logger,
	}
}

func (uc *CreateIssueUseCase) Execute(ctx context.Context, cmd CreateIssueCommand) (*dto.IssueDTO, error) {
	uc.logger.Infow("executing create issue use case", "reporter_id", cmd.ReporterID, "category_id", cmd.CategoryID, "location_id", cmd.LocationID)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	if err := uc.checkReferences(ctx, cmd); err != nil {
		return nil, err
	}

	title := cmd.Title
	if uc.sanitizer != nil {
		title = uc.sanitizer.StripTags(title)
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.NewValidationError("title is required")
	}

	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	i, err := issue.NewIssue(title, cmd.Description, cmd.ReporterID, cmd.CategoryID, cmd.LocationID, priority, cmd.IsAnonymous)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.issues.Create(ctx, i); err != nil {
		uc.logger.Errorw("failed to create issue", "reporter_id", cmd.ReporterID, "error", err)
		return nil, errors.NewInternalError("failed to create issue")
	}

	uc.metrics.RecordIssueCreated(i.Priority().String())
	uc.logger.Infow("issue created", "issue_id", i.ID(), "priority", i.Priority(), "anonymous", i.IsAnonymous())

	return dto.ToIssueDTO(i, dto.Viewer{UserID: cmd.ReporterID}, false), nil
}

func (uc *CreateIssueUseCase) checkReferences(ctx context.Context, cmd CreateIssueCommand) error {
	ok, err := uc.refs.CategoryExists(ctx, cmd.CategoryID)
	if err != nil {
		uc.logger.Errorw("failed to check category", "category_id", cmd.CategoryID, "error", err)
		return errors.NewInternalError("failed to check category")
	}
	if !ok {
		return errors.NewValidationError("category does not exist", "category_id")
	}

	ok, err = uc.refs.LocationExists(ctx, cmd.LocationID)
	if err != nil {
		uc.logger.Errorw("failed to check location", "location_id", cmd.LocationID, "error", err)
		return errors.NewInternalError("failed to check location")
	}
	if !ok {
		return errors.NewValidationError("location does not exist", "location_id")
	}
	return nil
}
