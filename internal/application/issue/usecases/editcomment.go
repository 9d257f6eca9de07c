package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/domain/issue"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

type EditCommentCommand struct {
	CommentID uint                `json:"comment_id" validate:"required"`
	Actor     authorization.Actor `json:"-"`
	Content   string              `json:"content" validate:"required,notblank,max=5000"`
}

type EditCommentUseCase struct {
	comments issue.CommentRepository
	checker  authorization.CapabilityChecker
	renderer dto.MarkdownRenderer
	logger   logger.Interface
}

func NewEditCommentUseCase(
	comments issue.CommentRepository,
	checker authorization.CapabilityChecker,
	renderer dto.MarkdownRenderer,
	logger logger.Interface,
) *EditCommentUseCase {
	return &EditCommentUseCase{
		comments: comments,
		checker:  checker,
		renderer: renderer,
		logger:   logger,
	}
}

// Execute lets the author, or a manager, replace a comment's content.
// The issue's comment counter is untouched.
func (uc *EditCommentUseCase) Execute(ctx context.Context, cmd EditCommentCommand) (*dto.CommentDTO, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	c, err := uc.comments.GetByID(ctx, cmd.CommentID)
	if err != nil {
		if stderrors.Is(err, issue.ErrCommentNotFound) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("comment %d not found", cmd.CommentID))
		}
		uc.logger.Errorw("failed to get comment", "comment_id", cmd.CommentID, "error", err)
		return nil, errors.NewInternalError("failed to get comment")
	}

	if c.AuthorID() != cmd.Actor.UserID {
		if err := requireManager(ctx, uc.checker, cmd.Actor, uc.logger); err != nil {
			return nil, err
		}
	}

	if err := c.Edit(cmd.Content); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.comments.Update(ctx, c); err != nil {
		uc.logger.Errorw("failed to update comment", "comment_id", c.ID(), "error", err)
		return nil, errors.NewInternalError("failed to update comment")
	}

	uc.logger.Infow("comment edited", "comment_id", c.ID(), "actor_id", cmd.Actor.UserID)
	return dto.ToCommentDTO(c, uc.renderer), nil
}
