package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"campusdesk/internal/application/issue/dto"
	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	notifvo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/utils"
)

type PostCommentCommand struct {
	IssueID  uint   `json:"issue_id" validate:"required"`
	AuthorID uint   `json:"author_id" validate:"required"`
	Content  string `json:"content" validate:"required,notblank,max=5000"`
	ParentID *uint  `json:"parent_id" validate:"omitempty,gt=0"`
}

type PostCommentUseCase struct {
	txMgr    TransactionRunner
	issues   issue.IssueRepository
	comments issue.CommentRepository
	counters *CounterKeeper
	notifier Notifier
	renderer dto.MarkdownRenderer
	metrics  MetricsRecorder
	logger   logger.Interface
}

func NewPostCommentUseCase(
	txMgr TransactionRunner,
	issues issue.IssueRepository,
	comments issue.CommentRepository,
	counters *CounterKeeper,
	notifier Notifier,
	renderer dto.MarkdownRenderer,
	metrics MetricsRecorder,
	logger logger.Interface,
) *PostCommentUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &PostCommentUseCase{
		txMgr:    txMgr,
		issues:   issues,
		comments: comments,
		counters: counters,
		notifier: notifier,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
	}
}

func (uc *PostCommentUseCase) Execute(ctx context.Context, cmd PostCommentCommand) (*dto.CommentDTO, error) {
	uc.logger.Infow("executing post comment use case", "issue_id", cmd.IssueID, "author_id", cmd.AuthorID, "is_reply", cmd.ParentID != nil)

	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	var created *issue.Comment
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		i, err := uc.issues.GetByIDForUpdate(txCtx, cmd.IssueID)
		if err != nil {
			return translateIssueErr(err, cmd.IssueID)
		}

		c, err := issue.NewComment(cmd.IssueID, cmd.AuthorID, cmd.Content)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}

		var parent *issue.Comment
		if cmd.ParentID != nil {
			parent, err = uc.loadParent(txCtx, *cmd.ParentID)
			if err != nil {
				return err
			}
			if err := c.ReplyTo(parent); err != nil {
				return errors.NewInvalidParentError(err.Error())
			}
		}

		if err := uc.comments.Create(txCtx, c); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		if err := uc.counters.AddComments(txCtx, cmd.IssueID, 1); err != nil {
			return fmt.Errorf("failed to adjust comment counter: %w", err)
		}

		enqueue(txCtx, uc.notifier, uc.logger, commentDrafts(i, c, parent)...)
		created = c
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to post comment", "issue_id", cmd.IssueID, "error", err)
		return nil, errors.NewInternalError("failed to post comment")
	}

	nudge(uc.notifier)
	uc.metrics.RecordCommentPosted(created.IsReply())
	uc.logger.Infow("comment posted", "comment_id", created.ID(), "issue_id", cmd.IssueID)

	return dto.ToCommentDTO(created, uc.renderer), nil
}

func (uc *PostCommentUseCase) loadParent(ctx context.Context, parentID uint) (*issue.Comment, error) {
	parent, err := uc.comments.GetByID(ctx, parentID)
	if err != nil {
		if stderrors.Is(err, issue.ErrCommentNotFound) {
			return nil, errors.NewInvalidParentError(fmt.Sprintf("parent comment %d does not exist", parentID))
		}
		return nil, fmt.Errorf("failed to load parent comment: %w", err)
	}
	return parent, nil
}

// commentDrafts notifies the reporter and, for replies, the parent author. The
// notifier drops drafts addressed to the author and collapses a parent author who
// is also the reporter into one notification.
func commentDrafts(i *issue.Issue, c *issue.Comment, parent *issue.Comment) []notification.Draft {
	drafts := []notification.Draft{{
		RecipientID: i.ReporterID(),
		SenderID:    c.AuthorID(),
		IssueID:     i.ID(),
		Type:        notifvo.NotificationTypeCommentAdded,
		Message:     fmt.Sprintf("New comment on %q", i.Title()),
		Payload:     map[string]any{"comment_id": c.ID()},
	}}
	if parent != nil {
		drafts = append(drafts, notification.Draft{
			RecipientID: parent.AuthorID(),
			SenderID:    c.AuthorID(),
			IssueID:     i.ID(),
			Type:        notifvo.NotificationTypeCommentAdded,
			Message:     fmt.Sprintf("New reply to your comment on %q", i.Title()),
			Payload:     map[string]any{"comment_id": c.ID(), "parent_id": parent.ID()},
		})
	}
	return drafts
}
