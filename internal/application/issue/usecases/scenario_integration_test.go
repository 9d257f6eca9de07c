package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/infrastructure/persistence/models"
	"campusdesk/internal/infrastructure/repository"
	"campusdesk/internal/shared/authorization"
	"campusdesk/internal/shared/db"
	apperrors "campusdesk/internal/shared/errors"
	"campusdesk/internal/shared/logger"
	"campusdesk/internal/shared/services/markdown"
)

type harness struct {
	db        *gorm.DB
	issues    *repository.IssueRepository
	upvotes   *repository.UpvoteRepository
	comments  *repository.CommentRepository
	history   *repository.StatusHistoryRepository
	notifRepo *repository.NotificationRepositoryImpl
	relay     *notification.Relay

	create     *CreateIssueUseCase
	transition *TransitionStatusUseCase
	toggle     *ToggleUpvoteUseCase
	post       *PostCommentUseCase
	list       *ListCommentsUseCase
	deleteC    *DeleteCommentUseCase
	reconcile  *ReconcileCountersUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(models.All()...))
	require.NoError(t, gdb.Create(&models.CategoryModel{ID: 1, Name: "Electrical", IsActive: true}).Error)
	require.NoError(t, gdb.Create(&models.LocationModel{ID: 1, Name: "Library", LocationType: "building", IsActive: true}).Error)

	log := logger.NewNop()
	h := &harness{
		db:        gdb,
		issues:    repository.NewIssueRepository(gdb),
		upvotes:   repository.NewUpvoteRepository(gdb),
		comments:  repository.NewCommentRepository(gdb),
		history:   repository.NewStatusHistoryRepository(gdb),
		notifRepo: repository.NewNotificationRepository(gdb),
	}
	h.relay = notification.NewRelay(h.notifRepo, []notification.Sink{notification.NewLogSink(log)}, notification.RelayConfig{}, log)
	notifier := notification.NewNotifier(h.notifRepo, h.relay, log)
	tx := db.NewTransactionManager(gdb)
	checker := authorization.NewRoleCapabilities()
	keeper := NewCounterKeeper(h.issues, h.upvotes, h.comments)
	md := markdown.NewMarkdownService()

	h.create = NewCreateIssueUseCase(h.issues, repository.NewReferenceRepository(gdb), md, nil, log)
	h.transition = NewTransitionStatusUseCase(tx, h.issues, h.history, vo.PermissiveTransitions{}, checker, notifier, nil, log)
	h.toggle = NewToggleUpvoteUseCase(tx, h.issues, h.upvotes, keeper, notifier, nil, log)
	h.post = NewPostCommentUseCase(tx, h.issues, h.comments, keeper, notifier, md, nil, log)
	h.list = NewListCommentsUseCase(h.issues, h.comments, md, log)
	h.deleteC = NewDeleteCommentUseCase(tx, h.issues, h.comments, keeper, checker, nil, log)
	h.reconcile = NewReconcileCountersUseCase(tx, h.issues, keeper, nil, log)
	return h
}

func (h *harness) newIssue(t *testing.T, reporterID uint) uint {
	t.Helper()
	created, err := h.create.Execute(context.Background(), CreateIssueCommand{
		ReporterID:  reporterID,
		Title:       "Flickering lights",
		Description: "Reading room lights flicker all day",
		CategoryID:  1,
		LocationID:  1,
	})
	require.NoError(t, err)
	return created.ID
}

func (h *harness) assertCountersMatchRows(t *testing.T, issueID uint) {
	t.Helper()
	ctx := context.Background()
	i, err := h.issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	upvotes, err := h.upvotes.CountByIssue(ctx, issueID)
	require.NoError(t, err)
	comments, err := h.comments.CountByIssue(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, int(upvotes), i.UpvotesCount())
	assert.Equal(t, int(comments), i.CommentsCount())
}

func TestScenario_StatusLifecycleAndHistory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	issueID := h.newIssue(t, 7)

	_, err := h.transition.Execute(ctx, TransitionStatusCommand{IssueID: issueID, Actor: manager, NewStatus: "acknowledged"})
	require.NoError(t, err)
	entries, err := h.history.ListByIssue(ctx, issueID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, vo.StatusReported, entries[0].OldStatus())
	assert.Equal(t, vo.StatusAcknowledged, entries[0].NewStatus())

	result, err := h.transition.Execute(ctx, TransitionStatusCommand{IssueID: issueID, Actor: manager, NewStatus: "resolved"})
	require.NoError(t, err)
	assert.NotNil(t, result.Issue.ResolvedAt)

	_, err = h.transition.Execute(ctx, TransitionStatusCommand{IssueID: issueID, Actor: student, NewStatus: "closed"})
	assert.True(t, apperrors.IsForbiddenError(err))

	count, err := h.history.CountByIssue(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	stored, err := h.issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusResolved, stored.Status())
	require.NotNil(t, stored.ResolvedAt())

	// The reporter got one outbox row per applied transition.
	unread, err := h.notifRepo.CountUnread(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	delivered, err := h.relay.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
}

func TestScenario_ConcurrentTransitionsKeepEveryHistoryRow(t *testing.T) {
	h := newHarness(t)
	issueID := h.newIssue(t, 7)
	statuses := []string{"acknowledged", "in_progress", "resolved", "closed", "rejected", "in_progress"}

	var wg sync.WaitGroup
	for idx, s := range statuses {
		wg.Add(1)
		go func(actorID uint, status string) {
			defer wg.Done()
			_, err := h.transition.Execute(context.Background(), TransitionStatusCommand{
				IssueID:   issueID,
				Actor:     authorization.Actor{UserID: actorID, Role: authorization.RoleAdmin},
				NewStatus: status,
			})
			assert.NoError(t, err)
		}(uint(100+idx), s)
	}
	wg.Wait()

	entries, err := h.history.ListByIssue(context.Background(), issueID)
	require.NoError(t, err)
	require.Len(t, entries, len(statuses))
	// Serialized on the issue row: each entry starts where the previous one ended.
	assert.Equal(t, vo.StatusReported, entries[0].OldStatus())
	for i := 1; i < len(entries); i++ {
		assert.Equal(t, entries[i-1].NewStatus(), entries[i].OldStatus())
	}
}

func TestScenario_UpvoteToggle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	issueID := h.newIssue(t, 7)

	first, err := h.toggle.Execute(ctx, ToggleUpvoteCommand{IssueID: issueID, UserID: 60})
	require.NoError(t, err)
	assert.Equal(t, string(issue.UpvoteStateUpvoted), first.State)
	assert.Equal(t, 1, first.NewCount)

	second, err := h.toggle.Execute(ctx, ToggleUpvoteCommand{IssueID: issueID, UserID: 60})
	require.NoError(t, err)
	assert.Equal(t, string(issue.UpvoteStateRemoved), second.State)
	assert.Equal(t, 0, second.NewCount)
	h.assertCountersMatchRows(t, issueID)

	_, err = h.toggle.Execute(ctx, ToggleUpvoteCommand{IssueID: 999, UserID: 60})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestScenario_ConcurrentTogglesSerialize(t *testing.T) {
	h := newHarness(t)
	issueID := h.newIssue(t, 7)

	// Another user's upvote gives a non-zero starting count.
	_, err := h.toggle.Execute(context.Background(), ToggleUpvoteCommand{IssueID: issueID, UserID: 61})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.toggle.Execute(context.Background(), ToggleUpvoteCommand{IssueID: issueID, UserID: 60})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, h.db.Model(&models.UpvoteModel{}).Where("issue_id = ? AND user_id = ?", issueID, 60).Count(&rows).Error)
	assert.Zero(t, rows)

	i, err := h.issues.GetByID(context.Background(), issueID)
	require.NoError(t, err)
	assert.Equal(t, 1, i.UpvotesCount())
	h.assertCountersMatchRows(t, issueID)
}

func TestScenario_CommentThreadAndCascade(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	issueID := h.newIssue(t, 7)
	otherIssue := h.newIssue(t, 8)

	top, err := h.post.Execute(ctx, PostCommentCommand{IssueID: issueID, AuthorID: 20, Content: "Still broken"})
	require.NoError(t, err)
	reply1, err := h.post.Execute(ctx, PostCommentCommand{IssueID: issueID, AuthorID: 21, Content: "Same here", ParentID: &top.ID})
	require.NoError(t, err)
	_, err = h.post.Execute(ctx, PostCommentCommand{IssueID: issueID, AuthorID: 22, Content: "Reported to facilities", ParentID: &reply1.ID})
	require.NoError(t, err)
	keep, err := h.post.Execute(ctx, PostCommentCommand{IssueID: issueID, AuthorID: 23, Content: "Unrelated"})
	require.NoError(t, err)

	_, err = h.post.Execute(ctx, PostCommentCommand{IssueID: otherIssue, AuthorID: 20, Content: "cross", ParentID: &top.ID})
	assert.True(t, apperrors.IsInvalidParentError(err))

	i, err := h.issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, 4, i.CommentsCount())

	tree, err := h.list.Execute(ctx, ListCommentsQuery{IssueID: issueID})
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, top.ID, tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply1.ID, tree[0].Replies[0].ID)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Contains(t, tree[0].ContentHTML, "<p>Still broken</p>")

	removed, err := h.deleteC.Execute(ctx, DeleteCommentCommand{CommentID: top.ID, Actor: authorization.Actor{UserID: 20}})
	require.NoError(t, err)
	assert.Equal(t, 3, removed.Removed)

	i, err = h.issues.GetByID(ctx, issueID)
	require.NoError(t, err)
	assert.Equal(t, 1, i.CommentsCount())
	h.assertCountersMatchRows(t, issueID)

	tree, err = h.list.Execute(ctx, ListCommentsQuery{IssueID: issueID})
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, keep.ID, tree[0].ID)
}

func TestScenario_ReconcileRepairsDriftIdempotently(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	issueID := h.newIssue(t, 7)
	_, err := h.toggle.Execute(ctx, ToggleUpvoteCommand{IssueID: issueID, UserID: 60})
	require.NoError(t, err)

	// Simulate a manual data edit behind the service's back.
	require.NoError(t, h.db.Model(&models.IssueModel{}).Where("id = ?", issueID).
		UpdateColumns(map[string]any{"upvotes_count": 40, "comments_count": 3}).Error)

	first, err := h.reconcile.Execute(ctx, ReconcileCountersCommand{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Checked)
	assert.Equal(t, 1, first.Drifted)
	require.Len(t, first.Reports, 1)
	assert.Equal(t, 40, first.Reports[0].UpvotesBefore)
	assert.Equal(t, 1, first.Reports[0].UpvotesAfter)
	h.assertCountersMatchRows(t, issueID)

	second, err := h.reconcile.Execute(ctx, ReconcileCountersCommand{IssueID: &issueID})
	require.NoError(t, err)
	assert.Zero(t, second.Drifted)
	assert.False(t, second.Reports[0].Drifted)
}
