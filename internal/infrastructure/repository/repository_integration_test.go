package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campusdesk/internal/domain/issue"
	vo "campusdesk/internal/domain/issue/valueobjects"
	"campusdesk/internal/domain/notification"
	nvo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/infrastructure/persistence/models"
	"campusdesk/internal/shared/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func createTestIssue(t *testing.T, repo *IssueRepository, title string, priority vo.Priority) *issue.Issue {
	t.Helper()
	is, err := issue.NewIssue(title, "Test description", 1, 1, 1, priority, false)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), is))
	return is
}

func TestIssueRepository_CreateAndGet(t *testing.T) {
	repo := NewIssueRepository(setupTestDB(t))
	ctx := context.Background()

	is := createTestIssue(t, repo, "Flickering lights", vo.PriorityHigh)
	assert.NotZero(t, is.ID())

	found, err := repo.GetByID(ctx, is.ID())
	require.NoError(t, err)
	assert.Equal(t, "Flickering lights", found.Title())
	assert.Equal(t, vo.StatusReported, found.Status())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, issue.ErrIssueNotFound)
	_, err = repo.GetByIDForUpdate(ctx, 999)
	assert.ErrorIs(t, err, issue.ErrIssueNotFound)
}

func TestIssueRepository_UpdateLeavesCountersAlone(t *testing.T) {
	repo := NewIssueRepository(setupTestDB(t))
	ctx := context.Background()
	is := createTestIssue(t, repo, "Door stuck", vo.PriorityLow)

	require.NoError(t, repo.AdjustCounters(ctx, is.ID(), 2, 1))

	// is still holds zero counters; Update must not write them back
	_, err := is.ChangeStatus(vo.StatusResolved, vo.PermissiveTransitions{})
	require.NoError(t, err)
	require.NoError(t, is.AssignTo(12, nil))
	require.NoError(t, repo.Update(ctx, is))

	found, err := repo.GetByID(ctx, is.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusResolved, found.Status())
	assert.NotNil(t, found.ResolvedAt())
	assert.Equal(t, uint(12), *found.AssigneeID())
	assert.Equal(t, 2, found.UpvotesCount())
	assert.Equal(t, 1, found.CommentsCount())
}

func TestIssueRepository_AdjustCountersFloorsAtZero(t *testing.T) {
	repo := NewIssueRepository(setupTestDB(t))
	ctx := context.Background()
	is := createTestIssue(t, repo, "Broken chair", vo.PriorityLow)

	require.NoError(t, repo.AdjustCounters(ctx, is.ID(), 1, 0))
	require.NoError(t, repo.AdjustCounters(ctx, is.ID(), -3, -1))

	found, err := repo.GetByID(ctx, is.ID())
	require.NoError(t, err)
	assert.Zero(t, found.UpvotesCount())
	assert.Zero(t, found.CommentsCount())

	assert.ErrorIs(t, repo.AdjustCounters(ctx, 999, 1, 0), issue.ErrIssueNotFound)
	assert.ErrorIs(t, repo.SetCounters(ctx, 999, 0, 0), issue.ErrIssueNotFound)
	require.NoError(t, repo.SetCounters(ctx, is.ID(), 0, 0))
}

func TestIssueRepository_List(t *testing.T) {
	repo := NewIssueRepository(setupTestDB(t))
	ctx := context.Background()

	low := createTestIssue(t, repo, "Wobbly table", vo.PriorityLow)
	crit := createTestIssue(t, repo, "Gas smell in lab", vo.PriorityCritical)
	createTestIssue(t, repo, "Projector dim", vo.PriorityMedium)
	require.NoError(t, repo.AdjustCounters(ctx, low.ID(), 5, 0))

	t.Run("order by priority", func(t *testing.T) {
		list, total, err := repo.List(ctx, issue.IssueFilter{SortBy: "priority", SortOrder: "desc"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, crit.ID(), list[0].ID())
		assert.Equal(t, low.ID(), list[2].ID())
	})

	t.Run("order by upvotes", func(t *testing.T) {
		list, _, err := repo.List(ctx, issue.IssueFilter{SortBy: "upvotes_count"})
		require.NoError(t, err)
		assert.Equal(t, low.ID(), list[0].ID())
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		list, total, err := repo.List(ctx, issue.IssueFilter{Search: "GAS"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, crit.ID(), list[0].ID())
	})

	t.Run("filter and paginate", func(t *testing.T) {
		status := vo.StatusReported
		list, total, err := repo.List(ctx, issue.IssueFilter{Status: &status, Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 1)
	})

	t.Run("unknown sort falls back", func(t *testing.T) {
		_, _, err := repo.List(ctx, issue.IssueFilter{SortBy: "title; DROP TABLE issues"})
		assert.NoError(t, err)
	})

	ids, err := repo.ListIDs(ctx, low.ID(), 10)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestUpvoteRepository_UniquePair(t *testing.T) {
	gdb := setupTestDB(t)
	issues := NewIssueRepository(gdb)
	repo := NewUpvoteRepository(gdb)
	ctx := context.Background()
	is := createTestIssue(t, issues, "Water cooler", vo.PriorityMedium)

	found, err := repo.Find(ctx, is.ID(), 5)
	require.NoError(t, err)
	assert.Nil(t, found)

	u, err := issue.NewUpvote(5, is.ID())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	dup, err := issue.NewUpvote(5, is.ID())
	require.NoError(t, err)
	err = repo.Create(ctx, dup)
	assert.True(t, errors.IsDuplicateError(err))

	upvoted, err := repo.UpvotedIssueIDs(ctx, 5, []uint{is.ID(), 999})
	require.NoError(t, err)
	assert.True(t, upvoted[is.ID()])
	assert.False(t, upvoted[999])

	require.NoError(t, repo.Delete(ctx, u.ID()))
	count, err := repo.CountByIssue(ctx, is.ID())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCommentRepository_OrderAndDelete(t *testing.T) {
	gdb := setupTestDB(t)
	issues := NewIssueRepository(gdb)
	repo := NewCommentRepository(gdb)
	ctx := context.Background()
	is := createTestIssue(t, issues, "Leaking roof", vo.PriorityHigh)

	root, err := issue.NewComment(is.ID(), 2, "first")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, root))

	reply, err := issue.NewComment(is.ID(), 3, "second")
	require.NoError(t, err)
	require.NoError(t, reply.ReplyTo(root))
	require.NoError(t, repo.Create(ctx, reply))

	require.NoError(t, reply.Edit("second, edited"))
	require.NoError(t, repo.Update(ctx, reply))

	list, err := repo.ListByIssue(ctx, is.ID())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, root.ID(), list[0].ID())
	assert.True(t, list[1].IsEdited())
	assert.Equal(t, root.ID(), *list[1].ParentID())

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, issue.ErrCommentNotFound)

	n, err := repo.DeleteByIDs(ctx, []uint{root.ID(), reply.ID()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStatusHistoryRepository_AppendAndList(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewStatusHistoryRepository(gdb)
	ctx := context.Background()

	for _, change := range []issue.StatusChange{
		{Old: vo.StatusReported, New: vo.StatusAcknowledged},
		{Old: vo.StatusAcknowledged, New: vo.StatusResolved},
	} {
		h, err := issue.NewStatusHistory(1, 9, change, "note")
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, h))
	}

	list, err := repo.ListByIssue(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, vo.StatusReported, list[0].OldStatus())
	assert.Equal(t, vo.StatusResolved, list[1].NewStatus())

	count, err := repo.CountByIssue(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestReferenceRepository(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewReferenceRepository(gdb)
	ctx := context.Background()

	require.NoError(t, gdb.Create(&models.CategoryModel{ID: 1, Name: "Electrical", IsActive: true}).Error)
	require.NoError(t, gdb.Create(&models.LocationModel{ID: 1, Name: "Block A", LocationType: "building", IsActive: true}).Error)
	require.NoError(t, gdb.Create(&models.LocationModel{ID: 2, Name: "Old wing", LocationType: "building"}).Error)
	require.NoError(t, gdb.Model(&models.LocationModel{}).Where("id = ?", 2).UpdateColumn("is_active", false).Error)

	ok, err := repo.CategoryExists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.LocationExists(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CategoryExists(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNotificationRepository_Outbox(t *testing.T) {
	repo := NewNotificationRepository(setupTestDB(t))
	ctx := context.Background()

	var batch []*notification.Notification
	for _, recipient := range []uint{1, 2} {
		n, err := notification.NewNotification(recipient, 9, 3, nvo.NotificationTypeIssueUpdated, "status changed", map[string]any{"new_status": "resolved"})
		require.NoError(t, err)
		batch = append(batch, n)
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	assert.NotZero(t, batch[1].ID())

	pending, err := repo.ListUndelivered(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "resolved", pending[0].Payload()["new_status"])

	require.NoError(t, repo.IncrementAttempts(ctx, []uint{batch[0].ID()}))
	require.NoError(t, repo.IncrementAttempts(ctx, []uint{batch[0].ID()}))
	require.NoError(t, repo.MarkDelivered(ctx, []uint{batch[1].ID()}, time.Now()))

	pending, err = repo.ListUndelivered(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Attempts())

	pending, err = repo.ListUndelivered(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, repo.MarkAsRead(ctx, batch[0].ID()))
	unread, err := repo.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, unread)

	list, total, err := repo.ListByRecipient(ctx, 2, true, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}
