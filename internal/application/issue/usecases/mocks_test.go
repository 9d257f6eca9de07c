package usecases

import (
	"context"
	"sync"
	"time"

	"campusdesk/internal/application/notification"
	"campusdesk/internal/domain/issue"
	domainnotification "campusdesk/internal/domain/notification"
	"campusdesk/internal/shared/authorization"
)

type mockIssueRepository struct {
	CreateFunc           func(ctx context.Context, i *issue.Issue) error
	GetByIDFunc          func(ctx context.Context, id uint) (*issue.Issue, error)
	GetByIDForUpdateFunc func(ctx context.Context, id uint) (*issue.Issue, error)
	UpdateFunc           func(ctx context.Context, i *issue.Issue) error
	DeleteFunc           func(ctx context.Context, id uint) error
	ListFunc             func(ctx context.Context, filter issue.IssueFilter) ([]*issue.Issue, int64, error)
	ListIDsFunc          func(ctx context.Context, afterID uint, limit int) ([]uint, error)
	AdjustCountersFunc   func(ctx context.Context, issueID uint, upvotesDelta, commentsDelta int) error
	SetCountersFunc      func(ctx context.Context, issueID uint, upvotes, comments int) error
}

func (m *mockIssueRepository) Create(ctx context.Context, i *issue.Issue) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, i)
	}
	return i.SetID(1)
}

func (m *mockIssueRepository) GetByID(ctx context.Context, id uint) (*issue.Issue, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, issue.ErrIssueNotFound
}

func (m *mockIssueRepository) GetByIDForUpdate(ctx context.Context, id uint) (*issue.Issue, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *mockIssueRepository) Update(ctx context.Context, i *issue.Issue) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, i)
	}
	return nil
}

func (m *mockIssueRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockIssueRepository) List(ctx context.Context, filter issue.IssueFilter) ([]*issue.Issue, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockIssueRepository) ListIDs(ctx context.Context, afterID uint, limit int) ([]uint, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx, afterID, limit)
	}
	return nil, nil
}

func (m *mockIssueRepository) AdjustCounters(ctx context.Context, issueID uint, upvotesDelta, commentsDelta int) error {
	if m.AdjustCountersFunc != nil {
		return m.AdjustCountersFunc(ctx, issueID, upvotesDelta, commentsDelta)
	}
	return nil
}

func (m *mockIssueRepository) SetCounters(ctx context.Context, issueID uint, upvotes, comments int) error {
	if m.SetCountersFunc != nil {
		return m.SetCountersFunc(ctx, issueID, upvotes, comments)
	}
	return nil
}

type mockUpvoteRepository struct {
	FindFunc            func(ctx context.Context, issueID, userID uint) (*issue.Upvote, error)
	CreateFunc          func(ctx context.Context, u *issue.Upvote) error
	DeleteFunc          func(ctx context.Context, id uint) error
	CountByIssueFunc    func(ctx context.Context, issueID uint) (int64, error)
	UpvotedIssueIDsFunc func(ctx context.Context, userID uint, issueIDs []uint) (map[uint]bool, error)
	DeleteByIssueFunc   func(ctx context.Context, issueID uint) error
}

func (m *mockUpvoteRepository) Find(ctx context.Context, issueID, userID uint) (*issue.Upvote, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, issueID, userID)
	}
	return nil, nil
}

func (m *mockUpvoteRepository) Create(ctx context.Context, u *issue.Upvote) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return u.SetID(1)
}

func (m *mockUpvoteRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockUpvoteRepository) CountByIssue(ctx context.Context, issueID uint) (int64, error) {
	if m.CountByIssueFunc != nil {
		return m.CountByIssueFunc(ctx, issueID)
	}
	return 0, nil
}

func (m *mockUpvoteRepository) UpvotedIssueIDs(ctx context.Context, userID uint, issueIDs []uint) (map[uint]bool, error) {
	if m.UpvotedIssueIDsFunc != nil {
		return m.UpvotedIssueIDsFunc(ctx, userID, issueIDs)
	}
	return map[uint]bool{}, nil
}

func (m *mockUpvoteRepository) DeleteByIssue(ctx context.Context, issueID uint) error {
	if m.DeleteByIssueFunc != nil {
		return m.DeleteByIssueFunc(ctx, issueID)
	}
	return nil
}

type mockCommentRepository struct {
	CreateFunc        func(ctx context.Context, c *issue.Comment) error
	GetByIDFunc       func(ctx context.Context, id uint) (*issue.Comment, error)
	UpdateFunc        func(ctx context.Context, c *issue.Comment) error
	ListByIssueFunc   func(ctx context.Context, issueID uint) ([]*issue.Comment, error)
	DeleteByIDsFunc   func(ctx context.Context, ids []uint) (int64, error)
	CountByIssueFunc  func(ctx context.Context, issueID uint) (int64, error)
	DeleteByIssueFunc func(ctx context.Context, issueID uint) error
}

func (m *mockCommentRepository) Create(ctx context.Context, c *issue.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return c.SetID(100)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id uint) (*issue.Comment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, issue.ErrCommentNotFound
}

func (m *mockCommentRepository) Update(ctx context.Context, c *issue.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCommentRepository) ListByIssue(ctx context.Context, issueID uint) ([]*issue.Comment, error) {
	if m.ListByIssueFunc != nil {
		return m.ListByIssueFunc(ctx, issueID)
	}
	return nil, nil
}

func (m *mockCommentRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, ids)
	}
	return int64(len(ids)), nil
}

func (m *mockCommentRepository) CountByIssue(ctx context.Context, issueID uint) (int64, error) {
	if m.CountByIssueFunc != nil {
		return m.CountByIssueFunc(ctx, issueID)
	}
	return 0, nil
}

func (m *mockCommentRepository) DeleteByIssue(ctx context.Context, issueID uint) error {
	if m.DeleteByIssueFunc != nil {
		return m.DeleteByIssueFunc(ctx, issueID)
	}
	return nil
}

type mockStatusHistoryRepository struct {
	AppendFunc        func(ctx context.Context, entry *issue.StatusHistory) error
	ListByIssueFunc   func(ctx context.Context, issueID uint) ([]*issue.StatusHistory, error)
	CountByIssueFunc  func(ctx context.Context, issueID uint) (int64, error)
	DeleteByIssueFunc func(ctx context.Context, issueID uint) error
}

func (m *mockStatusHistoryRepository) Append(ctx context.Context, entry *issue.StatusHistory) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, entry)
	}
	return entry.SetID(1)
}

func (m *mockStatusHistoryRepository) ListByIssue(ctx context.Context, issueID uint) ([]*issue.StatusHistory, error) {
	if m.ListByIssueFunc != nil {
		return m.ListByIssueFunc(ctx, issueID)
	}
	return nil, nil
}

func (m *mockStatusHistoryRepository) CountByIssue(ctx context.Context, issueID uint) (int64, error) {
	if m.CountByIssueFunc != nil {
		return m.CountByIssueFunc(ctx, issueID)
	}
	return 0, nil
}

func (m *mockStatusHistoryRepository) DeleteByIssue(ctx context.Context, issueID uint) error {
	if m.DeleteByIssueFunc != nil {
		return m.DeleteByIssueFunc(ctx, issueID)
	}
	return nil
}

type mockReferenceRepository struct {
	categories map[uint]bool
	locations  map[uint]bool
	err        error
}

func (m *mockReferenceRepository) CategoryExists(_ context.Context, id uint) (bool, error) {
	return m.categories[id], m.err
}

func (m *mockReferenceRepository) LocationExists(_ context.Context, id uint) (bool, error) {
	return m.locations[id], m.err
}

// mockTxRunner runs fn inline. committed counts successful runs.
type mockTxRunner struct {
	calls     int
	committed int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	m.committed++
	return nil
}

type mockNotifier struct {
	mu     sync.Mutex
	drafts []notification.Draft
	err    error
	nudges int
}

func (m *mockNotifier) Enqueue(_ context.Context, drafts ...notification.Draft) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.drafts = append(m.drafts, drafts...)
	return len(drafts), nil
}

func (m *mockNotifier) Nudge() {
	m.mu.Lock()
	m.nudges++
	m.mu.Unlock()
}

func (m *mockNotifier) recipients() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, d.RecipientID)
	}
	return out
}

type mockRenderer struct{}

func (mockRenderer) ToHTMLSanitized(markdown string) (string, error) {
	return "<p>" + markdown + "</p>", nil
}

var (
	manager = authorization.Actor{UserID: 50, Role: authorization.RoleMaintenance}
	student = authorization.Actor{UserID: 60, Role: authorization.RoleStudent}
)

// alwaysInTx makes a CounterKeeper accept mock transactions.
func alwaysInTx(k *CounterKeeper) *CounterKeeper {
	k.inTx = func(context.Context) bool { return true }
	return k
}

// mockNotificationStore covers the notification repository methods issue use cases touch.
type mockNotificationStore struct {
	deleteByIssue func(ctx context.Context, issueID uint) error
}

func (m *mockNotificationStore) CreateBatch(context.Context, []*domainnotification.Notification) error {
	return nil
}

func (m *mockNotificationStore) GetByID(context.Context, uint) (*domainnotification.Notification, error) {
	return nil, domainnotification.ErrNotificationNotFound
}

func (m *mockNotificationStore) ListByRecipient(context.Context, uint, bool, int, int) ([]*domainnotification.Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationStore) CountUnread(context.Context, uint) (int64, error) { return 0, nil }

func (m *mockNotificationStore) MarkAsRead(context.Context, uint) error { return nil }

func (m *mockNotificationStore) DeleteByIssue(ctx context.Context, issueID uint) error {
	if m.deleteByIssue != nil {
		return m.deleteByIssue(ctx, issueID)
	}
	return nil
}

func (m *mockNotificationStore) ListUndelivered(context.Context, int, int) ([]*domainnotification.Notification, error) {
	return nil, nil
}

func (m *mockNotificationStore) MarkDelivered(context.Context, []uint, time.Time) error { return nil }

func (m *mockNotificationStore) IncrementAttempts(context.Context, []uint) error { return nil }
