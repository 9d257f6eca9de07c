package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/logger"
)

func TestNotifier_Enqueue_SkipsSelfAndDuplicates(t *testing.T) {
	repo := newMemoryRepo()
	n := NewNotifier(repo, nil, logger.NewNop())

	count, err := n.Enqueue(context.Background(),
		Draft{RecipientID: 1, SenderID: 2, IssueID: 9, Type: vo.NotificationTypeCommentAdded, Message: "new comment"},
		Draft{RecipientID: 1, SenderID: 2, IssueID: 9, Type: vo.NotificationTypeCommentAdded, Message: "reply"},
		Draft{RecipientID: 2, SenderID: 2, IssueID: 9, Type: vo.NotificationTypeCommentAdded, Message: "self"},
		Draft{RecipientID: 0, SenderID: 2, IssueID: 9, Type: vo.NotificationTypeIssueUpdated, Message: "nobody"},
		Draft{RecipientID: 3, SenderID: 2, IssueID: 9, Type: vo.NotificationTypeCommentAdded, Message: "reply"},
	)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, repo.rows, 2)
}

func TestNotifier_Enqueue_NothingToWrite(t *testing.T) {
	repo := newMemoryRepo()
	repo.failNew = errors.New("must not be called")
	n := NewNotifier(repo, nil, logger.NewNop())

	count, err := n.Enqueue(context.Background(),
		Draft{RecipientID: 4, SenderID: 4, IssueID: 1, Type: vo.NotificationTypeUpvoteReceived, Message: "self"},
	)

	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotifier_Enqueue_PropagatesStoreError(t *testing.T) {
	repo := newMemoryRepo()
	repo.failNew = errors.New("disk full")
	n := NewNotifier(repo, nil, logger.NewNop())

	_, err := n.Enqueue(context.Background(),
		Draft{RecipientID: 1, SenderID: 2, IssueID: 3, Type: vo.NotificationTypeIssueUpdated, Message: "status changed"},
	)

	assert.EqualError(t, err, "disk full")
}

func TestNotifier_Enqueue_RejectsInvalidDraft(t *testing.T) {
	n := NewNotifier(newMemoryRepo(), nil, logger.NewNop())

	_, err := n.Enqueue(context.Background(),
		Draft{RecipientID: 1, SenderID: 2, IssueID: 3, Type: vo.NotificationType("bogus"), Message: "x"},
	)

	assert.Error(t, err)
}

func TestNotifier_Nudge(t *testing.T) {
	w := &countingWaker{}
	n := NewNotifier(newMemoryRepo(), w, logger.NewNop())

	n.Nudge()
	n.Nudge()
	assert.Equal(t, 2, w.count)

	assert.NotPanics(t, func() { NewNotifier(newMemoryRepo(), nil, logger.NewNop()).Nudge() })
}
