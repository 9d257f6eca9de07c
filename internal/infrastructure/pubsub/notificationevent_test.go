package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "campusdesk/internal/domain/notification"
	vo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/shared/logger"
)

func newNotification(t *testing.T) *domain.Notification {
	t.Helper()
	n, err := domain.NewNotification(7, 3, 11, vo.NotificationTypeCommentAdded, "New comment on your issue", map[string]any{"comment_id": 5})
	require.NoError(t, err)
	require.NoError(t, n.SetID(99))
	return n
}

func TestNewNotificationEvent_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewNotificationEvent(newNotification(t)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 99, decoded["id"])
	assert.EqualValues(t, 7, decoded["recipient_id"])
	assert.EqualValues(t, 11, decoded["issue_id"])
	assert.Equal(t, "comment_added", decoded["type"])
	assert.Contains(t, decoded, "payload")
}

func TestRedisNotificationSink_DefaultsChannel(t *testing.T) {
	sink := NewRedisNotificationSink(nil, "", logger.NewNop())
	assert.Equal(t, DefaultNotificationChannel, sink.channel)
	assert.Equal(t, "redis", sink.Name())
}

func TestRedisNotificationSink_UnreachableServerFails(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	sink := NewRedisNotificationSink(client, "test", logger.NewNop())
	err := sink.Deliver(context.Background(), newNotification(t))
	assert.Error(t, err)
}
