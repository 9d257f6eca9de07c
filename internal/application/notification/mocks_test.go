package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "campusdesk/internal/domain/notification"
)

type memoryNotificationRepository struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]*row
	failNew error
}

type row struct {
	n           *domain.Notification
	attempts    int
	deliveredAt *time.Time
}

func newMemoryRepo() *memoryNotificationRepository {
	return &memoryNotificationRepository{rows: map[uint]*row{}}
}

func (m *memoryNotificationRepository) CreateBatch(_ context.Context, list []*domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNew != nil {
		return m.failNew
	}
	for _, n := range list {
		m.nextID++
		if err := n.SetID(m.nextID); err != nil {
			return err
		}
		m.rows[m.nextID] = &row{n: n}
	}
	return nil
}

func (m *memoryNotificationRepository) GetByID(_ context.Context, id uint) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return r.n, nil
}

func (m *memoryNotificationRepository) ListByRecipient(context.Context, uint, bool, int, int) ([]*domain.Notification, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (m *memoryNotificationRepository) CountUnread(context.Context, uint) (int64, error) {
	return 0, errors.New("not implemented")
}

func (m *memoryNotificationRepository) MarkAsRead(context.Context, uint) error { return nil }

func (m *memoryNotificationRepository) DeleteByIssue(context.Context, uint) error { return nil }

func (m *memoryNotificationRepository) ListUndelivered(_ context.Context, maxAttempts, limit int) ([]*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Notification
	for id := uint(1); id <= m.nextID && len(out) < limit; id++ {
		r, ok := m.rows[id]
		if !ok || r.deliveredAt != nil || r.attempts >= maxAttempts {
			continue
		}
		out = append(out, r.n)
	}
	return out, nil
}

func (m *memoryNotificationRepository) MarkDelivered(_ context.Context, ids []uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.rows[id].deliveredAt = &at
		m.rows[id].attempts++
	}
	return nil
}

func (m *memoryNotificationRepository) IncrementAttempts(_ context.Context, ids []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.rows[id].attempts++
	}
	return nil
}

func (m *memoryNotificationRepository) delivered(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].deliveredAt != nil
}

func (m *memoryNotificationRepository) attempts(id uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].attempts
}

type recordingSink struct {
	name string
	err  error

	mu  sync.Mutex
	got []uint
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n.ID())
	return s.err
}

func (s *recordingSink) received() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint(nil), s.got...)
}

type countingWaker struct {
	mu    sync.Mutex
	count int
}

func (w *countingWaker) Nudge() {
	w.mu.Lock()
	w.count++
	w.mu.Unlock()
}
