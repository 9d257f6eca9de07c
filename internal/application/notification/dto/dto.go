package dto

import (
	"time"

	domain "campusdesk/internal/domain/notification"
)

type NotificationDTO struct {
	ID          uint           `json:"id"`
	RecipientID uint           `json:"recipient_id"`
	SenderID    uint           `json:"sender_id"`
	IssueID     uint           `json:"issue_id"`
	Type        string         `json:"type"`
	Message     string         `json:"message"`
	Payload     map[string]any `json:"payload,omitempty"`
	IsRead      bool           `json:"is_read"`
	CreatedAt   time.Time      `json:"created_at"`
}

type NotificationListDTO struct {
	Items       []*NotificationDTO `json:"items"`
	Total       int64              `json:"total"`
	UnreadCount int64              `json:"unread_count"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
}

func ToNotificationDTO(n *domain.Notification) *NotificationDTO {
	if n == nil {
		return nil
	}
	payload := n.Payload()
	if len(payload) == 0 {
		payload = nil
	}
	return &NotificationDTO{
		ID:          n.ID(),
		RecipientID: n.RecipientID(),
		SenderID:    n.SenderID(),
		IssueID:     n.IssueID(),
		Type:        n.Type().String(),
		Message:     n.Message(),
		Payload:     payload,
		IsRead:      n.IsRead(),
		CreatedAt:   n.CreatedAt(),
	}
}

func ToNotificationDTOs(list []*domain.Notification) []*NotificationDTO {
	out := make([]*NotificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationDTO(n))
	}
	return out
}
