package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"campusdesk/internal/domain/notification"
	vo "campusdesk/internal/domain/notification/valueobjects"
	"campusdesk/internal/infrastructure/persistence/models"
)

type NotificationMapper interface {
	ToEntity(model *models.NotificationModel) (*notification.Notification, error)
	ToModel(entity *notification.Notification) (*models.NotificationModel, error)
	ToEntities(models []models.NotificationModel) ([]*notification.Notification, error)
}

type NotificationMapperImpl struct{}

func NewNotificationMapper() NotificationMapper {
	return &NotificationMapperImpl{}
}

func (m *NotificationMapperImpl) ToEntity(model *models.NotificationModel) (*notification.Notification, error) {
	if model == nil {
		return nil, nil
	}

	notificationType, err := vo.NewNotificationType(model.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification type: %w", err)
	}

	var payload map[string]any
	if len(model.Payload) > 0 {
		if err := json.Unmarshal(model.Payload, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification payload (id=%d): %w", model.ID, err)
		}
	}

	entity, err := notification.ReconstructNotification(
		model.ID,
		model.RecipientID,
		model.SenderID,
		model.IssueID,
		notificationType,
		model.Message,
		payload,
		model.IsRead,
		model.Attempts,
		millisPtrToTime(model.DeliveredAt),
		millisToTime(model.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct notification entity: %w", err)
	}

	return entity, nil
}

func (m *NotificationMapperImpl) ToModel(entity *notification.Notification) (*models.NotificationModel, error) {
	if entity == nil {
		return nil, nil
	}

	payload, err := json.Marshal(entity.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	return &models.NotificationModel{
		ID:          entity.ID(),
		RecipientID: entity.RecipientID(),
		SenderID:    entity.SenderID(),
		IssueID:     entity.IssueID(),
		Type:        entity.Type().String(),
		Message:     entity.Message(),
		Payload:     datatypes.JSON(payload),
		IsRead:      entity.IsRead(),
		Attempts:    entity.Attempts(),
		DeliveredAt: timePtrToMillis(entity.DeliveredAt()),
		CreatedAt:   entity.CreatedAt().UnixMilli(),
	}, nil
}

func (m *NotificationMapperImpl) ToEntities(list []models.NotificationModel) ([]*notification.Notification, error) {
	entities := make([]*notification.Notification, 0, len(list))
	for i := range list {
		entity, err := m.ToEntity(&list[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
