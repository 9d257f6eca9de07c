package models

import (
	"gorm.io/datatypes"

	"campusdesk/internal/shared/constants"
)

type NotificationModel struct {
	ID          uint           `gorm:"primaryKey"`
	RecipientID uint           `gorm:"not null;index:idx_notifications_recipient_read"`
	SenderID    uint           `gorm:"not null"`
	IssueID     uint           `gorm:"not null;index"`
	Type        string         `gorm:"size:20;not null"`
	Message     string         `gorm:"type:text;not null"`
	Payload     datatypes.JSON `gorm:"type:json"`
	IsRead      bool           `gorm:"not null;default:false;index:idx_notifications_recipient_read"`
	Attempts    int            `gorm:"not null;default:0"`
	DeliveredAt *int64         `gorm:"index"`
	CreatedAt   int64          `gorm:"autoCreateTime:milli;not null;index"`
}

func (NotificationModel) TableName() string {
	return constants.TableNotifications
}
