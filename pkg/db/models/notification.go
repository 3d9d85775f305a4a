package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
)

// Notification stores in-app notification payloads for admins or customers.
type Notification struct {
	ID         uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Audience   enums.NotificationAudience `gorm:"column:audience;not null;index:notifications_audience_idx" json:"audience"`
	CustomerID *uuid.UUID                 `gorm:"column:customer_id;type:uuid;index:notifications_customer_idx" json:"customer_id,omitempty"`
	Type       enums.NotificationType     `gorm:"column:type;not null" json:"type"`
	Title      string                     `gorm:"column:title;not null" json:"title"`
	Message    string                     `gorm:"column:message;not null" json:"message"`
	ReadAt     *time.Time                 `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt  time.Time                  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
