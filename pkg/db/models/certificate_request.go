package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
)

// CertificateRequest is a customer application for a certificate document,
// resolved by an admin decision.
type CertificateRequest struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index:certificate_requests_customer_idx" json:"customer_id"`
	CertificateType string              `gorm:"column:certificate_type;not null" json:"certificate_type"`
	Status          enums.RequestStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Note            *string             `gorm:"column:note" json:"note,omitempty"`
	DecidedAt       *time.Time          `gorm:"column:decided_at" json:"decided_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
