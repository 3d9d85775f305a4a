package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// WalletRequest is a customer-submitted balance adjustment awaiting an admin
// decision. Approval mutates the customer balance in the same transaction.
type WalletRequest struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index:wallet_requests_customer_idx" json:"customer_id"`
	Direction  enums.WalletDirection `gorm:"column:direction;not null" json:"direction"`
	Amount     types.Money           `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Status     enums.RequestStatus   `gorm:"column:status;not null;default:'pending'" json:"status"`
	Note       *string               `gorm:"column:note" json:"note,omitempty"`
	DecidedAt  *time.Time            `gorm:"column:decided_at" json:"decided_at,omitempty"`

	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
