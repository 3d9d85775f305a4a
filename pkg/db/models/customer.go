package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Customer is the minimal identity row carts, wishlists and wallet requests
// hang off. Authentication itself lives outside this service.
type Customer struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email         string      `gorm:"column:email;not null;uniqueIndex:customers_email_key" json:"email"`
	Name          string      `gorm:"column:name;not null" json:"name"`
	WalletBalance types.Money `gorm:"column:wallet_balance;type:decimal(20,2);not null;default:0" json:"wallet_balance"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
