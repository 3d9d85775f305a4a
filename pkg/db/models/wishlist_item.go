package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
)

// WishlistItem links a customer to a liked item; set semantics per
// (customer, item type, item).
type WishlistItem struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID      `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:wishlist_items_customer_item_key" json:"customer_id"`
	ItemType   enums.ItemType `gorm:"column:item_type;not null;uniqueIndex:wishlist_items_customer_item_key" json:"item_type"`
	ItemID     uuid.UUID      `gorm:"column:item_id;type:uuid;not null;uniqueIndex:wishlist_items_customer_item_key" json:"item_id"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
