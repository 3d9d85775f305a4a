package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Cart is owned by either an authenticated customer or an anonymous guest
// session; exactly one of the two identity columns is set.
type Cart struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID *uuid.UUID   `gorm:"column:customer_id;type:uuid;uniqueIndex:carts_customer_key" json:"customer_id,omitempty"`
	SessionID  *string      `gorm:"column:session_id;uniqueIndex:carts_session_key" json:"session_id,omitempty"`
	CouponID   *uuid.UUID   `gorm:"column:coupon_id;type:uuid" json:"coupon_id,omitempty"`
	Total      types.Money  `gorm:"column:total;type:decimal(20,2);not null;default:0" json:"total"`
	Discount   *types.Money `gorm:"column:discount;type:decimal(20,2)" json:"discount,omitempty"`

	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	Coupon *Coupon    `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime;index:carts_updated_at_idx" json:"updated_at"`
}

// CartItem is one line in a cart. The dedup key within a cart is
// (item, item type, color); the price column is a snapshot, overwritten on
// duplicate adds.
type CartItem struct {
	ID       uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CartID   uuid.UUID      `gorm:"column:cart_id;type:uuid;not null;index:cart_items_cart_idx" json:"cart_id"`
	ItemType enums.ItemType `gorm:"column:item_type;not null" json:"item_type"`
	ItemID   uuid.UUID      `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Quantity int            `gorm:"column:quantity;not null" json:"quantity"`
	Price    types.Money    `gorm:"column:price;type:decimal(20,2);not null" json:"price"`
	Color    *string        `gorm:"column:color" json:"color,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Ref returns the tagged item reference for the line.
func (i CartItem) Ref() types.ItemRef {
	return types.ItemRef{Type: i.ItemType, ID: i.ItemID}
}

// LineTotal is quantity times the snapshot price.
func (i CartItem) LineTotal() types.Money {
	return i.Price.MulInt(i.Quantity)
}
