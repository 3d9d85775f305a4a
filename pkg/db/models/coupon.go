package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Coupon applies either a percentage (Value in [0,100]) or a fixed deduction
// to a cart total once the minimum purchase floor is met.
type Coupon struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Code        string           `gorm:"column:code;not null;uniqueIndex:coupons_code_key" json:"code"`
	Type        enums.CouponType `gorm:"column:type;not null" json:"type"`
	Value       types.Money      `gorm:"column:value;type:decimal(20,2);not null" json:"value"`
	MinPurchase types.Money      `gorm:"column:min_purchase;type:decimal(20,2);not null;default:0" json:"min_purchase"`
	MaxDiscount *types.Money     `gorm:"column:max_discount;type:decimal(20,2)" json:"max_discount,omitempty"`
	ExpiresAt   *time.Time       `gorm:"column:expires_at" json:"expires_at,omitempty"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Expired reports whether the coupon has an expiry in the past.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
