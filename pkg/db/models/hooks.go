package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned client side so callers can reference a record before the
// insert round-trips. Explicitly set IDs are preserved.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *Brand) BeforeCreate(*gorm.DB) error           { ensureID(&m.ID); return nil }
func (m *Category) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *SpecialCategory) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *Tag) BeforeCreate(*gorm.DB) error             { ensureID(&m.ID); return nil }
func (m *VariantName) BeforeCreate(*gorm.DB) error     { ensureID(&m.ID); return nil }
func (m *ProductVariant) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }
func (m *City) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *Warehouse) BeforeCreate(*gorm.DB) error       { ensureID(&m.ID); return nil }
func (m *Product) BeforeCreate(*gorm.DB) error         { ensureID(&m.ID); return nil }
func (m *SpecialProduct) BeforeCreate(*gorm.DB) error  { ensureID(&m.ID); return nil }
func (m *ProductPrice) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (m *InventoryRecord) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *Cart) BeforeCreate(*gorm.DB) error            { ensureID(&m.ID); return nil }
func (m *CartItem) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *Coupon) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *WishlistItem) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (m *Customer) BeforeCreate(*gorm.DB) error        { ensureID(&m.ID); return nil }
func (m *Notification) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }
func (m *WalletRequest) BeforeCreate(*gorm.DB) error   { ensureID(&m.ID); return nil }
func (m *Policy) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *CertificateRequest) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
