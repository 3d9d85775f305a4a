package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
)

// Default thresholds applied when a record is created without explicit ones.
const (
	DefaultStockAlertThreshold = 10
	DefaultExpiryDateThreshold = 30
)

// InventoryRecord tracks the quantity of one item in one warehouse. After
// reconciliation at most one record exists per (item, warehouse, city).
type InventoryRecord struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ItemType            enums.ItemType `gorm:"column:item_type;not null;index:inventory_records_item_idx" json:"item_type"`
	ItemID              uuid.UUID      `gorm:"column:item_id;type:uuid;not null;index:inventory_records_item_idx" json:"item_id"`
	SKU                 string         `gorm:"column:sku;not null;index:inventory_records_sku_idx" json:"sku"`
	WarehouseID         uuid.UUID      `gorm:"column:warehouse_id;type:uuid;not null" json:"warehouse_id"`
	CityID              uuid.UUID      `gorm:"column:city_id;type:uuid;not null" json:"city_id"`
	Quantity            int            `gorm:"column:quantity;not null;default:0" json:"quantity"`
	StockAlertThreshold int            `gorm:"column:stock_alert_threshold;not null;default:10" json:"stock_alert_threshold"`
	ExpiryDateThreshold int            `gorm:"column:expiry_date_threshold;not null;default:30" json:"expiry_date_threshold"`
	BatchID             *string        `gorm:"column:batch_id" json:"batch_id,omitempty"`
	ExpiryDate          *time.Time     `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	Barcode             *string        `gorm:"column:barcode" json:"barcode,omitempty"`
	VAT                 *float64       `gorm:"column:vat" json:"vat,omitempty"`
	Location            *string        `gorm:"column:location" json:"location,omitempty"`
	LastRestocked       *time.Time     `gorm:"column:last_restocked" json:"last_restocked,omitempty"`

	Warehouse Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	City      City      `gorm:"foreignKey:CityID" json:"city,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
