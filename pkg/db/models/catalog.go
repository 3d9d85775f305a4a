package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is the manufacturer vocabulary referenced from products.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:brands_name_key" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Category is a node in the three-level catalog tree. Root nodes have a nil
// parent; names are unique among siblings.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"column:name;not null;uniqueIndex:categories_parent_name_key" json:"name"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid;uniqueIndex:categories_parent_name_key" json:"parent_id,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// SpecialCategory is the parallel category vocabulary for special products.
type SpecialCategory struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:special_categories_name_key" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// Tag is a free-form label attached to products during import.
type Tag struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:tags_name_key" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// VariantName is a controlled vocabulary axis, e.g. "Color".
type VariantName struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:variant_names_name_key" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// ProductVariant is a (variant axis, value) pair; no two rows may share the
// same pair.
type ProductVariant struct {
	ID            uuid.UUID   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	VariantNameID uuid.UUID   `gorm:"column:variant_name_id;type:uuid;not null;uniqueIndex:product_variants_name_value_key" json:"variant_name_id"`
	Value         string      `gorm:"column:value;not null;uniqueIndex:product_variants_name_value_key" json:"value"`
	VariantName   VariantName `gorm:"foreignKey:VariantNameID" json:"variant_name,omitempty"`
	CreatedAt     time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
