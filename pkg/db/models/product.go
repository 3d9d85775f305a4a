package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Product is the main catalog listing. Inventory is a derived relation
// queried through InventoryRecord by item ref; products do not carry a
// back-reference array.
type Product struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name             string     `gorm:"column:name;not null" json:"name"`
	SKU              string     `gorm:"column:sku;not null;uniqueIndex:products_sku_key" json:"sku"`
	BrandID          *uuid.UUID `gorm:"column:brand_id;type:uuid" json:"brand_id,omitempty"`
	CategoryID       *uuid.UUID `gorm:"column:category_id;type:uuid" json:"category_id,omitempty"`
	SubcategoryID    *uuid.UUID `gorm:"column:subcategory_id;type:uuid" json:"subcategory_id,omitempty"`
	SubsubcategoryID *uuid.UUID `gorm:"column:subsubcategory_id;type:uuid" json:"subsubcategory_id,omitempty"`
	Description      *string    `gorm:"column:description" json:"description,omitempty"`
	Currency         string     `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	MetaTitle        *string    `gorm:"column:meta_title" json:"meta_title,omitempty"`
	MetaDescription  *string    `gorm:"column:meta_description" json:"meta_description,omitempty"`
	ImageAltText     *string    `gorm:"column:image_alt_text" json:"image_alt_text,omitempty"`
	Gallery          []string   `gorm:"column:gallery;serializer:json" json:"gallery,omitempty"`
	IsBestSeller     bool       `gorm:"column:is_best_seller;not null;default:false" json:"is_best_seller"`
	IsShopByPet      bool       `gorm:"column:is_shop_by_pet;not null;default:false" json:"is_shop_by_pet"`
	IsNewArrival     bool       `gorm:"column:is_new_arrival;not null;default:false" json:"is_new_arrival"`
	IsActive         bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`

	Brand    *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Prices   []ProductPrice   `gorm:"polymorphic:Item;polymorphicValue:product" json:"prices,omitempty"`
	Tags     []Tag            `gorm:"many2many:product_tags" json:"tags,omitempty"`
	Variants []ProductVariant `gorm:"many2many:product_variant_links" json:"variants,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// SpecialProduct is the parallel taxonomy (supplies, marketing material and
// similar) with its own category tree.
type SpecialProduct struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"column:name;not null" json:"name"`
	SKU               string     `gorm:"column:sku;not null;uniqueIndex:special_products_sku_key" json:"sku"`
	SpecialCategoryID *uuid.UUID `gorm:"column:special_category_id;type:uuid" json:"special_category_id,omitempty"`
	Description       *string    `gorm:"column:description" json:"description,omitempty"`
	Currency          string     `gorm:"column:currency;not null;default:'USD'" json:"currency"`
	Gallery           []string   `gorm:"column:gallery;serializer:json" json:"gallery,omitempty"`
	IsActive          bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`

	SpecialCategory *SpecialCategory `gorm:"foreignKey:SpecialCategoryID" json:"special_category,omitempty"`
	Prices          []ProductPrice   `gorm:"polymorphic:Item;polymorphicValue:special_product" json:"prices,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ProductPrice is a per-city (amount, sale price) tuple shared by both
// product taxonomies through the item-type tag. At most one row per
// (item, city).
type ProductPrice struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ItemType  enums.ItemType `gorm:"column:item_type;not null;uniqueIndex:product_prices_item_city_key" json:"item_type"`
	ItemID    uuid.UUID      `gorm:"column:item_id;type:uuid;not null;uniqueIndex:product_prices_item_city_key" json:"item_id"`
	CityID    uuid.UUID      `gorm:"column:city_id;type:uuid;not null;uniqueIndex:product_prices_item_city_key" json:"city_id"`
	Amount    types.Money    `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	SalePrice *types.Money   `gorm:"column:sale_price;type:decimal(20,2)" json:"sale_price,omitempty"`
	City      City           `gorm:"foreignKey:CityID" json:"city,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
