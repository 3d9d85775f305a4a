package catalog

import (
	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	ActiveOnly bool
	Search     string
}

// PriceInput is one per-city price tuple on a create or update payload.
type PriceInput struct {
	CityID    uuid.UUID    `json:"city_id" validate:"required"`
	Amount    types.Money  `json:"amount" validate:"required"`
	SalePrice *types.Money `json:"sale_price,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name             string       `json:"name" validate:"required"`
	SKU              string       `json:"sku" validate:"required"`
	BrandID          *uuid.UUID   `json:"brand_id,omitempty"`
	CategoryID       *uuid.UUID   `json:"category_id,omitempty"`
	SubcategoryID    *uuid.UUID   `json:"subcategory_id,omitempty"`
	SubsubcategoryID *uuid.UUID   `json:"subsubcategory_id,omitempty"`
	Description      *string      `json:"description,omitempty"`
	Currency         string       `json:"currency,omitempty"`
	MetaTitle        *string      `json:"meta_title,omitempty"`
	MetaDescription  *string      `json:"meta_description,omitempty"`
	ImageAltText     *string      `json:"image_alt_text,omitempty"`
	Gallery          []string     `json:"gallery,omitempty"`
	IsBestSeller     bool         `json:"is_best_seller"`
	IsShopByPet      bool         `json:"is_shop_by_pet"`
	IsNewArrival     bool         `json:"is_new_arrival"`
	Prices           []PriceInput `json:"prices,omitempty" validate:"dive"`
	TagIDs           []uuid.UUID  `json:"tag_ids,omitempty"`
	VariantIDs       []uuid.UUID  `json:"variant_ids,omitempty"`
}

// UpdateProductInput holds optional mutation values; nil means unchanged.
type UpdateProductInput struct {
	Name             *string       `json:"name,omitempty"`
	BrandID          *uuid.UUID    `json:"brand_id,omitempty"`
	CategoryID       *uuid.UUID    `json:"category_id,omitempty"`
	SubcategoryID    *uuid.UUID    `json:"subcategory_id,omitempty"`
	SubsubcategoryID *uuid.UUID    `json:"subsubcategory_id,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Currency         *string       `json:"currency,omitempty"`
	MetaTitle        *string       `json:"meta_title,omitempty"`
	MetaDescription  *string       `json:"meta_description,omitempty"`
	ImageAltText     *string       `json:"image_alt_text,omitempty"`
	Gallery          *[]string     `json:"gallery,omitempty"`
	IsBestSeller     *bool         `json:"is_best_seller,omitempty"`
	IsShopByPet      *bool         `json:"is_shop_by_pet,omitempty"`
	IsNewArrival     *bool         `json:"is_new_arrival,omitempty"`
	IsActive         *bool         `json:"is_active,omitempty"`
	Prices           *[]PriceInput `json:"prices,omitempty"`
	TagIDs           *[]uuid.UUID  `json:"tag_ids,omitempty"`
	VariantIDs       *[]uuid.UUID  `json:"variant_ids,omitempty"`
}

// CreateSpecialProductInput holds the payload for the parallel taxonomy.
type CreateSpecialProductInput struct {
	Name              string       `json:"name" validate:"required"`
	SKU               string       `json:"sku" validate:"required"`
	SpecialCategoryID *uuid.UUID   `json:"special_category_id,omitempty"`
	Description       *string      `json:"description,omitempty"`
	Currency          string       `json:"currency,omitempty"`
	Gallery           []string     `json:"gallery,omitempty"`
	Prices            []PriceInput `json:"prices,omitempty" validate:"dive"`
}

// UpdateSpecialProductInput mirrors UpdateProductInput for special products.
type UpdateSpecialProductInput struct {
	Name              *string       `json:"name,omitempty"`
	SpecialCategoryID *uuid.UUID    `json:"special_category_id,omitempty"`
	Description       *string       `json:"description,omitempty"`
	Currency          *string       `json:"currency,omitempty"`
	Gallery           *[]string     `json:"gallery,omitempty"`
	IsActive          *bool         `json:"is_active,omitempty"`
	Prices            *[]PriceInput `json:"prices,omitempty"`
}

// ProductDTO is the read shape; IsOutOfStock is only populated when the
// caller scoped the read to a city.
type ProductDTO struct {
	models.Product
	IsOutOfStock *bool `json:"is_out_of_stock,omitempty"`
}

// SpecialProductDTO mirrors ProductDTO for the parallel taxonomy.
type SpecialProductDTO struct {
	models.SpecialProduct
	IsOutOfStock *bool `json:"is_out_of_stock,omitempty"`
}
