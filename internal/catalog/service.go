package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Service exposes catalog management over both product taxonomies.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, productID uuid.UUID, cityName string) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	AttachProductImages(ctx context.Context, productID uuid.UUID, paths []string) (*ProductDTO, error)
	AttachSpecialProductImages(ctx context.Context, productID uuid.UUID, paths []string) (*SpecialProductDTO, error)

	CreateSpecialProduct(ctx context.Context, input CreateSpecialProductInput) (*SpecialProductDTO, error)
	UpdateSpecialProduct(ctx context.Context, productID uuid.UUID, input UpdateSpecialProductInput) (*SpecialProductDTO, error)
	GetSpecialProduct(ctx context.Context, productID uuid.UUID, cityName string) (*SpecialProductDTO, error)
	ListSpecialProducts(ctx context.Context) ([]models.SpecialProduct, error)
	DeleteSpecialProduct(ctx context.Context, productID uuid.UUID) error
}

// stockReader reports live quantity for an item within a city. Implemented by
// the inventory repository; injected to keep the derived stock relation out
// of this package.
type stockReader interface {
	CityQuantity(ctx context.Context, ref types.ItemRef, cityID uuid.UUID) (int, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	stock    stockReader
}

// NewService constructs the catalog service.
func NewService(repo *Repository, dbClient *db.Client, stock stockReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	return &service{repo: repo, dbClient: dbClient, stock: stock}, nil
}

// CreateProduct inserts a product with its price, tag and variant links in
// one transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validatePrices(input.Prices); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:             input.Name,
		SKU:              input.SKU,
		BrandID:          input.BrandID,
		CategoryID:       input.CategoryID,
		SubcategoryID:    input.SubcategoryID,
		SubsubcategoryID: input.SubsubcategoryID,
		Description:      input.Description,
		Currency:         defaultCurrency(input.Currency),
		MetaTitle:        input.MetaTitle,
		MetaDescription:  input.MetaDescription,
		ImageAltText:     input.ImageAltText,
		Gallery:          input.Gallery,
		IsBestSeller:     input.IsBestSeller,
		IsShopByPet:      input.IsShopByPet,
		IsNewArrival:     input.IsNewArrival,
		IsActive:         true,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "products_sku_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return err
		}
		ref := types.NewItemRef(enums.ItemTypeProduct, product.ID)
		if err := repo.ReplacePrices(ctx, ref, pricesFromInput(input.Prices)); err != nil {
			return err
		}
		if err := s.linkTagsAndVariants(ctx, repo, product, input.TagIDs, input.VariantIDs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, product.ID, "")
}

// UpdateProduct applies the provided fields; price, tag and variant lists are
// replaced wholesale when present.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Prices != nil {
		if err := validatePrices(*input.Prices); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}

	applyProductUpdate(product, input)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// Save would rewrite association rows from the preloaded slices;
		// clear them and go through the explicit replace helpers instead.
		persisted := *product
		persisted.Prices = nil
		persisted.Tags = nil
		persisted.Variants = nil
		if err := repo.SaveProduct(ctx, &persisted); err != nil {
			return err
		}
		if input.Prices != nil {
			ref := types.NewItemRef(enums.ItemTypeProduct, product.ID)
			if err := repo.ReplacePrices(ctx, ref, pricesFromInput(*input.Prices)); err != nil {
				return err
			}
		}
		if input.TagIDs != nil {
			tags, err := repo.FindTagsByIDs(ctx, *input.TagIDs)
			if err != nil {
				return err
			}
			if err := repo.ReplaceProductTags(ctx, &persisted, tags); err != nil {
				return err
			}
		}
		if input.VariantIDs != nil {
			variants, err := repo.FindVariantsByIDs(ctx, *input.VariantIDs)
			if err != nil {
				return err
			}
			if err := repo.ReplaceProductVariants(ctx, &persisted, variants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, productID, "")
}

// GetProduct loads a product; when cityName is given the response carries the
// out-of-stock flag for that city.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, cityName string) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}

	dto := &ProductDTO{Product: *product}
	if cityName != "" {
		ref := types.NewItemRef(enums.ItemTypeProduct, product.ID)
		outOfStock, err := s.outOfStockForCity(ctx, ref, cityName)
		if err != nil {
			return nil, err
		}
		dto.IsOutOfStock = &outOfStock
	}
	return dto, nil
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		return notFoundOr(err, "product not found")
	}
	// Cart and wishlist rows keep their now-dangling references; reads
	// resolve existence lazily rather than cascading the delete.
	return s.repo.DeleteProduct(ctx, productID)
}

// AttachProductImages appends already-stored image paths to the product
// gallery. Callers own the stored files and are expected to remove them when
// this returns an error.
func (s *service) AttachProductImages(ctx context.Context, productID uuid.UUID, paths []string) (*ProductDTO, error) {
	if len(paths) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found")
	}

	persisted := *product
	persisted.Prices = nil
	persisted.Tags = nil
	persisted.Variants = nil
	persisted.Gallery = append(persisted.Gallery, paths...)
	if err := s.repo.SaveProduct(ctx, &persisted); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, productID, "")
}

// AttachSpecialProductImages mirrors AttachProductImages for the parallel
// taxonomy.
func (s *service) AttachSpecialProductImages(ctx context.Context, productID uuid.UUID, paths []string) (*SpecialProductDTO, error) {
	if len(paths) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	product, err := s.repo.FindSpecialProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "special product not found")
	}

	persisted := *product
	persisted.Prices = nil
	persisted.Gallery = append(persisted.Gallery, paths...)
	if err := s.repo.SaveSpecialProduct(ctx, &persisted); err != nil {
		return nil, err
	}
	return s.GetSpecialProduct(ctx, productID, "")
}

// CreateSpecialProduct mirrors CreateProduct for the parallel taxonomy.
func (s *service) CreateSpecialProduct(ctx context.Context, input CreateSpecialProductInput) (*SpecialProductDTO, error) {
	if err := validatePrices(input.Prices); err != nil {
		return nil, err
	}

	product := &models.SpecialProduct{
		Name:              input.Name,
		SKU:               input.SKU,
		SpecialCategoryID: input.SpecialCategoryID,
		Description:       input.Description,
		Currency:          defaultCurrency(input.Currency),
		Gallery:           input.Gallery,
		IsActive:          true,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateSpecialProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "special_products_sku_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return err
		}
		ref := types.NewItemRef(enums.ItemTypeSpecial, product.ID)
		return repo.ReplacePrices(ctx, ref, pricesFromInput(input.Prices))
	})
	if err != nil {
		return nil, err
	}

	return s.GetSpecialProduct(ctx, product.ID, "")
}

func (s *service) UpdateSpecialProduct(ctx context.Context, productID uuid.UUID, input UpdateSpecialProductInput) (*SpecialProductDTO, error) {
	if input.Prices != nil {
		if err := validatePrices(*input.Prices); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindSpecialProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "special product not found")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SpecialCategoryID != nil {
		product.SpecialCategoryID = input.SpecialCategoryID
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Currency != nil {
		product.Currency = *input.Currency
	}
	if input.Gallery != nil {
		product.Gallery = *input.Gallery
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		persisted := *product
		persisted.Prices = nil
		if err := repo.SaveSpecialProduct(ctx, &persisted); err != nil {
			return err
		}
		if input.Prices != nil {
			ref := types.NewItemRef(enums.ItemTypeSpecial, product.ID)
			return repo.ReplacePrices(ctx, ref, pricesFromInput(*input.Prices))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetSpecialProduct(ctx, productID, "")
}

func (s *service) GetSpecialProduct(ctx context.Context, productID uuid.UUID, cityName string) (*SpecialProductDTO, error) {
	product, err := s.repo.FindSpecialProductByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, "special product not found")
	}

	dto := &SpecialProductDTO{SpecialProduct: *product}
	if cityName != "" {
		ref := types.NewItemRef(enums.ItemTypeSpecial, product.ID)
		outOfStock, err := s.outOfStockForCity(ctx, ref, cityName)
		if err != nil {
			return nil, err
		}
		dto.IsOutOfStock = &outOfStock
	}
	return dto, nil
}

func (s *service) ListSpecialProducts(ctx context.Context) ([]models.SpecialProduct, error) {
	return s.repo.ListSpecialProducts(ctx)
}

func (s *service) DeleteSpecialProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindSpecialProductByID(ctx, productID); err != nil {
		return notFoundOr(err, "special product not found")
	}
	return s.repo.DeleteSpecialProduct(ctx, productID)
}

func (s *service) outOfStockForCity(ctx context.Context, ref types.ItemRef, cityName string) (bool, error) {
	city, err := s.repo.FindCityByName(ctx, cityName)
	if err != nil {
		return false, notFoundOr(err, "city not found")
	}
	qty, err := s.stock.CityQuantity(ctx, ref, city.ID)
	if err != nil {
		return false, err
	}
	return qty <= 0, nil
}

func (s *service) linkTagsAndVariants(ctx context.Context, repo *Repository, product *models.Product, tagIDs, variantIDs []uuid.UUID) error {
	if len(tagIDs) > 0 {
		tags, err := repo.FindTagsByIDs(ctx, tagIDs)
		if err != nil {
			return err
		}
		if err := repo.ReplaceProductTags(ctx, product, tags); err != nil {
			return err
		}
	}
	if len(variantIDs) > 0 {
		variants, err := repo.FindVariantsByIDs(ctx, variantIDs)
		if err != nil {
			return err
		}
		if err := repo.ReplaceProductVariants(ctx, product, variants); err != nil {
			return err
		}
	}
	return nil
}

// validatePrices rejects non-positive amounts and duplicate cities within one
// price list.
func validatePrices(prices []PriceInput) error {
	seen := make(map[uuid.UUID]struct{}, len(prices))
	for _, p := range prices {
		if !p.Amount.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price amount must be positive")
		}
		if p.SalePrice != nil && p.SalePrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "sale price cannot be negative")
		}
		if _, dup := seen[p.CityID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate city in price list")
		}
		seen[p.CityID] = struct{}{}
	}
	return nil
}

func pricesFromInput(inputs []PriceInput) []models.ProductPrice {
	prices := make([]models.ProductPrice, 0, len(inputs))
	for _, in := range inputs {
		prices = append(prices, models.ProductPrice{
			CityID:    in.CityID,
			Amount:    in.Amount,
			SalePrice: in.SalePrice,
		})
	}
	return prices
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.SubcategoryID != nil {
		product.SubcategoryID = input.SubcategoryID
	}
	if input.SubsubcategoryID != nil {
		product.SubsubcategoryID = input.SubsubcategoryID
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Currency != nil {
		product.Currency = *input.Currency
	}
	if input.MetaTitle != nil {
		product.MetaTitle = input.MetaTitle
	}
	if input.MetaDescription != nil {
		product.MetaDescription = input.MetaDescription
	}
	if input.ImageAltText != nil {
		product.ImageAltText = input.ImageAltText
	}
	if input.Gallery != nil {
		product.Gallery = *input.Gallery
	}
	if input.IsBestSeller != nil {
		product.IsBestSeller = *input.IsBestSeller
	}
	if input.IsShopByPet != nil {
		product.IsShopByPet = *input.IsShopByPet
	}
	if input.IsNewArrival != nil {
		product.IsNewArrival = *input.IsNewArrival
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}

func defaultCurrency(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return err
}
