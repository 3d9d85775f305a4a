package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Repository wires together catalog persistence: the two product taxonomies
// plus the vocabulary tables they reference.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// --- brands ---

func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.WithContext(ctx).Order("name asc").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *Repository) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *Repository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Brand{}).Error
}

func (r *Repository) FindBrandByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *Repository) FindBrandByName(ctx context.Context, name string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// FindOrCreateBrand resolves a brand by name, inserting it when absent. A
// duplicate-key race on insert falls back to a re-fetch.
func (r *Repository) FindOrCreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	brand, err := r.FindBrandByName(ctx, name)
	if err == nil {
		return brand, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.Brand{Name: name}
	if createErr := r.CreateBrand(ctx, created); createErr != nil {
		if db.IsUniqueViolation(createErr, "brands_name_key") {
			return r.FindBrandByName(ctx, name)
		}
		return nil, createErr
	}
	return created, nil
}

// --- categories ---

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) ListCategories(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.WithContext(ctx).Order("name asc")
	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) findCategoryByName(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	var category models.Category
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindOrCreateCategory resolves a category node by (name, parent).
func (r *Repository) FindOrCreateCategory(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	category, err := r.findCategoryByName(ctx, name, parentID)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.Category{Name: name, ParentID: parentID}
	if createErr := r.CreateCategory(ctx, created); createErr != nil {
		if db.IsUniqueViolation(createErr, "categories_parent_name_key") {
			return r.findCategoryByName(ctx, name, parentID)
		}
		return nil, createErr
	}
	return created, nil
}

// --- special categories ---

func (r *Repository) CreateSpecialCategory(ctx context.Context, category *models.SpecialCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) ListSpecialCategories(ctx context.Context) ([]models.SpecialCategory, error) {
	var categories []models.SpecialCategory
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) FindOrCreateSpecialCategory(ctx context.Context, name string) (*models.SpecialCategory, error) {
	var category models.SpecialCategory
	err := r.db.WithContext(ctx).First(&category, "name = ?", name).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.SpecialCategory{Name: name}
	if createErr := r.CreateSpecialCategory(ctx, created); createErr != nil {
		if db.IsUniqueViolation(createErr, "special_categories_name_key") {
			err = r.db.WithContext(ctx).First(&category, "name = ?", name).Error
			if err != nil {
				return nil, err
			}
			return &category, nil
		}
		return nil, createErr
	}
	return created, nil
}

// --- tags ---

func (r *Repository) CreateTag(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *Repository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tag{}).Error
}

func (r *Repository) FindTagsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "name = ?", name).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.Tag{Name: name}
	if createErr := r.CreateTag(ctx, created); createErr != nil {
		if db.IsUniqueViolation(createErr, "tags_name_key") {
			err = r.db.WithContext(ctx).First(&tag, "name = ?", name).Error
			if err != nil {
				return nil, err
			}
			return &tag, nil
		}
		return nil, createErr
	}
	return created, nil
}

// --- variant vocabulary ---

func (r *Repository) ListVariantNames(ctx context.Context) ([]models.VariantName, error) {
	var names []models.VariantName
	if err := r.db.WithContext(ctx).Order("name asc").Find(&names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *Repository) FindOrCreateVariantName(ctx context.Context, name string) (*models.VariantName, error) {
	var vn models.VariantName
	err := r.db.WithContext(ctx).First(&vn, "name = ?", name).Error
	if err == nil {
		return &vn, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.VariantName{Name: name}
	if createErr := r.db.WithContext(ctx).Create(created).Error; createErr != nil {
		if db.IsUniqueViolation(createErr, "variant_names_name_key") {
			err = r.db.WithContext(ctx).First(&vn, "name = ?", name).Error
			if err != nil {
				return nil, err
			}
			return &vn, nil
		}
		return nil, createErr
	}
	return created, nil
}

func (r *Repository) ListVariants(ctx context.Context) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := r.db.WithContext(ctx).Preload("VariantName").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *Repository) FindVariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []models.ProductVariant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// FindOrCreateVariant resolves a (variant axis, value) pair, creating the
// axis row first when needed.
func (r *Repository) FindOrCreateVariant(ctx context.Context, axisName, value string) (*models.ProductVariant, error) {
	axis, err := r.FindOrCreateVariantName(ctx, axisName)
	if err != nil {
		return nil, err
	}

	var variant models.ProductVariant
	err = r.db.WithContext(ctx).
		First(&variant, "variant_name_id = ? AND value = ?", axis.ID, value).Error
	if err == nil {
		return &variant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.ProductVariant{VariantNameID: axis.ID, Value: value}
	if createErr := r.db.WithContext(ctx).Create(created).Error; createErr != nil {
		if db.IsUniqueViolation(createErr, "product_variants_name_value_key") {
			err = r.db.WithContext(ctx).
				First(&variant, "variant_name_id = ? AND value = ?", axis.ID, value).Error
			if err != nil {
				return nil, err
			}
			return &variant, nil
		}
		return nil, createErr
	}
	return created, nil
}

// --- cities and warehouses ---

func (r *Repository) CreateCity(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Create(city).Error
}

func (r *Repository) ListCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := r.db.WithContext(ctx).Order("name asc").Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *Repository) FindCityByName(ctx context.Context, name string) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *Repository) FindOrCreateCity(ctx context.Context, name string) (*models.City, error) {
	city, err := r.FindCityByName(ctx, name)
	if err == nil {
		return city, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.City{Name: name}
	if createErr := r.CreateCity(ctx, created); createErr != nil {
		if db.IsUniqueViolation(createErr, "cities_name_key") {
			return r.FindCityByName(ctx, name)
		}
		return nil, createErr
	}
	return created, nil
}

func (r *Repository) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	return r.db.WithContext(ctx).Create(warehouse).Error
}

func (r *Repository) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := r.db.WithContext(ctx).Preload("City").Order("name asc").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *Repository) FindWarehouseByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *Repository) FindWarehouseByName(ctx context.Context, name string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

// --- products ---

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindProductByID loads a product with its pricing, tag and variant
// associations.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Preload("Prices").
		Preload("Prices.City").
		Preload("Tags").
		Preload("Variants").
		Preload("Variants.VariantName").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductSKUExists reports whether any product (either taxonomy) already
// carries the SKU.
func (r *Repository) ProductSKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.SpecialProduct{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListProducts applies the optional filters and orders newest-first.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Preload("Prices").
		Order("created_at desc")
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListAllProductsWithVariants loads every product with the associations the
// CSV export denormalizes.
func (r *Repository) ListAllProductsWithVariants(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Preload("Prices").
		Preload("Prices.City").
		Preload("Tags").
		Preload("Variants").
		Preload("Variants.VariantName").
		Order("created_at asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) ReplaceProductTags(ctx context.Context, product *models.Product, tags []models.Tag) error {
	return r.db.WithContext(ctx).Model(product).Association("Tags").Replace(tags)
}

func (r *Repository) ReplaceProductVariants(ctx context.Context, product *models.Product, variants []models.ProductVariant) error {
	return r.db.WithContext(ctx).Model(product).Association("Variants").Replace(variants)
}

// --- special products ---

func (r *Repository) CreateSpecialProduct(ctx context.Context, product *models.SpecialProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) SaveSpecialProduct(ctx context.Context, product *models.SpecialProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) DeleteSpecialProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SpecialProduct{}).Error
}

func (r *Repository) FindSpecialProductByID(ctx context.Context, id uuid.UUID) (*models.SpecialProduct, error) {
	var product models.SpecialProduct
	err := r.db.WithContext(ctx).
		Preload("SpecialCategory").
		Preload("Prices").
		Preload("Prices.City").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindSpecialProductBySKU(ctx context.Context, sku string) (*models.SpecialProduct, error) {
	var product models.SpecialProduct
	if err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) ListSpecialProducts(ctx context.Context) ([]models.SpecialProduct, error) {
	var products []models.SpecialProduct
	err := r.db.WithContext(ctx).
		Preload("SpecialCategory").
		Preload("Prices").
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// --- shared item lookups ---

// ItemExists resolves the tagged reference against the owning taxonomy.
func (r *Repository) ItemExists(ctx context.Context, ref types.ItemRef) (bool, error) {
	var count int64
	switch ref.Type {
	case enums.ItemTypeProduct:
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
			return false, err
		}
	case enums.ItemTypeSpecial:
		if err := r.db.WithContext(ctx).Model(&models.SpecialProduct{}).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
			return false, err
		}
	default:
		return false, nil
	}
	return count > 0, nil
}

// FirstListedPrice returns the first persisted price row for the item, used
// as the cart price fallback.
func (r *Repository) FirstListedPrice(ctx context.Context, ref types.ItemRef) (*models.ProductPrice, error) {
	var price models.ProductPrice
	err := r.db.WithContext(ctx).
		Where("item_type = ? AND item_id = ?", ref.Type, ref.ID).
		Order("created_at asc").
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// ReplacePrices swaps the full per-city price list for the item.
func (r *Repository) ReplacePrices(ctx context.Context, ref types.ItemRef, prices []models.ProductPrice) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("item_type = ? AND item_id = ?", ref.Type, ref.ID).Delete(&models.ProductPrice{}).Error; err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	for i := range prices {
		prices[i].ItemType = ref.Type
		prices[i].ItemID = ref.ID
	}
	return tx.Create(&prices).Error
}
