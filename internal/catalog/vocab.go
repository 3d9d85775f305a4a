package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// VocabService manages the vocabulary tables products reference: brands,
// categories, tags, variant axes and the city/warehouse topology.
type VocabService interface {
	CreateBrand(ctx context.Context, name string) (*models.Brand, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, name string) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListSpecialCategories(ctx context.Context) ([]models.SpecialCategory, error)
	CreateSpecialCategory(ctx context.Context, name string) (*models.SpecialCategory, error)

	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

	CreateVariant(ctx context.Context, axisName, value string) (*models.ProductVariant, error)
	ListVariants(ctx context.Context) ([]models.ProductVariant, error)

	CreateCity(ctx context.Context, name string) (*models.City, error)
	ListCities(ctx context.Context) ([]models.City, error)

	CreateWarehouse(ctx context.Context, name string, cityID uuid.UUID) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
}

type vocabService struct {
	repo *Repository
}

// NewVocabService constructs the vocabulary service.
func NewVocabService(repo *Repository) (VocabService, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &vocabService{repo: repo}, nil
}

func (s *vocabService) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	brand := &models.Brand{Name: name}
	if err := s.repo.CreateBrand(ctx, brand); err != nil {
		if db.IsUniqueViolation(err, "brands_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, err
	}
	return brand, nil
}

func (s *vocabService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.repo.ListBrands(ctx)
}

func (s *vocabService) UpdateBrand(ctx context.Context, id uuid.UUID, name string) (*models.Brand, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	brand, err := s.repo.FindBrandByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "brand not found")
	}
	brand.Name = name
	if err := s.repo.UpdateBrand(ctx, brand); err != nil {
		if db.IsUniqueViolation(err, "brands_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, err
	}
	return brand, nil
}

func (s *vocabService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindBrandByID(ctx, id); err != nil {
		return notFoundOr(err, "brand not found")
	}
	return s.repo.DeleteBrand(ctx, id)
}

func (s *vocabService) CreateCategory(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *parentID); err != nil {
			return nil, notFoundOr(err, "parent category not found")
		}
	}
	category := &models.Category{Name: name, ParentID: parentID}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "categories_parent_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists under this parent")
		}
		return nil, err
	}
	return category, nil
}

func (s *vocabService) ListCategories(ctx context.Context, parentID *uuid.UUID) ([]models.Category, error) {
	return s.repo.ListCategories(ctx, parentID)
}

func (s *vocabService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "category not found")
	}
	category.Name = name
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "categories_parent_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists under this parent")
		}
		return nil, err
	}
	return category, nil
}

func (s *vocabService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return notFoundOr(err, "category not found")
	}
	children, err := s.repo.ListCategories(ctx, &id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category still has child categories")
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *vocabService) ListSpecialCategories(ctx context.Context) ([]models.SpecialCategory, error) {
	return s.repo.ListSpecialCategories(ctx)
}

func (s *vocabService) CreateSpecialCategory(ctx context.Context, name string) (*models.SpecialCategory, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	category := &models.SpecialCategory{Name: name}
	if err := s.repo.CreateSpecialCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "special_categories_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "special category already exists")
		}
		return nil, err
	}
	return category, nil
}

func (s *vocabService) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: name}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		if db.IsUniqueViolation(err, "tags_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tag already exists")
		}
		return nil, err
	}
	return tag, nil
}

func (s *vocabService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *vocabService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTag(ctx, id)
}

func (s *vocabService) CreateVariant(ctx context.Context, axisName, value string) (*models.ProductVariant, error) {
	axisName, err := requireName(axisName)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant value is required")
	}
	return s.repo.FindOrCreateVariant(ctx, axisName, value)
}

func (s *vocabService) ListVariants(ctx context.Context) ([]models.ProductVariant, error) {
	return s.repo.ListVariants(ctx)
}

func (s *vocabService) CreateCity(ctx context.Context, name string) (*models.City, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	city := &models.City{Name: name}
	if err := s.repo.CreateCity(ctx, city); err != nil {
		if db.IsUniqueViolation(err, "cities_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "city already exists")
		}
		return nil, err
	}
	return city, nil
}

func (s *vocabService) ListCities(ctx context.Context) ([]models.City, error) {
	return s.repo.ListCities(ctx)
}

func (s *vocabService) CreateWarehouse(ctx context.Context, name string, cityID uuid.UUID) (*models.Warehouse, error) {
	name, err := requireName(name)
	if err != nil {
		return nil, err
	}
	warehouse := &models.Warehouse{Name: name, CityID: cityID}
	if err := s.repo.CreateWarehouse(ctx, warehouse); err != nil {
		if db.IsUniqueViolation(err, "warehouses_name_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "warehouse already exists")
		}
		return nil, err
	}
	return warehouse, nil
}

func (s *vocabService) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return s.repo.ListWarehouses(ctx)
}

func requireName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return trimmed, nil
}
