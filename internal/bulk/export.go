package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// ExportProducts writes the catalog in the same column layout the import
// accepts, one row per product-variant pairing. A product without variants
// exports as a single row with the variant fields blank.
func (s *service) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.catalogRepo.ListAllProductsWithVariants(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products for export")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(productColumns); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv header")
	}

	categories := newCategoryNames(s.catalogRepo)
	for _, product := range products {
		base, err := s.baseRow(ctx, product, categories)
		if err != nil {
			return err
		}
		if len(product.Variants) == 0 {
			if err := writer.Write(base); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv row")
			}
			continue
		}
		for _, variant := range product.Variants {
			row := make([]string, len(base))
			copy(row, base)
			row[colIndex("variants")] = variant.VariantName.Name + subFieldDelimiter + variant.Value
			row[colIndex("variation_id")] = variant.ID.String()
			if err := writer.Write(row); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv row")
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing csv")
	}
	return nil
}

func (s *service) baseRow(ctx context.Context, product models.Product, categories *categoryNames) ([]string, error) {
	row := make([]string, len(productColumns))
	row[colIndex("name")] = product.Name
	row[colIndex("sku")] = product.SKU
	if product.Brand != nil {
		row[colIndex("brand")] = product.Brand.Name
	}
	if product.Category != nil {
		row[colIndex("category")] = product.Category.Name
	}

	sub, err := categories.lookup(ctx, product.SubcategoryID)
	if err != nil {
		return nil, err
	}
	row[colIndex("subcategory")] = sub
	subsub, err := categories.lookup(ctx, product.SubsubcategoryID)
	if err != nil {
		return nil, err
	}
	row[colIndex("subsubcategory")] = subsub

	tags := make([]string, 0, len(product.Tags))
	for _, tag := range product.Tags {
		tags = append(tags, tag.Name)
	}
	row[colIndex("tags")] = strings.Join(tags, multiValueDelimiter)

	prices := make([]string, 0, len(product.Prices))
	for _, price := range product.Prices {
		tuple := price.City.Name + subFieldDelimiter + price.Amount.String()
		if price.SalePrice != nil {
			tuple += subFieldDelimiter + price.SalePrice.String()
		}
		prices = append(prices, tuple)
	}
	row[colIndex("prices")] = strings.Join(prices, multiValueDelimiter)

	row[colIndex("isBestSeller")] = strconv.FormatBool(product.IsBestSeller)
	row[colIndex("isShopByPet")] = strconv.FormatBool(product.IsShopByPet)
	row[colIndex("isNewArrival")] = strconv.FormatBool(product.IsNewArrival)
	row[colIndex("description")] = derefOrEmpty(product.Description)
	row[colIndex("currency")] = product.Currency
	row[colIndex("meta_title")] = derefOrEmpty(product.MetaTitle)
	row[colIndex("meta_description")] = derefOrEmpty(product.MetaDescription)
	row[colIndex("image_alt_text")] = derefOrEmpty(product.ImageAltText)
	return row, nil
}

func colIndex(name string) int {
	for i, column := range productColumns {
		if column == name {
			return i
		}
	}
	return 0
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

type categoryFinder interface {
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

// categoryNames caches category id lookups; exports touch the same handful
// of nodes across thousands of rows.
type categoryNames struct {
	finder categoryFinder
	cache  map[uuid.UUID]string
}

func newCategoryNames(finder categoryFinder) *categoryNames {
	return &categoryNames{finder: finder, cache: make(map[uuid.UUID]string)}
}

func (c *categoryNames) lookup(ctx context.Context, id *uuid.UUID) (string, error) {
	if id == nil {
		return "", nil
	}
	if name, ok := c.cache[*id]; ok {
		return name, nil
	}
	category, err := c.finder.FindCategoryByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.cache[*id] = ""
			return "", nil
		}
		return "", err
	}
	c.cache[*id] = category.Name
	return category.Name, nil
}
