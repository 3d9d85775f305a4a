package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// productColumns is the upload column order; the parser matches by header
// name so column order and extra columns are tolerated.
var productColumns = []string{
	"name", "sku", "brand", "category", "subcategory", "subsubcategory",
	"variants", "variation_id", "tags", "prices",
	"isBestSeller", "isShopByPet", "isNewArrival",
	"description", "currency", "meta_title", "meta_description",
	"image_alt_text", "quantity",
}

// ImportProducts streams the CSV and creates one product per valid row. A
// row failing validation is recorded, a duplicate SKU is skipped, and the
// batch continues either way.
func (s *service) ImportProducts(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.importWindow)
	defer cancel()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading csv header")
	}
	head := newHeader(headerRow)
	if !head.has("name") || !head.has("sku") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv must have name and sku columns")
	}

	summary := &ImportSummary{}
	seenSKUs := make(map[string]struct{})

	for rowNum := 2; ; rowNum++ {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import deadline exceeded")
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed line is a row problem, not a batch failure.
			summary.TotalRows++
			summary.Errors = append(summary.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		summary.TotalRows++
		s.importProductRow(ctx, head, row, rowNum, seenSKUs, summary)
	}

	summary.finalize()
	return summary, nil
}

func (s *service) importProductRow(ctx context.Context, head header, row []string, rowNum int, seenSKUs map[string]struct{}, summary *ImportSummary) {
	name := head.get(row, "name")
	sku := head.get(row, "sku")
	if name == "" || sku == "" {
		summary.Errors = append(summary.Errors, RowError{Row: rowNum, Message: "name and sku are required"})
		return
	}

	if _, dup := seenSKUs[sku]; dup {
		summary.Skipped++
		return
	}
	seenSKUs[sku] = struct{}{}

	exists, err := s.catalogRepo.ProductSKUExists(ctx, sku)
	if err != nil {
		summary.Errors = append(summary.Errors, RowError{Row: rowNum, Message: err.Error()})
		return
	}
	if exists {
		summary.Skipped++
		return
	}

	product := &models.Product{
		Name:         name,
		SKU:          sku,
		Currency:     defaultIfEmpty(head.get(row, "currency"), "USD"),
		IsBestSeller: parseBool(head.get(row, "isBestSeller")),
		IsShopByPet:  parseBool(head.get(row, "isShopByPet")),
		IsNewArrival: parseBool(head.get(row, "isNewArrival")),
		IsActive:     true,
	}
	product.Description = strPtr(head.get(row, "description"))
	product.MetaTitle = strPtr(head.get(row, "meta_title"))
	product.MetaDescription = strPtr(head.get(row, "meta_description"))
	product.ImageAltText = strPtr(head.get(row, "image_alt_text"))

	s.resolveBrand(ctx, head.get(row, "brand"), product)
	s.resolveCategoryChain(ctx,
		head.get(row, "category"),
		head.get(row, "subcategory"),
		head.get(row, "subsubcategory"),
		product,
	)

	tags := s.resolveTags(ctx, head.get(row, "tags"))
	variants := s.resolveVariants(ctx, head.get(row, "variants"))
	prices, priceErr := s.resolvePrices(ctx, head.get(row, "prices"))
	if priceErr != nil {
		summary.Errors = append(summary.Errors, RowError{Row: rowNum, Message: priceErr.Error()})
		return
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.catalogRepo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			return err
		}
		ref := types.NewItemRef(enums.ItemTypeProduct, product.ID)
		if err := repo.ReplacePrices(ctx, ref, prices); err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := repo.ReplaceProductTags(ctx, product, tags); err != nil {
				return err
			}
		}
		if len(variants) > 0 {
			if err := repo.ReplaceProductVariants(ctx, product, variants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") {
			// Raced another writer to the same SKU; treat as the usual skip.
			summary.Skipped++
			return
		}
		summary.Errors = append(summary.Errors, RowError{Row: rowNum, Message: err.Error()})
		return
	}

	summary.Success++
}

// resolveBrand attaches the brand when resolvable; failures leave the
// reference absent rather than failing the row.
func (s *service) resolveBrand(ctx context.Context, name string, product *models.Product) {
	if name == "" {
		return
	}
	brand, err := s.catalogRepo.FindOrCreateBrand(ctx, name)
	if err != nil {
		s.logSkippedRef(ctx, "brand", name, err)
		return
	}
	product.BrandID = &brand.ID
}

func (s *service) resolveCategoryChain(ctx context.Context, category, subcategory, subsubcategory string, product *models.Product) {
	if category == "" {
		return
	}
	root, err := s.catalogRepo.FindOrCreateCategory(ctx, category, nil)
	if err != nil {
		s.logSkippedRef(ctx, "category", category, err)
		return
	}
	product.CategoryID = &root.ID

	if subcategory == "" {
		return
	}
	sub, err := s.catalogRepo.FindOrCreateCategory(ctx, subcategory, &root.ID)
	if err != nil {
		s.logSkippedRef(ctx, "subcategory", subcategory, err)
		return
	}
	product.SubcategoryID = &sub.ID

	if subsubcategory == "" {
		return
	}
	subsub, err := s.catalogRepo.FindOrCreateCategory(ctx, subsubcategory, &sub.ID)
	if err != nil {
		s.logSkippedRef(ctx, "subsubcategory", subsubcategory, err)
		return
	}
	product.SubsubcategoryID = &subsub.ID
}

func (s *service) resolveTags(ctx context.Context, field string) []models.Tag {
	var tags []models.Tag
	for _, name := range splitMulti(field) {
		tag, err := s.catalogRepo.FindOrCreateTag(ctx, name)
		if err != nil {
			s.logSkippedRef(ctx, "tag", name, err)
			continue
		}
		tags = append(tags, *tag)
	}
	return tags
}

// resolveVariants parses "Axis:Value" pairs; malformed entries are dropped.
func (s *service) resolveVariants(ctx context.Context, field string) []models.ProductVariant {
	var variants []models.ProductVariant
	for _, pair := range splitMulti(field) {
		parts := splitSub(pair)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			s.logSkippedRef(ctx, "variant", pair, fmt.Errorf("expected axis%svalue", subFieldDelimiter))
			continue
		}
		variant, err := s.catalogRepo.FindOrCreateVariant(ctx, parts[0], parts[1])
		if err != nil {
			s.logSkippedRef(ctx, "variant", pair, err)
			continue
		}
		variants = append(variants, *variant)
	}
	return variants
}

// resolvePrices parses "city:amount[:salePrice]" tuples. A malformed amount
// fails the row since silently dropping money fields would hide bad data.
func (s *service) resolvePrices(ctx context.Context, field string) ([]models.ProductPrice, error) {
	var prices []models.ProductPrice
	seen := make(map[uuid.UUID]struct{})
	for _, tuple := range splitMulti(field) {
		parts := splitSub(tuple)
		if len(parts) < 2 || parts[0] == "" {
			return nil, fmt.Errorf("malformed price %q", tuple)
		}
		city, err := s.catalogRepo.FindOrCreateCity(ctx, parts[0])
		if err != nil {
			return nil, fmt.Errorf("resolving city %q: %w", parts[0], err)
		}
		if _, dup := seen[city.ID]; dup {
			return nil, fmt.Errorf("duplicate city %q in price list", parts[0])
		}
		seen[city.ID] = struct{}{}

		amount, err := types.ParseMoney(parts[1])
		if err != nil || !amount.IsPositive() {
			return nil, fmt.Errorf("malformed price amount %q", parts[1])
		}
		price := models.ProductPrice{CityID: city.ID, Amount: amount}
		if len(parts) >= 3 && parts[2] != "" {
			sale, err := types.ParseMoney(parts[2])
			if err != nil || sale.IsNegative() {
				return nil, fmt.Errorf("malformed sale price %q", parts[2])
			}
			price.SalePrice = &sale
		}
		prices = append(prices, price)
	}
	return prices, nil
}

func (s *service) logSkippedRef(ctx context.Context, kind, value string, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"kind":  kind,
		"value": value,
		"error": err.Error(),
	})
	s.logg.Warn(logCtx, "import reference unresolved")
}

func defaultIfEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
