package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

type stubStock struct {
	quantity int
}

func (s stubStock) CityQuantity(_ context.Context, _ types.ItemRef, _ uuid.UUID) (int, error) {
	return s.quantity, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, stock stockReader) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), stock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedCity(t *testing.T, conn *gorm.DB, name string) models.City {
	t.Helper()
	city := models.City{Name: name}
	if err := conn.Create(&city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	return city
}

func TestCreateProductLinksPricesTagsAndVariants(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn, stubStock{quantity: 1})

	city := seedCity(t, conn, "Lahore")
	tag := models.Tag{Name: "grain-free"}
	if err := conn.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	variantName := models.VariantName{Name: "Size"}
	if err := conn.Create(&variantName).Error; err != nil {
		t.Fatalf("seed variant name: %v", err)
	}
	variant := models.ProductVariant{VariantNameID: variantName.ID, Value: "Large"}
	if err := conn.Create(&variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}

	sale := types.MoneyFromFloat(999)
	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name: "Dog Food",
		SKU:  "PF-1001",
		Prices: []PriceInput{
			{CityID: city.ID, Amount: types.MoneyFromFloat(1200), SalePrice: &sale},
		},
		TagIDs:     []uuid.UUID{tag.ID},
		VariantIDs: []uuid.UUID{variant.ID},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Currency != "USD" {
		t.Fatalf("expected default currency, got %q", created.Currency)
	}
	if len(created.Prices) != 1 || created.Prices[0].Amount.String() != "1200.00" {
		t.Fatalf("unexpected prices: %+v", created.Prices)
	}
	if created.Prices[0].SalePrice == nil || created.Prices[0].SalePrice.String() != "999.00" {
		t.Fatalf("unexpected sale price: %+v", created.Prices[0].SalePrice)
	}
	if len(created.Tags) != 1 || created.Tags[0].Name != "grain-free" {
		t.Fatalf("unexpected tags: %+v", created.Tags)
	}
	if len(created.Variants) != 1 || created.Variants[0].Value != "Large" {
		t.Fatalf("unexpected variants: %+v", created.Variants)
	}
	if !created.IsActive {
		t.Fatal("new products start active")
	}

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Copy", SKU: "PF-1001"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on duplicate sku, got %v", err)
	}
}

func TestCreateProductRejectsBadPriceLists(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn, stubStock{quantity: 1})
	city := seedCity(t, conn, "Karachi")

	cases := []struct {
		name   string
		prices []PriceInput
	}{
		{"zero amount", []PriceInput{{CityID: city.ID, Amount: types.MoneyFromFloat(0)}}},
		{"duplicate city", []PriceInput{
			{CityID: city.ID, Amount: types.MoneyFromFloat(10)},
			{CityID: city.ID, Amount: types.MoneyFromFloat(12)},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "x", SKU: uuid.NewString(), Prices: tc.prices})
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProductReplacesPriceList(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn, stubStock{quantity: 1})
	lahore := seedCity(t, conn, "Lahore")
	karachi := seedCity(t, conn, "Karachi")

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:   "Dog Food",
		SKU:    "PF-1001",
		Prices: []PriceInput{{CityID: lahore.ID, Amount: types.MoneyFromFloat(1200)}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Dog Food Deluxe"
	inactive := false
	prices := []PriceInput{{CityID: karachi.ID, Amount: types.MoneyFromFloat(900)}}
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Name:     &name,
		IsActive: &inactive,
		Prices:   &prices,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name || updated.IsActive {
		t.Fatalf("unexpected product after update: %+v", updated.Product)
	}
	if len(updated.Prices) != 1 || updated.Prices[0].CityID != karachi.ID {
		t.Fatalf("price list must be replaced wholesale, got %+v", updated.Prices)
	}

	if _, err := svc.UpdateProduct(ctx, uuid.New(), UpdateProductInput{Name: &name}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetProductCityStockFlag(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn, stubStock{quantity: 0})
	seedCity(t, conn, "Lahore")

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Dog Food", SKU: "PF-1001"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No city scope, no stock flag.
	plain, err := svc.GetProduct(ctx, created.ID, "")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if plain.IsOutOfStock != nil {
		t.Fatalf("expected no stock flag without a city, got %v", *plain.IsOutOfStock)
	}

	scoped, err := svc.GetProduct(ctx, created.ID, "Lahore")
	if err != nil {
		t.Fatalf("get scoped: %v", err)
	}
	if scoped.IsOutOfStock == nil || !*scoped.IsOutOfStock {
		t.Fatalf("expected out of stock at zero quantity, got %+v", scoped.IsOutOfStock)
	}

	if _, err := svc.GetProduct(ctx, created.ID, "Atlantis"); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown city, got %v", err)
	}
}

func TestDeleteProductThenGetReportsMissing(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn, stubStock{quantity: 1})

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Dog Food", SKU: "PF-1001"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetProduct(ctx, created.ID, ""); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAttachProductImagesAppendsToGallery(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn, stubStock{quantity: 1})

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:    "Dog Food",
		SKU:     "PF-1001",
		Gallery: []string{"/uploads/original.jpg"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.AttachProductImages(ctx, created.ID, []string{"/uploads/one.jpg", "/uploads/two.png"})
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	want := []string{"/uploads/original.jpg", "/uploads/one.jpg", "/uploads/two.png"}
	if len(updated.Gallery) != len(want) {
		t.Fatalf("unexpected gallery: %v", updated.Gallery)
	}
	for i, path := range want {
		if updated.Gallery[i] != path {
			t.Fatalf("gallery[%d] = %q, want %q", i, updated.Gallery[i], path)
		}
	}

	if _, err := svc.AttachProductImages(ctx, created.ID, nil); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty path list, got %v", err)
	}
	if _, err := svc.AttachProductImages(ctx, uuid.New(), []string{"/uploads/x.jpg"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
