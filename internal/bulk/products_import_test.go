package bulk

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/internal/catalog"
	"github.com/pawmart/backoffice-backend/internal/inventory"
	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:bulk_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	catalogRepo := catalog.NewRepository(conn)
	reconciler, err := inventory.NewReconciler(inventory.NewRepository(conn), catalogRepo, db.NewWithConn(conn), logg)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}
	svc, err := NewService(catalogRepo, reconciler, db.NewWithConn(conn), logg, time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedWarehouse(t *testing.T, conn *gorm.DB, name string) models.Warehouse {
	t.Helper()
	city := models.City{Name: name + " City"}
	if err := conn.Create(&city).Error; err != nil {
		t.Fatalf("seed city: %v", err)
	}
	warehouse := models.Warehouse{Name: name, CityID: city.ID}
	if err := conn.Create(&warehouse).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	return warehouse
}

func TestImportProductsCreatesFullRows(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	csvData := strings.Join([]string{
		"name,sku,brand,category,subcategory,tags,variants,prices,isBestSeller",
		"Dog Food,PF-1001,Acme,Pets,Dogs,grain-free|premium,Size:Large,Lahore:1200:999|Karachi:1250,true",
		"Cat Food,PF-1002,Acme,Pets,Cats,,,Lahore:800,false",
	}, "\n")

	summary, err := svc.ImportProducts(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.TotalRows != 2 || summary.Success != 2 || summary.ErrorCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.SuccessRate != 100 {
		t.Fatalf("expected 100%% success rate, got %v", summary.SuccessRate)
	}

	catalogRepo := catalog.NewRepository(conn)
	stub, err := catalogRepo.FindProductBySKU(ctx, "PF-1001")
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	product, err := catalogRepo.FindProductByID(ctx, stub.ID)
	if err != nil {
		t.Fatalf("load product: %v", err)
	}

	if product.Brand == nil || product.Brand.Name != "Acme" {
		t.Fatalf("expected brand Acme, got %+v", product.Brand)
	}
	if product.Category == nil || product.Category.Name != "Pets" {
		t.Fatalf("expected category Pets, got %+v", product.Category)
	}
	if product.SubcategoryID == nil {
		t.Fatal("expected subcategory resolved")
	}
	if !product.IsBestSeller {
		t.Fatal("expected best seller flag parsed")
	}
	if len(product.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(product.Tags))
	}
	if len(product.Variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(product.Variants))
	}
	if len(product.Prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(product.Prices))
	}
	for _, price := range product.Prices {
		if price.City.Name == "Lahore" {
			if price.Amount.String() != "1200.00" {
				t.Fatalf("expected Lahore amount 1200.00, got %s", price.Amount.String())
			}
			if price.SalePrice == nil || price.SalePrice.String() != "999.00" {
				t.Fatalf("expected Lahore sale price 999.00, got %+v", price.SalePrice)
			}
		}
	}

	// Shared vocabulary is reused, not duplicated, across rows.
	var brandCount int64
	if err := conn.Model(&models.Brand{}).Count(&brandCount).Error; err != nil {
		t.Fatalf("count brands: %v", err)
	}
	if brandCount != 1 {
		t.Fatalf("expected one Acme brand row, got %d", brandCount)
	}
}

func TestImportProductsSkipsDuplicateSKUs(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	if err := conn.Create(&models.Product{Name: "Existing", SKU: "PF-0001", IsActive: true}).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	csvData := strings.Join([]string{
		"name,sku",
		"New Item,PF-0002",
		"Repeat In File,PF-0002",
		"Already Stored,PF-0001",
	}, "\n")

	summary, err := svc.ImportProducts(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.TotalRows != 3 || summary.Success != 1 || summary.Skipped != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var count int64
	if err := conn.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products total, got %d", count)
	}
}

func TestImportProductsRecordsRowErrorsAndContinues(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	csvData := strings.Join([]string{
		"name,sku,prices",
		",PF-1001,",
		"Bad Price,PF-1002,Lahore",
		"Bad Amount,PF-1003,Lahore:abc",
		"Good,PF-1004,Lahore:50",
	}, "\n")

	summary, err := svc.ImportProducts(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.TotalRows != 4 || summary.Success != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.ErrorCount != 3 || len(summary.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %+v", summary.Errors)
	}
	if summary.Errors[0].Row != 2 {
		t.Fatalf("row numbers are 1-based with the header as row 1, got %d", summary.Errors[0].Row)
	}
	if summary.SuccessRate != 25 {
		t.Fatalf("expected 25%% success rate, got %v", summary.SuccessRate)
	}
}

func TestImportProductsRequiresNameAndSKUColumns(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.ImportProducts(context.Background(), strings.NewReader("title,code\nfoo,bar"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
