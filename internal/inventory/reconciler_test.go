package inventory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/internal/catalog"
	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestReconciler(t *testing.T, conn *gorm.DB) *Reconciler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	rc, err := NewReconciler(NewRepository(conn), catalog.NewRepository(conn), db.NewWithConn(conn), logg)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}
	return rc
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

func seedProduct(t *testing.T, conn *gorm.DB, sku string) models.Product {
	t.Helper()
	product := models.Product{Name: "Product " + sku, SKU: sku, IsActive: true}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func TestReconcilerSumsQuantitiesWithinBatch(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	warehouse := seedWarehouse(t, conn, "North Hub")
	product := seedProduct(t, conn, "PF-1001")
	rc := newTestReconciler(t, conn)

	report, err := rc.Apply(ctx, []Row{
		{SKU: "PF-1001", WarehouseName: "North Hub", Quantity: "5"},
		{SKU: "PF-1001", WarehouseName: "North Hub", Quantity: "7"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if report.Created != 1 || report.Updated != 0 || report.Skipped != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var records []models.InventoryRecord
	if err := conn.Find(&records).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Quantity != 12 {
		t.Fatalf("expected summed quantity 12, got %d", records[0].Quantity)
	}
	if records[0].ItemID != product.ID || records[0].WarehouseID != warehouse.ID {
		t.Fatalf("record keyed to wrong item or warehouse: %+v", records[0])
	}
	if records[0].StockAlertThreshold != models.DefaultStockAlertThreshold {
		t.Fatalf("expected default alert threshold, got %d", records[0].StockAlertThreshold)
	}
}

func TestReconcilerSetsQuantityOnLaterBatch(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	seedWarehouse(t, conn, "North Hub")
	seedProduct(t, conn, "PF-1001")
	rc := newTestReconciler(t, conn)

	if _, err := rc.Apply(ctx, []Row{{SKU: "PF-1001", WarehouseName: "North Hub", Quantity: "12"}}); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	report, err := rc.Apply(ctx, []Row{{SKU: "PF-1001", WarehouseName: "North Hub", Quantity: "3"}})
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if report.Created != 0 || report.Updated != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var records []models.InventoryRecord
	if err := conn.Find(&records).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Quantity != 3 {
		t.Fatalf("later batch must overwrite, not add: got %d", records[0].Quantity)
	}
}

func TestReconcilerSkipsUnresolvableRows(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	seedWarehouse(t, conn, "North Hub")
	seedProduct(t, conn, "PF-1001")
	rc := newTestReconciler(t, conn)

	report, err := rc.Apply(ctx, []Row{
		{SKU: "", WarehouseName: "North Hub", Quantity: "5"},
		{SKU: "PF-1001", WarehouseName: "North Hub", Quantity: "not-a-number"},
		{SKU: "PF-1001", WarehouseName: "Ghost Hub", Quantity: "5"},
		{SKU: "NO-SUCH-SKU", WarehouseName: "North Hub", Quantity: "5"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if report.Skipped != 4 {
		t.Fatalf("expected 4 skips, got %+v", report)
	}
	if report.Created != 0 || report.Updated != 0 {
		t.Fatalf("skipped rows must not persist anything: %+v", report)
	}

	var count int64
	if err := conn.Model(&models.InventoryRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no records, got %d", count)
	}
}

func TestReconcilerRepairsScientificSKU(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	seedWarehouse(t, conn, "North Hub")
	seedProduct(t, conn, "896000000000")
	rc := newTestReconciler(t, conn)

	report, err := rc.Apply(ctx, []Row{{SKU: "8.96E+11", WarehouseName: "North Hub", Quantity: "4"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if report.Created != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var record models.InventoryRecord
	if err := conn.First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.SKU != "896000000000" {
		t.Fatalf("expected repaired sku, got %q", record.SKU)
	}
}

func TestReconcilerMergesPreexistingDuplicates(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	warehouse := seedWarehouse(t, conn, "North Hub")
	product := seedProduct(t, conn, "PF-1001")
	rc := newTestReconciler(t, conn)

	for _, qty := range []int{4, 6} {
		record := models.InventoryRecord{
			ItemType:            "product",
			ItemID:              product.ID,
			SKU:                 "PF-1001",
			WarehouseID:         warehouse.ID,
			CityID:              warehouse.CityID,
			Quantity:            qty,
			StockAlertThreshold: models.DefaultStockAlertThreshold,
			ExpiryDateThreshold: models.DefaultExpiryDateThreshold,
		}
		if err := conn.Create(&record).Error; err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	report, err := rc.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if report.Merged != 1 {
		t.Fatalf("expected 1 merged record, got %+v", report)
	}

	var records []models.InventoryRecord
	if err := conn.Find(&records).Error; err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(records))
	}
	if records[0].Quantity != 10 {
		t.Fatalf("expected merged quantity 10, got %d", records[0].Quantity)
	}
}

func TestReconcilerLogsEverySkipReason(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	seedWarehouse(t, conn, "North Hub")
	seedProduct(t, conn, "PF-1001")

	var logs bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &logs})
	rc, err := NewReconciler(NewRepository(conn), catalog.NewRepository(conn), db.NewWithConn(conn), logg)
	if err != nil {
		t.Fatalf("new reconciler: %v", err)
	}

	report, err := rc.Apply(ctx, []Row{
		{SKU: "   ", WarehouseName: "North Hub", Quantity: "5"},
		{SKU: "PF-1001", WarehouseName: "North Hub", Quantity: "lots"},
		{SKU: "PF-9999", WarehouseName: "North Hub", Quantity: "5"},
		{SKU: "PF-1001", WarehouseName: "Ghost Hub", Quantity: "5"},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if report.Skipped != 4 {
		t.Fatalf("expected 4 skips, got %+v", report)
	}

	for _, reason := range []string{"missing sku", "malformed quantity", "unresolvable sku", "unresolvable warehouse"} {
		if !strings.Contains(logs.String(), reason) {
			t.Fatalf("expected a skip log with reason %q, got: %s", reason, logs.String())
		}
	}
}
