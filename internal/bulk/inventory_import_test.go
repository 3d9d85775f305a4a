package bulk

import (
	"context"
	"strings"
	"testing"

	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
)

func TestImportInventoryReconcilesBatch(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)
	seedWarehouse(t, conn, "North Hub")
	if err := conn.Create(&models.Product{Name: "Dog Food", SKU: "PF-1001", IsActive: true}).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	csvData := strings.Join([]string{
		"sku,warehouseName,quantity,vat,batchId,stockAlertThreshold",
		"PF-1001,North Hub,5,,,",
		"PF-1001,North Hub,7,17.5,B-77,3",
		"PF-1001,Ghost Hub,3,,,",
	}, "\n")

	summary, err := svc.ImportInventory(ctx, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.TotalRows != 3 {
		t.Fatalf("expected 3 rows, got %d", summary.TotalRows)
	}
	if summary.Report.Created != 1 || summary.Report.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", summary.Report)
	}

	var record models.InventoryRecord
	if err := conn.First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.Quantity != 12 {
		t.Fatalf("expected batch quantities summed to 12, got %d", record.Quantity)
	}
	if record.StockAlertThreshold != 3 {
		t.Fatalf("expected alert threshold from sheet, got %d", record.StockAlertThreshold)
	}
	if record.VAT == nil || *record.VAT != 17.5 {
		t.Fatalf("expected vat 17.5, got %+v", record.VAT)
	}
	if record.BatchID == nil || *record.BatchID != "B-77" {
		t.Fatalf("expected batch id B-77, got %+v", record.BatchID)
	}
}

func TestImportInventoryRequiresCoreColumns(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.ImportInventory(context.Background(), strings.NewReader("sku,warehouseName\nPF-1001,North Hub"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
