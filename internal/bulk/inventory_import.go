package bulk

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/pawmart/backoffice-backend/internal/inventory"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// ImportInventory parses the stock sheet into rows and hands the whole batch
// to the reconciler. Row-level problems (bad SKU, bad quantity) surface as
// skips in the report rather than aborting the batch.
//
// Recognized columns: productName, productType, sku, warehouseName, quantity,
// vat, stockAlertThreshold, locationWithinWarehouse, lastRestocked, batchId,
// expiryDate, barcode, expiryDateThreshold. Only sku, warehouseName and
// quantity are required.
func (s *service) ImportInventory(ctx context.Context, r io.Reader) (*InventorySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.importWindow)
	defer cancel()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading csv header")
	}
	head := newHeader(headerRow)
	if !head.has("sku") || !head.has("warehousename") || !head.has("quantity") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv must have sku, warehouseName and quantity columns")
	}

	var rows []inventory.Row
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "import deadline exceeded")
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed line cannot be resolved; count it as one more
			// row the reconciler would have skipped.
			total++
			rows = append(rows, inventory.Row{})
			continue
		}

		total++
		rows = append(rows, inventory.Row{
			ProductName:         head.get(record, "productName"),
			ProductType:         head.get(record, "productType"),
			SKU:                 head.get(record, "sku"),
			WarehouseName:       head.get(record, "warehouseName"),
			Quantity:            head.get(record, "quantity"),
			VAT:                 parseFloatPtr(head.get(record, "vat")),
			StockAlertThreshold: parseIntPtr(head.get(record, "stockAlertThreshold")),
			ExpiryDateThreshold: parseIntPtr(head.get(record, "expiryDateThreshold")),
			Location:            strPtr(head.get(record, "locationWithinWarehouse")),
			LastRestocked:       parseDate(head.get(record, "lastRestocked")),
			BatchID:             strPtr(head.get(record, "batchId")),
			ExpiryDate:          parseDate(head.get(record, "expiryDate")),
			Barcode:             strPtr(head.get(record, "barcode")),
		})
	}

	report, err := s.reconciler.Apply(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &InventorySummary{TotalRows: total, Report: report}, nil
}
