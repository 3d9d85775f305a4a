package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/logger"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Row is one bulk-upload line before resolution. Quantity stays raw so a
// malformed value is a per-row skip rather than a batch failure.
type Row struct {
	ProductName   string
	ProductType   string
	SKU           string
	WarehouseName string
	Quantity      string

	VAT                 *float64
	StockAlertThreshold *int
	ExpiryDateThreshold *int
	Location            *string
	LastRestocked       *time.Time
	BatchID             *string
	ExpiryDate          *time.Time
	Barcode             *string
}

// Report summarizes one reconciliation batch.
type Report struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Merged  int `json:"merged"`
	Skipped int `json:"skipped"`
}

type itemResolver interface {
	FindProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	FindSpecialProductBySKU(ctx context.Context, sku string) (*models.SpecialProduct, error)
	FindWarehouseByName(ctx context.Context, name string) (*models.Warehouse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Reconciler turns bulk upload rows into InventoryRecord upserts. Within one
// batch, quantities for the same (item, warehouse, SKU) key are summed, and
// the resulting value is a **set** on the persisted record, not an addition.
// The single-row AddStock path is the additive counterpart.
type Reconciler struct {
	repo     *Repository
	resolver itemResolver
	db       txRunner
	logg     *logger.Logger
}

// NewReconciler constructs a reconciler.
func NewReconciler(repo *Repository, resolver itemResolver, db txRunner, logg *logger.Logger) (*Reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("item resolver required")
	}
	if db == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &Reconciler{repo: repo, resolver: resolver, db: db, logg: logg}, nil
}

type accumKey struct {
	ref         types.ItemRef
	warehouseID uuid.UUID
	sku         string
}

type accumEntry struct {
	quantity int
	cityID   uuid.UUID
	meta     Row
}

// Apply runs the two-phase reconciliation: accumulate rows in memory, then
// upsert every key and merge pre-existing duplicates inside one transaction.
func (rc *Reconciler) Apply(ctx context.Context, rows []Row) (*Report, error) {
	report := &Report{}
	accum := make(map[accumKey]*accumEntry)

	for _, row := range rows {
		key, entry, ok, err := rc.resolveRow(ctx, row)
		if err != nil {
			return nil, err
		}
		if !ok {
			report.Skipped++
			continue
		}
		if existing, found := accum[key]; found {
			existing.quantity += entry.quantity
			existing.meta = entry.meta
		} else {
			accum[key] = entry
		}
	}

	err := rc.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := rc.repo.WithTx(tx)
		for key, entry := range accum {
			if err := rc.upsertKey(ctx, repo, key, entry, report); err != nil {
				return err
			}
		}
		return rc.mergeDuplicates(ctx, repo, report)
	})
	if err != nil {
		return nil, err
	}

	return report, nil
}

// resolveRow maps raw row fields onto persisted ids. Unresolvable SKU or
// warehouse and malformed quantity mean "skip"; only infrastructure failures
// propagate.
func (rc *Reconciler) resolveRow(ctx context.Context, row Row) (accumKey, *accumEntry, bool, error) {
	sku := NormalizeSKU(row.SKU)
	if sku == "" {
		rc.skipLog(ctx, row, "missing sku")
		return accumKey{}, nil, false, nil
	}

	qty, err := strconv.ParseFloat(row.Quantity, 64)
	if err != nil || math.IsNaN(qty) || math.IsInf(qty, 0) {
		rc.skipLog(ctx, row, "malformed quantity")
		return accumKey{}, nil, false, nil
	}

	ref, ok, err := rc.resolveItem(ctx, row.ProductType, sku)
	if err != nil {
		return accumKey{}, nil, false, err
	}
	if !ok {
		rc.skipLog(ctx, row, "unresolvable sku")
		return accumKey{}, nil, false, nil
	}

	warehouse, err := rc.resolver.FindWarehouseByName(ctx, row.WarehouseName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rc.skipLog(ctx, row, "unresolvable warehouse")
			return accumKey{}, nil, false, nil
		}
		return accumKey{}, nil, false, err
	}

	key := accumKey{ref: ref, warehouseID: warehouse.ID, sku: sku}
	entry := &accumEntry{
		quantity: int(math.Round(qty)),
		cityID:   warehouse.CityID,
		meta:     row,
	}
	return key, entry, true, nil
}

func (rc *Reconciler) resolveItem(ctx context.Context, rawType, sku string) (types.ItemRef, bool, error) {
	itemType, typed := enums.ParseItemType(rawType)

	if !typed || itemType == enums.ItemTypeProduct {
		product, err := rc.resolver.FindProductBySKU(ctx, sku)
		if err == nil {
			return types.NewItemRef(enums.ItemTypeProduct, product.ID), true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ItemRef{}, false, err
		}
		if typed {
			return types.ItemRef{}, false, nil
		}
	}

	special, err := rc.resolver.FindSpecialProductBySKU(ctx, sku)
	if err == nil {
		return types.NewItemRef(enums.ItemTypeSpecial, special.ID), true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ItemRef{}, false, err
	}
	return types.ItemRef{}, false, nil
}

// upsertKey sets the batch quantity on the freshest record for the key, or
// inserts a new record when the (item, warehouse) pair has none.
func (rc *Reconciler) upsertKey(ctx context.Context, repo *Repository, key accumKey, entry *accumEntry, report *Report) error {
	records, err := repo.ListByItemWarehouse(ctx, key.ref, key.warehouseID)
	if err != nil {
		return err
	}

	if len(records) > 0 {
		record := records[0]
		record.Quantity = entry.quantity
		record.SKU = key.sku
		applyRowMetadata(&record, entry.meta)
		if err := repo.Save(ctx, &record); err != nil {
			return err
		}
		report.Updated++
		return nil
	}

	record := models.InventoryRecord{
		ItemType:            key.ref.Type,
		ItemID:              key.ref.ID,
		SKU:                 key.sku,
		WarehouseID:         key.warehouseID,
		CityID:              entry.cityID,
		Quantity:            entry.quantity,
		StockAlertThreshold: models.DefaultStockAlertThreshold,
		ExpiryDateThreshold: models.DefaultExpiryDateThreshold,
	}
	applyRowMetadata(&record, entry.meta)
	if err := repo.Create(ctx, &record); err != nil {
		return err
	}
	report.Created++
	return nil
}

// mergeDuplicates collapses pre-existing duplicate records per
// (item, warehouse): quantities are summed into the most-recently-updated
// record and the rest are deleted.
func (rc *Reconciler) mergeDuplicates(ctx context.Context, repo *Repository, report *Report) error {
	pairs, err := repo.DuplicatePairs(ctx)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		ref := types.NewItemRef(pair.ItemType, pair.ItemID)
		records, err := repo.ListByItemWarehouse(ctx, ref, pair.WarehouseID)
		if err != nil {
			return err
		}
		if len(records) < 2 {
			continue
		}
		keeper := records[0]
		loserIDs := make([]uuid.UUID, 0, len(records)-1)
		for _, dup := range records[1:] {
			keeper.Quantity += dup.Quantity
			loserIDs = append(loserIDs, dup.ID)
		}
		if err := repo.Save(ctx, &keeper); err != nil {
			return err
		}
		if err := repo.DeleteByIDs(ctx, loserIDs); err != nil {
			return err
		}
		report.Merged += len(loserIDs)
	}
	return nil
}

func (rc *Reconciler) skipLog(ctx context.Context, row Row, reason string) {
	if rc.logg == nil {
		return
	}
	logCtx := rc.logg.WithFields(ctx, map[string]any{
		"sku":       row.SKU,
		"warehouse": row.WarehouseName,
		"reason":    reason,
	})
	rc.logg.Warn(logCtx, "inventory row skipped")
}

func applyRowMetadata(record *models.InventoryRecord, row Row) {
	if row.VAT != nil {
		record.VAT = row.VAT
	}
	if row.StockAlertThreshold != nil {
		record.StockAlertThreshold = *row.StockAlertThreshold
	}
	if row.ExpiryDateThreshold != nil {
		record.ExpiryDateThreshold = *row.ExpiryDateThreshold
	}
	if row.Location != nil {
		record.Location = row.Location
	}
	if row.LastRestocked != nil {
		record.LastRestocked = row.LastRestocked
	}
	if row.BatchID != nil {
		record.BatchID = row.BatchID
	}
	if row.ExpiryDate != nil {
		record.ExpiryDate = row.ExpiryDate
	}
	if row.Barcode != nil {
		record.Barcode = row.Barcode
	}
}
