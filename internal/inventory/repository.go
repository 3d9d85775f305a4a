package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Repository owns InventoryRecord persistence. Product stock is a relation
// derived from these rows; nothing here writes back into the catalog tables.
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

func (r *Repository) Create(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository) Save(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryRecord{}).Error
}

func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.InventoryRecord{}).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("City").
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByItemWarehouse returns every record for the (item, warehouse) pair,
// most recently updated first. More than one row means the pair still needs
// a merge pass.
func (r *Repository) ListByItemWarehouse(ctx context.Context, ref types.ItemRef, warehouseID uuid.UUID) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("item_type = ? AND item_id = ? AND warehouse_id = ?", ref.Type, ref.ID, warehouseID).
		Order("updated_at desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CityQuantity sums live quantity for the item across all warehouses of a
// city. Feeds the product out-of-stock flag.
func (r *Repository) CityQuantity(ctx context.Context, ref types.ItemRef, cityID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Where("item_type = ? AND item_id = ? AND city_id = ?", ref.Type, ref.ID, cityID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// Filter narrows inventory listings.
type Filter struct {
	WarehouseID *uuid.UUID
	CityID      *uuid.UUID
	ItemRef     *types.ItemRef
	SKU         string
}

func (r *Repository) List(ctx context.Context, filter Filter) ([]models.InventoryRecord, error) {
	query := r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("City").
		Order("updated_at desc")
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.CityID != nil {
		query = query.Where("city_id = ?", *filter.CityID)
	}
	if filter.ItemRef != nil {
		query = query.Where("item_type = ? AND item_id = ?", filter.ItemRef.Type, filter.ItemRef.ID)
	}
	if filter.SKU != "" {
		query = query.Where("sku = ?", filter.SKU)
	}
	var records []models.InventoryRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll streams every record for the threshold sweep.
func (r *Repository) ListAll(ctx context.Context) ([]models.InventoryRecord, error) {
	var records []models.InventoryRecord
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// DuplicatePairs returns (item, warehouse) pairs holding more than one
// record, for the reconciler's merge post-pass.
func (r *Repository) DuplicatePairs(ctx context.Context) ([]models.InventoryRecord, error) {
	var pairs []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Select("item_type, item_id, warehouse_id").
		Group("item_type, item_id, warehouse_id").
		Having("COUNT(*) > 1").
		Find(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
