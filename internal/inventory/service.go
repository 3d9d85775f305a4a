package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Service exposes inventory record management. Bulk set semantics live in
// Reconciler; AddStock here is the additive single-row path.
type Service interface {
	List(ctx context.Context, filter Filter) ([]models.InventoryRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error)
	Create(ctx context.Context, input CreateInput) (*models.InventoryRecord, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.InventoryRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddStock(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryRecord, error)
}

// CreateInput is the admin manual-create payload.
type CreateInput struct {
	ItemRef             types.ItemRef `json:"item" validate:"required"`
	SKU                 string        `json:"sku" validate:"required"`
	WarehouseID         uuid.UUID     `json:"warehouse_id" validate:"required"`
	Quantity            int           `json:"quantity" validate:"gte=0"`
	StockAlertThreshold *int          `json:"stock_alert_threshold,omitempty"`
	ExpiryDateThreshold *int          `json:"expiry_date_threshold,omitempty"`
	BatchID             *string       `json:"batch_id,omitempty"`
	ExpiryDate          *time.Time    `json:"expiry_date,omitempty"`
	Barcode             *string       `json:"barcode,omitempty"`
	VAT                 *float64      `json:"vat,omitempty"`
	Location            *string       `json:"location,omitempty"`
}

// UpdateInput mutates thresholds, metadata or quantity in place.
type UpdateInput struct {
	Quantity            *int       `json:"quantity,omitempty"`
	StockAlertThreshold *int       `json:"stock_alert_threshold,omitempty"`
	ExpiryDateThreshold *int       `json:"expiry_date_threshold,omitempty"`
	BatchID             *string    `json:"batch_id,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	Barcode             *string    `json:"barcode,omitempty"`
	VAT                 *float64   `json:"vat,omitempty"`
	Location            *string    `json:"location,omitempty"`
}

type warehouseLoader interface {
	FindWarehouseByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

type itemChecker interface {
	ItemExists(ctx context.Context, ref types.ItemRef) (bool, error)
}

type service struct {
	repo       *Repository
	db         txRunner
	warehouses warehouseLoader
	items      itemChecker
}

// NewService constructs the inventory service.
func NewService(repo *Repository, db txRunner, warehouses warehouseLoader, items itemChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse loader required")
	}
	if items == nil {
		return nil, fmt.Errorf("item checker required")
	}
	return &service{repo: repo, db: db, warehouses: warehouses, items: items}, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]models.InventoryRecord, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return nil, err
	}
	return record, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.InventoryRecord, error) {
	if !input.ItemRef.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item reference is invalid")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	exists, err := s.items.ItemExists(ctx, input.ItemRef)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	warehouse, err := s.warehouses.FindWarehouseByID(ctx, input.WarehouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, err
	}

	record := &models.InventoryRecord{
		ItemType:            input.ItemRef.Type,
		ItemID:              input.ItemRef.ID,
		SKU:                 NormalizeSKU(input.SKU),
		WarehouseID:         warehouse.ID,
		CityID:              warehouse.CityID,
		Quantity:            input.Quantity,
		StockAlertThreshold: models.DefaultStockAlertThreshold,
		ExpiryDateThreshold: models.DefaultExpiryDateThreshold,
		BatchID:             input.BatchID,
		ExpiryDate:          input.ExpiryDate,
		Barcode:             input.Barcode,
		VAT:                 input.VAT,
		Location:            input.Location,
	}
	if input.StockAlertThreshold != nil {
		record.StockAlertThreshold = *input.StockAlertThreshold
	}
	if input.ExpiryDateThreshold != nil {
		record.ExpiryDateThreshold = *input.ExpiryDateThreshold
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.InventoryRecord, error) {
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	var updated *models.InventoryRecord
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
			}
			return err
		}
		if input.Quantity != nil {
			record.Quantity = *input.Quantity
		}
		if input.StockAlertThreshold != nil {
			record.StockAlertThreshold = *input.StockAlertThreshold
		}
		if input.ExpiryDateThreshold != nil {
			record.ExpiryDateThreshold = *input.ExpiryDateThreshold
		}
		if input.BatchID != nil {
			record.BatchID = input.BatchID
		}
		if input.ExpiryDate != nil {
			record.ExpiryDate = input.ExpiryDate
		}
		if input.Barcode != nil {
			record.Barcode = input.Barcode
		}
		if input.VAT != nil {
			record.VAT = input.VAT
		}
		if input.Location != nil {
			record.Location = input.Location
		}
		if err := repo.Save(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddStock adds quantity to a record, unlike the bulk upload which sets it.
func (s *service) AddStock(ctx context.Context, id uuid.UUID, quantity int) (*models.InventoryRecord, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var updated *models.InventoryRecord
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		record, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory record not found")
			}
			return err
		}
		record.Quantity += quantity
		now := time.Now().UTC()
		record.LastRestocked = &now
		if err := repo.Save(ctx, record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
