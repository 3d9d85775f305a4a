package cron

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pawmart/backoffice-backend/internal/notifications"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

type inventorySweepRepo interface {
	ListAll(ctx context.Context) ([]models.InventoryRecord, error)
}

type notificationCreator interface {
	Create(ctx context.Context, input notifications.CreateInput) (*models.Notification, error)
}

// LowStockSweepJobParams configure the threshold sweep.
type LowStockSweepJobParams struct {
	Logger        *logger.Logger
	Inventory     inventorySweepRepo
	Notifications notificationCreator
}

// NewLowStockSweepJob builds the job that walks every inventory record and
// raises LOW_STOCK and INVENTORY_EXPIRY admin notifications. Sweeps do not
// dedupe against earlier cycles: a record still past threshold alerts again.
func NewLowStockSweepJob(params LowStockSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notification service required")
	}
	return &lowStockSweepJob{
		logg:          params.Logger,
		inventory:     params.Inventory,
		notifications: params.Notifications,
		now:           time.Now,
	}, nil
}

type lowStockSweepJob struct {
	logg          *logger.Logger
	inventory     inventorySweepRepo
	notifications notificationCreator
	now           func() time.Time
}

func (j *lowStockSweepJob) Name() string { return "low-stock-sweep" }

func (j *lowStockSweepJob) Run(ctx context.Context) error {
	records, err := j.inventory.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("listing inventory: %w", err)
	}

	now := j.now().UTC()
	var lowStock, expiring, failures int
	for _, record := range records {
		// One bad record must not abort the rest of the sweep.
		if err := j.checkRecord(ctx, record, now, &lowStock, &expiring); err != nil {
			failures++
			recCtx := j.logg.WithField(ctx, "record_id", record.ID.String())
			j.logg.Error(recCtx, "threshold check failed", err)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"records":        len(records),
		"low_stock":      lowStock,
		"expiring":       expiring,
		"failed_records": failures,
	})
	j.logg.Info(logCtx, "threshold sweep complete")
	return nil
}

func (j *lowStockSweepJob) checkRecord(ctx context.Context, record models.InventoryRecord, now time.Time, lowStock, expiring *int) error {
	if record.Quantity <= record.StockAlertThreshold {
		_, err := j.notifications.Create(ctx, notifications.CreateInput{
			Audience: enums.AudienceAdmin,
			Type:     enums.NotificationLowStock,
			Title:    "Low stock",
			Message: fmt.Sprintf("SKU %s is down to %d units (threshold %d)",
				record.SKU, record.Quantity, record.StockAlertThreshold),
		})
		if err != nil {
			return err
		}
		*lowStock++
	}

	if record.ExpiryDate != nil {
		daysLeft := daysUntil(*record.ExpiryDate, now)
		if daysLeft <= record.ExpiryDateThreshold {
			_, err := j.notifications.Create(ctx, notifications.CreateInput{
				Audience: enums.AudienceAdmin,
				Type:     enums.NotificationInventoryExpiry,
				Title:    "Inventory expiring",
				Message: fmt.Sprintf("SKU %s expires in %d days (batch %s)",
					record.SKU, daysLeft, batchLabel(record.BatchID)),
			})
			if err != nil {
				return err
			}
			*expiring++
		}
	}
	return nil
}

// daysUntil is the ceiling of the remaining time in whole days; an expiry in
// the past yields a negative count and still trips the threshold.
func daysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

func batchLabel(batchID *string) string {
	if batchID == nil || *batchID == "" {
		return "unknown"
	}
	return *batchID
}
