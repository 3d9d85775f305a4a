package cron

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/pawmart/backoffice-backend/internal/notifications"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	"github.com/pawmart/backoffice-backend/pkg/logger"
)

type stubInventory struct {
	records []models.InventoryRecord
}

func (s *stubInventory) ListAll(_ context.Context) ([]models.InventoryRecord, error) {
	return s.records, nil
}

type stubNotifier struct {
	created []notifications.CreateInput
}

func (s *stubNotifier) Create(_ context.Context, input notifications.CreateInput) (*models.Notification, error) {
	s.created = append(s.created, input)
	return &models.Notification{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func timePtr(t time.Time) *time.Time { return &t }

func TestLowStockSweepThresholds(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inventory := &stubInventory{records: []models.InventoryRecord{
		{SKU: "UNDER", Quantity: 5, StockAlertThreshold: 10},
		{SKU: "EXACT", Quantity: 10, StockAlertThreshold: 10},
		{SKU: "OVER", Quantity: 15, StockAlertThreshold: 10},
	}}
	notifier := &stubNotifier{}

	job, err := NewLowStockSweepJob(LowStockSweepJobParams{
		Logger:        testLogger(),
		Inventory:     inventory,
		Notifications: notifier,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job.(*lowStockSweepJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(notifier.created) != 2 {
		t.Fatalf("expected alerts for UNDER and EXACT only, got %d", len(notifier.created))
	}
	for _, input := range notifier.created {
		if input.Audience != enums.AudienceAdmin || input.Type != enums.NotificationLowStock {
			t.Fatalf("unexpected notification: %+v", input)
		}
	}
}

func TestLowStockSweepExpiryThresholds(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inventory := &stubInventory{records: []models.InventoryRecord{
		// 25 hours away rounds up to 2 days, inside a 30 day threshold.
		{SKU: "SOON", Quantity: 100, StockAlertThreshold: 1, ExpiryDateThreshold: 30,
			ExpiryDate: timePtr(now.Add(25 * time.Hour))},
		{SKU: "FAR", Quantity: 100, StockAlertThreshold: 1, ExpiryDateThreshold: 30,
			ExpiryDate: timePtr(now.Add(40 * 24 * time.Hour))},
		{SKU: "PAST", Quantity: 100, StockAlertThreshold: 1, ExpiryDateThreshold: 30,
			ExpiryDate: timePtr(now.Add(-48 * time.Hour))},
		{SKU: "NONE", Quantity: 100, StockAlertThreshold: 1, ExpiryDateThreshold: 30},
	}}
	notifier := &stubNotifier{}

	job, err := NewLowStockSweepJob(LowStockSweepJobParams{
		Logger:        testLogger(),
		Inventory:     inventory,
		Notifications: notifier,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job.(*lowStockSweepJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(notifier.created) != 2 {
		t.Fatalf("expected expiry alerts for SOON and PAST, got %d", len(notifier.created))
	}
	for _, input := range notifier.created {
		if input.Type != enums.NotificationInventoryExpiry {
			t.Fatalf("unexpected notification type: %s", input.Type)
		}
	}
}

func TestDaysUntilRoundsUp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		delta time.Duration
		want  int
	}{
		{time.Hour, 1},
		{24 * time.Hour, 1},
		{25 * time.Hour, 2},
		{-time.Hour, 0},
		{-48 * time.Hour, -2},
	}
	for _, tc := range cases {
		if got := daysUntil(now.Add(tc.delta), now); got != tc.want {
			t.Fatalf("daysUntil(+%v) = %d, want %d", tc.delta, got, tc.want)
		}
	}
}
