package coupons

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:coupons_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func moneyPtr(amount float64) *types.Money {
	m := types.MoneyFromFloat(amount)
	return &m
}

func TestDiscount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		coupon   models.Coupon
		subtotal float64
		want     string
	}{
		{
			name:     "percent",
			coupon:   models.Coupon{Type: enums.CouponTypePercent, Value: types.MoneyFromFloat(10)},
			subtotal: 200,
			want:     "20.00",
		},
		{
			name:     "fixed",
			coupon:   models.Coupon{Type: enums.CouponTypeFixed, Value: types.MoneyFromFloat(15)},
			subtotal: 100,
			want:     "15.00",
		},
		{
			name:     "fixed clamped to subtotal",
			coupon:   models.Coupon{Type: enums.CouponTypeFixed, Value: types.MoneyFromFloat(50)},
			subtotal: 30,
			want:     "30.00",
		},
		{
			name: "percent clamped to max discount",
			coupon: models.Coupon{
				Type:        enums.CouponTypePercent,
				Value:       types.MoneyFromFloat(50),
				MaxDiscount: moneyPtr(100),
			},
			subtotal: 1000,
			want:     "100.00",
		},
		{
			name:     "unknown type yields nothing",
			coupon:   models.Coupon{Type: "mystery", Value: types.MoneyFromFloat(10)},
			subtotal: 100,
			want:     "0.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Discount(tc.coupon, types.MoneyFromFloat(tc.subtotal))
			if got.String() != tc.want {
				t.Fatalf("Discount() = %s, want %s", got.String(), tc.want)
			}
		})
	}
}

func TestCreateNormalizesAndValidates(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	coupon, err := svc.Create(ctx, CreateInput{
		Code:  "  save10 ",
		Type:  enums.CouponTypePercent,
		Value: types.MoneyFromFloat(10),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if coupon.Code != "SAVE10" {
		t.Fatalf("expected upper-cased code, got %q", coupon.Code)
	}
	if !coupon.IsActive {
		t.Fatal("new coupons start active")
	}

	_, err = svc.Create(ctx, CreateInput{Code: "SAVE10", Type: enums.CouponTypeFixed, Value: types.MoneyFromFloat(5)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate code, got %v", err)
	}

	badValues := []CreateInput{
		{Code: "P150", Type: enums.CouponTypePercent, Value: types.MoneyFromFloat(150)},
		{Code: "NEG", Type: enums.CouponTypePercent, Value: types.MoneyFromFloat(-1)},
		{Code: "ZERO", Type: enums.CouponTypeFixed, Value: types.MoneyFromFloat(0)},
		{Code: "ODD", Type: "mystery", Value: types.MoneyFromFloat(5)},
	}
	for _, input := range badValues {
		if _, err := svc.Create(ctx, input); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}

func TestUpdateAndDelete(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	coupon, err := svc.Create(ctx, CreateInput{Code: "SAVE10", Type: enums.CouponTypePercent, Value: types.MoneyFromFloat(10)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	inactive := false
	updated, err := svc.Update(ctx, coupon.ID, UpdateInput{
		Value:       moneyPtr(25),
		MinPurchase: moneyPtr(100),
		IsActive:    &inactive,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Value.String() != "25.00" || updated.MinPurchase.String() != "100.00" || updated.IsActive {
		t.Fatalf("unexpected updated coupon: %+v", updated)
	}

	if _, err := svc.Update(ctx, coupon.ID, UpdateInput{Value: moneyPtr(200)}); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for out-of-range percent, got %v", err)
	}
	if _, err := svc.Update(ctx, uuid.New(), UpdateInput{}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatal("expected not found for unknown coupon")
	}

	if err := svc.Delete(ctx, coupon.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, coupon.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatal("expected not found on second delete")
	}
}
