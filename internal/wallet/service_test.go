package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/internal/notifications"
	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:wallet_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	svc, err := NewService(NewRepository(conn), db.NewWithConn(conn), notifications.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedCustomer(t *testing.T, conn *gorm.DB, balance float64) models.Customer {
	t.Helper()
	customer := models.Customer{
		Email:         uuid.NewString() + "@example.com",
		Name:          "Test Customer",
		WalletBalance: types.MoneyFromFloat(balance),
	}
	if err := conn.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func TestApproveCreditMovesBalanceAndNotifies(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)
	customer := seedCustomer(t, conn, 100)

	request, err := svc.Submit(ctx, customer.ID, SubmitInput{
		Direction: enums.WalletCredit,
		Amount:    types.MoneyFromFloat(50),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != enums.StatusPending {
		t.Fatalf("expected pending, got %s", request.Status)
	}

	approved, err := svc.Approve(ctx, request.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != enums.StatusApproved || approved.DecidedAt == nil {
		t.Fatalf("unexpected approved request: %+v", approved)
	}

	var stored models.Customer
	if err := conn.First(&stored, "id = ?", customer.ID).Error; err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if stored.WalletBalance.String() != "150.00" {
		t.Fatalf("expected balance 150.00, got %s", stored.WalletBalance.String())
	}

	var notification models.Notification
	if err := conn.First(&notification).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if notification.Audience != enums.AudienceAdmin || notification.Type != enums.NotificationWallet {
		t.Fatalf("unexpected notification: %+v", notification)
	}

	// A decided request cannot be decided again.
	if _, err := svc.Approve(ctx, request.ID); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestApproveDebitEnforcesBalanceFloor(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)
	customer := seedCustomer(t, conn, 100)

	// Submitted while the balance still covered it; the balance has since
	// been spent down below the requested amount.
	request := models.WalletRequest{
		CustomerID: customer.ID,
		Direction:  enums.WalletDebit,
		Amount:     types.MoneyFromFloat(200),
		Status:     enums.StatusPending,
	}
	if err := conn.Create(&request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}

	_, err := svc.Approve(ctx, request.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	var stored models.WalletRequest
	if err := conn.First(&stored, "id = ?", request.ID).Error; err != nil {
		t.Fatalf("load request: %v", err)
	}
	if stored.Status != enums.StatusPending {
		t.Fatalf("failed approval must roll back, status %s", stored.Status)
	}

	var balance models.Customer
	if err := conn.First(&balance, "id = ?", customer.ID).Error; err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if balance.WalletBalance.String() != "100.00" {
		t.Fatalf("balance must be untouched, got %s", balance.WalletBalance.String())
	}
}

func TestSubmitValidations(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)
	customer := seedCustomer(t, conn, 30)

	cases := []struct {
		name  string
		id    uuid.UUID
		input SubmitInput
		want  pkgerrors.Code
	}{
		{"debit over balance", customer.ID, SubmitInput{Direction: enums.WalletDebit, Amount: types.MoneyFromFloat(50)}, pkgerrors.CodeValidation},
		{"non positive amount", customer.ID, SubmitInput{Direction: enums.WalletCredit, Amount: types.MoneyFromFloat(0)}, pkgerrors.CodeValidation},
		{"bad direction", customer.ID, SubmitInput{Direction: "sideways", Amount: types.MoneyFromFloat(5)}, pkgerrors.CodeValidation},
		{"unknown customer", uuid.New(), SubmitInput{Direction: enums.WalletCredit, Amount: types.MoneyFromFloat(5)}, pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.id, tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
		})
	}
}

func TestRejectKeepsBalanceAndRecordsNote(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)
	customer := seedCustomer(t, conn, 100)

	request, err := svc.Submit(ctx, customer.ID, SubmitInput{
		Direction: enums.WalletCredit,
		Amount:    types.MoneyFromFloat(25),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	note := "documents missing"
	rejected, err := svc.Reject(ctx, request.ID, &note)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != enums.StatusRejected || rejected.Note == nil || *rejected.Note != note {
		t.Fatalf("unexpected rejected request: %+v", rejected)
	}

	var stored models.Customer
	if err := conn.First(&stored, "id = ?", customer.ID).Error; err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if stored.WalletBalance.String() != "100.00" {
		t.Fatalf("rejection must not move money, got %s", stored.WalletBalance.String())
	}
}
