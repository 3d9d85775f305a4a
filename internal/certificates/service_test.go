package certificates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:certificates_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.CertificateRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSubmitRequiresCertificateType(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitInput{CertificateType: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecideIsFinal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestService(t)
	customerID := uuid.New()

	request, err := svc.Submit(ctx, customerID, SubmitInput{CertificateType: "vaccination"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if request.Status != enums.StatusPending {
		t.Fatalf("expected pending, got %s", request.Status)
	}

	note := "looks good"
	decided, err := svc.Decide(ctx, request.ID, DecisionInput{Approve: true, Note: &note})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != enums.StatusApproved || decided.DecidedAt == nil || decided.Note == nil || *decided.Note != note {
		t.Fatalf("unexpected decided request: %+v", decided)
	}

	_, err = svc.Decide(ctx, request.ID, DecisionInput{Approve: false})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on a second decision, got %v", err)
	}

	status := enums.StatusApproved
	rows, err := svc.List(ctx, &status, &customerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != request.ID {
		t.Fatalf("unexpected listing: %+v", rows)
	}
}

func TestDecideRejectsUnknownRequest(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	_, err := svc.Decide(context.Background(), uuid.New(), DecisionInput{Approve: true})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
