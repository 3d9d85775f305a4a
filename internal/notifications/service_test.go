package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:notifications_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Notification{}); err != nil {
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

func seedNotification(t *testing.T, conn *gorm.DB, title string, createdAt time.Time) models.Notification {
	t.Helper()
	notification := models.Notification{
		Audience:  enums.AudienceAdmin,
		Type:      enums.NotificationGeneral,
		Title:     title,
		Message:   "msg",
		CreatedAt: createdAt,
	}
	if err := conn.Create(&notification).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return notification
}

func TestListPagesNewestFirstWithCursor(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	seedNotification(t, conn, "oldest", base)
	seedNotification(t, conn, "middle", base.Add(time.Minute))
	seedNotification(t, conn, "newest", base.Add(2*time.Minute))

	first, err := svc.List(ctx, enums.AudienceAdmin, nil, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Notifications) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(first.Notifications))
	}
	if first.Notifications[0].Title != "newest" || first.Notifications[1].Title != "middle" {
		t.Fatalf("unexpected ordering: %q, %q", first.Notifications[0].Title, first.Notifications[1].Title)
	}
	if first.NextCursor == "" {
		t.Fatal("expected a next cursor on a full page")
	}

	second, err := svc.List(ctx, enums.AudienceAdmin, nil, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Notifications) != 1 || second.Notifications[0].Title != "oldest" {
		t.Fatalf("unexpected second page: %+v", second.Notifications)
	}
	if second.NextCursor != "" {
		t.Fatalf("last page must not carry a cursor, got %q", second.NextCursor)
	}

	if _, err := svc.List(ctx, enums.AudienceAdmin, nil, pagination.Params{Cursor: "not-base64!"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for a bad cursor, got %v", err)
	}
}

func TestListScopesCustomerRows(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	customerID := uuid.New()
	otherID := uuid.New()
	for _, id := range []uuid.UUID{customerID, otherID} {
		id := id
		row := models.Notification{
			Audience:   enums.AudienceCustomer,
			CustomerID: &id,
			Type:       enums.NotificationGeneral,
			Title:      "for " + id.String(),
			Message:    "msg",
		}
		if err := conn.Create(&row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	result, err := svc.List(ctx, enums.AudienceCustomer, &customerID, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Notifications) != 1 || *result.Notifications[0].CustomerID != customerID {
		t.Fatalf("expected only the customer's rows, got %+v", result.Notifications)
	}
}

func TestCreateCustomerAudienceRequiresCustomerID(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Create(context.Background(), CreateInput{
		Audience: enums.AudienceCustomer,
		Type:     enums.NotificationGeneral,
		Title:    "t",
		Message:  "m",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkReadIsIdempotentAndReportsMissing(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)
	row := seedNotification(t, conn, "one", time.Now().UTC())

	if err := svc.MarkRead(ctx, row.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	var stored models.Notification
	if err := conn.First(&stored, "id = ?", row.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.ReadAt == nil {
		t.Fatal("expected read_at set")
	}

	// Marking an already-read row is a no-op, not an error.
	if err := svc.MarkRead(ctx, row.ID); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	err := svc.MarkRead(ctx, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkAllReadCountsOnlyUnread(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	svc := newTestService(t, conn)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	seedNotification(t, conn, "a", base)
	seedNotification(t, conn, "b", base.Add(time.Minute))
	already := seedNotification(t, conn, "c", base.Add(2*time.Minute))
	if err := svc.MarkRead(ctx, already.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	count, err := svc.MarkAllRead(ctx, enums.AudienceAdmin, nil)
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 rows updated, got %d", count)
	}

	var unread int64
	if err := conn.Model(&models.Notification{}).Where("read_at IS NULL").Count(&unread).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected no unread rows, got %d", unread)
	}
}
