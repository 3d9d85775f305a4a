package wishlist

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

type stubCatalog struct {
	known map[types.ItemRef]bool
}

func (s stubCatalog) ItemExists(_ context.Context, ref types.ItemRef) (bool, error) {
	return s.known[ref], nil
}

func newTestService(t *testing.T, known map[types.ItemRef]bool) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:wishlist_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.WishlistItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), stubCatalog{known: known})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestAddIsIdempotentPerItem(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	ref := types.NewItemRef(enums.ItemTypeProduct, uuid.New())
	svc, conn := newTestService(t, map[types.ItemRef]bool{ref: true})
	ctx := context.Background()

	if err := svc.Add(ctx, customerID, ref); err != nil {
		t.Fatalf("add: %v", err)
	}
	// A second add of the same pair keeps the set semantics.
	if err := svc.Add(ctx, customerID, ref); err != nil {
		t.Fatalf("repeat add: %v", err)
	}

	var count int64
	if err := conn.Model(&models.WishlistItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row, got %d", count)
	}
}

func TestAddRejectsUnknownItems(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	err := svc.Add(ctx, uuid.New(), types.NewItemRef(enums.ItemTypeProduct, uuid.New()))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	err = svc.Add(ctx, uuid.New(), types.ItemRef{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveAndListScopeToCustomer(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	ref := types.NewItemRef(enums.ItemTypeSpecial, uuid.New())
	svc, _ := newTestService(t, map[types.ItemRef]bool{ref: true})
	ctx := context.Background()

	if err := svc.Add(ctx, first, ref); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := svc.Add(ctx, second, ref); err != nil {
		t.Fatalf("add second: %v", err)
	}

	if err := svc.Remove(ctx, first, ref); err != nil {
		t.Fatalf("remove: %v", err)
	}

	entries, err := svc.List(ctx, second)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].CustomerID != second {
		t.Fatalf("other customers keep their entries, got %+v", entries)
	}

	err = svc.Remove(ctx, first, ref)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on a second remove, got %v", err)
	}
}
