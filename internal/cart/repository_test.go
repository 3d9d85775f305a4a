package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
)

func TestDeleteGuestCartsBefore(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t)
	ctx := context.Background()
	repo := NewRepository(conn)

	stale := models.Cart{SessionID: strp("sess-stale")}
	fresh := models.Cart{SessionID: strp("sess-fresh")}
	customerID := uuid.New()
	owned := models.Cart{CustomerID: &customerID}
	for _, cart := range []*models.Cart{&stale, &fresh, &owned} {
		if err := conn.Create(cart).Error; err != nil {
			t.Fatalf("seed cart: %v", err)
		}
	}
	if err := conn.Create(&models.CartItem{
		CartID:   stale.ID,
		ItemType: "product",
		ItemID:   uuid.New(),
		Quantity: 1,
	}).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}

	old := time.Now().Add(-30 * 24 * time.Hour)
	for _, id := range []uuid.UUID{stale.ID, owned.ID} {
		if err := conn.Model(&models.Cart{}).Where("id = ?", id).UpdateColumn("updated_at", old).Error; err != nil {
			t.Fatalf("age cart: %v", err)
		}
	}

	deleted, err := repo.DeleteGuestCartsBefore(ctx, nil, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 cart deleted, got %d", deleted)
	}

	var carts []models.Cart
	if err := conn.Find(&carts).Error; err != nil {
		t.Fatalf("load carts: %v", err)
	}
	if len(carts) != 2 {
		t.Fatalf("expected fresh guest and customer carts to survive, got %d", len(carts))
	}
	for _, cart := range carts {
		if cart.ID == stale.ID {
			t.Fatal("stale guest cart should be gone")
		}
	}

	var itemCount int64
	if err := conn.Model(&models.CartItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 0 {
		t.Fatalf("expected items of deleted cart removed, got %d", itemCount)
	}
}
