package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
)

// Repository owns cart and cart item persistence.
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

// FindByIdentity loads the cart for the owner with items and coupon.
func (r *Repository) FindByIdentity(ctx context.Context, identity Identity) (*models.Cart, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Coupon")
	if identity.CustomerID != nil {
		query = query.Where("customer_id = ?", *identity.CustomerID)
	} else {
		query = query.Where("session_id = ? AND customer_id IS NULL", *identity.SessionID)
	}
	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *Repository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

// UpdateTotals writes the derived money columns without touching item rows.
func (r *Repository) UpdateTotals(ctx context.Context, cart *models.Cart) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]any{
			"total":     cart.Total,
			"discount":  cart.Discount,
			"coupon_id": cart.CouponID,
		}).Error
}

func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *Repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *Repository) DeleteItemsByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartItem{}).Error
}

func (r *Repository) DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

func (r *Repository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", cartID).Delete(&models.Cart{}).Error
}

// DeleteGuestCartsBefore removes guest carts untouched since the cutoff,
// items first so sqlite tests do not depend on FK cascade.
func (r *Repository) DeleteGuestCartsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	conn := tx
	if conn == nil {
		conn = r.db
	}
	var ids []uuid.UUID
	err := conn.WithContext(ctx).
		Model(&models.Cart{}).
		Where("session_id IS NOT NULL AND customer_id IS NULL AND updated_at < ?", cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := conn.WithContext(ctx).Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return 0, err
	}
	result := conn.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Cart{})
	return result.RowsAffected, result.Error
}
