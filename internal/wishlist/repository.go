package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Repository owns wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// Add inserts the pair with set semantics; an existing pair is a no-op.
func (r *Repository) Add(ctx context.Context, entry *models.WishlistItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry).Error
}

func (r *Repository) Remove(ctx context.Context, customerID uuid.UUID, ref types.ItemRef) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("customer_id = ? AND item_type = ? AND item_id = ?", customerID, ref.Type, ref.ID).
		Delete(&models.WishlistItem{})
	return result.RowsAffected, result.Error
}

func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.WishlistItem, error) {
	var entries []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
