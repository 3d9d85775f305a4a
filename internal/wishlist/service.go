package wishlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Service exposes the per-customer wishlist set.
type Service interface {
	Add(ctx context.Context, customerID uuid.UUID, ref types.ItemRef) error
	Remove(ctx context.Context, customerID uuid.UUID, ref types.ItemRef) error
	List(ctx context.Context, customerID uuid.UUID) ([]models.WishlistItem, error)
}

type itemChecker interface {
	ItemExists(ctx context.Context, ref types.ItemRef) (bool, error)
}

type service struct {
	repo  *Repository
	items itemChecker
}

// NewService constructs the wishlist service.
func NewService(repo *Repository, items itemChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wishlist repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item checker required")
	}
	return &service{repo: repo, items: items}, nil
}

func (s *service) Add(ctx context.Context, customerID uuid.UUID, ref types.ItemRef) error {
	if !ref.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "item reference is invalid")
	}
	exists, err := s.items.ItemExists(ctx, ref)
	if err != nil {
		return err
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return s.repo.Add(ctx, &models.WishlistItem{
		CustomerID: customerID,
		ItemType:   ref.Type,
		ItemID:     ref.ID,
	})
}

func (s *service) Remove(ctx context.Context, customerID uuid.UUID, ref types.ItemRef) error {
	if !ref.Valid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "item reference is invalid")
	}
	removed, err := s.repo.Remove(ctx, customerID, ref)
	if err != nil {
		return err
	}
	if removed == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist entry not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, customerID uuid.UUID) ([]models.WishlistItem, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
