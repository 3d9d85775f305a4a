package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/internal/coupons"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// Identity is the cart owner: an authenticated customer or a guest session,
// never both.
type Identity struct {
	CustomerID *uuid.UUID
	SessionID  *string
}

// Valid reports whether exactly one identity key is set.
func (i Identity) Valid() bool {
	if i.CustomerID != nil && i.SessionID != nil {
		return false
	}
	if i.CustomerID == nil && (i.SessionID == nil || *i.SessionID == "") {
		return false
	}
	return true
}

// AddItemInput adds or increments a cart line.
type AddItemInput struct {
	Ref      types.ItemRef
	Quantity int
	Price    *types.Money
	Color    *string
}

// UpdateItemInput sets a line's quantity; zero removes the line.
type UpdateItemInput struct {
	Ref      types.ItemRef
	Quantity int
	Color    *string
}

// Service exposes the cart operations. Every mutation recomputes the cart
// total inside the same transaction as the line change.
type Service interface {
	Get(ctx context.Context, identity Identity) (*models.Cart, error)
	AddItem(ctx context.Context, identity Identity, input AddItemInput) (*models.Cart, error)
	UpdateItem(ctx context.Context, identity Identity, input UpdateItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, identity Identity, ref types.ItemRef, color *string) (*models.Cart, error)
	Clear(ctx context.Context, identity Identity) error
	ApplyCoupon(ctx context.Context, identity Identity, code string) (*models.Cart, error)
}

type itemCatalog interface {
	ItemExists(ctx context.Context, ref types.ItemRef) (bool, error)
	FirstListedPrice(ctx context.Context, ref types.ItemRef) (*models.ProductPrice, error)
}

type couponLoader interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    *Repository
	db      txRunner
	catalog itemCatalog
	coupons couponLoader
	now     func() time.Time
}

// NewService constructs the cart service.
func NewService(repo *Repository, db txRunner, catalog itemCatalog, couponRepo couponLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("item catalog required")
	}
	if couponRepo == nil {
		return nil, fmt.Errorf("coupon loader required")
	}
	return &service{
		repo:    repo,
		db:      db,
		catalog: catalog,
		coupons: couponRepo,
		now:     time.Now,
	}, nil
}

// Get returns the owner's cart, or an empty unsaved cart when none exists.
func (s *service) Get(ctx context.Context, identity Identity) (*models.Cart, error) {
	if !identity.Valid() {
		return nil, errInvalidIdentity()
	}
	cart, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.Cart{
				CustomerID: identity.CustomerID,
				SessionID:  identity.SessionID,
				Items:      []models.CartItem{},
			}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem appends a line, or when a line with the same (item, type, color)
// already exists, increments its quantity and overwrites its price snapshot.
func (s *service) AddItem(ctx context.Context, identity Identity, input AddItemInput) (*models.Cart, error) {
	if !identity.Valid() {
		return nil, errInvalidIdentity()
	}
	if !input.Ref.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item reference is invalid")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	exists, err := s.catalog.ItemExists(ctx, input.Ref)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	price, err := s.resolvePrice(ctx, input)
	if err != nil {
		return nil, err
	}

	var result *models.Cart
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := s.loadOrCreateCart(ctx, repo, identity)
		if err != nil {
			return err
		}

		if line := matchLine(cart.Items, input.Ref, input.Color, true); line != nil {
			line.Quantity += input.Quantity
			line.Price = price
			if err := repo.SaveItem(ctx, line); err != nil {
				return err
			}
		} else {
			item := models.CartItem{
				CartID:   cart.ID,
				ItemType: input.Ref.Type,
				ItemID:   input.Ref.ID,
				Quantity: input.Quantity,
				Price:    price,
				Color:    input.Color,
			}
			if err := repo.CreateItem(ctx, &item); err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}

		result = cart
		return s.persistTotals(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItem sets the matched line's quantity in place; zero removes it.
func (s *service) UpdateItem(ctx context.Context, identity Identity, input UpdateItemInput) (*models.Cart, error) {
	if !identity.Valid() {
		return nil, errInvalidIdentity()
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	var result *models.Cart
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByIdentity(ctx, identity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}

		line := matchLine(cart.Items, input.Ref, input.Color, input.Color != nil)
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}

		if input.Quantity == 0 {
			if err := repo.DeleteItemsByIDs(ctx, []uuid.UUID{line.ID}); err != nil {
				return err
			}
			cart.Items = withoutItems(cart.Items, []uuid.UUID{line.ID})
		} else {
			line.Quantity = input.Quantity
			if err := repo.SaveItem(ctx, line); err != nil {
				return err
			}
		}

		result = cart
		return s.persistTotals(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes the matched lines. A nil color matches any color.
func (s *service) RemoveItem(ctx context.Context, identity Identity, ref types.ItemRef, color *string) (*models.Cart, error) {
	if !identity.Valid() {
		return nil, errInvalidIdentity()
	}

	var result *models.Cart
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByIdentity(ctx, identity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}

		var removed []uuid.UUID
		for i := range cart.Items {
			if lineMatches(cart.Items[i], ref, color, color != nil) {
				removed = append(removed, cart.Items[i].ID)
			}
		}
		if len(removed) == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err := repo.DeleteItemsByIDs(ctx, removed); err != nil {
			return err
		}
		cart.Items = withoutItems(cart.Items, removed)

		result = cart
		return s.persistTotals(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear drops every line and resets totals and coupon.
func (s *service) Clear(ctx context.Context, identity Identity) error {
	if !identity.Valid() {
		return errInvalidIdentity()
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByIdentity(ctx, identity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := repo.DeleteItemsByCart(ctx, cart.ID); err != nil {
			return err
		}
		cart.Items = nil
		cart.Coupon = nil
		return s.persistTotals(ctx, repo, cart)
	})
}

// ApplyCoupon validates the code against the cart subtotal and records the
// deduction on the cart.
func (s *service) ApplyCoupon(ctx context.Context, identity Identity, code string) (*models.Cart, error) {
	if !identity.Valid() {
		return nil, errInvalidIdentity()
	}
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	var result *models.Cart
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByIdentity(ctx, identity)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return err
		}

		coupon, err := s.coupons.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
			}
			return err
		}
		if !coupon.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		if coupon.Expired(s.now()) {
			return pkgerrors.New(pkgerrors.CodeExpired, "coupon has expired")
		}

		subtotal := subtotalOf(cart.Items)
		if subtotal.LessThan(coupon.MinPurchase) {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart total below coupon minimum purchase").
				WithDetails(map[string]any{"min_purchase": coupon.MinPurchase.String()})
		}

		cart.CouponID = &coupon.ID
		cart.Coupon = coupon

		result = cart
		return s.persistTotals(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) loadOrCreateCart(ctx context.Context, repo *Repository, identity Identity) (*models.Cart, error) {
	cart, err := repo.FindByIdentity(ctx, identity)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := &models.Cart{
		CustomerID: identity.CustomerID,
		SessionID:  identity.SessionID,
	}
	if createErr := repo.CreateCart(ctx, created); createErr != nil {
		return nil, createErr
	}
	return created, nil
}

func (s *service) resolvePrice(ctx context.Context, input AddItemInput) (types.Money, error) {
	if input.Price != nil {
		if !input.Price.IsPositive() {
			return types.Money{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		return *input.Price, nil
	}
	listed, err := s.catalog.FirstListedPrice(ctx, input.Ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.Money{}, pkgerrors.New(pkgerrors.CodeValidation, "item has no listed price")
		}
		return types.Money{}, err
	}
	if !listed.Amount.IsPositive() {
		return types.Money{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	return listed.Amount, nil
}

// persistTotals rederives the money columns from the in-memory lines and
// writes them. A coupon that no longer qualifies is dropped.
func (s *service) persistTotals(ctx context.Context, repo *Repository, cart *models.Cart) error {
	subtotal := subtotalOf(cart.Items)
	cart.Total = subtotal
	cart.Discount = nil

	if cart.Coupon != nil {
		coupon := cart.Coupon
		if !coupon.IsActive || coupon.Expired(s.now()) || subtotal.LessThan(coupon.MinPurchase) {
			cart.CouponID = nil
			cart.Coupon = nil
		} else {
			discount := coupons.Discount(*coupon, subtotal)
			cart.Discount = &discount
			cart.Total = subtotal.Sub(discount)
			if cart.Total.IsNegative() {
				cart.Total = types.Money{}
			}
		}
	} else {
		cart.CouponID = nil
	}

	return repo.UpdateTotals(ctx, cart)
}

func subtotalOf(items []models.CartItem) types.Money {
	var total types.Money
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// matchLine finds a line by the dedup key. When strictColor is false a nil
// color matches any line with the (item, type) pair.
func matchLine(items []models.CartItem, ref types.ItemRef, color *string, strictColor bool) *models.CartItem {
	for i := range items {
		if lineMatches(items[i], ref, color, strictColor) {
			return &items[i]
		}
	}
	return nil
}

func lineMatches(item models.CartItem, ref types.ItemRef, color *string, strictColor bool) bool {
	if !item.Ref().Equal(ref) {
		return false
	}
	if !strictColor && color == nil {
		return true
	}
	return equalColor(item.Color, color)
}

func equalColor(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func withoutItems(items []models.CartItem, ids []uuid.UUID) []models.CartItem {
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := items[:0]
	for _, item := range items {
		if _, gone := drop[item.ID]; !gone {
			kept = append(kept, item)
		}
	}
	return kept
}

func errInvalidIdentity() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "exactly one of customer id or session id is required")
}
