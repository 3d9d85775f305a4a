package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// Discount computes the deduction a coupon yields against a subtotal. The
// result is clamped to the subtotal and to the coupon's max discount.
func Discount(coupon models.Coupon, subtotal types.Money) types.Money {
	var discount types.Money
	switch coupon.Type {
	case enums.CouponTypePercent:
		discount = types.NewMoney(subtotal.Decimal.Mul(coupon.Value.Decimal).Div(hundred))
	case enums.CouponTypeFixed:
		discount = coupon.Value
	default:
		return types.Money{}
	}
	if subtotal.LessThan(discount) {
		discount = subtotal
	}
	if coupon.MaxDiscount != nil && coupon.MaxDiscount.LessThan(discount) {
		discount = *coupon.MaxDiscount
	}
	return discount
}

// CreateInput is the admin create payload.
type CreateInput struct {
	Code        string           `json:"code" validate:"required"`
	Type        enums.CouponType `json:"type" validate:"required,oneof=percent fixed"`
	Value       types.Money      `json:"value" validate:"required"`
	MinPurchase types.Money      `json:"min_purchase"`
	MaxDiscount *types.Money     `json:"max_discount,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
}

// UpdateInput mutates coupon fields; nil means unchanged.
type UpdateInput struct {
	Value       *types.Money `json:"value,omitempty"`
	MinPurchase *types.Money `json:"min_purchase,omitempty"`
	MaxDiscount *types.Money `json:"max_discount,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

// Service exposes admin coupon management.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository owns coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *Repository) Save(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Coupon{}).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByCode resolves a coupon by its (case-insensitive) code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", normalized).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

type service struct {
	repo *Repository
}

// NewService constructs the coupon service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	if err := validateValue(input.Type, input.Value); err != nil {
		return nil, err
	}
	if input.MinPurchase.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min purchase cannot be negative")
	}

	coupon := &models.Coupon{
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Type:        input.Type,
		Value:       input.Value,
		MinPurchase: input.MinPurchase,
		MaxDiscount: input.MaxDiscount,
		ExpiresAt:   input.ExpiresAt,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "coupons_code_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, err
	}
	return coupon, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, err
	}

	if input.Value != nil {
		if err := validateValue(coupon.Type, *input.Value); err != nil {
			return nil, err
		}
		coupon.Value = *input.Value
	}
	if input.MinPurchase != nil {
		if input.MinPurchase.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min purchase cannot be negative")
		}
		coupon.MinPurchase = *input.MinPurchase
	}
	if input.MaxDiscount != nil {
		coupon.MaxDiscount = input.MaxDiscount
	}
	if input.ExpiresAt != nil {
		coupon.ExpiresAt = input.ExpiresAt
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := s.repo.Save(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, err
	}
	return coupon, nil
}

func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// validateValue keeps percent coupons inside [0,100] and fixed coupons
// positive.
func validateValue(couponType enums.CouponType, value types.Money) error {
	switch couponType {
	case enums.CouponTypePercent:
		if value.IsNegative() || types.MoneyFromFloat(100).LessThan(value) {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage must be between 0 and 100")
		}
	case enums.CouponTypeFixed:
		if !value.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed discount must be positive")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon type")
	}
	return nil
}
