package policies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// Input is the create/update payload for a policy document.
type Input struct {
	Slug  string `json:"slug" validate:"required"`
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// Service exposes storefront policy text management.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Policy, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.Policy, error)
	GetBySlug(ctx context.Context, slug string) (*models.Policy, error)
	List(ctx context.Context) ([]models.Policy, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository owns policy persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) Create(ctx context.Context, policy *models.Policy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

func (r *Repository) Save(ctx context.Context, policy *models.Policy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Policy{}).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Policy, error) {
	var policy models.Policy
	if err := r.db.WithContext(ctx).First(&policy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Policy, error) {
	var policy models.Policy
	if err := r.db.WithContext(ctx).First(&policy, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	if err := r.db.WithContext(ctx).Order("slug asc").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

type service struct {
	repo *Repository
}

// NewService constructs the policy service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("policy repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Policy, error) {
	policy := &models.Policy{
		Slug:  normalizeSlug(input.Slug),
		Title: input.Title,
		Body:  input.Body,
	}
	if err := s.repo.Create(ctx, policy); err != nil {
		if db.IsUniqueViolation(err, "policies_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "policy slug already exists")
		}
		return nil, err
	}
	return policy, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.Policy, error) {
	policy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "policy not found")
		}
		return nil, err
	}
	policy.Slug = normalizeSlug(input.Slug)
	policy.Title = input.Title
	policy.Body = input.Body
	if err := s.repo.Save(ctx, policy); err != nil {
		if db.IsUniqueViolation(err, "policies_slug_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "policy slug already exists")
		}
		return nil, err
	}
	return policy, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Policy, error) {
	policy, err := s.repo.FindBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "policy not found")
		}
		return nil, err
	}
	return policy, nil
}

func (s *service) List(ctx context.Context) ([]models.Policy, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "policy not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
