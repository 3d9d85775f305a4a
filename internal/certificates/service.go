package certificates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
)

// SubmitInput is the customer application payload.
type SubmitInput struct {
	CertificateType string  `json:"certificate_type" validate:"required"`
	Note            *string `json:"note,omitempty"`
}

// DecisionInput records the admin outcome for a pending request.
type DecisionInput struct {
	Approve bool    `json:"approve"`
	Note    *string `json:"note,omitempty"`
}

// Service exposes the certificate request workflow.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.CertificateRequest, error)
	List(ctx context.Context, status *enums.RequestStatus, customerID *uuid.UUID) ([]models.CertificateRequest, error)
	Decide(ctx context.Context, requestID uuid.UUID, input DecisionInput) (*models.CertificateRequest, error)
}

// Repository owns certificate request persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) Create(ctx context.Context, request *models.CertificateRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *Repository) Save(ctx context.Context, request *models.CertificateRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CertificateRequest, error) {
	var request models.CertificateRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *Repository) List(ctx context.Context, status *enums.RequestStatus, customerID *uuid.UUID) ([]models.CertificateRequest, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	var requests []models.CertificateRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the certificate service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("certificate repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.CertificateRequest, error) {
	certType := strings.TrimSpace(input.CertificateType)
	if certType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "certificate type is required")
	}
	request := &models.CertificateRequest{
		CustomerID:      customerID,
		CertificateType: certType,
		Status:          enums.StatusPending,
		Note:            input.Note,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) List(ctx context.Context, status *enums.RequestStatus, customerID *uuid.UUID) ([]models.CertificateRequest, error) {
	return s.repo.List(ctx, status, customerID)
}

func (s *service) Decide(ctx context.Context, requestID uuid.UUID, input DecisionInput) (*models.CertificateRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "certificate request not found")
		}
		return nil, err
	}
	if request.Status != enums.StatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "certificate request already decided")
	}

	now := s.now().UTC()
	if input.Approve {
		request.Status = enums.StatusApproved
	} else {
		request.Status = enums.StatusRejected
	}
	request.DecidedAt = &now
	if input.Note != nil {
		request.Note = input.Note
	}

	if err := s.repo.Save(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}
