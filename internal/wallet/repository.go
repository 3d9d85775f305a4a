package wallet

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
)

// Repository owns wallet request and customer balance persistence.
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

func (r *Repository) CreateRequest(ctx context.Context, request *models.WalletRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *Repository) SaveRequest(ctx context.Context, request *models.WalletRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *Repository) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.WalletRequest, error) {
	var request models.WalletRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *Repository) ListRequests(ctx context.Context, status *enums.RequestStatus, customerID *uuid.UUID) ([]models.WalletRequest, error) {
	query := r.db.WithContext(ctx).Order("created_at desc")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	var requests []models.WalletRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *Repository) FindCustomerByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}
