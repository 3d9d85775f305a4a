package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/internal/notifications"
	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

// SubmitInput is the customer-facing request payload.
type SubmitInput struct {
	Direction enums.WalletDirection `json:"direction" validate:"required,oneof=credit debit"`
	Amount    types.Money           `json:"amount" validate:"required"`
	Note      *string               `json:"note,omitempty"`
}

// Service exposes the wallet request workflow. Approval flips the status,
// adjusts the balance and inserts the admin notification in one transaction.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.WalletRequest, error)
	List(ctx context.Context, status *enums.RequestStatus, customerID *uuid.UUID) ([]models.WalletRequest, error)
	Approve(ctx context.Context, requestID uuid.UUID) (*models.WalletRequest, error)
	Reject(ctx context.Context, requestID uuid.UUID, note *string) (*models.WalletRequest, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo          *Repository
	db            txRunner
	notifications *notifications.Repository
	now           func() time.Time
}

// NewService constructs the wallet service.
func NewService(repo *Repository, db txRunner, notificationRepo *notifications.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if notificationRepo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{
		repo:          repo,
		db:            db,
		notifications: notificationRepo,
		now:           time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.WalletRequest, error) {
	if !input.Direction.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "direction must be credit or debit")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	customer, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, err
	}
	if input.Direction == enums.WalletDebit && customer.WalletBalance.LessThan(input.Amount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "debit exceeds wallet balance")
	}

	request := &models.WalletRequest{
		CustomerID: customerID,
		Direction:  input.Direction,
		Amount:     input.Amount,
		Status:     enums.StatusPending,
		Note:       input.Note,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) List(ctx context.Context, status *enums.RequestStatus, customerID *uuid.UUID) ([]models.WalletRequest, error) {
	return s.repo.ListRequests(ctx, status, customerID)
}

// Approve flips a pending request to approved and moves the balance.
func (s *service) Approve(ctx context.Context, requestID uuid.UUID) (*models.WalletRequest, error) {
	var approved *models.WalletRequest
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.pendingRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}

		customer, err := repo.FindCustomerByID(ctx, request.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return err
		}

		switch request.Direction {
		case enums.WalletCredit:
			customer.WalletBalance = customer.WalletBalance.Add(request.Amount)
		case enums.WalletDebit:
			if customer.WalletBalance.LessThan(request.Amount) {
				return pkgerrors.New(pkgerrors.CodeValidation, "debit exceeds wallet balance")
			}
			customer.WalletBalance = customer.WalletBalance.Sub(request.Amount)
		}
		if err := repo.SaveCustomer(ctx, customer); err != nil {
			return err
		}

		now := s.now().UTC()
		request.Status = enums.StatusApproved
		request.DecidedAt = &now
		if err := repo.SaveRequest(ctx, request); err != nil {
			return err
		}

		notification := &models.Notification{
			Audience: enums.AudienceAdmin,
			Type:     enums.NotificationWallet,
			Title:    "Wallet request approved",
			Message: fmt.Sprintf("%s of %s approved for customer %s",
				request.Direction, request.Amount.String(), request.CustomerID),
		}
		if err := s.notifications.WithTx(tx).Create(ctx, notification); err != nil {
			return err
		}

		approved = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

func (s *service) Reject(ctx context.Context, requestID uuid.UUID, note *string) (*models.WalletRequest, error) {
	var rejected *models.WalletRequest
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		request, err := s.pendingRequest(ctx, repo, requestID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		request.Status = enums.StatusRejected
		request.DecidedAt = &now
		if note != nil {
			request.Note = note
		}
		if err := repo.SaveRequest(ctx, request); err != nil {
			return err
		}

		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

func (s *service) pendingRequest(ctx context.Context, repo *Repository, requestID uuid.UUID) (*models.WalletRequest, error) {
	request, err := repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet request not found")
		}
		return nil, err
	}
	if request.Status != enums.StatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet request already decided")
	}
	return request, nil
}
