package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/db/models"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/pagination"
)

// CreateInput is the payload used by sweeps, wallet approval and the admin
// broadcast endpoint.
type CreateInput struct {
	Audience   enums.NotificationAudience `json:"audience" validate:"required,oneof=admin customer"`
	CustomerID *uuid.UUID                 `json:"customer_id,omitempty"`
	Type       enums.NotificationType     `json:"type" validate:"required"`
	Title      string                     `json:"title" validate:"required"`
	Message    string                     `json:"message" validate:"required"`
}

// ListResult is one page of notifications plus the next-page token.
type ListResult struct {
	Notifications []models.Notification `json:"notifications"`
	NextCursor    string                `json:"next_cursor,omitempty"`
}

// Service exposes in-app notifications.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Notification, error)
	List(ctx context.Context, audience enums.NotificationAudience, customerID *uuid.UUID, params pagination.Params) (*ListResult, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, audience enums.NotificationAudience, customerID *uuid.UUID) (int64, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService constructs the notification service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Notification, error) {
	if input.Audience == enums.AudienceCustomer && input.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer notifications require a customer id")
	}
	notification := &models.Notification{
		Audience:   input.Audience,
		CustomerID: input.CustomerID,
		Type:       input.Type,
		Title:      input.Title,
		Message:    input.Message,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *service) List(ctx context.Context, audience enums.NotificationAudience, customerID *uuid.UUID, params pagination.Params) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, audience, customerID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, err
	}

	result := &ListResult{Notifications: rows}
	if len(rows) > limit {
		last := rows[limit-1]
		result.Notifications = rows[:limit]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	updated, err := s.repo.MarkRead(ctx, id, s.now().UTC())
	if err != nil {
		return err
	}
	if updated == 0 {
		// Either missing or already read; re-check so the caller gets 404
		// only for the former.
		if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, audience enums.NotificationAudience, customerID *uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, audience, customerID, s.now().UTC())
}
