package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/api/middleware"
	"github.com/pawmart/backoffice-backend/internal/cart"
	"github.com/pawmart/backoffice-backend/pkg/enums"
	pkgerrors "github.com/pawmart/backoffice-backend/pkg/errors"
	"github.com/pawmart/backoffice-backend/pkg/types"
)

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param).
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}

// identityFromRequest maps the identity headers onto the cart owner. Exactly
// one of the two must be present; the service enforces that again.
func identityFromRequest(r *http.Request) cart.Identity {
	var identity cart.Identity
	if customerID, ok := middleware.CustomerIDFromContext(r.Context()); ok {
		identity.CustomerID = &customerID
		return identity
	}
	if sessionID, ok := middleware.SessionIDFromContext(r.Context()); ok {
		identity.SessionID = &sessionID
	}
	return identity
}

func requireCustomer(r *http.Request) (uuid.UUID, error) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id header is required")
	}
	return customerID, nil
}

// itemRefRequest is the wire shape shared by cart and wishlist payloads.
type itemRefRequest struct {
	ItemType string    `json:"item_type" validate:"required"`
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
}

func (req itemRefRequest) toRef() (types.ItemRef, error) {
	itemType, ok := enums.ParseItemType(req.ItemType)
	if !ok {
		return types.ItemRef{}, pkgerrors.New(pkgerrors.CodeValidation, "item_type must be product or special_product")
	}
	return types.NewItemRef(itemType, req.ItemID), nil
}

func optionalQuery(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func optionalQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := optionalQuery(r, key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).
			WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}
