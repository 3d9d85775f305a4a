package types

import (
	"github.com/google/uuid"

	"github.com/pawmart/backoffice-backend/pkg/enums"
)

// ItemRef addresses a row in one of the two product taxonomies. It replaces
// the loose string-discriminator-plus-id pairs the API accepts with a value
// that is validated once at the boundary and safe to compare.
type ItemRef struct {
	Type enums.ItemType `json:"item_type"`
	ID   uuid.UUID      `json:"item_id"`
}

func NewItemRef(itemType enums.ItemType, id uuid.UUID) ItemRef {
	return ItemRef{Type: itemType, ID: id}
}

func (r ItemRef) IsZero() bool {
	return r.ID == uuid.Nil
}

func (r ItemRef) Valid() bool {
	return r.Type.Valid() && r.ID != uuid.Nil
}

func (r ItemRef) Equal(other ItemRef) bool {
	return r.Type == other.Type && r.ID == other.ID
}
