package request

import (
	"github.com/google/uuid"
)

type AddItemRequest struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	VariationID *uuid.UUID `json:"variation_id,omitempty"`
}
