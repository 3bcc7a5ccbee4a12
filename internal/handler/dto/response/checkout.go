package response

import (
	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
)

type ValidatedItemResponse struct {
	ProductID     uuid.UUID  `json:"productId"`
	VariationID   *uuid.UUID `json:"variationId,omitempty"`
	Name          string     `json:"name"`
	VariationName *string    `json:"variationName,omitempty"`
	Quantity      int32      `json:"cartQuantity"`
}

type ValidationChangesResponse struct {
	RemovedItems     int `json:"removedItems"`
	QuantityAdjusted int `json:"quantityAdjusted"`
	PriceChanged     int `json:"priceChanged"`
}

type ValidationResponse struct {
	Items      []ValidatedItemResponse   `json:"items"`
	HasChanges bool                      `json:"hasChanges"`
	Changes    ValidationChangesResponse `json:"changes"`
}

func FromValidationResult(result *commands.ValidationResult) *ValidationResponse {
	resp := &ValidationResponse{
		Items:      make([]ValidatedItemResponse, len(result.Items)),
		HasChanges: result.HasChanges,
		Changes: ValidationChangesResponse{
			RemovedItems:     result.Changes.RemovedItems,
			QuantityAdjusted: result.Changes.QuantityAdjusted,
			PriceChanged:     result.Changes.PriceChanged,
		},
	}

	for i, line := range result.Items {
		item := ValidatedItemResponse{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
		}
		if v := line.Variation; v != nil {
			id := v.ID
			name := v.Name
			item.VariationID = &id
			item.VariationName = &name
		}
		resp.Items[i] = item
	}

	return resp
}

type CheckoutLineResponse struct {
	ProductCode    string `json:"productCode"`
	Name           string `json:"name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	ItemType       string `json:"itemType"`
}

type CheckoutResponse struct {
	Lines        []CheckoutLineResponse `json:"lines"`
	TotalCents   int64                  `json:"totalCents"`
	FreeShipping bool                   `json:"freeShipping"`
}

func FromCheckoutSession(session *commands.CheckoutSession) *CheckoutResponse {
	resp := &CheckoutResponse{
		Lines:        make([]CheckoutLineResponse, len(session.Lines)),
		TotalCents:   session.TotalCents,
		FreeShipping: session.FreeShipping,
	}

	for i, line := range session.Lines {
		resp.Lines[i] = CheckoutLineResponse{
			ProductCode:    line.ProductCode,
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			ItemType:       string(line.ItemType),
		}
	}

	return resp
}
