package response

import (
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
)

type CartItemResponse struct {
	ProductID      uuid.UUID  `json:"productId"`
	VariationID    *uuid.UUID `json:"variationId,omitempty"`
	ProductCode    string     `json:"productCode"`
	Name           string     `json:"name"`
	VariationName  *string    `json:"variationName,omitempty"`
	UnitPriceCents int64      `json:"unitPriceCents"`
	OnSale         bool       `json:"onSale"`
	SalePercent    string     `json:"salePercent,omitempty"`
	PaidQuantity   int32      `json:"paidQuantity"`
	FreeQuantity   int32      `json:"freeQuantity"`
	TotalQuantity  int32      `json:"totalQuantity"`
	LineTotalCents int64      `json:"lineTotalCents"`
}

type FreeShippingResponse struct {
	Eligible       bool  `json:"eligible"`
	RemainingCents int64 `json:"remainingCents"`
}

type CartResponse struct {
	Items              []CartItemResponse    `json:"items"`
	OriginalTotalCents int64                 `json:"originalTotalCents"`
	TotalSavingsCents  int64                 `json:"totalSavingsCents"`
	CartTotalCents     int64                 `json:"cartTotalCents"`
	FreeShipping       *FreeShippingResponse `json:"freeShipping,omitempty"`
}

func FromCartView(view *queries.CartView) *CartResponse {
	resp := &CartResponse{
		Items:              make([]CartItemResponse, len(view.Items)),
		OriginalTotalCents: view.OriginalTotalCents,
		TotalSavingsCents:  view.TotalSavingsCents,
		CartTotalCents:     view.CartTotalCents,
	}

	for i, item := range view.Items {
		resp.Items[i] = CartItemResponse{
			ProductID:      item.ProductID,
			VariationID:    item.VariationID,
			ProductCode:    item.ProductCode,
			Name:           item.Name,
			VariationName:  item.VariationName,
			UnitPriceCents: item.UnitPriceCents,
			OnSale:         item.OnSale,
			SalePercent:    item.SalePercent,
			PaidQuantity:   item.PaidQuantity,
			FreeQuantity:   item.FreeQuantity,
			TotalQuantity:  item.TotalQuantity,
			LineTotalCents: item.LineTotalCents,
		}
	}

	if view.FreeShipping != nil {
		resp.FreeShipping = &FreeShippingResponse{
			Eligible:       view.FreeShipping.Eligible,
			RemainingCents: view.FreeShipping.RemainingCents,
		}
	}

	return resp
}
