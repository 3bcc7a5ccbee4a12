package catalog

import (
	"time"

	"github.com/google/uuid"
)

// SaleWindow bounds a promotional price. Either bound may be absent; an absent
// bound is open-ended. Bounds are inclusive.
type SaleWindow struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

func (w SaleWindow) ActiveAt(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

// Product is a priceable catalog entry. Fields are exported because cart lines
// carry product snapshots through the JSON cart envelope in Redis.
type Product struct {
	ID             uuid.UUID   `json:"id"`
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	BasePriceCents int64       `json:"basePriceCents"`
	SalePriceCents *int64      `json:"salePriceCents,omitempty"`
	SaleWindow     *SaleWindow `json:"saleWindow,omitempty"`
	// Stock is the available quantity; nil means unlimited.
	Stock       *int32      `json:"stock,omitempty"`
	CategoryIDs []uuid.UUID `json:"categoryIds,omitempty"`
}

// Variation overrides priceable fields of its parent product. A nil field
// falls back to the parent's value, each field independently.
type Variation struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	BasePriceCents *int64      `json:"basePriceCents,omitempty"`
	SalePriceCents *int64      `json:"salePriceCents,omitempty"`
	SaleWindow     *SaleWindow `json:"saleWindow,omitempty"`
	Stock          *int32      `json:"stock,omitempty"`
}

// EffectiveStock resolves the stock ceiling for a cart line: the variation's
// stock when it defines one, otherwise the product's. Nil means unlimited.
func EffectiveStock(p Product, v *Variation) *int32 {
	if v != nil && v.Stock != nil {
		return v.Stock
	}
	return p.Stock
}

func (p Product) InCategory(categoryIDs []uuid.UUID) bool {
	for _, want := range categoryIDs {
		for _, have := range p.CategoryIDs {
			if want == have {
				return true
			}
		}
	}
	return false
}
