package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceInfo is the resolved price of one unit at a point in time.
// SalePercent is a display string ("-20%"); it is never used in arithmetic.
type PriceInfo struct {
	UnitPriceCents int64
	OnSale         bool
	SalePercent    string
}

// Resolve determines the effective unit price of a product, or of one of its
// variations, at the given time. Variation fields override product fields
// independently: a variation may carry its own sale window yet inherit the
// product's prices.
func Resolve(p Product, v *Variation, now time.Time) PriceInfo {
	basePrice := p.BasePriceCents
	salePrice := p.SalePriceCents
	window := p.SaleWindow

	if v != nil {
		if v.BasePriceCents != nil {
			basePrice = *v.BasePriceCents
		}
		if v.SalePriceCents != nil {
			salePrice = v.SalePriceCents
		}
		if v.SaleWindow != nil {
			window = v.SaleWindow
		}
	}

	onSale := salePrice != nil && (window == nil || window.ActiveAt(now))
	if !onSale {
		return PriceInfo{UnitPriceCents: basePrice}
	}

	return PriceInfo{
		UnitPriceCents: *salePrice,
		OnSale:         true,
		SalePercent:    salePercent(basePrice, *salePrice),
	}
}

func salePercent(baseCents, saleCents int64) string {
	if baseCents <= 0 || saleCents >= baseCents {
		return ""
	}

	off := decimal.NewFromInt(baseCents - saleCents).
		Div(decimal.NewFromInt(baseCents)).
		Mul(decimal.NewFromInt(100)).
		Round(0)

	return "-" + off.String() + "%"
}
