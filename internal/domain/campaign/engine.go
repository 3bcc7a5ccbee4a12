package campaign

import (
	"sort"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

// PricedLine is one cart line with its resolved price and its paid/free split.
type PricedLine struct {
	Line           cart.Line
	UnitPriceCents int64
	OnSale         bool
	SalePercent    string
	PaidQuantity   int32
	FreeQuantity   int32
	TotalQuantity  int32
}

type ShippingStatus struct {
	Eligible       bool
	RemainingCents int64
}

type Result struct {
	Items              []PricedLine
	OriginalTotalCents int64
	TotalSavingsCents  int64
	CartTotalCents     int64
	// Shipping is nil when no free-shipping campaign is supplied.
	Shipping *ShippingStatus
}

// one unit of quantity from an eligible line, flattened for allocation
type eligibleUnit struct {
	lineIndex  int
	priceCents int64
}

// Compute derives totals and the per-line paid/free split for a cart snapshot.
// It is pure: it never mutates the lines and holds no state between calls.
//
// The buy-X-pay-Y allocation is flat: it frees exactly buy−pay units however
// many full groups of buyQuantity the cart holds (9 eligible units under
// "buy 3 pay 2" still free one unit, not three). Free-shipping eligibility is
// judged against the post-discount total.
func Compute(lines []cart.Line, promo *BuyXPayY, shipping *FreeShipping, now time.Time) Result {
	result := Result{Items: make([]PricedLine, len(lines))}

	for i, line := range lines {
		price := catalog.Resolve(line.Product, line.Variation, now)
		result.Items[i] = PricedLine{
			Line:           line,
			UnitPriceCents: price.UnitPriceCents,
			OnSale:         price.OnSale,
			SalePercent:    price.SalePercent,
			PaidQuantity:   line.Quantity,
			TotalQuantity:  line.Quantity,
		}
		result.OriginalTotalCents += price.UnitPriceCents * int64(line.Quantity)
	}

	if promo != nil && promo.WellFormed() {
		applyBuyXPayY(&result, *promo)
	}

	result.CartTotalCents = result.OriginalTotalCents - result.TotalSavingsCents

	if shipping != nil && shipping.WellFormed() {
		remaining := shipping.MinimumSpendCents - result.CartTotalCents
		if remaining < 0 {
			remaining = 0
		}
		result.Shipping = &ShippingStatus{
			Eligible:       result.CartTotalCents >= shipping.MinimumSpendCents,
			RemainingCents: remaining,
		}
	}

	return result
}

func applyBuyXPayY(result *Result, promo BuyXPayY) {
	var units []eligibleUnit
	for i, item := range result.Items {
		if !item.Line.Product.InCategory(promo.CategoryIDs) {
			continue
		}
		for range item.Line.Quantity {
			units = append(units, eligibleUnit{lineIndex: i, priceCents: item.UnitPriceCents})
		}
	}

	// Below the buy threshold the campaign does not apply at all.
	if int32(len(units)) < promo.BuyQuantity {
		return
	}

	// Cheapest first; the stable sort keeps encounter order on price ties.
	sort.SliceStable(units, func(a, b int) bool {
		return units[a].priceCents < units[b].priceCents
	})

	freeCount := promo.BuyQuantity - promo.PayQuantity
	for _, unit := range units[:freeCount] {
		item := &result.Items[unit.lineIndex]
		item.FreeQuantity++
		item.PaidQuantity--
		result.TotalSavingsCents += unit.priceCents
	}
}
