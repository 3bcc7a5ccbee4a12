package campaign

import (
	"github.com/google/uuid"
)

// Campaign variants are concrete types rather than a string-tagged struct;
// the feed's type tag is decoded exactly once, in the readstore.

// BuyXPayY gives away the cheapest eligible units: put BuyQuantity qualifying
// units in the cart, pay for PayQuantity of them.
type BuyXPayY struct {
	BuyQuantity int32
	PayQuantity int32
	CategoryIDs []uuid.UUID
}

// WellFormed reports whether the definition can apply at all. A misconfigured
// campaign degrades to "does not apply"; it is never an error.
func (c BuyXPayY) WellFormed() bool {
	return c.PayQuantity >= 0 && c.BuyQuantity > c.PayQuantity && len(c.CategoryIDs) > 0
}

// FreeShipping waives the shipping fee once the cart total reaches the
// minimum spend.
type FreeShipping struct {
	MinimumSpendCents int64
}

func (c FreeShipping) WellFormed() bool {
	return c.MinimumSpendCents >= 0
}

// Active is the decoded campaign feed: at most one campaign of each variant.
type Active struct {
	BuyXPayY     *BuyXPayY
	FreeShipping *FreeShipping
}
