package queries

import (
	"context"
	"time"

	"storefront/internal/domain/campaign"
	"storefront/internal/domain/cart"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCartUnavailable = errs.New("cart unavailable")

// Read-side ports; the Redis cart store and the campaign readstore satisfy
// these alongside their command-side interfaces.
type CartReadStore interface {
	Load(ctx context.Context, cartID uuid.UUID) (*cart.Cart, error)
}

type CampaignFeed interface {
	ActiveCampaigns(ctx context.Context, now time.Time) (campaign.Active, error)
}

type CartItemView struct {
	ProductID      uuid.UUID
	VariationID    *uuid.UUID
	ProductCode    string
	Name           string
	VariationName  *string
	UnitPriceCents int64
	OnSale         bool
	SalePercent    string
	PaidQuantity   int32
	FreeQuantity   int32
	TotalQuantity  int32
	// LineTotalCents charges paid units only.
	LineTotalCents int64
}

type FreeShippingView struct {
	Eligible       bool
	RemainingCents int64
}

type CartView struct {
	Items              []CartItemView
	OriginalTotalCents int64
	TotalSavingsCents  int64
	CartTotalCents     int64
	FreeShipping       *FreeShippingView
}

type CartQueries interface {
	GetCart(ctx context.Context, cartID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	cartStore    CartReadStore
	campaignFeed CampaignFeed
	clock        clock.Clock
}

func NewCartQueries(cartStore CartReadStore, campaignFeed CampaignFeed, clock clock.Clock) CartQueries {
	return &cartQueriesImpl{
		cartStore:    cartStore,
		campaignFeed: campaignFeed,
		clock:        clock,
	}
}

// GetCart derives the priced view for the current cart state. The derivation
// is recomputed per request; the cart itself is never mutated here.
func (q *cartQueriesImpl) GetCart(ctx context.Context, cartID uuid.UUID) (*CartView, error) {
	c, err := q.cartStore.Load(ctx, cartID)
	if err != nil {
		return nil, errs.Mark(err, ErrCartUnavailable)
	}

	now := q.clock.Now()
	active, err := q.campaignFeed.ActiveCampaigns(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, ErrCartUnavailable)
	}

	computed := campaign.Compute(c.Lines(), active.BuyXPayY, active.FreeShipping, now)

	view := &CartView{
		Items:              make([]CartItemView, len(computed.Items)),
		OriginalTotalCents: computed.OriginalTotalCents,
		TotalSavingsCents:  computed.TotalSavingsCents,
		CartTotalCents:     computed.CartTotalCents,
	}

	for i, item := range computed.Items {
		itemView := CartItemView{
			ProductID:      item.Line.Product.ID,
			ProductCode:    item.Line.Product.Code,
			Name:           item.Line.Product.Name,
			UnitPriceCents: item.UnitPriceCents,
			OnSale:         item.OnSale,
			SalePercent:    item.SalePercent,
			PaidQuantity:   item.PaidQuantity,
			FreeQuantity:   item.FreeQuantity,
			TotalQuantity:  item.TotalQuantity,
			LineTotalCents: item.UnitPriceCents * int64(item.PaidQuantity),
		}
		if v := item.Line.Variation; v != nil {
			id := v.ID
			name := v.Name
			itemView.VariationID = &id
			itemView.VariationName = &name
		}
		view.Items[i] = itemView
	}

	if computed.Shipping != nil {
		view.FreeShipping = &FreeShippingView{
			Eligible:       computed.Shipping.Eligible,
			RemainingCents: computed.Shipping.RemainingCents,
		}
	}

	return view, nil
}
