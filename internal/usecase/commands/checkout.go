package commands

import (
	"context"
	"time"

	"storefront/internal/domain/campaign"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCartEmpty = errs.New("cart is empty")
	// ErrCartChanged blocks the handoff: reconciliation corrected the cart and
	// the shopper has to re-review before checkout may be attempted again.
	ErrCartChanged        = errs.New("cart changed during validation")
	ErrValidationInFlight = errs.New("cart validation already in progress")
	ErrValidationFailed   = errs.New("cart validation failed")
)

// ValidationChanges summarizes what reconciliation had to correct.
type ValidationChanges struct {
	RemovedItems     int `json:"removedItems"`
	QuantityAdjusted int `json:"quantityAdjusted"`
	PriceChanged     int `json:"priceChanged"`
}

func (c ValidationChanges) Any() bool {
	return c.RemovedItems+c.QuantityAdjusted+c.PriceChanged > 0
}

type ValidationResult struct {
	Items      []cart.Line
	HasChanges bool
	Changes    ValidationChanges
}

type ItemType string

const (
	ItemTypeProduct   ItemType = "PRODUCT"
	ItemTypeVariation ItemType = "VARIATION"
	ItemTypeShipping  ItemType = "SHIPPING"
)

// CheckoutLine is one ordered line of the payment-provider handoff. Quantity
// is the paid quantity; campaign-freed units never reach the provider.
type CheckoutLine struct {
	ProductCode    string
	Name           string
	Quantity       int32
	UnitPriceCents int64
	ItemType       ItemType
}

type CheckoutSession struct {
	Lines        []CheckoutLine
	TotalCents   int64
	FreeShipping bool
}

type CheckoutCommands interface {
	// Validate reconciles the optimistic cart against the catalog exactly once
	// and persists any corrections back to the cart store.
	Validate(ctx context.Context, cartID uuid.UUID) (*ValidationResult, error)
	// Proceed validates and, only on a clean result, builds the payment
	// handoff. On corrections it returns the result with ErrCartChanged.
	Proceed(ctx context.Context, cartID uuid.UUID) (*CheckoutSession, *ValidationResult, error)
}

type checkoutCommandsImpl struct {
	cartRepo         CartRepository
	catalogRepo      CatalogRepository
	campaignRepo     CampaignRepository
	clock            clock.Clock
	shippingFeeCents int64
}

func NewCheckoutCommands(
	cartRepo CartRepository,
	catalogRepo CatalogRepository,
	campaignRepo CampaignRepository,
	clock clock.Clock,
	shippingFeeCents int64,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		cartRepo:         cartRepo,
		catalogRepo:      catalogRepo,
		campaignRepo:     campaignRepo,
		clock:            clock,
		shippingFeeCents: shippingFeeCents,
	}
}

func (u *checkoutCommandsImpl) Validate(ctx context.Context, cartID uuid.UUID) (*ValidationResult, error) {
	locked, err := u.cartRepo.AcquireValidationLock(ctx, cartID)
	if err != nil {
		return nil, errs.Mark(err, ErrValidationFailed)
	}
	if !locked {
		return nil, ErrValidationInFlight
	}
	defer func() {
		_ = u.cartRepo.ReleaseValidationLock(ctx, cartID)
	}()

	c, err := u.cartRepo.Load(ctx, cartID)
	if err != nil {
		return nil, errs.Mark(err, ErrValidationFailed)
	}
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}

	result, corrected, err := u.reconcile(ctx, c.Lines())
	if err != nil {
		// Any catalog failure fails the validation closed; a partially checked
		// cart must never be mistaken for a clean one.
		return nil, errs.Mark(err, ErrValidationFailed)
	}

	if result.HasChanges {
		c.ReplaceLines(corrected)
		if err := u.cartRepo.Save(ctx, cartID, c); err != nil {
			return nil, errs.Mark(err, ErrValidationFailed)
		}
	}

	return result, nil
}

func (u *checkoutCommandsImpl) Proceed(ctx context.Context, cartID uuid.UUID) (*CheckoutSession, *ValidationResult, error) {
	result, err := u.Validate(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}
	if result.HasChanges {
		return nil, result, ErrCartChanged
	}

	active, err := u.campaignRepo.ActiveCampaigns(ctx, u.clock.Now())
	if err != nil {
		return nil, nil, errs.Mark(err, ErrValidationFailed)
	}

	session := u.buildSession(result.Items, active)
	return session, result, nil
}

// reconcile walks the cart lines against authoritative data. Corrections never
// happen silently: every drop, clamp, and price rewrite is counted so the
// shopper sees exactly what changed.
func (u *checkoutCommandsImpl) reconcile(ctx context.Context, lines []cart.Line) (*ValidationResult, []cart.Line, error) {
	var (
		changes   ValidationChanges
		corrected = make([]cart.Line, 0, len(lines))
	)

	for _, line := range lines {
		productSnap, err := u.catalogRepo.ProductByID(ctx, line.Product.ID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				changes.RemovedItems++
				continue
			}
			return nil, nil, err
		}
		product := productSnap.ToDomain()

		var variation *catalog.Variation
		if line.Variation != nil {
			variationSnap, err := u.catalogRepo.VariationByID(ctx, line.Product.ID, line.Variation.ID)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					changes.RemovedItems++
					continue
				}
				return nil, nil, err
			}
			variation = variationSnap.ToDomain()
		}

		stock := catalog.EffectiveStock(product, variation)
		if stock != nil && *stock < 1 {
			changes.RemovedItems++
			continue
		}

		quantity := line.Quantity
		if stock != nil && quantity > *stock {
			quantity = *stock
			changes.QuantityAdjusted++
		}

		if priceDrifted(line, product, variation) {
			changes.PriceChanged++
		}

		// The fresh snapshot replaces the stored one wholesale; non-price
		// fields (names, categories) refresh without being counted as drift.
		corrected = append(corrected, cart.Line{
			Product:   product,
			Variation: variation,
			Quantity:  quantity,
		})
	}

	return &ValidationResult{
		Items:      corrected,
		HasChanges: changes.Any(),
		Changes:    changes,
	}, corrected, nil
}

func (u *checkoutCommandsImpl) buildSession(lines []cart.Line, active campaign.Active) *CheckoutSession {
	computed := campaign.Compute(lines, active.BuyXPayY, active.FreeShipping, u.clock.Now())

	session := &CheckoutSession{TotalCents: computed.CartTotalCents}
	for _, item := range computed.Items {
		if item.PaidQuantity < 1 {
			// the whole line was given away by the campaign
			continue
		}

		line := CheckoutLine{
			ProductCode:    item.Line.Product.Code,
			Name:           item.Line.Product.Name,
			Quantity:       item.PaidQuantity,
			UnitPriceCents: item.UnitPriceCents,
			ItemType:       ItemTypeProduct,
		}
		if item.Line.Variation != nil {
			line.Name = item.Line.Product.Name + " / " + item.Line.Variation.Name
			line.ItemType = ItemTypeVariation
		}
		session.Lines = append(session.Lines, line)
	}

	session.FreeShipping = computed.Shipping != nil && computed.Shipping.Eligible
	if !session.FreeShipping {
		session.Lines = append(session.Lines, CheckoutLine{
			ProductCode:    "SHIPPING",
			Name:           "Shipping",
			Quantity:       1,
			UnitPriceCents: u.shippingFeeCents,
			ItemType:       ItemTypeShipping,
		})
		session.TotalCents += u.shippingFeeCents
	}

	return session
}

// priceDrifted compares only the price-affecting fields of the stored snapshot
// against the authoritative row.
func priceDrifted(stored cart.Line, product catalog.Product, variation *catalog.Variation) bool {
	if stored.Product.BasePriceCents != product.BasePriceCents ||
		!int64PtrEqual(stored.Product.SalePriceCents, product.SalePriceCents) ||
		!windowEqual(stored.Product.SaleWindow, product.SaleWindow) {
		return true
	}

	if (stored.Variation == nil) != (variation == nil) {
		return true
	}
	if variation == nil {
		return false
	}

	return !int64PtrEqual(stored.Variation.BasePriceCents, variation.BasePriceCents) ||
		!int64PtrEqual(stored.Variation.SalePriceCents, variation.SalePriceCents) ||
		!windowEqual(stored.Variation.SaleWindow, variation.SaleWindow)
}

func int64PtrEqual(a, b *int64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func windowEqual(a, b *catalog.SaleWindow) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return timePtrEqual(a.Start, b.Start) && timePtrEqual(a.End, b.End)
}

func timePtrEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || a.Equal(*b)
}
