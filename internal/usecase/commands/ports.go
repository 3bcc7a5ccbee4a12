package commands

import (
	"context"
	"time"

	"storefront/internal/domain/campaign"
	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"

	"github.com/google/uuid"
)

// CartRepository is the session-scoped optimistic cart storage.
type CartRepository interface {
	Load(ctx context.Context, cartID uuid.UUID) (*cart.Cart, error)
	Save(ctx context.Context, cartID uuid.UUID, c *cart.Cart) error
	Clear(ctx context.Context, cartID uuid.UUID) error
	AcquireValidationLock(ctx context.Context, cartID uuid.UUID) (bool, error)
	ReleaseValidationLock(ctx context.Context, cartID uuid.UUID) error
}

// CatalogRepository reads the authoritative product data used both when
// snapshotting an item into the cart and when reconciling at checkout.
type CatalogRepository interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	VariationByID(ctx context.Context, productID, variationID uuid.UUID) (*VariationSnapshot, error)
}

// CampaignRepository exposes the read-only campaign feed.
type CampaignRepository interface {
	ActiveCampaigns(ctx context.Context, now time.Time) (campaign.Active, error)
}

// Write-side snapshots keep the usecase layer off the infra row types.
type ProductSnapshot struct {
	ID             uuid.UUID
	Code           string
	Name           string
	BasePriceCents int64
	SalePriceCents *int64
	SaleStartsAt   *time.Time
	SaleEndsAt     *time.Time
	Stock          *int32
	CategoryIDs    []uuid.UUID
}

type VariationSnapshot struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Name           string
	BasePriceCents *int64
	SalePriceCents *int64
	SaleStartsAt   *time.Time
	SaleEndsAt     *time.Time
	Stock          *int32
}

func (s *ProductSnapshot) ToDomain() catalog.Product {
	return catalog.Product{
		ID:             s.ID,
		Code:           s.Code,
		Name:           s.Name,
		BasePriceCents: s.BasePriceCents,
		SalePriceCents: s.SalePriceCents,
		SaleWindow:     saleWindow(s.SaleStartsAt, s.SaleEndsAt),
		Stock:          s.Stock,
		CategoryIDs:    s.CategoryIDs,
	}
}

func (s *VariationSnapshot) ToDomain() *catalog.Variation {
	return &catalog.Variation{
		ID:             s.ID,
		Name:           s.Name,
		BasePriceCents: s.BasePriceCents,
		SalePriceCents: s.SalePriceCents,
		SaleWindow:     saleWindow(s.SaleStartsAt, s.SaleEndsAt),
		Stock:          s.Stock,
	}
}

func saleWindow(start, end *time.Time) *catalog.SaleWindow {
	if start == nil && end == nil {
		return nil
	}
	return &catalog.SaleWindow{Start: start, End: end}
}
