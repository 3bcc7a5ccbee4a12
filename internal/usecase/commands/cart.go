package commands

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound   = errs.New("product not found")
	ErrVariationNotFound = errs.New("variation not found")
	ErrCartLimitExceeded = errs.New("cart line limit exceeded")
	// ErrStockExceeded guards quantity growth past the resolved stock ceiling.
	// A well-behaved client disables the increment control before this fires;
	// the server still refuses so a stale client cannot oversell.
	ErrStockExceeded           = errs.New("stock exceeded")
	ErrCartStorageUnavailable  = errs.New("cart storage unavailable")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CartCommands interface {
	AddItem(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error
	IncrementQuantity(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error
	DecrementQuantity(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type cartCommandsImpl struct {
	cartRepo    CartRepository
	catalogRepo CatalogRepository
}

func NewCartCommands(cartRepo CartRepository, catalogRepo CatalogRepository) CartCommands {
	return &cartCommandsImpl{
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
	}
}

// AddItem snapshots the authoritative product (and variation) into the cart:
// an existing line gains one unit, otherwise a new line is appended.
func (u *cartCommandsImpl) AddItem(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error {
	productSnap, err := u.catalogRepo.ProductByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrProductNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	product := productSnap.ToDomain()

	variation, err := u.resolveVariation(ctx, productID, variationID)
	if err != nil {
		return err
	}

	c, err := u.cartRepo.Load(ctx, cartID)
	if err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}

	// Stock guard on the resulting quantity: an existing line may already sit
	// at the ceiling.
	if stock := catalog.EffectiveStock(product, variation); stock != nil {
		if *stock < 1 {
			return ErrStockExceeded
		}
		key := cart.NewKey(productID, variationID)
		if line, ok := c.Find(key); ok && line.Quantity >= *stock {
			return ErrStockExceeded
		}
	}

	if err := c.AddItem(product, variation); err != nil {
		return errs.Mark(err, ErrCartLimitExceeded)
	}

	if err := u.cartRepo.Save(ctx, cartID, c); err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}
	return nil
}

func (u *cartCommandsImpl) RemoveItem(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error {
	c, err := u.cartRepo.Load(ctx, cartID)
	if err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}

	c.RemoveItem(cart.NewKey(productID, variationID))

	if err := u.cartRepo.Save(ctx, cartID, c); err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}
	return nil
}

// IncrementQuantity adds one unit, honoring the stock ceiling captured in the
// line's own snapshot. The optimistic cart is judged against optimistic
// stock, and checkout validation settles any drift against the catalog.
func (u *cartCommandsImpl) IncrementQuantity(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error {
	c, err := u.cartRepo.Load(ctx, cartID)
	if err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}

	key := cart.NewKey(productID, variationID)
	line, ok := c.Find(key)
	if !ok {
		// absent line is a no-op, matching the domain operation
		return nil
	}

	if stock := catalog.EffectiveStock(line.Product, line.Variation); stock != nil && line.Quantity >= *stock {
		return ErrStockExceeded
	}

	c.IncrementQuantity(key)

	if err := u.cartRepo.Save(ctx, cartID, c); err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}
	return nil
}

func (u *cartCommandsImpl) DecrementQuantity(ctx context.Context, cartID, productID uuid.UUID, variationID *uuid.UUID) error {
	c, err := u.cartRepo.Load(ctx, cartID)
	if err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}

	if !c.DecrementQuantity(cart.NewKey(productID, variationID)) {
		return nil
	}

	if err := u.cartRepo.Save(ctx, cartID, c); err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}
	return nil
}

func (u *cartCommandsImpl) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := u.cartRepo.Clear(ctx, cartID); err != nil {
		return errs.Mark(err, ErrCartStorageUnavailable)
	}
	return nil
}

func (u *cartCommandsImpl) resolveVariation(ctx context.Context, productID uuid.UUID, variationID *uuid.UUID) (*catalog.Variation, error) {
	if variationID == nil {
		return nil, nil
	}

	snap, err := u.catalogRepo.VariationByID(ctx, productID, *variationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVariationNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return snap.ToDomain(), nil
}
