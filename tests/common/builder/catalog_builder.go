//go:build unit || e2e

package builder

import (
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/usecase/commands"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

type ProductBuilder struct {
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

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:             uuid.New(),
		Code:           gofakeit.LetterN(8),
		Name:           gofakeit.ProductName(),
		BasePriceCents: int64(gofakeit.Number(500, 20000)),
	}
}

func (b *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(b)
	return b
}

func (b *ProductBuilder) OnSale(salePriceCents int64, start, end *time.Time) *ProductBuilder {
	b.SalePriceCents = &salePriceCents
	b.SaleStartsAt = start
	b.SaleEndsAt = end
	return b
}

func (b *ProductBuilder) WithStock(stock int32) *ProductBuilder {
	b.Stock = &stock
	return b
}

func (b *ProductBuilder) InCategories(ids ...uuid.UUID) *ProductBuilder {
	b.CategoryIDs = append(b.CategoryIDs, ids...)
	return b
}

func (b *ProductBuilder) BuildDomain() catalog.Product {
	return catalog.Product{
		ID:             b.ID,
		Code:           b.Code,
		Name:           b.Name,
		BasePriceCents: b.BasePriceCents,
		SalePriceCents: b.SalePriceCents,
		SaleWindow:     saleWindow(b.SaleStartsAt, b.SaleEndsAt),
		Stock:          b.Stock,
		CategoryIDs:    b.CategoryIDs,
	}
}

func (b *ProductBuilder) BuildSnapshot() *commands.ProductSnapshot {
	return &commands.ProductSnapshot{
		ID:             b.ID,
		Code:           b.Code,
		Name:           b.Name,
		BasePriceCents: b.BasePriceCents,
		SalePriceCents: b.SalePriceCents,
		SaleStartsAt:   b.SaleStartsAt,
		SaleEndsAt:     b.SaleEndsAt,
		Stock:          b.Stock,
		CategoryIDs:    b.CategoryIDs,
	}
}

type VariationBuilder struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Name           string
	BasePriceCents *int64
	SalePriceCents *int64
	SaleStartsAt   *time.Time
	SaleEndsAt     *time.Time
	Stock          *int32
}

func NewVariationBuilder(productID uuid.UUID) *VariationBuilder {
	return &VariationBuilder{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      gofakeit.Color(),
	}
}

func (b *VariationBuilder) With(mutate func(*VariationBuilder)) *VariationBuilder {
	mutate(b)
	return b
}

func (b *VariationBuilder) WithBasePrice(cents int64) *VariationBuilder {
	b.BasePriceCents = &cents
	return b
}

func (b *VariationBuilder) WithStock(stock int32) *VariationBuilder {
	b.Stock = &stock
	return b
}

func (b *VariationBuilder) BuildDomain() *catalog.Variation {
	return &catalog.Variation{
		ID:             b.ID,
		Name:           b.Name,
		BasePriceCents: b.BasePriceCents,
		SalePriceCents: b.SalePriceCents,
		SaleWindow:     saleWindow(b.SaleStartsAt, b.SaleEndsAt),
		Stock:          b.Stock,
	}
}

func (b *VariationBuilder) BuildSnapshot() *commands.VariationSnapshot {
	return &commands.VariationSnapshot{
		ID:             b.ID,
		ProductID:      b.ProductID,
		Name:           b.Name,
		BasePriceCents: b.BasePriceCents,
		SalePriceCents: b.SalePriceCents,
		SaleStartsAt:   b.SaleStartsAt,
		SaleEndsAt:     b.SaleEndsAt,
		Stock:          b.Stock,
	}
}

// BuildLine packages the product (and optional variation) into a cart line.
func BuildLine(p catalog.Product, v *catalog.Variation, quantity int32) cart.Line {
	return cart.Line{
		Product:   p,
		Variation: v,
		Quantity:  quantity,
	}
}

func saleWindow(start, end *time.Time) *catalog.SaleWindow {
	if start == nil && end == nil {
		return nil
	}
	return &catalog.SaleWindow{Start: start, End: end}
}
