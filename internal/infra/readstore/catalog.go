package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogReadStore struct {
	pool *pgxpool.Pool
}

func NewCatalogReadStore(pool *pgxpool.Pool) *CatalogReadStore {
	return &CatalogReadStore{pool: pool}
}

const productByIDQuery = `
SELECT p.id, p.code, p.name, p.base_price_cents, p.sale_price_cents,
       p.sale_starts_at, p.sale_ends_at, p.stock,
       COALESCE(array_agg(pc.category_id::text) FILTER (WHERE pc.category_id IS NOT NULL), '{}')
FROM products p
LEFT JOIN product_categories pc ON pc.product_id = p.id
WHERE p.id = $1 AND p.published
GROUP BY p.id`

func (r *CatalogReadStore) ProductByID(ctx context.Context, id uuid.UUID) (*commands.ProductSnapshot, error) {
	var (
		snap        commands.ProductSnapshot
		salePrice   pgtype.Int8
		saleStarts  pgtype.Timestamptz
		saleEnds    pgtype.Timestamptz
		stock       pgtype.Int4
		categoryIDs []string
	)

	row := r.pool.QueryRow(ctx, productByIDQuery, id)
	err := row.Scan(&snap.ID, &snap.Code, &snap.Name, &snap.BasePriceCents,
		&salePrice, &saleStarts, &saleEnds, &stock, &categoryIDs)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by id", err)
	}

	snap.SalePriceCents = pgconv.Int64PtrFromPgtype(salePrice)
	snap.SaleStartsAt = pgconv.TimePtrFromPgtype(saleStarts)
	snap.SaleEndsAt = pgconv.TimePtrFromPgtype(saleEnds)
	snap.Stock = pgconv.Int32PtrFromPgtype(stock)

	snap.CategoryIDs, err = parseUUIDs(categoryIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid category id on product", err)
	}

	return &snap, nil
}

const variationByIDQuery = `
SELECT v.id, v.product_id, v.name, v.base_price_cents, v.sale_price_cents,
       v.sale_starts_at, v.sale_ends_at, v.stock
FROM product_variations v
WHERE v.id = $1 AND v.product_id = $2`

func (r *CatalogReadStore) VariationByID(ctx context.Context, productID, variationID uuid.UUID) (*commands.VariationSnapshot, error) {
	var (
		snap       commands.VariationSnapshot
		basePrice  pgtype.Int8
		salePrice  pgtype.Int8
		saleStarts pgtype.Timestamptz
		saleEnds   pgtype.Timestamptz
		stock      pgtype.Int4
	)

	row := r.pool.QueryRow(ctx, variationByIDQuery, variationID, productID)
	err := row.Scan(&snap.ID, &snap.ProductID, &snap.Name,
		&basePrice, &salePrice, &saleStarts, &saleEnds, &stock)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("variation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find variation by id", err)
	}

	snap.BasePriceCents = pgconv.Int64PtrFromPgtype(basePrice)
	snap.SalePriceCents = pgconv.Int64PtrFromPgtype(salePrice)
	snap.SaleStartsAt = pgconv.TimePtrFromPgtype(saleStarts)
	snap.SaleEndsAt = pgconv.TimePtrFromPgtype(saleEnds)
	snap.Stock = pgconv.Int32PtrFromPgtype(stock)

	return &snap, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
