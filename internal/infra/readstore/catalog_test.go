//go:build e2e

package readstore_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/infra"
	"storefront/internal/infra/readstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type catalogReadStoreSuite struct {
	suite.Suite

	store *readstore.CatalogReadStore
	pool  *pgxpool.Pool
}

func TestCatalogReadStoreSuite(t *testing.T) {
	suite.Run(t, new(catalogReadStoreSuite))
}

func (s *catalogReadStoreSuite) SetupSuite() {
	ctx := context.Background()

	_, connStr, err := startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	s.store = readstore.NewCatalogReadStore(s.pool)
}

func (s *catalogReadStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *catalogReadStoreSuite) insertProduct(published bool) uuid.UUID {
	id := uuid.New()
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO products (id, code, name, base_price_cents, sale_price_cents, sale_starts_at, sale_ends_at, stock, published)
		VALUES ($1, $2, 'Mug', 1000, 800, now() - interval '1 hour', now() + interval '1 hour', 5, $3)`,
		id, "CODE-"+id.String()[:8], published)
	s.Require().NoError(err)
	return id
}

func (s *catalogReadStoreSuite) insertCategory(productID uuid.UUID) uuid.UUID {
	ctx := context.Background()
	categoryID := uuid.New()
	_, err := s.pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, 'Drinkware')`, categoryID)
	s.Require().NoError(err)
	_, err = s.pool.Exec(ctx, `INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`, productID, categoryID)
	s.Require().NoError(err)
	return categoryID
}

func (s *catalogReadStoreSuite) TestProductByID() {
	ctx := context.Background()

	s.Run("published product comes back with categories", func() {
		productID := s.insertProduct(true)
		categoryID := s.insertCategory(productID)

		snap, err := s.store.ProductByID(ctx, productID)

		require.NoError(s.T(), err)
		s.Equal(productID, snap.ID)
		s.Equal("Mug", snap.Name)
		s.Equal(int64(1000), snap.BasePriceCents)
		s.Require().NotNil(snap.SalePriceCents)
		s.Equal(int64(800), *snap.SalePriceCents)
		s.Require().NotNil(snap.SaleStartsAt)
		s.WithinDuration(time.Now().Add(-time.Hour), *snap.SaleStartsAt, time.Minute)
		s.Require().NotNil(snap.Stock)
		s.Equal(int32(5), *snap.Stock)
		s.Equal([]uuid.UUID{categoryID}, snap.CategoryIDs)
	})

	s.Run("product without categories has none", func() {
		productID := s.insertProduct(true)

		snap, err := s.store.ProductByID(ctx, productID)

		require.NoError(s.T(), err)
		s.Empty(snap.CategoryIDs)
	})

	s.Run("unpublished product is not found", func() {
		productID := s.insertProduct(false)

		_, err := s.store.ProductByID(ctx, productID)

		s.True(infra.IsKind(err, infra.KindNotFound))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.ProductByID(ctx, uuid.New())

		s.True(infra.IsKind(err, infra.KindNotFound))
	})
}

func (s *catalogReadStoreSuite) TestVariationByID() {
	ctx := context.Background()
	productID := s.insertProduct(true)

	variationID := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO product_variations (id, product_id, name, base_price_cents, stock)
		VALUES ($1, $2, 'Blue', 1200, 3)`, variationID, productID)
	s.Require().NoError(err)

	s.Run("variation overrides come back, inherited fields stay nil", func() {
		snap, err := s.store.VariationByID(ctx, productID, variationID)

		require.NoError(s.T(), err)
		s.Equal("Blue", snap.Name)
		s.Require().NotNil(snap.BasePriceCents)
		s.Equal(int64(1200), *snap.BasePriceCents)
		s.Nil(snap.SalePriceCents)
		s.Nil(snap.SaleStartsAt)
		s.Require().NotNil(snap.Stock)
		s.Equal(int32(3), *snap.Stock)
	})

	s.Run("variation of a different product is not found", func() {
		otherProduct := s.insertProduct(true)

		_, err := s.store.VariationByID(ctx, otherProduct, variationID)

		s.True(infra.IsKind(err, infra.KindNotFound))
	})
}
