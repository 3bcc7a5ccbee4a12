//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/campaign"
	"storefront/internal/domain/cart"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"
	"storefront/tests/common/builder"
	commandsmock "storefront/tests/mock/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const shippingFeeCents = int64(590)

type checkoutFixture struct {
	cartRepo     *commandsmock.MockCartRepository
	catalogRepo  *commandsmock.MockCatalogRepository
	campaignRepo *commandsmock.MockCampaignRepository
	clock        *clock.MockClock
	sut          commands.CheckoutCommands
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	ctrl := gomock.NewController(t)
	f := &checkoutFixture{
		cartRepo:     commandsmock.NewMockCartRepository(ctrl),
		catalogRepo:  commandsmock.NewMockCatalogRepository(ctrl),
		campaignRepo: commandsmock.NewMockCampaignRepository(ctrl),
		clock:        clock.NewMockClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
	}
	f.sut = commands.NewCheckoutCommands(f.cartRepo, f.catalogRepo, f.campaignRepo, f.clock, shippingFeeCents)
	return f
}

func (f *checkoutFixture) expectLock(cartID uuid.UUID) {
	f.cartRepo.EXPECT().AcquireValidationLock(gomock.Any(), cartID).Return(true, nil)
	f.cartRepo.EXPECT().ReleaseValidationLock(gomock.Any(), cartID).Return(nil)
}

func TestCheckoutValidate(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("clean cart passes unchanged", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().WithStock(10)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 2)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)

		result, err := f.sut.Validate(ctx, cartID)

		require.NoError(t, err)
		assert.False(t, result.HasChanges)
		require.Len(t, result.Items, 1)
		assert.Equal(t, int32(2), result.Items[0].Quantity)
	})

	t.Run("vanished product is removed and the cart is saved", func(t *testing.T) {
		f := newCheckoutFixture(t)
		gone := builder.NewProductBuilder()
		kept := builder.NewProductBuilder().WithStock(10)
		stored := cart.Restore([]cart.Line{
			builder.BuildLine(gone.BuildDomain(), nil, 1),
			builder.BuildLine(kept.BuildDomain(), nil, 1),
		}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), gone.ID).
			Return(nil, infra.WrapRepoErr("product not found", errors.New("no rows"), infra.KindNotFound))
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), kept.ID).Return(kept.BuildSnapshot(), nil)
		f.cartRepo.EXPECT().Save(gomock.Any(), cartID, gomock.Any()).Return(nil)

		result, err := f.sut.Validate(ctx, cartID)

		require.NoError(t, err)
		assert.True(t, result.HasChanges)
		assert.Equal(t, 1, result.Changes.RemovedItems)
		require.Len(t, result.Items, 1)
		assert.Equal(t, kept.ID, result.Items[0].Product.ID)
	})

	t.Run("quantity clamps to remaining stock", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().WithStock(3)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 5)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)
		f.cartRepo.EXPECT().Save(gomock.Any(), cartID, gomock.Any()).Return(nil)

		result, err := f.sut.Validate(ctx, cartID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Changes.QuantityAdjusted)
		assert.Equal(t, int32(3), result.Items[0].Quantity)
	})

	t.Run("out-of-stock line is removed entirely", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().WithStock(5)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 2)}, 20)

		soldOut := pb.BuildSnapshot()
		zero := int32(0)
		soldOut.Stock = &zero

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(soldOut, nil)
		f.cartRepo.EXPECT().Save(gomock.Any(), cartID, gomock.Any()).Return(nil)

		result, err := f.sut.Validate(ctx, cartID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Changes.RemovedItems)
		assert.Empty(t, result.Items)
	})

	t.Run("price drift is counted and the snapshot refreshed", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().
			With(func(b *builder.ProductBuilder) { b.BasePriceCents = 1000 }).
			WithStock(10)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 1)}, 20)

		repriced := pb.BuildSnapshot()
		repriced.BasePriceCents = 1200

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(repriced, nil)
		f.cartRepo.EXPECT().Save(gomock.Any(), cartID, gomock.Any()).Return(nil)

		result, err := f.sut.Validate(ctx, cartID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Changes.PriceChanged)
		assert.Equal(t, int64(1200), result.Items[0].Product.BasePriceCents)
	})

	t.Run("name-only drift is not a change", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().WithStock(10)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 1)}, 20)

		renamed := pb.BuildSnapshot()
		renamed.Name = "New Name"

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(renamed, nil)

		result, err := f.sut.Validate(ctx, cartID)

		require.NoError(t, err)
		assert.False(t, result.HasChanges)
		assert.Equal(t, "New Name", result.Items[0].Product.Name)
	})

	t.Run("empty cart refuses validation", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(cart.New(20), nil)

		_, err := f.sut.Validate(ctx, cartID)

		assert.ErrorIs(t, err, commands.ErrCartEmpty)
	})

	t.Run("held lock means validation is already in flight", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.cartRepo.EXPECT().AcquireValidationLock(gomock.Any(), cartID).Return(false, nil)

		_, err := f.sut.Validate(ctx, cartID)

		assert.ErrorIs(t, err, commands.ErrValidationInFlight)
	})

	t.Run("catalog failure fails closed", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder()
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 1)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).
			Return(nil, infra.WrapRepoErr("db down", errors.New("conn refused")))

		_, err := f.sut.Validate(ctx, cartID)

		assert.True(t, errs.Is(err, commands.ErrValidationFailed), "got %v", err)
	})
}

func TestCheckoutProceed(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("clean cart builds the handoff with a shipping line", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().
			With(func(b *builder.ProductBuilder) { b.BasePriceCents = 2000 }).
			WithStock(10)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 2)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)
		f.campaignRepo.EXPECT().ActiveCampaigns(gomock.Any(), gomock.Any()).Return(campaign.Active{}, nil)

		session, _, err := f.sut.Proceed(ctx, cartID)

		require.NoError(t, err)
		require.Len(t, session.Lines, 2)
		assert.Equal(t, commands.ItemTypeProduct, session.Lines[0].ItemType)
		assert.Equal(t, commands.ItemTypeShipping, session.Lines[1].ItemType)
		assert.Equal(t, shippingFeeCents, session.Lines[1].UnitPriceCents)
		assert.Equal(t, int64(4000)+shippingFeeCents, session.TotalCents)
		assert.False(t, session.FreeShipping)
	})

	t.Run("free shipping drops the shipping line", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().
			With(func(b *builder.ProductBuilder) { b.BasePriceCents = 6000 }).
			WithStock(10)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 1)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)
		f.campaignRepo.EXPECT().ActiveCampaigns(gomock.Any(), gomock.Any()).
			Return(campaign.Active{FreeShipping: &campaign.FreeShipping{MinimumSpendCents: 5000}}, nil)

		session, _, err := f.sut.Proceed(ctx, cartID)

		require.NoError(t, err)
		require.Len(t, session.Lines, 1)
		assert.True(t, session.FreeShipping)
		assert.Equal(t, int64(6000), session.TotalCents)
	})

	t.Run("paid quantities only reach the provider", func(t *testing.T) {
		f := newCheckoutFixture(t)
		categoryID := uuid.New()
		pb := builder.NewProductBuilder().
			With(func(b *builder.ProductBuilder) { b.BasePriceCents = 1000 }).
			WithStock(10).
			InCategories(categoryID)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 3)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)
		f.campaignRepo.EXPECT().ActiveCampaigns(gomock.Any(), gomock.Any()).
			Return(campaign.Active{BuyXPayY: &campaign.BuyXPayY{
				BuyQuantity: 3,
				PayQuantity: 2,
				CategoryIDs: []uuid.UUID{categoryID},
			}}, nil)

		session, _, err := f.sut.Proceed(ctx, cartID)

		require.NoError(t, err)
		assert.Equal(t, int32(2), session.Lines[0].Quantity)
		assert.Equal(t, int64(2000)+shippingFeeCents, session.TotalCents)
	})

	t.Run("corrections block the handoff", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().WithStock(1)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), nil, 4)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)
		f.cartRepo.EXPECT().Save(gomock.Any(), cartID, gomock.Any()).Return(nil)

		session, result, err := f.sut.Proceed(ctx, cartID)

		assert.ErrorIs(t, err, commands.ErrCartChanged)
		assert.Nil(t, session)
		require.NotNil(t, result)
		assert.Equal(t, 1, result.Changes.QuantityAdjusted)
	})

	t.Run("variation lines are labelled with both names", func(t *testing.T) {
		f := newCheckoutFixture(t)
		pb := builder.NewProductBuilder().
			With(func(b *builder.ProductBuilder) {
				b.Name = "Mug"
				b.BasePriceCents = 1500
			}).
			WithStock(10)
		vb := builder.NewVariationBuilder(pb.ID).
			With(func(b *builder.VariationBuilder) { b.Name = "Blue" }).
			WithStock(10)
		stored := cart.Restore([]cart.Line{builder.BuildLine(pb.BuildDomain(), vb.BuildDomain(), 1)}, 20)

		f.expectLock(cartID)
		f.cartRepo.EXPECT().Load(gomock.Any(), cartID).Return(stored, nil)
		f.catalogRepo.EXPECT().ProductByID(gomock.Any(), pb.ID).Return(pb.BuildSnapshot(), nil)
		f.catalogRepo.EXPECT().VariationByID(gomock.Any(), pb.ID, vb.ID).Return(vb.BuildSnapshot(), nil)
		f.campaignRepo.EXPECT().ActiveCampaigns(gomock.Any(), gomock.Any()).Return(campaign.Active{}, nil)

		session, _, err := f.sut.Proceed(ctx, cartID)

		require.NoError(t, err)
		assert.Equal(t, "Mug / Blue", session.Lines[0].Name)
		assert.Equal(t, commands.ItemTypeVariation, session.Lines[0].ItemType)
	})
}
