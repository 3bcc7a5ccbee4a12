package components

import (
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCartCommands,
		NewCheckoutCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCartQueries,
	),
)

func NewCheckoutCommands(
	cartRepo commands.CartRepository,
	catalogRepo commands.CatalogRepository,
	campaignRepo commands.CampaignRepository,
	clk clock.Clock,
	cfg config.Config,
) commands.CheckoutCommands {
	return commands.NewCheckoutCommands(cartRepo, catalogRepo, campaignRepo, clk, cfg.Cart.ShippingFeeCents)
}
