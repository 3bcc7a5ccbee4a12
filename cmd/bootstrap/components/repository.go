package components

import (
	"storefront/internal/infra/cartstore"
	"storefront/internal/infra/readstore"
	"storefront/internal/pkg/config"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			NewRedisCartStore,
			fx.As(new(commands.CartRepository)),
			fx.As(new(queries.CartReadStore)),
		),
		fx.Annotate(
			readstore.NewCatalogReadStore,
			fx.As(new(commands.CatalogRepository)),
		),
		fx.Annotate(
			readstore.NewCampaignReadStore,
			fx.As(new(commands.CampaignRepository)),
			fx.As(new(queries.CampaignFeed)),
		),
	),
)

func NewRedisCartStore(client *redis.Client, cfg config.Config) *cartstore.RedisStore {
	return cartstore.NewRedisStore(client, cfg.Cart)
}
