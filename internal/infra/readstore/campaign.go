package readstore

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/campaign"
	"storefront/internal/infra"
	"storefront/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Campaign feed type tags as stored by the (external) campaign admin.
const (
	campaignTypeFreeShipping = "FREE_SHIPPING"
	campaignTypeBuyXPayY     = "BUY_X_PAY_Y"
)

type CampaignReadStore struct {
	pool *pgxpool.Pool
}

func NewCampaignReadStore(pool *pgxpool.Pool) *CampaignReadStore {
	return &CampaignReadStore{pool: pool}
}

const activeCampaignsQuery = `
SELECT c.id, c.name, c.campaign_type, c.minimum_spend_cents, c.buy_quantity, c.pay_quantity,
       COALESCE((SELECT array_agg(cc.category_id::text)
                 FROM campaign_categories cc
                 WHERE cc.campaign_id = c.id), '{}')
FROM campaigns c
WHERE c.active
  AND (c.starts_at IS NULL OR c.starts_at <= $1)
  AND (c.ends_at IS NULL OR c.ends_at >= $1)
ORDER BY c.created_at DESC`

// ActiveCampaigns decodes the feed into at most one campaign per variant
// (newest wins). Rows with unknown type tags or unusable definitions are
// skipped with a warning; a broken feed row must never take checkout down.
func (r *CampaignReadStore) ActiveCampaigns(ctx context.Context, now time.Time) (campaign.Active, error) {
	rows, err := r.pool.Query(ctx, activeCampaignsQuery, now)
	if err != nil {
		return campaign.Active{}, infra.WrapRepoErr("failed to load campaigns", err)
	}
	defer rows.Close()

	var active campaign.Active
	for rows.Next() {
		var (
			id           string
			name         string
			campaignType string
			minimumSpend pgtype.Int8
			buyQuantity  pgtype.Int4
			payQuantity  pgtype.Int4
			categoryIDs  []string
		)
		if err := rows.Scan(&id, &name, &campaignType, &minimumSpend,
			&buyQuantity, &payQuantity, &categoryIDs); err != nil {
			return campaign.Active{}, infra.WrapRepoErr("failed to scan campaign row", err)
		}

		switch campaignType {
		case campaignTypeFreeShipping:
			if active.FreeShipping != nil {
				continue
			}
			spend := pgconv.Int64PtrFromPgtype(minimumSpend)
			if spend == nil {
				slog.Warn("skipping free-shipping campaign without minimum spend", "campaign_id", id)
				continue
			}
			decoded := campaign.FreeShipping{MinimumSpendCents: *spend}
			if !decoded.WellFormed() {
				slog.Warn("skipping misconfigured free-shipping campaign", "campaign_id", id)
				continue
			}
			active.FreeShipping = &decoded

		case campaignTypeBuyXPayY:
			if active.BuyXPayY != nil {
				continue
			}
			buy := pgconv.Int32PtrFromPgtype(buyQuantity)
			pay := pgconv.Int32PtrFromPgtype(payQuantity)
			if buy == nil || pay == nil {
				slog.Warn("skipping buy-x-pay-y campaign without quantities", "campaign_id", id)
				continue
			}
			categories, parseErr := parseUUIDs(categoryIDs)
			if parseErr != nil {
				slog.Warn("skipping buy-x-pay-y campaign with invalid categories",
					"campaign_id", id, "error", parseErr)
				continue
			}
			decoded := campaign.BuyXPayY{
				BuyQuantity: *buy,
				PayQuantity: *pay,
				CategoryIDs: categories,
			}
			if !decoded.WellFormed() {
				slog.Warn("skipping misconfigured buy-x-pay-y campaign",
					"campaign_id", id, "name", name)
				continue
			}
			active.BuyXPayY = &decoded

		default:
			slog.Warn("skipping campaign with unknown type",
				"campaign_id", id, "campaign_type", campaignType)
		}
	}
	if err := rows.Err(); err != nil {
		return campaign.Active{}, infra.WrapRepoErr("failed to iterate campaigns", err)
	}

	return active, nil
}
