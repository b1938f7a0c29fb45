package insighting

import (
	"context"
	"sync"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

type campaignKey struct {
	accountID  string
	campaignID string
}

// campaignTotals soma os contadores de cada campanha ao longo do período
type campaignTotals struct {
	mu        sync.Mutex
	campaigns map[campaignKey]*domain.CampaignPerformance
}

func (t *campaignTotals) add(adAccount *domain.AdAccount, row *domain.RemoteInsight) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := campaignKey{accountID: adAccount.ExternalID, campaignID: row.CampaignExternalID}
	campaign, ok := t.campaigns[key]
	if !ok {
		campaign = &domain.CampaignPerformance{
			AccountID:   domain.ToExternalAccountID(adAccount.ExternalID),
			AccountName: adAccount.Name,
			CampaignID:  row.CampaignExternalID,
		}
		t.campaigns[key] = campaign
	}

	if row.CampaignName != "" {
		campaign.Name = row.CampaignName
	}
	if row.Objective != "" {
		campaign.Objective = row.Objective
	}
	campaign.Counters = campaign.Counters.Add(row.Counters)
}

func (t *campaignTotals) list() []domain.CampaignPerformance {
	t.mu.Lock()
	defer t.mu.Unlock()

	campaigns := make([]domain.CampaignPerformance, 0, len(t.campaigns))
	for _, campaign := range t.campaigns {
		c := *campaign
		c.Metrics = domain.NewSeriesPoint("", c.Counters)
		campaigns = append(campaigns, c)
	}

	return campaigns
}

// TopCampaigns ranqueia as campanhas das contas pela métrica pedida.
// sortBy vazio usa spend, limit zero usa 10 e o período padrão são os últimos 30 dias.
func (s *Service) TopCampaigns(ctx context.Context, userID string, externalAccountIDs []string, sortBy domain.CampaignSortKey, limit int, query domain.InsightQuery) (*domain.TopCampaignsResult, error) {
	if len(externalAccountIDs) == 0 {
		return nil, domain.NewValidationError("account_ids", "at least one account id is required")
	}

	if sortBy == "" {
		sortBy = domain.SortBySpend
	}
	if !sortBy.IsValid() {
		return nil, domain.NewValidationError("sort_by", "unknown sort key "+string(sortBy))
	}

	if limit == 0 {
		limit = domain.DefaultTopCampaignsLimit
	}
	if limit < 0 || limit > domain.MaxTopCampaignsLimit {
		return nil, domain.NewValidationError("limit", "must be between 1 and 100")
	}

	if query.Preset == "" && query.Range == nil {
		query.Preset = domain.PresetLast30d
	}
	query.Level = domain.InsightLevelCampaign
	query.Breakdown = domain.BreakdownMonth
	query.Segment = ""

	if err := query.Validate(); err != nil {
		return nil, err
	}

	totals := &campaignTotals{campaigns: make(map[campaignKey]*domain.CampaignPerformance)}

	run := s.forEachAccount(ctx, "top_campaigns", userID, externalAccountIDs,
		func(ctx context.Context, adAccount *domain.AdAccount, token string) (func(), error) {
			rows, err := s.metaService.FetchInsights(ctx, domain.ToExternalAccountID(adAccount.ExternalID), query, token)
			if err != nil {
				return nil, err
			}

			return func() {
				for _, row := range rows {
					if row.CampaignExternalID == "" {
						continue
					}
					totals.add(adAccount, row)
				}
			}, nil
		})

	campaigns := totals.list()

	result := &domain.TopCampaignsResult{
		Campaigns:         domain.RankCampaigns(campaigns, sortBy, limit),
		Summary:           domain.SummarizeCampaigns(campaigns),
		AccountsRequested: run.requested,
		AccountsProcessed: run.processed,
		Failures:          run.failures,
		SortBy:            sortBy,
		Limit:             limit,
		DatePreset:        query.Preset,
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"accounts_requested": result.AccountsRequested,
		"accounts_processed": result.AccountsProcessed,
		"campaigns":          len(campaigns),
		"sort_by":            sortBy,
	}).Info("top_campaigns: ranking calculado")

	return result, nil
}
