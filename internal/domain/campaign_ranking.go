package domain

import (
	"sort"

	"github.com/vfg2006/meta-ads-sync-api/pkg/utils"
)

// CampaignSortKey é a métrica usada para ordenar o ranking de campanhas
type CampaignSortKey string

const (
	SortBySpend       CampaignSortKey = "spend"
	SortByRevenue     CampaignSortKey = "revenue"
	SortByROAS        CampaignSortKey = "roas"
	SortByConversions CampaignSortKey = "conversions"
	SortByClicks      CampaignSortKey = "clicks"
	SortByImpressions CampaignSortKey = "impressions"
	SortByCTR         CampaignSortKey = "ctr"
	SortByCPC         CampaignSortKey = "cpc"
	SortByCPM         CampaignSortKey = "cpm"
)

const (
	DefaultTopCampaignsLimit = 10
	MaxTopCampaignsLimit     = 100
)

func (k CampaignSortKey) IsValid() bool {
	switch k {
	case SortBySpend, SortByRevenue, SortByROAS, SortByConversions, SortByClicks,
		SortByImpressions, SortByCTR, SortByCPC, SortByCPM:
		return true
	}
	return false
}

// Ascending é verdadeiro para métricas de custo, onde o menor valor é o melhor
func (k CampaignSortKey) Ascending() bool {
	return k == SortByCPC || k == SortByCPM
}

func (k CampaignSortKey) valueOf(c RawCounters) float64 {
	derived := c.Derive()

	switch k {
	case SortByRevenue:
		return c.Revenue.InexactFloat64()
	case SortByROAS:
		return derived.ROAS
	case SortByConversions:
		return float64(c.Conversions)
	case SortByClicks:
		return float64(c.Clicks)
	case SortByImpressions:
		return float64(c.Impressions)
	case SortByCTR:
		return derived.CTR
	case SortByCPC:
		return derived.CPC
	case SortByCPM:
		return derived.CPM
	default:
		return c.Spend.InexactFloat64()
	}
}

// CampaignPerformance são os contadores somados de uma campanha no período
type CampaignPerformance struct {
	AccountID   string      `json:"account_id"`
	AccountName string      `json:"account_name"`
	CampaignID  string      `json:"campaign_id"`
	Name        string      `json:"name"`
	Objective   string      `json:"objective"`
	Metrics     SeriesPoint `json:"metrics"`
	Counters    RawCounters `json:"-"`
}

type CampaignsSummary struct {
	TotalCampaigns   int     `json:"total_campaigns"`
	TotalSpend       float64 `json:"total_spend"`
	TotalRevenue     float64 `json:"total_revenue"`
	TotalConversions int64   `json:"total_conversions"`
	ROAS             float64 `json:"roas"`
}

type TopCampaignsResult struct {
	Campaigns         []CampaignPerformance `json:"campaigns"`
	Summary           CampaignsSummary      `json:"summary"`
	AccountsRequested int                   `json:"accounts_requested"`
	AccountsProcessed int                   `json:"accounts_processed"`
	Failures          []AccountFailure      `json:"failures,omitempty"`
	SortBy            CampaignSortKey       `json:"sort_by"`
	Limit             int                   `json:"limit"`
	DatePreset        DatePreset            `json:"date_preset,omitempty"`
}

// SummarizeCampaigns soma todas as campanhas antes do corte do ranking.
// O ROAS do resumo vem dos totais, não da média das campanhas.
func SummarizeCampaigns(campaigns []CampaignPerformance) CampaignsSummary {
	var total RawCounters
	for _, c := range campaigns {
		total = total.Add(c.Counters)
	}

	return CampaignsSummary{
		TotalCampaigns:   len(campaigns),
		TotalSpend:       utils.RoundWithTwoDecimalPlace(total.Spend.InexactFloat64()),
		TotalRevenue:     utils.RoundWithTwoDecimalPlace(total.Revenue.InexactFloat64()),
		TotalConversions: total.Conversions,
		ROAS:             utils.RoundWithTwoDecimalPlace(total.Derive().ROAS),
	}
}

// RankCampaigns ordena pela métrica pedida e devolve no máximo limit campanhas.
// Empates são desfeitos por conta e campanha para que o resultado seja estável.
func RankCampaigns(campaigns []CampaignPerformance, sortBy CampaignSortKey, limit int) []CampaignPerformance {
	ranked := make([]CampaignPerformance, len(campaigns))
	copy(ranked, campaigns)

	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := sortBy.valueOf(ranked[i].Counters), sortBy.valueOf(ranked[j].Counters)
		if vi != vj {
			if sortBy.Ascending() {
				return vi < vj
			}
			return vi > vj
		}
		if ranked[i].AccountID != ranked[j].AccountID {
			return ranked[i].AccountID < ranked[j].AccountID
		}
		return ranked[i].CampaignID < ranked[j].CampaignID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
