package domain

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/meta-ads-sync-api/pkg/utils"
)

// BreakdownMetric é o contador distribuído entre as fatias de um segmento
type BreakdownMetric string

const (
	MetricImpressions BreakdownMetric = "impressions"
	MetricClicks      BreakdownMetric = "clicks"
	MetricSpend       BreakdownMetric = "spend"
	MetricConversions BreakdownMetric = "conversions"
)

// maxBreakdownShares é o número de fatias devolvidas por segmento
const maxBreakdownShares = 10

func (m BreakdownMetric) IsValid() bool {
	switch m {
	case MetricImpressions, MetricClicks, MetricSpend, MetricConversions:
		return true
	}
	return false
}

func (m BreakdownMetric) valueOf(c RawCounters) decimal.Decimal {
	switch m {
	case MetricClicks:
		return decimal.NewFromInt(c.Clicks)
	case MetricSpend:
		return c.Spend
	case MetricConversions:
		return decimal.NewFromInt(c.Conversions)
	default:
		return decimal.NewFromInt(c.Impressions)
	}
}

type BreakdownShare struct {
	Key        string  `json:"key"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type MetricBreakdowns struct {
	Age               []BreakdownShare `json:"age"`
	Gender            []BreakdownShare `json:"gender"`
	Device            []BreakdownShare `json:"device"`
	Placement         []BreakdownShare `json:"placement"`
	AccountsRequested int              `json:"accounts_requested"`
	AccountsProcessed int              `json:"accounts_processed"`
	Failures          []AccountFailure `json:"failures,omitempty"`
	Metric            BreakdownMetric  `json:"metric"`
	DatePreset        DatePreset       `json:"date_preset,omitempty"`
}

// Shares converte os totais por chave em participações percentuais.
// O percentual usa o total de todas as chaves, mesmo as que ficam fora das 10 maiores.
func Shares(totals map[string]RawCounters, metric BreakdownMetric) []BreakdownShare {
	sum := decimal.Zero
	values := make(map[string]decimal.Decimal, len(totals))
	for key, counters := range totals {
		v := metric.valueOf(counters)
		values[key] = v
		sum = sum.Add(v)
	}

	shares := make([]BreakdownShare, 0, len(values))
	for key, v := range values {
		percentage := 0.0
		if sum.IsPositive() {
			percentage = v.Div(sum).Mul(hundred).Round(1).InexactFloat64()
		}

		shares = append(shares, BreakdownShare{
			Key:        key,
			Value:      utils.RoundWithTwoDecimalPlace(v.InexactFloat64()),
			Percentage: percentage,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Value != shares[j].Value {
			return shares[i].Value > shares[j].Value
		}
		return shares[i].Key < shares[j].Key
	})

	if len(shares) > maxBreakdownShares {
		shares = shares[:maxBreakdownShares]
	}

	return shares
}

var (
	platformNames = map[string]string{
		"facebook":         "Facebook",
		"instagram":        "Instagram",
		"audience_network": "Audience Network",
		"messenger":        "Messenger",
	}
	positionNames = map[string]string{
		"feed":              "Feed",
		"stories":           "Stories",
		"reels":             "Reels",
		"video_feeds":       "Video Feed",
		"right_hand_column": "Right Column",
		"instant_article":   "Instant Article",
		"marketplace":       "Marketplace",
		"suggested_videos":  "Suggested Videos",
	}
)

// PlacementName junta plataforma e posição em um rótulo legível, ex.: "Instagram Stories".
// Valores desconhecidos são mantidos como vieram.
func PlacementName(platform, position string) string {
	if platform == "" {
		return ""
	}

	name := platform
	if known, ok := platformNames[platform]; ok {
		name = known
	}

	if position == "" {
		return name
	}

	if known, ok := positionNames[position]; ok {
		position = known
	}

	return name + " " + position
}
