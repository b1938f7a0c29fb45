package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/meta-ads-sync-api/pkg/utils"
)

// RawCounters são os contadores brutos de um bucket de tempo. Todos não negativos.
type RawCounters struct {
	Impressions int64
	Clicks      int64
	Reach       int64
	Spend       decimal.Decimal
	Conversions int64
	Revenue     decimal.Decimal
}

func (c RawCounters) Add(other RawCounters) RawCounters {
	return RawCounters{
		Impressions: c.Impressions + other.Impressions,
		Clicks:      c.Clicks + other.Clicks,
		Reach:       c.Reach + other.Reach,
		Spend:       c.Spend.Add(other.Spend),
		Conversions: c.Conversions + other.Conversions,
		Revenue:     c.Revenue.Add(other.Revenue),
	}
}

// DerivedMetrics nunca são persistidas; são recalculadas a partir dos contadores brutos
type DerivedMetrics struct {
	CTR  float64
	CPC  float64
	CPM  float64
	ROAS float64
}

var (
	hundred  = decimal.NewFromInt(100)
	thousand = decimal.NewFromInt(1000)
)

// Derive calcula ctr, cpc, cpm e roas. Denominador zero resulta em 0.
func (c RawCounters) Derive() DerivedMetrics {
	var derived DerivedMetrics

	impressions := decimal.NewFromInt(c.Impressions)
	clicks := decimal.NewFromInt(c.Clicks)

	if c.Impressions > 0 {
		derived.CTR = clicks.Div(impressions).Mul(hundred).InexactFloat64()
		derived.CPM = c.Spend.Div(impressions).Mul(thousand).InexactFloat64()
	}

	if c.Clicks > 0 {
		derived.CPC = c.Spend.Div(clicks).InexactFloat64()
	}

	if c.Spend.IsPositive() {
		derived.ROAS = c.Revenue.Div(c.Spend).InexactFloat64()
	}

	return derived
}

// SegmentValues são as dimensões devolvidas quando a consulta pede um segmento
type SegmentValues struct {
	Age               string
	Gender            string
	DevicePlatform    string
	PublisherPlatform string
	PlatformPosition  string
}

// RemoteInsight é uma linha de /insights já parseada
type RemoteInsight struct {
	AccountID          string
	CampaignExternalID string
	CampaignName       string
	Objective          string
	DateStart          time.Time
	DateStop           time.Time
	Segment            SegmentValues
	Counters           RawCounters
}

// InsightRecord é a linha persistida, chave (conta, campanha externa, date_start).
// Sobrevive à remoção da campanha na Meta.
type InsightRecord struct {
	ID                 string
	AccountID          string
	CampaignExternalID string
	UserID             string
	DateStart          time.Time
	DateStop           time.Time
	Counters           RawCounters
	UpdatedAt          time.Time
}

// SeriesPoint é um ponto da série cronológica agregada
type SeriesPoint struct {
	Date        string  `json:"date,omitempty"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Reach       int64   `json:"reach"`
	Spend       float64 `json:"spend"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`
	ROAS        float64 `json:"roas"`
}

// NewSeriesPoint projeta os contadores para a resposta, arredondando para duas casas
func NewSeriesPoint(date string, counters RawCounters) SeriesPoint {
	derived := counters.Derive()

	return SeriesPoint{
		Date:        date,
		Impressions: counters.Impressions,
		Clicks:      counters.Clicks,
		Reach:       counters.Reach,
		Spend:       utils.RoundWithTwoDecimalPlace(counters.Spend.InexactFloat64()),
		Conversions: counters.Conversions,
		Revenue:     utils.RoundWithTwoDecimalPlace(counters.Revenue.InexactFloat64()),
		CTR:         utils.RoundWithTwoDecimalPlace(derived.CTR),
		CPC:         utils.RoundWithTwoDecimalPlace(derived.CPC),
		CPM:         utils.RoundWithTwoDecimalPlace(derived.CPM),
		ROAS:        utils.RoundWithTwoDecimalPlace(derived.ROAS),
	}
}

type AccountFailure struct {
	AccountID         string    `json:"account_id"`
	Kind              ErrorKind `json:"kind"`
	Message           string    `json:"message"`
	ReconnectRequired bool      `json:"reconnect_required,omitempty"`
}

func NewAccountFailure(accountID string, err error) AccountFailure {
	return AccountFailure{
		AccountID:         accountID,
		Kind:              KindOf(err),
		Message:           err.Error(),
		ReconnectRequired: RequiresReconnect(err),
	}
}

type AggregateResult struct {
	Series            []SeriesPoint    `json:"series"`
	Totals            SeriesPoint      `json:"totals"`
	AccountsRequested int              `json:"accounts_requested"`
	AccountsProcessed int              `json:"accounts_processed"`
	Failures          []AccountFailure `json:"failures,omitempty"`
	DatePreset        DatePreset       `json:"date_preset,omitempty"`
	Breakdown         Breakdown        `json:"breakdown"`
}
