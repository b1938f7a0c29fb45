package metadomain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

// InsightFields é a lista explícita de campos pedida ao endpoint /insights
const InsightFields = "account_id,campaign_id,campaign_name,objective,date_start,date_stop,impressions,clicks,reach,spend,actions,action_values"

// Insight é uma linha crua do endpoint /insights
type Insight struct {
	AccountID    string               `json:"account_id"`
	CampaignID   string               `json:"campaign_id"`
	CampaignName string               `json:"campaign_name"`
	Objective    string               `json:"objective"`
	DateStart    string               `json:"date_start"`
	DateStop     string               `json:"date_stop"`
	Impressions  string               `json:"impressions"`
	Clicks       string               `json:"clicks"`
	Reach        string               `json:"reach"`
	Spend        string               `json:"spend"`
	Actions      []domain.ActionValue `json:"actions"`
	ActionValues []domain.ActionValue `json:"action_values"`

	// Presentes apenas quando a consulta usa breakdowns
	Age               string `json:"age"`
	Gender            string `json:"gender"`
	DevicePlatform    string `json:"device_platform"`
	PublisherPlatform string `json:"publisher_platform"`
	PlatformPosition  string `json:"platform_position"`
}

// ParseInsight valida os contadores e classifica as ações em conversões e receita
func ParseInsight(raw Insight) (*domain.RemoteInsight, error) {
	dateStart, err := time.Parse(time.DateOnly, raw.DateStart)
	if err != nil {
		return nil, domain.NewValidationError("date_start", "invalid date: "+raw.DateStart)
	}

	dateStop := dateStart
	if raw.DateStop != "" {
		dateStop, err = time.Parse(time.DateOnly, raw.DateStop)
		if err != nil {
			return nil, domain.NewValidationError("date_stop", "invalid date: "+raw.DateStop)
		}
	}

	impressions, err := parseCount("impressions", raw.Impressions)
	if err != nil {
		return nil, err
	}

	clicks, err := parseCount("clicks", raw.Clicks)
	if err != nil {
		return nil, err
	}

	reach, err := parseCount("reach", raw.Reach)
	if err != nil {
		return nil, err
	}

	spend, err := parseMoney("spend", raw.Spend)
	if err != nil {
		return nil, err
	}

	tally := domain.ClassifyActions(raw.Actions, raw.ActionValues)

	return &domain.RemoteInsight{
		AccountID:          strings.TrimPrefix(raw.AccountID, domain.AccountIDPrefix),
		CampaignExternalID: raw.CampaignID,
		CampaignName:       raw.CampaignName,
		Objective:          raw.Objective,
		DateStart:          dateStart,
		DateStop:           dateStop,
		Segment: domain.SegmentValues{
			Age:               raw.Age,
			Gender:            raw.Gender,
			DevicePlatform:    raw.DevicePlatform,
			PublisherPlatform: raw.PublisherPlatform,
			PlatformPosition:  raw.PlatformPosition,
		},
		Counters: domain.RawCounters{
			Impressions: impressions,
			Clicks:      clicks,
			Reach:       reach,
			Spend:       spend,
			Conversions: tally.Conversions,
			Revenue:     tally.Revenue,
		},
	}, nil
}

func parseCount(field, value string) (int64, error) {
	if value == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(field, "not an integer: "+value)
	}

	if n < 0 {
		return 0, domain.NewValidationError(field, "must not be negative")
	}

	return n, nil
}

func parseMoney(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "not a number: "+value)
	}

	if amount.IsNegative() {
		return decimal.Zero, domain.NewValidationError(field, "must not be negative")
	}

	return amount, nil
}
