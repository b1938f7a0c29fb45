package metadomain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

// CampaignFields é a lista de campos pedida ao endpoint /campaigns
const CampaignFields = "id,name,objective,status,daily_budget,lifetime_budget,created_time,updated_time,start_time,stop_time"

// TimestampLayout é o formato de data/hora da Graph API (2024-01-15T10:00:00+0000)
const TimestampLayout = "2006-01-02T15:04:05-0700"

var minorUnitsPerMajor = decimal.NewFromInt(100)

// Campaign é a campanha crua como devolvida pela Meta; números chegam como string
type Campaign struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Objective      string `json:"objective"`
	Status         string `json:"status"`
	DailyBudget    string `json:"daily_budget"`
	LifetimeBudget string `json:"lifetime_budget"`
	CreatedTime    string `json:"created_time"`
	UpdatedTime    string `json:"updated_time"`
	StartTime      string `json:"start_time"`
	StopTime       string `json:"stop_time"`
}

// ParseCampaign valida e converte a campanha crua. Retorna a campanha ou um ValidationError.
func ParseCampaign(raw Campaign) (*domain.RemoteCampaign, error) {
	if raw.ID == "" {
		return nil, domain.NewValidationError("campaign.id", "missing campaign id")
	}
	if !domain.IsValidCampaignID(raw.ID) {
		return nil, domain.NewValidationError("campaign.id", "campaign id must contain only digits: "+raw.ID)
	}

	daily, err := parseBudget("daily_budget", raw.DailyBudget)
	if err != nil {
		return nil, err
	}

	lifetime, err := parseBudget("lifetime_budget", raw.LifetimeBudget)
	if err != nil {
		return nil, err
	}

	if daily.Valid && lifetime.Valid {
		return nil, domain.NewValidationError("budget", "daily_budget and lifetime_budget are mutually exclusive for campaign "+raw.ID)
	}

	created, err := parseTimestamp("created_time", raw.CreatedTime)
	if err != nil {
		return nil, err
	}

	updated, err := parseTimestamp("updated_time", raw.UpdatedTime)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = created
	}

	start, err := parseTimestamp("start_time", raw.StartTime)
	if err != nil {
		return nil, err
	}

	stop, err := parseTimestamp("stop_time", raw.StopTime)
	if err != nil {
		return nil, err
	}

	return &domain.RemoteCampaign{
		ExternalID:     raw.ID,
		Name:           withDefault(raw.Name, domain.UnnamedCampaignName),
		Objective:      withDefault(raw.Objective, domain.UnknownObjective),
		Status:         parseStatus(raw.Status),
		DailyBudget:    daily,
		LifetimeBudget: lifetime,
		CreatedTime:    created,
		UpdatedTime:    updated,
		StartTime:      start,
		StopTime:       stop,
	}, nil
}

// parseBudget converte centavos para unidades maiores; zero ou vazio é ausência de orçamento
func parseBudget(field, value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}

	cents, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, domain.NewValidationError(field, "not a number: "+value)
	}

	if cents.IsNegative() {
		return decimal.NullDecimal{}, domain.NewValidationError(field, "must not be negative")
	}

	if cents.IsZero() {
		return decimal.NullDecimal{}, nil
	}

	return decimal.NewNullDecimal(cents.Div(minorUnitsPerMajor)), nil
}

func parseTimestamp(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, domain.NewValidationError(field, "invalid timestamp: "+value)
		}
	}

	t = t.UTC()
	return &t, nil
}

func parseStatus(status string) domain.CampaignStatus {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return domain.CampaignStatusUnknown
	}
	return domain.CampaignStatus(status)
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
