package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignStatusActive  CampaignStatus = "ACTIVE"
	CampaignStatusPaused  CampaignStatus = "PAUSED"
	CampaignStatusUnknown CampaignStatus = "UNKNOWN"
)

const (
	UnknownObjective    = "UNKNOWN"
	UnnamedCampaignName = "Unnamed Campaign"
)

// RemoteCampaign é a campanha devolvida pela Meta, já convertida para unidades internas.
// Orçamentos estão em unidades maiores da moeda e são mutuamente exclusivos.
type RemoteCampaign struct {
	ExternalID     string
	Name           string
	Objective      string
	Status         CampaignStatus
	DailyBudget    decimal.NullDecimal
	LifetimeBudget decimal.NullDecimal
	CreatedTime    *time.Time
	UpdatedTime    *time.Time
	StartTime      *time.Time
	StopTime       *time.Time
}

// Campaign é a linha persistida, sempre pertencente a exatamente uma AdAccount
type Campaign struct {
	ID             string              `json:"id"`
	ExternalID     string              `json:"external_id"`
	AccountID      string              `json:"account_id"`
	UserID         string              `json:"user_id"`
	Name           string              `json:"name"`
	Objective      string              `json:"objective"`
	Status         CampaignStatus      `json:"status"`
	DailyBudget    decimal.NullDecimal `json:"daily_budget"`
	LifetimeBudget decimal.NullDecimal `json:"lifetime_budget"`
	CreatedTime    *time.Time          `json:"created_time"`
	UpdatedTime    *time.Time          `json:"updated_time"`
	StartTime      *time.Time          `json:"start_time"`
	StopTime       *time.Time          `json:"stop_time"`
	SyncedAt       time.Time           `json:"synced_at"`
}

// NewCampaign monta a linha persistida a partir da campanha remota
func NewCampaign(account *AdAccount, remote *RemoteCampaign, syncedAt time.Time) *Campaign {
	return &Campaign{
		ExternalID:     remote.ExternalID,
		AccountID:      account.ID,
		UserID:         account.UserID,
		Name:           remote.Name,
		Objective:      remote.Objective,
		Status:         remote.Status,
		DailyBudget:    remote.DailyBudget,
		LifetimeBudget: remote.LifetimeBudget,
		CreatedTime:    remote.CreatedTime,
		UpdatedTime:    remote.UpdatedTime,
		StartTime:      remote.StartTime,
		StopTime:       remote.StopTime,
		SyncedAt:       syncedAt,
	}
}
