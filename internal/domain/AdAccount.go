package domain

import (
	"time"
)

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

// DefaultCurrency é usado quando a Meta não informa a moeda da conta
const DefaultCurrency = "USD"

// AdAccount é uma conta de anúncio da Meta registrada por um usuário.
// O par (ExternalID, UserID) é único.
type AdAccount struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	UserID     string          `json:"user_id"`
	Name       string          `json:"name"`
	Currency   string          `json:"currency"`
	Status     AdAccountStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (a *AdAccount) IsActive() bool {
	return a != nil && a.Status == AdAccountStatusActive
}

// RemoteAdAccount é a conta como devolvida por /me/adaccounts, já normalizada
type RemoteAdAccount struct {
	ExternalID string
	Name       string
	Currency   string
	Status     AdAccountStatus
}

type AdAccountResponse struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	Name       string          `json:"name"`
	Currency   string          `json:"currency"`
	Status     AdAccountStatus `json:"status"`
}

func NewAdAccountResponse(account *AdAccount) *AdAccountResponse {
	return &AdAccountResponse{
		ID:         account.ID,
		ExternalID: ToExternalAccountID(account.ExternalID),
		Name:       account.Name,
		Currency:   account.Currency,
		Status:     account.Status,
	}
}

type DiscoverAccountsResponse struct {
	Quantity int                  `json:"quantity"`
	Accounts []*AdAccountResponse `json:"accounts"`
}
