package metadomain

import (
	"strings"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

const AdAccountFields = "id,name,currency,account_status"

// accountStatusActive é o valor de account_status para contas ativas na Meta
const accountStatusActive = 1

type AdAccount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	AccountStatus int    `json:"account_status"`
}

func ParseAdAccount(raw AdAccount) (*domain.RemoteAdAccount, error) {
	externalID, err := domain.NormalizeAccountID(raw.ID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	status := domain.AdAccountStatusInactive
	if raw.AccountStatus == accountStatusActive {
		status = domain.AdAccountStatusActive
	}

	return &domain.RemoteAdAccount{
		ExternalID: externalID,
		Name:       withDefault(raw.Name, "act_"+externalID),
		Currency:   currency,
		Status:     status,
	}, nil
}
