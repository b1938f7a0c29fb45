package domain

import (
	"regexp"
	"strings"
)

// AccountIDPrefix é o prefixo literal que a Meta usa nos IDs de conta de anúncio
const AccountIDPrefix = "act_"

var digitsOnly = regexp.MustCompile(`^\d+$`)

// NormalizeAccountID converte o ID externo (act_123) para o formato de armazenamento (123)
func NormalizeAccountID(externalID string) (string, error) {
	storageID := strings.TrimPrefix(strings.TrimSpace(externalID), AccountIDPrefix)
	if !IsValidAccountID(storageID) {
		return "", NewValidationError("account_id", "must contain only digits after the act_ prefix")
	}
	return storageID, nil
}

// ToExternalAccountID adiciona o prefixo act_ quando ausente
func ToExternalAccountID(storageID string) string {
	if strings.HasPrefix(storageID, AccountIDPrefix) {
		return storageID
	}
	return AccountIDPrefix + storageID
}

func IsValidAccountID(s string) bool {
	return digitsOnly.MatchString(s)
}

func IsValidCampaignID(s string) bool {
	return digitsOnly.MatchString(s)
}
