package domain

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	ActionTypePurchase             = "purchase"
	ActionTypeCompleteRegistration = "complete_registration"
	ActionTypeLead                 = "lead"
	ActionTypeSubmitApplication    = "submit_application"
)

// ConversionActionTypes são as categorias de ação contadas como conversão
var ConversionActionTypes = map[string]struct{}{
	ActionTypePurchase:             {},
	ActionTypeCompleteRegistration: {},
	ActionTypeLead:                 {},
	ActionTypeSubmitApplication:    {},
}

// ActionValue é um par {action_type, value} como a Meta devolve em actions e action_values
type ActionValue struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// ActionTally é efêmero, nunca persistido
type ActionTally struct {
	Conversions int64
	Revenue     decimal.Decimal
}

// ClassifyActions reduz as listas de ações em conversões e receita.
// Só purchase contribui para a receita; tipos desconhecidos são ignorados.
func ClassifyActions(actions, actionValues []ActionValue) ActionTally {
	conversions := decimal.Zero
	for _, action := range actions {
		if _, ok := ConversionActionTypes[action.ActionType]; !ok {
			continue
		}
		conversions = conversions.Add(parseActionValue(action))
	}

	revenue := decimal.Zero
	for _, value := range actionValues {
		if value.ActionType != ActionTypePurchase {
			continue
		}
		revenue = revenue.Add(parseActionValue(value))
	}

	return ActionTally{
		Conversions: conversions.IntPart(),
		Revenue:     revenue,
	}
}

func parseActionValue(action ActionValue) decimal.Decimal {
	if action.Value == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(action.Value)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"action_type": action.ActionType,
			"value":       action.Value,
		}).Debug("Valor de ação inválido, considerando zero")
		return decimal.Zero
	}

	if value.IsNegative() {
		return decimal.Zero
	}

	return value
}
