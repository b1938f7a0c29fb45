package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyActions(t *testing.T) {
	tests := []struct {
		name            string
		actions         []ActionValue
		actionValues    []ActionValue
		wantConversions int64
		wantRevenue     string
	}{
		{
			name:        "listas vazias",
			wantRevenue: "0",
		},
		{
			name: "soma apenas categorias de conversão",
			actions: []ActionValue{
				{ActionType: ActionTypePurchase, Value: "2"},
				{ActionType: ActionTypeLead, Value: "3"},
				{ActionType: ActionTypeCompleteRegistration, Value: "1"},
				{ActionType: ActionTypeSubmitApplication, Value: "4"},
				{ActionType: "link_click", Value: "50"},
			},
			wantConversions: 10,
			wantRevenue:     "0",
		},
		{
			name: "receita vem somente de purchase",
			actionValues: []ActionValue{
				{ActionType: ActionTypePurchase, Value: "100.50"},
				{ActionType: ActionTypePurchase, Value: "20"},
				{ActionType: ActionTypeLead, Value: "9"},
			},
			wantRevenue: "120.5",
		},
		{
			name: "valores inválidos ou negativos contam como zero",
			actions: []ActionValue{
				{ActionType: ActionTypePurchase, Value: "abc"},
				{ActionType: ActionTypeLead, Value: "-1"},
				{ActionType: ActionTypeLead, Value: ""},
				{ActionType: ActionTypeLead, Value: "1"},
			},
			actionValues: []ActionValue{
				{ActionType: ActionTypePurchase, Value: "-30"},
			},
			wantConversions: 1,
			wantRevenue:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally := ClassifyActions(tt.actions, tt.actionValues)

			assert.Equal(t, tt.wantConversions, tally.Conversions)
			assert.True(t, decimal.RequireFromString(tt.wantRevenue).Equal(tally.Revenue), "revenue = %s", tally.Revenue)
		})
	}
}
