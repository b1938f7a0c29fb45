package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestMetaIntegrator_ListCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(mockClient)

	t.Run("descarta campanhas inválidas e reporta o erro", func(t *testing.T) {
		mockClient.EXPECT().
			GetCampaignsByAccountID(gomock.Any(), "123", "token").
			Return([]metadomain.Campaign{
				{ID: "1", Name: "Válida", DailyBudget: "2500"},
				{ID: "2", DailyBudget: "100", LifetimeBudget: "200"},
			}, nil)

		campaigns, itemErrors, err := integrator.ListCampaigns(context.Background(), "act_123", "token")
		require.NoError(t, err)
		require.Len(t, campaigns, 1)
		assert.Equal(t, "25", campaigns[0].DailyBudget.Decimal.String())
		require.Len(t, itemErrors, 1)
		assert.Contains(t, itemErrors[0].Error(), `campaign "2"`)
	})

	t.Run("id de conta inválido não chama a Meta", func(t *testing.T) {
		_, _, err := integrator.ListCampaigns(context.Background(), "act_abc", "token")

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("propaga erro de autenticação", func(t *testing.T) {
		mockClient.EXPECT().
			GetCampaignsByAccountID(gomock.Any(), "123", "token").
			Return(nil, &domain.AuthError{Code: 190})

		_, _, err := integrator.ListCampaigns(context.Background(), "123", "token")
		assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	})
}

func TestMetaIntegrator_FetchInsights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(mockClient)

	t.Run("consulta inválida não chama a Meta", func(t *testing.T) {
		_, err := integrator.FetchInsights(context.Background(), "act_1", domain.InsightQuery{}, "token")

		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("ignora linhas inválidas", func(t *testing.T) {
		query := domain.InsightQuery{Preset: domain.PresetLast7d}

		mockClient.EXPECT().
			GetInsights(gomock.Any(), "act_1", query, "token").
			Return([]metadomain.Insight{
				{DateStart: "2024-03-01", Impressions: "100", Spend: "10.5"},
				{DateStart: "invalid"},
			}, nil)

		insights, err := integrator.FetchInsights(context.Background(), "act_1", query, "token")
		require.NoError(t, err)
		require.Len(t, insights, 1)
		assert.Equal(t, int64(100), insights[0].Counters.Impressions)
	})
}

func TestMetaIntegrator_ListAdAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mocks.NewMockClient(ctrl)
	integrator := New(mockClient)

	mockClient.EXPECT().
		GetAdAccounts(gomock.Any(), "token").
		Return([]metadomain.AdAccount{
			{ID: "act_10", Name: "Loja", Currency: "brl", AccountStatus: 1},
			{ID: "act_20", AccountStatus: 2},
			{ID: "broken"},
		}, nil)

	accounts, err := integrator.ListAdAccounts(context.Background(), "token")
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "10", accounts[0].ExternalID)
	assert.Equal(t, "BRL", accounts[0].Currency)
	assert.Equal(t, domain.AdAccountStatusActive, accounts[0].Status)

	assert.Equal(t, "act_20", accounts[1].Name)
	assert.Equal(t, domain.DefaultCurrency, accounts[1].Currency)
	assert.Equal(t, domain.AdAccountStatusInactive, accounts[1].Status)
}
