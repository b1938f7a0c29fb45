package insighting

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metamocks "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/mocks"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	accountmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/account/mocks"
	credentialmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential/mocks"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	day1 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
)

func row(date time.Time, impressions, clicks int64, spend, revenue int64) *domain.RemoteInsight {
	return &domain.RemoteInsight{
		DateStart: date,
		DateStop:  date,
		Counters: domain.RawCounters{
			Impressions: impressions,
			Clicks:      clicks,
			Spend:       decimal.NewFromInt(spend),
			Revenue:     decimal.NewFromInt(revenue),
		},
	}
}

func TestService_Aggregate(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockResolver := accountmocks.NewMockResolver(ctrl)
	mockCredentials := credentialmocks.NewMockStore(ctrl)
	mockMeta := metamocks.NewMockIntegrator(ctrl)

	service := NewService(mockResolver, mockCredentials, mockMeta, mocks.NewMockInsightRepository(ctrl), metrics.NewNop(),
		config.Sync{MaxConcurrentAccounts: 2, AccountTimeout: time.Second})

	ctx := context.Background()
	query := domain.InsightQuery{Preset: domain.PresetLast7d}

	mockCredentials.EXPECT().Get(gomock.Any(), "user-1").Return("token", nil).Times(1)
	for _, id := range []string{"111", "222", "333"} {
		mockResolver.EXPECT().Resolve(gomock.Any(), "user-1", "act_"+id).
			Return(&domain.AdAccount{ID: "acc-" + id, ExternalID: id, UserID: "user-1"}, nil)
	}

	mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_111", gomock.Any(), "token").
		DoAndReturn(func(_ context.Context, _ string, q domain.InsightQuery, _ string) ([]*domain.RemoteInsight, error) {
			assert.Equal(t, domain.InsightLevelAccount, q.Level)
			return []*domain.RemoteInsight{row(day2, 0, 0, 0, 0), row(day1, 100, 10, 5, 10)}, nil
		})
	mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_222", gomock.Any(), "token").
		Return([]*domain.RemoteInsight{row(day1, 900, 10, 15, 0)}, nil)
	mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_333", gomock.Any(), "token").
		Return(nil, &domain.AuthError{Code: 190})
	mockCredentials.EXPECT().Clear(gomock.Any(), "user-1").Return(nil)

	result, err := service.Aggregate(ctx, "user-1", []string{"act_111", "act_222", "act_333"}, query)
	require.NoError(t, err)

	assert.Equal(t, 3, result.AccountsRequested)
	assert.Equal(t, 2, result.AccountsProcessed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "act_333", result.Failures[0].AccountID)
	assert.True(t, result.Failures[0].ReconnectRequired)

	require.Len(t, result.Series, 2)
	first := result.Series[0]
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, int64(1000), first.Impressions)
	assert.Equal(t, int64(20), first.Clicks)
	// derivadas calculadas sobre a soma e não pela média das contas
	assert.Equal(t, 2.0, first.CTR)
	assert.Equal(t, 1.0, first.CPC)
	assert.Equal(t, 20.0, first.CPM)
	assert.Equal(t, 0.5, first.ROAS)

	second := result.Series[1]
	assert.Equal(t, "2024-03-02", second.Date)
	assert.Zero(t, second.CTR)
	assert.Zero(t, second.CPC)
	assert.Zero(t, second.CPM)
	assert.Zero(t, second.ROAS)

	assert.Equal(t, int64(1000), result.Totals.Impressions)
	assert.Equal(t, 20.0, result.Totals.Spend)
	assert.Equal(t, domain.BreakdownDay, result.Breakdown)
}

func TestService_AggregateOrderIndependent(t *testing.T) {
	run := func(ids []string) *domain.AggregateResult {
		ctrl := gomock.NewController(t)
		mockResolver := accountmocks.NewMockResolver(ctrl)
		mockCredentials := credentialmocks.NewMockStore(ctrl)
		mockMeta := metamocks.NewMockIntegrator(ctrl)

		mockCredentials.EXPECT().Get(gomock.Any(), "user-1").Return("token", nil).AnyTimes()
		mockResolver.EXPECT().Resolve(gomock.Any(), "user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, id string) (*domain.AdAccount, error) {
				return &domain.AdAccount{ID: "acc-" + id, ExternalID: id}, nil
			}).AnyTimes()
		mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_1", gomock.Any(), "token").
			Return([]*domain.RemoteInsight{row(day1, 333, 7, 3, 1)}, nil)
		mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_2", gomock.Any(), "token").
			Return([]*domain.RemoteInsight{row(day1, 667, 13, 7, 9)}, nil)

		service := NewService(mockResolver, mockCredentials, mockMeta, nil, metrics.NewNop(),
			config.Sync{MaxConcurrentAccounts: 2, AccountTimeout: time.Second})

		result, err := service.Aggregate(context.Background(), "user-1", ids, domain.InsightQuery{Preset: domain.PresetToday})
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, run([]string{"1", "2"}).Series, run([]string{"2", "1"}).Series)
}

func TestService_AggregateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(accountmocks.NewMockResolver(ctrl), credentialmocks.NewMockStore(ctrl), metamocks.NewMockIntegrator(ctrl),
		nil, metrics.NewNop(), config.Sync{MaxConcurrentAccounts: 1})

	now := time.Now()

	tests := []struct {
		name  string
		ids   []string
		query domain.InsightQuery
	}{
		{name: "sem contas", query: domain.InsightQuery{Preset: domain.PresetToday}},
		{name: "preset e range juntos", ids: []string{"1"}, query: domain.InsightQuery{Preset: domain.PresetToday, Range: &domain.DateRange{Since: now, Until: now}}},
		{name: "breakdown desconhecido", ids: []string{"1"}, query: domain.InsightQuery{Preset: domain.PresetToday, Breakdown: "hour"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Aggregate(context.Background(), "user-1", tt.ids, tt.query)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestService_AggregateInvalidIDIsAccountFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewService(accountmocks.NewMockResolver(ctrl), credentialmocks.NewMockStore(ctrl), metamocks.NewMockIntegrator(ctrl),
		nil, metrics.NewNop(), config.Sync{MaxConcurrentAccounts: 1})

	result, err := service.Aggregate(context.Background(), "user-1", []string{"act_x"}, domain.InsightQuery{Preset: domain.PresetToday})
	require.NoError(t, err)
	assert.Zero(t, result.AccountsProcessed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, domain.KindValidation, result.Failures[0].Kind)
	assert.Empty(t, result.Series)
}

// memoryStore guarda tokens em memória e reflete o Clear nas leituras seguintes
type memoryStore struct {
	mu     sync.Mutex
	tokens map[string]string
	clears int
}

func (s *memoryStore) Get(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[userID]
	if !ok {
		return "", domain.ErrCredentialNotFound
	}
	return token, nil
}

func (s *memoryStore) Set(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[userID] = token
	return nil
}

func (s *memoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, userID)
	s.clears++
	return nil
}

func resolveAny(ctrl *gomock.Controller) *accountmocks.MockResolver {
	resolver := accountmocks.NewMockResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, id string) (*domain.AdAccount, error) {
			storageID, err := domain.NormalizeAccountID(id)
			if err != nil {
				return nil, err
			}
			return &domain.AdAccount{ID: "acc-" + storageID, ExternalID: storageID, Name: "Conta " + storageID}, nil
		}).AnyTimes()
	return resolver
}

func TestService_AggregateAuthErrorDoesNotAffectSiblings(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockMeta := metamocks.NewMockIntegrator(ctrl)
	store := &memoryStore{tokens: map[string]string{"user-1": "token"}}

	service := NewService(resolveAny(ctrl), store, mockMeta, nil, metrics.NewNop(),
		config.Sync{MaxConcurrentAccounts: 1, AccountTimeout: time.Second})

	gomock.InOrder(
		mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_1", gomock.Any(), "token").
			Return([]*domain.RemoteInsight{row(day1, 100, 1, 1, 1)}, nil),
		mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_2", gomock.Any(), "token").
			Return(nil, &domain.AuthError{Code: 190}),
		mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_3", gomock.Any(), "token").
			Return([]*domain.RemoteInsight{row(day1, 200, 2, 2, 2)}, nil),
	)

	result, err := service.Aggregate(context.Background(), "user-1", []string{"act_1", "act_2", "act_3"},
		domain.InsightQuery{Preset: domain.PresetToday})
	require.NoError(t, err)

	assert.Equal(t, 3, result.AccountsRequested)
	assert.Equal(t, 2, result.AccountsProcessed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "act_2", result.Failures[0].AccountID)
	assert.True(t, result.Failures[0].ReconnectRequired)
	assert.Equal(t, int64(300), result.Totals.Impressions)

	// o token rejeitado foi removido para as próximas requisições
	assert.Equal(t, 1, store.clears)
	_, err = store.Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestService_AggregateDeduplicatesIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCredentials := credentialmocks.NewMockStore(ctrl)
	mockMeta := metamocks.NewMockIntegrator(ctrl)

	service := NewService(resolveAny(ctrl), mockCredentials, mockMeta, nil, metrics.NewNop(),
		config.Sync{MaxConcurrentAccounts: 2, AccountTimeout: time.Second})

	mockCredentials.EXPECT().Get(gomock.Any(), "user-1").Return("token", nil).Times(1)
	mockMeta.EXPECT().FetchInsights(gomock.Any(), "act_1", gomock.Any(), "token").
		Return([]*domain.RemoteInsight{row(day1, 100, 10, 5, 10)}, nil).Times(1)

	result, err := service.Aggregate(context.Background(), "user-1", []string{"act_1", "1", " act_1"},
		domain.InsightQuery{Preset: domain.PresetToday})
	require.NoError(t, err)

	assert.Equal(t, 1, result.AccountsRequested)
	assert.Equal(t, 1, result.AccountsProcessed)
	assert.Equal(t, int64(100), result.Totals.Impressions)
}

func TestService_AggregateWithoutCredential(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := accountmocks.NewMockResolver(ctrl)
	store := &memoryStore{tokens: map[string]string{}}

	service := NewService(resolver, store, metamocks.NewMockIntegrator(ctrl), nil, metrics.NewNop(),
		config.Sync{MaxConcurrentAccounts: 2, AccountTimeout: time.Second})

	resolver.EXPECT().Resolve(gomock.Any(), "user-1", "act_1").
		Return(&domain.AdAccount{ID: "acc-1", ExternalID: "1"}, nil)
	resolver.EXPECT().Resolve(gomock.Any(), "user-1", "act_9").
		Return(nil, domain.ErrAccountNotFound)

	result, err := service.Aggregate(context.Background(), "user-1", []string{"act_1", "act_9"},
		domain.InsightQuery{Preset: domain.PresetToday})
	require.NoError(t, err)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, "act_1", result.Failures[0].AccountID)
	assert.True(t, result.Failures[0].ReconnectRequired)
	// conta de outro usuário aparece como não encontrada, não como falta de credencial
	assert.Equal(t, "act_9", result.Failures[1].AccountID)
	assert.False(t, result.Failures[1].ReconnectRequired)
	assert.Zero(t, store.clears)
}

func TestService_StoredSeries(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockResolver := accountmocks.NewMockResolver(ctrl)
	mockInsightRepo := mocks.NewMockInsightRepository(ctrl)

	service := NewService(mockResolver, credentialmocks.NewMockStore(ctrl), metamocks.NewMockIntegrator(ctrl),
		mockInsightRepo, metrics.NewNop(), config.Sync{})

	mockResolver.EXPECT().Resolve(gomock.Any(), "user-1", "123").
		Return(&domain.AdAccount{ID: "acc-1", ExternalID: "123"}, nil)
	mockInsightRepo.EXPECT().GetByDateRange(gomock.Any(), "acc-1", day1, day2).
		Return([]*domain.InsightRecord{
			{CampaignExternalID: "1", DateStart: day2, Counters: domain.RawCounters{Impressions: 50, Clicks: 5}},
			{CampaignExternalID: "1", DateStart: day1, Counters: domain.RawCounters{Impressions: 10, Clicks: 1}},
			{CampaignExternalID: "2", DateStart: day1, Counters: domain.RawCounters{Impressions: 40, Clicks: 1}},
		}, nil)

	points, err := service.StoredSeries(context.Background(), "user-1", "123", day1, day2)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-03-01", points[0].Date)
	assert.Equal(t, int64(50), points[0].Impressions)
	assert.Equal(t, 4.0, points[0].CTR)
	assert.Equal(t, 10.0, points[1].CTR)

	_, err = service.StoredSeries(context.Background(), "user-1", "123", day2, day1)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
