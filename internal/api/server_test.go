package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/meta-ads-sync-api/internal/api/handler"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	accountmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/account/mocks"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/authenticating"
	credentialmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential/mocks"
	insightmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/insighting/mocks"
	syncmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/syncing/mocks"
	"github.com/vfg2006/meta-ads-sync-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fakeCronJob struct {
	triggered int
	busy      bool
}

func (f *fakeCronJob) TriggerManualSync(context.Context) bool {
	if f.busy {
		return false
	}
	f.triggered++
	return true
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"triggered": f.triggered}
}

type testServer struct {
	handler     http.Handler
	auth        *authenticating.Service
	credentials *credentialmocks.MockStore
	accounts    *accountmocks.MockAccountService
	sync        *syncmocks.MockSyncService
	insights    *insightmocks.MockAggregator
	cron        *fakeCronJob
}

func newTestServer(t *testing.T) *testServer {
	ctrl := gomock.NewController(t)

	ts := &testServer{
		auth:        authenticating.NewService(config.Auth{Secret: "segredo"}),
		credentials: credentialmocks.NewMockStore(ctrl),
		accounts:    accountmocks.NewMockAccountService(ctrl),
		sync:        syncmocks.NewMockSyncService(ctrl),
		insights:    insightmocks.NewMockAggregator(ctrl),
		cron:        &fakeCronJob{},
	}

	cfg := &config.Config{Server: config.Server{AllowedOrigins: []string{"http://localhost:3000"}}}

	ts.handler = NewHandler(cfg, Services{
		Authenticator: ts.auth,
		Credentials:   ts.credentials,
		Accounts:      ts.accounts,
		Sync:          ts.sync,
		Insights:      ts.insights,
		CronJobs:      map[string]handler.CronJob{handler.CronJobTypeCampaigns: ts.cron},
	})

	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "-" {
		token, err := ts.auth.GenerateToken("user-1", role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestServer_PublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthcheck", "", "-")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	rec = ts.do(t, http.MethodGet, "/v1/me/accounts", "", "-")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidToken, decodeError(t, rec).Code)

	rec = ts.do(t, http.MethodGet, "/v1/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrRouteNotFound, decodeError(t, rec).Code)
}

func TestServer_Cors(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/me/accounts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/me/accounts", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_SyncAccount(t *testing.T) {
	tests := []struct {
		name       string
		outcome    *domain.SyncOutcome
		wantStatus int
		wantCode   string
	}{
		{
			name: "sucesso",
			outcome: &domain.SyncOutcome{
				State:       domain.SyncStateDone,
				Campaigns:   []*domain.Campaign{{ID: "c-1", ExternalID: "111"}},
				SyncedCount: 1,
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "token rejeitado pede reconexão",
			outcome:    &domain.SyncOutcome{State: domain.SyncStateError, Err: &domain.AuthError{Code: 190}, ReconnectRequired: true},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrMetaReconnectRequired,
		},
		{
			name:       "conta de outro usuário",
			outcome:    &domain.SyncOutcome{State: domain.SyncStateError, Err: domain.ErrAccountNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrAccountNotFound,
		},
		{
			name:       "sincronização em andamento",
			outcome:    &domain.SyncOutcome{State: domain.SyncStateError, Err: domain.ErrSyncInProgress},
			wantStatus: http.StatusConflict,
			wantCode:   apiErrors.ErrSyncInProgress,
		},
		{
			name:       "falha de rede",
			outcome:    &domain.SyncOutcome{State: domain.SyncStateError, Err: &domain.NetworkError{Op: "GET"}},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   apiErrors.ErrCommunication,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.sync.EXPECT().Sync(gomock.Any(), "user-1", "act_123").Return(tt.outcome)

			rec := ts.do(t, http.MethodPost, "/v1/accounts/act_123/sync", "", "")
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.EqualValues(t, 1, body["synced_count"])
			assert.Len(t, body["campaigns"], 1)
			assert.NotContains(t, body, "errors")
		})
	}
}

func TestServer_SyncMany(t *testing.T) {
	ts := newTestServer(t)

	ts.sync.EXPECT().SyncMany(gomock.Any(), "user-1", []string{"act_1", "act_2"}).Return([]*domain.SyncOutcome{
		{AccountID: "act_1", State: domain.SyncStateDone, SyncedCount: 3},
		{AccountID: "act_2", State: domain.SyncStateError, ReconnectRequired: true},
	})

	rec := ts.do(t, http.MethodPost, "/v1/sync/accounts", `{"account_ids":["act_1","act_2"]}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []domain.SyncOutcome `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results[1].ReconnectRequired)

	rec = ts.do(t, http.MethodPost, "/v1/sync/accounts", `{"account_ids":[]}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Aggregate(t *testing.T) {
	ts := newTestServer(t)

	ts.insights.EXPECT().
		Aggregate(gomock.Any(), "user-1", []string{"act_1"}, domain.InsightQuery{Preset: domain.PresetLast7d, Breakdown: domain.BreakdownWeek}).
		Return(&domain.AggregateResult{AccountsRequested: 1, AccountsProcessed: 1, Series: []domain.SeriesPoint{}}, nil)

	rec := ts.do(t, http.MethodPost, "/v1/insights/aggregate", `{"account_ids":["act_1"],"date_preset":"last_7d","breakdown":"week"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accounts_processed":1`)

	rec = ts.do(t, http.MethodPost, "/v1/insights/aggregate", `{"account_ids":["act_1"],"date_preset":"last_7d","since":"2024-03-01","until":"2024-03-02"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidRequest, decodeError(t, rec).Code)
}

func TestServer_TopCampaigns(t *testing.T) {
	ts := newTestServer(t)

	ts.insights.EXPECT().
		TopCampaigns(gomock.Any(), "user-1", []string{"act_1", "act_2"}, domain.SortByROAS, 5, domain.InsightQuery{Preset: domain.PresetLast30d}).
		Return(&domain.TopCampaignsResult{
			Campaigns: []domain.CampaignPerformance{{AccountID: "act_1", CampaignID: "10", Name: "Black Friday"}},
			SortBy:    domain.SortByROAS,
			Limit:     5,
		}, nil)

	rec := ts.do(t, http.MethodPost, "/v1/insights/top-campaigns", `{"account_ids":["act_1","act_2"],"sort_by":"roas","limit":5}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"campaign_id":"10"`)
	assert.Contains(t, rec.Body.String(), `"sort_by":"roas"`)

	ts.insights.EXPECT().
		TopCampaigns(gomock.Any(), "user-1", []string{"act_1"}, domain.CampaignSortKey("frequency"), 0, gomock.Any()).
		Return(nil, domain.NewValidationError("sort_by", "unknown sort key frequency"))

	rec = ts.do(t, http.MethodPost, "/v1/insights/top-campaigns", `{"account_ids":["act_1"],"sort_by":"frequency","date_preset":"last_7d"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Breakdowns(t *testing.T) {
	ts := newTestServer(t)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	query := domain.InsightQuery{Range: &domain.DateRange{Since: since, Until: until}}

	ts.insights.EXPECT().
		Breakdowns(gomock.Any(), "user-1", []string{"act_1"}, domain.MetricSpend, query).
		Return(&domain.MetricBreakdowns{
			Device: []domain.BreakdownShare{{Key: "mobile", Value: 10, Percentage: 100}},
			Metric: domain.MetricSpend,
		}, nil)

	rec := ts.do(t, http.MethodPost, "/v1/insights/breakdowns", `{"account_ids":["act_1"],"metric":"spend","since":"2024-03-01","until":"2024-03-07"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"key":"mobile"`)
	assert.Contains(t, rec.Body.String(), `"percentage":100`)

	rec = ts.do(t, http.MethodPost, "/v1/insights/breakdowns", `{"account_ids":["act_1"],"since":"2024-03-01"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_StoredInsights(t *testing.T) {
	ts := newTestServer(t)

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	ts.insights.EXPECT().StoredSeries(gomock.Any(), "user-1", "123", since, until).
		Return([]domain.SeriesPoint{{Date: "2024-03-01", Impressions: 10}}, nil)

	rec := ts.do(t, http.MethodGet, "/v1/accounts/123/insights?since=2024-03-01&until=2024-03-07", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"impressions":10`)

	rec = ts.do(t, http.MethodGet, "/v1/accounts/123/insights?since=01/03/2024&until=2024-03-07", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SetMetaToken(t *testing.T) {
	ts := newTestServer(t)

	ts.credentials.EXPECT().Set(gomock.Any(), "user-1", "EAAB").Return(nil)
	rec := ts.do(t, http.MethodPut, "/v1/me/meta/token", `{"access_token":"EAAB"}`, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ts.credentials.EXPECT().Set(gomock.Any(), "user-1", "").Return(domain.NewValidationError("access_token", "must not be empty"))
	rec = ts.do(t, http.MethodPut, "/v1/me/meta/token", `{"access_token":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/v1/me/meta/token", `not json`, "")
	assert.Equal(t, apiErrors.ErrInvalidFormat, decodeError(t, rec).Code)
}

func TestServer_CronJobs(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/v1/cron/campaigns/run", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/v1/cron/campaigns/run", "", domain.UserRoleAdmin)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, ts.cron.triggered)

	ts.cron.busy = true
	rec = ts.do(t, http.MethodPost, "/v1/cron/campaigns/run", "", domain.UserRoleAdmin)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/v1/cron/unknown/run", "", domain.UserRoleAdmin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/v1/cron/status", "", domain.UserRoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"campaigns"`)
}
