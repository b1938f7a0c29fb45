package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-sync-api/internal/api/handler/router"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/account"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/insighting"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/meta-ads-sync-api/pkg/middleware"
)

type middlewareFunc = func(http.Handler) http.Handler

var authenticated = []middlewareFunc{middleware.Authenticated()}

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: MetricsHandler(),
		},
	}
}

func Credentials(store credential.Store) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/me/meta/token",
			Method:      http.MethodPut,
			Handler:     SetMetaToken(store),
			Middlewares: authenticated,
		},
	}
}

func AdAccounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/me/accounts",
			Method:      http.MethodGet,
			Handler:     AdAccountList(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/v1/me/accounts/discover",
			Method:      http.MethodPost,
			Handler:     DiscoverAccounts(service),
			Middlewares: authenticated,
		},
	}
}

func Sync(service syncing.SyncService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/sync",
			Method:      http.MethodPost,
			Handler:     SyncAccount(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/v1/sync/accounts",
			Method:      http.MethodPost,
			Handler:     SyncAccounts(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/v1/accounts/:id/insights/sync",
			Method:      http.MethodPost,
			Handler:     SyncAccountInsights(service),
			Middlewares: authenticated,
		},
	}
}

func Insights(service insighting.Aggregator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/insights",
			Method:      http.MethodGet,
			Handler:     GetStoredInsights(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/v1/insights/aggregate",
			Method:      http.MethodPost,
			Handler:     AggregateInsights(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/v1/insights/top-campaigns",
			Method:      http.MethodPost,
			Handler:     TopCampaigns(service),
			Middlewares: authenticated,
		},
		{
			Path:        "/v1/insights/breakdowns",
			Method:      http.MethodPost,
			Handler:     MetricBreakdowns(service),
			Middlewares: authenticated,
		},
	}
}

func CronJobs(jobs map[string]CronJob) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(jobs),
			Middlewares: []middlewareFunc{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(jobs),
			Middlewares: []middlewareFunc{middleware.AdminOnly()},
		},
	}
}
