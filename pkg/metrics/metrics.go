package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics reúne as métricas Prometheus do serviço
type Metrics struct {
	RemoteRequests   *prometheus.CounterVec
	RemoteLatency    *prometheus.HistogramVec
	RemoteRetries    *prometheus.CounterVec
	ThrottledCalls   *prometheus.CounterVec
	SyncRuns         *prometheus.CounterVec
	SyncDuration     *prometheus.HistogramVec
	SyncedCampaigns  prometheus.Counter
	CredentialClears prometheus.Counter
	AggregateRuns    *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// NewMetrics cria e registra as métricas no registry informado
func NewMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		RemoteRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meta_requests_total",
				Help:      "Total de chamadas à Graph API por endpoint e resultado",
			},
			[]string{"endpoint", "outcome"},
		),
		RemoteLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "meta_request_duration_seconds",
				Help:      "Latência das chamadas à Graph API",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		RemoteRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meta_retries_total",
				Help:      "Retentativas por erro de rede ou timeout",
			},
			[]string{"endpoint"},
		),
		ThrottledCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "meta_throttled_total",
				Help:      "Chamadas bloqueadas localmente por rate limit da Meta",
			},
			[]string{"endpoint"},
		),
		SyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_runs_total",
				Help:      "Sincronizações de conta por estado final e tipo de erro",
			},
			[]string{"state", "kind"},
		),
		SyncDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_duration_seconds",
				Help:      "Duração da sincronização de uma conta",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"state"},
		),
		SyncedCampaigns: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "synced_campaigns_total",
				Help:      "Campanhas gravadas por sincronizações concluídas",
			},
		),
		CredentialClears: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "credential_clears_total",
				Help:      "Tokens da Meta removidos após código 190",
			},
		),
		AggregateRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "aggregate_accounts_total",
				Help:      "Contas processadas pela agregação por resultado",
			},
			[]string{"outcome"},
		),
	}
}

// Default devolve a instância registrada no registry global
func Default(namespace string) *Metrics {
	once.Do(func() {
		defaultMetrics = NewMetrics(namespace, prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewNop devolve métricas registradas em um registry isolado, útil em testes
func NewNop() *Metrics {
	return NewMetrics("test", prometheus.NewRegistry())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
