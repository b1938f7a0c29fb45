package insighting

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/account"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
)

type Service struct {
	resolver    account.Resolver
	credentials credential.Store
	metaService meta.Integrator
	insightRepo repository.InsightRepository
	metrics     *metrics.Metrics
	cfg         config.Sync
}

func NewService(
	resolver account.Resolver,
	credentials credential.Store,
	metaService meta.Integrator,
	insightRepo repository.InsightRepository,
	m *metrics.Metrics,
	cfg config.Sync,
) *Service {
	return &Service{
		resolver:    resolver,
		credentials: credentials,
		metaService: metaService,
		insightRepo: insightRepo,
		metrics:     m,
		cfg:         cfg,
	}
}

// series acumula contadores brutos por data. A soma é comutativa, então a ordem das contas não importa.
type series struct {
	mu     sync.Mutex
	byDate map[string]domain.RawCounters
}

func newSeries() *series {
	return &series{byDate: make(map[string]domain.RawCounters)}
}

func (s *series) add(date string, counters domain.RawCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byDate[date] = s.byDate[date].Add(counters)
}

// points devolve a série em ordem cronológica e o total de todos os pontos
func (s *series) points() ([]domain.SeriesPoint, domain.SeriesPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := make([]string, 0, len(s.byDate))
	for date := range s.byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var total domain.RawCounters
	points := make([]domain.SeriesPoint, 0, len(dates))
	for _, date := range dates {
		counters := s.byDate[date]
		total = total.Add(counters)
		points = append(points, domain.NewSeriesPoint(date, counters))
	}

	return points, domain.NewSeriesPoint("", total)
}

// Aggregate processa cada conta de forma independente. Contas com falha são registradas
// em Failures e não entram na série. Ids repetidos, com ou sem o prefixo act_, contam uma vez.
func (s *Service) Aggregate(ctx context.Context, userID string, externalAccountIDs []string, query domain.InsightQuery) (*domain.AggregateResult, error) {
	if len(externalAccountIDs) == 0 {
		return nil, domain.NewValidationError("account_ids", "at least one account id is required")
	}

	query.Level = domain.InsightLevelAccount
	query.Segment = ""
	if query.Breakdown == "" {
		query.Breakdown = domain.BreakdownDay
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}

	acc := newSeries()

	run := s.forEachAccount(ctx, "aggregate", userID, externalAccountIDs,
		func(ctx context.Context, adAccount *domain.AdAccount, token string) (func(), error) {
			rows, err := s.metaService.FetchInsights(ctx, domain.ToExternalAccountID(adAccount.ExternalID), query, token)
			if err != nil {
				return nil, err
			}

			return func() {
				for _, row := range rows {
					acc.add(row.DateStart.Format(time.DateOnly), row.Counters)
				}
			}, nil
		})

	points, totals := acc.points()

	result := &domain.AggregateResult{
		Series:            points,
		Totals:            totals,
		AccountsRequested: run.requested,
		AccountsProcessed: run.processed,
		Failures:          run.failures,
		DatePreset:        query.Preset,
		Breakdown:         query.Breakdown,
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"accounts_requested": result.AccountsRequested,
		"accounts_processed": result.AccountsProcessed,
		"points":             len(points),
	}).Info("aggregate: série calculada")

	return result, nil
}

func (s *Service) StoredSeries(ctx context.Context, userID, externalAccountID string, since, until time.Time) ([]domain.SeriesPoint, error) {
	if since.IsZero() || until.IsZero() {
		return nil, domain.NewValidationError("time_range", "since and until are required")
	}
	if until.Before(since) {
		return nil, domain.NewValidationError("time_range", "until must not be before since")
	}

	adAccount, err := s.resolver.Resolve(ctx, userID, externalAccountID)
	if err != nil {
		return nil, err
	}

	records, err := s.insightRepo.GetByDateRange(ctx, adAccount.ID, since, until)
	if err != nil {
		return nil, err
	}

	acc := newSeries()
	for _, record := range records {
		acc.add(record.DateStart.Format(time.DateOnly), record.Counters)
	}

	points, _ := acc.points()
	return points, nil
}
