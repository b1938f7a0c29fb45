package insighting

import (
	"context"
	"sync"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

var breakdownSegments = []domain.InsightSegment{
	domain.SegmentAgeGender,
	domain.SegmentDevice,
	domain.SegmentPlacement,
}

// segmentTotals acumula contadores por fatia de cada dimensão
type segmentTotals struct {
	mu        sync.Mutex
	age       map[string]domain.RawCounters
	gender    map[string]domain.RawCounters
	device    map[string]domain.RawCounters
	placement map[string]domain.RawCounters
}

func newSegmentTotals() *segmentTotals {
	return &segmentTotals{
		age:       make(map[string]domain.RawCounters),
		gender:    make(map[string]domain.RawCounters),
		device:    make(map[string]domain.RawCounters),
		placement: make(map[string]domain.RawCounters),
	}
}

func addTo(m map[string]domain.RawCounters, key string, counters domain.RawCounters) {
	if key == "" {
		return
	}
	m[key] = m[key].Add(counters)
}

func (t *segmentTotals) add(segment domain.InsightSegment, rows []*domain.RemoteInsight) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range rows {
		switch segment {
		case domain.SegmentAgeGender:
			addTo(t.age, row.Segment.Age, row.Counters)
			addTo(t.gender, row.Segment.Gender, row.Counters)
		case domain.SegmentDevice:
			addTo(t.device, row.Segment.DevicePlatform, row.Counters)
		case domain.SegmentPlacement:
			addTo(t.placement, domain.PlacementName(row.Segment.PublisherPlatform, row.Segment.PlatformPosition), row.Counters)
		}
	}
}

// Breakdowns distribui a métrica pedida por idade, gênero, dispositivo e posicionamento.
// Cada conta faz uma chamada por dimensão e só entra no resultado se todas derem certo.
func (s *Service) Breakdowns(ctx context.Context, userID string, externalAccountIDs []string, metric domain.BreakdownMetric, query domain.InsightQuery) (*domain.MetricBreakdowns, error) {
	if len(externalAccountIDs) == 0 {
		return nil, domain.NewValidationError("account_ids", "at least one account id is required")
	}

	if metric == "" {
		metric = domain.MetricImpressions
	}
	if !metric.IsValid() {
		return nil, domain.NewValidationError("metric", "must be one of impressions, clicks, spend, conversions")
	}

	if query.Preset == "" && query.Range == nil {
		query.Preset = domain.PresetLast30d
	}
	query.Level = domain.InsightLevelAccount
	query.Breakdown = domain.BreakdownMonth

	if err := query.Validate(); err != nil {
		return nil, err
	}

	totals := newSegmentTotals()

	run := s.forEachAccount(ctx, "breakdowns", userID, externalAccountIDs,
		func(ctx context.Context, adAccount *domain.AdAccount, token string) (func(), error) {
			bySegment := make(map[domain.InsightSegment][]*domain.RemoteInsight, len(breakdownSegments))

			for _, segment := range breakdownSegments {
				segmentQuery := query
				segmentQuery.Segment = segment

				rows, err := s.metaService.FetchInsights(ctx, domain.ToExternalAccountID(adAccount.ExternalID), segmentQuery, token)
				if err != nil {
					return nil, err
				}
				bySegment[segment] = rows
			}

			return func() {
				for segment, rows := range bySegment {
					totals.add(segment, rows)
				}
			}, nil
		})

	result := &domain.MetricBreakdowns{
		Age:               domain.Shares(totals.age, metric),
		Gender:            domain.Shares(totals.gender, metric),
		Device:            domain.Shares(totals.device, metric),
		Placement:         domain.Shares(totals.placement, metric),
		AccountsRequested: run.requested,
		AccountsProcessed: run.processed,
		Failures:          run.failures,
		Metric:            metric,
		DatePreset:        query.Preset,
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"accounts_requested": result.AccountsRequested,
		"accounts_processed": result.AccountsProcessed,
		"metric":             metric,
	}).Info("breakdowns: distribuição calculada")

	return result, nil
}
