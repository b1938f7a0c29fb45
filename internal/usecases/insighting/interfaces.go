package insighting

import (
	"context"
	"time"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// Aggregator combina os insights de várias contas em uma única série
type Aggregator interface {
	// Aggregate busca insights por conta na Meta e soma os contadores por data
	Aggregate(ctx context.Context, userID string, externalAccountIDs []string, query domain.InsightQuery) (*domain.AggregateResult, error)

	// TopCampaigns ranqueia as campanhas das contas por uma métrica
	TopCampaigns(ctx context.Context, userID string, externalAccountIDs []string, sortBy domain.CampaignSortKey, limit int, query domain.InsightQuery) (*domain.TopCampaignsResult, error)

	// Breakdowns distribui uma métrica por idade, gênero, dispositivo e posicionamento
	Breakdowns(ctx context.Context, userID string, externalAccountIDs []string, metric domain.BreakdownMetric, query domain.InsightQuery) (*domain.MetricBreakdowns, error)

	// StoredSeries lê os insights por campanha já gravados e devolve a série diária da conta
	StoredSeries(ctx context.Context, userID, externalAccountID string, since, until time.Time) ([]domain.SeriesPoint, error)
}
