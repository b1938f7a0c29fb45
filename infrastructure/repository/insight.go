package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

const (
	insightsTable   = "campaign_insights ci"
	insightsColumns = "ci.id, ci.account_id, ci.campaign_external_id, ci.user_id, ci.date_start, ci.date_stop, " +
		"ci.impressions, ci.clicks, ci.reach, ci.spend, ci.conversions, ci.revenue, ci.updated_at"
)

// upsertBatchSize limita a quantidade de linhas por INSERT
const upsertBatchSize = 500

//go:generate mockgen -source=insight.go -destination=mocks/mock_insight.go -package=mocks

type InsightRepository interface {
	Upsert(ctx context.Context, records []*domain.InsightRecord) (int, error)
	GetByDateRange(ctx context.Context, accountID string, since, until time.Time) ([]*domain.InsightRecord, error)
}

type insightRepository struct {
	conn postgres.Conn
}

func NewInsightRepository(conn postgres.Conn) InsightRepository {
	return &insightRepository{
		conn: conn,
	}
}

// Upsert grava os insights pela chave (conta, campanha, date_start); reprocessar o mesmo
// dia substitui os contadores em vez de duplicar a linha
func (r *insightRepository) Upsert(ctx context.Context, records []*domain.InsightRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	total := 0

	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}

		query := squirrel.StatementBuilder.
			Insert("campaign_insights").
			Columns("id", "account_id", "campaign_external_id", "user_id", "date_start", "date_stop",
				"impressions", "clicks", "reach", "spend", "conversions", "revenue", "updated_at").
			PlaceholderFormat(squirrel.Dollar)

		// Linhas repetidas no mesmo INSERT violariam o ON CONFLICT; a última vence
		batch := dedupeInsights(records[start:end])
		for _, rec := range batch {
			if rec.ID == "" {
				rec.ID = uuid.NewString()
			}
			rec.UpdatedAt = now

			query = query.Values(
				rec.ID,
				rec.AccountID,
				rec.CampaignExternalID,
				rec.UserID,
				rec.DateStart.Format(time.DateOnly),
				rec.DateStop.Format(time.DateOnly),
				rec.Counters.Impressions,
				rec.Counters.Clicks,
				rec.Counters.Reach,
				rec.Counters.Spend,
				rec.Counters.Conversions,
				rec.Counters.Revenue,
				rec.UpdatedAt,
			)
		}

		query = query.Suffix(`
			ON CONFLICT (account_id, campaign_external_id, date_start) DO UPDATE SET
				date_stop = EXCLUDED.date_stop,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				reach = EXCLUDED.reach,
				spend = EXCLUDED.spend,
				conversions = EXCLUDED.conversions,
				revenue = EXCLUDED.revenue,
				updated_at = EXCLUDED.updated_at
		`)

		sqlQuery, args, err := query.ToSql()
		if err != nil {
			return total, pkgerrors.Wrap(err, "failed to build query")
		}

		if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
			return total, persistenceError("upsert insights", err)
		}

		total += len(batch)
	}

	return total, nil
}

func dedupeInsights(records []*domain.InsightRecord) []*domain.InsightRecord {
	type key struct {
		accountID  string
		campaignID string
		date       string
	}

	index := make(map[key]int, len(records))
	out := make([]*domain.InsightRecord, 0, len(records))

	for _, rec := range records {
		k := key{rec.AccountID, rec.CampaignExternalID, rec.DateStart.Format(time.DateOnly)}
		if i, ok := index[k]; ok {
			out[i] = rec
			continue
		}
		index[k] = len(out)
		out = append(out, rec)
	}

	return out
}

// GetByDateRange lê os insights persistidos da conta entre since e until, inclusive
func (r *insightRepository) GetByDateRange(ctx context.Context, accountID string, since, until time.Time) ([]*domain.InsightRecord, error) {
	query, args, err := squirrel.
		Select(insightsColumns).
		From(insightsTable).
		Where(squirrel.Eq{"ci.account_id": accountID}).
		Where(squirrel.GtOrEq{"ci.date_start": since.Format(time.DateOnly)}).
		Where(squirrel.LtOrEq{"ci.date_start": until.Format(time.DateOnly)}).
		OrderBy("ci.date_start ASC", "ci.campaign_external_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list insights", err)
	}
	defer rows.Close()

	records := make([]*domain.InsightRecord, 0)
	for rows.Next() {
		rec := &domain.InsightRecord{}
		if err := rows.Scan(
			&rec.ID,
			&rec.AccountID,
			&rec.CampaignExternalID,
			&rec.UserID,
			&rec.DateStart,
			&rec.DateStop,
			&rec.Counters.Impressions,
			&rec.Counters.Clicks,
			&rec.Counters.Reach,
			&rec.Counters.Spend,
			&rec.Counters.Conversions,
			&rec.Counters.Revenue,
			&rec.UpdatedAt,
		); err != nil {
			return nil, persistenceError("scan insight", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate insights", err)
	}

	return records, nil
}
