package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

const (
	campaignsTable   = "campaigns c"
	campaignsColumns = "c.id, c.external_id, c.account_id, c.user_id, c.name, c.objective, c.status, " +
		"c.daily_budget, c.lifetime_budget, c.created_time, c.updated_time, c.start_time, c.stop_time, c.synced_at"
)

// campaignBatchSize mantém cada INSERT (14 parâmetros por linha) abaixo do limite de 65535 do Postgres
const campaignBatchSize = 500

//go:generate mockgen -source=campaign.go -destination=mocks/mock_campaign.go -package=mocks

type CampaignRepository interface {
	ReplaceForAccount(ctx context.Context, accountID string, campaigns []*domain.Campaign) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Campaign, error)
}

type campaignRepository struct {
	conn postgres.Conn
}

func NewCampaignRepository(conn postgres.Conn) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

// ReplaceForAccount troca todas as campanhas da conta em uma única transação.
// Campanhas que continuam existindo na Meta mantêm o id interno.
func (r *campaignRepository) ReplaceForAccount(ctx context.Context, accountID string, campaigns []*domain.Campaign) error {
	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		existingIDs, err := existingCampaignIDs(ctx, tx, accountID)
		if err != nil {
			return err
		}

		deleteSQL, deleteArgs, err := squirrel.
			Delete("campaigns").
			Where(squirrel.Eq{"account_id": accountID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return pkgerrors.Wrap(err, "failed to build delete query")
		}

		if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
			return err
		}

		campaigns = dedupeCampaigns(campaigns)

		for start := 0; start < len(campaigns); start += campaignBatchSize {
			end := min(start+campaignBatchSize, len(campaigns))

			if err := insertCampaigns(ctx, tx, accountID, existingIDs, campaigns[start:end]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return persistenceError("replace campaigns", err)
	}

	return nil
}

func insertCampaigns(ctx context.Context, tx *sql.Tx, accountID string, existingIDs map[string]string, batch []*domain.Campaign) error {
	query := squirrel.StatementBuilder.
		Insert("campaigns").
		Columns("id", "external_id", "account_id", "user_id", "name", "objective", "status",
			"daily_budget", "lifetime_budget", "created_time", "updated_time", "start_time", "stop_time", "synced_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, c := range batch {
		if id, ok := existingIDs[c.ExternalID]; ok {
			c.ID = id
		} else if c.ID == "" {
			c.ID = uuid.NewString()
		}
		c.AccountID = accountID

		query = query.Values(
			c.ID,
			c.ExternalID,
			c.AccountID,
			c.UserID,
			c.Name,
			c.Objective,
			c.Status,
			c.DailyBudget,
			c.LifetimeBudget,
			c.CreatedTime,
			c.UpdatedTime,
			c.StartTime,
			c.StopTime,
			c.SyncedAt,
		)
	}

	insertSQL, insertArgs, err := query.ToSql()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build insert query")
	}

	_, err = tx.ExecContext(ctx, insertSQL, insertArgs...)
	return err
}

// dedupeCampaigns remove ids externos repetidos entre páginas; a última ocorrência vence
// e a posição da primeira é mantida
func dedupeCampaigns(campaigns []*domain.Campaign) []*domain.Campaign {
	position := make(map[string]int, len(campaigns))
	unique := make([]*domain.Campaign, 0, len(campaigns))

	for _, c := range campaigns {
		if i, seen := position[c.ExternalID]; seen {
			unique[i] = c
			continue
		}
		position[c.ExternalID] = len(unique)
		unique = append(unique, c)
	}

	return unique
}

func existingCampaignIDs(ctx context.Context, tx *sql.Tx, accountID string) (map[string]string, error) {
	query, args, err := squirrel.
		Select("external_id, id").
		From("campaigns").
		Where(squirrel.Eq{"account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build select query")
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]string)
	for rows.Next() {
		var externalID, id string
		if err := rows.Scan(&externalID, &id); err != nil {
			return nil, err
		}
		ids[externalID] = id
	}

	return ids, rows.Err()
}

// ListByAccount devolve as campanhas da conta, mais recentes primeiro
func (r *campaignRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Campaign, error) {
	query, args, err := squirrel.
		Select(campaignsColumns).
		From(campaignsTable).
		Where(squirrel.Eq{"c.account_id": accountID}).
		OrderBy("c.created_time DESC NULLS LAST", "c.external_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list campaigns", err)
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		c := &domain.Campaign{}
		if err := rows.Scan(
			&c.ID,
			&c.ExternalID,
			&c.AccountID,
			&c.UserID,
			&c.Name,
			&c.Objective,
			&c.Status,
			&c.DailyBudget,
			&c.LifetimeBudget,
			&c.CreatedTime,
			&c.UpdatedTime,
			&c.StartTime,
			&c.StopTime,
			&c.SyncedAt,
		); err != nil {
			return nil, persistenceError("scan campaign", err)
		}
		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate campaigns", err)
	}

	return campaigns, nil
}
