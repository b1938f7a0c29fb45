package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/utils"
)

const (
	accountsTable   = "accounts a"
	accountsColumns = "a.id, a.external_id, a.user_id, a.name, a.currency, a.status, a.created_at, a.updated_at"
)

//go:generate mockgen -source=account.go -destination=mocks/mock_account.go -package=mocks

type AccountRepository interface {
	GetByExternalIDAndUser(ctx context.Context, externalID, userID string) (*domain.AdAccount, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.AdAccount, error)
	ListActive(ctx context.Context) ([]*domain.AdAccount, error)
	SaveOrUpdate(ctx context.Context, accounts []*domain.AdAccount) error
}

type accountRepository struct {
	conn postgres.Conn
}

func NewAccountRepository(conn postgres.Conn) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

// GetByExternalIDAndUser busca a conta pelo id externo, sempre restrita ao dono
func (r *accountRepository) GetByExternalIDAndUser(ctx context.Context, externalID, userID string) (*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select(accountsColumns).
		From(accountsTable).
		Where(squirrel.Eq{"a.external_id": externalID, "a.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao construir a query")
	}

	acc, err := scanAccount(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, persistenceError("get account", err)
	}

	return acc, nil
}

func (r *accountRepository) ListByUser(ctx context.Context, userID string) ([]*domain.AdAccount, error) {
	return r.list(ctx, squirrel.Eq{"a.user_id": userID})
}

// ListActive devolve as contas ativas de todos os usuários, usada pelo agendador
func (r *accountRepository) ListActive(ctx context.Context) ([]*domain.AdAccount, error) {
	return r.list(ctx, squirrel.Eq{"a.status": domain.AdAccountStatusActive})
}

func (r *accountRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*domain.AdAccount, error) {
	query, args, err := squirrel.
		Select(accountsColumns).
		From(accountsTable).
		Where(where).
		OrderBy("a.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistenceError("list accounts", err)
	}
	defer rows.Close()

	accounts := make([]*domain.AdAccount, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, persistenceError("scan account", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError("iterate accounts", err)
	}

	return accounts, nil
}

// SaveOrUpdate grava as contas descobertas. Em conflito (external_id, user_id) só os dados
// descritivos mudam e o id existente é devolvido em account.ID.
func (r *accountRepository) SaveOrUpdate(ctx context.Context, accounts []*domain.AdAccount) error {
	if len(accounts) == 0 {
		return nil
	}

	now := time.Now().UTC()

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, account := range accounts {
			if account.ID == "" {
				id, err := utils.GenerateID()
				if err != nil {
					return pkgerrors.Wrap(err, "error generating account id")
				}
				account.ID = id
			}

			query, args, err := squirrel.StatementBuilder.
				Insert("accounts").
				Columns("id", "external_id", "user_id", "name", "currency", "status", "created_at", "updated_at").
				Values(account.ID, account.ExternalID, account.UserID, account.Name, account.Currency, account.Status, now, now).
				Suffix(`
					ON CONFLICT (external_id, user_id) DO UPDATE SET
						name = EXCLUDED.name,
						currency = EXCLUDED.currency,
						status = EXCLUDED.status,
						updated_at = EXCLUDED.updated_at
					RETURNING id, created_at
				`).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return pkgerrors.Wrap(err, "failed to build query")
			}

			if err := tx.QueryRowContext(ctx, query, args...).Scan(&account.ID, &account.CreatedAt); err != nil {
				return err
			}
			account.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return persistenceError("save accounts", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*domain.AdAccount, error) {
	acc := &domain.AdAccount{}

	if err := row.Scan(
		&acc.ID,
		&acc.ExternalID,
		&acc.UserID,
		&acc.Name,
		&acc.Currency,
		&acc.Status,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return acc, nil
}
