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
)

const credentialsTable = "meta_credentials"

//go:generate mockgen -source=credential.go -destination=mocks/mock_credential.go -package=mocks

// CredentialRepository guarda o token da Meta de cada usuário, já cifrado
type CredentialRepository interface {
	GetToken(ctx context.Context, userID string) (string, error)
	SaveToken(ctx context.Context, userID, token string) error
	ClearToken(ctx context.Context, userID string) error
}

type credentialRepository struct {
	conn postgres.Conn
}

func NewCredentialRepository(conn postgres.Conn) CredentialRepository {
	return &credentialRepository{
		conn: conn,
	}
}

func (r *credentialRepository) GetToken(ctx context.Context, userID string) (string, error) {
	query, args, err := squirrel.
		Select("access_token").
		From(credentialsTable).
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return "", pkgerrors.Wrap(err, "erro ao construir a query")
	}

	var token string
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrCredentialNotFound
		}
		return "", persistenceError("get credential", err)
	}

	if token == "" {
		return "", domain.ErrCredentialNotFound
	}

	return token, nil
}

func (r *credentialRepository) SaveToken(ctx context.Context, userID, token string) error {
	query, args, err := squirrel.StatementBuilder.
		Insert(credentialsTable).
		Columns("user_id", "access_token", "updated_at").
		Values(userID, token, time.Now().UTC()).
		Suffix(`
			ON CONFLICT (user_id) DO UPDATE SET
				access_token = EXCLUDED.access_token,
				updated_at = EXCLUDED.updated_at
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return persistenceError("save credential", err)
	}

	return nil
}

// ClearToken remove o token; remover um token inexistente não é erro
func (r *credentialRepository) ClearToken(ctx context.Context, userID string) error {
	query, args, err := squirrel.
		Delete(credentialsTable).
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to build query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return persistenceError("clear credential", err)
	}

	return nil
}
