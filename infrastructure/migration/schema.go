package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/database/postgres"
)

// statements cria o schema mínimo usado pelos repositórios. Todas são idempotentes.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS meta_credentials (
		user_id      TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id          TEXT PRIMARY KEY,
		external_id TEXT NOT NULL,
		user_id     TEXT NOT NULL,
		name        TEXT NOT NULL,
		currency    TEXT NOT NULL DEFAULT 'USD',
		status      TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (external_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id              TEXT PRIMARY KEY,
		external_id     TEXT NOT NULL,
		account_id      TEXT NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
		user_id         TEXT NOT NULL,
		name            TEXT NOT NULL,
		objective       TEXT NOT NULL,
		status          TEXT NOT NULL,
		daily_budget    NUMERIC(14, 2),
		lifetime_budget NUMERIC(14, 2),
		created_time    TIMESTAMPTZ,
		updated_time    TIMESTAMPTZ,
		start_time      TIMESTAMPTZ,
		stop_time       TIMESTAMPTZ,
		synced_at       TIMESTAMPTZ NOT NULL,
		UNIQUE (account_id, external_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_account_created ON campaigns (account_id, created_time DESC)`,
	`CREATE TABLE IF NOT EXISTS campaign_insights (
		id                   TEXT PRIMARY KEY,
		account_id           TEXT NOT NULL REFERENCES accounts (id) ON DELETE CASCADE,
		campaign_external_id TEXT NOT NULL DEFAULT '',
		user_id              TEXT NOT NULL,
		date_start           DATE NOT NULL,
		date_stop            DATE NOT NULL,
		impressions          BIGINT NOT NULL DEFAULT 0,
		clicks               BIGINT NOT NULL DEFAULT 0,
		reach                BIGINT NOT NULL DEFAULT 0,
		spend                NUMERIC(16, 4) NOT NULL DEFAULT 0,
		conversions          BIGINT NOT NULL DEFAULT 0,
		revenue              NUMERIC(16, 4) NOT NULL DEFAULT 0,
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (account_id, campaign_external_id, date_start)
	)`,
}

// Apply executa o schema em uma única transação
func Apply(ctx context.Context, conn postgres.Conn) error {
	logrus.Info("Aplicando schema do banco de dados...")
	startTime := time.Now()

	err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("erro no statement %d do schema: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("duration_ms", time.Since(startTime).Milliseconds()).Info("Schema aplicado com sucesso")
	return nil
}
