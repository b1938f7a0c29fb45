package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/migration"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/queue"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository"
	"github.com/vfg2006/meta-ads-sync-api/internal/api"
	"github.com/vfg2006/meta-ads-sync-api/internal/api/handler"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/scheduler"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/account"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/authenticating"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/insighting"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/meta-ads-sync-api/pkg/crypto"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	// valores monetários saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.Apply(ctx, pgConn); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar o schema do banco de dados")
		}
		logrus.Info("Schema do banco de dados aplicado")
	}

	appMetrics := metrics.Default(cfg.Metrics.Namespace)

	cipher, err := crypto.NewTokenCipher(cfg.Crypto.TokenEncryptionKey)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao inicializar a criptografia de tokens")
	}

	accountRepo := repository.NewAccountRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	insightRepo := repository.NewInsightRepository(pgConn)
	credentialRepo := repository.NewCredentialRepository(pgConn)

	throttle, closeThrottle := newThrottle(ctx, cfg.Redis)
	defer closeThrottle()

	publisher := newPublisher(cfg.RabbitMQ)
	defer publisher.Close()

	metaClient := metaclient.NewClient(cfg.Meta, throttle, appMetrics)
	metaIntegrator := meta.New(metaClient)

	credentialService := credential.NewService(credentialRepo, cipher, appMetrics)
	accountService := account.NewService(accountRepo, metaIntegrator, credentialService)

	syncService := syncing.NewService(
		accountService,
		credentialService,
		metaIntegrator,
		campaignRepo,
		insightRepo,
		publisher,
		appMetrics,
		cfg.Sync,
	)

	insightService := insighting.NewService(
		accountService,
		credentialService,
		metaIntegrator,
		insightRepo,
		appMetrics,
		cfg.Sync,
	)

	campaignSyncService := scheduler.NewCampaignSyncService(accountRepo, syncService, cfg.CampaignSync)
	if err := campaignSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de campanhas")
	} else {
		logrus.Info("Agendador de sincronização de campanhas iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticating.NewService(cfg.Auth),
		Credentials:   credentialService,
		Accounts:      accountService,
		Sync:          syncService,
		Insights:      insightService,
		CronJobs: map[string]handler.CronJob{
			handler.CronJobTypeCampaigns: campaignSyncService,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// newThrottle usa Redis quando habilitado, para que várias instâncias respeitem o mesmo bloqueio
func newThrottle(ctx context.Context, cfg config.Redis) (metaclient.Throttle, func()) {
	if !cfg.Enabled {
		logrus.Info("Redis desabilitado, usando controle de rate limit em memória")
		return metaclient.NewMemoryThrottle(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis indisponível, usando controle de rate limit em memória")
		client.Close()
		return metaclient.NewMemoryThrottle(), func() {}
	}

	return metaclient.NewRedisThrottle(client), func() { client.Close() }
}

func newPublisher(cfg config.RabbitMQ) queue.Publisher {
	if !cfg.Enabled {
		return queue.NopPublisher{}
	}

	publisher, err := queue.NewRabbitPublisher(cfg)
	if err != nil {
		logrus.WithError(err).Warn("RabbitMQ indisponível, eventos de sincronização não serão publicados")
		return queue.NopPublisher{}
	}

	return publisher
}
