package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
	"github.com/vfg2006/meta-ads-sync-api/pkg/utils"
)

// CampaignSyncService agenda a sincronização periódica de campanhas e insights de todas as contas ativas
type CampaignSyncService struct {
	scheduler   *gocron.Scheduler
	config      config.CampaignSync
	accountRepo repository.AccountRepository
	syncService syncing.SyncService
	now         func() time.Time

	syncMutex           sync.Mutex
	syncRunning         bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncFailures    int
}

func NewCampaignSyncService(
	accountRepo repository.AccountRepository,
	syncService syncing.SyncService,
	cfg config.CampaignSync,
) *CampaignSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":         cfg.CronSchedule,
		"lookback_days":         cfg.LookbackDays,
		"request_delay_seconds": cfg.RequestDelaySeconds,
		"max_concurrent_jobs":   cfg.MaxConcurrentJobs,
		"sync_enabled":          cfg.Enabled,
	}).Info("Configuração do agendador de campanhas carregada")

	return &CampaignSyncService{
		scheduler:   gocron.NewScheduler(time.UTC),
		config:      cfg,
		accountRepo: accountRepo,
		syncService: syncService,
		now:         time.Now,
	}
}

// Start agenda a execução e para o agendador quando ctx for cancelado
func (s *CampaignSyncService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Sincronização agendada de campanhas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de campanhas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.SyncAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de campanhas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de campanhas")
		s.scheduler.Stop()
	}()

	return nil
}

// SyncAll sincroniza campanhas e insights das contas ativas. Execuções sobrepostas são ignoradas.
func (s *CampaignSyncService) SyncAll(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de campanhas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	failures := 0
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = s.now()
		s.lastSyncFailures = failures
		s.syncMutex.Unlock()
	}()

	startTime := time.Now()

	accounts, err := s.accountRepo.ListActive(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar contas ativas para sincronização")
		failures = 1
		return
	}

	if len(accounts) == 0 {
		logrus.Info("Nenhuma conta ativa encontrada para sincronização")
		return
	}

	query := s.insightQuery()
	failures = s.processAccounts(ctx, accounts, query)

	logrus.WithFields(logrus.Fields{
		"duration": time.Since(startTime).String(),
		"accounts": len(accounts),
		"failures": failures,
		"days":     s.config.LookbackDays,
	}).Info("Sincronização agendada de campanhas concluída")
}

// insightQuery cobre os últimos LookbackDays dias, terminando ontem
func (s *CampaignSyncService) insightQuery() domain.InsightQuery {
	days := s.config.LookbackDays
	if days <= 0 {
		days = 1
	}

	today := utils.TruncateToDay(s.now().UTC())

	return domain.InsightQuery{
		Range: &domain.DateRange{
			Since: today.AddDate(0, 0, -days),
			Until: today.AddDate(0, 0, -1),
		},
		Breakdown: domain.BreakdownDay,
		Level:     domain.InsightLevelCampaign,
	}
}

func (s *CampaignSyncService) processAccounts(ctx context.Context, accounts []*domain.AdAccount, query domain.InsightQuery) int {
	workers := s.config.MaxConcurrentJobs
	if workers <= 0 {
		workers = 1
	}

	semaphore := make(chan struct{}, workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)

	for _, account := range accounts {
		if account.ExternalID == "" {
			logrus.WithField("account_id", account.ID).Warn("Conta sem external_id. Pulando.")
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *domain.AdAccount) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			if !s.processAccount(ctx, acc, query) {
				mu.Lock()
				failures++
				mu.Unlock()
			}

			s.wait(ctx)
		}(account)
	}

	wg.Wait()

	return failures
}

func (s *CampaignSyncService) processAccount(ctx context.Context, acc *domain.AdAccount, query domain.InsightQuery) bool {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"account_id":   acc.ID,
		"external_id":  acc.ExternalID,
		"account_name": acc.Name,
	})

	outcome := s.syncService.Sync(ctx, acc.UserID, acc.ExternalID)
	if !outcome.Succeeded() {
		// sem token válido não há por que buscar insights
		if outcome.ReconnectRequired {
			logger.Warn("Conta exige reconexão com a Meta. Pulando insights.")
		}
		return false
	}

	s.wait(ctx)

	result, err := s.syncService.SyncInsights(ctx, acc.UserID, acc.ExternalID, query)
	if err != nil {
		logger.WithError(err).Error("Erro ao sincronizar insights por campanha")
		return false
	}

	logger.WithFields(log.Fields{
		"campaigns": outcome.SyncedCount,
		"insights":  result.UpsertedCount,
	}).Info("Conta sincronizada pelo agendador")

	return true
}

// wait aguarda RequestDelaySeconds entre chamadas para não sobrecarregar a API
func (s *CampaignSyncService) wait(ctx context.Context) {
	if s.config.RequestDelaySeconds <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(s.config.RequestDelaySeconds) * time.Second):
	}
}

// TriggerManualSync dispara uma sincronização fora do agendamento
func (s *CampaignSyncService) TriggerManualSync(ctx context.Context) bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Sincronização de campanhas já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando sincronização manual de campanhas")
	go s.SyncAll(context.WithoutCancel(ctx))
	return true
}

// GetStatus retorna o status atual do agendador
func (s *CampaignSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_running":           s.syncRunning,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_failures":     s.lastSyncFailures,
	}
}
