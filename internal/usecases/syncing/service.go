package syncing

import (
	"context"
	"time"

	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/queue"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository"
	"github.com/vfg2006/meta-ads-sync-api/internal/config"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/account"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

type SyncService interface {
	Sync(ctx context.Context, userID, externalAccountID string) *domain.SyncOutcome
	SyncMany(ctx context.Context, userID string, externalAccountIDs []string) []*domain.SyncOutcome
	SyncInsights(ctx context.Context, userID, externalAccountID string, query domain.InsightQuery) (*domain.InsightSyncOutcome, error)
}

type Service struct {
	resolver     account.Resolver
	credentials  credential.Store
	metaService  meta.Integrator
	campaignRepo repository.CampaignRepository
	insightRepo  repository.InsightRepository
	publisher    queue.Publisher
	metrics      *metrics.Metrics
	cfg          config.Sync
	locks        *accountLocks
	now          func() time.Time
}

func NewService(
	resolver account.Resolver,
	credentials credential.Store,
	metaService meta.Integrator,
	campaignRepo repository.CampaignRepository,
	insightRepo repository.InsightRepository,
	publisher queue.Publisher,
	m *metrics.Metrics,
	cfg config.Sync,
) *Service {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}

	return &Service{
		resolver:     resolver,
		credentials:  credentials,
		metaService:  metaService,
		campaignRepo: campaignRepo,
		insightRepo:  insightRepo,
		publisher:    publisher,
		metrics:      m,
		cfg:          cfg,
		locks:        newAccountLocks(),
		now:          time.Now,
	}
}

// tokenSource entrega o token da Meta para uma sincronização
type tokenSource func(ctx context.Context) (string, error)

func (s *Service) storedToken(userID string) tokenSource {
	return func(ctx context.Context) (string, error) {
		return s.credentials.Get(ctx, userID)
	}
}

// preloadedToken reaproveita uma leitura já feita, inclusive o erro
func preloadedToken(token string, err error) tokenSource {
	return func(context.Context) (string, error) {
		return token, err
	}
}

// Sync executa IDLE → RESOLVING_ACCOUNT → FETCHING_REMOTE → RECONCILING → DONE para uma conta.
// Qualquer falha leva a ERROR; AuthError também remove o token do usuário.
func (s *Service) Sync(ctx context.Context, userID, externalAccountID string) *domain.SyncOutcome {
	return s.syncAccount(ctx, userID, externalAccountID, s.storedToken(userID))
}

func (s *Service) syncAccount(ctx context.Context, userID, externalAccountID string, tokens tokenSource) *domain.SyncOutcome {
	outcome := &domain.SyncOutcome{
		AccountID: externalAccountID,
		Campaigns: make([]*domain.Campaign, 0),
		StartedAt: s.now().UTC(),
	}
	r := newRun(ctx, outcome)

	defer s.finish(ctx, outcome)

	if err := r.transition(domain.SyncStateResolvingAccount); err != nil {
		r.fail(err)
		return outcome
	}

	storageID, err := domain.NormalizeAccountID(externalAccountID)
	if err != nil {
		r.fail(err)
		return outcome
	}

	lockKey := userID + ":" + storageID
	if !s.locks.TryLock(lockKey) {
		r.fail(domain.ErrSyncInProgress)
		return outcome
	}
	defer s.locks.Unlock(lockKey)

	adAccount, err := s.resolver.Resolve(ctx, userID, storageID)
	if err != nil {
		r.fail(err)
		return outcome
	}

	token, err := tokens(ctx)
	if err != nil {
		r.fail(err)
		return outcome
	}

	if err := r.transition(domain.SyncStateFetchingRemote); err != nil {
		r.fail(err)
		return outcome
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.AccountTimeout)
	remote, itemErrors, err := s.metaService.ListCampaigns(fetchCtx, adAccount.ExternalID, token)
	cancel()
	if err != nil {
		credential.ClearOnAuthFailure(ctx, s.credentials, userID, err)
		r.fail(err)
		return outcome
	}

	for _, itemErr := range itemErrors {
		outcome.Errors = append(outcome.Errors, itemErr.Error())
	}

	if err := r.transition(domain.SyncStateReconciling); err != nil {
		r.fail(err)
		return outcome
	}

	syncedAt := s.now().UTC()
	campaigns := make([]*domain.Campaign, 0, len(remote))
	for _, rc := range remote {
		campaigns = append(campaigns, domain.NewCampaign(adAccount, rc, syncedAt))
	}

	if err := s.campaignRepo.ReplaceForAccount(ctx, adAccount.ID, campaigns); err != nil {
		r.fail(err)
		return outcome
	}

	stored, err := s.campaignRepo.ListByAccount(ctx, adAccount.ID)
	if err != nil {
		r.fail(err)
		return outcome
	}

	if err := r.transition(domain.SyncStateDone); err != nil {
		r.fail(err)
		return outcome
	}

	outcome.Campaigns = stored
	outcome.SyncedCount = len(stored)

	event := domain.CampaignsSyncedEvent{
		UserID:      userID,
		AccountID:   adAccount.ID,
		ExternalID:  domain.ToExternalAccountID(adAccount.ExternalID),
		SyncedCount: outcome.SyncedCount,
		SyncedAt:    syncedAt,
	}
	if err := s.publisher.PublishCampaignsSynced(ctx, event); err != nil {
		log.ForContext(ctx).WithError(err).Warn("sync: falha ao publicar evento de sincronização")
	}

	return outcome
}

func (s *Service) finish(ctx context.Context, outcome *domain.SyncOutcome) {
	outcome.FinishedAt = s.now().UTC()
	duration := outcome.FinishedAt.Sub(outcome.StartedAt)

	kind := ""
	if outcome.Failure != nil {
		kind = string(outcome.Failure.Kind)
	}

	s.metrics.SyncRuns.WithLabelValues(string(outcome.State), kind).Inc()
	s.metrics.SyncDuration.WithLabelValues(string(outcome.State)).Observe(duration.Seconds())

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"account_id":  outcome.AccountID,
		"state":       outcome.State,
		"duration_ms": duration.Milliseconds(),
	})

	if outcome.Succeeded() {
		s.metrics.SyncedCampaigns.Add(float64(outcome.SyncedCount))
		logger.WithFields(log.Fields{
			"sync_count":   outcome.SyncedCount,
			"sync_skipped": len(outcome.Errors),
		}).Info("sync: conta sincronizada")
		return
	}

	logger.WithFields(log.Fields{
		"kind":  kind,
		"error": outcome.Err,
	}).Error("sync: falha ao sincronizar conta")
}

// SyncMany sincroniza várias contas com concorrência limitada.
// A falha de uma conta nunca interrompe as demais; a ordem do resultado segue a da requisição.
// O token é lido uma única vez: se uma conta o invalidar, as outras seguem com a leitura inicial.
func (s *Service) SyncMany(ctx context.Context, userID string, externalAccountIDs []string) []*domain.SyncOutcome {
	outcomes := make([]*domain.SyncOutcome, len(externalAccountIDs))
	if len(externalAccountIDs) == 0 {
		return outcomes
	}

	tokens := preloadedToken(s.credentials.Get(ctx, userID))

	limit := s.cfg.MaxConcurrentAccounts
	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, id := range externalAccountIDs {
		g.Go(func() error {
			outcomes[i] = s.syncAccount(ctx, userID, id, tokens)
			return nil
		})
	}

	_ = g.Wait()

	return outcomes
}

// SyncInsights busca insights por campanha e dia e grava por upsert
func (s *Service) SyncInsights(ctx context.Context, userID, externalAccountID string, query domain.InsightQuery) (*domain.InsightSyncOutcome, error) {
	outcome := &domain.InsightSyncOutcome{AccountID: externalAccountID}

	query.Level = domain.InsightLevelCampaign
	if query.Breakdown == "" {
		query.Breakdown = domain.BreakdownDay
	}

	fail := func(err error) (*domain.InsightSyncOutcome, error) {
		failure := domain.NewAccountFailure(externalAccountID, err)
		outcome.Failure = &failure
		return outcome, err
	}

	if err := query.Validate(); err != nil {
		return fail(err)
	}

	adAccount, err := s.resolver.Resolve(ctx, userID, externalAccountID)
	if err != nil {
		return fail(err)
	}

	token, err := s.credentials.Get(ctx, userID)
	if err != nil {
		return fail(err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.AccountTimeout)
	defer cancel()

	remote, err := s.metaService.FetchInsights(fetchCtx, domain.ToExternalAccountID(adAccount.ExternalID), query, token)
	if err != nil {
		credential.ClearOnAuthFailure(ctx, s.credentials, userID, err)
		return fail(err)
	}

	records := make([]*domain.InsightRecord, 0, len(remote))
	for _, ri := range remote {
		if !domain.IsValidCampaignID(ri.CampaignExternalID) {
			outcome.Skipped = append(outcome.Skipped, ri.DateStart.Format(time.DateOnly))
			continue
		}

		records = append(records, &domain.InsightRecord{
			AccountID:          adAccount.ID,
			CampaignExternalID: ri.CampaignExternalID,
			UserID:             userID,
			DateStart:          ri.DateStart,
			DateStop:           ri.DateStop,
			Counters:           ri.Counters,
		})
	}

	count, err := s.insightRepo.Upsert(ctx, records)
	if err != nil {
		return fail(err)
	}
	outcome.UpsertedCount = count

	log.ForContext(ctx).WithFields(log.Fields{
		"account_id":   externalAccountID,
		"sync_count":   count,
		"sync_skipped": len(outcome.Skipped),
	}).Info("sync: insights por campanha gravados")

	return outcome, nil
}
