package insighting

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
	"golang.org/x/sync/errgroup"
)

// accountFetch busca os dados de uma conta e devolve a função que os incorpora ao resultado.
// commit só é chamada quando a conta inteira deu certo, sempre sob o lock do fan-out.
type accountFetch func(ctx context.Context, adAccount *domain.AdAccount, token string) (commit func(), err error)

type fanOutResult struct {
	requested int
	processed int
	failures  []domain.AccountFailure
}

// uniqueAccountIDs normaliza os ids e remove repetições, mantendo a primeira forma recebida.
// Ids inválidos viram falhas imediatas.
func uniqueAccountIDs(externalAccountIDs []string) ([]string, []domain.AccountFailure, int) {
	var (
		valid    []string
		failures []domain.AccountFailure
	)
	seen := make(map[string]struct{}, len(externalAccountIDs))

	for _, externalID := range externalAccountIDs {
		storageID, err := domain.NormalizeAccountID(externalID)
		key := storageID
		if err != nil {
			key = "invalid:" + externalID
		}

		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if err != nil {
			failures = append(failures, domain.NewAccountFailure(externalID, err))
			continue
		}
		valid = append(valid, externalID)
	}

	return valid, failures, len(seen)
}

// forEachAccount executa fetch para cada conta distinta com concorrência limitada.
// O token é lido uma única vez: uma AuthError de uma conta não afeta as demais do mesmo lote.
func (s *Service) forEachAccount(ctx context.Context, operation, userID string, externalAccountIDs []string, fetch accountFetch) *fanOutResult {
	valid, failures, requested := uniqueAccountIDs(externalAccountIDs)
	for _, failure := range failures {
		s.metrics.AggregateRuns.WithLabelValues("failed").Inc()
		log.ForContext(ctx).WithFields(log.Fields{
			"operation":  operation,
			"account_id": failure.AccountID,
		}).Warn("fan-out: id de conta inválido")
	}

	result := &fanOutResult{requested: requested, failures: failures}
	if len(valid) == 0 {
		return result
	}

	token, tokenErr := s.credentials.Get(ctx, userID)

	var (
		mu        sync.Mutex
		clearOnce sync.Once
	)

	limit := s.cfg.MaxConcurrentAccounts
	if limit <= 0 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for _, externalID := range valid {
		g.Go(func() error {
			commit, err := s.runAccount(ctx, userID, externalID, token, tokenErr, fetch)
			var authErr *domain.AuthError
			if errors.As(err, &authErr) {
				clearOnce.Do(func() {
					credential.ClearOnAuthFailure(ctx, s.credentials, userID, err)
				})
			}

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				result.failures = append(result.failures, domain.NewAccountFailure(externalID, err))
				s.metrics.AggregateRuns.WithLabelValues("failed").Inc()

				log.ForContext(ctx).WithError(err).WithFields(log.Fields{
					"operation":  operation,
					"account_id": externalID,
					"kind":       domain.KindOf(err),
				}).Warn("fan-out: conta ignorada")
				return nil
			}

			commit()
			result.processed++
			s.metrics.AggregateRuns.WithLabelValues("processed").Inc()
			return nil
		})
	}

	_ = g.Wait()

	sort.Slice(result.failures, func(i, j int) bool {
		return result.failures[i].AccountID < result.failures[j].AccountID
	})

	return result
}

// runAccount resolve a conta antes de olhar o token, então um id de outro usuário
// falha como conta não encontrada mesmo sem credencial.
func (s *Service) runAccount(ctx context.Context, userID, externalID, token string, tokenErr error, fetch accountFetch) (func(), error) {
	adAccount, err := s.resolver.Resolve(ctx, userID, externalID)
	if err != nil {
		return nil, err
	}

	if tokenErr != nil {
		return nil, tokenErr
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.AccountTimeout)
	defer cancel()

	return fetch(fetchCtx, adAccount, token)
}
