package meta

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Integrator é a fachada da Graph API usada pelos casos de uso
type Integrator interface {
	ListCampaigns(ctx context.Context, accountID, token string) ([]*domain.RemoteCampaign, []error, error)
	FetchInsights(ctx context.Context, entityID string, query domain.InsightQuery, token string) ([]*domain.RemoteInsight, error)
	ListAdAccounts(ctx context.Context, token string) ([]*domain.RemoteAdAccount, error)
}

type MetaIntegrator struct {
	Client metaclient.Client
}

func New(client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		Client: client,
	}
}

// ListCampaigns busca as campanhas da conta e converte cada uma.
// Campanhas inválidas são descartadas e devolvidas na lista de erros por item.
func (s *MetaIntegrator) ListCampaigns(ctx context.Context, accountID, token string) ([]*domain.RemoteCampaign, []error, error) {
	logger := log.ForContext(ctx).WithField("account_id", accountID)

	externalID, err := domain.NormalizeAccountID(accountID)
	if err != nil {
		return nil, nil, err
	}

	raw, err := s.Client.GetCampaignsByAccountID(ctx, externalID, token)
	if err != nil {
		logger.WithField("error", err.Error()).Error("campaigns: failed to get campaigns from API")
		return nil, nil, err
	}

	campaigns := make([]*domain.RemoteCampaign, 0, len(raw))
	var itemErrors []error

	for _, item := range raw {
		campaign, err := metadomain.ParseCampaign(item)
		if err != nil {
			logger.WithFields(log.Fields{
				"campaign_id": item.ID,
				"error":       err.Error(),
			}).Warn("campaigns: skipping invalid campaign")
			itemErrors = append(itemErrors, fmt.Errorf("campaign %q: %w", item.ID, err))
			continue
		}
		campaigns = append(campaigns, campaign)
	}

	logger.WithFields(log.Fields{
		"received": len(raw),
		"valid":    len(campaigns),
	}).Debug("campaigns: successfully retrieved campaigns")

	return campaigns, itemErrors, nil
}

// FetchInsights valida a consulta antes de qualquer chamada remota e devolve as linhas válidas
func (s *MetaIntegrator) FetchInsights(ctx context.Context, entityID string, query domain.InsightQuery, token string) ([]*domain.RemoteInsight, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx).WithField("entity_id", entityID)

	raw, err := s.Client.GetInsights(ctx, entityID, query, token)
	if err != nil {
		logger.WithField("error", err.Error()).Error("insights: failed to get insights from API")
		return nil, err
	}

	insights := make([]*domain.RemoteInsight, 0, len(raw))
	for _, item := range raw {
		insight, err := metadomain.ParseInsight(item)
		if err != nil {
			logger.WithFields(log.Fields{
				"date_start": item.DateStart,
				"error":      err.Error(),
			}).Warn("insights: skipping invalid insight row")
			continue
		}
		insights = append(insights, insight)
	}

	return insights, nil
}

// ListAdAccounts devolve as contas de anúncio visíveis para o token
func (s *MetaIntegrator) ListAdAccounts(ctx context.Context, token string) ([]*domain.RemoteAdAccount, error) {
	raw, err := s.Client.GetAdAccounts(ctx, token)
	if err != nil {
		log.ForContext(ctx).WithField("error", err.Error()).Error("accounts: failed to list ad accounts from API")
		return nil, err
	}

	accounts := make([]*domain.RemoteAdAccount, 0, len(raw))
	for _, item := range raw {
		account, err := metadomain.ParseAdAccount(item)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": item.ID,
				"error":      err.Error(),
			}).Warn("accounts: skipping invalid ad account")
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}
