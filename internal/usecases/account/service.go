package account

import (
	"context"

	"github.com/vfg2006/meta-ads-sync-api/infrastructure/integrator/meta"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Resolver traduz o id externo de uma conta para a conta interna do usuário
type Resolver interface {
	Resolve(ctx context.Context, userID, externalAccountID string) (*domain.AdAccount, error)
}

type AccountService interface {
	Resolver
	ListForUser(ctx context.Context, userID string) ([]*domain.AdAccountResponse, error)
	Discover(ctx context.Context, userID string) (*domain.DiscoverAccountsResponse, error)
}

type Service struct {
	accountRepository repository.AccountRepository
	metaService       meta.Integrator
	credentials       credential.Store
}

func NewService(
	accountRepository repository.AccountRepository,
	metaService meta.Integrator,
	credentials credential.Store,
) *Service {
	return &Service{
		accountRepository: accountRepository,
		metaService:       metaService,
		credentials:       credentials,
	}
}

// Resolve normaliza o id e busca a conta sempre filtrando pelo dono
func (s *Service) Resolve(ctx context.Context, userID, externalAccountID string) (*domain.AdAccount, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	storageID, err := domain.NormalizeAccountID(externalAccountID)
	if err != nil {
		return nil, err
	}

	return s.accountRepository.GetByExternalIDAndUser(ctx, storageID, userID)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*domain.AdAccountResponse, error) {
	accounts, err := s.accountRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]*domain.AdAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, domain.NewAdAccountResponse(account))
	}

	return response, nil
}

// Discover busca em /me/adaccounts as contas visíveis pelo token e as registra para o usuário
func (s *Service) Discover(ctx context.Context, userID string) (*domain.DiscoverAccountsResponse, error) {
	logger := log.ForContext(ctx)

	token, err := s.credentials.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	remote, err := s.metaService.ListAdAccounts(ctx, token)
	if err != nil {
		if credential.ClearOnAuthFailure(ctx, s.credentials, userID, err) {
			logger.Warn("accounts: token rejeitado durante descoberta de contas")
		}
		return nil, err
	}

	accounts := make([]*domain.AdAccount, 0, len(remote))
	for _, r := range remote {
		accounts = append(accounts, &domain.AdAccount{
			ExternalID: r.ExternalID,
			UserID:     userID,
			Name:       r.Name,
			Currency:   r.Currency,
			Status:     r.Status,
		})
	}

	if err := s.accountRepository.SaveOrUpdate(ctx, accounts); err != nil {
		logger.WithError(err).Error("accounts: falha ao salvar contas descobertas")
		return nil, err
	}

	logger.WithField("quantity", len(accounts)).Info("accounts: contas sincronizadas com a Meta")

	response := &domain.DiscoverAccountsResponse{
		Quantity: len(accounts),
		Accounts: make([]*domain.AdAccountResponse, 0, len(accounts)),
	}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, domain.NewAdAccountResponse(account))
	}

	return response, nil
}
