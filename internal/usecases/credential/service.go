package credential

import (
	"context"
	"errors"
	"strings"

	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	"github.com/vfg2006/meta-ads-sync-api/pkg/crypto"
	"github.com/vfg2006/meta-ads-sync-api/pkg/log"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Store é o único ponto de acesso ao token da Meta de cada usuário
type Store interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID, token string) error
	Clear(ctx context.Context, userID string) error
}

type Service struct {
	repo    repository.CredentialRepository
	cipher  *crypto.TokenCipher
	metrics *metrics.Metrics
}

func NewService(repo repository.CredentialRepository, cipher *crypto.TokenCipher, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		cipher:  cipher,
		metrics: m,
	}
}

// Get devolve o token em texto puro. Valores antigos gravados sem cifra são devolvidos como estão.
func (s *Service) Get(ctx context.Context, userID string) (string, error) {
	stored, err := s.repo.GetToken(ctx, userID)
	if err != nil {
		return "", err
	}

	token, err := s.cipher.Decrypt(stored)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidCiphertext) {
			log.ForContext(ctx).Warn("credential: token armazenado sem criptografia")
			return stored, nil
		}
		return "", err
	}

	return token, nil
}

func (s *Service) Set(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.NewValidationError("access_token", "must not be empty")
	}

	encrypted, err := s.cipher.Encrypt(token)
	if err != nil {
		return err
	}

	if err := s.repo.SaveToken(ctx, userID, encrypted); err != nil {
		return err
	}

	log.ForContext(ctx).Info("credential: token da Meta atualizado")
	return nil
}

// Clear remove o token. Só deve ser chamado quando a Meta rejeitar o token (código 190).
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.ClearToken(ctx, userID); err != nil {
		return err
	}

	s.metrics.CredentialClears.Inc()
	log.ForContext(ctx).WithField("user_id", userID).Warn("credential: token da Meta removido após rejeição")
	return nil
}

// ClearOnAuthFailure limpa o token apenas quando err é um AuthError. Devolve true se limpou.
func ClearOnAuthFailure(ctx context.Context, store Store, userID string, err error) bool {
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		return false
	}

	if clearErr := store.Clear(ctx, userID); clearErr != nil {
		log.ForContext(ctx).WithError(clearErr).Error("credential: falha ao remover token rejeitado")
	}

	return true
}
