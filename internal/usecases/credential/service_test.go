package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/meta-ads-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
	credentialmocks "github.com/vfg2006/meta-ads-sync-api/internal/usecases/credential/mocks"
	"github.com/vfg2006/meta-ads-sync-api/pkg/crypto"
	"github.com/vfg2006/meta-ads-sync-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T, repo *mocks.MockCredentialRepository) *Service {
	cipher, err := crypto.NewTokenCipher("a-test-encryption-key")
	require.NoError(t, err)

	return NewService(repo, cipher, metrics.NewNop())
}

func TestService_SetAndGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCredentialRepository(ctrl)
	service := newTestService(t, repo)
	ctx := context.Background()

	var stored string
	repo.EXPECT().
		SaveToken(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, token string) error {
			stored = token
			return nil
		})

	require.NoError(t, service.Set(ctx, "user-1", " EAAB-token "))
	assert.NotContains(t, stored, "EAAB-token")

	repo.EXPECT().GetToken(gomock.Any(), "user-1").Return(stored, nil)

	token, err := service.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "EAAB-token", token)
}

func TestService_SetRejectsEmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := newTestService(t, mocks.NewMockCredentialRepository(ctrl))

	err := service.Set(context.Background(), "user-1", "   ")

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestService_GetLegacyPlaintext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCredentialRepository(ctrl)
	service := newTestService(t, repo)

	repo.EXPECT().GetToken(gomock.Any(), "user-1").Return("EAAB-plain", nil)

	token, err := service.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "EAAB-plain", token)
}

func TestService_GetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockCredentialRepository(ctrl)
	service := newTestService(t, repo)

	repo.EXPECT().GetToken(gomock.Any(), "user-1").Return("", domain.ErrCredentialNotFound)

	_, err := service.Get(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.True(t, domain.RequiresReconnect(err))
}

func TestClearOnAuthFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := credentialmocks.NewMockStore(ctrl)
	ctx := context.Background()

	t.Run("AuthError limpa o token", func(t *testing.T) {
		store.EXPECT().Clear(gomock.Any(), "user-1").Return(nil)

		assert.True(t, ClearOnAuthFailure(ctx, store, "user-1", &domain.AuthError{Code: 190}))
	})

	t.Run("outros erros não limpam", func(t *testing.T) {
		assert.False(t, ClearOnAuthFailure(ctx, store, "user-1", &domain.RemoteAPIError{StatusCode: 500}))
		assert.False(t, ClearOnAuthFailure(ctx, store, "user-1", &domain.NetworkError{Timeout: true, Err: errors.New("deadline")}))
		assert.False(t, ClearOnAuthFailure(ctx, store, "user-1", domain.ErrCredentialNotFound))
	})
}
