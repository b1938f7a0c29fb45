package apiErrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"validação", domain.NewValidationError("account_id", "digits"), ErrInvalidRequest},
		{"token rejeitado", &domain.AuthError{Code: 190}, ErrMetaReconnectRequired},
		{"sem credencial", fmt.Errorf("get: %w", domain.ErrCredentialNotFound), ErrMetaNotConnected},
		{"conta não encontrada", domain.ErrAccountNotFound, ErrAccountNotFound},
		{"sync em andamento", domain.ErrSyncInProgress, ErrSyncInProgress},
		{"erro remoto", &domain.RemoteAPIError{StatusCode: 400}, ErrExternalService},
		{"timeout", &domain.NetworkError{Timeout: true, Err: errors.New("deadline")}, ErrCommunication},
		{"persistência", &domain.PersistenceError{Op: "insert", Err: errors.New("boom")}, ErrDatabaseOperation},
		{"desconhecido", errors.New("boom"), ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeFor(tt.err))
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteDomainError(rec, &domain.AuthError{Code: 190, Message: "Session has expired"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrMetaReconnectRequired, body.Code)
	assert.Contains(t, body.Message, "reconnect required")
}
