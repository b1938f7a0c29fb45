package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validação", err: NewValidationError("account_id", "invalid"), want: KindValidation},
		{name: "auth encapsulado", err: fmt.Errorf("list campaigns: %w", &AuthError{Code: 190}), want: KindAuth},
		{name: "api remota", err: &RemoteAPIError{StatusCode: 400, Code: 100}, want: KindRemoteAPI},
		{name: "rede", err: &NetworkError{Op: "GET", Err: errors.New("connection refused")}, want: KindNetwork},
		{name: "timeout", err: &NetworkError{Op: "GET", Timeout: true, Err: context.DeadlineExceeded}, want: KindTimeout},
		{name: "persistência", err: &PersistenceError{Op: "replace campaigns", Err: errors.New("tx aborted")}, want: KindPersistence},
		{name: "conta não encontrada", err: fmt.Errorf("resolve: %w", ErrAccountNotFound), want: KindNotFound},
		{name: "credencial ausente", err: ErrCredentialNotFound, want: KindNotFound},
		{name: "sync em andamento", err: ErrSyncInProgress, want: KindConflict},
		{name: "desconhecido", err: errors.New("boom"), want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestRequiresReconnect(t *testing.T) {
	assert.True(t, RequiresReconnect(&AuthError{Code: 190}))
	assert.True(t, RequiresReconnect(fmt.Errorf("get token: %w", ErrCredentialNotFound)))
	assert.False(t, RequiresReconnect(&RemoteAPIError{StatusCode: 500}))
	assert.False(t, RequiresReconnect(ErrAccountNotFound))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&NetworkError{Op: "GET", Err: errors.New("reset")}))
	assert.True(t, IsRetryable(&NetworkError{Op: "GET", Timeout: true}))
	assert.False(t, IsRetryable(&AuthError{Code: 190}))
	assert.False(t, IsRetryable(&RemoteAPIError{StatusCode: 400}))
}

func TestPersistenceError_Unwrap(t *testing.T) {
	cause := errors.New("unique violation")
	err := &PersistenceError{Op: "insert", Code: "23505", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "23505")
}

func TestNewAccountFailure(t *testing.T) {
	failure := NewAccountFailure("act_1", &AuthError{Code: 190, Message: "expired"})

	assert.Equal(t, "act_1", failure.AccountID)
	assert.Equal(t, KindAuth, failure.Kind)
	assert.True(t, failure.ReconnectRequired)
	assert.Contains(t, failure.Message, "expired")
}
