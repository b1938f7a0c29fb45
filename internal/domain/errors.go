package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifica um erro dentro da taxonomia usada pela API
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindAuth        ErrorKind = "auth"
	KindRemoteAPI   ErrorKind = "remote_api"
	KindNetwork     ErrorKind = "network"
	KindTimeout     ErrorKind = "timeout"
	KindPersistence ErrorKind = "persistence"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindUnknown     ErrorKind = "unknown"
)

var (
	ErrCredentialNotFound = errors.New("meta credential not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSyncInProgress     = errors.New("sync already in progress for account")
)

// ValidationError indica identificador ou requisição malformada, sempre antes de qualquer chamada remota
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthError indica que a Meta rejeitou o token (código 190)
type AuthError struct {
	Code    int
	Subcode int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("meta auth error (code: %d, subcode: %d): %s", e.Code, e.Subcode, e.Message)
}

// RemoteAPIError é qualquer outra resposta 4xx/5xx da Meta
type RemoteAPIError struct {
	StatusCode  int
	Code        int
	Subcode     int
	Type        string
	Message     string
	FBTraceID   string
	RateLimited bool
	// Truncated indica que a listagem tinha mais páginas do que o limite configurado
	Truncated   bool
}

func (e *RemoteAPIError) Error() string {
	return fmt.Sprintf("meta api error (status: %d, code: %d): %s", e.StatusCode, e.Code, e.Message)
}

type NetworkError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("timeout during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// PersistenceError separa "não conseguimos salvar" de "não conseguimos falar com a Meta"
type PersistenceError struct {
	Op   string
	Code string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("persistence error during %s: %v (code: %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("persistence error during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// KindOf retorna a categoria de um erro, inspecionando toda a cadeia de wrapping
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var (
		validationErr  *ValidationError
		authErr        *AuthError
		remoteErr      *RemoteAPIError
		networkErr     *NetworkError
		persistenceErr *PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &remoteErr):
		return KindRemoteAPI
	case errors.As(err, &networkErr):
		if networkErr.Timeout {
			return KindTimeout
		}
		return KindNetwork
	case errors.As(err, &persistenceErr):
		return KindPersistence
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrCredentialNotFound):
		return KindNotFound
	case errors.Is(err, ErrSyncInProgress):
		return KindConflict
	}

	return KindUnknown
}

// IsRetryable diz se o erro pode ser repetido com backoff
func IsRetryable(err error) bool {
	kind := KindOf(err)
	return kind == KindNetwork || kind == KindTimeout
}

// RequiresReconnect é verdadeiro quando o usuário precisa reconectar a conta da Meta
func RequiresReconnect(err error) bool {
	return KindOf(err) == KindAuth || errors.Is(err, ErrCredentialNotFound)
}
