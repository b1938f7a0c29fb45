package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/meta-ads-sync-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes

	// Erros da integração com a Meta
	ErrMetaReconnectRequired = "META_001" // Token da Meta rejeitado, usuário precisa reconectar
	ErrMetaNotConnected      = "META_002" // Nenhum token da Meta armazenado

	// Erros de conta
	ErrAccountNotFound = "ACC_001"

	// Erros de sincronização
	ErrSyncInProgress = "SYNC_001"

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de roteamento
	ErrRouteNotFound    = "RT_001"
	ErrMethodNotAllowed = "RT_002"

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
	ErrCommunication     = "SRV_004" // Erro de comunicação
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrMetaReconnectRequired: http.StatusUnauthorized,
	ErrMetaNotConnected:      http.StatusUnauthorized,
	ErrAccountNotFound:       http.StatusNotFound,
	ErrSyncInProgress:        http.StatusConflict,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrRouteNotFound:         http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
	ErrCommunication:         http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor devolve o status HTTP de um código de erro
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}

// CodeFor traduz a taxonomia de erros do domínio para o código da API
func CodeFor(err error) string {
	if errors.Is(err, domain.ErrCredentialNotFound) {
		return ErrMetaNotConnected
	}

	switch domain.KindOf(err) {
	case domain.KindValidation:
		return ErrInvalidRequest
	case domain.KindAuth:
		return ErrMetaReconnectRequired
	case domain.KindNotFound:
		return ErrAccountNotFound
	case domain.KindConflict:
		return ErrSyncInProgress
	case domain.KindRemoteAPI:
		return ErrExternalService
	case domain.KindNetwork, domain.KindTimeout:
		return ErrCommunication
	case domain.KindPersistence:
		return ErrDatabaseOperation
	}

	return ErrInternalServer
}

// WriteDomainError escreve um erro do domínio com o código correspondente
func WriteDomainError(w http.ResponseWriter, err error) {
	code := CodeFor(err)

	message := err.Error()
	if code == ErrMetaReconnectRequired || code == ErrMetaNotConnected {
		message = "reconnect required: " + message
	}
	if code == ErrInternalServer || code == ErrDatabaseOperation {
		message = "Erro interno do servidor"
	}

	WriteError(w, code, message, nil)
}
